package filters

import (
	"fmt"
	"net/url"

	"github.com/gartstein/crm/internal/crm/models"
)

// ProfessionFilter is the parsed filter set for /professions.
type ProfessionFilter struct {
	Name      *string
	Employees IntRange
}

// ParseProfession reads name and the number_of_employees bounds.
func ParseProfession(values url.Values) (ProfessionFilter, error) {
	p := newParser(values)
	f := ProfessionFilter{
		Name:      p.str("name"),
		Employees: p.intRange("number_of_employees", "min_number_of_employees", "max_number_of_employees"),
	}
	return f, p.err()
}

// EmployeeFilter is the parsed filter set for /employees.
type EmployeeFilter struct {
	Name           *string
	Gender         *models.Gender
	Age            IntRange
	Salary         IntRange
	HiredDate      TimeRange
	PromotionDate  TimeRange
	ProfessionName *string
	CompanyName    *string
}

// ParseEmployee reads the employee filters, including the related-name
// lookups profession_name and company_name.
func ParseEmployee(values url.Values) (EmployeeFilter, error) {
	p := newParser(values)
	f := EmployeeFilter{
		Name:           p.str("name"),
		Age:            p.intRange("age", "min_age", "max_age"),
		Salary:         p.intRange("salary", "min_salary", "max_salary"),
		HiredDate:      p.timeRange("hired_date", "from_hired_date", "to_hired_date"),
		PromotionDate:  p.timeRange("promotion_date", "from_promotion_date", "to_promotion_date"),
		ProfessionName: p.str("profession_name"),
		CompanyName:    p.str("company_name"),
	}
	if g := p.str("gender"); g != nil {
		gender := models.Gender(*g)
		if gender.Valid() {
			f.Gender = &gender
		} else {
			p.errs.Add("gender", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", *g))
		}
	}
	return f, p.err()
}

// CompanyFilter is the parsed filter set for /companies.
type CompanyFilter struct {
	Name             *string
	TypeOfCompany    *string
	Country          *string
	YearOfFoundation TimeRange
	Employees        IntRange
	Partners         IntRange
}

// ParseCompany reads the company filters and both aggregate count bounds.
func ParseCompany(values url.Values) (CompanyFilter, error) {
	p := newParser(values)
	f := CompanyFilter{
		Name:             p.str("name"),
		TypeOfCompany:    p.str("type_of_company"),
		Country:          p.str("country"),
		YearOfFoundation: p.timeRange("year_of_foundation", "from_year_of_foundation", "to_year_of_foundation"),
		Employees:        p.intRange("number_of_employees", "min_number_of_employees", "max_number_of_employees"),
		Partners:         p.intRange("number_of_partners", "min_number_of_partners", "max_number_of_partners"),
	}
	return f, p.err()
}

// PartnerShipFilter is the parsed filter set for /partnerships.
type PartnerShipFilter struct {
	CompanyInviterName *string
	YearPartnership    TimeRange
}

// ParsePartnerShip reads company_inviter_name and the year_partnership bounds.
func ParsePartnerShip(values url.Values) (PartnerShipFilter, error) {
	p := newParser(values)
	f := PartnerShipFilter{
		CompanyInviterName: p.str("company_inviter_name"),
		YearPartnership:    p.timeRange("year_partnership", "from_year_partnership", "to_year_partnership"),
	}
	return f, p.err()
}
