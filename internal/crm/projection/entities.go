package projection

import (
	"github.com/gartstein/crm/internal/crm/models"
)

var Professions = Table[models.Profession]{
	ViewList:   professionList,
	ViewDetail: professionDetail,
}

var Employees = Table[models.Employee]{
	ViewList:   employeeList,
	ViewDetail: employeeDetail,
}

var Companies = Table[models.Company]{
	ViewList:   companyList,
	ViewDetail: companyDetail,
}

var PartnerShips = Table[models.PartnerShip]{
	ViewList:   partnershipList,
	ViewDetail: partnershipDetail,
}

type ProfessionListItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ProfessionEmployee is an employee nested in a profession.
type ProfessionEmployee struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	URL     string `json:"url"`
}

type ProfessionDetail struct {
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	NumberOfEmployees int64                `json:"number_of_employees"`
	Employees         []ProfessionEmployee `json:"employees"`
}

func professionList(l Linker, p *models.Profession) interface{} {
	return ProfessionListItem{
		Name: p.Name,
		URL:  l.Link(models.ProfessionsResource, p.ID),
	}
}

func professionDetail(l Linker, p *models.Profession) interface{} {
	employees := make([]ProfessionEmployee, len(p.Employees))
	for i, emp := range p.Employees {
		employees[i] = ProfessionEmployee{
			Name:    emp.Name,
			Company: emp.Company.Name,
			URL:     l.Link(models.EmployeesResource, emp.ID),
		}
	}
	return ProfessionDetail{
		Name:              p.Name,
		Description:       p.Description,
		NumberOfEmployees: p.NumberOfEmployees,
		Employees:         employees,
	}
}

// EmployeeListItem omits salary and contact fields.
type EmployeeListItem struct {
	Name       string `json:"name"`
	Profession string `json:"profession"`
	Company    string `json:"company"`
	URL        string `json:"url"`
}

type EmployeeDetail struct {
	Name          string        `json:"name"`
	Age           int           `json:"age"`
	Gender        models.Gender `json:"gender"`
	Photo         string        `json:"photo"`
	HiredDate     string        `json:"hired_date"`
	Company       string        `json:"company"`
	Profession    string        `json:"profession"`
	Salary        int64         `json:"salary"`
	PromotionDate string        `json:"promotion_date"`
	PhoneNumber   string        `json:"phone_number"`
	Email         string        `json:"email"`
}

func employeeList(l Linker, emp *models.Employee) interface{} {
	return EmployeeListItem{
		Name:       emp.Name,
		Profession: emp.Profession.Name,
		Company:    emp.Company.Name,
		URL:        l.Link(models.EmployeesResource, emp.ID),
	}
}

func employeeDetail(l Linker, emp *models.Employee) interface{} {
	return EmployeeDetail{
		Name:          emp.Name,
		Age:           emp.Age,
		Gender:        emp.Gender,
		Photo:         emp.Photo,
		HiredDate:     l.Time(emp.HiredDate),
		Company:       l.Link(models.CompaniesResource, emp.CompanyID),
		Profession:    l.Link(models.ProfessionsResource, emp.ProfessionID),
		Salary:        emp.Salary,
		PromotionDate: l.Time(emp.PromotionDate),
		PhoneNumber:   emp.PhoneNumber,
		Email:         emp.Email,
	}
}

type CompanyListItem struct {
	Name              string `json:"name"`
	Tagline           string `json:"tagline"`
	TypeOfCompany     string `json:"type_of_company"`
	YearOfFoundation  string `json:"year_of_foundation"`
	Country           string `json:"country"`
	NumberOfEmployees int64  `json:"number_of_employees"`
	NumberOfPartners  int64  `json:"number_of_partners"`
	URL               string `json:"url"`
}

// CompanyEmployee is an employee nested in a company.
type CompanyEmployee struct {
	Name       string `json:"name"`
	Profession string `json:"profession"`
	URL        string `json:"url"`
}

type CompanyDetail struct {
	Name              string            `json:"name"`
	Logo              string            `json:"logo"`
	Tagline           string            `json:"tagline"`
	TypeOfCompany     string            `json:"type_of_company"`
	Description       string            `json:"description"`
	YearOfFoundation  string            `json:"year_of_foundation"`
	Country           string            `json:"country"`
	PhoneNumber       string            `json:"phone_number"`
	Email             string            `json:"email"`
	NumberOfEmployees int64             `json:"number_of_employees"`
	NumberOfPartners  int64             `json:"number_of_partners"`
	Partnerships      []interface{}     `json:"partnerships"`
	Employees         []CompanyEmployee `json:"employees"`
}

func companyList(l Linker, c *models.Company) interface{} {
	return CompanyListItem{
		Name:              c.Name,
		Tagline:           c.Tagline,
		TypeOfCompany:     c.TypeOfCompany,
		YearOfFoundation:  l.Time(c.YearOfFoundation),
		Country:           c.Country,
		NumberOfEmployees: c.NumberOfEmployees,
		NumberOfPartners:  c.NumberOfPartners,
		URL:               l.Link(models.CompaniesResource, c.ID),
	}
}

func companyDetail(l Linker, c *models.Company) interface{} {
	employees := make([]CompanyEmployee, len(c.Employees))
	for i, emp := range c.Employees {
		employees[i] = CompanyEmployee{
			Name:       emp.Name,
			Profession: emp.Profession.Name,
			URL:        l.Link(models.EmployeesResource, emp.ID),
		}
	}
	return CompanyDetail{
		Name:              c.Name,
		Logo:              c.Logo,
		Tagline:           c.Tagline,
		TypeOfCompany:     c.TypeOfCompany,
		Description:       c.Description,
		YearOfFoundation:  l.Time(c.YearOfFoundation),
		Country:           c.Country,
		PhoneNumber:       c.PhoneNumber,
		Email:             c.Email,
		NumberOfEmployees: c.NumberOfEmployees,
		NumberOfPartners:  c.NumberOfPartners,
		Partnerships:      Many(PartnerShips.Resolve(ViewList), l, c.Partnerships),
		Employees:         employees,
	}
}

type PartnerShipListItem struct {
	Info string `json:"info"`
	URL  string `json:"url"`
}

type PartnerShipDetail struct {
	Info            string `json:"info"`
	Company         string `json:"company"`
	CompanyInviter  string `json:"company_inviter"`
	JointProducts   string `json:"joint_products"`
	YearPartnership string `json:"year_partnership"`
}

func partnershipList(l Linker, p *models.PartnerShip) interface{} {
	return PartnerShipListItem{
		Info: p.Info(),
		URL:  l.Link(models.PartnershipsResource, p.ID),
	}
}

func partnershipDetail(l Linker, p *models.PartnerShip) interface{} {
	return PartnerShipDetail{
		Info:            p.Info(),
		Company:         l.Link(models.CompaniesResource, p.CompanyID),
		CompanyInviter:  l.Link(models.CompaniesResource, p.CompanyInviterID),
		JointProducts:   p.JointProducts,
		YearPartnership: l.Time(p.YearPartnership),
	}
}
