// Package models defines the core domain models of the CRM: professions,
// companies, the partnerships between companies and employees. The structs
// are mapped by GORM directly; computed counts are read-only fields that are
// filled by aggregate queries and never migrated.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Company defines the domain model for a company entity.
type Company struct {
	// ID is the unique identifier for the company.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// Name is the company’s name, unique across companies.
	Name string `gorm:"size:100;not null;uniqueIndex"`
	// Logo references the stored logo image.
	Logo string `gorm:"size:255"`
	// Tagline is a short slogan.
	Tagline string `gorm:"size:100"`
	// TypeOfCompany is a free-form category such as "IT" or "Retail".
	TypeOfCompany string `gorm:"size:100;not null"`
	// Description provides details about the company.
	Description string `gorm:"type:text"`
	// YearOfFoundation records when the company was founded.
	YearOfFoundation time.Time `gorm:"not null"`
	// Country is where the company is registered.
	Country string `gorm:"size:100;not null"`
	// PhoneNumber is the company contact phone.
	PhoneNumber string `gorm:"size:13"`
	// Email is the company contact address.
	Email string `gorm:"size:100"`
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time

	// NumberOfEmployees is computed at read time, see db.EmployeeCountsByCompany.
	NumberOfEmployees int64 `gorm:"->;-:migration"`
	// NumberOfPartners is computed at read time, see db.PartnerCounts.
	NumberOfPartners int64 `gorm:"->;-:migration"`

	Employees    []Employee    `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Partnerships []PartnerShip `gorm:"foreignKey:CompanyInviterID;constraint:OnDelete:CASCADE"`
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	ID               uuid.UUID
	Name             *string
	Logo             *string
	Tagline          *string
	TypeOfCompany    *string
	Description      *string
	YearOfFoundation *time.Time
	Country          *string
	PhoneNumber      *string
	Email            *string
	// PartnerIDs replaces the set of companies this company invited when set.
	PartnerIDs *[]uuid.UUID
}

// Columns returns the column assignments of the fields that are set.
func (u *CompanyUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	setString(cols, "name", u.Name)
	setString(cols, "logo", u.Logo)
	setString(cols, "tagline", u.Tagline)
	setString(cols, "type_of_company", u.TypeOfCompany)
	setString(cols, "description", u.Description)
	if u.YearOfFoundation != nil {
		cols["year_of_foundation"] = u.YearOfFoundation.UTC()
	}
	setString(cols, "country", u.Country)
	setString(cols, "phone_number", u.PhoneNumber)
	setString(cols, "email", u.Email)
	return cols
}

func setString(cols map[string]interface{}, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}
