package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender of an employee.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// Employee is a person working for a company under a profession.
type Employee struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"size:100;not null;uniqueIndex"`
	Age    int       `gorm:"not null;check:age >= 0"`
	Gender Gender    `gorm:"size:6;not null;default:'male'"`
	Photo  string    `gorm:"size:255"`
	// HiredDate is set on creation and never updated.
	HiredDate     time.Time `gorm:"not null;<-:create"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProfessionID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Salary        int64     `gorm:"not null;check:salary >= 0"`
	PromotionDate time.Time `gorm:"not null"`
	PhoneNumber   string    `gorm:"size:13"`
	Email         string    `gorm:"size:100"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Company    Company
	Profession Profession
}

// EmployeeUpdate holds a partial update of an Employee.
type EmployeeUpdate struct {
	ID            uuid.UUID
	Name          *string
	Age           *int
	Gender        *Gender
	Photo         *string
	CompanyID     *uuid.UUID
	ProfessionID  *uuid.UUID
	Salary        *int64
	PromotionDate *time.Time
	PhoneNumber   *string
	Email         *string
}

// Columns returns the column assignments of the fields that are set.
func (u *EmployeeUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	setString(cols, "name", u.Name)
	if u.Age != nil {
		cols["age"] = *u.Age
	}
	if u.Gender != nil {
		cols["gender"] = *u.Gender
	}
	setString(cols, "photo", u.Photo)
	if u.CompanyID != nil {
		cols["company_id"] = *u.CompanyID
	}
	if u.ProfessionID != nil {
		cols["profession_id"] = *u.ProfessionID
	}
	if u.Salary != nil {
		cols["salary"] = *u.Salary
	}
	if u.PromotionDate != nil {
		cols["promotion_date"] = u.PromotionDate.UTC()
	}
	setString(cols, "phone_number", u.PhoneNumber)
	setString(cols, "email", u.Email)
	return cols
}
