package models

import (
	"time"

	"github.com/google/uuid"
)

// Profession is a job title employees are hired under.
type Profession struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:50;not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	NumberOfEmployees int64 `gorm:"->;-:migration"`

	Employees []Employee `gorm:"foreignKey:ProfessionID;constraint:OnDelete:CASCADE"`
}

// ProfessionUpdate holds a partial update of a Profession.
type ProfessionUpdate struct {
	ID          uuid.UUID
	Name        *string
	Description *string
}

// Columns returns the column assignments of the fields that are set.
func (u *ProfessionUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	setString(cols, "name", u.Name)
	setString(cols, "description", u.Description)
	return cols
}
