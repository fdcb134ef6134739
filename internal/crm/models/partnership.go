package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PartnerShip links a company to the company that invited it.
// The (CompanyID, CompanyInviterID) pair is unique.
type PartnerShip struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_partnership_pair"`
	CompanyInviterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_partnership_pair"`
	JointProducts    string    `gorm:"size:250;not null;default:''"`
	// YearPartnership is set on creation and never updated.
	YearPartnership time.Time `gorm:"not null;<-:create"`

	Company        Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	CompanyInviter Company `gorm:"foreignKey:CompanyInviterID"`
}

// TableName overrides the default "partner_ships".
func (PartnerShip) TableName() string {
	return "partnerships"
}

// Info is the short textual summary exposed to clients. It needs both
// companies loaded.
func (p PartnerShip) Info() string {
	return fmt.Sprintf("Partnership between %s and %s", p.CompanyInviter.Name, p.Company.Name)
}

// PartnerShipUpdate holds a partial update of a PartnerShip. Only the joint
// products are writable.
type PartnerShipUpdate struct {
	ID            uuid.UUID
	JointProducts *string
}

// Columns returns the column assignments of the fields that are set.
func (u *PartnerShipUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	setString(cols, "joint_products", u.JointProducts)
	return cols
}
