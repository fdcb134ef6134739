package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCompanyUpdate_Columns(t *testing.T) {
	name, empty := "Acme", ""
	founded := time.Date(2001, time.May, 2, 12, 0, 0, 0, time.FixedZone("EEST", 3*3600))
	partners := []uuid.UUID{uuid.New()}

	cols := (&CompanyUpdate{
		ID:               uuid.New(),
		Name:             &name,
		Email:            &empty,
		YearOfFoundation: &founded,
		PartnerIDs:       &partners,
	}).Columns()

	assert.Equal(t, map[string]interface{}{
		"name":               "Acme",
		"email":              "",
		"year_of_foundation": founded.UTC(),
	}, cols, "unset fields and partners are not columns")
}

func TestEmployeeUpdate_Columns(t *testing.T) {
	age, salary := 0, int64(0)
	gender := Female
	company := uuid.New()

	cols := (&EmployeeUpdate{Age: &age, Salary: &salary, Gender: &gender, CompanyID: &company}).Columns()

	assert.Equal(t, map[string]interface{}{
		"age":        0,
		"salary":     int64(0),
		"gender":     Female,
		"company_id": company,
	}, cols)
	assert.Empty(t, (&EmployeeUpdate{}).Columns())
}

func TestProfessionAndPartnerShipUpdate_Columns(t *testing.T) {
	desc := "Writes code"
	assert.Equal(t, map[string]interface{}{"description": desc}, (&ProfessionUpdate{Description: &desc}).Columns())

	products := "Rockets"
	assert.Equal(t, map[string]interface{}{"joint_products": products}, (&PartnerShipUpdate{JointProducts: &products}).Columns())
}

func TestPartnerShip_Info(t *testing.T) {
	p := PartnerShip{
		Company:        Company{Name: "Acme"},
		CompanyInviter: Company{Name: "Globex"},
	}
	assert.Equal(t, "Partnership between Globex and Acme", p.Info())
}

func TestGender_Valid(t *testing.T) {
	assert.True(t, Male.Valid())
	assert.True(t, Female.Valid())
	assert.False(t, Gender("").Valid())
	assert.False(t, Gender("Male").Valid())
}
