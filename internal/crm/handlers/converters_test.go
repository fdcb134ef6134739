package handlers

import (
	"testing"
	"time"

	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/gartstein/crm/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *e.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestParseRef(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"bare id", id.String(), true},
		{"detail url", "http://localhost:8080/companies/" + id.String(), true},
		{"trailing slash", "https://crm.example.org/api/companies/" + id.String() + "/", true},
		{"relative path", "/companies/" + id.String(), true},
		{"garbage", "acme", false},
		{"collection url", "http://localhost:8080/companies/", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRef(tt.input)
			if !tt.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}

func TestCompanyRequest_ToModel(t *testing.T) {
	partner := uuid.New()
	req := companyRequest{
		Name:             utils.Ptr("Acme"),
		TypeOfCompany:    utils.Ptr("IT"),
		YearOfFoundation: utils.Ptr("2001-02-03"),
		Country:          utils.Ptr("Ukraine"),
		Partners:         &[]string{"/companies/" + partner.String()},
	}

	company, partners, err := req.toModel()
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	assert.Equal(t, time.Date(2001, time.February, 3, 0, 0, 0, 0, time.UTC), company.YearOfFoundation)
	assert.Equal(t, []uuid.UUID{partner}, partners)
}

func TestCompanyRequest_RequiredFields(t *testing.T) {
	_, _, err := (&companyRequest{YearOfFoundation: utils.Ptr("yesterday")}).toModel()
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	got := fields(t, err)
	for _, field := range []string{"name", "type_of_company", "country"} {
		assert.Equal(t, msgRequired, got[field], field)
	}
	assert.Contains(t, got["year_of_foundation"], "Datetime has wrong format")

	update, err := (&companyRequest{Tagline: utils.Ptr("Fast")}).toUpdate(uuid.New(), true)
	require.NoError(t, err, "partial updates need no field")
	assert.Nil(t, update.Name)
	assert.Nil(t, update.PartnerIDs, "partners stay untouched when absent")
}

func TestEmployeeRequest_ToUpdate(t *testing.T) {
	id := uuid.New()
	company := uuid.New()
	update, err := (&employeeRequest{
		Gender:  utils.Ptr("female"),
		Company: utils.Ptr(company.String()),
	}).toUpdate(id, true)
	require.NoError(t, err)
	assert.Equal(t, id, update.ID)
	assert.Equal(t, models.Female, *update.Gender)
	assert.Equal(t, company, *update.CompanyID)
	assert.Nil(t, update.ProfessionID)

	_, err = (&employeeRequest{Name: utils.Ptr("Alice"), Profession: utils.Ptr("engineer")}).toUpdate(id, false)
	got := fields(t, err)
	assert.Contains(t, got["profession"], "Invalid hyperlink")
	assert.Equal(t, msgRequired, got["age"])
	assert.NotContains(t, got, "name")
}

func TestProfessionRequest(t *testing.T) {
	_, err := (&professionRequest{}).toModel()
	assert.Equal(t, map[string]string{"name": msgRequired}, fields(t, err))

	p, err := (&professionRequest{Name: utils.Ptr("Engineer")}).toModel()
	require.NoError(t, err)
	assert.Equal(t, "Engineer", p.Name)
	assert.Empty(t, p.Description)
}

func TestRequestTextIsTrimmed(t *testing.T) {
	p, err := (&professionRequest{Name: utils.Ptr(" Engineer\n"), Description: utils.Ptr(" Builds ")}).toModel()
	require.NoError(t, err)
	assert.Equal(t, "Engineer", p.Name)
	assert.Equal(t, "Builds", p.Description)

	update, err := (&partnershipRequest{JointProducts: utils.Ptr("  ")}).toUpdate(uuid.New(), true)
	require.NoError(t, err, "joint products may be blank")
	assert.Equal(t, "", *update.JointProducts)

	_, err = (&employeeRequest{Name: utils.Ptr(" ")}).toUpdate(uuid.New(), true)
	assert.Equal(t, map[string]string{"name": msgBlank}, fields(t, err))
}
