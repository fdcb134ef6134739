package projection

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linker = NewLinker("http://crm.test/", "")

func render(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func sampleEmployee() *models.Employee {
	companyID, professionID := uuid.New(), uuid.New()
	return &models.Employee{
		ID:            uuid.New(),
		Name:          "Ann",
		Age:           30,
		Gender:        models.Female,
		HiredDate:     time.Date(2020, time.March, 1, 9, 30, 0, 0, time.UTC),
		CompanyID:     companyID,
		ProfessionID:  professionID,
		Salary:        5000,
		PromotionDate: time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC),
		PhoneNumber:   "+380501234567",
		Email:         "ann@acme.test",
		Company:       models.Company{ID: companyID, Name: "Acme"},
		Profession:    models.Profession{ID: professionID, Name: "Engineer"},
	}
}

func TestLinker(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "http://crm.test/companies/"+id.String(), linker.Link(models.CompaniesResource, id))

	local := time.Date(2020, time.January, 1, 2, 0, 0, 0, time.FixedZone("EET", 2*3600))
	assert.Equal(t, "2020-01-01 00:00:00", linker.Time(local))
	assert.Equal(t, "2020-01-01", NewLinker("", time.DateOnly).Time(local))
}

func TestEmployeeListOmitsSensitiveFields(t *testing.T) {
	out := render(t, Employees.Resolve(ViewList)(linker, sampleEmployee()))

	assert.Equal(t, "Ann", out["name"])
	assert.Equal(t, "Engineer", out["profession"])
	assert.Equal(t, "Acme", out["company"])
	for _, field := range []string{"salary", "email", "phone_number"} {
		assert.NotContains(t, out, field)
	}
}

func TestEmployeeDetailIncludesAllFields(t *testing.T) {
	emp := sampleEmployee()
	out := render(t, Employees.Resolve(ViewDetail)(linker, emp))

	for _, field := range []string{"salary", "email", "phone_number"} {
		assert.Contains(t, out, field)
	}
	assert.Equal(t, float64(5000), out["salary"])
	assert.Equal(t, "female", out["gender"])
	assert.Equal(t, "2020-03-01 09:30:00", out["hired_date"])
	assert.Equal(t, linker.Link(models.CompaniesResource, emp.CompanyID), out["company"])
	assert.Equal(t, linker.Link(models.ProfessionsResource, emp.ProfessionID), out["profession"])
}

func TestCompanyProjections(t *testing.T) {
	acme := models.Company{ID: uuid.New(), Name: "Acme"}
	globex := models.Company{ID: uuid.New(), Name: "Globex"}
	company := &acme
	company.YearOfFoundation = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	company.NumberOfEmployees = 1
	company.NumberOfPartners = 2
	company.Partnerships = []models.PartnerShip{{
		ID:               uuid.New(),
		CompanyID:        globex.ID,
		CompanyInviterID: acme.ID,
		Company:          globex,
		CompanyInviter:   models.Company{ID: acme.ID, Name: "Acme"},
	}}
	company.Employees = []models.Employee{*sampleEmployee()}

	list := render(t, Companies.Resolve(ViewList)(linker, company))
	assert.Equal(t, "2020-01-01 00:00:00", list["year_of_foundation"])
	assert.Equal(t, float64(2), list["number_of_partners"])
	assert.NotContains(t, list, "employees")
	assert.NotContains(t, list, "partnerships")

	detail := render(t, Companies.Resolve(ViewDetail)(linker, company))
	partnerships, ok := detail["partnerships"].([]interface{})
	require.True(t, ok)
	require.Len(t, partnerships, 1)
	assert.Equal(t, "Partnership between Acme and Globex", partnerships[0].(map[string]interface{})["info"])

	employees, ok := detail["employees"].([]interface{})
	require.True(t, ok)
	require.Len(t, employees, 1)
	assert.Equal(t, "Engineer", employees[0].(map[string]interface{})["profession"])
}

func TestProfessionProjections(t *testing.T) {
	emp := sampleEmployee()
	p := &models.Profession{ID: uuid.New(), Name: "Engineer", NumberOfEmployees: 1, Employees: []models.Employee{*emp}}

	list := render(t, Professions.Resolve(ViewList)(linker, p))
	assert.Equal(t, map[string]interface{}{
		"name": "Engineer",
		"url":  linker.Link(models.ProfessionsResource, p.ID),
	}, list)

	detail := render(t, Professions.Resolve(ViewDetail)(linker, p))
	assert.Equal(t, float64(1), detail["number_of_employees"])
	employees := detail["employees"].([]interface{})
	assert.Equal(t, "Acme", employees[0].(map[string]interface{})["company"])
}

func TestPartnerShipDetail(t *testing.T) {
	p := &models.PartnerShip{
		ID:               uuid.New(),
		CompanyID:        uuid.New(),
		CompanyInviterID: uuid.New(),
		JointProducts:    "Rockets",
		YearPartnership:  time.Date(2015, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
	p.Company.Name = "Globex"
	p.CompanyInviter.Name = "Acme"

	out := render(t, PartnerShips.Resolve(ViewDetail)(linker, p))
	assert.Equal(t, "Partnership between Acme and Globex", out["info"])
	assert.Equal(t, linker.Link(models.CompaniesResource, p.CompanyInviterID), out["company_inviter"])
	assert.Equal(t, "2015-06-01 12:00:00", out["year_partnership"])
}

func TestResolveUnknownViewPanics(t *testing.T) {
	assert.Panics(t, func() { Companies.Resolve(View(7)) })
	assert.Equal(t, "View(7)", View(7).String())
}

func TestManyKeepsOrder(t *testing.T) {
	items := Many(Professions.Resolve(ViewList), linker, []models.Profession{{Name: "A"}, {Name: "B"}})
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].(ProfessionListItem).Name)
	assert.Equal(t, "B", items[1].(ProfessionListItem).Name)
}
