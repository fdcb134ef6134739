package models

// Resource is the URL path segment an entity is served under.
type Resource string

const (
	ProfessionsResource  Resource = "professions"
	EmployeesResource    Resource = "employees"
	CompaniesResource    Resource = "companies"
	PartnershipsResource Resource = "partnerships"
)

// Schema describes how an entity is addressed, searched and ordered. It is
// shared by query parsing, query building and link rendering.
type Schema struct {
	Resource Resource
	Table    string
	// SearchColumns are prefix-matched by the "search" parameter.
	SearchColumns []string
	// Ordering maps "ordering" parameter fields to SQL expressions.
	Ordering map[string]string
	// DefaultOrdering applies when no "ordering" parameter is given.
	DefaultOrdering []string
}

// Join aliases used by the ordering and search expressions below.
const (
	InviterAlias = "inviter"
)

var ProfessionSchema = Schema{
	Resource:        ProfessionsResource,
	Table:           "professions",
	SearchColumns:   []string{"professions.name"},
	Ordering:        map[string]string{"name": "professions.name"},
	DefaultOrdering: []string{"name"},
}

var EmployeeSchema = Schema{
	Resource:      EmployeesResource,
	Table:         "employees",
	SearchColumns: []string{"employees.name"},
	Ordering: map[string]string{
		"name":            "employees.name",
		"age":             "employees.age",
		"profession_name": "professions.name",
		"company_name":    "companies.name",
		"salary":          "employees.salary",
		"hired_date":      "employees.hired_date",
		"promotion_date":  "employees.promotion_date",
	},
	DefaultOrdering: []string{"profession_name", "company_name", "name"},
}

var CompanySchema = Schema{
	Resource:      CompaniesResource,
	Table:         "companies",
	SearchColumns: []string{"companies.name", "companies.type_of_company", "companies.country"},
	Ordering: map[string]string{
		"name":               "companies.name",
		"year_of_foundation": "companies.year_of_foundation",
	},
	DefaultOrdering: []string{"name"},
}

var PartnerShipSchema = Schema{
	Resource:        PartnershipsResource,
	Table:           "partnerships",
	SearchColumns:   []string{InviterAlias + ".name", "partnerships.joint_products"},
	Ordering:        map[string]string{"year_partnership": "partnerships.year_partnership"},
	DefaultOrdering: []string{"-year_partnership"},
}
