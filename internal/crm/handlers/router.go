package handlers

import (
	"net/http"

	"github.com/gartstein/crm/internal/crm/auth"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/gartstein/crm/internal/crm/projection"
	"github.com/gin-gonic/gin"
)

// resource is one entry of the route table. A nil handler leaves the
// method unregistered.
type resource struct {
	path     models.Resource
	list     gin.HandlerFunc
	retrieve gin.HandlerFunc
	create   gin.HandlerFunc
	update   gin.HandlerFunc
	partial  gin.HandlerFunc
	destroy  gin.HandlerFunc
}

func (h *Handler) resources() []resource {
	svc := h.service
	return []resource{
		{
			path:     models.ProfessionsResource,
			list:     listEndpoint(h, models.ProfessionSchema, filters.ParseProfession, svc.ListProfessions, projection.Professions),
			retrieve: retrieveEndpoint(h, svc.GetProfession, projection.Professions),
			create:   createEndpoint(h, h.createProfession, projection.Professions),
			update:   updateEndpoint(h, h.updateProfession, projection.Professions, false),
			partial:  updateEndpoint(h, h.updateProfession, projection.Professions, true),
			destroy:  destroyEndpoint(h, svc.DeleteProfession),
		},
		{
			path:     models.EmployeesResource,
			list:     listEndpoint(h, models.EmployeeSchema, filters.ParseEmployee, svc.ListEmployees, projection.Employees),
			retrieve: retrieveEndpoint(h, svc.GetEmployee, projection.Employees),
			create:   createEndpoint(h, h.createEmployee, projection.Employees),
			update:   updateEndpoint(h, h.updateEmployee, projection.Employees, false),
			partial:  updateEndpoint(h, h.updateEmployee, projection.Employees, true),
			destroy:  destroyEndpoint(h, svc.DeleteEmployee),
		},
		{
			path:     models.CompaniesResource,
			list:     listEndpoint(h, models.CompanySchema, filters.ParseCompany, svc.ListCompanies, projection.Companies),
			retrieve: retrieveEndpoint(h, svc.GetCompany, projection.Companies),
			create:   createEndpoint(h, h.createCompany, projection.Companies),
			update:   updateEndpoint(h, h.updateCompany, projection.Companies, false),
			partial:  updateEndpoint(h, h.updateCompany, projection.Companies, true),
			destroy:  destroyEndpoint(h, svc.DeleteCompany),
		},
		{
			// Partnerships are created and removed through company partners.
			path:     models.PartnershipsResource,
			list:     listEndpoint(h, models.PartnerShipSchema, filters.ParsePartnerShip, svc.ListPartnerShips, projection.PartnerShips),
			retrieve: retrieveEndpoint(h, svc.GetPartnerShip, projection.PartnerShips),
			update:   updateEndpoint(h, h.updatePartnerShip, projection.PartnerShips, false),
			partial:  updateEndpoint(h, h.updatePartnerShip, projection.PartnerShips, true),
		},
	}
}

// Router builds the gin engine serving every resource. extra handlers run
// on every request; write routes also require a token when JWTSecret is set.
func (h *Handler) Router(extra ...gin.HandlerFunc) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(recovery(h.logger), accessLog(h.logger))
	r.Use(extra...)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Not found."})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, APIError{
			Code:    CodeInvalidInput,
			Message: "Method \"" + c.Request.Method + "\" not allowed.",
		})
	})

	// Unregistered methods never reach the auth middleware and stay 405.
	writes := r.Group("")
	if h.opts.JWTSecret != "" {
		writes.Use(auth.Middleware(h.opts.JWTSecret, h.abortWithError))
	}

	for _, res := range h.resources() {
		collection := "/" + string(res.path)
		item := collection + "/:id"
		register(r, http.MethodGet, collection, res.list)
		register(r, http.MethodGet, item, res.retrieve)
		register(writes, http.MethodPost, collection, res.create)
		register(writes, http.MethodPut, item, res.update)
		register(writes, http.MethodPatch, item, res.partial)
		register(writes, http.MethodDelete, item, res.destroy)
	}
	return r
}

func register(r gin.IRoutes, method, path string, handler gin.HandlerFunc) {
	if handler != nil {
		r.Handle(method, path, handler)
	}
}
