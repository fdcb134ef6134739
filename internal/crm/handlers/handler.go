package handlers

import (
	"context"
	"net/http"
	"net/url"

	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/gartstein/crm/internal/crm/projection"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller defines the business logic interface that the HTTP handlers
// invoke.
type Controller interface {
	CreateProfession(ctx context.Context, profession *models.Profession) (*models.Profession, error)
	GetProfession(ctx context.Context, id uuid.UUID) (*models.Profession, error)
	ListProfessions(ctx context.Context, f filters.ProfessionFilter, opts filters.ListOptions) ([]models.Profession, int64, error)
	UpdateProfession(ctx context.Context, update *models.ProfessionUpdate) (*models.Profession, error)
	DeleteProfession(ctx context.Context, id uuid.UUID) error

	CreateCompany(ctx context.Context, company *models.Company, partnerIDs []uuid.UUID) (*models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context, f filters.CompanyFilter, opts filters.ListOptions) ([]models.Company, int64, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error

	CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	ListEmployees(ctx context.Context, f filters.EmployeeFilter, opts filters.ListOptions) ([]models.Employee, int64, error)
	UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error

	GetPartnerShip(ctx context.Context, id uuid.UUID) (*models.PartnerShip, error)
	ListPartnerShips(ctx context.Context, f filters.PartnerShipFilter, opts filters.ListOptions) ([]models.PartnerShip, int64, error)
	UpdatePartnerShip(ctx context.Context, update *models.PartnerShipUpdate) (*models.PartnerShip, error)
}

// Options configures the HTTP API.
type Options struct {
	// PublicURL is the base of generated links; empty means the request's
	// own scheme and host.
	PublicURL  string
	TimeLayout string
	// JWTSecret enables token checks on write requests when set.
	JWTSecret string
}

// Handler serves the REST resources, mapping requests to a Controller.
type Handler struct {
	service Controller
	opts    Options
	logger  *zap.Logger
}

// NewHandler constructs a Handler with the given service and logger.
func NewHandler(service Controller, opts Options, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		opts:    opts,
		logger:  logger.Named("http_handler"),
	}
}

// linker builds links against PublicURL or the request origin.
func (h *Handler) linker(c *gin.Context) projection.Linker {
	base := h.opts.PublicURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + c.Request.Host
	}
	return projection.NewLinker(base, h.opts.TimeLayout)
}

func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, e.ErrNotFound
	}
	return id, nil
}

// joinValidation merges the field errors of several parsing steps.
func joinValidation(errs ...error) error {
	merged := &e.ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		v, ok := err.(*e.ValidationError)
		if !ok {
			return err
		}
		for field, msg := range v.Fields {
			merged.Add(field, msg)
		}
	}
	return merged.OrNil()
}

// listEndpoint parses filters and list options, runs fetch and renders one
// page with the list projection.
func listEndpoint[T any, F any](
	h *Handler,
	schema models.Schema,
	parse func(url.Values) (F, error),
	fetch func(context.Context, F, filters.ListOptions) ([]T, int64, error),
	table projection.Table[T],
) gin.HandlerFunc {
	render := table.Resolve(projection.ViewList)
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		f, ferr := parse(query)
		opts, oerr := filters.ParseListOptions(query, schema)
		if err := joinValidation(ferr, oerr); err != nil {
			h.abortWithError(c, err)
			return
		}

		items, total, err := fetch(c.Request.Context(), f, opts)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		// Only the first page may be empty.
		if opts.Page > 1 && int64(opts.Offset()) >= total {
			c.AbortWithStatusJSON(http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Invalid page."})
			return
		}
		c.JSON(http.StatusOK, projection.Page{
			Count:   total,
			Results: projection.Many(render, h.linker(c), items),
		})
	}
}

// retrieveEndpoint renders one entity with the detail projection.
func retrieveEndpoint[T any](
	h *Handler,
	get func(context.Context, uuid.UUID) (*T, error),
	table projection.Table[T],
) gin.HandlerFunc {
	render := table.Resolve(projection.ViewDetail)
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		entity, err := get(c.Request.Context(), id)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, render(h.linker(c), entity))
	}
}

// createEndpoint binds R, lets create store it and renders the result with
// the detail projection and status 201.
func createEndpoint[T any, R any](
	h *Handler,
	create func(context.Context, *R) (*T, error),
	table projection.Table[T],
) gin.HandlerFunc {
	render := table.Resolve(projection.ViewDetail)
	return func(c *gin.Context) {
		var req R
		if err := bindJSON(c, &req); err != nil {
			h.abortWithError(c, err)
			return
		}
		entity, err := create(c.Request.Context(), &req)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, render(h.linker(c), entity))
	}
}

// updateEndpoint serves PUT when partial is false and PATCH when it is true.
func updateEndpoint[T any, R any](
	h *Handler,
	update func(ctx context.Context, id uuid.UUID, req *R, partial bool) (*T, error),
	table projection.Table[T],
	partial bool,
) gin.HandlerFunc {
	render := table.Resolve(projection.ViewDetail)
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		var req R
		if err := bindJSON(c, &req); err != nil {
			h.abortWithError(c, err)
			return
		}
		entity, err := update(c.Request.Context(), id, &req, partial)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, render(h.linker(c), entity))
	}
}

func destroyEndpoint(h *Handler, destroy func(context.Context, uuid.UUID) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		if err := destroy(c.Request.Context(), id); err != nil {
			h.abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
