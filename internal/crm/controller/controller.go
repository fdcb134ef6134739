// Package controller implements the business rules of the CRM: uniqueness
// and reference checks, partner synchronisation and change events, on top of
// the repository.
package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/crm/internal/crm/db"
	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/events"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

type ProfessionRepository interface {
	CreateProfession(ctx context.Context, profession *models.Profession) error
	GetProfession(ctx context.Context, id uuid.UUID) (*models.Profession, error)
	ListProfessions(ctx context.Context, f filters.ProfessionFilter, opts filters.ListOptions) ([]models.Profession, int64, error)
	UpdateProfession(ctx context.Context, update *models.ProfessionUpdate) error
	DeleteProfession(ctx context.Context, id uuid.UUID) error
	ProfessionExists(ctx context.Context, id uuid.UUID) (bool, error)
	ProfessionNameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
}

type CompanyRepository interface {
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context, f filters.CompanyFilter, opts filters.ListOptions) ([]models.Company, int64, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	CompanyExists(ctx context.Context, id uuid.UUID) (bool, error)
	CountCompanies(ctx context.Context, ids []uuid.UUID) (int64, error)
	CompanyNameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
}

type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	ListEmployees(ctx context.Context, f filters.EmployeeFilter, opts filters.ListOptions) ([]models.Employee, int64, error)
	UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	EmployeeNameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
}

type PartnerShipRepository interface {
	GetPartnerShip(ctx context.Context, id uuid.UUID) (*models.PartnerShip, error)
	ListPartnerShips(ctx context.Context, f filters.PartnerShipFilter, opts filters.ListOptions) ([]models.PartnerShip, int64, error)
	UpdatePartnerShip(ctx context.Context, update *models.PartnerShipUpdate) error
}

// Repository defines the storage interface of the service. Company writes
// touch partnerships too and go through WithTransaction.
type Repository interface {
	ProfessionRepository
	CompanyRepository
	EmployeeRepository
	PartnerShipRepository
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// Service provides the operations of every resource via repository calls
// and event production.
type Service struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewService constructs a Service with a repository, an event producer,
// and a logger.
func NewService(repo Repository, producer EventProducer, logger *zap.Logger) *Service {
	if producer == nil {
		producer = events.NopProducer{}
	}
	return &Service{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("crm_service"),
	}
}

func (s *Service) publish(eventType events.EventType, resource models.Resource, id uuid.UUID, name string) {
	s.producer.Produce(events.New(eventType, resource, id, name))
	s.logger.Debug("entity changed",
		zap.String("event_type", string(eventType)),
		zap.String("resource", string(resource)),
		zap.String("id", id.String()),
	)
}

// checkName rejects a blank name and a name used by another row.
func checkName(ctx context.Context, taken func(context.Context, string, uuid.UUID) (bool, error), entity, name string, exclude uuid.UUID) error {
	if strings.TrimSpace(name) == "" {
		return e.NewValidationError("name", "This field may not be blank.")
	}
	found, err := taken(ctx, name, exclude)
	if err != nil {
		return fmt.Errorf("failed to check name existence: %w", err)
	}
	if found {
		return db.DuplicateNameError(entity)
	}
	return nil
}

// checkReference adds a field error when the referenced row does not exist.
func checkReference(ctx context.Context, v *e.ValidationError, exists func(context.Context, uuid.UUID) (bool, error), field string, id uuid.UUID) error {
	if id == uuid.Nil {
		v.Add(field, "This field is required.")
		return nil
	}
	found, err := exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", field, err)
	}
	if !found {
		v.Add(field, doesNotExist(id))
	}
	return nil
}

func doesNotExist(id uuid.UUID) string {
	return fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", id)
}
