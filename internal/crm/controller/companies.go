package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/crm/internal/crm/db"
	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/events"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateCompany adds a company and makes it the inviter of one partnership
// per partner, in one transaction.
func (s *Service) CreateCompany(ctx context.Context, company *models.Company, partnerIDs []uuid.UUID) (*models.Company, error) {
	if err := checkName(ctx, s.repo.CompanyNameTaken, "company", company.Name, uuid.Nil); err != nil {
		return nil, err
	}
	company.ID = uuid.New()
	partnerIDs, err := s.checkPartners(ctx, company.ID, partnerIDs)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.CreateCompany(ctx, company); err != nil {
			return err
		}
		return tx.ReplacePartners(ctx, company.ID, partnerIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	s.publish(events.Created, models.CompaniesResource, company.ID, company.Name)
	return s.GetCompany(ctx, company.ID)
}

// checkPartners deduplicates partnerIDs and verifies that each one is an
// existing company other than companyID.
func (s *Service) checkPartners(ctx context.Context, companyID uuid.UUID, partnerIDs []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(partnerIDs))
	unique := make([]uuid.UUID, 0, len(partnerIDs))
	for _, id := range partnerIDs {
		if id == companyID {
			return nil, e.NewValidationError("partners", "A company cannot be its own partner.")
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return unique, nil
	}

	found, err := s.repo.CountCompanies(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to check partners: %w", err)
	}
	if found == int64(len(unique)) {
		return unique, nil
	}
	for _, id := range unique {
		exists, err := s.repo.CompanyExists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check partners: %w", err)
		}
		if !exists {
			return nil, e.NewValidationError("partners", doesNotExist(id))
		}
	}
	return unique, nil
}

// GetCompany retrieves a company with its counts, employees and
// partnerships.
func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

func (s *Service) ListCompanies(ctx context.Context, f filters.CompanyFilter, opts filters.ListOptions) ([]models.Company, int64, error) {
	companies, total, err := s.repo.ListCompanies(ctx, f, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, total, nil
}

// UpdateCompany applies a partial update. When PartnerIDs is set it replaces
// the companies this one invited; existing pairs are kept as they are.
func (s *Service) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	if update.Name != nil {
		if err := checkName(ctx, s.repo.CompanyNameTaken, "company", *update.Name, update.ID); err != nil {
			return nil, err
		}
	}
	var partnerIDs []uuid.UUID
	if update.PartnerIDs != nil {
		var err error
		if partnerIDs, err = s.checkPartners(ctx, update.ID, *update.PartnerIDs); err != nil {
			return nil, err
		}
	}

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.UpdateCompany(ctx, update); err != nil {
			return err
		}
		if update.PartnerIDs == nil {
			return nil
		}
		return tx.ReplacePartners(ctx, update.ID, partnerIDs)
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	updated, err := s.GetCompany(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get company after update",
			zap.Error(err),
			zap.String("company_id", update.ID.String()),
		)
		return nil, err
	}
	s.publish(events.Updated, models.CompaniesResource, updated.ID, updated.Name)
	return updated, nil
}

// DeleteCompany removes a company together with its employees and every
// partnership it takes part in.
func (s *Service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}
	s.publish(events.Deleted, models.CompaniesResource, id, company.Name)
	return nil
}
