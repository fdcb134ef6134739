package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/events"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProfession adds a profession with a unique name.
func (s *Service) CreateProfession(ctx context.Context, profession *models.Profession) (*models.Profession, error) {
	if err := checkName(ctx, s.repo.ProfessionNameTaken, "profession", profession.Name, uuid.Nil); err != nil {
		return nil, err
	}

	profession.ID = uuid.New()
	if err := s.repo.CreateProfession(ctx, profession); err != nil {
		return nil, fmt.Errorf("failed to create profession: %w", err)
	}
	s.publish(events.Created, models.ProfessionsResource, profession.ID, profession.Name)
	return s.GetProfession(ctx, profession.ID)
}

// GetProfession retrieves a profession with its employees.
func (s *Service) GetProfession(ctx context.Context, id uuid.UUID) (*models.Profession, error) {
	profession, err := s.repo.GetProfession(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get profession: %w", err)
	}
	return profession, nil
}

func (s *Service) ListProfessions(ctx context.Context, f filters.ProfessionFilter, opts filters.ListOptions) ([]models.Profession, int64, error) {
	professions, total, err := s.repo.ListProfessions(ctx, f, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list professions: %w", err)
	}
	return professions, total, nil
}

// UpdateProfession applies a partial update and returns the stored result.
func (s *Service) UpdateProfession(ctx context.Context, update *models.ProfessionUpdate) (*models.Profession, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid profession ID", e.ErrInvalidInput)
	}
	if update.Name != nil {
		if err := checkName(ctx, s.repo.ProfessionNameTaken, "profession", *update.Name, update.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateProfession(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profession: %w", err)
	}

	updated, err := s.GetProfession(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get profession after update",
			zap.Error(err),
			zap.String("profession_id", update.ID.String()),
		)
		return nil, err
	}
	s.publish(events.Updated, models.ProfessionsResource, updated.ID, updated.Name)
	return updated, nil
}

// DeleteProfession removes a profession and, with it, its employees.
func (s *Service) DeleteProfession(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProfession(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete profession: %w", err)
	}
	s.publish(events.Deleted, models.ProfessionsResource, id, "")
	return nil
}
