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
)

// Partnerships are created and removed through the companies' partner
// lists only.

func (s *Service) GetPartnerShip(ctx context.Context, id uuid.UUID) (*models.PartnerShip, error) {
	partnership, err := s.repo.GetPartnerShip(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get partnership: %w", err)
	}
	return partnership, nil
}

func (s *Service) ListPartnerShips(ctx context.Context, f filters.PartnerShipFilter, opts filters.ListOptions) ([]models.PartnerShip, int64, error) {
	partnerships, total, err := s.repo.ListPartnerShips(ctx, f, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list partnerships: %w", err)
	}
	return partnerships, total, nil
}

// UpdatePartnerShip changes the joint products. The companies and the
// partnership year are fixed at creation.
func (s *Service) UpdatePartnerShip(ctx context.Context, update *models.PartnerShipUpdate) (*models.PartnerShip, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid partnership ID", e.ErrInvalidInput)
	}
	if err := s.repo.UpdatePartnerShip(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update partnership: %w", err)
	}

	updated, err := s.GetPartnerShip(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	s.publish(events.Updated, models.PartnershipsResource, updated.ID, updated.Info())
	return updated, nil
}
