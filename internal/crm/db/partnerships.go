package db

import (
	"context"
	"errors"
	"time"

	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) partnerships(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PartnerShip{}).
		Joins("JOIN companies AS " + models.InviterAlias + " ON " + models.InviterAlias + ".id = partnerships.company_inviter_id")
}

// CreatePartnerShip stores a partnership. The pair must not exist yet.
func (r *Repository) CreatePartnerShip(ctx context.Context, partnership *models.PartnerShip) error {
	if partnership.ID == uuid.Nil {
		partnership.ID = uuid.New()
	}
	if partnership.YearPartnership.IsZero() {
		partnership.YearPartnership = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(partnership).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return DuplicatePartnershipError()
	}
	return err
}

// DuplicatePartnershipError reports that a (company, company_inviter) pair
// already exists.
func DuplicatePartnershipError() error {
	v := &e.ValidationError{Err: e.ErrDuplicatePartnership}
	v.Add("non_field_errors", "The fields company, company_inviter must make a unique set.")
	return v
}

// GetPartnerShip loads a partnership with both companies.
func (r *Repository) GetPartnerShip(ctx context.Context, id uuid.UUID) (*models.PartnerShip, error) {
	var partnership models.PartnerShip
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("CompanyInviter").
		Where("id = ?", id).
		Take(&partnership).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &partnership, nil
}

// ListPartnerShips returns one page of matching partnerships, with both
// companies loaded, and the total number of matches.
func (r *Repository) ListPartnerShips(ctx context.Context, f filters.PartnerShipFilter, opts filters.ListOptions) ([]models.PartnerShip, int64, error) {
	filtered := func() *gorm.DB {
		return r.partnerships(ctx).Scopes(
			equals(models.InviterAlias+".name", f.CompanyInviterName),
			timeRange("partnerships.year_partnership", f.YearPartnership),
			search(models.PartnerShipSchema.SearchColumns, opts.Search),
		)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	partnerships := []models.PartnerShip{}
	err := filtered().
		Select("partnerships.*").
		Preload("Company").
		Preload("CompanyInviter").
		Scopes(ordering(opts.Ordering, "partnerships.id"), paginate(opts)).
		Find(&partnerships).Error
	if err != nil {
		return nil, 0, err
	}
	return partnerships, total, nil
}

func (r *Repository) UpdatePartnerShip(ctx context.Context, update *models.PartnerShipUpdate) error {
	return r.update(ctx, &models.PartnerShip{}, update.ID, update.Columns())
}

// PartnerShipExists reports whether inviterID already invited companyID.
func (r *Repository) PartnerShipExists(ctx context.Context, companyID, inviterID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PartnerShip{}).
		Where("company_id = ? AND company_inviter_id = ?", companyID, inviterID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// ReplacePartners makes partnerIDs the exact set of companies invited by
// inviterID. Kept pairs retain their year_partnership. Callers run it inside
// WithTransaction.
func (r *Repository) ReplacePartners(ctx context.Context, inviterID uuid.UUID, partnerIDs []uuid.UUID) error {
	stale := r.db.WithContext(ctx).Where("company_inviter_id = ?", inviterID)
	if len(partnerIDs) > 0 {
		stale = stale.Where("company_id NOT IN ?", partnerIDs)
	}
	if err := stale.Delete(&models.PartnerShip{}).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, partnerID := range partnerIDs {
		found, err := r.PartnerShipExists(ctx, partnerID, inviterID)
		if err != nil {
			return err
		}
		if found {
			continue
		}
		err = r.CreatePartnerShip(ctx, &models.PartnerShip{
			CompanyID:        partnerID,
			CompanyInviterID: inviterID,
			YearPartnership:  now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
