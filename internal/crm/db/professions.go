package db

import (
	"context"

	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const professionSelect = "professions.*, " + "COALESCE(ec.total, 0) AS number_of_employees"

func (r *Repository) professions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Profession{}).
		Scopes(joinCounts("ec", EmployeeCountsByProfession(r.db), "professions.id"))
}

func (r *Repository) CreateProfession(ctx context.Context, profession *models.Profession) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(profession).Error
	return duplicateName(err, "profession")
}

// GetProfession loads a profession with its employee count and employees.
func (r *Repository) GetProfession(ctx context.Context, id uuid.UUID) (*models.Profession, error) {
	var profession models.Profession
	err := r.professions(ctx).
		Select(professionSelect).
		Preload("Employees", orderedBy("employees.name")).
		Preload("Employees.Company").
		Where("professions.id = ?", id).
		Take(&profession).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &profession, nil
}

// ListProfessions returns one page of matching professions and the total
// number of matches.
func (r *Repository) ListProfessions(ctx context.Context, f filters.ProfessionFilter, opts filters.ListOptions) ([]models.Profession, int64, error) {
	filtered := func() *gorm.DB {
		return r.professions(ctx).Scopes(
			equals("professions.name", f.Name),
			countPredicate("ec", f.Employees),
			search(models.ProfessionSchema.SearchColumns, opts.Search),
		)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	professions := []models.Profession{}
	err := filtered().
		Select(professionSelect).
		Scopes(ordering(opts.Ordering, "professions.id"), paginate(opts)).
		Find(&professions).Error
	if err != nil {
		return nil, 0, err
	}
	return professions, total, nil
}

func (r *Repository) UpdateProfession(ctx context.Context, update *models.ProfessionUpdate) error {
	err := r.update(ctx, &models.Profession{}, update.ID, update.Columns())
	return duplicateName(err, "profession")
}

// DeleteProfession removes a profession and its employees.
func (r *Repository) DeleteProfession(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profession_id = ?", id).Delete(&models.Employee{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Profession{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (r *Repository) ProfessionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, &models.Profession{}, id)
}

// ProfessionNameTaken reports whether a profession other than exclude uses name.
func (r *Repository) ProfessionNameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	return r.nameTaken(ctx, &models.Profession{}, name, exclude)
}
