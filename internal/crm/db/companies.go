package db

import (
	"context"

	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const companySelect = "companies.*, " +
	"COALESCE(ec.total, 0) AS number_of_employees, " +
	"COALESCE(pc.total, 0) AS number_of_partners"

func (r *Repository) companies(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Company{}).Scopes(
		joinCounts("ec", EmployeeCountsByCompany(r.db), "companies.id"),
		joinCounts("pc", PartnerCounts(r.db), "companies.id"),
	)
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	company.YearOfFoundation = company.YearOfFoundation.UTC()
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(company).Error
	return duplicateName(err, "company")
}

// GetCompany loads a company with its counts, employees and the
// partnerships it initiated.
func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.companies(ctx).
		Select(companySelect).
		Preload("Employees", orderedBy("employees.name")).
		Preload("Employees.Profession").
		Preload("Partnerships", orderedBy("partnerships.year_partnership DESC")).
		Preload("Partnerships.Company").
		Preload("Partnerships.CompanyInviter").
		Where("companies.id = ?", id).
		Take(&company).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &company, nil
}

// ListCompanies returns one page of matching companies and the total
// number of matches.
func (r *Repository) ListCompanies(ctx context.Context, f filters.CompanyFilter, opts filters.ListOptions) ([]models.Company, int64, error) {
	filtered := func() *gorm.DB {
		return r.companies(ctx).Scopes(
			equals("companies.name", f.Name),
			equals("companies.type_of_company", f.TypeOfCompany),
			equals("companies.country", f.Country),
			timeRange("companies.year_of_foundation", f.YearOfFoundation),
			countPredicate("ec", f.Employees),
			countPredicate("pc", f.Partners),
			search(models.CompanySchema.SearchColumns, opts.Search),
		)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	companies := []models.Company{}
	err := filtered().
		Select(companySelect).
		Scopes(ordering(opts.Ordering, "companies.id"), paginate(opts)).
		Find(&companies).Error
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	err := r.update(ctx, &models.Company{}, update.ID, update.Columns())
	return duplicateName(err, "company")
}

// DeleteCompany removes a company, its employees and every partnership it
// takes part in.
func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&models.Employee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ? OR company_inviter_id = ?", id, id).Delete(&models.PartnerShip{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Company{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (r *Repository) CompanyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, &models.Company{}, id)
}

// CountCompanies returns how many of ids refer to existing companies.
func (r *Repository) CountCompanies(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}

// CompanyNameTaken reports whether a company other than exclude uses name.
func (r *Repository) CompanyNameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	return r.nameTaken(ctx, &models.Company{}, name, exclude)
}
