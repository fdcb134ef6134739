package db

import (
	"context"

	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) employees(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Employee{}).
		Joins("JOIN professions ON professions.id = employees.profession_id").
		Joins("JOIN companies ON companies.id = employees.company_id")
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	employee.HiredDate = employee.HiredDate.UTC()
	employee.PromotionDate = employee.PromotionDate.UTC()
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(employee).Error
	return duplicateName(err, "employee")
}

// GetEmployee loads an employee with its company and profession.
func (r *Repository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Profession").
		Where("id = ?", id).
		Take(&employee).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &employee, nil
}

// ListEmployees returns one page of matching employees, with company and
// profession loaded, and the total number of matches.
func (r *Repository) ListEmployees(ctx context.Context, f filters.EmployeeFilter, opts filters.ListOptions) ([]models.Employee, int64, error) {
	filtered := func() *gorm.DB {
		query := r.employees(ctx).Scopes(
			equals("employees.name", f.Name),
			intRange("employees.age", f.Age),
			intRange("employees.salary", f.Salary),
			timeRange("employees.hired_date", f.HiredDate),
			timeRange("employees.promotion_date", f.PromotionDate),
			equals("professions.name", f.ProfessionName),
			equals("companies.name", f.CompanyName),
			search(models.EmployeeSchema.SearchColumns, opts.Search),
		)
		if f.Gender != nil {
			query = query.Where("employees.gender = ?", *f.Gender)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	employees := []models.Employee{}
	err := filtered().
		Select("employees.*").
		Preload("Company").
		Preload("Profession").
		Scopes(ordering(opts.Ordering, "employees.id"), paginate(opts)).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) error {
	err := r.update(ctx, &models.Employee{}, update.ID, update.Columns())
	return duplicateName(err, "employee")
}

func (r *Repository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

// EmployeeNameTaken reports whether an employee other than exclude uses name.
func (r *Repository) EmployeeNameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	return r.nameTaken(ctx, &models.Employee{}, name, exclude)
}
