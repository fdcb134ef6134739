package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/events"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateEmployee adds an employee to an existing company and profession.
// The hire date is the creation time.
func (s *Service) CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if err := checkName(ctx, s.repo.EmployeeNameTaken, "employee", employee.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if employee.Gender == "" {
		employee.Gender = models.Male
	}
	if err := s.checkEmployee(ctx, employee.Gender, employee.Age, employee.Salary, &employee.CompanyID, &employee.ProfessionID); err != nil {
		return nil, err
	}

	employee.ID = uuid.New()
	employee.HiredDate = time.Now().UTC()
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	s.publish(events.Created, models.EmployeesResource, employee.ID, employee.Name)
	return s.GetEmployee(ctx, employee.ID)
}

// checkEmployee validates the value ranges and references of an employee.
// Nil references are not checked.
func (s *Service) checkEmployee(ctx context.Context, gender models.Gender, age int, salary int64, companyID, professionID *uuid.UUID) error {
	v := &e.ValidationError{}
	if gender != "" && !gender.Valid() {
		v.Add("gender", fmt.Sprintf("\"%s\" is not a valid choice.", gender))
	}
	if age < 0 || age > 32767 {
		v.Add("age", "Ensure this value is between 0 and 32767.")
	}
	if salary < 0 {
		v.Add("salary", "Ensure this value is greater than or equal to 0.")
	}
	if companyID != nil {
		if err := checkReference(ctx, v, s.repo.CompanyExists, "company", *companyID); err != nil {
			return err
		}
	}
	if professionID != nil {
		if err := checkReference(ctx, v, s.repo.ProfessionExists, "profession", *professionID); err != nil {
			return err
		}
	}
	return v.OrNil()
}

// GetEmployee retrieves an employee with company and profession.
func (s *Service) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func (s *Service) ListEmployees(ctx context.Context, f filters.EmployeeFilter, opts filters.ListOptions) ([]models.Employee, int64, error) {
	employees, total, err := s.repo.ListEmployees(ctx, f, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

// UpdateEmployee applies a partial update. The hire date is never changed.
func (s *Service) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid employee ID", e.ErrInvalidInput)
	}
	if update.Name != nil {
		if err := checkName(ctx, s.repo.EmployeeNameTaken, "employee", *update.Name, update.ID); err != nil {
			return nil, err
		}
	}
	var (
		gender models.Gender
		age    int
		salary int64
	)
	if update.Gender != nil {
		gender = *update.Gender
	}
	if update.Age != nil {
		age = *update.Age
	}
	if update.Salary != nil {
		salary = *update.Salary
	}
	if err := s.checkEmployee(ctx, gender, age, salary, update.CompanyID, update.ProfessionID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateEmployee(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	updated, err := s.GetEmployee(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get employee after update",
			zap.Error(err),
			zap.String("employee_id", update.ID.String()),
		)
		return nil, err
	}
	s.publish(events.Updated, models.EmployeesResource, updated.ID, updated.Name)
	return updated, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	s.publish(events.Deleted, models.EmployeesResource, id, "")
	return nil
}
