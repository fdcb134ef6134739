package handlers

import (
	"context"

	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
)

func (h *Handler) createProfession(ctx context.Context, req *professionRequest) (*models.Profession, error) {
	profession, err := req.toModel()
	if err != nil {
		return nil, err
	}
	return h.service.CreateProfession(ctx, profession)
}

func (h *Handler) updateProfession(ctx context.Context, id uuid.UUID, req *professionRequest, partial bool) (*models.Profession, error) {
	update, err := req.toUpdate(id, partial)
	if err != nil {
		return nil, err
	}
	return h.service.UpdateProfession(ctx, update)
}

func (h *Handler) createCompany(ctx context.Context, req *companyRequest) (*models.Company, error) {
	company, partners, err := req.toModel()
	if err != nil {
		return nil, err
	}
	return h.service.CreateCompany(ctx, company, partners)
}

func (h *Handler) updateCompany(ctx context.Context, id uuid.UUID, req *companyRequest, partial bool) (*models.Company, error) {
	update, err := req.toUpdate(id, partial)
	if err != nil {
		return nil, err
	}
	return h.service.UpdateCompany(ctx, update)
}

func (h *Handler) createEmployee(ctx context.Context, req *employeeRequest) (*models.Employee, error) {
	employee, err := req.toModel()
	if err != nil {
		return nil, err
	}
	return h.service.CreateEmployee(ctx, employee)
}

func (h *Handler) updateEmployee(ctx context.Context, id uuid.UUID, req *employeeRequest, partial bool) (*models.Employee, error) {
	update, err := req.toUpdate(id, partial)
	if err != nil {
		return nil, err
	}
	return h.service.UpdateEmployee(ctx, update)
}

func (h *Handler) updatePartnerShip(ctx context.Context, id uuid.UUID, req *partnershipRequest, partial bool) (*models.PartnerShip, error) {
	update, err := req.toUpdate(id, partial)
	if err != nil {
		return nil, err
	}
	return h.service.UpdatePartnerShip(ctx, update)
}
