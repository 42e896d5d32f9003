package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// UpdateCompanyInput is the DTO for updating the caller's company.
type UpdateCompanyInput struct {
	Name     *string `json:"name"`
	Currency *string `json:"currency" binding:"omitempty,len=3"`
}

// CompanyService defines the company management contract.
type CompanyService interface {
	Get(ctx context.Context, companyID uuid.UUID) (*domain.Company, error)
	Update(ctx context.Context, companyID uuid.UUID, input UpdateCompanyInput) (*domain.Company, error)
}

type companyService struct {
	repo port.CompanyRepository
}

// NewCompanyService creates a new CompanyService implementation.
func NewCompanyService(repo port.CompanyRepository) CompanyService {
	return &companyService{repo: repo}
}

func (s *companyService) Get(ctx context.Context, companyID uuid.UUID) (*domain.Company, error) {
	return s.repo.GetByID(ctx, companyID)
}

func (s *companyService) Update(ctx context.Context, companyID uuid.UUID, input UpdateCompanyInput) (*domain.Company, error) {
	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "must not be empty")
		}
		company.Name = name
	}
	if input.Currency != nil {
		company.Currency = strings.ToUpper(*input.Currency)
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}
