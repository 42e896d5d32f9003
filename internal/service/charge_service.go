package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentdesk/internal/billing"
	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// CreateChargeTypeInput is the DTO for adding a charge type to the catalog.
type CreateChargeTypeInput struct {
	Name          string              `json:"name" binding:"required"`
	Role          domain.ChargeRole   `json:"role"`
	VATPercentage decimal.NullDecimal `json:"vat_percentage" swaggertype:"string"`
	TaxIDs        []uuid.UUID         `json:"tax_ids"`
}

// UpdateChargeTypeInput is the DTO for editing a charge type. A nil field is left unchanged.
type UpdateChargeTypeInput struct {
	Name          *string            `json:"name"`
	Role          *domain.ChargeRole `json:"role"`
	VATPercentage *decimal.Decimal   `json:"vat_percentage" swaggertype:"string"`
	TaxIDs        *[]uuid.UUID       `json:"tax_ids"`
}

// CreateTaxInput is the DTO for defining a tax rule.
type CreateTaxInput struct {
	Kind           string          `json:"kind" binding:"required"`
	Percentage     decimal.Decimal `json:"percentage" swaggertype:"string"`
	CountryCode    *string         `json:"country_code"`
	StateCode      *string         `json:"state_code"`
	ApplicableFrom string          `json:"applicable_from" binding:"required"`
	ApplicableTo   *string         `json:"applicable_to"`
	IsActive       *bool           `json:"is_active"`
}

// UpdateTaxInput is the DTO for editing a tax rule. A nil field is left unchanged.
type UpdateTaxInput struct {
	Kind           *string          `json:"kind"`
	Percentage     *decimal.Decimal `json:"percentage" swaggertype:"string"`
	CountryCode    *string          `json:"country_code"`
	StateCode      *string          `json:"state_code"`
	ApplicableFrom *string          `json:"applicable_from"`
	ApplicableTo   *string          `json:"applicable_to"`
	IsActive       *bool            `json:"is_active"`
}

// TaxPreview is the resolver breakdown for an amount billed under a charge type.
type TaxPreview struct {
	ChargeTypeID uuid.UUID         `json:"charge_type_id"`
	Amount       decimal.Decimal   `json:"amount"`
	Date         string            `json:"date"`
	Tax          decimal.Decimal   `json:"tax"`
	Total        decimal.Decimal   `json:"total"`
	Lines        []billing.TaxLine `json:"lines"`
}

// ChargeService manages the charge catalog and its tax rules.
type ChargeService interface {
	CreateChargeType(ctx context.Context, companyID uuid.UUID, input CreateChargeTypeInput) (*domain.ChargeType, error)
	UpdateChargeType(ctx context.Context, companyID, chargeTypeID uuid.UUID, input UpdateChargeTypeInput) (*domain.ChargeType, error)
	GetChargeType(ctx context.Context, companyID, chargeTypeID uuid.UUID) (*domain.ChargeType, error)
	ListChargeTypes(ctx context.Context, companyID uuid.UUID) ([]domain.ChargeType, error)

	CreateTax(ctx context.Context, companyID uuid.UUID, input CreateTaxInput) (*domain.Tax, error)
	UpdateTax(ctx context.Context, companyID, taxID uuid.UUID, input UpdateTaxInput) (*domain.Tax, error)
	ListTaxes(ctx context.Context, companyID uuid.UUID) ([]domain.Tax, error)

	PreviewTax(ctx context.Context, companyID, chargeTypeID uuid.UUID, amount decimal.Decimal, on time.Time) (*TaxPreview, error)
}

type chargeService struct {
	tx             port.Transactor
	chargeTypeRepo port.ChargeTypeRepository
	taxRepo        port.TaxRepository
}

// NewChargeService creates a new ChargeService implementation.
func NewChargeService(
	tx port.Transactor,
	chargeTypeRepo port.ChargeTypeRepository,
	taxRepo port.TaxRepository,
) ChargeService {
	return &chargeService{
		tx:             tx,
		chargeTypeRepo: chargeTypeRepo,
		taxRepo:        taxRepo,
	}
}

func (s *chargeService) CreateChargeType(ctx context.Context, companyID uuid.UUID, input CreateChargeTypeInput) (*domain.ChargeType, error) {
	ct := &domain.ChargeType{
		CompanyID:     companyID,
		Name:          strings.TrimSpace(input.Name),
		Role:          input.Role,
		VATPercentage: input.VATPercentage,
	}
	if ct.Role == "" {
		ct.Role = domain.ChargeRoleOther
	}
	if err := validateChargeType(ct); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkTaxIDs(ctx, companyID, input.TaxIDs); err != nil {
			return err
		}
		if err := s.chargeTypeRepo.Create(ctx, ct); err != nil {
			return err
		}
		return s.chargeTypeRepo.SetTaxes(ctx, companyID, ct.ID, input.TaxIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.chargeTypeRepo.GetByID(ctx, companyID, ct.ID)
}

func (s *chargeService) UpdateChargeType(ctx context.Context, companyID, chargeTypeID uuid.UUID, input UpdateChargeTypeInput) (*domain.ChargeType, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ct, err := s.chargeTypeRepo.GetByID(ctx, companyID, chargeTypeID)
		if err != nil {
			return err
		}

		if input.Role != nil && *input.Role != ct.Role {
			used, err := s.chargeTypeRepo.IsReferenced(ctx, companyID, chargeTypeID)
			if err != nil {
				return err
			}
			if used {
				return domain.NewValidationError("role", "cannot change the role of a charge type that is already billed")
			}
			ct.Role = *input.Role
		}
		if input.Name != nil {
			ct.Name = strings.TrimSpace(*input.Name)
		}
		if input.VATPercentage != nil {
			ct.VATPercentage = decimal.NewNullDecimal(*input.VATPercentage)
		}
		if err := validateChargeType(ct); err != nil {
			return err
		}
		if err := s.chargeTypeRepo.Update(ctx, ct); err != nil {
			return err
		}

		if input.TaxIDs != nil {
			if err := s.checkTaxIDs(ctx, companyID, *input.TaxIDs); err != nil {
				return err
			}
			return s.chargeTypeRepo.SetTaxes(ctx, companyID, chargeTypeID, *input.TaxIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.chargeTypeRepo.GetByID(ctx, companyID, chargeTypeID)
}

func (s *chargeService) GetChargeType(ctx context.Context, companyID, chargeTypeID uuid.UUID) (*domain.ChargeType, error) {
	return s.chargeTypeRepo.GetByID(ctx, companyID, chargeTypeID)
}

func (s *chargeService) ListChargeTypes(ctx context.Context, companyID uuid.UUID) ([]domain.ChargeType, error) {
	return s.chargeTypeRepo.List(ctx, companyID)
}

func (s *chargeService) CreateTax(ctx context.Context, companyID uuid.UUID, input CreateTaxInput) (*domain.Tax, error) {
	from, err := parseDate("applicable_from", input.ApplicableFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("applicable_to", input.ApplicableTo)
	if err != nil {
		return nil, err
	}

	tax := &domain.Tax{
		CompanyID:      companyID,
		Kind:           strings.TrimSpace(input.Kind),
		Percentage:     input.Percentage,
		CountryCode:    upperOrNil(input.CountryCode),
		StateCode:      upperOrNil(input.StateCode),
		ApplicableFrom: from,
		ApplicableTo:   to,
		IsActive:       true,
	}
	if input.IsActive != nil {
		tax.IsActive = *input.IsActive
	}
	if err := validateTax(tax); err != nil {
		return nil, err
	}

	if err := s.taxRepo.Create(ctx, tax); err != nil {
		return nil, err
	}
	return tax, nil
}

func (s *chargeService) UpdateTax(ctx context.Context, companyID, taxID uuid.UUID, input UpdateTaxInput) (*domain.Tax, error) {
	tax, err := s.taxRepo.GetByID(ctx, companyID, taxID)
	if err != nil {
		return nil, err
	}

	if input.Kind != nil {
		tax.Kind = strings.TrimSpace(*input.Kind)
	}
	if input.Percentage != nil {
		tax.Percentage = *input.Percentage
	}
	if input.CountryCode != nil {
		tax.CountryCode = upperOrNil(input.CountryCode)
	}
	if input.StateCode != nil {
		tax.StateCode = upperOrNil(input.StateCode)
	}
	if input.ApplicableFrom != nil {
		from, err := parseDate("applicable_from", *input.ApplicableFrom)
		if err != nil {
			return nil, err
		}
		tax.ApplicableFrom = from
	}
	if input.ApplicableTo != nil {
		// An empty string reopens the rule.
		to, err := parseOptionalDate("applicable_to", input.ApplicableTo)
		if err != nil {
			return nil, err
		}
		tax.ApplicableTo = to
	}
	if input.IsActive != nil {
		tax.IsActive = *input.IsActive
	}
	if err := validateTax(tax); err != nil {
		return nil, err
	}

	if err := s.taxRepo.Update(ctx, tax); err != nil {
		return nil, err
	}
	return tax, nil
}

func (s *chargeService) ListTaxes(ctx context.Context, companyID uuid.UUID) ([]domain.Tax, error) {
	return s.taxRepo.List(ctx, companyID)
}

func (s *chargeService) PreviewTax(ctx context.Context, companyID, chargeTypeID uuid.UUID, amount decimal.Decimal, on time.Time) (*TaxPreview, error) {
	if amount.IsNegative() {
		return nil, domain.NewValidationError("amount", "must not be negative")
	}
	ct, err := s.chargeTypeRepo.GetByID(ctx, companyID, chargeTypeID)
	if err != nil {
		return nil, err
	}

	tax, lines := billing.ComputeTax(amount, ct, on)
	if lines == nil {
		lines = []billing.TaxLine{}
	}
	return &TaxPreview{
		ChargeTypeID: ct.ID,
		Amount:       amount,
		Date:         domain.DateOnly(on).Format(domain.DateLayout),
		Tax:          tax,
		Total:        amount.Add(tax),
		Lines:        lines,
	}, nil
}

func (s *chargeService) checkTaxIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	found, err := s.taxRepo.GetByIDs(ctx, companyID, ids)
	if err != nil {
		return fmt.Errorf("chargeService.checkTaxIDs: %w", err)
	}
	if len(found) != len(unique) {
		return domain.ErrTaxNotFound
	}
	return nil
}

func validateChargeType(ct *domain.ChargeType) error {
	if ct.Name == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if !domain.ValidChargeRoles[ct.Role] {
		return domain.NewValidationError("role", "must be one of rent, deposit, commission, other")
	}
	if ct.VATPercentage.Valid {
		if err := checkPercentage("vat_percentage", ct.VATPercentage.Decimal); err != nil {
			return err
		}
	}
	return nil
}

func validateTax(t *domain.Tax) error {
	if t.Kind == "" {
		return domain.NewValidationError("kind", "must not be empty")
	}
	if err := checkPercentage("percentage", t.Percentage); err != nil {
		return err
	}
	if t.ApplicableTo != nil && t.ApplicableTo.Before(t.ApplicableFrom) {
		return domain.NewValidationError("applicable_to", "must not be before applicable_from")
	}
	return nil
}

func upperOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}
