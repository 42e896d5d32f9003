package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentdesk/internal/billing"
	"rentdesk/internal/config"
	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// TenancyTermsInput carries the commercial terms shared by create, update and renew.
type TenancyTermsInput struct {
	StartDate        string              `json:"start_date" binding:"required"`
	EndDate          *string             `json:"end_date"`
	RentalMonths     int                 `json:"rental_months" binding:"min=0"`
	NoPayments       int                 `json:"no_payments" binding:"min=0"`
	RentPerFrequency decimal.NullDecimal `json:"rent_per_frequency" swaggertype:"string"`
	FirstRentDueOn   *string             `json:"first_rent_due_on"`
	Deposit          decimal.NullDecimal `json:"deposit" swaggertype:"string"`
	Commission       decimal.NullDecimal `json:"commission" swaggertype:"string"`
}

// CreateTenancyInput is the DTO for creating a tenancy contract.
type CreateTenancyInput struct {
	TenantID       uuid.UUID `json:"tenant_id" binding:"required"`
	BuildingID     uuid.UUID `json:"building_id" binding:"required"`
	UnitID         uuid.UUID `json:"unit_id" binding:"required"`
	ContractNumber string    `json:"contract_number" binding:"required"`
	Remarks        string    `json:"remarks"`
	TenancyTermsInput
}

// UpdateTenancyInput is the DTO for editing a pending or active tenancy.
type UpdateTenancyInput struct {
	ContractNumber *string `json:"contract_number"`
	Remarks        *string `json:"remarks"`
	TenancyTermsInput
}

// RenewTenancyInput is the DTO for renewing a tenancy on new terms.
type RenewTenancyInput struct {
	Remarks *string `json:"remarks"`
	TenancyTermsInput
}

// AddChargeInput is the DTO for attaching an ad hoc charge to a tenancy.
type AddChargeInput struct {
	ChargeTypeID uuid.UUID       `json:"charge_type_id" binding:"required"`
	Reason       string          `json:"reason" binding:"required"`
	DueDate      string          `json:"due_date" binding:"required"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string"`
}

// TenancyDetail is a tenancy with its line items.
type TenancyDetail struct {
	*domain.Tenancy
	PaymentSchedules  []domain.LineItem `json:"payment_schedules"`
	AdditionalCharges []domain.LineItem `json:"additional_charges"`
}

// TenancyService manages tenancy contracts and the line items they owe.
type TenancyService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, input CreateTenancyInput) (*TenancyDetail, error)
	Update(ctx context.Context, companyID, tenancyID uuid.UUID, input UpdateTenancyInput) (*TenancyDetail, error)
	Activate(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error)
	Renew(ctx context.Context, companyID, tenancyID uuid.UUID, input RenewTenancyInput) (*TenancyDetail, error)
	Terminate(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error)
	Close(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error)
	Get(ctx context.Context, companyID, tenancyID uuid.UUID) (*TenancyDetail, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.TenancyFilter, offset, limit int) ([]domain.Tenancy, int, error)

	ListSchedules(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.LineItem, error)
	AddCharge(ctx context.Context, companyID, tenancyID uuid.UUID, input AddChargeInput) (*domain.LineItem, error)
	ListCharges(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.LineItem, error)
	DeleteCharge(ctx context.Context, companyID, chargeID uuid.UUID) error
}

// tenancyTransitions lists the statuses each status may move to.
var tenancyTransitions = map[domain.TenancyStatus][]domain.TenancyStatus{
	domain.TenancyStatusPending:    {domain.TenancyStatusActive, domain.TenancyStatusTerminated},
	domain.TenancyStatusActive:     {domain.TenancyStatusRenewed, domain.TenancyStatusTerminated, domain.TenancyStatusClosed},
	domain.TenancyStatusRenewed:    {domain.TenancyStatusRenewed, domain.TenancyStatusTerminated, domain.TenancyStatusClosed},
	domain.TenancyStatusTerminated: {domain.TenancyStatusClosed},
}

func canTransition(from, to domain.TenancyStatus) bool {
	for _, s := range tenancyTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type tenancyService struct {
	tx             port.Transactor
	tenancyRepo    port.TenancyRepository
	lineItemRepo   port.LineItemRepository
	chargeTypeRepo port.ChargeTypeRepository
	tenantRepo     port.TenantRepository
	buildingRepo   port.BuildingRepository
	unitRepo       port.UnitRepository
	cfg            config.BillingConfig
}

// NewTenancyService creates a new TenancyService implementation.
func NewTenancyService(
	tx port.Transactor,
	tenancyRepo port.TenancyRepository,
	lineItemRepo port.LineItemRepository,
	chargeTypeRepo port.ChargeTypeRepository,
	tenantRepo port.TenantRepository,
	buildingRepo port.BuildingRepository,
	unitRepo port.UnitRepository,
	cfg config.BillingConfig,
) TenancyService {
	return &tenancyService{
		tx:             tx,
		tenancyRepo:    tenancyRepo,
		lineItemRepo:   lineItemRepo,
		chargeTypeRepo: chargeTypeRepo,
		tenantRepo:     tenantRepo,
		buildingRepo:   buildingRepo,
		unitRepo:       unitRepo,
		cfg:            cfg,
	}
}

func (s *tenancyService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateTenancyInput) (*TenancyDetail, error) {
	t := &domain.Tenancy{
		ID:             uuid.New(),
		CompanyID:      companyID,
		TenantID:       input.TenantID,
		BuildingID:     input.BuildingID,
		UnitID:         input.UnitID,
		ContractNumber: strings.TrimSpace(input.ContractNumber),
		Status:         domain.TenancyStatusPending,
		Remarks:        input.Remarks,
		CreatedBy:      userID,
	}
	if t.ContractNumber == "" {
		return nil, domain.NewValidationError("contract_number", "must not be empty")
	}
	if err := s.applyTerms(t, input.TenancyTermsInput); err != nil {
		return nil, err
	}

	var created int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.tenantRepo.GetByID(ctx, companyID, input.TenantID); err != nil {
			return err
		}
		if _, err := s.buildingRepo.GetByID(ctx, companyID, input.BuildingID); err != nil {
			return err
		}
		unit, err := s.unitRepo.GetByID(ctx, companyID, input.UnitID)
		if err != nil {
			return err
		}
		if unit.BuildingID != input.BuildingID {
			return domain.NewValidationError("unit_id", "unit does not belong to the building")
		}
		if unit.Status != domain.UnitStatusVacant {
			return domain.ErrUnitOccupied
		}

		if err := s.tenancyRepo.Create(ctx, t); err != nil {
			return err
		}
		if created, err = s.regenerate(ctx, t); err != nil {
			return err
		}
		return s.unitRepo.UpdateStatus(ctx, companyID, unit.ID, domain.UnitStatusOccupied)
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("tenancy.Create: tenancy created",
		"company_id", companyID, "tenancy_id", t.ID, "schedule_rows", created)
	return s.Get(ctx, companyID, t.ID)
}

func (s *tenancyService) Update(ctx context.Context, companyID, tenancyID uuid.UUID, input UpdateTenancyInput) (*TenancyDetail, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.tenancyRepo.GetForUpdate(ctx, companyID, tenancyID)
		if err != nil {
			return err
		}
		if t.Status != domain.TenancyStatusPending && t.Status != domain.TenancyStatusActive {
			return domain.ErrTenancyNotOpen
		}

		if input.ContractNumber != nil {
			t.ContractNumber = strings.TrimSpace(*input.ContractNumber)
			if t.ContractNumber == "" {
				return domain.NewValidationError("contract_number", "must not be empty")
			}
		}
		if input.Remarks != nil {
			t.Remarks = *input.Remarks
		}
		if err := s.applyTerms(t, input.TenancyTermsInput); err != nil {
			return err
		}
		if err := s.tenancyRepo.Update(ctx, t); err != nil {
			return err
		}
		_, err = s.regenerate(ctx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, companyID, tenancyID)
}

func (s *tenancyService) Activate(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	return s.transition(ctx, companyID, tenancyID, domain.TenancyStatusActive, nil)
}

func (s *tenancyService) Renew(ctx context.Context, companyID, tenancyID uuid.UUID, input RenewTenancyInput) (*TenancyDetail, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.tenancyRepo.GetForUpdate(ctx, companyID, tenancyID)
		if err != nil {
			return err
		}
		if !canTransition(t.Status, domain.TenancyStatusRenewed) {
			return domain.ErrInvalidTransition
		}

		if err := s.applyTerms(t, input.TenancyTermsInput); err != nil {
			return err
		}
		if input.Remarks != nil {
			t.Remarks = *input.Remarks
		}
		t.Status = domain.TenancyStatusRenewed
		if err := s.tenancyRepo.Update(ctx, t); err != nil {
			return err
		}
		_, err = s.regenerate(ctx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, companyID, tenancyID)
}

func (s *tenancyService) Terminate(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	return s.transition(ctx, companyID, tenancyID, domain.TenancyStatusTerminated, func(ctx context.Context, t *domain.Tenancy) error {
		for _, kind := range lineItemKinds {
			if _, err := s.lineItemRepo.DeletePending(ctx, companyID, tenancyID, kind); err != nil {
				return err
			}
		}
		return s.unitRepo.UpdateStatus(ctx, companyID, t.UnitID, domain.UnitStatusVacant)
	})
}

func (s *tenancyService) Close(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	return s.transition(ctx, companyID, tenancyID, domain.TenancyStatusClosed, func(ctx context.Context, t *domain.Tenancy) error {
		unsettled, err := s.lineItemRepo.CountUnsettled(ctx, companyID, tenancyID)
		if err != nil {
			return err
		}
		if unsettled > 0 {
			return domain.ErrTenancyHasBalance
		}
		if t.Status == domain.TenancyStatusTerminated {
			return nil
		}
		return s.unitRepo.UpdateStatus(ctx, companyID, t.UnitID, domain.UnitStatusVacant)
	})
}

// transition moves a locked tenancy to status after running before, which
// sees the tenancy in its previous status.
func (s *tenancyService) transition(
	ctx context.Context,
	companyID, tenancyID uuid.UUID,
	status domain.TenancyStatus,
	before func(ctx context.Context, t *domain.Tenancy) error,
) (*domain.Tenancy, error) {
	var out *domain.Tenancy
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.tenancyRepo.GetForUpdate(ctx, companyID, tenancyID)
		if err != nil {
			return err
		}
		if !canTransition(t.Status, status) {
			return domain.ErrInvalidTransition
		}
		if before != nil {
			if err := before(ctx, t); err != nil {
				return err
			}
		}
		if err := s.tenancyRepo.UpdateStatus(ctx, companyID, tenancyID, status); err != nil {
			return err
		}
		t.Status = status
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.S().Infow("tenancy.transition: status changed", "tenancy_id", tenancyID, "status", status)
	return out, nil
}

func (s *tenancyService) Get(ctx context.Context, companyID, tenancyID uuid.UUID) (*TenancyDetail, error) {
	t, err := s.tenancyRepo.GetByID(ctx, companyID, tenancyID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.lineItemRepo.ListByTenancy(ctx, companyID, tenancyID, domain.LineItemPaymentSchedule)
	if err != nil {
		return nil, err
	}
	charges, err := s.lineItemRepo.ListByTenancy(ctx, companyID, tenancyID, domain.LineItemAdditionalCharge)
	if err != nil {
		return nil, err
	}
	return &TenancyDetail{
		Tenancy:           t,
		PaymentSchedules:  nonNilItems(schedules),
		AdditionalCharges: nonNilItems(charges),
	}, nil
}

func (s *tenancyService) List(ctx context.Context, companyID uuid.UUID, filter domain.TenancyFilter, offset, limit int) ([]domain.Tenancy, int, error) {
	return s.tenancyRepo.List(ctx, companyID, filter, offset, limit)
}

func (s *tenancyService) ListSchedules(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.LineItem, error) {
	if _, err := s.tenancyRepo.GetByID(ctx, companyID, tenancyID); err != nil {
		return nil, err
	}
	items, err := s.lineItemRepo.ListByTenancy(ctx, companyID, tenancyID, domain.LineItemPaymentSchedule)
	return nonNilItems(items), err
}

func (s *tenancyService) AddCharge(ctx context.Context, companyID, tenancyID uuid.UUID, input AddChargeInput) (*domain.LineItem, error) {
	due, err := parseDate("due_date", input.DueDate)
	if err != nil {
		return nil, err
	}
	if err := checkPositive("amount", input.Amount); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "must not be empty")
	}

	t, err := s.tenancyRepo.GetByID(ctx, companyID, tenancyID)
	if err != nil {
		return nil, err
	}
	if !t.Status.IsOpen() {
		return nil, domain.ErrTenancyNotOpen
	}
	ct, err := s.chargeTypeRepo.GetByID(ctx, companyID, input.ChargeTypeID)
	if err != nil {
		return nil, err
	}

	item := billing.NewLineItem(domain.LineItemAdditionalCharge, t, ct, reason, due, money(input.Amount))
	if err := s.lineItemRepo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *tenancyService) ListCharges(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.LineItem, error) {
	if _, err := s.tenancyRepo.GetByID(ctx, companyID, tenancyID); err != nil {
		return nil, err
	}
	items, err := s.lineItemRepo.ListByTenancy(ctx, companyID, tenancyID, domain.LineItemAdditionalCharge)
	return nonNilItems(items), err
}

func (s *tenancyService) DeleteCharge(ctx context.Context, companyID, chargeID uuid.UUID) error {
	return s.lineItemRepo.Delete(ctx, companyID, domain.LineItemAdditionalCharge, chargeID)
}

// regenerate replaces the tenancy's pending schedule rows with a fresh
// generation. Rows that already left pending are kept, and generated rows
// duplicating one of them are dropped.
func (s *tenancyService) regenerate(ctx context.Context, t *domain.Tenancy) (int, error) {
	if _, err := s.lineItemRepo.DeletePending(ctx, t.CompanyID, t.ID, domain.LineItemPaymentSchedule); err != nil {
		return 0, err
	}
	preserved, err := s.lineItemRepo.ListByTenancy(ctx, t.CompanyID, t.ID, domain.LineItemPaymentSchedule)
	if err != nil {
		return 0, err
	}
	charges, err := s.chargeRoles(ctx, t.CompanyID)
	if err != nil {
		return 0, err
	}

	items := billing.SkipPreserved(billing.GenerateSchedule(t, charges), preserved)
	if err := s.lineItemRepo.CreateBatch(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *tenancyService) chargeRoles(ctx context.Context, companyID uuid.UUID) (billing.ChargeTypes, error) {
	cts, err := s.chargeTypeRepo.GetByRoles(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("tenancy.chargeRoles: %w", err)
	}
	out := make(billing.ChargeTypes, len(cts))
	for i := range cts {
		out[cts[i].Role] = &cts[i]
	}
	return out, nil
}

// applyTerms validates terms and copies them onto t.
func (s *tenancyService) applyTerms(t *domain.Tenancy, in TenancyTermsInput) error {
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := parseOptionalDate("end_date", in.EndDate)
	if err != nil {
		return err
	}
	if end != nil && end.Before(start) {
		return domain.NewValidationError("end_date", "must not be before start_date")
	}
	firstDue, err := parseOptionalDate("first_rent_due_on", in.FirstRentDueOn)
	if err != nil {
		return err
	}
	if in.RentalMonths < 0 {
		return domain.NewValidationError("rental_months", "must not be negative")
	}
	if in.NoPayments < 0 {
		return domain.NewValidationError("no_payments", "must not be negative")
	}
	if err := checkNonNegative("rent_per_frequency", in.RentPerFrequency); err != nil {
		return err
	}
	if err := checkNonNegative("deposit", in.Deposit); err != nil {
		return err
	}
	if err := checkNonNegative("commission", in.Commission); err != nil {
		return err
	}

	rentalMonths := in.RentalMonths
	if rentalMonths == 0 {
		rentalMonths = s.cfg.DefaultRentalMonths
	}

	t.StartDate = start
	t.EndDate = end
	t.RentalMonths = rentalMonths
	t.NoPayments = in.NoPayments
	t.RentPerFrequency = roundNull(in.RentPerFrequency)
	t.FirstRentDueOn = firstDue
	t.Deposit = roundNull(in.Deposit)
	t.Commission = roundNull(in.Commission)
	t.RecomputeReceivable()
	return nil
}

func roundNull(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(money(d.Decimal))
}

func nonNilItems(items []domain.LineItem) []domain.LineItem {
	if items == nil {
		return []domain.LineItem{}
	}
	return items
}
