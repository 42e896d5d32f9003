package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

func newChargeService() (service.ChargeService, *mocks.MockChargeTypeRepo, *mocks.MockTaxRepo) {
	cts := new(mocks.MockChargeTypeRepo)
	taxes := new(mocks.MockTaxRepo)
	return service.NewChargeService(&mocks.PassthroughTransactor{}, cts, taxes), cts, taxes
}

func TestChargeService_CreateChargeType(t *testing.T) {
	svc, cts, taxes := newChargeService()
	companyID := uuid.New()
	vat := uuid.New()
	ctID := uuid.New()

	taxes.On("GetByIDs", mock.Anything, companyID, []uuid.UUID{vat, vat}).Return([]domain.Tax{{ID: vat}}, nil)
	cts.On("Create", mock.Anything, mock.MatchedBy(func(ct *domain.ChargeType) bool {
		return ct.Name == "Parking" && ct.Role == domain.ChargeRoleOther
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.ChargeType).ID = ctID
	}).Return(nil)
	cts.On("SetTaxes", mock.Anything, companyID, ctID, []uuid.UUID{vat, vat}).Return(nil)
	cts.On("GetByID", mock.Anything, companyID, ctID).Return(&domain.ChargeType{ID: ctID, Name: "Parking"}, nil)

	ct, err := svc.CreateChargeType(context.Background(), companyID, service.CreateChargeTypeInput{
		Name:   "  Parking ",
		TaxIDs: []uuid.UUID{vat, vat},
	})
	require.NoError(t, err)
	assert.Equal(t, ctID, ct.ID)
	cts.AssertExpectations(t)
}

func TestChargeService_CreateChargeType_Rejections(t *testing.T) {
	t.Run("bad vat", func(t *testing.T) {
		svc, _, _ := newChargeService()
		_, err := svc.CreateChargeType(context.Background(), uuid.New(), service.CreateChargeTypeInput{
			Name: "Rent", Role: domain.ChargeRoleRent, VATPercentage: decimal.NewNullDecimal(dec("100.5")),
		})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "vat_percentage", ve.Field)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc, _, _ := newChargeService()
		_, err := svc.CreateChargeType(context.Background(), uuid.New(), service.CreateChargeTypeInput{Name: "Rent", Role: "fee"})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "role", ve.Field)
	})

	t.Run("foreign tax", func(t *testing.T) {
		svc, cts, taxes := newChargeService()
		companyID := uuid.New()
		ids := []uuid.UUID{uuid.New(), uuid.New()}
		taxes.On("GetByIDs", mock.Anything, companyID, ids).Return([]domain.Tax{{ID: ids[0]}}, nil)

		_, err := svc.CreateChargeType(context.Background(), companyID, service.CreateChargeTypeInput{Name: "Rent", TaxIDs: ids})
		assert.ErrorIs(t, err, domain.ErrTaxNotFound)
		cts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestChargeService_UpdateChargeType_RoleLockedOnceBilled(t *testing.T) {
	svc, cts, _ := newChargeService()
	companyID := uuid.New()
	ct := &domain.ChargeType{ID: uuid.New(), CompanyID: companyID, Name: "Rent", Role: domain.ChargeRoleRent}
	cts.On("GetByID", mock.Anything, companyID, ct.ID).Return(ct, nil)
	cts.On("IsReferenced", mock.Anything, companyID, ct.ID).Return(true, nil)

	role := domain.ChargeRoleOther
	_, err := svc.UpdateChargeType(context.Background(), companyID, ct.ID, service.UpdateChargeTypeInput{Role: &role})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "role", ve.Field)
	cts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestChargeService_UpdateChargeType(t *testing.T) {
	svc, cts, _ := newChargeService()
	companyID := uuid.New()
	ct := &domain.ChargeType{ID: uuid.New(), CompanyID: companyID, Name: "Rent", Role: domain.ChargeRoleRent}
	cts.On("GetByID", mock.Anything, companyID, ct.ID).Return(ct, nil)
	cts.On("Update", mock.Anything, ct).Return(nil)
	cts.On("SetTaxes", mock.Anything, companyID, ct.ID, []uuid.UUID{}).Return(nil)

	name := "Residential Rent"
	same := domain.ChargeRoleRent
	vat := dec("5")
	cleared := []uuid.UUID{}
	_, err := svc.UpdateChargeType(context.Background(), companyID, ct.ID, service.UpdateChargeTypeInput{
		Name:          &name,
		Role:          &same,
		VATPercentage: &vat,
		TaxIDs:        &cleared,
	})
	require.NoError(t, err)
	assert.Equal(t, "Residential Rent", ct.Name)
	assert.True(t, ct.VATPercentage.Valid)
	cts.AssertNotCalled(t, "IsReferenced", mock.Anything, mock.Anything, mock.Anything)
	cts.AssertExpectations(t)
}

func TestChargeService_CreateTax(t *testing.T) {
	svc, _, taxes := newChargeService()
	companyID := uuid.New()
	country := " ae "
	taxes.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tax")).Return(nil)

	tax, err := svc.CreateTax(context.Background(), companyID, service.CreateTaxInput{
		Kind:           "VAT",
		Percentage:     dec("5"),
		CountryCode:    &country,
		ApplicableFrom: "2018-01-01",
	})
	require.NoError(t, err)
	assert.True(t, tax.IsActive)
	require.NotNil(t, tax.CountryCode)
	assert.Equal(t, "AE", *tax.CountryCode)
	assert.Nil(t, tax.StateCode)
	assert.Nil(t, tax.ApplicableTo)
}

func TestChargeService_CreateTax_WindowValidation(t *testing.T) {
	svc, _, _ := newChargeService()
	to := "2017-12-31"
	_, err := svc.CreateTax(context.Background(), uuid.New(), service.CreateTaxInput{
		Kind: "VAT", Percentage: dec("5"), ApplicableFrom: "2018-01-01", ApplicableTo: &to,
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "applicable_to", ve.Field)
}

func TestChargeService_UpdateTax_ReopensWindow(t *testing.T) {
	svc, _, taxes := newChargeService()
	companyID := uuid.New()
	end := day(2024, 12, 31)
	tax := &domain.Tax{ID: uuid.New(), CompanyID: companyID, Kind: "VAT", Percentage: dec("5"),
		ApplicableFrom: day(2018, 1, 1), ApplicableTo: &end, IsActive: true}
	taxes.On("GetByID", mock.Anything, companyID, tax.ID).Return(tax, nil)
	taxes.On("Update", mock.Anything, tax).Return(nil)

	open := ""
	got, err := svc.UpdateTax(context.Background(), companyID, tax.ID, service.UpdateTaxInput{ApplicableTo: &open})
	require.NoError(t, err)
	assert.Nil(t, got.ApplicableTo)
}

func TestChargeService_PreviewTax(t *testing.T) {
	svc, cts, _ := newChargeService()
	companyID := uuid.New()
	expired := day(2019, 12, 31)
	ct := &domain.ChargeType{
		ID: uuid.New(), CompanyID: companyID, Name: "Rent", Role: domain.ChargeRoleRent,
		VATPercentage: decimal.NewNullDecimal(dec("5")),
		Taxes: []domain.Tax{
			{CompanyID: companyID, Kind: "Municipality", Percentage: dec("2.5"), ApplicableFrom: day(2020, 1, 1), IsActive: true},
			{CompanyID: companyID, Kind: "Tourism", Percentage: dec("1"), ApplicableFrom: day(2018, 1, 1), ApplicableTo: &expired, IsActive: true},
			{CompanyID: companyID, Kind: "Old", Percentage: dec("9"), ApplicableFrom: day(2018, 1, 1), IsActive: false},
		},
	}
	cts.On("GetByID", mock.Anything, companyID, ct.ID).Return(ct, nil)

	p, err := svc.PreviewTax(context.Background(), companyID, ct.ID, dec("1000.10"), day(2025, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", p.Date)
	require.Len(t, p.Lines, 1)
	assert.Equal(t, "Municipality", p.Lines[0].Kind)
	assert.True(t, p.Tax.Equal(dec("25")), p.Tax.String())
	assert.True(t, p.Total.Equal(dec("1025.10")), p.Total.String())
}

func TestChargeService_PreviewTax_FallsBackToVAT(t *testing.T) {
	svc, cts, _ := newChargeService()
	companyID := uuid.New()
	ct := &domain.ChargeType{ID: uuid.New(), CompanyID: companyID, VATPercentage: decimal.NewNullDecimal(dec("5"))}
	cts.On("GetByID", mock.Anything, companyID, ct.ID).Return(ct, nil)

	p, err := svc.PreviewTax(context.Background(), companyID, ct.ID, dec("333.33"), day(2025, 6, 1))
	require.NoError(t, err)
	require.Len(t, p.Lines, 1)
	assert.Equal(t, "VAT", p.Lines[0].Kind)
	assert.True(t, p.Tax.Equal(dec("16.67")), p.Tax.String())
}

func TestChargeService_PreviewTax_NegativeAmount(t *testing.T) {
	svc, _, _ := newChargeService()
	_, err := svc.PreviewTax(context.Background(), uuid.New(), uuid.New(), dec("-1"), day(2025, 6, 1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
