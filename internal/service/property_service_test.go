package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

func newPropertyService() (service.PropertyService, *mocks.MockBuildingRepo, *mocks.MockUnitRepo, *mocks.MockTenantRepo) {
	b := new(mocks.MockBuildingRepo)
	u := new(mocks.MockUnitRepo)
	tn := new(mocks.MockTenantRepo)
	return service.NewPropertyService(b, u, tn), b, u, tn
}

func TestPropertyService_CreateBuilding(t *testing.T) {
	svc, buildings, _, _ := newPropertyService()
	companyID := uuid.New()
	buildings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Building) bool {
		return b.CompanyID == companyID && b.Name == "Marina Tower" && b.CountryCode == "AE" && b.StateCode == "DU"
	})).Return(nil)

	b, err := svc.CreateBuilding(context.Background(), companyID, service.CreateBuildingInput{
		Name: " Marina Tower ", CountryCode: "ae", StateCode: "du",
	})
	require.NoError(t, err)
	assert.Equal(t, "Marina Tower", b.Name)
	buildings.AssertExpectations(t)
}

func TestPropertyService_CreateBuilding_BlankName(t *testing.T) {
	svc, buildings, _, _ := newPropertyService()
	_, err := svc.CreateBuilding(context.Background(), uuid.New(), service.CreateBuildingInput{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	buildings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyService_CreateUnit(t *testing.T) {
	svc, buildings, units, _ := newPropertyService()
	companyID := uuid.New()
	buildingID := uuid.New()
	buildings.On("GetByID", mock.Anything, companyID, buildingID).Return(&domain.Building{ID: buildingID}, nil)
	units.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.Unit) bool {
		return u.BuildingID == buildingID && u.UnitNumber == "1204" && u.Status == domain.UnitStatusVacant
	})).Return(nil)

	u, err := svc.CreateUnit(context.Background(), companyID, buildingID, service.CreateUnitInput{UnitNumber: "1204", UnitType: "2BR"})
	require.NoError(t, err)
	assert.Equal(t, domain.UnitStatusVacant, u.Status)
	units.AssertExpectations(t)
}

func TestPropertyService_CreateUnit_UnknownBuilding(t *testing.T) {
	svc, buildings, units, _ := newPropertyService()
	companyID := uuid.New()
	buildingID := uuid.New()
	buildings.On("GetByID", mock.Anything, companyID, buildingID).Return(nil, domain.ErrBuildingNotFound)

	_, err := svc.CreateUnit(context.Background(), companyID, buildingID, service.CreateUnitInput{UnitNumber: "1"})
	assert.ErrorIs(t, err, domain.ErrBuildingNotFound)
	units.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	_, _, err = svc.ListUnits(context.Background(), companyID, buildingID, 0, 20)
	assert.ErrorIs(t, err, domain.ErrBuildingNotFound)
}

func TestPropertyService_CreateTenant(t *testing.T) {
	svc, _, _, tenants := newPropertyService()
	companyID := uuid.New()
	tenants.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tenant")).Return(nil)

	tn, err := svc.CreateTenant(context.Background(), companyID, service.CreateTenantInput{FullName: " Jane Doe ", Phone: "+971500000000"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", tn.FullName)
	assert.Equal(t, companyID, tn.CompanyID)

	_, err = svc.CreateTenant(context.Background(), companyID, service.CreateTenantInput{FullName: ""})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "full_name", ve.Field)
	tenants.AssertNumberOfCalls(t, "Create", 1)
}
