package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/billing"
	"rentdesk/internal/domain"
	"rentdesk/internal/handler"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

func TestInvoiceHandler_Create_TotalMismatch(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)
	companyID, userID, tenancyID := uuid.New(), uuid.New(), uuid.New()

	mockSvc.On("Create", mock.Anything, companyID, userID, mock.MatchedBy(func(in service.CreateInvoiceInput) bool {
		return in.TenancyID == tenancyID && in.TotalAmount.Equal(decimal.NewFromInt(999))
	})).Return(nil, domain.ErrInvoiceTotal)

	c, w := newContext(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"tenancy_id":   tenancyID,
		"total_amount": "999",
	})
	setAuthContext(c, companyID, userID, "accountant")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVOICE_TOTAL_MISMATCH", decodeResponse(t, w).Error.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_List_StatusFilter(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)
	companyID := uuid.New()
	status := domain.InvoiceStatusPartiallyPaid

	mockSvc.On("List", mock.Anything, companyID, domain.InvoiceFilter{Status: &status}, 0, 20).
		Return([]domain.Invoice{}, 0, nil)

	c, w := newContext(http.MethodGet, "/api/v1/invoices?status=partially_paid", nil)
	setAuthContext(c, companyID, uuid.New(), "viewer")

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_List_InvalidTenancyID(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	c, w := newContext(http.MethodGet, "/api/v1/invoices?tenancy_id=abc", nil)
	setAuthContext(c, uuid.New(), uuid.New(), "viewer")

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "List")
}

func TestCollectionHandler_Create_Success(t *testing.T) {
	mockSvc := new(mocks.MockCollectionService)
	h := handler.NewCollectionHandler(mockSvc)
	companyID, userID, invoiceID := uuid.New(), uuid.New(), uuid.New()

	detail := &service.CollectionDetail{
		Collection:    &domain.Collection{ID: uuid.New(), InvoiceID: invoiceID, Amount: decimal.NewFromInt(5000)},
		InvoiceNumber: "INV-0001",
		InvoiceStatus: domain.InvoiceStatusPartiallyPaid,
	}
	mockSvc.On("Create", mock.Anything, companyID, userID, mock.MatchedBy(func(in service.CreateCollectionInput) bool {
		return in.InvoiceID == invoiceID && in.Amount.Equal(decimal.NewFromInt(5000)) && in.CollectionMode == "cash"
	})).Return(detail, nil)

	c, w := newContext(http.MethodPost, "/api/v1/collections", map[string]interface{}{
		"invoice_id":      invoiceID,
		"amount":          "5000",
		"collection_date": "2024-02-01",
		"collection_mode": "cash",
	})
	setAuthContext(c, companyID, userID, "accountant")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"invoice_number":"INV-0001"`)
	mockSvc.AssertExpectations(t)
}

func TestCollectionHandler_Create_MissingMode(t *testing.T) {
	mockSvc := new(mocks.MockCollectionService)
	h := handler.NewCollectionHandler(mockSvc)

	c, w := newContext(http.MethodPost, "/api/v1/collections", map[string]interface{}{
		"invoice_id":      uuid.New(),
		"amount":          "5000",
		"collection_date": "2024-02-01",
	})
	setAuthContext(c, uuid.New(), uuid.New(), "accountant")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create")
}

func TestRefundHandler_Balance(t *testing.T) {
	mockSvc := new(mocks.MockRefundService)
	h := handler.NewRefundHandler(mockSvc)
	companyID, tenancyID := uuid.New(), uuid.New()

	mockSvc.On("Balance", mock.Anything, companyID, tenancyID).Return(&service.RefundBalanceDetail{
		TenancyID: tenancyID,
		RefundBalance: billing.RefundBalance{
			TotalDeposit: decimal.NewFromInt(5000),
			Refundable:   decimal.NewFromInt(5000),
		},
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/tenancies/"+tenancyID.String()+"/excess-deposits", nil)
	c.Params = gin.Params{{Key: "id", Value: tenancyID.String()}}
	setAuthContext(c, companyID, uuid.New(), "viewer")

	h.Balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRefundHandler_Create_Exceeds(t *testing.T) {
	mockSvc := new(mocks.MockRefundService)
	h := handler.NewRefundHandler(mockSvc)
	companyID, userID := uuid.New(), uuid.New()

	mockSvc.On("Create", mock.Anything, companyID, userID, mock.Anything).Return(nil, domain.ErrRefundExceeds)

	c, w := newContext(http.MethodPost, "/api/v1/refunds", map[string]interface{}{
		"tenancy_id":      uuid.New(),
		"amount_refunded": "9000",
		"payment_method":  "bank_transfer",
		"payment_date":    "2024-12-31",
	})
	setAuthContext(c, companyID, userID, "accountant")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "REFUND_EXCEEDS_BALANCE", decodeResponse(t, w).Error.Code)
}
