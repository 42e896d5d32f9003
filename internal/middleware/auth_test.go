package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"rentdesk/internal/domain"
	"rentdesk/internal/middleware"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	companyID := uuid.New()
	userID := uuid.New()
	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{},
		CompanyID:        companyID,
		UserID:           userID,
		Email:            "manager@marina.ae",
		Role:             domain.RoleManager,
	}
	mockAuth.On("ValidateToken", "valid-token").Return(claims, nil)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth), middleware.CompanyGuard())
	r.GET("/test", func(c *gin.Context) {
		cid, _ := middleware.GetCompanyID(c)
		uid, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"company_id": cid,
			"user_id":    uid,
			"role":       middleware.GetRole(c),
		})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, companyID.String(), resp["company_id"])
	assert.Equal(t, userID.String(), resp["user_id"])
	assert.Equal(t, "manager", resp["role"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"invalid token", "Bearer expired-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			mockAuth.On("ValidateToken", "expired-token").Return(nil, domain.ErrUnauthorized).Maybe()

			r := gin.New()
			r.Use(middleware.AuthMiddleware(mockAuth))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestCompanyGuard_NoCompanyContext(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CompanyGuard())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       domain.UserRole
		allowed    []domain.UserRole
		wantStatus int
	}{
		{"admin on admin route", domain.RoleAdmin, []domain.UserRole{domain.RoleAdmin}, http.StatusOK},
		{"manager writes properties", domain.RoleManager, domain.PropertyWriters, http.StatusOK},
		{"accountant cannot write properties", domain.RoleAccountant, domain.PropertyWriters, http.StatusForbidden},
		{"accountant records finance", domain.RoleAccountant, domain.FinanceWriters, http.StatusOK},
		{"viewer cannot record finance", domain.RoleViewer, domain.FinanceWriters, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				c.Set(middleware.ContextKeyRole, string(tt.role))
				c.Next()
			})
			r.GET("/test", middleware.RequireRole(tt.allowed...), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireRole_NoRoleInContext(t *testing.T) {
	r := gin.New()
	r.GET("/test", middleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
