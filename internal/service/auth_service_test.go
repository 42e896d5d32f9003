package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rentdesk/internal/config"
	"rentdesk/internal/domain"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "rentdesk-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func activeAccount() (*domain.Company, *domain.User) {
	company := &domain.Company{ID: uuid.New(), Name: "Acme Properties", Slug: "acme", Currency: "AED", IsActive: true}
	user := &domain.User{
		ID:           uuid.New(),
		CompanyID:    company.ID,
		Email:        "user@acme.test",
		PasswordHash: hashPassword("password123"),
		FullName:     "Test User",
		Role:         domain.RoleAccountant,
		IsActive:     true,
	}
	return company, user
}

func TestAuthService_Login_Success(t *testing.T) {
	companyRepo := new(mocks.MockCompanyRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, companyRepo, testJWTConfig())
	company, user := activeAccount()

	companyRepo.On("GetBySlug", mock.Anything, "acme").Return(company, nil)
	userRepo.On("GetByEmail", mock.Anything, company.ID, "user@acme.test").Return(user, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		CompanySlug: "acme",
		Email:       "user@acme.test",
		Password:    "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, company.ID, claims.CompanyID)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleAccountant, claims.Role)
	assert.Equal(t, "rentdesk-test", claims.Issuer)

	companyRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *mocks.MockCompanyRepo, u *mocks.MockUserRepo, company *domain.Company, user *domain.User)
		pass  string
		want  error
	}{
		{
			name: "unknown company",
			setup: func(c *mocks.MockCompanyRepo, _ *mocks.MockUserRepo, _ *domain.Company, _ *domain.User) {
				c.On("GetBySlug", mock.Anything, "acme").Return(nil, domain.ErrNotFound)
			},
			pass: "password123",
			want: domain.ErrInvalidCredentials,
		},
		{
			name: "inactive company",
			setup: func(c *mocks.MockCompanyRepo, _ *mocks.MockUserRepo, company *domain.Company, _ *domain.User) {
				company.IsActive = false
				c.On("GetBySlug", mock.Anything, "acme").Return(company, nil)
			},
			pass: "password123",
			want: domain.ErrCompanyInactive,
		},
		{
			name: "unknown user",
			setup: func(c *mocks.MockCompanyRepo, u *mocks.MockUserRepo, company *domain.Company, _ *domain.User) {
				c.On("GetBySlug", mock.Anything, "acme").Return(company, nil)
				u.On("GetByEmail", mock.Anything, company.ID, "user@acme.test").Return(nil, domain.ErrNotFound)
			},
			pass: "password123",
			want: domain.ErrInvalidCredentials,
		},
		{
			name: "inactive user",
			setup: func(c *mocks.MockCompanyRepo, u *mocks.MockUserRepo, company *domain.Company, user *domain.User) {
				user.IsActive = false
				c.On("GetBySlug", mock.Anything, "acme").Return(company, nil)
				u.On("GetByEmail", mock.Anything, company.ID, "user@acme.test").Return(user, nil)
			},
			pass: "password123",
			want: domain.ErrUserInactive,
		},
		{
			name: "wrong password",
			setup: func(c *mocks.MockCompanyRepo, u *mocks.MockUserRepo, company *domain.Company, user *domain.User) {
				c.On("GetBySlug", mock.Anything, "acme").Return(company, nil)
				u.On("GetByEmail", mock.Anything, company.ID, "user@acme.test").Return(user, nil)
			},
			pass: "wrongpassword",
			want: domain.ErrInvalidCredentials,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			companyRepo := new(mocks.MockCompanyRepo)
			userRepo := new(mocks.MockUserRepo)
			svc := service.NewAuthService(userRepo, companyRepo, testJWTConfig())
			company, user := activeAccount()
			tt.setup(companyRepo, userRepo, company, user)

			result, err := svc.Login(context.Background(), service.LoginInput{
				CompanySlug: "acme", Email: "user@acme.test", Password: tt.pass,
			})
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	companyRepo := new(mocks.MockCompanyRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, companyRepo, testJWTConfig())
	boom := errors.New("connection refused")
	companyRepo.On("GetBySlug", mock.Anything, "acme").Return(nil, boom)

	_, err := svc.Login(context.Background(), service.LoginInput{CompanySlug: "acme", Email: "a@b.co", Password: "password123"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_RefreshToken(t *testing.T) {
	companyRepo := new(mocks.MockCompanyRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, companyRepo, testJWTConfig())
	company, user := activeAccount()

	companyRepo.On("GetBySlug", mock.Anything, "acme").Return(company, nil)
	userRepo.On("GetByEmail", mock.Anything, company.ID, user.Email).Return(user, nil)
	userRepo.On("GetByID", mock.Anything, company.ID, user.ID).Return(user, nil)
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{CompanySlug: "acme", Email: user.Email, Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted for refresh, and a refresh token not for access.
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_RefreshToken_InactiveCompany(t *testing.T) {
	companyRepo := new(mocks.MockCompanyRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, companyRepo, testJWTConfig())
	company, user := activeAccount()

	companyRepo.On("GetBySlug", mock.Anything, "acme").Return(company, nil)
	userRepo.On("GetByEmail", mock.Anything, company.ID, user.Email).Return(user, nil)
	pair, err := svc.Login(context.Background(), service.LoginInput{CompanySlug: "acme", Email: user.Email, Password: "password123"})
	require.NoError(t, err)

	userRepo.On("GetByID", mock.Anything, company.ID, user.ID).Return(user, nil)
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(&domain.Company{ID: company.ID, IsActive: false}, nil)

	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrCompanyInactive)
}

func TestAuthService_ValidateToken_Rejections(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockUserRepo), new(mocks.MockCompanyRepo), testJWTConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)

	other := testJWTConfig()
	other.Secret = "a-different-secret"
	foreign := service.NewAuthService(new(mocks.MockUserRepo), new(mocks.MockCompanyRepo), other)
	companyRepo := new(mocks.MockCompanyRepo)
	userRepo := new(mocks.MockUserRepo)
	issuer := service.NewAuthService(userRepo, companyRepo, testJWTConfig())
	company, user := activeAccount()
	companyRepo.On("GetBySlug", mock.Anything, "acme").Return(company, nil)
	userRepo.On("GetByEmail", mock.Anything, company.ID, user.Email).Return(user, nil)
	pair, err := issuer.Login(context.Background(), service.LoginInput{CompanySlug: "acme", Email: user.Email, Password: "password123"})
	require.NoError(t, err)

	_, err = foreign.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestRegistrationService_Register(t *testing.T) {
	tx := &mocks.PassthroughTransactor{}
	companyRepo := new(mocks.MockCompanyRepo)
	userRepo := new(mocks.MockUserRepo)
	authSvc := new(mocks.MockAuthService)
	svc := service.NewRegistrationService(tx, companyRepo, userRepo, authSvc)
	companyID := uuid.New()

	companyRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Company) bool {
		return c.Slug == "acme-homes" && c.Currency == service.DefaultCurrency && c.IsActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Company).ID = companyID
	}).Return(nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.CompanyID == companyID && u.Role == domain.RoleAdmin &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(nil)
	authSvc.On("Login", mock.Anything, service.LoginInput{
		CompanySlug: "acme-homes", Email: "owner@acme.test", Password: "password123",
	}).Return(&service.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil)

	out, err := svc.Register(context.Background(), service.RegisterInput{
		CompanyName: "Acme Homes",
		CompanySlug: " Acme-Homes ",
		Email:       "owner@acme.test",
		Password:    "password123",
		FullName:    "Owner",
	})
	require.NoError(t, err)
	assert.Equal(t, companyID, out.Company.ID)
	assert.Equal(t, "AED", out.Company.Currency)
	assert.Equal(t, "a", out.Tokens.AccessToken)
	assert.Equal(t, 1, tx.Calls)
	companyRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestRegistrationService_Register_DuplicateSlug(t *testing.T) {
	tx := &mocks.PassthroughTransactor{}
	companyRepo := new(mocks.MockCompanyRepo)
	userRepo := new(mocks.MockUserRepo)
	authSvc := new(mocks.MockAuthService)
	svc := service.NewRegistrationService(tx, companyRepo, userRepo, authSvc)

	companyRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateSlug)

	_, err := svc.Register(context.Background(), service.RegisterInput{
		CompanyName: "Acme", CompanySlug: "acme", Currency: "usd", Email: "o@acme.test", Password: "password123", FullName: "O",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	authSvc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}
