package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// DefaultCurrency is used when a company registers without choosing one.
const DefaultCurrency = "AED"

// RegisterInput is the DTO for company self-registration.
type RegisterInput struct {
	CompanyName string `json:"company_name" binding:"required"`
	CompanySlug string `json:"company_slug" binding:"required,min=3,max=63"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required"`
}

// RegisterOutput contains the results of a successful registration.
type RegisterOutput struct {
	Company *domain.Company `json:"company"`
	User    *domain.User    `json:"user"`
	Tokens  *TokenPair      `json:"tokens"`
}

// RegistrationService creates a company together with its first admin user.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
}

type registrationService struct {
	tx          port.Transactor
	companyRepo port.CompanyRepository
	userRepo    port.UserRepository
	authSvc     AuthService
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	tx port.Transactor,
	companyRepo port.CompanyRepository,
	userRepo port.UserRepository,
	authSvc AuthService,
) RegistrationService {
	return &registrationService{
		tx:          tx,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		authSvc:     authSvc,
	}
}

func (s *registrationService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	slug := strings.ToLower(strings.TrimSpace(input.CompanySlug))
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	company := &domain.Company{
		Name:     input.CompanyName,
		Slug:     slug,
		Currency: currency,
		IsActive: true,
	}
	user := &domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.companyRepo.Create(ctx, company); err != nil {
			return err
		}
		user.CompanyID = company.ID
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("registration.Register: company created", "company_id", company.ID, "slug", company.Slug)

	tokens, err := s.authSvc.Login(ctx, LoginInput{
		CompanySlug: slug,
		Email:       input.Email,
		Password:    input.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	return &RegisterOutput{
		Company: company,
		User:    user,
		Tokens:  tokens,
	}, nil
}
