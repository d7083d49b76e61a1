package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/logger"
	"github.com/mekaniko-ph/mekaniko-backend/internal/models"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
	"github.com/mekaniko-ph/mekaniko-backend/internal/validation"
)

// IdentityRepository is the storage surface the identity service needs.
type IdentityRepository interface {
	Create(ctx context.Context, account *models.Account, roles []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetRoles(ctx context.Context, accountID uuid.UUID) ([]string, error)
	UpdateLastLogin(ctx context.Context, accountID uuid.UUID) error
}

// IdentityService handles registration and authentication.
type IdentityService struct {
	repo         IdentityRepository
	tokenManager *TokenManager
}

type RegisterInput struct {
	LastName   string
	FirstName  string
	MiddleName *string
	Email      string
	Username   string
	Password   string
	ContactNo  *string
	Roles      []string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Account   *models.Account
	Roles     []string
	TokenPair *TokenPair
}

func NewIdentityService(repo IdentityRepository, tokenManager *TokenManager) *IdentityService {
	return &IdentityService{repo: repo, tokenManager: tokenManager}
}

// Register creates a new account with its role set and signs it in.
// Accounts default to the client role when none is given; the admin role
// can never be self-assigned.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateNonEmpty("first name", in.FirstName); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateNonEmpty("last name", in.LastName); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{string(valueobject.RoleClient)}
	}
	for _, role := range roles {
		r := valueobject.Role(role)
		if !r.IsValid() || r == valueobject.RoleAdmin {
			return nil, apperror.New(apperror.ErrCodeValidation, "invalid role")
		}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to hash password")
	}

	now := time.Now()
	account := &models.Account{
		ID:           uuid.New(),
		LastName:     strings.TrimSpace(in.LastName),
		FirstName:    strings.TrimSpace(in.FirstName),
		MiddleName:   in.MiddleName,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: string(passHash),
		ContactNo:    in.ContactNo,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account, roles); err != nil {
		return nil, err
	}

	tokenPair, err := s.tokenManager.GeneratePair(account.ID, roles)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to issue tokens")
	}

	if logger.Log != nil {
		logger.Log.WithField("account_id", account.ID).Info("account registered")
	}

	return &AuthResult{Account: account, Roles: roles, TokenPair: tokenPair}, nil
}

// Login verifies credentials and returns a fresh token pair. Bad email and
// bad password produce the same error.
func (s *IdentityService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	account, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, apperror.ErrAccountNotFound) {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid credentials")
	}

	roles, err := s.repo.GetRoles(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	tokenPair, err := s.tokenManager.GeneratePair(account.ID, roles)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to issue tokens")
	}

	if err := s.repo.UpdateLastLogin(ctx, account.ID); err != nil {
		if logger.Log != nil {
			logger.Log.WithError(err).Warn("failed to stamp last login")
		}
	}

	return &AuthResult{Account: account, Roles: roles, TokenPair: tokenPair}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid refresh token")
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid refresh token")
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "account is deactivated")
	}

	roles, err := s.repo.GetRoles(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	tokenPair, err := s.tokenManager.GeneratePair(account.ID, roles)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to issue tokens")
	}

	return &AuthResult{Account: account, Roles: roles, TokenPair: tokenPair}, nil
}
