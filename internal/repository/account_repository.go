package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mekaniko-ph/mekaniko-backend/internal/models"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
	"github.com/mekaniko-ph/mekaniko-backend/internal/repository/common"
)

// AccountRepository persists accounts and their held roles.
type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

var ErrAccountEmailTaken = apperror.New(apperror.ErrCodeConflict, "email or username already registered")

// Create inserts the account and its role rows in one transaction.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account, roles []string) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO accounts (id, last_name, first_name, middle_name, email, username, password_hash, contact_no, is_active, is_verified, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		if _, err := tx.ExecContext(ctx, query,
			account.ID,
			account.LastName,
			account.FirstName,
			account.MiddleName,
			account.Email,
			account.Username,
			account.PasswordHash,
			account.ContactNo,
			account.IsActive,
			account.IsVerified,
			account.CreatedAt,
			account.UpdatedAt,
		); err != nil {
			if common.IsUniqueViolation(err, "") {
				return ErrAccountEmailTaken
			}
			return fmt.Errorf("account repository: insert account: %w", err)
		}

		for _, role := range roles {
			roleQuery := `INSERT INTO account_roles (id, account_id, role, appointed_at) VALUES ($1, $2, $3, $4)`
			if _, err := tx.ExecContext(ctx, roleQuery, uuid.New(), account.ID, role, time.Now()); err != nil {
				return fmt.Errorf("account repository: insert role: %w", err)
			}
		}

		return nil
	})
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return common.GetByID[models.Account](ctx, r.db, "accounts", id, apperror.ErrAccountNotFound)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	query := `SELECT * FROM accounts WHERE email = $1`
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrAccountNotFound
		}
		return nil, fmt.Errorf("account repository: get by email: %w", err)
	}
	return &account, nil
}

// GetRoles returns the role names held by the account.
func (r *AccountRepository) GetRoles(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	var roles []string
	query := `SELECT role FROM account_roles WHERE account_id = $1 ORDER BY appointed_at`
	if err := r.db.SelectContext(ctx, &roles, query, accountID); err != nil {
		return nil, fmt.Errorf("account repository: get roles: %w", err)
	}
	return roles, nil
}

func (r *AccountRepository) UpdateLastLogin(ctx context.Context, accountID uuid.UUID) error {
	query := `UPDATE accounts SET last_login_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), accountID); err != nil {
		return fmt.Errorf("account repository: update last login: %w", err)
	}
	return nil
}

// AccountExists checks active accounts only.
func (r *AccountRepository) AccountExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1 AND is_active)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("account repository: check account: %w", err)
	}
	return exists, nil
}

// ProviderExists checks the account is active and holds a provider role.
func (r *AccountRepository) ProviderExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM accounts a
			JOIN account_roles ar ON ar.account_id = a.id
			WHERE a.id = $1 AND a.is_active AND ar.role IN ('mechanic', 'shop_owner')
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("account repository: check provider: %w", err)
	}
	return exists, nil
}
