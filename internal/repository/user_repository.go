package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type IUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUserWithOrganization(ctx context.Context, user *models.User, organizationName string) (*models.Membership, error)
	GetOrganizationForUser(ctx context.Context, userID uuid.UUID) (*models.UserOrganization, error)
}

type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) IUserRepository {
	return &UserRepository{db: db, logger: logger}
}

const userColumns = `id, email, password_hash, full_name, created_at, updated_at`

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, translate(err, "failed to get user by email")
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, translate(err, "failed to get user")
	}
	return &user, nil
}

// ============================================================================
// TRANSACTION SUPPORT
// ============================================================================

// BeginTransaction starts a new database transaction
func (r *UserRepository) BeginTransaction(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateUserWithOrganization inserts the organization, the user and the
// owner membership atomically.
func (r *UserRepository) CreateUserWithOrganization(ctx context.Context, user *models.User, organizationName string) (*models.Membership, error) {
	tx, err := r.BeginTransaction(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	now := time.Now().UTC()
	org := models.Organization{ID: uuid.New(), Name: organizationName, CreatedAt: now, UpdatedAt: now}
	if err = r.createOrganizationTx(ctx, tx, &org); err != nil {
		return nil, err
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if err = r.createUserTx(ctx, tx, user); err != nil {
		return nil, err
	}

	membership := models.Membership{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		UserID:         user.ID,
		Role:           models.MembershipRoleOwner,
		CreatedAt:      now,
	}
	if err = r.createMembershipTx(ctx, tx, &membership); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &membership, nil
}

func (r *UserRepository) createOrganizationTx(ctx context.Context, tx *sqlx.Tx, org *models.Organization) error {
	query := `INSERT INTO organizations (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, org); err != nil {
		return translate(err, "failed to create organization")
	}
	return nil
}

func (r *UserRepository) createUserTx(ctx context.Context, tx *sqlx.Tx, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, created_at, updated_at)
		VALUES (:id, :email, :password_hash, :full_name, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
		return translate(err, "failed to create user")
	}
	return nil
}

func (r *UserRepository) createMembershipTx(ctx context.Context, tx *sqlx.Tx, m *models.Membership) error {
	query := `
		INSERT INTO memberships (id, organization_id, user_id, role, created_at)
		VALUES (:id, :organization_id, :user_id, :role, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return translate(err, "failed to create membership")
	}
	return nil
}

type userOrganizationRow struct {
	OrganizationID   uuid.UUID             `db:"organization_id"`
	OrganizationName string                `db:"organization_name"`
	Role             models.MembershipRole `db:"role"`
}

// GetOrganizationForUser returns the user's oldest live membership.
func (r *UserRepository) GetOrganizationForUser(ctx context.Context, userID uuid.UUID) (*models.UserOrganization, error) {
	query := `
		SELECT o.id AS organization_id, o.name AS organization_name, m.role
		FROM memberships m
		JOIN organizations o ON o.id = m.organization_id
		WHERE m.user_id = $1 AND m.deleted_at IS NULL
		ORDER BY m.created_at ASC
		LIMIT 1`

	var row userOrganizationRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, translate(err, "failed to get organization for user")
	}
	return &models.UserOrganization{
		Organization: models.Organization{ID: row.OrganizationID, Name: row.OrganizationName},
		Role:         row.Role,
	}, nil
}
