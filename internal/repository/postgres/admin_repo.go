// internal/repository/postgres/admin_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"propman-service/internal/domain/identity"
	xerrors "propman-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new admin account
func (r *AdminRepository) Create(ctx context.Context, admin *identity.Admin) error {
	query := `
		INSERT INTO admins (email, password_hash, full_name, roles, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		admin.Email, admin.PasswordHash, admin.FullName, pq.Array(admin.Roles), admin.IsActive,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// FindByEmail retrieves an admin by email
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*identity.Admin, error) {
	query := `
		SELECT id, email, password_hash, full_name, roles, is_active, created_at, updated_at
		FROM admins
		WHERE email = $1
	`

	var admin identity.Admin
	err := r.db.QueryRow(ctx, query, email).Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash, &admin.FullName,
		pq.Array(&admin.Roles), &admin.IsActive, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	return &admin, nil
}

// ExistsByEmail checks if an admin with this email exists
func (r *AdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM admins WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	return exists, err
}
