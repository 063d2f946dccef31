// internal/repository/postgres/package_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propman-service/internal/domain/billing"
	xerrors "propman-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PackageRepository struct {
	db *pgxpool.Pool
}

func NewPackageRepository(db *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{db: db}
}

const packageColumns = `
	id, name, type,
	base_price, additional_user_price, additional_tenant_price,
	trial_days,
	feature_invoicing, feature_work_orders, feature_tenant_portal,
	feature_contractor_dispatch, feature_reporting,
	is_active, created_at, updated_at`

func scanPackage(row pgx.Row) (*billing.Package, error) {
	var p billing.Package
	err := row.Scan(
		&p.ID, &p.Name, &p.Type,
		&p.BasePrice, &p.AdditionalUserPrice, &p.AdditionalTenantPrice,
		&p.TrialDays,
		&p.Features.Invoicing, &p.Features.WorkOrders, &p.Features.TenantPortal,
		&p.Features.ContractorDispatch, &p.Features.Reporting,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID retrieves a package by ID
func (r *PackageRepository) FindByID(ctx context.Context, id int64) (*billing.Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages WHERE id = $1`, packageColumns)

	p, err := scanPackage(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find package: %w", err)
	}

	return p, nil
}

// List retrieves all packages, optionally only active ones
func (r *PackageRepository) List(ctx context.Context, activeOnly bool) ([]billing.Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages`, packageColumns)
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	packages := []billing.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		packages = append(packages, *p)
	}

	return packages, rows.Err()
}

// UpdatePricing updates the price fields an administrator may edit. Nil
// fields are left unchanged. Already-computed dues are not recalculated.
func (r *PackageRepository) UpdatePricing(ctx context.Context, id int64, basePrice, additionalUserPrice, additionalTenantPrice *float64) error {
	query := `
		UPDATE packages
		SET base_price = COALESCE($1, base_price),
		    additional_user_price = COALESCE($2, additional_user_price),
		    additional_tenant_price = COALESCE($3, additional_tenant_price),
		    updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(ctx, query, basePrice, additionalUserPrice, additionalTenantPrice, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update package pricing: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrPackageNotFound
	}

	return nil
}
