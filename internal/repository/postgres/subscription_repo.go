// internal/repository/postgres/subscription_repo.go
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

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `
	id, reference, owner_id, package_id, status,
	start_date, trial_ends_at, next_billing_date, is_payment_overdue,
	included_users, additional_users, max_users, current_users,
	additional_tenants, additional_contractors,
	notes, created_at, updated_at`

func scanSubscription(row pgx.Row) (*billing.Subscription, error) {
	var s billing.Subscription
	err := row.Scan(
		&s.ID, &s.Reference, &s.OwnerID, &s.PackageID, &s.Status,
		&s.StartDate, &s.TrialEndsAt, &s.NextBillingDate, &s.IsPaymentOverdue,
		&s.IncludedUsers, &s.AdditionalUsers, &s.MaxUsers, &s.CurrentUsers,
		&s.AdditionalTenants, &s.AdditionalContractors,
		&s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			reference, owner_id, package_id, status,
			start_date, trial_ends_at, next_billing_date, is_payment_overdue,
			included_users, additional_users, max_users, current_users,
			additional_tenants, additional_contractors, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		sub.Reference, sub.OwnerID, sub.PackageID, sub.Status,
		sub.StartDate, sub.TrialEndsAt, sub.NextBillingDate, sub.IsPaymentOverdue,
		sub.IncludedUsers, sub.AdditionalUsers, sub.MaxUsers, sub.CurrentUsers,
		sub.AdditionalTenants, sub.AdditionalContractors, sub.Notes,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// FindByID retrieves a subscription by ID
func (r *SubscriptionRepository) FindByID(ctx context.Context, id int64) (*billing.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE id = $1`, subscriptionColumns)

	sub, err := scanSubscription(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return sub, nil
}

// FindOpenByOwner retrieves the owner's non-terminal subscription, if any
func (r *SubscriptionRepository) FindOpenByOwner(ctx context.Context, ownerID int64) (*billing.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE owner_id = $1 AND status NOT IN ('EXPIRED', 'CANCELLED')
		LIMIT 1
	`, subscriptionColumns)

	sub, err := scanSubscription(r.db.QueryRow(ctx, query, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return sub, nil
}

// FindActiveByOwner retrieves the owner's subscription only when it is ACTIVE
func (r *SubscriptionRepository) FindActiveByOwner(ctx context.Context, ownerID int64) (*billing.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE owner_id = $1 AND status = 'ACTIVE'
		LIMIT 1
	`, subscriptionColumns)

	sub, err := scanSubscription(r.db.QueryRow(ctx, query, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrSubscriptionNotActive
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active subscription: %w", err)
	}

	return sub, nil
}

// List retrieves subscriptions, optionally filtered by status
func (r *SubscriptionRepository) List(ctx context.Context, status *billing.SubscriptionStatus) ([]billing.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions`, subscriptionColumns)
	args := []interface{}{}

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subscriptions := []billing.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subscriptions = append(subscriptions, *sub)
	}

	return subscriptions, rows.Err()
}

// UpdatePackage swaps the package reference and adjusts the seat counters in
// one statement. Status is deliberately untouched; max_users is always
// recomputed together with additional_users.
func (r *SubscriptionRepository) UpdatePackage(ctx context.Context, sub *billing.Subscription) error {
	query := `
		UPDATE subscriptions
		SET package_id = $1,
		    additional_users = $2,
		    max_users = $3,
		    additional_tenants = $4,
		    additional_contractors = $5,
		    notes = $6,
		    updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(
		ctx, query,
		sub.PackageID, sub.AdditionalUsers, sub.MaxUsers,
		sub.AdditionalTenants, sub.AdditionalContractors,
		sub.Notes, time.Now(), sub.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription package: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Activate moves a SUSPENDED subscription back to ACTIVE and clears the
// overdue flag.
func (r *SubscriptionRepository) Activate(ctx context.Context, id int64) error {
	query := `
		UPDATE subscriptions
		SET status = $1, is_payment_overdue = FALSE, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.db.Exec(ctx, query,
		billing.SubscriptionStatusActive, time.Now(), id, billing.SubscriptionStatusSuspended)
	if err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Suspend moves a TRIAL or ACTIVE subscription to SUSPENDED, recording the
// administrative reason in notes.
func (r *SubscriptionRepository) Suspend(ctx context.Context, id int64, reason string) error {
	query := `
		UPDATE subscriptions
		SET status = $1,
		    notes = TRIM(BOTH E'\n' FROM COALESCE(notes, '') || E'\n' || $2),
		    updated_at = $3
		WHERE id = $4 AND status IN ($5, $6)
	`

	result, err := r.db.Exec(ctx, query,
		billing.SubscriptionStatusSuspended,
		fmt.Sprintf("suspended: %s", reason),
		time.Now(), id,
		billing.SubscriptionStatusTrial, billing.SubscriptionStatusActive)
	if err != nil {
		return fmt.Errorf("failed to suspend subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// ReserveSeatWithTx performs the conditional seat increment inside the
// caller's transaction. The WHERE clause pins current_users to the value the
// caller previously read; zero rows affected means another writer got there
// first and the caller must abort.
func (r *SubscriptionRepository) ReserveSeatWithTx(ctx context.Context, tx pgx.Tx, id int64, expectedCurrentUsers int) error {
	query := `
		UPDATE subscriptions
		SET current_users = current_users + 1, updated_at = $1
		WHERE id = $2 AND current_users = $3 AND current_users < max_users
	`

	result, err := tx.Exec(ctx, query, time.Now(), id, expectedCurrentUsers)
	if err != nil {
		return fmt.Errorf("failed to reserve seat: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrSeatConflict
	}

	return nil
}
