// internal/repository/postgres/registration_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propman-service/internal/domain/payment"
	xerrors "propman-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationRepository struct {
	db *pgxpool.Pool
}

func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// FindByID retrieves a pending registration by ID
func (r *RegistrationRepository) FindByID(ctx context.Context, id int64) (*payment.PendingRegistration, error) {
	query := `
		SELECT id, email, has_paid, payment_id, created_at, updated_at
		FROM pending_registrations
		WHERE id = $1
	`

	var reg payment.PendingRegistration
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reg.ID, &reg.Email, &reg.HasPaid, &reg.PaymentID, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}

	return &reg, nil
}

// MarkPaid flips has_paid and stores the gateway payment id, guarded on the
// unpaid precondition. Returns false when zero rows matched, meaning the
// settlement was already applied by an earlier delivery of the same event.
func (r *RegistrationRepository) MarkPaid(ctx context.Context, id int64, paymentID string) (bool, error) {
	query := `
		UPDATE pending_registrations
		SET has_paid = TRUE, payment_id = $1, updated_at = $2
		WHERE id = $3 AND has_paid = FALSE
	`

	result, err := r.db.Exec(ctx, query, paymentID, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark registration paid: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
