// internal/repository/postgres/customer_payment_repo.go
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

type CustomerPaymentRepository struct {
	db *pgxpool.Pool
}

func NewCustomerPaymentRepository(db *pgxpool.Pool) *CustomerPaymentRepository {
	return &CustomerPaymentRepository{db: db}
}

// FindByID retrieves a customer payment by ID
func (r *CustomerPaymentRepository) FindByID(ctx context.Context, id int64) (*payment.CustomerPayment, error) {
	query := `
		SELECT id, property_manager_id, tenant_id, amount, payment_type,
		       status, transaction_reference, reviewed_date, approval_notes,
		       created_at, updated_at
		FROM customer_payments
		WHERE id = $1
	`

	var p payment.CustomerPayment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.PropertyManagerID, &p.TenantID, &p.Amount, &p.PaymentType,
		&p.Status, &p.TransactionReference, &p.ReviewedDate, &p.ApprovalNotes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer payment: %w", err)
	}

	return &p, nil
}

// Approve transitions a payment to APPROVED, stamping the gateway reference,
// review time and approval note. The status guard makes the transition
// apply at most once; false means it had already been approved.
func (r *CustomerPaymentRepository) Approve(ctx context.Context, id int64, transactionReference, approvalNote string) (bool, error) {
	query := `
		UPDATE customer_payments
		SET status = $1, transaction_reference = $2, reviewed_date = $3,
		    approval_notes = $4, updated_at = $3
		WHERE id = $5 AND status <> $1
	`

	result, err := r.db.Exec(ctx, query,
		payment.PaymentStatusApproved, transactionReference, time.Now(), approvalNote, id)
	if err != nil {
		return false, fmt.Errorf("failed to approve customer payment: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
