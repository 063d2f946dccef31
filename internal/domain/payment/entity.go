// internal/domain/payment/entity.go
package payment

import (
	"database/sql"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

// PendingRegistration is a signup awaiting its first gateway settlement.
// HasPaid is monotonic: once true it never flips back.
type PendingRegistration struct {
	ID        int64          `json:"id" db:"id"`
	Email     string         `json:"email" db:"email"`
	HasPaid   bool           `json:"has_paid" db:"has_paid"`
	PaymentID sql.NullString `json:"payment_id,omitempty" db:"payment_id"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// CustomerPayment is a rent or service charge collected on behalf of a
// property manager, settled asynchronously by the gateway.
type CustomerPayment struct {
	ID                   int64          `json:"id" db:"id"`
	PropertyManagerID    int64          `json:"property_manager_id" db:"property_manager_id"`
	TenantID             sql.NullInt64  `json:"tenant_id,omitempty" db:"tenant_id"`
	Amount               float64        `json:"amount" db:"amount"`
	PaymentType          string         `json:"payment_type" db:"payment_type"`
	Status               PaymentStatus  `json:"status" db:"status"`
	TransactionReference sql.NullString `json:"transaction_reference,omitempty" db:"transaction_reference"`
	ReviewedDate         sql.NullTime   `json:"reviewed_date,omitempty" db:"reviewed_date"`
	ApprovalNotes        sql.NullString `json:"approval_notes,omitempty" db:"approval_notes"`
	CreatedAt            time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at" db:"updated_at"`
}
