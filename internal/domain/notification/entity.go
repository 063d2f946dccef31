// internal/domain/notification/entity.go
package notification

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeRegistrationSettled    EventType = "registration.settled"
	EventTypeCustomerPaymentSettled EventType = "customer_payment.settled"
	EventTypeSubscriptionSuspended  EventType = "subscription.suspended"
	EventTypeSubscriptionActivated  EventType = "subscription.activated"
)

type Notification struct {
	ID          int64     `json:"id" db:"id"`
	RecipientID int64     `json:"recipient_id" db:"recipient_id"`
	EventID     uuid.UUID `json:"event_id" db:"event_id"`
	EventType   EventType `json:"event_type" db:"event_type"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Event is what the settlement and entitlement engines hand to the
// dispatcher; delivery is best effort.
type Event struct {
	RecipientID int64
	Type        EventType
	Title       string
	Body        string
}
