// internal/domain/billing/entity.go
package billing

import (
	"database/sql"
	"time"
)

type PackageType string

const (
	PackageTypeContractor      PackageType = "CONTRACTOR"
	PackageTypePropertyManager PackageType = "PROPERTY_MANAGER"
)

type SubscriptionStatus string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "TRIAL"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusSuspended SubscriptionStatus = "SUSPENDED"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// IsTerminal reports whether the status permits no further transitions.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusExpired || s == SubscriptionStatusCancelled
}

// PackageFeatures is the fixed set of boolean feature flags a package grants.
type PackageFeatures struct {
	Invoicing          bool `json:"invoicing" db:"feature_invoicing"`
	WorkOrders         bool `json:"work_orders" db:"feature_work_orders"`
	TenantPortal       bool `json:"tenant_portal" db:"feature_tenant_portal"`
	ContractorDispatch bool `json:"contractor_dispatch" db:"feature_contractor_dispatch"`
	Reporting          bool `json:"reporting" db:"feature_reporting"`
}

type Package struct {
	ID   int64       `json:"id" db:"id"`
	Name string      `json:"name" db:"name"`
	Type PackageType `json:"type" db:"type"`

	// Pricing (monthly, non-negative)
	BasePrice             float64 `json:"base_price" db:"base_price"`
	AdditionalUserPrice   float64 `json:"additional_user_price" db:"additional_user_price"`
	AdditionalTenantPrice float64 `json:"additional_tenant_price" db:"additional_tenant_price"`

	TrialDays int             `json:"trial_days" db:"trial_days"`
	Features  PackageFeatures `json:"features"`
	IsActive  bool            `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Subscription struct {
	ID        int64 `json:"id" db:"id"`
	OwnerID   int64 `json:"owner_id" db:"owner_id"`
	PackageID int64 `json:"package_id" db:"package_id"`

	Status           SubscriptionStatus `json:"status" db:"status"`
	StartDate        time.Time          `json:"start_date" db:"start_date"`
	TrialEndsAt      sql.NullTime       `json:"trial_ends_at,omitempty" db:"trial_ends_at"`
	NextBillingDate  sql.NullTime       `json:"next_billing_date,omitempty" db:"next_billing_date"`
	IsPaymentOverdue bool               `json:"is_payment_overdue" db:"is_payment_overdue"`

	// Seat counters. MaxUsers is derived (included + additional) and stored
	// for query convenience; it is only ever written together with
	// AdditionalUsers. CurrentUsers never exceeds MaxUsers.
	IncludedUsers   int `json:"included_users" db:"included_users"`
	AdditionalUsers int `json:"additional_users" db:"additional_users"`
	MaxUsers        int `json:"max_users" db:"max_users"`
	CurrentUsers    int `json:"current_users" db:"current_users"`

	// Property-manager packages only
	AdditionalTenants     sql.NullInt32 `json:"additional_tenants,omitempty" db:"additional_tenants"`
	AdditionalContractors sql.NullInt32 `json:"additional_contractors,omitempty" db:"additional_contractors"`

	Reference string         `json:"reference" db:"reference"`
	Notes     sql.NullString `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Employee is one consumed seat on a subscription.
type Employee struct {
	ID             int64     `json:"id" db:"id"`
	SubscriptionID int64     `json:"subscription_id" db:"subscription_id"`
	FullName       string    `json:"full_name" db:"full_name"`
	Email          string    `json:"email" db:"email"`
	Role           string    `json:"role" db:"role"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
