// internal/domain/billing/dto.go
package billing

type CreateSubscriptionRequest struct {
	UserID                int64  `json:"user_id" binding:"required"`
	PackageID             int64  `json:"package_id" binding:"required"`
	AdditionalUsers       int    `json:"additional_users"`
	AdditionalTenants     *int32 `json:"additional_tenants,omitempty"`
	AdditionalContractors *int32 `json:"additional_contractors,omitempty"`
	Notes                 string `json:"notes,omitempty"`
}

type UpdateSubscriptionPackageRequest struct {
	PackageID             int64  `json:"package_id" binding:"required"`
	AdditionalUsers       *int   `json:"additional_users,omitempty"`
	AdditionalTenants     *int32 `json:"additional_tenants,omitempty"`
	AdditionalContractors *int32 `json:"additional_contractors,omitempty"`
	Notes                 string `json:"notes,omitempty"`
}

type SuspendSubscriptionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdatePackagePricingRequest struct {
	BasePrice             *float64 `json:"base_price,omitempty"`
	AdditionalUserPrice   *float64 `json:"additional_user_price,omitempty"`
	AdditionalTenantPrice *float64 `json:"additional_tenant_price,omitempty"`
}

type ReserveSeatRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role"`
}

// SubscriptionView is a subscription enriched with the canonical billing
// amounts, so API consumers never recompute the formula themselves.
type SubscriptionView struct {
	Subscription
	MonthlyCharge float64 `json:"monthly_charge"`
	IsInTrial     bool    `json:"is_in_trial"`
	IsBillingDue  bool    `json:"is_billing_due"`
	AmountDue     float64 `json:"amount_due"`
}
