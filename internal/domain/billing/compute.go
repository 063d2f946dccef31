// internal/domain/billing/compute.go
//
// Canonical billing computation. Every surface that displays or enforces an
// amount due goes through these functions; nothing else reproduces the
// formula.
package billing

import "time"

// MonthlyCharge is the subscription's recurring charge under its current
// package. Absent optional counters count as zero.
func MonthlyCharge(pkg *Package, sub *Subscription) float64 {
	if pkg == nil || sub == nil {
		return 0
	}

	charge := pkg.BasePrice
	charge += float64(sub.AdditionalUsers) * pkg.AdditionalUserPrice
	if sub.AdditionalTenants.Valid {
		charge += float64(sub.AdditionalTenants.Int32) * pkg.AdditionalTenantPrice
	}
	return charge
}

// IsInTrial reports whether the subscription's trial window is still open.
func IsInTrial(sub *Subscription, now time.Time) bool {
	return sub != nil && sub.TrialEndsAt.Valid && sub.TrialEndsAt.Time.After(now)
}

// IsBillingDue reports whether a charge is currently collectable. Nothing is
// due inside the trial window; outside it, an overdue flag or a reached
// billing date makes the monthly charge due.
func IsBillingDue(sub *Subscription, now time.Time) bool {
	if sub == nil || IsInTrial(sub, now) {
		return false
	}
	if sub.IsPaymentOverdue {
		return true
	}
	return sub.NextBillingDate.Valid && !sub.NextBillingDate.Time.After(now)
}

// AmountDue is the monthly charge when billing is due, zero otherwise.
func AmountDue(pkg *Package, sub *Subscription, now time.Time) float64 {
	if !IsBillingDue(sub, now) {
		return 0
	}
	return MonthlyCharge(pkg, sub)
}

// NewView assembles the API representation of a subscription with its
// computed amounts attached.
func NewView(pkg *Package, sub *Subscription, now time.Time) *SubscriptionView {
	return &SubscriptionView{
		Subscription:  *sub,
		MonthlyCharge: MonthlyCharge(pkg, sub),
		IsInTrial:     IsInTrial(sub, now),
		IsBillingDue:  IsBillingDue(sub, now),
		AmountDue:     AmountDue(pkg, sub, now),
	}
}
