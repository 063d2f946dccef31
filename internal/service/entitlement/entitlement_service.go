// internal/service/entitlement/entitlement_service.go
package entitlement

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"propman-service/internal/domain/billing"
	"propman-service/internal/domain/identity"
	xerrors "propman-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const includedUsers = 1

// defaultBillingInterval is the first billing horizon for subscriptions
// created without a trial.
const defaultBillingInterval = 30 * 24 * time.Hour

// Actor identifies who is invoking an entitlement operation. Lifecycle and
// pricing mutations are administrator-only regardless of how the call
// reached the service.
type Actor struct {
	ID    int64
	Roles []string
}

func (a Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if r == identity.RoleAdmin || r == identity.RoleSuperAdmin {
			return true
		}
	}
	return false
}

type PackageStore interface {
	FindByID(ctx context.Context, id int64) (*billing.Package, error)
	List(ctx context.Context, activeOnly bool) ([]billing.Package, error)
	UpdatePricing(ctx context.Context, id int64, basePrice, additionalUserPrice, additionalTenantPrice *float64) error
}

type SubscriptionStore interface {
	Create(ctx context.Context, sub *billing.Subscription) error
	FindByID(ctx context.Context, id int64) (*billing.Subscription, error)
	FindOpenByOwner(ctx context.Context, ownerID int64) (*billing.Subscription, error)
	FindActiveByOwner(ctx context.Context, ownerID int64) (*billing.Subscription, error)
	List(ctx context.Context, status *billing.SubscriptionStatus) ([]billing.Subscription, error)
	UpdatePackage(ctx context.Context, sub *billing.Subscription) error
	Activate(ctx context.Context, id int64) error
	Suspend(ctx context.Context, id int64, reason string) error
	ReserveSeatWithTx(ctx context.Context, tx pgx.Tx, id int64, expectedCurrentUsers int) error
}

type EmployeeStore interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, emp *billing.Employee) error
}

type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type Service struct {
	subscriptionRepo SubscriptionStore
	packageRepo      PackageStore
	employeeRepo     EmployeeStore
	db               TxBeginner
	logger           *zap.Logger
}

func NewService(
	subscriptionRepo SubscriptionStore,
	packageRepo PackageStore,
	employeeRepo EmployeeStore,
	db TxBeginner,
	logger *zap.Logger,
) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		employeeRepo:     employeeRepo,
		db:               db,
		logger:           logger,
	}
}

// CreateSubscription assigns a package to a user with no open subscription.
// The initial status is TRIAL when the package carries trial days, ACTIVE
// otherwise.
func (s *Service) CreateSubscription(ctx context.Context, actor Actor, req *billing.CreateSubscriptionRequest) (*billing.Subscription, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrUnauthorized
	}

	pkg, err := s.packageRepo.FindByID(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, fmt.Errorf("%w: package %d is not active", xerrors.ErrInvalidInput, pkg.ID)
	}

	if existing, err := s.subscriptionRepo.FindOpenByOwner(ctx, req.UserID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: user %d already has subscription %d", xerrors.ErrInvalidInput, req.UserID, existing.ID)
	}

	if req.AdditionalUsers < 0 {
		return nil, fmt.Errorf("%w: additional_users must not be negative", xerrors.ErrInvalidInput)
	}

	now := time.Now()

	status := billing.SubscriptionStatusActive
	var trialEndsAt sql.NullTime
	nextBilling := sql.NullTime{Time: now.Add(defaultBillingInterval), Valid: true}

	if pkg.TrialDays > 0 {
		status = billing.SubscriptionStatusTrial
		trialEndsAt = sql.NullTime{Time: now.AddDate(0, 0, pkg.TrialDays), Valid: true}
		nextBilling = trialEndsAt
	}

	sub := &billing.Subscription{
		Reference:        fmt.Sprintf("sub_%s", ulid.Make().String()),
		OwnerID:          req.UserID,
		PackageID:        pkg.ID,
		Status:           status,
		StartDate:        now,
		TrialEndsAt:      trialEndsAt,
		NextBillingDate:  nextBilling,
		IsPaymentOverdue: false,
		IncludedUsers:    includedUsers,
		AdditionalUsers:  req.AdditionalUsers,
		MaxUsers:         includedUsers + req.AdditionalUsers,
		CurrentUsers:     1,
	}

	if req.AdditionalTenants != nil {
		sub.AdditionalTenants = sql.NullInt32{Int32: *req.AdditionalTenants, Valid: true}
	}
	if req.AdditionalContractors != nil {
		sub.AdditionalContractors = sql.NullInt32{Int32: *req.AdditionalContractors, Valid: true}
	}
	if req.Notes != "" {
		sub.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("subscription created",
		zap.Int64("subscription_id", sub.ID),
		zap.String("reference", sub.Reference),
		zap.Int64("owner_id", sub.OwnerID),
		zap.Int64("package_id", sub.PackageID),
		zap.String("status", string(sub.Status)))

	return sub, nil
}

// UpdateSubscriptionPackage swaps the subscription's package and optionally
// adjusts its counters. Status never changes here.
func (s *Service) UpdateSubscriptionPackage(ctx context.Context, actor Actor, subscriptionID int64, req *billing.UpdateSubscriptionPackageRequest) (*billing.Subscription, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrUnauthorized
	}

	sub, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packageRepo.FindByID(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}

	sub.PackageID = pkg.ID
	if req.AdditionalUsers != nil {
		if *req.AdditionalUsers < 0 {
			return nil, fmt.Errorf("%w: additional_users must not be negative", xerrors.ErrInvalidInput)
		}
		sub.AdditionalUsers = *req.AdditionalUsers
		sub.MaxUsers = sub.IncludedUsers + sub.AdditionalUsers
	}
	if sub.CurrentUsers > sub.MaxUsers {
		return nil, fmt.Errorf("%w: %d seats in use exceed new limit %d", xerrors.ErrInvalidInput, sub.CurrentUsers, sub.MaxUsers)
	}
	if req.AdditionalTenants != nil {
		sub.AdditionalTenants = sql.NullInt32{Int32: *req.AdditionalTenants, Valid: true}
	}
	if req.AdditionalContractors != nil {
		sub.AdditionalContractors = sql.NullInt32{Int32: *req.AdditionalContractors, Valid: true}
	}
	if req.Notes != "" {
		sub.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	if err := s.subscriptionRepo.UpdatePackage(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("subscription package updated",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("package_id", sub.PackageID),
		zap.Int("max_users", sub.MaxUsers))

	return sub, nil
}

// ActivateSubscription lifts a suspension and clears the overdue flag.
func (s *Service) ActivateSubscription(ctx context.Context, actor Actor, subscriptionID int64) error {
	if !actor.IsAdmin() {
		return xerrors.ErrUnauthorized
	}

	sub, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.Status != billing.SubscriptionStatusSuspended {
		return fmt.Errorf("%w: cannot activate subscription in status %s", xerrors.ErrInvalidInput, sub.Status)
	}

	if err := s.subscriptionRepo.Activate(ctx, subscriptionID); err != nil {
		return err
	}

	s.logger.Info("subscription activated", zap.Int64("subscription_id", subscriptionID))
	return nil
}

// SuspendSubscription suspends a trialing or active subscription for the
// given administrative reason.
func (s *Service) SuspendSubscription(ctx context.Context, actor Actor, subscriptionID int64, reason string) error {
	if !actor.IsAdmin() {
		return xerrors.ErrUnauthorized
	}
	if reason == "" {
		return fmt.Errorf("%w: suspension reason is required", xerrors.ErrInvalidInput)
	}

	sub, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.Status != billing.SubscriptionStatusTrial && sub.Status != billing.SubscriptionStatusActive {
		return fmt.Errorf("%w: cannot suspend subscription in status %s", xerrors.ErrInvalidInput, sub.Status)
	}

	if err := s.subscriptionRepo.Suspend(ctx, subscriptionID, reason); err != nil {
		return err
	}

	s.logger.Info("subscription suspended",
		zap.Int64("subscription_id", subscriptionID),
		zap.String("reason", reason))
	return nil
}

// UpdatePackagePricing edits a package's price fields. Dues already computed
// against the old prices are not revisited.
func (s *Service) UpdatePackagePricing(ctx context.Context, actor Actor, packageID int64, req *billing.UpdatePackagePricingRequest) error {
	if !actor.IsAdmin() {
		return xerrors.ErrUnauthorized
	}

	for _, p := range []*float64{req.BasePrice, req.AdditionalUserPrice, req.AdditionalTenantPrice} {
		if p != nil && *p < 0 {
			return fmt.Errorf("%w: prices must not be negative", xerrors.ErrInvalidInput)
		}
	}

	if err := s.packageRepo.UpdatePricing(ctx, packageID, req.BasePrice, req.AdditionalUserPrice, req.AdditionalTenantPrice); err != nil {
		return err
	}

	s.logger.Info("package pricing updated", zap.Int64("package_id", packageID))
	return nil
}

// ListSubscriptions retrieves all subscriptions, optionally by status.
func (s *Service) ListSubscriptions(ctx context.Context, actor Actor, status *billing.SubscriptionStatus) ([]billing.Subscription, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrUnauthorized
	}
	return s.subscriptionRepo.List(ctx, status)
}

// ListPackages retrieves the package catalogue.
func (s *Service) ListPackages(ctx context.Context, activeOnly bool) ([]billing.Package, error) {
	return s.packageRepo.List(ctx, activeOnly)
}

// GetOwnSubscription returns the caller's subscription with the canonical
// billing amounts attached.
func (s *Service) GetOwnSubscription(ctx context.Context, ownerID int64) (*billing.SubscriptionView, error) {
	sub, err := s.subscriptionRepo.FindOpenByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packageRepo.FindByID(ctx, sub.PackageID)
	if err != nil {
		return nil, err
	}

	return billing.NewView(pkg, sub, time.Now()), nil
}
