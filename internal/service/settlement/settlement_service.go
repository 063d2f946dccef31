// internal/service/settlement/settlement_service.go
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propman-service/internal/domain/notification"
	"propman-service/internal/domain/payment"
	xerrors "propman-service/internal/pkg/errors"
	"propman-service/internal/pkg/payfast"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CompleteStatus is the gateway's settlement sentinel. Every other
// payment_status is observational and applies no mutation.
const CompleteStatus = "COMPLETE"

// seenMarkerTTL bounds the best-effort dedup markers kept in Redis. The
// database WHERE-guards are the idempotence authority; the markers exist for
// operator visibility into gateway redeliveries.
const seenMarkerTTL = 30 * 24 * time.Hour

type RegistrationStore interface {
	MarkPaid(ctx context.Context, id int64, paymentID string) (bool, error)
}

type CustomerPaymentStore interface {
	FindByID(ctx context.Context, id int64) (*payment.CustomerPayment, error)
	Approve(ctx context.Context, id int64, transactionReference, approvalNote string) (bool, error)
}

// Notifier announces settlement outcomes. Delivery is best effort: a failed
// notification never rolls back an applied settlement.
type Notifier interface {
	Notify(ctx context.Context, event notification.Event) error
}

type Service struct {
	merchantID    string
	signer        *payfast.Signer
	registrations RegistrationStore
	payments      CustomerPaymentStore
	notifier      Notifier
	redisClient   *redis.Client
	logger        *zap.Logger
}

func NewService(
	merchantID string,
	signer *payfast.Signer,
	registrations RegistrationStore,
	payments CustomerPaymentStore,
	notifier Notifier,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		merchantID:    merchantID,
		signer:        signer,
		registrations: registrations,
		payments:      payments,
		notifier:      notifier,
		redisClient:   redisClient,
		logger:        logger,
	}
}

// Apply processes one verified gateway callback. It returns
// xerrors.ErrUnknownMerchant or xerrors.ErrSignatureMismatch when the
// callback fails authentication; once authenticated it only returns an error
// on unexpected internal failure. Unresolvable references, non-complete
// statuses and already-settled records all acknowledge successfully with no
// mutation, so gateway redeliveries stay safe.
func (s *Service) Apply(ctx context.Context, fields map[string]string) error {
	if fields["merchant_id"] != s.merchantID {
		return xerrors.ErrUnknownMerchant
	}

	if !s.signer.Verify(fields, fields["signature"]) {
		return xerrors.ErrSignatureMismatch
	}

	rawReference := fields["m_payment_id"]
	ref, ok := payfast.ResolveReference(rawReference)
	if !ok {
		s.logger.Warn("unresolvable payment reference, acknowledging without mutation",
			zap.String("m_payment_id", rawReference))
		return nil
	}

	if fields["payment_status"] != CompleteStatus {
		s.logger.Info("non-complete payment status, acknowledging without mutation",
			zap.String("m_payment_id", rawReference),
			zap.String("payment_status", fields["payment_status"]))
		return nil
	}

	externalID := fields["pf_payment_id"]
	if externalID == "" {
		externalID = fields["payment_id"]
	}

	s.markSeen(ctx, externalID)

	switch ref.Kind {
	case payfast.ReferenceKindRegistration:
		return s.applyRegistration(ctx, ref.ID, externalID)
	case payfast.ReferenceKindCustomerPayment:
		return s.applyCustomerPayment(ctx, ref.ID, externalID)
	default:
		// Unreachable while ResolveReference and this switch agree on kinds.
		s.logger.Warn("unhandled reference kind", zap.String("kind", string(ref.Kind)))
		return nil
	}
}

func (s *Service) applyRegistration(ctx context.Context, id int64, externalID string) error {
	applied, err := s.registrations.MarkPaid(ctx, id, externalID)
	if err != nil {
		return fmt.Errorf("failed to settle registration %d: %w", id, err)
	}

	if !applied {
		s.logger.Info("registration already settled, acknowledging duplicate delivery",
			zap.Int64("registration_id", id),
			zap.String("pf_payment_id", externalID))
		return nil
	}

	s.logger.Info("registration settled",
		zap.Int64("registration_id", id),
		zap.String("pf_payment_id", externalID))

	return nil
}

func (s *Service) applyCustomerPayment(ctx context.Context, id int64, externalID string) error {
	p, err := s.payments.FindByID(ctx, id)
	if errors.Is(err, xerrors.ErrNotFound) {
		// The reference parsed but points at nothing; same soft handling as
		// an unresolvable reference.
		s.logger.Warn("customer payment not found, acknowledging without mutation",
			zap.Int64("customer_payment_id", id))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load customer payment %d: %w", id, err)
	}

	if p.Status == payment.PaymentStatusApproved {
		s.logger.Info("customer payment already approved, acknowledging duplicate delivery",
			zap.Int64("customer_payment_id", id))
		return nil
	}

	note := fmt.Sprintf("Approved automatically from gateway settlement %s", externalID)
	applied, err := s.payments.Approve(ctx, id, externalID, note)
	if err != nil {
		return fmt.Errorf("failed to approve customer payment %d: %w", id, err)
	}
	if !applied {
		// Lost a race against another delivery of the same event.
		s.logger.Info("customer payment approved concurrently",
			zap.Int64("customer_payment_id", id))
		return nil
	}

	s.logger.Info("customer payment settled",
		zap.Int64("customer_payment_id", id),
		zap.Int64("property_manager_id", p.PropertyManagerID),
		zap.String("pf_payment_id", externalID))

	event := notification.Event{
		RecipientID: p.PropertyManagerID,
		Type:        notification.EventTypeCustomerPaymentSettled,
		Title:       "Payment received",
		Body:        fmt.Sprintf("A %s payment of %.2f was settled (ref %s).", p.PaymentType, p.Amount, externalID),
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Error("failed to dispatch settlement notification",
			zap.Int64("customer_payment_id", id),
			zap.Error(err))
	}

	return nil
}

// markSeen records the gateway payment id in Redis. Failures are logged and
// ignored; this marker never gates settlement.
func (s *Service) markSeen(ctx context.Context, externalID string) {
	if s.redisClient == nil || externalID == "" {
		return
	}

	key := fmt.Sprintf("settlement:seen:%s", externalID)
	created, err := s.redisClient.SetNX(ctx, key, time.Now().Unix(), seenMarkerTTL).Result()
	if err != nil {
		s.logger.Warn("failed to record settlement marker", zap.Error(err))
		return
	}
	if !created {
		s.logger.Info("gateway redelivered settlement event", zap.String("pf_payment_id", externalID))
	}
}
