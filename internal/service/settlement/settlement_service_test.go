package settlement

import (
	"context"
	"errors"
	"testing"

	"propman-service/internal/domain/notification"
	"propman-service/internal/domain/payment"
	xerrors "propman-service/internal/pkg/errors"
	"propman-service/internal/pkg/payfast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testMerchantID = "10000100"
	testPassphrase = "jt7NOE43FZPn"
)

type fakeRegistrations struct {
	applied   bool
	err       error
	calls     int
	lastID    int64
	lastPayID string
}

func (f *fakeRegistrations) MarkPaid(_ context.Context, id int64, paymentID string) (bool, error) {
	f.calls++
	f.lastID = id
	f.lastPayID = paymentID
	return f.applied, f.err
}

type fakePayments struct {
	record       *payment.CustomerPayment
	findErr      error
	applied      bool
	approveErr   error
	approveCalls int
	lastRef      string
}

func (f *fakePayments) FindByID(_ context.Context, id int64) (*payment.CustomerPayment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.record, nil
}

func (f *fakePayments) Approve(_ context.Context, id int64, transactionReference, approvalNote string) (bool, error) {
	f.approveCalls++
	f.lastRef = transactionReference
	return f.applied, f.approveErr
}

type fakeNotifier struct {
	events []notification.Event
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, event notification.Event) error {
	f.events = append(f.events, event)
	return f.err
}

type settlementFixture struct {
	service       *Service
	signer        *payfast.Signer
	registrations *fakeRegistrations
	payments      *fakePayments
	notifier      *fakeNotifier
}

func newFixture() *settlementFixture {
	signer := payfast.NewSigner(testPassphrase)
	registrations := &fakeRegistrations{applied: true}
	payments := &fakePayments{applied: true}
	notifier := &fakeNotifier{}

	service := NewService(testMerchantID, signer, registrations, payments, notifier, nil, zap.NewNop())

	return &settlementFixture{
		service:       service,
		signer:        signer,
		registrations: registrations,
		payments:      payments,
		notifier:      notifier,
	}
}

// signedFields builds a complete COMPLETE-status callback and attaches a
// valid signature.
func (f *settlementFixture) signedFields(reference, pfPaymentID string) map[string]string {
	fields := map[string]string{
		"merchant_id":    testMerchantID,
		"m_payment_id":   reference,
		"pf_payment_id":  pfPaymentID,
		"payment_status": CompleteStatus,
		"amount_gross":   "150.00",
	}
	fields["signature"] = f.signer.Sign(fields)
	return fields
}

func TestApplyRejectsUnknownMerchant(t *testing.T) {
	f := newFixture()

	fields := f.signedFields("registration_42", "1089250")
	fields["merchant_id"] = "99999999"

	err := f.service.Apply(context.Background(), fields)
	assert.ErrorIs(t, err, xerrors.ErrUnknownMerchant)
	assert.Zero(t, f.registrations.calls)
}

func TestApplyRejectsBadSignature(t *testing.T) {
	f := newFixture()

	fields := f.signedFields("registration_42", "1089250")
	fields["amount_gross"] = "1.00"

	err := f.service.Apply(context.Background(), fields)
	assert.ErrorIs(t, err, xerrors.ErrSignatureMismatch)
	assert.Zero(t, f.registrations.calls)
}

func TestApplyRejectsMissingSignature(t *testing.T) {
	f := newFixture()

	fields := f.signedFields("registration_42", "1089250")
	delete(fields, "signature")

	err := f.service.Apply(context.Background(), fields)
	assert.ErrorIs(t, err, xerrors.ErrSignatureMismatch)
}

func TestApplyAcknowledgesUnresolvableReference(t *testing.T) {
	f := newFixture()

	err := f.service.Apply(context.Background(), f.signedFields("invoice_5", "1089250"))
	require.NoError(t, err)
	assert.Zero(t, f.registrations.calls)
	assert.Zero(t, f.payments.approveCalls)
}

func TestApplyIgnoresNonCompleteStatus(t *testing.T) {
	f := newFixture()

	fields := map[string]string{
		"merchant_id":    testMerchantID,
		"m_payment_id":   "registration_42",
		"payment_status": "CANCELLED",
	}
	fields["signature"] = f.signer.Sign(fields)

	err := f.service.Apply(context.Background(), fields)
	require.NoError(t, err)
	assert.Zero(t, f.registrations.calls)
}

func TestApplySettlesRegistration(t *testing.T) {
	f := newFixture()

	err := f.service.Apply(context.Background(), f.signedFields("registration_42", "1089250"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.registrations.calls)
	assert.Equal(t, int64(42), f.registrations.lastID)
	assert.Equal(t, "1089250", f.registrations.lastPayID)
}

func TestApplyRegistrationDuplicateDeliveryIsSuccess(t *testing.T) {
	f := newFixture()
	f.registrations.applied = false

	err := f.service.Apply(context.Background(), f.signedFields("registration_42", "1089250"))
	assert.NoError(t, err)
	assert.Equal(t, 1, f.registrations.calls)
}

func TestApplyRegistrationStoreFailure(t *testing.T) {
	f := newFixture()
	f.registrations.err = errors.New("connection reset")

	err := f.service.Apply(context.Background(), f.signedFields("registration_42", "1089250"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, xerrors.ErrSignatureMismatch)
}

func TestApplyExternalIDFallsBackToPaymentID(t *testing.T) {
	f := newFixture()

	fields := map[string]string{
		"merchant_id":    testMerchantID,
		"m_payment_id":   "registration_42",
		"payment_id":     "legacy-7711",
		"payment_status": CompleteStatus,
	}
	fields["signature"] = f.signer.Sign(fields)

	require.NoError(t, f.service.Apply(context.Background(), fields))
	assert.Equal(t, "legacy-7711", f.registrations.lastPayID)
}

func TestApplySettlesCustomerPaymentAndNotifies(t *testing.T) {
	f := newFixture()
	f.payments.record = &payment.CustomerPayment{
		ID:                9001,
		PropertyManagerID: 31,
		Amount:            4200,
		PaymentType:       "rent",
		Status:            payment.PaymentStatusPending,
	}

	err := f.service.Apply(context.Background(), f.signedFields("customer-payment_9001", "1089251"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.payments.approveCalls)
	assert.Equal(t, "1089251", f.payments.lastRef)

	require.Len(t, f.notifier.events, 1)
	event := f.notifier.events[0]
	assert.Equal(t, int64(31), event.RecipientID)
	assert.Equal(t, notification.EventTypeCustomerPaymentSettled, event.Type)
}

func TestApplyCustomerPaymentAlreadyApproved(t *testing.T) {
	f := newFixture()
	f.payments.record = &payment.CustomerPayment{
		ID:     9001,
		Status: payment.PaymentStatusApproved,
	}

	err := f.service.Apply(context.Background(), f.signedFields("customer-payment_9001", "1089251"))
	require.NoError(t, err)
	assert.Zero(t, f.payments.approveCalls)
	assert.Empty(t, f.notifier.events)
}

func TestApplyCustomerPaymentNotFoundIsSoftMiss(t *testing.T) {
	f := newFixture()
	f.payments.findErr = xerrors.ErrNotFound

	err := f.service.Apply(context.Background(), f.signedFields("customer-payment_404", "1089252"))
	assert.NoError(t, err)
	assert.Zero(t, f.payments.approveCalls)
}

func TestApplyNotifierFailureDoesNotFailSettlement(t *testing.T) {
	f := newFixture()
	f.payments.record = &payment.CustomerPayment{
		ID:                9001,
		PropertyManagerID: 31,
		Status:            payment.PaymentStatusPending,
	}
	f.notifier.err = errors.New("hub unavailable")

	err := f.service.Apply(context.Background(), f.signedFields("customer-payment_9001", "1089253"))
	assert.NoError(t, err)
	assert.Equal(t, 1, f.payments.approveCalls)
}
