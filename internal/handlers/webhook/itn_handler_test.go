package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"propman-service/internal/domain/notification"
	"propman-service/internal/domain/payment"
	"propman-service/internal/pkg/payfast"
	"propman-service/internal/service/settlement"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testMerchantID = "10000100"
	testPassphrase = "jt7NOE43FZPn"
)

type stubRegistrations struct {
	applied bool
	err     error
}

func (s *stubRegistrations) MarkPaid(_ context.Context, _ int64, _ string) (bool, error) {
	return s.applied, s.err
}

type stubPayments struct{}

func (s *stubPayments) FindByID(_ context.Context, _ int64) (*payment.CustomerPayment, error) {
	return &payment.CustomerPayment{Status: payment.PaymentStatusPending}, nil
}

func (s *stubPayments) Approve(_ context.Context, _ int64, _, _ string) (bool, error) {
	return true, nil
}

type stubNotifier struct{}

func (s *stubNotifier) Notify(_ context.Context, _ notification.Event) error { return nil }

func newTestRouter(registrations *stubRegistrations, production bool) (*gin.Engine, *payfast.Signer) {
	gin.SetMode(gin.TestMode)

	signer := payfast.NewSigner(testPassphrase)
	service := settlement.NewService(testMerchantID, signer, registrations, &stubPayments{}, &stubNotifier{}, nil, zap.NewNop())
	handler := NewITNHandler(service, production, zap.NewNop())

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.POST("/api/v1/payments/notify", handler.HandleNotify)
	return engine, signer
}

func signedForm(signer *payfast.Signer, overrides map[string]string) url.Values {
	fields := map[string]string{
		"merchant_id":    testMerchantID,
		"m_payment_id":   "registration_42",
		"pf_payment_id":  "1089250",
		"payment_status": settlement.CompleteStatus,
		"amount_gross":   "150.00",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	fields["signature"] = signer.Sign(fields)

	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	return form
}

func postNotify(engine *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/notify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHandleNotifyAcknowledgesSettlement(t *testing.T) {
	engine, signer := newTestRouter(&stubRegistrations{applied: true}, false)

	rec := postNotify(engine, signedForm(signer, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleNotifyRejectsBadSignature(t *testing.T) {
	engine, signer := newTestRouter(&stubRegistrations{applied: true}, false)

	form := signedForm(signer, nil)
	form.Set("amount_gross", "1.00")

	rec := postNotify(engine, form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid notification", rec.Body.String())
}

func TestHandleNotifyRejectsUnknownMerchant(t *testing.T) {
	engine, signer := newTestRouter(&stubRegistrations{applied: true}, false)

	rec := postNotify(engine, signedForm(signer, map[string]string{"merchant_id": "99999999"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The rejection body never says which check failed.
	assert.Equal(t, "invalid notification", rec.Body.String())
}

func TestHandleNotifyUnknownReferenceStillAcknowledged(t *testing.T) {
	engine, signer := newTestRouter(&stubRegistrations{applied: true}, false)

	rec := postNotify(engine, signedForm(signer, map[string]string{"m_payment_id": "invoice_5"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleNotifyDuplicateDeliveryStillAcknowledged(t *testing.T) {
	engine, signer := newTestRouter(&stubRegistrations{applied: false}, false)

	rec := postNotify(engine, signedForm(signer, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleNotifyInternalErrorDetailHiddenInProduction(t *testing.T) {
	registrations := &stubRegistrations{err: errors.New("pq: connection refused")}

	engine, signer := newTestRouter(registrations, true)
	rec := postNotify(engine, signedForm(signer, nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", rec.Body.String())

	engine, signer = newTestRouter(registrations, false)
	rec = postNotify(engine, signedForm(signer, nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestHandleNotifyRejectsNonPost(t *testing.T) {
	engine, _ := newTestRouter(&stubRegistrations{applied: true}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/notify", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
