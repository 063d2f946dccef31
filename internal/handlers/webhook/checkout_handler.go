// internal/handlers/webhook/checkout_handler.go
package webhook

import (
	"fmt"
	"net/http"

	"propman-service/internal/domain/payment"
	xerrors "propman-service/internal/pkg/errors"
	"propman-service/internal/pkg/payfast"
	"propman-service/internal/pkg/response"
	"propman-service/internal/repository/postgres"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler builds signed hosted-payment requests for records awaiting
// settlement. The resulting field set is posted by the frontend to the
// gateway's process URL.
type CheckoutHandler struct {
	payfastClient *payfast.Client
	registrations *postgres.RegistrationRepository
	payments      *postgres.CustomerPaymentRepository
}

func NewCheckoutHandler(payfastClient *payfast.Client, registrations *postgres.RegistrationRepository, payments *postgres.CustomerPaymentRepository) *CheckoutHandler {
	return &CheckoutHandler{
		payfastClient: payfastClient,
		registrations: registrations,
		payments:      payments,
	}
}

type checkoutRequest struct {
	Kind      string  `json:"kind" binding:"required,oneof=registration customer-payment"`
	ID        int64   `json:"id" binding:"required,gt=0"`
	Amount    float64 `json:"amount"`
	ItemName  string  `json:"item_name" binding:"required"`
	Email     string  `json:"email"`
	ReturnURL string  `json:"return_url" binding:"required,url"`
	CancelURL string  `json:"cancel_url" binding:"required,url"`
	NotifyURL string  `json:"notify_url" binding:"required,url"`
}

// BuildCheckout prepares a signed checkout for a pending registration or an
// unsettled customer payment.
func (h *CheckoutHandler) BuildCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	kind := payfast.ReferenceKind(req.Kind)
	amount := req.Amount

	switch kind {
	case payfast.ReferenceKindRegistration:
		reg, err := h.registrations.FindByID(ctx, req.ID)
		if err != nil {
			writeCheckoutError(c, "registration not found", err)
			return
		}
		if reg.HasPaid {
			response.Error(c, http.StatusConflict, "registration already paid", nil)
			return
		}
		if amount <= 0 {
			response.Error(c, http.StatusBadRequest, "amount is required for registration checkouts", nil)
			return
		}
		if req.Email == "" {
			req.Email = reg.Email
		}

	case payfast.ReferenceKindCustomerPayment:
		pay, err := h.payments.FindByID(ctx, req.ID)
		if err != nil {
			writeCheckoutError(c, "customer payment not found", err)
			return
		}
		if pay.Status == payment.PaymentStatusApproved {
			response.Error(c, http.StatusConflict, "customer payment already settled", nil)
			return
		}
		// The stored amount is authoritative for customer payments.
		amount = pay.Amount
	}

	fields, err := h.payfastClient.BuildCheckout(payfast.CheckoutRequest{
		Reference: payfast.Reference{Kind: kind, ID: req.ID},
		Amount:    amount,
		ItemName:  req.ItemName,
		ReturnURL: req.ReturnURL,
		CancelURL: req.CancelURL,
		NotifyURL: req.NotifyURL,
		Email:     req.Email,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to build checkout", err)
		return
	}

	response.Success(c, http.StatusOK, "checkout prepared", gin.H{
		"process_url": h.payfastClient.ProcessURL(),
		"fields":      fields,
	})
}

func writeCheckoutError(c *gin.Context, message string, err error) {
	if xerrors.Is(err, xerrors.ErrNotFound) {
		response.NotFound(c, message)
		return
	}
	response.Error(c, http.StatusInternalServerError, fmt.Sprintf("lookup failed: %s", message), err)
}
