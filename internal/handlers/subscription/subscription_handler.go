// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"errors"
	"net/http"
	"strconv"

	"propman-service/internal/domain/billing"
	"propman-service/internal/middleware"
	xerrors "propman-service/internal/pkg/errors"
	"propman-service/internal/pkg/response"
	"propman-service/internal/service/entitlement"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	entitlementService *entitlement.Service
}

func NewSubscriptionHandler(entitlementService *entitlement.Service) *SubscriptionHandler {
	return &SubscriptionHandler{
		entitlementService: entitlementService,
	}
}

func actorFrom(c *gin.Context) entitlement.Actor {
	return entitlement.Actor{
		ID:    middleware.MustGetIdentityID(c),
		Roles: middleware.GetRoles(c),
	}
}

// ========== Admin Endpoints ==========

// CreateSubscription assigns a package to a user
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req billing.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.entitlementService.CreateSubscription(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		writeServiceError(c, "failed to create subscription", err)
		return
	}

	response.Success(c, http.StatusCreated, "subscription created successfully", result)
}

// UpdateSubscriptionPackage swaps the package on a subscription
func (h *SubscriptionHandler) UpdateSubscriptionPackage(c *gin.Context) {
	subscriptionID, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	var req billing.UpdateSubscriptionPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.entitlementService.UpdateSubscriptionPackage(c.Request.Context(), actorFrom(c), subscriptionID, &req)
	if err != nil {
		writeServiceError(c, "failed to update subscription package", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription package updated", result)
}

// ActivateSubscription lifts a suspension
func (h *SubscriptionHandler) ActivateSubscription(c *gin.Context) {
	subscriptionID, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	if err := h.entitlementService.ActivateSubscription(c.Request.Context(), actorFrom(c), subscriptionID); err != nil {
		writeServiceError(c, "failed to activate subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription activated", nil)
}

// SuspendSubscription suspends a subscription with a reason
func (h *SubscriptionHandler) SuspendSubscription(c *gin.Context) {
	subscriptionID, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	var req billing.SuspendSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.entitlementService.SuspendSubscription(c.Request.Context(), actorFrom(c), subscriptionID, req.Reason); err != nil {
		writeServiceError(c, "failed to suspend subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription suspended", nil)
}

// ListSubscriptions retrieves all subscriptions, optionally by status
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	var status *billing.SubscriptionStatus
	if raw := c.Query("status"); raw != "" {
		s := billing.SubscriptionStatus(raw)
		switch s {
		case billing.SubscriptionStatusTrial, billing.SubscriptionStatusActive,
			billing.SubscriptionStatusSuspended, billing.SubscriptionStatusExpired,
			billing.SubscriptionStatusCancelled:
			status = &s
		default:
			response.Error(c, http.StatusBadRequest, "invalid status filter", nil)
			return
		}
	}

	result, err := h.entitlementService.ListSubscriptions(c.Request.Context(), actorFrom(c), status)
	if err != nil {
		writeServiceError(c, "failed to list subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved", result)
}

// ========== Subscriber Endpoints ==========

// GetOwnSubscription returns the caller's subscription with billing amounts
func (h *SubscriptionHandler) GetOwnSubscription(c *gin.Context) {
	ownerID := middleware.MustGetIdentityID(c)

	result, err := h.entitlementService.GetOwnSubscription(c.Request.Context(), ownerID)
	if err != nil {
		writeServiceError(c, "failed to retrieve subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", result)
}

// ReserveSeat adds an employee against the caller's seat capacity
func (h *SubscriptionHandler) ReserveSeat(c *gin.Context) {
	ownerID := middleware.MustGetIdentityID(c)

	var req billing.ReserveSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.entitlementService.ReserveSeat(c.Request.Context(), ownerID, &req)
	if err != nil {
		writeServiceError(c, "failed to reserve seat", err)
		return
	}

	response.Success(c, http.StatusCreated, "employee created", result)
}

// ========== Helpers ==========

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func writeServiceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, xerrors.ErrUnauthorized):
		response.Forbidden(c, "administrator privilege required")
	case errors.Is(err, xerrors.ErrPackageNotFound), errors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, message)
	case errors.Is(err, xerrors.ErrSubscriptionNotActive):
		response.Error(c, http.StatusConflict, "no active subscription", err)
	case errors.Is(err, xerrors.ErrSeatLimitReached):
		response.Error(c, http.StatusConflict, "seat limit reached", err)
	case errors.Is(err, xerrors.ErrSeatConflict):
		// Caller may re-fetch and retry; the server never retries for them.
		response.Error(c, http.StatusConflict, "seat reservation conflict, please retry", err)
	case errors.Is(err, xerrors.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, message, err)
	default:
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}
