// internal/handlers/pkg/package_handler.go
package pkg

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

type PackageHandler struct {
	entitlementService *entitlement.Service
}

func NewPackageHandler(entitlementService *entitlement.Service) *PackageHandler {
	return &PackageHandler{
		entitlementService: entitlementService,
	}
}

// ListPackages retrieves the package catalogue
func (h *PackageHandler) ListPackages(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	result, err := h.entitlementService.ListPackages(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list packages", err)
		return
	}

	response.Success(c, http.StatusOK, "packages retrieved", result)
}

// UpdatePricing edits a package's price fields (admin only)
func (h *PackageHandler) UpdatePricing(c *gin.Context) {
	packageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid package ID", err)
		return
	}

	var req billing.UpdatePackagePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	actor := entitlement.Actor{
		ID:    middleware.MustGetIdentityID(c),
		Roles: middleware.GetRoles(c),
	}

	err = h.entitlementService.UpdatePackagePricing(c.Request.Context(), actor, packageID, &req)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, "package pricing updated", nil)
	case errors.Is(err, xerrors.ErrUnauthorized):
		response.Forbidden(c, "administrator privilege required")
	case errors.Is(err, xerrors.ErrPackageNotFound):
		response.NotFound(c, "package not found")
	case errors.Is(err, xerrors.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "invalid pricing", err)
	default:
		response.Error(c, http.StatusInternalServerError, "failed to update pricing", err)
	}
}
