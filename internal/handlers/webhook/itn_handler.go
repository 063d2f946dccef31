// internal/handlers/webhook/itn_handler.go
package webhook

import (
	"errors"
	"net/http"

	xerrors "propman-service/internal/pkg/errors"
	"propman-service/internal/service/settlement"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ITNHandler terminates the gateway's Instant Transaction Notification
// callbacks. The gateway speaks plain text, not the JSON envelope the rest
// of the API uses: it expects 200 "OK" for every authenticated delivery and
// retries anything else on its own schedule.
type ITNHandler struct {
	settlementService *settlement.Service
	production        bool
	logger            *zap.Logger
}

func NewITNHandler(settlementService *settlement.Service, production bool, logger *zap.Logger) *ITNHandler {
	return &ITNHandler{
		settlementService: settlementService,
		production:        production,
		logger:            logger,
	}
}

// HandleNotify processes one form-encoded ITN POST.
func (h *ITNHandler) HandleNotify(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "malformed form body")
		return
	}

	// Every posted field participates in signature verification, including
	// ones this system does not recognize.
	fields := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	err := h.settlementService.Apply(c.Request.Context(), fields)
	switch {
	case err == nil:
		c.String(http.StatusOK, "OK")

	case errors.Is(err, xerrors.ErrUnknownMerchant), errors.Is(err, xerrors.ErrSignatureMismatch):
		// Generic rejection; which check failed stays in the server log.
		h.logger.Warn("rejected gateway notification",
			zap.String("m_payment_id", fields["m_payment_id"]),
			zap.Error(err))
		c.String(http.StatusBadRequest, "invalid notification")

	default:
		h.logger.Error("failed to apply gateway notification",
			zap.String("m_payment_id", fields["m_payment_id"]),
			zap.Error(err))
		if h.production {
			c.String(http.StatusInternalServerError, "internal error")
		} else {
			c.String(http.StatusInternalServerError, "internal error: %v", err)
		}
	}
}
