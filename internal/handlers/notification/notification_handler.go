// internal/handlers/notification/notification_handler.go
package notification

import (
	"net/http"
	"strconv"

	"propman-service/internal/middleware"
	xerrors "propman-service/internal/pkg/errors"
	"propman-service/internal/pkg/response"
	notifysvc "propman-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *notifysvc.Service
}

func NewNotificationHandler(notificationService *notifysvc.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications retrieves the caller's recent notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	recipientID := middleware.MustGetIdentityID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.notificationService.List(c.Request.Context(), recipientID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "notifications retrieved", result)
}

// GetUnreadCount returns the caller's unread notification count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	recipientID := middleware.MustGetIdentityID(c)

	count, err := h.notificationService.UnreadCount(c.Request.Context(), recipientID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to count notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "unread count retrieved", gin.H{"unread": count})
}

// MarkAsRead marks one notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	recipientID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid notification ID", err)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), recipientID, id); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to mark notification read", err)
		return
	}

	response.Success(c, http.StatusOK, "notification marked read", nil)
}
