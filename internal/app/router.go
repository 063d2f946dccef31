// internal/app/router.go
package app

import (
	authHandler "propman-service/internal/handlers/auth"
	notifyHandler "propman-service/internal/handlers/notification"
	packageHandler "propman-service/internal/handlers/pkg"
	subscriptionHandler "propman-service/internal/handlers/subscription"
	webhookHandler "propman-service/internal/handlers/webhook"
	wsHandler "propman-service/internal/handlers/websocket"
	"propman-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler         *authHandler.AuthHandler
	NotifHandler        *notifyHandler.NotificationHandler
	PackageHandler      *packageHandler.PackageHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	ITNHandler          *webhookHandler.ITNHandler
	CheckoutHandler     *webhookHandler.CheckoutHandler
	WSHandler           *wsHandler.WebSocketHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Gateway Callback ====================
	// Server-to-server, authenticated by signature rather than a token.
	api.POST("/payments/notify", h.ITNHandler.HandleNotify)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	notifications.Use(h.AuthMiddleware.Auth())
	{
		notifications.GET("", h.NotifHandler.GetNotifications)
		notifications.GET("/count/unread", h.NotifHandler.GetUnreadCount)
		notifications.PUT("/:id/read", h.NotifHandler.MarkAsRead)
	}

	// ==================== Packages ====================
	packages := api.Group("/packages")
	packages.Use(h.AuthMiddleware.Auth())
	{
		packages.GET("", h.PackageHandler.ListPackages)
	}

	// ==================== Own Subscription ====================
	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(h.AuthMiddleware.Auth())
	{
		subscriptions.GET("/me", h.SubscriptionHandler.GetOwnSubscription)
		subscriptions.POST("/me/employees", h.SubscriptionHandler.ReserveSeat)
	}

	// ==================== ADMIN ROUTES ====================
	admin := api.Group("/admin")
	adminAuth := admin.Group("")
	adminAuth.Use(h.AuthMiddleware.AdminOnly()...)
	{
		// Subscription Management
		adminSubscriptions := adminAuth.Group("/subscriptions")
		{
			adminSubscriptions.POST("", h.SubscriptionHandler.CreateSubscription)
			adminSubscriptions.GET("", h.SubscriptionHandler.ListSubscriptions)
			adminSubscriptions.PUT("/:id/package", h.SubscriptionHandler.UpdateSubscriptionPackage)
			adminSubscriptions.PUT("/:id/activate", h.SubscriptionHandler.ActivateSubscription)
			adminSubscriptions.PUT("/:id/suspend", h.SubscriptionHandler.SuspendSubscription)
		}

		// Package Management
		adminPackages := adminAuth.Group("/packages")
		{
			adminPackages.PUT("/:id/pricing", h.PackageHandler.UpdatePricing)
		}

		// Payment Management
		adminPayments := adminAuth.Group("/payments")
		{
			adminPayments.POST("/checkout", h.CheckoutHandler.BuildCheckout)
		}
	}

	// Super Admin Only Routes
	superAdmin := admin.Group("")
	superAdmin.Use(h.AuthMiddleware.SuperAdminOnly()...)
	{
		superAdmin.GET("/ws/stats", h.WSHandler.GetStats)
	}
}
