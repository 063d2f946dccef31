// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"propman-service/internal/config"
	"propman-service/internal/db"
	authHandler "propman-service/internal/handlers/auth"
	notifyH "propman-service/internal/handlers/notification"
	packageHandler "propman-service/internal/handlers/pkg"
	subscriptionHandler "propman-service/internal/handlers/subscription"
	webhookHandler "propman-service/internal/handlers/webhook"
	wsHandler "propman-service/internal/handlers/websocket"
	"propman-service/internal/middleware"
	"propman-service/internal/pkg/jwt"
	"propman-service/internal/pkg/payfast"
	"propman-service/internal/repository/postgres"
	authUsecase "propman-service/internal/service/auth"
	entitlementUsecase "propman-service/internal/service/entitlement"
	notifyUsecase "propman-service/internal/service/notification"
	settlementUsecase "propman-service/internal/service/settlement"
	"propman-service/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg         config.AppConfig
	engine      *gin.Engine
	logger      *zap.Logger
	authService *authUsecase.AuthService
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.Default()
	// The gateway probes notify endpoints with non-POST methods; those must
	// see 405, not 404.
	engine.HandleMethodNotAllowed = true
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisCfg := db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	}

	redisClient, err := db.NewRedisClient(redisCfg)
	if err != nil {
		log.Fatalf("[REDIS] ❌ Failed to connect to Redis: %v", err)
	}
	log.Println("[REDIS] ✅ Connected successfully")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- JWT Manager -----
	jwtManager, err := jwt.NewManager(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}

	// ----- Payment gateway -----
	payfastClient := payfast.NewClient(s.cfg.PayFast)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	packageRepo := postgres.NewPackageRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	registrationRepo := postgres.NewRegistrationRepository(pool)
	customerPaymentRepo := postgres.NewCustomerPaymentRepository(pool)
	notifyRepo := postgres.NewNotificationRepository(pool)

	// ----- WebSocket Hub -----
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(adminRepo, jwtManager, redisClient, logger)
	s.authService = authService

	notifService := notifyUsecase.NewService(notifyRepo, hub, logger)
	entitlementService := entitlementUsecase.NewService(
		subscriptionRepo,
		packageRepo,
		employeeRepo,
		dbWrapper,
		logger,
	)
	settlementService := settlementUsecase.NewService(
		s.cfg.PayFast.MerchantID,
		payfastClient.Signer(),
		registrationRepo,
		customerPaymentRepo,
		notifService,
		redisClient,
		logger,
	)

	// ----- Initialize Super Admin -----
	if err := s.initializeSuperAdmin(); err != nil {
		logger.Error("failed to initialize super admin", zap.Error(err))
		// Don't fail startup, just log the error
	}

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	notifHandler := notifyH.NewNotificationHandler(notifService)
	packageHandlerInst := packageHandler.NewPackageHandler(entitlementService)
	subscriptionHandlerInst := subscriptionHandler.NewSubscriptionHandler(entitlementService)
	itnHandlerInst := webhookHandler.NewITNHandler(settlementService, s.cfg.IsProduction(), logger)
	checkoutHandlerInst := webhookHandler.NewCheckoutHandler(payfastClient, registrationRepo, customerPaymentRepo)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, authService, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:         authHandlerInst,
		NotifHandler:        notifHandler,
		PackageHandler:      packageHandlerInst,
		SubscriptionHandler: subscriptionHandlerInst,
		ITNHandler:          itnHandlerInst,
		CheckoutHandler:     checkoutHandlerInst,
		WSHandler:           wsHandlerInst,
		AuthMiddleware:      authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("🚀 Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// initializeSuperAdmin creates super admin if it doesn't exist
func (s *Server) initializeSuperAdmin() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	email := os.Getenv("SUPER_ADMIN_EMAIL")
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	fullName := os.Getenv("SUPER_ADMIN_NAME")

	// Use defaults if not provided (for development only)
	if email == "" {
		email = "admin@propman.app"
		s.logger.Warn("SUPER_ADMIN_EMAIL not set, using default", zap.String("email", email))
	}
	if password == "" {
		password = "BraveHeron42$"
		s.logger.Warn("SUPER_ADMIN_PASSWORD not set, using default password")
	}
	if fullName == "" {
		fullName = "Super Administrator"
		s.logger.Warn("SUPER_ADMIN_NAME not set, using default", zap.String("name", fullName))
	}

	if len(password) < 8 {
		s.logger.Error("super admin password is too weak (minimum 8 characters)")
		return fmt.Errorf("super admin password must be at least 8 characters")
	}

	if err := s.authService.EnsureSuperAdminExists(ctx, email, password, fullName); err != nil {
		return fmt.Errorf("failed to ensure super admin exists: %w", err)
	}

	return nil
}
