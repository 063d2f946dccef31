// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"propman-service/internal/domain/identity"
	xerrors "propman-service/internal/pkg/errors"
	"propman-service/internal/pkg/jwt"
	"propman-service/internal/repository/postgres"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxLoginAttempts = 5
	loginWindow      = 15 * time.Minute
)

type AuthService struct {
	adminRepo   *postgres.AdminRepository
	jwtManager  *jwt.Manager
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewAuthService(adminRepo *postgres.AdminRepository, jwtManager *jwt.Manager, redisClient *redis.Client, logger *zap.Logger) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		jwtManager:  jwtManager,
		redisClient: redisClient,
		logger:      logger,
	}
}

// Login authenticates an admin and issues an access token.
func (s *AuthService) Login(ctx context.Context, ip string, req *identity.LoginRequest) (*identity.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, err := s.checkLoginAttempt(ctx, ip, email)
	if err != nil {
		s.logger.Warn("login rate limit check failed", zap.Error(err))
	} else if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		// Same generic failure as a wrong password; do not reveal which
		// check failed.
		return nil, xerrors.ErrUnauthorized
	}

	if !admin.IsActive {
		return nil, xerrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	token, jti, err := s.jwtManager.Generate(admin.ID, admin.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("admin logged in",
		zap.Int64("admin_id", admin.ID),
		zap.String("jti", jti))

	return &identity.LoginResponse{Token: token, Admin: admin}, nil
}

// ValidateToken verifies an access token and returns its claims.
func (s *AuthService) ValidateToken(token string) (*jwt.Claims, error) {
	return s.jwtManager.Verify(token)
}

// EnsureSuperAdminExists creates the bootstrap super admin account if no
// admin with this email exists yet.
func (s *AuthService) EnsureSuperAdminExists(ctx context.Context, email, password, fullName string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.adminRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check super admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &identity.Admin{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Roles:        []string{identity.RoleAdmin, identity.RoleSuperAdmin},
		IsActive:     true,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("super admin created", zap.Int64("admin_id", admin.ID))
	return nil
}

// checkLoginAttempt allows up to maxLoginAttempts per window per ip+email.
func (s *AuthService) checkLoginAttempt(ctx context.Context, ip, email string) (bool, error) {
	if s.redisClient == nil {
		return true, nil
	}

	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)

	count, err := s.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		s.redisClient.Expire(ctx, key, loginWindow)
	}

	return count <= maxLoginAttempts, nil
}
