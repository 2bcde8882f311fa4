package services

import (
	"context"
	"strings"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"
	"contenthub/internal/repository"

	"github.com/google/uuid"
)

// UserService handles registration, login, and profiles
type UserService struct {
	userRepo   repository.UserRepository
	auditRepo  repository.AuditLogRepository
	jwtManager *pkg.JWTManager
	logger     *pkg.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	jwtManager *pkg.JWTManager,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		auditRepo:  auditRepo,
		jwtManager: jwtManager,
		logger:     pkg.NewLoggerWithPrefix(pkg.LevelInfo, "USER"),
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User   *models.User   `json:"user"`
	Tokens *pkg.TokenPair `json:"tokens"`
}

// UpdateProfileRequest represents profile update request. Username is absent
// on purpose: it is the stable key every grant references and never changes.
type UpdateProfileRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// Register creates a new account. Usernames are stored lowercased so grants
// and lookups compare exactly.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, pkg.ErrUsernameAlreadyTaken
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, pkg.ErrEmailAlreadyTaken
	}

	hashed, err := pkg.HashPassword(req.Password)
	if err != nil {
		return nil, pkg.ErrInternalServer.WithCause(err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Status:   models.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.jwtManager.GenerateTokenPair(user.ID, user.Username, uuid.NewString())
	if err != nil {
		return nil, pkg.ErrInternalServer.WithCause(err)
	}

	s.logUserEvent(ctx, user.Username, models.AuditActionUserRegister, true, "")

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// Login authenticates a user by username and password.
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Same error whether the account is missing or the password wrong.
		s.logUserEvent(ctx, username, models.AuditActionLoginFailure, false, "unknown username")
		return nil, pkg.ErrInvalidCredentials
	}

	if !pkg.VerifyPassword(req.Password, user.Password) {
		s.logUserEvent(ctx, username, models.AuditActionLoginFailure, false, "wrong password")
		return nil, pkg.ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		s.logUserEvent(ctx, username, models.AuditActionLoginFailure, false, "account not active")
		return nil, pkg.ErrInvalidCredentials
	}

	tokens, err := s.jwtManager.GenerateTokenPair(user.ID, user.Username, uuid.NewString())
	if err != nil {
		return nil, pkg.ErrInternalServer.WithCause(err)
	}

	s.logUserEvent(ctx, user.Username, models.AuditActionUserLogin, true, "")

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.TokenPair, error) {
	tokens, err := s.jwtManager.RefreshToken(refreshToken)
	if err != nil {
		return nil, pkg.ErrInvalidToken.WithCause(err)
	}
	return tokens, nil
}

// GetByUsername returns a user's public profile.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, strings.ToLower(username))
}

// UpdateProfile updates the caller's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, username string, req *UpdateProfileRequest) (*models.User, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing.ID != user.ID {
			return nil, pkg.ErrEmailAlreadyTaken
		}
		updates["email"] = email
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
		return nil, err
	}

	return s.userRepo.GetByUsername(ctx, username)
}

// ChangePassword verifies the current password and sets a new one.
func (s *UserService) ChangePassword(ctx context.Context, username, current, next string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !pkg.VerifyPassword(current, user.Password) {
		return pkg.ErrInvalidCredentials
	}

	hashed, err := pkg.HashPassword(next)
	if err != nil {
		return pkg.ErrInternalServer.WithCause(err)
	}

	return s.userRepo.Update(ctx, user.ID, map[string]interface{}{
		"password": hashed,
	})
}

func (s *UserService) logUserEvent(ctx context.Context, username string, action models.AuditAction, success bool, reason string) {
	severity := models.AuditSeverityLow
	if !success {
		severity = models.AuditSeverityMedium
	}

	entry := &models.AuditLog{
		Username:  username,
		Action:    action,
		Success:   success,
		Reason:    reason,
		Severity:  severity,
		Timestamp: time.Now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record user event", map[string]interface{}{
			"username": username,
			"action":   string(action),
			"error":    err.Error(),
		})
	}
}
