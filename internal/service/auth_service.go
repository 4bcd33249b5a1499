package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/repository"
	"github.com/sefazor/cityevents-backend/pkg/bcrypt"
	"github.com/sefazor/cityevents-backend/pkg/email"
	jwtPkg "github.com/sefazor/cityevents-backend/pkg/jwt"
	"github.com/sefazor/cityevents-backend/pkg/sanitize"
	"github.com/sefazor/cityevents-backend/pkg/utils"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid credentials"

type AuthService struct {
	userRepo  UserStore
	tokens    *jwtPkg.Manager
	mailer    email.Sender
	validator *utils.Validator
	adminCode string
	logger    *zap.Logger
}

// NewAuthService builds the service. An empty adminCode disables ADMIN registration.
func NewAuthService(userRepo UserStore, tokens *jwtPkg.Manager, mailer email.Sender, validator *utils.Validator, adminCode string, logger *zap.Logger) *AuthService {
	if mailer == nil {
		mailer = email.NopSender{}
	}
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		mailer:    mailer,
		validator: validator,
		adminCode: adminCode,
		logger:    logger.Named("auth"),
	}
}

func normalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, apperror.Validation(utils.Message(err))
	}
	if len(req.Password) > bcrypt.MaxPasswordBytes {
		return nil, apperror.Validation(fmt.Sprintf("password must be at most %d bytes", bcrypt.MaxPasswordBytes))
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, internalError("check email", err)
	}
	if exists {
		return nil, apperror.Conflict("Email already registered")
	}

	role := models.RoleUser
	if req.Role == models.RoleAdmin {
		if !s.adminCodeMatches(req.AdminCode) {
			return nil, apperror.Authorization("Invalid admin code")
		}
		role = models.RoleAdmin
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         sanitize.OptionalText(req.Name),
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, internalError("create user", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, internalError("generate token", err)
	}

	go func(address string, name *string) {
		if err := s.mailer.SendWelcomeEmail(address, name); err != nil {
			s.logger.Warn("welcome email failed", zap.String("email", address), zap.Error(err))
		}
	}(user.Email, user.Name)

	return &models.AuthResponse{User: user.Profile(), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, apperror.Validation(utils.Message(err))
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareDummy(req.Password)
			return nil, apperror.Authentication(invalidCredentials)
		}
		return nil, internalError("load user", err)
	}
	if !bcrypt.VerifyHash(user.PasswordHash) {
		return nil, internalError("load user", fmt.Errorf("user %d has a malformed password hash", user.ID))
	}

	if err := bcrypt.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperror.Authentication(invalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, internalError("generate token", err)
	}
	return &models.AuthResponse{User: user.Profile(), Token: token}, nil
}

// Me returns the stored profile of the caller.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, internalError("load user", err)
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *AuthService) adminCodeMatches(code string) bool {
	if s.adminCode == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.adminCode)) == 1
}
