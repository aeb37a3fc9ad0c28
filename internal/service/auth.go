package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kanavphull/stores-rest-api/internal/auth"
	"github.com/kanavphull/stores-rest-api/internal/domain"
	"github.com/kanavphull/stores-rest-api/internal/mailer"
	"github.com/kanavphull/stores-rest-api/internal/repository"
	apperrors "github.com/kanavphull/stores-rest-api/pkg/errors"
	"github.com/kanavphull/stores-rest-api/pkg/middleware"
)

// RegistrationPublisher publishes the user.registered event.
type RegistrationPublisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
}

// AuthService implements registration, login, token lifecycle, and the
// Authorizer interface consumed by the token gate.
type AuthService struct {
	userRepo  repository.UserRepository
	blocklist auth.Blocklist
	jwt       *auth.JWTManager
	producer  RegistrationPublisher
	mail      mailer.Sender
	logger    *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	blocklist auth.Blocklist,
	jwt *auth.JWTManager,
	producer RegistrationPublisher,
	mail mailer.Sender,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		blocklist: blocklist,
		jwt:       jwt,
		producer:  producer,
		mail:      mail,
		logger:    logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Username string
	Password string
}

// Register creates a new user account. Registration succeeds or fails on the
// insert alone; the welcome email and the registered event are fire-and-forget.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	taken, err := s.userRepo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if taken {
		return nil, apperrors.AlreadyExists("user", "username or email", input.Username)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}

	// The unique constraints still backstop the existence check under
	// concurrent registrations.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.mail.Send(ctx, user.Email,
		"Successfully signed up",
		fmt.Sprintf("Hi %s, you have successfully signed up to the Stores REST API.", user.Username),
	); err != nil {
		s.logger.ErrorContext(ctx, "failed to send welcome email",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates a user and returns a fresh access token plus a refresh
// token. Unknown username and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, input.Password)
	if err != nil || !ok {
		return nil, apperrors.InvalidCredentials()
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, true)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
	)

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a validated refresh token for a non-fresh access token.
// The consumed refresh jti is blocklisted so each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, principal *middleware.Principal) (string, error) {
	accessToken, err := s.jwt.GenerateAccessToken(principal.UserID, false)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	if err := s.blocklist.Add(ctx, principal.JTI, time.Until(principal.ExpiresAt)); err != nil {
		return "", fmt.Errorf("blocklist consumed refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "access token refreshed",
		slog.Int64("user_id", principal.UserID),
	)

	return accessToken, nil
}

// Logout revokes the presented token. A second logout with the same token
// fails at the gate with token_revoked.
func (s *AuthService) Logout(ctx context.Context, principal *middleware.Principal) error {
	if err := s.blocklist.Add(ctx, principal.JTI, time.Until(principal.ExpiresAt)); err != nil {
		return fmt.Errorf("blocklist token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.Int64("user_id", principal.UserID),
	)

	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user account.
func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.Int64("user_id", id),
	)

	return nil
}

// Authorize validates the bearer token against the route's policy. It is the
// single enforcement point behind middleware.TokenGate.
func (s *AuthService) Authorize(ctx context.Context, token string, policy middleware.Policy) (*middleware.Principal, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			return nil, apperrors.TokenExpired()
		}
		return nil, apperrors.TokenInvalid()
	}

	revoked, err := s.blocklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("check blocklist: %w", err))
	}
	if revoked {
		return nil, apperrors.TokenRevoked()
	}

	switch policy {
	case middleware.PolicyRefreshOnly:
		if claims.TokenType != auth.TokenTypeRefresh {
			return nil, apperrors.TokenInvalid()
		}
	case middleware.PolicyFresh:
		if claims.TokenType != auth.TokenTypeAccess {
			return nil, apperrors.TokenInvalid()
		}
		if !claims.Fresh {
			return nil, apperrors.FreshTokenRequired()
		}
	default:
		if claims.TokenType != auth.TokenTypeAccess {
			return nil, apperrors.TokenInvalid()
		}
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.TokenInvalid()
	}

	return &middleware.Principal{
		UserID:    userID,
		JTI:       claims.ID,
		Fresh:     claims.Fresh,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
