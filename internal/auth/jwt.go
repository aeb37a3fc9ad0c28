package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/kanavphull/stores-rest-api/pkg/errors"
)

// Token type values carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the claim set for both access and refresh tokens. Fresh is only
// meaningful on access tokens: it is true when the token was obtained by
// presenting a password, false when obtained through /refresh.
type Claims struct {
	Fresh     bool   `json:"fresh"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim as an int64.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject claim %q: %w", c.Subject, err)
	}
	return id, nil
}

// JWTManager signs and validates the HS256 tokens issued by this service.
type JWTManager struct {
	secret        []byte
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewJWTManager creates a new JWT manager with the given secret and expiry durations.
func NewJWTManager(secret, issuer string, accessExpiry, refreshExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:        []byte(secret),
		issuer:        issuer,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// AccessExpiry returns the configured access token lifetime.
func (m *JWTManager) AccessExpiry() time.Duration { return m.accessExpiry }

// RefreshExpiry returns the configured refresh token lifetime.
func (m *JWTManager) RefreshExpiry() time.Duration { return m.refreshExpiry }

// GenerateAccessToken creates a signed access token for the user. Every token
// carries a unique jti so it can be revoked individually.
func (m *JWTManager) GenerateAccessToken(userID int64, fresh bool) (string, error) {
	return m.generate(userID, TokenTypeAccess, fresh, m.accessExpiry)
}

// GenerateRefreshToken creates a signed refresh token for the user.
func (m *JWTManager) GenerateRefreshToken(userID int64) (string, error) {
	return m.generate(userID, TokenTypeRefresh, false, m.refreshExpiry)
}

func (m *JWTManager) generate(userID int64, tokenType string, fresh bool, expiry time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Fresh:     fresh,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return signedToken, nil
}

// Validate parses the token and verifies its signature and expiry. Expired
// tokens return ErrTokenExpired; every other parse failure returns
// ErrTokenInvalid, so callers can map the two to distinct response codes.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}
