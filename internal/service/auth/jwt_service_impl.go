package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
)

// hmacTokenService is an implementation of TokenService using HMAC-SHA512
// signing.
type hmacTokenService struct {
	signingKey    []byte
	tokenValidity time.Duration
	timeFunc      func() time.Time // Injectable for testing
}

// jwtCustomClaims defines the structure of JWT claims we issue: the
// standard registered claims plus the comma-joined role names.
type jwtCustomClaims struct {
	Roles string `json:"roles"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenService implements TokenService.
var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a new JWT token service from the auth
// configuration. The configured secret is normalized through standard
// base64 encoding before use as the HMAC key, preserving compatibility
// with tokens issued by earlier deployments of this API.
// Fails at construction, not per call, on missing configuration.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	if cfg.TokenValidityMS <= 0 {
		return nil, fmt.Errorf("token validity must be positive, got %d", cfg.TokenValidityMS)
	}

	key := base64.StdEncoding.EncodeToString([]byte(cfg.JWTSecret))

	return &hmacTokenService{
		signingKey:    []byte(key),
		tokenValidity: time.Duration(cfg.TokenValidityMS) * time.Millisecond,
		timeFunc:      time.Now,
	}, nil
}

// GenerateToken implements TokenService.GenerateToken.
func (s *hmacTokenService) GenerateToken(ctx context.Context, user *domain.User) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := jwtCustomClaims{
		Roles: strings.Join(user.Roles, ","),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenValidity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT token",
			"error", err,
			"signing_method", jwt.SigningMethodHS512.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA512: %w", err)
	}

	return signedToken, nil
}

// ValidateToken implements TokenService.ValidateToken.
func (s *hmacTokenService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Name}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token validation failed: malformed token", "error", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token validation failed: invalid signature", "error", err)
		default:
			log.Debug("token validation failed",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	out := &Claims{
		Email: claims.Subject,
		Roles: splitRoles(claims.Roles),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// splitRoles recovers the role set from the comma-joined roles claim,
// dropping empty segments so a malformed claim degrades to no roles
// rather than a role named "".
func splitRoles(joined string) []string {
	var roles []string
	for _, role := range strings.Split(joined, ",") {
		if role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}
