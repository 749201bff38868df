package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskline/taskline-go/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const tokenIssuer = "taskline"

// Claims are the signed claims carried by every taskline token. The type
// claim pins a token to its intended use: only access tokens authenticate
// API requests.
type Claims struct {
	jwt.RegisteredClaims
	Type model.TokenType `json:"type"`
}

// UserID returns the token subject as a user id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// TokenService issues and verifies signed, time-limited tokens bound to a
// user id and a token type. Verification is stateless: no session store.
type TokenService struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateToken issues a token for the user expiring at the given time,
// signed with the service secret.
func (s *TokenService) GenerateToken(userID int64, expiresAt time.Time, tokenType model.TokenType) (string, error) {
	return s.GenerateTokenWithSecret(userID, expiresAt, tokenType, s.secret)
}

// GenerateTokenWithSecret issues a token signed with an explicit secret
// instead of the service's own.
func (s *TokenService) GenerateTokenWithSecret(userID int64, expiresAt time.Time, tokenType model.TokenType, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Type: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken parses and validates a token string. It fails with
// ErrInvalidToken when the signature does not verify, the token is
// malformed or expired, or the token type does not match expectedType.
func (s *TokenService) VerifyToken(tokenString string, expectedType model.TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != expectedType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateAuthTokens issues the access/refresh pair for a user.
func (s *TokenService) GenerateAuthTokens(userID int64) (model.AuthTokens, error) {
	now := time.Now()

	accessExpires := now.Add(s.accessTTL)
	access, err := s.GenerateToken(userID, accessExpires, model.TokenTypeAccess)
	if err != nil {
		return model.AuthTokens{}, err
	}

	refreshExpires := now.Add(s.refreshTTL)
	refresh, err := s.GenerateToken(userID, refreshExpires, model.TokenTypeRefresh)
	if err != nil {
		return model.AuthTokens{}, err
	}

	return model.AuthTokens{
		Access:  model.TokenDetail{Token: access, Expires: accessExpires},
		Refresh: model.TokenDetail{Token: refresh, Expires: refreshExpires},
	}, nil
}
