// Package jwt issues and validates the HMAC-signed access/refresh token
// pair used by the API's bearer auth.
package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	TokenType string    `json:"token_type"`

	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (Claims, error)
	IsRefreshToken(claims Claims) bool
}

// tokenKind pairs a token type with its own secret and lifetime, so a
// refresh token never validates under the access key.
type tokenKind struct {
	name   string
	secret []byte
	ttl    time.Duration
}

func (k tokenKind) usable() bool {
	return len(k.secret) > 0 && k.ttl > 0
}

// HMACService signs both token kinds with HS256.
type HMACService struct {
	access  tokenKind
	refresh tokenKind

	now func() time.Time
}

func NewHMACService(accessSecret, refreshSecret string, accessExpiresIn, refreshExpiresIn time.Duration) *HMACService {
	return &HMACService{
		access:  tokenKind{name: TokenTypeAccess, secret: []byte(accessSecret), ttl: accessExpiresIn},
		refresh: tokenKind{name: TokenTypeRefresh, secret: []byte(refreshSecret), ttl: refreshExpiresIn},
		now:     time.Now,
	}
}

func (s *HMACService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return s.generate(s.access, userID, email)
}

func (s *HMACService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.generate(s.refresh, userID, "")
}

// ValidateToken tries both secrets; the token type inside the claims
// tells the caller which kind it got.
func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	claims, accessErr := s.parse(tokenString, s.access.secret)
	if accessErr == nil {
		return claims, nil
	}

	claims, refreshErr := s.parse(tokenString, s.refresh.secret)
	if refreshErr == nil {
		return claims, nil
	}

	if errors.Is(accessErr, ErrTokenExpired) || errors.Is(refreshErr, ErrTokenExpired) {
		return Claims{}, ErrTokenExpired
	}
	return Claims{}, ErrTokenInvalid
}

func (s *HMACService) IsRefreshToken(claims Claims) bool {
	return claims.TokenType == TokenTypeRefresh
}

func (s *HMACService) generate(kind tokenKind, userID uuid.UUID, email string) (string, error) {
	if !kind.usable() {
		return "", ErrTokenInvalid
	}

	issued := s.now().UTC()
	expires := issued.Add(kind.ttl)

	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: kind.name,
		IssuedAt:  issued,
		ExpiredAt: expires,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(issued),
			ExpiresAt: jwtlib.NewNumericDate(expires),
			Subject:   userID.String(),
		},
	}

	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(kind.secret)
}

func (s *HMACService) parse(tokenString string, secret []byte) (Claims, error) {
	parser := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	var claims Claims
	tok, err := parser.ParseWithClaims(tokenString, &claims, func(*jwtlib.Token) (any, error) {
		return secret, nil
	})
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil, tok == nil, !tok.Valid:
		return Claims{}, ErrTokenInvalid
	}

	// The custom ExpiredAt claim is checked on top of the registered
	// expiry so tokens minted with only one of the two still expire.
	if !claims.ExpiredAt.IsZero() && s.now().UTC().After(claims.ExpiredAt.UTC()) {
		return Claims{}, ErrTokenExpired
	}

	if claims.TokenType != TokenTypeAccess && claims.TokenType != TokenTypeRefresh {
		return Claims{}, ErrTokenInvalid
	}

	return claims, nil
}
