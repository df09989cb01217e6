package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Role is the permission level carried by a service token.
type Role string

const (
	// RoleAdmin may run operator actions such as sweeps and account opening.
	RoleAdmin Role = "admin"
	// RoleBiller may submit billing triggers and read the ledger.
	RoleBiller Role = "biller"
	// RoleBalanceClient may mutate and query balances on the advertiser side.
	RoleBalanceClient Role = "balance_client"
)

// Allows reports whether a token with role r may act as required.
func (r Role) Allows(required Role) bool {
	return r == RoleAdmin || r == required
}

// Claims represents the JWT claims of a calling service.
type Claims struct {
	Service string `json:"service"`
	Role    Role   `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates service-to-service tokens.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	issuer        string
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		issuer:        "adbilling",
	}
}

// Generate signs a token for the named service.
func (m *JWTManager) Generate(service string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Service: service,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   service,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a token and returns its claims.
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Service == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TokenSource caches a self-issued token and renews it before expiry.
type TokenSource struct {
	manager *JWTManager
	service string
	role    Role

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource creates a TokenSource for outgoing calls made by service.
func NewTokenSource(manager *JWTManager, service string, role Role) *TokenSource {
	return &TokenSource{manager: manager, service: service, role: role}
}

// Token returns a valid bearer token.
func (s *TokenSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.token != "" && now.Add(s.manager.tokenDuration/4).Before(s.expiresAt) {
		return s.token, nil
	}

	token, err := s.manager.Generate(s.service, s.role)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expiresAt = now.Add(s.manager.tokenDuration)
	return token, nil
}
