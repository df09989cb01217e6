package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/adbilling/internal/infrastructure/auth"
)

func TestJWTManagerGenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute)

	token, err := manager.Generate("billing-worker", auth.RoleBiller)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}

	if claims.Service != "billing-worker" || claims.Role != auth.RoleBiller || claims.Subject != "billing-worker" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	expiredClaims := auth.Claims{
		Service: "billing",
		Role:    auth.RoleBalanceClient,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "adbilling",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}

	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	if _, err := manager.Verify(expiredToken); !errors.Is(err, auth.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	otherManager := auth.NewJWTManager("other-secret", time.Minute)
	if _, err := otherManager.Verify(expiredToken); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	if _, err := manager.Verify("not-a-token"); err == nil {
		t.Fatalf("expected failure for malformed token")
	}

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Service: "intruder",
		Role:    auth.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign foreign token: %v", err)
	}
	if _, err := manager.Verify(foreign); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected foreign issuer to be rejected, got %v", err)
	}
}

func TestRoleAllows(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		role     auth.Role
		required auth.Role
		want     bool
	}{
		{auth.RoleAdmin, auth.RoleBiller, true},
		{auth.RoleAdmin, auth.RoleBalanceClient, true},
		{auth.RoleBiller, auth.RoleBiller, true},
		{auth.RoleBiller, auth.RoleAdmin, false},
		{auth.RoleBalanceClient, auth.RoleBiller, false},
	}

	for _, tc := range testCases {
		if got := tc.role.Allows(tc.required); got != tc.want {
			t.Fatalf("%s.Allows(%s) = %v, want %v", tc.role, tc.required, got, tc.want)
		}
	}
}

func TestTokenSourceReusesToken(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Hour)
	source := auth.NewTokenSource(manager, "billing", auth.RoleBalanceClient)

	first, err := source.Token()
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	second, err := source.Token()
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached token to be reused")
	}

	claims, err := manager.Verify(first)
	if err != nil || claims.Role != auth.RoleBalanceClient {
		t.Fatalf("unexpected claims %+v err=%v", claims, err)
	}
}
