package advertiser_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/adbilling/internal/adapter/advertiser"
	apihttp "github.com/iho/adbilling/internal/adapter/http"
	"github.com/iho/adbilling/internal/adapter/http/handler"
	"github.com/iho/adbilling/internal/adapter/repository/memory"
	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/infrastructure/auth"
	"github.com/iho/adbilling/internal/usecase"
)

type advertiserService struct {
	balance *usecase.BalanceUseCase
	server  *httptest.Server
	jwt     *auth.JWTManager
}

func newAdvertiserService(t *testing.T) *advertiserService {
	t.Helper()

	balance := usecase.NewBalanceUseCase(
		memory.NewTxManager(),
		memory.NewBalanceAccountRepository(),
		memory.NewRetrier(),
		nil,
		time.Hour,
	)
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	router := apihttp.NewRouter(apihttp.RouterConfig{
		Logger:         zerolog.Nop(),
		HealthHandler:  handler.NewHealthHandler(),
		AccountHandler: handler.NewAccountHandler(balance),
		JWTManager:     jwt,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &advertiserService{balance: balance, server: server, jwt: jwt}
}

func (s *advertiserService) client(role auth.Role) *advertiser.HTTPClient {
	return advertiser.NewHTTPClient(advertiser.HTTPConfig{
		BaseURL: s.server.URL,
		Timeout: 2 * time.Second,
		Tokens:  auth.NewTokenSource(s.jwt, "billing", role),
	})
}

func deduct(advertiserID, key string, amount int64) domain.MutationRequest {
	return domain.MutationRequest{
		AdvertiserID:   advertiserID,
		IdempotencyKey: key,
		Kind:           domain.TransactionKindDeduct,
		Amount:         amount,
	}
}

func TestHTTPClient_ApplyAndLookup(t *testing.T) {
	ctx := context.Background()
	svc := newAdvertiserService(t)
	_, err := svc.balance.OpenAccount(ctx, "adv-1", 1000)
	require.NoError(t, err)

	client := svc.client(auth.RoleBalanceClient)

	res, err := client.Apply(ctx, deduct("adv-1", "tx-1", 300))
	require.NoError(t, err)
	assert.Equal(t, domain.MutationApplied, res.Outcome)
	assert.Equal(t, int64(700), res.Balance)

	res, err = client.Apply(ctx, deduct("adv-1", "tx-1", 300))
	require.NoError(t, err)
	assert.Equal(t, domain.MutationAlreadyApplied, res.Outcome)
	assert.Equal(t, int64(700), res.Balance)

	res, err = client.Apply(ctx, domain.MutationRequest{
		AdvertiserID:   "adv-1",
		IdempotencyKey: "tx-2",
		Kind:           domain.TransactionKindCharge,
		Amount:         50,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MutationApplied, res.Outcome)
	assert.Equal(t, int64(750), res.Balance)

	found, err := client.Lookup(ctx, "adv-1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, domain.MutationApplied, found.Outcome)
	assert.Equal(t, int64(700), found.Balance)

	missing, err := client.Lookup(ctx, "adv-1", "tx-unknown")
	require.NoError(t, err)
	assert.Equal(t, domain.MutationNotFound, missing.Outcome)
}

func TestHTTPClient_ApplyRejections(t *testing.T) {
	ctx := context.Background()
	svc := newAdvertiserService(t)
	_, err := svc.balance.OpenAccount(ctx, "adv-1", 100)
	require.NoError(t, err)

	client := svc.client(auth.RoleBalanceClient)

	res, err := client.Apply(ctx, deduct("adv-1", "tx-1", 500))
	require.NoError(t, err)
	assert.Equal(t, domain.MutationRejected, res.Outcome)
	assert.ErrorIs(t, res.Reason, domain.ErrInsufficientBalance)

	res, err = client.Apply(ctx, deduct("adv-missing", "tx-2", 10))
	require.NoError(t, err)
	assert.Equal(t, domain.MutationRejected, res.Outcome)
	assert.ErrorIs(t, res.Reason, domain.ErrAccountNotFound)

	// The rejected attempt leaves no trace behind.
	missing, err := client.Lookup(ctx, "adv-1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, domain.MutationNotFound, missing.Outcome)
}

func TestHTTPClient_Exists(t *testing.T) {
	ctx := context.Background()
	svc := newAdvertiserService(t)
	_, err := svc.balance.OpenAccount(ctx, "adv-1", 0)
	require.NoError(t, err)

	client := svc.client(auth.RoleBalanceClient)

	ok, err := client.Exists(ctx, "adv-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Exists(ctx, "adv-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPClient_AuthFailureIsIndeterminate(t *testing.T) {
	ctx := context.Background()
	svc := newAdvertiserService(t)
	_, err := svc.balance.OpenAccount(ctx, "adv-1", 100)
	require.NoError(t, err)

	// A biller token lacks the balance client role.
	client := svc.client(auth.RoleBiller)

	_, err = client.Apply(ctx, deduct("adv-1", "tx-1", 10))
	assert.ErrorIs(t, err, domain.ErrRemoteIndeterminate)

	_, err = client.Lookup(ctx, "adv-1", "tx-1")
	assert.Error(t, err)

	_, err = client.Exists(ctx, "adv-1")
	assert.Error(t, err)
}

func TestHTTPClient_ServerErrorIsIndeterminate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := advertiser.NewHTTPClient(advertiser.HTTPConfig{BaseURL: server.URL})

	_, err := client.Apply(context.Background(), deduct("adv-1", "tx-1", 10))
	assert.ErrorIs(t, err, domain.ErrRemoteIndeterminate)

	_, err = client.Lookup(context.Background(), "adv-1", "tx-1")
	assert.Error(t, err)
}

func TestHTTPClient_TimeoutIsIndeterminate(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := advertiser.NewHTTPClient(advertiser.HTTPConfig{
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	})

	_, err := client.Apply(context.Background(), deduct("adv-1", "tx-1", 10))
	assert.ErrorIs(t, err, domain.ErrRemoteIndeterminate)
}

func TestHTTPClient_NotFoundRouteIsNotMissingMutation(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := advertiser.NewHTTPClient(advertiser.HTTPConfig{BaseURL: server.URL})

	_, err := client.Lookup(context.Background(), "adv-1", "tx-1")
	assert.Error(t, err)
}

func TestHTTPClient_SendsRequestHeaders(t *testing.T) {
	var (
		calls     atomic.Int32
		requestID atomic.Value
		authz     atomic.Value
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		requestID.Store(r.Header.Get("X-Request-ID"))
		authz.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"advertiser_id":"adv-1","exists":true}`))
	}))
	defer server.Close()

	jwt := auth.NewJWTManager("test-secret", time.Hour)
	client := advertiser.NewHTTPClient(advertiser.HTTPConfig{
		BaseURL: server.URL,
		Tokens:  auth.NewTokenSource(jwt, "billing", auth.RoleBalanceClient),
	})

	ok, err := client.Exists(context.Background(), "adv-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), calls.Load())
	assert.NotEmpty(t, requestID.Load())
	assert.Contains(t, authz.Load(), "Bearer ")
}

type failingTokens struct{}

func (failingTokens) Token() (string, error) { return "", errors.New("no key") }

func TestHTTPClient_TokenFailureIsIndeterminate(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := advertiser.NewHTTPClient(advertiser.HTTPConfig{BaseURL: server.URL, Tokens: failingTokens{}})

	_, err := client.Apply(context.Background(), deduct("adv-1", "tx-1", 10))
	assert.ErrorIs(t, err, domain.ErrRemoteIndeterminate)
	assert.Zero(t, calls.Load())
}
