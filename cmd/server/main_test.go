package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/adbilling/internal/adapter/http/dto"
	"github.com/iho/adbilling/internal/infrastructure/auth"
	"github.com/iho/adbilling/internal/infrastructure/config"
)

const testSecret = "test-secret"

func memoryConfig() *config.Config {
	return &config.Config{
		StorageDriver:     config.StorageDriverMemory,
		AdvertiserMode:    config.AdvertiserModeLocal,
		ServeAccounts:     true,
		RemoteTimeout:     2 * time.Second,
		ExistenceTimeout:  time.Second,
		SweepInterval:     time.Minute,
		SweepGrace:        5 * time.Second,
		SweepBatchSize:    100,
		SweepConcurrency:  4,
		MutationRetention: time.Hour,
		ResendMaxAge:      30 * time.Minute,
		GuardTTL:          time.Hour,
		JWTExpiration:     time.Hour,
		ServiceName:       "adbilling-test",
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()
	require.NoError(t, cfg.Validate())

	reg := prometheus.NewRegistry()
	a, err := buildApp(context.Background(), cfg, zerolog.Nop(), reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	require.NoError(t, err)
	t.Cleanup(a.close)

	_, err = a.reconcile.RebuildGuard(context.Background())
	require.NoError(t, err)

	return a
}

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *apiClient) do(method, path, body string) (*http.Response, []byte) {
	c.t.Helper()

	req, err := http.NewRequest(method, c.server.URL+path, strings.NewReader(body))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var buf strings.Builder
	_, err = io.Copy(&buf, resp.Body)
	require.NoError(c.t, err)

	return resp, []byte(buf.String())
}

func TestBuildAppLocalMemory(t *testing.T) {
	a := newTestApp(t, memoryConfig())
	server := httptest.NewServer(a.handler)
	defer server.Close()
	api := &apiClient{t: t, server: server}

	resp, body := api.do(http.MethodPost, "/api/v1/accounts", `{"advertiser_id":"adv-1","initial_balance":"1000"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	bill := `{"daily_metrics_id":"dm-2026-10-19-adv-1","advertiser_id":"adv-1","amount":"250","kind":"DEDUCT"}`
	resp, body = api.do(http.MethodPost, "/api/v1/billing", bill)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var first dto.BillResponse
	require.NoError(t, json.Unmarshal(body, &first))
	assert.Equal(t, "settled", first.Outcome)
	assert.False(t, first.Replayed)

	resp, body = api.do(http.MethodPost, "/api/v1/billing", bill)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var replay dto.BillResponse
	require.NoError(t, json.Unmarshal(body, &replay))
	assert.True(t, replay.Replayed)
	assert.Equal(t, first.TransactionID, replay.TransactionID)

	resp, body = api.do(http.MethodGet, "/api/v1/accounts/adv-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var account dto.AccountResponse
	require.NoError(t, json.Unmarshal(body, &account))
	assert.Equal(t, int64(750), account.Balance)

	resp, body = api.do(http.MethodGet, "/api/v1/transactions/"+first.TransactionID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(http.MethodPost, "/api/v1/reconciliation/sweep", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = api.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = api.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "adbilling_http_requests_total")
	assert.Contains(t, string(body), "adbilling_billing_attempts_total")
}

func TestBuildAppUnknownAdvertiserFails(t *testing.T) {
	a := newTestApp(t, memoryConfig())
	server := httptest.NewServer(a.handler)
	defer server.Close()
	api := &apiClient{t: t, server: server}

	resp, body := api.do(http.MethodPost, "/api/v1/billing",
		`{"daily_metrics_id":"dm-1","advertiser_id":"adv-unknown","amount":"10"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))

	var res dto.BillResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "failed", res.Outcome)
	assert.Equal(t, "advertiser_not_found", res.Reason)
}

func TestBuildAppRemoteAdvertiser(t *testing.T) {
	// Advertiser-side process owning balances.
	advCfg := memoryConfig()
	advCfg.AuthEnabled = true
	advCfg.JWTSecret = testSecret
	advertiserApp := newTestApp(t, advCfg)
	advertiserServer := httptest.NewServer(advertiserApp.handler)
	defer advertiserServer.Close()

	_, err := advertiserApp.balance.OpenAccount(context.Background(), "adv-1", 100)
	require.NoError(t, err)

	// Billing-side process calling it over HTTP.
	billCfg := memoryConfig()
	billCfg.AdvertiserMode = config.AdvertiserModeRemote
	billCfg.AdvertiserURL = advertiserServer.URL
	billCfg.ServeAccounts = false
	billCfg.AuthEnabled = true
	billCfg.JWTSecret = testSecret
	billingApp := newTestApp(t, billCfg)
	assert.Nil(t, billingApp.balance)

	billingServer := httptest.NewServer(billingApp.handler)
	defer billingServer.Close()

	token, err := auth.NewJWTManager(testSecret, time.Hour).Generate("trigger", auth.RoleBiller)
	require.NoError(t, err)
	api := &apiClient{t: t, server: billingServer, token: token}

	resp, body := api.do(http.MethodPost, "/api/v1/billing",
		`{"daily_metrics_id":"dm-1","advertiser_id":"adv-1","amount":"60","kind":"DEDUCT"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(http.MethodPost, "/api/v1/billing",
		`{"daily_metrics_id":"dm-2","advertiser_id":"adv-1","amount":"60","kind":"DEDUCT"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))

	var rejected dto.BillResponse
	require.NoError(t, json.Unmarshal(body, &rejected))
	assert.Equal(t, "insufficient_balance", rejected.Reason)

	account, err := advertiserApp.balance.GetAccount(context.Background(), "adv-1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), account.Balance)

	// Billing side does not expose balance accounts.
	resp, _ = api.do(http.MethodGet, "/api/v1/accounts/adv-1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unauthenticated callers are turned away.
	anonymous := &apiClient{t: t, server: billingServer}
	resp, _ = anonymous.do(http.MethodPost, "/api/v1/billing", `{}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
