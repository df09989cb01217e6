package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iho/adbilling/internal/infrastructure/auth"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	response string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		method: r.Method,
		path:   r.URL.RequestURI(),
		auth:   r.Header.Get("Authorization"),
		body:   body,
	})
	f.mu.Unlock()

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(f.response))
}

func (f *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatalf("expected a request")
	}
	return f.requests[len(f.requests)-1]
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestBillCommand(t *testing.T) {
	api := &fakeAPI{response: `{"transaction_id":"tx-1","outcome":"settled"}`}
	server := httptest.NewServer(api)
	defer server.Close()

	out, err := runCLI(t, "--url", server.URL, "--token", "tok",
		"bill", "--daily-metrics-id", "dm-1", "--advertiser", "adv-1", "--amount", "250")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	req := api.last(t)
	if req.method != http.MethodPost || req.path != "/api/v1/billing" {
		t.Fatalf("unexpected request %s %s", req.method, req.path)
	}
	if req.auth != "Bearer tok" {
		t.Fatalf("expected bearer token, got %q", req.auth)
	}
	if req.body["daily_metrics_id"] != "dm-1" || req.body["advertiser_id"] != "adv-1" || req.body["kind"] != "DEDUCT" {
		t.Fatalf("unexpected body: %v", req.body)
	}
	if req.body["amount"] != "250" {
		t.Fatalf("expected amount 250, got %v", req.body["amount"])
	}
	if !strings.Contains(out, `"outcome": "settled"`) {
		t.Fatalf("expected pretty printed response, got %q", out)
	}
}

func TestBillCommandFailedAttemptIsNotAnError(t *testing.T) {
	api := &fakeAPI{status: http.StatusUnprocessableEntity, response: `{"outcome":"failed","reason":"insufficient_balance"}`}
	server := httptest.NewServer(api)
	defer server.Close()

	out, err := runCLI(t, "--url", server.URL,
		"bill", "--daily-metrics-id", "dm-1", "--advertiser", "adv-1", "--amount", "10")
	if err != nil {
		t.Fatalf("expected failed attempt to be reported, got error %v", err)
	}
	if !strings.Contains(out, "insufficient_balance") {
		t.Fatalf("expected reason in output, got %q", out)
	}
}

func TestBillCommandRejectsBadAmount(t *testing.T) {
	_, err := runCLI(t, "bill", "--daily-metrics-id", "dm-1", "--advertiser", "adv-1", "--amount", "ten")
	if err == nil {
		t.Fatalf("expected invalid amount error")
	}
}

func TestCommandsHitExpectedRoutes(t *testing.T) {
	tests := []struct {
		args   []string
		method string
		path   string
	}{
		{[]string{"transaction", "get", "tx-1"}, http.MethodGet, "/api/v1/transactions/tx-1"},
		{[]string{"transaction", "list", "adv-1", "--limit", "5"}, http.MethodGet, "/api/v1/advertisers/adv-1/transactions?limit=5&offset=0"},
		{[]string{"transaction", "reconcile", "tx-1"}, http.MethodPost, "/api/v1/transactions/tx-1/reconcile"},
		{[]string{"sweep"}, http.MethodPost, "/api/v1/reconciliation/sweep"},
		{[]string{"account", "open", "adv-1", "--balance", "1000"}, http.MethodPost, "/api/v1/accounts"},
		{[]string{"account", "get", "adv-1"}, http.MethodGet, "/api/v1/accounts/adv-1"},
		{[]string{"account", "mutation", "adv-1", "tx-1"}, http.MethodGet, "/api/v1/accounts/adv-1/mutations/tx-1"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			api := &fakeAPI{response: `{}`}
			server := httptest.NewServer(api)
			defer server.Close()

			if _, err := runCLI(t, append([]string{"--url", server.URL}, tt.args...)...); err != nil {
				t.Fatalf("command failed: %v", err)
			}

			req := api.last(t)
			if req.method != tt.method || req.path != tt.path {
				t.Fatalf("expected %s %s, got %s %s", tt.method, tt.path, req.method, req.path)
			}
		})
	}
}

func TestCommandFailsOnErrorStatus(t *testing.T) {
	api := &fakeAPI{status: http.StatusNotFound, response: `{"error":"transaction not found","code":"transaction_not_found"}`}
	server := httptest.NewServer(api)
	defer server.Close()

	out, err := runCLI(t, "--url", server.URL, "transaction", "get", "missing")
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if !strings.Contains(out, "transaction_not_found") {
		t.Fatalf("expected error body to be printed, got %q", out)
	}
}

func TestTokenCommand(t *testing.T) {
	out, err := runCLI(t, "token", "--secret", "s3cret", "--service", "trigger", "--role", "biller")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	claims, err := auth.NewJWTManager("s3cret", time.Hour).Verify(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.Service != "trigger" || claims.Role != auth.RoleBiller {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := runCLI(t, "token", "--secret", "s3cret", "--role", "root"); err == nil {
		t.Fatalf("expected unknown role to be rejected")
	}
}

func TestPrintBody(t *testing.T) {
	var buf bytes.Buffer
	printBody(&buf, []byte(`{"a":1}`))
	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}

	buf.Reset()
	printBody(&buf, []byte("plain text\n"))
	if buf.String() != "plain text\n" {
		t.Fatalf("unexpected text output: %q", buf.String())
	}
}
