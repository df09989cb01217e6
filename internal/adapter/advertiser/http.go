package advertiser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/iho/adbilling/internal/adapter/http/dto"
	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
)

const requestIDHeader = "X-Request-ID"

var (
	_ usecase.BalanceGateway  = (*HTTPClient)(nil)
	_ usecase.ExistenceOracle = (*HTTPClient)(nil)
)

// TokenSource supplies bearer tokens for outgoing calls.
type TokenSource interface {
	Token() (string, error)
}

// HTTPConfig configures the client for a remote advertiser service.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
}

// HTTPClient talks to the advertiser service's balance API over HTTP. It is
// both the balance gateway and the existence oracle of the billing side.
type HTTPClient struct {
	client *resty.Client
	tokens TokenSource
}

// NewHTTPClient creates a new HTTPClient.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	c := &HTTPClient{client: client, tokens: cfg.Tokens}
	client.OnBeforeRequest(c.decorate)

	return c
}

// decorate stamps auth, a request id and the trace context on each request.
func (c *HTTPClient) decorate(_ *resty.Client, req *resty.Request) error {
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("service token: %w", err)
		}
		req.SetAuthToken(token)
	}
	if req.Header.Get(requestIDHeader) == "" {
		req.SetHeader(requestIDHeader, uuid.NewString())
	}
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))
	return nil
}

// Apply sends a charge or deduct. Only answers proving the mutation was not
// applied are reported as rejections; anything else is indeterminate.
func (c *HTTPClient) Apply(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error) {
	op := "deductions"
	if req.Kind == domain.TransactionKindCharge {
		op = "charges"
	}

	var result dto.MutationResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"id": req.AdvertiserID, "op": op}).
		SetBody(dto.MutationRequest{
			Amount:         decimal.NewFromInt(req.Amount),
			IdempotencyKey: req.IdempotencyKey,
		}).
		SetResult(&result).
		Post("/api/v1/accounts/{id}/{op}")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteIndeterminate, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusOK:
		return result.ToDomain(), nil
	case status == http.StatusUnprocessableEntity:
		// Rejections carry a mutation body rather than an error body.
		var rejected dto.MutationResponse
		if err := json.Unmarshal(resp.Body(), &rejected); err != nil || rejected.Outcome != string(domain.MutationRejected) {
			return &domain.MutationResult{Outcome: domain.MutationRejected, Reason: domain.ErrBalanceRejected}, nil
		}
		return rejected.ToDomain(), nil
	case definiteRefusal(status):
		var failure dto.ErrorResponse
		_ = json.Unmarshal(resp.Body(), &failure)
		return &domain.MutationResult{Outcome: domain.MutationRejected, Reason: refusalReason(failure)}, nil
	default:
		return nil, fmt.Errorf("%w: status %d", domain.ErrRemoteIndeterminate, status)
	}
}

// Lookup asks whether a mutation with the key has been applied.
func (c *HTTPClient) Lookup(ctx context.Context, advertiserID, idempotencyKey string) (*domain.MutationResult, error) {
	var (
		record  dto.MutationRecordResponse
		failure dto.ErrorResponse
	)
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"id": advertiserID, "key": idempotencyKey}).
		SetResult(&record).
		SetError(&failure).
		Get("/api/v1/accounts/{id}/mutations/{key}")
	if err != nil {
		return nil, fmt.Errorf("lookup %s/%s: %w", advertiserID, idempotencyKey, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &domain.MutationResult{Outcome: domain.MutationApplied, Balance: record.BalanceAfter}, nil
	case http.StatusNotFound:
		if failure.Code == "mutation_not_found" {
			return &domain.MutationResult{Outcome: domain.MutationNotFound}, nil
		}
	}

	return nil, fmt.Errorf("lookup %s/%s: unexpected status %d", advertiserID, idempotencyKey, resp.StatusCode())
}

// Exists reports whether the advertiser is known to the advertiser service.
func (c *HTTPClient) Exists(ctx context.Context, advertiserID string) (bool, error) {
	var answer dto.AdvertiserResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", advertiserID).
		SetResult(&answer).
		Get("/api/v1/advertisers/{id}")
	if err != nil {
		return false, err
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return answer.Exists, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("existence of %s: unexpected status %d", advertiserID, resp.StatusCode())
	}
}

// definiteRefusal reports whether a status proves the request was refused
// before touching the balance. Auth and throttling answers are excluded:
// they are operational and may clear up, so the sweep gets to retry.
func definiteRefusal(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return status >= 400 && status < 500
}

func refusalReason(failure dto.ErrorResponse) error {
	if reason := domain.ReasonError(failure.Code); reason != nil {
		return reason
	}
	if failure.Message != "" {
		return fmt.Errorf("%w: %s", domain.ErrBalanceRejected, failure.Message)
	}
	return domain.ErrBalanceRejected
}
