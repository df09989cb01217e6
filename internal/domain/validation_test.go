package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/iho/adbilling/internal/domain"
)

func TestValidateDailyMetricsID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"2024-01-01", false},
		{"adv-1:2024-01-01", false},
		{"", true},
		{"2024 01 01", true},
		{"x'; DROP TABLE transactions;--", true},
		{strings.Repeat("a", domain.MaxDailyMetricsIDLen+1), true},
	}

	for _, tt := range tests {
		err := domain.ValidateDailyMetricsID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDailyMetricsID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, domain.ErrInvalidDailyMetricsID) {
			t.Errorf("expected ErrInvalidDailyMetricsID, got %v", err)
		}
	}
}

func TestValidateMutationRequest(t *testing.T) {
	req := domain.MutationRequest{
		AdvertiserID:   "adv-1",
		IdempotencyKey: "01HZY0000000000000000000",
		Kind:           domain.TransactionKindDeduct,
		Amount:         10,
	}
	if err := domain.ValidateMutationRequest(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.IdempotencyKey = ""
	if err := domain.ValidateMutationRequest(req); !errors.Is(err, domain.ErrInvalidIdempotencyKey) {
		t.Fatalf("expected ErrInvalidIdempotencyKey, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := domain.ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Fatalf("expected defaults, got limit=%d offset=%d", limit, offset)
	}

	limit, _ = domain.ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Fatalf("expected limit capped at 1000, got %d", limit)
	}
}
