package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
)

func TestBillFromResult(t *testing.T) {
	now := time.Now()
	res := &usecase.BillResult{
		TransactionID: "tx-1",
		Outcome:       usecase.OutcomeFailed,
		Reason:        domain.ErrInsufficientBalance,
		Transaction: &domain.Transaction{
			ID:            "tx-1",
			State:         domain.TransactionStateFailed,
			FailureReason: domain.ReasonInsufficientBalance,
			CreatedAt:     now,
		},
	}

	got := BillFromResult(res)
	if got.Reason != domain.ReasonInsufficientBalance {
		t.Fatalf("expected reason code, got %q", got.Reason)
	}
	if got.Transaction == nil || got.Transaction.State != "FAILED" {
		t.Fatalf("unexpected transaction: %+v", got.Transaction)
	}
}

func TestMutationResponseRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		result     *domain.MutationResult
		wantReason error
	}{
		{
			name:   "applied",
			result: &domain.MutationResult{Outcome: domain.MutationApplied, Balance: 700},
		},
		{
			name:       "insufficient balance",
			result:     &domain.MutationResult{Outcome: domain.MutationRejected, Reason: domain.ErrInsufficientBalance, Balance: 100},
			wantReason: domain.ErrInsufficientBalance,
		},
		{
			name:       "unknown rejection reason",
			result:     &domain.MutationResult{Outcome: domain.MutationRejected, Reason: errors.New("policy")},
			wantReason: domain.ErrBalanceRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back := MutationFromResult(tt.result).ToDomain()
			if back.Outcome != tt.result.Outcome || back.Balance != tt.result.Balance {
				t.Fatalf("round trip mismatch: %+v vs %+v", back, tt.result)
			}
			if tt.wantReason == nil && back.Reason != nil {
				t.Fatalf("unexpected reason %v", back.Reason)
			}
			if tt.wantReason != nil && !errors.Is(back.Reason, tt.wantReason) {
				t.Fatalf("expected reason %v, got %v", tt.wantReason, back.Reason)
			}
		})
	}
}

func TestSweepFromReport(t *testing.T) {
	got := SweepFromReport(&usecase.SweepReport{Examined: 4, Settled: 2, Unresolved: 1, ResendExpired: 1, Duration: 1500 * time.Millisecond})
	if got.Examined != 4 || got.Settled != 2 || got.Unresolved != 1 || got.ResendExpired != 1 || got.DurationMillis != 1500 {
		t.Fatalf("unexpected sweep response: %+v", got)
	}
}
