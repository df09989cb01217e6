package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
	"github.com/iho/adbilling/internal/usecase/mocks"
)

func TestLedgerUseCase_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.CreateTransactionInput
		setup     func(*mocks.MockTransactionRepository, *mocks.MockIDGenerator)
		wantErr   error
		wantState domain.TransactionState
	}{
		{
			name: "records pending transaction",
			input: usecase.CreateTransactionInput{
				DailyMetricsID: "2024-01-01",
				AdvertiserID:   "adv-1",
				Amount:         200,
				Kind:           domain.TransactionKindCharge,
			},
			setup: func(repo *mocks.MockTransactionRepository, idGen *mocks.MockIDGenerator) {
				idGen.EXPECT().Generate().Return("tx-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, tx *domain.Transaction) error {
					if tx.ID != "tx-1" || tx.State != domain.TransactionStatePending {
						t.Errorf("unexpected transaction %+v", tx)
					}
					return nil
				})
			},
			wantState: domain.TransactionStatePending,
		},
		{
			name: "duplicate period",
			input: usecase.CreateTransactionInput{
				ID:             "tx-2",
				DailyMetricsID: "2024-01-01",
				AdvertiserID:   "adv-1",
				Amount:         200,
				Kind:           domain.TransactionKindCharge,
			},
			setup: func(repo *mocks.MockTransactionRepository, idGen *mocks.MockIDGenerator) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrDuplicateTransaction)
			},
			wantErr: domain.ErrDuplicateTransaction,
		},
		{
			name: "invalid amount never reaches storage",
			input: usecase.CreateTransactionInput{
				ID:             "tx-3",
				DailyMetricsID: "2024-01-01",
				AdvertiserID:   "adv-1",
				Amount:         -5,
				Kind:           domain.TransactionKindCharge,
			},
			setup:   func(*mocks.MockTransactionRepository, *mocks.MockIDGenerator) {},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockTransactionRepository(ctrl)
			idGen := mocks.NewMockIDGenerator(ctrl)
			tt.setup(repo, idGen)

			uc := usecase.NewLedgerUseCase(repo, idGen, nil)
			tx, err := uc.Create(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.State != tt.wantState {
				t.Fatalf("expected %s, got %s", tt.wantState, tx.State)
			}
		})
	}
}

func TestLedgerUseCase_MarkFailedStoresReasonCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTransactionRepository(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)

	repo.EXPECT().
		UpdateState(gomock.Any(), "tx-1", gomock.Len(2), domain.TransactionStateFailed, domain.ReasonInsufficientBalance, gomock.Any()).
		Return(&domain.Transaction{ID: "tx-1", State: domain.TransactionStateFailed, FailureReason: domain.ReasonInsufficientBalance}, nil)
	metrics.EXPECT().ObserveTransition(domain.TransactionStateFailed)

	uc := usecase.NewLedgerUseCase(repo, mocks.NewMockIDGenerator(ctrl), metrics)

	tx, err := uc.MarkFailed(context.Background(), "tx-1", domain.ErrInsufficientBalance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.FailureReason != domain.ReasonInsufficientBalance {
		t.Fatalf("expected reason code, got %q", tx.FailureReason)
	}
}

func TestLedgerUseCase_IllegalTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTransactionRepository(ctrl)

	repo.EXPECT().
		UpdateState(gomock.Any(), "tx-1", []domain.TransactionState{domain.TransactionStatePending}, domain.TransactionStateReconciling, "", gomock.Any()).
		Return(nil, domain.ErrInvalidTransactionState)

	uc := usecase.NewLedgerUseCase(repo, mocks.NewMockIDGenerator(ctrl), nil)

	if _, err := uc.MarkReconciling(context.Background(), "tx-1"); !errors.Is(err, domain.ErrInvalidTransactionState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestLedgerUseCase_ListUnresolvedScansReconcilingAndPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTransactionRepository(ctrl)
	cutoff := time.Now()

	repo.EXPECT().
		ListByStates(gomock.Any(), []domain.TransactionState{domain.TransactionStateReconciling, domain.TransactionStatePending}, cutoff, 10).
		Return([]*domain.Transaction{{ID: "tx-1"}}, nil)

	uc := usecase.NewLedgerUseCase(repo, mocks.NewMockIDGenerator(ctrl), nil)

	rows, err := uc.ListUnresolved(context.Background(), cutoff, 10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected one row, got %d err=%v", len(rows), err)
	}
}

// TestLedger_StateMachineLegality drives every pair of states through the
// in-memory ledger and checks only legal transitions apply.
func TestLedger_StateMachineLegality(t *testing.T) {
	states := []domain.TransactionState{
		domain.TransactionStatePending,
		domain.TransactionStateSettled,
		domain.TransactionStateFailed,
		domain.TransactionStateReconciling,
	}

	for _, to := range states {
		for _, from := range states {
			s := newSystem(t)
			ctx := context.Background()

			tx, err := s.ledger.Create(ctx, usecase.CreateTransactionInput{
				DailyMetricsID: "dm-1", AdvertiserID: "adv-1", Amount: 1, Kind: domain.TransactionKindCharge,
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}

			if !driveTo(ctx, s.ledger, tx.ID, from) {
				continue
			}

			_, err = mark(ctx, s.ledger, tx.ID, to)
			legal := domain.CanTransition(from, to)

			if legal && err != nil {
				t.Errorf("%s -> %s should be legal, got %v", from, to, err)
			}
			if !legal && !errors.Is(err, domain.ErrInvalidTransactionState) {
				t.Errorf("%s -> %s should be rejected, got %v", from, to, err)
			}
		}
	}
}

func driveTo(ctx context.Context, ledger *usecase.LedgerUseCase, id string, state domain.TransactionState) bool {
	if state == domain.TransactionStatePending {
		return true
	}
	_, err := mark(ctx, ledger, id, state)
	return err == nil
}

func mark(ctx context.Context, ledger *usecase.LedgerUseCase, id string, state domain.TransactionState) (*domain.Transaction, error) {
	switch state {
	case domain.TransactionStateSettled:
		return ledger.MarkSettled(ctx, id)
	case domain.TransactionStateFailed:
		return ledger.MarkFailed(ctx, id, domain.ErrInsufficientBalance)
	case domain.TransactionStateReconciling:
		return ledger.MarkReconciling(ctx, id)
	default:
		return nil, domain.ErrInvalidTransactionState
	}
}
