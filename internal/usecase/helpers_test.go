package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/adbilling/internal/adapter/advertiser"
	"github.com/iho/adbilling/internal/adapter/repository/memory"
	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
	"github.com/iho/adbilling/internal/usecase/mocks"
)

type sequenceIDs struct {
	n atomic.Int64
}

func (s *sequenceIDs) Generate() string {
	return fmt.Sprintf("tx-%04d", s.n.Add(1))
}

// system wires billing and balance sides together in memory, with a
// fault-injecting gateway in between.
type system struct {
	accounts  *memory.BalanceAccountRepository
	txRepo    *memory.TransactionRepository
	guard     *memory.IdempotencyGuard
	queue     *memory.ReconcileQueue
	gateway   *mocks.FaultyGateway
	oracle    usecase.ExistenceOracle
	balance   *usecase.BalanceUseCase
	ledger    *usecase.LedgerUseCase
	billing   *usecase.BillingUseCase
	reconcile *usecase.ReconciliationUseCase
}

type systemOption func(*systemConfig)

type systemConfig struct {
	oracle       usecase.ExistenceOracle
	grace        time.Duration
	maxResendAge time.Duration
	logger       zerolog.Logger
}

func withOracle(oracle usecase.ExistenceOracle) systemOption {
	return func(c *systemConfig) { c.oracle = oracle }
}

func withGrace(grace time.Duration) systemOption {
	return func(c *systemConfig) { c.grace = grace }
}

func withLogger(logger zerolog.Logger) systemOption {
	return func(c *systemConfig) { c.logger = logger }
}

func withMaxResendAge(age time.Duration) systemOption {
	return func(c *systemConfig) { c.maxResendAge = age }
}

func newSystem(t *testing.T, opts ...systemOption) *system {
	t.Helper()

	s := &system{
		accounts: memory.NewBalanceAccountRepository(),
		txRepo:   memory.NewTransactionRepository(),
		guard:    memory.NewIdempotencyGuard(),
		queue:    memory.NewReconcileQueue(),
	}

	s.balance = usecase.NewBalanceUseCase(memory.NewTxManager(), s.accounts, memory.NewRetrier(), nil, time.Hour)
	s.gateway = mocks.NewFaultyGateway(advertiser.NewLocalGateway(s.balance))

	cfg := systemConfig{
		oracle: advertiser.NewLocalOracle(s.balance),
		grace:  time.Millisecond,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	s.oracle = cfg.oracle

	logger := cfg.logger
	s.ledger = usecase.NewLedgerUseCase(s.txRepo, &sequenceIDs{}, nil)
	s.billing = usecase.NewBillingUseCase(s.guard, s.ledger, s.gateway, s.oracle, s.queue, nil, logger, usecase.BillingConfig{
		RemoteTimeout:    time.Second,
		ExistenceTimeout: time.Second,
	})
	s.reconcile = usecase.NewReconciliationUseCase(s.ledger, s.guard, s.gateway, s.queue, nil, logger, usecase.ReconcileConfig{
		GraceInterval: cfg.grace,
		BatchSize:     100,
		Concurrency:   4,
		RemoteTimeout: time.Second,
		MaxResendAge:  cfg.maxResendAge,
	})

	return s
}

func (s *system) openAccount(t *testing.T, advertiserID string, balance int64) {
	t.Helper()
	if _, err := s.balance.OpenAccount(context.Background(), advertiserID, balance); err != nil {
		t.Fatalf("open account %s: %v", advertiserID, err)
	}
}

func (s *system) balanceOf(t *testing.T, advertiserID string) int64 {
	t.Helper()
	account, err := s.balance.GetAccount(context.Background(), advertiserID)
	if err != nil {
		t.Fatalf("get account %s: %v", advertiserID, err)
	}
	return account.Balance
}

func (s *system) transaction(t *testing.T, id string) *domain.Transaction {
	t.Helper()
	transaction, err := s.ledger.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find transaction %s: %v", id, err)
	}
	return transaction
}

func charge(dailyMetricsID, advertiserID string, amount int64) usecase.BillInput {
	return usecase.BillInput{
		DailyMetricsID: dailyMetricsID,
		AdvertiserID:   advertiserID,
		Amount:         amount,
		Kind:           domain.TransactionKindCharge,
	}
}

func deduct(dailyMetricsID, advertiserID string, amount int64) usecase.BillInput {
	in := charge(dailyMetricsID, advertiserID, amount)
	in.Kind = domain.TransactionKindDeduct
	return in
}

// waitPastGrace lets the short grace interval used in tests elapse.
func waitPastGrace() {
	time.Sleep(5 * time.Millisecond)
}
