package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
)

// ErrInjected is returned by FaultyGateway when it simulates a transport failure.
var ErrInjected = errors.New("injected transport failure")

// FaultyGateway wraps a real BalanceGateway and injects the failures a
// network boundary can produce.
type FaultyGateway struct {
	Inner usecase.BalanceGateway

	mu sync.Mutex

	// FailBeforeSend makes the next N Apply calls fail without reaching Inner.
	FailBeforeSend int
	// DropResponses makes the next N Apply calls reach Inner and then fail, as
	// if the response was lost.
	DropResponses int
	// FailLookups makes the next N Lookup calls fail.
	FailLookups int

	ApplyFunc  func(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error)
	LookupFunc func(ctx context.Context, advertiserID, idempotencyKey string) (*domain.MutationResult, error)

	applyCalls  int
	lookupCalls int
}

// NewFaultyGateway creates a FaultyGateway around inner.
func NewFaultyGateway(inner usecase.BalanceGateway) *FaultyGateway {
	return &FaultyGateway{Inner: inner}
}

func (g *FaultyGateway) Apply(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error) {
	g.mu.Lock()
	g.applyCalls++
	failBefore := g.FailBeforeSend > 0
	if failBefore {
		g.FailBeforeSend--
	}
	drop := !failBefore && g.DropResponses > 0
	if drop {
		g.DropResponses--
	}
	applyFunc := g.ApplyFunc
	g.mu.Unlock()

	if applyFunc != nil {
		return applyFunc(ctx, req)
	}
	if failBefore {
		return nil, ErrInjected
	}

	res, err := g.Inner.Apply(ctx, req)
	if drop {
		return nil, ErrInjected
	}
	return res, err
}

func (g *FaultyGateway) Lookup(ctx context.Context, advertiserID, idempotencyKey string) (*domain.MutationResult, error) {
	g.mu.Lock()
	g.lookupCalls++
	fail := g.FailLookups > 0
	if fail {
		g.FailLookups--
	}
	lookupFunc := g.LookupFunc
	g.mu.Unlock()

	if lookupFunc != nil {
		return lookupFunc(ctx, advertiserID, idempotencyKey)
	}
	if fail {
		return nil, ErrInjected
	}
	return g.Inner.Lookup(ctx, advertiserID, idempotencyKey)
}

// ApplyCalls returns how many times Apply was called.
func (g *FaultyGateway) ApplyCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.applyCalls
}

// LookupCalls returns how many times Lookup was called.
func (g *FaultyGateway) LookupCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lookupCalls
}

// StubOracle is a func-backed ExistenceOracle.
type StubOracle struct {
	ExistsFunc func(ctx context.Context, advertiserID string) (bool, error)
}

func (o *StubOracle) Exists(ctx context.Context, advertiserID string) (bool, error) {
	if o.ExistsFunc != nil {
		return o.ExistsFunc(ctx, advertiserID)
	}
	return true, nil
}
