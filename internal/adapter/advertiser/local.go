// Package advertiser provides the billing side's clients for the advertiser
// service: the balance gateway and the existence oracle.
package advertiser

import (
	"context"
	"errors"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
)

// BalanceOwner is the in-process advertiser-side API used by LocalGateway.
type BalanceOwner interface {
	Apply(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error)
	Lookup(ctx context.Context, advertiserID, idempotencyKey string) (*domain.MutationResult, error)
	Exists(ctx context.Context, advertiserID string) (bool, error)
}

var (
	_ usecase.BalanceGateway  = (*LocalGateway)(nil)
	_ usecase.ExistenceOracle = (*LocalOracle)(nil)
	_ BalanceOwner            = (*usecase.BalanceUseCase)(nil)
)

// LocalGateway calls a balance owner running in the same process.
type LocalGateway struct {
	owner BalanceOwner
}

// NewLocalGateway creates a new LocalGateway.
func NewLocalGateway(owner BalanceOwner) *LocalGateway {
	return &LocalGateway{owner: owner}
}

// Apply forwards a mutation. Invalid requests are definite rejections.
func (g *LocalGateway) Apply(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error) {
	res, err := g.owner.Apply(ctx, req)
	if err != nil {
		if isValidationError(err) {
			return &domain.MutationResult{Outcome: domain.MutationRejected, Reason: err}, nil
		}
		return nil, err
	}
	return res, nil
}

// Lookup forwards an outcome query.
func (g *LocalGateway) Lookup(ctx context.Context, advertiserID, idempotencyKey string) (*domain.MutationResult, error) {
	return g.owner.Lookup(ctx, advertiserID, idempotencyKey)
}

// LocalOracle answers existence from the in-process balance owner.
type LocalOracle struct {
	owner BalanceOwner
}

// NewLocalOracle creates a new LocalOracle.
func NewLocalOracle(owner BalanceOwner) *LocalOracle {
	return &LocalOracle{owner: owner}
}

// Exists reports whether the advertiser has a balance account.
func (o *LocalOracle) Exists(ctx context.Context, advertiserID string) (bool, error) {
	return o.owner.Exists(ctx, advertiserID)
}

// StaticOracle answers existence from a fixed allow list.
type StaticOracle struct {
	known map[string]struct{}
}

// NewStaticOracle creates a StaticOracle knowing the given advertisers.
func NewStaticOracle(advertiserIDs ...string) *StaticOracle {
	known := make(map[string]struct{}, len(advertiserIDs))
	for _, id := range advertiserIDs {
		known[id] = struct{}{}
	}
	return &StaticOracle{known: known}
}

// Exists reports whether the advertiser is on the list.
func (o *StaticOracle) Exists(ctx context.Context, advertiserID string) (bool, error) {
	_, ok := o.known[advertiserID]
	return ok, nil
}

func isValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidAmount,
		domain.ErrAmountTooLarge,
		domain.ErrInvalidAdvertiserID,
		domain.ErrInvalidKind,
		domain.ErrInvalidIdempotencyKey,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
