package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/adbilling/internal/adapter/http/dto"
	"github.com/iho/adbilling/internal/domain"
)

// BalanceService defines the advertiser-side behavior needed by AccountHandler.
type BalanceService interface {
	OpenAccount(ctx context.Context, advertiserID string, initialBalance int64) (*domain.BalanceAccount, error)
	GetAccount(ctx context.Context, advertiserID string) (*domain.BalanceAccount, error)
	Apply(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error)
	GetMutation(ctx context.Context, advertiserID, idempotencyKey string) (*domain.BalanceMutation, error)
	Exists(ctx context.Context, advertiserID string) (bool, error)
}

// AccountHandler serves the advertiser-side balance API.
type AccountHandler struct {
	balanceUC BalanceService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(balanceUC BalanceService) *AccountHandler {
	return &AccountHandler{balanceUC: balanceUC}
}

// Open opens a balance account.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	initial, err := req.InitialMinorUnits()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid initial balance", err)
		return
	}

	account, err := h.balanceUC.OpenAccount(r.Context(), req.AdvertiserID, initial)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by advertiser ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.balanceUC.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Charge adds funds to an account.
func (h *AccountHandler) Charge(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, domain.TransactionKindCharge)
}

// Deduct removes funds from an account.
func (h *AccountHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, domain.TransactionKindDeduct)
}

func (h *AccountHandler) mutate(w http.ResponseWriter, r *http.Request, kind domain.TransactionKind) {
	var req dto.MutationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	mutation, err := req.ToDomain(chi.URLParam(r, "id"), kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err)
		return
	}

	res, err := h.balanceUC.Apply(r.Context(), mutation)
	if err != nil {
		writeError(w, mapDomainError(err), "balance mutation failed", err)
		return
	}

	status := http.StatusOK
	if res.Outcome == domain.MutationRejected {
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, dto.MutationFromResult(res))
}

// GetMutation reports the recorded mutation for an idempotency key.
func (h *AccountHandler) GetMutation(w http.ResponseWriter, r *http.Request) {
	mutation, err := h.balanceUC.GetMutation(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get mutation", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MutationRecordFromDomain(mutation))
}

// Exists answers whether an advertiser exists.
func (h *AccountHandler) Exists(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	exists, err := h.balanceUC.Exists(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "existence check failed", err)
		return
	}

	status := http.StatusOK
	if !exists {
		status = http.StatusNotFound
	}

	writeJSON(w, status, dto.AdvertiserResponse{AdvertiserID: id, Exists: exists})
}
