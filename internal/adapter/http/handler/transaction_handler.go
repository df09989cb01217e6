package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/adbilling/internal/adapter/http/dto"
	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
)

// LedgerService defines the ledger reads needed by TransactionHandler.
type LedgerService interface {
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]*domain.Transaction, error)
}

// ReconcileService defines the reconciliation actions exposed over HTTP.
type ReconcileService interface {
	Resolve(ctx context.Context, id string) (*usecase.ResolveResult, error)
	Sweep(ctx context.Context) (*usecase.SweepReport, error)
}

// TransactionHandler serves the billing ledger and reconciliation actions.
type TransactionHandler struct {
	ledger    LedgerService
	reconcile ReconcileService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledger LedgerService, reconcile ReconcileService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, reconcile: reconcile}
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.ledger.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// ListByAdvertiser lists an advertiser's transactions.
func (h *TransactionHandler) ListByAdvertiser(w http.ResponseWriter, r *http.Request) {
	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))

	transactions, err := h.ledger.ListByAdvertiser(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(transactions),
		Limit:        limit,
		Offset:       offset,
	})
}

// Reconcile resolves one transaction now instead of waiting for the sweep.
func (h *TransactionHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	res, err := h.reconcile.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ResolveFromResult(res))
}

// Sweep runs one reconciliation sweep.
func (h *TransactionHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcile.Sweep(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sweep failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SweepFromReport(report))
}
