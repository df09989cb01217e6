package handler

import (
	"context"
	"net/http"

	"github.com/iho/adbilling/internal/adapter/http/dto"
	"github.com/iho/adbilling/internal/usecase"
)

// BillingService defines the behavior needed by BillingHandler.
type BillingService interface {
	Bill(ctx context.Context, input usecase.BillInput) (*usecase.BillResult, error)
}

// BillingHandler accepts billing triggers.
type BillingHandler struct {
	billingUC BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingUC BillingService) *BillingHandler {
	return &BillingHandler{billingUC: billingUC}
}

// Bill bills one advertiser-day. Repeating the request for the same
// daily_metrics_id replays the original outcome.
func (h *BillingHandler) Bill(w http.ResponseWriter, r *http.Request) {
	var req dto.BillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err)
		return
	}

	res, err := h.billingUC.Bill(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "billing failed", err)
		return
	}

	writeJSON(w, billStatus(res.Outcome), dto.BillFromResult(res))
}

// billStatus maps a billing outcome to a status code. Unresolved attempts
// are accepted: the sweep settles them later.
func billStatus(outcome string) int {
	switch outcome {
	case usecase.OutcomeSettled:
		return http.StatusOK
	case usecase.OutcomeFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusAccepted
	}
}
