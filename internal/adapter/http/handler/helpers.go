package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/adbilling/internal/adapter/http/dto"
	"github.com/iho/adbilling/internal/domain"
)

const maxBodyBytes = 1 << 16

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response carrying a stable code for err.
func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := dto.ErrorResponse{Error: message}
	if err != nil {
		resp.Code = errorCode(err)
		resp.Message = err.Error()
	}
	writeJSON(w, status, resp)
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrMutationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidDailyMetricsID),
		errors.Is(err, domain.ErrInvalidAdvertiserID),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidIdempotencyKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrAccountNotFound, "account_not_found"},
	{domain.ErrAccountAlreadyExists, "account_already_exists"},
	{domain.ErrTransactionNotFound, "transaction_not_found"},
	{domain.ErrMutationNotFound, "mutation_not_found"},
	{domain.ErrInvalidAmount, "invalid_amount"},
	{domain.ErrAmountTooLarge, "amount_too_large"},
	{domain.ErrInvalidDailyMetricsID, "invalid_daily_metrics_id"},
	{domain.ErrInvalidAdvertiserID, "invalid_advertiser_id"},
	{domain.ErrInvalidKind, "invalid_kind"},
	{domain.ErrInvalidIdempotencyKey, "invalid_idempotency_key"},
}

// errorCode returns the machine readable code of err.
func errorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
