package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mahek9015/community-learning-hub/internal/models"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteDomainError maps the credit/gating error kinds onto HTTP statuses.
// Storage failures become a 503; anything unrecognized becomes a 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, models.ErrAlreadyEarned):
		WriteError(w, http.StatusConflict, "already_earned", err.Error(), nil)
	case errors.Is(err, models.ErrDuplicateEarn):
		WriteError(w, http.StatusConflict, "duplicate_earn", err.Error(), nil)
	case errors.Is(err, models.ErrAlreadySaved):
		WriteError(w, http.StatusConflict, "already_saved", err.Error(), nil)
	case errors.Is(err, models.ErrAlreadyUnlocked):
		WriteError(w, http.StatusConflict, "already_unlocked", err.Error(), nil)
	case errors.Is(err, models.ErrContentNotPremium):
		WriteError(w, http.StatusBadRequest, "not_premium", err.Error(), nil)
	case errors.Is(err, models.ErrInsufficientBalance):
		WriteError(w, http.StatusPaymentRequired, "insufficient_points", err.Error(), nil)
	case errors.Is(err, models.ErrStorage):
		WriteError(w, http.StatusServiceUnavailable, "storage_unavailable", "temporary storage failure", nil)
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
