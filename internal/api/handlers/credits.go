package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mahek9015/community-learning-hub/internal/api/httpx"
	"github.com/mahek9015/community-learning-hub/internal/middleware"
	"github.com/mahek9015/community-learning-hub/internal/services"
)

type CreditsHandler struct {
	credits *services.CreditService
}

func NewCreditsHandler(cs *services.CreditService) *CreditsHandler {
	return &CreditsHandler{credits: cs}
}

// pageParams reads ?page= and ?page_size=; the services clamp whatever
// arrives here.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, size
}

func (h *CreditsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	bal, err := h.credits.Balance(r.Context(), uid)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"credit_points": bal})
}

func (h *CreditsHandler) History(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	page, size := pageParams(r)
	p, err := h.credits.History(r.Context(), uid, page, size)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *CreditsHandler) EarnView(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	var req struct {
		ContentID string `json:"content_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ContentID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "content_id required", nil)
		return
	}
	t, err := h.credits.EarnForView(r.Context(), uid, req.ContentID)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	bal, _ := h.credits.Balance(r.Context(), uid)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":       "points earned successfully",
		"earned_points": t.Amount,
		"total_points":  bal,
		"transaction":   t,
	})
}
