package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mahek9015/community-learning-hub/internal/api/httpx"
	"github.com/mahek9015/community-learning-hub/internal/middleware"
	"github.com/mahek9015/community-learning-hub/internal/services"
)

type AdminHandler struct {
	contents *services.ContentService
	users    *services.UserService
}

func NewAdminHandler(cs *services.ContentService, us *services.UserService) *AdminHandler {
	return &AdminHandler{contents: cs, users: us}
}

func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	p, err := h.contents.Reported(r.Context(), page, size)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req struct {
		Action string `json:"action"` // "remove" | "keep"
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	if req.Action != "remove" && req.Action != "keep" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid action", nil)
		return
	}
	if err := h.contents.HandleReport(r.Context(), uid, chi.URLParam(r, "contentID"), req.Action); err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "report handled"})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Count(r.Context())
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	contents, err := h.contents.CountAll(r.Context())
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{
		"total_users":    users,
		"total_contents": contents,
	})
}
