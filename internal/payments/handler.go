package payments

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockbook/stockbook/internal/platform/httpx"
	"github.com/stockbook/stockbook/internal/shared"
)

// Handler exposes payment actions over HTTP.
type Handler struct {
	logger  *slog.Logger
	actions Actions
}

// NewHandler constructs the payments handler.
func NewHandler(logger *slog.Logger, actions Actions) *Handler {
	return &Handler{logger: logger, actions: actions}
}

// MountRoutes registers payment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleInitiate)
	r.Get("/", h.handleList)
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req InitiateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Result(w, shared.Fail[Payment](err))
		return
	}
	httpx.Result(w, h.actions.Initiate(r.Context(), req))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	httpx.Result(w, h.actions.List(r.Context(), shared.Page{Limit: limit, Offset: offset}))
}
