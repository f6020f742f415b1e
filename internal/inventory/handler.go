package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockbook/stockbook/internal/platform/httpx"
	"github.com/stockbook/stockbook/internal/shared"
)

// Handler exposes inventory actions over HTTP.
type Handler struct {
	logger  *slog.Logger
	actions Actions
	now     func() time.Time
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, actions Actions) *Handler {
	return &Handler{logger: logger, actions: actions, now: time.Now}
}

// MountRoutes registers inventory routes. Authorization happens inside each action.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/transactions", h.handleRecord)
	r.Get("/transactions", h.handleList)
	r.Get("/stats", h.handleStats)
	r.Get("/stats/today", h.handleTodayStats)
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Result(w, shared.Fail[Recorded](err))
		return
	}
	httpx.Result(w, h.actions.Record(r.Context(), req))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := ListInput{
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
	}
	for _, raw := range q["type"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(strings.ToUpper(t)); t != "" {
				in.Types = append(in.Types, TransactionType(t))
			}
		}
	}
	var err error
	if in.ProductID, err = parseInt64(q.Get("product_id")); err != nil {
		httpx.Result(w, shared.Fail[shared.Paged[Transaction]](shared.ErrMissingInput))
		return
	}
	if in.From, err = parseTime(q.Get("from")); err != nil {
		httpx.Result(w, shared.Fail[shared.Paged[Transaction]](shared.ErrMissingInput))
		return
	}
	if in.To, err = parseTime(q.Get("to")); err != nil {
		httpx.Result(w, shared.Fail[shared.Paged[Transaction]](shared.ErrMissingInput))
		return
	}
	in.Limit, _ = strconv.Atoi(q.Get("limit"))
	in.Offset, _ = strconv.Atoi(q.Get("offset"))
	httpx.Result(w, h.actions.List(r.Context(), in))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	from, errFrom := parseTime(r.URL.Query().Get("from"))
	to, errTo := parseTime(r.URL.Query().Get("to"))
	if errFrom != nil || errTo != nil {
		httpx.Result(w, shared.Fail[Stats](shared.ErrMissingInput))
		return
	}
	httpx.Result(w, h.actions.Stats(r.Context(), StatsInput{From: from, To: to}))
}

func (h *Handler) handleTodayStats(w http.ResponseWriter, r *http.Request) {
	httpx.Result(w, h.actions.TodayStats(r.Context(), h.now()))
}

func parseInt64(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}
