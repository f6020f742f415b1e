package schedules

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	"github.com/stockbook/stockbook/internal/platform/httpx"
	"github.com/stockbook/stockbook/internal/rbac"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(internalShared.PermSchedulesView))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(internalShared.PermSchedulesEdit))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

type listResponse struct {
	Schedules []Schedule `json:"schedules"`
	Total     int        `json:"total"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, listResponse{}, err)
		return
	}
	var window Filters
	for key, dst := range map[string]*time.Time{"from": &window.From, "to": &window.To} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		if *dst, err = time.Parse(time.RFC3339, raw); err != nil {
			httpx.REST(w, listResponse{}, internalShared.ErrMissingInput)
			return
		}
	}
	list, total, err := h.service.List(r.Context(), actor, shared.FiltersFromRequest(r), window)
	if err != nil {
		h.logger.Error("list schedules failed", slog.Any("error", err))
	}
	httpx.REST(w, listResponse{Schedules: list, Total: total}, err)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Schedule{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Schedule{}, err)
		return
	}
	schedule, err := h.service.Get(r.Context(), actor, id)
	httpx.REST(w, schedule, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Schedule{}, err)
		return
	}
	var form ScheduleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.REST(w, Schedule{}, err)
		return
	}
	created, err := h.service.Create(r.Context(), actor, form)
	if err != nil {
		h.logger.Warn("create schedule failed", slog.Any("error", err))
	}
	httpx.REST(w, created, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Schedule{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Schedule{}, err)
		return
	}
	var form ScheduleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.REST(w, Schedule{}, err)
		return
	}
	updated, err := h.service.Update(r.Context(), actor, id, form)
	if err != nil {
		h.logger.Warn("update schedule failed", slog.Any("error", err), slog.Int64("id", id))
	}
	httpx.REST(w, updated, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Schedule{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Schedule{}, err)
		return
	}
	deleted, err := h.service.Delete(r.Context(), actor, id)
	if err != nil {
		h.logger.Warn("delete schedule failed", slog.Any("error", err), slog.Int64("id", id))
	}
	httpx.REST(w, deleted, err)
}
