package warehouses

import (
	"log/slog"
	"net/http"

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
		r.Use(h.rbac.RequireAny(internalShared.PermWarehousesView))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
		r.Get("/{id}/stock", h.Stock)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(internalShared.PermWarehousesEdit))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

type listResponse struct {
	Warehouses []Warehouse `json:"warehouses"`
	Total      int         `json:"total"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, listResponse{}, err)
		return
	}
	list, total, err := h.service.List(r.Context(), actor, shared.FiltersFromRequest(r))
	if err != nil {
		h.logger.Error("list warehouses failed", slog.Any("error", err))
	}
	httpx.REST(w, listResponse{Warehouses: list, Total: total}, err)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Warehouse{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Warehouse{}, err)
		return
	}
	warehouse, err := h.service.Get(r.Context(), actor, id)
	httpx.REST(w, warehouse, err)
}

func (h *Handler) Stock(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, []StockLine(nil), err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, []StockLine(nil), err)
		return
	}
	lines, err := h.service.Stock(r.Context(), actor, id)
	httpx.REST(w, lines, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Warehouse{}, err)
		return
	}
	var form WarehouseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.REST(w, Warehouse{}, err)
		return
	}
	created, err := h.service.Create(r.Context(), actor, form)
	if err != nil {
		h.logger.Warn("create warehouse failed", slog.Any("error", err))
	}
	httpx.REST(w, created, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Warehouse{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Warehouse{}, err)
		return
	}
	var form WarehouseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.REST(w, Warehouse{}, err)
		return
	}
	updated, err := h.service.Update(r.Context(), actor, id, form)
	if err != nil {
		h.logger.Warn("update warehouse failed", slog.Any("error", err), slog.Int64("id", id))
	}
	httpx.REST(w, updated, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Warehouse{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Warehouse{}, err)
		return
	}
	deleted, err := h.service.Delete(r.Context(), actor, id)
	if err != nil {
		h.logger.Warn("delete warehouse failed", slog.Any("error", err), slog.Int64("id", id))
	}
	httpx.REST(w, deleted, err)
}
