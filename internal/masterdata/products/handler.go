package products

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
		r.Use(h.rbac.RequireAny(internalShared.PermProductsView))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(internalShared.PermProductsEdit))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

type listResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, listResponse{}, err)
		return
	}
	products, total, err := h.service.List(r.Context(), actor, shared.FiltersFromRequest(r))
	if err != nil {
		h.logger.Error("list products failed", slog.Any("error", err))
	}
	httpx.REST(w, listResponse{Products: products, Total: total}, err)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Product{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Product{}, err)
		return
	}
	product, err := h.service.Get(r.Context(), actor, id)
	httpx.REST(w, product, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Product{}, err)
		return
	}
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.REST(w, Product{}, err)
		return
	}
	created, err := h.service.Create(r.Context(), actor, form)
	if err != nil {
		h.logger.Warn("create product failed", slog.Any("error", err))
	}
	httpx.REST(w, created, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Product{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Product{}, err)
		return
	}
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.REST(w, Product{}, err)
		return
	}
	updated, err := h.service.Update(r.Context(), actor, id, form)
	if err != nil {
		h.logger.Warn("update product failed", slog.Any("error", err), slog.Int64("id", id))
	}
	httpx.REST(w, updated, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Product{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Product{}, err)
		return
	}
	deleted, err := h.service.Delete(r.Context(), actor, id)
	if err != nil {
		h.logger.Warn("delete product failed", slog.Any("error", err), slog.Int64("id", id))
	}
	httpx.REST(w, deleted, err)
}
