package suppliers

import (
	"log/slog"
	"net/http"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	"github.com/stockbook/stockbook/internal/platform/httpx"
	"github.com/stockbook/stockbook/internal/rbac"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

type listResponse struct {
	Suppliers []Supplier `json:"suppliers"`
	Total     int        `json:"total"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, listResponse{}, err)
		return
	}
	list, total, err := h.service.List(r.Context(), actor, shared.FiltersFromRequest(r))
	if err != nil {
		h.logger.Error("list suppliers failed", slog.Any("error", err))
	}
	httpx.REST(w, listResponse{Suppliers: list, Total: total}, err)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Supplier{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Supplier{}, err)
		return
	}
	supplier, err := h.service.Get(r.Context(), actor, id)
	httpx.REST(w, supplier, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Supplier{}, err)
		return
	}
	var form SupplierForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.REST(w, Supplier{}, err)
		return
	}
	created, err := h.service.Create(r.Context(), actor, form)
	if err != nil {
		h.logger.Warn("create supplier failed", slog.Any("error", err))
	}
	httpx.REST(w, created, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Supplier{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Supplier{}, err)
		return
	}
	var form SupplierForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.REST(w, Supplier{}, err)
		return
	}
	updated, err := h.service.Update(r.Context(), actor, id, form)
	if err != nil {
		h.logger.Warn("update supplier failed", slog.Any("error", err), slog.Int64("id", id))
	}
	httpx.REST(w, updated, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := shared.Actor(r)
	if err != nil {
		httpx.REST(w, Supplier{}, err)
		return
	}
	id, err := shared.ParseID(r)
	if err != nil {
		httpx.REST(w, Supplier{}, err)
		return
	}
	deleted, err := h.service.Delete(r.Context(), actor, id)
	if err != nil {
		h.logger.Warn("delete supplier failed", slog.Any("error", err), slog.Int64("id", id))
	}
	httpx.REST(w, deleted, err)
}
