package rbac

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/stockbook/stockbook/internal/platform/httpx"
	"github.com/stockbook/stockbook/internal/shared"
)

// PermissionsHandler exposes the caller's capabilities.
type PermissionsHandler struct {
	logger  *slog.Logger
	service *Service
	rbac    Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, service *Service, rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny())
		r.Get("/me", h.me)
	})
}

type meResponse struct {
	Actor       shared.Actor `json:"actor"`
	Permissions []string     `json:"permissions"`
}

func (h *PermissionsHandler) me(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.ActorFromContext(r.Context())
	perms, err := h.service.EffectivePermissions(r.Context(), actor.Role)
	if err != nil {
		h.logger.Error("list effective permissions", slog.Any("error", err))
		httpx.Result(w, shared.Fail[meResponse](err))
		return
	}
	sort.Strings(perms)
	httpx.Result(w, shared.Ok(meResponse{Actor: actor, Permissions: perms}))
}
