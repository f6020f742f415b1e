package shared

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	internalShared "github.com/stockbook/stockbook/internal/shared"
)

// ParseID reads the {id} route parameter.
func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, internalShared.ErrMissingInput
	}
	return id, nil
}

// Actor returns the actor placed on the request by the rbac middleware.
func Actor(r *http.Request) (internalShared.Actor, error) {
	actor, ok := internalShared.ActorFromContext(r.Context())
	if !ok || actor.BusinessID <= 0 {
		return internalShared.Actor{}, internalShared.ErrUnauthorized
	}
	return actor, nil
}
