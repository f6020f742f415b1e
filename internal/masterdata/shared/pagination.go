package shared

import (
	"net/http"
	"strconv"

	internalShared "github.com/stockbook/stockbook/internal/shared"
)

// Sort directions accepted in the dir query parameter.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilters represents standard list filters. BusinessID is always taken
// from the actor, never from the request.
type ListFilters struct {
	BusinessID int64
	Search     string
	SortBy     string
	SortDir    string
	Limit      int
	Offset     int
}

// Page returns the normalized limit/offset pair.
func (f ListFilters) Page() internalShared.Page {
	return internalShared.Page{Limit: f.Limit, Offset: f.Offset}.Normalize()
}

// Direction returns the SQL keyword for SortDir, defaulting to ascending.
func (f ListFilters) Direction() string {
	if f.SortDir == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// FiltersFromRequest reads search, sort, dir, limit and offset query parameters.
func FiltersFromRequest(r *http.Request) ListFilters {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return ListFilters{
		Search:  q.Get("search"),
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
		Limit:   limit,
		Offset:  offset,
	}
}
