package shared

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page describes limit/offset pagination.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Paged wraps a page of rows with the unpaginated total.
type Paged[T any] struct {
	Rows  []T  `json:"rows"`
	Total int  `json:"total"`
	Page  Page `json:"page"`
}
