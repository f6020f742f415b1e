package shared

import (
	"strconv"
	"strings"
)

// Query accumulates WHERE conditions with positional arguments. Conditions use
// "?" which Where rewrites to the next $n placeholder.
type Query struct {
	conds []string
	args  []any
}

// NewQuery starts a query scoped to businessID.
func NewQuery(businessID int64) *Query {
	q := &Query{}
	q.Where("business_id = ?", businessID)
	return q
}

// Where appends cond. Every "?" in cond consumes one argument.
func (q *Query) Where(cond string, args ...any) *Query {
	var b strings.Builder
	i := 0
	for _, r := range cond {
		if r == '?' && i < len(args) {
			q.args = append(q.args, args[i])
			b.WriteString("$" + strconv.Itoa(len(q.args)))
			i++
			continue
		}
		b.WriteRune(r)
	}
	q.conds = append(q.conds, b.String())
	return q
}

// Search adds an ILIKE match of term against columns when term is non-empty.
func (q *Query) Search(term string, columns ...string) *Query {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	q.args = append(q.args, "%"+term+"%")
	placeholder := "$" + strconv.Itoa(len(q.args))
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + placeholder
	}
	q.conds = append(q.conds, "("+strings.Join(parts, " OR ")+")")
	return q
}

// Clause returns " WHERE ..." or an empty string.
func (q *Query) Clause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// Args returns the accumulated arguments.
func (q *Query) Args() []any {
	return q.args
}

// Paginate appends LIMIT and OFFSET placeholders and returns the clause with the full argument list.
func (q *Query) Paginate(limit, offset int) (string, []any) {
	args := append(append([]any(nil), q.args...), limit, offset)
	n := len(q.args)
	return " LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2), args
}

// OrderBy returns the whitelisted column for sortBy, or fallback.
func OrderBy(sortBy string, allowed map[string]string, fallback string) string {
	if col, ok := allowed[sortBy]; ok {
		return col
	}
	return fallback
}
