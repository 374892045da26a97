// Package query translates list request parameters into SQL filter, search,
// ordering and pagination clauses using statically declared per-entity specs.
package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"luxe-backoffice/internal/model"
)

// Pagination defaults.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Kind is the type of an exact-match filter value.
type Kind int

// Filter kinds
const (
	String Kind = iota
	Int
	Bool
)

// Filter declares an exact-match query parameter.
type Filter struct {
	Param  string
	Column string
	Kind   Kind
	// Allowed restricts string values when non-empty.
	Allowed []string
}

// Spec declares what a list endpoint may filter, search and order by.
type Spec struct {
	Filters []Filter
	// Search holds SQL expressions matched with ILIKE, OR-combined.
	Search []string
	// Ordering maps an ordering parameter to a SQL column.
	Ordering map[string]string
	// DefaultOrdering uses the same syntax as the ordering parameter.
	DefaultOrdering string
	// TieBreak is appended to every ORDER BY for deterministic pages.
	TieBreak string
}

// Query is a resolved list request.
type Query struct {
	conds   []string
	args    []interface{}
	orderBy string
	Page    int
	Limit   int
}

// Parse resolves values against the declared filters. Unknown parameters are ignored;
// malformed filter values and unknown ordering fields are validation errors.
func (s Spec) Parse(values url.Values) (*Query, error) {
	q := &Query{Page: 1, Limit: DefaultLimit}
	fields := map[string]string{}

	if v := values.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			fields["page"] = "must be a positive integer"
		} else {
			q.Page = page
		}
	}

	if v := values.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			fields["limit"] = "must be a positive integer"
		} else {
			q.Limit = min(limit, MaxLimit)
		}
	}

	if _, bad := fields["page"]; !bad && q.Page-1 > math.MaxInt32/q.Limit {
		fields["page"] = "page is out of range"
	}

	for _, f := range s.Filters {
		raw := values.Get(f.Param)
		if raw == "" {
			continue
		}
		value, err := f.parse(raw)
		if err != nil {
			fields[f.Param] = err.Error()
			continue
		}
		q.Where(f.Column+" = ?", value)
	}

	if term := strings.TrimSpace(values.Get("search")); term != "" && len(s.Search) > 0 {
		q.Search(s.Search, term)
	}

	ordering := values.Get("ordering")
	if ordering == "" {
		ordering = s.DefaultOrdering
	}
	orderBy, err := s.orderClause(ordering)
	if err != nil {
		fields["ordering"] = err.Error()
	}
	q.orderBy = orderBy

	if len(fields) > 0 {
		return nil, &model.DomainError{
			Code:    model.ErrCodeInvalidQuery,
			Message: "Invalid query parameters",
			Fields:  fields,
		}
	}

	return q, nil
}

func (f Filter) parse(raw string) (interface{}, error) {
	switch f.Kind {
	case Int:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("must be an integer")
		}
		return n, nil
	case Bool:
		switch strings.ToLower(raw) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("must be true or false")
	default:
		if len(f.Allowed) > 0 {
			for _, a := range f.Allowed {
				if a == raw {
					return raw, nil
				}
			}
			return nil, fmt.Errorf("must be one of: %s", strings.Join(f.Allowed, ", "))
		}
		return raw, nil
	}
}

func (s Spec) orderClause(ordering string) (string, error) {
	var parts []string
	for _, field := range strings.Split(ordering, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		col, ok := s.Ordering[field]
		if !ok {
			return "", fmt.Errorf("cannot order by %q", field)
		}
		parts = append(parts, col+" "+dir)
	}
	if s.TieBreak != "" {
		parts = append(parts, s.TieBreak)
	}
	return strings.Join(parts, ", "), nil
}

// Where adds a condition. Each '?' in cond is replaced by the next positional placeholder.
func (q *Query) Where(cond string, args ...interface{}) {
	var b strings.Builder
	i := 0
	for _, r := range cond {
		if r == '?' && i < len(args) {
			q.args = append(q.args, args[i])
			fmt.Fprintf(&b, "$%d", len(q.args))
			i++
			continue
		}
		b.WriteRune(r)
	}
	q.conds = append(q.conds, b.String())
}

// Search adds an OR-combined case-insensitive substring match over exprs.
func (q *Query) Search(exprs []string, term string) {
	q.args = append(q.args, "%"+escapeLike(term)+"%")
	placeholder := fmt.Sprintf("$%d", len(q.args))
	ors := make([]string, len(exprs))
	for i, e := range exprs {
		ors[i] = e + " ILIKE " + placeholder
	}
	q.conds = append(q.conds, "("+strings.Join(ors, " OR ")+")")
}

// WhereClause renders the conditions, or an empty string when there are none.
func (q *Query) WhereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// OrderClause renders the ORDER BY clause.
func (q *Query) OrderClause() string {
	if q.orderBy == "" {
		return ""
	}
	return " ORDER BY " + q.orderBy
}

// Args returns the positional arguments for WhereClause.
func (q *Query) Args() []interface{} {
	return q.args
}

// PageClause renders LIMIT and OFFSET placeholders following the filter arguments
// and returns the full argument list.
func (q *Query) PageClause() (string, []interface{}) {
	n := len(q.args)
	args := append(append([]interface{}{}, q.args...), q.Limit, q.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}

// Offset is the row offset of the requested page.
func (q *Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page describes a page of results.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPage builds page metadata for total matching rows.
func (q *Query) NewPage(total int) Page {
	pages := 0
	if total > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return Page{Page: q.Page, Limit: q.Limit, TotalItems: total, TotalPages: pages}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
