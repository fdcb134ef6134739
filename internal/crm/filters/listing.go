package filters

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gartstein/crm/internal/crm/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Order is one resolved ordering field.
type Order struct {
	Field  string
	Column string
	Desc   bool
}

// ListOptions holds search, ordering and paging of a list request.
type ListOptions struct {
	Search   []string
	Ordering []Order
	// Page and PageSize are zero when the whole result set is requested.
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip.
func (o ListOptions) Offset() int {
	if o.Page <= 1 || o.PageSize == 0 {
		return 0
	}
	return (o.Page - 1) * o.PageSize
}

// ParseListOptions reads search, ordering, page and page_size against the
// entity schema. Ordering falls back to the schema default.
func ParseListOptions(values url.Values, schema models.Schema) (ListOptions, error) {
	p := newParser(values)
	var opts ListOptions

	opts.Search = splitTerms(p.raw("search"))

	fields := splitList(p.raw("ordering"))
	if len(fields) == 0 {
		fields = schema.DefaultOrdering
		opts.Ordering = resolveOrdering(fields, schema, nil)
	} else {
		opts.Ordering = resolveOrdering(fields, schema, p)
	}

	if v := p.raw("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			p.errs.Add("page_size", "A valid positive integer is required.")
		} else {
			opts.PageSize = min(n, MaxPageSize)
		}
	}
	if v := p.raw("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			p.errs.Add("page", "Invalid page.")
		} else {
			opts.Page = n
			if opts.PageSize == 0 {
				opts.PageSize = DefaultPageSize
			}
		}
	}
	if opts.PageSize > 0 && opts.Page == 0 {
		opts.Page = 1
	}

	return opts, p.err()
}

func resolveOrdering(fields []string, schema models.Schema, p *parser) []Order {
	orders := make([]Order, 0, len(fields))
	for _, f := range fields {
		desc := strings.HasPrefix(f, "-")
		name := strings.TrimPrefix(f, "-")
		column, ok := schema.Ordering[name]
		if !ok {
			if p != nil {
				p.errs.Add("ordering", fmt.Sprintf("Cannot order by %q.", name))
			}
			continue
		}
		orders = append(orders, Order{Field: name, Column: column, Desc: desc})
	}
	return orders
}

// splitTerms splits a search string on whitespace and commas.
func splitTerms(s string) []string {
	return strings.Fields(strings.ReplaceAll(strings.ReplaceAll(s, "\x00", ""), ",", " "))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
