package db

import (
	"strings"

	"github.com/gartstein/crm/internal/crm/filters"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func equals(column string, v *string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v == nil {
			return db
		}
		return db.Where(column+" = ?", *v)
	}
}

func intRange(column string, r filters.IntRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.Exact != nil {
			db = db.Where(column+" = ?", *r.Exact)
		}
		if r.Min != nil {
			db = db.Where(column+" >= ?", *r.Min)
		}
		if r.Max != nil {
			db = db.Where(column+" <= ?", *r.Max)
		}
		return db
	}
}

func timeRange(column string, r filters.TimeRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.Exact != nil {
			db = db.Where(column+" = ?", *r.Exact)
		}
		if r.From != nil {
			db = db.Where(column+" >= ?", *r.From)
		}
		if r.To != nil {
			db = db.Where(column+" <= ?", *r.To)
		}
		return db
	}
}

// likeEscaper escapes LIKE wildcards with '!', which every supported
// driver accepts as an ESCAPE character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// search requires every term to prefix-match at least one of columns,
// ignoring case.
func search(columns []string, terms []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, term := range terms {
			pattern := likeEscaper.Replace(strings.ToLower(term)) + "%"
			conds := make([]string, len(columns))
			args := make([]interface{}, len(columns))
			for i, column := range columns {
				conds[i] = "LOWER(" + column + ") LIKE ? ESCAPE '!'"
				args[i] = pattern
			}
			db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
		}
		return db
	}
}

// ordering applies the requested order followed by tiebreak, which keeps
// pages stable.
func ordering(orders []filters.Order, tiebreak string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, o := range orders {
			db = db.Order(clause.OrderByColumn{
				Column: clause.Column{Name: o.Column, Raw: true},
				Desc:   o.Desc,
			})
		}
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: tiebreak, Raw: true}})
	}
}

func paginate(opts filters.ListOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if opts.PageSize == 0 {
			return db
		}
		return db.Offset(opts.Offset()).Limit(opts.PageSize)
	}
}

// orderedBy is a preload condition sorting the preloaded rows.
func orderedBy(order string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}
