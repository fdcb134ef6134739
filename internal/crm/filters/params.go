// Package filters turns request query parameters into typed filter and
// listing options. Parsing is independent from the query layer: the db
// package applies the parsed values as GORM scopes.
package filters

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	e "github.com/gartstein/crm/internal/crm/errors"
)

const (
	msgNumber = "Enter a number."
	msgTime   = "Enter a valid date/time."
)

// timeLayouts are tried in order by ParseTime.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses s using the accepted timestamp layouts. Values without a
// zone are taken as UTC. The result is always in UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// IntRange narrows an integer value. Every bound is optional and all present
// bounds must hold at once.
type IntRange struct {
	Exact *int64
	Min   *int64
	Max   *int64
}

// Empty reports whether the range imposes no constraint.
func (r IntRange) Empty() bool {
	return r.Exact == nil && r.Min == nil && r.Max == nil
}

// Contains reports whether v satisfies every present bound.
func (r IntRange) Contains(v int64) bool {
	if r.Exact != nil && v != *r.Exact {
		return false
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// TimeRange narrows a timestamp value. Bounds are inclusive.
type TimeRange struct {
	Exact *time.Time
	From  *time.Time
	To    *time.Time
}

// Empty reports whether the range imposes no constraint.
func (r TimeRange) Empty() bool {
	return r.Exact == nil && r.From == nil && r.To == nil
}

// parser reads typed values from query parameters and collects every
// failure, so one response can name all bad parameters.
type parser struct {
	values url.Values
	errs   e.ValidationError
}

func newParser(values url.Values) *parser {
	return &parser{values: values}
}

// raw returns the trimmed value of name, or "" when absent or blank.
func (p *parser) raw(name string) string {
	return strings.TrimSpace(p.values.Get(name))
}

func (p *parser) str(name string) *string {
	v := p.raw(name)
	if v == "" {
		return nil
	}
	return &v
}

func (p *parser) int(name string) *int64 {
	v := p.raw(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// Accept integral decimals such as "30.0".
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int64(f)) {
			p.errs.Add(name, msgNumber)
			return nil
		}
		n = int64(f)
	}
	return &n
}

func (p *parser) time(name string) *time.Time {
	v := p.raw(name)
	if v == "" {
		return nil
	}
	t, err := ParseTime(v)
	if err != nil {
		p.errs.Add(name, msgTime)
		return nil
	}
	return &t
}

func (p *parser) intRange(exact, min, max string) IntRange {
	return IntRange{Exact: p.int(exact), Min: p.int(min), Max: p.int(max)}
}

func (p *parser) timeRange(exact, from, to string) TimeRange {
	return TimeRange{Exact: p.time(exact), From: p.time(from), To: p.time(to)}
}

func (p *parser) err() error {
	return p.errs.OrNil()
}
