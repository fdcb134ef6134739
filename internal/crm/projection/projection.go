// Package projection renders entities into the JSON shapes served by the
// API. Every entity has a list and a detail projection, picked through an
// explicit View table.
package projection

import (
	"fmt"
	"strings"
	"time"

	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
)

// View selects the shape an entity is rendered in.
type View int

const (
	ViewList View = iota
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// DefaultTimeLayout renders timestamps as "2006-01-02 15:04:05".
const DefaultTimeLayout = time.DateTime

// Linker builds absolute resource links and formats timestamps.
type Linker struct {
	BaseURL    string
	TimeLayout string
}

// NewLinker trims the trailing slash of baseURL and falls back to
// DefaultTimeLayout.
func NewLinker(baseURL, timeLayout string) Linker {
	if timeLayout == "" {
		timeLayout = DefaultTimeLayout
	}
	return Linker{BaseURL: strings.TrimRight(baseURL, "/"), TimeLayout: timeLayout}
}

// Link returns the detail URL of the entity id served under resource.
func (l Linker) Link(resource models.Resource, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", l.BaseURL, resource, id)
}

// Time formats t in UTC with the configured layout.
func (l Linker) Time(t time.Time) string {
	layout := l.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return t.UTC().Format(layout)
}

// Func renders one entity.
type Func[T any] func(l Linker, entity *T) interface{}

// Table maps each View to the projection of one entity type.
type Table[T any] map[View]Func[T]

// Resolve returns the projection for v. It panics on a view missing from the
// table, which is a programming error.
func (t Table[T]) Resolve(v View) Func[T] {
	fn, ok := t[v]
	if !ok {
		panic(fmt.Sprintf("projection: no %s view registered", v))
	}
	return fn
}

// Many renders entities with fn.
func Many[T any](fn Func[T], l Linker, entities []T) []interface{} {
	out := make([]interface{}, len(entities))
	for i := range entities {
		out[i] = fn(l, &entities[i])
	}
	return out
}

// Page is the body of a list response.
type Page struct {
	Count   int64         `json:"count"`
	Results []interface{} `json:"results"`
}
