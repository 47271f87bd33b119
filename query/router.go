// Package query decides how a "list mysfits" request reads the table.
package query

import (
	"context"

	"github.com/jacentio/mysfits/store"
)

// Lister is the read subset of *store.Store used by Router.
type Lister interface {
	Scan(ctx context.Context) ([]store.Summary, error)
	QueryByIndex(ctx context.Context, filter store.Filter, value string) ([]store.Summary, error)
}

// Router validates list parameters and picks a full scan or an index query.
type Router struct {
	lister Lister
}

// NewRouter creates a Router reading through lister.
func NewRouter(lister Lister) *Router {
	return &Router{lister: lister}
}

// List returns mysfit summaries for the optional filter and value.
//
// With no filter every mysfit is returned and value is ignored. A filter other
// than GoodEvil or LawChaos fails with store.ErrInvalidFilter, and a valid
// filter without a value fails with store.ErrMissingValue. Neither failure
// reaches the table.
func (r *Router) List(ctx context.Context, filter, value string) ([]store.Summary, error) {
	if filter == "" {
		return r.lister.Scan(ctx)
	}

	f, err := store.ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, store.ErrMissingValue
	}
	return r.lister.QueryByIndex(ctx, f, value)
}
