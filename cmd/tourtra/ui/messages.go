package ui

import (
	"errors"

	"tourtra/internal/api"
	"tourtra/internal/store"
)

// PageMsg routes asynchronous results back to the page that dispatched them,
// whether or not that page is currently visible. A response landing on a
// background page is applied to its store harmlessly.
type PageMsg interface {
	Page() string
}

// ListLoadedMsg carries a completed fetch.
type ListLoadedMsg[T store.Record] struct {
	PageName string
	Records  []T
}

func (m ListLoadedMsg[T]) Page() string { return m.PageName }

// CreatedMsg carries a server-confirmed create.
type CreatedMsg[T store.Record] struct {
	PageName string
	Record   T
}

func (m CreatedMsg[T]) Page() string { return m.PageName }

// UpdatedMsg carries a server-confirmed update.
type UpdatedMsg[T store.Record] struct {
	PageName string
	Record   T
}

func (m UpdatedMsg[T]) Page() string { return m.PageName }

// RemovedMsg carries a server-confirmed delete.
type RemovedMsg struct {
	PageName string
	ID       string
}

func (m RemovedMsg) Page() string { return m.PageName }

// OpFailedMsg carries any failed operation.
type OpFailedMsg struct {
	PageName string
	Op       store.Op
	Err      *api.Error
}

func (m OpFailedMsg) Page() string { return m.PageName }

// CloseFormMsg closes a page's form after the success affordance has had time
// to render.
type CloseFormMsg struct{ PageName string }

func (m CloseFormMsg) Page() string { return m.PageName }

// SessionExpiredMsg bubbles up when any request hits a dead refresh
// credential; the console reacts by logging out.
type SessionExpiredMsg struct{}

// wrapErr normalizes any transport failure into the *api.Error the stores
// record. Network-level failures become flat load errors.
func wrapErr(err error) *api.Error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &api.Error{Kind: api.Flat, Message: err.Error()}
}
