// Package store provides the generic in-memory collection behind every
// resource page: an ordered list of server-confirmed records plus the request
// status flags the UI renders. One instance per entity; the owning page model
// is its single writer.
//
// Every mutation is pessimistic: the collection changes only after the server
// confirms, so a failed write never leaves phantom state behind. Different
// operation kinds (fetch, create, update, delete) are independent and may be
// in flight simultaneously.
package store

import "tourtra/internal/api"

// Record is any entity held in a Store. IDs are opaque server-assigned
// identifiers, unique within a collection, stable for the record's lifetime.
type Record interface {
	RecordID() string
}

// Insert fixes where a newly created record lands in the collection. The
// convention is per entity and must stay consistent.
type Insert int

const (
	Prepend Insert = iota
	Append
)

// Op identifies one of the four request kinds tracked independently.
type Op int

const (
	OpFetch Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

// Status holds the request flags for one collection. Err and Success are
// shared across operation kinds: the most recent outcome wins, and both are
// cleared by ResetStatus when a form opens.
type Status struct {
	Loading  bool
	Creating bool
	Updating bool
	Deleting bool
	Err      *api.Error
	Success  bool
}

// Pending reports whether any operation is in flight.
func (s Status) Pending() bool {
	return s.Loading || s.Creating || s.Updating || s.Deleting
}

// Store is the state container for one resource collection. It is a plain
// synchronous value: all async work happens in the page's tea.Cmds, whose
// result messages are applied here from the single Update goroutine.
type Store[T Record] struct {
	insert  Insert
	records []T
	status  Status
	fetched bool
}

// New creates an empty store with the given insertion convention.
func New[T Record](insert Insert) *Store[T] {
	return &Store[T]{insert: insert}
}

// Records returns the collection. Callers must treat it as read-only.
func (s *Store[T]) Records() []T { return s.records }

// Len returns the collection size.
func (s *Store[T]) Len() int { return len(s.records) }

// Status returns the current request flags.
func (s *Store[T]) Status() Status { return s.status }

// Fetched reports whether at least one fetch has completed, so pages can
// distinguish "empty" from "never loaded".
func (s *Store[T]) Fetched() bool { return s.fetched }

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	for _, r := range s.records {
		if r.RecordID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Begin marks op as pending and clears the previous outcome for that kind.
func (s *Store[T]) Begin(op Op) {
	switch op {
	case OpFetch:
		s.status.Loading = true
	case OpCreate:
		s.status.Creating = true
	case OpUpdate:
		s.status.Updating = true
	case OpDelete:
		s.status.Deleting = true
	}
	s.status.Err = nil
	s.status.Success = false
}

// Fail records the error for op and leaves the collection untouched. Stale
// data stays available after a failed fetch.
func (s *Store[T]) Fail(op Op, err *api.Error) {
	s.clearPending(op)
	s.status.Err = err
	s.status.Success = false
}

func (s *Store[T]) clearPending(op Op) {
	switch op {
	case OpFetch:
		s.status.Loading = false
	case OpCreate:
		s.status.Creating = false
	case OpUpdate:
		s.status.Updating = false
	case OpDelete:
		s.status.Deleting = false
	}
}

// ApplyFetched replaces the whole collection with the server's list.
func (s *Store[T]) ApplyFetched(records []T) {
	s.clearPending(OpFetch)
	s.records = records
	s.fetched = true
	s.status.Err = nil
}

// ApplyCreated inserts the server-confirmed record per the entity's
// convention and raises the transient Success flag.
func (s *Store[T]) ApplyCreated(rec T) {
	s.clearPending(OpCreate)
	if s.insert == Prepend {
		s.records = append([]T{rec}, s.records...)
	} else {
		s.records = append(s.records, rec)
	}
	s.status.Err = nil
	s.status.Success = true
}

// ApplyUpdated replaces the record with a matching id in place. A response
// for an id absent from the collection is silently discarded, never inserted.
func (s *Store[T]) ApplyUpdated(rec T) {
	s.clearPending(OpUpdate)
	s.status.Err = nil
	s.status.Success = true
	for i, existing := range s.records {
		if existing.RecordID() == rec.RecordID() {
			s.records[i] = rec
			return
		}
	}
}

// ApplyRemoved filters the confirmed id out of the collection. Until this is
// called the record stays visible; deletion is never optimistic.
func (s *Store[T]) ApplyRemoved(id string) {
	s.clearPending(OpDelete)
	kept := s.records[:0]
	for _, r := range s.records {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	s.records = kept
	s.status.Err = nil
	s.status.Success = true
}

// ResetStatus clears Err and Success without touching the collection. Called
// every time a form modal opens so no stale outcome leaks into it.
func (s *Store[T]) ResetStatus() {
	s.status.Err = nil
	s.status.Success = false
}

// Clear drops everything, returning the store to its pre-fetch state. Used on
// logout so no record from the previous session stays visible.
func (s *Store[T]) Clear() {
	s.records = nil
	s.fetched = false
	s.status = Status{}
}
