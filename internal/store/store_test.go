package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tourtra/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type dept struct {
	ID   string
	Name string
}

func (d dept) RecordID() string { return d.ID }

func fetched(s *Store[dept], list ...dept) {
	s.Begin(OpFetch)
	s.ApplyFetched(list)
}

func TestCreateAppendsAfterServerConfirms(t *testing.T) {
	// Fetch two departments, create a third.
	s := New[dept](Append)
	fetched(s, dept{"1", "HR"}, dept{"2", "IT"})

	s.Begin(OpCreate)
	assert.True(t, s.Status().Creating)
	assert.Equal(t, 2, s.Len(), "no optimistic insert while pending")

	s.ApplyCreated(dept{"3", "Finance"})
	want := []dept{{"1", "HR"}, {"2", "IT"}, {"3", "Finance"}}
	if diff := cmp.Diff(want, s.Records()); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, s.Status().Success)
	assert.False(t, s.Status().Creating)
}

func TestCreatePrependConvention(t *testing.T) {
	s := New[dept](Prepend)
	fetched(s, dept{"1", "HR"})
	s.Begin(OpCreate)
	s.ApplyCreated(dept{"2", "IT"})
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "2", s.Records()[0].ID)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	// Update id 2, neighbours untouched.
	s := New[dept](Append)
	fetched(s, dept{"1", "HR"}, dept{"2", "IT"}, dept{"3", "Finance"})

	s.Begin(OpUpdate)
	s.ApplyUpdated(dept{"2", "IT Dept"})

	want := []dept{{"1", "HR"}, {"2", "IT Dept"}, {"3", "Finance"}}
	if diff := cmp.Diff(want, s.Records()); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, s.Status().Success)
}

func TestUpdateUnknownIDIsSilentNoOp(t *testing.T) {
	s := New[dept](Append)
	before := []dept{{"1", "HR"}, {"2", "IT"}}
	fetched(s, before...)

	s.Begin(OpUpdate)
	s.ApplyUpdated(dept{"99", "Ghost"})

	if diff := cmp.Diff(before, s.Records()); diff != "" {
		t.Fatalf("collection changed (-want +got):\n%s", diff)
	}
	assert.Nil(t, s.Status().Err, "not treated as an error")
}

func TestCreateRejectionLeavesCollectionUnchanged(t *testing.T) {
	// Fielded validation error, nothing inserted.
	s := New[dept](Append)
	fetched(s, dept{"1", "HR"})

	s.Begin(OpCreate)
	valErr := &api.Error{
		Kind:   api.Fielded,
		Status: 400,
		Fields: map[string][]string{"phone_number": {"Invalid format"}},
	}
	s.Fail(OpCreate, valErr)

	assert.Equal(t, 1, s.Len())
	require.NotNil(t, s.Status().Err)
	assert.Equal(t, "Invalid format", s.Status().Err.FieldError("phone_number"))
	assert.False(t, s.Status().Success)
	assert.False(t, s.Status().Creating)
}

func TestDeleteIsPessimistic(t *testing.T) {
	// The record stays visible while the delete is pending.
	s := New[dept](Append)
	fetched(s, dept{"4", "Ops"}, dept{"5", "Legal"})

	s.Begin(OpDelete)
	_, present := s.Get("5")
	assert.True(t, present, "still visible while pending")

	s.ApplyRemoved("5")
	_, present = s.Get("5")
	assert.False(t, present)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Status().Success)
}

func TestFailedFetchKeepsStaleData(t *testing.T) {
	s := New[dept](Append)
	fetched(s, dept{"1", "HR"})

	s.Begin(OpFetch)
	s.Fail(OpFetch, &api.Error{Kind: api.Flat, Status: 502, Message: "bad gateway"})

	assert.Equal(t, 1, s.Len(), "stale but available")
	require.NotNil(t, s.Status().Err)
	assert.Equal(t, "bad gateway", s.Status().Err.Message)
	assert.False(t, s.Status().Loading)
}

func TestResetStatusClearsOutcomeOnly(t *testing.T) {
	s := New[dept](Append)
	fetched(s, dept{"1", "HR"})
	s.Begin(OpCreate)
	s.ApplyCreated(dept{"2", "IT"})
	require.True(t, s.Status().Success)

	s.ResetStatus()
	assert.False(t, s.Status().Success)
	assert.Nil(t, s.Status().Err)
	assert.Equal(t, 2, s.Len())
}

func TestOperationKindsAreIndependent(t *testing.T) {
	s := New[dept](Append)
	s.Begin(OpFetch)
	s.Begin(OpCreate)
	st := s.Status()
	assert.True(t, st.Loading)
	assert.True(t, st.Creating)
	assert.True(t, st.Pending())

	s.ApplyFetched([]dept{{"1", "HR"}})
	st = s.Status()
	assert.False(t, st.Loading)
	assert.True(t, st.Creating, "fetch completion does not clear create")
}

func TestClearDropsEverything(t *testing.T) {
	s := New[dept](Append)
	fetched(s, dept{"1", "HR"})
	s.Begin(OpCreate)
	s.ApplyCreated(dept{"2", "IT"})

	s.Clear()
	assert.Zero(t, s.Len())
	assert.False(t, s.Fetched())
	assert.Equal(t, Status{}, s.Status())
}

// TestNoDuplicatesNoPhantoms drives a mixed operation sequence and checks the
// collection holds exactly one record per surviving id, all of them from
// confirmed server responses.
func TestNoDuplicatesNoPhantoms(t *testing.T) {
	s := New[dept](Append)
	fetched(s, dept{"1", "HR"}, dept{"2", "IT"})

	s.Begin(OpCreate)
	s.ApplyCreated(dept{"3", "Finance"})
	s.Begin(OpUpdate)
	s.ApplyUpdated(dept{"1", "People"})
	s.Begin(OpDelete)
	s.ApplyRemoved("2")
	s.Begin(OpCreate)
	s.Fail(OpCreate, &api.Error{Kind: api.Flat, Status: 500, Message: "boom"})
	s.Begin(OpUpdate)
	s.ApplyUpdated(dept{"404", "Phantom"})

	seen := map[string]bool{}
	for _, r := range s.Records() {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
	assert.Equal(t, map[string]bool{"1": true, "3": true}, seen)
	name := func(id string) string {
		r, ok := s.Get(id)
		require.True(t, ok)
		return r.Name
	}
	assert.Equal(t, "People", name("1"))
	assert.Equal(t, "Finance", name("3"))
}
