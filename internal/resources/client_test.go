package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourtra/internal/api"
)

type tokens struct{}

func (tokens) AccessToken() string { return "test-token" }

// crudServer fakes one collection endpoint with an in-memory list.
func crudServer(t *testing.T) (*httptest.Server, *[]Department) {
	t.Helper()
	list := []Department{{ID: "1", Name: "HR"}, {ID: "2", Name: "IT"}}
	next := 3
	mux := http.NewServeMux()
	mux.HandleFunc("/departments/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(list)
		case r.Method == http.MethodPost:
			var in map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			name, _ := in["name"].(string)
			if strings.TrimSpace(name) == "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string][]string{"name": {"This field is required."}})
				return
			}
			rec := Department{ID: ID(strconv.Itoa(next)), Name: name}
			next++
			list = append(list, rec)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(rec)
		case r.Method == http.MethodPatch, r.Method == http.MethodPut:
			id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/departments/"), "/")
			var in map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			for i := range list {
				if string(list[i].ID) == id {
					if name, ok := in["name"].(string); ok {
						list[i].Name = name
					}
					json.NewEncoder(w).Encode(list[i])
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
		case r.Method == http.MethodDelete:
			id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/departments/"), "/")
			kept := list[:0]
			for _, d := range list {
				if string(d.ID) != id {
					kept = append(kept, d)
				}
			}
			list = kept
			w.WriteHeader(http.StatusNoContent)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &list
}

func TestClientListCreateUpdateDelete(t *testing.T) {
	srv, serverList := crudServer(t)
	c := NewClient[Department](api.New(srv.URL, tokens{}), "/departments/")
	ctx := context.Background()

	got, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	created, err := c.Create(ctx, Input{Values: map[string]any{"name": "Finance"}})
	require.NoError(t, err)
	assert.Equal(t, "3", created.RecordID())
	assert.Equal(t, "Finance", created.Name)

	updated, err := c.Update(ctx, "2", Input{Values: map[string]any{"name": "IT Dept"}})
	require.NoError(t, err)
	assert.Equal(t, "IT Dept", updated.Name)

	replaced, err := c.Replace(ctx, "2", Input{Values: map[string]any{"name": "Infra"}})
	require.NoError(t, err)
	assert.Equal(t, "Infra", replaced.Name)

	require.NoError(t, c.Delete(ctx, "1"))
	assert.Len(t, *serverList, 2)
}

func TestClientCreateValidationError(t *testing.T) {
	srv, _ := crudServer(t)
	c := NewClient[Department](api.New(srv.URL, tokens{}), "/departments/")

	_, err := c.Create(context.Background(), Input{Values: map[string]any{"name": ""}})
	require.Error(t, err)
	require.True(t, api.IsValidation(err))
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "This field is required.", apiErr.FieldError("name"))
}

func TestClientCreateSwitchesToMultipartWithFiles(t *testing.T) {
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "EXP-9", r.FormValue("label"))
		json.NewEncoder(w).Encode(Expense{ID: "9", Label: "EXP-9"})
	}))
	defer srv.Close()

	c := NewClient[Expense](api.New(srv.URL, tokens{}), "/expenses/")
	created, err := c.Create(context.Background(), Input{
		Values: map[string]any{"label": "EXP-9"},
		Files:  []api.FormFile{{Field: "receipt", Name: "r.pdf", Content: []byte("%PDF")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "9", created.RecordID())
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"))
}

func TestIDUnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	var d Department
	require.NoError(t, json.Unmarshal([]byte(`{"id": 12, "name": "HR"}`), &d))
	assert.Equal(t, "12", d.RecordID())

	require.NoError(t, json.Unmarshal([]byte(`{"id": "ab-34", "name": "HR"}`), &d))
	assert.Equal(t, "ab-34", d.RecordID())

	require.NoError(t, json.Unmarshal([]byte(`{"id": null, "name": "draft"}`), &d))
	assert.Equal(t, "", d.RecordID())
}
