package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct{ token string }

func (s *staticTokens) AccessToken() string { return s.token }

type fakeRefresher struct {
	calls int
	next  string
	fail  bool
	dst   *staticTokens
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	if f.fail {
		return context.DeadlineExceeded
	}
	f.dst.token = f.next
	return nil
}

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	c := New(srv.URL, &staticTokens{token: "tok-123"})
	var out map[string]string
	require.NoError(t, c.Get(context.Background(), "/departments/", &out))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "yes", out["ok"])
}

func TestDoRefreshesOnceOn401(t *testing.T) {
	tokens := &staticTokens{token: "stale"}
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		seen = append(seen, auth)
		if auth != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"id": 7})
	}))
	defer srv.Close()

	ref := &fakeRefresher{next: "fresh", dst: tokens}
	c := New(srv.URL, tokens, WithRefresher(ref))

	var out map[string]int
	require.NoError(t, c.Get(context.Background(), "/items/", &out))
	assert.Equal(t, 1, ref.calls, "exactly one refresh")
	assert.Equal(t, []string{"Bearer stale", "Bearer fresh"}, seen)
	assert.Equal(t, 7, out["id"])
}

func TestDoSessionExpiredWhenRefreshFails(t *testing.T) {
	tokens := &staticTokens{token: "stale"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ref := &fakeRefresher{fail: true, dst: tokens}
	c := New(srv.URL, tokens, WithRefresher(ref))

	err := c.Get(context.Background(), "/items/", nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, ref.calls)
}

func TestDoNeverRetriesTwice(t *testing.T) {
	tokens := &staticTokens{token: "stale"}
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	// Refresh "succeeds" but the server keeps rejecting: the second 401 must
	// surface as an error, not another refresh cycle.
	ref := &fakeRefresher{next: "still-bad", dst: tokens}
	c := New(srv.URL, tokens, WithRefresher(ref))

	err := c.Get(context.Background(), "/items/", nil)
	require.Error(t, err)
	assert.Equal(t, 2, requests)
	assert.Equal(t, 1, ref.calls)
}

func TestDecodeErrorShapes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
		check    func(t *testing.T, e *Error)
	}{
		{
			name:     "fielded validation map",
			status:   400,
			body:     `{"phone_number": ["Invalid format"], "email": ["Required"]}`,
			wantKind: Fielded,
			check: func(t *testing.T, e *Error) {
				assert.Equal(t, "Invalid format", e.FieldError("phone_number"))
				assert.Equal(t, "Required", e.FieldError("email"))
			},
		},
		{
			name:     "flat detail object",
			status:   403,
			body:     `{"detail": "You do not have permission"}`,
			wantKind: Flat,
			check: func(t *testing.T, e *Error) {
				assert.Equal(t, "You do not have permission", e.Message)
			},
		},
		{
			name:     "string values promoted to single-message slices",
			status:   400,
			body:     `{"name": "This field may not be blank."}`,
			wantKind: Fielded,
			check: func(t *testing.T, e *Error) {
				assert.Equal(t, "This field may not be blank.", e.FieldError("name"))
			},
		},
		{
			name:     "non-JSON body",
			status:   502,
			body:     "Bad Gateway",
			wantKind: Flat,
			check: func(t *testing.T, e *Error) {
				assert.Equal(t, "Bad Gateway", e.Message)
			},
		},
		{
			name:     "empty body",
			status:   500,
			body:     "",
			wantKind: Flat,
			check: func(t *testing.T, e *Error) {
				assert.Contains(t, e.Message, "500")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := decodeError(tt.status, []byte(tt.body))
			require.NotNil(t, e)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.Equal(t, tt.status, e.Status)
			tt.check(t, e)
		})
	}
}

func TestIsValidation(t *testing.T) {
	fielded := decodeError(400, []byte(`{"name": ["Required"]}`))
	flat := decodeError(500, []byte(`{"detail": "boom"}`))
	assert.True(t, IsValidation(fielded))
	assert.False(t, IsValidation(flat))
	assert.False(t, IsValidation(context.Canceled))
}

func TestUploadMultipart(t *testing.T) {
	var gotContentType string
	var gotName, gotLabel, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotLabel = r.FormValue("label")
		file, header, err := r.FormFile("receipt")
		require.NoError(t, err)
		defer file.Close()
		gotName = header.Filename
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		gotFile = string(data)
		json.NewEncoder(w).Encode(map[string]any{"id": 12})
	}))
	defer srv.Close()

	c := New(srv.URL, &staticTokens{token: "tok"})
	form := &Form{
		Fields: map[string]string{"label": "Cement delivery"},
		Files:  []FormFile{{Field: "receipt", Name: "receipt.pdf", Content: []byte("%PDF-1.4")}},
	}
	var out map[string]any
	require.NoError(t, c.Upload(context.Background(), http.MethodPost, "/expenses/", form, &out))
	assert.True(t, strings.HasPrefix(gotContentType, "multipart/form-data"))
	assert.Equal(t, "Cement delivery", gotLabel)
	assert.Equal(t, "receipt.pdf", gotName)
	assert.Equal(t, "%PDF-1.4", gotFile)
}
