package resources

import (
	"context"
	"fmt"
	"net/http"

	"tourtra/internal/api"
	"tourtra/internal/store"
)

// Input is the payload of a create or update. Values go out as JSON unless
// Files is non-empty, in which case the whole submission is multipart
// (file-bearing endpoints do not accept JSON).
type Input struct {
	Values map[string]any
	Files  []api.FormFile
}

func (in Input) form() *api.Form {
	fields := make(map[string]string, len(in.Values))
	for k, v := range in.Values {
		switch val := v.(type) {
		case string:
			fields[k] = val
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	return &api.Form{Fields: fields, Files: in.Files}
}

// ResourceClient is the typed REST client for one entity collection. Not
// called Client: that name belongs to the customer entity.
type ResourceClient[T store.Record] struct {
	api  *api.Client
	path string
}

// NewClient binds a transport to an entity's collection path.
func NewClient[T store.Record](transport *api.Client, path string) *ResourceClient[T] {
	return &ResourceClient[T]{api: transport, path: path}
}

// List fetches the server's current collection.
func (c *ResourceClient[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.api.Get(ctx, c.path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a new record and returns the server-confirmed result.
func (c *ResourceClient[T]) Create(ctx context.Context, in Input) (T, error) {
	var out T
	if len(in.Files) > 0 {
		err := c.api.Upload(ctx, http.MethodPost, c.path, in.form(), &out)
		return out, err
	}
	err := c.api.Post(ctx, c.path, in.Values, &out)
	return out, err
}

// Update patches an existing record and returns the server-confirmed result.
func (c *ResourceClient[T]) Update(ctx context.Context, id string, in Input) (T, error) {
	var out T
	path := c.path + id + "/"
	if len(in.Files) > 0 {
		err := c.api.Upload(ctx, http.MethodPatch, path, in.form(), &out)
		return out, err
	}
	err := c.api.Patch(ctx, path, in.Values, &out)
	return out, err
}

// Replace puts the full record, for the few endpoints that reject partial
// updates.
func (c *ResourceClient[T]) Replace(ctx context.Context, id string, in Input) (T, error) {
	var out T
	path := c.path + id + "/"
	if len(in.Files) > 0 {
		err := c.api.Upload(ctx, http.MethodPut, path, in.form(), &out)
		return out, err
	}
	err := c.api.Put(ctx, path, in.Values, &out)
	return out, err
}

// Delete removes a record. The caller only learns the id back, after the
// server has confirmed.
func (c *ResourceClient[T]) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, c.path+id+"/")
}
