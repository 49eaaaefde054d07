package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// FormFile is one attachment in a multipart submission. Content takes
// precedence; when nil the file is read from Path at send time.
type FormFile struct {
	Field   string
	Name    string
	Path    string
	Content []byte
}

// Form is a multipart payload: scalar fields plus zero or more files.
// Invoices, quotes and expenses attach PDFs this way instead of JSON.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

// AddFile appends an attachment read from disk.
func (f *Form) AddFile(field, path string) {
	f.Files = append(f.Files, FormFile{Field: field, Name: filepath.Base(path), Path: path})
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, val := range f.Fields {
		if err := w.WriteField(key, val); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.Files {
		content := file.Content
		if content == nil {
			data, err := os.ReadFile(file.Path)
			if err != nil {
				return nil, "", fmt.Errorf("attach %s: %w", file.Path, err)
			}
			content = data
		}
		part, err := w.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Upload sends form as multipart/form-data with the same auth, refresh-retry
// and error handling as Do.
func (c *Client) Upload(ctx context.Context, method, path string, form *Form, out any) error {
	build := func() (*http.Request, error) {
		buf, contentType, err := form.encode()
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}
	return c.send(ctx, build, out)
}
