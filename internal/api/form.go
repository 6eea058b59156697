package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
)

// Form is a multipart request body: scalar fields plus optional binary file
// attachments. It is used wherever the server expects multipart/form-data,
// such as signup and employee create/update with a photo.
type Form struct {
	Fields map[string]string
	Files  map[string]string // field name -> local file path
}

// NewForm creates an empty multipart form.
func NewForm() *Form {
	return &Form{
		Fields: make(map[string]string),
		Files:  make(map[string]string),
	}
}

// Set adds a scalar field. Empty values are skipped so optional flags do not
// clobber server-side fields.
func (f *Form) Set(name, value string) *Form {
	if value != "" {
		f.Fields[name] = value
	}
	return f
}

// Attach adds a file field backed by a local path.
func (f *Form) Attach(name, path string) *Form {
	if path != "" {
		f.Files[name] = path
	}
	return f
}

// Encode renders the form body and returns it with its content type. Field
// order is stable to keep request bodies reproducible across the retry that
// follows a token refresh.
func (f *Form) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(f.Fields))
	for name := range f.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.WriteField(name, f.Fields[name]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %q: %w", name, err)
		}
	}

	fileNames := make([]string, 0, len(f.Files))
	for name := range f.Files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	for _, name := range fileNames {
		path := f.Files[name]
		file, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open attachment %q: %w", path, err)
		}

		part, err := w.CreateFormFile(name, filepath.Base(path))
		if err != nil {
			file.Close()
			return nil, "", fmt.Errorf("failed to create file part %q: %w", name, err)
		}

		if _, err := io.Copy(part, file); err != nil {
			file.Close()
			return nil, "", fmt.Errorf("failed to read attachment %q: %w", path, err)
		}
		file.Close()
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
