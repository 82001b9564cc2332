package httpclient

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
)

// MultipartBody is a multipart/form-data request body.
type MultipartBody struct {
	// Fields are simple form fields, written in key order.
	Fields map[string]string
	// Files are streamed from disk after the fields.
	Files []FileField
}

// FileField is a file part read from Path. FileName defaults to the base
// name of Path; the sidecar uses its extension to pick a decoder.
type FileField struct {
	FieldName string
	FileName  string
	Path      string
}

// open checks every file up front so a missing file fails before any
// bytes go out.
func (m *MultipartBody) open() ([]*os.File, error) {
	files := make([]*os.File, 0, len(m.Files))
	for _, f := range m.Files {
		fh, err := os.Open(f.Path)
		if err != nil {
			for _, opened := range files {
				_ = opened.Close()
			}
			return nil, err
		}
		files = append(files, fh)
	}
	return files, nil
}

// stream writes the body into a pipe so large recordings are never held
// in memory. It returns the reader and the content type.
func (m *MultipartBody) stream(files []*os.File) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)

	go func() {
		defer func() {
			for _, fh := range files {
				_ = fh.Close()
			}
		}()
		pw.CloseWithError(m.write(w, files))
	}()

	return pr, w.FormDataContentType()
}

func (m *MultipartBody) write(w *multipart.Writer, files []*os.File) error {
	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return err
		}
	}

	for i, f := range m.Files {
		name := f.FileName
		if name == "" {
			name = filepath.Base(f.Path)
		}
		part, err := w.CreateFormFile(f.FieldName, name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, files[i]); err != nil {
			return err
		}
	}
	return w.Close()
}
