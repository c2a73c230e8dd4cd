package attachment

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Descriptor carries the metadata of one uploaded policy document plus a
// lazy handle to its raw bytes. Only the name ever reaches the composed
// prompt; the bytes ride along on the transport and are never inspected.
type Descriptor struct {
	Name      string
	MediaType string
	Size      int64

	open func() (io.ReadCloser, error)
}

// ErrNoName is returned when constructing a descriptor from a part that
// lacks a usable file name.
var ErrNoName = errors.New("attachment has no name")

// New builds a Descriptor. The open func may be nil for name-only
// descriptors whose bytes have already been handed to the transport.
func New(name, mediaType string, size int64, open func() (io.ReadCloser, error)) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, ErrNoName
	}
	if size < 0 {
		size = 0
	}
	return Descriptor{Name: name, MediaType: mediaType, Size: size, open: open}, nil
}

// Open materializes the raw bytes. The caller owns the returned reader.
func (d Descriptor) Open() (io.ReadCloser, error) {
	if d.open == nil {
		return nil, fmt.Errorf("attachment %q: no byte source", d.Name)
	}
	return d.open()
}

// FromMultipart collects descriptors from the file parts under the given
// form field, in upload order. Parts without a usable file name are
// skipped, not errored; they simply contribute nothing to the prompt.
func FromMultipart(form *multipart.Form, field string) []Descriptor {
	if form == nil {
		return nil
	}
	headers := form.File[field]
	out := make([]Descriptor, 0, len(headers))
	for _, hdr := range headers {
		h := hdr
		d, err := New(h.Filename, h.Header.Get("Content-Type"), h.Size, func() (io.ReadCloser, error) {
			return h.Open()
		})
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FromFile builds a descriptor for a local file, with the media type
// guessed from the extension. Used by the CLI so terminal uploads travel
// the same request path as browser ones.
func FromFile(path string) (Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Descriptor{}, fmt.Errorf("%s is a directory", path)
	}
	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return New(filepath.Base(path), mediaType, info.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	})
}

// Names returns the descriptor names in selection order, for the composer.
func Names(ds []Descriptor) []string {
	if len(ds) == 0 {
		return nil
	}
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name
	}
	return names
}
