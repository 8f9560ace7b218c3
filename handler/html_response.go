package handler

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
)

type templResponse struct {
	component templ.Component
	status    int
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(t.status)
	return t.component.Render(r.Context(), w)
}

// Templ renders a templ component as a full HTML response. Rendering errors
// after the header is written are reported to the error handler but cannot
// change the status.
func Templ(component templ.Component) Response {
	return templResponse{component: component, status: http.StatusOK}
}

type blobResponse struct {
	data        []byte
	contentType string
	filename    string
	header      http.Header
}

func (b blobResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for k, v := range b.header {
		for _, vv := range v {
			w.Header().Add(k, vv)
		}
	}
	w.Header().Set("Content-Type", b.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.data)))
	if b.filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+b.filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(b.data)
	return err
}

// BlobOption configures a Blob response.
type BlobOption func(*blobResponse)

// AsAttachment sets Content-Disposition so browsers download the body.
func AsAttachment(filename string) BlobOption {
	return func(b *blobResponse) {
		b.filename = filename
	}
}

// WithHeader adds a response header.
func WithHeader(key, value string) BlobOption {
	return func(b *blobResponse) {
		b.header.Add(key, value)
	}
}

// Blob writes raw bytes with the given content type.
func Blob(data []byte, contentType string, opts ...BlobOption) Response {
	b := blobResponse{data: data, contentType: contentType, header: http.Header{}}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// HTML writes an already rendered HTML document.
func HTML(html string, opts ...BlobOption) Response {
	return Blob([]byte(html), "text/html; charset=utf-8", opts...)
}
