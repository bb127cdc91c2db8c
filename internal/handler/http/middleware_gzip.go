package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// writer and reader pools are shared across requests; sync pushes can be
// chatty, and allocating a flate state per request shows up fast.
var (
	gzipWriters = sync.Pool{New: func() any { return gzip.NewWriter(nil) }}
	gzipReaders = sync.Pool{New: func() any { return new(gzip.Reader) }}
)

// withGZip transparently inflates gzip request bodies and, when the caller
// advertises support, deflates responses.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") && r.Body != nil {
			zr := gzipReaders.Get().(*gzip.Reader)
			if err := zr.Reset(r.Body); err != nil {
				gzipReaders.Put(zr)
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			r.Body = &inflatedBody{reader: zr}
			// the body is plain JSON from here on
			r.Header.Del("Content-Encoding")
		}

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		zw := gzipWriters.Get().(*gzip.Writer)
		zw.Reset(w)

		next.ServeHTTP(&deflatedResponse{ResponseWriter: w, zw: zw}, r)

		zw.Close()
		gzipWriters.Put(zw)
	})
}

// inflatedBody wraps a pooled gzip.Reader and returns it to the pool on
// Close.
type inflatedBody struct {
	reader *gzip.Reader
	closed bool
}

func (b *inflatedBody) Read(p []byte) (int, error) { return b.reader.Read(p) }

func (b *inflatedBody) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	err := b.reader.Close()
	gzipReaders.Put(b.reader)
	return err
}

type deflatedResponse struct {
	http.ResponseWriter
	zw *gzip.Writer
}

func (d *deflatedResponse) WriteHeader(statusCode int) {
	d.Header().Set("Content-Encoding", "gzip")
	d.ResponseWriter.WriteHeader(statusCode)
}

func (d *deflatedResponse) Write(p []byte) (int, error) {
	return d.zw.Write(p)
}

var _ io.ReadCloser = (*inflatedBody)(nil)
