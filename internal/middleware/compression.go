// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Content encodings in order of preference.
const (
	encodingZstd = "zstd"
	encodingGzip = "gzip"
)

// compressResponseWriter routes body writes through an encoder.
type compressResponseWriter struct {
	io.Writer
	http.ResponseWriter
	wroteHeader bool
}

func (w *compressResponseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.ResponseWriter.Header().Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *compressResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.Writer.Write(b)
}

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		return gzip.NewWriter(io.Discard)
	},
}

var zstdWriterPool = sync.Pool{
	New: func() interface{} {
		// Options are static, so NewWriter cannot fail here.
		enc, _ := zstd.NewWriter(io.Discard, //nolint:errcheck // static options
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
		)
		return enc
	},
}

// negotiateEncoding picks zstd, then gzip, from an Accept-Encoding header.
// Entries with q=0 are treated as refused.
func negotiateEncoding(header string) string {
	var gz, zs bool
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		name := strings.ToLower(strings.TrimSpace(fields[0]))
		refused := false
		for _, p := range fields[1:] {
			p = strings.ReplaceAll(strings.TrimSpace(p), " ", "")
			if p == "q=0" || p == "q=0.0" || p == "q=0.00" || p == "q=0.000" {
				refused = true
			}
		}
		if refused {
			continue
		}
		switch name {
		case encodingZstd:
			zs = true
		case encodingGzip:
			gz = true
		}
	}
	switch {
	case zs:
		return encodingZstd
	case gz:
		return encodingGzip
	default:
		return ""
	}
}

// Compression compresses response bodies with zstd or gzip when the client
// accepts either.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		encoding := negotiateEncoding(r.Header.Get("Accept-Encoding"))
		if encoding == "" || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		var enc io.WriteCloser
		switch encoding {
		case encodingZstd:
			zw := zstdWriterPool.Get().(*zstd.Encoder)
			zw.Reset(w)
			defer zstdWriterPool.Put(zw)
			enc = zw
		default:
			gz := gzipWriterPool.Get().(*gzip.Writer)
			gz.Reset(w)
			defer gzipWriterPool.Put(gz)
			enc = gz
		}
		defer func() {
			_ = enc.Close() // best-effort, response already sent
		}()

		w.Header().Set("Content-Encoding", encoding)
		next.ServeHTTP(&compressResponseWriter{Writer: enc, ResponseWriter: w}, r)
	})
}
