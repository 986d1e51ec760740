// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the codec applied to an input file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

// String returns the codec name.
func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CompressionFor picks the codec from the file suffix.
func CompressionFor(path string) Compression {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		return CompressionZstd
	case strings.HasSuffix(lower, ".lz4"):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// baseName strips a compression suffix so the inner format can be detected.
// "movies.csv.zst" -> "movies.csv"
func baseName(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{".zstd", ".zst", ".lz4"} {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

// decompressReader wraps a file and its decoder so both close together.
type decompressReader struct {
	io.Reader
	closers []func() error
}

func (d *decompressReader) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openDecompressed opens path and returns a reader over its decompressed bytes.
func openDecompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, err
	}
	buffered := bufio.NewReaderSize(f, 256<<10)

	switch CompressionFor(path) {
	case CompressionZstd:
		dec, err := zstd.NewReader(buffered)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return &decompressReader{
			Reader: dec,
			closers: []func() error{
				func() error { dec.Close(); return nil },
				f.Close,
			},
		}, nil
	case CompressionLZ4:
		return &decompressReader{
			Reader:  lz4.NewReader(buffered),
			closers: []func() error{f.Close},
		}, nil
	default:
		return &decompressReader{Reader: buffered, closers: []func() error{f.Close}}, nil
	}
}

// compressWriter wraps w with the encoder for c. Closing the returned writer
// flushes the encoder but does not close w.
func compressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
