// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// matrixMagic identifies the RMX1 similarity matrix format.
var matrixMagic = [4]byte{'R', 'M', 'X', '1'}

const (
	matrixHeaderSize = 12

	// maxMatrixDim bounds N read from a header.
	maxMatrixDim = 1 << 17

	// maxMatrixBytes bounds the decoded score data (N*N*width).
	maxMatrixBytes int64 = 4 << 30

	// initialMatrixValues caps the up-front allocation; the backing slice
	// grows as rows arrive so a truncated file costs only what it holds.
	initialMatrixValues = 1 << 20
)

// Matrix is an immutable N×N table of pairwise similarity scores stored
// row-major. Scores read from a float32 file stay float32 in memory.
type Matrix struct {
	n   int
	f32 []float32
	f64 []float64
}

// NewMatrix builds a float64 matrix from rows. Every row must have len(rows) entries.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidShape, i, len(row), n)
		}
		data = append(data, row...)
	}
	return &Matrix{n: n, f64: data}, nil
}

// N returns the matrix dimension.
func (m *Matrix) N() int { return m.n }

// Width returns the element width in bytes (4 or 8).
func (m *Matrix) Width() int {
	if m.f32 != nil {
		return 4
	}
	return 8
}

// Score returns matrix[i][j]. It panics if i or j is out of range.
func (m *Matrix) Score(i, j int) float64 {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("catalog: matrix index (%d,%d) out of range for N=%d", i, j, m.n))
	}
	if m.f32 != nil {
		return float64(m.f32[i*m.n+j])
	}
	return m.f64[i*m.n+j]
}

// Row copies row i into a new slice.
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, m.n)
	for j := range out {
		out[j] = m.Score(i, j)
	}
	return out
}

// DecodeMatrix reads an RMX1 matrix from r. Trailing bytes after the last
// value are treated as corruption.
func DecodeMatrix(r io.Reader) (*Matrix, error) {
	br := bufio.NewReader(r)

	var header [matrixHeaderSize]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if [4]byte(header[0:4]) != matrixMagic {
		return nil, fmt.Errorf("bad magic %q", header[0:4])
	}
	width := int(header[4])
	if width != 4 && width != 8 {
		return nil, fmt.Errorf("unsupported element width %d", width)
	}
	if header[5] != 0 || header[6] != 0 || header[7] != 0 {
		return nil, errors.New("reserved header bytes must be zero")
	}
	n := int(binary.LittleEndian.Uint32(header[8:12]))
	if n > maxMatrixDim {
		return nil, fmt.Errorf("dimension %d exceeds limit %d", n, maxMatrixDim)
	}

	total := int64(n) * int64(n)
	if total*int64(width) > maxMatrixBytes {
		return nil, fmt.Errorf("dimension %d exceeds limit of %d bytes of scores", n, maxMatrixBytes)
	}

	m := &Matrix{n: n}
	rowBuf := make([]byte, n*width)
	capacity := int(min(total, initialMatrixValues))
	if width == 4 {
		m.f32 = make([]float32, 0, capacity)
	} else {
		m.f64 = make([]float64, 0, capacity)
	}

	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(br, rowBuf); err != nil {
			return nil, fmt.Errorf("read row %d: %w", i, err)
		}
		for j := 0; j < n; j++ {
			if width == 4 {
				m.f32 = append(m.f32, math.Float32frombits(binary.LittleEndian.Uint32(rowBuf[j*4:])))
			} else {
				m.f64 = append(m.f64, math.Float64frombits(binary.LittleEndian.Uint64(rowBuf[j*8:])))
			}
		}
	}

	if _, err := br.ReadByte(); err != io.EOF {
		if err == nil {
			return nil, errors.New("trailing data after matrix values")
		}
		return nil, fmt.Errorf("read trailer: %w", err)
	}

	return m, nil
}

// EncodeMatrix writes m to w in RMX1 layout with the given element width.
// Narrowing float64 scores to width 4 loses precision.
func EncodeMatrix(w io.Writer, m *Matrix, width int) error {
	if width != 4 && width != 8 {
		return fmt.Errorf("unsupported element width %d", width)
	}

	bw := bufio.NewWriter(w)

	var header [matrixHeaderSize]byte
	copy(header[0:4], matrixMagic[:])
	header[4] = byte(width)
	binary.LittleEndian.PutUint32(header[8:12], uint32(m.n)) //nolint:gosec // n <= maxMatrixDim
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	var buf [8]byte
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			v := m.Score(i, j)
			if width == 4 {
				binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(float32(v)))
			} else {
				binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(v))
			}
			if _, err := bw.Write(buf[:width]); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// WriteMatrixFile encodes m into path, compressed according to the path suffix.
func WriteMatrixFile(path string, m *Matrix, width int) error {
	return writeCompressedFile(path, func(w io.Writer) error {
		return EncodeMatrix(w, m, width)
	})
}
