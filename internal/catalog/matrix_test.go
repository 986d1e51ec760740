// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewMatrix_RejectsRagged(t *testing.T) {
	t.Parallel()

	_, err := NewMatrix([][]float64{{1, 0.5}, {0.5}})
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}

func TestEncodeDecodeMatrix(t *testing.T) {
	t.Parallel()

	m, err := NewMatrix([][]float64{
		{1.0, 0.25, math.NaN()},
		{0.25, 1.0, -0.5},
		{0.125, -0.5, 1.0},
	})
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}

	for _, width := range []int{4, 8} {
		var buf bytes.Buffer
		if err := EncodeMatrix(&buf, m, width); err != nil {
			t.Fatalf("EncodeMatrix(width=%d): %v", width, err)
		}
		if got, want := buf.Len(), matrixHeaderSize+9*width; got != want {
			t.Errorf("width %d: encoded %d bytes, want %d", width, got, want)
		}

		decoded, err := DecodeMatrix(&buf)
		if err != nil {
			t.Fatalf("DecodeMatrix(width=%d): %v", width, err)
		}
		if decoded.N() != 3 || decoded.Width() != width {
			t.Fatalf("width %d: decoded N=%d width=%d", width, decoded.N(), decoded.Width())
		}
		if got := decoded.Score(1, 2); got != -0.5 {
			t.Errorf("width %d: Score(1,2) = %v, want -0.5", width, got)
		}
		if !math.IsNaN(decoded.Score(0, 2)) {
			t.Errorf("width %d: expected NaN to survive, got %v", width, decoded.Score(0, 2))
		}
	}
}

func TestDecodeMatrix_Corrupt(t *testing.T) {
	t.Parallel()

	valid := func() []byte {
		var buf bytes.Buffer
		m, _ := NewMatrix([][]float64{{1, 0}, {0, 1}})
		if err := EncodeMatrix(&buf, m, 8); err != nil {
			t.Fatalf("EncodeMatrix: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name    string
		mutate  func(b []byte) []byte
		wantMsg string
	}{
		{"empty", func(b []byte) []byte { return nil }, "header"},
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }, "magic"},
		{"bad width", func(b []byte) []byte { b[4] = 3; return b }, "width"},
		{"reserved set", func(b []byte) []byte { b[6] = 1; return b }, "reserved"},
		{"huge dimension", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[8:12], maxMatrixDim+1)
			return b
		}, "exceeds"},
		{"over byte budget", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[8:12], maxMatrixDim)
			return b[:matrixHeaderSize]
		}, "exceeds"},
		{"large header without body", func(b []byte) []byte {
			b[4] = 4
			binary.LittleEndian.PutUint32(b[8:12], 30000)
			return b[:matrixHeaderSize]
		}, "row 0"},
		{"truncated", func(b []byte) []byte { return b[:len(b)-3] }, "row 1"},
		{"trailing", func(b []byte) []byte { return append(b, 0) }, "trailing"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeMatrix(bytes.NewReader(tt.mutate(valid())))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestMatrixRow(t *testing.T) {
	t.Parallel()

	m, _ := NewMatrix([][]float64{{1, 2}, {3, 4}})
	row := m.Row(1)
	row[0] = 99

	if m.Score(1, 0) != 3 {
		t.Error("expected Row to return a copy")
	}
}
