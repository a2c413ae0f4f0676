// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmap // import "github.com/go-lpc/lagd/internal/mmap"

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestHandle(t *testing.T) {
	t.Run("nil-handle", func(t *testing.T) {
		var h *Handle

		_, err := h.ReadAt(nil, 0)
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		_, err = h.WriteAt(nil, 0)
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid write-at error: %+v", err)
		}

		_, err = h.ReadU32(0)
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid read-u32 error: %+v", err)
		}

		err = h.Close()
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid close error: %+v", err)
		}
	})
	t.Run("nil-data", func(t *testing.T) {
		var h Handle

		_, err := h.ReadAt(nil, 0)
		if !errors.Is(err, errClosed) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		_, err = h.WriteAt(nil, 0)
		if !errors.Is(err, errClosed) {
			t.Fatalf("invalid write-at error: %+v", err)
		}

		err = h.WriteU32(0, 1)
		if !errors.Is(err, errClosed) {
			t.Fatalf("invalid write-u32 error: %+v", err)
		}

		err = h.Close()
		if err != nil {
			t.Fatalf("error closing nil-data handle: %+v", err)
		}
	})
}

func TestHandleFrom(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	h := HandleFrom(buf)

	if got, want := h.Len(), 8; got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}

	_, err := h.WriteAt(nil, -1)
	if got, want := err.Error(), "mmap: invalid WriteAt offset -1: unexpected EOF"; got != want {
		t.Fatalf("invalid error: %+v", err)
	}

	_, err = h.ReadAt(nil, -1)
	if got, want := err.Error(), "mmap: invalid ReadAt offset -1: unexpected EOF"; got != want {
		t.Fatalf("invalid error: %+v", err)
	}

	p := make([]byte, 4)
	n, err := h.ReadAt(p, 6)
	if !errors.Is(err, io.EOF) || n != 2 {
		t.Fatalf("invalid short read: n=%d, err=%+v", n, err)
	}

	n, err = h.WriteAt([]byte{0xa, 0xb, 0xc}, 6)
	if !errors.Is(err, io.ErrShortWrite) || n != 2 {
		t.Fatalf("invalid short write: n=%d, err=%+v", n, err)
	}

	err = h.Close()
	if err != nil {
		t.Fatalf("could not close handle: %+v", err)
	}
	if got, want := buf[7], byte(0xb); got != want {
		t.Fatalf("invalid backing data: got=0x%x, want=0x%x", got, want)
	}
}

func TestReadWriteU32(t *testing.T) {
	h := HandleFrom(make([]byte, 16))
	defer h.Close()

	err := h.WriteU32(4, 0xcafefade)
	if err != nil {
		t.Fatalf("could not write u32: %+v", err)
	}

	p := make([]byte, 4)
	_, err = h.ReadAt(p, 4)
	if err != nil {
		t.Fatalf("could not read bytes: %+v", err)
	}
	if got, want := p, []byte{0xde, 0xfa, 0xfe, 0xca}; string(got) != string(want) {
		t.Fatalf("invalid byte order: got=%x, want=%x", got, want)
	}

	v, err := h.ReadU32(4)
	if err != nil {
		t.Fatalf("could not read u32: %+v", err)
	}
	if got, want := v, uint32(0xcafefade); got != want {
		t.Fatalf("invalid value: got=0x%x, want=0x%x", got, want)
	}

	for _, tc := range []struct {
		off int64
		err error
	}{
		{2, errUnaligned},
		{16, io.ErrUnexpectedEOF},
		{-4, io.ErrUnexpectedEOF},
		{20, io.ErrUnexpectedEOF},
	} {
		_, err := h.ReadU32(tc.off)
		if !errors.Is(err, tc.err) {
			t.Fatalf("off=%d: invalid read error: got=%+v, want=%+v", tc.off, err, tc.err)
		}
		err = h.WriteU32(tc.off, 1)
		if !errors.Is(err, tc.err) {
			t.Fatalf("off=%d: invalid write error: got=%+v, want=%+v", tc.off, err, tc.err)
		}
	}
}

func TestMap(t *testing.T) {
	const span = 4096

	f, err := os.Create(filepath.Join(t.TempDir(), "dev.mem"))
	if err != nil {
		t.Fatalf("could not create fake dev-mem: %+v", err)
	}
	defer f.Close()

	err = f.Truncate(2 * span)
	if err != nil {
		t.Fatalf("could not resize fake dev-mem: %+v", err)
	}

	h, err := Map(f, span, span)
	if err != nil {
		t.Fatalf("could not mmap fake dev-mem: %+v", err)
	}
	defer h.Close()

	if got, want := h.Len(), span; got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}

	err = h.WriteU32(0x1d8, 0x3)
	if err != nil {
		t.Fatalf("could not write u32: %+v", err)
	}

	p := make([]byte, 4)
	_, err = f.ReadAt(p, span+0x1d8)
	if err != nil {
		t.Fatalf("could not read back fake dev-mem: %+v", err)
	}
	if got, want := p, []byte{3, 0, 0, 0}; string(got) != string(want) {
		t.Fatalf("invalid shared mapping: got=%x, want=%x", got, want)
	}

	err = h.Close()
	if err != nil {
		t.Fatalf("could not unmap: %+v", err)
	}
	err = h.Close()
	if err != nil {
		t.Fatalf("could not re-close: %+v", err)
	}
}
