// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmap provides access to a memory-mapped register window.
package mmap // import "github.com/go-lpc/lagd/internal/mmap"

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

var (
	errClosed    = errors.New("mmap: closed")
	errUnaligned = errors.New("mmap: unaligned 32-bit access")
)

// Handle is a memory-mapped window of registers.
type Handle struct {
	data   []byte
	mapped bool // whether data was obtained from mmap(2)
}

// Map memory-maps span bytes of f, starting at base, for reading and writing.
func Map(f *os.File, base int64, span int) (*Handle, error) {
	data, err := unix.Mmap(
		int(f.Fd()), base, span,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap: could not mmap %q (base=0x%x, span=0x%x): %w", f.Name(), base, span, err)
	}
	if len(data) != span {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("mmap: invalid mmap'd data: %d (want=%d)", len(data), span)
	}
	h := &Handle{data: data, mapped: true}
	runtime.SetFinalizer(h, (*Handle).Close)
	return h, nil
}

// HandleFrom returns a handle backed by data.
// Closing the handle does not release data.
func HandleFrom(data []byte) *Handle {
	return &Handle{data: data}
}

// Close unmaps the register window.
func (h *Handle) Close() error {
	if h == nil {
		return os.ErrInvalid
	}

	if h.data == nil {
		return nil
	}
	data := h.data
	h.data = nil
	if !h.mapped {
		return nil
	}
	runtime.SetFinalizer(h, nil)

	return unix.Munmap(data)
}

// Len returns the length of the register window.
func (h *Handle) Len() int {
	return len(h.data)
}

// ReadAt implements the io.ReaderAt interface.
func (h *Handle) ReadAt(p []byte, off int64) (int, error) {
	if err := h.check(off); err != nil {
		return 0, fmt.Errorf("mmap: invalid ReadAt offset %d: %w", off, err)
	}
	n := copy(p, h.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements the io.WriterAt interface.
func (h *Handle) WriteAt(p []byte, off int64) (int, error) {
	if err := h.check(off); err != nil {
		return 0, fmt.Errorf("mmap: invalid WriteAt offset %d: %w", off, err)
	}
	n := copy(h.data[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// ReadU32 reads the little-endian 32-bit word at off.
func (h *Handle) ReadU32(off int64) (uint32, error) {
	if err := h.check32(off); err != nil {
		return 0, fmt.Errorf("mmap: could not read 0x%x: %w", off, err)
	}
	return binary.LittleEndian.Uint32(h.data[off : off+4]), nil
}

// WriteU32 writes v as a little-endian 32-bit word at off.
func (h *Handle) WriteU32(off int64, v uint32) error {
	if err := h.check32(off); err != nil {
		return fmt.Errorf("mmap: could not write 0x%x: %w", off, err)
	}
	binary.LittleEndian.PutUint32(h.data[off:off+4], v)
	return nil
}

func (h *Handle) check(off int64) error {
	switch {
	case h == nil:
		return os.ErrInvalid
	case h.data == nil:
		return errClosed
	case off < 0 || int64(len(h.data)) < off:
		return io.ErrUnexpectedEOF
	}
	return nil
}

func (h *Handle) check32(off int64) error {
	if err := h.check(off); err != nil {
		return err
	}
	switch {
	case off%4 != 0:
		return errUnaligned
	case off+4 > int64(len(h.data)):
		return io.ErrUnexpectedEOF
	}
	return nil
}

var (
	_ io.ReaderAt = (*Handle)(nil)
	_ io.WriterAt = (*Handle)(nil)
	_ io.Closer   = (*Handle)(nil)
)
