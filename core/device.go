// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core drives a lagd_core accelerator through its memory-mapped
// register bank.
package core // import "github.com/go-lpc/lagd/core"

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-lpc/lagd/internal/mmap"
	"github.com/go-lpc/lagd/regmap"
)

const (
	defaultBase = 0x0
	defaultSpan = 0x1000
	defaultPoll = 10 * time.Millisecond
)

type rwer interface {
	io.ReaderAt
	io.WriterAt
}

// Option configures a Device.
type Option func(*config)

type config struct {
	msg  *log.Logger
	base int64
	span int
	poll time.Duration
}

func newConfig() config {
	return config{
		msg:  log.New(os.Stdout, "lagd: ", 0),
		base: defaultBase,
		span: defaultSpan,
		poll: defaultPoll,
	}
}

// WithLogger sets the logger of the device.
func WithLogger(msg *log.Logger) Option {
	return func(cfg *config) {
		cfg.msg = msg
	}
}

// WithBase sets the physical address of the register bank.
func WithBase(base int64) Option {
	return func(cfg *config) {
		cfg.base = base
	}
}

// WithSpan sets the size, in bytes, of the mapped register window.
func WithSpan(span int) Option {
	return func(cfg *config) {
		cfg.span = span
	}
}

// WithPollInterval sets the period used to poll the status register.
// Non-positive durations keep the default period.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *config) {
		if d <= 0 {
			return
		}
		cfg.poll = d
	}
}

// Device is a lagd_core accelerator.
//
// Register accesses record the first I/O error encountered. Subsequent
// reads return 0 and writes are dropped. Err reports that error.
type Device struct {
	msg  *log.Logger
	cfg  config
	regs *regmap.Map
	bank bank

	mem struct {
		fd *os.File
		h  *mmap.Handle
	}
	rw   rwer
	span int64

	err error
}

// Open memory-maps the lagd_core register bank from the provided
// memory device (usually /dev/mem).
func Open(devmem string, opts ...Option) (*Device, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if want := int(regmap.Core().Span()); cfg.span < want {
		return nil, fmt.Errorf("core: register window too small (span=0x%x, want>=0x%x)", cfg.span, want)
	}

	mem, err := os.OpenFile(devmem, os.O_RDWR|os.O_SYNC, 0666)
	if err != nil {
		return nil, fmt.Errorf("core: could not open %q: %w", devmem, err)
	}
	defer func() {
		if err != nil {
			_ = mem.Close()
		}
	}()

	h, err := mmap.Map(mem, cfg.base, cfg.span)
	if err != nil {
		return nil, fmt.Errorf("core: could not map register bank: %w", err)
	}

	dev := newDevice(h, cfg)
	dev.mem.fd = mem
	dev.mem.h = h

	return dev, nil
}

// NewDevice returns a device whose registers are accessed through rw,
// starting at offset 0.
func NewDevice(rw interface {
	io.ReaderAt
	io.WriterAt
}, opts ...Option) *Device {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newDevice(rw, cfg)
}

func newDevice(rw rwer, cfg config) *Device {
	dev := &Device{
		msg:  cfg.msg,
		cfg:  cfg,
		regs: regmap.Core(),
		rw:   rw,
		span: int64(cfg.span),
	}
	if h, ok := rw.(*mmap.Handle); ok {
		dev.span = int64(h.Len())
	}
	dev.bank = newBank(dev)
	return dev
}

// Map returns the register map of the device.
func (dev *Device) Map() *regmap.Map {
	return dev.regs
}

// Err returns the first I/O error encountered by the device, if any.
func (dev *Device) Err() error {
	return dev.err
}

// Close releases the register window.
func (dev *Device) Close() error {
	if dev.mem.fd == nil {
		return nil
	}

	var (
		errMap = dev.mem.h.Close()
		errMem = dev.mem.fd.Close()
	)

	dev.mem.fd = nil
	dev.mem.h = nil
	dev.rw = nil

	if errMem != nil {
		return fmt.Errorf("core: could not close device mem file: %w", errMem)
	}

	if errMap != nil {
		return fmt.Errorf("core: could not unmap register bank: %w", errMap)
	}

	return nil
}
