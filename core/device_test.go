// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/go-lpc/lagd/internal/mmap"
	"github.com/go-lpc/lagd/regmap"
)

// rwLog is a register window recording every 32-bit write.
type rwLog struct {
	*mmap.Handle
	writes []uint32
	offs   []int64
}

func (rw *rwLog) WriteU32(off int64, v uint32) error {
	err := rw.Handle.WriteU32(off, v)
	if err == nil {
		rw.offs = append(rw.offs, off)
		rw.writes = append(rw.writes, v)
	}
	return err
}

type failRW struct {
	err error
}

func (rw failRW) ReadAt(p []byte, off int64) (int, error)  { return 0, rw.err }
func (rw failRW) WriteAt(p []byte, off int64) (int, error) { return 0, rw.err }

var errByteAccess = errors.New("byte-slice access")

// wordOnly is a register window rejecting byte-slice accesses.
type wordOnly struct {
	*mmap.Handle
}

func (wordOnly) ReadAt(p []byte, off int64) (int, error)  { return 0, errByteAccess }
func (wordOnly) WriteAt(p []byte, off int64) (int, error) { return 0, errByteAccess }

// byteOnly is a register window without 32-bit accessors.
type byteOnly struct {
	h *mmap.Handle
}

func (rw byteOnly) ReadAt(p []byte, off int64) (int, error)  { return rw.h.ReadAt(p, off) }
func (rw byteOnly) WriteAt(p []byte, off int64) (int, error) { return rw.h.WriteAt(p, off) }

func newTestDevice(t *testing.T, opts ...Option) (*Device, []byte) {
	t.Helper()
	buf := make([]byte, regmap.Core().Span())
	opts = append([]Option{
		WithLogger(log.New(io.Discard, "lagd: ", 0)),
		WithPollInterval(time.Millisecond),
	}, opts...)
	return NewDevice(mmap.HandleFrom(buf), opts...), buf
}

func u32(buf []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(buf[off:])
}

func put32(buf []byte, off, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

func TestReadWrite32(t *testing.T) {
	dev, buf := newTestDevice(t)

	err := dev.Write32(regmap.CounterCfg2Offset, 0xcafefade)
	if err != nil {
		t.Fatalf("could not write register: %+v", err)
	}

	if got, want := u32(buf, regmap.CounterCfg2Offset), uint32(0xcafefade); got != want {
		t.Fatalf("invalid memory content: got=0x%x, want=0x%x", got, want)
	}

	v, err := dev.Read32(regmap.CounterCfg2Offset)
	if err != nil {
		t.Fatalf("could not read register: %+v", err)
	}
	if got, want := v, uint32(0xcafefade); got != want {
		t.Fatalf("invalid register value: got=0x%x, want=0x%x", got, want)
	}

	for _, tc := range []struct {
		off uint32
		err error
	}{
		{0x2, errUnaligned},
		{0x1e1, errUnaligned},
		{0x308, errSpan},
		{0x1000, errSpan},
	} {
		t.Run(fmt.Sprintf("0x%x", tc.off), func(t *testing.T) {
			_, err := dev.Read32(tc.off)
			if !errors.Is(err, tc.err) {
				t.Fatalf("invalid read error: got=%+v, want=%+v", err, tc.err)
			}
			err = dev.Write32(tc.off, 1)
			if !errors.Is(err, tc.err) {
				t.Fatalf("invalid write error: got=%+v, want=%+v", err, tc.err)
			}
		})
	}

	if err := dev.Err(); err != nil {
		t.Fatalf("invalid offsets should not be sticky: %+v", err)
	}
}

func TestNamedAccess(t *testing.T) {
	dev, buf := newTestDevice(t)

	err := dev.WriteReg("GLOBAL_CFG_2", 0x1)
	if err != nil {
		t.Fatalf("could not write register: %+v", err)
	}
	if got, want := u32(buf, regmap.GlobalCfg2Offset), uint32(1); got != want {
		t.Fatalf("invalid GLOBAL_CFG_2: got=0x%x, want=0x%x", got, want)
	}

	err = dev.WriteField("GLOBAL_CFG_1", "CONFIG_COUNTER", 0xab)
	if err != nil {
		t.Fatalf("could not write field: %+v", err)
	}
	err = dev.WriteField("GLOBAL_CFG_1", "FLUSH_EN", 1)
	if err != nil {
		t.Fatalf("could not write field: %+v", err)
	}

	v, err := dev.ReadReg("GLOBAL_CFG_1")
	if err != nil {
		t.Fatalf("could not read register: %+v", err)
	}
	if got, want := v, uint32(0x0ab00001); got != want {
		t.Fatalf("invalid GLOBAL_CFG_1: got=0x%08x, want=0x%08x", got, want)
	}

	err = dev.WriteField("GLOBAL_CFG_1", "FLUSH_EN", 0)
	if err != nil {
		t.Fatalf("could not write field: %+v", err)
	}

	cnt, err := dev.ReadField("GLOBAL_CFG_1", "CONFIG_COUNTER")
	if err != nil {
		t.Fatalf("could not read field: %+v", err)
	}
	if got, want := cnt, uint32(0xab); got != want {
		t.Fatalf("invalid CONFIG_COUNTER: got=0x%x, want=0x%x", got, want)
	}

	if got, want := u32(buf, regmap.GlobalCfg1Offset), uint32(0x0ab00000); got != want {
		t.Fatalf("invalid GLOBAL_CFG_1: got=0x%08x, want=0x%08x", got, want)
	}

	for _, tc := range []struct {
		name string
		err  error
		f    func() error
	}{
		{
			name: "unknown-register",
			err:  regmap.ErrUnknownRegister,
			f:    func() error { _, err := dev.ReadReg("GLOBAL_CFG_3"); return err },
		},
		{
			name: "unknown-field",
			err:  regmap.ErrUnknownField,
			f:    func() error { return dev.WriteField("GLOBAL_CFG_1", "NOPE", 1) },
		},
		{
			name: "value-range",
			err:  regmap.ErrValueRange,
			f:    func() error { return dev.WriteField("GLOBAL_CFG_1", "CONFIG_COUNTER", 0x100) },
		},
		{
			name: "bit-range",
			err:  regmap.ErrValueRange,
			f:    func() error { return dev.WriteField("GLOBAL_CFG_2", "CMPT_EN", 2) },
		},
		{
			name: "unknown-group",
			err:  regmap.ErrUnknownGroup,
			f:    func() error { _, err := dev.ReadGroup("GLOBAL_CFG_1"); return err },
		},
		{
			name: "group-size",
			err:  regmap.ErrIndex,
			f:    func() error { return dev.WriteGroup("WBL_FLOATING", make([]uint32, 8)) },
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.f()
			if !errors.Is(err, tc.err) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.err)
			}
		})
	}

	if got, want := u32(buf, regmap.GlobalCfg1Offset), uint32(0x0ab00000); got != want {
		t.Fatalf("invalid GLOBAL_CFG_1 after failed writes: got=0x%08x, want=0x%08x", got, want)
	}
}

func TestGroupAccess(t *testing.T) {
	dev, buf := newTestDevice(t)

	vs := make([]uint32, regmap.WBLFloatingMultiregCount)
	for i := range vs {
		vs[i] = uint32(i+1) * 0x01010101
	}

	err := dev.WriteGroup("WBL_FLOATING", vs)
	if err != nil {
		t.Fatalf("could not write group: %+v", err)
	}

	for i, want := range vs {
		off := uint32(regmap.WBLFloatingOffset + 4*i)
		if got := u32(buf, off); got != want {
			t.Fatalf("invalid WBL_FLOATING_%d: got=0x%x, want=0x%x", i, got, want)
		}
	}

	// neighbours are untouched.
	if got := u32(buf, regmap.HRdataOffset+4*(regmap.HRdataMultiregCount-1)); got != 0 {
		t.Fatalf("H_RDATA_31 overwritten: 0x%x", got)
	}
	if got := u32(buf, regmap.DebugJOneHotWWLOffset); got != 0 {
		t.Fatalf("DEBUG_J_ONE_HOT_WWL_0 overwritten: 0x%x", got)
	}

	got, err := dev.ReadGroup("WBL_FLOATING")
	if err != nil {
		t.Fatalf("could not read group: %+v", err)
	}
	if len(got) != len(vs) {
		t.Fatalf("invalid group size: got=%d, want=%d", len(got), len(vs))
	}
	for i := range vs {
		if got[i] != vs[i] {
			t.Fatalf("invalid WBL_FLOATING_%d: got=0x%x, want=0x%x", i, got[i], vs[i])
		}
	}

	v, err := dev.ReadReg("WBL_FLOATING_31")
	if err != nil {
		t.Fatalf("could not read group element: %+v", err)
	}
	if got, want := v, vs[31]; got != want {
		t.Fatalf("invalid WBL_FLOATING_31: got=0x%x, want=0x%x", got, want)
	}
}

func TestStartStopFlush(t *testing.T) {
	buf := make([]byte, regmap.Core().Span())
	rw := &rwLog{Handle: mmap.HandleFrom(buf)}
	dev := NewDevice(rw, WithLogger(log.New(io.Discard, "", 0)))

	put32(buf, regmap.GlobalCfg2Offset, 0x3f<<regmap.GlobalCfg2DGTAddrUpperBoundOffset)
	put32(buf, regmap.GlobalCfg1Offset, 0xab<<regmap.GlobalCfg1ConfigCounterOffset)

	err := dev.Start()
	if err != nil {
		t.Fatalf("could not start: %+v", err)
	}
	if got, want := u32(buf, regmap.GlobalCfg2Offset), uint32(0x3f00|1); got != want {
		t.Fatalf("invalid GLOBAL_CFG_2 after start: got=0x%x, want=0x%x", got, want)
	}

	err = dev.Stop()
	if err != nil {
		t.Fatalf("could not stop: %+v", err)
	}
	if got, want := u32(buf, regmap.GlobalCfg2Offset), uint32(0x3f00); got != want {
		t.Fatalf("invalid GLOBAL_CFG_2 after stop: got=0x%x, want=0x%x", got, want)
	}

	rw.writes = rw.writes[:0]
	rw.offs = rw.offs[:0]
	err = dev.Flush()
	if err != nil {
		t.Fatalf("could not flush: %+v", err)
	}

	if got, want := rw.writes, []uint32{0x0ab00001, 0x0ab00000}; fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("invalid flush pulse: got=%x, want=%x", got, want)
	}
	for _, off := range rw.offs {
		if off != regmap.GlobalCfg1Offset {
			t.Fatalf("invalid flush write offset: 0x%x", off)
		}
	}
}

func TestStatus(t *testing.T) {
	dev, buf := newTestDevice(t)

	put32(buf, regmap.OutputStatusOffset, 1<<regmap.OutputStatusCMPTIdleBit|1<<regmap.OutputStatusSpinFIFOUpdateBit|1<<regmap.OutputStatusDebugEMUpstreamHandshakeBit)

	st, err := dev.Status()
	if err != nil {
		t.Fatalf("could not read status: %+v", err)
	}

	want := Status{
		Raw:               0x200a,
		CMPTIdle:          true,
		SpinFIFOUpdate:    true,
		DebugEMUpstreamHS: true,
	}
	if st != want {
		t.Fatalf("invalid status:\ngot= %+v\nwant=%+v", st, want)
	}
	if st.Idle() {
		t.Fatalf("status should not be idle")
	}
}

func TestWaitIdle(t *testing.T) {
	dev, buf := newTestDevice(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := dev.WaitIdle(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, context.DeadlineExceeded)
	}

	put32(buf, regmap.OutputStatusOffset, 0x3)
	err = dev.WaitIdle(context.Background())
	if err != nil {
		t.Fatalf("could not wait for idle: %+v", err)
	}
}

func TestWaitIdleBecomesIdle(t *testing.T) {
	buf := make([]byte, regmap.Core().Span())
	rw := &idleAfter{Handle: mmap.HandleFrom(buf), n: 5}
	dev := NewDevice(rw,
		WithLogger(log.New(io.Discard, "", 0)),
		WithPollInterval(time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := dev.WaitIdle(ctx)
	if err != nil {
		t.Fatalf("could not wait for idle: %+v", err)
	}
	if rw.n != 0 {
		t.Fatalf("invalid number of polls: remaining=%d", rw.n)
	}
}

// idleAfter reports a busy status for the first n status reads.
type idleAfter struct {
	*mmap.Handle
	n int
}

func (rw *idleAfter) ReadU32(off int64) (uint32, error) {
	if off == regmap.OutputStatusOffset {
		v := uint32(0x3)
		if rw.n > 0 {
			rw.n--
			v = 0x1
		}
		return v, nil
	}
	return rw.Handle.ReadU32(off)
}

func TestPollInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		t.Run(d.String(), func(t *testing.T) {
			dev, buf := newTestDevice(t, WithPollInterval(d))
			if got, want := dev.cfg.poll, time.Millisecond; got != want {
				t.Fatalf("invalid poll interval: got=%v, want=%v", got, want)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			err := dev.WaitIdle(ctx)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, context.DeadlineExceeded)
			}

			put32(buf, regmap.OutputStatusOffset, 0x3)
			err = dev.WaitIdle(context.Background())
			if err != nil {
				t.Fatalf("could not wait for idle: %+v", err)
			}
		})
	}

	buf := make([]byte, regmap.Core().Span())
	dev := NewDevice(mmap.HandleFrom(buf), WithPollInterval(-1))
	if got, want := dev.cfg.poll, defaultPoll; got != want {
		t.Fatalf("invalid default poll interval: got=%v, want=%v", got, want)
	}
}

func TestWordAccess(t *testing.T) {
	for _, tc := range []struct {
		name string
		rw   func(buf []byte) rwer
	}{
		{"words", func(buf []byte) rwer { return wordOnly{mmap.HandleFrom(buf)} }},
		{"bytes", func(buf []byte) rwer { return byteOnly{mmap.HandleFrom(buf)} }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, regmap.Core().Span())
			dev := NewDevice(tc.rw(buf), WithLogger(log.New(io.Discard, "", 0)))

			want := newTestConfig()
			err := dev.Configure(want)
			if err != nil {
				t.Fatalf("could not configure device: %+v", err)
			}

			got, err := dev.ReadConfig()
			if err != nil {
				t.Fatalf("could not read back configuration: %+v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("invalid configuration read-back:\ngot= %+v\nwant=%+v", got, want)
			}

			put32(buf, regmap.EnergyFIFOData0Offset, 0xcafe)
			snap, err := dev.Snapshot()
			if err != nil {
				t.Fatalf("could not snapshot device: %+v", err)
			}
			if got, want := snap["ENERGY_FIFO_DATA_0"], []uint32{0xcafe}; !reflect.DeepEqual(got, want) {
				t.Fatalf("invalid ENERGY_FIFO_DATA_0: got=%x, want=%x", got, want)
			}
			if got, want := snap["H_RDATA"][31], uint32(0x5555001f); got != want {
				t.Fatalf("invalid H_RDATA_31: got=0x%x, want=0x%x", got, want)
			}
		})
	}
}

func TestSnapshotShortWindow(t *testing.T) {
	buf := make([]byte, regmap.Core().Span())
	dev := NewDevice(wordOnly{mmap.HandleFrom(buf[:regmap.OutputStatusOffset+2])},
		WithLogger(log.New(io.Discard, "", 0)),
		WithSpan(len(buf)),
	)

	_, err := dev.Snapshot()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, io.ErrUnexpectedEOF)
	}
}

func TestReadout(t *testing.T) {
	dev, buf := newTestDevice(t)

	put32(buf, regmap.EnergyFIFOData0Offset, 0x89abcdef)
	put32(buf, regmap.EnergyFIFOData1Offset, 0x01234567)
	for i := 0; i < regmap.SpinFIFOData0MultiregCount; i++ {
		put32(buf, uint32(regmap.SpinFIFOData0Offset+4*i), uint32(0x100+i))
		put32(buf, uint32(regmap.SpinFIFOData1Offset+4*i), uint32(0x200+i))
	}
	for i := 0; i < regmap.DebugJReadDataMultiregCount; i++ {
		put32(buf, uint32(regmap.DebugJReadDataOffset+4*i), uint32(0x300+i))
	}

	e, err := dev.Energy()
	if err != nil {
		t.Fatalf("could not read energy: %+v", err)
	}
	if got, want := e, uint64(0x0123456789abcdef); got != want {
		t.Fatalf("invalid energy: got=0x%x, want=0x%x", got, want)
	}

	spins, err := dev.Spins()
	if err != nil {
		t.Fatalf("could not read spins: %+v", err)
	}
	for i := range spins[0] {
		if got, want := spins[0][i], uint32(0x100+i); got != want {
			t.Fatalf("invalid spin[0][%d]: got=0x%x, want=0x%x", i, got, want)
		}
		if got, want := spins[1][i], uint32(0x200+i); got != want {
			t.Fatalf("invalid spin[1][%d]: got=0x%x, want=0x%x", i, got, want)
		}
	}

	j, err := dev.ReadJ()
	if err != nil {
		t.Fatalf("could not read J: %+v", err)
	}
	for i := range j {
		if got, want := j[i], uint32(0x300+i); got != want {
			t.Fatalf("invalid J[%d]: got=0x%x, want=0x%x", i, got, want)
		}
	}
}

func TestSnapshot(t *testing.T) {
	dev, buf := newTestDevice(t)

	for off := 0; off < len(buf); off += 4 {
		put32(buf, uint32(off), uint32(off)|0xa5000000)
	}

	snap, err := dev.Snapshot()
	if err != nil {
		t.Fatalf("could not snapshot device: %+v", err)
	}

	if got, want := len(snap), 10+14; got != want {
		t.Fatalf("invalid snapshot size: got=%d, want=%d", got, want)
	}

	m := regmap.Core()
	for _, reg := range m.Regs {
		var (
			v  uint32
			vs []uint32
			ok bool
		)
		switch reg.Group {
		case "":
			vs, ok = snap[reg.Name]
			if !ok || len(vs) != 1 {
				t.Fatalf("missing register %s in snapshot", reg.Name)
			}
			v = vs[0]
		default:
			vs, ok = snap[reg.Group]
			if !ok || len(vs) <= reg.Index {
				t.Fatalf("missing register %s in snapshot", reg.Name)
			}
			v = vs[reg.Index]
		}
		if got, want := v, reg.Offset|0xa5000000; got != want {
			t.Fatalf("invalid %s: got=0x%x, want=0x%x", reg.Name, got, want)
		}
	}
}

func TestStickyError(t *testing.T) {
	errIO := errors.New("bus error")
	dev := NewDevice(failRW{errIO}, WithLogger(log.New(io.Discard, "", 0)))

	_, err := dev.ReadReg("OUTPUT_STATUS")
	if !errors.Is(err, errIO) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, errIO)
	}

	if !errors.Is(dev.Err(), errIO) {
		t.Fatalf("error not recorded: %+v", dev.Err())
	}

	for _, tc := range []struct {
		name string
		f    func() error
	}{
		{"start", dev.Start},
		{"stop", dev.Stop},
		{"flush", dev.Flush},
		{"energy", func() error { _, err := dev.Energy(); return err }},
		{"status", func() error { _, err := dev.Status(); return err }},
		{"snapshot", func() error { _, err := dev.Snapshot(); return err }},
		{"wait-idle", func() error { return dev.WaitIdle(context.Background()) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.f()
			if !errors.Is(err, errIO) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, errIO)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	tmp := t.TempDir()
	fname := filepath.Join(tmp, "dev.mem")

	err := os.WriteFile(fname, make([]byte, defaultSpan), 0644)
	if err != nil {
		t.Fatalf("could not create fake dev-mem: %+v", err)
	}

	_, err = Open(filepath.Join(tmp, "not-there"))
	if err == nil {
		t.Fatalf("expected an error opening a missing device")
	}

	_, err = Open(fname, WithSpan(0x100))
	if err == nil {
		t.Fatalf("expected an error with a too small register window")
	}

	dev, err := Open(fname, WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("could not open device: %+v", err)
	}
	defer dev.Close()

	err = dev.WriteReg("COUNTER_CFG_4", 0xdeadbeef)
	if err != nil {
		t.Fatalf("could not write register: %+v", err)
	}

	err = dev.Close()
	if err != nil {
		t.Fatalf("could not close device: %+v", err)
	}

	raw, err := os.ReadFile(fname)
	if err != nil {
		t.Fatalf("could not read back fake dev-mem: %+v", err)
	}
	if got, want := u32(raw, regmap.CounterCfg4Offset), uint32(0xdeadbeef); got != want {
		t.Fatalf("invalid COUNTER_CFG_4: got=0x%x, want=0x%x", got, want)
	}

	_, err = dev.ReadReg("COUNTER_CFG_4")
	if !errors.Is(err, errClosed) {
		t.Fatalf("invalid error on closed device: %+v", err)
	}
}
