// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"bufio"
	"fmt"
	"io"
)

// DumpRegisters writes the content of every register, with its
// decoded fields, to w.
func (dev *Device) DumpRegisters(w io.Writer) error {
	snap, err := dev.Snapshot()
	if err != nil {
		return fmt.Errorf("core: could not dump registers: %w", err)
	}

	var (
		buf    = bufio.NewWriter(w)
		printf = func(format string, args ...interface{}) {
			_, e := fmt.Fprintf(buf, format, args...)
			if err == nil {
				err = e
			}
		}
	)
	defer buf.Flush()

	printf("---- %s registers -------\n", dev.regs.Name)
	for _, reg := range dev.regs.Regs {
		var v uint32
		switch reg.Group {
		case "":
			v = snap[reg.Name][0]
		default:
			v = snap[reg.Group][reg.Index]
		}
		printf("0x%03x %-28s 0x%08x\n", reg.Offset, reg.Name, v)
		for _, f := range reg.Fields {
			printf("      %-36s %d\n", f.String()+":", f.Get(v))
		}
	}

	if err != nil {
		return fmt.Errorf("core: could not dump registers: %w", err)
	}

	err = buf.Flush()
	if err != nil {
		return fmt.Errorf("core: could not dump registers: %w", err)
	}

	return nil
}

// DumpStatus writes the decoded OUTPUT_STATUS register to w.
func (dev *Device) DumpStatus(w io.Writer) error {
	st, err := dev.Status()
	if err != nil {
		return fmt.Errorf("core: could not dump status: %w", err)
	}

	var (
		buf    = bufio.NewWriter(w)
		printf = func(format string, args ...interface{}) {
			_, e := fmt.Fprintf(buf, format, args...)
			if err == nil {
				err = e
			}
		}
		b2i = func(v bool) int {
			if v {
				return 1
			}
			return 0
		}
	)
	defer buf.Flush()

	printf("---- status 0x%08x -------\n", st.Raw)
	printf("idle:   ")
	printf("\t dt-cfg:\t %d", b2i(st.DTCfgIdle))
	printf("\t cmpt:\t %d\n", b2i(st.CMPTIdle))
	printf("fifo:   ")
	printf("\t energy:\t %d", b2i(st.EnergyFIFOUpdate))
	printf("\t spin:\t %d\n", b2i(st.SpinFIFOUpdate))
	printf("debug:  ")
	printf("\t j-valid:\t %d", b2i(st.DebugJReadDataValid))
	printf("\t dt-w:\t %d", b2i(st.DebugAnalogDTWIdle))
	printf("\t dt-r:\t %d", b2i(st.DebugAnalogDTRIdle))
	printf("\t spin-w:\t %d", b2i(st.DebugSpinWIdle))
	printf("\t spin-r:\t %d", b2i(st.DebugSpinRIdle))
	printf("\t spin-cmpt:\t %d\n", b2i(st.DebugSpinCMPTIdle))
	printf("handshake:")
	printf("\t fm-up:\t %d", b2i(st.DebugFMUpstreamHS))
	printf("\t fm-down:\t %d", b2i(st.DebugFMDownstreamHS))
	printf("\t aw-down:\t %d", b2i(st.DebugAWDownstreamHS))
	printf("\t em-up:\t %d\n", b2i(st.DebugEMUpstreamHS))

	if err != nil {
		return fmt.Errorf("core: could not dump status: %w", err)
	}

	err = buf.Flush()
	if err != nil {
		return fmt.Errorf("core: could not dump status: %w", err)
	}

	return nil
}
