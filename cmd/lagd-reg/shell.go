// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-lpc/lagd"
	"github.com/go-lpc/lagd/core"
	"github.com/go-lpc/lagd/regmap"
	"github.com/peterh/liner"
)

type command struct {
	name  string
	args  string
	help  string
	nodev bool // command does not access the device
	run   func(sh *shell, ctx context.Context, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"check", "[HEADER]", "validate the register map, and compare it with a C header", true, (*shell).check},
		{"header", "", "write the register map as a C header", true, (*shell).header},
		{"list", "", "list registers, fields and multiregister groups", true, (*shell).list},
		{"dump", "", "dump all registers with their decoded fields", false, (*shell).dump},
		{"status", "", "display the decoded OUTPUT_STATUS register", false, (*shell).status},
		{"read", "OFFSET", "read the register at OFFSET", false, (*shell).read},
		{"write", "OFFSET VALUE", "write VALUE to the register at OFFSET", false, (*shell).write},
		{"get", "NAME", "read a register (REG), a field (REG.FIELD) or a group", false, (*shell).get},
		{"set", "NAME VALUE...", "write a register (REG), a field (REG.FIELD) or a group", false, (*shell).set},
		{"configure", "FILE|NAME", "configure the device from a JSON file or a named configuration", false, (*shell).configure},
		{"config", "", "display the configuration held by the device as JSON", false, (*shell).config},
		{"configs", "", "list the named configurations of the database", false, (*shell).configs},
		{"flush", "", "pulse FLUSH_EN", false, (*shell).flush},
		{"start", "", "enable the computation", false, (*shell).start},
		{"stop", "", "disable the computation", false, (*shell).stop},
		{"wait", "", "wait for the device to be idle", false, (*shell).wait},
		{"readout", "", "read the energy and spin FIFOs", false, (*shell).readout},
		{"version", "", "display the version of lagd", true, (*shell).version},
		{"help", "", "display this help message", true, (*shell).help},
	}
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

// offline reports whether the named command can run without a device.
func offline(name string) bool {
	cmd, ok := lookup(name)
	return ok && cmd.nodev
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-30s %s\n", strings.TrimSpace(cmd.name+" "+cmd.args), cmd.help)
	}
}

type shell struct {
	w       io.Writer
	dev     *core.Device
	db      core.ConfigSource
	color   bool
	timeout time.Duration
}

func newShell(w io.Writer, opts options) *shell {
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &shell{
		w:       w,
		color:   opts.color,
		timeout: timeout,
	}
}

func (sh *shell) exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, ok := lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	if !cmd.nodev && sh.dev == nil {
		return fmt.Errorf("%s: no lagd_core device", cmd.name)
	}
	err := cmd.run(sh, ctx, args[1:])
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.name, err)
	}
	return nil
}

func (sh *shell) interact(ctx context.Context) error {
	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)
	term.SetCompleter(sh.complete)

	hist := history()
	if f, err := os.Open(hist); err == nil {
		_, _ = term.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		f, err := os.Create(hist)
		if err != nil {
			return
		}
		defer f.Close()
		_, _ = term.WriteHistory(f)
	}()

	for {
		line, err := term.Prompt("lagd> ")
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(sh.w)
			return nil
		case err != nil:
			return fmt.Errorf("could not read command: %w", err)
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		term.AppendHistory(line)

		switch args[0] {
		case "quit", "exit":
			return nil
		}

		err = sh.exec(ctx, args)
		if err != nil {
			fmt.Fprintf(sh.w, "error: %+v\n", err)
		}
	}
}

func history() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, ".lagd_history")
}

// complete completes commands and register, field and group names.
func (sh *shell) complete(line string) []string {
	var (
		i     = strings.LastIndex(line, " ") + 1
		head  = line[:i]
		word  = strings.ToUpper(line[i:])
		out   []string
		match = func(name string) {
			if strings.HasPrefix(name, word) {
				out = append(out, head+name)
			}
		}
	)

	if i == 0 {
		for _, cmd := range commands {
			if strings.HasPrefix(cmd.name, line) {
				out = append(out, cmd.name)
			}
		}
		return out
	}

	m := regmap.Core()
	for _, g := range m.Multi {
		match(g.Name)
	}
	for _, reg := range m.Regs {
		match(reg.Name)
		for _, f := range reg.Fields {
			match(reg.Name + "." + f.Name)
		}
	}
	sort.Strings(out)
	return out
}

func (sh *shell) help(ctx context.Context, args []string) error {
	printHelp(sh.w)
	return nil
}

func (sh *shell) version(ctx context.Context, args []string) error {
	v, sum := lagd.Version()
	if v == "" {
		v = "(devel)"
	}
	fmt.Fprintf(sh.w, "lagd %s %s\n", v, sum)
	return nil
}

func (sh *shell) check(ctx context.Context, args []string) error {
	m := regmap.Core()
	err := m.Validate()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintf(sh.w, "%s: %d registers, %d groups: OK\n", m.Name, len(m.Regs), len(m.Multi))
		return nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("could not open header: %w", err)
	}
	defer f.Close()

	hdr, err := regmap.ParseHeader(f)
	if err != nil {
		return fmt.Errorf("could not parse header %q: %w", args[0], err)
	}

	err = hdr.Validate()
	if err != nil {
		return fmt.Errorf("invalid header %q: %w", args[0], err)
	}

	err = diff(hdr, m)
	if err != nil {
		return fmt.Errorf("header %q does not match %s: %w", args[0], m.Name, err)
	}

	fmt.Fprintf(sh.w, "%s: %d registers, %d groups: OK\n", args[0], len(hdr.Regs), len(hdr.Multi))
	return nil
}

// diff reports the registers and groups that differ between got and want.
func diff(got, want *regmap.Map) error {
	var errs []error
	if got.Name != want.Name {
		errs = append(errs, fmt.Errorf("name: got=%q, want=%q", got.Name, want.Name))
	}
	for _, w := range want.Regs {
		g, err := got.Register(w.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if g.Offset != w.Offset {
			errs = append(errs, fmt.Errorf("%s: offset: got=0x%x, want=0x%x", w.Name, g.Offset, w.Offset))
		}
		if !reflect.DeepEqual(g.Fields, w.Fields) {
			errs = append(errs, fmt.Errorf("%s: fields: got=%v, want=%v", w.Name, g.Fields, w.Fields))
		}
	}
	if len(got.Regs) != len(want.Regs) {
		errs = append(errs, fmt.Errorf("registers: got=%d, want=%d", len(got.Regs), len(want.Regs)))
	}
	for _, w := range want.Multi {
		g, err := got.Group(w.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if g != w {
			errs = append(errs, fmt.Errorf("%s: group: got=%+v, want=%+v", w.Name, g, w))
		}
	}
	return errors.Join(errs...)
}

func (sh *shell) header(ctx context.Context, args []string) error {
	return regmap.WriteHeader(sh.w, regmap.Core())
}

func (sh *shell) list(ctx context.Context, args []string) error {
	var (
		m      = regmap.Core()
		w      = bufio.NewWriter(sh.w)
		groups = make(map[string]bool)
	)
	defer w.Flush()

	for _, reg := range m.Regs {
		if reg.Group != "" {
			if groups[reg.Group] {
				continue
			}
			groups[reg.Group] = true
			g, err := m.Group(reg.Group)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "0x%03x %-28s [%d]x%d bits\n", g.Base, g.Name, g.Count, g.FieldWidth)
			continue
		}
		fmt.Fprintf(w, "0x%03x %-28s %s\n", reg.Offset, reg.Name, reg.Desc)
		for _, f := range reg.Fields {
			fmt.Fprintf(w, "      %s\n", f)
		}
	}
	return w.Flush()
}

func (sh *shell) dump(ctx context.Context, args []string) error {
	if !sh.color {
		return sh.dev.DumpRegisters(sh.w)
	}

	snap, err := sh.dev.Snapshot()
	if err != nil {
		return err
	}

	var (
		m     = sh.dev.Map()
		w     = bufio.NewWriter(sh.w)
		title = color.New(color.Bold)
		name  = color.New(color.FgCyan)
		zero  = color.New(color.Faint)
		value = color.New(color.FgYellow, color.Bold)
	)
	defer w.Flush()

	title.Fprintf(w, "---- %s registers -------\n", m.Name)
	for _, reg := range m.Regs {
		var v uint32
		switch reg.Group {
		case "":
			v = snap[reg.Name][0]
		default:
			v = snap[reg.Group][reg.Index]
		}
		val := value
		if v == 0 {
			val = zero
		}
		fmt.Fprintf(w, "0x%03x ", reg.Offset)
		name.Fprintf(w, "%-28s", reg.Name)
		val.Fprintf(w, " 0x%08x\n", v)
		for _, f := range reg.Fields {
			fmt.Fprintf(w, "      %-36s %d\n", f.String()+":", f.Get(v))
		}
	}
	return w.Flush()
}

func (sh *shell) status(ctx context.Context, args []string) error {
	return sh.dev.DumpStatus(sh.w)
}

func (sh *shell) read(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	off, err := parseU32(args[0])
	if err != nil {
		return err
	}
	v, err := sh.dev.Read32(off)
	if err != nil {
		return err
	}
	name := "?"
	if reg, ok := sh.dev.Map().At(off); ok {
		name = reg.Name
	}
	fmt.Fprintf(sh.w, "0x%03x %-28s 0x%08x\n", off, name, v)
	return nil
}

func (sh *shell) write(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	off, err := parseU32(args[0])
	if err != nil {
		return err
	}
	v, err := parseU32(args[1])
	if err != nil {
		return err
	}
	return sh.dev.Write32(off, v)
}

func (sh *shell) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument, got %d", len(args))
	}

	if g, err := sh.dev.Map().Group(strings.ToUpper(args[0])); err == nil {
		vs, err := sh.dev.ReadGroup(g.Name)
		if err != nil {
			return err
		}
		for i, v := range vs {
			fmt.Fprintf(sh.w, "%s = 0x%08x\n", g.RegName(i), v)
		}
		return nil
	}

	reg, f, err := sh.dev.Map().Lookup(args[0])
	if err != nil {
		return err
	}
	if f == nil {
		v, err := sh.dev.ReadReg(reg.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.w, "%s = 0x%08x\n", reg.Name, v)
		return nil
	}

	v, err := sh.dev.ReadField(reg.Name, f.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.w, "%s.%s = %d (0x%x)\n", reg.Name, f, v, v)
	return nil
}

func (sh *shell) set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("expected at least 2 arguments, got %d", len(args))
	}

	vs := make([]uint32, len(args)-1)
	for i, arg := range args[1:] {
		v, err := parseU32(arg)
		if err != nil {
			return err
		}
		vs[i] = v
	}

	if g, err := sh.dev.Map().Group(strings.ToUpper(args[0])); err == nil {
		return sh.dev.WriteGroup(g.Name, vs)
	}

	if len(vs) != 1 {
		return fmt.Errorf("%s is not a multiregister group: expected a single value, got %d", args[0], len(vs))
	}

	reg, f, err := sh.dev.Map().Lookup(args[0])
	if err != nil {
		return err
	}
	if f == nil {
		return sh.dev.WriteReg(reg.Name, vs[0])
	}
	return sh.dev.WriteField(reg.Name, f.Name, vs[0])
}

func (sh *shell) configure(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument, got %d", len(args))
	}

	cfg, err := sh.load(ctx, args[0])
	if err != nil {
		return err
	}

	return sh.dev.Configure(cfg)
}

// load reads the configuration from the named JSON file or, when no such
// file exists, from the configuration database.
func (sh *shell) load(ctx context.Context, name string) (core.Config, error) {
	f, err := os.Open(name)
	switch {
	case err == nil:
		defer f.Close()
		return core.LoadConfig(f)
	case !errors.Is(err, os.ErrNotExist):
		return core.Config{}, fmt.Errorf("could not open configuration file: %w", err)
	case sh.db == nil:
		return core.Config{}, fmt.Errorf("no such configuration file %q (and no configuration db)", name)
	}

	ctx, cancel := context.WithTimeout(ctx, sh.timeout)
	defer cancel()
	return sh.db.Config(ctx, name)
}

func (sh *shell) config(ctx context.Context, args []string) error {
	cfg, err := sh.dev.ReadConfig()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(sh.w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

type configLister interface {
	Configs(ctx context.Context) ([]string, error)
}

func (sh *shell) configs(ctx context.Context, args []string) error {
	db, ok := sh.db.(configLister)
	if !ok {
		return fmt.Errorf("no configuration db")
	}

	ctx, cancel := context.WithTimeout(ctx, sh.timeout)
	defer cancel()

	names, err := db.Configs(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(sh.w, name)
	}
	return nil
}

func (sh *shell) flush(ctx context.Context, args []string) error {
	return sh.dev.Flush()
}

func (sh *shell) start(ctx context.Context, args []string) error {
	return sh.dev.Start()
}

func (sh *shell) stop(ctx context.Context, args []string) error {
	return sh.dev.Stop()
}

func (sh *shell) wait(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, sh.timeout)
	defer cancel()
	return sh.dev.WaitIdle(ctx)
}

func (sh *shell) readout(ctx context.Context, args []string) error {
	e, err := sh.dev.Energy()
	if err != nil {
		return err
	}
	spins, err := sh.dev.Spins()
	if err != nil {
		return err
	}

	fmt.Fprintf(sh.w, "energy: 0x%016x\n", e)
	for i, vs := range spins {
		fmt.Fprintf(sh.w, "spins-%d:", i)
		for _, v := range vs {
			fmt.Fprintf(sh.w, " 0x%08x", v)
		}
		fmt.Fprintf(sh.w, "\n")
	}
	return nil
}

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return uint32(v), nil
}
