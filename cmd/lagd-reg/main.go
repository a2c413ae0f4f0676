// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lagd-reg inspects and drives the lagd_core register bank.
//
// Usage: lagd-reg [OPTIONS] CMD [ARGS...]
//
// Example:
//
//	$> lagd-reg -dev /dev/mem -base 0xff200000 get GLOBAL_CFG_1.CONFIG_COUNTER
//	GLOBAL_CFG_1.CONFIG_COUNTER[27:20] = 171 (0xab)
//
//	$> lagd-reg -i
//	lagd> dump
//	[...]
package main // import "github.com/go-lpc/lagd/cmd/lagd-reg"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/go-lpc/lagd/cfgdb"
	"github.com/go-lpc/lagd/core"
)

func main() {
	log.SetPrefix("lagd-reg: ")
	log.SetFlags(0)

	var (
		devmem  = flag.String("dev", "/dev/mem", "path to the memory device")
		base    = flag.Int64("base", 0, "physical address of the lagd_core register bank")
		span    = flag.Int("span", 0x1000, "size of the register window")
		inter   = flag.Bool("i", false, "enable interactive shell")
		dbname  = flag.String("db", "", "name of the configuration database")
		timeout = flag.Duration("timeout", 5*time.Second, "timeout for blocking operations")
		nocolor = flag.Bool("nocolor", false, "disable colored output")
	)

	flag.Usage = func() {
		fmt.Printf(`lagd-reg inspects and drives the lagd_core register bank.

Usage: lagd-reg [OPTIONS] CMD [ARGS...]

`)
		printHelp(os.Stdout)
		fmt.Printf("\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if !*inter && flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing command")
	}

	err := run(context.Background(), options{
		devmem:  *devmem,
		base:    *base,
		span:    *span,
		inter:   *inter,
		dbname:  *dbname,
		timeout: *timeout,
		color:   !*nocolor && !color.NoColor,
	}, flag.Args())
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

type options struct {
	devmem  string
	base    int64
	span    int
	inter   bool
	dbname  string
	timeout time.Duration
	color   bool
}

func run(ctx context.Context, opts options, args []string) error {
	sh := newShell(os.Stdout, opts)

	if len(args) > 0 && offline(args[0]) {
		return sh.exec(ctx, args)
	}

	dev, err := core.Open(opts.devmem,
		core.WithBase(opts.base),
		core.WithSpan(opts.span),
		core.WithLogger(log.New(os.Stderr, "lagd: ", 0)),
	)
	if err != nil {
		return fmt.Errorf("could not open lagd_core device: %w", err)
	}
	defer dev.Close()
	sh.dev = dev

	if opts.dbname != "" {
		db, err := cfgdb.Open(opts.dbname)
		if err != nil {
			return fmt.Errorf("could not open configuration db: %w", err)
		}
		defer db.Close()
		sh.db = db
	}

	if opts.inter {
		return sh.interact(ctx)
	}

	err = sh.exec(ctx, args)
	if err != nil {
		return err
	}

	return dev.Close()
}
