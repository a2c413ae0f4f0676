// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lagd-srv starts a TDAQ server driving a lagd_core accelerator.
//
// The command line is handled by the TDAQ flags package.
// The device is selected with environment variables:
//   - LAGD_DEV: path to the memory device (default: /dev/mem)
//   - LAGD_BASE: physical address of the register bank (default: 0)
//   - LAGD_SPAN: size of the register window (default: 0x1000)
//   - LAGD_POLL: polling interval of the readout loop (default: 10ms)
//   - LAGD_CONFIG: name of the run configuration applied on /config (default: none)
//   - LAGD_DB: name of the configuration database (default: none)
//
// Without LAGD_DB, LAGD_CONFIG is the path to a JSON configuration file.
// The server exits cleanly on /quit, SIGINT or SIGTERM.
package main // import "github.com/go-lpc/lagd/cmd/lagd-srv"

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"github.com/go-lpc/lagd/cfgdb"
	"github.com/go-lpc/lagd/core"
)

func main() {
	log.SetPrefix("lagd-srv: ")
	log.SetFlags(0)

	cmd := flags.New()
	srv := tdaq.New(cmd, os.Stdout)

	env, err := loadEnv(os.Getenv)
	if err != nil {
		log.Fatalf("could not load environment: %+v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, srv, env)
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

func run(ctx context.Context, srv *tdaq.Server, env environ) error {
	dev, err := core.Open(env.dev,
		core.WithBase(env.base),
		core.WithSpan(env.span),
		core.WithPollInterval(env.poll),
	)
	if err != nil {
		return fmt.Errorf("could not open lagd_core device: %w", err)
	}
	defer dev.Close()

	var src core.ConfigSource = core.ConfigDir("")
	if env.db != "" {
		db, err := cfgdb.Open(env.db)
		if err != nil {
			return fmt.Errorf("could not open configuration db: %w", err)
		}
		defer db.Close()
		src = db
	}

	core.NewServer(dev, src, env.cfg).Handle(srv)

	err = srv.Run(ctx)
	switch {
	case err == nil:
		// received /quit.
	case errors.Is(err, context.Canceled):
		log.Printf("interrupted: shutting down...")
	default:
		return err
	}

	err = dev.Stop()
	if err != nil {
		return fmt.Errorf("could not stop accelerator: %w", err)
	}

	return dev.Close()
}

type environ struct {
	dev  string
	base int64
	span int
	poll time.Duration
	cfg  string
	db   string
}

func loadEnv(getenv func(string) string) (environ, error) {
	env := environ{
		dev:  "/dev/mem",
		span: 0x1000,
		poll: 10 * time.Millisecond,
		cfg:  getenv("LAGD_CONFIG"),
		db:   getenv("LAGD_DB"),
	}

	if v := getenv("LAGD_DEV"); v != "" {
		env.dev = v
	}

	if v := getenv("LAGD_BASE"); v != "" {
		base, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return env, fmt.Errorf("invalid LAGD_BASE %q: %w", v, err)
		}
		env.base = base
	}

	if v := getenv("LAGD_SPAN"); v != "" {
		span, err := strconv.ParseInt(v, 0, 32)
		if err != nil {
			return env, fmt.Errorf("invalid LAGD_SPAN %q: %w", v, err)
		}
		env.span = int(span)
	}

	if v := getenv("LAGD_POLL"); v != "" {
		poll, err := time.ParseDuration(v)
		if err != nil {
			return env, fmt.Errorf("invalid LAGD_POLL %q: %w", v, err)
		}
		if poll <= 0 {
			return env, fmt.Errorf("invalid LAGD_POLL %q: must be positive", v)
		}
		env.poll = poll
	}

	return env, nil
}
