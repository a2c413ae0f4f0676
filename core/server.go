// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-lpc/lagd/regmap"
)

const sampleSize = 8 + 2*regmap.SpinFIFOData0MultiregCount*4

// Sample is one readout of the energy and spin FIFOs.
type Sample struct {
	Energy uint64
	Spins  [2][regmap.SpinFIFOData0MultiregCount]uint32
}

// MarshalTDAQ encodes the sample as a tdaq frame body.
func (s Sample) MarshalTDAQ() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(sampleSize)
	enc := tdaq.NewEncoder(buf)
	enc.WriteU64(s.Energy)
	for i := range s.Spins {
		for _, v := range s.Spins[i] {
			enc.WriteU32(v)
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalTDAQ decodes the sample from a tdaq frame body.
func (s *Sample) UnmarshalTDAQ(p []byte) error {
	if len(p) != sampleSize {
		return fmt.Errorf("core: invalid sample size (got=%d, want=%d)", len(p), sampleSize)
	}
	dec := tdaq.NewDecoder(bytes.NewReader(p))
	s.Energy = dec.ReadU64()
	for i := range s.Spins {
		for j := range s.Spins[i] {
			s.Spins[i][j] = dec.ReadU32()
		}
	}
	return nil
}

// ConfigSource retrieves named run configurations.
type ConfigSource interface {
	Config(ctx context.Context, name string) (Config, error)
}

// Server exposes a lagd_core device as a tdaq process.
//
// Commands:
//   - /config: configures the device with the named configuration, if any
//   - /init: flushes the device and waits for it to be idle
//   - /reset: stops the computation, flushes the device and drops pending samples
//   - /start, /stop: enables or disables the computation
//   - /quit: stops the computation
//
// Samples are published on the /energy output.
type Server struct {
	mu   sync.Mutex
	dev  *Device
	src  ConfigSource
	name string // name of the run configuration

	poll time.Duration
	data chan []byte
	n    int
}

// NewServer returns a tdaq server for dev.
// On /config, the configuration name is retrieved from src.
// With an empty name, /config leaves the device registers untouched.
func NewServer(dev *Device, src ConfigSource, name string) *Server {
	return &Server{
		dev:  dev,
		src:  src,
		name: name,
		poll: dev.cfg.poll,
		data: make(chan []byte, 1024),
	}
}

// Handle registers the handlers of srv with the tdaq server s.
func (srv *Server) Handle(s *tdaq.Server) {
	s.CmdHandle("/config", srv.OnConfig)
	s.CmdHandle("/init", srv.OnInit)
	s.CmdHandle("/reset", srv.OnReset)
	s.CmdHandle("/start", srv.OnStart)
	s.CmdHandle("/stop", srv.OnStop)
	s.CmdHandle("/quit", srv.OnQuit)

	s.OutputHandle("/energy", srv.Energy)

	s.RunHandle(srv.Run)
}

func (srv *Server) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")

	if srv.name == "" {
		ctx.Msg.Infof("no run configuration: keeping device registers")
		return nil
	}

	cfg, err := srv.load(ctx.Ctx)
	if err != nil {
		ctx.Msg.Errorf("could not load configuration %q: %+v", srv.name, err)
		return fmt.Errorf("could not load configuration %q: %w", srv.name, err)
	}

	err = srv.configure(cfg)
	if err != nil {
		ctx.Msg.Errorf("could not configure device: %+v", err)
		return fmt.Errorf("could not configure device: %w", err)
	}

	return nil
}

func (srv *Server) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")

	err := srv.init(ctx.Ctx)
	if err != nil {
		ctx.Msg.Errorf("could not initialize device: %+v", err)
		return fmt.Errorf("could not initialize device: %w", err)
	}

	return nil
}

func (srv *Server) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")

	err := srv.reset()
	if err != nil {
		ctx.Msg.Errorf("could not reset device: %+v", err)
		return fmt.Errorf("could not reset device: %w", err)
	}

	return nil
}

func (srv *Server) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")

	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.n = 0
	err := srv.dev.Start()
	if err != nil {
		ctx.Msg.Errorf("could not start device: %+v", err)
		return fmt.Errorf("could not start device: %w", err)
	}

	return nil
}

func (srv *Server) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	ctx.Msg.Debugf("received /stop command... -> n=%d", srv.n)
	err := srv.dev.Stop()
	if err != nil {
		ctx.Msg.Errorf("could not stop device: %+v", err)
		return fmt.Errorf("could not stop device: %w", err)
	}

	return nil
}

func (srv *Server) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")

	srv.mu.Lock()
	defer srv.mu.Unlock()

	err := srv.dev.Stop()
	if err != nil {
		ctx.Msg.Errorf("could not stop device: %+v", err)
		return fmt.Errorf("could not stop device: %w", err)
	}

	return nil
}

// Energy publishes the collected samples.
func (srv *Server) Energy(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case data := <-srv.data:
		dst.Body = data
	}
	return nil
}

// Run polls the device for new samples until ctx is done.
func (srv *Server) Run(ctx tdaq.Context) error {
	tick := time.NewTicker(srv.poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Ctx.Done():
			return nil
		case <-tick.C:
			raw, ok, err := srv.collect()
			if err != nil {
				ctx.Msg.Errorf("could not read sample: %+v", err)
				return fmt.Errorf("could not read sample: %w", err)
			}
			if !ok {
				continue
			}
			select {
			case srv.data <- raw:
			default:
				ctx.Msg.Infof("dropping sample: output queue full")
			}
		}
	}
}

// load retrieves the run configuration from the configuration source.
func (srv *Server) load(ctx context.Context) (Config, error) {
	if srv.src == nil {
		return Config{}, fmt.Errorf("core: no configuration source")
	}

	cfg, err := srv.src.Config(ctx, srv.name)
	if err != nil {
		return cfg, fmt.Errorf("core: could not retrieve configuration %q: %w", srv.name, err)
	}

	return cfg, nil
}

func (srv *Server) configure(cfg Config) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.dev.Configure(cfg)
}

func (srv *Server) init(ctx context.Context) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	err := srv.dev.Flush()
	if err != nil {
		return err
	}

	return srv.dev.WaitIdle(ctx)
}

func (srv *Server) reset() error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	err := srv.dev.Stop()
	if err != nil {
		return err
	}

	err = srv.dev.Flush()
	if err != nil {
		return err
	}

	srv.n = 0
	for {
		select {
		case <-srv.data:
		default:
			return nil
		}
	}
}

// collect reads a sample from the device when the energy FIFO holds
// a new value.
func (srv *Server) collect() ([]byte, bool, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	st, err := srv.dev.Status()
	if err != nil {
		return nil, false, err
	}
	if !st.EnergyFIFOUpdate {
		return nil, false, nil
	}

	var s Sample
	s.Energy, err = srv.dev.Energy()
	if err != nil {
		return nil, false, err
	}

	if st.SpinFIFOUpdate {
		s.Spins, err = srv.dev.Spins()
		if err != nil {
			return nil, false, err
		}
	}

	raw, err := s.MarshalTDAQ()
	if err != nil {
		return nil, false, err
	}
	srv.n++

	return raw, true, nil
}
