// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-lpc/lagd/regmap"
)

// Config is the run configuration of a lagd_core accelerator.
// FLUSH_EN and CMPT_EN are not part of the configuration: they are
// driven by Flush, Start and Stop.
type Config struct {
	Global1  Global1Config `json:"global_cfg_1"`
	Global2  Global2Config `json:"global_cfg_2"`
	Counters CounterConfig `json:"counters"`

	SpinInitial   [regmap.ConfigSpinInitialMultiregCount]uint32 `json:"config_spin_initial"`
	WWLVDD        [regmap.WWLVDDCfgMultiregCount]uint32         `json:"wwl_vdd_cfg"`
	WWLVread      [regmap.WWLVreadCfgMultiregCount]uint32       `json:"wwl_vread_cfg"`
	SpinWWLStrobe [regmap.SpinWWLStrobeMultiregCount]uint32     `json:"spin_wwl_strobe"`
	SpinFeedback  [regmap.SpinFeedbackCfgMultiregCount]uint32   `json:"spin_feedback_cfg"`
	HRdata        [regmap.HRdataMultiregCount]uint32            `json:"h_rdata"`
	WBLFloating   [regmap.WBLFloatingMultiregCount]uint32       `json:"wbl_floating"`
}

// Global1Config holds the GLOBAL_CFG_1 settings.
type Global1Config struct {
	EnAW                     bool   `json:"en_aw"`
	EnEM                     bool   `json:"en_em"`
	EnFM                     bool   `json:"en_fm"`
	EnFF                     bool   `json:"en_ff"`
	EnEF                     bool   `json:"en_ef"`
	EnAnalogLoop             bool   `json:"en_analog_loop"`
	EnComparison             bool   `json:"en_comparison"`
	DebugDTConfigureEnable   bool   `json:"debug_dt_configure_enable"`
	DebugSpinConfigureEnable bool   `json:"debug_spin_configure_enable"`
	ConfigSpinInitialSkip    bool   `json:"config_spin_initial_skip"`
	BypassDataConversion     bool   `json:"bypass_data_conversion"`
	HostReadout              bool   `json:"host_readout"`
	FlipDisable              bool   `json:"flip_disable"`
	EnableFlipDetection      bool   `json:"enable_flip_detection"`
	DebugJWriteEn            bool   `json:"debug_j_write_en"`
	DebugJReadEn             bool   `json:"debug_j_read_en"`
	DebugSpinWriteEn         bool   `json:"debug_spin_write_en"`
	DebugSpinComputeEn       bool   `json:"debug_spin_compute_en"`
	DebugSpinReadEn          bool   `json:"debug_spin_read_en"`
	ConfigCounter            uint32 `json:"config_counter"`
	WWLVDDCfg256             bool   `json:"wwl_vdd_cfg_256"`
	WWLVreadCfg256           bool   `json:"wwl_vread_cfg_256"`
	SynchronizerWBLPipeNum   uint32 `json:"synchronizer_wbl_pipe_num"`
}

// Global2Config holds the GLOBAL_CFG_2 settings.
type Global2Config struct {
	ConfigValidAW       bool   `json:"config_valid_aw"`
	ConfigValidEM       bool   `json:"config_valid_em"`
	ConfigValidFM       bool   `json:"config_valid_fm"`
	DTCfgEnable         bool   `json:"dt_cfg_enable"`
	SynchronizerPipeNum uint32 `json:"synchronizer_pipe_num"`
	DebugHWWL           bool   `json:"debug_h_wwl"`
	DGTAddrUpperBound   uint32 `json:"dgt_addr_upper_bound"`
	CtnusFIFORead       bool   `json:"ctnus_fifo_read"`
	CtnusDGTDebug       bool   `json:"ctnus_dgt_debug"`
}

// CounterConfig holds the COUNTER_CFG_1..4 settings.
type CounterConfig struct {
	CfgTransNum           uint32 `json:"cfg_trans_num"`
	CyclePerWWLHigh       uint32 `json:"cycle_per_wwl_high"`
	CyclePerWWLLow        uint32 `json:"cycle_per_wwl_low"`
	CyclePerSpinWrite     uint32 `json:"cycle_per_spin_write"`
	CyclePerSpinCompute   uint32 `json:"cycle_per_spin_compute"`
	DebugCyclePerSpinRead uint32 `json:"debug_cycle_per_spin_read"`
	DebugSpinReadNum      uint32 `json:"debug_spin_read_num"`
	IconLastRaddrPlusOne  uint32 `json:"icon_last_raddr_plus_one"`
	DGTHscaling           uint32 `json:"dgt_hscaling"`
}

// LoadConfig decodes a JSON configuration from r and validates it.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	err := dec.Decode(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("core: could not decode configuration: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ConfigDir retrieves run configurations stored as JSON files
// under a directory. An empty ConfigDir resolves names as file paths.
type ConfigDir string

// Config loads the configuration stored in the file name.
func (dir ConfigDir) Config(ctx context.Context, name string) (Config, error) {
	f, err := os.Open(filepath.Join(string(dir), name))
	if err != nil {
		return Config{}, fmt.Errorf("core: could not open config file %q: %w", name, err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// Validate checks every configuration value fits into its register field.
func (cfg *Config) Validate() error {
	var errs []error
	for _, reg := range cfg.words() {
		for _, b := range reg.bs {
			if b.v == nil {
				continue
			}
			if err := b.f.Check(*b.v); err != nil {
				errs = append(errs, fmt.Errorf("core: invalid %s configuration: %w", reg.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// binding ties a register field to a configuration value.
// Exactly one of b or v is set.
type binding struct {
	f regmap.Field
	b *bool
	v *uint32
}

func (b binding) get() uint32 {
	if b.b != nil {
		if *b.b {
			return 1
		}
		return 0
	}
	return *b.v
}

func (b binding) set(v uint32) {
	if b.b != nil {
		*b.b = v != 0
		return
	}
	*b.v = v
}

type word struct {
	name string
	off  uint32
	bs   []binding
}

func (w word) encode(reg uint32) uint32 {
	for _, b := range w.bs {
		reg = b.f.Set(reg, b.get())
	}
	return reg
}

func (w word) decode(reg uint32) {
	for _, b := range w.bs {
		b.set(b.f.Get(reg))
	}
}

// words returns the bitfield registers of the configuration, in the
// order they are written to the device.
func (cfg *Config) words() []word {
	var (
		g1  = &cfg.Global1
		g2  = &cfg.Global2
		cnt = &cfg.Counters
	)
	return []word{
		{"COUNTER_CFG_1", regmap.CounterCfg1Offset, []binding{
			{f: regmap.CounterCfg1CfgTransNum, v: &cnt.CfgTransNum},
			{f: regmap.CounterCfg1CyclePerWWLHigh, v: &cnt.CyclePerWWLHigh},
		}},
		{"COUNTER_CFG_2", regmap.CounterCfg2Offset, []binding{
			{f: regmap.CounterCfg2CyclePerWWLLow, v: &cnt.CyclePerWWLLow},
			{f: regmap.CounterCfg2CyclePerSpinWrite, v: &cnt.CyclePerSpinWrite},
		}},
		{"COUNTER_CFG_3", regmap.CounterCfg3Offset, []binding{
			{f: regmap.CounterCfg3CyclePerSpinCompute, v: &cnt.CyclePerSpinCompute},
			{f: regmap.CounterCfg3DebugCyclePerSpinRead, v: &cnt.DebugCyclePerSpinRead},
		}},
		{"COUNTER_CFG_4", regmap.CounterCfg4Offset, []binding{
			{f: regmap.CounterCfg4DebugSpinReadNum, v: &cnt.DebugSpinReadNum},
			{f: regmap.CounterCfg4IconLastRaddrPlusOne, v: &cnt.IconLastRaddrPlusOne},
			{f: regmap.CounterCfg4DGTHscaling, v: &cnt.DGTHscaling},
		}},
		{"GLOBAL_CFG_1", regmap.GlobalCfg1Offset, []binding{
			{f: regmap.GlobalCfg1EnAW, b: &g1.EnAW},
			{f: regmap.GlobalCfg1EnEM, b: &g1.EnEM},
			{f: regmap.GlobalCfg1EnFM, b: &g1.EnFM},
			{f: regmap.GlobalCfg1EnFF, b: &g1.EnFF},
			{f: regmap.GlobalCfg1EnEF, b: &g1.EnEF},
			{f: regmap.GlobalCfg1EnAnalogLoop, b: &g1.EnAnalogLoop},
			{f: regmap.GlobalCfg1EnComparison, b: &g1.EnComparison},
			{f: regmap.GlobalCfg1DebugDTConfigureEnable, b: &g1.DebugDTConfigureEnable},
			{f: regmap.GlobalCfg1DebugSpinConfigureEnable, b: &g1.DebugSpinConfigureEnable},
			{f: regmap.GlobalCfg1ConfigSpinInitialSkip, b: &g1.ConfigSpinInitialSkip},
			{f: regmap.GlobalCfg1BypassDataConversion, b: &g1.BypassDataConversion},
			{f: regmap.GlobalCfg1HostReadout, b: &g1.HostReadout},
			{f: regmap.GlobalCfg1FlipDisable, b: &g1.FlipDisable},
			{f: regmap.GlobalCfg1EnableFlipDetection, b: &g1.EnableFlipDetection},
			{f: regmap.GlobalCfg1DebugJWriteEn, b: &g1.DebugJWriteEn},
			{f: regmap.GlobalCfg1DebugJReadEn, b: &g1.DebugJReadEn},
			{f: regmap.GlobalCfg1DebugSpinWriteEn, b: &g1.DebugSpinWriteEn},
			{f: regmap.GlobalCfg1DebugSpinComputeEn, b: &g1.DebugSpinComputeEn},
			{f: regmap.GlobalCfg1DebugSpinReadEn, b: &g1.DebugSpinReadEn},
			{f: regmap.GlobalCfg1ConfigCounter, v: &g1.ConfigCounter},
			{f: regmap.GlobalCfg1WWLVDDCfg256, b: &g1.WWLVDDCfg256},
			{f: regmap.GlobalCfg1WWLVreadCfg256, b: &g1.WWLVreadCfg256},
			{f: regmap.GlobalCfg1SynchronizerWBLPipeNum, v: &g1.SynchronizerWBLPipeNum},
		}},
		{"GLOBAL_CFG_2", regmap.GlobalCfg2Offset, []binding{
			{f: regmap.GlobalCfg2ConfigValidAW, b: &g2.ConfigValidAW},
			{f: regmap.GlobalCfg2ConfigValidEM, b: &g2.ConfigValidEM},
			{f: regmap.GlobalCfg2ConfigValidFM, b: &g2.ConfigValidFM},
			{f: regmap.GlobalCfg2DTCfgEnable, b: &g2.DTCfgEnable},
			{f: regmap.GlobalCfg2SynchronizerPipeNum, v: &g2.SynchronizerPipeNum},
			{f: regmap.GlobalCfg2DebugHWWL, b: &g2.DebugHWWL},
			{f: regmap.GlobalCfg2DGTAddrUpperBound, v: &g2.DGTAddrUpperBound},
			{f: regmap.GlobalCfg2CtnusFIFORead, b: &g2.CtnusFIFORead},
			{f: regmap.GlobalCfg2CtnusDGTDebug, b: &g2.CtnusDGTDebug},
		}},
	}
}

type block struct {
	name string
	vs   []uint32
}

// blocks returns the multiregister groups of the configuration.
func (cfg *Config) blocks() []block {
	return []block{
		{"CONFIG_SPIN_INITIAL", cfg.SpinInitial[:]},
		{"WWL_VDD_CFG", cfg.WWLVDD[:]},
		{"WWL_VREAD_CFG", cfg.WWLVread[:]},
		{"SPIN_WWL_STROBE", cfg.SpinWWLStrobe[:]},
		{"SPIN_FEEDBACK_CFG", cfg.SpinFeedback[:]},
		{"H_RDATA", cfg.HRdata[:]},
		{"WBL_FLOATING", cfg.WBLFloating[:]},
	}
}
