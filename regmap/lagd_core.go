// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regmap

// Register layout of the lagd_core accelerator.
// Values match the hardware register bank bit for bit.
const (
	// Register width.
	RegWidth = 32

	// Global configuration signals 1.
	GlobalCfg1Offset                       = 0x0
	GlobalCfg1FlushEnBit                   = 0
	GlobalCfg1EnAWBit                      = 1
	GlobalCfg1EnEMBit                      = 2
	GlobalCfg1EnFMBit                      = 3
	GlobalCfg1EnFFBit                      = 4
	GlobalCfg1EnEFBit                      = 5
	GlobalCfg1EnAnalogLoopBit              = 6
	GlobalCfg1EnComparisonBit              = 7
	GlobalCfg1DebugDTConfigureEnableBit    = 8
	GlobalCfg1DebugSpinConfigureEnableBit  = 9
	GlobalCfg1ConfigSpinInitialSkipBit     = 10
	GlobalCfg1BypassDataConversionBit      = 11
	GlobalCfg1HostReadoutBit               = 12
	GlobalCfg1FlipDisableBit               = 13
	GlobalCfg1EnableFlipDetectionBit       = 14
	GlobalCfg1DebugJWriteEnBit             = 15
	GlobalCfg1DebugJReadEnBit              = 16
	GlobalCfg1DebugSpinWriteEnBit          = 17
	GlobalCfg1DebugSpinComputeEnBit        = 18
	GlobalCfg1DebugSpinReadEnBit           = 19
	GlobalCfg1ConfigCounterMask            = 0xff
	GlobalCfg1ConfigCounterOffset          = 20
	GlobalCfg1WWLVDDCfg256Bit              = 28
	GlobalCfg1WWLVreadCfg256Bit            = 29
	GlobalCfg1SynchronizerWBLPipeNumMask   = 0x3
	GlobalCfg1SynchronizerWBLPipeNumOffset = 30

	// Global configuration signals 2.
	GlobalCfg2Offset                    = 0x4
	GlobalCfg2CMPTEnBit                 = 0
	GlobalCfg2ConfigValidAWBit          = 1
	GlobalCfg2ConfigValidEMBit          = 2
	GlobalCfg2ConfigValidFMBit          = 3
	GlobalCfg2DTCfgEnableBit            = 4
	GlobalCfg2SynchronizerPipeNumMask   = 0x3
	GlobalCfg2SynchronizerPipeNumOffset = 5
	GlobalCfg2DebugHWWLBit              = 7
	GlobalCfg2DGTAddrUpperBoundMask     = 0x3f
	GlobalCfg2DGTAddrUpperBoundOffset   = 8
	GlobalCfg2CtnusFIFOReadBit          = 14
	GlobalCfg2CtnusDGTDebugBit          = 15

	// Registers for setting initial spin values.
	ConfigSpinInitialOffset        = 0x8
	ConfigSpinInitialFieldWidth    = 32
	ConfigSpinInitialFieldsPerReg  = 1
	ConfigSpinInitialMultiregCount = 8

	// Registers for counter configuration 1.
	CounterCfg1Offset                = 0x28
	CounterCfg1CfgTransNumMask       = 0xffff
	CounterCfg1CfgTransNumOffset     = 0
	CounterCfg1CyclePerWWLHighMask   = 0xffff
	CounterCfg1CyclePerWWLHighOffset = 16

	// Registers for counter configuration 2.
	CounterCfg2Offset                  = 0x2c
	CounterCfg2CyclePerWWLLowMask      = 0xffff
	CounterCfg2CyclePerWWLLowOffset    = 0
	CounterCfg2CyclePerSpinWriteMask   = 0xffff
	CounterCfg2CyclePerSpinWriteOffset = 16

	// Registers for counter configuration 3.
	CounterCfg3Offset                      = 0x30
	CounterCfg3CyclePerSpinComputeMask     = 0xffff
	CounterCfg3CyclePerSpinComputeOffset   = 0
	CounterCfg3DebugCyclePerSpinReadMask   = 0xffff
	CounterCfg3DebugCyclePerSpinReadOffset = 16

	// Registers for counter configuration 4.
	CounterCfg4Offset                     = 0x34
	CounterCfg4DebugSpinReadNumMask       = 0xffff
	CounterCfg4DebugSpinReadNumOffset     = 0
	CounterCfg4IconLastRaddrPlusOneMask   = 0x7ff
	CounterCfg4IconLastRaddrPlusOneOffset = 16
	CounterCfg4DGTHscalingMask            = 0x1f
	CounterCfg4DGTHscalingOffset          = 27

	// wwl_vdd_cfg values.
	WWLVDDCfgOffset        = 0x38
	WWLVDDCfgFieldWidth    = 32
	WWLVDDCfgFieldsPerReg  = 1
	WWLVDDCfgMultiregCount = 8

	// wwl_vread_cfg values.
	WWLVreadCfgOffset        = 0x58
	WWLVreadCfgFieldWidth    = 32
	WWLVreadCfgFieldsPerReg  = 1
	WWLVreadCfgMultiregCount = 8

	// spin_wwl_strobe values.
	SpinWWLStrobeOffset        = 0x78
	SpinWWLStrobeFieldWidth    = 32
	SpinWWLStrobeFieldsPerReg  = 1
	SpinWWLStrobeMultiregCount = 8

	// spin_feedback_cfg values.
	SpinFeedbackCfgOffset        = 0x98
	SpinFeedbackCfgFieldWidth    = 32
	SpinFeedbackCfgFieldsPerReg  = 1
	SpinFeedbackCfgMultiregCount = 8

	// h_rdata values.
	HRdataOffset        = 0xb8
	HRdataFieldWidth    = 32
	HRdataFieldsPerReg  = 1
	HRdataMultiregCount = 32

	// wbl_floating values.
	WBLFloatingOffset        = 0x138
	WBLFloatingFieldWidth    = 32
	WBLFloatingFieldsPerReg  = 1
	WBLFloatingMultiregCount = 32

	// debug_j_one_hot_wwl values.
	DebugJOneHotWWLOffset        = 0x1b8
	DebugJOneHotWWLFieldWidth    = 32
	DebugJOneHotWWLFieldsPerReg  = 1
	DebugJOneHotWWLMultiregCount = 8

	// Output status signals.
	OutputStatusOffset                        = 0x1d8
	OutputStatusDTCfgIdleBit                  = 0
	OutputStatusCMPTIdleBit                   = 1
	OutputStatusEnergyFIFOUpdateBit           = 2
	OutputStatusSpinFIFOUpdateBit             = 3
	OutputStatusDebugJReadDataValidBit        = 4
	OutputStatusDebugAnalogDTWIdleBit         = 5
	OutputStatusDebugAnalogDTRIdleBit         = 6
	OutputStatusDebugSpinWIdleBit             = 7
	OutputStatusDebugSpinRIdleBit             = 8
	OutputStatusDebugSpinCMPTIdleBit          = 9
	OutputStatusDebugFMUpstreamHandshakeBit   = 10
	OutputStatusDebugFMDownstreamHandshakeBit = 11
	OutputStatusDebugAWDownstreamHandshakeBit = 12
	OutputStatusDebugEMUpstreamHandshakeBit   = 13

	// debug_fm_energy_input signals.
	DebugFMEnergyInputOffset = 0x1dc

	// Registers for energy fifo data 0.
	EnergyFIFOData0Offset = 0x1e0

	// Registers for energy fifo data 1.
	EnergyFIFOData1Offset = 0x1e4

	// spin_fifo_data_0 values.
	SpinFIFOData0Offset        = 0x1e8
	SpinFIFOData0FieldWidth    = 32
	SpinFIFOData0FieldsPerReg  = 1
	SpinFIFOData0MultiregCount = 8

	// spin_fifo_data_1 values.
	SpinFIFOData1Offset        = 0x208
	SpinFIFOData1FieldWidth    = 32
	SpinFIFOData1FieldsPerReg  = 1
	SpinFIFOData1MultiregCount = 8

	// debug_j_read_data values.
	DebugJReadDataOffset        = 0x228
	DebugJReadDataFieldWidth    = 32
	DebugJReadDataFieldsPerReg  = 1
	DebugJReadDataMultiregCount = 32

	// debug_fm_spin_out values.
	DebugFMSpinOutOffset        = 0x2a8
	DebugFMSpinOutFieldWidth    = 32
	DebugFMSpinOutFieldsPerReg  = 1
	DebugFMSpinOutMultiregCount = 8

	// debug_aw_spin_out values.
	DebugAWSpinOutOffset        = 0x2c8
	DebugAWSpinOutFieldWidth    = 32
	DebugAWSpinOutFieldsPerReg  = 1
	DebugAWSpinOutMultiregCount = 8

	// debug_em_spin_in values.
	DebugEMSpinInOffset        = 0x2e8
	DebugEMSpinInFieldWidth    = 32
	DebugEMSpinInFieldsPerReg  = 1
	DebugEMSpinInMultiregCount = 8
)

// Bitfields of the lagd_core registers.
var (
	GlobalCfg1FlushEn                      = Bit("FLUSH_EN", GlobalCfg1FlushEnBit)
	GlobalCfg1EnAW                         = Bit("EN_AW", GlobalCfg1EnAWBit)
	GlobalCfg1EnEM                         = Bit("EN_EM", GlobalCfg1EnEMBit)
	GlobalCfg1EnFM                         = Bit("EN_FM", GlobalCfg1EnFMBit)
	GlobalCfg1EnFF                         = Bit("EN_FF", GlobalCfg1EnFFBit)
	GlobalCfg1EnEF                         = Bit("EN_EF", GlobalCfg1EnEFBit)
	GlobalCfg1EnAnalogLoop                 = Bit("EN_ANALOG_LOOP", GlobalCfg1EnAnalogLoopBit)
	GlobalCfg1EnComparison                 = Bit("EN_COMPARISON", GlobalCfg1EnComparisonBit)
	GlobalCfg1DebugDTConfigureEnable       = Bit("DEBUG_DT_CONFIGURE_ENABLE", GlobalCfg1DebugDTConfigureEnableBit)
	GlobalCfg1DebugSpinConfigureEnable     = Bit("DEBUG_SPIN_CONFIGURE_ENABLE", GlobalCfg1DebugSpinConfigureEnableBit)
	GlobalCfg1ConfigSpinInitialSkip        = Bit("CONFIG_SPIN_INITIAL_SKIP", GlobalCfg1ConfigSpinInitialSkipBit)
	GlobalCfg1BypassDataConversion         = Bit("BYPASS_DATA_CONVERSION", GlobalCfg1BypassDataConversionBit)
	GlobalCfg1HostReadout                  = Bit("HOST_READOUT", GlobalCfg1HostReadoutBit)
	GlobalCfg1FlipDisable                  = Bit("FLIP_DISABLE", GlobalCfg1FlipDisableBit)
	GlobalCfg1EnableFlipDetection          = Bit("ENABLE_FLIP_DETECTION", GlobalCfg1EnableFlipDetectionBit)
	GlobalCfg1DebugJWriteEn                = Bit("DEBUG_J_WRITE_EN", GlobalCfg1DebugJWriteEnBit)
	GlobalCfg1DebugJReadEn                 = Bit("DEBUG_J_READ_EN", GlobalCfg1DebugJReadEnBit)
	GlobalCfg1DebugSpinWriteEn             = Bit("DEBUG_SPIN_WRITE_EN", GlobalCfg1DebugSpinWriteEnBit)
	GlobalCfg1DebugSpinComputeEn           = Bit("DEBUG_SPIN_COMPUTE_EN", GlobalCfg1DebugSpinComputeEnBit)
	GlobalCfg1DebugSpinReadEn              = Bit("DEBUG_SPIN_READ_EN", GlobalCfg1DebugSpinReadEnBit)
	GlobalCfg1ConfigCounter                = NewField("CONFIG_COUNTER", GlobalCfg1ConfigCounterMask, GlobalCfg1ConfigCounterOffset)
	GlobalCfg1WWLVDDCfg256                 = Bit("WWL_VDD_CFG_256", GlobalCfg1WWLVDDCfg256Bit)
	GlobalCfg1WWLVreadCfg256               = Bit("WWL_VREAD_CFG_256", GlobalCfg1WWLVreadCfg256Bit)
	GlobalCfg1SynchronizerWBLPipeNum       = NewField("SYNCHRONIZER_WBL_PIPE_NUM", GlobalCfg1SynchronizerWBLPipeNumMask, GlobalCfg1SynchronizerWBLPipeNumOffset)
	GlobalCfg2CMPTEn                       = Bit("CMPT_EN", GlobalCfg2CMPTEnBit)
	GlobalCfg2ConfigValidAW                = Bit("CONFIG_VALID_AW", GlobalCfg2ConfigValidAWBit)
	GlobalCfg2ConfigValidEM                = Bit("CONFIG_VALID_EM", GlobalCfg2ConfigValidEMBit)
	GlobalCfg2ConfigValidFM                = Bit("CONFIG_VALID_FM", GlobalCfg2ConfigValidFMBit)
	GlobalCfg2DTCfgEnable                  = Bit("DT_CFG_ENABLE", GlobalCfg2DTCfgEnableBit)
	GlobalCfg2SynchronizerPipeNum          = NewField("SYNCHRONIZER_PIPE_NUM", GlobalCfg2SynchronizerPipeNumMask, GlobalCfg2SynchronizerPipeNumOffset)
	GlobalCfg2DebugHWWL                    = Bit("DEBUG_H_WWL", GlobalCfg2DebugHWWLBit)
	GlobalCfg2DGTAddrUpperBound            = NewField("DGT_ADDR_UPPER_BOUND", GlobalCfg2DGTAddrUpperBoundMask, GlobalCfg2DGTAddrUpperBoundOffset)
	GlobalCfg2CtnusFIFORead                = Bit("CTNUS_FIFO_READ", GlobalCfg2CtnusFIFOReadBit)
	GlobalCfg2CtnusDGTDebug                = Bit("CTNUS_DGT_DEBUG", GlobalCfg2CtnusDGTDebugBit)
	CounterCfg1CfgTransNum                 = NewField("CFG_TRANS_NUM", CounterCfg1CfgTransNumMask, CounterCfg1CfgTransNumOffset)
	CounterCfg1CyclePerWWLHigh             = NewField("CYCLE_PER_WWL_HIGH", CounterCfg1CyclePerWWLHighMask, CounterCfg1CyclePerWWLHighOffset)
	CounterCfg2CyclePerWWLLow              = NewField("CYCLE_PER_WWL_LOW", CounterCfg2CyclePerWWLLowMask, CounterCfg2CyclePerWWLLowOffset)
	CounterCfg2CyclePerSpinWrite           = NewField("CYCLE_PER_SPIN_WRITE", CounterCfg2CyclePerSpinWriteMask, CounterCfg2CyclePerSpinWriteOffset)
	CounterCfg3CyclePerSpinCompute         = NewField("CYCLE_PER_SPIN_COMPUTE", CounterCfg3CyclePerSpinComputeMask, CounterCfg3CyclePerSpinComputeOffset)
	CounterCfg3DebugCyclePerSpinRead       = NewField("DEBUG_CYCLE_PER_SPIN_READ", CounterCfg3DebugCyclePerSpinReadMask, CounterCfg3DebugCyclePerSpinReadOffset)
	CounterCfg4DebugSpinReadNum            = NewField("DEBUG_SPIN_READ_NUM", CounterCfg4DebugSpinReadNumMask, CounterCfg4DebugSpinReadNumOffset)
	CounterCfg4IconLastRaddrPlusOne        = NewField("ICON_LAST_RADDR_PLUS_ONE", CounterCfg4IconLastRaddrPlusOneMask, CounterCfg4IconLastRaddrPlusOneOffset)
	CounterCfg4DGTHscaling                 = NewField("DGT_HSCALING", CounterCfg4DGTHscalingMask, CounterCfg4DGTHscalingOffset)
	OutputStatusDTCfgIdle                  = Bit("DT_CFG_IDLE", OutputStatusDTCfgIdleBit)
	OutputStatusCMPTIdle                   = Bit("CMPT_IDLE", OutputStatusCMPTIdleBit)
	OutputStatusEnergyFIFOUpdate           = Bit("ENERGY_FIFO_UPDATE", OutputStatusEnergyFIFOUpdateBit)
	OutputStatusSpinFIFOUpdate             = Bit("SPIN_FIFO_UPDATE", OutputStatusSpinFIFOUpdateBit)
	OutputStatusDebugJReadDataValid        = Bit("DEBUG_J_READ_DATA_VALID", OutputStatusDebugJReadDataValidBit)
	OutputStatusDebugAnalogDTWIdle         = Bit("DEBUG_ANALOG_DT_W_IDLE", OutputStatusDebugAnalogDTWIdleBit)
	OutputStatusDebugAnalogDTRIdle         = Bit("DEBUG_ANALOG_DT_R_IDLE", OutputStatusDebugAnalogDTRIdleBit)
	OutputStatusDebugSpinWIdle             = Bit("DEBUG_SPIN_W_IDLE", OutputStatusDebugSpinWIdleBit)
	OutputStatusDebugSpinRIdle             = Bit("DEBUG_SPIN_R_IDLE", OutputStatusDebugSpinRIdleBit)
	OutputStatusDebugSpinCMPTIdle          = Bit("DEBUG_SPIN_CMPT_IDLE", OutputStatusDebugSpinCMPTIdleBit)
	OutputStatusDebugFMUpstreamHandshake   = Bit("DEBUG_FM_UPSTREAM_HANDSHAKE", OutputStatusDebugFMUpstreamHandshakeBit)
	OutputStatusDebugFMDownstreamHandshake = Bit("DEBUG_FM_DOWNSTREAM_HANDSHAKE", OutputStatusDebugFMDownstreamHandshakeBit)
	OutputStatusDebugAWDownstreamHandshake = Bit("DEBUG_AW_DOWNSTREAM_HANDSHAKE", OutputStatusDebugAWDownstreamHandshakeBit)
	OutputStatusDebugEMUpstreamHandshake   = Bit("DEBUG_EM_UPSTREAM_HANDSHAKE", OutputStatusDebugEMUpstreamHandshakeBit)
)

// lagdCore is the register map built from the bitfields as declared.
var lagdCore = newCore()

// Core returns the register map of the lagd_core accelerator.
// Each call returns a new copy of the map. Modifying the exported
// bitfield variables does not alter the map.
func Core() *Map {
	return lagdCore.clone()
}

func newCore() *Map {
	m := &Map{
		Name:      "lagd_core",
		Width:     RegWidth,
		Copyright: []string{"Copyright 2025 KU Leuven."},
		License: []string{
			"Licensed under the Apache License, Version 2.0, see LICENSE for details.",
			"SPDX-License-Identifier: Apache-2.0",
		},
	}

	m.add(Register{
		Name:   "GLOBAL_CFG_1",
		Desc:   "Global configuration signals 1",
		Offset: GlobalCfg1Offset,
		Fields: []Field{
			GlobalCfg1FlushEn,
			GlobalCfg1EnAW,
			GlobalCfg1EnEM,
			GlobalCfg1EnFM,
			GlobalCfg1EnFF,
			GlobalCfg1EnEF,
			GlobalCfg1EnAnalogLoop,
			GlobalCfg1EnComparison,
			GlobalCfg1DebugDTConfigureEnable,
			GlobalCfg1DebugSpinConfigureEnable,
			GlobalCfg1ConfigSpinInitialSkip,
			GlobalCfg1BypassDataConversion,
			GlobalCfg1HostReadout,
			GlobalCfg1FlipDisable,
			GlobalCfg1EnableFlipDetection,
			GlobalCfg1DebugJWriteEn,
			GlobalCfg1DebugJReadEn,
			GlobalCfg1DebugSpinWriteEn,
			GlobalCfg1DebugSpinComputeEn,
			GlobalCfg1DebugSpinReadEn,
			GlobalCfg1ConfigCounter,
			GlobalCfg1WWLVDDCfg256,
			GlobalCfg1WWLVreadCfg256,
			GlobalCfg1SynchronizerWBLPipeNum,
		},
	})
	m.add(Register{
		Name:   "GLOBAL_CFG_2",
		Desc:   "Global configuration signals 2",
		Offset: GlobalCfg2Offset,
		Fields: []Field{
			GlobalCfg2CMPTEn,
			GlobalCfg2ConfigValidAW,
			GlobalCfg2ConfigValidEM,
			GlobalCfg2ConfigValidFM,
			GlobalCfg2DTCfgEnable,
			GlobalCfg2SynchronizerPipeNum,
			GlobalCfg2DebugHWWL,
			GlobalCfg2DGTAddrUpperBound,
			GlobalCfg2CtnusFIFORead,
			GlobalCfg2CtnusDGTDebug,
		},
	})
	m.addGroup(MultiReg{
		Name:         "CONFIG_SPIN_INITIAL",
		Desc:         "Registers for setting initial spin values",
		FieldWidth:   ConfigSpinInitialFieldWidth,
		FieldsPerReg: ConfigSpinInitialFieldsPerReg,
		Count:        ConfigSpinInitialMultiregCount,
		Base:         ConfigSpinInitialOffset,
	})
	m.add(Register{
		Name:   "COUNTER_CFG_1",
		Desc:   "Registers for counter configuration 1",
		Offset: CounterCfg1Offset,
		Fields: []Field{
			CounterCfg1CfgTransNum,
			CounterCfg1CyclePerWWLHigh,
		},
	})
	m.add(Register{
		Name:   "COUNTER_CFG_2",
		Desc:   "Registers for counter configuration 2",
		Offset: CounterCfg2Offset,
		Fields: []Field{
			CounterCfg2CyclePerWWLLow,
			CounterCfg2CyclePerSpinWrite,
		},
	})
	m.add(Register{
		Name:   "COUNTER_CFG_3",
		Desc:   "Registers for counter configuration 3",
		Offset: CounterCfg3Offset,
		Fields: []Field{
			CounterCfg3CyclePerSpinCompute,
			CounterCfg3DebugCyclePerSpinRead,
		},
	})
	m.add(Register{
		Name:   "COUNTER_CFG_4",
		Desc:   "Registers for counter configuration 4",
		Offset: CounterCfg4Offset,
		Fields: []Field{
			CounterCfg4DebugSpinReadNum,
			CounterCfg4IconLastRaddrPlusOne,
			CounterCfg4DGTHscaling,
		},
	})
	m.addGroup(MultiReg{
		Name:         "WWL_VDD_CFG",
		Desc:         "wwl_vdd_cfg values",
		FieldWidth:   WWLVDDCfgFieldWidth,
		FieldsPerReg: WWLVDDCfgFieldsPerReg,
		Count:        WWLVDDCfgMultiregCount,
		Base:         WWLVDDCfgOffset,
	})
	m.addGroup(MultiReg{
		Name:         "WWL_VREAD_CFG",
		Desc:         "wwl_vread_cfg values",
		FieldWidth:   WWLVreadCfgFieldWidth,
		FieldsPerReg: WWLVreadCfgFieldsPerReg,
		Count:        WWLVreadCfgMultiregCount,
		Base:         WWLVreadCfgOffset,
	})
	m.addGroup(MultiReg{
		Name:         "SPIN_WWL_STROBE",
		Desc:         "spin_wwl_strobe values",
		FieldWidth:   SpinWWLStrobeFieldWidth,
		FieldsPerReg: SpinWWLStrobeFieldsPerReg,
		Count:        SpinWWLStrobeMultiregCount,
		Base:         SpinWWLStrobeOffset,
	})
	m.addGroup(MultiReg{
		Name:         "SPIN_FEEDBACK_CFG",
		Desc:         "spin_feedback_cfg values",
		FieldWidth:   SpinFeedbackCfgFieldWidth,
		FieldsPerReg: SpinFeedbackCfgFieldsPerReg,
		Count:        SpinFeedbackCfgMultiregCount,
		Base:         SpinFeedbackCfgOffset,
	})
	m.addGroup(MultiReg{
		Name:         "H_RDATA",
		Desc:         "h_rdata values",
		FieldWidth:   HRdataFieldWidth,
		FieldsPerReg: HRdataFieldsPerReg,
		Count:        HRdataMultiregCount,
		Base:         HRdataOffset,
	})
	m.addGroup(MultiReg{
		Name:         "WBL_FLOATING",
		Desc:         "wbl_floating values",
		FieldWidth:   WBLFloatingFieldWidth,
		FieldsPerReg: WBLFloatingFieldsPerReg,
		Count:        WBLFloatingMultiregCount,
		Base:         WBLFloatingOffset,
	})
	m.addGroup(MultiReg{
		Name:         "DEBUG_J_ONE_HOT_WWL",
		Desc:         "debug_j_one_hot_wwl values",
		FieldWidth:   DebugJOneHotWWLFieldWidth,
		FieldsPerReg: DebugJOneHotWWLFieldsPerReg,
		Count:        DebugJOneHotWWLMultiregCount,
		Base:         DebugJOneHotWWLOffset,
	})
	m.add(Register{
		Name:   "OUTPUT_STATUS",
		Desc:   "Output status signals",
		Offset: OutputStatusOffset,
		Fields: []Field{
			OutputStatusDTCfgIdle,
			OutputStatusCMPTIdle,
			OutputStatusEnergyFIFOUpdate,
			OutputStatusSpinFIFOUpdate,
			OutputStatusDebugJReadDataValid,
			OutputStatusDebugAnalogDTWIdle,
			OutputStatusDebugAnalogDTRIdle,
			OutputStatusDebugSpinWIdle,
			OutputStatusDebugSpinRIdle,
			OutputStatusDebugSpinCMPTIdle,
			OutputStatusDebugFMUpstreamHandshake,
			OutputStatusDebugFMDownstreamHandshake,
			OutputStatusDebugAWDownstreamHandshake,
			OutputStatusDebugEMUpstreamHandshake,
		},
	})
	m.add(Register{
		Name:   "DEBUG_FM_ENERGY_INPUT",
		Desc:   "debug_fm_energy_input signals",
		Offset: DebugFMEnergyInputOffset,
	})
	m.add(Register{
		Name:   "ENERGY_FIFO_DATA_0",
		Desc:   "Registers for energy fifo data 0",
		Offset: EnergyFIFOData0Offset,
	})
	m.add(Register{
		Name:   "ENERGY_FIFO_DATA_1",
		Desc:   "Registers for energy fifo data 1",
		Offset: EnergyFIFOData1Offset,
	})
	m.addGroup(MultiReg{
		Name:         "SPIN_FIFO_DATA_0",
		Desc:         "spin_fifo_data_0 values",
		FieldWidth:   SpinFIFOData0FieldWidth,
		FieldsPerReg: SpinFIFOData0FieldsPerReg,
		Count:        SpinFIFOData0MultiregCount,
		Base:         SpinFIFOData0Offset,
	})
	m.addGroup(MultiReg{
		Name:         "SPIN_FIFO_DATA_1",
		Desc:         "spin_fifo_data_1 values",
		FieldWidth:   SpinFIFOData1FieldWidth,
		FieldsPerReg: SpinFIFOData1FieldsPerReg,
		Count:        SpinFIFOData1MultiregCount,
		Base:         SpinFIFOData1Offset,
	})
	m.addGroup(MultiReg{
		Name:         "DEBUG_J_READ_DATA",
		Desc:         "debug_j_read_data values",
		FieldWidth:   DebugJReadDataFieldWidth,
		FieldsPerReg: DebugJReadDataFieldsPerReg,
		Count:        DebugJReadDataMultiregCount,
		Base:         DebugJReadDataOffset,
	})
	m.addGroup(MultiReg{
		Name:         "DEBUG_FM_SPIN_OUT",
		Desc:         "debug_fm_spin_out values",
		FieldWidth:   DebugFMSpinOutFieldWidth,
		FieldsPerReg: DebugFMSpinOutFieldsPerReg,
		Count:        DebugFMSpinOutMultiregCount,
		Base:         DebugFMSpinOutOffset,
	})
	m.addGroup(MultiReg{
		Name:         "DEBUG_AW_SPIN_OUT",
		Desc:         "debug_aw_spin_out values",
		FieldWidth:   DebugAWSpinOutFieldWidth,
		FieldsPerReg: DebugAWSpinOutFieldsPerReg,
		Count:        DebugAWSpinOutMultiregCount,
		Base:         DebugAWSpinOutOffset,
	})
	m.addGroup(MultiReg{
		Name:         "DEBUG_EM_SPIN_IN",
		Desc:         "debug_em_spin_in values",
		FieldWidth:   DebugEMSpinInFieldWidth,
		FieldsPerReg: DebugEMSpinInFieldsPerReg,
		Count:        DebugEMSpinInMultiregCount,
		Base:         DebugEMSpinInOffset,
	})
	return m
}
