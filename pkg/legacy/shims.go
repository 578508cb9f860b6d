// Backward-compatible transport entry points
//
// These preserve the old pipetting call sites: each filters the keywords
// inapplicable to its phase, merges the mixing keyword bundle, then drives
// the matching translator and assembler. No business logic lives here.
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package legacy

import (
	"liquidhandle/pkg/builder"
	"liquidhandle/pkg/sequence"
	"liquidhandle/pkg/unit"
)

// MixBundle is the optional mixing keyword bundle of the old transfer call
// shape. The A-suffixed fields configure mix-after, the B-suffixed fields
// mix-before; the unsuffixed fields apply to whichever phase survives the
// shim's filtering.
type MixBundle struct {
	MixBefore bool
	MixAfter  bool
	MixVol    *unit.Unit

	Repetitions *int
	Flowrate    *unit.Unit

	RepetitionsA *int
	FlowrateA    *unit.Unit
	RepetitionsB *int
	FlowrateB    *unit.Unit
}

// XferAspTransports recreates the old single-channel aspirate behavior.
// Dispense-phase and blow-out keywords are dropped; the mix-before bundle
// parameters are renamed onto the canonical mixing keywords.
func XferAspTransports(volume unit.Unit, opts TransferOpts, mix *MixBundle) ([]*builder.Transport, error) {
	opts.DispenseTarget = nil
	opts.DispenseSpeed = nil
	opts.BlowoutBuffer = false
	opts.MixAfter = false
	if mix != nil {
		opts.MixBefore = opts.MixBefore || mix.MixBefore
		if mix.MixVol != nil {
			opts.MixVol = mix.MixVol
		}
		reps, rate := mix.Repetitions, mix.Flowrate
		if mix.RepetitionsB != nil {
			reps = mix.RepetitionsB
		}
		if mix.FlowrateB != nil {
			rate = mix.FlowrateB
		}
		if reps != nil {
			opts.Repetitions = *reps
		}
		if rate != nil {
			opts.Flowrate = rate
		}
	}
	params, err := ParseXferParams(volume, opts)
	if err != nil {
		return nil, err
	}
	return sequence.XferAspirate(volume, params)
}

// XferDspTransports recreates the old single-channel dispense behavior.
// Aspirate-phase keywords are dropped; the mix-after bundle parameters are
// renamed onto the canonical mixing keywords.
func XferDspTransports(volume unit.Unit, opts TransferOpts, mix *MixBundle) ([]*builder.Transport, error) {
	opts.AspirateSource = nil
	opts.AspirateSpeed = nil
	opts.MixBefore = false
	if mix != nil {
		opts.MixAfter = opts.MixAfter || mix.MixAfter
		if mix.MixVol != nil {
			opts.MixVol = mix.MixVol
		}
		reps, rate := mix.Repetitions, mix.Flowrate
		if mix.RepetitionsA != nil {
			reps = mix.RepetitionsA
		}
		if mix.FlowrateA != nil {
			rate = mix.FlowrateA
		}
		if reps != nil {
			opts.Repetitions = *reps
		}
		if rate != nil {
			opts.Flowrate = rate
		}
	}
	params, err := ParseXferParams(volume, opts)
	if err != nil {
		return nil, err
	}
	return sequence.XferDispense(volume, params)
}

// StampAspTransports recreates the old multi-channel aspirate behavior.
// Dispense-phase and blow-out keywords are dropped, and following never
// applies to stamp aspirates.
func StampAspTransports(volume unit.Unit, opts StampOpts) ([]*builder.Transport, error) {
	opts.DispenseTarget = nil
	opts.DispenseSpeed = nil
	opts.MixAfter = false
	opts.BlowoutBuffer = false
	params, err := ParseStampParams(volume, opts)
	if err != nil {
		return nil, err
	}
	params.Following = false
	return sequence.StampAspirate(volume, params)
}

// StampDspTransports recreates the old multi-channel dispense behavior.
// Aspirate-phase keywords are dropped.
func StampDspTransports(volume unit.Unit, opts StampOpts) ([]*builder.Transport, error) {
	opts.AspirateSource = nil
	opts.AspirateSpeed = nil
	opts.MixBefore = false
	params, err := ParseStampParams(volume, opts)
	if err != nil {
		return nil, err
	}
	return sequence.StampDispense(volume, params)
}
