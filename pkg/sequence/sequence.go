// Canonical phase parameters and shared step constructors
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package sequence assembles ordered transport lists for the aspirate and
// dispense phases of single-channel (transfer) and multi-channel (stamp)
// operations. The four assemblers share one step-order skeleton
// (pre-step, position, core action, post-step, blow-out) parameterized by
// small per-mode policy values.
package sequence

import (
	"liquidhandle/pkg/builder"
	"liquidhandle/pkg/device"
	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/unit"
)

// Params is the canonical parameter record consumed by the assemblers.
// It is produced from the legacy calling convention by the translators in
// pkg/legacy, or built directly by new callers.
type Params struct {
	// AspirateFlowrate applies to the core aspirate and primer-return
	// steps.
	AspirateFlowrate *builder.Flowrate

	// DispenseFlowrate applies to the core dispense step.
	DispenseFlowrate *builder.Flowrate

	// PreBuffer is the volume of air drawn above the well before liquid.
	PreBuffer *unit.Unit

	// DisposalVol is extra liquid aspirated to be discarded, never
	// dispensed to a destination. Single-channel only.
	DisposalVol *unit.Unit

	// TransitVol is the small air gap drawn after liquid to reduce bubble
	// carry-over.
	TransitVol *unit.Unit

	// BlowoutBuffer expels the pre-buffer air along with the dispense.
	BlowoutBuffer bool

	// PrimerVol is extra liquid aspirated and immediately returned to
	// prime the fluidic path. Defaults to 5 microliters.
	PrimerVol *unit.Unit

	// CalibratedVol is the pump-movement volume after empirical
	// correction of the nominal volume.
	CalibratedVol *unit.Unit

	// TipZ positions the tip before the core action.
	TipZ *builder.ZPosition

	// Following makes the tip track the liquid surface during the core
	// action instead of holding the preceding position.
	Following bool

	// MixBefore mixes the source well before aspirating.
	MixBefore bool

	// MixAfter mixes the destination well after dispensing.
	MixAfter bool

	// MixVol is the mixing volume. Defaults to half the nominal volume.
	MixVol *unit.Unit

	// MixSpeed is the mixing flow-rate. Defaults to 100 microliter/second.
	MixSpeed *unit.Unit

	// Repetitions is the mixing cycle count. Defaults to 10.
	Repetitions int

	// NewDefaults selects the recommended-defaults behavior profile
	// instead of exact legacy compatibility.
	NewDefaults bool
}

// Fixed offsets shared by the assemblers.
var (
	wellTopClearance = unit.Millimeters(1.0)
	stampSafeOffset  = unit.Millimeters(10)
	bottomClearance  = unit.Millimeters(1)
	xferMixStart     = unit.Millimeters(0.5)
	followOffset     = unit.Millimeters(-1)
	blowoutTopOffset = unit.Millimeters(-2)
	defaultPrimerVol = unit.Microliters(5)
)

// checkVolume validates the nominal phase volume: a volume quantity,
// never negative.
func checkVolume(volume unit.Unit) error {
	if err := volume.ExpectDim(unit.Volume, "volume"); err != nil {
		return err
	}
	if volume.Sign() < 0 {
		return lherr.VolumeRangeError("volume", "nominal volume must not be negative")
	}
	return nil
}

// isPositiveVolume reports whether u is present and strictly above zero,
// validating its unit family.
func isPositiveVolume(u *unit.Unit, field string) (bool, error) {
	if u == nil {
		return false, nil
	}
	if err := u.ExpectDim(unit.Volume, field); err != nil {
		return false, err
	}
	return u.Sign() > 0, nil
}

// moveTransport builds a bare positioning transport to the given vertical
// placement. A nil placement still yields a movement step with an empty
// tip position, matching the legacy record shape.
func moveTransport(tipZ *builder.ZPosition) (*builder.Transport, error) {
	mp, err := builder.NewModeParams(builder.ModeParamsOpts{TipZ: tipZ})
	if err != nil {
		return nil, err
	}
	return builder.NewTransport(builder.TransportOpts{ModeParams: mp})
}

// airTransport builds an air-gap pump movement at the given vertical
// placement. Only the calibrated volume moves; no nominal volume is
// recorded for air.
func airTransport(calVolume unit.Unit, tipZ *builder.ZPosition) (*builder.Transport, error) {
	mp, err := builder.NewModeParams(builder.ModeParamsOpts{
		LiquidClass: device.ClassAir,
		TipZ:        tipZ,
	})
	if err != nil {
		return nil, err
	}
	return builder.NewTransport(builder.TransportOpts{
		CalibratedVolume: unit.Ptr(calVolume),
		ModeParams:       mp,
	})
}

// wellTopPosition builds a placement at the given offset from the well top.
func wellTopPosition(offset unit.Unit) (*builder.ZPosition, error) {
	return builder.NewZPosition(builder.ZPositionOpts{
		Reference: device.WellTop,
		Offset:    unit.Ptr(offset),
	})
}

// wellBottomPosition builds a placement at the given offset from the well
// bottom.
func wellBottomPosition(offset unit.Unit) (*builder.ZPosition, error) {
	return builder.NewZPosition(builder.ZPositionOpts{
		Reference: device.WellBottom,
		Offset:    unit.Ptr(offset),
	})
}

// precedingPosition builds a placement chained to the preceding step.
func precedingPosition() (*builder.ZPosition, error) {
	return builder.NewZPosition(builder.ZPositionOpts{
		Reference: device.PrecedingPosition,
	})
}

// trackedSurfacePosition builds the following-mode placement: the tip
// tracks the liquid surface at a fixed submersion depth.
func trackedSurfacePosition() (*builder.ZPosition, error) {
	return builder.NewZPosition(builder.ZPositionOpts{
		Reference:       device.LiquidSurface,
		DetectionMethod: device.Tracked,
		Offset:          unit.Ptr(followOffset),
	})
}

// corePosition picks the placement of a core pump action: tracked liquid
// surface when following, otherwise the preceding position.
func corePosition(following bool) (*builder.ZPosition, error) {
	if following {
		return trackedSurfacePosition()
	}
	return precedingPosition()
}
