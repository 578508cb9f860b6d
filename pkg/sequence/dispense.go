// Dispense-phase transport assembly
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sequence

import (
	"liquidhandle/pkg/builder"
	"liquidhandle/pkg/unit"
)

// dspPolicy carries the per-mode values that distinguish the transfer and
// stamp dispense sequences inside the shared pipeline.
type dspPolicy struct {
	// emitTransit prepends the transit air gap before moving over the
	// destination.
	emitTransit bool

	// defaultTipZ substitutes the fixed well-bottom clearance when no
	// dispense position was resolved.
	defaultTipZ bool

	// mixStartOffset positions the leading mix-after transport above the
	// well bottom. Nil keeps the mix helper default.
	mixStartOffset *unit.Unit
}

// XferDispense assembles the dispense phase of a single-channel transfer:
// transit air gap, move to the dispense position, dispense, optional
// mix-after, and blow out the pre-buffer.
func XferDispense(volume unit.Unit, p Params) ([]*builder.Transport, error) {
	transit, err := isPositiveVolume(p.TransitVol, "transit_vol")
	if err != nil {
		return nil, err
	}
	return dispenseTransports(volume, p, dspPolicy{
		emitTransit:    transit,
		mixStartOffset: unit.Ptr(xferMixStart),
	})
}

// StampDispense assembles the dispense phase of a multi-channel stamp.
// The transit air gap is only emitted under the recommended-defaults
// profile; an unset dispense position falls back to a fixed clearance
// above the well bottom.
func StampDispense(volume unit.Unit, p Params) ([]*builder.Transport, error) {
	transit, err := isPositiveVolume(p.TransitVol, "transit_vol")
	if err != nil {
		return nil, err
	}
	return dispenseTransports(volume, p, dspPolicy{
		emitTransit: transit && p.NewDefaults,
		defaultTipZ: true,
	})
}

// dispenseTransports is the shared dispense pipeline:
// transit, position, core dispense, mix-after, blow-out.
func dispenseTransports(volume unit.Unit, p Params, pol dspPolicy) ([]*builder.Transport, error) {
	if err := checkVolume(volume); err != nil {
		return nil, err
	}
	var list []*builder.Transport

	// Expel the transit air gap above the destination
	if pol.emitTransit {
		top, err := wellTopPosition(wellTopClearance)
		if err != nil {
			return nil, err
		}
		gap, err := airTransport(*p.TransitVol, top)
		if err != nil {
			return nil, err
		}
		list = append(list, gap)
	}

	// Move to the dispense position
	tipZ := p.TipZ
	if tipZ == nil && pol.defaultTipZ {
		bottom, err := wellBottomPosition(bottomClearance)
		if err != nil {
			return nil, err
		}
		tipZ = bottom
	}
	move, err := moveTransport(tipZ)
	if err != nil {
		return nil, err
	}
	list = append(list, move)

	// Core dispense
	if p.CalibratedVol != nil {
		if err := p.CalibratedVol.ExpectDim(unit.Volume, "calibrated_vol"); err != nil {
			return nil, err
		}
	}
	corePos, err := corePosition(p.Following)
	if err != nil {
		return nil, err
	}
	coreMP, err := builder.NewModeParams(builder.ModeParamsOpts{TipZ: corePos})
	if err != nil {
		return nil, err
	}
	core, err := builder.NewTransport(builder.TransportOpts{
		Volume:           unit.Ptr(volume),
		CalibratedVolume: p.CalibratedVol,
		Flowrate:         p.DispenseFlowrate,
		ModeParams:       coreMP,
	})
	if err != nil {
		return nil, err
	}
	list = append(list, core)

	// Mix-after
	if p.MixAfter {
		steps, err := phaseMix(volume, p, false, pol.mixStartOffset)
		if err != nil {
			return nil, err
		}
		list = append(list, steps...)
	}

	// Blow out the pre-buffer as air
	preBuffer, err := isPositiveVolume(p.PreBuffer, "pre_buffer")
	if err != nil {
		return nil, err
	}
	if p.BlowoutBuffer && preBuffer {
		var rePos *builder.ZPosition
		if p.NewDefaults {
			rePos, err = wellTopPosition(blowoutTopOffset)
		} else {
			rePos, err = wellBottomPosition(bottomClearance)
		}
		if err != nil {
			return nil, err
		}
		move, err := moveTransport(rePos)
		if err != nil {
			return nil, err
		}
		list = append(list, move)
		chain, err := precedingPosition()
		if err != nil {
			return nil, err
		}
		blowout, err := airTransport(*p.PreBuffer, chain)
		if err != nil {
			return nil, err
		}
		list = append(list, blowout)
	}

	return list, nil
}
