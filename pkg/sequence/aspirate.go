// Aspirate-phase transport assembly
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sequence

import (
	"liquidhandle/pkg/builder"
	"liquidhandle/pkg/unit"
)

// aspPolicy carries the per-mode values that distinguish the transfer and
// stamp aspirate sequences inside the shared pipeline.
type aspPolicy struct {
	// preBufferOffset is the clearance above the well top for the
	// pre-buffer air gap.
	preBufferOffset unit.Unit

	// mixBeforeMove emits the mix-before sub-sequence before moving to
	// the sensing position (transfer) instead of after it (stamp).
	mixBeforeMove bool

	// mixFromCurrent starts mixing from the current tip position.
	mixFromCurrent bool

	// mixStartOffset positions the leading mix transport above the well
	// bottom.
	mixStartOffset *unit.Unit

	// withDisposal includes the disposal volume in the core aspirate.
	withDisposal bool

	// following substitutes a tracked liquid-surface reference for the
	// core aspirate position.
	following bool

	// emitTransit appends the trailing transit air gap.
	emitTransit bool
}

// XferAspirate assembles the aspirate phase of a single-channel transfer:
// pre-buffer air gap, optional mix-before, move to the sensing position,
// aspirate with primer and disposal volumes, return the primer, and close
// with a transit air gap.
func XferAspirate(volume unit.Unit, p Params) ([]*builder.Transport, error) {
	transit, err := isPositiveVolume(p.TransitVol, "transit_vol")
	if err != nil {
		return nil, err
	}
	return aspirateTransports(volume, p, aspPolicy{
		preBufferOffset: wellTopClearance,
		mixBeforeMove:   true,
		mixStartOffset:  unit.Ptr(xferMixStart),
		withDisposal:    true,
		following:       p.Following,
		emitTransit:     transit,
	})
}

// StampAspirate assembles the aspirate phase of a multi-channel stamp.
// Following never applies to the core aspirate movement: the stamping
// device has no sensing during that phase. The transit air gap is only
// emitted under the recommended-defaults profile.
func StampAspirate(volume unit.Unit, p Params) ([]*builder.Transport, error) {
	transit, err := isPositiveVolume(p.TransitVol, "transit_vol")
	if err != nil {
		return nil, err
	}
	return aspirateTransports(volume, p, aspPolicy{
		preBufferOffset: stampSafeOffset,
		mixFromCurrent:  true,
		emitTransit:     transit && p.NewDefaults,
	})
}

// aspirateTransports is the shared aspirate pipeline:
// pre-buffer, mix-before, position, core aspirate, primer return, transit.
func aspirateTransports(volume unit.Unit, p Params, pol aspPolicy) ([]*builder.Transport, error) {
	if err := checkVolume(volume); err != nil {
		return nil, err
	}
	var list []*builder.Transport

	// Pre-buffer air gap above the well
	preBuffer, err := isPositiveVolume(p.PreBuffer, "pre_buffer")
	if err != nil {
		return nil, err
	}
	if preBuffer {
		top, err := wellTopPosition(pol.preBufferOffset)
		if err != nil {
			return nil, err
		}
		gap, err := airTransport(p.PreBuffer.Neg(), top)
		if err != nil {
			return nil, err
		}
		list = append(list, gap)
	}

	mix := func() error {
		steps, err := phaseMix(volume, p, pol.mixFromCurrent, pol.mixStartOffset)
		if err != nil {
			return err
		}
		list = append(list, steps...)
		return nil
	}
	if p.MixBefore && pol.mixBeforeMove {
		if err := mix(); err != nil {
			return nil, err
		}
	}

	// Move to the sensing z-position
	move, err := moveTransport(p.TipZ)
	if err != nil {
		return nil, err
	}
	list = append(list, move)

	if p.MixBefore && !pol.mixBeforeMove {
		if err := mix(); err != nil {
			return nil, err
		}
	}

	// Core aspirate with primer and disposal volumes
	primer := defaultPrimerVol
	if p.PrimerVol != nil {
		if err := p.PrimerVol.ExpectDim(unit.Volume, "primer_vol"); err != nil {
			return nil, err
		}
		primer = *p.PrimerVol
	}
	total, err := volume.Add(primer)
	if err != nil {
		return nil, err
	}
	var calTotal *unit.Unit
	if p.CalibratedVol != nil {
		c, err := p.CalibratedVol.Add(primer)
		if err != nil {
			return nil, err
		}
		calTotal = unit.Ptr(c)
	}
	if pol.withDisposal && p.DisposalVol != nil {
		if err := p.DisposalVol.ExpectDim(unit.Volume, "disposal_vol"); err != nil {
			return nil, err
		}
		if total, err = total.Add(*p.DisposalVol); err != nil {
			return nil, err
		}
		if calTotal != nil {
			c, err := calTotal.Add(*p.DisposalVol)
			if err != nil {
				return nil, err
			}
			calTotal = unit.Ptr(c)
		}
	}
	corePos, err := corePosition(pol.following)
	if err != nil {
		return nil, err
	}
	coreMP, err := builder.NewModeParams(builder.ModeParamsOpts{TipZ: corePos})
	if err != nil {
		return nil, err
	}
	if calTotal != nil {
		calTotal = unit.Ptr(calTotal.Neg())
	}
	core, err := builder.NewTransport(builder.TransportOpts{
		Volume:           unit.Ptr(total.Neg()),
		CalibratedVolume: calTotal,
		Flowrate:         p.AspirateFlowrate,
		ModeParams:       coreMP,
	})
	if err != nil {
		return nil, err
	}
	list = append(list, core)

	// Return the primer volume
	chain, err := precedingPosition()
	if err != nil {
		return nil, err
	}
	chainMP, err := builder.NewModeParams(builder.ModeParamsOpts{TipZ: chain})
	if err != nil {
		return nil, err
	}
	primerReturn, err := builder.NewTransport(builder.TransportOpts{
		Volume:           unit.Ptr(primer),
		CalibratedVolume: unit.Ptr(primer),
		Flowrate:         p.AspirateFlowrate,
		ModeParams:       chainMP,
	})
	if err != nil {
		return nil, err
	}
	list = append(list, primerReturn)

	// Transit air gap above the well
	if pol.emitTransit {
		top, err := wellTopPosition(wellTopClearance)
		if err != nil {
			return nil, err
		}
		gap, err := airTransport(p.TransitVol.Neg(), top)
		if err != nil {
			return nil, err
		}
		list = append(list, gap)
	}

	return list, nil
}
