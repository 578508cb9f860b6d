// Mixing and hover micro-sequence helpers
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sequence

import (
	"liquidhandle/pkg/builder"
	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/unit"
)

// Default mixing parameters.
var (
	defaultMixVolume = unit.Microliters(50)
	defaultMixSpeed  = unit.MicrolitersPerSecond(100)
)

const defaultMixRepetitions = 10

// MixOpts configures Mix. The zero value mixes 50 microliters at
// 100 microliter/second for 10 repetitions, starting 1 mm above the well
// bottom.
type MixOpts struct {
	// Volume aspirated and expelled during each repetition.
	Volume *unit.Unit

	// Speed of liquid during mixing.
	Speed *unit.Unit

	// Repetitions of the aspirate/dispense pair.
	Repetitions int

	// FromCurrent begins mixing from wherever the preceding position is,
	// instead of moving to the start offset first.
	FromCurrent bool

	// StartOffset is the height above the well bottom of the leading
	// positioning transport. Defaults to 1 mm.
	StartOffset *unit.Unit
}

// Mix generates a repeated aspirate/dispense micro-sequence. Each
// repetition contributes one aspirate and one dispense transport of equal
// magnitude, chained positionally to the preceding step.
func Mix(opts MixOpts) ([]*builder.Transport, error) {
	vol := defaultMixVolume
	if opts.Volume != nil {
		vol = *opts.Volume
	}
	if err := vol.ExpectDim(unit.Volume, "mix_vol"); err != nil {
		return nil, err
	}
	if vol.Sign() < 0 {
		return nil, lherr.VolumeRangeError("mix_vol", "mix volume must not be negative")
	}
	speed := defaultMixSpeed
	if opts.Speed != nil {
		speed = *opts.Speed
	}
	reps := opts.Repetitions
	if reps == 0 {
		reps = defaultMixRepetitions
	}

	var list []*builder.Transport
	if !opts.FromCurrent {
		offset := unit.Millimeters(1)
		if opts.StartOffset != nil {
			offset = *opts.StartOffset
		}
		start, err := wellBottomPosition(offset)
		if err != nil {
			return nil, err
		}
		move, err := moveTransport(start)
		if err != nil {
			return nil, err
		}
		list = append(list, move)
	}

	rate, err := builder.FlowrateFromSpeed(speed)
	if err != nil {
		return nil, err
	}
	for i := 0; i < reps; i++ {
		for _, v := range []unit.Unit{vol.Neg(), vol} {
			chain, err := precedingPosition()
			if err != nil {
				return nil, err
			}
			mp, err := builder.NewModeParams(builder.ModeParamsOpts{TipZ: chain})
			if err != nil {
				return nil, err
			}
			t, err := builder.NewTransport(builder.TransportOpts{
				Volume:           unit.Ptr(v),
				CalibratedVolume: unit.Ptr(v),
				Flowrate:         rate,
				ModeParams:       mp,
			})
			if err != nil {
				return nil, err
			}
			list = append(list, t)
		}
	}
	return list, nil
}

// MoveOver generates a single transport hovering above the target location
// at the preceding position.
func MoveOver() ([]*builder.Transport, error) {
	chain, err := precedingPosition()
	if err != nil {
		return nil, err
	}
	hover, err := moveTransport(chain)
	if err != nil {
		return nil, err
	}
	return []*builder.Transport{hover}, nil
}

// phaseMix builds the in-phase mixing sub-sequence for an assembler: mix
// volume defaults to half the nominal phase volume.
func phaseMix(volume unit.Unit, p Params, fromCurrent bool, startOffset *unit.Unit) ([]*builder.Transport, error) {
	vol := p.MixVol
	if vol == nil {
		vol = unit.Ptr(volume.Mul(0.5))
	}
	return Mix(MixOpts{
		Volume:      vol,
		Speed:       p.MixSpeed,
		Repetitions: p.Repetitions,
		FromCurrent: fromCurrent,
		StartOffset: startOffset,
	})
}
