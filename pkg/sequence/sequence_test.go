// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sequence

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidhandle/pkg/builder"
	"liquidhandle/pkg/device"
	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/unit"
)

var unitCmp = cmp.Comparer(func(a, b unit.Unit) bool {
	return a.Dim() == b.Dim() && a.Value() == b.Value()
})

// zRef extracts the vertical reference of a transport, or "" when absent.
func zRef(tr *builder.Transport) device.Reference {
	if tr.ModeParams == nil || tr.ModeParams.TipPosition.Z == nil {
		return ""
	}
	return tr.ModeParams.TipPosition.Z.Reference
}

func testTipZ(t *testing.T) *builder.ZPosition {
	t.Helper()
	z, err := builder.NewZPosition(builder.ZPositionOpts{
		Reference:          device.LiquidSurface,
		Offset:             unit.Ptr(unit.Millimeters(-1)),
		DetectionMethod:    device.Capacitance,
		DetectionThreshold: unit.Ptr(unit.Picofarads(0.61362)),
	})
	require.NoError(t, err)
	return z
}

func TestMixDefaults(t *testing.T) {
	list, err := Mix(MixOpts{})
	require.NoError(t, err)

	// One leading positioning step plus ten aspirate/dispense pairs.
	require.Len(t, list, 21)
	assert.Nil(t, list[0].Volume)
	assert.Equal(t, device.WellBottom, zRef(list[0]))

	for i := 1; i < len(list); i += 2 {
		asp, dsp := list[i], list[i+1]
		assert.Equal(t, -50.0, asp.Volume.Value())
		assert.Equal(t, 50.0, dsp.Volume.Value())
		assert.Equal(t, device.PrecedingPosition, zRef(asp))
		assert.Equal(t, device.PrecedingPosition, zRef(dsp))
		require.NotNil(t, asp.Flowrate)
		assert.Equal(t, 100.0, asp.Flowrate.Target.Value())
	}
}

func TestMixFromCurrent(t *testing.T) {
	list, err := Mix(MixOpts{
		Volume:      unit.Ptr(unit.Microliters(25)),
		Repetitions: 3,
		FromCurrent: true,
	})
	require.NoError(t, err)

	// No leading positioning step.
	require.Len(t, list, 6)
	assert.Equal(t, -25.0, list[0].Volume.Value())
	assert.Equal(t, 25.0, list[1].Volume.Value())
}

func TestMixStartOffset(t *testing.T) {
	list, err := Mix(MixOpts{
		Repetitions: 1,
		StartOffset: unit.Ptr(unit.Millimeters(0.5)),
	})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "", cmp.Diff(
		unit.Millimeters(0.5),
		*list[0].ModeParams.TipPosition.Z.Offset,
		unitCmp,
	))
}

func TestMixErrors(t *testing.T) {
	_, err := Mix(MixOpts{Volume: unit.Ptr(unit.Microliters(-5))})
	require.Error(t, err)
	assert.True(t, lherr.Is(err, lherr.ErrVolumeRange))

	_, err = Mix(MixOpts{Volume: unit.Ptr(unit.Seconds(1))})
	require.Error(t, err)
	assert.True(t, lherr.Is(err, lherr.ErrUnitDim))
}

func TestMoveOver(t *testing.T) {
	list, err := MoveOver()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Volume)
	assert.Equal(t, device.PrecedingPosition, zRef(list[0]))
}

func TestXferAspirate(t *testing.T) {
	p := Params{
		PreBuffer:     unit.Ptr(unit.Microliters(15)),
		DisposalVol:   unit.Ptr(unit.Microliters(0)),
		TransitVol:    unit.Ptr(unit.Microliters(2)),
		CalibratedVol: unit.Ptr(unit.Microliters(56.68)),
		TipZ:          testTipZ(t),
		Following:     true,
	}
	list, err := XferAspirate(unit.Microliters(50), p)
	require.NoError(t, err)
	require.Len(t, list, 5)

	// Pre-buffer air gap above the well top.
	preBuffer := list[0]
	assert.Nil(t, preBuffer.Volume)
	assert.Equal(t, -15.0, preBuffer.CalibratedVolume.Value())
	assert.Equal(t, device.ClassAir, preBuffer.ModeParams.LiquidClass)
	assert.Equal(t, device.WellTop, zRef(preBuffer))

	// Sensing movement.
	move := list[1]
	assert.Nil(t, move.Volume)
	assert.Equal(t, device.LiquidSurface, zRef(move))
	require.NotNil(t, move.ModeParams.TipPosition.Z.Detection)

	// Core aspirate includes the default primer volume and follows the
	// tracked surface.
	core := list[2]
	assert.Equal(t, -55.0, core.Volume.Value())
	assert.InDelta(t, -61.68, core.CalibratedVolume.Value(), 1e-9)
	assert.Equal(t, device.LiquidSurface, zRef(core))
	assert.Equal(t, device.Tracked, core.ModeParams.TipPosition.Z.Detection.Method)

	// Primer return.
	primer := list[3]
	assert.Equal(t, 5.0, primer.Volume.Value())
	assert.Equal(t, device.PrecedingPosition, zRef(primer))

	// Transit air gap.
	transit := list[4]
	assert.Nil(t, transit.Volume)
	assert.Equal(t, -2.0, transit.CalibratedVolume.Value())
	assert.Equal(t, device.ClassAir, transit.ModeParams.LiquidClass)
	assert.Equal(t, device.WellTop, zRef(transit))
}

func TestXferAspirateNotFollowing(t *testing.T) {
	p := Params{
		TransitVol: unit.Ptr(unit.Microliters(2)),
		TipZ:       testTipZ(t),
		Following:  false,
	}
	list, err := XferAspirate(unit.Microliters(50), p)
	require.NoError(t, err)

	// Without a pre-buffer the sequence starts at the sensing movement,
	// and the core aspirate holds the preceding position.
	require.Len(t, list, 4)
	assert.Equal(t, device.LiquidSurface, zRef(list[0]))
	assert.Equal(t, device.PrecedingPosition, zRef(list[1]))
}

func TestXferAspirateDisposal(t *testing.T) {
	p := Params{
		DisposalVol:   unit.Ptr(unit.Microliters(10)),
		CalibratedVol: unit.Ptr(unit.Microliters(56.68)),
		PrimerVol:     unit.Ptr(unit.Microliters(3)),
	}
	list, err := XferAspirate(unit.Microliters(50), p)
	require.NoError(t, err)

	// move, core, primer return
	require.Len(t, list, 3)
	core := list[1]
	assert.Equal(t, -63.0, core.Volume.Value())
	assert.InDelta(t, -69.68, core.CalibratedVolume.Value(), 1e-9)
	assert.Equal(t, 3.0, list[2].Volume.Value())
}

func TestXferAspirateMixBefore(t *testing.T) {
	p := Params{
		MixBefore:   true,
		MixVol:      unit.Ptr(unit.Microliters(25)),
		Repetitions: 2,
	}
	list, err := XferAspirate(unit.Microliters(50), p)
	require.NoError(t, err)

	// mix (1 move + 2 pairs), sensing move, core, primer return
	require.Len(t, list, 8)
	assert.Equal(t, device.WellBottom, zRef(list[0]))
	assert.Equal(t, -25.0, list[1].Volume.Value())
	assert.Equal(t, 0.5, list[0].ModeParams.TipPosition.Z.Offset.Value())
}

func TestStampAspirate(t *testing.T) {
	bottom, err := builder.NewZPosition(builder.ZPositionOpts{
		Reference: device.WellBottom,
		Offset:    unit.Ptr(unit.Millimeters(1)),
	})
	require.NoError(t, err)

	p := Params{
		PreBuffer:     unit.Ptr(unit.Microliters(5)),
		TransitVol:    unit.Ptr(unit.Microliters(1)),
		CalibratedVol: unit.Ptr(unit.Microliters(10)),
		TipZ:          bottom,
	}
	list, err := StampAspirate(unit.Microliters(10), p)
	require.NoError(t, err)

	// Legacy profile: no transit gap.
	require.Len(t, list, 4)
	assert.Equal(t, 10.0, list[0].ModeParams.TipPosition.Z.Offset.Value())
	assert.Equal(t, device.WellTop, zRef(list[0]))
	assert.Equal(t, device.WellBottom, zRef(list[1]))
	assert.Equal(t, -15.0, list[2].Volume.Value())
	assert.Equal(t, 5.0, list[3].Volume.Value())

	// Recommended-defaults profile appends the transit gap.
	p.NewDefaults = true
	list, err = StampAspirate(unit.Microliters(10), p)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, -1.0, list[4].CalibratedVolume.Value())
}

func TestStampAspirateMixFromCurrent(t *testing.T) {
	p := Params{
		MixBefore:   true,
		MixVol:      unit.Ptr(unit.Microliters(5)),
		Repetitions: 1,
	}
	list, err := StampAspirate(unit.Microliters(10), p)
	require.NoError(t, err)

	// move, mix pair (no leading mix positioning step), core, primer return
	require.Len(t, list, 5)
	assert.Equal(t, -5.0, list[1].Volume.Value())
	assert.Equal(t, 5.0, list[2].Volume.Value())
}

func TestXferDispense(t *testing.T) {
	p := Params{
		PreBuffer:     unit.Ptr(unit.Microliters(15)),
		TransitVol:    unit.Ptr(unit.Microliters(2)),
		BlowoutBuffer: true,
		CalibratedVol: unit.Ptr(unit.Microliters(56.68)),
		TipZ:          testTipZ(t),
		Following:     true,
	}
	list, err := XferDispense(unit.Microliters(50), p)
	require.NoError(t, err)
	require.Len(t, list, 5)

	// Transit air expelled above the destination.
	transit := list[0]
	assert.Equal(t, 2.0, transit.CalibratedVolume.Value())
	assert.Equal(t, device.ClassAir, transit.ModeParams.LiquidClass)
	assert.Equal(t, device.WellTop, zRef(transit))

	// Positioning then the core dispense.
	assert.Equal(t, device.LiquidSurface, zRef(list[1]))
	core := list[2]
	assert.Equal(t, 50.0, core.Volume.Value())
	assert.InDelta(t, 56.68, core.CalibratedVolume.Value(), 1e-9)
	assert.Equal(t, device.Tracked, core.ModeParams.TipPosition.Z.Detection.Method)

	// Legacy blow-out: reposition near the well bottom, then expel.
	reposition := list[3]
	assert.Equal(t, device.WellBottom, zRef(reposition))
	assert.Equal(t, 1.0, reposition.ModeParams.TipPosition.Z.Offset.Value())
	blowout := list[4]
	assert.Equal(t, 15.0, blowout.CalibratedVolume.Value())
	assert.Equal(t, device.ClassAir, blowout.ModeParams.LiquidClass)
	assert.Equal(t, device.PrecedingPosition, zRef(blowout))
}

func TestXferDispenseNewDefaultsBlowout(t *testing.T) {
	p := Params{
		PreBuffer:     unit.Ptr(unit.Microliters(15)),
		BlowoutBuffer: true,
		NewDefaults:   true,
	}
	list, err := XferDispense(unit.Microliters(50), p)
	require.NoError(t, err)
	require.Len(t, list, 4)

	// Recommended defaults blow out just inside the well top.
	reposition := list[2]
	assert.Equal(t, device.WellTop, zRef(reposition))
	assert.Equal(t, -2.0, reposition.ModeParams.TipPosition.Z.Offset.Value())
}

func TestXferDispenseNoBlowoutWithoutBuffer(t *testing.T) {
	p := Params{
		PreBuffer:     unit.Ptr(unit.Microliters(0)),
		BlowoutBuffer: true,
	}
	list, err := XferDispense(unit.Microliters(50), p)
	require.NoError(t, err)

	// move, core; a zero pre-buffer yields no blow-out.
	require.Len(t, list, 2)
}

func TestXferDispenseMixAfter(t *testing.T) {
	p := Params{
		MixAfter:    true,
		Repetitions: 2,
	}
	list, err := XferDispense(unit.Microliters(50), p)
	require.NoError(t, err)

	// move, core, mix (1 move + 2 pairs). Mix volume defaults to half
	// the nominal volume.
	require.Len(t, list, 7)
	assert.Equal(t, -25.0, list[3].Volume.Value())
}

func TestStampDispense(t *testing.T) {
	p := Params{
		PreBuffer:     unit.Ptr(unit.Microliters(5)),
		TransitVol:    unit.Ptr(unit.Microliters(1)),
		BlowoutBuffer: true,
	}
	list, err := StampDispense(unit.Microliters(10), p)
	require.NoError(t, err)

	// Legacy profile: no transit gap, fixed well-bottom fallback position.
	require.Len(t, list, 4)
	assert.Equal(t, device.WellBottom, zRef(list[0]))
	assert.Equal(t, 1.0, list[0].ModeParams.TipPosition.Z.Offset.Value())
	assert.Equal(t, 10.0, list[1].Volume.Value())

	p.NewDefaults = true
	list, err = StampDispense(unit.Microliters(10), p)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, 1.0, list[0].CalibratedVolume.Value())
}

func TestNegativeVolumeRejected(t *testing.T) {
	_, err := XferAspirate(unit.Microliters(-1), Params{})
	require.Error(t, err)
	assert.True(t, lherr.Is(err, lherr.ErrVolumeRange))

	_, err = StampDispense(unit.Microliters(-1), Params{})
	require.Error(t, err)
	assert.True(t, lherr.Is(err, lherr.ErrVolumeRange))
}

func TestWrongVolumeFamilyRejected(t *testing.T) {
	_, err := XferDispense(unit.Millimeters(1), Params{})
	require.Error(t, err)
	assert.True(t, lherr.Is(err, lherr.ErrUnitDim))
}
