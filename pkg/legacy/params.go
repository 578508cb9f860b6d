// Legacy-parameter translation onto the canonical parameter set
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package legacy

import (
	"liquidhandle/pkg/builder"
	"liquidhandle/pkg/device"
	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/sequence"
	"liquidhandle/pkg/unit"
)

// Detection scale factors: one legacy sensitivity unit in physical terms.
var (
	clldUnit = unit.Picofarads(0.009740)
	plldUnit = unit.PSI(0.000109867)
)

// defaultCLLDSensitivity is the capacitance threshold applied when no
// explicit sensing parameters are given, in legacy scale units.
const defaultCLLDSensitivity = 63

// referenceMap translates the legacy ll_* depth names.
var referenceMap = map[string]device.Reference{
	"ll_following": device.LiquidSurface,
	"ll_top":       device.WellTop,
	"ll_bottom":    device.WellBottom,
	"ll_surface":   device.LiquidSurface,
}

// methodMap translates the legacy sensing-mode names.
var methodMap = map[string]device.DetectionMethod{
	"capacitive": device.Capacitance,
	"pressure":   device.Pressure,
}

// TransferOpts is the old single-channel calling convention.
type TransferOpts struct {
	// AspirateSpeed is the maximum aspiration speed. May not be combined
	// with an AspirateSource speed range.
	AspirateSpeed *unit.Unit

	// DispenseSpeed is the dispense speed. May not be combined with a
	// DispenseTarget speed range.
	DispenseSpeed *unit.Unit

	// AspirateSource reconfigures aspirate translation. Mutually
	// exclusive with DispenseTarget.
	AspirateSource *SourceSpec

	// DispenseTarget reconfigures dispense translation. Mutually
	// exclusive with AspirateSource.
	DispenseTarget *SourceSpec

	// PreBuffer is the air volume drawn before liquid. Defaults by
	// volume band.
	PreBuffer *unit.Unit

	// DisposalVol is extra liquid aspirated for the trash.
	DisposalVol *unit.Unit

	// TransitVol is the air gap drawn after liquid. Defaults to 2 uL.
	TransitVol *unit.Unit

	// BlowoutBuffer dispenses the pre-buffer along with the volume.
	BlowoutBuffer bool

	// MixBefore mixes the source well before the transfer.
	MixBefore bool

	// MixAfter mixes the destination well after the transfer.
	MixAfter bool

	// MixVol is the mixing volume.
	MixVol *unit.Unit

	// Repetitions is the mixing cycle count.
	Repetitions int

	// Flowrate is the legacy name for the mixing speed.
	Flowrate *unit.Unit

	// NewDefaults selects the recommended-defaults behavior profile.
	NewDefaults bool

	// Device gates flow-rate ramp fields and detection methods during
	// translation. Defaults to the omni profile.
	Device device.Profile
}

// StampOpts is the old multi-channel calling convention.
type StampOpts struct {
	AspirateSpeed  *unit.Unit
	DispenseSpeed  *unit.Unit
	AspirateSource *SourceSpec
	DispenseTarget *SourceSpec

	// PreBuffer defaults to 5 uL. A positive pre-buffer forces blow-out
	// on unless explicitly configured.
	PreBuffer *unit.Unit

	// TransitVol defaults to 1 uL and is only emitted under the
	// recommended-defaults profile.
	TransitVol *unit.Unit

	BlowoutBuffer bool
	MixBefore     bool
	MixAfter      bool
	MixVol        *unit.Unit
	Repetitions   int
	Flowrate      *unit.Unit

	// Format is the stamp plate format, driving the volume-calibration
	// fallback. Defaults to SBS96.
	Format device.Format

	NewDefaults bool

	// Device gates flow-rate ramp fields and detection methods during
	// translation. Defaults to the omni profile.
	Device device.Profile
}

// zState accumulates the vertical-placement parameters while translation
// applies defaults and overrides, before the final ZPosition is built.
type zState struct {
	reference device.Reference
	offset    *unit.Unit
	method    device.DetectionMethod
	threshold *unit.Unit
	duration  *unit.Unit
	device    device.Profile
}

// stripFixedAnchorDetection purges detection parameters when the resolved
// reference is anchored to well geometry: detection is only meaningful at
// the liquid surface.
func (z *zState) stripFixedAnchorDetection() {
	if z.reference.FixedWellAnchor() {
		z.method = ""
		z.threshold = nil
		z.duration = nil
	}
}

func (z *zState) build() (*builder.ZPosition, error) {
	return builder.NewZPosition(builder.ZPositionOpts{
		Reference:          z.reference,
		Offset:             z.offset,
		DetectionMethod:    z.method,
		DetectionThreshold: z.threshold,
		DetectionDuration:  z.duration,
		Device:             z.device,
	})
}

// applyDepth translates a legacy depth record onto the z state and returns
// the resulting following flag. Multi-channel translation rejects any
// sensing mode: no multichannel sensing is supported.
func (z *zState) applyDepth(d *Depth, multichannel bool) (bool, error) {
	following := true
	if d.Method != "" {
		ref, ok := referenceMap[d.Method]
		if !ok {
			return false, lherr.ParamFieldError("depth.method." + d.Method)
		}
		z.reference = ref
		if d.Method == "ll_surface" {
			following = false
		}
	}
	if d.Distance != nil {
		z.offset = d.Distance
	}
	if d.Detection != "" {
		if multichannel {
			return false, lherr.ZDetectionError("no detection methods supported for multichannel")
		}
		method, ok := methodMap[d.Detection]
		if !ok {
			return false, lherr.ParamFieldError("depth." + d.Detection)
		}
		z.method = method
	}
	return following, nil
}

// oldXferPreBuffer is the volume-banded single-channel pre-buffer default.
func oldXferPreBuffer(v unit.Unit) unit.Unit {
	ul := v.Value()
	switch {
	case ul < 10:
		return unit.Microliters(5)
	case ul <= 25:
		return unit.Microliters(10)
	case ul <= 75:
		return unit.Microliters(15)
	case ul <= 100:
		return unit.Microliters(20)
	default:
		return unit.Microliters(25)
	}
}

// calibratedVolume applies the empirically-derived piecewise-linear
// correction curve mapping nominal volume to pump-movement volume.
func calibratedVolume(v unit.Unit) unit.Unit {
	ul := v.Value()
	switch {
	case ul <= 0.5:
		return unit.Microliters(ul * 1.16)
	case ul <= 1:
		return unit.Microliters(ul*1.24 - 0.04)
	case ul <= 2.5:
		return unit.Microliters(ul*1.153 + 0.047)
	case ul <= 5:
		return unit.Microliters(ul*1.048 + 0.31)
	case ul <= 10:
		return unit.Microliters(ul*1.042 + 0.34)
	default:
		// The legacy curve carries identical constants for the 15 uL
		// band and everything above it.
		return unit.Microliters(ul*1.148 - 0.72)
	}
}

// flowrateFrom resolves a flow-rate profile from a bare speed or a legacy
// speed range, preferring the range. The device profile gates ramp fields.
func flowrateFrom(speed *unit.Unit, rng *SpeedRange, dev device.Profile) (*builder.Flowrate, error) {
	if rng != nil {
		return builder.NewFlowrate(builder.FlowrateOpts{
			Target:  rng.Max,
			Initial: unit.Ptr(rng.Start),
			Device:  dev,
		})
	}
	if speed != nil {
		return builder.NewFlowrate(builder.FlowrateOpts{
			Target: *speed,
			Device: dev,
		})
	}
	return nil, nil
}

// ParseXferParams maps the old single-channel calling convention onto the
// canonical parameter set.
func ParseXferParams(volume unit.Unit, opts TransferOpts) (sequence.Params, error) {
	if opts.AspirateSource != nil && opts.DispenseTarget != nil {
		return sequence.Params{}, lherr.ParamConflictError(
			"only one of aspirate_source or dispense_target may be given")
	}
	if err := volume.ExpectDim(unit.Volume, "volume"); err != nil {
		return sequence.Params{}, err
	}

	p := sequence.Params{
		BlowoutBuffer: opts.BlowoutBuffer,
		MixBefore:     opts.MixBefore,
		MixAfter:      opts.MixAfter,
		MixVol:        opts.MixVol,
		MixSpeed:      opts.Flowrate,
		Repetitions:   opts.Repetitions,
		NewDefaults:   opts.NewDefaults,
	}

	p.PreBuffer = opts.PreBuffer
	if p.PreBuffer == nil {
		p.PreBuffer = unit.Ptr(oldXferPreBuffer(volume))
	}
	p.DisposalVol = opts.DisposalVol
	if p.DisposalVol == nil {
		p.DisposalVol = unit.Ptr(unit.Microliters(0))
	}
	p.TransitVol = opts.TransitVol
	if p.TransitVol == nil {
		p.TransitVol = unit.Ptr(unit.Microliters(2))
	}

	dev := opts.Device.Default()

	// Default placement: capacitance-sensed liquid surface with the
	// well-bottom fallback applied downstream when sensing fails.
	z := zState{
		reference: device.LiquidSurface,
		offset:    unit.Ptr(unit.Millimeters(-1)),
		method:    device.Capacitance,
		threshold: unit.Ptr(clldUnit.Mul(defaultCLLDSensitivity)),
		device:    dev,
	}
	p.Following = true

	spec := opts.AspirateSource
	if spec == nil {
		spec = opts.DispenseTarget
	}
	var err error
	if p.AspirateFlowrate, err = flowrateFrom(opts.AspirateSpeed, specAspirateSpeed(spec), dev); err != nil {
		return sequence.Params{}, err
	}
	if p.DispenseFlowrate, err = flowrateFrom(opts.DispenseSpeed, specDispenseSpeed(spec), dev); err != nil {
		return sequence.Params{}, err
	}

	if spec != nil {
		if spec.Volume != nil {
			if err := spec.Volume.ExpectDim(unit.Volume, "volume"); err != nil {
				return sequence.Params{}, err
			}
			p.CalibratedVol = spec.Volume
		}
		if spec.PrimerVol != nil {
			if err := spec.PrimerVol.ExpectDim(unit.Volume, "primer_vol"); err != nil {
				return sequence.Params{}, err
			}
			p.PrimerVol = spec.PrimerVol
		}
		if spec.Depth != nil {
			if p.Following, err = z.applyDepth(spec.Depth, false); err != nil {
				return sequence.Params{}, err
			}
		}
		if spec.CLLDSensitivity != nil {
			z.threshold = unit.Ptr(clldUnit.Mul(*spec.CLLDSensitivity))
		}
		if spec.PLLDThreshold != nil {
			z.threshold = unit.Ptr(plldUnit.Mul(spec.PLLDThreshold.Sensitivity))
			z.duration = unit.Ptr(spec.PLLDThreshold.Duration)
		}
	}

	z.stripFixedAnchorDetection()
	if p.TipZ, err = z.build(); err != nil {
		return sequence.Params{}, err
	}

	if p.CalibratedVol == nil {
		p.CalibratedVol = unit.Ptr(calibratedVolume(volume))
	}

	return p, nil
}

// ParseStampParams maps the old multi-channel calling convention onto the
// canonical parameter set.
func ParseStampParams(volume unit.Unit, opts StampOpts) (sequence.Params, error) {
	if opts.AspirateSource != nil && opts.DispenseTarget != nil {
		return sequence.Params{}, lherr.ParamConflictError(
			"only one of aspirate_source or dispense_target may be given")
	}
	if err := volume.ExpectDim(unit.Volume, "volume"); err != nil {
		return sequence.Params{}, err
	}
	format := opts.Format.Default()
	if !format.Valid() {
		return sequence.Params{}, lherr.ShapeFormatError(string(opts.Format))
	}

	p := sequence.Params{
		BlowoutBuffer: opts.BlowoutBuffer,
		MixBefore:     opts.MixBefore,
		MixAfter:      opts.MixAfter,
		MixVol:        opts.MixVol,
		MixSpeed:      opts.Flowrate,
		Repetitions:   opts.Repetitions,
		NewDefaults:   opts.NewDefaults,
	}

	p.PreBuffer = opts.PreBuffer
	if p.PreBuffer == nil {
		p.PreBuffer = unit.Ptr(unit.Microliters(5))
	}
	p.TransitVol = opts.TransitVol
	if p.TransitVol == nil {
		p.TransitVol = unit.Ptr(unit.Microliters(1))
	}
	if !p.BlowoutBuffer && p.PreBuffer.Sign() > 0 {
		p.BlowoutBuffer = true
	}

	dev := opts.Device.Default()

	// Fixed well-bottom placement: the stamping device has no sensing.
	z := zState{
		reference: device.WellBottom,
		offset:    unit.Ptr(unit.Millimeters(1)),
		device:    dev,
	}
	p.Following = opts.NewDefaults

	spec := opts.AspirateSource
	if spec == nil {
		spec = opts.DispenseTarget
	}
	var err error
	if p.AspirateFlowrate, err = flowrateFrom(opts.AspirateSpeed, specAspirateSpeed(spec), dev); err != nil {
		return sequence.Params{}, err
	}
	if p.DispenseFlowrate, err = flowrateFrom(opts.DispenseSpeed, specDispenseSpeed(spec), dev); err != nil {
		return sequence.Params{}, err
	}

	if spec != nil {
		if spec.Volume != nil {
			if err := spec.Volume.ExpectDim(unit.Volume, "volume"); err != nil {
				return sequence.Params{}, err
			}
			p.CalibratedVol = spec.Volume
		}
		if spec.PrimerVol != nil {
			return sequence.Params{}, lherr.ParamFieldError("primer_vol")
		}
		if spec.Depth != nil {
			if p.Following, err = z.applyDepth(spec.Depth, true); err != nil {
				return sequence.Params{}, err
			}
		}
		if spec.CLLDSensitivity != nil || spec.PLLDThreshold != nil {
			return sequence.Params{}, lherr.ZDetectionError(
				"no detection methods supported for multichannel")
		}
	}

	z.stripFixedAnchorDetection()
	if p.TipZ, err = z.build(); err != nil {
		return sequence.Params{}, err
	}

	if p.CalibratedVol == nil {
		// The legacy correction curve only applies to the denser format.
		if format == device.SBS384 {
			p.CalibratedVol = unit.Ptr(calibratedVolume(volume))
		} else {
			p.CalibratedVol = unit.Ptr(volume)
		}
	}

	return p, nil
}

func specAspirateSpeed(s *SourceSpec) *SpeedRange {
	if s == nil {
		return nil
	}
	return s.AspirateSpeed
}

func specDispenseSpeed(s *SourceSpec) *SpeedRange {
	if s == nil {
		return nil
	}
	return s.DispenseSpeed
}
