// Vertical tip-placement builder with optional liquid-level detection
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package builder

import (
	"liquidhandle/pkg/device"
	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/unit"
)

// ZPosition is a vertical tip-placement rule: an anchor reference, an
// optional offset, and optional liquid-level detection parameters.
type ZPosition struct {
	Reference device.Reference `json:"reference,omitempty" yaml:"reference,omitempty" msgpack:"reference,omitempty"`
	Offset    *unit.Unit       `json:"offset,omitempty" yaml:"offset,omitempty" msgpack:"offset,omitempty"`
	Detection *Detection       `json:"detection,omitempty" yaml:"detection,omitempty" msgpack:"detection,omitempty"`
}

// Detection describes how the liquid surface is sensed and what to do when
// sensing fails.
type Detection struct {
	Method    device.DetectionMethod `json:"method" yaml:"method" msgpack:"method"`
	Threshold *unit.Unit             `json:"threshold,omitempty" yaml:"threshold,omitempty" msgpack:"threshold,omitempty"`
	Duration  *unit.Unit             `json:"duration,omitempty" yaml:"duration,omitempty" msgpack:"duration,omitempty"`
	Fallback  *ZPosition             `json:"fallback,omitempty" yaml:"fallback,omitempty" msgpack:"fallback,omitempty"`
}

// ZPositionOpts configures NewZPosition. Device gates the allowed
// detection-method set and is a validation key only, never emitted.
type ZPositionOpts struct {
	// Reference anchors the position: well_top, well_bottom,
	// liquid_surface or preceding_position.
	Reference device.Reference

	// Offset from the reference position.
	Offset *unit.Unit

	// DetectionMethod senses the liquid surface: tracked, pressure or
	// capacitance. Detection is meaningless for well-geometry references.
	DetectionMethod device.DetectionMethod

	// DetectionThreshold is the capacitance or pressure level which must
	// be crossed before a positive reading registers.
	DetectionThreshold *unit.Unit

	// DetectionDuration is the contiguous time the threshold must stay
	// crossed before a positive reading registers.
	DetectionDuration *unit.Unit

	// Fallback position used when sensing fails.
	Fallback *ZPosition

	// Device gates which detection methods are legal.
	Device device.Profile
}

// NewZPosition builds a ZPosition. It returns (nil, nil) when every field
// is absent. Validation order: field types, reference, detection
// consistency, device capability.
func NewZPosition(opts ZPositionOpts) (*ZPosition, error) {
	if opts.Reference == "" && opts.Offset == nil && opts.DetectionMethod == "" &&
		opts.DetectionThreshold == nil && opts.DetectionDuration == nil && opts.Fallback == nil {
		return nil, nil
	}
	dev := opts.Device.Default()
	if !dev.Valid() {
		return nil, lherr.DeviceError(string(dev), "unknown device profile")
	}
	if opts.Offset != nil {
		if err := opts.Offset.ExpectDim(unit.Length, "offset"); err != nil {
			return nil, err
		}
	}
	if opts.DetectionThreshold != nil {
		d := opts.DetectionThreshold.Dim()
		if d != unit.Capacitance && d != unit.Pressure {
			return nil, lherr.UnitDimError("detection_threshold", d.String(), "capacitance or pressure")
		}
	}
	if opts.DetectionDuration != nil {
		if err := opts.DetectionDuration.ExpectDim(unit.Time, "detection_duration"); err != nil {
			return nil, err
		}
	}
	if opts.Reference != "" && !opts.Reference.Valid() {
		return nil, lherr.ZReferenceError(string(opts.Reference))
	}
	if (opts.DetectionThreshold != nil || opts.DetectionDuration != nil) && opts.DetectionMethod == "" {
		return nil, lherr.ZDetectionError(
			"detection method is required when specifying detection threshold or duration")
	}

	pos := &ZPosition{Reference: opts.Reference, Offset: opts.Offset}

	if opts.DetectionMethod != "" {
		if opts.Reference.FixedWellAnchor() {
			return nil, lherr.ZDetectionError(
				"detection does not apply for well_top, well_bottom references")
		}
		if !opts.DetectionMethod.Valid() {
			return nil, lherr.ZDetectionError(
				"unknown detection method '" + string(opts.DetectionMethod) + "'")
		}
		if !dev.SupportsMethod(opts.DetectionMethod) {
			return nil, lherr.DeviceError(string(dev),
				"detection method '"+string(opts.DetectionMethod)+"' not supported")
		}
		pos.Detection = &Detection{
			Method:    opts.DetectionMethod,
			Threshold: opts.DetectionThreshold,
			Duration:  opts.DetectionDuration,
			Fallback:  opts.Fallback,
		}
	}
	return pos, nil
}
