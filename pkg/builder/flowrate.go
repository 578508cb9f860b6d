// Flow-rate profile builder
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

// Flowrate is a validated flow-rate profile for a pump movement.
type Flowrate struct {
	Target       unit.Unit  `json:"target" yaml:"target" msgpack:"target"`
	Initial      *unit.Unit `json:"initial,omitempty" yaml:"initial,omitempty" msgpack:"initial,omitempty"`
	Cutoff       *unit.Unit `json:"cutoff,omitempty" yaml:"cutoff,omitempty" msgpack:"cutoff,omitempty"`
	Acceleration *unit.Unit `json:"x_acceleration,omitempty" yaml:"x_acceleration,omitempty" msgpack:"x_acceleration,omitempty"`
	Deceleration *unit.Unit `json:"x_deceleration,omitempty" yaml:"x_deceleration,omitempty" msgpack:"x_deceleration,omitempty"`
}

// FlowrateOpts configures NewFlowrate. Target is mandatory; Device defaults
// to the omni profile and is a validation key only, never emitted.
type FlowrateOpts struct {
	// Target flow-rate. Mandatory.
	Target unit.Unit

	// Initial flow-rate at the start of the ramp. Default device only.
	Initial *unit.Unit

	// Cutoff flow-rate at the end of the movement.
	Cutoff *unit.Unit

	// Acceleration is the volumetric acceleration from Initial to Target.
	Acceleration *unit.Unit

	// Deceleration is the volumetric deceleration from Target to Cutoff.
	// Default device only.
	Deceleration *unit.Unit

	// Device gates which ramp fields are legal.
	Device device.Profile
}

// NewFlowrate builds a Flowrate. It returns (nil, nil) for the zero options
// value, so callers can pass through an absent profile.
func NewFlowrate(opts FlowrateOpts) (*Flowrate, error) {
	if opts == (FlowrateOpts{}) {
		return nil, nil
	}
	dev := opts.Device.Default()
	if !dev.Valid() {
		return nil, lherr.DeviceError(string(dev), "unknown device profile")
	}
	if err := opts.Target.ExpectDim(unit.FlowRate, "target"); err != nil {
		return nil, err
	}
	if !dev.SupportsRampedFlow() {
		if opts.Initial != nil {
			return nil, lherr.DeviceError(string(dev), "'initial' flow-rate not supported")
		}
		if opts.Deceleration != nil {
			return nil, lherr.DeviceError(string(dev), "'x_deceleration' not supported")
		}
	}
	for _, f := range []struct {
		name string
		u    *unit.Unit
	}{
		{"initial", opts.Initial},
		{"cutoff", opts.Cutoff},
	} {
		if f.u != nil {
			if err := f.u.ExpectDim(unit.FlowRate, f.name); err != nil {
				return nil, err
			}
		}
	}
	return &Flowrate{
		Target:       opts.Target,
		Initial:      opts.Initial,
		Cutoff:       opts.Cutoff,
		Acceleration: opts.Acceleration,
		Deceleration: opts.Deceleration,
	}, nil
}

// FlowrateFromSpeed builds the common single-speed profile where only the
// target rate is set.
func FlowrateFromSpeed(speed unit.Unit) (*Flowrate, error) {
	return NewFlowrate(FlowrateOpts{Target: speed})
}
