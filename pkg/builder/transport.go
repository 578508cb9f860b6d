// Atomic transport instruction builder
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package builder constructs and validates the primitive instruction
// fragments of the liquid-handle transport vocabulary. Every builder takes
// an explicit options struct and returns a sparse record: absent optional
// fields stay nil and are omitted from the serialized form, never null.
// Validation happens once, at construction; records are not mutated after.
package builder

import (
	"liquidhandle/pkg/unit"
)

// Transport is one atomic pump/tip-movement step. The sign of Volume is
// semantically significant: positive dispenses, negative aspirates.
type Transport struct {
	Volume           *unit.Unit  `json:"volume,omitempty" yaml:"volume,omitempty" msgpack:"volume,omitempty"`
	Flowrate         *Flowrate   `json:"flowrate,omitempty" yaml:"flowrate,omitempty" msgpack:"flowrate,omitempty"`
	DelayTime        *unit.Unit  `json:"delay_time,omitempty" yaml:"delay_time,omitempty" msgpack:"delay_time,omitempty"`
	ModeParams       *ModeParams `json:"mode_params,omitempty" yaml:"mode_params,omitempty" msgpack:"mode_params,omitempty"`
	CalibratedVolume *unit.Unit  `json:"x_calibrated_volume,omitempty" yaml:"x_calibrated_volume,omitempty" msgpack:"x_calibrated_volume,omitempty"`
}

// TransportOpts configures NewTransport. All fields are optional.
type TransportOpts struct {
	// Volume to be moved. Positive volume dispenses, negative aspirates.
	Volume *unit.Unit

	// Flowrate profile for the pump movement.
	Flowrate *Flowrate

	// DelayTime spent waiting after executing tip and pump movement.
	DelayTime *unit.Unit

	// ModeParams describing tip state during the transport.
	ModeParams *ModeParams

	// CalibratedVolume is the pump-movement volume after empirical
	// correction of Volume.
	CalibratedVolume *unit.Unit
}

// NewTransport builds a Transport. It returns (nil, nil) when every field
// is absent, so callers can conditionally omit no-op transports.
func NewTransport(opts TransportOpts) (*Transport, error) {
	if opts.Volume == nil && opts.Flowrate == nil && opts.DelayTime == nil &&
		opts.ModeParams == nil && opts.CalibratedVolume == nil {
		return nil, nil
	}
	if opts.Volume != nil {
		if err := opts.Volume.ExpectDim(unit.Volume, "volume"); err != nil {
			return nil, err
		}
	}
	if opts.CalibratedVolume != nil {
		if err := opts.CalibratedVolume.ExpectDim(unit.Volume, "x_calibrated_volume"); err != nil {
			return nil, err
		}
	}
	if opts.DelayTime != nil {
		if err := opts.DelayTime.ExpectDim(unit.Time, "delay_time"); err != nil {
			return nil, err
		}
	}
	return &Transport{
		Volume:           opts.Volume,
		Flowrate:         opts.Flowrate,
		DelayTime:        opts.DelayTime,
		ModeParams:       opts.ModeParams,
		CalibratedVolume: opts.CalibratedVolume,
	}, nil
}
