// Location/cycle grouping builder
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package builder

import (
	"fmt"

	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/unit"
)

// WellRef is the opaque handle for a well capability. Nothing beyond the
// identifier is consumed here.
type WellRef interface {
	WellID() string
}

// Location groups an ordered transport list against one site, optionally
// repeated for a number of cycles.
type Location struct {
	Location     interface{}  `json:"location,omitempty" yaml:"location,omitempty" msgpack:"location,omitempty"`
	Transports   []*Transport `json:"transports,omitempty" yaml:"transports,omitempty" msgpack:"transports,omitempty"`
	Cycles       *int         `json:"cycles,omitempty" yaml:"cycles,omitempty" msgpack:"cycles,omitempty"`
	ObjectVolume []unit.Unit  `json:"x_object_volume,omitempty" yaml:"x_object_volume,omitempty" msgpack:"x_object_volume,omitempty"`
}

// LocationOpts configures NewLocation. All fields are optional.
type LocationOpts struct {
	// Location is a plain identifier string or an opaque WellRef handle.
	Location interface{}

	// Transports is the ordered step list executed at the location.
	// If present it must be non-empty.
	Transports []*Transport

	// Cycles repeats the stated transports. If present it must be
	// positive.
	Cycles *int

	// ObjectVolume is the volume believed present in each aliquot.
	ObjectVolume []unit.Unit
}

// NewLocation builds a Location. It returns (nil, nil) when every field is
// absent.
func NewLocation(opts LocationOpts) (*Location, error) {
	if opts.Location == nil && opts.Transports == nil && opts.Cycles == nil &&
		opts.ObjectVolume == nil {
		return nil, nil
	}
	if opts.Location != nil {
		switch opts.Location.(type) {
		case string, WellRef:
		default:
			return nil, lherr.FieldTypeError("location",
				fmt.Sprintf("%T", opts.Location), "string or well reference")
		}
	}
	if opts.Transports != nil && len(opts.Transports) == 0 {
		return nil, lherr.LocationError("transports", "transport list must be non-empty")
	}
	if opts.Cycles != nil && *opts.Cycles <= 0 {
		return nil, lherr.LocationError("cycles",
			fmt.Sprintf("cycles must be a positive integer, got %d", *opts.Cycles))
	}
	if opts.ObjectVolume != nil {
		if len(opts.ObjectVolume) == 0 {
			return nil, lherr.LocationError("x_object_volume", "volume list must be non-empty")
		}
		for i, v := range opts.ObjectVolume {
			if err := v.ExpectDim(unit.Volume, fmt.Sprintf("x_object_volume[%d]", i)); err != nil {
				return nil, err
			}
		}
	}
	return &Location{
		Location:     opts.Location,
		Transports:   opts.Transports,
		Cycles:       opts.Cycles,
		ObjectVolume: opts.ObjectVolume,
	}, nil
}
