// Tip-mode parameter builder
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package builder

import (
	"liquidhandle/pkg/device"
	"liquidhandle/pkg/lherr"
)

// ModeParams describes tip state during a transport. TipPosition is always
// present in the serialized record, even when empty.
type ModeParams struct {
	LiquidClass device.LiquidClass `json:"liquid_class,omitempty" yaml:"liquid_class,omitempty" msgpack:"liquid_class,omitempty"`
	TipPosition TipPosition        `json:"tip_position" yaml:"tip_position" msgpack:"tip_position"`
}

// TipPosition locates the tip within a well. X and Y are unit-square well
// coordinates in [-1, 1]; Z is a vertical placement rule.
type TipPosition struct {
	X *float64   `json:"position_x,omitempty" yaml:"position_x,omitempty" msgpack:"position_x,omitempty"`
	Y *float64   `json:"position_y,omitempty" yaml:"position_y,omitempty" msgpack:"position_y,omitempty"`
	Z *ZPosition `json:"position_z,omitempty" yaml:"position_z,omitempty" msgpack:"position_z,omitempty"`
}

// ModeParamsOpts configures NewModeParams. All fields are optional.
type ModeParamsOpts struct {
	// LiquidClass of the transport medium: air or default.
	LiquidClass device.LiquidClass

	// TipX is the relative x-position of the tip in unit-square
	// coordinates. Defaults to the well center.
	TipX *float64

	// TipY is the relative y-position of the tip in unit-square
	// coordinates. Defaults to the well center.
	TipY *float64

	// TipZ is the vertical placement rule.
	TipZ *ZPosition
}

// NewModeParams builds a ModeParams record. Unlike the other builders it
// always returns a record, with the tip_position field present even when
// nothing was set.
func NewModeParams(opts ModeParamsOpts) (*ModeParams, error) {
	if opts.LiquidClass != "" && !opts.LiquidClass.Valid() {
		return nil, lherr.LiquidClassError(string(opts.LiquidClass))
	}
	if opts.TipX != nil && (*opts.TipX < -1 || *opts.TipX > 1) {
		return nil, lherr.TipCoordError("tip_x", *opts.TipX)
	}
	if opts.TipY != nil && (*opts.TipY < -1 || *opts.TipY > 1) {
		return nil, lherr.TipCoordError("tip_y", *opts.TipY)
	}
	// Zero coordinates collapse to the well-center default and are omitted.
	x, y := opts.TipX, opts.TipY
	if x != nil && *x == 0 {
		x = nil
	}
	if y != nil && *y == 0 {
		y = nil
	}
	return &ModeParams{
		LiquidClass: opts.LiquidClass,
		TipPosition: TipPosition{X: x, Y: y, Z: opts.TipZ},
	}, nil
}
