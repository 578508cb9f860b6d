// Multi-channel footprint builder
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package builder

import (
	"liquidhandle/pkg/device"
	"liquidhandle/pkg/lherr"
)

// Shape is a multi-channel footprint: the rows and columns concurrently
// addressed on a plate of the given format.
type Shape struct {
	Rows    int           `json:"rows,omitempty" yaml:"rows,omitempty" msgpack:"rows,omitempty"`
	Columns int           `json:"columns,omitempty" yaml:"columns,omitempty" msgpack:"columns,omitempty"`
	Format  device.Format `json:"format,omitempty" yaml:"format,omitempty" msgpack:"format,omitempty"`
}

// ShapeOpts configures NewShape. Format defaults to SBS96.
type ShapeOpts struct {
	// Rows concurrently transferred.
	Rows int

	// Columns concurrently transferred.
	Columns int

	// Format of the plate grid bounding Rows and Columns.
	Format device.Format
}

// NewShape builds a Shape. Rows and columns must lie within the format's
// grid. A zero row or column count stays zero in the record and is omitted
// from the serialized form; this mirrors the legacy sparse-record behavior.
func NewShape(opts ShapeOpts) (*Shape, error) {
	format := opts.Format.Default()
	if !format.Valid() {
		return nil, lherr.ShapeFormatError(string(opts.Format))
	}
	if opts.Rows < 0 || opts.Rows > format.MaxRows() {
		return nil, lherr.ShapeBoundsError("rows", opts.Rows, format.MaxRows(), string(format))
	}
	if opts.Columns < 0 || opts.Columns > format.MaxColumns() {
		return nil, lherr.ShapeBoundsError("columns", opts.Columns, format.MaxColumns(), string(format))
	}
	return &Shape{
		Rows:    opts.Rows,
		Columns: opts.Columns,
		Format:  format,
	}, nil
}
