// Wire encodings for compiled operations
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package encode wraps a compiled transport list in an operation envelope
// and serializes it for the execution engine. JSON is the canonical
// interchange form; msgpack is the compact engine-facing form. Absent
// optional fields are omitted, never null.
package encode

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"liquidhandle/pkg/builder"
	"liquidhandle/pkg/device"
)

// Operation is the envelope handed to the execution engine: one compiled
// phase of one liquid-handling operation.
type Operation struct {
	ID         string               `json:"id" yaml:"id" msgpack:"id"`
	Mode       string               `json:"mode" yaml:"mode" msgpack:"mode"`
	Phase      string               `json:"phase" yaml:"phase" msgpack:"phase"`
	Device     device.Profile       `json:"device,omitempty" yaml:"device,omitempty" msgpack:"device,omitempty"`
	Shape      *builder.Shape       `json:"shape,omitempty" yaml:"shape,omitempty" msgpack:"shape,omitempty"`
	Transports []*builder.Transport `json:"transports" yaml:"transports" msgpack:"transports"`
}

// NewOperation builds an envelope with a fresh operation id.
func NewOperation(mode, phase string, dev device.Profile, shape *builder.Shape, transports []*builder.Transport) *Operation {
	return &Operation{
		ID:         uuid.NewString(),
		Mode:       mode,
		Phase:      phase,
		Device:     dev,
		Shape:      shape,
		Transports: transports,
	}
}

// JSON serializes the envelope, optionally indented for human reading.
func (o *Operation) JSON(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(o, "", "  ")
	}
	return json.Marshal(o)
}

// Msgpack serializes the envelope in the compact engine-facing form.
func (o *Operation) Msgpack() ([]byte, error) {
	return msgpack.Marshal(o)
}

// TransportsJSON serializes a bare transport list without the envelope.
func TransportsJSON(list []*builder.Transport, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(list, "", "  ")
	}
	return json.Marshal(list)
}
