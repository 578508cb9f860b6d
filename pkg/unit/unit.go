// Physical quantity type for liquid-handle instruction building
//
// Quantities are parsed from the legacy "magnitude:unit" string form and
// held in a canonical base unit per dimension family (microliter,
// microliter/second, second, millimeter, picofarad, psi). Arithmetic and
// ordering are only defined within a family.
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package unit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"liquidhandle/pkg/lherr"
)

// Dimension identifies a unit family.
type Dimension int

const (
	// Volume quantities, canonical unit microliter
	Volume Dimension = iota
	// FlowRate quantities, canonical unit microliter/second
	FlowRate
	// Time quantities, canonical unit second
	Time
	// Length quantities, canonical unit millimeter
	Length
	// Capacitance quantities, canonical unit picofarad
	Capacitance
	// Pressure quantities, canonical unit psi
	Pressure
)

// String returns the dimension name.
func (d Dimension) String() string {
	switch d {
	case Volume:
		return "volume"
	case FlowRate:
		return "flow-rate"
	case Time:
		return "time"
	case Length:
		return "length"
	case Capacitance:
		return "capacitance"
	case Pressure:
		return "pressure"
	default:
		return "unknown"
	}
}

// BaseUnit returns the canonical unit name for the dimension.
func (d Dimension) BaseUnit() string {
	switch d {
	case Volume:
		return "microliter"
	case FlowRate:
		return "microliter/second"
	case Time:
		return "second"
	case Length:
		return "millimeter"
	case Capacitance:
		return "picofarad"
	case Pressure:
		return "psi"
	default:
		return "unknown"
	}
}

// unitDef maps a unit alias to its dimension and the factor converting it
// to the canonical base unit.
type unitDef struct {
	dim    Dimension
	factor float64
}

var volumeUnits = map[string]float64{
	"microliter": 1,
	"microlitre": 1,
	"ul":         1,
	"uL":         1,
	"µL":         1,
	"nanoliter":  1e-3,
	"nl":         1e-3,
	"milliliter": 1e3,
	"ml":         1e3,
	"mL":         1e3,
	"liter":      1e6,
	"l":          1e6,
}

var timeUnits = map[string]float64{
	"second":      1,
	"seconds":     1,
	"sec":         1,
	"s":           1,
	"millisecond": 1e-3,
	"ms":          1e-3,
	"minute":      60,
	"min":         60,
}

var scalarUnits = map[string]unitDef{
	"millimeter": {Length, 1},
	"mm":         {Length, 1},
	"micrometer": {Length, 1e-3},
	"um":         {Length, 1e-3},
	"centimeter": {Length, 10},
	"cm":         {Length, 10},
	"meter":      {Length, 1e3},
	"m":          {Length, 1e3},

	"picofarad": {Capacitance, 1},
	"pF":        {Capacitance, 1},
	"pf":        {Capacitance, 1},
	"nanofarad": {Capacitance, 1e3},
	"nF":        {Capacitance, 1e3},

	"psi":      {Pressure, 1},
	"millipsi": {Pressure, 1e-3},
}

// Unit is an immutable physical quantity: a magnitude in the canonical base
// unit of its dimension family. The zero value is 0 microliters.
type Unit struct {
	value float64
	dim   Dimension
}

// Make constructs a quantity from a magnitude in the canonical base unit.
func Make(value float64, dim Dimension) Unit {
	return Unit{value: value, dim: dim}
}

// Microliters constructs a volume quantity.
func Microliters(v float64) Unit { return Unit{v, Volume} }

// MicrolitersPerSecond constructs a flow-rate quantity.
func MicrolitersPerSecond(v float64) Unit { return Unit{v, FlowRate} }

// Seconds constructs a time quantity.
func Seconds(v float64) Unit { return Unit{v, Time} }

// Millimeters constructs a length quantity.
func Millimeters(v float64) Unit { return Unit{v, Length} }

// Picofarads constructs a capacitance quantity.
func Picofarads(v float64) Unit { return Unit{v, Capacitance} }

// PSI constructs a pressure quantity.
func PSI(v float64) Unit { return Unit{v, Pressure} }

// Parse parses a quantity from the legacy "magnitude:unit" form, e.g.
// "50:microliter", "100:microliter/second", "-1:mm". Compound flow-rate
// units are any volume alias over any time alias.
func Parse(s string) (Unit, error) {
	mag, name, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Unit{}, lherr.UnitParseError(s, "missing ':' separator")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(mag), 64)
	if err != nil {
		return Unit{}, lherr.UnitParseError(s, "invalid magnitude")
	}
	dim, factor, err := lookupUnit(strings.TrimSpace(name))
	if err != nil {
		return Unit{}, lherr.UnitParseError(s, err.Error())
	}
	return Unit{value: v * factor, dim: dim}, nil
}

// MustParse parses a quantity and panics on failure. Intended for
// compile-time constants only.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func lookupUnit(name string) (Dimension, float64, error) {
	if num, den, ok := strings.Cut(name, "/"); ok {
		vf, vok := lookupVolume(num)
		tf, tok := timeUnits[strings.ToLower(den)]
		if !vok || !tok {
			return 0, 0, fmt.Errorf("unknown flow-rate unit '%s'", name)
		}
		return FlowRate, vf / tf, nil
	}
	if f, ok := lookupVolume(name); ok {
		return Volume, f, nil
	}
	if f, ok := timeUnits[strings.ToLower(name)]; ok {
		return Time, f, nil
	}
	if def, ok := scalarUnits[name]; ok {
		return def.dim, def.factor, nil
	}
	if def, ok := scalarUnits[strings.ToLower(name)]; ok {
		return def.dim, def.factor, nil
	}
	return 0, 0, fmt.Errorf("unknown unit '%s'", name)
}

func lookupVolume(name string) (float64, bool) {
	if f, ok := volumeUnits[name]; ok {
		return f, true
	}
	f, ok := volumeUnits[strings.ToLower(name)]
	return f, ok
}

// Value returns the magnitude in the canonical base unit.
func (u Unit) Value() float64 { return u.value }

// Dim returns the dimension family.
func (u Unit) Dim() Dimension { return u.dim }

// IsZero reports whether the magnitude is exactly zero.
func (u Unit) IsZero() bool { return u.value == 0 }

// Sign returns -1, 0 or 1 according to the sign of the magnitude.
func (u Unit) Sign() int {
	switch {
	case u.value < 0:
		return -1
	case u.value > 0:
		return 1
	default:
		return 0
	}
}

// Neg returns the quantity with its sign flipped.
func (u Unit) Neg() Unit { return Unit{-u.value, u.dim} }

// Mul returns the quantity scaled by f.
func (u Unit) Mul(f float64) Unit { return Unit{u.value * f, u.dim} }

// Div returns the quantity divided by f.
func (u Unit) Div(f float64) Unit { return Unit{u.value / f, u.dim} }

// Add returns u + v. The dimensions must match.
func (u Unit) Add(v Unit) (Unit, error) {
	if u.dim != v.dim {
		return Unit{}, lherr.UnitDimError("", v.dim.String(), u.dim.String())
	}
	return Unit{u.value + v.value, u.dim}, nil
}

// Sub returns u - v. The dimensions must match.
func (u Unit) Sub(v Unit) (Unit, error) {
	if u.dim != v.dim {
		return Unit{}, lherr.UnitDimError("", v.dim.String(), u.dim.String())
	}
	return Unit{u.value - v.value, u.dim}, nil
}

// Cmp compares u against v within a dimension family, returning -1, 0 or 1.
func (u Unit) Cmp(v Unit) (int, error) {
	if u.dim != v.dim {
		return 0, lherr.UnitDimError("", v.dim.String(), u.dim.String())
	}
	switch {
	case u.value < v.value:
		return -1, nil
	case u.value > v.value:
		return 1, nil
	default:
		return 0, nil
	}
}

// ExpectDim validates that the quantity belongs to the given family.
// The field name is carried into the error for call-site context.
func (u Unit) ExpectDim(d Dimension, field string) error {
	if u.dim != d {
		return lherr.UnitDimError(field, u.dim.String(), d.String())
	}
	return nil
}

// String formats the quantity in the canonical "magnitude:unit" form.
func (u Unit) String() string {
	return strconv.FormatFloat(u.value, 'f', -1, 64) + ":" + u.dim.BaseUnit()
}

// MarshalJSON encodes the quantity as its canonical string form.
func (u Unit) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(u.String())), nil
}

// UnmarshalJSON decodes a "magnitude:unit" JSON string.
func (u *Unit) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return lherr.UnitParseError(string(data), "expected a quoted string")
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// MarshalYAML encodes the quantity as its canonical string form.
func (u Unit) MarshalYAML() (interface{}, error) {
	return u.String(), nil
}

// UnmarshalYAML decodes a "magnitude:unit" YAML scalar.
func (u *Unit) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return lherr.UnitParseError("", "expected a scalar quantity string")
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// EncodeMsgpack encodes the quantity as its canonical string form.
func (u Unit) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(u.String())
}

// DecodeMsgpack decodes a "magnitude:unit" msgpack string.
func (u *Unit) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Ptr returns a pointer to a copy of the quantity, for sparse record fields.
func Ptr(u Unit) *Unit { return &u }
