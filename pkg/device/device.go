// Device-profile and plate-format capability tables
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package device

// Profile identifies a liquid-handler device profile. The profile gates
// which flow-rate fields and which liquid-detection methods are legal.
type Profile string

const (
	// Omni is the full-featured default profile.
	Omni Profile = "omni"

	// Bravo is the reduced profile: no ramped flow-rate fields and only
	// tracked liquid-surface positioning.
	Bravo Profile = "bravo"
)

// DetectionMethod identifies a liquid-surface sensing method.
type DetectionMethod string

const (
	// Tracked follows the liquid surface from the modeled container state.
	Tracked DetectionMethod = "tracked"
	// Pressure senses the surface by pressure threshold.
	Pressure DetectionMethod = "pressure"
	// Capacitance senses the surface by capacitance threshold.
	Capacitance DetectionMethod = "capacitance"
)

// Reference identifies the anchor of a vertical tip position.
type Reference string

const (
	WellTop           Reference = "well_top"
	WellBottom        Reference = "well_bottom"
	LiquidSurface     Reference = "liquid_surface"
	PrecedingPosition Reference = "preceding_position"
)

// LiquidClass identifies the pump medium for a transport.
type LiquidClass string

const (
	// ClassAir marks an air-gap transport.
	ClassAir LiquidClass = "air"
	// ClassDefault marks a liquid transport.
	ClassDefault LiquidClass = "default"
)

// Format identifies an SBS plate format.
type Format string

const (
	// SBS96 is the 8x12 96-well format.
	SBS96 Format = "SBS96"
	// SBS384 is the 16x24 384-well format.
	SBS384 Format = "SBS384"
)

// profileCaps is the static capability table keyed by profile.
var profileCaps = map[Profile]struct {
	methods    map[DetectionMethod]bool
	rampedFlow bool
}{
	Omni: {
		methods:    map[DetectionMethod]bool{Tracked: true, Pressure: true, Capacitance: true},
		rampedFlow: true,
	},
	Bravo: {
		methods:    map[DetectionMethod]bool{Tracked: true},
		rampedFlow: false,
	},
}

// formatGrid is the static row/column bound table keyed by format.
var formatGrid = map[Format]struct {
	rows, columns int
}{
	SBS96:  {rows: 8, columns: 12},
	SBS384: {rows: 16, columns: 24},
}

// Default returns p, substituting the default profile for the empty string.
func (p Profile) Default() Profile {
	if p == "" {
		return Omni
	}
	return p
}

// Valid reports whether the profile is known.
func (p Profile) Valid() bool {
	_, ok := profileCaps[p]
	return ok
}

// SupportsMethod reports whether the profile supports a detection method.
func (p Profile) SupportsMethod(m DetectionMethod) bool {
	caps, ok := profileCaps[p]
	return ok && caps.methods[m]
}

// SupportsRampedFlow reports whether the profile accepts initial and
// deceleration flow-rate fields.
func (p Profile) SupportsRampedFlow() bool {
	caps, ok := profileCaps[p]
	return ok && caps.rampedFlow
}

// Valid reports whether the detection method is known.
func (m DetectionMethod) Valid() bool {
	switch m {
	case Tracked, Pressure, Capacitance:
		return true
	}
	return false
}

// Valid reports whether the reference is known.
func (r Reference) Valid() bool {
	switch r {
	case WellTop, WellBottom, LiquidSurface, PrecedingPosition:
		return true
	}
	return false
}

// FixedWellAnchor reports whether the reference is anchored to the well
// geometry rather than the liquid. Detection is meaningless for these.
func (r Reference) FixedWellAnchor() bool {
	return r == WellTop || r == WellBottom
}

// Valid reports whether the liquid class is known.
func (c LiquidClass) Valid() bool {
	return c == ClassAir || c == ClassDefault
}

// Default returns f, substituting the default format for the empty string.
func (f Format) Default() Format {
	if f == "" {
		return SBS96
	}
	return f
}

// Valid reports whether the format is known.
func (f Format) Valid() bool {
	_, ok := formatGrid[f]
	return ok
}

// MaxRows returns the row bound of the format grid.
func (f Format) MaxRows() int { return formatGrid[f].rows }

// MaxColumns returns the column bound of the format grid.
func (f Format) MaxColumns() int { return formatGrid[f].columns }
