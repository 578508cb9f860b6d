// Legacy source/target variant records and their interpreter
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package legacy maps the old nested-parameter pipetting convention onto
// the canonical parameter set consumed by pkg/sequence, and exposes the
// backward-compatible entry points that drive translation and assembly.
package legacy

import (
	"fmt"

	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/unit"
)

// SpeedRange is the legacy ramped-speed form: the pump starts at Start and
// ramps to Max.
type SpeedRange struct {
	Max   unit.Unit `yaml:"max"`
	Start unit.Unit `yaml:"start"`
}

// Depth is the legacy vertical-placement form. Method is one of the
// ll_* reference names; Detection optionally names a sensing mode.
type Depth struct {
	Method    string     `yaml:"method"`
	Distance  *unit.Unit `yaml:"distance,omitempty"`
	Detection string     `yaml:"detection,omitempty"`
}

// PLLDThreshold is the legacy pressure-based liquid-detection form.
type PLLDThreshold struct {
	Sensitivity float64   `yaml:"sensitivity"`
	Duration    unit.Unit `yaml:"duration"`
}

// SourceSpec is the legacy aspirate_source/dispense_target variant record.
// Each set field reconfigures one aspect of the translation; unrecognized
// fields are rejected at the interpreter boundary.
type SourceSpec struct {
	// AspirateSpeed builds a ramped aspirate flow-rate profile.
	AspirateSpeed *SpeedRange

	// DispenseSpeed builds a ramped dispense flow-rate profile.
	DispenseSpeed *SpeedRange

	// Volume sets the calibrated volume directly.
	Volume *unit.Unit

	// PrimerVol sets the primer volume. Single-channel only.
	PrimerVol *unit.Unit

	// Depth overrides the vertical placement.
	Depth *Depth

	// CLLDSensitivity sets the capacitance detection threshold in legacy
	// sensitivity scale units.
	CLLDSensitivity *float64

	// PLLDThreshold sets the pressure detection threshold and duration.
	PLLDThreshold *PLLDThreshold
}

// FieldKind enumerates the recognized legacy variant fields.
type FieldKind int

const (
	FieldAspirateSpeed FieldKind = iota
	FieldDispenseSpeed
	FieldVolume
	FieldPrimerVol
	FieldDepth
	FieldCLLDSensitivity
	FieldPLLDThreshold
)

var fieldKinds = map[string]FieldKind{
	"aspirate_speed":   FieldAspirateSpeed,
	"dispense_speed":   FieldDispenseSpeed,
	"volume":           FieldVolume,
	"primer_vol":       FieldPrimerVol,
	"depth":            FieldDepth,
	"clld_sensitivity": FieldCLLDSensitivity,
	"plld_threshold":   FieldPLLDThreshold,
}

// ParseFieldKind resolves a legacy field name, rejecting unknown tags.
func ParseFieldKind(name string) (FieldKind, error) {
	k, ok := fieldKinds[name]
	if !ok {
		return 0, lherr.ParamFieldError(name)
	}
	return k, nil
}

// SourceSpecFromMap interprets the untyped legacy call shape (a string-keyed
// record) into a SourceSpec, visiting each recognized tag and rejecting
// everything else.
func SourceSpecFromMap(m map[string]interface{}) (*SourceSpec, error) {
	if len(m) == 0 {
		return nil, nil
	}
	spec := &SourceSpec{}
	for key, raw := range m {
		kind, err := ParseFieldKind(key)
		if err != nil {
			return nil, err
		}
		switch kind {
		case FieldAspirateSpeed, FieldDispenseSpeed:
			rng, err := speedRangeFromValue(key, raw)
			if err != nil {
				return nil, err
			}
			if kind == FieldAspirateSpeed {
				spec.AspirateSpeed = rng
			} else {
				spec.DispenseSpeed = rng
			}
		case FieldVolume:
			u, err := unitFromValue(key, raw)
			if err != nil {
				return nil, err
			}
			spec.Volume = u
		case FieldPrimerVol:
			u, err := unitFromValue(key, raw)
			if err != nil {
				return nil, err
			}
			spec.PrimerVol = u
		case FieldDepth:
			d, err := depthFromValue(key, raw)
			if err != nil {
				return nil, err
			}
			spec.Depth = d
		case FieldCLLDSensitivity:
			f, err := floatFromValue(key, raw)
			if err != nil {
				return nil, err
			}
			spec.CLLDSensitivity = &f
		case FieldPLLDThreshold:
			p, err := plldFromValue(key, raw)
			if err != nil {
				return nil, err
			}
			spec.PLLDThreshold = p
		}
	}
	return spec, nil
}

func unitFromValue(field string, raw interface{}) (*unit.Unit, error) {
	switch v := raw.(type) {
	case string:
		u, err := unit.Parse(v)
		if err != nil {
			return nil, err
		}
		return &u, nil
	case unit.Unit:
		return &v, nil
	case *unit.Unit:
		return v, nil
	default:
		return nil, lherr.FieldTypeError(field, fmt.Sprintf("%T", raw), "quantity string")
	}
}

func floatFromValue(field string, raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, lherr.FieldTypeError(field, fmt.Sprintf("%T", raw), "number")
	}
}

func mapFromValue(field string, raw interface{}) (map[string]interface{}, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, lherr.FieldTypeError(field, fmt.Sprintf("%T", raw), "record")
	}
	return m, nil
}

func speedRangeFromValue(field string, raw interface{}) (*SpeedRange, error) {
	m, err := mapFromValue(field, raw)
	if err != nil {
		return nil, err
	}
	rng := &SpeedRange{}
	for k, v := range m {
		u, err := unitFromValue(field+"."+k, v)
		if err != nil {
			return nil, err
		}
		switch k {
		case "max":
			rng.Max = *u
		case "start":
			rng.Start = *u
		default:
			return nil, lherr.ParamFieldError(field + "." + k)
		}
	}
	return rng, nil
}

func depthFromValue(field string, raw interface{}) (*Depth, error) {
	m, err := mapFromValue(field, raw)
	if err != nil {
		return nil, err
	}
	d := &Depth{}
	for k, v := range m {
		switch k {
		case "method":
			s, ok := v.(string)
			if !ok {
				return nil, lherr.FieldTypeError(field+".method", fmt.Sprintf("%T", v), "string")
			}
			d.Method = s
		case "distance":
			u, err := unitFromValue(field+".distance", v)
			if err != nil {
				return nil, err
			}
			d.Distance = u
		// The old call shape names the sensing mode as a bare key.
		case "capacitive", "pressure":
			d.Detection = k
		default:
			return nil, lherr.ParamFieldError(field + "." + k)
		}
	}
	return d, nil
}

func plldFromValue(field string, raw interface{}) (*PLLDThreshold, error) {
	m, err := mapFromValue(field, raw)
	if err != nil {
		return nil, err
	}
	p := &PLLDThreshold{}
	for k, v := range m {
		switch k {
		case "sensitivity":
			f, err := floatFromValue(field+".sensitivity", v)
			if err != nil {
				return nil, err
			}
			p.Sensitivity = f
		case "duration":
			u, err := unitFromValue(field+".duration", v)
			if err != nil {
				return nil, err
			}
			p.Duration = *u
		default:
			return nil, lherr.ParamFieldError(field + "." + k)
		}
	}
	return p, nil
}
