// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileCapabilities(t *testing.T) {
	assert.Equal(t, Omni, Profile("").Default())
	assert.Equal(t, Bravo, Bravo.Default())

	assert.True(t, Omni.Valid())
	assert.True(t, Bravo.Valid())
	assert.False(t, Profile("tecan").Valid())

	assert.True(t, Omni.SupportsRampedFlow())
	assert.False(t, Bravo.SupportsRampedFlow())

	for _, m := range []DetectionMethod{Tracked, Pressure, Capacitance} {
		assert.True(t, Omni.SupportsMethod(m), "%s", m)
	}
	assert.True(t, Bravo.SupportsMethod(Tracked))
	assert.False(t, Bravo.SupportsMethod(Pressure))
	assert.False(t, Bravo.SupportsMethod(Capacitance))
	assert.False(t, Profile("tecan").SupportsMethod(Tracked))
}

func TestReference(t *testing.T) {
	for _, r := range []Reference{WellTop, WellBottom, LiquidSurface, PrecedingPosition} {
		assert.True(t, r.Valid(), "%s", r)
	}
	assert.False(t, Reference("lid").Valid())

	assert.True(t, WellTop.FixedWellAnchor())
	assert.True(t, WellBottom.FixedWellAnchor())
	assert.False(t, LiquidSurface.FixedWellAnchor())
	assert.False(t, PrecedingPosition.FixedWellAnchor())
}

func TestFormatGrid(t *testing.T) {
	assert.Equal(t, SBS96, Format("").Default())
	assert.Equal(t, 8, SBS96.MaxRows())
	assert.Equal(t, 12, SBS96.MaxColumns())
	assert.Equal(t, 16, SBS384.MaxRows())
	assert.Equal(t, 24, SBS384.MaxColumns())
	assert.False(t, Format("SBS1536").Valid())
}

func TestLiquidClass(t *testing.T) {
	assert.True(t, ClassAir.Valid())
	assert.True(t, ClassDefault.Valid())
	assert.False(t, LiquidClass("viscous").Valid())
}
