// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package request

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"liquidhandle/pkg/device"
	"liquidhandle/pkg/lherr"
)

const xferAspirateDoc = `
mode: transfer
phase: aspirate
volume: 50:microliter
`

func TestParse(t *testing.T) {
	op, err := Parse([]byte(xferAspirateDoc))
	require.NoError(t, err)
	assert.Equal(t, ModeTransfer, op.Mode)
	assert.Equal(t, PhaseAspirate, op.Phase)
	assert.Equal(t, 50.0, op.Volume.Value())
}

func TestParseFull(t *testing.T) {
	doc := `
mode: transfer
phase: dispense
volume: 50:microliter
device: omni
dispense_speed: 200:microliter/second
dispense_target:
  volume: 52:microliter
pre_buffer: 10:microliter
blowout_buffer: true
mix:
  mix_after: true
  repetitions_a: 3
  flowrate_a: 80:microliter/second
new_defaults: true
`
	op, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, device.Omni, op.Device)
	assert.Equal(t, 200.0, op.DispenseSpeed.Value())
	assert.Equal(t, "52:microliter", op.DispenseTarget["volume"])
	assert.True(t, op.BlowoutBuffer)
	require.NotNil(t, op.Mix)
	assert.True(t, op.Mix.MixAfter)
	assert.Equal(t, 3, *op.Mix.RepetitionsA)
	assert.True(t, op.NewDefaults)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("mode: transfer\nphase: aspirate\nvolume: 1:microliter\nbogus: 1\n"))
	require.Error(t, err)
	assert.True(t, lherr.Is(err, lherr.ErrRequest))
}

func TestParseRejectsBadQuantity(t *testing.T) {
	_, err := Parse([]byte("mode: transfer\nphase: aspirate\nvolume: 50\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "op.yaml")
	require.NoError(t, os.WriteFile(path, []byte(xferAspirateDoc), 0644))

	op, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModeTransfer, op.Mode)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, lherr.Is(err, lherr.ErrRequest))
}

func TestCompileXferAspirate(t *testing.T) {
	op, err := Parse([]byte(xferAspirateDoc))
	require.NoError(t, err)

	env, err := op.Compile(zap.NewNop())
	require.NoError(t, err)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, ModeTransfer, env.Mode)
	assert.Equal(t, PhaseAspirate, env.Phase)
	assert.Equal(t, device.Omni, env.Device)
	assert.Nil(t, env.Shape)

	// Pre-buffer, sensing move, core aspirate, primer return, transit.
	require.Len(t, env.Transports, 5)
	assert.Equal(t, -55.0, env.Transports[2].Volume.Value())
}

func TestCompileNilLogger(t *testing.T) {
	op, err := Parse([]byte(xferAspirateDoc))
	require.NoError(t, err)

	_, err = op.Compile(nil)
	require.NoError(t, err)
}

func TestCompileStamp(t *testing.T) {
	doc := `
mode: stamp
phase: dispense
volume: 10:microliter
shape:
  rows: 16
  columns: 24
  format: SBS384
`
	op, err := Parse([]byte(doc))
	require.NoError(t, err)

	env, err := op.Compile(zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, env.Shape)
	assert.Equal(t, 16, env.Shape.Rows)
	assert.Equal(t, device.SBS384, env.Shape.Format)

	// The dense format engages the volume-correction curve.
	core := env.Transports[1]
	assert.InDelta(t, 10.76, core.CalibratedVolume.Value(), 1e-9)
}

func TestCompileBravoDeviceGating(t *testing.T) {
	// The reduced profile has no capacitance sensing, so the default
	// transfer placement must not compile.
	doc := `
mode: transfer
phase: aspirate
volume: 50:microliter
device: bravo
`
	op, err := Parse([]byte(doc))
	require.NoError(t, err)
	_, err = op.Compile(zap.NewNop())
	require.Error(t, err)
	assert.True(t, lherr.Is(err, lherr.ErrDevice), "got %v", err)

	// A well-geometry depth sheds the sensing default and compiles.
	doc = `
mode: transfer
phase: aspirate
volume: 50:microliter
device: bravo
aspirate_source:
  depth:
    method: ll_bottom
`
	op, err = Parse([]byte(doc))
	require.NoError(t, err)
	env, err := op.Compile(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, device.Bravo, env.Device)
	assert.Nil(t, env.Transports[1].ModeParams.TipPosition.Z.Detection)
}

func TestCompileStampMixBundle(t *testing.T) {
	// The B-suffixed bundle values configure the aspirate-phase mix for
	// stamps, same as the transfer shims.
	doc := `
mode: stamp
phase: aspirate
volume: 10:microliter
mix:
  mix_before: true
  repetitions: 7
  repetitions_b: 2
  flowrate_b: 60:microliter/second
`
	op, err := Parse([]byte(doc))
	require.NoError(t, err)
	env, err := op.Compile(zap.NewNop())
	require.NoError(t, err)

	// pre-buffer, move, mix (2 pairs from current), core, primer return.
	require.Len(t, env.Transports, 8)
	mixAsp := env.Transports[2]
	assert.Equal(t, -5.0, mixAsp.Volume.Value())
	require.NotNil(t, mixAsp.Flowrate)
	assert.Equal(t, 60.0, mixAsp.Flowrate.Target.Value())
	assert.Equal(t, 5.0, env.Transports[5].Volume.Value())
}

func TestCompileSourceSpecTags(t *testing.T) {
	doc := `
mode: transfer
phase: aspirate
volume: 50:microliter
aspirate_source:
  depth:
    method: ll_bottom
    distance: 2:millimeter
`
	op, err := Parse([]byte(doc))
	require.NoError(t, err)

	env, err := op.Compile(zap.NewNop())
	require.NoError(t, err)
	move := env.Transports[1]
	assert.Equal(t, device.WellBottom, move.ModeParams.TipPosition.Z.Reference)
}

func TestCompileRejectsUnknownSourceTag(t *testing.T) {
	doc := `
mode: transfer
phase: aspirate
volume: 50:microliter
aspirate_source:
  bogus: 1
`
	op, err := Parse([]byte(doc))
	require.NoError(t, err)

	_, err = op.Compile(zap.NewNop())
	require.Error(t, err)
	assert.True(t, lherr.Is(err, lherr.ErrParamField))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code lherr.ErrorCode
	}{
		{
			"unknown mode",
			"mode: pour\nphase: aspirate\nvolume: 1:microliter\n",
			lherr.ErrRequest,
		},
		{
			"unknown transfer phase",
			"mode: transfer\nphase: shake\nvolume: 1:microliter\n",
			lherr.ErrRequest,
		},
		{
			"unknown stamp phase",
			"mode: stamp\nphase: shake\nvolume: 1:microliter\n",
			lherr.ErrRequest,
		},
		{
			"unknown device",
			"mode: transfer\nphase: aspirate\nvolume: 1:microliter\ndevice: tecan\n",
			lherr.ErrDevice,
		},
		{
			"shape out of bounds",
			"mode: stamp\nphase: aspirate\nvolume: 1:microliter\nshape:\n  rows: 9\n  columns: 12\n",
			lherr.ErrShapeBounds,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			op, err := Parse([]byte(tc.doc))
			require.NoError(t, err)
			_, err = op.Compile(zap.NewNop())
			require.Error(t, err)
			assert.True(t, lherr.Is(err, tc.code), "got %v", err)
		})
	}
}

func TestCompileEnvelopeSerializes(t *testing.T) {
	op, err := Parse([]byte(xferAspirateDoc))
	require.NoError(t, err)
	env, err := op.Compile(zap.NewNop())
	require.NoError(t, err)

	data, err := env.JSON(false)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "transfer", decoded["mode"])
	assert.Len(t, decoded["transports"], 5)
}
