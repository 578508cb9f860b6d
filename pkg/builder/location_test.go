// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/unit"
)

type testWell string

func (w testWell) WellID() string { return string(w) }

func intPtr(v int) *int { return &v }

func TestNewLocationEmpty(t *testing.T) {
	loc, err := NewLocation(LocationOpts{})
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestNewLocation(t *testing.T) {
	tr, err := NewTransport(TransportOpts{Volume: unit.Ptr(unit.Microliters(-5))})
	require.NoError(t, err)

	loc, err := NewLocation(LocationOpts{
		Location:     "plate/0",
		Transports:   []*Transport{tr},
		Cycles:       intPtr(3),
		ObjectVolume: []unit.Unit{unit.Microliters(200)},
	})
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "plate/0", loc.Location)
	assert.Equal(t, 3, *loc.Cycles)
}

func TestNewLocationWellRef(t *testing.T) {
	loc, err := NewLocation(LocationOpts{Location: testWell("A1")})
	require.NoError(t, err)
	require.NotNil(t, loc)
}

func TestNewLocationErrors(t *testing.T) {
	tests := []struct {
		name string
		opts LocationOpts
		code lherr.ErrorCode
	}{
		{"location wrong type", LocationOpts{Location: 42}, lherr.ErrFieldType},
		{"empty transports", LocationOpts{Transports: []*Transport{}}, lherr.ErrLocation},
		{"zero cycles", LocationOpts{Cycles: intPtr(0)}, lherr.ErrLocation},
		{"negative cycles", LocationOpts{Cycles: intPtr(-1)}, lherr.ErrLocation},
		{"empty volume list", LocationOpts{ObjectVolume: []unit.Unit{}}, lherr.ErrLocation},
		{"volume wrong family", LocationOpts{ObjectVolume: []unit.Unit{unit.Seconds(1)}}, lherr.ErrUnitDim},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLocation(tc.opts)
			require.Error(t, err)
			assert.True(t, lherr.Is(err, tc.code), "got %v", err)
		})
	}
}
