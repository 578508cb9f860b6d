// YAML operation requests and the compile driver
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package request decodes operation-request documents and drives the
// legacy translators and assemblers to produce an engine-ready envelope.
// Decoding is strict: unknown fields are rejected, matching the
// interpreter behavior of the legacy variant records.
package request

import (
	"bytes"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"liquidhandle/pkg/builder"
	"liquidhandle/pkg/device"
	"liquidhandle/pkg/encode"
	"liquidhandle/pkg/legacy"
	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/unit"
)

// Operation modes and phases.
const (
	ModeTransfer = "transfer"
	ModeStamp    = "stamp"

	PhaseAspirate = "aspirate"
	PhaseDispense = "dispense"
)

// ShapeSpec is the multi-channel footprint of a stamp request.
type ShapeSpec struct {
	Rows    int           `yaml:"rows,omitempty"`
	Columns int           `yaml:"columns,omitempty"`
	Format  device.Format `yaml:"format,omitempty"`
}

// MixSpec is the optional mixing keyword bundle of a transfer request.
type MixSpec struct {
	MixBefore    bool       `yaml:"mix_before,omitempty"`
	MixAfter     bool       `yaml:"mix_after,omitempty"`
	MixVol       *unit.Unit `yaml:"mix_vol,omitempty"`
	Repetitions  *int       `yaml:"repetitions,omitempty"`
	Flowrate     *unit.Unit `yaml:"flowrate,omitempty"`
	RepetitionsA *int       `yaml:"repetitions_a,omitempty"`
	FlowrateA    *unit.Unit `yaml:"flowrate_a,omitempty"`
	RepetitionsB *int       `yaml:"repetitions_b,omitempty"`
	FlowrateB    *unit.Unit `yaml:"flowrate_b,omitempty"`
}

// Operation is one operation-request document in the old keyword
// vocabulary. Source and target records stay untyped here and go through
// the legacy field interpreter, which rejects unrecognized tags.
type Operation struct {
	Mode  string `yaml:"mode"`
	Phase string `yaml:"phase"`

	Volume unit.Unit      `yaml:"volume"`
	Device device.Profile `yaml:"device,omitempty"`

	AspirateSpeed  *unit.Unit             `yaml:"aspirate_speed,omitempty"`
	DispenseSpeed  *unit.Unit             `yaml:"dispense_speed,omitempty"`
	AspirateSource map[string]interface{} `yaml:"aspirate_source,omitempty"`
	DispenseTarget map[string]interface{} `yaml:"dispense_target,omitempty"`

	PreBuffer     *unit.Unit `yaml:"pre_buffer,omitempty"`
	DisposalVol   *unit.Unit `yaml:"disposal_vol,omitempty"`
	TransitVol    *unit.Unit `yaml:"transit_vol,omitempty"`
	BlowoutBuffer bool       `yaml:"blowout_buffer,omitempty"`

	Mix *MixSpec `yaml:"mix,omitempty"`

	Shape       *ShapeSpec `yaml:"shape,omitempty"`
	NewDefaults bool       `yaml:"new_defaults,omitempty"`
}

// Parse decodes a request document, rejecting unknown fields.
func Parse(data []byte) (*Operation, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var op Operation
	if err := dec.Decode(&op); err != nil {
		return nil, lherr.Wrap(err, lherr.ErrRequest, "failed to decode operation request")
	}
	return &op, nil
}

// Load reads and decodes a request document from a file.
func Load(path string) (*Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lherr.Wrap(err, lherr.ErrRequest, "failed to read operation request")
	}
	return Parse(data)
}

// Compile validates the request and drives the matching translator and
// assembler, returning the engine-ready envelope.
func (op *Operation) Compile(log *zap.Logger) (*encode.Operation, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dev := op.Device.Default()
	if !dev.Valid() {
		return nil, lherr.DeviceError(string(op.Device), "unknown device profile")
	}
	aspSource, err := legacy.SourceSpecFromMap(op.AspirateSource)
	if err != nil {
		return nil, err
	}
	dspTarget, err := legacy.SourceSpecFromMap(op.DispenseTarget)
	if err != nil {
		return nil, err
	}

	log.Debug("compiling operation",
		zap.String("mode", op.Mode),
		zap.String("phase", op.Phase),
		zap.String("volume", op.Volume.String()),
		zap.Bool("new_defaults", op.NewDefaults),
	)

	var shape *builder.Shape
	var transports []*builder.Transport
	switch op.Mode {
	case ModeTransfer:
		opts := legacy.TransferOpts{
			AspirateSpeed:  op.AspirateSpeed,
			DispenseSpeed:  op.DispenseSpeed,
			AspirateSource: aspSource,
			DispenseTarget: dspTarget,
			PreBuffer:      op.PreBuffer,
			DisposalVol:    op.DisposalVol,
			TransitVol:     op.TransitVol,
			BlowoutBuffer:  op.BlowoutBuffer,
			NewDefaults:    op.NewDefaults,
			Device:         dev,
		}
		mix := op.mixBundle()
		switch op.Phase {
		case PhaseAspirate:
			transports, err = legacy.XferAspTransports(op.Volume, opts, mix)
		case PhaseDispense:
			transports, err = legacy.XferDspTransports(op.Volume, opts, mix)
		default:
			return nil, lherr.RequestError("phase must be 'aspirate' or 'dispense'")
		}
	case ModeStamp:
		var format device.Format
		if op.Shape != nil {
			if shape, err = builder.NewShape(builder.ShapeOpts{
				Rows:    op.Shape.Rows,
				Columns: op.Shape.Columns,
				Format:  op.Shape.Format,
			}); err != nil {
				return nil, err
			}
			format = shape.Format
		}
		opts := legacy.StampOpts{
			AspirateSpeed:  op.AspirateSpeed,
			DispenseSpeed:  op.DispenseSpeed,
			AspirateSource: aspSource,
			DispenseTarget: dspTarget,
			PreBuffer:      op.PreBuffer,
			TransitVol:     op.TransitVol,
			BlowoutBuffer:  op.BlowoutBuffer,
			Format:         format,
			NewDefaults:    op.NewDefaults,
			Device:         dev,
		}
		if op.Mix != nil {
			opts.MixBefore = op.Mix.MixBefore
			opts.MixAfter = op.Mix.MixAfter
			opts.MixVol = op.Mix.MixVol
			// The phase-suffixed bundle values win, matching the
			// transfer shims: B configures the aspirate-phase mix,
			// A the dispense-phase mix.
			reps, rate := op.Mix.Repetitions, op.Mix.Flowrate
			switch op.Phase {
			case PhaseAspirate:
				if op.Mix.RepetitionsB != nil {
					reps = op.Mix.RepetitionsB
				}
				if op.Mix.FlowrateB != nil {
					rate = op.Mix.FlowrateB
				}
			case PhaseDispense:
				if op.Mix.RepetitionsA != nil {
					reps = op.Mix.RepetitionsA
				}
				if op.Mix.FlowrateA != nil {
					rate = op.Mix.FlowrateA
				}
			}
			if reps != nil {
				opts.Repetitions = *reps
			}
			opts.Flowrate = rate
		}
		switch op.Phase {
		case PhaseAspirate:
			transports, err = legacy.StampAspTransports(op.Volume, opts)
		case PhaseDispense:
			transports, err = legacy.StampDspTransports(op.Volume, opts)
		default:
			return nil, lherr.RequestError("phase must be 'aspirate' or 'dispense'")
		}
	default:
		return nil, lherr.RequestError("mode must be 'transfer' or 'stamp'")
	}
	if err != nil {
		return nil, err
	}

	env := encode.NewOperation(op.Mode, op.Phase, dev, shape, transports)
	log.Info("compiled operation",
		zap.String("id", env.ID),
		zap.Int("transports", len(transports)),
	)
	return env, nil
}

// mixBundle converts the request's mixing bundle to the shim form.
func (op *Operation) mixBundle() *legacy.MixBundle {
	if op.Mix == nil {
		return nil
	}
	return &legacy.MixBundle{
		MixBefore:    op.Mix.MixBefore,
		MixAfter:     op.Mix.MixAfter,
		MixVol:       op.Mix.MixVol,
		Repetitions:  op.Mix.Repetitions,
		Flowrate:     op.Mix.Flowrate,
		RepetitionsA: op.Mix.RepetitionsA,
		FlowrateA:    op.Mix.FlowrateA,
		RepetitionsB: op.Mix.RepetitionsB,
		FlowrateB:    op.Mix.FlowrateB,
	}
}
