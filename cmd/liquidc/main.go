// liquidc - compile liquid-handling operation requests into transports
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"liquidhandle/pkg/encode"
	"liquidhandle/pkg/lherr"
	"liquidhandle/pkg/request"
)

var (
	verbose bool
	output  string
	format  string
	pretty  bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "liquidc",
	Short: "Compile liquid-handling operation requests into transport lists",
	Long: `liquidc translates high-level pipetting requests (transfer and stamp
operations in the old keyword vocabulary) into ordered transport lists the
execution engine consumes.

Requests are YAML documents; unknown fields are rejected.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile <request.yaml>",
	Short: "Compile a request document into an operation envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := request.Load(args[0])
		if err != nil {
			return err
		}
		env, err := op.Compile(logger)
		if err != nil {
			return err
		}

		var data []byte
		switch format {
		case "json":
			data, err = env.JSON(pretty)
		case "msgpack":
			data, err = env.Msgpack()
		default:
			return fmt.Errorf("unknown output format %q (want json or msgpack)", format)
		}
		if err != nil {
			return err
		}

		if output == "" || output == "-" {
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(output, data, 0644)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <request.yaml>",
	Short: "Check a request document without emitting output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := request.Load(args[0])
		if err != nil {
			return err
		}
		env, err := op.Compile(logger)
		if err != nil {
			if lherr.IsType(err) {
				return fmt.Errorf("type violation: %w", err)
			}
			return err
		}
		fmt.Printf("ok: %s %s, %d transports\n", env.Mode, env.Phase, len(env.Transports))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <request.yaml>",
	Short: "Compile a request and print the bare transport list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := request.Load(args[0])
		if err != nil {
			return err
		}
		env, err := op.Compile(logger)
		if err != nil {
			return err
		}
		data, err := encode.TransportsJSON(env.Transports, true)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	compileCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	compileCmd.Flags().StringVar(&format, "format", "json", "output format: json or msgpack")
	compileCmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
