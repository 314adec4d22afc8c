package main

import (
	"github.com/okian/woundcare/internal/conformance"
	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/okian/woundcare/pkg/logger"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	cfg := conformance.Config{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a running server's /analyze against the local scoring core",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithFormat(logger.FormatText, cmd.ErrOrStderr()); err != nil {
				return err
			}
			report, err := conformance.Run(cmd.Context(), cfg)
			if err != nil {
				return exitError(4, "verify failed: %v", err)
			}
			if err := render(cmd, report); err != nil {
				return err
			}
			if !report.OK() {
				return exitError(5, "%d of %d submissions disagreed with the core", report.Submitted-report.Matched, report.Submitted)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", "http://localhost:3000", "Server base URL")
	flags.IntVar(&cfg.Payloads, "payloads", conformance.DefaultPayloads, "Distinct payloads to generate")
	flags.IntVar(&cfg.Repeat, "repeat", conformance.DefaultRepeat, "Submissions per payload")
	flags.IntVar(&cfg.Workers, "workers", conformance.DefaultWorkers, "Concurrent workers")
	flags.IntVar(&cfg.MaxBytes, "max-bytes", conformance.DefaultMaxBytes, "Largest generated image in bytes")
	flags.DurationVar(&cfg.Timeout, "timeout", conformance.DefaultTimeout, "Per-request timeout")
	flags.StringVar(&cfg.Preset, "preset", scoring.PresetServer, "Preset the server is expected to use")
	return cmd
}
