package main

import (
	"strings"
	"time"

	"github.com/okian/woundcare/internal/domain/catalog"
	"github.com/okian/woundcare/internal/domain/model"
	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/spf13/cobra"
)

type timelineOutput struct {
	Patient catalog.Patient       `json:"patient" yaml:"patient"`
	Preset  string                `json:"preset" yaml:"preset"`
	Points  []model.TimelinePoint `json:"points" yaml:"points"`
}

func newTimelineCmd() *cobra.Command {
	var (
		preset string
		now    string
	)

	cmd := &cobra.Command{
		Use:   "timeline <patient-id>",
		Short: "Score a demo patient's image timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := catalog.Lookup(strings.TrimSpace(args[0]))
			if err != nil {
				ids := make([]string, 0)
				for _, known := range catalog.List() {
					ids = append(ids, known.ID)
				}
				return exitError(3, "%v: %q (known: %s)", err, args[0], strings.Join(ids, ", "))
			}
			ps, err := scoring.PresetByName(preset)
			if err != nil {
				return exitError(2, "%v", err)
			}
			at := time.Now()
			if now != "" {
				if at, err = time.Parse(time.RFC3339, now); err != nil {
					return exitError(2, "invalid --now; must be RFC3339: %v", err)
				}
			}
			return render(cmd, timelineOutput{
				Patient: p,
				Preset:  ps.Name,
				Points:  catalog.Timeline(p, at, ps),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&preset, "preset", scoring.PresetClient, "Scoring preset")
	flags.StringVar(&now, "now", "", "Reference time (RFC3339); defaults to the current time")
	return cmd
}
