package main

import (
	"strings"

	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/spf13/cobra"
)

// drawCount matches the number of draws one score consumes.
const drawCount = 3

type draw struct {
	State uint32  `json:"state" yaml:"state"`
	Unit  float64 `json:"unit" yaml:"unit"`
}

type seedOutput struct {
	Preset string `json:"preset" yaml:"preset"`
	Mixer  string `json:"mixer" yaml:"mixer"`
	Keyed  bool   `json:"keyed" yaml:"keyed"`
	Seed   uint32 `json:"seed" yaml:"seed"`
	Draws  []draw `json:"draws" yaml:"draws"`
}

// trace derives the seed for in and records the first draws.
func trace(in scoring.Input, p scoring.Preset) seedOutput {
	s := scoring.DeriveSeed(in)
	out := seedOutput{
		Preset: p.Name,
		Mixer:  p.Mixer.String(),
		Keyed:  in.Keyed(),
		Seed:   uint32(s),
		Draws:  make([]draw, 0, drawCount),
	}
	for i := 0; i < drawCount; i++ {
		var u float64
		s, u = scoring.Next(s, p.Mixer, p.Modulus)
		out.Draws = append(out.Draws, draw{State: uint32(s), Unit: u})
	}
	return out
}

func newSeedCmd() *cobra.Command {
	var (
		data   string
		key    string
		index  int
		preset string
	)

	cmd := &cobra.Command{
		Use:   "seed [image-file]",
		Short: "Print the derived seed and generator draws for an input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := scoring.PresetByName(preset)
			if err != nil {
				return exitError(2, "%v", err)
			}

			var in scoring.Input
			if cmd.Flags().Changed("key") {
				in = scoring.FromKey(key, index)
			} else {
				payload, err := readPayload(cmd, args, data)
				if err != nil {
					return err
				}
				in = scoring.FromPayload(scoring.StripDataURL(payload))
			}
			return render(cmd, trace(in, p))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&data, "data", "", "Base64 payload or data URL")
	flags.StringVar(&key, "key", "", "Key for the keyed variant (a timeline image URL)")
	flags.IntVar(&index, "index", 0, "Index for the keyed variant")
	flags.StringVar(&preset, "preset", scoring.PresetServer, "Scoring preset: "+strings.Join(scoring.PresetNames(), ", "))
	return cmd
}
