package main

import (
	"encoding/base64"
	"io"
	"os"
	"strings"
	"time"

	"github.com/okian/woundcare/internal/domain/model"
	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/spf13/cobra"
)

type scoreOutput struct {
	Preset      string            `json:"preset" yaml:"preset"`
	Seed        uint32            `json:"seed" yaml:"seed"`
	Timestamp   time.Time         `json:"timestamp" yaml:"timestamp"`
	Scores      model.Scores      `json:"scores" yaml:"scores"`
	Explanation model.Explanation `json:"explanation" yaml:"explanation"`
}

// readPayload returns the base64 payload from a file argument, --data, or stdin.
// Files are raw image bytes and get encoded; --data and stdin are taken as text.
func readPayload(cmd *cobra.Command, args []string, data string) (string, error) {
	switch {
	case len(args) == 1:
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return "", exitError(3, "failed to read %s: %v", args[0], err)
		}
		return base64.StdEncoding.EncodeToString(raw), nil
	case data != "":
		return data, nil
	default:
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", exitError(3, "failed to read stdin: %v", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
}

func newScoreCmd() *cobra.Command {
	var (
		data   string
		preset string
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "score [image-file]",
		Short: "Score an image file, a base64 payload, or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := scoring.PresetByName(preset)
			if err != nil {
				return exitError(2, "%v", err)
			}
			payload, err := readPayload(cmd, args, data)
			if err != nil {
				return err
			}
			if payload == "" {
				return exitError(2, "imageData (base64) required")
			}

			var n *string
			if notes != "" {
				n = &notes
			}
			in := scoring.FromPayload(scoring.StripDataURL(payload))
			res := scoring.NewScorer(scoring.WithPreset(p)).Score(in, n)
			return render(cmd, scoreOutput{
				Preset:      p.Name,
				Seed:        uint32(scoring.DeriveSeed(in)),
				Timestamp:   res.Timestamp,
				Scores:      res.Scores(),
				Explanation: res.Explanation,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&data, "data", "", "Base64 payload or data URL")
	flags.StringVar(&preset, "preset", scoring.PresetServer, "Scoring preset: "+strings.Join(scoring.PresetNames(), ", "))
	flags.StringVar(&notes, "notes", "", "Notes echoed in the explanation")
	return cmd
}
