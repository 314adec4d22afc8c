package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// render writes v to the command's stdout in the selected format.
func render(cmd *cobra.Command, v any) error {
	format, _ := cmd.Flags().GetString("format")
	return write(cmd.OutOrStdout(), format, v)
}

func write(w io.Writer, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return exitError(2, "unknown format %q (want json or yaml)", format)
	}
}
