package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// maxProbeResponse bounds the response body read from the server.
const maxProbeResponse = 1 << 20

type probeOutput struct {
	Status int            `json:"status" yaml:"status"`
	Body   map[string]any `json:"body" yaml:"body"`
}

// probe posts payload to baseURL's /analyze and decodes the JSON reply.
func probe(ctx context.Context, client *http.Client, baseURL, payload, user string) (probeOutput, error) {
	body, err := json.Marshal(map[string]string{"imageData": payload})
	if err != nil {
		return probeOutput{}, err
	}
	url := strings.TrimRight(baseURL, "/") + "/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return probeOutput{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-Email", user)
	}

	resp, err := client.Do(req)
	if err != nil {
		return probeOutput{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeResponse))
	if err != nil {
		return probeOutput{}, err
	}
	out := probeOutput{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, &out.Body); err != nil {
		return out, fmt.Errorf("response is not JSON: %w", err)
	}
	return out, nil
}

func newProbeCmd() *cobra.Command {
	var (
		baseURL string
		data    string
		user    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "probe [image-file]",
		Short: "POST a payload to a running server's /analyze",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, args, data)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out, err := probe(ctx, &http.Client{}, baseURL, payload, user)
			if err != nil {
				return exitError(4, "probe failed: %v", err)
			}
			if err := render(cmd, out); err != nil {
				return err
			}
			if out.Status != http.StatusOK {
				return exitError(5, "server answered %d", out.Status)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&baseURL, "url", "http://localhost:3000", "Server base URL")
	flags.StringVar(&data, "data", "", "Base64 payload or data URL")
	flags.StringVar(&user, "user", "", "Value for the X-User-Email header")
	flags.DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	return cmd
}
