package conformance

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/okian/woundcare/pkg/logger"
)

func (c *Config) applyDefaults() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Payloads <= 0 {
		c.Payloads = DefaultPayloads
	}
	if c.Repeat <= 0 {
		c.Repeat = DefaultRepeat
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.Preset == "" {
		c.Preset = scoring.PresetServer
	}
}

// Run executes a complete conformance run against cfg.BaseURL.
func Run(ctx context.Context, cfg Config) (Report, error) {
	cfg.applyDefaults()
	preset, err := scoring.PresetByName(cfg.Preset)
	if err != nil {
		return Report{}, err
	}
	start := time.Now()

	logger.Get().Info(ctx, "starting conformance run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("payloads", cfg.Payloads),
		logger.Int("repeat", cfg.Repeat),
		logger.Int("workers", cfg.Workers),
		logger.String("preset", preset.Name),
	)

	client := &http.Client{Timeout: cfg.Timeout}
	if err := checkServiceHealth(ctx, client, cfg.BaseURL); err != nil {
		return Report{}, fmt.Errorf("service health check failed: %w", err)
	}

	cases, err := generateCases(ctx, &cfg, preset)
	if err != nil {
		return Report{}, fmt.Errorf("payload generation failed: %w", err)
	}

	report := Report{Generated: len(cases), Mismatches: []Mismatch{}}
	verifyResults(cases, submitCases(ctx, &cfg, client, cases), &report)
	report.Duration = time.Since(start)

	logger.Get().Info(ctx, "conformance run finished",
		logger.Int("submitted", report.Submitted),
		logger.Int("matched", report.Matched),
		logger.Int("failed", report.Failed),
		logger.Int("mismatched", report.Mismatched),
		logger.String("duration", report.Duration.String()),
	)
	return report, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}
