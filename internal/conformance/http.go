package conformance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/okian/woundcare/internal/domain/model"
)

// maxResponseBytes bounds a single /analyze response.
const maxResponseBytes = 1 << 20

type analyzeRequest struct {
	ImageData string `json:"imageData"`
}

type analyzeResponse struct {
	Scores model.Scores `json:"scores"`
	Error  string       `json:"error"`
}

// result is one submission outcome.
type result struct {
	caseIndex int
	attempt   int
	status    int
	scores    model.Scores
	err       error
}

type job struct {
	caseIndex int
	attempt   int
}

// analyze posts one payload and decodes the response.
func analyze(ctx context.Context, client *http.Client, url, payload string) (int, model.Scores, error) {
	body, err := json.Marshal(analyzeRequest{ImageData: payload})
	if err != nil {
		return 0, model.Scores{}, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, model.Scores{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, model.Scores{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, model.Scores{}, fmt.Errorf("failed to read response: %w", err)
	}
	var out analyzeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return resp.StatusCode, model.Scores{}, fmt.Errorf("response is not JSON: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return resp.StatusCode, model.Scores{}, fmt.Errorf("status %d: %s", resp.StatusCode, out.Error)
	}
	return resp.StatusCode, out.Scores, nil
}

// submitCases posts every case cfg.Repeat times using a worker pool.
func submitCases(ctx context.Context, cfg *Config, client *http.Client, cases []Case) []result {
	url := cfg.BaseURL + "/analyze"
	jobs := make(chan job, cfg.Workers*WorkerChannelMultiplier)
	results := make(chan result, cfg.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				status, scores, err := analyze(ctx, client, url, cases[j.caseIndex].Payload)
				results <- result{caseIndex: j.caseIndex, attempt: j.attempt, status: status, scores: scores, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for attempt := 0; attempt < cfg.Repeat; attempt++ {
			for i := range cases {
				select {
				case <-ctx.Done():
					return
				case jobs <- job{caseIndex: i, attempt: attempt}:
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]result, 0, len(cases)*cfg.Repeat)
	for r := range results {
		out = append(out, r)
	}
	return out
}
