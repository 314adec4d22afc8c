// Package conformance drives a running server's /analyze endpoint with
// generated payloads and checks every answer against the local scoring core.
package conformance

import (
	"time"

	"github.com/okian/woundcare/internal/domain/model"
)

// Config holds configuration for a conformance run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Payloads int           // Number of distinct payloads to generate
	Repeat   int           // Submissions per payload
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	MaxBytes int           // Upper bound on generated image size in bytes
	Preset   string        // Preset the server is expected to use
}

// Case is one generated payload and the scores the core expects for it.
type Case struct {
	ID       string       `json:"id" yaml:"id"`
	Payload  string       `json:"-" yaml:"-"`
	Length   int          `json:"length" yaml:"length"`
	DataURL  bool         `json:"dataUrl" yaml:"dataUrl"`
	Expected model.Scores `json:"expected" yaml:"expected"`
}

// Mismatch describes a response that disagreed with the core.
type Mismatch struct {
	CaseID   string       `json:"caseId" yaml:"caseId"`
	Attempt  int          `json:"attempt" yaml:"attempt"`
	Status   int          `json:"status" yaml:"status"`
	Expected model.Scores `json:"expected" yaml:"expected"`
	Got      model.Scores `json:"got" yaml:"got"`
	Error    string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report holds run statistics.
type Report struct {
	Generated  int           `json:"generated" yaml:"generated"`
	Submitted  int           `json:"submitted" yaml:"submitted"`
	Matched    int           `json:"matched" yaml:"matched"`
	Failed     int           `json:"failed" yaml:"failed"`
	Mismatched int           `json:"mismatched" yaml:"mismatched"`
	Mismatches []Mismatch    `json:"mismatches" yaml:"mismatches"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// OK reports whether every submission matched.
func (r Report) OK() bool {
	return r.Submitted > 0 && r.Failed == 0 && r.Mismatched == 0
}
