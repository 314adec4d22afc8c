// Package scoring turns image payloads or timeline keys into reproducible
// wound-healing metrics.
//
// Everything numeric here is a pure function of the input and the preset:
// no clock, no entropy, no shared state. The only impure field is the
// informational Result timestamp, taken from the Scorer's clock.
package scoring

import (
	"strings"
	"time"

	"github.com/okian/woundcare/internal/domain/model"
)

// Summary is the explanation summary attached to every result.
const Summary = "Mock AI analysis using deterministic randomness for POC."

// Factors lists the explanation factors in display order.
func Factors() []string {
	return []string{
		"Edges detection approximated to infer wound area change",
		"Red channel intensity proxy for erythema (redness)",
		"Yellow/green saturation proxy for exudate (pus)",
		"Composite risk blends redness + pus minus size reduction",
	}
}

// StripDataURL drops a data-URL header, keeping what follows the last comma.
func StripDataURL(s string) string {
	if i := strings.LastIndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Result is one scoring outcome.
type Result struct {
	Timestamp   time.Time
	Raw         RawMetrics
	Derived     DerivedMetrics
	Explanation model.Explanation
}

// Scores flattens the metrics into the wire shape.
func (r Result) Scores() model.Scores {
	return ScoresOf(r.Raw, r.Derived)
}

// ScoresOf flattens raw and derived metrics into the wire shape.
func ScoresOf(raw RawMetrics, derived DerivedMetrics) model.Scores {
	return model.Scores{
		SizeReduction:  raw.SizeReduction,
		Redness:        raw.Redness,
		Pus:            raw.Pus,
		InfectionRisk:  derived.InfectionRisk,
		OverallHealing: derived.OverallHealing,
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPreset sets the preset. Invalid presets are ignored.
func WithPreset(p Preset) Option {
	return func(s *Scorer) {
		if p.Validate() == nil {
			s.preset = p
		}
	}
}

// WithClock sets the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// Scorer binds a preset and a clock. It is safe for concurrent use.
type Scorer struct {
	preset Preset
	now    func() time.Time
}

// NewScorer creates a scorer using the server preset and the wall clock.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		preset: ServerPreset(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preset returns the scorer's preset.
func (s *Scorer) Preset() Preset { return s.preset }

// Score evaluates in and attaches an explanation carrying notes.
func (s *Scorer) Score(in Input, notes *string) Result {
	raw, derived := Evaluate(in, s.preset)
	return Result{
		Timestamp: s.now().UTC(),
		Raw:       raw,
		Derived:   derived,
		Explanation: model.Explanation{
			Summary: Summary,
			Notes:   notes,
			Factors: Factors(),
		},
	}
}
