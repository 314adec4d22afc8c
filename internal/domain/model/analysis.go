// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// RiskFlagThreshold is the infection risk above which an entry is flagged.
const RiskFlagThreshold = 0.35

// Scores is the five-field score object returned to clients.
type Scores struct {
	SizeReduction  float64 `json:"sizeReduction" yaml:"sizeReduction"`
	Redness        float64 `json:"redness" yaml:"redness"`
	Pus            float64 `json:"pus" yaml:"pus"`
	InfectionRisk  float64 `json:"infectionRisk" yaml:"infectionRisk"`
	OverallHealing float64 `json:"overallHealing" yaml:"overallHealing"`
}

// RiskFlagged reports whether the infection risk warrants attention.
func (s Scores) RiskFlagged() bool {
	return s.InfectionRisk > RiskFlagThreshold
}

// Explanation describes how a score was produced.
type Explanation struct {
	Summary string   `json:"summary" yaml:"summary"`
	Notes   *string  `json:"notes" yaml:"notes"`
	Factors []string `json:"factors" yaml:"factors"`
}

// Analysis is one scored capture. ImageData is only set on history entries
// the patient chose to keep; the analyze endpoint never stores images.
type Analysis struct {
	ID          string      `json:"id,omitempty" yaml:"id,omitempty"`
	Timestamp   time.Time   `json:"timestamp" yaml:"timestamp"`
	ImageData   string      `json:"imageData,omitempty" yaml:"imageData,omitempty"`
	Scores      Scores      `json:"scores" yaml:"scores"`
	Explanation Explanation `json:"explanation" yaml:"explanation"`
	Notes       *string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// TimelinePoint is one image on a patient's timeline.
type TimelinePoint struct {
	URL       string    `json:"url" yaml:"url"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Scores    Scores    `json:"scores" yaml:"scores"`
}

// Role is the demo role flag attached to a user.
type Role string

// Known roles.
const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
