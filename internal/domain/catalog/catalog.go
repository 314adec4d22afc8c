// Package catalog holds the demo patients shown to doctors.
package catalog

import (
	"errors"
	"sort"
	"time"

	"github.com/okian/woundcare/internal/domain/model"
	"github.com/okian/woundcare/internal/domain/scoring"
)

// ErrPatientNotFound is returned for unknown patient ids.
var ErrPatientNotFound = errors.New("patient not found")

const day = 24 * time.Hour

// Patient is a demo patient with an ordered series of wound images.
type Patient struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Images []string `json:"images" yaml:"images"`
}

var patients = map[string]Patient{
	"alice": {
		ID:   "alice",
		Name: "Alice Patient",
		Images: []string{
			"https://images.unsplash.com/photo-1604881987299-9100a873fa9f?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1504439468489-c8920d796a29?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1522335789203-aabd1fc54bc9?q=80&w=1200&auto=format&fit=crop",
		},
	},
	"bob": {
		ID:   "bob",
		Name: "Bob Rural",
		Images: []string{
			"https://images.unsplash.com/photo-1526253038957-bce54e05968d?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1579154204601-01588f351e67?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1434493789847-2f02dc6ca35d?q=80&w=1200&auto=format&fit=crop",
		},
	},
	"carol": {
		ID:   "carol",
		Name: "Carol Chronic",
		Images: []string{
			"https://images.unsplash.com/photo-1544717305-2782549b5136?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1494883759339-0b042055a4ee?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1477332552946-cfb384aeaf1c?q=80&w=1200&auto=format&fit=crop",
		},
	},
}

// Lookup returns the patient with the given id.
func Lookup(id string) (Patient, error) {
	p, ok := patients[id]
	if !ok {
		return Patient{}, ErrPatientNotFound
	}
	p.Images = append([]string(nil), p.Images...)
	return p, nil
}

// List returns all patients sorted by id.
func List() []Patient {
	out := make([]Patient, 0, len(patients))
	for id := range patients {
		p, _ := Lookup(id)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Timeline scores every image of p, one day apart and ending a day before
// now, oldest first. Image i is keyed by its URL and position.
func Timeline(p Patient, now time.Time, preset scoring.Preset) []model.TimelinePoint {
	n := len(p.Images)
	points := make([]model.TimelinePoint, n)
	for i, url := range p.Images {
		raw, derived := scoring.Evaluate(scoring.FromKey(url, i), preset)
		points[i] = model.TimelinePoint{
			URL:       url,
			Timestamp: now.Add(-time.Duration(n-i) * day).UTC(),
			Scores:    scoring.ScoresOf(raw, derived),
		}
	}
	return points
}
