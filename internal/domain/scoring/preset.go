package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Preset names.
const (
	PresetServer = "server"
	PresetClient = "client"
)

const defaultModulus = 1000

// Range maps a unit draw onto [Min, Min+Span].
type Range struct {
	Min  float64
	Span float64
}

// Between returns the range [lo, hi]. The span is computed in float64 at run
// time, so 0.95-0.2 is 0.7499999999999999, not 0.75.
func Between(lo, hi float64) Range {
	return Range{Min: lo, Span: hi - lo}
}

// Spanning returns a range whose span is taken literally.
func Spanning(lo, span float64) Range {
	return Range{Min: lo, Span: span}
}

// Max is the upper bound of the range.
func (r Range) Max() float64 { return r.Min + r.Span }

// Scale maps u in [0, 1) onto the range and rounds to two decimals.
func (r Range) Scale(u float64) float64 {
	return Round2(r.Min + float64(r.Span*u))
}

// Coefficients weight the raw metrics into the derived ones:
//
//	infectionRisk  = clamp01(RiskRedness*redness + RiskPus*pus - RiskSize*sizeReduction)
//	overallHealing = clamp01(HealSize*sizeReduction + HealRisk*(1-infectionRisk) + HealRedness*(1-redness))
type Coefficients struct {
	RiskRedness float64
	RiskPus     float64
	RiskSize    float64
	HealSize    float64
	HealRisk    float64
	HealRedness float64
}

// Preset is a named set of ranges and coefficients.
type Preset struct {
	Name          string
	Modulus       uint32
	Mixer         Mixer
	SizeReduction Range
	Redness       Range
	Pus           Range
	Weights       Coefficients
}

// ServerPreset is the configuration used when scoring uploaded images.
func ServerPreset() Preset {
	return Preset{
		Name:          PresetServer,
		Modulus:       defaultModulus,
		Mixer:         MixerXorshift32,
		SizeReduction: Between(0.2, 0.95),
		Redness:       Between(0.05, 0.85),
		Pus:           Between(0.0, 0.6),
		Weights: Coefficients{
			RiskRedness: 0.6,
			RiskPus:     0.7,
			RiskSize:    0.3,
			HealSize:    0.6,
			HealRisk:    0.2,
			HealRedness: 0.2,
		},
	}
}

// ClientPreset is the configuration used for the doctor timeline.
func ClientPreset() Preset {
	return Preset{
		Name:          PresetClient,
		Modulus:       defaultModulus,
		Mixer:         MixerParallelShift,
		SizeReduction: Spanning(0.3, 0.7),
		Redness:       Spanning(0.1, 0.7),
		Pus:           Spanning(0, 0.6),
		Weights: Coefficients{
			RiskRedness: 0.6,
			RiskPus:     0.7,
			RiskSize:    0.25,
			HealSize:    0.65,
			HealRisk:    0.2,
			HealRedness: 0.15,
		},
	}
}

var presets = map[string]func() Preset{
	PresetServer: ServerPreset,
	PresetClient: ClientPreset,
}

// PresetByName returns the named preset. Lookup is case-insensitive.
func PresetByName(name string) (Preset, error) {
	ctor, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return ctor(), nil
}

// PresetNames lists the known preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the preset can drive the generator.
func (p Preset) Validate() error {
	if p.Modulus == 0 {
		return fmt.Errorf("%w: preset %q: %w", ErrInvalidPreset, p.Name, ErrInvalidModulus)
	}
	for _, r := range []Range{p.SizeReduction, p.Redness, p.Pus} {
		if r.Span < 0 {
			return fmt.Errorf("%w: preset %q: negative span", ErrInvalidPreset, p.Name)
		}
	}
	return nil
}
