package scoring

// RawMetrics are the generated values, each rounded to two decimals.
type RawMetrics struct {
	SizeReduction float64
	Redness       float64
	Pus           float64
}

// DerivedMetrics are computed from RawMetrics, clamped to [0, 1] and rounded.
type DerivedMetrics struct {
	InfectionRisk  float64
	OverallHealing float64
}

// Compose draws sizeReduction, redness and pus in that order and derives the
// risk and healing scores. It returns the seed after the third draw.
func Compose(s Seed, p Preset) (RawMetrics, DerivedMetrics, Seed) {
	var raw RawMetrics
	var u float64

	s, u = Next(s, p.Mixer, p.Modulus)
	raw.SizeReduction = p.SizeReduction.Scale(u)
	s, u = Next(s, p.Mixer, p.Modulus)
	raw.Redness = p.Redness.Scale(u)
	s, u = Next(s, p.Mixer, p.Modulus)
	raw.Pus = p.Pus.Scale(u)

	return raw, derive(raw, p.Weights), s
}

// derive keeps every product as its own float64 conversion so no
// fused multiply-add changes the rounding on any architecture.
func derive(raw RawMetrics, w Coefficients) DerivedMetrics {
	risk := float64(w.RiskRedness*raw.Redness) + float64(w.RiskPus*raw.Pus)
	risk = Round2(Clamp01(risk - float64(w.RiskSize*raw.SizeReduction)))

	heal := float64(w.HealSize*raw.SizeReduction) + float64(w.HealRisk*(1-risk))
	heal = Round2(Clamp01(heal + float64(w.HealRedness*(1-raw.Redness))))

	return DerivedMetrics{InfectionRisk: risk, OverallHealing: heal}
}

// Evaluate derives the seed for in and composes its metrics under p.
func Evaluate(in Input, p Preset) (RawMetrics, DerivedMetrics) {
	raw, derived, _ := Compose(DeriveSeed(in), p)
	return raw, derived
}
