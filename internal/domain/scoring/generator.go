package scoring

// Mixer selects the state transition used by the generator.
type Mixer int

const (
	// MixerXorshift32 applies the three xorshift steps in sequence.
	MixerXorshift32 Mixer = iota
	// MixerParallelShift XORs all three shifts of the previous state in a
	// single expression. The timeline scorer has always stepped this way.
	MixerParallelShift
)

func (m Mixer) String() string {
	switch m {
	case MixerXorshift32:
		return "xorshift32"
	case MixerParallelShift:
		return "parallel-shift"
	default:
		return "unknown"
	}
}

func (m Mixer) step(s Seed) Seed {
	if m == MixerParallelShift {
		return s ^ (s << 13) ^ (s >> 17) ^ (s << 5)
	}
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	return s
}

// Next advances s by one step and maps the new state to [0, 1).
// The state is read as a signed 32-bit value for the remainder, so
// unit = |int32(s) mod modulus| / modulus. A zero modulus yields 0.
func Next(s Seed, m Mixer, modulus uint32) (Seed, float64) {
	s = m.step(s)
	return s, unit(s, modulus)
}

func unit(s Seed, modulus uint32) float64 {
	if modulus == 0 {
		return 0
	}
	r := int64(int32(s)) % int64(modulus)
	if r < 0 {
		r = -r
	}
	return float64(r) / float64(modulus)
}
