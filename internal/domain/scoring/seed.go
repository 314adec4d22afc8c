package scoring

import "unicode/utf16"

// PayloadPrefixLimit caps how many UTF-16 code units of an image payload feed
// the seed. Payloads sharing this prefix always score identically.
const PayloadPrefixLimit = 500

const (
	foldMultiplier = 31
	// indexPerturbation is Knuth's multiplicative hashing constant.
	indexPerturbation = 2654435761
)

// Seed is the 32-bit generator state.
type Seed uint32

// Input is either an image payload (base64 text) or a key with an index.
// The zero value is an empty payload.
type Input struct {
	text  string
	index int
	keyed bool
}

// FromPayload builds an Input from base64 image text. Only the first
// PayloadPrefixLimit code units participate in seeding.
func FromPayload(base64 string) Input {
	return Input{text: base64}
}

// FromKey builds an Input from an arbitrary key (an image URL on the timeline)
// and its position. Every code unit of key participates in seeding.
func FromKey(key string, index int) Input {
	return Input{text: key, index: index, keyed: true}
}

// Keyed reports whether the input is the key+index variant.
func (in Input) Keyed() bool { return in.keyed }

// DeriveSeed folds the input text into a seed with seed = seed*31 + unit
// (mod 2^32). Keyed inputs are then perturbed by their index.
func DeriveSeed(in Input) Seed {
	if !in.keyed {
		return fold(0, in.text, PayloadPrefixLimit)
	}
	s := fold(0, in.text, 0)
	return s ^ Seed(uint64(int64(in.index))*indexPerturbation)
}

// fold walks text as UTF-16 code units, stopping after limit units when
// limit > 0.
func fold(s Seed, text string, limit int) Seed {
	n := 0
	for _, r := range text {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			for _, u := range [2]rune{hi, lo} {
				if limit > 0 && n >= limit {
					return s
				}
				s = s*foldMultiplier + Seed(u)
				n++
			}
			continue
		}
		if limit > 0 && n >= limit {
			return s
		}
		s = s*foldMultiplier + Seed(r)
		n++
	}
	return s
}
