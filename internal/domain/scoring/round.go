package scoring

import (
	"math"
	"math/big"
)

// Round2 rounds x to two decimals, half away from zero, deciding ties on the
// exact binary value of x rather than on x*100. The result is the float64
// nearest to n/100.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	neg := x < 0
	if neg {
		x = -x
	}

	// 128 bits hold x*100 exactly: 53 mantissa bits plus 7 for the factor.
	v := new(big.Float).SetPrec(128).SetFloat64(x)
	v.Mul(v, big.NewFloat(100))
	n, _ := v.Int(nil)
	frac := new(big.Float).SetPrec(128).Sub(v, new(big.Float).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	f, _ := new(big.Float).SetInt(n).Float64()
	r := f / 100
	if neg {
		return -r
	}
	return r
}

// Clamp01 restricts x to [0, 1].
func Clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
