package scoring_test

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	scoring "github.com/okian/woundcare/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeriveSeed(t *testing.T) {
	Convey("Given payload inputs", t, func() {
		Convey("When the payload is AAAA", func() {
			Convey("Then the seed should be the folded char codes", func() {
				// ((65*31+65)*31+65)*31+65
				So(scoring.DeriveSeed(scoring.FromPayload("AAAA")), ShouldEqual, scoring.Seed(2000960))
			})
		})

		Convey("When the payload is empty", func() {
			Convey("Then the seed should be zero", func() {
				So(scoring.DeriveSeed(scoring.FromPayload("")), ShouldEqual, scoring.Seed(0))
			})
		})

		Convey("When two payloads share the first 500 characters", func() {
			prefix := strings.Repeat("A", scoring.PayloadPrefixLimit)
			a := scoring.FromPayload(prefix)
			b := scoring.FromPayload(prefix + "zzzz/+==")

			Convey("Then their seeds should be identical", func() {
				So(scoring.DeriveSeed(a), ShouldEqual, scoring.Seed(1896597312))
				So(scoring.DeriveSeed(b), ShouldEqual, scoring.DeriveSeed(a))
			})
		})

		Convey("When payloads differ inside the first 500 characters", func() {
			a := scoring.FromPayload("AAAB" + strings.Repeat("A", 600))
			b := scoring.FromPayload("AAAA" + strings.Repeat("A", 600))

			Convey("Then their seeds should differ", func() {
				So(scoring.DeriveSeed(a), ShouldNotEqual, scoring.DeriveSeed(b))
			})
		})
	})

	Convey("Given keyed inputs", t, func() {
		Convey("When the index is zero", func() {
			Convey("Then no perturbation should be applied", func() {
				So(scoring.DeriveSeed(scoring.FromKey("AAAA", 0)), ShouldEqual, scoring.Seed(2000960))
			})
		})

		Convey("When the index is one", func() {
			Convey("Then the seed should be XORed with the multiplicative constant", func() {
				So(scoring.DeriveSeed(scoring.FromKey("AAAA", 1)), ShouldEqual, scoring.Seed(2653549041))
				So(scoring.DeriveSeed(scoring.FromKey("", 1)), ShouldEqual, scoring.Seed(2654435761))
			})
		})

		Convey("When the index is two", func() {
			Convey("Then the product should wrap modulo 2^32", func() {
				// 2*2654435761 = 5308871522 = 1013904226 (mod 2^32)
				So(scoring.DeriveSeed(scoring.FromKey("", 2)), ShouldEqual, scoring.Seed(1013904226))
			})
		})

		Convey("When the key is longer than the payload prefix limit", func() {
			prefix := strings.Repeat("k", scoring.PayloadPrefixLimit)

			Convey("Then every character should participate", func() {
				So(scoring.DeriveSeed(scoring.FromKey(prefix+"x", 0)), ShouldNotEqual, scoring.DeriveSeed(scoring.FromKey(prefix+"y", 0)))
			})
		})

		Convey("When the key contains characters outside the BMP", func() {
			Convey("Then they should fold as UTF-16 surrogate pairs", func() {
				// U+1F600 is 0xD83D 0xDE00 in UTF-16.
				want := scoring.Seed(0xD83D)*31 + scoring.Seed(0xDE00)
				So(scoring.DeriveSeed(scoring.FromKey("\U0001F600", 0)), ShouldEqual, want)
			})
		})
	})
}

func TestNext(t *testing.T) {
	Convey("Given the xorshift32 mixer", t, func() {
		Convey("When stepping from the AAAA seed", func() {
			s1, u1 := scoring.Next(2000960, scoring.MixerXorshift32, 1000)
			s2, u2 := scoring.Next(s1, scoring.MixerXorshift32, 1000)
			s3, u3 := scoring.Next(s2, scoring.MixerXorshift32, 1000)

			Convey("Then the states should match the golden vector", func() {
				So(s1, ShouldEqual, scoring.Seed(4090165675))
				So(s2, ShouldEqual, scoring.Seed(856044884))
				So(s3, ShouldEqual, scoring.Seed(1077231554))
			})

			Convey("And unit values should use the signed remainder", func() {
				// int32(4090165675) = -204801621
				So(u1, ShouldEqual, 0.621)
				So(u2, ShouldEqual, 0.884)
				So(u3, ShouldEqual, 0.554)
			})
		})

		Convey("When the seed is zero", func() {
			s, u := scoring.Next(0, scoring.MixerXorshift32, 1000)

			Convey("Then it should stay at zero without failing", func() {
				So(s, ShouldEqual, scoring.Seed(0))
				So(u, ShouldEqual, 0.0)
			})
		})

		Convey("When the modulus is zero", func() {
			_, u := scoring.Next(12345, scoring.MixerXorshift32, 0)

			Convey("Then the unit value should be zero", func() {
				So(u, ShouldEqual, 0.0)
			})
		})
	})

	Convey("Given the parallel-shift mixer", t, func() {
		Convey("When stepping from the AAAA seed", func() {
			s1, _ := scoring.Next(2000960, scoring.MixerParallelShift, 1000)
			s2, _ := scoring.Next(s1, scoring.MixerParallelShift, 1000)
			s3, _ := scoring.Next(s2, scoring.MixerParallelShift, 1000)

			Convey("Then the states should match the golden vector", func() {
				So(s1, ShouldEqual, scoring.Seed(3536289871))
				So(s2, ShouldEqual, scoring.Seed(2050883788))
				So(s3, ShouldEqual, scoring.Seed(4259816531))
			})
		})
	})

	Convey("Given any seed", t, func() {
		rng := rand.New(rand.NewSource(7))
		Convey("Then a step should be a pure function of the seed", func() {
			for i := 0; i < 1000; i++ {
				seed := scoring.Seed(rng.Uint32())
				for _, m := range []scoring.Mixer{scoring.MixerXorshift32, scoring.MixerParallelShift} {
					a, ua := scoring.Next(seed, m, 1000)
					b, ub := scoring.Next(seed, m, 1000)
					So(a, ShouldEqual, b)
					So(ua, ShouldEqual, ub)
					So(ua, ShouldBeBetweenOrEqual, 0.0, 0.999)
				}
			}
		})
	})
}

func TestCompose(t *testing.T) {
	type vector struct {
		name   string
		in     scoring.Input
		preset scoring.Preset
		want   [5]float64
	}
	vectors := []vector{
		{"server AAAA", scoring.FromPayload("AAAA"), scoring.ServerPreset(), [5]float64{0.67, 0.76, 0.33, 0.49, 0.55}},
		{"server empty", scoring.FromPayload(""), scoring.ServerPreset(), [5]float64{0.2, 0.05, 0, 0, 0.51}},
		{"server png", scoring.FromPayload("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="), scoring.ServerPreset(), [5]float64{0.24, 0.17, 0.03, 0.05, 0.5}},
		{"server long prefix", scoring.FromPayload(strings.Repeat("A", 500)), scoring.ServerPreset(), [5]float64{0.21, 0.29, 0.59, 0.52, 0.36}},
		{"client AAAA 0", scoring.FromKey("AAAA", 0), scoring.ClientPreset(), [5]float64{0.6, 0.65, 0.46, 0.56, 0.53}},
		{"client AAAA 1", scoring.FromKey("AAAA", 1), scoring.ClientPreset(), [5]float64{0.96, 0.74, 0.01, 0.21, 0.82}},
		{"client empty 0", scoring.FromKey("", 0), scoring.ClientPreset(), [5]float64{0.3, 0.1, 0, 0, 0.53}},
		{"client empty 1", scoring.FromKey("", 1), scoring.ClientPreset(), [5]float64{0.91, 0.23, 0.22, 0.06, 0.9}},
	}

	Convey("Given golden vectors", t, func() {
		for _, v := range vectors {
			v := v
			Convey("When evaluating "+v.name, func() {
				raw, derived := scoring.Evaluate(v.in, v.preset)

				Convey("Then every metric should match", func() {
					So(raw.SizeReduction, ShouldEqual, v.want[0])
					So(raw.Redness, ShouldEqual, v.want[1])
					So(raw.Pus, ShouldEqual, v.want[2])
					So(derived.InfectionRisk, ShouldEqual, v.want[3])
					So(derived.OverallHealing, ShouldEqual, v.want[4])
				})
			})
		}
	})

	Convey("Given the AAAA seed and the server preset", t, func() {
		_, _, next := scoring.Compose(2000960, scoring.ServerPreset())

		Convey("Then the returned seed should be the third generator state", func() {
			So(next, ShouldEqual, scoring.Seed(1077231554))
		})
	})

	Convey("Given random inputs for both presets", t, func() {
		rng := rand.New(rand.NewSource(42))
		presets := []scoring.Preset{scoring.ServerPreset(), scoring.ClientPreset()}

		Convey("Then results should be deterministic and within [0, 1]", func() {
			for i := 0; i < 500; i++ {
				buf := make([]byte, rng.Intn(700))
				for j := range buf {
					buf[j] = byte('+' + rng.Intn(80))
				}
				inputs := []scoring.Input{
					scoring.FromPayload(string(buf)),
					scoring.FromKey(string(buf), rng.Intn(10)),
				}
				for _, in := range inputs {
					for _, p := range presets {
						r1, d1 := scoring.Evaluate(in, p)
						r2, d2 := scoring.Evaluate(in, p)
						So(r1, ShouldResemble, r2)
						So(d1, ShouldResemble, d2)
						for _, x := range []float64{r1.SizeReduction, r1.Redness, r1.Pus, d1.InfectionRisk, d1.OverallHealing} {
							So(x, ShouldBeBetweenOrEqual, 0.0, 1.0)
						}
					}
				}
			}
		})
	})
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.13},
		{0.375, 0.38},
		{1.005, 1},
		{0.285, 0.28},
		{0.665, 0.67},
		{2.675, 2.67},
		{0.045, 0.04},
		{0.995, 0.99},
		{-0.125, -0.13},
		{0, 0},
		{1, 1},
	}
	for _, tt := range tests {
		if got := scoring.Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.2, 0},
		{0.42, 0.42},
		{1.3, 1},
	}
	for _, tt := range tests {
		if got := scoring.Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPresets(t *testing.T) {
	Convey("Given the named presets", t, func() {
		Convey("When looking them up by name", func() {
			server, err := scoring.PresetByName("server")
			So(err, ShouldBeNil)
			client, err := scoring.PresetByName(" Client ")
			So(err, ShouldBeNil)

			Convey("Then they should carry their own coefficients", func() {
				So(server.Name, ShouldEqual, scoring.PresetServer)
				So(server.Mixer, ShouldEqual, scoring.MixerXorshift32)
				So(server.Weights.RiskSize, ShouldEqual, 0.3)
				So(client.Name, ShouldEqual, scoring.PresetClient)
				So(client.Mixer, ShouldEqual, scoring.MixerParallelShift)
				So(client.Weights.RiskSize, ShouldEqual, 0.25)
				So(client.Weights.HealSize, ShouldEqual, 0.65)
			})

			Convey("And both should validate", func() {
				So(server.Validate(), ShouldBeNil)
				So(client.Validate(), ShouldBeNil)
			})
		})

		Convey("When looking up an unknown name", func() {
			_, err := scoring.PresetByName("hospital")

			Convey("Then it should return ErrUnknownPreset", func() {
				So(errors.Is(err, scoring.ErrUnknownPreset), ShouldBeTrue)
			})
		})

		Convey("When a preset has a zero modulus", func() {
			p := scoring.ServerPreset()
			p.Modulus = 0

			Convey("Then validation should fail", func() {
				So(errors.Is(p.Validate(), scoring.ErrInvalidModulus), ShouldBeTrue)
			})
		})

		Convey("When listing names", func() {
			Convey("Then they should be sorted", func() {
				So(scoring.PresetNames(), ShouldResemble, []string{"client", "server"})
			})
		})
	})
}

func TestScorer(t *testing.T) {
	Convey("Given a scorer with a fixed clock", t, func() {
		at := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
		scorer := scoring.NewScorer(scoring.WithClock(func() time.Time { return at }))
		notes := "mild pain"

		Convey("When scoring a payload", func() {
			res := scorer.Score(scoring.FromPayload("AAAA"), &notes)

			Convey("Then the result should carry the clock, scores and explanation", func() {
				So(res.Timestamp.Equal(at), ShouldBeTrue)
				So(res.Scores().OverallHealing, ShouldEqual, 0.55)
				So(res.Explanation.Summary, ShouldEqual, scoring.Summary)
				So(*res.Explanation.Notes, ShouldEqual, "mild pain")
				So(res.Explanation.Factors, ShouldHaveLength, 4)
			})
		})

		Convey("When an invalid preset is supplied", func() {
			bad := scoring.ClientPreset()
			bad.Modulus = 0
			s := scoring.NewScorer(scoring.WithPreset(bad))

			Convey("Then the server preset should remain", func() {
				So(s.Preset().Name, ShouldEqual, scoring.PresetServer)
			})
		})

		Convey("When scoring concurrently", func() {
			var wg sync.WaitGroup
			results := make([]scoring.Result, 32)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = scorer.Score(scoring.FromPayload("AAAA"), nil)
				}(i)
			}
			wg.Wait()

			Convey("Then every result should be identical", func() {
				for _, r := range results {
					So(r.Scores(), ShouldResemble, results[0].Scores())
				}
			})
		})
	})
}

func TestStripDataURL(t *testing.T) {
	Convey("Given a data URL", t, func() {
		Convey("Then the header should be dropped", func() {
			So(scoring.StripDataURL("data:image/png;base64,AAAA"), ShouldEqual, "AAAA")
			So(scoring.StripDataURL("a,b,AAAA"), ShouldEqual, "AAAA")
			So(scoring.StripDataURL("AAAA"), ShouldEqual, "AAAA")
			So(scoring.StripDataURL("AAAA,"), ShouldEqual, "")
		})

		Convey("And stripped and bare payloads should score the same", func() {
			a, da := scoring.Evaluate(scoring.FromPayload(scoring.StripDataURL("data:image/png;base64,AAAA")), scoring.ServerPreset())
			b, db := scoring.Evaluate(scoring.FromPayload("AAAA"), scoring.ServerPreset())
			So(a, ShouldResemble, b)
			So(da, ShouldResemble, db)
		})
	})
}
