package conformance

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/okian/woundcare/pkg/logger"
)

// Every fourth payload is sent as a data URL.
const dataURLEvery = 4

// randomInt returns a uniform int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// generateCases creates payloads of varied length, including ones longer than
// the seeding prefix, and computes their expected scores locally.
func generateCases(ctx context.Context, cfg *Config, preset scoring.Preset) ([]Case, error) {
	logger.Get().Info(ctx, "generating payloads", logger.Int("payloads", cfg.Payloads))

	cases := make([]Case, 0, cfg.Payloads)
	for i := 0; i < cfg.Payloads; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}

		raw := make([]byte, 1+randomInt(cfg.MaxBytes))
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("failed to generate payload %d: %w", i, err)
		}
		b64 := base64.StdEncoding.EncodeToString(raw)
		raw64, derived := scoring.Evaluate(scoring.FromPayload(b64), preset)

		c := Case{
			ID:       uuid.NewString(),
			Payload:  b64,
			Length:   len(b64),
			Expected: scoring.ScoresOf(raw64, derived),
		}
		if i%dataURLEvery == dataURLEvery-1 {
			c.Payload = "data:image/png;base64," + b64
			c.DataURL = true
		}
		cases = append(cases, c)
	}
	return cases, nil
}
