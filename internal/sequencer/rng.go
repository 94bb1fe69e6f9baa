package sequencer

import (
	"hash/fnv"
	"math"
	"math/rand"

	"plldrift/internal/param"
)

// deriveSeed computes the per-bar seed: a monotonic bar counter XORed with
// a hash of the beat-probability parameters (spec.md §4.1 "prepare_bar"),
// so identical parameters yield identical sequences until edits occur (P3).
func deriveSeed(barIndex int64, snap param.Snapshot) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, d := range param.AllDivisions {
		n := param.DivisionLen(d)
		for i := 0; i < n; i++ {
			bits := math.Float64bits(snap.BeatProbability(d, i))
			for b := 0; b < 8; b++ {
				buf[b] = byte(bits >> (8 * b))
			}
			h.Write(buf[:])
		}
	}
	return barIndex ^ int64(h.Sum64())
}

// newRNG returns a deterministic generator seeded per deriveSeed. Using
// math/rand's classic Source keeps prepare_bar reproducible across Go
// versions (math/rand/v2's algorithms are not specified to be stable,
// which would break P3/P7 across releases).
func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// rollInt draws a uniform integer in [0, n). n<=0 returns 0, matching the
// spec's "Draw an integer roll ∈ [0, R)" where R can legitimately be 0.
func rollInt(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}

// uniform draws a uniform float64 in [0, hi).
func uniform(rng *rand.Rand, hi float64) float64 {
	if hi <= 0 {
		return 0
	}
	return rng.Float64() * hi
}
