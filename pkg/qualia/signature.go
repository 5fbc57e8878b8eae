package qualia

import (
	"math"

	"github.com/theapemachine/mind-go/pkg/emotion"
)

const (
	pseudoRandomCount = 8

	// Knuth's MMIX linear-congruential constants. The generator is written
	// out explicitly instead of using math/rand so identical inputs produce
	// identical signatures on every platform and every run.
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1442695040888963407
)

/*
Signature is a fixed-length numeric fingerprint of an observation, used to
link frames by similarity. It is a pure value type.
*/
type Signature struct {
	Vector []float64 `json:"vector"`
}

/*
Distance returns the Euclidean norm of the elementwise difference between
two signatures. Signatures of differing dimensionality are infinitely far
apart, which keeps them from ever being linked.
*/
func (signature Signature) Distance(other Signature) float64 {
	if len(signature.Vector) != len(other.Vector) {
		return math.Inf(1)
	}

	sum := 0.0
	for i, v := range signature.Vector {
		d := v - other.Vector[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}

/*
Generate derives a deterministic signature from the raw input, its
interpretation, and the inferred emotional resonance. The first eight
components are pseudo-random floats in [0,1) seeded by a byte checksum of
the two texts; the remainder is the resonance value for every emotion in
canonical order (zero when the emotion did not resonate).
*/
func Generate(raw, interpretation string, resonance map[emotion.Emotion]float64) Signature {
	seed := checksum(raw)
	seed ^= checksum(interpretation) << 1

	vector := make([]float64, 0, pseudoRandomCount+len(emotion.All()))
	for i := 0; i < pseudoRandomCount; i++ {
		seed = seed*lcgMultiplier + lcgIncrement
		vector = append(vector, float64(seed%1000)/1000.0)
	}

	for _, e := range emotion.All() {
		vector = append(vector, resonance[e])
	}

	return Signature{Vector: vector}
}

func checksum(s string) uint64 {
	var sum uint64
	for _, b := range []byte(s) {
		sum += uint64(b)
	}
	return sum
}
