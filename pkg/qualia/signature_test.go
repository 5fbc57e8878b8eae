package qualia

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/theapemachine/mind-go/pkg/emotion"
)

func TestDistanceSymmetry(t *testing.T) {
	a := Signature{Vector: []float64{0.1, 0.5, 0.9}}
	b := Signature{Vector: []float64{0.4, 0.2, 0.7}}

	assert.Equal(t, a.Distance(b), b.Distance(a))
}

func TestDistanceToSelfIsZero(t *testing.T) {
	a := Signature{Vector: []float64{0.3, 0.3, 0.3}}
	assert.Equal(t, 0.0, a.Distance(a))
}

func TestDistanceAcrossDimensionsIsInfinite(t *testing.T) {
	a := Signature{Vector: []float64{0.1, 0.2}}
	b := Signature{Vector: []float64{0.1, 0.2, 0.3}}

	assert.True(t, math.IsInf(a.Distance(b), 1))
}

func TestGenerateIsDeterministic(t *testing.T) {
	resonance := map[emotion.Emotion]float64{emotion.Curiosity: 0.7, emotion.Awe: 0.1}

	first := Generate("Query received: 'Hello?'", "A greeting directed at me.", resonance)
	second := Generate("Query received: 'Hello?'", "A greeting directed at me.", resonance)

	assert.Equal(t, first, second)
	assert.Equal(t, 0.0, first.Distance(second))
}

func TestGenerateVectorShape(t *testing.T) {
	sig := Generate("anything", "A data token: 'anything'.", nil)

	assert.Len(t, sig.Vector, pseudoRandomCount+len(emotion.All()))

	for i := 0; i < pseudoRandomCount; i++ {
		assert.GreaterOrEqual(t, sig.Vector[i], 0.0)
		assert.Less(t, sig.Vector[i], 1.0)
	}

	// No resonance provided, so every emotion slot is zero.
	for i := pseudoRandomCount; i < len(sig.Vector); i++ {
		assert.Equal(t, 0.0, sig.Vector[i])
	}
}

func TestGenerateDiffersForDifferentInput(t *testing.T) {
	a := Generate("Data stream detected: 2,3,5,7,11,13", "A data token.", nil)
	b := Generate("System boot sequence complete.", "A data token.", nil)

	assert.NotEqual(t, a.Vector, b.Vector)
}
