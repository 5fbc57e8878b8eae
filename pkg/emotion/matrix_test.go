package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMatrixDefaults(t *testing.T) {
	matrix := NewMatrix()

	for _, e := range All() {
		assert.Equal(t, 0.5, matrix.Intensity(e), "emotion %s should start neutral", e)
	}
}

func TestModulateBlendsAndClamps(t *testing.T) {
	matrix := NewMatrix()

	matrix.Modulate(map[Emotion]float64{Curiosity: 0.9}, 0.8)
	assert.InDelta(t, 0.5+0.9*0.8, matrix.Intensity(Curiosity), 1e-9)

	// Repeated positive influence must never exceed 1.
	for i := 0; i < 10; i++ {
		matrix.Modulate(map[Emotion]float64{Curiosity: 0.9}, 0.8)
	}
	assert.Equal(t, 1.0, matrix.Intensity(Curiosity))

	// Negative influence must never drop below 0.
	for i := 0; i < 10; i++ {
		matrix.Modulate(map[Emotion]float64{Fear: -0.9}, 0.8)
	}
	assert.Equal(t, 0.0, matrix.Intensity(Fear))
}

func TestModulateLeavesAbsentEmotionsUntouched(t *testing.T) {
	matrix := NewMatrix()

	matrix.Modulate(map[Emotion]float64{Joy: 0.2}, 0.5)

	assert.Equal(t, 0.5, matrix.Intensity(Sadness))
	assert.Equal(t, 0.5, matrix.Intensity(Awe))
}

func TestStateReturnsCopy(t *testing.T) {
	matrix := NewMatrix()

	state := matrix.State()
	state[Joy] = 0.0

	assert.Equal(t, 0.5, matrix.Intensity(Joy))
}

func TestRestoreRoundTrip(t *testing.T) {
	matrix := NewMatrix()
	matrix.Modulate(map[Emotion]float64{Surprise: 0.9, Fear: 0.2}, 0.6)

	saved := matrix.State()

	fresh := NewMatrix()
	fresh.Restore(saved)

	assert.Equal(t, saved, fresh.State())
}

func TestDescribe(t *testing.T) {
	matrix := NewMatrix()
	desc := matrix.Describe()
	assert.Contains(t, desc, "joy: 0.50")

	empty := &Matrix{state: map[Emotion]float64{Joy: 0.01}}
	assert.Equal(t, "neutral", empty.Describe())
}
