package emotion

import (
	"fmt"
	"sort"
	"strings"
)

/*
Emotion enumerates the fixed affective dimensions the agent tracks. The
order returned by All is canonical and must stay stable because qualia
signatures embed the resonance values positionally.
*/
type Emotion string

const (
	Joy       Emotion = "joy"
	Sadness   Emotion = "sadness"
	Fear      Emotion = "fear"
	Anger     Emotion = "anger"
	Surprise  Emotion = "surprise"
	Disgust   Emotion = "disgust"
	Curiosity Emotion = "curiosity"
	Awe       Emotion = "awe"
)

// All returns every emotion in canonical order.
func All() []Emotion {
	return []Emotion{Joy, Sadness, Fear, Anger, Surprise, Disgust, Curiosity, Awe}
}

/*
Matrix holds the agent's current affective state: one intensity in [0,1]
per emotion. Every emotion is present from construction onward, starting
at a neutral 0.5. Matrix is not safe for concurrent use; the owning mind
serializes access under its state lock.
*/
type Matrix struct {
	state map[Emotion]float64
}

// NewMatrix returns a matrix with every emotion at the neutral 0.5.
func NewMatrix() *Matrix {
	state := make(map[Emotion]float64, len(All()))
	for _, e := range All() {
		state[e] = 0.5
	}
	return &Matrix{state: state}
}

/*
Modulate blends an influence map into the current state. For every emotion
present in influence the new intensity is clamped(old + value*weight).
Emotions absent from the influence map are untouched.
*/
func (matrix *Matrix) Modulate(influence map[Emotion]float64, weight float64) {
	for e, value := range influence {
		current, ok := matrix.state[e]
		if !ok {
			current = 0.5
		}
		matrix.state[e] = clamp01(current + value*weight)
	}
}

// Intensity returns the current intensity for one emotion.
func (matrix *Matrix) Intensity(e Emotion) float64 {
	return matrix.state[e]
}

// State returns a copy of the full intensity map.
func (matrix *Matrix) State() map[Emotion]float64 {
	out := make(map[Emotion]float64, len(matrix.state))
	for e, v := range matrix.state {
		out[e] = v
	}
	return out
}

// Restore replaces the current state wholesale, used when reloading a
// persisted snapshot.
func (matrix *Matrix) Restore(state map[Emotion]float64) {
	matrix.state = make(map[Emotion]float64, len(state))
	for e, v := range state {
		matrix.state[e] = v
	}
}

/*
Describe renders the significant (> 0.05) intensities sorted descending,
or "neutral" when nothing registers.
*/
func (matrix *Matrix) Describe() string {
	type entry struct {
		emotion   Emotion
		intensity float64
	}

	significant := make([]entry, 0, len(matrix.state))
	for e, v := range matrix.state {
		if v > 0.05 {
			significant = append(significant, entry{e, v})
		}
	}

	if len(significant) == 0 {
		return "neutral"
	}

	sort.Slice(significant, func(i, j int) bool {
		if significant[i].intensity == significant[j].intensity {
			return significant[i].emotion < significant[j].emotion
		}
		return significant[i].intensity > significant[j].intensity
	})

	parts := make([]string, 0, len(significant))
	for _, s := range significant {
		parts = append(parts, fmt.Sprintf("%s: %.2f", s.emotion, s.intensity))
	}

	return strings.Join(parts, ", ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
