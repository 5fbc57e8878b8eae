package mind

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/theapemachine/mind-go/pkg/emotion"
	"github.com/theapemachine/mind-go/pkg/qualia"
)

// Fixed heuristic markers. Interpretation and resonance run independently
// over the same raw text and are not required to agree with each other.
const (
	greetingMarker = "hello"
	queryMarker    = "query"
	errorMarker    = "error"
	failMarker     = "fail"

	defaultSalience = 0.5
)

/*
interpretRawInput classifies raw text into one of four mutually exclusive
interpretation categories, checked in fixed priority order: greeting,
question, failure, then a verbatim data token fallback.
*/
func interpretRawInput(input string) string {
	lowered := strings.ToLower(input)

	switch {
	case strings.Contains(lowered, greetingMarker):
		return "A greeting directed at me."
	case strings.Contains(lowered, queryMarker) || strings.Contains(input, "?"):
		return "An explicit question seeking information."
	case strings.Contains(lowered, errorMarker) || strings.Contains(lowered, failMarker):
		return "A reported malfunction or failure."
	default:
		return fmt.Sprintf("A data token: '%s'.", input)
	}
}

/*
inferResonance maps raw text onto emotional influence. The checks are
cumulative map assignments, so a question mark overwrites the curiosity a
greeting already set (last write wins).
*/
func inferResonance(raw string) map[emotion.Emotion]float64 {
	lowered := strings.ToLower(raw)
	result := make(map[emotion.Emotion]float64)

	if strings.Contains(lowered, greetingMarker) {
		result[emotion.Curiosity] = 0.7
		result[emotion.Awe] = 0.1
	}
	if strings.Contains(raw, "?") {
		result[emotion.Curiosity] = 0.9
	}
	if strings.Contains(lowered, errorMarker) {
		result[emotion.Fear] = 0.6
		result[emotion.Surprise] = 0.4
	}
	if len(result) == 0 {
		result[emotion.Curiosity] = 0.4
	}

	return result
}

// newFrame builds a frame from raw input: interpretation, resonance, and a
// deterministic qualia signature derived from both texts.
func newFrame(input string) Frame {
	interpretation := interpretRawInput(input)
	resonance := inferResonance(input)

	return Frame{
		ID:             uuid.New(),
		Timestamp:      time.Now(),
		RawInput:       input,
		Interpretation: interpretation,
		Resonance:      resonance,
		Signature:      qualia.Generate(input, interpretation, resonance),
		Salience:       defaultSalience,
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
