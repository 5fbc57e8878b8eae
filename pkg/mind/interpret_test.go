package mind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/theapemachine/mind-go/pkg/emotion"
)

func TestInterpretRawInput(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Query received: 'Hello?'", "A greeting directed at me."},
		{"what is happening?", "An explicit question seeking information."},
		{"query the database", "An explicit question seeking information."},
		{"disk error detected", "A reported malfunction or failure."},
		{"job failed", "A reported malfunction or failure."},
		{"just noise", "A data token: 'just noise'."},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, interpretRawInput(c.input), "input %q", c.input)
	}
}

func TestInferResonance(t *testing.T) {
	// Greeting alone.
	r := inferResonance("hello there")
	assert.Equal(t, 0.7, r[emotion.Curiosity])
	assert.Equal(t, 0.1, r[emotion.Awe])

	// A question mark overwrites the greeting's curiosity (last write wins).
	r = inferResonance("Hello?")
	assert.Equal(t, 0.9, r[emotion.Curiosity])
	assert.Equal(t, 0.1, r[emotion.Awe])

	// Errors raise fear and surprise.
	r = inferResonance("fatal error")
	assert.Equal(t, 0.6, r[emotion.Fear])
	assert.Equal(t, 0.4, r[emotion.Surprise])

	// Nothing matched: default low curiosity.
	r = inferResonance("plain data")
	assert.Equal(t, map[emotion.Emotion]float64{emotion.Curiosity: 0.4}, r)
}

func TestNewFrameIsDeterministicPerInput(t *testing.T) {
	a := newFrame("Data stream detected: 2,3,5,7,11,13")
	b := newFrame("Data stream detected: 2,3,5,7,11,13")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Signature, b.Signature)
	assert.Equal(t, defaultSalience, a.Salience)
}

func TestTokenHelpers(t *testing.T) {
	assert.Equal(t, "Understand", firstToken("Understand 'Hello' greeting pattern"))
	assert.Equal(t, "pattern", lastToken("Understand 'Hello' greeting pattern"))
	assert.Equal(t, "", firstToken("   "))
	assert.Equal(t, "", lastToken(""))
	assert.True(t, containsDigit("abc3"))
	assert.False(t, containsDigit("abc"))
}
