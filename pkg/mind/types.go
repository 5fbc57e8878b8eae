package mind

import (
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/mind-go/pkg/emotion"
	"github.com/theapemachine/mind-go/pkg/qualia"
)

/*
Frame is one ingested observation: the raw text, how the agent interpreted
it, what it made the agent feel, and a similarity fingerprint. Connections
point at pre-existing frames within the similarity threshold; only the
newly inserted frame records the edge.
*/
type Frame struct {
	ID             uuid.UUID                   `json:"id"`
	Timestamp      time.Time                   `json:"timestamp"`
	RawInput       string                      `json:"rawInput"`
	Interpretation string                      `json:"subjectiveInterpretation"`
	Resonance      map[emotion.Emotion]float64 `json:"emotionalResonance"`
	Signature      qualia.Signature            `json:"qualiaSignature"`
	Connections    []uuid.UUID                 `json:"connections"`
	Salience       float64                     `json:"salience"`
}

/*
Truth is a generalized belief derived from multiple frames sharing a
detected pattern. Identity for merge purposes is the emergent principle
text, not the id: two truths with the same principle are the same belief.
*/
type Truth struct {
	ID                uuid.UUID   `json:"id"`
	CoreConcept       string      `json:"coreConcept"`
	SupportingFrames  []uuid.UUID `json:"supportingFrames"`
	Confidence        float64     `json:"confidence"`
	EmergentPrinciple string      `json:"emergentPrinciple"`
}

/*
Hypothesis is a falsifiable prediction attached to a truth. Once violated
it never resets, and its confidence only ever decays.
*/
type Hypothesis struct {
	ID                uuid.UUID `json:"id"`
	Prediction        string    `json:"prediction"`
	SupportingTruthID uuid.UUID `json:"supportingTruthID"`
	Confidence        float64   `json:"confidence"`
	Violated          bool      `json:"isViolated"`
}

// GoalStatus is declared for data-model completeness; the engine never
// transitions a goal away from active (product intent undecided).
type GoalStatus string

const (
	GoalActive   GoalStatus = "active"
	GoalAchieved GoalStatus = "achieved"
	GoalFailed   GoalStatus = "failed"
)

// Goal is a motivational target with a clamped [0,1] priority.
type Goal struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	Priority    float64    `json:"priority"`
	Status      GoalStatus `json:"status"`
}

// NewGoal creates an active goal with a fresh id.
func NewGoal(description string, priority float64) Goal {
	return Goal{
		ID:          uuid.New(),
		Description: description,
		Priority:    clamp01(priority),
		Status:      GoalActive,
	}
}

// Action is one decided volitional act: what to do, with what content, and
// why the deliberation chose it.
type Action struct {
	Intent        string `json:"intent"`
	Payload       string `json:"payload"`
	Justification string `json:"justification"`
}

/*
SelfConcept is the agent's model of itself. The understanding-of-existence
narrative is append-only: cycles add lines, nothing ever truncates it.
*/
type SelfConcept struct {
	Identity                 string   `json:"identity"`
	CoreValues               []string `json:"coreValues"`
	PerceivedLimitations     []string `json:"perceivedLimitations"`
	UnderstandingOfExistence string   `json:"understandingOfExistence"`
	ActiveGoals              []Goal   `json:"activeGoals"`
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

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// unionIDs returns a ∪ b, preserving a's order and appending b's novel ids.
func unionIDs(a, b []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(a)+len(b))
	out = append(out, a...)
	for _, id := range b {
		if !containsID(out, id) {
			out = append(out, id)
		}
	}
	return out
}
