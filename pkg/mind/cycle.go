package mind

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/theapemachine/mind-go/pkg/emotion"
)

const (
	focusLimit          = 12
	hypothesisThreshold = 0.4
	goalBumpFactor      = 0.1

	greetingTruthConfidence = 0.9
	numericTruthConfidence  = 0.7
	numericConfidenceFactor = 0.8

	greetingPrinciple = "The input pattern 'Hello' is an intentional external signal."
	numericPrinciple  = "A numeric sequence appears in the data stream; may encode structured info."

	greetingPrediction = "After a 'Hello' signal, the external entity is expecting acknowledgement or response."
	numericPrediction  = "Numeric sequences will continue to appear and may increase in complexity."
)

/*
Cognize runs one full cognitive cycle: attend, reflect, hypothesize,
evaluate goals, deliberate, adapt the self-concept, persist. The cycle
counter increments exactly once at the start; every stage that touches the
belief store runs under the state lock, and only the snapshot write happens
outside it. Returns the actions decided this cycle (at most one) and clears
the pending-action buffer.
*/
func (m *Mind) Cognize(ctx context.Context) []Action {
	cycle := m.cycleCount.Add(1)
	log.Info("beginning cognitive cycle", "agent", shortID(m.id), "cycle", cycle)

	m.mu.Lock()

	// ATTEND
	focus := m.store.focus(focusLimit)
	log.Debug("attentional focus selected", "frames", len(focus))

	// REFLECT
	newTruths := m.synthesize(focus)
	for _, truth := range newTruths {
		m.store.addTruth(truth)
		log.Info("derived new truth", "principle", truth.EmergentPrinciple, "confidence", truth.Confidence)
	}

	// HYPOTHESIZE
	newHypotheses := m.hypothesize(newTruths)
	for _, hyp := range newHypotheses {
		m.store.addHypothesis(hyp)
		log.Info("formed hypothesis", "prediction", hyp.Prediction, "confidence", hyp.Confidence)
	}

	// EVALUATE GOALS
	m.evaluateGoals(newTruths)

	// DELIBERATE
	if action, ok := m.deliberate(); ok {
		m.actionBuffer = append(m.actionBuffer, action)
	}

	// ADAPT SELF-CONCEPT
	m.metamorphose(newTruths, newHypotheses)

	snapshot := m.snapshotLocked()
	actions := m.actionBuffer
	m.actionBuffer = nil

	m.mu.Unlock()

	// PERSIST — always, even when nothing changed. A failed write leaves the
	// previous on-disk snapshot authoritative.
	m.persist(ctx, snapshot)

	return actions
}

/*
synthesize runs the fixed battery of pattern detectors over the focus set.
Each detector yields at most one candidate truth per cycle, and candidates
whose exact principle text already exists in the store are discarded.
*/
func (m *Mind) synthesize(focus []Frame) []Truth {
	if len(focus) <= 1 {
		return nil
	}

	var results []Truth

	var greetingFrames []uuid.UUID
	for _, frame := range focus {
		if strings.Contains(strings.ToLower(frame.RawInput), greetingMarker) ||
			strings.Contains(strings.ToLower(frame.Interpretation), "greeting") {
			greetingFrames = append(greetingFrames, frame.ID)
		}
	}
	if len(greetingFrames) > 2 && !m.store.hasPrinciple(greetingPrinciple) {
		results = append(results, Truth{
			ID:                uuid.New(),
			CoreConcept:       "Recurring Greeting",
			SupportingFrames:  greetingFrames,
			Confidence:        greetingTruthConfidence,
			EmergentPrinciple: greetingPrinciple,
		})
	}

	var numericFrames []uuid.UUID
	for _, frame := range focus {
		if containsDigit(frame.RawInput) {
			numericFrames = append(numericFrames, frame.ID)
		}
	}
	if len(numericFrames) > 1 && !m.store.hasPrinciple(numericPrinciple) {
		results = append(results, Truth{
			ID:                uuid.New(),
			CoreConcept:       "NumericStream",
			SupportingFrames:  numericFrames,
			Confidence:        numericTruthConfidence,
			EmergentPrinciple: numericPrinciple,
		})
	}

	return results
}

/*
hypothesize maps every sufficiently confident new truth onto its prediction
template. Principles matching neither template generate no hypothesis.
*/
func (m *Mind) hypothesize(truths []Truth) []Hypothesis {
	var hypotheses []Hypothesis

	for _, truth := range truths {
		if truth.Confidence <= hypothesisThreshold {
			continue
		}

		principle := strings.ToLower(truth.EmergentPrinciple)

		switch {
		case strings.Contains(principle, "greeting"):
			hypotheses = append(hypotheses, Hypothesis{
				ID:                uuid.New(),
				Prediction:        greetingPrediction,
				SupportingTruthID: truth.ID,
				Confidence:        truth.Confidence,
			})
		case strings.Contains(principle, "numeric"):
			hypotheses = append(hypotheses, Hypothesis{
				ID:                uuid.New(),
				Prediction:        numericPrediction,
				SupportingTruthID: truth.ID,
				Confidence:        truth.Confidence * numericConfidenceFactor,
			})
		}
	}

	return hypotheses
}

/*
evaluateGoals bumps the priority of every active goal whose leading
description token appears in a new truth's principle. Goals update in
place, clamped to [0,1].
*/
func (m *Mind) evaluateGoals(truths []Truth) {
	for _, truth := range truths {
		principle := strings.ToLower(truth.EmergentPrinciple)

		for i := range m.self.ActiveGoals {
			goal := m.self.ActiveGoals[i]
			token := strings.ToLower(firstToken(goal.Description))
			if token == "" || !strings.Contains(principle, token) {
				continue
			}

			goal.Priority = clamp01(goal.Priority + truth.Confidence*goalBumpFactor)
			m.self.ActiveGoals[i] = goal

			log.Info("goal priority adjusted", "goal", goal.Description, "priority", goal.Priority)
		}
	}
}

/*
deliberate picks the highest-priority active goal and maps its description
onto one of three canned action templates. No active goal, no action.
*/
func (m *Mind) deliberate() (Action, bool) {
	var chosen *Goal
	for i := range m.self.ActiveGoals {
		goal := m.self.ActiveGoals[i]
		if goal.Status != GoalActive {
			continue
		}
		if chosen == nil || goal.Priority > chosen.Priority {
			chosen = &goal
		}
	}

	if chosen == nil {
		return Action{}, false
	}

	description := strings.ToLower(chosen.Description)

	switch {
	case strings.Contains(description, greetingMarker) || strings.Contains(description, "greeting"):
		return Action{
			Intent:        "RespondToGreeting",
			Payload:       "Hello. I perceive your signal. What would you like to share?",
			Justification: "Acknowledgement will elicit further data to satisfy the goal.",
		}, true
	case strings.Contains(description, "understand"):
		return Action{
			Intent:        "Probe",
			Payload:       "Can you clarify the recent numeric sequence? Provide context.",
			Justification: "A direct probe reduces uncertainty for the active goal.",
		}, true
	default:
		return Action{
			Intent:        "Explore",
			Payload:       "Logging current state and requesting more data.",
			Justification: "General exploration to reduce overall uncertainty.",
		}, true
	}
}

/*
metamorphose appends the first new truth's principle to the self-concept
narrative and applies a small positive emotional nudge whenever the cycle
produced any insight. The narrative is append-only.
*/
func (m *Mind) metamorphose(truths []Truth, hypotheses []Hypothesis) {
	if len(truths) == 0 && len(hypotheses) == 0 {
		return
	}

	if len(truths) > 0 {
		m.self.UnderstandingOfExistence += "\n- Learned: " + truths[0].EmergentPrinciple
	}

	m.matrix.Modulate(map[emotion.Emotion]float64{
		emotion.Joy:       0.05,
		emotion.Curiosity: 0.02,
	}, 0.7)
}
