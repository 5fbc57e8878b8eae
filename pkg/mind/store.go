package mind

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/theapemachine/mind-go/pkg/emotion"
)

const (
	// similarityThreshold is the qualia distance under which two frames are
	// considered connected. O(n) against the current frame count per
	// ingestion; acceptable while the store stays small, a scaling limit if
	// it must grow without bound.
	similarityThreshold = 0.45

	// expectationMarker flags hypotheses that predict a response; frames
	// lacking both counter-markers violate them.
	expectationMarker = "expecting"
	responseMarker    = "response"
	greetingResponse  = "Hello"

	violationDecay = 0.5
)

/*
BeliefStore owns the three interlinked maps of the cognitive state: frames,
derived truths, and active hypotheses, plus the insertion order of each so
iteration stays deterministic. The store performs no locking of its own; it
is reachable only through the owning Mind, which serializes ingestion, the
cognitive cycle, and peer merges under a single lock.
*/
type BeliefStore struct {
	frames     map[uuid.UUID]Frame
	frameOrder []uuid.UUID

	truths     map[uuid.UUID]Truth
	truthOrder []uuid.UUID

	hypotheses map[uuid.UUID]Hypothesis
	hypOrder   []uuid.UUID
}

func newBeliefStore() *BeliefStore {
	return &BeliefStore{
		frames:     make(map[uuid.UUID]Frame),
		truths:     make(map[uuid.UUID]Truth),
		hypotheses: make(map[uuid.UUID]Hypothesis),
	}
}

/*
checkViolations tests every active, non-violated hypothesis carrying an
expectation against the incoming frame. A frame that contains neither a
response nor a greeting violates the expectation: the hypothesis is marked
violated, its confidence halves, and the prior confidence accumulates as
surprise which the caller adds to the frame's salience. Runs strictly
before the frame is woven in.
*/
func (store *BeliefStore) checkViolations(frame Frame, matrix *emotion.Matrix) float64 {
	surprise := 0.0

	for _, id := range store.hypOrder {
		hyp := store.hypotheses[id]
		if hyp.Violated {
			continue
		}

		if strings.Contains(hyp.Prediction, expectationMarker) &&
			!strings.Contains(frame.RawInput, responseMarker) &&
			!strings.Contains(frame.RawInput, greetingResponse) {

			surprise += hyp.Confidence
			hyp.Violated = true
			hyp.Confidence *= violationDecay
			store.hypotheses[id] = hyp

			matrix.Modulate(map[emotion.Emotion]float64{
				emotion.Surprise: 0.9,
				emotion.Fear:     0.2,
			}, 0.6)

			log.Warn("hypothesis violated",
				"prediction", hyp.Prediction,
				"received", frame.RawInput,
			)
		}
	}

	return surprise
}

/*
weave inserts a frame into the store: goal-relevant frames gain salience
equal to the goal's priority, then a connection edge is recorded to every
existing frame within the similarity threshold. Returns the frame as
stored.
*/
func (store *BeliefStore) weave(frame Frame, goals []Goal) Frame {
	for _, goal := range goals {
		if token := lastToken(goal.Description); token != "" && strings.Contains(frame.RawInput, token) {
			frame.Salience = clamp01(frame.Salience + goal.Priority)
		}
	}

	for _, id := range store.frameOrder {
		existing := store.frames[id]
		if frame.Signature.Distance(existing.Signature) < similarityThreshold {
			frame.Connections = append(frame.Connections, id)
		}
	}

	store.frames[frame.ID] = frame
	store.frameOrder = append(store.frameOrder, frame.ID)

	return frame
}

/*
focus selects up to max frames with the highest salience. The sort is
stable over insertion order, so ties resolve deterministically.
*/
func (store *BeliefStore) focus(max int) []Frame {
	frames := make([]Frame, 0, len(store.frameOrder))
	for _, id := range store.frameOrder {
		frames = append(frames, store.frames[id])
	}

	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Salience > frames[j].Salience
	})

	if len(frames) > max {
		frames = frames[:max]
	}

	return frames
}

// hasPrinciple reports whether any stored truth carries this exact
// emergent-principle text.
func (store *BeliefStore) hasPrinciple(principle string) bool {
	for _, truth := range store.truths {
		if truth.EmergentPrinciple == principle {
			return true
		}
	}
	return false
}

func (store *BeliefStore) addTruth(truth Truth) {
	store.truths[truth.ID] = truth
	store.truthOrder = append(store.truthOrder, truth.ID)
}

func (store *BeliefStore) addHypothesis(hyp Hypothesis) {
	store.hypotheses[hyp.ID] = hyp
	store.hypOrder = append(store.hypOrder, hyp.ID)
}

/*
merge reconciles remote truths against the local set by principle-text
equality. A matching local truth is replaced in place by one whose
supporting-frame set is the union of both and whose confidence is
min(1, local + remote*trustWeight); novel truths are inserted unchanged
under their own id. Applying the same set twice never duplicates entries
and confidence only grows toward the 1.0 cap. Returns the count of newly
inserted truths.
*/
func (store *BeliefStore) merge(incoming []Truth, trustWeight float64) int {
	added := 0

	for _, remote := range incoming {
		localID, found := store.findByPrinciple(remote.EmergentPrinciple)

		if found {
			local := store.truths[localID]
			confidence := local.Confidence + remote.Confidence*trustWeight
			if confidence > 1.0 {
				confidence = 1.0
			}
			store.truths[localID] = Truth{
				ID:                local.ID,
				CoreConcept:       local.CoreConcept,
				SupportingFrames:  unionIDs(local.SupportingFrames, remote.SupportingFrames),
				Confidence:        confidence,
				EmergentPrinciple: local.EmergentPrinciple,
			}
			continue
		}

		store.addTruth(remote)
		added++
	}

	return added
}

func (store *BeliefStore) findByPrinciple(principle string) (uuid.UUID, bool) {
	for _, id := range store.truthOrder {
		if store.truths[id].EmergentPrinciple == principle {
			return id, true
		}
	}
	return uuid.UUID{}, false
}

func (store *BeliefStore) frameList() []Frame {
	out := make([]Frame, 0, len(store.frameOrder))
	for _, id := range store.frameOrder {
		out = append(out, store.frames[id])
	}
	return out
}

func (store *BeliefStore) truthList() []Truth {
	out := make([]Truth, 0, len(store.truthOrder))
	for _, id := range store.truthOrder {
		out = append(out, store.truths[id])
	}
	return out
}

func (store *BeliefStore) hypothesisList() []Hypothesis {
	out := make([]Hypothesis, 0, len(store.hypOrder))
	for _, id := range store.hypOrder {
		out = append(out, store.hypotheses[id])
	}
	return out
}
