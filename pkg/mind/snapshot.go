package mind

import (
	"context"
	"time"

	"github.com/theapemachine/mind-go/pkg/emotion"
)

// SnapshotVersion tags the durable state format.
const SnapshotVersion = 3

/*
Snapshot is the durable image of the full cognitive state. Saving and
reloading a snapshot must reproduce the logical content exactly: id sets,
scalar values, the self-concept, the emotional map, and the cycle count.
*/
type Snapshot struct {
	Version     int                         `json:"version"`
	SavedAt     time.Time                   `json:"saved_at"`
	Frames      []Frame                     `json:"frames"`
	Truths      []Truth                     `json:"truths"`
	Hypotheses  []Hypothesis                `json:"hypotheses"`
	SelfConcept SelfConcept                 `json:"self_concept"`
	Emotions    map[emotion.Emotion]float64 `json:"emotions"`
	CycleCount  int64                       `json:"cycle_count"`
}

/*
ContinuityStore is the pluggable durable storage the engine writes its
snapshots to. Load returns (nil, nil) when no prior state exists, which
the engine treats as a fresh start.
*/
type ContinuityStore interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
}

// snapshotLocked builds a snapshot of the current state. Callers hold the
// state lock; the snapshot shares nothing with the live self-concept, so
// it can be marshaled after the lock is released.
func (m *Mind) snapshotLocked() *Snapshot {
	return &Snapshot{
		Version:     SnapshotVersion,
		SavedAt:     time.Now(),
		Frames:      m.store.frameList(),
		Truths:      m.store.truthList(),
		Hypotheses:  m.store.hypothesisList(),
		SelfConcept: m.cloneSelfLocked(),
		Emotions:    m.matrix.State(),
		CycleCount:  m.cycleCount.Load(),
	}
}

// restoreLocked replaces the in-memory state with a persisted snapshot.
func (m *Mind) restoreLocked(snapshot *Snapshot) {
	m.store = newBeliefStore()
	for _, frame := range snapshot.Frames {
		m.store.frames[frame.ID] = frame
		m.store.frameOrder = append(m.store.frameOrder, frame.ID)
	}
	for _, truth := range snapshot.Truths {
		m.store.addTruth(truth)
	}
	for _, hyp := range snapshot.Hypotheses {
		m.store.addHypothesis(hyp)
	}

	m.self = snapshot.SelfConcept
	m.matrix.Restore(snapshot.Emotions)
	m.cycleCount.Store(snapshot.CycleCount)
}
