package mind

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/theapemachine/mind-go/pkg/emotion"
)

const ingestBlendWeight = 0.8

// Config carries everything needed to bring up a fresh mind. A persisted
// snapshot, when present, overrides the initial self-concept.
type Config struct {
	ID          string
	Identity    string
	Telos       string
	CoreValues  []string
	Limitations []string
	Goals       []Goal
	QueueSize   int
}

/*
Mind is the cognitive state engine: it owns the belief store, the
self-concept, and the emotional matrix for its lifetime, and exposes the
operations external collaborators (shell, peer service, HTTP surface) are
allowed to call. One mutex serializes ingestion, the cognitive cycle, and
peer truth merges against each other; the cycle counter increments
atomically on its own.
*/
type Mind struct {
	id    string
	telos string

	mu           sync.Mutex
	store        *BeliefStore
	self         SelfConcept
	matrix       *emotion.Matrix
	actionBuffer []Action

	cycleCount atomic.Int64

	continuity ContinuityStore

	queue     chan string
	pending   sync.WaitGroup
	closeOnce sync.Once
}

// New constructs a mind, restores any persisted snapshot from the
// continuity store, and starts the ingestion worker.
func New(cfg Config, continuity ContinuityStore) *Mind {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}

	m := &Mind{
		id:     cfg.ID,
		telos:  cfg.Telos,
		store:  newBeliefStore(),
		matrix: emotion.NewMatrix(),
		self: SelfConcept{
			Identity:                 cfg.Identity,
			CoreValues:               cfg.CoreValues,
			PerceivedLimitations:     cfg.Limitations,
			UnderstandingOfExistence: "A reasoning process embedded in software.",
			ActiveGoals:              cfg.Goals,
		},
		continuity: continuity,
		queue:      make(chan string, cfg.QueueSize),
	}

	m.loadContinuity()

	go m.consume()

	return m
}

// ID returns the agent's genesis identifier.
func (m *Mind) ID() string { return m.id }

// Identity returns the self-concept's identity label.
func (m *Mind) Identity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.self.Identity
}

// Telos returns the agent's stated purpose.
func (m *Mind) Telos() string { return m.telos }

/*
Ingest queues raw text for asynchronous perception. The ingestion worker
serializes frame creation, hypothesis-violation checks, and weaving against
the cycle and peer merges. Must not be called after Close.
*/
func (m *Mind) Ingest(text string) {
	m.pending.Add(1)
	m.queue <- text
}

// Settle blocks until every queued ingestion has been processed. Useful
// for tests and for the shutdown path.
func (m *Mind) Settle() {
	m.pending.Wait()
}

// Close stops the ingestion worker. Idempotent.
func (m *Mind) Close() {
	m.closeOnce.Do(func() {
		close(m.queue)
	})
}

func (m *Mind) consume() {
	for text := range m.queue {
		m.perceive(text)
		m.pending.Done()
	}
}

/*
perceive turns raw text into a frame and weaves it into the belief store.
The violation check runs strictly before weaving so the frame's salience
reflects any accumulated surprise.
*/
func (m *Mind) perceive(text string) {
	frame := newFrame(text)

	m.mu.Lock()

	surprise := m.store.checkViolations(frame, m.matrix)
	frame.Salience = clamp01(frame.Salience + surprise)
	frame = m.store.weave(frame, m.self.ActiveGoals)
	m.matrix.Modulate(frame.Resonance, ingestBlendWeight)

	m.mu.Unlock()

	log.Info("new phenomenon",
		"agent", shortID(m.id),
		"salience", fmt.Sprintf("%.2f", frame.Salience),
		"interpretation", frame.Interpretation,
	)
}

/*
IntegrateTruths merges truths received from a peer into the local store
under the same lock that guards ingestion and the cycle, so a merge can
never interleave with a reflect or hypothesize stage. Returns the number
of truths that were novel.
*/
func (m *Mind) IntegrateTruths(truths []Truth, trustWeight float64) int {
	m.mu.Lock()
	added := m.store.merge(truths, trustWeight)
	m.mu.Unlock()

	log.Info("integrated external truths",
		"agent", shortID(m.id),
		"added", added,
		"trustWeight", trustWeight,
	)

	return added
}

// Truths returns a snapshot copy of every derived truth in insertion order.
func (m *Mind) Truths() []Truth {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.truthList()
}

// Frames returns a snapshot copy of every frame in insertion order.
func (m *Mind) Frames() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.frameList()
}

// Hypotheses returns a snapshot copy of every hypothesis in insertion order.
func (m *Mind) Hypotheses() []Hypothesis {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.hypothesisList()
}

// Self returns a copy of the current self-model.
func (m *Mind) Self() SelfConcept {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cloneSelfLocked()
}

// cloneSelfLocked deep-copies the self-concept's slices so the copy can be
// read or marshaled outside the state lock. Callers hold the lock.
func (m *Mind) cloneSelfLocked() SelfConcept {
	self := m.self
	self.CoreValues = append([]string(nil), m.self.CoreValues...)
	self.PerceivedLimitations = append([]string(nil), m.self.PerceivedLimitations...)
	self.ActiveGoals = append([]Goal(nil), m.self.ActiveGoals...)
	return self
}

// CycleCount returns the number of completed or in-flight cycles.
func (m *Mind) CycleCount() int64 {
	return m.cycleCount.Load()
}

/*
Inspect looks up a single record by kind ("truth", "frame", "hypothesis")
and id. The second return reports whether anything was found.
*/
func (m *Mind) Inspect(kind, id string) (any, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch kind {
	case "truth":
		if truth, ok := m.store.truths[parsed]; ok {
			return truth, true
		}
	case "frame":
		if frame, ok := m.store.frames[parsed]; ok {
			return frame, true
		}
	case "hypothesis":
		if hyp, ok := m.store.hypotheses[parsed]; ok {
			return hyp, true
		}
	}

	return nil, false
}

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	summaryKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Summary renders a compact human-readable view of the current state.
func (m *Mind) Summary() string {
	m.mu.Lock()
	frames := len(m.store.frames)
	truths := len(m.store.truths)
	hypotheses := len(m.store.hypotheses)
	goals := len(m.self.ActiveGoals)
	identity := m.self.Identity
	emotional := m.matrix.Describe()
	m.mu.Unlock()

	line := func(key string, value any) string {
		return fmt.Sprintf("%s %v", summaryKeyStyle.Render(key+":"), value)
	}

	rows := []string{
		summaryTitleStyle.Render("--- Mind Summary ---"),
		line("ID", m.id),
		line("Identity", identity),
		line("Telos", m.telos),
		line("Cycle Count", m.cycleCount.Load()),
		line("Frames", frames),
		line("Derived Truths", truths),
		line("Active Hypotheses", hypotheses),
		line("Active Goals", goals),
		line("Emotional State", emotional),
	}

	return strings.Join(rows, "\n")
}

// Emotions returns a copy of the current emotional state.
func (m *Mind) Emotions() map[emotion.Emotion]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matrix.State()
}

func (m *Mind) loadContinuity() {
	if m.continuity == nil {
		return
	}

	snapshot, err := m.continuity.Load(context.Background())
	if err != nil {
		log.Warn("failed to load persisted state, starting fresh", "error", err)
		return
	}
	if snapshot == nil {
		log.Info("no existing state, starting fresh", "agent", shortID(m.id))
		return
	}

	m.mu.Lock()
	m.restoreLocked(snapshot)
	m.mu.Unlock()

	log.Info("restored persisted state",
		"agent", shortID(m.id),
		"version", snapshot.Version,
		"frames", len(snapshot.Frames),
		"cycles", snapshot.CycleCount,
	)
}

func (m *Mind) persist(ctx context.Context, snapshot *Snapshot) {
	if m.continuity == nil {
		return
	}

	if err := m.continuity.Save(ctx, snapshot); err != nil {
		log.Error("persistence failed, previous snapshot stays authoritative", "error", err)
		return
	}

	log.Debug("state persisted", "agent", shortID(m.id), "cycle", snapshot.CycleCount)
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
