package rating

import (
	"math"

	"github.com/okian/gridelo/internal/domain/model"
)

// Default engine configuration constants. The original scheme keeps one
// global K rather than scaling it by position or margin.
const (
	DefaultBaseline         = 1500.0
	DefaultKFactor          = 32.0
	DefaultQualifyingWeight = 0.3
	DefaultRaceWeight       = 0.7

	logisticBase  = 10.0
	logisticScale = 400.0
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithKFactor sets the fixed K constant.
func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.k = k
		}
	}
}

// WithBaseline sets the initial rating for new entities.
func WithBaseline(baseline float64) Option {
	return func(e *Engine) {
		if baseline > 0 {
			e.baseline = baseline
		}
	}
}

// WithWeights sets the qualifying/race blend for the global dimension.
func WithWeights(qualifying, race float64) Option {
	return func(e *Engine) {
		if qualifying > 0 && race > 0 {
			e.weights = Weights{Qualifying: qualifying, Race: race}
		}
	}
}

// Engine applies the pairwise ELO update formula. It holds no rating
// state of its own: every mutation goes through the Store passed to
// Apply, so replaying the same ordered pair sequence from a fresh store
// reproduces bit-identical trajectories.
type Engine struct {
	k        float64
	baseline float64
	weights  Weights
}

// NewEngine constructs an engine with default constants.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		k:        DefaultKFactor,
		baseline: DefaultBaseline,
		weights:  Weights{Qualifying: DefaultQualifyingWeight, Race: DefaultRaceWeight},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewStore creates a rating store matching the engine's baseline and
// blend weights.
func (e *Engine) NewStore() *Store {
	return NewStore(e.baseline, e.weights)
}

// KFactor returns the configured K constant.
func (e *Engine) KFactor() float64 { return e.k }

// Baseline returns the configured initial rating.
func (e *Engine) Baseline() float64 { return e.baseline }

// Expected returns the logistic expectation that a rating of ra beats a
// rating of rb: 1 / (1 + 10^((rb-ra)/400)).
func (e *Engine) Expected(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(logisticBase, (rb-ra)/logisticScale))
}

// Update describes one applied pairwise update, for logging and audit.
type Update struct {
	Session  model.Session
	AID, BID string
	ABefore  float64
	AAfter   float64
	BBefore  float64
	BAfter   float64
}

// Apply updates the session dimension and the derived global dimension
// for both entities of a pair, atomically with respect to the next pair
// in sequence. It returns false when the outcome carries no signal, in
// which case neither rating nor counters change. Both entities are
// initialized to the baseline regardless, so unpaired appearances still
// materialize state.
func (e *Engine) Apply(store *Store, session model.Session, aID, bID string, outcome model.Outcome) (Update, bool) {
	a := store.Ensure(aID)
	b := store.Ensure(bID)
	if outcome == model.OutcomeNoContest {
		return Update{}, false
	}

	var scoreA float64
	switch outcome {
	case model.OutcomeAWins:
		scoreA = 1
	case model.OutcomeBWins:
		scoreA = 0
	case model.OutcomeDraw:
		scoreA = 0.5
	}

	ra, rb := dimension(a, session), dimension(b, session)
	expectedA := e.Expected(*ra, *rb)

	up := Update{Session: session, AID: aID, BID: bID, ABefore: *ra, BBefore: *rb}

	// Zero-sum by construction: B's delta is the exact negation of A's.
	delta := e.k * (scoreA - expectedA)
	*ra += delta
	*rb -= delta
	up.AAfter, up.BAfter = *ra, *rb

	store.blend(a)
	store.blend(b)
	countMatchup(a, session)
	countMatchup(b, session)
	return up, true
}

// Touch initializes baseline state for an entity without comparing it.
// Single-car entries stay at the baseline by explicit decision, not as
// an implicit gap.
func (e *Engine) Touch(store *Store, id string) {
	store.Ensure(id)
}

func dimension(st *State, session model.Session) *float64 {
	if session == model.SessionQualifying {
		return &st.Qualifying
	}
	return &st.Race
}

func countMatchup(st *State, session model.Session) {
	if session == model.SessionQualifying {
		st.QualifyingMatchups++
	} else {
		st.RaceMatchups++
	}
}
