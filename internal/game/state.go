// internal/game/state.go
package game

import "sync"

// Phase is the lobby's lifecycle stage. Transitions are forward-only:
// waiting -> fill -> guess -> ranking.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseFill    Phase = "fill"
	PhaseGuess   Phase = "guess"
	PhaseRanking Phase = "ranking"
)

// GuessCountdown is the client-side countdown, in seconds, announced with
// the start_guessing event.
const GuessCountdown = 10

// GameState holds the ordered gaps for one lobby, the current phase, and
// the lobby's broadcast channel. The gap slice is fixed at creation; only
// the phase and the individual gaps mutate. The phase field has its own
// lock so that transition check-and-set is atomic and a transition
// broadcast can never fire twice.
type GameState struct {
	mu     sync.RWMutex // guards phase only
	phase  Phase
	gaps   []*Gap
	notify *Broadcaster
}

// newGameState builds the gap sequence from template segments. Every
// segment is followed by a blank except the last; this holds for the
// single-segment boundary case too.
func newGameState(segments []string) *GameState {
	gaps := make([]*Gap, len(segments))
	for i, text := range segments {
		gaps[i] = &Gap{
			id:       i,
			text:     text,
			gapAfter: i != len(segments)-1,
		}
	}
	return &GameState{
		phase:  PhaseWaiting,
		gaps:   gaps,
		notify: newBroadcaster(),
	}
}

// Phase returns the current phase.
func (s *GameState) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Gap returns the gap with the given id, or ErrGapNotFound.
func (s *GameState) Gap(id int) (*Gap, error) {
	if id < 0 || id >= len(s.gaps) {
		return nil, ErrGapNotFound
	}
	return s.gaps[id], nil
}

// Gaps returns the lobby's gap sequence. The slice itself is immutable.
func (s *GameState) Gaps() []*Gap { return s.gaps }

// Notify returns the lobby's broadcast channel.
func (s *GameState) Notify() *Broadcaster { return s.notify }

// inPhase runs fn while holding the phase read lock, after checking that
// the current phase is want. The phase cannot transition while fn runs, so
// a mutation guarded by inPhase can never land on the wrong side of a
// transition.
func (s *GameState) inPhase(want Phase, fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase != want {
		return ErrInvalidPhase
	}
	return fn()
}

// beginFill moves waiting -> fill. Any other starting phase is an error;
// phases never revert.
func (s *GameState) beginFill() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseWaiting {
		return ErrInvalidPhase
	}
	s.phase = PhaseFill
	return nil
}

// maybeStartGuessing moves fill -> guess iff every trailing-blank gap is
// claimed and non-empty. It returns true for exactly one caller: the phase
// write happens under the lock, so concurrent last-fillers cannot both see
// the transition.
func (s *GameState) maybeStartGuessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseFill {
		return false
	}
	for _, g := range s.gaps {
		if !g.readyForGuessing() {
			return false
		}
	}
	s.phase = PhaseGuess
	return true
}

// finishGuessing moves guess -> ranking, returning true for the single
// caller that performed the transition.
func (s *GameState) finishGuessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseGuess {
		return false
	}
	s.phase = PhaseRanking
	return true
}
