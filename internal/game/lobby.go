// internal/game/lobby.go
package game

import (
	"fmt"
	"sync"
)

// User is one joined player. Identity is the caller-supplied opaque token;
// nothing is verified. Users are never removed during a session.
type User struct {
	Name           string
	Token          string
	CorrectGuesses int
	Guessed        bool
}

// UserInfo is the roster entry shared with clients.
type UserInfo struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

// Score is one entry of the final score list.
type Score struct {
	Name  string `json:"name"`
	Token string `json:"token"`
	Score int    `json:"score"`
}

// GapPreview is the fill-state-free view of a gap handed out on join.
type GapPreview struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	GapAfter bool   `json:"gap_after"`
}

// FilledGap pairs a trailing-blank gap with its current fill value. Who
// filled it is never included.
type FilledGap struct {
	GapID int    `json:"gap_id"`
	Value string `json:"value"`
}

// GapStatus is the per-gap resume view returned by Rejoin. Value is only
// populated once the fill phase is over.
type GapStatus struct {
	ID       int     `json:"id"`
	Text     string  `json:"text"`
	GapAfter bool    `json:"gap_after"`
	Claimed  bool    `json:"claimed"`
	Filled   bool    `json:"filled"`
	Value    *string `json:"gap_value,omitempty"`
	Mine     bool    `json:"filled_by_current_user"`
}

// GuessEntry is one submitted guess: which token the guesser believes
// filled the gap.
type GuessEntry struct {
	GapID int    `json:"gap_id"`
	Token string `json:"token"`
}

// JoinResult is returned to a freshly joined player.
type JoinResult struct {
	Gaps   []GapPreview
	Others []UserInfo
}

// GuessingState is returned by FilledGaps once guessing has started.
type GuessingState struct {
	Gaps  []FilledGap
	Users []UserInfo
}

// ResumeState lets a reconnecting client rebuild its view without replaying
// the websocket history. When Phase is ranking only Scores is populated.
type ResumeState struct {
	Phase  Phase
	Gaps   []GapStatus
	Users  []UserInfo
	Scores []Score
}

// Lobby is one active play session: an ordered user roster plus the game
// state. The roster has its own lock; gaps and phase are locked inside
// GameState. Lock order is phase, then roster or gap; no lock is ever
// taken across two lobbies.
type Lobby struct {
	Code string

	mu    sync.RWMutex // guards users
	users []*User
	game  *GameState
}

func newLobby(code string, segments []string) *Lobby {
	return &Lobby{
		Code: code,
		game: newGameState(segments),
	}
}

// Game returns the lobby's game state.
func (l *Lobby) Game() *GameState { return l.game }

// Notify returns the lobby's broadcast channel.
func (l *Lobby) Notify() *Broadcaster { return l.game.notify }

// HasUser reports whether token belongs to a registered user. Used by the
// websocket handshake.
func (l *Lobby) HasUser(token string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.findUser(token) != nil
}

// findUser scans the roster by token. Caller holds l.mu.
func (l *Lobby) findUser(token string) *User {
	for _, u := range l.users {
		if u.Token == token {
			return u
		}
	}
	return nil
}

// roster copies the user list into client form. Caller holds l.mu.
func (l *Lobby) roster() []UserInfo {
	users := make([]UserInfo, 0, len(l.users))
	for _, u := range l.users {
		users = append(users, UserInfo{Name: u.Name, Token: u.Token})
	}
	return users
}

// scores builds the final score list in join order. Caller holds l.mu.
func (l *Lobby) scores() []Score {
	scores := make([]Score, 0, len(l.users))
	for _, u := range l.users {
		scores = append(scores, Score{Name: u.Name, Token: u.Token, Score: u.CorrectGuesses})
	}
	return scores
}

// FinalScores returns the current score list in join order.
func (l *Lobby) FinalScores() []Score {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.scores()
}

// Join registers a new player while the lobby is still waiting. On success
// the new player is announced to every connected client and the caller gets
// the gap layout (stripped of fill state) plus the other joined users.
//
// Zero websocket subscribers is normal here (the joining client usually
// connects its socket afterwards), but if subscribers exist and none of
// them received the announcement, the fan-out is broken and the caller is
// told so.
func (l *Lobby) Join(name, token string) (*JoinResult, error) {
	// The roster append and the announcement run under the phase read
	// lock, so a join can never slip in after the fill transition.
	var others []UserInfo
	err := l.game.inPhase(PhaseWaiting, func() error {
		l.mu.Lock()
		l.users = append(l.users, &User{Name: name, Token: token})
		others = make([]UserInfo, 0, len(l.users)-1)
		for _, u := range l.users {
			if u.Token != token {
				others = append(others, UserInfo{Name: u.Name, Token: u.Token})
			}
		}
		l.mu.Unlock()

		if subs := l.game.notify.Subscribers(); subs > 0 {
			delivered, err := l.game.notify.Publish(UserJoinedEvent{Name: name, Token: token})
			if err != nil {
				return fmt.Errorf("%w: %v", ErrBroadcast, err)
			}
			if delivered == 0 {
				return ErrBroadcast
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	gaps := make([]GapPreview, 0, len(l.game.gaps))
	for _, g := range l.game.gaps {
		snap := g.Snapshot()
		gaps = append(gaps, GapPreview{ID: snap.ID, Text: snap.Text, GapAfter: snap.GapAfter})
	}
	return &JoinResult{Gaps: gaps, Others: others}, nil
}

// Claim permanently assigns a gap to token. The check-and-set runs under
// the targeted gap's own lock, so two concurrent claimants on the same gap
// cannot both succeed, while claims on different gaps proceed in parallel.
func (l *Lobby) Claim(gapID int, token string) error {
	err := l.game.inPhase(PhaseFill, func() error {
		g, err := l.game.Gap(gapID)
		if err != nil {
			return err
		}
		return g.Claim(token)
	})
	if err != nil {
		return err
	}
	l.game.notify.Publish(GapClaimedEvent{GapID: gapID}) //nolint:errcheck // best-effort
	return nil
}

// Fill stores content for a gap previously claimed by token and announces
// the fill (id only; the value stays secret until guessing). If this was
// the last outstanding gap, the lobby advances to the guess phase and the
// start_guessing event fires exactly once.
func (l *Lobby) Fill(gapID int, token, content string) error {
	err := l.game.inPhase(PhaseFill, func() error {
		g, err := l.game.Gap(gapID)
		if err != nil {
			return err
		}
		return g.Fill(token, content)
	})
	if err != nil {
		return err
	}
	l.game.notify.Publish(GapFilledEvent{GapID: gapID}) //nolint:errcheck // best-effort

	if l.game.maybeStartGuessing() {
		l.game.notify.Publish(StartGuessingEvent{Countdown: GuessCountdown}) //nolint:errcheck
	}
	return nil
}

// FilledGaps returns every trailing-blank gap with its fill value, plus the
// full roster. Only legal during the guess phase, and only for registered
// users. Claimants are never revealed; that is what players guess.
func (l *Lobby) FilledGaps(token string) (*GuessingState, error) {
	if l.game.Phase() != PhaseGuess {
		return nil, ErrInvalidPhase
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.findUser(token) == nil {
		return nil, ErrUserNotFound
	}

	gaps := make([]FilledGap, 0, len(l.game.gaps))
	for _, g := range l.game.gaps {
		snap := g.Snapshot()
		if !snap.GapAfter {
			continue
		}
		gaps = append(gaps, FilledGap{GapID: snap.ID, Value: snap.Value})
	}
	return &GuessingState{Gaps: gaps, Users: l.roster()}, nil
}

// Guess records a player's guesses about who filled which gap. A guess
// counts iff the gap has a trailing blank, is claimed, and the claimant
// matches. When the last user submits, the lobby advances to ranking and
// the final scores are broadcast in join order.
func (l *Lobby) Guess(token string, guesses []GuessEntry) error {
	if l.game.Phase() != PhaseGuess {
		return ErrInvalidPhase
	}

	correct := 0
	for _, entry := range guesses {
		g, err := l.game.Gap(entry.GapID)
		if err != nil {
			continue // unknown gap ids simply never count
		}
		snap := g.Snapshot()
		if snap.GapAfter && snap.ClaimedBy != "" && snap.ClaimedBy == entry.Token {
			correct++
		}
	}

	l.mu.Lock()
	u := l.findUser(token)
	if u == nil {
		l.mu.Unlock()
		return ErrUserNotFound
	}
	u.CorrectGuesses = correct
	u.Guessed = true

	allGuessed := true
	for _, other := range l.users {
		if !other.Guessed {
			allGuessed = false
			break
		}
	}
	var finalScores []Score
	if allGuessed {
		finalScores = l.scores()
	}
	l.mu.Unlock()

	l.game.notify.Publish(GuessedEvent{Token: token}) //nolint:errcheck // best-effort

	// finishGuessing returns true for a single caller, so the score
	// broadcast cannot fire twice under concurrent last-guessers.
	if allGuessed && l.game.finishGuessing() {
		l.game.notify.Publish(GuessScoresEvent{Scores: finalScores}) //nolint:errcheck
	}
	return nil
}

// Rejoin resynchronizes a dropped client. Once the lobby is ranked it
// returns the stable final scores to anyone, repeatedly; before that it
// requires a registered name+token pair and returns the full current gap
// state, roster and phase. Fill values are shared only once the fill phase
// is over.
func (l *Lobby) Rejoin(name, token string) (*ResumeState, error) {
	phase := l.game.Phase()

	l.mu.RLock()
	defer l.mu.RUnlock()

	if phase == PhaseRanking {
		return &ResumeState{Phase: phase, Scores: l.scores()}, nil
	}

	known := false
	for _, u := range l.users {
		if u.Token == token && u.Name == name {
			known = true
			break
		}
	}
	if !known {
		return nil, ErrUserNotFound
	}

	shareFillings := phase != PhaseFill
	gaps := make([]GapStatus, 0, len(l.game.gaps))
	for _, g := range l.game.gaps {
		snap := g.Snapshot()
		status := GapStatus{
			ID:       snap.ID,
			Text:     snap.Text,
			GapAfter: snap.GapAfter,
			Claimed:  snap.ClaimedBy != "",
			Filled:   snap.Value != "",
			Mine:     snap.ClaimedBy != "" && snap.ClaimedBy == token,
		}
		if shareFillings {
			value := snap.Value
			status.Value = &value
		}
		gaps = append(gaps, status)
	}
	return &ResumeState{Phase: phase, Gaps: gaps, Users: l.roster()}, nil
}

// BeginFill is the admin action moving the lobby from waiting to fill,
// announced as a view change.
func (l *Lobby) BeginFill() error {
	if err := l.game.beginFill(); err != nil {
		return err
	}
	l.game.notify.Publish(ViewChangedEvent{View: PhaseFill}) //nolint:errcheck // best-effort
	return nil
}
