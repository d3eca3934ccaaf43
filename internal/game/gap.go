// internal/game/gap.go
package game

import "sync"

// MaxFillLen is the maximum stored length of a fill, in runes. Longer
// submissions are silently truncated on write.
const MaxFillLen = 140

// Gap is one text segment of the template, optionally followed by a blank
// that a player can claim and fill. Each gap carries its own mutex so that
// claims and fills on different gaps never contend with each other; the
// claim check-and-set and the fill ownership check both run entirely under
// that lock.
type Gap struct {
	mu sync.Mutex

	id        int
	text      string
	gapAfter  bool
	value     string
	claimedBy string // player token; empty until claimed, then permanent
}

// GapSnapshot is a consistent copy of one gap's mutable state.
type GapSnapshot struct {
	ID        int
	Text      string
	GapAfter  bool
	Value     string
	ClaimedBy string
}

// ID returns the gap's ordinal position, stable for the lobby's lifetime.
func (g *Gap) ID() int { return g.id }

// Claim assigns the gap to token. Exactly one concurrent claimant can
// succeed; everyone else gets ErrAlreadyClaimed. A claim is permanent.
func (g *Gap) Claim(token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.claimedBy != "" {
		return ErrAlreadyClaimed
	}
	g.claimedBy = token
	return nil
}

// Fill stores content for the gap, truncated to MaxFillLen runes. Only the
// current claimant may fill.
func (g *Gap) Fill(token, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.claimedBy == "" {
		return ErrNotClaimed
	}
	if g.claimedBy != token {
		return ErrWrongClaimant
	}
	if runes := []rune(content); len(runes) > MaxFillLen {
		content = string(runes[:MaxFillLen])
	}
	g.value = content
	return nil
}

// Snapshot copies the gap's current state under its lock.
func (g *Gap) Snapshot() GapSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GapSnapshot{
		ID:        g.id,
		Text:      g.text,
		GapAfter:  g.gapAfter,
		Value:     g.value,
		ClaimedBy: g.claimedBy,
	}
}

// readyForGuessing reports whether this gap no longer blocks the fill phase:
// either it has no trailing blank, or it is claimed and non-empty.
func (g *Gap) readyForGuessing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.gapAfter || (g.claimedBy != "" && g.value != "")
}
