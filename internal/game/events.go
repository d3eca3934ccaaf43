// internal/game/events.go
package game

import "encoding/json"

// Event is one entry in the closed set of notifications a lobby can publish
// to its websocket subscribers. Clients switch on the "kind" tag, so each
// kind carries its own payload struct rather than a generic map.
type Event interface {
	Kind() string
}

// envelope is the wire framing for every event: {"kind": ..., "value": ...}.
type envelope struct {
	Kind  string `json:"kind"`
	Value Event  `json:"value"`
}

// EncodeEvent serializes an event into its wire framing.
func EncodeEvent(ev Event) ([]byte, error) {
	return json.Marshal(envelope{Kind: ev.Kind(), Value: ev})
}

// UserJoinedEvent announces a new player during the waiting phase.
type UserJoinedEvent struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

func (UserJoinedEvent) Kind() string { return "user_joined" }

// GapClaimedEvent announces that a gap now belongs to somebody. The claimant
// is deliberately not included; guessing who wrote what is the game.
type GapClaimedEvent struct {
	GapID int `json:"gap_id"`
}

func (GapClaimedEvent) Kind() string { return "gap_claimed" }

// GapFilledEvent announces that a gap received content. The value itself is
// withheld until the guessing phase (see Lobby.FilledGaps).
type GapFilledEvent struct {
	GapID int `json:"gap_id"`
}

func (GapFilledEvent) Kind() string { return "gap_filled" }

// ViewChangedEvent announces an admin-driven phase change.
type ViewChangedEvent struct {
	View Phase `json:"view"`
}

func (ViewChangedEvent) Kind() string { return "change_view" }

// StartGuessingEvent announces the automatic fill->guess transition,
// carrying the client-side countdown before guessing opens.
type StartGuessingEvent struct {
	Countdown int `json:"countdown"`
}

func (StartGuessingEvent) Kind() string { return "start_guessing" }

// GuessedEvent announces that a player submitted their guesses.
type GuessedEvent struct {
	Token string `json:"token"`
}

func (GuessedEvent) Kind() string { return "guessed" }

// GuessScoresEvent carries the final per-user scores once every player has
// guessed. Scores are listed in join order, not ranked.
type GuessScoresEvent struct {
	Scores []Score `json:"scores"`
}

func (GuessScoresEvent) Kind() string { return "guess_scores" }
