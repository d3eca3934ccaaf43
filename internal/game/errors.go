// internal/game/errors.go
package game

import "errors"

// Sentinel errors returned by lobby and registry operations. Handlers map
// these onto HTTP statuses; none of them are fatal to the process.
var (
	// ErrLobbyNotFound indicates the lobby code is not in the registry.
	ErrLobbyNotFound = errors.New("lobby not found")

	// ErrGapNotFound indicates the gap id is out of range for the lobby.
	ErrGapNotFound = errors.New("gap not found")

	// ErrInvalidPhase indicates the operation is not legal in the lobby's
	// current phase (e.g. joining after filling has started).
	ErrInvalidPhase = errors.New("operation not allowed in current phase")

	// ErrAlreadyClaimed indicates another player claimed the gap first.
	ErrAlreadyClaimed = errors.New("gap already claimed")

	// ErrNotClaimed indicates a fill was attempted on an unclaimed gap.
	ErrNotClaimed = errors.New("gap not claimed")

	// ErrWrongClaimant indicates the filling token does not match the
	// token that claimed the gap.
	ErrWrongClaimant = errors.New("gap claimed by another user")

	// ErrUserNotFound indicates the token (or name+token pair) is not a
	// registered user of the lobby.
	ErrUserNotFound = errors.New("user not found")

	// ErrBroadcast indicates an event could not be delivered to any of the
	// lobby's live subscribers. Connected clients may now be desynced, so
	// this is surfaced as a server error rather than swallowed.
	ErrBroadcast = errors.New("failed to broadcast event")
)
