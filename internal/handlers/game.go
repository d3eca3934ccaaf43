// internal/handlers/game.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/wordweaver-game/wordweaver/internal/game"
)

// Request/response shapes are kept byte-compatible with the existing web
// client, so field names follow its conventions (pre_gaps_text,
// current_gap_text, gap_after, ...).

type userRequest struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

type joinResponse struct {
	Success      bool              `json:"success"`
	PreGapsText  []game.GapPreview `json:"pre_gaps_text"`
	CurrentUsers []game.UserInfo   `json:"current_users"`
}

type claimRequest struct {
	GapID int    `json:"gap_id"`
	Token string `json:"token"`
}

type fillRequest struct {
	GapID   int    `json:"gap_id"`
	Token   string `json:"token"`
	Content string `json:"content"`
}

type filledResponse struct {
	Success bool             `json:"success"`
	Gaps    []game.FilledGap `json:"gaps"`
	Users   []game.UserInfo  `json:"users"`
}

type guessRequest struct {
	Token   string            `json:"token"`
	Guesses []game.GuessEntry `json:"guesses"`
}

type rejoinResponse struct {
	Success        bool             `json:"success"`
	CurrentGapText []game.GapStatus `json:"current_gap_text"`
	View           game.Phase       `json:"view"`
	Users          []game.UserInfo  `json:"users"`
}

type finalScoresResponse struct {
	Success bool         `json:"success"`
	View    game.Phase   `json:"view"`
	Value   []game.Score `json:"value"`
}

// Hello probes whether a lobby code is live.
func (s *Server) Hello(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.lobby(w, r); !ok {
		return
	}
	writeMessage(w, http.StatusOK, true, "Game found")
}

// Join adds a player to a waiting lobby and returns the gap layout plus the
// players already present.
func (s *Server) Join(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobby(w, r)
	if !ok {
		return
	}
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := l.Join(req.Name, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrInvalidPhase):
			writeMessage(w, http.StatusBadRequest, false, "Game can't be joined anymore.")
		case errors.Is(err, game.ErrBroadcast):
			s.Logger.WithField("code", l.Code).Errorf("join broadcast failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, false, "Failed to send user joined message")
		default:
			writeError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, joinResponse{
		Success:      true,
		PreGapsText:  res.Gaps,
		CurrentUsers: res.Others,
	})
}

// Claim assigns a gap to the requesting token.
func (s *Server) Claim(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobby(w, r)
	if !ok {
		return
	}
	var req claimRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := l.Claim(req.GapID, req.Token); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// Fill stores the content for a claimed gap.
func (s *Server) Fill(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobby(w, r)
	if !ok {
		return
	}
	var req fillRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := l.Fill(req.GapID, req.Token, req.Content); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// FilledGaps returns all fill values for the guessing phase.
func (s *Server) FilledGaps(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobby(w, r)
	if !ok {
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		writeMessage(w, http.StatusBadRequest, false, "Token is required")
		return
	}

	state, err := l.FilledGaps(token)
	if err != nil {
		if errors.Is(err, game.ErrInvalidPhase) {
			writeMessage(w, http.StatusBadRequest, false, "Game is not in guessing mode")
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filledResponse{Success: true, Gaps: state.Gaps, Users: state.Users})
}

// Guess records a player's who-wrote-what guesses.
func (s *Server) Guess(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobby(w, r)
	if !ok {
		return
	}
	var req guessRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := l.Guess(req.Token, req.Guesses); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// Rejoin returns the full current state for a reconnecting client, or the
// final scores once the game is ranked.
func (s *Server) Rejoin(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobby(w, r)
	if !ok {
		return
	}
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := l.Rejoin(req.Name, req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	if state.Phase == game.PhaseRanking {
		writeJSON(w, http.StatusOK, finalScoresResponse{
			Success: true,
			View:    state.Phase,
			Value:   state.Scores,
		})
		return
	}
	writeJSON(w, http.StatusOK, rejoinResponse{
		Success:        true,
		CurrentGapText: state.Gaps,
		View:           state.Phase,
		Users:          state.Users,
	})
}
