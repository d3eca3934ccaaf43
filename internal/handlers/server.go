// internal/handlers/server.go

// Package handlers exposes the lobby engine over HTTP and websockets:
// an admin API for templates and lobby lifecycle, the player-facing game
// API, and the per-lobby event stream.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/wordweaver-game/wordweaver/internal/auth"
	"github.com/wordweaver-game/wordweaver/internal/game"
	"github.com/wordweaver-game/wordweaver/internal/middleware"
	"github.com/wordweaver-game/wordweaver/internal/templates"
)

// Server bundles everything the handlers need. It is constructed once in
// main and owns no locks of its own; all shared state lives behind the
// registry and the template store.
type Server struct {
	Logger    *logrus.Logger
	Registry  *game.Registry
	Templates templates.Store
	Signer    *auth.Signer

	// AdminPasswordHash is the argon2id-encoded admin password. Empty
	// disables admin login entirely.
	AdminPasswordHash string

	// BaseURL is the public origin used to build join links for QR codes.
	BaseURL string
}

// Routes assembles the chi router for the whole service.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(s.Logger))

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", s.AdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAdmin)
			r.Post("/new", s.NewTemplate)
			r.Get("/available", s.AvailableTemplates)
			r.Post("/start", s.StartLobby)
			r.Get("/active", s.ActiveLobbies)
			r.Post("/close", s.CloseLobby)
			r.Post("/startfill", s.StartFill)
			r.Get("/qr/{code}", s.JoinQR)
		})
	})

	r.Route("/api/{code}", func(r chi.Router) {
		r.Get("/hello", s.Hello)
		r.Post("/join", s.Join)
		r.Post("/rejoin", s.Rejoin)
		r.Post("/claim", s.Claim)
		r.Post("/fill", s.Fill)
		r.Get("/filled", s.FilledGaps)
		r.Post("/guess", s.Guess)
	})

	r.Get("/websocket/{code}/com", s.GameWS)

	return r
}

// baseResponse is the uniform success/failure body shared by most
// endpoints.
type baseResponse struct {
	Success bool    `json:"success"`
	Message *string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, baseResponse{Success: true})
}

func writeMessage(w http.ResponseWriter, status int, success bool, msg string) {
	writeJSON(w, status, baseResponse{Success: success, Message: &msg})
}

// writeError maps an engine error onto the HTTP surface.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrLobbyNotFound),
		errors.Is(err, game.ErrGapNotFound),
		errors.Is(err, game.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInvalidPhase),
		errors.Is(err, game.ErrAlreadyClaimed),
		errors.Is(err, game.ErrNotClaimed),
		errors.Is(err, game.ErrWrongClaimant):
		status = http.StatusBadRequest
	}
	writeMessage(w, status, false, err.Error())
}

// lobby resolves the {code} route param against the registry, writing the
// 404 response itself when absent.
func (s *Server) lobby(w http.ResponseWriter, r *http.Request) (*game.Lobby, bool) {
	code := chi.URLParam(r, "code")
	l, ok := s.Registry.Get(code)
	if !ok {
		writeMessage(w, http.StatusNotFound, false, "Game not found")
		return nil, false
	}
	return l, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "invalid request body")
		return false
	}
	return true
}
