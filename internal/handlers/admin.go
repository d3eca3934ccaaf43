// internal/handlers/admin.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wordweaver-game/wordweaver/internal/auth"
	"github.com/wordweaver-game/wordweaver/internal/templates"
)

// templateRequest mirrors the admin template payload: the name plus the
// ordered text segments the gaps are cut from.
type templateRequest struct {
	Name     string   `json:"name"`
	Segments []string `json:"text_section"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// nameRequest carries a single name: a template name or a lobby code,
// depending on the endpoint.
type nameRequest struct {
	Name string `json:"name"`
}

// AdminLogin exchanges the configured admin password for a session JWT.
func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.AdminPasswordHash == "" {
		writeMessage(w, http.StatusServiceUnavailable, false, "admin login not configured")
		return
	}

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ok, err := auth.VerifyPassword(req.Password, s.AdminPasswordHash)
	if err != nil {
		s.Logger.Warnf("admin password hash unusable: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "login failed")
		return
	}
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "wrong password")
		return
	}

	token, err := s.Signer.CreateJWT()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, false, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token})
}

// RequireAdmin guards the admin routes with a Bearer token check.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			writeMessage(w, http.StatusUnauthorized, false, "missing bearer token")
			return
		}
		if err := s.Signer.Verify(token); err != nil {
			writeMessage(w, http.StatusUnauthorized, false, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewTemplate stores a game template. An existing name is a conflict unless
// ?force=true, which replaces it.
func (s *Server) NewTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || len(req.Segments) == 0 {
		writeMessage(w, http.StatusBadRequest, false, "name and text_section are required")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	tpl := &templates.Template{Name: req.Name, Segments: req.Segments}
	if err := s.Templates.Create(r.Context(), tpl, force); err != nil {
		if errors.Is(err, templates.ErrExists) {
			writeMessage(w, http.StatusConflict, false, "Game already exists")
			return
		}
		s.Logger.Errorf("template insert failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to insert game")
		return
	}
	writeMessage(w, http.StatusOK, true, "Game saved")
}

// AvailableTemplates lists every stored template.
func (s *Server) AvailableTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := s.Templates.List(r.Context())
	if err != nil {
		s.Logger.Errorf("template list failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to get games")
		return
	}
	if tpls == nil {
		tpls = []templates.Template{}
	}
	writeJSON(w, http.StatusOK, tpls)
}

// StartLobby loads a template by name and opens a new lobby for it under a
// fresh short code.
func (s *Server) StartLobby(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tpl, err := s.Templates.Get(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, false, "No game found")
			return
		}
		s.Logger.Errorf("template fetch failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to load game")
		return
	}

	l, err := s.Registry.Create(tpl.Segments)
	if err != nil {
		s.Logger.Errorf("lobby create failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to start game")
		return
	}
	s.Logger.WithField("code", l.Code).Info("lobby started")
	writeJSON(w, http.StatusOK, nameRequest{Name: l.Code})
}

// ActiveLobbies lists the codes of all running lobbies.
func (s *Server) ActiveLobbies(w http.ResponseWriter, r *http.Request) {
	codes := s.Registry.Codes()
	out := make([]nameRequest, 0, len(codes))
	for _, code := range codes {
		out = append(out, nameRequest{Name: code})
	}
	writeJSON(w, http.StatusOK, out)
}

// CloseLobby removes a lobby, dropping its websocket subscribers.
func (s *Server) CloseLobby(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !s.Registry.Remove(req.Name) {
		writeMessage(w, http.StatusNotFound, false, "Game not found")
		return
	}
	s.Logger.WithField("code", req.Name).Info("lobby closed")
	writeOK(w)
}

// StartFill moves a waiting lobby into the fill phase.
func (s *Server) StartFill(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	l, ok := s.Registry.Get(req.Name)
	if !ok {
		writeMessage(w, http.StatusNotFound, false, "Game not found")
		return
	}
	if err := l.BeginFill(); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}
