// internal/handlers/qr.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// JoinQR renders a PNG QR code pointing at the join URL for a lobby, for
// showing on the host's screen so players can scan in.
func (s *Server) JoinQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if _, ok := s.Registry.Get(code); !ok {
		writeMessage(w, http.StatusNotFound, false, "Game not found")
		return
	}

	url := strings.TrimSuffix(s.BaseURL, "/") + "/" + code
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		s.Logger.Errorf("qr encode failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
