// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const (
	// authTimeout bounds how long a fresh connection may stall before
	// sending its auth frame.
	authTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

// wsAuthMessage is the single frame a client must send after connecting:
// {"kind": "auth", "token": ...}.
type wsAuthMessage struct {
	Kind  string `json:"kind"`
	Token string `json:"token"`
}

// GameWS upgrades the connection and streams the lobby's events to the
// client. The client authenticates with one auth frame; after that the
// connection is server-push only. The write pump (draining the lobby
// subscription) and the read pump (watching for closure and protocol
// violations) run as sibling goroutines sharing one context — either one
// exiting cancels the other.
func (s *Server) GameWS(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	log := s.Logger.WithFields(logrus.Fields{"code": code, "remote": r.RemoteAddr})

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // adjust in production
	})
	if err != nil {
		log.Warnf("websocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	lob, exists := s.Registry.Get(code)
	if !exists {
		c.Close(InvalidLobbyCodeError, "lobby does not exist")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Authentication handshake. Nothing is subscribed before this
	// succeeds, so an unauthenticated socket never sees lobby events.
	authCtx, authCancel := context.WithTimeout(ctx, authTimeout)
	_, data, err := c.Read(authCtx)
	authCancel()
	if err != nil {
		log.Warnf("auth frame read failed: %v", err)
		return
	}
	var authMsg wsAuthMessage
	if err := json.Unmarshal(data, &authMsg); err != nil || authMsg.Kind != "auth" {
		c.Close(AuthRequiredError, "expected auth message")
		return
	}
	if !lob.HasUser(authMsg.Token) {
		c.Close(UnknownTokenError, "token is not a user of this lobby")
		return
	}

	events, unsubscribe := lob.Notify().Subscribe()
	defer unsubscribe()

	log.WithField("token", authMsg.Token).Info("websocket client authenticated")

	go s.writePump(ctx, cancel, c, events, log)
	s.readPump(ctx, c)
	cancel()

	log.WithField("token", authMsg.Token).Info("websocket client disconnected")
}

// writePump forwards serialized lobby events to the client and pings it
// periodically. Exits when the subscription closes, a write fails, or the
// shared context is cancelled — and cancels the read pump on the way out.
func (s *Server) writePump(ctx context.Context, cancel context.CancelFunc, c *websocket.Conn, events <-chan []byte, log *logrus.Entry) {
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-events:
			if !ok {
				// Lobby closed or this subscriber was dropped for
				// falling behind; rejoin is the recovery path.
				c.Close(websocket.StatusGoingAway, "lobby closed")
				return
			}
			writeCtx, writeCancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(writeCtx, websocket.MessageText, data)
			writeCancel()
			if err != nil {
				log.Warnf("websocket write failed: %v", err)
				return
			}
		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Ping(pingCtx)
			pingCancel()
			if err != nil {
				log.Warnf("websocket ping failed: %v", err)
				return
			}
		}
	}
}

// readPump blocks until the client disconnects or violates the protocol.
// The only frame a client may send is the initial auth message, which is
// consumed before this pump starts; any further data frame terminates the
// connection.
func (s *Server) readPump(ctx context.Context, c *websocket.Conn) {
	for {
		typ, _, err := c.Read(ctx)
		if err != nil {
			return
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			c.Close(websocket.StatusPolicyViolation, "unexpected message after auth")
			return
		}
	}
}
