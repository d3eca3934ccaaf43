// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom websocket close codes, more specific than the standard set.
const (
	InvalidLobbyCodeError websocket.StatusCode = 3003 // lobby code in the WS URL does not exist
	AuthRequiredError     websocket.StatusCode = 3004 // first frame was not a valid auth message
	UnknownTokenError     websocket.StatusCode = 3005 // auth token is not a user of this lobby
)
