// internal/handlers/ws_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialWS connects to the lobby event stream and completes the auth handshake.
func dialWS(t *testing.T, ctx context.Context, baseURL, code, token string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(baseURL, "http://", "ws://", 1) + "/websocket/" + code + "/com"
	c, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })

	auth, err := json.Marshal(wsAuthMessage{Kind: "auth", Token: token})
	require.NoError(t, err)
	require.NoError(t, c.Write(ctx, websocket.MessageText, auth))
	return c
}

func TestGameWSUnknownLobby(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(ts.URL, "http://", "ws://", 1) + "/websocket/NOSUCH/com"
	c, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)

	_, _, err = c.Read(ctx)
	var closeErr websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, InvalidLobbyCodeError, closeErr.Code)
}

func TestGameWSRejectsUnknownToken(t *testing.T) {
	_, ts := newTestServer(t)
	_, code := startLobby(t, ts, []string{"a", "b"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dialWS(t, ctx, ts.URL, code, "tok-stranger")
	_, _, err := c.Read(ctx)
	var closeErr websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, UnknownTokenError, closeErr.Code)
}

func TestGameWSRequiresAuthFrame(t *testing.T) {
	_, ts := newTestServer(t)
	_, code := startLobby(t, ts, []string{"a", "b"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(ts.URL, "http://", "ws://", 1) + "/websocket/" + code + "/com"
	c, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(`{"kind":"join"}`)))

	_, _, err = c.Read(ctx)
	var closeErr websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, AuthRequiredError, closeErr.Code)
}

// TestGameWSStreamsEvents joins a player, attaches a socket, and checks that
// lobby mutations arrive as framed events.
func TestGameWSStreamsEvents(t *testing.T) {
	s, ts := newTestServer(t)
	token, code := startLobby(t, ts, []string{"a", "b"})

	status := doJSON(t, http.MethodPost, ts.URL+"/api/"+code+"/join", "",
		userRequest{Name: "alice", Token: "tok-a"}, nil)
	require.Equal(t, http.StatusOK, status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dialWS(t, ctx, ts.URL, code, "tok-a")

	// Wait until the handshake's subscription is live before mutating.
	lob, ok := s.Registry.Get(code)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		return lob.Notify().Subscribers() > 0
	}, 2*time.Second, 10*time.Millisecond)

	status = doJSON(t, http.MethodPost, ts.URL+"/api/admin/startfill", token, nameRequest{Name: code}, nil)
	require.Equal(t, http.StatusOK, status)
	status = doJSON(t, http.MethodPost, ts.URL+"/api/"+code+"/claim", "",
		claimRequest{GapID: 0, Token: "tok-a"}, nil)
	require.Equal(t, http.StatusOK, status)

	var got []string
	for len(got) < 2 {
		_, data, err := c.Read(ctx)
		require.NoError(t, err)
		var env eventEnvelope
		require.NoError(t, json.Unmarshal(data, &env))
		got = append(got, env.Kind)
	}
	assert.Equal(t, []string{"change_view", "gap_claimed"}, got)
}

func TestGameWSClosedOnLobbyRemoval(t *testing.T) {
	s, ts := newTestServer(t)
	token, code := startLobby(t, ts, []string{"a", "b"})

	status := doJSON(t, http.MethodPost, ts.URL+"/api/"+code+"/join", "",
		userRequest{Name: "alice", Token: "tok-a"}, nil)
	require.Equal(t, http.StatusOK, status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dialWS(t, ctx, ts.URL, code, "tok-a")

	lob, ok := s.Registry.Get(code)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		return lob.Notify().Subscribers() > 0
	}, 2*time.Second, 10*time.Millisecond)

	status = doJSON(t, http.MethodPost, ts.URL+"/api/admin/close", token, nameRequest{Name: code}, nil)
	require.Equal(t, http.StatusOK, status)

	_, _, err := c.Read(ctx)
	var closeErr websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.StatusGoingAway, closeErr.Code)
}

// eventEnvelope mirrors the wire framing of lobby events for assertions.
type eventEnvelope struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}
