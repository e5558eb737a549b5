package relay_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"noteboard/internal/relay"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const relayTestSecret = "relay-test-secret"

func setupRelay(t *testing.T) (*httptest.Server, string) {
	s := relay.NewServer(relayTestSecret)
	server := httptest.NewServer(s.Engine)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	return server, wsURL
}

// dialAndJoin connects a subscriber and joins it to a board room.
func dialAndJoin(t *testing.T, wsURL, boardID string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	err = conn.WriteJSON(map[string]string{"type": "join-board", "boardId": boardID})
	require.NoError(t, err)

	// Give the server a moment to process the join before emitting.
	time.Sleep(100 * time.Millisecond)
	return conn
}

func emit(t *testing.T, serverURL, secret, body string) *http.Response {
	req, err := http.NewRequest("POST", serverURL+"/emit", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("x-relay-secret", secret)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

// assertNoMessage verifies that nothing arrives within a short window.
func assertNoMessage(t *testing.T, conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestRelay_Health(t *testing.T) {
	server, _ := setupRelay(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRelay_UnknownRoute(t *testing.T) {
	server, _ := setupRelay(t)

	resp, err := http.Get(server.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRelay_Emit_MissingSecret(t *testing.T) {
	server, _ := setupRelay(t)

	resp := emit(t, server.URL, "", `{"boardId":"board-42","event":"note.created","payload":{}}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRelay_Emit_WrongSecret(t *testing.T) {
	server, _ := setupRelay(t)

	resp := emit(t, server.URL, "wrong", `{"boardId":"board-42","event":"note.created","payload":{}}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRelay_Emit_InvalidJSON(t *testing.T) {
	server, _ := setupRelay(t)

	resp := emit(t, server.URL, relayTestSecret, `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRelay_Emit_MissingFields(t *testing.T) {
	server, _ := setupRelay(t)

	tests := []string{
		`{"event":"note.created","payload":{}}`,
		`{"boardId":"board-42","payload":{}}`,
		`{"boardId":"","event":"","payload":{}}`,
	}
	for _, body := range tests {
		resp := emit(t, server.URL, relayTestSecret, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestRelay_FanOut(t *testing.T) {
	server, wsURL := setupRelay(t)

	subscriber := dialAndJoin(t, wsURL, "board-42")

	// A connected client that never joined the room.
	bystander, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer bystander.Close()

	resp := emit(t, server.URL, relayTestSecret, `{"boardId":"board-42","event":"note.created","payload":{"id":"n1"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	msg := readMessage(t, subscriber)
	assert.JSONEq(t, `"note.created"`, string(msg["event"]))
	assert.JSONEq(t, `{"id":"n1"}`, string(msg["payload"]))

	assertNoMessage(t, bystander)
}

func TestRelay_JoinIsIdempotent(t *testing.T) {
	server, wsURL := setupRelay(t)

	conn := dialAndJoin(t, wsURL, "board-42")
	// Joining the same room again must not double deliveries.
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "join-board", "boardId": "board-42"}))
	time.Sleep(100 * time.Millisecond)

	emit(t, server.URL, relayTestSecret, `{"boardId":"board-42","event":"note.updated","payload":{"id":"n1"}}`)

	readMessage(t, conn)
	assertNoMessage(t, conn)
}

func TestRelay_LeaveStopsDelivery(t *testing.T) {
	server, wsURL := setupRelay(t)

	conn := dialAndJoin(t, wsURL, "board-42")
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "leave-board", "boardId": "board-42"}))
	time.Sleep(100 * time.Millisecond)

	emit(t, server.URL, relayTestSecret, `{"boardId":"board-42","event":"note.updated","payload":{"id":"n1"}}`)

	assertNoMessage(t, conn)
}

func TestRelay_RoomsAreIsolated(t *testing.T) {
	server, wsURL := setupRelay(t)

	subscriberA := dialAndJoin(t, wsURL, "board-a")
	subscriberB := dialAndJoin(t, wsURL, "board-b")

	emit(t, server.URL, relayTestSecret, `{"boardId":"board-a","event":"note.deleted","payload":{"id":"n1"}}`)

	msg := readMessage(t, subscriberA)
	assert.JSONEq(t, `"note.deleted"`, string(msg["event"]))
	assertNoMessage(t, subscriberB)
}

func TestRelay_MalformedClientMessageIgnored(t *testing.T) {
	server, wsURL := setupRelay(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Garbage, unknown types and non-string boardIds are all dropped
	// without closing the connection.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"unknown","boardId":"board-42"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"join-board","boardId":123}`)))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "join-board", "boardId": "board-42"}))
	time.Sleep(100 * time.Millisecond)

	emit(t, server.URL, relayTestSecret, `{"boardId":"board-42","event":"note.created","payload":{"id":"n1"}}`)

	// The valid join after the garbage still works.
	msg := readMessage(t, conn)
	assert.JSONEq(t, `"note.created"`, string(msg["event"]))
}

func TestRelay_EmitWithoutSubscribersSucceeds(t *testing.T) {
	server, _ := setupRelay(t)

	resp := emit(t, server.URL, relayTestSecret, `{"boardId":"empty-board","event":"note.created","payload":{}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
