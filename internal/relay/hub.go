package relay

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Hub tracks which connections are subscribed to which board rooms. Rooms
// exist only as in-memory state for the lifetime of the process; clients
// rejoin on reconnect, so nothing here needs to survive a restart.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
	log   *logrus.Entry
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
		log:   logrus.WithField("component", "hub"),
	}
}

// Join subscribes the client to a board room. Joining a room the client is
// already in is a no-op, so a double join never duplicates delivery.
func (h *Hub) Join(client *Client, boardID string) {
	if boardID == "" {
		return
	}
	h.mu.Lock()
	if _, ok := h.rooms[boardID]; !ok {
		h.rooms[boardID] = make(map[*Client]bool)
	}
	h.rooms[boardID][client] = true
	h.mu.Unlock()
	h.log.WithField("board_id", boardID).Debug("Client joined room")
}

// Leave unsubscribes the client from a board room.
func (h *Hub) Leave(client *Client, boardID string) {
	h.mu.Lock()
	if clients, ok := h.rooms[boardID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, boardID)
		}
	}
	h.mu.Unlock()
}

// Remove drops the client from every room. Called on disconnect; other room
// members are not notified. The send channel is closed while still holding
// the lock: Broadcast delivers under the read lock, so a close can never
// race a delivery.
func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for boardID, clients := range h.rooms {
		if clients[client] {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.rooms, boardID)
			}
		}
	}
	client.closeSend()
}

// Broadcast sends the message to every connection currently in the board's
// room. Delivery is fire-and-forget: a client whose send queue is full is
// skipped rather than awaited, so one slow connection cannot stall the rest
// of the room. Delivery happens under the read lock because queueing never
// blocks, and it keeps Remove from closing a channel mid-fan-out.
func (h *Hub) Broadcast(boardID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[boardID] {
		if !client.deliver(message) {
			h.log.WithField("board_id", boardID).Warn("Client send queue full, dropping event")
		}
	}
}
