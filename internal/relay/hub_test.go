package relay

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_JoinAndBroadcast(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil)

	hub.Join(client, "board-42")
	hub.Broadcast("board-42", []byte("hello"))

	select {
	case msg := <-client.send:
		assert.Equal(t, []byte("hello"), msg)
	default:
		t.Fatal("expected a queued message")
	}
}

func TestHub_JoinEmptyBoardIgnored(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil)

	hub.Join(client, "")
	hub.Broadcast("", []byte("hello"))

	select {
	case <-client.send:
		t.Fatal("client must not be joined to an empty room id")
	default:
	}
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil)

	hub.Join(client, "board-42")
	hub.Leave(client, "board-42")
	hub.Broadcast("board-42", []byte("hello"))

	select {
	case <-client.send:
		t.Fatal("left client must not receive broadcasts")
	default:
	}
}

func TestHub_RemoveDropsAllRoomsAndClosesSend(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil)

	hub.Join(client, "board-a")
	hub.Join(client, "board-b")
	hub.Remove(client)

	hub.Broadcast("board-a", []byte("hello"))
	hub.Broadcast("board-b", []byte("hello"))

	// The send channel is closed; a closed channel yields immediately.
	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_BroadcastAfterRemoveDoesNotPanic(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil)

	hub.Join(client, "board-42")
	hub.Remove(client)

	// The client's send channel is closed at this point; a broadcast must
	// neither reach it nor panic.
	hub.Broadcast("board-42", []byte("hello"))
}

func TestHub_ConcurrentBroadcastAndRemove(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	// Interleave fan-out with disconnects; under the race detector this
	// fails if a close can overlap a delivery.
	for i := 0; i < 100; i++ {
		client := NewClient(hub, nil)
		hub.Join(client, "board-42")

		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Broadcast("board-42", []byte("hello"))
		}()
		go func(c *Client) {
			defer wg.Done()
			hub.Remove(c)
		}(client)
	}
	wg.Wait()
}

func TestHub_BroadcastSkipsFullQueues(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil)
	hub.Join(client, "board-42")

	for i := 0; i < cap(client.send); i++ {
		client.send <- []byte("fill")
	}

	// Must not block even though the client cannot accept more.
	hub.Broadcast("board-42", []byte("overflow"))
}
