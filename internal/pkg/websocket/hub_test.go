package websocket

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func addTestClient(h *Hub, topic string, userID int64, buffer int) *Client {
	client := &Client{
		hub:    h,
		send:   make(chan []byte, buffer),
		userID: userID,
		topic:  topic,
	}
	h.mu.Lock()
	if _, ok := h.clients[topic]; !ok {
		h.clients[topic] = make(map[*Client]bool)
	}
	h.clients[topic][client] = true
	h.mu.Unlock()
	return client
}

func broadcastWithTimeout(t *testing.T, h *Hub, event *Event) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		h.BroadcastToTopic(event)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast did not complete; hub loop is stuck")
	}
}

func TestBroadcastDropsStalledClientWithoutBlocking(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()

	topic := ProjectTopic(1)
	healthy := addTestClient(h, topic, 1, 8)
	// A full send buffer marks a reader that is gone or hopelessly behind.
	stalled := addTestClient(h, topic, 2, 1)
	stalled.send <- []byte("backlog")

	broadcastWithTimeout(t, h, &Event{Type: EventLikeUpdate, Topic: topic, Count: 1})
	// A second broadcast proves the hub loop survived the stalled client.
	broadcastWithTimeout(t, h, &Event{Type: EventLikeUpdate, Topic: topic, Count: 2})

	for i := 0; i < 2; i++ {
		select {
		case <-healthy.send:
		case <-time.After(2 * time.Second):
			t.Fatalf("healthy client missed broadcast %d", i+1)
		}
	}

	// The stalled client is dropped and its channel closed.
	deadline := time.After(2 * time.Second)
	for {
		h.mu.RLock()
		_, present := h.clients[topic][stalled]
		h.mu.RUnlock()
		if !present {
			break
		}
		select {
		case <-deadline:
			t.Fatal("stalled client was not unregistered")
		case <-time.After(10 * time.Millisecond):
		}
	}
	<-stalled.send // drain the backlog entry
	if _, open := <-stalled.send; open {
		t.Fatal("stalled client's send channel left open")
	}
}

func TestBroadcastToTopicOnlyReachesSubscribers(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()

	watcher := addTestClient(h, ProjectTopic(1), 1, 4)
	bystander := addTestClient(h, ProjectTopic(2), 2, 4)

	broadcastWithTimeout(t, h, &Event{Type: EventLikeUpdate, Topic: ProjectTopic(1), Count: 3})

	select {
	case <-watcher.send:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber missed the broadcast")
	}
	select {
	case <-bystander.send:
		t.Fatal("event leaked to another topic")
	case <-time.After(50 * time.Millisecond):
	}
}
