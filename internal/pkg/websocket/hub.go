package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Topic names. Clients subscribe to one topic per connection: a project
// page for live like counts, or the lobby display for carousel frames.
const (
	TopicLobby = "lobby"
)

// Event types sent to clients
const (
	EventLikeUpdate    = "like_update"
	EventCarouselFrame = "carousel_frame"
)

// ProjectTopic returns the subscription topic for a project page.
func ProjectTopic(projectID int64) string {
	return fmt.Sprintf("project:%d", projectID)
}

// CommentTopic returns the subscription topic for a comment's likes.
// Comment like updates are delivered on the owning project's topic, so
// this is only used as an entity tag inside events.
func CommentTopic(commentID int64) string {
	return fmt.Sprintf("comment:%d", commentID)
}

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	// Registered clients organized by subscription topic
	clients map[string]map[*Client]bool

	// Channel for outbound events to broadcast
	broadcast chan *Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Mutex for command listeners
	listenersMu sync.RWMutex

	// Command listeners receive every inbound client command
	commandListeners []chan *Command

	// Logger for Hub operations
	logger zerolog.Logger
}

// Event is a server-to-client message
type Event struct {
	// Type of event: "like_update", "carousel_frame"
	Type string `json:"type"`

	// Topic this event is delivered on
	Topic string `json:"topic"`

	// Entity the event refers to, e.g. "project:42" or "comment:7"
	Entity string `json:"entity,omitempty"`

	// Current like count for like updates
	Count int64 `json:"count,omitempty"`

	// Slide payload for carousel frames
	Slide *SlideFrame `json:"slide,omitempty"`

	// Timestamp when the event was produced
	Timestamp time.Time `json:"timestamp"`
}

// SlideFrame describes the slide a lobby display should show
type SlideFrame struct {
	FileID     int64  `json:"fileId"`
	URL        string `json:"url"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Kind       string `json:"kind"`
	Index      int    `json:"index"`
	State      string `json:"state"`
	PreloadURL string `json:"preloadUrl,omitempty"`
}

// Command is a client-to-server message
type Command struct {
	// Type of command: "toggle_like", "hover_start", "hover_end",
	// "next", "prev", "media_ended"
	Type string `json:"type"`

	// Entity a like toggle refers to, e.g. "project:42"
	Entity string `json:"entity,omitempty"`

	// Topic the sending client is subscribed to (stamped server-side)
	Topic string `json:"-"`

	// User who sent the command (stamped server-side, 0 for guests)
	SenderID int64 `json:"-"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:        make(chan *Event),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		clients:          make(map[string]map[*Client]bool),
		commandListeners: []chan *Command{},
		logger:           logger,
	}
}

// Run starts the hub, handling client registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topic := client.topic
	if _, ok := h.clients[topic]; !ok {
		h.clients[topic] = make(map[*Client]bool)
	}
	h.clients[topic][client] = true

	h.logger.Info().
		Str("topic", topic).
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topic := client.topic
	if _, ok := h.clients[topic]; ok {
		if _, ok := h.clients[topic][client]; ok {
			delete(h.clients[topic], client)
			close(client.send)

			if len(h.clients[topic]) == 0 {
				delete(h.clients, topic)
			}

			h.logger.Info().
				Str("topic", topic).
				Int64("userID", client.userID).
				Msg("Client unregistered")
		}
	}
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("topic", event.Topic).
			Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.RLock()
	clients, ok := h.clients[event.Topic]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Run's goroutine is the only receiver on h.unregister, and it is
	// the one executing here, so stalled clients are collected and
	// dropped directly instead of being sent back through the channel.
	var stalled []*Client
	sent := 0
	for client := range clients {
		select {
		case client.send <- data:
			sent++
		default:
			// Client's send buffer is full, they might be slow or disconnected
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.unregisterClient(client)
	}

	h.logger.Debug().
		Str("topic", event.Topic).
		Str("eventType", event.Type).
		Int("clientCount", sent).
		Msg("Event broadcasted to topic")
}

// dispatchCommand sends an inbound client command to all registered listeners
func (h *Hub) dispatchCommand(cmd *Command) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.commandListeners {
		// Non-blocking send to avoid stalling the read pump on slow listeners
		select {
		case listener <- cmd:
			// Command sent successfully
		default:
			h.logger.Warn().Msg("Skipped slow command listener")
		}
	}
}

// BroadcastToTopic sends an event to all clients subscribed to its topic
func (h *Hub) BroadcastToTopic(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h.broadcast <- event
}

// GetClientsCount returns the number of connected clients for a topic
func (h *Hub) GetClientsCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[topic]; ok {
		return len(clients)
	}
	return 0
}

// AddCommandListener registers a channel to receive all inbound commands
func (h *Hub) AddCommandListener(listener chan *Command) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.commandListeners = append(h.commandListeners, listener)
	h.logger.Info().Msg("Added new command listener")
}

// RemoveCommandListener removes a listener from the hub
func (h *Hub) RemoveCommandListener(listener chan *Command) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.commandListeners {
		if l == listener {
			h.commandListeners[i] = h.commandListeners[len(h.commandListeners)-1]
			h.commandListeners = h.commandListeners[:len(h.commandListeners)-1]
			h.logger.Info().Msg("Removed command listener")
			break
		}
	}
}
