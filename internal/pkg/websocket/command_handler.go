package websocket

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LikeToggler applies a like toggle for a viewer. Implemented by the
// like service; the indirection keeps this package free of a service
// dependency while the service broadcasts through the hub.
type LikeToggler interface {
	ToggleLive(ctx context.Context, entityType string, entityID, userID int64) error
}

// CommandHandler processes inbound WebSocket commands that need more
// than carousel state, currently live like toggles.
type CommandHandler struct {
	toggler LikeToggler
	hub     *Hub
	logger  zerolog.Logger
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(toggler LikeToggler, hub *Hub, logger zerolog.Logger) *CommandHandler {
	return &CommandHandler{
		toggler: toggler,
		hub:     hub,
		logger:  logger,
	}
}

// Start begins processing commands from the hub
func (h *CommandHandler) Start() {
	go h.processCommands()
}

func (h *CommandHandler) processCommands() {
	commandChan := make(chan *Command, 64)
	h.hub.AddCommandListener(commandChan)

	for cmd := range commandChan {
		if cmd.Type != "toggle_like" {
			continue
		}
		h.processToggle(cmd)
	}
}

func (h *CommandHandler) processToggle(cmd *Command) {
	if cmd.SenderID <= 0 {
		// Anonymous viewers see counts but cannot like.
		h.logger.Debug().
			Str("entity", cmd.Entity).
			Msg("Ignoring like toggle from anonymous viewer")
		return
	}

	entityType, entityID, ok := ParseEntity(cmd.Entity)
	if !ok {
		h.logger.Warn().
			Str("entity", cmd.Entity).
			Int64("senderID", cmd.SenderID).
			Msg("Malformed entity in like toggle")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.toggler.ToggleLive(ctx, entityType, entityID, cmd.SenderID); err != nil {
		h.logger.Error().
			Err(err).
			Str("entity", cmd.Entity).
			Int64("senderID", cmd.SenderID).
			Msg("Failed to apply like toggle")
	}
}

// ParseEntity splits an entity tag like "project:42" into its type and id.
func ParseEntity(entity string) (string, int64, bool) {
	kind, idStr, found := strings.Cut(entity, ":")
	if !found {
		return "", 0, false
	}
	if kind != "project" && kind != "comment" {
		return "", 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return kind, id, true
}
