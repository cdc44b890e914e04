package websocket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/repositories"
)

// Handler for WebSocket connections
type Handler struct {
	hub         *Hub
	projectRepo *repositories.ProjectRepository
	logger      zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(
	hub *Hub,
	projectRepo *repositories.ProjectRepository,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		hub:         hub,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// HandleProject godoc
// @Summary Establish a WebSocket connection for live project updates
// @Description Upgrades the HTTP connection to a WebSocket subscribed to a project's live like counts. Anonymous viewers receive counts; toggling requires authentication.
// @Tags websocket
// @Param id path int true "Project ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} gin.H "Invalid project ID"
// @Failure 404 {object} gin.H "Project not found"
// @Router /ws/projects/{id} [get]
func (h *Handler) HandleProject(c *gin.Context) {
	projectIDStr := c.Param("id")
	projectID, err := strconv.ParseInt(projectIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid project ID",
		})
		return
	}

	exists, err := h.projectRepo.Exists(c, projectID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("projectID", projectID).
			Msg("Failed to check project existence")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check project",
		})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Project not found",
		})
		return
	}

	h.upgrade(c, ProjectTopic(projectID))
}

// HandleLobby godoc
// @Summary Establish a WebSocket connection for the lobby display
// @Description Upgrades the HTTP connection to a WebSocket carrying carousel frames for the public lobby display
// @Tags websocket
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /ws/lobby [get]
func (h *Handler) HandleLobby(c *gin.Context) {
	h.upgrade(c, TopicLobby)
}

func (h *Handler) upgrade(c *gin.Context, topic string) {
	// Anonymous connections are allowed; the auth middleware sets userID
	// only when a valid token is present.
	var userID int64
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(int64); ok {
			userID = id
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("topic", topic).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		topic:  topic,
		logger: h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("topic", topic).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
