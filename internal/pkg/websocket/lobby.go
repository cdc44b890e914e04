package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/pkg/gallery"
)

// Lobby drives the public display carousel. It owns the carousel state
// machine, arms dwell timers for still images, reacts to viewer commands
// (hover, manual navigation, video completion) and pushes a frame to the
// lobby topic whenever the visible slide or play state changes.
type Lobby struct {
	hub      *Hub
	logger   zerolog.Logger
	carousel *gallery.Carousel

	commands chan *Command
	items    chan []gallery.Item
}

// NewLobby creates a lobby driver over an initially empty carousel.
func NewLobby(hub *Hub, logger zerolog.Logger) *Lobby {
	return &Lobby{
		hub:      hub,
		logger:   logger,
		carousel: gallery.NewCarousel(nil),
		commands: make(chan *Command, 64),
		items:    make(chan []gallery.Item, 1),
	}
}

// SetItems replaces the slide deck. Called by the project service when
// the featured selection changes. Safe for concurrent use.
func (l *Lobby) SetItems(items []gallery.Item) {
	// Drop a stale pending deck so the newest one wins.
	select {
	case <-l.items:
	default:
	}
	l.items <- items
}

// Run processes carousel timing and viewer commands until ctx is done.
func (l *Lobby) Run(ctx context.Context) {
	l.hub.AddCommandListener(l.commands)
	defer l.hub.RemoveCommandListener(l.commands)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	rearm := func() {
		timer.Stop()
		if d := l.carousel.Dwell(); d > 0 {
			timer.Reset(d)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case items := <-l.items:
			l.carousel.SetItems(items)
			l.publishFrame()
			rearm()

		case <-timer.C:
			changed := l.carousel.DwellElapsed()
			if changed || l.carousel.State() == gallery.StateAuto {
				l.publishFrame()
			}
			rearm()

		case cmd := <-l.commands:
			if cmd.Topic != TopicLobby {
				continue
			}
			if l.applyCommand(cmd) {
				l.publishFrame()
			}
			rearm()
		}
	}
}

// applyCommand feeds one viewer command into the carousel. Returns true
// when the visible slide or play state changed.
func (l *Lobby) applyCommand(cmd *Command) bool {
	before := l.carousel.State()
	switch cmd.Type {
	case "hover_start":
		l.carousel.HoverStart()
	case "hover_end":
		l.carousel.HoverEnd()
	case "next":
		l.carousel.Next()
		return true
	case "prev":
		l.carousel.Prev()
		return true
	case "media_ended":
		return l.carousel.MediaEnded()
	default:
		return false
	}
	return l.carousel.State() != before
}

func (l *Lobby) publishFrame() {
	cur, ok := l.carousel.Current()
	if !ok {
		return
	}
	frame := &SlideFrame{
		FileID:    cur.ID,
		URL:       cur.URL,
		Thumbnail: cur.Thumbnail,
		Kind:      string(cur.Kind),
		Index:     l.carousel.Index(),
		State:     string(l.carousel.State()),
	}
	if next, ok := l.carousel.Peek(); ok {
		// Let displays preload the upcoming slide while this one shows.
		frame.PreloadURL = next.URL
	}
	l.hub.BroadcastToTopic(&Event{
		Type:  EventCarouselFrame,
		Topic: TopicLobby,
		Slide: frame,
	})
}
