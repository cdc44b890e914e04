package gallery

import "time"

// ImageDwell is how long a still image stays on screen before the
// carousel auto-advances.
const ImageDwell = 4 * time.Second

// PlayState is the autoplay state of a carousel.
type PlayState string

const (
	// StateAuto advances images on dwell expiry and videos on completion.
	StateAuto PlayState = "auto"
	// StatePausedHover holds the current item while a pointer is over it.
	StatePausedHover PlayState = "paused_hover"
	// StatePausedNav holds one dwell cycle after manual navigation, then
	// returns to StateAuto. Navigation never disables autoplay for good.
	StatePausedNav PlayState = "paused_nav"
)

// Carousel is a deterministic slideshow state machine. It holds no timer
// of its own; the driver arms a dwell timer and reports expiry through
// DwellElapsed, and reports video completion through MediaEnded. All
// methods must be called from a single goroutine (the websocket hub
// serializes access through its run loop).
type Carousel struct {
	items []Item
	idx   int
	state PlayState
}

// NewCarousel builds a carousel over the given items, ordered with the
// cover first. An empty item set is allowed; Current returns false until
// SetItems provides content.
func NewCarousel(items []Item) *Carousel {
	return &Carousel{items: Order(items), state: StateAuto}
}

// SetItems replaces the item set, redoing the display ordering. The
// index is clamped so the carousel never points past the end.
func (c *Carousel) SetItems(items []Item) {
	c.items = Order(items)
	if c.idx >= len(c.items) {
		c.idx = 0
	}
}

// Current returns the item on screen, or false when the carousel is empty.
func (c *Carousel) Current() (Item, bool) {
	if len(c.items) == 0 {
		return Item{}, false
	}
	return c.items[c.idx], true
}

// Peek returns the item that would show after the current one, for
// preloading. Wraps around at the end.
func (c *Carousel) Peek() (Item, bool) {
	if len(c.items) == 0 {
		return Item{}, false
	}
	return c.items[(c.idx+1)%len(c.items)], true
}

// Index returns the current zero-based slide index.
func (c *Carousel) Index() int { return c.idx }

// State returns the current autoplay state.
func (c *Carousel) State() PlayState { return c.state }

// Dwell returns the timer duration the driver should arm for the current
// item, or zero when no timer applies. Videos run to completion and
// advance via MediaEnded, so they get no dwell timer. A nav-paused
// carousel still gets one dwell so it can rejoin autoplay.
func (c *Carousel) Dwell() time.Duration {
	cur, ok := c.Current()
	if !ok || c.state == StatePausedHover {
		return 0
	}
	if c.state == StateAuto && !cur.IsImage() {
		return 0
	}
	return ImageDwell
}

// DwellElapsed handles dwell-timer expiry. In auto mode an image
// advances; a nav pause ends and autoplay resumes on the current item.
// Returns true when the visible slide changed.
func (c *Carousel) DwellElapsed() bool {
	switch c.state {
	case StatePausedHover:
		return false
	case StatePausedNav:
		c.state = StateAuto
		return false
	}
	cur, ok := c.Current()
	if !ok || !cur.IsImage() {
		return false
	}
	c.advance()
	return true
}

// MediaEnded handles a video finishing playback. Videos are never cut
// off mid-play by a timer; this is the only auto-advance path for them.
func (c *Carousel) MediaEnded() bool {
	if c.state == StatePausedHover {
		return false
	}
	cur, ok := c.Current()
	if !ok || cur.IsImage() {
		return false
	}
	c.state = StateAuto
	c.advance()
	return true
}

// HoverStart pauses autoplay while the pointer is over the carousel.
func (c *Carousel) HoverStart() {
	c.state = StatePausedHover
}

// HoverEnd resumes autoplay with a fresh dwell on the current item.
func (c *Carousel) HoverEnd() {
	if c.state == StatePausedHover {
		c.state = StateAuto
	}
}

// Next moves to the next slide manually, wrapping at the end. Works in
// every state and leaves the carousel nav-paused for one dwell.
func (c *Carousel) Next() {
	if len(c.items) == 0 {
		return
	}
	c.advance()
	c.state = StatePausedNav
}

// Prev moves to the previous slide manually, wrapping at the start.
func (c *Carousel) Prev() {
	if len(c.items) == 0 {
		return
	}
	c.idx = (c.idx - 1 + len(c.items)) % len(c.items)
	c.state = StatePausedNav
}

func (c *Carousel) advance() {
	c.idx = (c.idx + 1) % len(c.items)
}
