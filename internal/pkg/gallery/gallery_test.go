package gallery

import (
	"testing"
	"time"
)

func mkItem(id int64, kind MediaKind, cover bool, pos int, created time.Time) Item {
	return Item{ID: id, Kind: kind, IsCover: cover, Position: pos, CreatedAt: created}
}

func ids(items []Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestOrderCoverFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []Item{
		mkItem(1, KindImage, false, 1, base),
		mkItem(2, KindImage, true, 5, base.Add(time.Hour)),
		mkItem(3, KindVideo, false, 2, base.Add(2*time.Hour)),
	}

	got := ids(Order(items))
	want := []int64{2, 1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestOrderPositionThenCreatedAt(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []Item{
		mkItem(1, KindImage, false, 2, base.Add(time.Hour)),
		mkItem(2, KindImage, false, 2, base),
		mkItem(3, KindImage, false, 1, base.Add(2*time.Hour)),
	}

	got := ids(Order(items))
	want := []int64{3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMoveUpThenDownRestoresOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ordered := Order([]Item{
		mkItem(1, KindImage, false, 1, base),
		mkItem(2, KindImage, false, 2, base),
		mkItem(3, KindImage, false, 3, base),
	})

	moved := MoveUp(ordered, 3)
	if got := ids(moved); got[1] != 3 {
		t.Fatalf("after MoveUp order = %v, want item 3 second", got)
	}

	restored := MoveDown(moved, 3)
	got := ids(restored)
	want := []int64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after round trip order = %v, want %v", got, want)
		}
		if restored[i].Position != i+1 {
			t.Fatalf("position[%d] = %d, want %d", i, restored[i].Position, i+1)
		}
	}
}

func TestMoveUpFirstItemNoOp(t *testing.T) {
	base := time.Now()
	ordered := Order([]Item{
		mkItem(1, KindImage, false, 1, base),
		mkItem(2, KindImage, false, 2, base),
	})

	got := ids(MoveUp(ordered, 1))
	if got[0] != 1 || got[1] != 2 {
		t.Fatalf("order = %v, want unchanged", got)
	}
}

func TestCarouselAdvancesImagesOnDwell(t *testing.T) {
	base := time.Now()
	c := NewCarousel([]Item{
		mkItem(1, KindImage, true, 1, base),
		mkItem(2, KindImage, false, 2, base),
		mkItem(3, KindImage, false, 3, base),
	})

	if cur, _ := c.Current(); cur.ID != 1 {
		t.Fatalf("current = %d, want cover first", cur.ID)
	}
	if c.Dwell() != ImageDwell {
		t.Fatalf("dwell = %v, want %v", c.Dwell(), ImageDwell)
	}

	if !c.DwellElapsed() {
		t.Fatal("expected dwell expiry to advance an image")
	}
	if cur, _ := c.Current(); cur.ID != 2 {
		t.Fatalf("current = %d, want 2", cur.ID)
	}

	c.DwellElapsed()
	c.DwellElapsed()
	if cur, _ := c.Current(); cur.ID != 1 {
		t.Fatalf("current = %d, want wrap back to 1", cur.ID)
	}
}

func TestCarouselVideoAdvancesOnlyOnMediaEnded(t *testing.T) {
	base := time.Now()
	c := NewCarousel([]Item{
		mkItem(1, KindVideo, true, 1, base),
		mkItem(2, KindImage, false, 2, base),
	})

	if c.Dwell() != 0 {
		t.Fatalf("dwell = %v, want no timer for a playing video", c.Dwell())
	}
	if c.DwellElapsed() {
		t.Fatal("dwell expiry must not cut off a video")
	}
	if cur, _ := c.Current(); cur.ID != 1 {
		t.Fatalf("current = %d, want video still showing", cur.ID)
	}

	if !c.MediaEnded() {
		t.Fatal("expected advance when the video finished")
	}
	if cur, _ := c.Current(); cur.ID != 2 {
		t.Fatalf("current = %d, want 2", cur.ID)
	}
}

func TestCarouselHoverPausesAndResumes(t *testing.T) {
	base := time.Now()
	c := NewCarousel([]Item{
		mkItem(1, KindImage, true, 1, base),
		mkItem(2, KindImage, false, 2, base),
	})

	c.HoverStart()
	if c.State() != StatePausedHover {
		t.Fatalf("state = %s, want paused_hover", c.State())
	}
	if c.Dwell() != 0 {
		t.Fatal("hover pause must not arm a dwell timer")
	}
	if c.DwellElapsed() {
		t.Fatal("hover pause must block auto-advance")
	}

	c.HoverEnd()
	if c.State() != StateAuto {
		t.Fatalf("state = %s, want auto after hover end", c.State())
	}
	if !c.DwellElapsed() {
		t.Fatal("expected autoplay to resume after hover end")
	}
}

func TestCarouselManualNavWorksWhilePaused(t *testing.T) {
	base := time.Now()
	c := NewCarousel([]Item{
		mkItem(1, KindImage, true, 1, base),
		mkItem(2, KindImage, false, 2, base),
		mkItem(3, KindImage, false, 3, base),
	})

	c.HoverStart()
	c.Next()
	if cur, _ := c.Current(); cur.ID != 2 {
		t.Fatalf("current = %d, want manual advance despite hover", cur.ID)
	}
	if c.State() != StatePausedNav {
		t.Fatalf("state = %s, want paused_nav", c.State())
	}

	// Nav pause holds one dwell, then autoplay resumes.
	if c.DwellElapsed() {
		t.Fatal("first dwell after nav must hold the slide")
	}
	if c.State() != StateAuto {
		t.Fatalf("state = %s, want auto after nav pause expires", c.State())
	}
	if !c.DwellElapsed() {
		t.Fatal("expected autoplay to resume after nav pause")
	}
}

func TestCarouselPrevWrapsToEnd(t *testing.T) {
	base := time.Now()
	c := NewCarousel([]Item{
		mkItem(1, KindImage, true, 1, base),
		mkItem(2, KindImage, false, 2, base),
		mkItem(3, KindImage, false, 3, base),
	})

	c.Prev()
	if cur, _ := c.Current(); cur.ID != 3 {
		t.Fatalf("current = %d, want wrap to last", cur.ID)
	}
}

func TestCarouselPeekWraps(t *testing.T) {
	base := time.Now()
	c := NewCarousel([]Item{
		mkItem(1, KindImage, true, 1, base),
		mkItem(2, KindImage, false, 2, base),
	})

	c.Next()
	next, ok := c.Peek()
	if !ok || next.ID != 1 {
		t.Fatalf("peek = %v %v, want wrap to first", next.ID, ok)
	}
}

func TestCarouselEmpty(t *testing.T) {
	c := NewCarousel(nil)
	if _, ok := c.Current(); ok {
		t.Fatal("empty carousel must report no current item")
	}
	if c.Dwell() != 0 {
		t.Fatal("empty carousel must not arm a timer")
	}
	c.Next()
	c.Prev()
	if c.DwellElapsed() || c.MediaEnded() {
		t.Fatal("empty carousel must never advance")
	}
}
