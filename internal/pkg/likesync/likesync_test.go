package likesync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeRemote struct {
	mu      sync.Mutex
	rows    map[[2]int64]bool
	failNext error
	gate    chan struct{} // when set, Insert/Delete block until closed
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[[2]int64]bool)}
}

func (f *fakeRemote) wait() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeRemote) takeErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeRemote) Insert(_ context.Context, entityID, userID int64) error {
	f.wait()
	if err := f.takeErr(); err != nil {
		return err
	}
	f.mu.Lock()
	f.rows[[2]int64{entityID, userID}] = true
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, entityID, userID int64) error {
	f.wait()
	if err := f.takeErr(); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.rows, [2]int64{entityID, userID})
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) Count(_ context.Context, entityID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k := range f.rows {
		if k[0] == entityID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRemote) Exists(_ context.Context, entityID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[[2]int64{entityID, userID}], nil
}

// settleRecorder collects settle notifications on a channel.
type settleRecorder struct {
	ch chan error
}

func newSettleRecorder() *settleRecorder {
	return &settleRecorder{ch: make(chan error, 8)}
}

func (r *settleRecorder) fn(_, _ int64, _ State, err error) {
	r.ch <- err
}

func (r *settleRecorder) waitOne(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("toggle did not settle")
		return nil
	}
}

func TestToggleOptimisticThenSettled(t *testing.T) {
	remote := newFakeRemote()
	// Seed 5 existing likes from other users.
	for i := int64(100); i < 105; i++ {
		remote.rows[[2]int64{1, i}] = true
	}
	rec := newSettleRecorder()
	s := New(remote, rec.fn)
	ctx := context.Background()

	st, err := s.Load(ctx, 1, 42)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Count != 5 || st.Liked {
		t.Fatalf("initial state = %+v, want count=5 liked=false", st)
	}

	st, ok := s.Toggle(ctx, 1, 42)
	if !ok {
		t.Fatal("toggle rejected")
	}
	// Optimistic state is visible before the remote settles.
	if st.Count != 6 || !st.Liked {
		t.Fatalf("optimistic state = %+v, want count=6 liked=true", st)
	}

	if err := rec.waitOne(t); err != nil {
		t.Fatalf("settle error: %v", err)
	}
	if got := s.State(1, 42); got.Count != 6 || !got.Liked {
		t.Fatalf("settled state = %+v, want count=6 liked=true", got)
	}
}

func TestToggleTwiceReturnsToBaseline(t *testing.T) {
	remote := newFakeRemote()
	remote.rows[[2]int64{1, 9}] = true // one pre-existing like
	rec := newSettleRecorder()
	s := New(remote, rec.fn)
	ctx := context.Background()

	if _, err := s.Load(ctx, 1, 2); err != nil {
		t.Fatalf("Load: %v", err)
	}
	base := s.State(1, 2)

	if _, ok := s.Toggle(ctx, 1, 2); !ok {
		t.Fatal("first toggle rejected")
	}
	if err := rec.waitOne(t); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if _, ok := s.Toggle(ctx, 1, 2); !ok {
		t.Fatal("second toggle rejected")
	}
	if err := rec.waitOne(t); err != nil {
		t.Fatalf("second settle: %v", err)
	}

	got := s.State(1, 2)
	if got != base {
		t.Fatalf("state after like+unlike = %+v, want baseline %+v", got, base)
	}
	if liked, _ := remote.Exists(ctx, 1, 2); liked {
		t.Fatal("remote row still present after unlike")
	}
}

func TestToggleFailureRevertsExactly(t *testing.T) {
	remote := newFakeRemote()
	for i := int64(100); i < 105; i++ {
		remote.rows[[2]int64{1, i}] = true
	}
	rec := newSettleRecorder()
	s := New(remote, rec.fn)
	ctx := context.Background()

	if _, err := s.Load(ctx, 1, 7); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Repeated failed toggles must not drift the count.
	for i := 0; i < 3; i++ {
		remote.mu.Lock()
		remote.failNext = errors.New("network down")
		remote.mu.Unlock()

		st, ok := s.Toggle(ctx, 1, 7)
		if !ok {
			t.Fatalf("toggle %d rejected", i)
		}
		if st.Count != 6 || !st.Liked {
			t.Fatalf("optimistic state = %+v, want count=6 liked=true", st)
		}
		if err := rec.waitOne(t); err == nil {
			t.Fatalf("toggle %d settled without error", i)
		}
		if got := s.State(1, 7); got.Count != 5 || got.Liked {
			t.Fatalf("state after failed toggle %d = %+v, want count=5 liked=false", i, got)
		}
	}
}

func TestToggleCoalescesWhileInFlight(t *testing.T) {
	remote := newFakeRemote()
	remote.gate = make(chan struct{})
	rec := newSettleRecorder()
	s := New(remote, rec.fn)
	ctx := context.Background()

	if _, err := s.Load(ctx, 3, 4); err != nil {
		t.Fatalf("Load: %v", err)
	}

	st, ok := s.Toggle(ctx, 3, 4)
	if !ok || !st.Liked {
		t.Fatalf("first toggle: st=%+v ok=%v", st, ok)
	}

	// Second toggle while the first is outstanding is coalesced.
	st2, ok2 := s.Toggle(ctx, 3, 4)
	if ok2 {
		t.Fatal("in-flight toggle was accepted")
	}
	if st2 != st {
		t.Fatalf("coalesced toggle returned %+v, want current optimistic %+v", st2, st)
	}

	close(remote.gate)
	if err := rec.waitOne(t); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if got := s.State(3, 4); got.Count != 1 || !got.Liked {
		t.Fatalf("settled state = %+v, want count=1 liked=true", got)
	}
}

func TestAnonymousViewer(t *testing.T) {
	remote := newFakeRemote()
	remote.rows[[2]int64{5, 1}] = true
	s := New(remote, nil)
	ctx := context.Background()

	st, err := s.Load(ctx, 5, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Liked {
		t.Fatal("anonymous viewer reported as liked")
	}
	if _, ok := s.Toggle(ctx, 5, 0); ok {
		t.Fatal("anonymous toggle was accepted")
	}
}

func TestKnownTracksLoadedPairs(t *testing.T) {
	remote := newFakeRemote()
	rec := newSettleRecorder()
	s := New(remote, rec.fn)
	ctx := context.Background()

	if s.Known(1, 2) {
		t.Fatal("pair reported known before Load")
	}
	if _, err := s.Load(ctx, 1, 2); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.Known(1, 2) {
		t.Fatal("pair not known after Load")
	}

	// Like then unlike settles back to {count 0, liked false}, which
	// must still read as known: reloading here would race a toggle.
	for i := 0; i < 2; i++ {
		if _, ok := s.Toggle(ctx, 1, 2); !ok {
			t.Fatalf("toggle %d rejected", i)
		}
		if err := rec.waitOne(t); err != nil {
			t.Fatalf("settle %d: %v", i, err)
		}
	}
	if got := s.State(1, 2); got.Count != 0 || got.Liked {
		t.Fatalf("state after like+unlike = %+v, want zero", got)
	}
	if !s.Known(1, 2) {
		t.Fatal("pair forgotten after settling back to zero state")
	}
}

func TestLoadPreservesInFlightToggle(t *testing.T) {
	remote := newFakeRemote()
	remote.gate = make(chan struct{})
	rec := newSettleRecorder()
	s := New(remote, rec.fn)
	ctx := context.Background()

	if _, err := s.Load(ctx, 3, 4); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st, ok := s.Toggle(ctx, 3, 4)
	if !ok || !st.Liked {
		t.Fatalf("toggle: st=%+v ok=%v", st, ok)
	}

	// A reload while the toggle is outstanding must not replace the
	// tracked entry: that would discard the revert snapshot and let a
	// second toggle race the first.
	got, err := s.Load(ctx, 3, 4)
	if err != nil {
		t.Fatalf("Load mid-flight: %v", err)
	}
	if got != st {
		t.Fatalf("mid-flight Load returned %+v, want optimistic %+v", got, st)
	}
	if _, ok := s.Toggle(ctx, 3, 4); ok {
		t.Fatal("toggle accepted while an earlier one was unsettled")
	}

	close(remote.gate)
	if err := rec.waitOne(t); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if got := s.State(3, 4); got.Count != 1 || !got.Liked {
		t.Fatalf("settled state = %+v, want count=1 liked=true", got)
	}
}

func TestToggleSyncReturnsSettledState(t *testing.T) {
	remote := newFakeRemote()
	s := New(remote, nil)
	ctx := context.Background()

	if _, err := s.Load(ctx, 7, 8); err != nil {
		t.Fatalf("Load: %v", err)
	}

	st, accepted, err := s.ToggleSync(ctx, 7, 8)
	if err != nil || !accepted {
		t.Fatalf("ToggleSync: st=%+v accepted=%v err=%v", st, accepted, err)
	}
	if st.Count != 1 || !st.Liked {
		t.Fatalf("settled state = %+v, want count=1 liked=true", st)
	}
	// The remote row exists by the time ToggleSync returns.
	if liked, _ := remote.Exists(ctx, 7, 8); !liked {
		t.Fatal("remote row missing after ToggleSync returned")
	}
}

func TestToggleSyncFailureRevertsAndReportsError(t *testing.T) {
	remote := newFakeRemote()
	s := New(remote, nil)
	ctx := context.Background()

	if _, err := s.Load(ctx, 7, 9); err != nil {
		t.Fatalf("Load: %v", err)
	}

	remote.mu.Lock()
	remote.failNext = errors.New("network down")
	remote.mu.Unlock()

	st, accepted, err := s.ToggleSync(ctx, 7, 9)
	if !accepted {
		t.Fatal("toggle rejected")
	}
	if err == nil {
		t.Fatal("ToggleSync reported no error for a failed remote write")
	}
	if st.Count != 0 || st.Liked {
		t.Fatalf("state after failed ToggleSync = %+v, want reverted zero state", st)
	}
	// A retry is accepted immediately: nothing is left in flight.
	if _, accepted, err := s.ToggleSync(ctx, 7, 9); !accepted || err != nil {
		t.Fatalf("retry after failure: accepted=%v err=%v", accepted, err)
	}
}
