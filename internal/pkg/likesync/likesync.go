// Package likesync keeps per-(entity, viewer) like state consistent with a
// remote store under user toggles.
//
// A toggle applies the new liked flag and delta-adjusted count locally
// before the remote call settles, then persists the change; on failure the
// local state reverts to its exact pre-toggle values. While a toggle for an
// entity is outstanding, further toggles for the same (entity, viewer) pair
// are coalesced instead of racing the in-flight request.
package likesync

import (
	"context"
	"sync"
)

// Remote persists like rows. Row existence is the sole source of truth
// for "liked".
type Remote interface {
	Insert(ctx context.Context, entityID, userID int64) error
	Delete(ctx context.Context, entityID, userID int64) error
	Count(ctx context.Context, entityID int64) (int64, error)
	Exists(ctx context.Context, entityID, userID int64) (bool, error)
}

// State is the observable like state for one (entity, viewer) pair.
type State struct {
	Count int64
	Liked bool
}

// SettleFunc is invoked after a toggle settles, with the settled state or
// the remote error that caused a rollback.
type SettleFunc func(entityID, userID int64, st State, err error)

type key struct {
	entityID int64
	userID   int64
}

type entityState struct {
	state    State
	prev     State // pre-toggle snapshot, valid while inFlight
	inFlight bool
}

// Synchronizer tracks like state for many (entity, viewer) pairs against
// one Remote.
type Synchronizer struct {
	remote   Remote
	onSettle SettleFunc

	mu     sync.Mutex
	states map[key]*entityState
}

// New creates a Synchronizer. onSettle may be nil.
func New(remote Remote, onSettle SettleFunc) *Synchronizer {
	return &Synchronizer{
		remote:   remote,
		onSettle: onSettle,
		states:   make(map[key]*entityState),
	}
}

// Load initializes state for one (entity, viewer) pair from the remote
// store. A viewer of 0 means anonymous: liked is false without a query.
func (s *Synchronizer) Load(ctx context.Context, entityID, userID int64) (State, error) {
	count, err := s.remote.Count(ctx, entityID)
	if err != nil {
		return State{}, err
	}

	liked := false
	if userID > 0 {
		liked, err = s.remote.Exists(ctx, entityID, userID)
		if err != nil {
			return State{}, err
		}
	}

	st := State{Count: count, Liked: liked}
	s.mu.Lock()
	// An in-flight toggle owns the entry; replacing it would discard
	// the revert snapshot and unblock a second toggle mid-settle.
	if es, ok := s.states[key{entityID, userID}]; ok && es.inFlight {
		st = es.state
	} else {
		s.states[key{entityID, userID}] = &entityState{state: st}
	}
	s.mu.Unlock()
	return st, nil
}

// State returns the current (possibly optimistic) state for a pair.
func (s *Synchronizer) State(entityID, userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if es, ok := s.states[key{entityID, userID}]; ok {
		return es.state
	}
	return State{}
}

// Known reports whether the pair has been loaded or toggled before.
// A pair with zero count and no like is indistinguishable from an
// untracked one through State alone.
func (s *Synchronizer) Known(entityID, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.states[key{entityID, userID}]
	return ok
}

// Toggle flips the liked state optimistically and persists the change in
// the background. It returns the optimistic state and whether the toggle
// was accepted; a toggle is rejected when there is no viewer or when a
// previous toggle for the same pair has not settled yet.
func (s *Synchronizer) Toggle(ctx context.Context, entityID, userID int64) (State, bool) {
	k, wasLiked, optimistic, accepted := s.begin(entityID, userID)
	if !accepted {
		return optimistic, false
	}

	// The toggle must outlive the triggering request.
	go s.settle(context.WithoutCancel(ctx), k, wasLiked)

	return optimistic, true
}

// ToggleSync flips the liked state and waits for the remote write,
// returning the settled state. On a remote failure the state has
// already reverted and the error is returned. A rejected toggle
// returns the current state with accepted false and no error.
func (s *Synchronizer) ToggleSync(ctx context.Context, entityID, userID int64) (State, bool, error) {
	k, wasLiked, current, accepted := s.begin(entityID, userID)
	if !accepted {
		return current, false, nil
	}

	st, err := s.settle(ctx, k, wasLiked)
	return st, true, err
}

// begin applies the optimistic half of a toggle under the lock. It
// rejects anonymous viewers and pairs with an unsettled toggle.
func (s *Synchronizer) begin(entityID, userID int64) (key, bool, State, bool) {
	k := key{entityID, userID}
	if userID <= 0 {
		return k, false, s.State(entityID, userID), false
	}

	s.mu.Lock()
	es, ok := s.states[k]
	if !ok {
		es = &entityState{}
		s.states[k] = es
	}
	if es.inFlight {
		st := es.state
		s.mu.Unlock()
		return k, false, st, false
	}

	es.prev = es.state
	if es.state.Liked {
		es.state.Liked = false
		es.state.Count--
	} else {
		es.state.Liked = true
		es.state.Count++
	}
	if es.state.Count < 0 {
		es.state.Count = 0
	}
	es.inFlight = true
	optimistic := es.state
	wasLiked := es.prev.Liked
	s.mu.Unlock()

	return k, wasLiked, optimistic, true
}

func (s *Synchronizer) settle(ctx context.Context, k key, wasLiked bool) (State, error) {
	var err error
	if wasLiked {
		err = s.remote.Delete(ctx, k.entityID, k.userID)
	} else {
		err = s.remote.Insert(ctx, k.entityID, k.userID)
	}

	s.mu.Lock()
	es := s.states[k]
	if err != nil {
		// Revert to the exact pre-toggle values.
		es.state = es.prev
	}
	es.inFlight = false
	settled := es.state
	s.mu.Unlock()

	if s.onSettle != nil {
		s.onSettle(k.entityID, k.userID, settled, err)
	}
	return settled, err
}
