package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/db"
)

// fakeTxRunner runs the transaction function directly and tracks
// whether a transaction is currently open.
type fakeTxRunner struct {
	calls  int
	active bool
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	f.active = true
	defer func() { f.active = false }()
	return fn(ctx, nil)
}

type fakeLikeStore struct {
	runner  *fakeTxRunner
	t       *testing.T
	changed bool
	err     error

	inserts int
	deletes int
}

func (f *fakeLikeStore) requireTx() {
	f.t.Helper()
	if !f.runner.active {
		f.t.Fatal("like row written outside a transaction")
	}
}

func (f *fakeLikeStore) Insert(_ context.Context, _ pgx.Tx, _ models.LikeEntity, _, _ int64) (bool, error) {
	f.requireTx()
	f.inserts++
	return f.changed, f.err
}

func (f *fakeLikeStore) Delete(_ context.Context, _ pgx.Tx, _ models.LikeEntity, _, _ int64) (bool, error) {
	f.requireTx()
	f.deletes++
	return f.changed, f.err
}

func (f *fakeLikeStore) Count(context.Context, models.LikeEntity, int64) (int64, error) {
	return 0, nil
}

func (f *fakeLikeStore) Exists(context.Context, models.LikeEntity, int64, int64) (bool, error) {
	return false, nil
}

type fakeCounter struct {
	runner *fakeTxRunner
	t      *testing.T
	err    error

	deltas []int64
}

func (f *fakeCounter) AdjustLikeCount(_ context.Context, _ pgx.Tx, _ int64, delta int64) error {
	f.t.Helper()
	if !f.runner.active {
		f.t.Fatal("counter adjusted outside a transaction")
	}
	if f.err != nil {
		return f.err
	}
	f.deltas = append(f.deltas, delta)
	return nil
}

type fakeEvents struct {
	runner *fakeTxRunner
	t      *testing.T

	types []models.EventType
}

func (f *fakeEvents) RecordTx(_ context.Context, _ pgx.Tx, _ int64, _ *int64, eventType models.EventType) error {
	f.t.Helper()
	if !f.runner.active {
		f.t.Fatal("event recorded outside a transaction")
	}
	f.types = append(f.types, eventType)
	return nil
}

func TestProjectLikeInsertCommitsRowCounterAndEvent(t *testing.T) {
	runner := &fakeTxRunner{}
	likes := &fakeLikeStore{runner: runner, t: t, changed: true}
	counter := &fakeCounter{runner: runner, t: t}
	events := &fakeEvents{runner: runner, t: t}
	remote := &projectLikeRemote{database: runner, likes: likes, projects: counter, events: events}

	if err := remote.Insert(context.Background(), 1, 2); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("transactions = %d, want 1", runner.calls)
	}
	if likes.inserts != 1 {
		t.Fatalf("like inserts = %d, want 1", likes.inserts)
	}
	if len(counter.deltas) != 1 || counter.deltas[0] != 1 {
		t.Fatalf("counter deltas = %v, want [1]", counter.deltas)
	}
	if len(events.types) != 1 || events.types[0] != models.EventLike {
		t.Fatalf("recorded events = %v, want [LIKE]", events.types)
	}
}

func TestProjectLikeDeleteCommitsRowCounterAndEvent(t *testing.T) {
	runner := &fakeTxRunner{}
	likes := &fakeLikeStore{runner: runner, t: t, changed: true}
	counter := &fakeCounter{runner: runner, t: t}
	events := &fakeEvents{runner: runner, t: t}
	remote := &projectLikeRemote{database: runner, likes: likes, projects: counter, events: events}

	if err := remote.Delete(context.Background(), 1, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(counter.deltas) != 1 || counter.deltas[0] != -1 {
		t.Fatalf("counter deltas = %v, want [-1]", counter.deltas)
	}
	if len(events.types) != 1 || events.types[0] != models.EventUnlike {
		t.Fatalf("recorded events = %v, want [UNLIKE]", events.types)
	}
}

func TestProjectLikeDuplicateInsertLeavesCounterAlone(t *testing.T) {
	runner := &fakeTxRunner{}
	likes := &fakeLikeStore{runner: runner, t: t, changed: false}
	counter := &fakeCounter{runner: runner, t: t}
	events := &fakeEvents{runner: runner, t: t}
	remote := &projectLikeRemote{database: runner, likes: likes, projects: counter, events: events}

	if err := remote.Insert(context.Background(), 1, 2); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(counter.deltas) != 0 {
		t.Fatalf("counter moved on a duplicate insert: %v", counter.deltas)
	}
	if len(events.types) != 0 {
		t.Fatalf("events recorded on a duplicate insert: %v", events.types)
	}
}

func TestProjectLikeCounterFailureAbortsTransaction(t *testing.T) {
	runner := &fakeTxRunner{}
	likes := &fakeLikeStore{runner: runner, t: t, changed: true}
	counter := &fakeCounter{runner: runner, t: t, err: errors.New("counter update failed")}
	events := &fakeEvents{runner: runner, t: t}
	remote := &projectLikeRemote{database: runner, likes: likes, projects: counter, events: events}

	err := remote.Insert(context.Background(), 1, 2)
	if err == nil {
		t.Fatal("Insert reported no error for a failed counter update")
	}
	if len(events.types) != 0 {
		t.Fatalf("event recorded after the transaction failed: %v", events.types)
	}
}

func TestCommentLikeToggleAdjustsCounterInTransaction(t *testing.T) {
	runner := &fakeTxRunner{}
	likes := &fakeLikeStore{runner: runner, t: t, changed: true}
	counter := &fakeCounter{runner: runner, t: t}
	remote := &commentLikeRemote{database: runner, likes: likes, comments: counter}

	if err := remote.Insert(context.Background(), 5, 6); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := remote.Delete(context.Background(), 5, 6); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if runner.calls != 2 {
		t.Fatalf("transactions = %d, want 2", runner.calls)
	}
	if len(counter.deltas) != 2 || counter.deltas[0] != 1 || counter.deltas[1] != -1 {
		t.Fatalf("counter deltas = %v, want [1 -1]", counter.deltas)
	}
}
