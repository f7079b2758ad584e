package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"shapeCaptcha/internal/challenge"
)

func storeConfig() challenge.Config {
	cfg := challenge.DefaultConfig()
	cfg.MoveInterval = time.Hour
	return cfg
}

func TestStoreCreateGetDelete(t *testing.T) {
	st := NewStore(storeConfig())
	id, sess := st.Create()
	if id == "" || sess == nil {
		t.Fatal("Create returned nothing")
	}
	got, ok := st.Get(id)
	if !ok || got != sess {
		t.Fatal("Get did not return the created session")
	}
	if _, ok := st.Get("nope"); ok {
		t.Fatal("Get found an unknown id")
	}
	st.Delete(id)
	if _, ok := st.Get(id); ok || st.Len() != 0 {
		t.Fatal("Delete left the session behind")
	}
	if sess.Relocating() {
		t.Fatal("deleted session still relocating")
	}
}

func TestStoreSweep(t *testing.T) {
	st := NewStore(storeConfig())
	now := time.Unix(1000, 0)
	st.now = func() time.Time { return now }

	oldID, old := st.Create()
	now = now.Add(10 * time.Minute)
	freshID, _ := st.Create()

	if n := st.Sweep(5 * time.Minute); n != 1 {
		t.Fatalf("expected 1 swept, got %d", n)
	}
	if _, ok := st.Get(oldID); ok {
		t.Fatal("idle session survived")
	}
	if _, ok := st.Get(freshID); !ok {
		t.Fatal("fresh session swept")
	}
	if err := old.Capture(BlackFrame(4, 4)); !errors.Is(err, challenge.ErrClosed) {
		t.Fatalf("swept session not closed: %v", err)
	}
}

func TestStoreJanitorClosesOnShutdown(t *testing.T) {
	st := NewStore(storeConfig())
	st.Create()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Janitor(ctx, time.Hour, nil)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
	if st.Len() != 0 {
		t.Fatal("janitor left sessions open on shutdown")
	}
}

func TestStoreSweepSparesWatchedAndTouched(t *testing.T) {
	st := NewStore(storeConfig())
	now := time.Unix(1000, 0)
	st.now = func() time.Time { return now }

	watchedID, watched := st.Create()
	touchedID, _ := st.Create()
	idleID, _ := st.Create()
	unsubscribe := watched.Subscribe(func(challenge.Snapshot) {})

	now = now.Add(10 * time.Minute)
	st.Touch(touchedID)
	st.Touch("nope")
	now = now.Add(10 * time.Minute)

	if n := st.Sweep(15 * time.Minute); n != 1 {
		t.Fatalf("expected only the idle session swept, got %d", n)
	}
	for _, id := range []string{watchedID, touchedID} {
		if _, ok := st.Get(id); !ok {
			t.Fatalf("session %s swept", id)
		}
	}
	if _, ok := st.Get(idleID); ok {
		t.Fatal("idle session survived")
	}

	unsubscribe()
	now = now.Add(20 * time.Minute)
	if n := st.Sweep(15 * time.Minute); n != 2 {
		t.Fatalf("expected both sessions swept once idle, got %d", n)
	}
	select {
	case <-watched.Done():
	default:
		t.Fatal("swept session not closed")
	}
}

func TestStoreJanitorTinyTTL(t *testing.T) {
	st := NewStore(storeConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Janitor(ctx, time.Nanosecond, nil)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
