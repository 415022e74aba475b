package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) *replayStore {
	t.Helper()
	mr, rdb := newMiniredisClient(t)
	t.Cleanup(mr.Close)
	return &replayStore{rdb: rdb, lockTTL: pendingLockTTL, ttl: ttl}
}

func Test_hashBody(t *testing.T) {
	sum := sha256.Sum256([]byte("hello world"))
	if got, want := hashBody([]byte("hello world")), hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("hashBody = %s, want %s", got, want)
	}
}

func Test_recordKey(t *testing.T) {
	k := recordKey("POST", "/loans", strings.Repeat("b", 32), "req-1")
	if want := "goldvault:idem:post:/loans:" + strings.Repeat("b", 32) + ":req-1"; k != want {
		t.Fatalf("recordKey = %q, want %q", k, want)
	}
}

func Test_reserve_IsExclusive(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()
	r := record{Pending: true, BodyHash: hashBody([]byte(`{"a":1}`)), RequestID: "req-1", StoredAt: nowUTC()}

	ok, err := s.reserve(ctx, "k", r)
	if err != nil || !ok {
		t.Fatalf("first reserve: ok=%v err=%v", ok, err)
	}
	if ttl := s.rdb.TTL(ctx, "k").Val(); ttl <= 0 || ttl > pendingLockTTL {
		t.Fatalf("pending TTL = %v", ttl)
	}
	ok, err = s.reserve(ctx, "k", r)
	if err != nil {
		t.Fatalf("second reserve err: %v", err)
	}
	if ok {
		t.Fatal("second reserve should lose")
	}

	got, err := s.load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Pending || got.RequestID != "req-1" || got.BodyHash != r.BodyHash || got.replayable() {
		t.Fatalf("loaded %+v", got)
	}
}

func Test_commit_ThenLoad(t *testing.T) {
	s := newTestStore(t, 5*time.Second)
	ctx := context.Background()
	final := record{Status: 201, Body: []byte(`{"ok":true}`), BodyHash: "h", RequestID: "req-1", StoredAt: nowUTC()}

	if err := s.commit(ctx, "k", final); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if ttl := s.rdb.TTL(ctx, "k").Val(); ttl <= 0 || ttl > 5*time.Second {
		t.Fatalf("final TTL = %v", ttl)
	}
	got, err := s.load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.replayable() || got.Status != 201 || string(got.Body) != `{"ok":true}` {
		t.Fatalf("loaded %+v", got)
	}
}

func Test_release_FreesKey(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()
	if ok, err := s.reserve(ctx, "k", record{Pending: true}); err != nil || !ok {
		t.Fatalf("reserve: ok=%v err=%v", ok, err)
	}
	if err := s.release(ctx, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := s.load(ctx, "k"); !errors.Is(err, redis.Nil) {
		t.Fatalf("load after release err = %v, want redis.Nil", err)
	}
	if ok, _ := s.reserve(ctx, "k", record{Pending: true}); !ok {
		t.Fatal("reserve after release should win")
	}
}

func Test_load_CorruptRecord(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()
	if err := s.rdb.Set(ctx, "k", "{not json", 0).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := s.load(ctx, "k"); err == nil {
		t.Fatal("expected decode error")
	}
}
