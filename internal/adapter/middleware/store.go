package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// record is what the store keeps per request key. Pending records hold the
// slot while the handler runs; committed ones carry the response to replay.
type record struct {
	Pending   bool      `json:"pending"`
	Status    int       `json:"status,omitempty"`
	Body      []byte    `json:"body,omitempty"`
	BodyHash  string    `json:"body_hash"`
	RequestID string    `json:"request_id"`
	RequestAt int64     `json:"request_at_ms"`
	StoredAt  time.Time `json:"stored_at"`
}

func (r record) replayable() bool { return !r.Pending && r.Status != 0 && len(r.Body) > 0 }

type replayStore struct {
	rdb     *redis.Client
	lockTTL time.Duration
	ttl     time.Duration
}

func recordKey(method, route, userID, requestID string) string {
	return strings.Join([]string{"goldvault", "idem", strings.ToLower(method), route, userID, requestID}, ":")
}

func hashBody(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// reserve claims key for a pending request. false means someone got there first.
func (s *replayStore) reserve(ctx context.Context, key string, r record) (bool, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, s.lockTTL).Result()
}

func (s *replayStore) load(ctx context.Context, key string) (record, error) {
	var r record
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, fmt.Errorf("decode %s: %w", key, err)
	}
	return r, nil
}

func (s *replayStore) commit(ctx context.Context, key string, r record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s *replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
