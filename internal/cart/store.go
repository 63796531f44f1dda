package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/farmbasket-app/farmbasket-backend/pkg/logger"
	pkgredis "github.com/farmbasket-app/farmbasket-backend/pkg/redis"
)

// ErrStaleSnapshot is returned when a save would overwrite a snapshot with
// a higher version than the one being written.
var ErrStaleSnapshot = errors.New("cart snapshot is stale")

// SnapshotStore persists cart state across restarts. Load reports found
// false for both a missing key and an unreadable snapshot; corruption is
// logged and treated as absent, never surfaced.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) (State, bool, error)
	Save(ctx context.Context, sessionID string, snapshot State) error
}

type snapshotKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(sessionID string) string
}

type redisSnapshotStore struct {
	kv   snapshotKV
	ttl  time.Duration
	logg *logger.Logger
}

// NewRedisSnapshotStore builds the production snapshot store. A zero ttl
// keeps snapshots forever.
func NewRedisSnapshotStore(kv *pkgredis.Client, ttl time.Duration, logg *logger.Logger) (SnapshotStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisSnapshotStore{kv: kv, ttl: ttl, logg: logg}, nil
}

func (s *redisSnapshotStore) Load(ctx context.Context, sessionID string) (State, bool, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return Empty(), false, nil
		}
		return Empty(), false, fmt.Errorf("loading cart snapshot: %w", err)
	}

	var snapshot State
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discarding unreadable cart snapshot")
		}
		return Empty(), false, nil
	}
	return snapshot, true, nil
}

// Save serializes the full state under the session's key. Callers hold the
// per-session lock, so writes arrive in order; the version comparison is a
// backstop against a stale snapshot overwriting a newer one.
func (s *redisSnapshotStore) Save(ctx context.Context, sessionID string, snapshot State) error {
	key := s.kv.CartKey(sessionID)

	if raw, err := s.kv.Get(ctx, key); err == nil {
		var existing struct {
			Version uint64 `json:"version"`
		}
		if json.Unmarshal([]byte(raw), &existing) == nil && existing.Version > snapshot.Version {
			return fmt.Errorf("version %d behind stored %d: %w", snapshot.Version, existing.Version, ErrStaleSnapshot)
		}
	} else if !errors.Is(err, pkgredis.Nil) {
		return fmt.Errorf("checking stored snapshot: %w", err)
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding cart snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, key, string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving cart snapshot: %w", err)
	}
	return nil
}
