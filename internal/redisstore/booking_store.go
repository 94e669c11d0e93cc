package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sathwik84/charge-ease-find/internal/models"
)

// Store mirrors open booking sessions into redis for quick inspection.
// The in-memory workflow remains authoritative; entries expire on TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(userID int64) string {
	return fmt.Sprintf("booking:active:%d", userID)
}

// Save caches the session snapshot.
func (s *Store) Save(ctx context.Context, session models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.UserID), data, s.ttl).Err()
}

// Get returns the cached session for a user.
func (s *Store) Get(ctx context.Context, userID int64) (*models.BookingSession, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, err
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete drops the cached session.
func (s *Store) Delete(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
