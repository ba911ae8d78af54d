// Package presence provides Redis-backed store-and-forward for topic
// broadcast frames, so a participant who reconnects to a topic after a
// brief absence can catch up on what it missed.
package presence

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Store queues opaque wire frames per topic name until they are drained.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func key(topic string) string {
	return "stringphone:backlog:" + topic
}

// Enqueue appends frame to topic's backlog.
func (s *Store) Enqueue(ctx context.Context, topic string, frame []byte) error {
	return s.rdb.RPush(ctx, key(topic), frame).Err()
}

// Drain returns and deletes every backlogged frame for topic.
func (s *Store) Drain(ctx context.Context, topic string) ([][]byte, error) {
	k := key(topic)
	vals, err := s.rdb.LRange(ctx, k, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}
	if err := s.rdb.Del(ctx, k).Err(); err != nil {
		return nil, err
	}

	frames := make([][]byte, len(vals))
	for i, v := range vals {
		frames[i] = []byte(v)
	}
	return frames, nil
}
