package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// setScript writes a field and reports whether its value changed.
const setScript = `
	local old = redis.call("hget", KEYS[1], ARGV[1])
	redis.call("hset", KEYS[1], ARGV[1], ARGV[2])
	if old == ARGV[2] then
		return 0
	end
	return 1
`

// Store implements ports.StateStore using a Redis hash for the states and
// one pub/sub channel per requirement for change notifications.
// Processes sharing a Redis instance see each other's requirement changes.
type Store struct {
	client *backend.Client
	prefix string
}

var _ ports.StateStore = (*Store)(nil)

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "wayfinder:requirements:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) statesKey() string {
	return s.prefix + "states"
}

func (s *Store) channel(id domain.RequirementIdentifier) string {
	return s.prefix + "changed:" + string(id)
}

func encode(satisfied bool) string {
	if satisfied {
		return "1"
	}
	return "0"
}

// IsSatisfied reads the recorded state.
func (s *Store) IsSatisfied(ctx context.Context, id domain.RequirementIdentifier) (bool, error) {
	val, err := s.client.HGet(ctx, s.statesKey(), string(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return false, ports.ErrStateNotFound
		}
		return false, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val == "1", nil
}

// SetSatisfied records the state and publishes a notification when it changed.
func (s *Store) SetSatisfied(ctx context.Context, id domain.RequirementIdentifier, satisfied bool) error {
	changed, err := s.client.Eval(ctx, setScript, []string{s.statesKey()}, string(id), encode(satisfied)).Int()
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	if changed == 0 {
		return nil
	}
	return s.publish(ctx, id)
}

// Delete forgets the state.
func (s *Store) Delete(ctx context.Context, id domain.RequirementIdentifier) error {
	removed, err := s.client.HDel(ctx, s.statesKey(), string(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	if removed == 0 {
		return nil
	}
	return s.publish(ctx, id)
}

func (s *Store) publish(ctx context.Context, id domain.RequirementIdentifier) error {
	if err := s.client.Publish(ctx, s.channel(id), string(id)).Err(); err != nil {
		return fmt.Errorf("failed to publish requirement change: %w", err)
	}
	return nil
}

// List returns every recorded state.
func (s *Store) List(ctx context.Context) (map[domain.RequirementIdentifier]bool, error) {
	values, err := s.client.HGetAll(ctx, s.statesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list requirement states: %w", err)
	}

	states := make(map[domain.RequirementIdentifier]bool, len(values))
	for id, val := range values {
		states[domain.RequirementIdentifier(id)] = val == "1"
	}
	return states, nil
}

// Watch subscribes to the change channel of id. The subscription is active
// when Watch returns. Notifications coalesce while the receiver is busy.
func (s *Store) Watch(ctx context.Context, id domain.RequirementIdentifier) (<-chan struct{}, error) {
	pubsub := s.client.Subscribe(ctx, s.channel(id))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to requirement changes: %w", err)
	}

	out := make(chan struct{}, 1)
	messages := pubsub.Channel()

	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
