package oauth

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/internal/config"
)

// State is one pending authorization handshake. The nonce round-trips
// through the vendor and must come back before ExpiresAt, once.
type State struct {
	Nonce     string       `json:"nonce"`
	EventID   snowflake.ID `json:"event_id"`
	Provider  string       `json:"provider"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// StateStore holds pending handshakes. TakeIfValid consumes: a nonce
// can be redeemed at most once regardless of concurrent callbacks.
type StateStore interface {
	Put(ctx context.Context, state State) error
	TakeIfValid(ctx context.Context, nonce, provider string) (State, bool, error)
}

// NewStateStore selects the backend from configuration. Memory serves
// single-instance deployments; redis is for anything behind a load
// balancer.
func NewStateStore(cfg config.Config, clk clock.Clock) (StateStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.OAuthStateStore)) {
	case "", "memory":
		return NewMemoryStateStore(clk), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		return NewRedisStateStore(client, clk), nil
	}
	return nil, ErrProviderNotFound
}

type memoryStateStore struct {
	mu     sync.Mutex
	states map[string]State
	clock  clock.Clock
}

func NewMemoryStateStore(clk clock.Clock) StateStore {
	return &memoryStateStore{
		states: make(map[string]State),
		clock:  clk,
	}
}

func (s *memoryStateStore) Put(ctx context.Context, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Opportunistic sweep keeps abandoned handshakes from piling up.
	now := s.clock.Now()
	for nonce, pending := range s.states {
		if now.After(pending.ExpiresAt) {
			delete(s.states, nonce)
		}
	}

	s.states[state.Nonce] = state
	return nil
}

func (s *memoryStateStore) TakeIfValid(ctx context.Context, nonce, provider string) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[nonce]
	if !ok {
		return State{}, false, nil
	}
	delete(s.states, nonce)

	if s.clock.Now().After(state.ExpiresAt) {
		return State{}, false, nil
	}
	if state.Provider != provider {
		return State{}, false, nil
	}
	return state, true, nil
}

type redisStateStore struct {
	client *redis.Client
	clock  clock.Clock
}

func NewRedisStateStore(client *redis.Client, clk clock.Clock) StateStore {
	return &redisStateStore{client: client, clock: clk}
}

func (s *redisStateStore) key(nonce string) string {
	return "oauth:state:" + nonce
}

func (s *redisStateStore) Put(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}

	ttl := state.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.key(state.Nonce), payload, ttl).Err()
}

func (s *redisStateStore) TakeIfValid(ctx context.Context, nonce, provider string) (State, bool, error) {
	// GETDEL makes redemption atomic across instances.
	payload, err := s.client.GetDel(ctx, s.key(nonce)).Result()
	if err == redis.Nil {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}

	var state State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return State{}, false, nil
	}
	if s.clock.Now().After(state.ExpiresAt) {
		return State{}, false, nil
	}
	if state.Provider != provider {
		return State{}, false, nil
	}
	return state, true, nil
}
