// Package redis implements the db interfaces on Redis Stack or Redis 8 with
// the search module, through rueidis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/cvdex/internal/db"
)

var _ db.Store = (*Store)(nil)

const readinessPollInterval = 100 * time.Millisecond

// Config holds connection parameters.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store is the rueidis-backed chunk store and embedding cache.
type Store struct {
	client rueidis.Client
}

// NewStore dials lazily; use WaitForReady to block until the server answers.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}
	client, err := rueidis.NewClient(clientOption(cfg))
	if err != nil {
		return nil, fmt.Errorf("redis: create client: %w", err)
	}
	return &Store{client: client}, nil
}

func clientOption(cfg Config) rueidis.ClientOption {
	return rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   "cvdex",
		DisableCache: true,
		// FT.SEARCH and FT.AGGREGATE replies are parsed as RESP2 arrays.
		AlwaysRESP2: true,
	}
}

// Ping issues PING.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady pings at once, then every readinessPollInterval until a PONG or timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lastErr := s.Ping(ctx)
	if lastErr == nil {
		return nil
	}

	ticker := time.NewTicker(readinessPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis not ready after %s: %w (last error: %v)", timeout, ctx.Err(), lastErr)
		case <-ticker.C:
			if lastErr = s.Ping(ctx); lastErr == nil {
				return nil
			}
		}
	}
}

// Close releases the connection pool.
func (s *Store) Close() { s.client.Close() }

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder { return s.client.B() }

// isRedisErr reports whether err is a server error reply containing substr, ignoring case.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	return ok && strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
