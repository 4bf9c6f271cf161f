// Package session provides Redis-backed login sessions and flash messages.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

const (
	// sessionKeyPrefix is the Redis key prefix for login sessions.
	sessionKeyPrefix = "sess:"
	// flashKeyPrefix is the Redis key prefix for flash message lists.
	flashKeyPrefix = "flash:"
	// flashTTL bounds how long an unread flash message survives.
	flashTTL = time.Hour
)

// Store provides Redis-backed session access methods.
type Store struct {
	client      *redis.Client
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

// NewStore creates a new Store with a Redis client.
func NewStore(ctx context.Context, redisURL string, sessionTTL, rememberTTL time.Duration) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Store{
		client:      client,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
	}, nil
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Client returns the underlying Redis client.
// Use sparingly - prefer adding methods to Store.
func (s *Store) Client() *redis.Client {
	return s.client
}

// Session represents an authenticated login session.
type Session struct {
	Token    string `json:"-"`
	UserID   string `json:"user_id"`
	Remember bool   `json:"remember"`
}

// TTL returns the lifetime this session was created with.
func (s *Store) TTL(remember bool) time.Duration {
	if remember {
		return s.rememberTTL
	}
	return s.sessionTTL
}

// Create establishes a new session for the user and returns it.
// The remember flag selects the long-lived TTL.
func (s *Store) Create(ctx context.Context, userID string, remember bool) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	sess := &Session{Token: token, UserID: userID, Remember: remember}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, data, s.TTL(remember)).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return sess, nil
}

// Get retrieves a session by token.
// Returns nil if the session does not exist or has expired.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		// Missing session is not an error
		return nil, nil //nolint:nilerr
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupted entry - treat as missing
		return nil, nil //nolint:nilerr
	}
	sess.Token = token

	return &sess, nil
}

// Destroy invalidates a session. Destroying an absent session is a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

// Flash is a one-shot user-facing status message shown on the next page.
type Flash struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// PushFlash queues a flash message for the visitor identified by token.
func (s *Store) PushFlash(ctx context.Context, token, message, category string) error {
	data, err := json.Marshal(Flash{Message: message, Category: category})
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}

	key := flashKeyPrefix + token
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("push flash: %w", err)
	}

	return s.client.Expire(ctx, key, flashTTL).Err()
}

// PopFlashes drains and returns all queued flash messages for the visitor.
func (s *Store) PopFlashes(ctx context.Context, token string) ([]Flash, error) {
	key := flashKeyPrefix + token

	pipe := s.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pop flashes: %w", err)
	}

	raw := rangeCmd.Val()
	flashes := make([]Flash, 0, len(raw))
	for _, entry := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(entry), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}

	return flashes, nil
}

// newToken generates an unguessable session token.
// ULID prefix keeps tokens sortable by creation time in debugging.
func newToken() (string, error) {
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}
	return ulid.Make().String() + "." + hex.EncodeToString(secret), nil
}
