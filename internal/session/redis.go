package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lotesmx/leadbot/internal/models"
)

// sessionKeyPrefix namespaces session keys in Redis.
const sessionKeyPrefix = "leadbot:session:"

// RedisOpts holds configuration options for the Redis session store.
type RedisOpts struct {
	Addr     string
	Password string
	DB       int
	IdleTTL  time.Duration
}

// RedisOption defines a configuration option for the Redis session store.
type RedisOption func(*RedisOpts)

// WithAddr sets the Redis server address.
func WithAddr(addr string) RedisOption {
	return func(o *RedisOpts) { o.Addr = addr }
}

// WithPassword sets the Redis password.
func WithPassword(password string) RedisOption {
	return func(o *RedisOpts) { o.Password = password }
}

// WithDB sets the Redis database index.
func WithDB(db int) RedisOption {
	return func(o *RedisOpts) { o.DB = db }
}

// WithRedisIdleTTL sets the per-key expiry applied on every save. Zero keeps
// sessions forever.
func WithRedisIdleTTL(d time.Duration) RedisOption {
	return func(o *RedisOpts) { o.IdleTTL = d }
}

// RedisStore keeps sessions as JSON values in Redis, letting several bot
// instances share dialogue state. Idle expiry rides on the key TTL instead
// of a sweeper.
type RedisStore struct {
	client  *redis.Client
	idleTTL time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(opts ...RedisOption) (*RedisStore, error) {
	cfg := RedisOpts{IdleTTL: DefaultIdleTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address not set")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	slog.Debug("RedisStore connected", "addr", cfg.Addr, "db", cfg.DB, "idle_ttl", cfg.IdleTTL)
	return &RedisStore{client: client, idleTTL: cfg.IdleTTL}, nil
}

// GetOrCreate loads the session for userID, creating a fresh one if the key
// is absent or unreadable.
func (s *RedisStore) GetOrCreate(ctx context.Context, userID string) (*models.Session, error) {
	if userID == "" {
		return nil, models.ErrEmptyUserID
	}

	data, err := s.client.Get(ctx, sessionKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		slog.Debug("RedisStore creating session", "user_id", userID)
		return models.NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session for %s: %w", userID, err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		slog.Warn("RedisStore discarding unreadable session", "error", err, "user_id", userID)
		return models.NewSession(userID), nil
	}
	return &sess, nil
}

// Save serializes the session back to Redis, refreshing the idle TTL.
func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	if sess == nil || sess.UserID == "" {
		return models.ErrEmptyUserID
	}
	sess.Touch()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session for %s: %w", sess.UserID, err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sess.UserID, data, s.idleTTL).Err(); err != nil {
		return fmt.Errorf("redis save session for %s: %w", sess.UserID, err)
	}
	return nil
}

// Reset overwrites the visitor's session with initial values.
func (s *RedisStore) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return models.ErrEmptyUserID
	}
	return s.Save(ctx, models.NewSession(userID))
}

// Stop closes the Redis connection.
func (s *RedisStore) Stop() error {
	return s.client.Close()
}
