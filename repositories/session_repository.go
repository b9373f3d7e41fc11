package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-api/config"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/go-redis/redis/v8"
	"github.com/karlseguin/ccache/v3"
	"github.com/sirupsen/logrus"
)

// SessionRepository guarda los refresh tokens revocados (por jti) hasta que vencen.
// No es un cache de lectura: una entrada presente significa "este token ya no sirve".
type SessionRepository interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}

const (
	revokedKeyPrefix = "revoked:"
	localMaxSize     = 10000
	// Memcached interpreta expiraciones mayores a 30 días como timestamp unix
	memcachedMaxTTL = 30 * 24 * time.Hour
)

func revokedKey(jti string) string {
	return revokedKeyPrefix + jti
}

// NewSessionRepository elige el backend según SESSION_STORE: memory, memcached o redis
func NewSessionRepository(cfg *config.Config, logger *logrus.Logger) (SessionRepository, error) {
	switch cfg.SessionStore {
	case "", "memory":
		logger.Info("Session store initialized in memory")
		return NewMemorySessionRepository(), nil
	case "memcached":
		logger.WithField("host", cfg.MemcachedHost).Info("Session store initialized with Memcached")
		return NewMemcachedSessionRepository(cfg.MemcachedHost, logger), nil
	case "redis":
		repo, err := NewRedisSessionRepository(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.WithField("url", cfg.RedisURL).Info("Session store initialized with Redis")
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", cfg.SessionStore)
	}
}

// memorySessionRepository sirve para una sola instancia (y para tests)
type memorySessionRepository struct {
	cache *ccache.Cache[bool]
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		cache: ccache.New(ccache.Configure[bool]().MaxSize(localMaxSize)),
	}
}

func (r *memorySessionRepository) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	r.cache.Set(revokedKey(jti), true, ttl)
	return nil
}

func (r *memorySessionRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	item := r.cache.Get(revokedKey(jti))
	return item != nil && !item.Expired(), nil
}

func (r *memorySessionRepository) Close() error {
	r.cache.Stop()
	return nil
}

// memcachedSessionRepository tiene dos niveles: ccache local y Memcached compartido
type memcachedSessionRepository struct {
	localCache      *ccache.Cache[bool]
	memcachedClient *memcache.Client
	logger          *logrus.Logger
}

func NewMemcachedSessionRepository(memcachedHost string, logger *logrus.Logger) SessionRepository {
	return &memcachedSessionRepository{
		localCache:      ccache.New(ccache.Configure[bool]().MaxSize(localMaxSize)),
		memcachedClient: memcache.New(memcachedHost),
		logger:          logger,
	}
}

// Revoke escribe en los dos niveles con el mismo TTL
func (r *memcachedSessionRepository) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	key := revokedKey(jti)
	r.localCache.Set(key, true, ttl)

	if ttl > memcachedMaxTTL {
		ttl = memcachedMaxTTL
	}
	item := &memcache.Item{
		Key:        key,
		Value:      []byte("1"),
		Expiration: int32(ttl.Seconds()),
	}
	if err := r.memcachedClient.Set(item); err != nil {
		return fmt.Errorf("error revoking session in memcached: %w", err)
	}

	r.logger.WithField("key", key).Debug("Session revoked (local + memcached)")
	return nil
}

// IsRevoked busca primero en el nivel local y después en Memcached
func (r *memcachedSessionRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	key := revokedKey(jti)

	if item := r.localCache.Get(key); item != nil && !item.Expired() {
		return true, nil
	}

	_, err := r.memcachedClient.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading session from memcached: %w", err)
	}

	// No conocemos el TTL restante; alcanza con recordarlo un rato en local
	r.localCache.Set(key, true, 5*time.Minute)
	return true, nil
}

func (r *memcachedSessionRepository) Close() error {
	r.localCache.Stop()
	return nil
}

type redisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository acepta una URL redis:// o un host:puerto
func NewRedisSessionRepository(redisURL string) (SessionRepository, error) {
	options := &redis.Options{Addr: redisURL}
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		options = parsed
	}
	return &redisSessionRepository{client: redis.NewClient(options)}, nil
}

func (r *redisSessionRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, revokedKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("error revoking session in redis: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("error reading session from redis: %w", err)
	}
	return n > 0, nil
}

func (r *redisSessionRepository) Close() error {
	return r.client.Close()
}
