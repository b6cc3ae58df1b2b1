package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error)
}

type redisRepository struct {
	client *redis.Client
	cfg    config.RateConfig
	now    func() time.Time
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	slog.Info("Connecting to Redis", slog.String("url", fmt.Sprintf("redis://%s:<password>@%s:%s", cfg.RedisConnect.Username, cfg.RedisConnect.Host, cfg.RedisConnect.Port)))

	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Successfully connected to Redis")

	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg config.RateConfig) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg, now: time.Now}
}

func loginAttemptsKey(email string) string {
	return "login_attempts:" + email
}

// CheckLoginRateLimit records an attempt in a sorted set keyed by email and
// returns isAllowed, attempts left and seconds to wait.
func (r *redisRepository) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	key := loginAttemptsKey(email)
	at := r.now()
	now := at.Unix()
	window := int64(r.cfg.WindowSize.Seconds())
	windowStart := now - window

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: at.UnixNano()})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()

	if attempts > r.cfg.MaxAttempts {
		scores, err := r.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).Result()
		if err != nil || len(scores) == 0 {
			return false, 0, int(window), fmt.Errorf("failed to get oldest attempt time: %w", err)
		}

		retryAfter := max(int64(scores[0].Score)+window-now, 1)

		return false, 0, int(retryAfter), nil
	}

	return true, int(r.cfg.MaxAttempts - attempts), 0, nil
}
