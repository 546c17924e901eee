package events

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisConfig addresses the Redis server that receives status events.
// An empty Addr disables Redis publishing.
type RedisConfig struct {
	Addr     string `toml:"addr" validate:"omitempty,hostname_port"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0"`
	Channel  string `toml:"channel" validate:"required"`
}

// DefaultRedisConfig returns a disabled configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{Channel: "docscan:status"}
}

// Enabled reports whether an address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// Redis publishes events as JSON on a Redis pub/sub channel.
type Redis struct {
	client  redisPublisher
	channel string
	log     *logrus.Entry
}

// NewRedis connects to the configured server. An unreachable server is
// logged, not fatal: events are best effort.
func NewRedis(cfg RedisConfig, log *logrus.Entry) *Redis {
	log.Infof("Connecting to Redis at %s...", cfg.Addr)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.WithError(err).Warn("Failed to connect to Redis, status events may be lost")
	} else {
		log.Info("Successfully connected to Redis")
	}

	return &Redis{client: client, channel: cfg.Channel, log: log}
}

// Publish sends e to the channel.
func (r *Redis) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	receivers, err := r.client.Publish(ctx, r.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", r.channel, err)
	}
	r.log.WithFields(logrus.Fields{"state": e.State, "receivers": receivers}).Debug("status published")
	return nil
}

// Close releases the connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
