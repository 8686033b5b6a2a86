package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/util"
)

const redisPublishTimeout = 2 * time.Second

// RedisPublisher publishes events as JSON messages on a Redis Pub/Sub channel
// so that other processes (notification workers, live views) can follow changes.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(conf util.RedisConfig) *RedisPublisher {
	var redisTLS *tls.Config
	if conf.TLS {
		redisTLS = &tls.Config{InsecureSkipVerify: conf.TLSSkipVerify} //nolint:gosec
	}

	client := redis.NewClient(&redis.Options{
		Addr:      conf.Addr,
		DB:        conf.DB,
		Password:  conf.Pass,
		Username:  conf.User,
		TLSConfig: redisTLS,
	})

	return NewRedisPublisherWithClient(client, conf.Channel)
}

func NewRedisPublisherWithClient(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = "taskflow:events"
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Channel() string {
	return p.channel
}

func (p *RedisPublisher) Publish(event Event) {
	b, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("cannot encode event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPublishTimeout)
	defer cancel()

	if err = p.client.Publish(ctx, p.channel, string(b)).Err(); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"channel": p.channel,
			"type":    event.Type,
		}).Error("redis publish failed")
	}
}

// Ping verifies the connection, used at startup.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
