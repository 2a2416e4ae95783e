package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portfolio/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultChannel = "portfolio:changes"

// NewRedisClient подключается к Redis по URL и проверяет соединение.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// RedisBridge пересылает изменения между экземплярами через Redis Pub/Sub.
// Свои же изменения (тот же Origin) повторно не доставляются.
type RedisBridge struct {
	client  *redis.Client
	hub     *Hub
	channel string
	pubsub  *redis.PubSub
	done    chan struct{}
}

func NewRedisBridge(client *redis.Client, hub *Hub) *RedisBridge {
	return &RedisBridge{
		client:  client,
		hub:     hub,
		channel: defaultChannel,
		done:    make(chan struct{}),
	}
}

// Start подписывается на канал и начинает пересылку в обе стороны.
func (b *RedisBridge) Start(ctx context.Context) error {
	b.pubsub = b.client.Subscribe(ctx, b.channel)
	if _, err := b.pubsub.Receive(ctx); err != nil {
		_ = b.pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	b.hub.Forward(b.publish)

	go b.loop(b.pubsub.Channel())
	logger.Log.Info("realtime: redis-мост запущен", zap.String("channel", b.channel), zap.String("origin", b.hub.Origin()))
	return nil
}

func (b *RedisBridge) publish(c Change) {
	raw, err := json.Marshal(c)
	if err != nil {
		logger.Log.Error("realtime: не удалось сериализовать изменение", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		logger.Log.Warn("realtime: публикация в redis не удалась",
			zap.String("collection", c.Collection), zap.String("id", c.ID), zap.Error(err))
	}
}

func (b *RedisBridge) loop(ch <-chan *redis.Message) {
	defer close(b.done)
	for msg := range ch {
		var c Change
		if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
			logger.Log.Warn("realtime: битое сообщение из redis", zap.Error(err))
			continue
		}
		if c.Origin == b.hub.Origin() {
			continue
		}
		b.hub.Deliver(c)
	}
}

// Close отписывается от канала и дожидается остановки цикла.
func (b *RedisBridge) Close() error {
	if b.pubsub == nil {
		return nil
	}
	err := b.pubsub.Close()
	<-b.done
	return err
}
