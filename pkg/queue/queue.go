// Package queue provides the Redis-backed queue of pending sync requests.
// Producers push a SyncRequest; the worker consumes with BLPop and runs the
// sync engine for the requested connection.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// DefaultQueue is the list key pending sync requests are pushed onto.
const DefaultQueue = "flowsight:sync:pending"

// SyncRequest is one queued ask to sync a connection.
type SyncRequest struct {
	ConnectionID string    `json:"connection_id"`
	RequestedAt  time.Time `json:"requested_at"`
}

// Handler processes one dequeued sync request.
type Handler func(ctx context.Context, request SyncRequest) error

type Consumer struct {
	Queue string

	client  redis.UniversalClient
	handler Handler
	logger  *slog.Logger
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewConsumer(redisURL, queue string, logger *slog.Logger) (*Consumer, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &Consumer{
		Queue:  queue,
		client: redis.NewClient(opts),
		stopCh: make(chan struct{}),
		logger: logger.With("module", "sync_queue", "queue", queue),
	}, nil
}

func (c *Consumer) Start(ctx context.Context, handler Handler) error {
	c.handler = handler

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.client.Ping(pingCtx).Err()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c.logger.InfoContext(ctx, "Starting sync queue consumer")

	c.wg.Add(1)

	go c.consume(ctx)

	return nil
}

func (c *Consumer) consume(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopCh:
			c.logger.InfoContext(ctx, "Queue consumer stopped")

			return
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Context cancelled, stopping queue consumer")

			return
		default:
			err := c.processMessage(ctx)
			if err != nil {
				c.logger.ErrorContext(ctx, "Error processing message", "error", err)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context) error {
	result, err := c.client.BLPop(ctx, 1*time.Second, c.Queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return fmt.Errorf("failed to pop message from queue: %w", err)
	}

	if len(result) < 2 {
		return nil
	}

	var request SyncRequest
	if err := json.Unmarshal([]byte(result[1]), &request); err != nil {
		return fmt.Errorf("malformed sync request: %w", err)
	}

	if request.ConnectionID == "" {
		return errors.New("sync request missing connection_id")
	}

	if request.RequestedAt.IsZero() {
		request.RequestedAt = time.Now().UTC()
	}

	c.logger.InfoContext(ctx, "Received sync request",
		"connection_id", request.ConnectionID)

	err = c.handler(ctx, request)
	if err != nil {
		c.logger.ErrorContext(ctx, "Sync request failed",
			"connection_id", request.ConnectionID, "error", err)
	}

	return nil
}

func (c *Consumer) Stop(ctx context.Context) error {
	c.logger.InfoContext(ctx, "Stopping sync queue consumer")

	close(c.stopCh)
	c.wg.Wait()

	if c.client != nil {
		err := c.client.Close()
		if err != nil {
			c.logger.ErrorContext(ctx, "Error closing Redis client", "error", err)
		}
	}

	return nil
}

// Producer pushes sync requests onto the queue. Used by the HTTP API to hand
// manual sync asks to the worker.
type Producer struct {
	Queue string

	client redis.UniversalClient
	logger *slog.Logger
}

func NewProducer(redisURL, queue string, logger *slog.Logger) (*Producer, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &Producer{
		Queue:  queue,
		client: redis.NewClient(opts),
		logger: logger.With("module", "sync_queue", "queue", queue),
	}, nil
}

func (p *Producer) Enqueue(ctx context.Context, connectionID string) error {
	payload, err := json.Marshal(SyncRequest{
		ConnectionID: connectionID,
		RequestedAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	err = p.client.RPush(ctx, p.Queue, payload).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue sync request: %w", err)
	}

	p.logger.InfoContext(ctx, "Enqueued sync request", "connection_id", connectionID)

	return nil
}

func (p *Producer) Close() error {
	return p.client.Close()
}
