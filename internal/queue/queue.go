package queue

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ugorji/go/codec"
)

// Message is one entry on the change feed.
type Message struct {
	Type string `codec:"type"`
	Body []byte `codec:"body"`
}

// Queue is the abstraction over different backends.
type Queue interface {
	Publish(ctx context.Context, msg Message) error
	Consume(ctx context.Context) (<-chan Message, error)
}

// InMemory is a channel-backed queue for a single process.
type InMemory struct {
	ch chan Message
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(size int) *InMemory {
	return &InMemory{ch: make(chan Message, size)}
}

// Publish enqueues a message.
func (q *InMemory) Publish(ctx context.Context, msg Message) error {
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns a channel for workers.
func (q *InMemory) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case msg := <-q.ch:
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// RedisQueue implements a Redis list-backed queue.
type RedisQueue struct {
	client *redis.Client
	key    string
	// block bounds each BRPOP, and with it how long Consume takes to
	// notice a cancelled context.
	block time.Duration
}

// NewRedisQueue builds a queue using LPUSH/BRPOP semantics.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "roster:changes"
	}
	return &RedisQueue{client: client, key: key, block: 5 * time.Second}
}

// Publish enqueues a message.
func (q *RedisQueue) Publish(ctx context.Context, msg Message) error {
	b, err := Encode(msg)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

// Consume streams messages using BRPOP.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, q.block, q.key).Result()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if len(res) != 2 {
				continue
			}
			var msg Message
			if err := Decode([]byte(res[1]), &msg); err != nil {
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

var mh codec.MsgpackHandle

// Encode serializes v as msgpack.
func Encode(v interface{}) ([]byte, error) {
	var b []byte
	err := codec.NewEncoderBytes(&b, &mh).Encode(v)
	return b, err
}

// Decode reads msgpack data into v.
func Decode(data []byte, v interface{}) error {
	return codec.NewDecoderBytes(data, &mh).Decode(v)
}
