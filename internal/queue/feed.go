package queue

import (
	"context"
	"log"
	"time"

	"roster/internal/roster"
)

// Feed publishes committed roster changes onto a queue. Publishing is best
// effort: a slow or failing backend never holds up the operator.
type Feed struct {
	q       Queue
	timeout time.Duration
}

// NewFeed wraps q as a roster.Notifier.
func NewFeed(q Queue, timeout time.Duration) *Feed {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &Feed{q: q, timeout: timeout}
}

// Notify implements roster.Notifier.
func (f *Feed) Notify(c roster.Change) {
	body, err := Encode(c.Record)
	if err != nil {
		log.Printf("encode %s for %s failed: %v", c.Kind, c.Record.ID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	if err := f.q.Publish(ctx, Message{Type: string(c.Kind), Body: body}); err != nil {
		log.Printf("publish %s for %s failed: %v", c.Kind, c.Record.ID, err)
	}
}

// DecodeChange turns a feed message back into a roster change.
func DecodeChange(msg Message) (roster.Change, error) {
	var rec roster.Record
	if err := Decode(msg.Body, &rec); err != nil {
		return roster.Change{}, err
	}
	return roster.Change{Kind: roster.ChangeKind(msg.Type), Record: rec}, nil
}

// LogChanges drains msgs and logs each change until the channel closes.
func LogChanges(msgs <-chan Message, logger *log.Logger) {
	for msg := range msgs {
		c, err := DecodeChange(msg)
		if err != nil {
			logger.Printf("bad %s message: %v", msg.Type, err)
			continue
		}
		logger.Printf("%s id=%s %s", c.Kind, c.Record.ID, c.Record)
	}
}
