// Package memqueue is an in-process message queue with the same ports as the
// kafka adapters. Messages are lost on restart.
package memqueue

import (
	"context"
	"errors"
	"sync"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

var ErrClosed = errors.New("memqueue: closed")

// Queue senders hold mu for reading while they send, so Close never closes a
// channel under a pending send. done releases senders blocked on a full topic.
type Queue struct {
	mu        sync.RWMutex
	topics    map[string]chan domain.Message
	size      int
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

func New(bufferSize int) *Queue {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &Queue{
		topics: make(map[string]chan domain.Message),
		size:   bufferSize,
		done:   make(chan struct{}),
	}
}

func (q *Queue) topic(name string) (chan domain.Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrClosed
	}
	ch, ok := q.topics[name]
	if !ok {
		ch = make(chan domain.Message, q.size)
		q.topics[name] = ch
	}
	return ch, nil
}

// Publish blocks while the topic buffer is full. It returns ErrClosed if
// the queue closes first; messages sent before that are kept.
func (q *Queue) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	ch, err := q.topic(topic)
	if err != nil {
		return err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	for _, m := range msgs {
		select {
		case ch <- m:
		case <-q.done:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Consume delivers messages one at a time until ctx is done or the queue is
// closed. The group id is ignored: every topic has a single consumer group.
func (q *Queue) Consume(ctx context.Context, topic, _ string, handle domain.MessageHandler) error {
	ch, err := q.topic(topic)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			_ = handle(ctx, m)
		}
	}
}

// Close stops consumers once the buffered messages are drained.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() { close(q.done) })

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	for _, ch := range q.topics {
		close(ch)
	}
	return nil
}
