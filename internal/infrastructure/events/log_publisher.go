package events

import (
	"context"
	"sync"

	"eventhub/pkg/logger"
)

// LogPublisher writes events to the log instead of a broker. It keeps the
// events it has seen so callers can inspect them.
type LogPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()

	logger.Debug("event %s: %+v", event.Type, event.Payload)
	return nil
}

// Events returns a copy of everything published so far.
func (p *LogPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// Types lists the published event types in order.
func (p *LogPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

func (p *LogPublisher) Close() error {
	return nil
}
