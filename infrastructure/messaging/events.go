package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/ports"
)

// Fanout hands every event to each of its publishers. One failing
// publisher does not stop the others; their errors are joined.
type Fanout struct {
	publishers []ports.EventPublisher
}

var _ ports.EventPublisher = (*Fanout)(nil)

func NewFanout(publishers ...ports.EventPublisher) *Fanout {
	return &Fanout{publishers: publishers}
}

func (f *Fanout) Publish(ctx context.Context, event ports.DomainEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, ports.DomainEvent) error {
	return nil
}
