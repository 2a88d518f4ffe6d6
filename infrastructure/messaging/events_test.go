package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f2expert/f2expert-sub001/domain/ports"
)

type recorder struct {
	events []ports.DomainEvent
	err    error
}

func (r *recorder) Publish(ctx context.Context, event ports.DomainEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func TestFanout_DeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("bus down")
	failing := &recorder{err: boom}
	healthy := &recorder{}

	err := NewFanout(failing, healthy, Noop{}).Publish(context.Background(), ports.DomainEvent{Type: ports.EventClassCreated})

	assert.ErrorIs(t, err, boom)
	assert.Len(t, failing.events, 1)
	if assert.Len(t, healthy.events, 1) {
		assert.False(t, healthy.events[0].OccurredAt.IsZero())
	}
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, NewFanout().Publish(context.Background(), ports.DomainEvent{}))
}
