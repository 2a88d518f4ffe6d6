package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
)

// Publisher publishes domain events to JetStream
type Publisher struct {
	client *Client
}

var _ ports.EventPublisher = (*Publisher)(nil)

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := p.client.js.Publish(ctx, Subject(event.Type), data)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	logger.DebugContext(ctx, "Event published to JetStream",
		"type", event.Type,
		"entity_id", event.EntityID,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
	)
	return nil
}
