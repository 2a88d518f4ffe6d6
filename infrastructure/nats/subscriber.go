package nats

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
)

// Subscriber relays events seen on the bus to a local publisher, so every
// API instance's websocket clients hear about changes made on any instance.
type Subscriber struct {
	conn      *nats.Conn
	sub       *nats.Subscription
	target    ports.EventPublisher
	running   bool
	runningMu sync.Mutex
}

func NewSubscriber(conn *nats.Conn, target ports.EventPublisher) *Subscriber {
	return &Subscriber{conn: conn, target: target}
}

func (s *Subscriber) Start() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return nil
	}

	sub, err := s.conn.Subscribe(SubjectEvents+".>", s.handleMessage)
	if err != nil {
		return err
	}
	s.sub = sub
	s.running = true

	logger.Info("NATS event relay started", "subject", SubjectEvents+".>")
	return nil
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	var event ports.DomainEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to parse event", "subject", msg.Subject, "error", err)
		return
	}
	if event.Room == "" {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Event relay panicked", "type", event.Type, "error", r)
		}
	}()
	if err := s.target.Publish(context.Background(), event); err != nil {
		logger.Warn("Failed to relay event", "type", event.Type, "error", err)
	}
}

func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", "error", err)
		}
	}

	logger.Info("NATS event relay stopped")
	return nil
}
