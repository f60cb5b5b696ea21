package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/pkg/config"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// New connects the queue selected by cfg.Driver ("nats", "rabbitmq" or "none").
func New(cfg config.QueueConfig, log *zap.Logger) (MessageQueue, error) {
	switch cfg.Driver {
	case "nats":
		return NewNATSQueue(cfg, log)
	case "rabbitmq":
		return NewRabbitMQQueue(cfg, log)
	case "", "none":
		log.Info("Event queue disabled")
		return NoopQueue{}, nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}

// NoopQueue drops everything published to it.
type NoopQueue struct{}

func (NoopQueue) Publish(string, []byte) error                  { return nil }
func (NoopQueue) Subscribe(string, func(data []byte) error) error { return nil }
func (NoopQueue) Close() error                                  { return nil }
