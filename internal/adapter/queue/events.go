package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	SubjectUserRegistered = "user.registered"
	SubjectOrderCreated   = "order.created"
)

// Event is the envelope for everything published by the API.
type Event struct {
	ID         string          `json:"id"`
	Subject    string          `json:"subject"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type UserRegistered struct {
	UserID  string `json:"userId"`
	EmailID string `json:"emailId"`
	Role    string `json:"role"`
}

type OrderCreated struct {
	OrderID       string `json:"orderId"`
	CustomerID    string `json:"customerId"`
	ItemCount     int    `json:"itemCount"`
	DropAddressNo int    `json:"dropAddressNo"`
}

// PublishEvent wraps payload in an Event and publishes it on subject.
func PublishEvent(mq MessageQueue, subject string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", subject, err)
	}
	data, err := json.Marshal(Event{
		ID:         uuid.NewString(),
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	return mq.Publish(subject, data)
}

// DecodeEvent parses an envelope and unmarshals its payload into out.
func DecodeEvent(data []byte, out interface{}) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if out != nil {
		if err := json.Unmarshal(evt.Payload, out); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", evt.Subject, err)
		}
	}
	return &evt, nil
}
