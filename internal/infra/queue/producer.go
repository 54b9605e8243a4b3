package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/umeloans/lead-capture/internal/infra/integration/salesforce"
)

// LeadSyncMessage is the body of a message on QueueName.
type LeadSyncMessage struct {
	Lead     salesforce.LeadPayload `json:"lead"`
	QueuedAt time.Time              `json:"queued_at"`
}

// Publisher is satisfied by *amqp.Channel.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Producer struct {
	Ch  Publisher
	Now func() time.Time
}

func NewProducer(ch Publisher) *Producer {
	return &Producer{Ch: ch, Now: time.Now}
}

// Dispatch queues a CRM sync for payload. It satisfies the use case's
// dispatcher contract.
func (p *Producer) Dispatch(ctx context.Context, payload salesforce.LeadPayload) error {
	body, err := json.Marshal(LeadSyncMessage{Lead: payload, QueuedAt: p.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal lead sync message: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    payload.LeadID,
			Timestamp:    p.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish lead sync: %w", err)
	}
	return nil
}
