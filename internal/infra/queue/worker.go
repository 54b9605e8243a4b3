package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/infra/integration/salesforce"
)

// LeadSyncer pushes one lead to the CRM and records the outcome.
type LeadSyncer interface {
	Execute(ctx context.Context, payload salesforce.LeadPayload) error
}

// Consumer is satisfied by *amqp.Channel.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Sync    LeadSyncer
	Logger  *logrus.Logger
}

func NewWorker(ch Consumer, sync LeadSyncer, logger *logrus.Logger) *Worker {
	return &Worker{Channel: ch, Sync: sync, Logger: logger}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.WithField("queue", queueName).Info("Lead sync worker started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var msg LeadSyncMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil || msg.Lead.LeadID == "" {
		w.Logger.WithError(err).WithField("message_id", d.MessageId).Error("Malformed lead sync message")
		// Dead-letter it so it cannot block the queue.
		_ = d.Nack(false, false)
		return
	}

	entry := w.Logger.WithField("lead_id", msg.Lead.LeadID)
	if err := w.Sync.Execute(ctx, msg.Lead); err != nil {
		// The failure is in the integration log; a retry is a manual resubmission.
		entry.WithError(err).Warn("Lead sync finished with CRM error")
	} else {
		entry.Info("Lead sync finished")
	}
	_ = d.Ack(false)
}
