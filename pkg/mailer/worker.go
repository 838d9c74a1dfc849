package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text string) error
}

// ErrBadJob marks a delivery that can never succeed and must not be requeued.
var ErrBadJob = errors.New("bad email job")

// Worker consumes email jobs from the queue and hands them to a Sender.
type Worker struct {
	sender Sender
	log    *zap.Logger
}

func NewWorker(sender Sender, log *zap.Logger) *Worker {
	return &Worker{sender: sender, log: log.With(zap.String("component", "mail-worker"))}
}

// Handle decodes, renders and sends a single job body.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}

	subject, text, err := Render(job)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	return w.sender.Send(ctx, job.To, subject, text)
}

// Run consumes queue until ctx is cancelled or the channel closes. Bad jobs are
// dropped, send failures are requeued once.
func (w *Worker) Run(ctx context.Context, ch *amqp.Channel, queue string) error {
	if _, err := DeclareQueue(ch, queue); err != nil {
		return err
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	w.log.Info("Waiting for email jobs", zap.String("queue", queue))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.ack(ctx, d)
		}
	}
}

func (w *Worker) ack(ctx context.Context, d amqp.Delivery) {
	err := w.Handle(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrBadJob):
		w.log.Warn("Dropping email job", zap.Error(err))
		_ = d.Nack(false, false)
	default:
		w.log.Error("Failed to send email", zap.Error(err), zap.Bool("redelivered", d.Redelivered))
		_ = d.Nack(false, !d.Redelivered)
	}
}
