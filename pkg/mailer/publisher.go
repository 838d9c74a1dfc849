package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	TemplateVerifyEmail    = "verify_email"
	TemplateForgotPassword = "forgot_password"
)

// EmailJob is the JSON payload put on the queue for the mail worker.
type EmailJob struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data,omitempty"`
}

// Publisher hands email jobs to whatever delivers them.
type Publisher interface {
	Publish(ctx context.Context, job EmailJob) error
	Close()
}

// RabbitPublisher publishes jobs to a durable queue on the default exchange.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, queue: queue}, nil
}

// DeclareQueue declares the durable email queue shared by publisher and worker.
func DeclareQueue(ch *amqp.Channel, queue string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return q, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return q, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, job EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(c, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// LogPublisher writes jobs to the log. Used when no broker is configured.
// Job data carries one-time tokens, so it is only written at debug level and
// only when debug is on.
type LogPublisher struct {
	log   *zap.Logger
	debug bool
}

func NewLogPublisher(log *zap.Logger, debug bool) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("component", "mailer")), debug: debug}
}

func (p *LogPublisher) Publish(_ context.Context, job EmailJob) error {
	p.log.Info("Email job (no broker configured)",
		zap.String("to", job.To),
		zap.String("template", job.Template),
	)
	if p.debug {
		p.log.Debug("Email job data", zap.String("to", job.To), zap.Any("data", job.Data))
	}
	return nil
}

func (p *LogPublisher) Close() {}
