package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/amref/learning-api/internal/core/ports"
)

const defaultResetQueue = "auth.password_reset"

// AMQPConfig configures the RabbitMQ publisher.
type AMQPConfig struct {
	URL   string
	Queue string
}

// AMQPNotifier publishes reset notices as persistent JSON messages for an
// external mailer to consume.
type AMQPNotifier struct {
	conn  *amqp.Connection
	queue string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPNotifier dials the broker and declares the durable reset queue.
func NewAMQPNotifier(cfg AMQPConfig) (*AMQPNotifier, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("amqp url is required")
	}
	queue := cfg.Queue
	if queue == "" {
		queue = defaultResetQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	return &AMQPNotifier{conn: conn, queue: queue, ch: ch}, nil
}

func (n *AMQPNotifier) NotifyReset(ctx context.Context, notice ports.ResetNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal reset notice: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.ch.PublishWithContext(ctx, "", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         "password_reset",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish reset notice: %w", err)
	}
	return nil
}

// Close closes the channel and the connection.
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
