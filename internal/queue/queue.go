package queue

import (
	"fmt"
	"time"

	"github.com/cltl/micro-portraits/internal/config"
	"github.com/cltl/micro-portraits/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	ExtractQueue   = "extract_queue"
	TopicExchange  = "pubsub_exchange"
	TopicExtracted = "portraits.extracted"

	retryDelay = 10 * time.Second
)

// Dial connects to RabbitMQ.
func Dial(cfg config.RabbitMQConfig) (*amqp091.Connection, error) {
	conn, err := amqp091.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ at %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	return conn, nil
}

// SetupQueues declares every queue together with its dead letter queue
// and its retry queue. Messages in a retry queue expire back into their
// queue after retryDelay.
func SetupQueues(ch *amqp091.Channel, queueNames []string) error {
	if err := ch.ExchangeDeclare(TopicExchange, "topic", false, true, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare failed: %w", err)
	}

	for _, name := range queueNames {
		declarations := []struct {
			name string
			args amqp091.Table
		}{
			{name: name},
			{name: DeadLetterQueue(name)},
			{name: RetryQueue(name), args: amqp091.Table{
				"x-message-ttl":             int32(retryDelay.Milliseconds()),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			}},
		}
		for _, d := range declarations {
			if _, err := ch.QueueDeclare(d.name, true, false, false, false, d.args); err != nil {
				return fmt.Errorf("queue declare %s failed: %w", d.name, err)
			}
		}
		logger.Debug("[Queue] Declared queue", "queue", name)
	}

	return nil
}

func RetryQueue(name string) string {
	return name + "_retry"
}

func DeadLetterQueue(name string) string {
	return name + "_dlq"
}

// PublishFIFO sends data to a durable queue.
func PublishFIFO(ch *amqp091.Channel, queueName string, data []byte) error {
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return err
	}

	return ch.Publish("", q.Name, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
}

// ChannelPublisher publishes extraction events on the topic exchange.
type ChannelPublisher struct {
	Ch *amqp091.Channel
}

func (p ChannelPublisher) PublishTopic(topic string, data []byte) error {
	return p.Ch.Publish(TopicExchange, topic, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
}
