package queue

import (
	"github.com/cltl/micro-portraits/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// MaxRetries is the number of redeliveries before a message is dead
// lettered.
const MaxRetries = 10

const retriesHeader = "x-retries"

// Outcomes of HandleProcessingError.
const (
	OutcomeRetry = "retry"
	OutcomeDead  = "dead"
	OutcomeNack  = "nack"
)

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// HandleProcessingError moves a failed message to the retry queue of
// queueName, or to its dead letter queue once MaxRetries is reached. The
// original delivery is acked when the copy was published and requeued
// otherwise.
func HandleProcessingError(ch publisher, msg amqp091.Delivery, queueName string) string {
	retries := retryCount(msg.Headers)

	target, outcome := RetryQueue(queueName), OutcomeRetry
	headers := amqp091.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	if retries >= MaxRetries {
		target, outcome = DeadLetterQueue(queueName), OutcomeDead
	} else {
		headers[retriesHeader] = int32(retries + 1)
	}

	logger.Info("[Queue] Rerouting failed message", "queue", queueName, "target", target, "retries", retries)
	err := ch.Publish("", target, false, false, amqp091.Publishing{
		ContentType:  msg.ContentType,
		Body:         msg.Body,
		Headers:      headers,
		DeliveryMode: amqp091.Persistent,
	})
	if err != nil {
		logger.Error("[Queue] Failed to reroute message", "target", target, "err", err)
		if nackErr := msg.Nack(false, true); nackErr != nil {
			logger.Error("[Queue] Failed to nack message", "err", nackErr)
		}
		return OutcomeNack
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("[Queue] Failed to ack message", "err", err)
	}
	return outcome
}

func retryCount(headers amqp091.Table) int {
	switch v := headers[retriesHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
