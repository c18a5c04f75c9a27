package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cltl/micro-portraits/internal/metrics"
	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/leaselock"
	"github.com/cltl/micro-portraits/pkg/loader"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/portrait"
	"github.com/cltl/micro-portraits/pkg/store"

	"github.com/rabbitmq/amqp091-go"
)

// ExtractMsg asks a worker to extract the document stored under Key.
type ExtractMsg struct {
	DocumentID string `json:"document_id,omitempty"`
	Key        string `json:"key"`
	Format     string `json:"format,omitempty"`
	RunID      string `json:"run_id,omitempty"`
}

// ExtractedMsg is published on TopicExtracted once a document's rows are
// stored.
type ExtractedMsg struct {
	DocumentID  string `json:"document_id"`
	RunID       string `json:"run_id"`
	Portraits   int    `json:"portraits"`
	Rows        int    `json:"rows"`
	Diagnostics int    `json:"diagnostics"`
}

type Locker interface {
	WithLease(ctx context.Context, key string, opts leaselock.Options, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishTopic(topic string, data []byte) error
}

// Processor holds what a worker needs to handle extraction messages.
type Processor struct {
	Name      string
	Loader    loader.DocumentLoader
	Extractor *portrait.ExtractorClient
	Store     store.PortraitStorage
	Locks     Locker
	Events    Publisher
	Metrics   *metrics.Metrics
}

var errInvalidMessage = errors.New("invalid extract message")

// NewExtractMsg validates and encodes a message for ExtractQueue. A
// missing run id is generated.
func NewExtractMsg(msg ExtractMsg) ([]byte, error) {
	if msg.Key == "" {
		return nil, fmt.Errorf("%w: key is empty", errInvalidMessage)
	}
	if msg.RunID == "" {
		id, err := util.NewID()
		if err != nil {
			return nil, err
		}
		msg.RunID = id
	}
	return json.Marshal(msg)
}

// ProcessExtractMessage extracts one document while holding its lease,
// replaces its stored rows and announces the result.
func (p *Processor) ProcessExtractMessage(ctx context.Context, body []byte) error {
	var msg ExtractMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: %w", errInvalidMessage, err)
	}
	if msg.Key == "" {
		return fmt.Errorf("%w: key is empty", errInvalidMessage)
	}

	documentID := msg.DocumentID
	if documentID == "" {
		documentID = util.DocumentIDFromPath(msg.Key)
	}
	runID := msg.RunID
	if runID == "" {
		id, err := util.NewID()
		if err != nil {
			return err
		}
		runID = id
	}

	opts := leaselock.Options{Owner: p.Name + "-"}
	return p.Locks.WithLease(ctx, leaselock.DocumentKey(documentID), opts, func(ctx context.Context) error {
		file := loader.NewDocumentFile(loader.NewDocumentFileParams{
			ID:       documentID,
			FilePath: msg.Key,
			Format:   msg.Format,
			Loader:   p.Loader,
		})
		if f, ok := p.Loader.(interface{ Forget(loader.DocumentFile) }); ok {
			defer f.Forget(file)
		}

		start := time.Now()
		res, err := p.Extractor.ExtractFile(ctx, file)
		if err != nil {
			p.Metrics.ObserveFailure()
			return err
		}
		p.Metrics.ObserveResult(res, time.Since(start))

		rows := res.Rows()
		err = util.RetryErrWithContext(ctx, 3, 500*time.Millisecond, func(ctx context.Context) error {
			return p.Store.SaveDocument(ctx, documentID, runID, rows)
		})
		if err != nil {
			return fmt.Errorf("failed to store document %s: %w", documentID, err)
		}

		event, err := json.Marshal(ExtractedMsg{
			DocumentID:  documentID,
			RunID:       runID,
			Portraits:   len(res.Portraits),
			Rows:        len(rows),
			Diagnostics: len(res.Diagnostics),
		})
		if err != nil {
			return err
		}
		if err := p.Events.PublishTopic(TopicExtracted, event); err != nil {
			return fmt.Errorf("failed to publish %s: %w", TopicExtracted, err)
		}

		logger.Info("[Queue] Extracted document",
			"document", documentID,
			"run", runID,
			"portraits", len(res.Portraits),
			"rows", len(rows),
			"diagnostics", len(res.Diagnostics),
		)
		return nil
	})
}

// Handle processes one delivery from queueName and settles it: acked on
// success, rerouted through HandleProcessingError otherwise. It returns
// the outcome recorded in the queue metrics.
func (p *Processor) Handle(ctx context.Context, ch publisher, msg amqp091.Delivery, queueName string) string {
	start := time.Now()
	logger.Info("[Queue] Received message", "queue", queueName)

	outcome := "ack"
	if err := p.ProcessExtractMessage(ctx, msg.Body); err != nil {
		logger.Error("[Queue] Error processing message", "queue", queueName, "err", err)
		outcome = HandleProcessingError(ch, msg, queueName)
	} else if err := msg.Ack(false); err != nil {
		logger.Error("[Queue] Failed to ack message", "err", err)
	}

	p.Metrics.ObserveMessage(queueName, outcome)
	logger.Info("[Queue] Message settled", "queue", queueName, "outcome", outcome, "duration", time.Since(start).Round(time.Millisecond))
	return outcome
}

// Run handles deliveries one at a time until ctx ends or the delivery
// channel closes.
func (p *Processor) Run(ctx context.Context, ch publisher, deliveries <-chan amqp091.Delivery, queueName string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("[Queue] Stopping consumer", "queue", queueName)
			return
		case msg, ok := <-deliveries:
			if !ok {
				logger.Info("[Queue] Message channel closed", "queue", queueName)
				return
			}
			p.Handle(ctx, ch, msg, queueName)
		}
	}
}
