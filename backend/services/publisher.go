// ABOUTME: Publishes accepted panel selections to Kafka for downstream persistence
// ABOUTME: Disabled when no brokers are configured; writes are synchronous per batch

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

// PublisherConfig configures the selections publisher.
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// SelectionPublisher writes one message per accepted panel, keyed by panel
// name so a panel's history stays on one partition.
type SelectionPublisher struct {
	topic   string
	log     *slog.Logger
	writer  messageWriter
	enabled bool
}

var errPublisherNilLogger = errors.New("publisher requires a logger")

// NewSelectionPublisher builds a Kafka-backed publisher. With no brokers it
// returns a disabled publisher whose Publish is a no-op.
func NewSelectionPublisher(cfg PublisherConfig, log *slog.Logger) (*SelectionPublisher, error) {
	if log == nil {
		return nil, errPublisherNilLogger
	}
	log = log.With(slog.String("component", "selection_publisher"))
	if len(cfg.Brokers) == 0 {
		log.Info("Selection publishing disabled", "reason", "no brokers configured")
		return &SelectionPublisher{log: log}, nil
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, fmt.Errorf("selections topic must not be empty")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
		BatchTimeout:           50 * time.Millisecond,
	}
	log.Info("Selection publishing enabled", "topic", cfg.Topic, "brokers", strings.Join(cfg.Brokers, ","))
	return newPublisherWithWriter(cfg.Topic, log, w), nil
}

// newPublisherWithWriter wires a writer directly. It is used in tests.
func newPublisherWithWriter(topic string, log *slog.Logger, w messageWriter) *SelectionPublisher {
	return &SelectionPublisher{topic: topic, log: log, writer: w, enabled: true}
}

// Enabled reports whether Publish reaches a broker.
func (p *SelectionPublisher) Enabled() bool {
	return p != nil && p.enabled
}

// Topic returns the configured topic, empty when disabled.
func (p *SelectionPublisher) Topic() string {
	if !p.Enabled() {
		return ""
	}
	return p.topic
}

// Publish writes every selection of the batch. It reports whether anything was
// sent; a disabled publisher returns false and no error.
func (p *SelectionPublisher) Publish(ctx context.Context, batch models.SelectionBatch) (bool, error) {
	if !p.Enabled() {
		if p != nil {
			p.log.Debug("Selection publish skipped", "batch", batch.ID, "reason", "disabled")
		}
		return false, nil
	}
	events := batch.Events()
	if len(events) == 0 {
		return false, nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(ev)
		if err != nil {
			return false, fmt.Errorf("encode selection for panel %s: %w", sanitizeForLog(ev.Panel), err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.Panel),
			Value: value,
			Headers: []kafka.Header{
				{Key: "batch_id", Value: []byte(batch.ID)},
				{Key: "catalog_version", Value: []byte(batch.CatalogVersion)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.log.Error("Selection publish failed", "batch", batch.ID, "messages", len(msgs), "error", err)
		return false, fmt.Errorf("publish selections: %w", err)
	}
	p.log.Info("Selections published", "batch", batch.ID, "topic", p.topic, "messages", len(msgs))
	return true, nil
}

// Close flushes and closes the underlying writer.
func (p *SelectionPublisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
