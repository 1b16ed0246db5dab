package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	vinecontext "github.com/Ramsey-B/vine/pkg/context"
	"github.com/Ramsey-B/vine/pkg/models"
	"github.com/Ramsey-B/vine/pkg/tracing"
)

const EventRelationshipSetSubmitted = "relationship_set.submitted"

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// Producer publishes editor events.
type Producer struct {
	writer MessageWriter
	logger ectologger.Logger
	topic  string
}

func compressionCodec(name string) kafka.Compression {
	switch name {
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	case "none", "":
		return 0
	default:
		return kafka.Snappy
	}
}

func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compressionCodec(cfg.Compression),
		AllowAutoTopicCreation: true,
	}
	return NewProducerWithWriter(writer, cfg.Topic, logger)
}

func NewProducerWithWriter(writer MessageWriter, topic string, logger ectologger.Logger) *Producer {
	return &Producer{writer: writer, logger: logger, topic: topic}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// RelationshipSetEvent is emitted after a relationship set was accepted.
type RelationshipSetEvent struct {
	EventType     string                         `json:"event_type"`
	EditorID      string                         `json:"editor_id"`
	AnchorID      string                         `json:"anchor_id"`
	AnchorType    string                         `json:"anchor_type"`
	Relationships []models.SubmittedRelationship `json:"relationships"`
	Count         int                            `json:"count"`
	Timestamp     time.Time                      `json:"timestamp"`
}

// PublishRelationshipSet publishes a submitted relationship set keyed by the
// anchor entity, so events for one entity stay ordered.
func (p *Producer) PublishRelationshipSet(ctx context.Context, editorID string, anchor models.Entity, rels []models.SubmittedRelationship) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishRelationshipSet")
	defer span.End()

	event := RelationshipSetEvent{
		EventType:     EventRelationshipSetSubmitted,
		EditorID:      editorID,
		AnchorID:      anchor.ID,
		AnchorType:    anchor.Type,
		Relationships: rels,
		Count:         len(rels),
		Timestamp:     time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode relationship set event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(anchor.ID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "anchor_type", Value: []byte(anchor.Type)},
			{Key: "request_id", Value: []byte(vinecontext.GetRequestID(ctx))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		tracing.Fail(span, err)
		p.logger.WithContext(ctx).WithError(err).Error("Failed to publish relationship set event")
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"event_type": event.EventType,
		"anchor_id":  anchor.ID,
		"count":      event.Count,
	}).Debug("Published relationship set event")

	return nil
}
