package repository

import (
	"context"
	"time"

	"MarTrade/internal/domain/models"
	"MarTrade/internal/domain/repository"

	"github.com/google/uuid"
)

// Producer is the message bus operation the publisher needs; *pkg/kafka.Producer satisfies it.
type Producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// QuoteEvent is the wire shape of a served quote.
type QuoteEvent struct {
	EventID       string    `json:"event_id"`
	Code          string    `json:"code"`
	Exchange      string    `json:"exchange"`
	Last          *string   `json:"last"`
	PreviousClose *string   `json:"previous_close"`
	PercentChange string    `json:"percent_change"`
	Volume        *int64    `json:"volume"`
	Source        string    `json:"source"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// KafkaQuotePublisher implements QuotePublisher for Kafka, keyed by instrument code.
type KafkaQuotePublisher struct {
	producer Producer
	topic    string
}

// NewKafkaQuotePublisher creates Kafka quote publisher.
func NewKafkaQuotePublisher(producer Producer, topic string) repository.QuotePublisher {
	return &KafkaQuotePublisher{producer: producer, topic: topic}
}

func (p *KafkaQuotePublisher) Publish(ctx context.Context, q models.Quote) error {
	return p.producer.Publish(ctx, p.topic, []byte(q.Code), NewQuoteEvent(q))
}

func (p *KafkaQuotePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NewQuoteEvent converts a quote with a fresh event ID.
func NewQuoteEvent(q models.Quote) QuoteEvent {
	ev := QuoteEvent{
		EventID:       uuid.NewString(),
		Code:          q.Code,
		Exchange:      q.Exchange,
		PercentChange: q.PercentChange.StringFixed(4),
		Volume:        q.Volume,
		Source:        string(q.Source),
		FetchedAt:     q.FetchedAt,
	}
	if q.Last.Valid {
		s := q.Last.Decimal.String()
		ev.Last = &s
	}
	if q.PreviousClose.Valid {
		s := q.PreviousClose.Decimal.String()
		ev.PreviousClose = &s
	}
	return ev
}
