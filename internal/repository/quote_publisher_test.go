package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"MarTrade/internal/domain/models"
)

type fakeProducer struct {
	topic string
	key   []byte
	value interface{}
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	f.topic, f.key, f.value = topic, key, value
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaQuotePublisher_Publish(t *testing.T) {
	fp := &fakeProducer{}
	pub := NewKafkaQuotePublisher(fp, "martrade.quotes")

	vol := int64(950000)
	q := models.Quote{
		Code:          "CL",
		Exchange:      "NYMEX",
		Last:          decimal.NewNullDecimal(decimal.RequireFromString("85.68")),
		PercentChange: decimal.RequireFromString("1.25"),
		Volume:        &vol,
		Source:        models.SourceFallback,
		FetchedAt:     time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.Publish(context.Background(), q))

	require.Equal(t, "martrade.quotes", fp.topic)
	require.Equal(t, []byte("CL"), fp.key)
	ev, ok := fp.value.(QuoteEvent)
	require.True(t, ok)
	require.Equal(t, "85.68", *ev.Last)
	require.Nil(t, ev.PreviousClose)
	require.Equal(t, "1.2500", ev.PercentChange)
	require.Equal(t, "fallback", ev.Source)
	_, err := uuid.Parse(ev.EventID)
	require.NoError(t, err)
}
