package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/floodwatch/backend/internal/config"
	"github.com/floodwatch/backend/internal/domain"
)

// Publisher produces prediction logs to a Kafka topic.
// It implements domain.PredictionPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured prediction topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish writes one prediction log.
func (p *Publisher) Publish(ctx context.Context, entry domain.PredictionLog) error {
	msg, err := serializeToMessage(entry)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publish prediction for %q: %w", entry.Location, err)
	}
	p.logger.Debug("prediction published", "topic", p.writer.Topic, "district", entry.District)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a PredictionLog into a Kafka message keyed by district.
func serializeToMessage(entry domain.PredictionLog) (kafkago.Message, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction log: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(entry.District),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "weather_source", Value: []byte(entry.WeatherSource)},
			{Key: "predicted_at", Value: []byte(entry.PredictedAt.Format(time.RFC3339))},
		},
	}, nil
}
