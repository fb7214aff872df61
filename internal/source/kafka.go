package source

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/chromaworks/aircanvas/internal/logging"
	"github.com/chromaworks/aircanvas/model"
)

// kafkaReader is the part of kafka.Reader the source consumes.
type kafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConfig groups the settings for the Kafka-backed source.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaSource streams observations from a Kafka topic. Payloads that fail to
// decode are logged and skipped so one bad producer cannot stall the
// animation.
type KafkaSource struct {
	reader kafkaReader
	log    logging.Logger
}

// NewKafka builds a source consuming cfg.Topic from the tail of the stream.
func NewKafka(cfg KafkaConfig, log logging.Logger) *KafkaSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &KafkaSource{reader: reader, log: log}
}

// Next blocks until a decodable observation arrives or ctx is done.
func (s *KafkaSource) Next(ctx context.Context) (model.Observation, error) {
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			return model.Observation{}, fmt.Errorf("source: kafka read: %w", err)
		}
		obs, unknown, err := decodeObservation(msg.Value)
		if err != nil {
			s.log.Warn(ctx, "skipping undecodable payload",
				logging.Err(err),
				logging.Int("offset", int(msg.Offset)))
			continue
		}
		if len(unknown) > 0 {
			s.log.Warn(ctx, "ignoring unknown measurements", logging.Any("keys", unknown))
		}
		return obs, nil
	}
}

// Close shuts down the underlying reader.
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}
