package source

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/chromaworks/aircanvas/internal/logging"
	"github.com/chromaworks/aircanvas/model"
)

// mqttBuffer bounds how many undelivered observations the subscription keeps
// while the animation is busy. Beyond that, new arrivals are dropped.
const mqttBuffer = 64

// MQTTConfig groups the settings for the MQTT-backed source.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
	QoS      byte
}

// MQTTSource subscribes to an MQTT topic and hands decoded observations to
// Next through a bounded buffer.
type MQTTSource struct {
	client mqtt.Client
	topic  string
	log    logging.Logger
	obs    chan model.Observation
}

// NewMQTT connects to the broker and subscribes to cfg.Topic.
func NewMQTT(cfg MQTTConfig, log logging.Logger) (*MQTTSource, error) {
	s := &MQTTSource{
		topic: cfg.Topic,
		log:   log,
		obs:   make(chan model.Observation, mqttBuffer),
	}

	opts := mqtt.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("source: mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	if token := client.Subscribe(cfg.Topic, cfg.QoS, s.onMessage); token.Wait() && token.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("source: mqtt subscribe %s: %w", cfg.Topic, token.Error())
	}
	s.client = client
	return s, nil
}

func (s *MQTTSource) onMessage(_ mqtt.Client, msg mqtt.Message) {
	s.ingest(msg.Payload())
}

func (s *MQTTSource) ingest(payload []byte) {
	ctx := context.Background()
	obs, unknown, err := decodeObservation(payload)
	if err != nil {
		s.log.Warn(ctx, "skipping undecodable payload", logging.Err(err))
		return
	}
	if len(unknown) > 0 {
		s.log.Warn(ctx, "ignoring unknown measurements", logging.Any("keys", unknown))
	}
	select {
	case s.obs <- obs:
	default:
		s.log.Warn(ctx, "observation buffer full, dropping",
			logging.String("station", obs.Station))
	}
}

// Next blocks until a buffered observation is available or ctx is done.
func (s *MQTTSource) Next(ctx context.Context) (model.Observation, error) {
	select {
	case obs := <-s.obs:
		return obs, nil
	case <-ctx.Done():
		return model.Observation{}, ctx.Err()
	}
}

// Close disconnects from the broker, allowing 250ms for in-flight work.
func (s *MQTTSource) Close() error {
	if s.client != nil {
		s.client.Disconnect(250)
	}
	return nil
}
