// Package config loads engine configuration from the environment, with an
// optional .env file layered underneath. Binaries layer command-line flags
// on top of the loaded values; a flag always wins over the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SourceKind selects where the engine reads observations from.
type SourceKind string

const (
	SourceCSV       SourceKind = "csv"
	SourceSynthetic SourceKind = "synthetic"
	SourceKafka     SourceKind = "kafka"
	SourceMQTT      SourceKind = "mqtt"
)

var (
	// ErrUnknownSource reports an AIRCANVAS_SOURCE value outside the known kinds.
	ErrUnknownSource = errors.New("config: unknown source kind")
	// ErrMissingDataset reports a csv source configured without a dataset path.
	ErrMissingDataset = errors.New("config: csv source requires AIRCANVAS_DATASET")
)

// AppConfig carries everything the viewer and exporter binaries need to
// assemble a source, a composer, and a renderer.
type AppConfig struct {
	TickPeriod time.Duration
	Source     SourceKind

	// CSV replay.
	DatasetPath string
	Station     string
	Loop        bool

	// Synthetic generator.
	Seed int64

	// Kafka consumer.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	// MQTT subscriber.
	MQTTBroker string
	MQTTTopic  string

	// Renderer output.
	OutDir       string
	FrameLimit   int
	WindowWidth  int
	WindowHeight int

	MetricsAddr string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	// The .env file is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := &AppConfig{
		Source:      SourceKind(strings.ToLower(getenvDefault("AIRCANVAS_SOURCE", string(SourceSynthetic)))),
		DatasetPath: os.Getenv("AIRCANVAS_DATASET"),
		Station:     os.Getenv("AIRCANVAS_STATION"),
		KafkaTopic:  getenvDefault("AIRCANVAS_KAFKA_TOPIC", "aircanvas.observations"),
		KafkaGroup:  getenvDefault("AIRCANVAS_KAFKA_GROUP", "aircanvas"),
		MQTTBroker:  getenvDefault("AIRCANVAS_MQTT_BROKER", "tcp://localhost:1883"),
		MQTTTopic:   getenvDefault("AIRCANVAS_MQTT_TOPIC", "aircanvas/observations"),
		OutDir:      getenvDefault("AIRCANVAS_OUT_DIR", "frames"),
		MetricsAddr: getenvDefault("AIRCANVAS_METRICS_ADDR", ":9090"),
	}

	tickMS, err := getenvInt("AIRCANVAS_TICK_MS", 200)
	if err != nil {
		return nil, err
	}
	cfg.TickPeriod = time.Duration(tickMS) * time.Millisecond

	if cfg.Loop, err = getenvBool("AIRCANVAS_LOOP", true); err != nil {
		return nil, err
	}
	if cfg.Seed, err = getenvInt64("AIRCANVAS_SEED", 42); err != nil {
		return nil, err
	}
	if cfg.FrameLimit, err = getenvInt("AIRCANVAS_FRAMES", 0); err != nil {
		return nil, err
	}
	if cfg.WindowWidth, err = getenvInt("AIRCANVAS_WINDOW_W", 800); err != nil {
		return nil, err
	}
	if cfg.WindowHeight, err = getenvInt("AIRCANVAS_WINDOW_H", 800); err != nil {
		return nil, err
	}

	cfg.KafkaBrokers = splitList(getenvDefault("AIRCANVAS_KAFKA_BROKERS", "localhost:9092"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints. Binaries call it again after
// layering flags over the loaded config.
func (c *AppConfig) Validate() error {
	if c.TickPeriod <= 0 {
		return fmt.Errorf("config: tick period must be positive, got %s", c.TickPeriod)
	}
	switch c.Source {
	case SourceCSV:
		if c.DatasetPath == "" {
			return ErrMissingDataset
		}
	case SourceSynthetic:
	case SourceKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("config: kafka source requires AIRCANVAS_KAFKA_BROKERS")
		}
	case SourceMQTT:
		if c.MQTTBroker == "" {
			return fmt.Errorf("config: mqtt source requires AIRCANVAS_MQTT_BROKER")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source)
	}
	if c.FrameLimit < 0 {
		return fmt.Errorf("config: frame limit must not be negative, got %d", c.FrameLimit)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("config: window size must be positive, got %dx%d", c.WindowWidth, c.WindowHeight)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
