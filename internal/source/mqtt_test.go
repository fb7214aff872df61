package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chromaworks/aircanvas/internal/logging"
	"github.com/chromaworks/aircanvas/model"
)

func testMQTTSource(buffer int) *MQTTSource {
	return &MQTTSource{
		topic: "aircanvas/observations",
		log:   logging.Noop(),
		obs:   make(chan model.Observation, buffer),
	}
}

func TestMQTTSourceIngestAndNext(t *testing.T) {
	src := testMQTTSource(4)
	src.ingest([]byte(`{"time":"2017-03-01T00:00:00Z","station":"Gucheng","values":{"O3":120}}`))

	obs, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if obs.Station != "Gucheng" {
		t.Fatalf("Station = %q, want Gucheng", obs.Station)
	}
	if v, _ := obs.Value(model.O3); v != 120 {
		t.Fatalf("O3 = %v, want 120", v)
	}
}

func TestMQTTSourceDropsUndecodable(t *testing.T) {
	src := testMQTTSource(4)
	src.ingest([]byte(`not json`))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := src.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Next() error = %v, want deadline after undecodable payload", err)
	}
}

func TestMQTTSourceBufferFull(t *testing.T) {
	src := testMQTTSource(2)
	for i := 0; i < 5; i++ {
		payload := fmt.Sprintf(`{"time":"2017-03-01T0%d:00:00Z","values":{"PM2.5":%d}}`, i, i)
		src.ingest([]byte(payload))
	}

	if got := len(src.obs); got != 2 {
		t.Fatalf("buffered = %d, want 2 with overflow dropped", got)
	}
	// The oldest two survive, later arrivals were dropped.
	obs, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if v, _ := obs.Value(model.PM25); v != 0 {
		t.Fatalf("first buffered PM2.5 = %v, want 0", v)
	}
}

func TestMQTTSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testMQTTSource(1).Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Next() error = %v, want context.Canceled", err)
	}
}
