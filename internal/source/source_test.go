package source

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/chromaworks/aircanvas/model"
)

func TestDecodeObservation(t *testing.T) {
	payload := []byte(`{
		"time": "2017-03-01T14:00:00Z",
		"station": "Aotizhongxin",
		"values": {"PM2.5": 80.5, "TEMP": 12.5, "wd": 270}
	}`)

	obs, unknown, err := decodeObservation(payload)
	if err != nil {
		t.Fatalf("decodeObservation() error = %v", err)
	}
	if len(unknown) != 0 {
		t.Fatalf("unknown = %v, want none", unknown)
	}
	if obs.Station != "Aotizhongxin" {
		t.Fatalf("Station = %q, want Aotizhongxin", obs.Station)
	}
	want := time.Date(2017, time.March, 1, 14, 0, 0, 0, time.UTC)
	if !obs.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", obs.Time, want)
	}
	if v, ok := obs.Value(model.PM25); !ok || v != 80.5 {
		t.Fatalf("PM2.5 = %v (present %v), want 80.5", v, ok)
	}
	if v, ok := obs.Value(model.WindDirection); !ok || v != 270 {
		t.Fatalf("wd = %v (present %v), want 270", v, ok)
	}
}

func TestDecodeObservationUnknownKeys(t *testing.T) {
	payload := []byte(`{
		"time": "2017-03-01T14:00:00Z",
		"values": {"PM2.5": 12, "PM10": 30, "RAIN": 0}
	}`)

	obs, unknown, err := decodeObservation(payload)
	if err != nil {
		t.Fatalf("decodeObservation() error = %v", err)
	}
	sort.Strings(unknown)
	if want := []string{"PM10", "RAIN"}; !reflect.DeepEqual(unknown, want) {
		t.Fatalf("unknown = %v, want %v", unknown, want)
	}
	if obs.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 kept measurement", obs.Len())
	}
}

func TestDecodeObservationMalformed(t *testing.T) {
	if _, _, err := decodeObservation([]byte(`{"time": 7}`)); err == nil {
		t.Fatal("decodeObservation() accepted malformed time")
	}
	if _, _, err := decodeObservation([]byte(`not json`)); err == nil {
		t.Fatal("decodeObservation() accepted non-JSON payload")
	}
}

func TestDecodeObservationEmptyValues(t *testing.T) {
	obs, unknown, err := decodeObservation([]byte(`{"time": "2017-03-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("decodeObservation() error = %v", err)
	}
	if obs.Len() != 0 || len(unknown) != 0 {
		t.Fatalf("Len() = %d, unknown = %v, want empty observation", obs.Len(), unknown)
	}
}
