package model

import (
	"testing"
	"time"
)

func TestObservationCopiesInputMap(t *testing.T) {
	values := map[Measurement]float64{PM25: 80, SO2: 12}
	obs := NewObservation(time.Unix(0, 0), "Aotizhongxin", values)

	values[PM25] = 999

	got, ok := obs.Value(PM25)
	if !ok {
		t.Fatalf("Value(PM25) missing, want present")
	}
	if got != 80 {
		t.Fatalf("Value(PM25) = %v, want 80", got)
	}
}

func TestObservationMissingChannel(t *testing.T) {
	obs := NewObservation(time.Unix(0, 0), "", map[Measurement]float64{PM25: 80})

	if _, ok := obs.Value(O3); ok {
		t.Fatalf("Value(O3) present, want missing")
	}
	if obs.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", obs.Len())
	}
}

func TestObservationCloneIsIndependent(t *testing.T) {
	obs := NewObservation(time.Unix(0, 0), "Dingling", map[Measurement]float64{NO2: 40})
	clone := obs.Clone()

	if clone.Station != obs.Station {
		t.Fatalf("clone.Station = %q, want %q", clone.Station, obs.Station)
	}
	got, ok := clone.Value(NO2)
	if !ok || got != 40 {
		t.Fatalf("clone.Value(NO2) = %v,%v, want 40,true", got, ok)
	}
}
