package model

import "time"

// Measurement identifies one sensor channel in an observation. The string
// value matches the column name used by the Beijing multi-site CSV export,
// which is also the key format expected on JSON wire payloads.
type Measurement string

const (
	PM25          Measurement = "PM2.5"
	SO2           Measurement = "SO2"
	NO2           Measurement = "NO2"
	CO            Measurement = "CO"
	O3            Measurement = "O3"
	Temperature   Measurement = "TEMP"
	Humidity      Measurement = "DEWP" // dew point stands in for humidity
	WindSpeed     Measurement = "WSPM"
	WindDirection Measurement = "wd"
)

// Measurements lists every channel the engine knows about, in a stable order.
var Measurements = []Measurement{
	PM25, SO2, NO2, CO, O3, Temperature, Humidity, WindSpeed, WindDirection,
}

// Observation is a single multi-sensor reading. Any subset of channels may be
// present; consumers must treat absent channels as missing rather than zero.
// Observations are read-only once handed to the engine.
type Observation struct {
	Time    time.Time
	Station string

	values map[Measurement]float64
}

// NewObservation builds an observation from a value map. The map is copied so
// later mutation by the caller cannot leak into the engine.
func NewObservation(t time.Time, station string, values map[Measurement]float64) Observation {
	vals := make(map[Measurement]float64, len(values))
	for m, v := range values {
		vals[m] = v
	}
	return Observation{Time: t, Station: station, values: vals}
}

// Value returns the reading for the given channel and whether it is present.
func (o Observation) Value(m Measurement) (float64, bool) {
	v, ok := o.values[m]
	return v, ok
}

// Len reports how many channels carry a value.
func (o Observation) Len() int { return len(o.values) }

// Clone returns an independent copy of the observation.
func (o Observation) Clone() Observation {
	return NewObservation(o.Time, o.Station, o.values)
}
