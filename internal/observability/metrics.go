package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func alreadyRegisteredErr(name string) error {
	return fmt.Errorf("collector %s already registered with incompatible type", name)
}

// EngineCollector bundles Prometheus metrics for the render pipeline and the
// animation driver, and provides the /metrics handler to expose them.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	FramesComposed   prometheus.Counter
	ComposeDurations prometheus.Histogram
	FramesPresented  prometheus.Counter
	PresentFailures  prometheus.Counter

	MissingMeasurements *prometheus.CounterVec
	ClampedValues       *prometheus.CounterVec

	PollutionIndex prometheus.Gauge
	AQILevel       prometheus.Gauge
	TickOverruns   prometheus.Counter
	DriverState    prometheus.Gauge
}

// NewEngineCollector registers the engine Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	framesComposed, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "canvas_frames_composed_total",
		Help: "Total number of frames produced by the composer.",
	}), "canvas_frames_composed_total")
	if err != nil {
		return nil, err
	}

	composeDurations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "canvas_compose_duration_seconds",
		Help:    "Time spent composing a single frame.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
	})
	composeDurations, err = registerHistogram(reg, composeDurations, "canvas_compose_duration_seconds")
	if err != nil {
		return nil, err
	}

	framesPresented, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "canvas_frames_presented_total",
		Help: "Total number of frames successfully handed to the renderer.",
	}), "canvas_frames_presented_total")
	if err != nil {
		return nil, err
	}

	presentFailures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "canvas_present_failures_total",
		Help: "Total number of frame deliveries the renderer rejected.",
	}), "canvas_present_failures_total")
	if err != nil {
		return nil, err
	}

	missing := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvas_measurements_missing_total",
		Help: "Observations lacking a measurement, labeled by measurement name.",
	}, []string{"measurement"})
	missing, err = registerCounterVec(reg, missing, "canvas_measurements_missing_total")
	if err != nil {
		return nil, err
	}

	clamped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvas_values_clamped_total",
		Help: "Readings outside their configured domain, labeled by measurement name.",
	}, []string{"measurement"})
	clamped, err = registerCounterVec(reg, clamped, "canvas_values_clamped_total")
	if err != nil {
		return nil, err
	}

	pollutionIndex, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "canvas_pollution_index",
		Help: "Aggregate pollution index of the most recent frame, in [0,1].",
	}), "canvas_pollution_index")
	if err != nil {
		return nil, err
	}

	aqiLevel, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "canvas_aqi_level",
		Help: "AQI band of the most recent frame (0=excellent .. 5=severe).",
	}), "canvas_aqi_level")
	if err != nil {
		return nil, err
	}

	tickOverruns, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "driver_tick_overruns_total",
		Help: "Ticks whose work exceeded the configured period.",
	}), "driver_tick_overruns_total")
	if err != nil {
		return nil, err
	}

	driverState, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "driver_state",
		Help: "Animation driver state (0=idle, 1=running, 2=stopped).",
	}), "driver_state")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:            gatherer,
		FramesComposed:      framesComposed,
		ComposeDurations:    composeDurations,
		FramesPresented:     framesPresented,
		PresentFailures:     presentFailures,
		MissingMeasurements: missing,
		ClampedValues:       clamped,
		PollutionIndex:      pollutionIndex,
		AQILevel:            aqiLevel,
		TickOverruns:        tickOverruns,
		DriverState:         driverState,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveFrame satisfies the driver's metrics recorder interface: it records
// one composed frame together with the repairs the normalizer performed.
func (c *EngineCollector) ObserveFrame(composeSeconds, pollutionIndex float64, aqiLevel int, missing, clamped []string) {
	if c == nil {
		return
	}
	if c.FramesComposed != nil {
		c.FramesComposed.Inc()
	}
	if c.ComposeDurations != nil {
		c.ComposeDurations.Observe(composeSeconds)
	}
	if c.PollutionIndex != nil {
		c.PollutionIndex.Set(pollutionIndex)
	}
	if c.AQILevel != nil {
		c.AQILevel.Set(float64(aqiLevel))
	}
	if c.MissingMeasurements != nil {
		for _, m := range missing {
			c.MissingMeasurements.WithLabelValues(m).Inc()
		}
	}
	if c.ClampedValues != nil {
		for _, m := range clamped {
			c.ClampedValues.WithLabelValues(m).Inc()
		}
	}
}

// FramePresented records the outcome of one renderer delivery.
func (c *EngineCollector) FramePresented(ok bool) {
	if c == nil {
		return
	}
	if ok {
		if c.FramesPresented != nil {
			c.FramesPresented.Inc()
		}
		return
	}
	if c.PresentFailures != nil {
		c.PresentFailures.Inc()
	}
}

// TickOverrun records a tick whose work ran past the period.
func (c *EngineCollector) TickOverrun() {
	if c == nil || c.TickOverruns == nil {
		return
	}
	c.TickOverruns.Inc()
}

// SetDriverState mirrors the driver state machine into a gauge.
func (c *EngineCollector) SetDriverState(state int) {
	if c == nil || c.DriverState == nil {
		return
	}
	c.DriverState.Set(float64(state))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, alreadyRegisteredErr(name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, alreadyRegisteredErr(name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, alreadyRegisteredErr(name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, alreadyRegisteredErr(name)
		}
		return nil, err
	}
	return gauge, nil
}
