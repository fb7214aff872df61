package anim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chromaworks/aircanvas/core"
	"github.com/chromaworks/aircanvas/internal/logging"
	"github.com/chromaworks/aircanvas/internal/source"
	"github.com/chromaworks/aircanvas/model"
	"github.com/chromaworks/aircanvas/timectrl"
)

const tracerName = "github.com/chromaworks/aircanvas/internal/anim"

// DefaultPeriod is the tick cadence used when none is configured.
const DefaultPeriod = 200 * time.Millisecond

// Driver lifecycle errors.
var (
	ErrAlreadyStarted = errors.New("anim: driver already started")
	ErrStopped        = errors.New("anim: driver already stopped")
)

// RenderDeliveryError reports a renderer failure. It is the only fatal error
// on the frame path; the driver stops and returns it.
type RenderDeliveryError struct {
	Tick int
	Err  error
}

func (e *RenderDeliveryError) Error() string {
	return fmt.Sprintf("anim: present tick %d: %v", e.Tick, e.Err)
}

func (e *RenderDeliveryError) Unwrap() error { return e.Err }

// State tracks the driver lifecycle. A driver runs at most once.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Renderer presents composed frames. Present must not retain the frame after
// it returns.
type Renderer interface {
	Present(frame core.Frame) error
}

// MetricsRecorder receives per-tick engine telemetry.
type MetricsRecorder interface {
	ObserveFrame(composeSeconds, pollutionIndex float64, aqiLevel int, missing, clamped []string)
	FramePresented(ok bool)
	TickOverrun()
	SetDriverState(state int)
}

// DriverOption configures optional collaborators.
type DriverOption func(*Driver)

// WithClock substitutes the time source, typically a ManualClock in tests.
func WithClock(c timectrl.Clock) DriverOption {
	return func(d *Driver) { d.clock = c }
}

// WithLogger attaches a logger.
func WithLogger(l logging.Logger) DriverOption {
	return func(d *Driver) { d.log = l }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m MetricsRecorder) DriverOption {
	return func(d *Driver) { d.metrics = m }
}

// WithTracer substitutes the tracer used for tick spans.
func WithTracer(t trace.Tracer) DriverOption {
	return func(d *Driver) { d.tracer = t }
}

// WithStats attaches run counters.
func WithStats(s *Stats) DriverOption {
	return func(d *Driver) { d.stats = s }
}

// Driver pulls observations from a source, composes a frame per tick, and
// hands each frame to the renderer at a fixed cadence.
type Driver struct {
	src      source.Source
	renderer Renderer
	composer *core.Composer
	period   time.Duration

	clock   timectrl.Clock
	log     logging.Logger
	metrics MetricsRecorder
	tracer  trace.Tracer
	stats   *Stats

	mu    sync.Mutex
	state State
}

// NewDriver wires a driver. A period of zero or less falls back to
// DefaultPeriod.
func NewDriver(src source.Source, renderer Renderer, composer *core.Composer, period time.Duration, opts ...DriverOption) (*Driver, error) {
	if src == nil {
		return nil, fmt.Errorf("anim: source is nil")
	}
	if renderer == nil {
		return nil, fmt.Errorf("anim: renderer is nil")
	}
	if composer == nil {
		return nil, fmt.Errorf("anim: composer is nil")
	}
	if period <= 0 {
		period = DefaultPeriod
	}

	d := &Driver{
		src:      src,
		renderer: renderer,
		composer: composer,
		period:   period,
		clock:    timectrl.SystemClock{},
		log:      logging.Noop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// State reports the current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) setState(to State) {
	d.mu.Lock()
	d.state = to
	d.mu.Unlock()
	if d.metrics != nil {
		d.metrics.SetDriverState(int(to))
	}
}

// Run drives the animation until ctx is canceled, the source reports
// ErrEndOfSequence, or the renderer fails. Cancellation and source
// exhaustion stop the driver cleanly with a nil error; a renderer failure
// returns a RenderDeliveryError. The tick period covers the whole tick
// including the source wait; a tick that runs long starts the next one
// immediately rather than bursting to catch up.
func (d *Driver) Run(ctx context.Context) error {
	d.mu.Lock()
	switch d.state {
	case StateRunning:
		d.mu.Unlock()
		return ErrAlreadyStarted
	case StateStopped:
		d.mu.Unlock()
		return ErrStopped
	}
	d.state = StateRunning
	d.mu.Unlock()
	if d.metrics != nil {
		d.metrics.SetDriverState(int(StateRunning))
	}
	defer d.setState(StateStopped)

	d.log.Info(ctx, "animation started", logging.Duration("period", d.period))

	lastLevel := core.AQILevel(-1)
	for tick := 0; ; tick++ {
		if ctx.Err() != nil {
			d.log.Info(ctx, "animation stopped", logging.Int("ticks", tick))
			return nil
		}
		tickStart := d.clock.Now()

		obs, err := d.src.Next(ctx)
		if err != nil {
			if errors.Is(err, source.ErrEndOfSequence) {
				d.log.Info(ctx, "source exhausted", logging.Int("ticks", tick))
				return nil
			}
			if ctx.Err() != nil {
				// Cancellation surfaced through a blocking source.
				d.log.Info(ctx, "animation stopped", logging.Int("ticks", tick))
				return nil
			}
			return fmt.Errorf("anim: next observation: %w", err)
		}

		tickCtx, span := d.tracer.Start(ctx, "Driver/tick", trace.WithAttributes(
			attribute.Int("tick", tick),
			attribute.String("station", obs.Station),
		))

		composeStart := d.clock.Now()
		frame, cs := d.composer.Compose(obs, tick)
		composeTime := d.clock.Now().Sub(composeStart)

		span.SetAttributes(
			attribute.Float64("pollution_index", cs.PollutionIndex),
			attribute.String("aqi_level", cs.Level.String()),
		)
		if d.metrics != nil {
			d.metrics.ObserveFrame(composeTime.Seconds(), cs.PollutionIndex, int(cs.Level),
				measurementNames(cs.Missing), measurementNames(cs.Clamped))
		}
		if d.stats != nil {
			d.stats.RecordFrame(tick, cs, composeTime)
		}
		if cs.Level != lastLevel {
			d.log.Info(tickCtx, "air quality level changed",
				logging.String("level", cs.Level.String()),
				logging.Float64("pollution_index", cs.PollutionIndex))
			lastLevel = cs.Level
		}

		if err := d.renderer.Present(frame); err != nil {
			if d.metrics != nil {
				d.metrics.FramePresented(false)
			}
			span.RecordError(err)
			span.End()
			return &RenderDeliveryError{Tick: tick, Err: err}
		}
		if d.metrics != nil {
			d.metrics.FramePresented(true)
		}
		if d.stats != nil {
			d.stats.RecordPresented()
		}
		d.log.Debug(tickCtx, "frame presented",
			logging.Int("tick", tick),
			logging.Float64("pollution_index", cs.PollutionIndex),
			logging.Int("shapes", len(frame.Shapes)))
		span.End()

		elapsed := d.clock.Now().Sub(tickStart)
		wait := d.period - elapsed
		if wait <= 0 {
			if wait < 0 {
				if d.metrics != nil {
					d.metrics.TickOverrun()
				}
				if d.stats != nil {
					d.stats.RecordOverrun()
				}
				d.log.Debug(ctx, "tick overran period",
					logging.Duration("elapsed", elapsed),
					logging.Duration("period", d.period))
			}
			continue
		}
		select {
		case <-ctx.Done():
		case <-d.clock.After(wait):
		}
	}
}

func measurementNames(ms []model.Measurement) []string {
	if len(ms) == 0 {
		return nil
	}
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}
