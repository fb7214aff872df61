package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chromaworks/aircanvas/core"
	"github.com/chromaworks/aircanvas/dataset"
	"github.com/chromaworks/aircanvas/internal/anim"
	"github.com/chromaworks/aircanvas/internal/config"
	"github.com/chromaworks/aircanvas/internal/logging"
	"github.com/chromaworks/aircanvas/internal/observability"
	"github.com/chromaworks/aircanvas/internal/render"
	"github.com/chromaworks/aircanvas/internal/source"
	"github.com/chromaworks/aircanvas/model"
)

func main() {
	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "invalid configuration", logging.Err(err))
		os.Exit(1)
	}

	tick := flag.Duration("tick", cfg.TickPeriod, "animation tick period")
	sourceKind := flag.String("source", string(cfg.Source), "observation source: csv|synthetic|kafka|mqtt")
	datasetPath := flag.String("dataset", cfg.DatasetPath, "CSV dataset path for the csv source")
	station := flag.String("station", cfg.Station, "station to replay; empty averages all stations")
	loop := flag.Bool("loop", cfg.Loop, "restart the dataset when it runs out")
	seed := flag.Int64("seed", cfg.Seed, "seed for the synthetic source")
	outDir := flag.String("out", cfg.OutDir, "directory PNG frames are written to")
	frames := flag.Int("frames", cfg.FrameLimit, "number of frames to export (0 = until the source ends)")
	width := flag.Int("width", cfg.WindowWidth, "frame width in pixels")
	height := flag.Int("height", cfg.WindowHeight, "frame height in pixels")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "HTTP address for Prometheus /metrics")
	flag.Parse()

	cfg.TickPeriod = *tick
	cfg.Source = config.SourceKind(strings.ToLower(*sourceKind))
	cfg.DatasetPath = *datasetPath
	cfg.Station = *station
	cfg.Loop = *loop
	cfg.Seed = *seed
	cfg.OutDir = *outDir
	cfg.FrameLimit = *frames
	cfg.WindowWidth = *width
	cfg.WindowHeight = *height
	cfg.MetricsAddr = *metricsAddr
	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "invalid configuration", logging.Err(err))
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(runCtx, cfg, log); err != nil {
		log.Error(ctx, "export failed", logging.Err(err))
		os.Exit(1)
	}
}

// run assembles the headless pipeline and drives it to completion. It is
// separated from main so tests can exercise a full export.
func run(ctx context.Context, cfg *config.AppConfig, log logging.Logger) error {
	ctx, log = logging.WithRunLogger(ctx, log)

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewEngineCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	metricsSrv := serveMetrics(cfg.MetricsAddr, collector, log)
	defer func() {
		if metricsSrv == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	src, err := buildSource(cfg, log)
	if err != nil {
		return err
	}
	defer src.Close()

	if cfg.FrameLimit > 0 {
		src = &limitedSource{src: src, remaining: cfg.FrameLimit}
	}

	composer, err := core.NewComposer(core.DefaultConfig())
	if err != nil {
		return err
	}

	renderer, err := render.NewPNG(cfg.OutDir, cfg.WindowWidth, cfg.WindowHeight, log)
	if err != nil {
		return err
	}

	stats := anim.NewStats()
	driver, err := anim.NewDriver(src, renderer, composer, cfg.TickPeriod,
		anim.WithLogger(log),
		anim.WithMetrics(collector),
		anim.WithStats(stats),
	)
	if err != nil {
		return err
	}

	log.Info(ctx, "starting export",
		logging.String("source", string(cfg.Source)),
		logging.String("out_dir", cfg.OutDir),
		logging.Int("frame_limit", cfg.FrameLimit),
		logging.Duration("tick", cfg.TickPeriod),
	)

	runErr := driver.Run(ctx)

	snap := stats.Snapshot()
	log.Info(ctx, "export finished",
		logging.Int("frames_composed", snap.FramesComposed),
		logging.Int("frames_presented", snap.FramesPresented),
		logging.Int("overruns", snap.Overruns),
		logging.Int("last_tick", snap.LastTick),
		logging.Float64("pollution_index", snap.LastIndex),
		logging.String("aqi_level", snap.LastLevel.String()),
	)
	return runErr
}

func serveMetrics(addr string, collector *observability.EngineCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

func buildSource(cfg *config.AppConfig, log logging.Logger) (source.Source, error) {
	switch cfg.Source {
	case config.SourceCSV:
		ds := dataset.New()
		res, err := dataset.LoadCSVFile(ds, cfg.DatasetPath, dataset.LoadOptions{Station: cfg.Station})
		if err != nil {
			return nil, fmt.Errorf("load dataset %q: %w", cfg.DatasetPath, err)
		}
		log.Info(context.Background(), "loaded dataset",
			logging.String("path", cfg.DatasetPath),
			logging.Int("observations", res.Observations),
			logging.Int("skipped_rows", res.SkippedRows),
			logging.Int("stations", len(res.Stations)),
		)
		return source.NewDataset(ds, cfg.Loop), nil
	case config.SourceSynthetic:
		return source.NewSynthetic(cfg.Seed, core.DefaultConfig()), nil
	case config.SourceKafka:
		return source.NewKafka(source.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			GroupID: cfg.KafkaGroup,
		}, log), nil
	case config.SourceMQTT:
		return source.NewMQTT(source.MQTTConfig{
			Broker:   cfg.MQTTBroker,
			Topic:    cfg.MQTTTopic,
			ClientID: "aircanvas-exporter",
			QoS:      1,
		}, log)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, cfg.Source)
	}
}

// limitedSource ends the stream after a fixed number of observations so a
// frame limit can bound an otherwise endless source.
type limitedSource struct {
	src       source.Source
	remaining int
}

func (l *limitedSource) Next(ctx context.Context) (model.Observation, error) {
	if l.remaining <= 0 {
		return model.Observation{}, source.ErrEndOfSequence
	}
	obs, err := l.src.Next(ctx)
	if err == nil {
		l.remaining--
	}
	return obs, err
}

func (l *limitedSource) Close() error { return l.src.Close() }
