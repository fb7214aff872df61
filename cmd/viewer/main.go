package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chromaworks/aircanvas/core"
	"github.com/chromaworks/aircanvas/dataset"
	"github.com/chromaworks/aircanvas/internal/anim"
	"github.com/chromaworks/aircanvas/internal/config"
	"github.com/chromaworks/aircanvas/internal/logging"
	"github.com/chromaworks/aircanvas/internal/render"
	"github.com/chromaworks/aircanvas/internal/source"
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
	width := flag.Int("width", cfg.WindowWidth, "window width in pixels")
	height := flag.Int("height", cfg.WindowHeight, "window height in pixels")
	flag.Parse()

	cfg.TickPeriod = *tick
	cfg.Source = config.SourceKind(strings.ToLower(*sourceKind))
	cfg.DatasetPath = *datasetPath
	cfg.Station = *station
	cfg.Loop = *loop
	cfg.Seed = *seed
	cfg.WindowWidth = *width
	cfg.WindowHeight = *height
	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "invalid configuration", logging.Err(err))
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx, cancel := context.WithCancel(runCtx)
	defer cancel()
	runCtx, log = logging.WithRunLogger(runCtx, log)

	src, err := buildSource(cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build observation source", logging.Err(err))
		os.Exit(1)
	}
	defer src.Close()

	composer, err := core.NewComposer(core.DefaultConfig())
	if err != nil {
		log.Error(ctx, "failed to build composer", logging.Err(err))
		os.Exit(1)
	}

	window := render.NewWindow(runCtx, cfg.WindowWidth, cfg.WindowHeight, "aircanvas")

	stats := anim.NewStats()
	driver, err := anim.NewDriver(src, window, composer, cfg.TickPeriod,
		anim.WithLogger(log),
		anim.WithStats(stats),
	)
	if err != nil {
		log.Error(ctx, "failed to build driver", logging.Err(err))
		os.Exit(1)
	}

	log.Info(ctx, "starting viewer",
		logging.String("source", string(cfg.Source)),
		logging.Duration("tick", cfg.TickPeriod),
	)

	errc := make(chan error, 1)
	go func() {
		err := driver.Run(runCtx)
		if err != nil {
			// Bring the window down with the driver. A clean stop leaves the
			// last frame on screen until the window is closed.
			cancel()
		}
		errc <- err
	}()

	// Ebitengine requires the game loop on the main goroutine.
	windowErr := window.Run()
	cancel()
	driverErr := <-errc

	snap := stats.Snapshot()
	log.Info(ctx, "viewer finished",
		logging.Int("frames_composed", snap.FramesComposed),
		logging.Int("frames_presented", snap.FramesPresented),
		logging.Int("last_tick", snap.LastTick),
		logging.Float64("pollution_index", snap.LastIndex),
		logging.String("aqi_level", snap.LastLevel.String()),
	)

	if windowErr != nil {
		log.Error(ctx, "window exited", logging.Err(windowErr))
		os.Exit(1)
	}
	if driverErr != nil {
		log.Error(ctx, "animation driver failed", logging.Err(driverErr))
		os.Exit(1)
	}
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
			ClientID: "aircanvas-viewer",
			QoS:      1,
		}, log)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, cfg.Source)
	}
}
