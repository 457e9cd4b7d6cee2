// Command mapmeasure runs the interactive measurement tool: a terminal map
// canvas where distance chains, polygons, curves, and point inspections are
// drawn with the mouse, persisted to the configured store, and exportable as
// GeoJSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/eric-ce/mapmeasure/internal/adapter"
	"github.com/eric-ce/mapmeasure/internal/adapter/geodetic"
	"github.com/eric-ce/mapmeasure/internal/adapter/planar"
	"github.com/eric-ce/mapmeasure/internal/adapter/terminal"
	"github.com/eric-ce/mapmeasure/internal/cache"
	"github.com/eric-ce/mapmeasure/internal/config"
	"github.com/eric-ce/mapmeasure/internal/dispatcher"
	"github.com/eric-ce/mapmeasure/internal/engine"
	"github.com/eric-ce/mapmeasure/internal/logging"
	"github.com/eric-ce/mapmeasure/internal/mode"
	"github.com/eric-ce/mapmeasure/internal/monitor"
	intOtel "github.com/eric-ce/mapmeasure/internal/otel"
	"github.com/eric-ce/mapmeasure/internal/session"
	"github.com/eric-ce/mapmeasure/internal/store"
	"github.com/eric-ce/mapmeasure/internal/telemetry"
	"github.com/eric-ce/mapmeasure/internal/worker"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

var (
	SlogManager *logging.SlogManager
	Logger      *slog.Logger

	OTelProvider *intOtel.Provider
	Telemetry    *telemetry.Manager

	SessionStartTime = time.Now()
)

// measureModes is the mode cycle order in the UI.
var measureModes = []core.Mode{
	core.ModeDistance,
	core.ModePolygon,
	core.ModeCurve,
	core.ModePointInfo,
}

// app bundles one engine, dispatcher, and controller per measurement mode.
// All engines share the canvas, the store writer, and the group counter, so
// label numbering holds across modes; a position guard spanning the engines
// extends duplicate suppression across modes too.
type app struct {
	gfx     *terminal.Adapter
	coord   adapter.Coordinate
	writer  *worker.Writer
	session *session.Context

	engines     map[core.Mode]*engine.Engine
	dispatchers map[core.Mode]*dispatcher.Dispatcher
	active      core.Mode
}

func (a *app) engine() *engine.Engine {
	return a.engines[a.active]
}

func (a *app) dispatch(command string, payload any) {
	d := a.dispatchers[a.active]
	_, err := d.Dispatch(dispatcher.Event{
		Command:   command,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		Logger.Debug("Command rejected", "command", command, "error", err)
	}
}

func (a *app) setMode(m core.Mode) {
	a.active = m
	a.session.SetMode(m)
}

func main() {
	configDir := flag.String("config", ".", "directory containing mapmeasure.cfg.json")
	sceneName := flag.String("scene", "untitled scene", "scene name stamped on logs and exports")
	flag.Parse()

	cleanup, err := bootstrap(*configDir, *sceneName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	switch flag.Arg(0) {
	case "export":
		if err := runExport(*sceneName); err != nil {
			Logger.Error("Export failed", "error", err)
			os.Exit(1)
		}
	case "", "measure":
		if err := runTUI(*sceneName); err != nil {
			Logger.Error("UI exited with error", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want measure or export)\n", flag.Arg(0))
		os.Exit(2)
	}
}

// bootstrap loads config and brings up logging, telemetry, and OTel. The
// returned cleanup flushes and closes them in reverse order.
func bootstrap(configDir, sceneName string) (func(), error) {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(os.Stderr, "info", nil)
	Logger = SlogManager.Logger()

	if err := config.Load(configDir); err != nil {
		config.LoadDefaults()
		Logger.Warn("Failed to load config, using defaults", "error", err)
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		_ = os.MkdirAll(logsDir, 0755)
	}
	logFilePath := logging.LogFilePath(logsDir, "mapmeasure", SessionStartTime)
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	if viper.GetBool("otel.enabled") {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:     true,
			ServiceName: "mapmeasure",
			LogWriter:   logFile,
			Endpoint:    viper.GetString("otel.endpoint"),
			Insecure:    viper.GetBool("otel.insecure"),
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
			OTelProvider = nil
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}

	if viper.GetBool("graylog.enabled") {
		gw, err := logging.NewGelfWriter(viper.GetString("graylog.address"))
		if err != nil {
			Logger.Warn("Graylog writer unavailable", "error", err)
			SlogManager.Setup(logFile, viper.GetString("logLevel"), otelLogProvider)
		} else {
			SlogManager.Setup(logFile, viper.GetString("logLevel"), otelLogProvider, gw)
		}
	} else {
		SlogManager.Setup(logFile, viper.GetString("logLevel"), otelLogProvider)
	}
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", logFilePath, "version", Version, "buildDate", BuildDate)

	if viper.GetBool("influx.enabled") {
		zl := zerolog.New(logFile).With().Timestamp().Logger()
		backupPath := filepath.Join(logsDir, "telemetry_backup.gz")
		Telemetry = telemetry.NewManager(zl, backupPath)
		if err := Telemetry.Connect(); err != nil {
			Logger.Warn("Telemetry disabled", "error", err)
			Telemetry = nil
		}
	}

	cleanup := func() {
		if Telemetry != nil {
			Telemetry.Close()
		}
		if OTelProvider != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = OTelProvider.Shutdown(ctx)
			cancel()
		}
		_ = logFile.Close()
	}
	return cleanup, nil
}

// buildApp wires the store writer, the per-mode engines, and their command
// dispatchers onto one shared terminal canvas.
func buildApp(sceneName string) (*app, *monitor.Service, error) {
	measureCfg := config.GetMeasureConfig()

	backend, err := store.NewStore(config.GetStorageConfig(), Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create store: %w", err)
	}
	writer := worker.NewWriter(backend, worker.DefaultQueueSize, Logger)
	if err := writer.Init(); err != nil {
		return nil, nil, fmt.Errorf("init store writer: %w", err)
	}

	sess := session.NewContext()
	sess.SetScene(&session.Scene{Name: sceneName, Renderer: "terminal"})

	gfx := terminal.New(80, 24)
	gfx.SetViewport(terminal.Viewport{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000})

	var coord adapter.Coordinate
	switch measureCfg.CoordinateSpace {
	case "geodetic":
		coord = geodetic.New(measureCfg.ToleranceMeters)
	default:
		coord = planar.New(measureCfg.ToleranceMeters)
	}

	counter := cache.NewSafeCounter()
	zl := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	a := &app{
		gfx:         gfx,
		coord:       coord,
		writer:      writer,
		session:     sess,
		engines:     make(map[core.Mode]*engine.Engine),
		dispatchers: make(map[core.Mode]*dispatcher.Dispatcher),
		active:      core.ModeDistance,
	}

	for _, m := range measureModes {
		opts := []engine.Option{engine.WithCounter(counter)}
		if Telemetry != nil {
			opts = append(opts, engine.WithActivityRecorder(Telemetry))
		}
		eng := engine.New(
			engine.StrategyFor(m, measureCfg.CurveInterpolationSteps),
			coord, gfx, writer, Logger, opts...,
		)

		d, err := dispatcher.New(logging.NewDispatcherLogger(zl))
		if err != nil {
			return nil, nil, fmt.Errorf("create dispatcher: %w", err)
		}
		mode.NewController(eng, coord, measureCfg.DragThresholdPx, Logger).RegisterHandlers(d)

		a.engines[m] = eng
		a.dispatchers[m] = d
	}
	for _, m := range measureModes {
		own := m
		a.engines[m].SetPositionGuard(func(pos core.Position) bool {
			for _, other := range measureModes {
				if other == own {
					continue
				}
				for _, g := range a.engines[other].Groups() {
					if g.IndexOf(pos, coord.Equal) >= 0 {
						return true
					}
				}
			}
			return false
		})
	}
	sess.SetMode(a.active)

	mon := monitor.NewService(monitor.Dependencies{
		Log:      Logger,
		Session:  sess,
		Writer:   writer,
		Recorder: depthRecorder(),
	})

	return a, mon, nil
}

// depthRecorder returns the telemetry manager as the monitor's queue-depth
// sink, nil when telemetry is off. The indirection avoids handing the
// monitor a typed nil.
func depthRecorder() monitor.DepthRecorder {
	if Telemetry == nil {
		return nil
	}
	return Telemetry
}
