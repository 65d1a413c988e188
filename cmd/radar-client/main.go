package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/OCAP2/radar/internal/api"
	"github.com/OCAP2/radar/internal/camera"
	"github.com/OCAP2/radar/internal/channel"
	"github.com/OCAP2/radar/internal/command"
	"github.com/OCAP2/radar/internal/config"
	"github.com/OCAP2/radar/internal/influx"
	"github.com/OCAP2/radar/internal/interaction"
	"github.com/OCAP2/radar/internal/logging"
	"github.com/OCAP2/radar/internal/monitor"
	"github.com/OCAP2/radar/internal/otel"
	"github.com/OCAP2/radar/internal/render"
	"github.com/OCAP2/radar/internal/session"
	"github.com/OCAP2/radar/internal/stream"
	"github.com/OCAP2/radar/internal/ui"
	"github.com/OCAP2/radar/pkg/core"
)

const (
	// AppName prefixes log and backup files.
	AppName = "radar_client"
	// WindowTitle is the title of the radar window.
	WindowTitle = "Radar"
)

// CurrentVersion is overridden at build time with -ldflags.
var CurrentVersion = "0.1.0"

var configDir = flag.String("config", ".", "directory containing "+config.FileName)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "radar-client:", err)
		os.Exit(1)
	}
}

func run() error {
	sessionStart := time.Now()
	clientID := uuid.NewString()

	cfgErr := config.Load(*configDir)

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}
	logFile, err := os.OpenFile(logging.LogFilePath(logsDir, AppName, sessionStart), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	otelProvider, otelFile, err := setupOTel(logsDir, clientID, sessionStart)
	if err != nil {
		return err
	}
	if otelFile != nil {
		defer otelFile.Close()
	}

	var mgr atomic.Pointer[stream.Manager]
	logLevel := config.GetString("logLevel")
	logManager := logging.NewSlogManager()
	logManager.SetContextProvider(func() []slog.Attr {
		attrs := []slog.Attr{slog.String("client", clientID)}
		if m := mgr.Load(); m != nil {
			attrs = append(attrs, slog.String("link", m.State().String()))
		}
		return attrs
	})
	remote, gelfErr := setupGraylog()
	logManager.Setup(logFile, logLevel, otelProvider.LoggerProvider(), remote)
	logger := logManager.Logger()

	if cfgErr != nil {
		logger.Warn("Config file not loaded, using defaults", "error", cfgErr)
	}
	if gelfErr != nil {
		logger.Warn("Graylog disabled", "error", gelfErr)
	}
	if otelProvider.Enabled() {
		logger.Info("OpenTelemetry log export enabled", "endpoint", config.GetOTelConfig().Endpoint)
	}

	zl := logging.NewZerolog(logFile, logLevel, false)

	// commands
	sc := config.GetServerConfig()
	client := api.New(sc.URL, clientID)
	dispatcher, err := command.New(
		logging.NewCommandLogger(zl.With().Str("component", "command").Logger()),
		otelProvider.Meter(command.InstrumentationName),
	)
	if err != nil {
		return fmt.Errorf("create command dispatcher: %w", err)
	}
	defer dispatcher.Close()
	command.RegisterControl(dispatcher, client,
		command.Buffered(sc.CommandQueue),
		command.Logged(),
		command.Timeout(sc.CommandTimeout),
	)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Healthcheck(ctx); err != nil {
			logger.Warn("Radar server not reachable yet", "url", sc.URL, "error", err)
		}
	}()

	// session
	vc := config.GetViewConfig()
	cc := config.GetCameraConfig()
	sess := session.New(session.Config{
		ReferenceID: vc.ReferenceID,
		Sweep:       vc.Sweep,
		Camera: camera.Config{
			MinScale:     cc.MinScale,
			MaxScale:     cc.MaxScale,
			DefaultScale: cc.DefaultScale,
			PanStep:      cc.PanStep,
		},
		Interaction: interaction.Config{
			DragThreshold: vc.DragThreshold,
			HitRadius:     vc.HitRadius,
		},
		Palette: render.DefaultPalette(),
	}, dispatcher, logger)

	// stream
	snaps := channel.NewLatest[core.Snapshot]()
	streamURL, err := stream.StreamURL(sc.URL, sc.WSPath)
	if err != nil {
		return fmt.Errorf("stream url: %w", err)
	}
	header := http.Header{}
	header.Set(api.ClientIDHeader, clientID)
	streamManager := stream.New(stream.Config{
		URL:            streamURL,
		Header:         header,
		ReconnectDelay: sc.ReconnectDelay,
		PongWait:       sc.PongWait,
	}, snaps, logger)
	mgr.Store(streamManager)

	// window
	fonts, err := ui.LoadFonts()
	if err != nil {
		return err
	}
	game := ui.New(sess, snaps, fonts, ui.Options{
		Title:      WindowTitle,
		Width:      vc.Width,
		Height:     vc.Height,
		PanelWidth: vc.PanelWidth,
		Status: func() string {
			return "LINK " + streamManager.State().String() + " | " + sc.URL
		},
	}, logger)

	// telemetry
	var points monitor.PointWriter
	var pointsSent func() uint64
	ic := config.GetInfluxConfig()
	if ic.Enabled {
		im := influx.NewManager(influx.Config{
			URL:          ic.URL(),
			Token:        ic.Token,
			Org:          ic.Org,
			Bucket:       ic.Bucket,
			EnsureBucket: true,
		}, zl.With().Str("component", "influx").Logger(),
			filepath.Join(logsDir, fmt.Sprintf("%s.%s.lp.gz", influx.DefaultBucket, sessionStart.Format("20060102_150405"))))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := im.Connect(ctx)
		cancel()
		if err != nil {
			logger.Error("InfluxDB unavailable, performance points disabled", "error", err)
		} else {
			if !im.Valid() {
				logger.Warn("InfluxDB unreachable, writing points to backup file")
			}
			points = im
			pointsSent = im.Written
			defer func() {
				if err := im.Close(); err != nil {
					logger.Error("Error closing InfluxDB", "error", err)
				}
			}()
		}
	}

	mon := monitor.NewService(monitor.Dependencies{
		Logger:      logger,
		ClientID:    clientID,
		Stream:      streamManager.Stats,
		StreamState: streamManager.State,
		Client:      game.Stats,
		Overwritten: snaps.Overwritten,
		LogFailures: logManager.Failures,
		PointsSent:  pointsSent,
		Points:      points,
		StatusPath:  filepath.Join(logsDir, "status.json"),
		Interval:    ic.Interval,
	})
	if err := mon.Start(); err != nil {
		logger.Error("Error starting status monitor", "error", err)
	}

	streamManager.Connect()
	logger.Info("Radar client started",
		"version", CurrentVersion,
		"server", sc.URL,
		"stream", streamURL,
		"reference", vc.ReferenceID,
	)

	runErr := ui.Run(game)

	logger.Info("Shutting down")
	mon.Stop()
	if err := streamManager.Close(); err != nil {
		logger.Warn("Error closing stream", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := logManager.Flush(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "flush logs:", err)
	}
	if err := otelProvider.Shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "otel shutdown:", err)
	}

	if runErr != nil {
		return fmt.Errorf("window: %w", runErr)
	}
	return nil
}

func setupOTel(logsDir, clientID string, sessionStart time.Time) (*otel.Provider, *os.File, error) {
	oc := config.GetOTelConfig()
	cfg := otel.Config{
		Enabled:        oc.Enabled,
		ServiceName:    oc.ServiceName,
		ServiceVersion: CurrentVersion,
		BatchTimeout:   oc.BatchTimeout,
		Endpoint:       oc.Endpoint,
		Insecure:       oc.Insecure,
		InstanceID:     clientID,
	}

	var file *os.File
	if oc.Enabled {
		var err error
		file, err = os.OpenFile(logging.LogFilePath(logsDir, AppName+".otel", sessionStart), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open otel log file: %w", err)
		}
		cfg.LogWriter = file
	}

	p, err := otel.New(cfg)
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, nil, fmt.Errorf("setup otel: %w", err)
	}
	return p, file, nil
}

func setupGraylog() (io.Writer, error) {
	if !config.GetBool("graylog.enabled") {
		return nil, nil
	}
	w, err := logging.NewGraylogWriter(config.GetString("graylog.address"), AppName)
	if err != nil {
		return nil, err
	}
	return w, nil
}
