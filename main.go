package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"i4.energy/across/sa818gw/radio"
)

func main() {
	configPath := flag.String("config", "sa818gw.yaml", "Path to the YAML configuration file")
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port connected to the SA818 module")
	flag.Int("baud-rate", radio.DefaultBaudRate, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Duration("inactivity-timeout", radio.DefaultInactivityTimeout, "Silence that completes a module reply")
	flag.String("mqtt-broker", "", "MQTT broker URL (empty disables the MQTT bridge)")
	flag.Bool("gpio", false, "Drive the PTT, PD and H/L lines through sysfs GPIO")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithFile(*configPath), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	builder := radio.NewConfigBuilder().
		WithInactivityTimeout(config.InactivityTimeout).
		WithMaxCapture(config.MaxCapture).
		WithLogger(logger.With("component", "radio")).
		WithDialer(radio.SerialDialer{
			PortName: config.SerialPort,
			BaudRate: config.BaudRate,
		})

	var pins *radio.SysfsPins
	if config.GPIO.Enabled {
		pins = radio.NewSysfsPins()
		builder = builder.WithPinDriver(pins)
	}

	radioConfig, err := builder.Build()
	if err != nil {
		logger.Error("Failed to create radio config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := radio.New(ctx, radioConfig)
	if err != nil {
		logger.Error("Failed to open radio", "error", err, "port", config.SerialPort)
		os.Exit(1)
	}

	if err := startRadio(ctx, r, config, logger); err != nil {
		logger.Error("Failed to start radio", "error", err)
		r.Close()
		os.Exit(1)
	}

	logger.Info("Starting SA818 Gateway", "port", config.SerialPort, "mqtt", config.MQTT.Broker != "")

	httpServer := &http.Server{
		Addr: config.BindAddress,
		Handler: &Server{
			Logger:       logger.With("component", "server"),
			Radio:        r,
			RSSIInterval: config.RSSIInterval,
		},
	}

	bridge := &Bridge{
		Logger: logger.With("component", "mqtt"),
		Radio:  r,
		Config: config.MQTT,
	}
	bridge.Start(ctx)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Closing HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to gracefully shutdown server", "error", err)
	}

	if pins != nil {
		if err := r.SetPTT(false); err != nil {
			logger.Warn("Failed to release PTT", "error", err)
		}
		if err := pins.Close(); err != nil {
			logger.Warn("Failed to release GPIO lines", "error", err)
		}
	}

	logger.Info("Closing radio connection")
	if err := r.Close(); err != nil {
		logger.Error("Failed to close radio", "error", err)
		os.Exit(1)
	}
}

// startRadio brings the module up. With GPIO enabled the control lines are
// driven to their idle levels first, which takes the module out of
// power-down before the connect handshake. The startup settings follow.
func startRadio(ctx context.Context, r *radio.CommandChannel, config *Config, logger *slog.Logger) error {
	if config.GPIO.Enabled {
		lines := radio.IdlePins(config.GPIO.PTTPin, config.GPIO.PowerDownPin, config.GPIO.HighLowPin)
		if err := r.ConfigurePins(lines); err != nil {
			return fmt.Errorf("configure control pins: %w", err)
		}
	}

	if err := r.Apply(ctx, config.Radio); err != nil {
		return fmt.Errorf("program radio: %w", err)
	}

	if version, err := r.Version(ctx); err == nil && version != "" {
		logger.Info("Radio ready", "version", version, "group", config.Radio.Group)
	}
	return nil
}
