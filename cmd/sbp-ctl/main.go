// Command sbp-ctl is an interactive controller for Sphero BOLT Plus toys.
//
// It scans for toys, connects to one, and drives it from a command prompt.
// Without BLE hardware it can control a simulated toy, so the full protocol
// stack is exercisable on any machine.
//
// Usage:
//
//	sbp-ctl [flags]
//
// Flags:
//
//	-endpoint string      Toy endpoint to connect to on startup
//	-name string          Toy name label for protocol logs
//	-sim                  Control simulated toys instead of real hardware (default true)
//	-scan-timeout duration  Discovery scan window (default 5s)
//	-config string        Configuration file path (YAML)
//	-protocol-log string  File path for protocol event logging (CBOR format)
//	-log-level string     Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Drive a simulated toy
//	sbp-ctl
//
//	# Connect to a specific toy on startup and record the protocol exchange
//	sbp-ctl -endpoint sim:sb-9a3f -protocol-log session.sbplog
//
//	# Use a config file with endpoint aliases
//	sbp-ctl -config ~/.sbp-ctl.yaml
//
// Interactive Commands:
//
//	scan        - Scan for nearby toys
//	connect     - Connect and wake a toy
//	drive       - Drive (speed 0-255, heading 0-359)
//	led         - Set the main LED color
//	pixel       - Light one matrix pixel
//	state       - Show session state
//	disconnect  - Disconnect from the toy
//	quit        - Exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/sbp-robotics/sbp-go/cmd/sbp-ctl/interactive"
	"github.com/sbp-robotics/sbp-go/internal/boltsim"
	sbplog "github.com/sbp-robotics/sbp-go/pkg/log"
	"github.com/sbp-robotics/sbp-go/pkg/session"
	"github.com/sbp-robotics/sbp-go/pkg/transport"
)

var (
	endpoint    = flag.String("endpoint", "", "Toy endpoint to connect to on startup")
	deviceName  = flag.String("name", "", "Toy name label for protocol logs")
	sim         = flag.Bool("sim", true, "Control simulated toys instead of real hardware")
	scanTimeout = flag.Duration("scan-timeout", 5*time.Second, "Discovery scan window")
	configFile  = flag.String("config", "", "Configuration file path (YAML)")
	protocolLog = flag.String("protocol-log", "", "File path for protocol event logging (CBOR format)")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	var aliases map[string]string
	if *configFile != "" {
		cfg, err := LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := applyConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		aliases = cfg.Aliases
	}

	logger := setupLogging(*logLevel)

	tr, err := buildTransport(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("no usable transport")
	}

	// Protocol event logging: a CBOR file for sbp-log, plus a live echo
	// through slog when debugging.
	var eventLoggers []sbplog.Logger
	if *protocolLog != "" {
		fileLogger, err := sbplog.NewFileLogger(*protocolLog)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create protocol logger")
		}
		defer fileLogger.Close()
		eventLoggers = append(eventLoggers, fileLogger)
		logger.Info().Str("path", *protocolLog).Msg("protocol logging enabled")
	}
	if *logLevel == "debug" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		eventLoggers = append(eventLoggers, sbplog.NewSlogAdapter(slog.New(handler)))
	}

	sessionOpts := []session.Option{}
	switch len(eventLoggers) {
	case 0:
	case 1:
		sessionOpts = append(sessionOpts, session.WithLogger(eventLoggers[0]))
	default:
		sessionOpts = append(sessionOpts, session.WithLogger(sbplog.NewMultiLogger(eventLoggers...)))
	}
	if *deviceName != "" {
		sessionOpts = append(sessionOpts, session.WithDeviceName(*deviceName))
	}

	repl, err := interactive.New(interactive.Config{
		Transport:       tr,
		ScanTimeout:     *scanTimeout,
		Aliases:         aliases,
		DefaultEndpoint: *endpoint,
		SessionOptions:  sessionOpts,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create interactive prompt")
	}

	// Route log output through readline to avoid clobbering the prompt.
	logger = logger.Output(zerolog.ConsoleWriter{Out: repl.Stdout(), TimeFormat: time.RFC3339})
	zlog.Logger = logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go repl.Run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
		// Interactive quit.
	}

	cancel()
	if err := repl.Close(); err != nil {
		logger.Warn().Err(err).Msg("shutdown incomplete")
	}
}

// applyConfig fills in settings from the config file for every flag the
// user did not set explicitly.
func applyConfig(cfg *Config) error {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["endpoint"] && cfg.Endpoint != "" {
		*endpoint = cfg.Endpoint
	}
	if !set["name"] && cfg.DeviceName != "" {
		*deviceName = cfg.DeviceName
	}
	if !set["scan-timeout"] && cfg.ScanTimeout != "" {
		d, err := cfg.ScanTimeoutDuration()
		if err != nil {
			return err
		}
		*scanTimeout = d
	}
	if !set["protocol-log"] && cfg.ProtocolLog != "" {
		*protocolLog = cfg.ProtocolLog
	}
	if !set["log-level"] && cfg.LogLevel != "" {
		*logLevel = cfg.LogLevel
	}
	return nil
}

func setupLogging(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", "sbp-ctl").Logger().Level(lvl)
	zlog.Logger = logger
	return logger
}

// buildTransport selects the transport. The library is deliberately
// radio-agnostic; without -sim a BLE-backed transport.Transport
// implementation has to be supplied by the embedding application.
func buildTransport(logger zerolog.Logger) (transport.Transport, error) {
	if !*sim {
		return nil, fmt.Errorf("no BLE transport built in; run with -sim or embed a transport.Transport implementation")
	}

	near := boltsim.NewDevice("SB-9A3F")
	near.SetRSSI(-42)
	mid := boltsim.NewDevice("SB-C71B")
	mid.SetRSSI(-63)
	far := boltsim.NewDevice("SB-20E5")
	far.SetRSSI(-79)

	tr := boltsim.NewTransport(near, mid, far)
	// Unrelated peripheral, to show scan filtering.
	tr.AddAdvertisement(transport.Advertisement{
		Endpoint:  "f4:7a:22:08:11:35",
		LocalName: "Kitchen Speaker",
		RSSI:      -58,
	})

	logger.Info().Int("toys", 3).Msg("simulated toys in range")
	return tr, nil
}
