// Package cmdutil holds setup code shared by the commands.
package cmdutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mpapenbr/lapcompare/log"
	"github.com/mpapenbr/lapcompare/pkg/client"
	"github.com/mpapenbr/lapcompare/pkg/config"
	"github.com/mpapenbr/lapcompare/pkg/render/pngchart"
	"github.com/mpapenbr/lapcompare/pkg/utils"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger according to the log flags and installs it
// as default logger.
func SetupLogger() *log.Logger {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if config.LogFilter != "" {
		if filtered, err := logger.WithFilter(config.LogFilter); err == nil {
			logger = filtered
		} else {
			logger.Warn("invalid log filter, ignored",
				log.String("filter", config.LogFilter), log.ErrorField(err))
		}
	}
	log.ResetDefault(logger)
	return logger
}

// SetupTelemetry enables tracing if requested. The returned func must be
// called before exit.
func SetupTelemetry(ctx context.Context) func() {
	if !config.EnableTelemetry {
		return func() {}
	}
	telemetry, err := config.SetupTelemetry(ctx)
	if err != nil {
		log.Warn("Could not setup telemetry", log.ErrorField(err))
		return func() {}
	}
	return telemetry.Shutdown
}

// ParseDuration returns defaultVal if s is no valid duration.
func ParseDuration(name, s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Warn("Invalid duration value. Using default",
			log.String("name", name),
			log.String("value", s),
			log.Duration("default", defaultVal))
		return defaultVal
	}
	return d
}

// NewClient creates an API client from the global flags.
func NewClient(ctx context.Context) (*client.Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("no API url configured")
	}
	opts := []client.Option{
		client.WithToken(config.Token),
		client.WithTimeout(ParseDuration("timeout", config.Timeout, 30*time.Second)),
	}
	for _, h := range config.Headers {
		key, value, ok := strings.Cut(h, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q, expected key=value", h)
		}
		opts = append(opts, client.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
	}
	tlsFiles := client.TLSFiles{
		CAFile:   config.TLSCAFile,
		CertFile: config.TLSCertFile,
		KeyFile:  config.TLSKeyFile,
	}
	if !tlsFiles.IsEmpty() {
		tlsConfig, err := client.NewTLSConfig(ctx, tlsFiles)
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithTLSConfig(tlsConfig))
	}
	return client.New(config.URL, opts...), nil
}

// WaitForAPI waits until the API host accepts connections. Nothing is done
// if no wait duration is configured.
func WaitForAPI(ctx context.Context) error {
	timeout := ParseDuration("wait-for-api", config.WaitForAPI, 0)
	if timeout <= 0 {
		return nil
	}
	addr, _ := utils.ExtractFromHTTPURL(config.URL)
	if addr == "" {
		return fmt.Errorf("cannot derive address from %q", config.URL)
	}
	return utils.WaitForTCP(ctx, addr, timeout)
}

// NewSurface creates a PNG surface below the output directory.
func NewSurface(name string) (*pngchart.Surface, error) {
	return pngchart.New(
		filepath.Join(config.OutputDir, name),
		pngchart.WithSize(config.ChartWidth, config.ChartHeight),
		pngchart.WithLogger(log.Default().Named("render."+name)))
}
