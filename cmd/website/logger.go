package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/adampresley/couplestory/cmd/website/internal/configuration"
	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

/*
setupLogger installs the default slog logger. Records go to zerolog on
stderr and, when a Sentry DSN is configured, errors are also sent to
Sentry. The returned func flushes anything Sentry still has queued.
*/
func setupLogger(config *configuration.Config, version string) func() {
	level := parseLogLevel(config.LogLevel)

	var zlog zerolog.Logger

	if strings.EqualFold(config.LogFormat, "json") {
		zlog = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		zlog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	handlers := []slog.Handler{
		slogzerolog.Option{Level: level, Logger: &zlog}.NewZerologHandler(),
	}

	flush := func() {}

	if config.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     config.SentryDSN,
			Release: appName + "@" + version,
		})

		if err != nil {
			zlog.Error().Err(err).Msg("error initializing sentry, continuing without it")
		} else {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	logger := slog.New(slogmulti.Fanout(handlers...)).With("app", appName)
	slog.SetDefault(logger)

	return flush
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug

	case "warn", "warning":
		return slog.LevelWarn

	case "error":
		return slog.LevelError

	default:
		return slog.LevelInfo
	}
}
