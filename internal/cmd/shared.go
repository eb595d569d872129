package cmd

import (
	"fmt"
	"io"

	"github.com/kestrelbot/agentcore/internal/app"
	"github.com/kestrelbot/agentcore/internal/coreconfig"
	"github.com/kestrelbot/agentcore/internal/corelog"
	"github.com/kestrelbot/agentcore/internal/telemetry"
)

// newApp loads config from the persistent --config/--log-level flags and
// constructs a fresh wired App writing to out. When --telemetry-db is
// set, a SQLiteSink is opened and attached before returning; callers
// that care about releasing the handle should close a.Telemetry
// themselves (commands are short-lived, one per process invocation).
func newApp(out io.Writer) (*app.App, error) {
	cfg, err := coreconfig.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := corelog.New(out, cfg.LogLevel)
	a := app.New(cfg, logger)

	if telemetryDB != "" {
		sink, err := telemetry.OpenSQLiteSink(telemetryDB)
		if err != nil {
			return nil, fmt.Errorf("open telemetry database: %w", err)
		}
		a.AttachTelemetry(sink)
	}

	return a, nil
}
