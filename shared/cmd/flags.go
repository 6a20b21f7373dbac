// Package cmd defines the command line flags shared by every binary in this
// module, plus WrapFlags for loading them from a config file.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "cmd")

var (
	// VerbosityFlag defines the logrus configuration.
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (debug, info=default, warn, error, fatal, panic)",
		Value: "info",
	}
	// DataDirFlag defines a path on disk where the DB and net keys live.
	DataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the databases and keystore",
		Value: DefaultDataDir(),
	}
	// LogFormat specifies the log output encoding: text, json or fluentd.
	LogFormat = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Specify log formatting. Supports: text, json, fluentd.",
		Value: "text",
	}
	// LogFileName specifies a path a persistent copy of logs is written to,
	// in addition to stdout.
	LogFileName = &cli.StringFlag{
		Name:  "log-file",
		Usage: "Specify log file name, relative or absolute. Logs are copied to this file in addition to stdout.",
	}
	// ConfigFileFlag specifies a YAML file flags are loaded from before CLI
	// overrides are applied.
	ConfigFileFlag = &cli.StringFlag{
		Name:  "config-file",
		Usage: "The filepath to a YAML file with flag values.",
	}
	// EnableTracingFlag enables opencensus distributed tracing.
	EnableTracingFlag = &cli.BoolFlag{
		Name:  "enable-tracing",
		Usage: "Enable request tracing.",
	}
	// TracingProcessNameFlag names this process in exported traces.
	TracingProcessNameFlag = &cli.StringFlag{
		Name:  "tracing-process-name",
		Usage: "The name this process identifies itself with in exported traces.",
	}
	// TracingEndpointFlag is the collector endpoint traces are exported to.
	TracingEndpointFlag = &cli.StringFlag{
		Name:  "tracing-endpoint",
		Usage: "Tracing endpoint defines where beacon chain traces are exported to.",
		Value: "http://127.0.0.1:14268",
	}
	// TraceSampleFractionFlag is the fraction of requests sampled for
	// tracing.
	TraceSampleFractionFlag = &cli.Float64Flag{
		Name:  "trace-sample-fraction",
		Usage: "Indicates what fraction of requests are sampled for tracing.",
		Value: 0.20,
	}
	// DisableMonitoringFlag disables the Prometheus metrics HTTP service.
	DisableMonitoringFlag = &cli.BoolFlag{
		Name:  "disable-monitoring",
		Usage: "Disable monitoring service.",
	}
	// MonitoringHostFlag is the host the Prometheus metrics HTTP service
	// binds to.
	MonitoringHostFlag = &cli.StringFlag{
		Name:  "monitoring-host",
		Usage: "Host used to listen and respond metrics for prometheus.",
		Value: "127.0.0.1",
	}
	// MonitoringPortFlag is the port the Prometheus metrics HTTP service
	// binds to.
	MonitoringPortFlag = &cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port used to listen and respond to metrics for prometheus.",
		Value: 8080,
	}
	// MaxGoroutines is registered on the CLI but not read by any code in
	// this module; /goroutinez applies no goroutine threshold.
	MaxGoroutines = &cli.IntFlag{
		Name:  "max-goroutines",
		Usage: "Sets the maximum amount of goroutines before warning the logs.",
		Value: 5000,
	}
	// ClearDB removes any previously stored data at the data directory.
	ClearDB = &cli.BoolFlag{
		Name:  "clear-db",
		Usage: "Prompt for clearing any previously stored data at the data directory.",
	}
	// ForceClearDB removes any previously stored data without a
	// confirmation prompt.
	ForceClearDB = &cli.BoolFlag{
		Name:  "force-clear-db",
		Usage: "Clears any previously stored data at the data directory without a confirmation prompt.",
	}
	// PprofFlag enables the pprof HTTP endpoint.
	PprofFlag = &cli.BoolFlag{
		Name:  "pprof",
		Usage: "Enable the pprof HTTP server.",
	}
)
