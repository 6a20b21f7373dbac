// Package debug wires up the optional pprof endpoints and CPU/mem profile
// dumps a node operator can enable at startup, grounded on the same
// net/http/pprof idiom as shared/prometheus's metrics server.
package debug

import (
	"fmt"
	"net/http"
	_ "net/http/pprof" // registers the pprof handlers on http.DefaultServeMux
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "debug")

var (
	// PProfFlag enables the pprof HTTP server on PProfAddrFlag:PProfPortFlag.
	PProfFlag = &cli.BoolFlag{
		Name:  "pprof",
		Usage: "Enable the pprof HTTP server.",
	}
	// PProfAddrFlag sets the listen address of the pprof HTTP server.
	PProfAddrFlag = &cli.StringFlag{
		Name:  "pprofaddr",
		Usage: "pprof HTTP server listening interface.",
		Value: "127.0.0.1",
	}
	// PProfPortFlag sets the listen port of the pprof HTTP server.
	PProfPortFlag = &cli.IntFlag{
		Name:  "pprofport",
		Usage: "pprof HTTP server listening port.",
		Value: 6060,
	}
	// MemProfileRateFlag sets runtime.MemProfileRate.
	MemProfileRateFlag = &cli.IntFlag{
		Name:  "memprofilerate",
		Usage: "Turn on memory profiling with the given rate.",
		Value: runtime.MemProfileRate,
	}
	// CPUProfileFlag writes a CPU profile to the given file for the life of
	// the process.
	CPUProfileFlag = &cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "Write CPU profile to the given file.",
	}
	// TraceFlag writes an execution trace to the given file.
	TraceFlag = &cli.StringFlag{
		Name:  "trace",
		Usage: "Write execution trace to the given file.",
	}
)

var (
	cpuProfileFile *os.File
	traceFile      *os.File
)

// Setup parses the debug flags and starts whichever of the pprof server,
// CPU profile, and execution trace were requested. Exit should be deferred
// by the caller to close anything Setup opened.
func Setup(ctx *cli.Context) error {
	runtime.MemProfileRate = ctx.Int(MemProfileRateFlag.Name)

	if ctx.Bool(PProfFlag.Name) {
		address := fmt.Sprintf("%s:%d", ctx.String(PProfAddrFlag.Name), ctx.Int(PProfPortFlag.Name))
		go func() {
			log.WithField("address", address).Info("Starting pprof server")
			if err := http.ListenAndServe(address, nil); err != nil {
				log.WithError(err).Error("pprof server failed")
			}
		}()
	}

	if path := ctx.String(CPUProfileFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return errors.Wrap(err, "could not start CPU profile")
		}
		cpuProfileFile = f
	}

	if path := ctx.String(TraceFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "could not create trace file")
		}
		if err := trace.Start(f); err != nil {
			return errors.Wrap(err, "could not start execution trace")
		}
		traceFile = f
	}

	return nil
}

// Exit stops any profile or trace Setup started. Called from main's
// app.After hook and before the node's forced-shutdown panic.
func Exit() {
	if traceFile != nil {
		trace.Stop()
		if err := traceFile.Close(); err != nil {
			log.WithError(err).Error("Could not close trace file")
		}
	}
	if cpuProfileFile != nil {
		pprof.StopCPUProfile()
		if err := cpuProfileFile.Close(); err != nil {
			log.WithError(err).Error("Could not close CPU profile file")
		}
	}
}
