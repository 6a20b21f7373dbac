// Package tracing wires up opencensus distributed tracing, exported to a
// Jaeger collector, matching the jaeger exporter dependency the teacher
// carries for exactly this purpose.
package tracing

import (
	"fmt"

	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "tracing")

// Setup configures and registers a Jaeger trace exporter for serviceName. A
// no-op when enable is false. processName labels this process's spans
// (distinct from serviceName when several processes share one service, e.g.
// multiple beacon nodes behind one collector).
func Setup(serviceName, processName, endpoint string, sampleFraction float64, enable bool) error {
	if !enable {
		return nil
	}
	if processName == "" {
		processName = serviceName
	}
	log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"process":  processName,
	}).Info("Starting tracing service")

	exporter, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: endpoint,
		Process: jaeger.Process{
			ServiceName: fmt.Sprintf("%s-%s", serviceName, processName),
		},
	})
	if err != nil {
		return errors.Wrap(err, "could not create jaeger exporter")
	}
	trace.RegisterExporter(exporter)
	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.ProbabilitySampler(sampleFraction),
	})
	return nil
}
