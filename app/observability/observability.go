package observability

import (
	"log/slog"

	"github.com/hirelane/engage/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the logger, metrics and tracer handed to modules.
type Observability struct {
	Logger   *slog.Logger
	Metrics  *Registry
	Tracer   trace.Tracer
	Provider trace.TracerProvider
}

// New builds the process observability from config. Spans go to the global
// otel provider, which stays a noop unless an exporter installs one.
func New(cfg config.ObservabilityConfig) Observability {
	provider := otel.GetTracerProvider()
	return Observability{
		Logger:   NewLogger(cfg),
		Metrics:  NewRegistry("hirelane_engage"),
		Tracer:   provider.Tracer(cfg.ServiceName),
		Provider: provider,
	}
}

// TracerFor returns a named tracer for a module.
func (o Observability) TracerFor(name string) trace.Tracer {
	if o.Provider == nil {
		return otel.Tracer(name)
	}
	return o.Provider.Tracer(name)
}
