package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// DefaultRegistry holds all streambind metrics
var DefaultRegistry = prometheus.NewRegistry()

// Binding metrics
var (
	// ActiveBindings tracks the number of bindings currently retained by a registry
	ActiveBindings = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "streambind_bindings_active",
		Help: "Number of bindings currently retained",
	})

	// RegistrationsTotal counts binding registrations
	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streambind_binding_registrations_total",
		Help: "Total number of binding registrations",
	})

	// UnbindsTotal counts successful unbind operations
	UnbindsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streambind_binding_unbinds_total",
		Help: "Total number of successful unbinds",
	})
)

func init() {
	DefaultRegistry.MustRegister(ActiveBindings, RegistrationsTotal, UnbindsTotal)
}

// Handler returns an HTTP handler for the metrics endpoint
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// HandlerFor returns an HTTP handler for a custom registry
func HandlerFor(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// FastHTTPHandler adapts the metrics endpoint for fasthttp-based servers
func FastHTTPHandler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(Handler())
}
