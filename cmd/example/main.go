package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streambind/streambind/pkg/binding"
	"github.com/streambind/streambind/pkg/bus"
	"github.com/streambind/streambind/pkg/config"
	"github.com/streambind/streambind/pkg/endpoint"
	"github.com/streambind/streambind/pkg/logging"
	bindotel "github.com/streambind/streambind/pkg/observability/otel"
	bindprom "github.com/streambind/streambind/pkg/observability/prometheus"
	"github.com/streambind/streambind/pkg/types"
)

func main() {
	log := logging.Default()
	ctx := context.Background()

	if err := bindotel.Initialize(ctx, bindotel.Config{
		ServiceName: "streambind-example",
		Exporter:    "none",
		SampleRate:  1.0,
	}); err != nil {
		log.Error("tracing init failed: ", err)
		os.Exit(1)
	}
	defer bindotel.Shutdown(ctx)

	cfg := &config.Config{
		Bindings: map[string]config.BindingProperties{
			"orders-in": {Destination: "orders", Group: "grp1"},
		},
	}
	if path := os.Getenv("STREAMBIND_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Error("config load failed: ", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config: ", err)
		os.Exit(1)
	}

	b := bus.New()
	registry := binding.NewRegistry()

	for name, props := range cfg.Bindings {
		name := name
		consumer := endpoint.NewBusConsumer(b, props.Destination, func(msg types.Message) {
			log.Info(name, " received: ", msg.Payload)
		})

		bnd, err := binding.New(name, props.Group, props.Destination, consumer,
			binding.WithAfterUnbind[string](func(ctx context.Context) {
				log.Info("cleaned up binding ", name)
			}))
		if err != nil {
			log.Error("binding ", name, " failed: ", err)
			os.Exit(1)
		}
		if _, err := registry.Register(bnd); err != nil {
			log.Error("register ", name, " failed: ", err)
			os.Exit(1)
		}
		if props.IsAutoStartup() {
			if err := bnd.Start(ctx); err != nil {
				log.Error("start ", name, " failed: ", err)
				os.Exit(1)
			}
		}
		log.Info("bound ", bnd.String())
	}

	// Metrics endpoint
	go func() {
		http.Handle("/metrics", bindprom.Handler())
		if err := http.ListenAndServe(":9100", nil); err != nil {
			log.Error("metrics server: ", err)
		}
	}()

	// Feed the example bindings
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			for _, props := range cfg.Bindings {
				b.Publish(props.Destination, types.NewMessage(props.Destination, "tick"))
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down, unbinding everything")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := registry.Close(shutdownCtx); err != nil {
		log.Error("shutdown: ", err)
	}
}
