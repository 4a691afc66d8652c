package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"btc-price-publisher/internal/config"
	"btc-price-publisher/internal/logging"
	"btc-price-publisher/internal/metrics"
	"btc-price-publisher/internal/price"
	"btc-price-publisher/internal/publisher"
	"btc-price-publisher/internal/schedule"
	"btc-price-publisher/internal/server"
	"btc-price-publisher/internal/sink"
)

// Version is set at build time via -ldflags "-X main.Version=..."
var Version = "dev"

const service = "btc-price-publisher"

func main() {
	var (
		cfgPath  = flag.String("config", "config.yml", "path to YAML config")
		interval = flag.Duration("interval", 0, "run interval (overrides schedule.interval)")
		once     = flag.Bool("once", false, "run a single invocation then exit")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if *interval > 0 {
		cfg.Schedule.Interval = *interval
	}
	if *once {
		cfg.Schedule.Once = true
	}

	log := logging.New(logging.Options{
		Service: service,
		Env:     cfg.Env,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
	})
	log.WithField("version", Version).Info("starting")

	prov, err := price.NewProviderFromConfig(cfg.Price.Provider)
	if err != nil {
		log.Fatalf("price provider: %v", err)
	}

	m := metrics.New()
	sinks := sink.FromConfig(cfg.Sinks, log)
	for _, s := range sinks {
		log.WithField("sink", s.Name()).Info("configured sink")
	}
	out := sink.NewMulti(m.ObserveSinkPush, sinks...)
	defer func() {
		if err := out.Close(); err != nil {
			log.WithError(err).Warn("closing sinks")
		}
	}()

	pub := publisher.New(publisher.Options{
		Provider: prov,
		Sink:     out,
		Currency: cfg.Price.Currency,
		Metrics:  m,
		Log:      log,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tk := schedule.Ticker{
		Interval: cfg.Schedule.Interval,
		Timeout:  cfg.Schedule.Timeout,
		Log:      log,
	}

	if cfg.Schedule.Once {
		if err := tk.RunOnce(ctx, pub.Run); err != nil {
			log.WithError(err).Error("invocation failed")
			_ = out.Close()
			os.Exit(1)
		}
		return
	}

	var srv *server.Server
	if cfg.Metrics.ListenAddress != "" {
		srv = server.New(cfg.Metrics, m.Registry)
		go func() {
			log.WithField("addr", srv.Addr()).Info("serving /metrics and /healthz")
			if err := srv.Serve(); err != nil {
				log.WithError(err).Error("http server")
				cancel()
			}
		}()
	}

	log.WithFields(logrus.Fields{
		"provider": prov.Name(),
		"currency": cfg.Price.Currency,
		"interval": cfg.Schedule.Interval.String(),
		"sinks":    len(sinks),
	}).Info("btc-price-publisher started")
	tk.Run(ctx, pub.Run)

	if srv != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("http server shutdown")
		}
	}
}
