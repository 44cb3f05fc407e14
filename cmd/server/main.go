package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	alertshandler "curbside/internal/alerts/handler"
	alertsservice "curbside/internal/alerts/service"
	"curbside/internal/platform/config"
	"curbside/internal/platform/health"
	"curbside/internal/platform/httpserver"
	"curbside/internal/platform/logger"
	"curbside/internal/platform/metrics"
	"curbside/internal/schedule"
	"curbside/internal/scheduler"
	"curbside/internal/sms"
	"curbside/internal/subscriber/store"
	httptransport "curbside/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()
	loc := cfg.Location()

	log.Info("initializing curbside",
		"addr", cfg.Addr,
		"timezone", cfg.Timezone,
		"dispatch_hour", cfg.DispatchHour,
	)

	subscribers := store.New()
	source := schedule.NewHTTPSource(cfg.CityFeedURL, cfg.LookupTimeout, log)

	var sender alertsservice.MessageSender
	if cfg.SMSWebhookURL != "" {
		sender = sms.NewWebhookSender(cfg.SMSWebhookURL, cfg.SendTimeout, log)
	} else {
		log.Warn("no SMS webhook configured, messages will only be logged")
		sender = sms.NewLogSender(log)
	}

	alerts := alertsservice.NewService(subscribers, source, sender, log,
		alertsservice.WithMetrics(m),
		alertsservice.WithLocation(loc),
		alertsservice.WithLookupTimeout(cfg.LookupTimeout),
	)

	healthHandler := health.New(cfg.Environment)
	handler := alertshandler.New(alerts, log)
	router := httptransport.NewRouter(handler, healthHandler, log)

	srv := httpserver.New(cfg.Addr, router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	daily := scheduler.New(cfg.DispatchHour, loc, alerts.RunDailyDispatch, log)
	go daily.Run(ctx)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
