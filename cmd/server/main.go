package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"medibook/internal/api"
	"medibook/internal/config"
	"medibook/internal/events"
	"medibook/internal/meeting"
	"medibook/internal/metrics"
	"medibook/internal/models"
	"medibook/internal/provider"
	"medibook/internal/store"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("MEDIBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	st, err := store.New(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store error")
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()

	if cfg.Provider.BaseURL != "" {
		client := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.ProviderTimeout())
		if cfg.Redis.Address != "" && cfg.Provider.CacheTTLSeconds > 0 {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Address,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			client.UseRedisCache(rdb, time.Duration(cfg.Provider.CacheTTLSeconds)*time.Second)
		}
		if err := syncFromProvider(ctx, client, st, loc, &logger); err != nil {
			logger.Error().Err(err).Msg("initial provider sync failed")
		}
	}

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	bus := events.NewBus()
	bus.Subscribe(events.TopicMeetingOpened, func(e events.Event) {
		logger.Info().Int64("appointment_id", e.AppointmentID).Msg("meeting window opened")
	})
	bus.Subscribe(events.TopicMeetingClosed, func(e events.Event) {
		logger.Info().Int64("appointment_id", e.AppointmentID).Msg("meeting window closed")
	})

	eval := meeting.NewEvaluator(loc, logger)
	watcherCfg := meeting.DefaultWatcherConfig()
	if cfg.Meeting.PollIntervalSeconds > 0 {
		watcherCfg.PollInterval = time.Duration(cfg.Meeting.PollIntervalSeconds) * time.Second
	}
	if cfg.Meeting.CountdownIntervalSeconds > 0 {
		watcherCfg.CountdownInterval = time.Duration(cfg.Meeting.CountdownIntervalSeconds) * time.Second
	}
	if cfg.Meeting.LookaheadHours > 0 {
		watcherCfg.Lookahead = time.Duration(cfg.Meeting.LookaheadHours) * time.Hour
	}
	watcher := meeting.NewWatcher(watcherCfg, st, eval, bus, logger, func() time.Time { return time.Now().In(loc) })
	go watcher.Start(ctx)
	defer watcher.Stop()

	srv := api.NewHTTPServer(cfg, st, logger, nil)
	logger.Info().Msg("availability engine started")
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("API server error")
	}
}

// syncFromProvider pulls doctors and appointments from the upstream
// provider directory. Appointment dates arrive in mixed formats and are
// normalized before they hit the store.
func syncFromProvider(ctx context.Context, client *provider.Client, st *store.Store, loc *time.Location, logger *zerolog.Logger) error {
	doctors, err := client.ListDoctors(ctx)
	if err != nil {
		return fmt.Errorf("list doctors: %w", err)
	}
	if err := st.SyncDoctors(ctx, doctors); err != nil {
		return fmt.Errorf("sync doctors: %w", err)
	}

	apps, err := client.ListAppointments(ctx)
	if err != nil {
		return fmt.Errorf("list appointments: %w", err)
	}
	normalized := make([]models.Appointment, 0, len(apps))
	for _, a := range apps {
		date, err := meeting.ParseDate(a.Date, loc)
		if err != nil {
			logger.Warn().Int64("appointment_id", a.ID).Str("date", a.Date).Msg("skipping appointment with unparseable date")
			continue
		}
		a.Date = date.Format("2006-01-02")
		normalized = append(normalized, a)
	}
	if err := st.SyncAppointments(ctx, normalized); err != nil {
		return fmt.Errorf("sync appointments: %w", err)
	}

	logger.Info().Int("doctors", len(doctors)).Int("appointments", len(normalized)).Msg("provider sync complete")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	logger.Info().Int("port", port).Msg("metrics server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
