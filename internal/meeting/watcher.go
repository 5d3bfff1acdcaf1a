package meeting

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"medibook/internal/events"
	"medibook/internal/metrics"
	"medibook/internal/models"
)

// AppointmentSource lists the virtual appointments the watcher should
// track.
type AppointmentSource interface {
	ListUpcomingVirtual(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
}

// WatcherConfig holds the polling configuration.
type WatcherConfig struct {
	// PollInterval is how often join availability is re-evaluated.
	PollInterval time.Duration
	// CountdownInterval is how often countdowns are refreshed.
	CountdownInterval time.Duration
	// Lookahead bounds how far ahead appointments are tracked.
	Lookahead time.Duration
	// Window is the join window applied by the watcher.
	Window Window
}

// DefaultWatcherConfig matches the refresh cadence booking screens use:
// 10s availability polling, 60s countdown refresh.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PollInterval:      10 * time.Second,
		CountdownInterval: 60 * time.Second,
		Lookahead:         24 * time.Hour,
		Window:            HomeWindow,
	}
}

// Watcher periodically re-evaluates meeting windows against the wall
// clock and publishes open/close transitions on the event bus.
type Watcher struct {
	cfg    WatcherConfig
	source AppointmentSource
	eval   *Evaluator
	bus    *events.Bus
	logger zerolog.Logger
	clock  func() time.Time

	mu      sync.Mutex
	open    map[int64]bool
	running bool
	stopCh  chan struct{}
}

// NewWatcher creates a watcher. A nil clock means time.Now.
func NewWatcher(cfg WatcherConfig, source AppointmentSource, eval *Evaluator, bus *events.Bus, logger zerolog.Logger, clock func() time.Time) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.CountdownInterval <= 0 {
		cfg.CountdownInterval = 60 * time.Second
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 24 * time.Hour
	}
	if cfg.Window.Name == "" {
		cfg.Window = HomeWindow
	}
	if clock == nil {
		clock = time.Now
	}
	return &Watcher{
		cfg:    cfg,
		source: source,
		eval:   eval,
		bus:    bus,
		logger: logger,
		clock:  clock,
		open:   make(map[int64]bool),
		stopCh: make(chan struct{}),
	}
}

// Start runs the polling loop until the context is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("poll_interval", w.cfg.PollInterval).
		Dur("countdown_interval", w.cfg.CountdownInterval).
		Str("window", w.cfg.Window.Name).
		Msg("meeting watcher started")

	poll := time.NewTicker(w.cfg.PollInterval)
	defer poll.Stop()
	countdown := time.NewTicker(w.cfg.CountdownInterval)
	defer countdown.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("meeting watcher stopped by context")
			return
		case <-w.stopCh:
			w.logger.Info().Msg("meeting watcher stopped")
			return
		case <-poll.C:
			w.Tick(ctx)
		case <-countdown.C:
			w.refreshCountdowns(ctx)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.running {
		w.running = false
		close(w.stopCh)
	}
	w.mu.Unlock()
}

// Tick evaluates every tracked appointment once and publishes window
// transitions. Exposed for tests and for an eager first evaluation at
// startup.
func (w *Watcher) Tick(ctx context.Context) {
	now := w.clock()
	apps, err := w.source.ListUpcomingVirtual(ctx, now.Add(-w.cfg.Window.After), now.Add(w.cfg.Lookahead))
	if err != nil {
		w.logger.Error().Err(err).Msg("list upcoming appointments failed")
		return
	}

	seen := make(map[int64]struct{}, len(apps))
	for i := range apps {
		app := &apps[i]
		seen[app.ID] = struct{}{}

		available := w.eval.Available(app, now, w.cfg.Window)
		metrics.IncMeetingEvaluated(available)

		w.mu.Lock()
		wasOpen := w.open[app.ID]
		w.open[app.ID] = available
		w.mu.Unlock()

		if available == wasOpen {
			continue
		}

		topic := events.TopicMeetingOpened
		if !available {
			topic = events.TopicMeetingClosed
		}
		metrics.IncWindowTransition(topic)
		w.logger.Info().
			Int64("appointment_id", app.ID).
			Str("transition", topic).
			Msg("meeting window transition")
		w.bus.Publish(events.Event{
			Type:          topic,
			AppointmentID: app.ID,
			DoctorID:      app.DoctorID,
			At:            now,
		})
	}

	// Forget appointments that left the tracking horizon.
	w.mu.Lock()
	for id := range w.open {
		if _, ok := seen[id]; !ok {
			delete(w.open, id)
		}
	}
	w.mu.Unlock()
}

func (w *Watcher) refreshCountdowns(ctx context.Context) {
	now := w.clock()
	apps, err := w.source.ListUpcomingVirtual(ctx, now, now.Add(w.cfg.Lookahead))
	if err != nil {
		w.logger.Error().Err(err).Msg("countdown refresh failed")
		return
	}

	nextOpen := time.Duration(-1)
	for i := range apps {
		availableAt, err := w.eval.AvailableAt(&apps[i])
		if err != nil {
			continue
		}
		until := availableAt.Sub(now)
		if until <= 0 {
			continue
		}
		if nextOpen < 0 || until < nextOpen {
			nextOpen = until
		}
	}

	if nextOpen >= 0 {
		metrics.SetNextWindowOpenSeconds(nextOpen.Seconds())
	}
}
