package liveness

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTimeout       = 5 * time.Minute
	DefaultCheckInterval = 30 * time.Second

	defaultStoreTimeout  = 3 * time.Second
	defaultNotifyTimeout = 10 * time.Second
)

var ErrCheckInterval = errors.New("liveness: check interval must be shorter than timeout")

// Store persists the monitor state between restarts.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, st State) error
}

// Notifier delivers transition messages to the operator. It is best-effort.
type Notifier interface {
	Notify(ctx context.Context, tr Transition, text string) error
}

type Config struct {
	Timeout       time.Duration
	CheckInterval time.Duration
	Location      *time.Location // timezone used in message timestamps
	StoreTimeout  time.Duration
	NotifyTimeout time.Duration
}

func applyDefaults(cfg *Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
}

// Monitor owns the liveness state machine. RecordPing and Tick are the only
// mutators; both run their decision, mutation and persistence under mu.
type Monitor struct {
	mu    sync.Mutex
	state State

	cfg      Config
	store    Store
	notifier Notifier
	recorder Recorder
	logger   *zerolog.Logger
}

func New(cfg Config, store Store, notifier Notifier, recorder Recorder, logger *zerolog.Logger) (*Monitor, error) {
	applyDefaults(&cfg)
	if cfg.CheckInterval >= cfg.Timeout {
		return nil, ErrCheckInterval
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Monitor{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
	}, nil
}

func (m *Monitor) Config() Config {
	return m.cfg
}

// Restore hydrates the state from the store. A failed load keeps the empty
// state and is only logged.
func (m *Monitor) Restore(ctx context.Context) {
	if m.store == nil {
		return
	}

	loadCtx, cancel := context.WithTimeout(ctx, m.cfg.StoreTimeout)
	defer cancel()

	st, err := m.store.Load(loadCtx)
	if err != nil {
		m.recorder.StoreFailed("load")
		m.logger.Warn().Err(err).Msg("failed to load monitor state, starting fresh")
		st = State{}
	}

	m.mu.Lock()
	m.state = st
	m.recorder.StatusChanged(st.IsOnline)
	m.mu.Unlock()

	m.logger.Info().
		Str("status", string(st.Status())).
		Time("last_seen_at", st.LastSeenAt).
		Msg("monitor state restored")
}

// Snapshot returns a copy of the current state.
func (m *Monitor) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RecordPing accepts a ping at now. A ping while offline, or the first ping
// ever, moves the signal online; a restore is announced only when the
// offline start is known.
func (m *Monitor) RecordPing(ctx context.Context, now time.Time) State {
	var (
		tr    Transition
		fired bool
	)

	m.mu.Lock()
	wasOnline := m.state.IsOnline
	m.state.LastSeenAt = now

	if !wasOnline {
		m.state.IsOnline = true
		m.state.OnlineSince = now

		if offlineSince := m.state.OfflineSince; !offlineSince.IsZero() {
			tr = Transition{
				Kind:        TransitionRestored,
				At:          now,
				Reference:   offlineSince,
				Duration:    nonNegative(now.Sub(offlineSince)),
				HasDuration: true,
			}
			fired = true
			m.state.OfflineSince = time.Time{}
		}
	}

	st := m.state
	m.save(ctx, st)
	// the gauge follows the state in lock order
	if !wasOnline {
		m.recorder.StatusChanged(true)
	}
	m.mu.Unlock()

	m.recorder.PingRecorded()
	if !wasOnline {
		m.logger.Info().Time("at", now).Bool("announced", fired).Msg("signal online")
	}
	if fired {
		m.fire(ctx, tr)
	}

	return st
}

// Tick evaluates silence at now. It only ever detects the online to offline
// transition; presence is confirmed by RecordPing alone.
func (m *Monitor) Tick(ctx context.Context, now time.Time) {
	m.mu.Lock()

	if m.state.LastSeenAt.IsZero() || !m.state.IsOnline {
		m.mu.Unlock()
		return
	}

	lastSeen := m.state.LastSeenAt
	if now.Sub(lastSeen) <= m.cfg.Timeout {
		m.mu.Unlock()
		return
	}

	tr := Transition{
		Kind:      TransitionLost,
		At:        now,
		Reference: lastSeen,
	}
	if onlineSince := m.state.OnlineSince; !onlineSince.IsZero() {
		tr.Duration = nonNegative(lastSeen.Sub(onlineSince))
		tr.HasDuration = true
	}

	m.state.IsOnline = false
	m.state.OfflineSince = now

	st := m.state
	m.save(ctx, st)
	m.recorder.StatusChanged(st.IsOnline)
	m.mu.Unlock()

	m.logger.Info().
		Time("at", now).
		Time("last_seen_at", lastSeen).
		Msg("signal lost")
	m.fire(ctx, tr)
}

// save must be called with mu held so the stored order matches memory.
func (m *Monitor) save(ctx context.Context, st State) {
	if m.store == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.StoreTimeout)
	defer cancel()

	if err := m.store.Save(saveCtx, st); err != nil {
		m.recorder.StoreFailed("save")
		m.logger.Warn().Err(err).Msg("failed to persist monitor state")
	}
}

func (m *Monitor) fire(ctx context.Context, tr Transition) {
	m.recorder.TransitionFired(tr.Kind)
	if m.notifier == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.NotifyTimeout)
	defer cancel()

	if err := m.notifier.Notify(notifyCtx, tr, Message(tr, m.cfg.Location)); err != nil {
		m.recorder.NotifyFailed()
		m.logger.Error().
			Err(err).
			Str("transition", string(tr.Kind)).
			Msg("failed to deliver notification")
	}
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
