package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"lightwatch/config"
	middle "lightwatch/internals/middleware"
	"lightwatch/internals/modules/alert"
	"lightwatch/internals/modules/checker"
	"lightwatch/internals/modules/heartbeat"
	"lightwatch/internals/modules/liveness"
	"lightwatch/internals/modules/status"
	"lightwatch/internals/security"
	"lightwatch/pkg/db"
	"lightwatch/pkg/httpclient"
	"lightwatch/pkg/metrics"
	"lightwatch/pkg/rabbitmq"
	"lightwatch/pkg/redisstore"
	"lightwatch/pkg/sqlitestore"
	"time"
	_ "time/tzdata" // timezone names resolve on hosts without zoneinfo

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type Container struct {
	Logger  *zerolog.Logger
	Monitor *liveness.Monitor
	Checker *checker.Checker
	Metrics *metrics.Collector

	heartbeatHandler *heartbeat.Handler
	statusHandler    *status.Handler
	secretVerifier   *security.SecretVerifier
	authMW           *middle.AuthMiddleware
	alertSvc         *alert.AlertService

	// closed in reverse order on shutdown
	closers []io.Closer
}

func NewContainer(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Container, error) {
	c := &Container{Logger: logger}

	loc, err := time.LoadLocation(cfg.Monitor.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Monitor.Timezone, err)
	}

	verifier, err := security.NewSecretVerifier(cfg.Auth.HeartbeatSecret, cfg.Auth.HeartbeatSecretHash)
	if err != nil {
		return nil, err
	}

	c.Metrics = metrics.New("lightwatch")

	store, err := c.openStore(ctx, cfg)
	if err != nil {
		c.closeAll()
		return nil, err
	}
	logger.Info().Str("driver", cfg.Store.Driver).Msg("state store initialized")

	senders, err := c.buildSenders(cfg)
	if err != nil {
		c.closeAll()
		return nil, err
	}
	if len(senders) == 0 {
		logger.Warn().Msg("no alert sender configured, transitions will only be logged")
	}
	alertSvc := alert.NewAlertService(
		cfg.Alert.Workers,
		cfg.Alert.QueueSize,
		cfg.Telegram.Timeout,
		senders,
		c.Metrics,
		logger,
	)

	mon, err := liveness.New(liveness.Config{
		Timeout:       cfg.Monitor.Timeout,
		CheckInterval: cfg.Monitor.CheckInterval,
		Location:      loc,
		StoreTimeout:  cfg.Store.Timeout,
	}, store, alertSvc, c.Metrics, logger)
	if err != nil {
		c.closeAll()
		return nil, err
	}
	mon.Restore(ctx)

	c.Monitor = mon
	c.Checker = checker.NewChecker(cfg.Monitor.CheckInterval, mon, logger)
	c.alertSvc = alertSvc
	c.secretVerifier = verifier
	c.authMW = middle.NewAuthMiddleware(security.NewTokenService(&cfg.Auth))
	c.heartbeatHandler = heartbeat.NewHandler(mon)
	c.statusHandler = status.NewHandler(mon)

	return c, nil
}

func (c *Container) openStore(ctx context.Context, cfg *config.Config) (liveness.Store, error) {
	switch cfg.Store.Driver {
	case "redis":
		rc, err := redisstore.New(cfg.Redis.URL, cfg.Redis.Key)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.closers = append(c.closers, rc)
		return rc, nil

	case "postgres":
		repo, err := db.Open(ctx, &cfg.DB, cfg.Store.Timeout, c.Logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, repo)
		return repo, nil

	default:
		st, err := sqlitestore.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, st)
		return st, nil
	}
}

func (c *Container) buildSenders(cfg *config.Config) ([]alert.Sender, error) {
	var senders []alert.Sender

	tg := alert.NewTelegramSender(
		httpclient.NewHttpClient(cfg.Telegram.Timeout),
		cfg.Telegram.BaseURL,
		cfg.Telegram.Token,
		cfg.Telegram.ChatID,
	)
	if tg.Configured() {
		senders = append(senders, tg)
	}

	if cfg.RabbitMQ.Enabled {
		conn, err := rabbitmq.NewConnection(&cfg.RabbitMQ, c.Logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, closerFunc(func() error { return closeConn(conn) }))

		if err := rabbitmq.SetupTopology(conn, &cfg.RabbitMQ); err != nil {
			return nil, fmt.Errorf("rabbitmq topology: %w", err)
		}
		pub, err := rabbitmq.NewPublisher(conn, cfg.RabbitMQ.ExchangeName, cfg.RabbitMQ.RoutingKey)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq publisher: %w", err)
		}
		c.closers = append(c.closers, pub)
		senders = append(senders, alert.NewEventSender(pub))
	}

	return senders, nil
}

// StartWorkers starts the alert workers. The checker is started by the caller
// so it can own the context.
func (c *Container) StartWorkers() {
	c.alertSvc.Start()
}

// Shutdown stops alert delivery, draining queued messages, then closes the
// stores and broker connections.
func (c *Container) Shutdown() error {
	if c.alertSvc != nil {
		c.alertSvc.Stop()
	}
	return c.closeAll()
}

func (c *Container) closeAll() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func closeConn(conn *amqp091.Connection) error {
	if conn.IsClosed() {
		return nil
	}
	return conn.Close()
}
