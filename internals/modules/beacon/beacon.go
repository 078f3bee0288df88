package beacon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Beacon is the reporting side: it pings the watcher once per interval while
// the host it runs on has power and network.
type Beacon struct {
	client   *http.Client
	endpoint string
	token    string
	interval time.Duration
	timeout  time.Duration
	logger   *zerolog.Logger
}

func New(client *http.Client, baseURL, token string, interval, timeout time.Duration, logger *zerolog.Logger) *Beacon {
	return &Beacon{
		client:   client,
		endpoint: strings.TrimRight(baseURL, "/") + "/heartbeat",
		token:    token,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run sends the first ping immediately and then one per interval until ctx
// is cancelled. Failed pings are logged and skipped; the watcher decides
// what silence means.
func (b *Beacon) Run(ctx context.Context) {
	if b.interval <= 0 {
		panic("beacon: interval must be positive")
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		if err := b.Ping(ctx); err != nil && ctx.Err() == nil {
			b.logger.Warn().Err(err).Msg("heartbeat not delivered")
		}

		select {
		case <-ctx.Done():
			b.logger.Info().Msg("beacon stopped")
			return
		case <-ticker.C:
		}
	}
}

func (b *Beacon) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?token="+url.QueryEscape(b.token), nil)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		// the url carries the token
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("heartbeat: %w", uerr.Err)
		}
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("heartbeat: unexpected status %d", resp.StatusCode)
	}

	b.logger.Debug().Msg("heartbeat delivered")
	return nil
}
