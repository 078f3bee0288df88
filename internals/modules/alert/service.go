package alert

import (
	"context"
	"lightwatch/internals/modules/liveness"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AlertService decouples the monitor from slow senders: Notify only queues,
// workers deliver.
type AlertService struct {
	// lifecycle
	workerCount int
	workerWG    sync.WaitGroup
	mu          sync.RWMutex
	stopped     bool
	sendTimeout time.Duration

	// channels
	alertChan chan AlertEvent

	// delivery
	senders  []Sender
	recorder DeliveryRecorder

	// misc
	logger *zerolog.Logger
}

func NewAlertService(
	workerCount int,
	queueSize int,
	sendTimeout time.Duration,
	senders []Sender,
	recorder DeliveryRecorder,
	logger *zerolog.Logger,
) *AlertService {
	if workerCount < 1 {
		workerCount = 1
	}
	return &AlertService{
		workerCount: workerCount,
		sendTimeout: sendTimeout,
		alertChan:   make(chan AlertEvent, queueSize),
		senders:     senders,
		recorder:    recorder,
		logger:      logger,
	}
}

// Start starts the delivery workers
func (s *AlertService) Start() {

	s.workerWG.Add(s.workerCount)

	for range s.workerCount {
		go s.handleAlerts()
	}
}

// Notify implements liveness.Notifier. It never blocks.
func (s *AlertService) Notify(_ context.Context, tr liveness.Transition, text string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return ErrStopped
	}

	select {
	case s.alertChan <- AlertEvent{Transition: tr, Text: text}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *AlertService) handleAlerts() {
	defer s.workerWG.Done()

	for evt := range s.alertChan {
		s.deliver(evt)
	}
}

func (s *AlertService) deliver(evt AlertEvent) {
	for _, sender := range s.senders {
		ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
		err := sender.Send(ctx, evt)
		cancel()

		if err != nil {
			if s.recorder != nil {
				s.recorder.DeliveryFailed(sender.Name())
			}
			s.logger.Error().
				Err(err).
				Str("sender", sender.Name()).
				Str("transition", string(evt.Transition.Kind)).
				Msg("alert delivery failed")
			continue
		}

		s.logger.Info().
			Str("sender", sender.Name()).
			Str("transition", string(evt.Transition.Kind)).
			Msg("alert delivered")
	}
}

// Stop closes the queue and waits for queued alerts to be delivered.
func (s *AlertService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.alertChan)
	s.mu.Unlock()

	s.workerWG.Wait()
}
