package liveness

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	st      State
	saves   int
	loadErr error
	saveErr error
}

func (s *memStore) Load(context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return State{}, s.loadErr
	}
	return s.st, nil
}

func (s *memStore) Save(_ context.Context, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.st = st
	return nil
}

type sentMessage struct {
	tr   Transition
	text string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, tr Transition, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{tr: tr, text: text})
	return n.err
}

func (n *fakeNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

var t0 = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

func newTestMonitor(t *testing.T, store Store, notifier Notifier) *Monitor {
	t.Helper()
	m, err := New(Config{
		Timeout:       300 * time.Second,
		CheckInterval: 30 * time.Second,
	}, store, notifier, nil, nil)
	require.NoError(t, err)
	return m
}

func TestNewRejectsCheckIntervalNotBelowTimeout(t *testing.T) {
	_, err := New(Config{Timeout: time.Minute, CheckInterval: time.Minute}, nil, nil, nil, nil)
	require.ErrorIs(t, err, ErrCheckInterval)

	m, err := New(Config{}, nil, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, DefaultTimeout, m.Config().Timeout)
	require.Equal(t, DefaultCheckInterval, m.Config().CheckInterval)
}

func TestFirstPing(t *testing.T) {
	store := &memStore{}
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, store, notifier)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		m.Tick(ctx, t0.Add(time.Duration(i)*time.Hour))
	}
	require.Empty(t, notifier.messages())
	require.Equal(t, StatusUnknown, m.Snapshot().Status())

	st := m.RecordPing(ctx, t0)
	require.True(t, st.IsOnline)
	require.Equal(t, t0, st.OnlineSince)
	require.Equal(t, t0, st.LastSeenAt)
	require.True(t, st.OfflineSince.IsZero())
	require.Empty(t, notifier.messages())
	require.Equal(t, 1, store.saves)
}

func TestDebounce(t *testing.T) {
	store := &memStore{}
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, store, notifier)
	ctx := context.Background()

	now := t0
	for i := 0; i < 50; i++ {
		m.RecordPing(ctx, now)
		m.Tick(ctx, now.Add(299*time.Second))
		now = now.Add(299 * time.Second)
	}

	st := m.Snapshot()
	require.True(t, st.IsOnline)
	require.Equal(t, t0, st.OnlineSince)
	require.Empty(t, notifier.messages())
	require.Equal(t, 50, store.saves)
}

func TestOutageDetection(t *testing.T) {
	store := &memStore{}
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, store, notifier)
	ctx := context.Background()

	m.RecordPing(ctx, t0)
	m.Tick(ctx, t0.Add(300*time.Second))
	require.Empty(t, notifier.messages(), "elapsed equal to timeout is still online")

	m.Tick(ctx, t0.Add(301*time.Second))
	m.Tick(ctx, t0.Add(302*time.Second))

	sent := notifier.messages()
	require.Len(t, sent, 1)
	require.Equal(t, TransitionLost, sent[0].tr.Kind)
	require.Equal(t, t0, sent[0].tr.Reference)
	require.True(t, sent[0].tr.HasDuration)

	st := m.Snapshot()
	require.False(t, st.IsOnline)
	require.Equal(t, t0.Add(301*time.Second), st.OfflineSince)
	require.Equal(t, StatusOffline, st.Status())
	require.Equal(t, st, store.st)
}

func TestRecovery(t *testing.T) {
	store := &memStore{}
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, store, notifier)
	ctx := context.Background()

	m.RecordPing(ctx, t0)
	m.Tick(ctx, t0.Add(301*time.Second))

	t2 := t0.Add(600 * time.Second)
	m.RecordPing(ctx, t2)
	m.RecordPing(ctx, t2.Add(time.Second))

	sent := notifier.messages()
	require.Len(t, sent, 2)
	restored := sent[1].tr
	require.Equal(t, TransitionRestored, restored.Kind)
	require.Equal(t, 299*time.Second, restored.Duration)
	require.Equal(t, t0.Add(301*time.Second), restored.Reference)

	st := m.Snapshot()
	require.True(t, st.IsOnline)
	require.Equal(t, t2, st.OnlineSince)
	require.Equal(t, t2.Add(time.Second), st.LastSeenAt)
	require.True(t, st.OfflineSince.IsZero())
}

func TestUpDurationUsesLastPing(t *testing.T) {
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, &memStore{}, notifier)
	ctx := context.Background()

	for i := 0; i <= 62; i++ {
		m.RecordPing(ctx, t0.Add(time.Duration(i)*time.Minute))
	}
	m.Tick(ctx, t0.Add(62*time.Minute+301*time.Second))

	sent := notifier.messages()
	require.Len(t, sent, 1)
	require.Equal(t, 62*time.Minute, sent[0].tr.Duration)
	require.Contains(t, sent[0].text, "Було увімкнено: 1 год 2 хв")
}

func TestLostWithoutOnlineSinceIsPlain(t *testing.T) {
	store := &memStore{st: State{LastSeenAt: t0, IsOnline: true}}
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, store, notifier)
	ctx := context.Background()
	m.Restore(ctx)

	m.Tick(ctx, t0.Add(time.Hour))

	sent := notifier.messages()
	require.Len(t, sent, 1)
	require.False(t, sent[0].tr.HasDuration)
	require.Equal(t, lostHeadline, sent[0].text)
}

func TestRestartCorrectness(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()

	first := newTestMonitor(t, store, &fakeNotifier{})
	first.RecordPing(ctx, t0)
	first.Tick(ctx, t0.Add(301*time.Second))
	before := first.Snapshot()

	notifier := &fakeNotifier{}
	second := newTestMonitor(t, store, notifier)
	second.Restore(ctx)
	require.Equal(t, before, second.Snapshot())

	second.Tick(ctx, t0.Add(400*time.Second))
	require.Empty(t, notifier.messages(), "offline state survives restart without re-firing")

	second.RecordPing(ctx, t0.Add(600*time.Second))
	sent := notifier.messages()
	require.Len(t, sent, 1)
	require.Equal(t, TransitionRestored, sent[0].tr.Kind)
	require.Equal(t, 299*time.Second, sent[0].tr.Duration)
}

func TestCollaboratorFailuresAreSwallowed(t *testing.T) {
	store := &memStore{loadErr: errors.New("corrupt"), saveErr: errors.New("disk full")}
	notifier := &fakeNotifier{err: errors.New("network down")}
	m := newTestMonitor(t, store, notifier)
	ctx := context.Background()

	m.Restore(ctx)
	require.Equal(t, State{}, m.Snapshot())

	m.RecordPing(ctx, t0)
	m.Tick(ctx, t0.Add(301*time.Second))
	m.Tick(ctx, t0.Add(331*time.Second))

	require.Len(t, notifier.messages(), 1)
	require.False(t, m.Snapshot().IsOnline)
	require.Equal(t, 2, store.saves)
}

func TestClockAnomalyClampsDuration(t *testing.T) {
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, &memStore{}, notifier)
	ctx := context.Background()

	m.RecordPing(ctx, t0)
	m.Tick(ctx, t0.Add(time.Hour))
	// clock jumped backwards before the recovery ping
	m.RecordPing(ctx, t0.Add(30*time.Minute))

	sent := notifier.messages()
	require.Len(t, sent, 2)
	require.Equal(t, time.Duration(0), sent[1].tr.Duration)
	require.Contains(t, sent[1].text, "Світла не було: 0 хв")
}

func TestConcurrentPingAndTickFireOnce(t *testing.T) {
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, &memStore{}, notifier)
	ctx := context.Background()

	m.RecordPing(ctx, t0)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Tick(ctx, t0.Add(10*time.Minute))
		}()
	}
	wg.Wait()
	require.Len(t, notifier.messages(), 1)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordPing(ctx, t0.Add(20*time.Minute))
		}()
	}
	wg.Wait()

	sent := notifier.messages()
	require.Len(t, sent, 2)
	require.Equal(t, TransitionRestored, sent[1].tr.Kind)
}

func TestConcreteScenario(t *testing.T) {
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, &memStore{}, notifier)
	ctx := context.Background()

	m.RecordPing(ctx, t0)
	for s := 30; s <= 270; s += 30 {
		m.Tick(ctx, t0.Add(time.Duration(s)*time.Second))
	}
	require.Empty(t, notifier.messages())

	m.Tick(ctx, t0.Add(301*time.Second))
	m.RecordPing(ctx, t0.Add(600*time.Second))

	sent := notifier.messages()
	require.Len(t, sent, 2)
	require.Equal(t, TransitionLost, sent[0].tr.Kind)
	// up time runs to the last ping, not to detection
	require.True(t, sent[0].tr.HasDuration)
	require.Equal(t, time.Duration(0), sent[0].tr.Duration)
	require.Equal(t, TransitionRestored, sent[1].tr.Kind)
	require.Equal(t, 299*time.Second, sent[1].tr.Duration)
}

// gaugeRecorder tracks the last reported status and whether the monitor lock
// was held while it was reported.
type gaugeRecorder struct {
	nopRecorder
	m *Monitor

	mu       sync.Mutex
	online   bool
	reports  int
	unlocked int
}

func (g *gaugeRecorder) StatusChanged(online bool) {
	if g.m.mu.TryLock() {
		g.m.mu.Unlock()
		g.mu.Lock()
		g.unlocked++
		g.mu.Unlock()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.online = online
	g.reports++
}

func TestStatusGaugeFollowsState(t *testing.T) {
	rec := &gaugeRecorder{}
	m, err := New(Config{
		Timeout:       300 * time.Second,
		CheckInterval: 30 * time.Second,
	}, &memStore{}, &fakeNotifier{}, rec, nil)
	require.NoError(t, err)
	rec.m = m
	ctx := context.Background()

	m.Restore(ctx)
	m.RecordPing(ctx, t0)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Tick(ctx, t0.Add(time.Hour))
		}()
		go func() {
			defer wg.Done()
			m.RecordPing(ctx, t0)
		}()
	}
	wg.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Zero(t, rec.unlocked)
	require.Greater(t, rec.reports, 2)
	require.Equal(t, m.Snapshot().IsOnline, rec.online)
}
