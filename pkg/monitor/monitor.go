// Package monitor polls a live timing feed on a fixed interval, retains a
// bounded window of snapshots and fans each new snapshot out to registered
// subscribers. One polling goroutine is the only writer of the history;
// the query surface serves concurrent readers with copies.
package monitor

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/racelytics/f1-analysis-service-go/log"
	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

type State string

const (
	StateIdle    State = "IDLE"
	StateRunning State = "RUNNING"
	StateStopped State = "STOPPED"
)

const (
	DefaultInterval = 5 * time.Second
	DefaultCapacity = 100
)

var (
	ErrAlreadyRunning = errors.New("monitor already running")
	ErrStopped        = errors.New("monitor was stopped")
	ErrNoFeed         = errors.New("no feed source configured")
)

// Subscriber receives every successfully fetched snapshot. Subscribers run
// synchronously within the poll tick, in registration order; a slow
// subscriber delays the next poll. A panicking subscriber is recovered and
// does not affect other subscribers or the polling loop.
type Subscriber func(snap *model.Snapshot)

type subscription struct {
	id int
	cb Subscriber
}

type Monitor struct {
	mu   sync.RWMutex
	feed Feed

	name     string
	interval time.Duration
	hist     *history
	state    State
	cancel   context.CancelFunc
	done     chan struct{}

	subs   []subscription
	nextID int

	now           func() time.Time
	started       time.Time
	totalUpdates  int
	fetchFailures int

	l *log.Logger
}

type Option func(m *Monitor)

func WithFeed(feed Feed) Option {
	return func(m *Monitor) { m.feed = feed }
}

func WithInterval(interval time.Duration) Option {
	return func(m *Monitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

func WithCapacity(capacity int) Option {
	return func(m *Monitor) {
		if capacity > 0 {
			m.hist = newHistory(capacity)
		}
	}
}

func WithName(name string) Option {
	return func(m *Monitor) { m.name = name }
}

func WithLogger(l *log.Logger) Option {
	return func(m *Monitor) { m.l = l }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

func New(opts ...Option) *Monitor {
	m := &Monitor{
		name:     "live",
		interval: DefaultInterval,
		hist:     newHistory(DefaultCapacity),
		state:    StateIdle,
		now:      time.Now,
		l:        log.Default().Named("monitor"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.setupMetrics()
	return m
}

// Start launches the polling loop. The lifecycle is linear
// (IDLE -> RUNNING -> STOPPED): starting a running monitor returns
// ErrAlreadyRunning, starting a stopped one ErrStopped.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateRunning:
		return ErrAlreadyRunning
	case StateStopped:
		return ErrStopped
	case StateIdle:
	}
	if m.feed == nil {
		return ErrNoFeed
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.state = StateRunning
	m.started = m.now()
	m.done = make(chan struct{})
	m.l.Info("starting live monitoring",
		log.String("name", m.name),
		log.Duration("interval", m.interval),
		log.Int("capacity", m.hist.capacity))
	go m.run(ctx)
	return nil
}

// Stop requests the polling loop to finish and waits for it. An in-flight
// fetch or subscriber call completes first; there is no hard preemption.
// Idempotent once stopped.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return
	}
	m.state = StateStopped
	m.cancel()
	done := m.done
	m.mu.Unlock()

	<-done
	m.l.Info("live monitoring stopped",
		log.String("name", m.name),
		log.Int("updates", m.TotalUpdates()))
}

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// AddSubscriber registers cb and returns a handle for RemoveSubscriber.
// Safe while running; takes effect on the next tick.
func (m *Monitor) AddSubscriber(cb Subscriber) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.subs = append(m.subs, subscription{id: m.nextID, cb: cb})
	return m.nextID
}

func (m *Monitor) RemoveSubscriber(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = slices.DeleteFunc(m.subs, func(s subscription) bool {
		return s.id == id
	})
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// poll once right away, then on the interval
	m.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	snap, err := m.feed.Fetch(ctx)
	if err != nil {
		m.mu.Lock()
		m.fetchFailures++
		m.mu.Unlock()
		m.l.Warn("fetch failed, retrying on next interval",
			log.String("name", m.name), log.ErrorField(err))
		return
	}

	// insert+evict under the lock so readers never observe a partial state;
	// the subscriber list is captured in the same step so registrations
	// only affect subsequent ticks
	m.mu.Lock()
	m.hist.add(snap)
	m.totalUpdates++
	subs := slices.Clone(m.subs)
	m.mu.Unlock()

	for _, s := range subs {
		m.notify(s, snap)
	}
}

func (m *Monitor) notify(s subscription, snap *model.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			m.l.Error("subscriber failed",
				log.String("name", m.name),
				log.Int("subscriber", s.id),
				log.Any("reason", r))
		}
	}()
	s.cb(snap)
}

// CurrentStandings returns a copy of the latest snapshot's standings,
// empty when no snapshot was received yet.
func (m *Monitor) CurrentStandings() []model.DriverTiming {
	m.mu.RLock()
	defer m.mu.RUnlock()
	latest := m.hist.latest()
	if latest == nil {
		return nil
	}
	return slices.Clone(latest.Standings)
}

// DriverSample is one driver's timing line at a point in time.
type DriverSample struct {
	Timestamp time.Time
	Timing    model.DriverTiming
}

// DriverHistory returns the driver's timing lines across the up to lastN
// most recent retained snapshots, in time order. Snapshots without the
// driver are skipped.
func (m *Monitor) DriverHistory(driver string, lastN int) []DriverSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []DriverSample
	for _, snap := range m.hist.last(lastN) {
		for i := range snap.Standings {
			if snap.Standings[i].Driver == driver {
				result = append(result, DriverSample{
					Timestamp: snap.Timestamp,
					Timing:    snap.Standings[i],
				})
				break
			}
		}
	}
	return result
}

// WeatherSample is the weather at a point in time.
type WeatherSample struct {
	Timestamp time.Time
	Weather   model.Weather
}

// WeatherHistory returns the weather of the up to lastN most recent
// retained snapshots, in time order.
func (m *Monitor) WeatherHistory(lastN int) []WeatherSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []WeatherSample
	for _, snap := range m.hist.last(lastN) {
		result = append(result, WeatherSample{
			Timestamp: snap.Timestamp,
			Weather:   snap.Weather,
		})
	}
	return result
}

// HistorySize returns the number of currently retained snapshots.
func (m *Monitor) HistorySize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hist.size()
}

// TotalUpdates returns the number of successful polls since Start.
func (m *Monitor) TotalUpdates() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalUpdates
}

// History returns a copy of the retained snapshot window in time order.
func (m *Monitor) History() []*model.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hist.last(m.hist.size())
}

// SessionStatistics computes summary statistics over the retained history.
// Leader and fastest lap stay at their zero values while no snapshot was
// received.
func (m *Monitor) SessionStatistics() model.SessionStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := model.SessionStats{TotalUpdates: m.totalUpdates}
	if !m.started.IsZero() {
		stats.Duration = m.now().Sub(m.started)
	}
	latest := m.hist.latest()
	if latest == nil {
		return stats
	}
	stats.DriverCount = len(latest.Standings)
	for i := range latest.Standings {
		if latest.Standings[i].Position == 1 {
			stats.CurrentLeader = latest.Standings[i].Driver
			break
		}
	}
	for _, snap := range m.hist.entries {
		for i := range snap.Standings {
			best := snap.Standings[i].BestLapTime
			if best <= 0 {
				continue
			}
			if stats.FastestLap == 0 || best < stats.FastestLap {
				stats.FastestLap = best
			}
		}
	}
	return stats
}
