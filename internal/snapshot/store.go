package snapshot

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alwell-health/alwell/internal/healthdata"
	"github.com/alwell-health/alwell/internal/metrics"
)

var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrClosed        = errors.New("snapshot store closed")
)

// Store mirrors provider data into a Snapshot.
//
// Fetches run on their own goroutines; completions are handed to a single
// owner goroutine which is the only writer. Readers load the last published
// copy and never block on fetches.
type Store struct {
	provider healthdata.Provider
	now      func() time.Time

	current atomic.Pointer[Snapshot]
	updates chan update
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	seqMu  sync.Mutex
	issued map[healthdata.Type]uint64

	// owned by run()
	applied map[healthdata.Type]uint64

	subsMu  sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
	closed  bool

	pending pendingTracker
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now (used for the midnight window and UpdatedAt).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore starts the owner goroutine. Call Close to stop it.
func NewStore(provider healthdata.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		now:      time.Now,
		updates:  make(chan update),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		issued:   make(map[healthdata.Type]uint64),
		applied:  make(map[healthdata.Type]uint64),
		subs:     make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}

	initial := Snapshot{UpdatedAt: map[healthdata.Metric]time.Time{}}
	s.current.Store(&initial)

	go s.run()
	return s
}

// Snapshot returns the last published copy.
func (s *Store) Snapshot() Snapshot {
	return *s.current.Load()
}

// RequestAuthorization asks the provider for read access to every type and
// refreshes everything on success. Failures are logged and returned; values stay as they are.
func (s *Store) RequestAuthorization(ctx context.Context) error {
	if err := s.provider.RequestAuthorization(ctx, healthdata.AllTypes); err != nil {
		log.Printf("WARN snapshot: health data authorization failed: %v", err)
		return err
	}

	log.Printf("INFO snapshot: health data authorized for %d types", len(healthdata.AllTypes))
	s.RefreshAll(ctx)
	return nil
}

// RefreshAll starts one independent fetch per provider type and returns immediately.
// Overlapping calls are allowed; in-flight fetches outlive the caller's context.
func (s *Store) RefreshAll(ctx context.Context) {
	fetchCtx := context.WithoutCancel(ctx)
	for _, t := range healthdata.AllTypes {
		s.fetch(fetchCtx, t)
	}
}

// RefreshOne starts a fetch for a single metric by name.
func (s *Store) RefreshOne(ctx context.Context, name string) error {
	m, ok := healthdata.ParseMetric(name)
	if !ok {
		return ErrUnknownMetric
	}
	if s.isClosed() {
		return ErrClosed
	}

	t, ok := healthdata.Resolve(m)
	if !ok {
		return nil
	}
	s.fetch(context.WithoutCancel(ctx), t)
	return nil
}

// Wait blocks until every fetch started so far has been applied or dropped.
func (s *Store) Wait(ctx context.Context) error {
	return s.pending.wait(ctx)
}

// Subscribe returns a channel that receives every published Snapshot.
// A slow subscriber only sees the latest one. cancel closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close stops the owner goroutine and closes all subscriptions.
// Completions arriving afterwards are dropped.
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped

		s.subsMu.Lock()
		s.closed = true
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
		s.subsMu.Unlock()
	})
}

func (s *Store) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Store) nextSeq(t healthdata.Type) uint64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.issued[t]++
	return s.issued[t]
}

func (s *Store) fetch(ctx context.Context, t healthdata.Type) {
	if s.isClosed() {
		return
	}

	seq := s.nextSeq(t)
	s.pending.add()

	go func() {
		u, ok := s.query(ctx, t)
		if !ok {
			s.pending.done()
			return
		}
		u.seq = seq

		select {
		case s.updates <- u:
		case <-s.done:
			s.pending.done()
		}
	}()
}

// query runs on the fetch goroutine and never touches the snapshot.
func (s *Store) query(ctx context.Context, t healthdata.Type) (update, bool) {
	switch t.Kind() {
	case healthdata.Cumulative:
		now := s.now()
		sum, ok, err := s.provider.CumulativeSum(ctx, t, healthdata.StartOfDay(now), now)
		if err != nil {
			fetchFailed(t, err)
			return update{}, false
		}
		if !ok {
			metrics.IncHealthFetch(string(t), "empty")
			return update{}, false
		}
		metrics.IncHealthFetch(string(t), "ok")
		return update{healthType: t, value: sum}, true

	default:
		sample, ok, err := s.provider.MostRecentSample(ctx, t)
		if err != nil {
			fetchFailed(t, err)
			return update{}, false
		}
		if !ok {
			metrics.IncHealthFetch(string(t), "empty")
			return update{}, false
		}
		metrics.IncHealthFetch(string(t), "ok")

		u := update{healthType: t, value: sample.Value}
		if t == healthdata.TypeSleepAnalysis {
			u.sleep = SleepFromDuration(sample.Duration())
		}
		return u, true
	}
}

func fetchFailed(t healthdata.Type, err error) {
	if errors.Is(err, healthdata.ErrNotAuthorized) || errors.Is(err, healthdata.ErrTypeDenied) {
		metrics.IncHealthFetch(string(t), "denied")
		return
	}
	log.Printf("WARN snapshot: %s query failed: %v", t, err)
	metrics.IncHealthFetch(string(t), "error")
}

func (s *Store) run() {
	defer close(s.stopped)

	for {
		select {
		case u := <-s.updates:
			s.apply(u)
			s.pending.done()
		case <-s.done:
			return
		}
	}
}

func (s *Store) apply(u update) {
	if u.seq <= s.applied[u.healthType] {
		metrics.IncSnapshotUpdate("stale")
		return
	}
	s.applied[u.healthType] = u.seq
	u.at = s.now()

	next := s.current.Load().clone()
	u.applyTo(&next)
	next.Version++

	s.current.Store(&next)
	metrics.IncSnapshotUpdate("applied")
	s.publish(next)
}

func (s *Store) publish(snap Snapshot) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// subscriber is behind; replace the queued value
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// pendingTracker counts fetches that have not been applied yet.
type pendingTracker struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (p *pendingTracker) add() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.n == 0 {
		p.idle = make(chan struct{})
	}
	p.n++
}

func (p *pendingTracker) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n--
	if p.n == 0 {
		close(p.idle)
	}
}

func (p *pendingTracker) wait(ctx context.Context) error {
	p.mu.Lock()
	if p.n == 0 {
		p.mu.Unlock()
		return nil
	}
	idle := p.idle
	p.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
