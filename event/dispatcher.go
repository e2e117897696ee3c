package event

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Handler receives events of the domain it was registered for.
type Handler func(Event)

// Emitter is anything events can be sent to.
type Emitter interface {
	Emit(ev Event)
}

type subscription struct {
	h       Handler
	removed atomic.Bool
}

// queue serializes delivery for one domain.
type queue struct {
	mu       sync.Mutex
	handlers []*subscription
	pending  []Event
	draining bool
}

// Dispatcher routes events to the handlers of their domain. It holds no
// business logic.
//
// Delivery within a domain is serialized in emission order and each emission
// reaches each handler at most once. Domains are independent of each other.
// An uncontended Emit delivers before returning; when another goroutine (or a
// handler of the same domain) is already delivering, the event is queued and
// delivered by that goroutine in order.
type Dispatcher struct {
	logger *slog.Logger
	queues [Domains]queue
}

// NewDispatcher returns a Dispatcher logging handler failures to logger.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Subscribe registers h for domain d and returns a function that removes it.
// Invalid domains are ignored.
func (d *Dispatcher) Subscribe(dom Domain, h Handler) (unsubscribe func()) {
	if !dom.Valid() || h == nil {
		return func() {}
	}
	s := &subscription{h: h}
	q := &d.queues[dom]
	q.mu.Lock()
	hs := make([]*subscription, len(q.handlers), len(q.handlers)+1)
	copy(hs, q.handlers)
	q.handlers = append(hs, s)
	q.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.removed.Store(true)
			q.mu.Lock()
			defer q.mu.Unlock()
			hs := make([]*subscription, 0, len(q.handlers))
			for _, o := range q.handlers {
				if o != s {
					hs = append(hs, o)
				}
			}
			q.handlers = hs
		})
	}
}

// On registers fn for the domain of E. E must be one of the concrete
// sub-event types, e.g. On(d, func(ev event.BT) { ... }).
func On[E Event](d *Dispatcher, fn func(E)) (unsubscribe func()) {
	var zero E
	return d.Subscribe(zero.Domain(), func(ev Event) {
		if e, ok := ev.(E); ok {
			fn(e)
		}
	})
}

// Emit sends ev to every handler of its domain. When no other delivery is
// running for the domain, every handler has run by the time Emit returns.
// Otherwise, including an Emit from inside a handler of the same domain, ev
// is queued and Emit returns at once; the goroutine already delivering runs
// it after the events queued before it. Producers that need to observe the
// effect of their event must not rely on Emit having delivered it.
func (d *Dispatcher) Emit(ev Event) {
	if ev == nil || !ev.Domain().Valid() {
		return
	}
	q := &d.queues[ev.Domain()]
	q.mu.Lock()
	q.pending = append(q.pending, ev)
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	for len(q.pending) > 0 {
		next := q.pending[0]
		q.pending = q.pending[1:]
		hs := q.handlers
		q.mu.Unlock()
		for _, s := range hs {
			if s.removed.Load() {
				continue
			}
			d.deliver(s.h, next)
		}
		q.mu.Lock()
	}
	q.pending = nil
	q.draining = false
	q.mu.Unlock()
}

func (d *Dispatcher) deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked", "event", ev.String(), "panic", r)
		}
	}()
	d.logger.Debug("event", "domain", ev.Domain().String(), "event", ev.String())
	h(ev)
}

// Handlers returns the number of handlers registered for dom.
func (d *Dispatcher) Handlers(dom Domain) int {
	if !dom.Valid() {
		return 0
	}
	q := &d.queues[dom]
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.handlers)
}
