package watcher

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"go.trai.ch/cairn/internal/core/domain"
)

// DefaultDebounceWindow is the default time window for coalescing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// Debouncer coalesces rapid watch events into batches, one event per path.
// When a path sees several kinds, any shape-changing kind wins over a modification.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]domain.WatchEvent
	timer    *time.Timer
	window   time.Duration
	callback func(events []domain.WatchEvent)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(events []domain.WatchEvent)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]domain.WatchEvent),
		window:   window,
		callback: callback,
	}
}

// Add queues an event and restarts the window.
func (d *Debouncer) Add(event domain.WatchEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[event.Path]; !ok || !prev.InvalidatesGraphShape() || event.InvalidatesGraphShape() {
		d.pending[event.Path] = event
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()
	// Flush may have drained the batch already.
	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}
	events := d.drain()
	d.timer = nil
	d.mu.Unlock()

	if d.callback != nil {
		go d.callback(events)
	}
}

// Flush immediately delivers all pending events and blocks until the callback returns.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// The timer already fired and owns the batch.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	events := d.drain()
	d.mu.Unlock()

	if len(events) > 0 && d.callback != nil {
		d.callback(events)
	}
}

// drain returns the pending events sorted by path and resets the batch. d.mu must be held.
func (d *Debouncer) drain() []domain.WatchEvent {
	events := make([]domain.WatchEvent, 0, len(d.pending))
	for _, event := range d.pending {
		events = append(events, event)
	}
	slices.SortFunc(events, func(a, b domain.WatchEvent) int {
		return cmp.Compare(a.Path, b.Path)
	})
	d.pending = make(map[string]domain.WatchEvent)
	return events
}
