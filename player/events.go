package player

import "sync"

// EventKind distinguishes state changes from clock ticks.
type EventKind int

const (
	// EventUpdate fires when identity, metadata, rate, volume, error or clear state changes.
	EventUpdate EventKind = iota
	// EventTimeUpdate fires whenever the media position advances.
	EventTimeUpdate
)

func (k EventKind) String() string {
	switch k {
	case EventUpdate:
		return "update"
	case EventTimeUpdate:
		return "timeupdate"
	default:
		return "unknown"
	}
}

// Event is delivered to every subscriber.
type Event struct {
	Kind EventKind
}

// Listener receives engine events.
type Listener func(Event)

// observers is an ordered callback registry. Emission happens outside any engine lock.
type observers struct {
	mu        sync.Mutex
	nextID    int
	order     []int
	listeners map[int]Listener
}

func (o *observers) add(fn Listener) (remove func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.listeners == nil {
		o.listeners = make(map[int]Listener)
	}

	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.order = append(o.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()

			delete(o.listeners, id)
			for i, v := range o.order {
				if v == id {
					o.order = append(o.order[:i], o.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (o *observers) emit(event Event) {
	o.mu.Lock()
	snapshot := make([]Listener, 0, len(o.order))
	for _, id := range o.order {
		snapshot = append(snapshot, o.listeners[id])
	}
	o.mu.Unlock()

	for _, fn := range snapshot {
		fn(event)
	}
}

func (o *observers) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.order)
}
