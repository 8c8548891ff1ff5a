package treeevent

// Dispatcher fans events out to listeners in registration order. The zero
// value is ready to use. It is not safe for concurrent registration during a
// replay.
type Dispatcher struct {
	listeners []Listener
}

// NewDispatcher creates a dispatcher with the given listeners.
func NewDispatcher(listeners ...Listener) *Dispatcher {
	d := &Dispatcher{}
	for _, l := range listeners {
		d.Add(l)
	}
	return d
}

// Add registers a listener. Nil listeners are ignored.
func (d *Dispatcher) Add(l Listener) {
	if l == nil {
		return
	}
	d.listeners = append(d.listeners, l)
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	return len(d.listeners)
}

// BeforeChange implements Listener.
func (d *Dispatcher) BeforeChange(ev Event) {
	for _, l := range d.listeners {
		l.BeforeChange(ev)
	}
}

// AfterChange implements Listener.
func (d *Dispatcher) AfterChange(ev Event) {
	for _, l := range d.listeners {
		l.AfterChange(ev)
	}
}

// Recorder is a Listener that keeps every event it sees, interleaved in
// arrival order. Useful for tests and for the CLI's change listing.
type Recorder struct {
	Events []Recorded
}

// Recorded is one event seen by a Recorder.
type Recorded struct {
	After bool
	Event Event
}

// BeforeChange implements Listener.
func (r *Recorder) BeforeChange(ev Event) {
	r.Events = append(r.Events, Recorded{Event: ev})
}

// AfterChange implements Listener.
func (r *Recorder) AfterChange(ev Event) {
	r.Events = append(r.Events, Recorded{After: true, Event: ev})
}
