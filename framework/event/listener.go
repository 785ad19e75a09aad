package event

import "reflect"

// Listener receives events from a bus. Supports is consulted before
// delivery; listeners that return false for a name never see that event.
//
//	// Spring: ApplicationListener
type Listener interface {
	OnEvent(e Event)
	ListenerName() string
	Supports(eventName string) bool
}

// FuncListener adapts a plain function. By default it receives every event;
// On restricts it to the named ones.
type FuncListener struct {
	name    string
	accepts map[string]struct{}
	fn      func(Event)
}

func NewListener(name string, fn func(e Event)) *FuncListener {
	return &FuncListener{name: name, fn: fn}
}

// On restricts the listener to the given event names and returns the
// listener for chaining.
func (l *FuncListener) On(names ...string) *FuncListener {
	if l.accepts == nil {
		l.accepts = make(map[string]struct{}, len(names))
	}
	for _, n := range names {
		l.accepts[n] = struct{}{}
	}
	return l
}

func (l *FuncListener) OnEvent(e Event)      { l.fn(e) }
func (l *FuncListener) ListenerName() string { return l.name }

func (l *FuncListener) Supports(eventName string) bool {
	if l.accepts == nil {
		return true
	}
	_, ok := l.accepts[eventName]
	return ok
}

// Typed wraps a handler for one concrete event type. It supports only the
// event whose name matches the short type name of E, and silently drops
// anything that fails the assertion.
//
//	event.Typed("auditStarted", func(e *event.ApplicationStartedEvent) { ... })
type typedListener[E Event] struct {
	name      string
	eventName string
	fn        func(E)
}

func Typed[E Event](name string, fn func(e E)) Listener {
	t := reflect.TypeOf((*E)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return &typedListener[E]{name: name, eventName: t.Name(), fn: fn}
}

func (l *typedListener[E]) OnEvent(e Event) {
	if typed, ok := e.(E); ok {
		l.fn(typed)
	}
}

func (l *typedListener[E]) ListenerName() string { return l.name }

func (l *typedListener[E]) Supports(eventName string) bool {
	return eventName == l.eventName
}
