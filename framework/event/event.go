package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything that can travel over the bus. Names are plain strings;
// the built-in events use their type name.
type Event interface {
	EventName() string
	Timestamp() time.Time
}

// ApplicationStartedEvent fires once the context is fully initialised,
// carrying the application name and the measured startup time.
type ApplicationStartedEvent struct {
	ID          string
	AppName     string
	StartupTime time.Duration
	At          time.Time
}

func NewApplicationStartedEvent(appName string, startupTime time.Duration) *ApplicationStartedEvent {
	return &ApplicationStartedEvent{
		ID:          uuid.NewString(),
		AppName:     appName,
		StartupTime: startupTime,
		At:          time.Now(),
	}
}

func (e *ApplicationStartedEvent) EventName() string    { return "ApplicationStartedEvent" }
func (e *ApplicationStartedEvent) Timestamp() time.Time { return e.At }

// ApplicationShutdownEvent fires first during graceful shutdown, before
// shutdown hooks run.
type ApplicationShutdownEvent struct {
	ID      string
	AppName string
	At      time.Time
}

func NewApplicationShutdownEvent(appName string) *ApplicationShutdownEvent {
	return &ApplicationShutdownEvent{
		ID:      uuid.NewString(),
		AppName: appName,
		At:      time.Now(),
	}
}

func (e *ApplicationShutdownEvent) EventName() string    { return "ApplicationShutdownEvent" }
func (e *ApplicationShutdownEvent) Timestamp() time.Time { return e.At }

// GenericEvent is a ready-made event for application code that does not
// want to define its own type. The payload rides along untouched.
type GenericEvent struct {
	ID      string
	Name    string
	Payload any
	At      time.Time
}

func NewGenericEvent(name string, payload any) *GenericEvent {
	return &GenericEvent{ID: uuid.NewString(), Name: name, Payload: payload, At: time.Now()}
}

func (e *GenericEvent) EventName() string    { return e.Name }
func (e *GenericEvent) Timestamp() time.Time { return e.At }
