package router

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/vango-dev/routetree/pkg/state"
)

// EventType identifies a navigation event.
type EventType string

const (
	NavigationStart  EventType = "NavigationStart"
	RoutesRecognized EventType = "RoutesRecognized"
	NavigationEnd    EventType = "NavigationEnd"
	NavigationCancel EventType = "NavigationCancel"
	NavigationError  EventType = "NavigationError"
)

// Event is emitted as a navigation moves through the pipeline. Every
// navigation emits NavigationStart, then RoutesRecognized if its URL was
// recognized, then exactly one of NavigationEnd, NavigationCancel and
// NavigationError.
type Event struct {
	Type EventType
	ID   uint64
	URL  string

	// URLAfterRedirects is set on RoutesRecognized and NavigationEnd.
	URLAfterRedirects string

	// State is the recognized snapshot, set on RoutesRecognized.
	State *state.RouterStateSnapshot

	// Reason says why a navigation was cancelled.
	Reason string

	// Err is the failure of a NavigationError.
	Err error

	Time time.Time
}

// String renders the event the way it appears in logs.
func (e Event) String() string {
	switch e.Type {
	case RoutesRecognized:
		return fmt.Sprintf("%s(id: %d, url: '%s', urlAfterRedirects: '%s', state: %s)", e.Type, e.ID, e.URL, e.URLAfterRedirects, e.State)
	case NavigationEnd:
		return fmt.Sprintf("%s(id: %d, url: '%s', urlAfterRedirects: '%s')", e.Type, e.ID, e.URL, e.URLAfterRedirects)
	case NavigationError:
		return fmt.Sprintf("%s(id: %d, url: '%s', error: %v)", e.Type, e.ID, e.URL, e.Err)
	}
	return fmt.Sprintf("%s(id: %d, url: '%s')", e.Type, e.ID, e.URL)
}

// MarshalJSON renders the event for the inspector stream.
func (e Event) MarshalJSON() ([]byte, error) {
	out := struct {
		Type              EventType `json:"type"`
		ID                uint64    `json:"id"`
		URL               string    `json:"url"`
		URLAfterRedirects string    `json:"urlAfterRedirects,omitempty"`
		State             string    `json:"state,omitempty"`
		Reason            string    `json:"reason,omitempty"`
		Error             string    `json:"error,omitempty"`
		Time              time.Time `json:"time"`
	}{
		Type:              e.Type,
		ID:                e.ID,
		URL:               e.URL,
		URLAfterRedirects: e.URLAfterRedirects,
		Reason:            e.Reason,
		Time:              e.Time,
	}
	if e.State != nil {
		out.State = e.State.String()
	}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	return json.Marshal(out)
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// events fans navigation events out to subscribers in subscription order.
// Subscribers are called on the goroutine that emits the event; events of
// different navigations may be delivered concurrently.
type events struct {
	mu   sync.RWMutex
	next uint64
	subs []subscriber
}

func (e *events) subscribe(fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	id := e.next
	e.subs = append(e.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for i, s := range e.subs {
				if s.id == id {
					e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (e *events) emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	e.mu.RLock()
	subs := e.subs
	e.mu.RUnlock()
	for _, s := range subs {
		s.fn(ev)
	}
}
