package ssmtp

import (
	evbus "github.com/asaskevich/EventBus"
)

// Event identifies a point in a Session's lifecycle that an observer (the
// CLI driver, a metrics subscriber, a test) might want to watch. Adapted
// from go-guerrilla's ev.Event: a small enum backed by EventBus, with every
// publish synchronous so the single-threaded model of the session engine is
// never broken by an observer running on another goroutine.
type Event int

const (
	// EventMXTried fires once per MX/A-record candidate the connect loop
	// attempts, before the outcome is known. Args: (domain, host string).
	EventMXTried Event = iota
	// EventConnected fires once CONNECT-AND-GREET succeeds. Args: (domain,
	// host string).
	EventConnected
	// EventAddressed fires after every successful ADDRESS call. Args:
	// (kind AddressKind, address string).
	EventAddressed
	// EventDataSent fires after a successful DATA call. Args: (bytes int).
	EventDataSent
	// EventDisconnected fires whenever the session transitions to
	// DISCONNECTED, whether by caller request or by shutdown-on-error.
	// Args: (reason error), nil for a caller-requested disconnect.
	EventDisconnected
	// EventError fires when a transport or protocol error shuts the
	// session down, right after EventDisconnected and in addition to (not
	// instead of) that error being returned normally. Errors that leave the
	// session as it was (Failure, Data, InvalidState) and a failed Connect
	// do not publish it. Args: (err error).
	EventError
)

var eventList = [...]string{
	"session:mx_tried",
	"session:connected",
	"session:addressed",
	"session:data_sent",
	"session:disconnected",
	"session:error",
}

func (e Event) String() string {
	if int(e) < 0 || int(e) >= len(eventList) {
		return "session:unknown"
	}
	return eventList[e]
}

// EventHandler wraps asaskevich/EventBus with the Event enum, the same
// embedding go-guerrilla's ev.EventHandler uses. The zero value is usable;
// the underlying bus is created lazily on first Subscribe.
type EventHandler struct {
	*evbus.EventBus
}

// Subscribe registers fn against topic. fn's signature must match the
// arguments documented on the Event constant it subscribes to.
func (h *EventHandler) Subscribe(topic Event, fn interface{}) error {
	if h.EventBus == nil {
		h.EventBus = evbus.New()
	}
	return h.EventBus.Subscribe(topic.String(), fn)
}

// Publish fires topic synchronously: every subscriber runs, in subscription
// order, before Publish returns. A nil EventHandler.EventBus (no Subscribe
// ever called) makes this a silent no-op rather than a panic.
func (h *EventHandler) Publish(topic Event, args ...interface{}) {
	if h.EventBus == nil {
		return
	}
	h.EventBus.Publish(topic.String(), args...)
}

// Unsubscribe removes a previously subscribed fn.
func (h *EventHandler) Unsubscribe(topic Event, handler interface{}) error {
	if h.EventBus == nil {
		return nil
	}
	return h.EventBus.Unsubscribe(topic.String(), handler)
}
