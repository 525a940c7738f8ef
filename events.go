package corvid

import (
	"context"
	"sync"

	"github.com/corvidware/corvid/structs"
)

// eventHandler decodes a dispatch payload, applies it to the session's
// state store when relevant, and returns the decoded value that gets
// handed to any caller-registered listeners for this event type.
type eventHandler func(s *Session, data []byte) (interface{}, error)

// dispatcher is the Event Dispatcher: a dispatch-event-name-level table of
// built-in handlers (the same shape as the gateway-opcode-level table
// shard.Listen switches on, one level down in the envelope) plus a
// registry of caller-supplied listeners per event name.
type dispatcher struct {
	builtins map[string]eventHandler

	mu        sync.RWMutex
	listeners map[string][]func(interface{})
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		builtins:  make(map[string]eventHandler),
		listeners: make(map[string][]func(interface{})),
	}

	registerBuiltinHandlers(d)

	return d
}

func (d *dispatcher) register(eventType string, handler eventHandler) {
	d.builtins[eventType] = handler
}

// on adds a listener for eventType, returning a function that removes it.
func (d *dispatcher) on(eventType string, fn func(interface{})) func() {
	d.mu.Lock()
	d.listeners[eventType] = append(d.listeners[eventType], fn)
	index := len(d.listeners[eventType]) - 1
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		handlers := d.listeners[eventType]
		if index < len(handlers) {
			handlers[index] = nil
		}
	}
}

// dispatch runs payload.Type's built-in handler, if any, then fans the
// decoded event out to every registered listener for that event name. If
// none is registered, it falls back to whatever default handler is
// registered under the empty event name "".
func (d *dispatcher) dispatch(ctx context.Context, s *Session, payload structs.GatewayPayload) {
	if payload.Op != structs.GatewayOpDispatch {
		return
	}

	eventsReceived.WithLabelValues(payload.Type).Inc()

	handler, ok := d.builtins[payload.Type]

	var (
		decoded interface{}
		err     error
	)

	if ok {
		decoded, err = handler(s, payload.Data)
		if err != nil {
			s.logger.Warn().Err(err).Str("type", payload.Type).Msg("failed to handle dispatch event")
		}
	} else {
		decoded = payload.Data
	}

	if s.publisher != nil {
		if perr := s.publisher.Publish(ctx, payload.Type, payload.Data); perr != nil {
			s.logger.Warn().Err(perr).Str("type", payload.Type).Msg("failed to publish event")
		}
	}

	d.mu.RLock()
	handlers := append([]func(interface{}){}, d.listeners[payload.Type]...)
	if len(handlers) == 0 {
		handlers = append([]func(interface{}){}, d.listeners[""]...)
	}
	d.mu.RUnlock()

	for _, fn := range handlers {
		if fn != nil {
			fn(decoded)
		}
	}
}
