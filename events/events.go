package events

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// EventHandler defines a function type where its input type is the generic type. A returned error stops the
// publishing of the event and is returned to the publisher.
type EventHandler[T any] func(T) error

// globalEventHandlers describes a mapping of event types to EventHandler objects. These callbacks are called
// any time any EventEmitter publishes an event of that type.
var globalEventHandlers map[reflect.Type][]any

// globalEventHandlersLock is a lock that provides thread synchronization when accessing globalEventHandlers.
var globalEventHandlersLock sync.Mutex

// eventType returns the type key used to register handlers for events of type T.
func eventType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// SubscribeAny adds an EventHandler to the list of global EventHandler objects for a given event data type.
// When an event is published by any emitter, the callback will be triggered with the event data.
// Note: An EventHandler subscribed here will remain throughout program execution.
func SubscribeAny[T any](callback EventHandler[T]) {
	globalEventHandlersLock.Lock()
	defer globalEventHandlersLock.Unlock()

	if globalEventHandlers == nil {
		globalEventHandlers = make(map[reflect.Type][]any)
	}
	key := eventType[T]()
	globalEventHandlers[key] = append(globalEventHandlers[key], callback)
}

// EventEmitter describes a provider which can subscribe EventHandler methods for callback when the event type (generic)
// is published. It additionally provides methods for publishing events.
type EventEmitter[T any] struct {
	// subscriptions defines the EventHandler methods which should be invoked when a new event is published to this
	// emitter.
	subscriptions []EventHandler[T]
}

// Publish emits the provided event by calling every EventHandler subscribed to the emitter, followed by every global
// handler for the event type. The first error returned by a handler aborts publishing and is returned.
func (e *EventEmitter[T]) Publish(event T) error {
	for _, subscription := range e.subscriptions {
		if err := subscription(event); err != nil {
			return err
		}
	}

	// Copy the global handlers under lock so that handlers may subscribe while being invoked
	globalEventHandlersLock.Lock()
	callbacks := append([]any(nil), globalEventHandlers[eventType[T]()]...)
	globalEventHandlersLock.Unlock()

	for _, callback := range callbacks {
		handler, ok := callback.(EventHandler[T])
		if !ok {
			return errors.Errorf("global event handler for %v has an unexpected type %T", eventType[T](), callback)
		}
		if err := handler(event); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe adds an EventHandler to the list of subscribed EventHandler objects for this emitter. When an event is
// published, the callback will be triggered with the event data.
func (e *EventEmitter[T]) Subscribe(callback EventHandler[T]) {
	e.subscriptions = append(e.subscriptions, callback)
}
