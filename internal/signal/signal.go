// Package signal provides a synchronous multi-subscriber change event.
//
// A Signal carries no payload: subscribers are told that something changed
// and query the owner for the new state. Delivery is synchronous and happens
// on the goroutine that calls Emit. The order in which subscribers are called
// is unspecified.
package signal

import (
	"errors"
	"sync"
)

// ErrNotSubscribed is returned when removing a subscription that is not
// registered with the signal.
var ErrNotSubscribed = errors.New("handler not subscribed")

// Subscription represents an active handler registration.
type Subscription struct {
	id     uint64
	signal *Signal

	// owner, if set, replaces Signal.Unsubscribe for this subscription.
	owner func(*Subscription) error
}

// Unsubscribe removes this subscription from its signal. Subscriptions
// created with SubscribeOwned go through their owner's unsubscribe.
func (s *Subscription) Unsubscribe() error {
	if s == nil || s.signal == nil {
		return ErrNotSubscribed
	}
	if s.owner != nil {
		return s.owner(s)
	}
	return s.signal.Unsubscribe(s)
}

// Signal is a multi-subscriber synchronous event. The zero value is ready
// to use.
type Signal struct {
	mu       sync.RWMutex
	handlers map[uint64]func()
	nextID   uint64
}

// New creates a new Signal.
func New() *Signal {
	return &Signal{}
}

// Subscribe registers a handler and returns its subscription.
func (s *Signal) Subscribe(fn func()) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handlers == nil {
		s.handlers = make(map[uint64]func())
	}
	id := s.nextID
	s.nextID++
	s.handlers[id] = fn

	return &Subscription{id: id, signal: s}
}

// SubscribeOwned registers a handler whose Subscription.Unsubscribe calls
// unsubscribe. Types embedding a Signal use it to keep their own error
// reporting on both removal paths; unsubscribe must end in s.Unsubscribe.
func (s *Signal) SubscribeOwned(fn func(), unsubscribe func(*Subscription) error) *Subscription {
	sub := s.Subscribe(fn)
	sub.owner = unsubscribe
	return sub
}

// Unsubscribe removes a registered handler.
func (s *Signal) Unsubscribe(sub *Subscription) error {
	if sub == nil || sub.signal != s {
		return ErrNotSubscribed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handlers[sub.id]; !ok {
		return ErrNotSubscribed
	}
	delete(s.handlers, sub.id)
	return nil
}

// Emit calls every handler registered at the time of the call exactly once.
func (s *Signal) Emit() {
	s.mu.RLock()
	handlers := make([]func(), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.RUnlock()

	// Call handlers outside the lock
	for _, h := range handlers {
		h()
	}
}

// Len returns the number of registered handlers.
func (s *Signal) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handlers)
}
