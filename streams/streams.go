// Package streams provides the small push-based notification primitives the
// forms model is built on: Stream, a multicast channel that delivers every
// value to all current subscribers synchronously and in registration order,
// and Single, a one-shot cancelable delivery used for async validation
// results.
//
// There is no buffering and no back-pressure. A subscriber that is added
// after a value was emitted on a Stream never sees that value; a subscriber
// added to an already resolved Single is called immediately.
package streams

import "sync"

// handler is one registered callback. closed is flipped by Unsubscribe and
// checked before delivery so a canceled subscriber never observes a value
// emitted after cancellation.
type handler[T any] struct {
	fn     func(T)
	closed bool
}

// Subscription detaches a subscriber from the stream or single it was
// registered with. Unsubscribe is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe cancels the subscription. Values emitted afterwards are not
// delivered to the subscriber. Calling Unsubscribe on a nil or already
// canceled subscription is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Stream is a multicast source of values. The zero value is not usable;
// create one with New.
type Stream[T any] struct {
	mu   sync.Mutex
	subs []*handler[T]
}

// New returns an empty stream with no subscribers.
func New[T any]() *Stream[T] {
	return &Stream[T]{}
}

// Subscribe registers fn to be called for every subsequent value. Subscribers
// are notified in registration order.
func (s *Stream[T]) Subscribe(fn func(T)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &handler[T]{fn: fn}
	s.subs = append(s.subs, h)
	return &Subscription{cancel: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		h.closed = true
	}}
}

// Next delivers v to every current subscriber, synchronously, in registration
// order. Subscribers canceled before the call do not receive v.
func (s *Stream[T]) Next(v T) {
	s.mu.Lock()
	live := make([]*handler[T], 0, len(s.subs))
	for _, h := range s.subs {
		if !h.closed {
			live = append(live, h)
		}
	}
	s.subs = live
	s.mu.Unlock()

	for _, h := range live {
		h.fn(v)
	}
}

// Single delivers at most one value to each subscriber. It is the shape an
// async validator returns: an unresolved Single parks its subscribers until
// Resolve is called; a resolved Single calls new subscribers immediately.
type Single[T any] struct {
	mu       sync.Mutex
	resolved bool
	value    T
	waiters  []*handler[T]
}

// NewSingle returns an unresolved Single.
func NewSingle[T any]() *Single[T] {
	return &Single[T]{}
}

// Resolved returns a Single that already carries v. Subscribers are invoked
// synchronously from Subscribe.
func Resolved[T any](v T) *Single[T] {
	return &Single[T]{resolved: true, value: v}
}

// Resolve settles the Single with v and notifies parked subscribers in
// registration order. Only the first Resolve has any effect.
func (s *Single[T]) Resolve(v T) {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return
	}
	s.resolved = true
	s.value = v
	ws := s.waiters
	s.waiters = nil
	s.mu.Unlock()

	for _, h := range ws {
		if !h.closed {
			h.fn(v)
		}
	}
}

// Subscribe registers fn for the eventual value. If the Single is already
// resolved, fn runs before Subscribe returns.
func (s *Single[T]) Subscribe(fn func(T)) *Subscription {
	s.mu.Lock()
	if s.resolved {
		v := s.value
		s.mu.Unlock()
		fn(v)
		return &Subscription{}
	}
	h := &handler[T]{fn: fn}
	s.waiters = append(s.waiters, h)
	s.mu.Unlock()
	return &Subscription{cancel: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		h.closed = true
	}}
}
