package observable

import "github.com/oklog/ulid/v2"

// An EachHandle identifies an aggregate (each-element) subscription. It keys
// the side table recording what the subscription installed, so teardown is
// exact even when the same listener is subscribed several times.
type EachHandle string

func newEachHandle() EachHandle {
	return EachHandle(ulid.Make().String())
}

// An eachSubscription records what one AddEachChangeListener call installed:
// the caller's listener (registered on every index), and the two synthesized
// content listeners keeping the per-index registrations in sync with the
// list's length.
type eachSubscription[T any] struct {
	listener any
	phase    changePhase
	grow     *eachGrowListener[T]
	shrink   *eachShrinkListener[T]
}

// eachGrowListener observes before-content events: on net growth it
// pre-registers the aggregate listener on the new trailing indices, before
// the storage mutation, so the per-index before-events for positions that do
// not exist yet are still observed.
type eachGrowListener[T any] struct {
	list     *List[T]
	listener any
	phase    changePhase
}

func (g *eachGrowListener[T]) HandleContentWillChange(c ContentChange[T]) {
	diff := len(c.Inserted) - len(c.Removed)
	if diff <= 0 {
		return
	}
	oldLength := g.list.storage.Len()
	for i := oldLength; i < oldLength+diff; i++ {
		g.list.changes.addPropertyListener(PropKey(i), g.phase, g.listener)
	}
}

// eachShrinkListener observes after-content events: on net shrink it
// unregisters the aggregate listener from the indices that no longer exist.
type eachShrinkListener[T any] struct {
	list     *List[T]
	listener any
	phase    changePhase
}

func (s *eachShrinkListener[T]) HandleContentChange(c ContentChange[T]) {
	diff := len(c.Inserted) - len(c.Removed)
	if diff >= 0 {
		return
	}
	newLength := s.list.storage.Len()
	for i := newLength; i < newLength-diff; i++ {
		s.list.changes.removePropertyListener(PropKey(i), s.phase, s.listener)
	}
}

// AddEachChangeListener subscribes listener to the after-phase property
// events of every current and future index: the registration set follows the
// list's length as it grows and shrinks, with no per-index management by the
// caller. The returned handle is the only way to unsubscribe.
func (l *List[T]) AddEachChangeListener(listener any) EachHandle {
	return l.addEachListener(listener, afterPhase)
}

// AddBeforeEachChangeListener is AddEachChangeListener for the before phase.
func (l *List[T]) AddBeforeEachChangeListener(listener any) EachHandle {
	return l.addEachListener(listener, beforePhase)
}

func (l *List[T]) addEachListener(listener any, phase changePhase) EachHandle {
	r := l.registry()

	length := l.storage.Len()
	for i := 0; i < length; i++ {
		r.addPropertyListener(PropKey(i), phase, listener)
	}

	grow := &eachGrowListener[T]{list: l, listener: listener, phase: phase}
	shrink := &eachShrinkListener[T]{list: l, listener: listener, phase: phase}
	l.AddBeforeContentChangeListener(grow)
	l.AddContentChangeListener(shrink)

	handle := newEachHandle()
	if l.eachSubs == nil {
		l.eachSubs = make(map[EachHandle]*eachSubscription[T])
	}
	l.eachSubs[handle] = &eachSubscription[T]{
		listener: listener,
		phase:    phase,
		grow:     grow,
		shrink:   shrink,
	}

	return handle
}

// RemoveEachChangeListener tears down the subscription identified by handle:
// the listener is removed from every current index, then the two synthesized
// content listeners are removed. An unknown or already-removed handle panics
// with ErrListenerNotFound, same policy as the other removals.
func (l *List[T]) RemoveEachChangeListener(handle EachHandle) {
	sub, ok := l.eachSubs[handle]
	if !ok {
		panic(ErrListenerNotFound)
	}
	delete(l.eachSubs, handle)

	length := l.storage.Len()
	for i := 0; i < length; i++ {
		l.changes.removePropertyListener(PropKey(i), sub.phase, sub.listener)
	}
	l.RemoveBeforeContentChangeListener(sub.grow)
	l.RemoveContentChangeListener(sub.shrink)
}
