package observable

import (
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/kestrelab/observable/internal/utils"
)

// A List decorates a Storage with synchronous before/after change
// observation. The zero value is not usable; construct lists with NewList,
// NewBoolList or WrapStorage. The listener registry is created lazily on the
// first registration, so an unobserved list pays almost nothing on mutation.
//
// A List must be used from a single goroutine: a mutation's entire
// before-dispatch / storage-mutation / after-dispatch sequence runs on the
// caller's stack before the mutating call returns.
type List[T any] struct {
	storage  Storage[T]
	changes  *changeRegistry[T]
	eachSubs map[EachHandle]*eachSubscription[T]
}

// NewList returns an observable list over a slice-backed storage holding the
// given elements.
func NewList[T any](elements ...T) *List[T] {
	return &List[T]{storage: NewSliceStorage(elements...)}
}

// NewBoolList returns an observable list over a packed bitset storage.
func NewBoolList(elements ...bool) *List[bool] {
	return &List[bool]{storage: NewBoolStorage(elements...)}
}

// WrapStorage decorates an existing storage container. The result is
// behaviorally indistinguishable from a list that was observable from
// construction; the caller must stop mutating the storage directly, or
// dispatch the corresponding events itself through the Dispatch* methods.
func WrapStorage[T any](storage Storage[T]) *List[T] {
	return &List[T]{storage: storage}
}

func (l *List[T]) Len() int {
	return l.storage.Len()
}

func (l *List[T]) At(i int) T {
	return l.storage.At(i)
}

// Values returns a copy of the elements; the caller can modify the result.
func (l *List[T]) Values() []T {
	return l.storage.Slice(0, l.storage.Len())
}

// registry returns the list's listener registry, creating it if needed.
// Creation is idempotent: every registration path goes through here.
func (l *List[T]) registry() *changeRegistry[T] {
	if l.changes == nil {
		l.changes = newChangeRegistry[T]()
	}
	return l.changes
}

// SetLogger sets the logger used to trace dispatches. The default logger
// discards everything.
func (l *List[T]) SetLogger(logger zerolog.Logger) {
	l.registry().logger = logger
}

// HasPropertyChangeListeners reports whether any property-change listener is
// installed, for either phase, on any key. The mutation funnel consults it
// before paying for a per-index walk.
func (l *List[T]) HasPropertyChangeListeners() bool {
	return l.changes != nil && l.changes.hasPropertyListeners()
}

// Registration. Add methods accept a handler value (see the handler
// interfaces in change.go) or a bare func of the event's payload signature.
// Remove methods match the most recently added matching registration and
// panic with ErrListenerNotFound when there is none.

func (l *List[T]) AddPropertyChangeListener(key PropKey, listener any) {
	l.registry().addPropertyListener(key, afterPhase, listener)
}

func (l *List[T]) AddBeforePropertyChangeListener(key PropKey, listener any) {
	l.registry().addPropertyListener(key, beforePhase, listener)
}

func (l *List[T]) RemovePropertyChangeListener(key PropKey, listener any) {
	l.registry().removePropertyListener(key, afterPhase, listener)
}

func (l *List[T]) RemoveBeforePropertyChangeListener(key PropKey, listener any) {
	l.registry().removePropertyListener(key, beforePhase, listener)
}

func (l *List[T]) AddMapChangeListener(listener any) {
	l.registry().addMapListener(afterPhase, listener)
}

func (l *List[T]) AddBeforeMapChangeListener(listener any) {
	l.registry().addMapListener(beforePhase, listener)
}

func (l *List[T]) RemoveMapChangeListener(listener any) {
	l.registry().removeMapListener(afterPhase, listener)
}

func (l *List[T]) RemoveBeforeMapChangeListener(listener any) {
	l.registry().removeMapListener(beforePhase, listener)
}

func (l *List[T]) AddContentChangeListener(listener any) {
	l.registry().addContentListener(afterPhase, listener)
}

func (l *List[T]) AddBeforeContentChangeListener(listener any) {
	l.registry().addContentListener(beforePhase, listener)
}

func (l *List[T]) RemoveContentChangeListener(listener any) {
	l.registry().removeContentListener(afterPhase, listener)
}

func (l *List[T]) RemoveBeforeContentChangeListener(listener any) {
	l.registry().removeContentListener(beforePhase, listener)
}

// Dispatch entry points. These are the only sanctioned way to notify
// listeners; collaborators that mutate a wrapped storage themselves must call
// them around the mutation. All of them are no-ops on a list that has no
// registered listener of the kind.

func (l *List[T]) DispatchBeforePropertyChange(key PropKey, value any) {
	if l.changes == nil {
		return
	}
	l.changes.dispatchPropertyChange(beforePhase, PropertyChange{Key: key, Value: value})
}

func (l *List[T]) DispatchPropertyChange(key PropKey, value any) {
	if l.changes == nil {
		return
	}
	l.changes.dispatchPropertyChange(afterPhase, PropertyChange{Key: key, Value: value, Target: l})
}

func (l *List[T]) DispatchBeforeMapChange(key int, value T) {
	if l.changes == nil {
		return
	}
	l.changes.dispatchMapChange(beforePhase, MapChange[T]{Key: key, Value: value})
}

func (l *List[T]) DispatchMapChange(key int, value T) {
	if l.changes == nil {
		return
	}
	l.changes.dispatchMapChange(afterPhase, MapChange[T]{Key: key, Value: value})
}

func (l *List[T]) DispatchBeforeContentChange(inserted, removed []T, index int) {
	if l.changes == nil {
		return
	}
	l.changes.dispatchContentChange(beforePhase, ContentChange[T]{Inserted: inserted, Removed: removed, Index: index})
}

func (l *List[T]) DispatchContentChange(inserted, removed []T, index int) {
	if l.changes == nil {
		return
	}
	l.changes.dispatchContentChange(afterPhase, ContentChange[T]{Inserted: inserted, Removed: removed, Index: index})
}

// Splice replaces the deleteCount-element range starting at start with values
// and returns the removed range. It is the single structural-mutation
// primitive: every other mutating operation reduces to it, so the event
// protocol is implemented exactly once.
//
// For a mutation with diff = len(values) - deleteCount the sequence is:
//
//  1. before-property event for the length key (old length), if diff != 0;
//  2. before-content event (inserted, removed, start);
//  3. before per-index walk (skipped when nothing observes elements);
//  4. storage mutation;
//  5. after per-index walk;
//  6. after-content event (same payload as 2);
//  7. after-property event for the length key (new length), if diff != 0.
//
// The length event comes last: content listeners may register or remove other
// listeners (the each-element manager does), and the length notification must
// observe the settled listener set.
func (l *List[T]) Splice(start, deleteCount int, values ...T) []T {
	oldLength := l.storage.Len()
	if start < 0 || start > oldLength {
		panic(ErrInsertionIndexOutOfRange)
	}
	if deleteCount < 0 || start+deleteCount > oldLength {
		panic(ErrIndexOutOfRange)
	}

	removed := l.storage.Slice(start, start+deleteCount)
	diff := len(values) - len(removed)
	newLength := oldLength + diff

	if diff != 0 {
		l.DispatchBeforePropertyChange(LengthKey, oldLength)
	}
	l.DispatchBeforeContentChange(values, removed, start)
	l.walkIndexes(beforePhase, start, oldLength, newLength, diff, len(values))

	out := l.storage.Splice(start, deleteCount, values...)

	l.walkIndexes(afterPhase, start, oldLength, newLength, diff, len(values))
	l.DispatchContentChange(values, removed, start)
	if diff != 0 {
		l.DispatchPropertyChange(LengthKey, newLength)
	}

	return out
}

// walkIndexes fires the per-index property and map events bracketing a
// splice. A pure substitution (diff == 0) only touches the written range;
// insertion or removal shifts every later position, so the walk extends to
// max(oldLength, newLength). Indices beyond the phase's length dispatch the
// zero value: the position does not exist (yet, or anymore) at that moment.
func (l *List[T]) walkIndexes(phase changePhase, start, oldLength, newLength, diff, insertedLen int) {
	r := l.changes
	if r == nil {
		return
	}
	hasProperty := r.hasPropertyListeners()
	hasMap := r.hasMapListeners()
	if !hasProperty && !hasMap {
		return
	}

	end := start + insertedLen
	if diff != 0 {
		end = oldLength
		if newLength > end {
			end = newLength
		}
	}

	length := oldLength
	if phase == afterPhase {
		length = newLength
	}

	for i := start; i < end; i++ {
		var value T
		if i < length {
			value = l.storage.At(i)
		}

		if hasProperty {
			c := PropertyChange{Key: PropKey(i), Value: value}
			if phase == afterPhase {
				c.Target = l
			}
			r.dispatchPropertyChange(phase, c)
		}
		if hasMap {
			r.dispatchMapChange(phase, MapChange[T]{Key: i, Value: value})
		}
	}
}

// Derived operations. None of them dispatches anything itself: they are thin
// reformulations over Splice.

// Set assigns the element at index i.
func (l *List[T]) Set(i int, value T) {
	if i < 0 || i >= l.storage.Len() {
		panic(ErrIndexOutOfRange)
	}
	l.Splice(i, 1, value)
}

// RemoveAt removes the element at index i and reports whether the index
// existed.
func (l *List[T]) RemoveAt(i int) bool {
	if i < 0 || i >= l.storage.Len() {
		return false
	}
	l.Splice(i, 1)
	return true
}

// RemoveFirst removes and returns the first element.
func (l *List[T]) RemoveFirst() (T, bool) {
	if l.storage.Len() == 0 {
		var zero T
		return zero, false
	}
	return l.Splice(0, 1)[0], true
}

// RemoveLast removes and returns the last element.
func (l *List[T]) RemoveLast() (T, bool) {
	length := l.storage.Len()
	if length == 0 {
		var zero T
		return zero, false
	}
	return l.Splice(length-1, 1)[0], true
}

// Append adds values at the end of the list. The whole batch goes through one
// Splice call: one event pair, not one per value.
func (l *List[T]) Append(values ...T) {
	l.Splice(l.storage.Len(), 0, values...)
}

// Prepend adds values at the beginning of the list, as one batch.
func (l *List[T]) Prepend(values ...T) {
	l.Splice(0, 0, values...)
}

// Clear removes and returns all elements.
func (l *List[T]) Clear() []T {
	return l.Splice(0, l.storage.Len())
}

// Reverse reverses the list in place.
func (l *List[T]) Reverse() {
	l.reorder(func(elements []T) {
		utils.Reverse(elements)
	})
}

// SortFunc sorts the list in place using the given comparison.
func (l *List[T]) SortFunc(cmp func(a, b T) int) {
	l.reorder(func(elements []T) {
		slices.SortFunc(elements, cmp)
	})
}

// reorder brackets an in-place rearrangement with full-range property and map
// walks, plus a single content event pair over the whole range at index 0.
// Reordering cannot be expressed as a range replacement: every element's
// value may change without any being logically inserted or removed, so both
// ContentChange sides carry the same working sequence — pre-state when the
// before event fires, post-state once the rearrangement ran.
func (l *List[T]) reorder(rearrange func(elements []T)) {
	length := l.storage.Len()
	elements := l.storage.Slice(0, length)

	l.walkIndexes(beforePhase, 0, length, length, 0, length)
	l.DispatchBeforeContentChange(elements, elements, 0)

	rearrange(elements)
	l.storage.Splice(0, length, elements...)

	l.walkIndexes(afterPhase, 0, length, length, 0, length)
	l.DispatchContentChange(elements, elements, 0)
}
