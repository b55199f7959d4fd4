package observable

import (
	"reflect"
	"strconv"

	"github.com/kestrelab/observable/internal/utils"
)

// A PropKey identifies an observable property of a list: a non-negative
// element index, or LengthKey for the synthetic length property.
type PropKey int

// LengthKey is the symbolic key under which length changes are dispatched as
// property events: length is itself an observable property of a list.
const LengthKey PropKey = -1

func (k PropKey) IsIndex() bool {
	return k >= 0
}

func (k PropKey) String() string {
	if k == LengthKey {
		return "length"
	}
	return strconv.Itoa(int(k))
}

// A ContentChange describes a structural change of a list: the values being
// inserted, the values being removed, and the start offset of the affected
// range. Before-listeners receive it before the storage mutation, with the
// list still in its pre-mutation state; after-listeners receive the same
// payload once the mutation is done.
//
// Reorder operations (Reverse, SortFunc) dispatch a single ContentChange at
// index 0 whose Inserted and Removed both alias the list's element sequence,
// signaling "every position may have changed" rather than literal
// insert/remove lists.
type ContentChange[T any] struct {
	Inserted []T
	Removed  []T
	Index    int
}

// A PropertyChange describes a change of a single observable property: an
// element (Key is the index) or the length (Key is LengthKey). Value is the
// current value in before-events and the new value in after-events. Target is
// the observed list and is only set on after-events.
type PropertyChange struct {
	Key    PropKey
	Value  any
	Target any
}

// A MapChange describes the same element-level change as a PropertyChange but
// under map semantics: the list seen as a mapping from index to value. Map
// listeners observe all keys and are routed through a registry of their own,
// so "map semantics" can be subscribed to independently of positional ones.
type MapChange[T any] struct {
	Key   int
	Value T
}

// Handler interfaces. A listener registered with any of the Add*Listener
// methods is either a value implementing the interface matching the event
// kind and phase, or a bare func with the corresponding payload signature.
// The named method is preferred over the bare call; values with neither
// callable form are skipped during dispatch.
type (
	ContentChangeHandler[T any] interface {
		HandleContentChange(c ContentChange[T])
	}

	BeforeContentChangeHandler[T any] interface {
		HandleContentWillChange(c ContentChange[T])
	}

	PropertyChangeHandler interface {
		HandlePropertyChange(c PropertyChange)
	}

	BeforePropertyChangeHandler interface {
		HandlePropertyWillChange(c PropertyChange)
	}

	MapChangeHandler[T any] interface {
		HandleMapChange(c MapChange[T])
	}

	BeforeMapChangeHandler[T any] interface {
		HandleMapWillChange(c MapChange[T])
	}
)

// ContentChangeFunc adapts a func to the content handler interfaces, for both
// phases.
type ContentChangeFunc[T any] func(c ContentChange[T])

func (f ContentChangeFunc[T]) HandleContentChange(c ContentChange[T]) {
	f(c)
}

func (f ContentChangeFunc[T]) HandleContentWillChange(c ContentChange[T]) {
	f(c)
}

// PropertyChangeFunc adapts a func to the property handler interfaces.
type PropertyChangeFunc func(c PropertyChange)

func (f PropertyChangeFunc) HandlePropertyChange(c PropertyChange) {
	f(c)
}

func (f PropertyChangeFunc) HandlePropertyWillChange(c PropertyChange) {
	f(c)
}

// MapChangeFunc adapts a func to the map handler interfaces.
type MapChangeFunc[T any] func(c MapChange[T])

func (f MapChangeFunc[T]) HandleMapChange(c MapChange[T]) {
	f(c)
}

func (f MapChangeFunc[T]) HandleMapWillChange(c MapChange[T]) {
	f(c)
}

func callContentListener[T any](listener any, phase changePhase, c ContentChange[T]) {
	if phase == beforePhase {
		if h, ok := listener.(BeforeContentChangeHandler[T]); ok {
			h.HandleContentWillChange(c)
			return
		}
	} else if h, ok := listener.(ContentChangeHandler[T]); ok {
		h.HandleContentChange(c)
		return
	}
	if fn, ok := listener.(func(c ContentChange[T])); ok {
		fn(c)
	}
}

func callPropertyListener(listener any, phase changePhase, c PropertyChange) {
	if phase == beforePhase {
		if h, ok := listener.(BeforePropertyChangeHandler); ok {
			h.HandlePropertyWillChange(c)
			return
		}
	} else if h, ok := listener.(PropertyChangeHandler); ok {
		h.HandlePropertyChange(c)
		return
	}
	if fn, ok := listener.(func(c PropertyChange)); ok {
		fn(c)
	}
}

func callMapListener[T any](listener any, phase changePhase, c MapChange[T]) {
	if phase == beforePhase {
		if h, ok := listener.(BeforeMapChangeHandler[T]); ok {
			h.HandleMapWillChange(c)
			return
		}
	} else if h, ok := listener.(MapChangeHandler[T]); ok {
		h.HandleMapChange(c)
		return
	}
	if fn, ok := listener.(func(c MapChange[T])); ok {
		fn(c)
	}
}

// sameListener reports whether a registered listener matches the one passed
// to a removal. Funcs are matched by code pointer, everything else by
// interface equality when the dynamic type is comparable.
func sameListener(registered, listener any) bool {
	ra := reflect.ValueOf(registered)
	rb := reflect.ValueOf(listener)

	if !ra.IsValid() || !rb.IsValid() {
		return false
	}

	if ra.Kind() == reflect.Func || rb.Kind() == reflect.Func {
		return ra.Kind() == rb.Kind() && utils.SamePointer(registered, listener)
	}

	if ra.Type() != rb.Type() || !ra.Type().Comparable() {
		return false
	}
	return registered == listener
}
