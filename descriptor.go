package observable

import (
	"github.com/kestrelab/observable/internal/utils"
	"github.com/rs/zerolog"
)

type changePhase int

const (
	beforePhase changePhase = iota
	afterPhase
)

func (p changePhase) String() string {
	if p == beforePhase {
		return "before"
	}
	return "after"
}

// A changeDescriptor records the listeners of one event kind (and, for
// property events, one key), as two ordered sequences. Insertion order is
// preserved and duplicates are allowed: registering the same listener twice
// requires removing it twice.
type changeDescriptor struct {
	beforeListeners []any
	afterListeners  []any
}

func (d *changeDescriptor) phaseListeners(phase changePhase) []any {
	if phase == beforePhase {
		return d.beforeListeners
	}
	return d.afterListeners
}

func (d *changeDescriptor) add(phase changePhase, listener any) {
	if phase == beforePhase {
		d.beforeListeners = append(d.beforeListeners, listener)
	} else {
		d.afterListeners = append(d.afterListeners, listener)
	}
}

// remove drops the MOST RECENTLY ADDED matching registration: when a listener
// is registered twice and removed once, the earlier registration survives.
func (d *changeDescriptor) remove(phase changePhase, listener any) bool {
	listeners := d.beforeListeners
	if phase == afterPhase {
		listeners = d.afterListeners
	}

	for i := len(listeners) - 1; i >= 0; i-- {
		if sameListener(listeners[i], listener) {
			listeners = append(listeners[:i], listeners[i+1:]...)
			if phase == beforePhase {
				d.beforeListeners = listeners
			} else {
				d.afterListeners = listeners
			}
			return true
		}
	}
	return false
}

func (d *changeDescriptor) empty() bool {
	return len(d.beforeListeners) == 0 && len(d.afterListeners) == 0
}

// A changeRegistry is the per-list listener record, created lazily on first
// registration. Property descriptors are keyed because aggregate
// subscriptions register one listener per index; map and content events each
// have a single descriptor.
type changeRegistry[T any] struct {
	property              map[PropKey]*changeDescriptor
	mapChange             *changeDescriptor
	content               *changeDescriptor
	propertyListenerCount int

	logger zerolog.Logger
}

func newChangeRegistry[T any]() *changeRegistry[T] {
	return &changeRegistry[T]{
		logger: zerolog.Nop(),
	}
}

func (r *changeRegistry[T]) propertyDescriptor(key PropKey) *changeDescriptor {
	if r.property == nil {
		r.property = make(map[PropKey]*changeDescriptor)
	}
	d, ok := r.property[key]
	if !ok {
		d = &changeDescriptor{}
		r.property[key] = d
	}
	return d
}

func (r *changeRegistry[T]) mapDescriptor() *changeDescriptor {
	if r.mapChange == nil {
		r.mapChange = &changeDescriptor{}
	}
	return r.mapChange
}

func (r *changeRegistry[T]) contentDescriptor() *changeDescriptor {
	if r.content == nil {
		r.content = &changeDescriptor{}
	}
	return r.content
}

func (r *changeRegistry[T]) addPropertyListener(key PropKey, phase changePhase, listener any) {
	if listener == nil {
		return
	}
	r.propertyDescriptor(key).add(phase, listener)
	r.propertyListenerCount++
}

func (r *changeRegistry[T]) removePropertyListener(key PropKey, phase changePhase, listener any) {
	d, ok := r.property[key]
	if !ok || !d.remove(phase, listener) {
		panic(ErrListenerNotFound)
	}
	r.propertyListenerCount--
	if d.empty() {
		delete(r.property, key)
	}
}

func (r *changeRegistry[T]) addMapListener(phase changePhase, listener any) {
	if listener == nil {
		return
	}
	r.mapDescriptor().add(phase, listener)
}

func (r *changeRegistry[T]) removeMapListener(phase changePhase, listener any) {
	if r.mapChange == nil || !r.mapChange.remove(phase, listener) {
		panic(ErrListenerNotFound)
	}
}

func (r *changeRegistry[T]) addContentListener(phase changePhase, listener any) {
	if listener == nil {
		return
	}
	r.contentDescriptor().add(phase, listener)
}

func (r *changeRegistry[T]) removeContentListener(phase changePhase, listener any) {
	if r.content == nil || !r.content.remove(phase, listener) {
		panic(ErrListenerNotFound)
	}
}

// hasPropertyListeners is the optimization flag consulted by the mutation
// funnel: when false the whole per-index walk is skipped.
func (r *changeRegistry[T]) hasPropertyListeners() bool {
	return r.propertyListenerCount > 0
}

func (r *changeRegistry[T]) hasMapListeners() bool {
	return r.mapChange != nil && !r.mapChange.empty()
}

// Dispatch methods invoke each listener in registration order, against a
// snapshot of the sequence: a listener removing itself or another listener
// mid-dispatch must not corrupt the in-progress iteration. Panics raised by
// listeners are not recovered, so a failing listener aborts the rest of the
// phase's walk for that event.

func (r *changeRegistry[T]) dispatchPropertyChange(phase changePhase, c PropertyChange) {
	d, ok := r.property[c.Key]
	if !ok {
		return
	}
	listeners := utils.CopySlice(d.phaseListeners(phase))
	if len(listeners) == 0 {
		return
	}

	r.logger.Trace().Str("kind", "property").Stringer("phase", phase).Stringer("key", c.Key).
		Int("listeners", len(listeners)).Msg("dispatch")

	for _, listener := range listeners {
		callPropertyListener(listener, phase, c)
	}
}

func (r *changeRegistry[T]) dispatchMapChange(phase changePhase, c MapChange[T]) {
	if r.mapChange == nil {
		return
	}
	listeners := utils.CopySlice(r.mapChange.phaseListeners(phase))
	if len(listeners) == 0 {
		return
	}

	r.logger.Trace().Str("kind", "map").Stringer("phase", phase).Int("key", c.Key).
		Int("listeners", len(listeners)).Msg("dispatch")

	for _, listener := range listeners {
		callMapListener(listener, phase, c)
	}
}

func (r *changeRegistry[T]) dispatchContentChange(phase changePhase, c ContentChange[T]) {
	if r.content == nil {
		return
	}
	listeners := utils.CopySlice(r.content.phaseListeners(phase))
	if len(listeners) == 0 {
		return
	}

	r.logger.Trace().Str("kind", "content").Stringer("phase", phase).Int("index", c.Index).
		Int("inserted", len(c.Inserted)).Int("removed", len(c.Removed)).
		Int("listeners", len(listeners)).Msg("dispatch")

	for _, listener := range listeners {
		callContentListener(listener, phase, c)
	}
}
