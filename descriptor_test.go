package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler is a distinguishable listener: registrations are matched
// by pointer identity.
type recordingHandler struct {
	id  string
	log *[]string
}

func (h *recordingHandler) HandleContentChange(c ContentChange[int]) {
	*h.log = append(*h.log, h.id)
}

func (h *recordingHandler) HandleContentWillChange(c ContentChange[int]) {
	*h.log = append(*h.log, "will:"+h.id)
}

func TestListenerRegistration(t *testing.T) {

	t.Run("listeners fire in registration order", func(t *testing.T) {
		list := NewList(1)
		var log []string

		list.AddContentChangeListener(&recordingHandler{id: "a", log: &log})
		list.AddContentChangeListener(&recordingHandler{id: "b", log: &log})
		list.AddContentChangeListener(&recordingHandler{id: "c", log: &log})

		list.Append(2)

		assert.Equal(t, []string{"a", "b", "c"}, log)
	})

	t.Run("duplicate registrations fire once per registration", func(t *testing.T) {
		list := NewList(1)
		var log []string

		h := &recordingHandler{id: "a", log: &log}
		list.AddContentChangeListener(h)
		list.AddContentChangeListener(h)

		list.Append(2)

		assert.Equal(t, []string{"a", "a"}, log)
	})

	t.Run("removal drops the most recently added matching registration", func(t *testing.T) {
		list := NewList(1)
		var log []string

		h1 := &recordingHandler{id: "h1", log: &log}
		h2 := &recordingHandler{id: "h2", log: &log}
		list.AddContentChangeListener(h1)
		list.AddContentChangeListener(h2)
		list.AddContentChangeListener(h1)

		list.RemoveContentChangeListener(h1)
		list.Append(2)

		// the first h1 registration survives, in its original position
		assert.Equal(t, []string{"h1", "h2"}, log)
	})

	t.Run("removing the same listener twice panics on the second call", func(t *testing.T) {
		list := NewList(1)

		h := &recordingHandler{id: "a", log: new([]string)}
		list.AddContentChangeListener(h)

		list.RemoveContentChangeListener(h)
		assert.PanicsWithValue(t, ErrListenerNotFound, func() {
			list.RemoveContentChangeListener(h)
		})
	})

	t.Run("removing a never-registered listener panics", func(t *testing.T) {
		list := NewList(1)

		assert.PanicsWithValue(t, ErrListenerNotFound, func() {
			list.RemoveContentChangeListener(&recordingHandler{id: "a", log: new([]string)})
		})
		assert.PanicsWithValue(t, ErrListenerNotFound, func() {
			list.RemoveMapChangeListener(func(c MapChange[int]) {})
		})
		assert.PanicsWithValue(t, ErrListenerNotFound, func() {
			list.RemovePropertyChangeListener(0, func(c PropertyChange) {})
		})
	})

	t.Run("removal is phase-specific", func(t *testing.T) {
		list := NewList(1)

		h := &recordingHandler{id: "a", log: new([]string)}
		list.AddBeforeContentChangeListener(h)

		assert.PanicsWithValue(t, ErrListenerNotFound, func() {
			list.RemoveContentChangeListener(h)
		})
		list.RemoveBeforeContentChangeListener(h)
	})

	t.Run("funcs are matched by code pointer", func(t *testing.T) {
		list := NewList(1)

		calls := 0
		listener := func(c ContentChange[int]) { calls++ }
		list.AddContentChangeListener(listener)
		list.RemoveContentChangeListener(listener)

		list.Append(2)
		assert.Zero(t, calls)
	})
}

func TestDispatch(t *testing.T) {

	t.Run("the phase's handler method is preferred, a listener without one is skipped", func(t *testing.T) {
		list := NewList(1)
		var log []string

		h := &recordingHandler{id: "a", log: &log}
		list.AddBeforeContentChangeListener(h)
		list.AddContentChangeListener(h)
		// no callable form for content events: skipped silently
		list.AddContentChangeListener(struct{ name string }{name: "inert"})

		list.Append(2)

		assert.Equal(t, []string{"will:a", "a"}, log)
	})

	t.Run("bare funcs are invoked for both phases", func(t *testing.T) {
		list := NewList(1)
		var log []string

		list.AddBeforeContentChangeListener(func(c ContentChange[int]) { log = append(log, "before") })
		list.AddContentChangeListener(func(c ContentChange[int]) { log = append(log, "after") })

		list.Append(2)

		assert.Equal(t, []string{"before", "after"}, log)
	})

	t.Run("a listener removing itself mid-dispatch does not disturb the iteration", func(t *testing.T) {
		list := NewList(1)
		var log []string

		first := &recordingHandler{id: "first", log: &log}
		var selfRemoving ContentChangeFunc[int]
		selfRemoving = func(c ContentChange[int]) {
			log = append(log, "self")
			list.RemoveContentChangeListener(selfRemoving)
		}
		last := &recordingHandler{id: "last", log: &log}

		list.AddContentChangeListener(first)
		list.AddContentChangeListener(selfRemoving)
		list.AddContentChangeListener(last)

		list.Append(2)
		assert.Equal(t, []string{"first", "self", "last"}, log)

		log = nil
		list.Append(3)
		assert.Equal(t, []string{"first", "last"}, log)
	})

	t.Run("a listener registering another listener mid-dispatch takes effect on the next event", func(t *testing.T) {
		list := NewList(1)
		var log []string

		late := &recordingHandler{id: "late", log: &log}
		list.AddContentChangeListener(ContentChangeFunc[int](func(c ContentChange[int]) {
			log = append(log, "adder")
			if len(log) == 1 {
				list.AddContentChangeListener(late)
			}
		}))

		list.Append(2)
		assert.Equal(t, []string{"adder"}, log)

		list.Append(3)
		assert.Equal(t, []string{"adder", "adder", "late"}, log)
	})

	t.Run("a panicking before-listener aborts the mutation before any storage change", func(t *testing.T) {
		list := NewList(1, 2, 3)

		list.AddBeforeContentChangeListener(func(c ContentChange[int]) {
			panic("listener failure")
		})
		notified := false
		list.AddContentChangeListener(func(c ContentChange[int]) { notified = true })

		assert.PanicsWithValue(t, "listener failure", func() {
			list.Append(4)
		})

		assert.Equal(t, []int{1, 2, 3}, list.Values())
		assert.False(t, notified)
	})

	t.Run("a panicking listener leaves later listeners of the phase un-notified", func(t *testing.T) {
		list := NewList(1)
		var log []string

		list.AddContentChangeListener(&recordingHandler{id: "a", log: &log})
		list.AddContentChangeListener(ContentChangeFunc[int](func(c ContentChange[int]) {
			panic("listener failure")
		}))
		list.AddContentChangeListener(&recordingHandler{id: "c", log: &log})

		require.PanicsWithValue(t, "listener failure", func() {
			list.Append(2)
		})

		// the storage change already happened: only the after fan-out was cut short
		assert.Equal(t, []int{1, 2}, list.Values())
		assert.Equal(t, []string{"a"}, log)
	})

	t.Run("a listener mutating the list reenters the funnel synchronously", func(t *testing.T) {
		list := NewList(1)
		var lengths []int

		list.AddPropertyChangeListener(LengthKey, func(c PropertyChange) {
			lengths = append(lengths, c.Value.(int))
			if c.Value.(int) == 2 {
				list.Append(99)
			}
		})

		list.Append(2)

		assert.Equal(t, []int{2, 3}, lengths)
		assert.Equal(t, []int{1, 2, 99}, list.Values())
	})
}
