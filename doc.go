// Package observable implements synchronous change observation for mutable
// ordered collections.
//
// A List decorates an ordered Storage with a listener registry: observers
// register to be notified immediately before and immediately after an
// individual element changes (property/index events), a keyed value changes
// (map events), or the structure of the collection changes (content events:
// insert, remove, reorder).
//
// Every structural mutation funnels through a single primitive, Splice, which
// replaces a contiguous range with a new sequence of values. Higher-level
// operations (Append, Prepend, RemoveFirst, RemoveLast, Set, RemoveAt, Clear)
// are defined purely in terms of Splice, so the dispatch logic is written
// exactly once: before-listeners all run before the storage changes,
// after-listeners all run after, in registration order, on the caller's
// stack. Listeners may themselves register or remove listeners, or mutate the
// list, while a dispatch is in progress.
//
// The package is single-threaded by contract: a list and its listeners must
// be used from one goroutine.
package observable
