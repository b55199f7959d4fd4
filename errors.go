package observable

import "errors"

var (
	// ErrListenerNotFound is the value passed to panic when a removal targets
	// a listener/phase combination that was never registered, or that was
	// already removed. Removal is not tolerant of stale handles: a failing
	// removal signals a bug in the caller's subscription lifecycle.
	ErrListenerNotFound = errors.New("no matching listener registration")

	ErrIndexOutOfRange          = errors.New("index out of range")
	ErrInsertionIndexOutOfRange = errors.New("insertion index out of range")
)
