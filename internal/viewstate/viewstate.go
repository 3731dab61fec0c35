// Package viewstate guards against stale view loads: when the subject of
// the current view changes before an earlier load completes, the earlier
// result must be discarded on arrival. Publication compares the
// originating subject at resolution time, not load start order.
package viewstate

import "sync"

type View[T any] struct {
	mu      sync.Mutex
	subject string
	gen     uint64
	value   *T
}

// Begin marks subject as the current view target and returns the token
// the eventual Publish must present.
func (v *View[T]) Begin(subject string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.subject = subject
	v.gen++
	return v.gen
}

// Publish installs value if it originates from the current subject and
// load generation. It reports whether the value was accepted; a false
// return means the result arrived stale and was discarded.
func (v *View[T]) Publish(subject string, token uint64, value T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if subject != v.subject || token != v.gen {
		return false
	}
	v.value = &value
	return true
}

// Current returns the active subject and the most recently published
// value. The value is nil until the first publish; after a subject change
// the previous view keeps being served until a fresh result lands.
func (v *View[T]) Current() (string, *T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.subject, v.value
}
