// Package busy tracks whether any remote operation is in flight.
package busy

import "sync"

type Indicator struct {
	mu       sync.Mutex
	inFlight int
}

// Begin marks one operation as started. The returned func ends it and is
// safe to call more than once.
func (i *Indicator) Begin() (done func()) {
	i.mu.Lock()
	i.inFlight++
	i.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			i.mu.Lock()
			i.inFlight--
			i.mu.Unlock()
		})
	}
}

func (i *Indicator) Busy() bool {
	return i.InFlight() > 0
}

func (i *Indicator) InFlight() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.inFlight
}
