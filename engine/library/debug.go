package library

import (
	"github.com/sasha-s/go-deadlock"
)

// ValidateSaneExecutionTime arms a deadlock detector around a blocking call.
// Call the returned func when the call has finished.
func ValidateSaneExecutionTime() func() {
	mu := deadlock.Mutex{}
	mu.Lock()
	go func() {
		mu.Lock()
		mu.Unlock()
	}()
	return func() {
		mu.Unlock()
	}
}
