package actors

import (
	"sync"

	"github.com/sasha-s/go-deadlock"
)

var terminateChan chan struct{}
var waitGroup = &sync.WaitGroup{}
var shutdownOnce = &deadlock.Mutex{}
var shutdown bool

func SetTerminateChan(term chan struct{}) {
	terminateChan = term
}

// GetWaitGroup tracks goroutines that must finish before the process exits.
func GetWaitGroup() *sync.WaitGroup {
	return waitGroup
}

// Shutdown closes the terminate channel once and waits for every tracked goroutine.
func Shutdown() {
	shutdownOnce.Lock()
	if !shutdown {
		shutdown = true
		close(terminateChan)
	}
	shutdownOnce.Unlock()
	waitGroup.Wait()
}
