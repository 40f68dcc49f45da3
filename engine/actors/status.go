package actors

import (
	"sync"
)

var terminateChan = make(chan struct{})
var terminateOnce sync.Once

func GetTerminateChan() chan struct{} {
	return terminateChan
}

// Shutdown closes the terminate channel. It is safe to call more than once.
func Shutdown() {
	terminateOnce.Do(func() {
		close(terminateChan)
	})
}
