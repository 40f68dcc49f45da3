package library

import (
	"fmt"
	"time"

	"github.com/sasha-s/go-deadlock"
)

var reportStall = func(label string, after time.Duration) {
	LogCLI(fmt.Sprintf("%s has not finished after %s", label, after), 1)
}

// ValidateSaneExecutionTime arms a watchdog around a unit of work that must never stall, such as
// applying one occurrence. If the returned func is not called within deadlock.Opts.DeadlockTimeout
// the label is logged and go-deadlock reports the stuck goroutine.
func ValidateSaneExecutionTime(label string) func() {
	return saneExecution(label, deadlock.Opts.DeadlockTimeout)
}

func saneExecution(label string, timeout time.Duration) func() {
	mu := deadlock.Mutex{}
	mu.Lock()
	go func() {
		mu.Lock()
		mu.Unlock()
	}()
	var timer *time.Timer
	if timeout > 0 {
		timer = time.AfterFunc(timeout, func() { reportStall(label, timeout) })
	}
	return func() {
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}
}
