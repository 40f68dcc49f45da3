//go:build darwin

package main

import (
	"github.com/prashantgupta24/mac-sleep-notifier/notifier"

	"nostrcard/engine/library"
)

// sleeper calls onSleep when the machine goes to sleep, relay connections do not survive it.
func sleeper(onSleep func()) {
	sleepNotifier := notifier.GetInstance().Start()
	go func() {
		for activity := range sleepNotifier {
			if activity.Type == notifier.Sleep {
				library.LogCLI("system sleep detected, terminating application", 2)
				onSleep()
				return
			}
		}
	}()
}
