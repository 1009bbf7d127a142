//go:build darwin

package eventcatcher

import (
	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
)

// sleeper signals listen every time the machine goes to sleep. Relay
// connections do not survive it.
func sleeper(listen chan bool) {
	sleepNotifier := notifier.GetInstance().Start()
	go func() {
		for activity := range sleepNotifier {
			if activity.Type != notifier.Sleep {
				continue
			}
			select {
			case listen <- true:
			default:
			}
		}
	}()
}
