//go:build !darwin

package eventcatcher

// sleeper has nothing to watch outside darwin.
func sleeper(chan bool) {}
