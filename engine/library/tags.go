package library

import (
	"github.com/nbd-wtf/go-nostr"
)

func GetFirstTag(e nostr.Event, startsWith string) (string, bool) {
	for _, tag := range e.Tags {
		if tag.StartsWith([]string{startsWith}) {
			return tag.Value(), true
		}
	}
	return "", false
}

// GetReplayTag returns the event ID an operation claims to follow in its author's chain.
func GetReplayTag(e nostr.Event) (Sha256, bool) {
	r, ok := GetFirstTag(e, "r")
	if !ok || len(r) != 64 {
		return "", false
	}
	return r, true
}
