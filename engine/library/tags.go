package library

import (
	"github.com/nbd-wtf/go-nostr"
)

// TagElement returns the element at position i of tag, if it exists.
func TagElement(tag nostr.Tag, i int) (string, bool) {
	if i < 0 || i >= len(tag) {
		return "", false
	}
	return tag[i], true
}
