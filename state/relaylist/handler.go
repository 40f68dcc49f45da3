package relaylist

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"nostrcard/engine/library"
)

// ParseRelayTag turns one raw tag into a RelayTag without interpreting it further.
func ParseRelayTag(tag nostr.Tag) RelayTag {
	if len(tag) < 2 || tag[0] != "r" {
		return Unrecognized{}
	}
	url, _ := library.TagElement(tag, 1)
	marker, ok := library.TagElement(tag, 2)
	if !ok {
		return Unmarked{URL: url}
	}
	switch marker {
	case "write":
		return Marked{URL: url, Capability: Write}
	case "read":
		return Marked{URL: url, Capability: Read}
	}
	return Unrecognized{}
}

// Classify folds the tags of a relay list event into read and write sets.
func Classify(tags nostr.Tags) CapabilitySet {
	set := NewCapabilitySet()
	for _, tag := range tags {
		switch t := ParseRelayTag(tag).(type) {
		case Unmarked:
			set.Read[t.URL] = struct{}{}
			set.Write[t.URL] = struct{}{}
		case Marked:
			if t.Capability == Write {
				set.Write[t.URL] = struct{}{}
			} else {
				set.Read[t.URL] = struct{}{}
			}
		}
	}
	return set
}

func HandleEvent(event nostr.Event) (CapabilitySet, error) {
	if library.Kind(event.Kind) != library.KindRelayList {
		return CapabilitySet{}, fmt.Errorf("%w: event %s has kind %d, expected %d", library.ErrMalformedRecord, event.ID, event.Kind, library.KindRelayList)
	}
	return Classify(event.Tags), nil
}
