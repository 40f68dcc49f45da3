package eventconductor

import (
	"github.com/nbd-wtf/go-nostr"

	"nostrcard/engine/library"
	"nostrcard/state/profile"
	"nostrcard/state/relaylist"
	"nostrcard/state/views"
)

// Handler derives a view from one event published by identity. An error means the event is
// dropped and the current view is kept.
type Handler func(identity library.Identity, event nostr.Event) (views.View, error)

func defaultHandlers() map[library.Kind]Handler {
	return map[library.Kind]Handler{
		library.KindProfile:   handleProfile,
		library.KindRelayList: handleRelayList,
	}
}

func handleProfile(identity library.Identity, event nostr.Event) (v views.View, e error) {
	fields, err := profile.HandleEvent(identity, event)
	if err != nil {
		return v, err
	}
	v.Profile = fields
	return v, nil
}

func handleRelayList(identity library.Identity, event nostr.Event) (v views.View, e error) {
	if event.PubKey != identity.Hex() {
		return v, wrongAuthor(identity, event)
	}
	set, err := relaylist.HandleEvent(event)
	if err != nil {
		return v, err
	}
	v.Relays = &set
	return v, nil
}
