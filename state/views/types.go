package views

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"nostrcard/engine/library"
	"nostrcard/state/profile"
	"nostrcard/state/relaylist"
)

type Key struct {
	Identity library.Identity
	Kind     library.Kind
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Identity, k.Kind)
}

// View is derived from exactly one event. Only the payload matching Key.Kind is set.
type View struct {
	Key       Key
	EventID   string
	CreatedAt nostr.Timestamp
	Relay     string
	Profile   profile.Fields
	Relays    *relaylist.CapabilitySet
}

// Fields returns the rows to display for whichever payload the view carries.
func (v View) Fields() []library.Field {
	if v.Relays != nil {
		return v.Relays.Fields()
	}
	return v.Profile
}
