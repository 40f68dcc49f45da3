package profile

import (
	"encoding/json"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"nostrcard/engine/library"
)

const (
	FieldHex  = "hex public key"
	FieldNpub = "npub"
)

// Decode parses the JSON content of a kind 0 event. Keys are matched exactly; "NAME" is not "name".
func Decode(content string) (m Metadata, e error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Metadata{}, fmt.Errorf("%w: %s", library.ErrMalformedRecord, err)
	}
	for key, dst := range map[string]**string{
		"name":         &m.Name,
		"picture":      &m.Picture,
		"about":        &m.About,
		"banner":       &m.Banner,
		"website":      &m.Website,
		"display_name": &m.DisplayName,
		"displayName":  &m.DisplayNameLegacy,
		"nip05":        &m.Nip05,
		"lud16":        &m.Lud16,
		"lud06":        &m.Lud06,
	} {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return Metadata{}, fmt.Errorf("%w: field %s: %s", library.ErrMalformedRecord, key, err)
		}
	}
	return m, nil
}

// Project renders the identity and every present metadata field in canonical order.
func Project(identity library.Identity, m Metadata) Fields {
	f := Fields{
		{Name: FieldHex, Value: library.TextValue(identity.Hex())},
		{Name: FieldNpub, Value: library.TextValue(identity.Npub())},
	}
	displayName := m.DisplayName
	if displayName == nil {
		displayName = m.DisplayNameLegacy
	}
	for _, field := range []struct {
		name  string
		value *string
		image bool
	}{
		{name: "name", value: m.Name},
		{name: "picture", value: m.Picture, image: true},
		{name: "about", value: m.About},
		{name: "banner", value: m.Banner, image: true},
		{name: "website", value: m.Website},
		{name: "display_name", value: displayName},
		{name: "nip05", value: m.Nip05},
		{name: "lud16", value: m.Lud16},
		{name: "lud06", value: m.Lud06},
	} {
		if field.value == nil {
			continue
		}
		v := library.TextValue(*field.value)
		if field.image {
			v = library.ImageValue(*field.value)
		}
		f = append(f, library.Field{Name: field.name, Value: v})
	}
	return f
}

// HandleEvent projects a kind 0 event published by identity.
func HandleEvent(identity library.Identity, event nostr.Event) (Fields, error) {
	if library.Kind(event.Kind) != library.KindProfile {
		return nil, fmt.Errorf("%w: event %s has kind %d, expected %d", library.ErrMalformedRecord, event.ID, event.Kind, library.KindProfile)
	}
	if event.PubKey != identity.Hex() {
		return nil, fmt.Errorf("%w: event %s was published by %s, not %s", library.ErrMalformedRecord, event.ID, event.PubKey, identity)
	}
	m, err := Decode(event.Content)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", event.ID, err)
	}
	return Project(identity, m), nil
}
