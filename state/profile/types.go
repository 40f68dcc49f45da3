package profile

import (
	"nostrcard/engine/library"
)

// Metadata is the content of a kind 0 event. A nil field was absent or null in the record.
type Metadata struct {
	Name              *string `json:"name"`
	Picture           *string `json:"picture"`
	About             *string `json:"about"`
	Banner            *string `json:"banner"`
	Website           *string `json:"website"`
	DisplayName       *string `json:"display_name"`
	DisplayNameLegacy *string `json:"displayName"`
	Nip05             *string `json:"nip05"`
	Lud16             *string `json:"lud16"`
	Lud06             *string `json:"lud06"`
}

// Fields is the ordered list of rows shown on the account card.
type Fields []library.Field

// Get returns the first field with the given name.
func (f Fields) Get(name string) (library.Value, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return library.Value{}, false
}

func (f Fields) Names() (names []string) {
	for _, field := range f {
		names = append(names, field.Name)
	}
	return
}
