package relaylist

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"nostrcard/engine/library"
)

type Capability int

const (
	Read Capability = iota
	Write
)

func (c Capability) String() string {
	if c == Write {
		return "write"
	}
	return "read"
}

// RelayTag is the parsed form of one tag of a relay list event.
type RelayTag interface {
	relayTag()
}

// Unmarked is ["r", url]: the relay is used for both reading and writing.
type Unmarked struct {
	URL string
}

// Marked is ["r", url, "read"|"write", ...].
type Marked struct {
	URL        string
	Capability Capability
}

// Unrecognized covers every tag that assigns no capability.
type Unrecognized struct{}

func (Unmarked) relayTag()     {}
func (Marked) relayTag()       {}
func (Unrecognized) relayTag() {}

// CapabilitySet is the classified content of one relay list event. A URL may be in both sets.
type CapabilitySet struct {
	Read  map[string]struct{}
	Write map[string]struct{}
}

func NewCapabilitySet() CapabilitySet {
	return CapabilitySet{
		Read:  make(map[string]struct{}),
		Write: make(map[string]struct{}),
	}
}

func (c CapabilitySet) ReadList() []string {
	return sorted(c.Read)
}

func (c CapabilitySet) WriteList() []string {
	return sorted(c.Write)
}

func (c CapabilitySet) CanRead(url string) bool {
	_, ok := c.Read[url]
	return ok
}

func (c CapabilitySet) CanWrite(url string) bool {
	_, ok := c.Write[url]
	return ok
}

// Fields renders the set as the rows of the relay card.
func (c CapabilitySet) Fields() []library.Field {
	return []library.Field{
		{Name: "read", Value: library.ListValue(c.ReadList())},
		{Name: "write", Value: library.ListValue(c.WriteList())},
	}
}

func sorted(m map[string]struct{}) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
