package relaylist

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostrcard/engine/library"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		tags  nostr.Tags
		read  []string
		write []string
	}{
		{name: "unmarked relay is read and write", tags: nostr.Tags{{"r", "a"}}, read: []string{"a"}, write: []string{"a"}},
		{name: "write marker", tags: nostr.Tags{{"r", "a", "write"}}, write: []string{"a"}},
		{name: "read marker", tags: nostr.Tags{{"r", "a", "read"}}, read: []string{"a"}},
		{name: "unknown marker is dropped", tags: nostr.Tags{{"r", "a", "bogus"}}},
		{name: "empty marker is dropped", tags: nostr.Tags{{"r", "a", ""}}},
		{name: "non r tag", tags: nostr.Tags{{"x", "a"}}},
		{name: "prefix of r is not r", tags: nostr.Tags{{"relay", "a"}}},
		{name: "short tag", tags: nostr.Tags{{"r"}}},
		{name: "empty tag", tags: nostr.Tags{{}}},
		{name: "no tags", tags: nil},
		{
			name: "mixed list",
			tags: nostr.Tags{
				{"r", "wss://both"},
				{"r", "wss://out", "write"},
				{"r", "wss://in", "read"},
				{"p", "deadbeef"},
				{"r", "wss://in", "read"},
				{"r", "wss://out", "read", "extra"},
			},
			read:  []string{"wss://both", "wss://in", "wss://out"},
			write: []string{"wss://both", "wss://out"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Classify(tt.tags)
			assert.ElementsMatch(t, tt.read, set.ReadList())
			assert.ElementsMatch(t, tt.write, set.WriteList())
		})
	}
}

func TestClassifyHasSetSemantics(t *testing.T) {
	set := Classify(nostr.Tags{{"r", "a"}, {"r", "a"}, {"r", "a", "write"}})
	assert.Equal(t, []string{"a"}, set.ReadList())
	assert.Equal(t, []string{"a"}, set.WriteList())
	assert.True(t, set.CanRead("a"))
	assert.True(t, set.CanWrite("a"))
	assert.False(t, set.CanRead("b"))
}

func TestClassifyIsRepeatable(t *testing.T) {
	tags := nostr.Tags{{"r", "b", "read"}, {"r", "a"}, {"r", "c", "write"}, {"r", "d", "nope"}}
	first := Classify(tags)
	for i := 0; i < 5; i++ {
		again := Classify(tags)
		assert.Equal(t, first.ReadList(), again.ReadList())
		assert.Equal(t, first.WriteList(), again.WriteList())
	}
	assert.Equal(t, nostr.Tags{{"r", "b", "read"}, {"r", "a"}, {"r", "c", "write"}, {"r", "d", "nope"}}, tags)
}

func TestParseRelayTag(t *testing.T) {
	assert.Equal(t, Unmarked{URL: "a"}, ParseRelayTag(nostr.Tag{"r", "a"}))
	assert.Equal(t, Marked{URL: "a", Capability: Write}, ParseRelayTag(nostr.Tag{"r", "a", "write"}))
	assert.Equal(t, Marked{URL: "a", Capability: Read}, ParseRelayTag(nostr.Tag{"r", "a", "read"}))
	assert.Equal(t, Unrecognized{}, ParseRelayTag(nostr.Tag{"r", "a", "READ"}))
	assert.Equal(t, Unrecognized{}, ParseRelayTag(nostr.Tag{"e", "a"}))
}

func TestFieldsListsBothRows(t *testing.T) {
	fields := Classify(nostr.Tags{{"r", "b"}, {"r", "a", "read"}}).Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "read", fields[0].Name)
	assert.Equal(t, library.ListValue([]string{"a", "b"}), fields[0].Value)
	assert.Equal(t, "write", fields[1].Name)
	assert.Equal(t, library.ListValue([]string{"b"}), fields[1].Value)
}

func TestHandleEventRejectsOtherKinds(t *testing.T) {
	_, err := HandleEvent(nostr.Event{ID: "x", Kind: 0, Tags: nostr.Tags{{"r", "a"}}})
	assert.ErrorIs(t, err, library.ErrMalformedRecord)

	set, err := HandleEvent(nostr.Event{ID: "y", Kind: 10002, Tags: nostr.Tags{{"r", "a"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, set.ReadList())
}
