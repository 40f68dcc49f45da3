package views

import (
	"sync"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostrcard/engine/library"
	"nostrcard/state/relaylist"
)

const testIdentity = library.Identity("3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d")

var (
	profileKey = Key{Identity: testIdentity, Kind: library.KindProfile}
	relayKey   = Key{Identity: testIdentity, Kind: library.KindRelayList}
)

func receive(t *testing.T, sub *Subscription) View {
	t.Helper()
	select {
	case v, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	return View{}
}

func assertNothing(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case v := <-sub.Updates():
		t.Fatalf("unexpected update %s", v.EventID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestGetBeforeSet(t *testing.T) {
	s := NewStore()
	_, ok := s.Get(profileKey)
	assert.False(t, ok)
}

func TestSetReplacesView(t *testing.T) {
	s := NewStore()
	s.Set(profileKey, View{EventID: "a", CreatedAt: nostr.Timestamp(1)})
	s.Set(profileKey, View{EventID: "b", CreatedAt: nostr.Timestamp(2)})
	v, ok := s.Get(profileKey)
	require.True(t, ok)
	assert.Equal(t, "b", v.EventID)
	assert.Equal(t, profileKey, v.Key)
}

func TestSubscribeDeliversCurrentValue(t *testing.T) {
	s := NewStore()
	s.Set(profileKey, View{EventID: "a"})
	s.Set(profileKey, View{EventID: "b"})

	sub := s.Subscribe(profileKey)
	defer sub.Close()
	assert.Equal(t, "b", receive(t, sub).EventID)
	assertNothing(t, sub)
}

func TestSubscribeWithoutValueWaits(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe(profileKey)
	defer sub.Close()
	assertNothing(t, sub)

	s.Set(profileKey, View{EventID: "a"})
	assert.Equal(t, "a", receive(t, sub).EventID)
}

func TestUpdatesArriveInWriteOrder(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe(relayKey)
	defer sub.Close()

	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	for _, id := range ids {
		s.Set(relayKey, View{EventID: id})
	}
	for _, id := range ids {
		assert.Equal(t, id, receive(t, sub).EventID)
	}
}

func TestSubscribersOnlySeeTheirKey(t *testing.T) {
	s := NewStore()
	profileSub := s.Subscribe(profileKey)
	defer profileSub.Close()
	relaySub := s.Subscribe(relayKey)
	defer relaySub.Close()

	set := relaylist.Classify(nostr.Tags{{"r", "wss://a"}})
	s.Set(relayKey, View{EventID: "r", Relays: &set})
	v := receive(t, relaySub)
	assert.Equal(t, "r", v.EventID)
	assert.Equal(t, set.Fields(), v.Fields())
	assertNothing(t, profileSub)
}

func TestEverySubscriberReceivesUpdates(t *testing.T) {
	s := NewStore()
	a := s.Subscribe(profileKey)
	defer a.Close()
	b := s.Subscribe(profileKey)
	defer b.Close()

	s.Set(profileKey, View{EventID: "x"})
	assert.Equal(t, "x", receive(t, a).EventID)
	assert.Equal(t, "x", receive(t, b).EventID)
}

func TestCloseEndsUpdates(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe(profileKey)
	sub.Close()
	sub.Close()

	s.Set(profileKey, View{EventID: "a"})
	select {
	case _, ok := <-sub.Updates():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("updates channel not closed")
	}
}

func TestRemove(t *testing.T) {
	s := NewStore()
	s.Set(profileKey, View{EventID: "a"})
	s.Set(relayKey, View{EventID: "b"})
	s.Remove(profileKey)

	_, ok := s.Get(profileKey)
	assert.False(t, ok)
	assert.Equal(t, []Key{relayKey}, s.Keys())
}

func TestConcurrentWriters(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe(profileKey)
	defer sub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Set(profileKey, View{EventID: "w"})
				s.Get(profileKey)
			}
		}()
	}
	wg.Wait()
	for i := 0; i < 400; i++ {
		receive(t, sub)
	}
}

func TestReleaseRemovesAfterLastOwner(t *testing.T) {
	s := NewStore()
	s.Acquire(profileKey)
	s.Acquire(profileKey)
	s.Set(profileKey, View{EventID: "a"})

	assert.False(t, s.Release(profileKey))
	_, ok := s.Get(profileKey)
	assert.True(t, ok)

	assert.True(t, s.Release(profileKey))
	_, ok = s.Get(profileKey)
	assert.False(t, ok)
}

func TestReleaseWithoutOwnerRemoves(t *testing.T) {
	s := NewStore()
	s.Set(relayKey, View{EventID: "a"})
	assert.True(t, s.Release(relayKey))
	_, ok := s.Get(relayKey)
	assert.False(t, ok)
}
