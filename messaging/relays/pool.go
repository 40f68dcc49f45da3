package relays

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/slices"

	"nostrcard/engine/library"
)

// Pool keeps one connection per relay URL and fans a subscription out to every requested relay.
// Create one per process and pass it to whatever needs to subscribe.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	mu     deadlock.Mutex
	relays map[string]*nostr.Relay
}

func NewPool() *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		relays: make(map[string]*nostr.Relay),
	}
}

// Normalize normalizes relay URLs and drops empty and repeated ones, keeping the first occurrence.
func Normalize(urls []string) (n []string) {
	for _, u := range urls {
		u = nostr.NormalizeURL(u)
		if len(u) == 0 || slices.Contains(n, u) {
			continue
		}
		n = append(n, u)
	}
	return
}

// Subscribe sends filter to every relay in urls and merges what they return. Each relay ends its
// part of the stream with an Occurrence carrying Err; the channel is closed once all have ended or
// ctx is done. Events are forwarded as received, duplicates included.
func (p *Pool) Subscribe(ctx context.Context, urls []string, filter nostr.Filter) (<-chan library.Occurrence, error) {
	urls = Normalize(urls)
	if len(urls) == 0 {
		return nil, fmt.Errorf("no relays to subscribe to")
	}
	if p.ctx.Err() != nil {
		return nil, fmt.Errorf("relay pool is closed")
	}
	out := make(chan library.Occurrence)
	wait := &deadlock.WaitGroup{}
	for _, url := range urls {
		wait.Add(1)
		go func(url string) {
			defer wait.Done()
			p.subscribe(ctx, url, filter, out)
		}(url)
	}
	go func() {
		wait.Wait()
		close(out)
	}()
	return out, nil
}

func (p *Pool) subscribe(ctx context.Context, url string, filter nostr.Filter, out chan<- library.Occurrence) {
	send := func(occ library.Occurrence) bool {
		select {
		case out <- occ:
			return true
		case <-ctx.Done():
			return false
		}
	}
	relay, err := p.connect(url)
	if err != nil {
		send(library.Occurrence{Relay: url, Err: err})
		return
	}
	sub, err := relay.Subscribe(ctx, nostr.Filters{filter})
	if err != nil {
		p.evict(url, relay)
		send(library.Occurrence{Relay: url, Err: fmt.Errorf("could not subscribe: %w", err)})
		return
	}
	defer sub.Unsub()
	eose := sub.EndOfStoredEvents
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.ctx.Done():
			send(library.Occurrence{Relay: url, Err: library.ErrTransportTerminated})
			return
		case <-eose:
			eose = nil
			if !send(library.Occurrence{Relay: url, EOSE: true}) {
				return
			}
		case ev, ok := <-sub.Events:
			if !ok || ev == nil {
				p.evict(url, relay)
				send(library.Occurrence{Relay: url, Err: library.ErrTransportTerminated})
				return
			}
			if !send(library.Occurrence{Relay: url, Event: ev}) {
				return
			}
		}
	}
}

func (p *Pool) connect(url string) (*nostr.Relay, error) {
	p.mu.Lock()
	relay, ok := p.relays[url]
	p.mu.Unlock()
	if ok {
		return relay, nil
	}
	library.LogCLI("Connecting to "+url, 4)
	relay, err := nostr.RelayConnect(p.ctx, url)
	if err != nil {
		return nil, fmt.Errorf("could not connect to relay %s: %w", url, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.relays[url]; ok {
		go relay.Close()
		return existing, nil
	}
	p.relays[url] = relay
	return relay, nil
}

func (p *Pool) evict(url string, relay *nostr.Relay) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.relays[url] == relay {
		delete(p.relays, url)
		go relay.Close()
	}
}

// Close ends every subscription and disconnects from all relays.
func (p *Pool) Close() {
	p.cancel()
	p.mu.Lock()
	defer p.mu.Unlock()
	for url, relay := range p.relays {
		if err := relay.Close(); err != nil {
			library.LogCLI(fmt.Sprintf("closing %s: %s", url, err), 3)
		}
		delete(p.relays, url)
	}
}
