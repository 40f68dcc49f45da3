package eventconductor

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"nostrcard/engine/library"
	"nostrcard/state/views"
)

// Transport opens a subscription on a set of relays. The returned channel is closed once every
// relay has stopped contributing to it or ctx is done.
type Transport interface {
	Subscribe(ctx context.Context, relays []string, filter nostr.Filter) (<-chan library.Occurrence, error)
}

type Options struct {
	Relays []string
	// Limit is passed to the relays in the filter. Zero means no limit.
	Limit int
	// MonotonicAdmission drops events older than the view they would replace. When false the
	// latest received event always wins, even if it was created earlier.
	MonotonicAdmission bool
}

// Aggregator folds the occurrences of one (identity, kind) subscription into the store.
// Every accepted event replaces the whole view; nothing is merged across events or relays.
type Aggregator struct {
	transport Transport
	store     *views.Store
	options   Options
	handlers  map[library.Kind]Handler
}

func New(transport Transport, store *views.Store, options Options) *Aggregator {
	return &Aggregator{
		transport: transport,
		store:     store,
		options:   options,
		handlers:  defaultHandlers(),
	}
}

// Handle registers the handler for kind, replacing any existing one. It must not be called while
// Run is in progress.
func (a *Aggregator) Handle(kind library.Kind, handler Handler) {
	a.handlers[kind] = handler
}

func (a *Aggregator) Store() *views.Store {
	return a.store
}

func (a *Aggregator) Filter(identity library.Identity, kind library.Kind) nostr.Filter {
	return nostr.Filter{
		Kinds:   []int{int(kind)},
		Authors: []string{identity.Hex()},
		Limit:   a.options.Limit,
	}
}

// Run subscribes to kind events of identity and publishes a view for each accepted one. It returns
// nil when the transport closes the stream and ctx.Err() when ctx is cancelled. It never retries.
func (a *Aggregator) Run(ctx context.Context, identity library.Identity, kind library.Kind) error {
	handler, ok := a.handlers[kind]
	if !ok {
		return fmt.Errorf("no handler for %s", kind)
	}
	occurrences, err := a.transport.Subscribe(ctx, a.options.Relays, a.Filter(identity, kind))
	if err != nil {
		return fmt.Errorf("%w: %s", library.ErrTransportTerminated, err)
	}
	key := views.Key{Identity: identity, Kind: kind}
	var latest nostr.Timestamp
	var accepted bool
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case occ, ok := <-occurrences:
			if !ok {
				library.LogCLI(fmt.Sprintf("%s: %s", key, library.ErrTransportTerminated), 3)
				return nil
			}
			v, ok := a.apply(key, handler, occ, latest, accepted)
			if ok {
				latest = v.CreatedAt
				accepted = true
			}
		}
	}
}

func (a *Aggregator) apply(key views.Key, handler Handler, occ library.Occurrence, latest nostr.Timestamp, accepted bool) (v views.View, ok bool) {
	switch {
	case occ.Err != nil:
		library.LogCLI(fmt.Sprintf("%s: relay %s ended: %s", key, occ.Relay, occ.Err), 2)
		return
	case occ.EOSE:
		library.LogCLI(fmt.Sprintf("%s: end of stored events from %s", key, occ.Relay), 3)
		return
	case !occ.IsEvent():
		return
	}
	event := *occ.Event
	if library.Kind(event.Kind) != key.Kind {
		library.LogCLI(fmt.Sprintf("%s: dropping event %s of kind %d from %s", key, event.ID, event.Kind, occ.Relay), 3)
		return
	}
	if a.options.MonotonicAdmission && accepted && event.CreatedAt < latest {
		library.LogCLI(fmt.Sprintf("%s: dropping event %s from %s, older than current view", key, event.ID, occ.Relay), 3)
		return
	}
	sane := library.ValidateSaneExecutionTime(fmt.Sprintf("projecting event %s for %s", event.ID, key))
	v, err := handler(key.Identity, event)
	sane()
	if err != nil {
		library.LogCLI(fmt.Sprintf("%s: dropping event from %s: %s", key, occ.Relay, err), 3)
		return v, false
	}
	v.EventID = event.ID
	v.CreatedAt = event.CreatedAt
	v.Relay = occ.Relay
	a.store.Set(key, v)
	return v, true
}

func wrongAuthor(identity library.Identity, event nostr.Event) error {
	return fmt.Errorf("%w: event %s was published by %s, not %s", library.ErrMalformedRecord, event.ID, event.PubKey, identity)
}
