package library

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

var (
	ErrMalformedRecord     = errors.New("malformed record")
	ErrTransportTerminated = errors.New("transport terminated")
)

// Identity is an x-only secp256k1 public key in lowercase hex.
type Identity string

// ParseIdentity accepts a 64 character hex key or an npub.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "npub1") {
		prefix, value, err := nip19.Decode(s)
		if err != nil {
			return "", fmt.Errorf("invalid npub: %w", err)
		}
		if prefix != "npub" {
			return "", fmt.Errorf("expected npub, got %s", prefix)
		}
		str, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("invalid npub payload")
		}
		s = str
	}
	s = strings.ToLower(s)
	if len(s) != 64 {
		return "", fmt.Errorf("public key must be 64 hex characters, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("invalid hex public key: %w", err)
	}
	if _, err = schnorr.ParsePubKey(b); err != nil {
		return "", fmt.Errorf("public key is not on the curve: %w", err)
	}
	return Identity(s), nil
}

func (i Identity) Hex() string {
	return string(i)
}

// Npub returns the NIP-19 form, or an empty string if the key cannot be encoded.
func (i Identity) Npub() string {
	npub, err := nip19.EncodePublicKey(string(i))
	if err != nil {
		LogCLI(fmt.Sprintf("could not encode %s as npub: %s", i, err), 2)
		return ""
	}
	return npub
}

// Kind is the nostr event kind a view is derived from.
type Kind int

const (
	KindProfile   Kind = 0
	KindRelayList Kind = 10002
)

func (k Kind) String() string {
	switch k {
	case KindProfile:
		return "profile"
	case KindRelayList:
		return "relay list"
	}
	return fmt.Sprintf("kind %d", int(k))
}

// Occurrence is one event delivered by one relay, or a signal from that relay.
// Err marks the end of the relay's contribution to the stream.
type Occurrence struct {
	Event *nostr.Event
	Relay string
	EOSE  bool
	Err   error
}

func (o Occurrence) IsEvent() bool {
	return o.Event != nil
}

type ValueType int

const (
	Text ValueType = iota
	Image
	List
)

type Value struct {
	Type  ValueType
	Text  string
	Items []string
}

func TextValue(s string) Value {
	return Value{Type: Text, Text: s}
}

func ImageValue(url string) Value {
	return Value{Type: Image, Text: url}
}

func ListValue(items []string) Value {
	return Value{Type: List, Items: items}
}

// Field is one row on a data card.
type Field struct {
	Name  string
	Value Value
}
