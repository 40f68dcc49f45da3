package library

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/fiatjaf/go-lnurl"
)

// Lud16ToUrl maps a lightning address to its LNURL-pay endpoint.
func Lud16ToUrl(address string) (string, error) {
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return "", fmt.Errorf("invalid lightning address: %w", err)
	}
	split := strings.Split(strings.Trim(addr.Address, "<>"), "@")
	if len(split) != 2 || len(split[0]) == 0 || len(split[1]) == 0 {
		return "", fmt.Errorf("invalid lightning address")
	}
	return "https://" + split[1] + "/.well-known/lnurlp/" + split[0], nil
}

// Lud16ToLud06 encodes the LNURL-pay endpoint of a lightning address as a bech32 lnurl.
func Lud16ToLud06(lud16 string) (string, bool) {
	url, err := Lud16ToUrl(lud16)
	if err != nil {
		LogCLI(err, 3)
		return "", false
	}
	encoded, err := lnurl.Encode(url)
	if err != nil {
		LogCLI(err, 2)
		return "", false
	}
	return encoded, len(encoded) > 0
}

// DecodeLud06 returns the URL behind a bech32 lnurl.
func DecodeLud06(lud06 string) (string, bool) {
	decoded, err := lnurl.LNURLDecode(lud06)
	if err != nil {
		LogCLI(err, 3)
		return "", false
	}
	return decoded, true
}
