// Package ics23key builds and serializes the store keys this module queries
// Cosmos-SDK chains with: a module prefix ("bank", "wasm") plus a raw,
// hex-encoded key, serialized with a 3-digit length-prefixed prefix so the
// boundary between prefix and key round-trips unambiguously.
//
// Grounded on original_source/domains/ics23-cosmos/src/keys.rs's Ics23Key.
package ics23key

import (
	"errors"
	"fmt"
)

var (
	// ErrEncodedTooShort is returned by Parse when the input is shorter than
	// the mandatory 3-digit length prefix.
	ErrEncodedTooShort = errors.New("ics23key: encoded key shorter than the 3-digit prefix length field")
	// ErrPrefixLengthNotDigits is returned when the first 3 bytes are not
	// all ASCII digits.
	ErrPrefixLengthNotDigits = errors.New("ics23key: first 3 bytes of encoded key are not ASCII digits")
	// ErrPrefixOverflow is returned when prefix_len claims more bytes than
	// the input has left after the length field.
	ErrPrefixOverflow = errors.New("ics23key: prefix length overshoots the encoded key")
)

// Key is a Cosmos-SDK store key: a module prefix (e.g. "bank", "wasm") and a
// hex-encoded raw key. PrefixLen is carried explicitly (rather than derived
// from len(Prefix)) because it's part of the wire format Parse must
// reconstruct byte-for-byte.
type Key struct {
	Prefix    string
	PrefixLen int
	Key       string
}

// String serializes k as "{prefix_len:03d}{prefix}{key}", matching
// Ics23Key's Display impl exactly.
func (k Key) String() string {
	return fmt.Sprintf("%03d%s%s", k.PrefixLen, k.Prefix, k.Key)
}

// Parse is the inverse of String.
func Parse(encoded string) (Key, error) {
	if len(encoded) < 3 {
		return Key{}, ErrEncodedTooShort
	}
	prefixLen, err := parseDigits(encoded[:3])
	if err != nil {
		return Key{}, err
	}
	if 3+prefixLen > len(encoded) {
		return Key{}, ErrPrefixOverflow
	}
	return Key{
		Prefix:    encoded[3 : 3+prefixLen],
		PrefixLen: prefixLen,
		Key:       encoded[3+prefixLen:],
	}, nil
}

func parseDigits(s string) (int, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, ErrPrefixLengthNotDigits
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
