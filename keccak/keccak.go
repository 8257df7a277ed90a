// Package keccak computes Keccak-256 digests, the hash function used
// throughout the Ethereum state and storage tries.
package keccak

import "golang.org/x/crypto/sha3"

// Hash256 returns the Keccak-256 digest of data.
func Hash256(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// Hash256Slice is Hash256 returning a slice instead of an array, for callers
// that immediately need a []byte (e.g. to append or compare with bytes.Equal).
func Hash256Slice(data []byte) []byte {
	out := Hash256(data)
	return out[:]
}
