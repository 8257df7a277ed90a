// Package evmkey derives the raw key material EVM account and storage
// proofs are walked against.
//
// Per spec.md §4.5/§9, the canonical key field in an EvmProof is always the
// raw pre-image (a 20-byte address or a 32-byte storage slot); the verifier
// is responsible for Keccak-hashing it before walking the trie. Callers
// must never pre-hash a key themselves, or the proof walk double-hashes it
// and fails.
package evmkey

import (
	"github.com/ethereum/go-ethereum/common"

	"xchainproof/keccak"
)

// AccountKey returns the MPT key for addr: keccak(addr), unpacked to 64
// nibbles by the caller (mpt.VerifyProof does this internally).
func AccountKey(addr common.Address) [32]byte {
	return keccak.Hash256(addr.Bytes())
}

// StorageKey returns the MPT key for a storage slot within an account's
// storage trie: keccak(slot).
func StorageKey(slot common.Hash) [32]byte {
	return keccak.Hash256(slot.Bytes())
}
