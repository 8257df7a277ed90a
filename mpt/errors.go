package mpt

import (
	"errors"
	"fmt"
)

// Structural decode errors (spec.md §7 "Structural errors").
var (
	ErrBranchValueNotEmpty   = errors.New("mpt: branch node value slot is not empty")
	ErrUnrecognizedFlag      = errors.New("mpt: hex-prefix path byte has an unrecognized flag")
	ErrUnexpectedArity       = errors.New("mpt: node list has an unexpected number of items")
	ErrNodeRefTooLong        = errors.New("mpt: node reference exceeds 33 bytes")
	ErrTrieNodeKeyEmpty      = errors.New("mpt: trie node key is empty")
	ErrUnexpectedEmptyRoot   = errors.New("mpt: unexpected empty root node")
	ErrUnexpectedInlineChild = errors.New("mpt: inline extension child is not a branch node")

	// ErrBranchValueUnsupported is returned by Trie.Insert when two keys
	// would force a non-empty branch value slot (one key is a strict
	// prefix of the other). Ethereum tries never need this: account and
	// storage keys are always fixed-length Keccak-256 digests, and the
	// spec invariant (§9 "open question 2") closes branch values shut.
	ErrBranchValueUnsupported = errors.New("mpt: key is a strict prefix of another key, which would require a non-empty branch value")

	// ErrNoRetainedPath is returned by HashBuilder.TakeProof when Retain
	// was never called.
	ErrNoRetainedPath = errors.New("mpt: no path was retained")
)

// RootMismatchError reports that an empty proof was supplied for a root
// other than EmptyRootHash. A proof node whose computed reference differs
// from the one the walk expected is reported as a ValueMismatchError.
type RootMismatchError struct {
	Got, Expected [32]byte
}

func (e *RootMismatchError) Error() string {
	return fmt.Sprintf("mpt: root mismatch: got %x, expected %x", e.Got, e.Expected)
}

// ValueMismatchError reports that the proof, once fully walked, produced a
// value (or node reference, mid-walk) different from what was expected.
type ValueMismatchError struct {
	Path          Nibbles
	Got, Expected []byte
}

func (e *ValueMismatchError) Error() string {
	return fmt.Sprintf("mpt: value mismatch at path %x: got %x, expected %x", []byte(e.Path), e.Got, e.Expected)
}
