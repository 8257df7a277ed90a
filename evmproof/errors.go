package evmproof

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountLeafArity is returned when a decoded account leaf's RLP list
	// does not have exactly 4 items (nonce, balance, storageRoot, codeHash).
	ErrAccountLeafArity = errors.New("evmproof: account leaf does not have 4 fields")
	// ErrStorageHashMismatch is returned by VerifyAccountAndStorage when the
	// account's recovered storage root doesn't match the claimed storageHash.
	ErrStorageHashMismatch = errors.New("evmproof: recovered storage root does not match claimed storage hash")
	// ErrEmptyReceiptSet is returned by BuildReceiptProof for an empty batch.
	ErrEmptyReceiptSet = errors.New("evmproof: cannot build a receipt proof with zero receipts")
	// ErrTargetIndexOutOfRange is returned when BuildReceiptProof's
	// targetIndex does not index into the supplied receipts.
	ErrTargetIndexOutOfRange = errors.New("evmproof: target index is out of range")
)

// AccountNotFoundError is returned by VerifyAccountProof when the account
// proof is a valid exclusion proof (the address does not exist in the
// state trie at stateRoot).
type AccountNotFoundError struct {
	Address [20]byte
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("evmproof: no account at address %x", e.Address)
}
