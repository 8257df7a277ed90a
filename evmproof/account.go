// Package evmproof verifies Ethereum account and storage Merkle proofs
// returned by eth_getProof, and builds receipt Merkle proofs for a single
// block's receipts — the EvmProofVerifier of spec.md §4.6.
package evmproof

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"xchainproof/evmkey"
	"xchainproof/mpt"
	"xchainproof/rlp"
)

// AccountResult is the decoded account leaf recovered by VerifyAccountProof.
type AccountResult struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot common.Hash
	CodeHash    common.Hash
}

// StorageResult is the decoded storage value recovered by
// VerifyStorageProof. Present is false for a verified exclusion proof.
type StorageResult struct {
	Value   *big.Int
	Present bool
}

// VerifyAccountProof verifies proofNodes against stateRoot for address,
// walking the state trie with the Keccak-hashed address as key (spec §4.5),
// and decodes the recovered account leaf.
//
// If address is proven absent from the trie, it returns
// *AccountNotFoundError.
func VerifyAccountProof(stateRoot common.Hash, address common.Address, proofNodes [][]byte) (*AccountResult, error) {
	key := evmkey.AccountKey(address)

	leaf, err := walkToLeafValue(stateRoot, key[:], proofNodes)
	if err != nil {
		return nil, err
	}
	if leaf == nil {
		return nil, &AccountNotFoundError{Address: address}
	}

	items, err := rlp.DecodeExactList(leaf)
	if err != nil {
		return nil, err
	}
	if len(items) != 4 {
		return nil, ErrAccountLeafArity
	}

	nonce, err := decodeUint64Field(items[0])
	if err != nil {
		return nil, err
	}
	balance, err := decodeBigIntField(items[1])
	if err != nil {
		return nil, err
	}
	storageRoot, err := decodeHashField(items[2])
	if err != nil {
		return nil, err
	}
	codeHash, err := decodeHashField(items[3])
	if err != nil {
		return nil, err
	}

	return &AccountResult{
		Nonce:       nonce,
		Balance:     balance,
		StorageRoot: storageRoot,
		CodeHash:    codeHash,
	}, nil
}

// VerifyStorageProof verifies proofNodes against storageRoot for slot,
// walking the storage trie with the Keccak-hashed slot as key.
func VerifyStorageProof(storageRoot common.Hash, slot common.Hash, proofNodes [][]byte) (*StorageResult, error) {
	key := evmkey.StorageKey(slot)

	leaf, err := walkToLeafValue(storageRoot, key[:], proofNodes)
	if err != nil {
		return nil, err
	}
	if leaf == nil {
		return &StorageResult{Value: big.NewInt(0), Present: false}, nil
	}

	raw, err := rlp.DecodeExactBytes(leaf)
	if err != nil {
		return nil, err
	}
	return &StorageResult{Value: new(big.Int).SetBytes(raw), Present: true}, nil
}

// VerifyAccountAndStorage is the binding composition of spec §4.6: it
// verifies the account proof, asserts the recovered storage root equals the
// account's claimed storageHash, and then verifies the storage proof
// against that same root. This prevents a caller from pairing a genuine
// account proof with a storage proof rooted in an unrelated trie.
func VerifyAccountAndStorage(
	stateRoot common.Hash,
	address common.Address,
	accountProof [][]byte,
	claimedStorageHash common.Hash,
	slot common.Hash,
	storageProof [][]byte,
) (*AccountResult, *StorageResult, error) {
	account, err := VerifyAccountProof(stateRoot, address, accountProof)
	if err != nil {
		return nil, nil, err
	}
	if account.StorageRoot != claimedStorageHash {
		return account, nil, ErrStorageHashMismatch
	}
	storage, err := VerifyStorageProof(claimedStorageHash, slot, storageProof)
	if err != nil {
		return account, nil, err
	}
	return account, storage, nil
}

// walkToLeafValue verifies the proof walks to some value at key under root
// without asserting what that value is, returning the raw leaf bytes (nil
// for a verified exclusion proof).
func walkToLeafValue(root common.Hash, key []byte, proofNodes [][]byte) ([]byte, error) {
	return mpt.WalkProof(root, key, proofNodes)
}

func decodeUint64Field(encoded []byte) (uint64, error) {
	raw, err := rlp.DecodeExactBytes(encoded)
	if err != nil {
		return 0, err
	}
	return new(big.Int).SetBytes(raw).Uint64(), nil
}

func decodeBigIntField(encoded []byte) (*big.Int, error) {
	raw, err := rlp.DecodeExactBytes(encoded)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func decodeHashField(encoded []byte) (common.Hash, error) {
	raw, err := rlp.DecodeExactBytes(encoded)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(raw), nil
}
