// Package ics23proof verifies two-stage ICS23 existence proofs against a
// Cosmos-SDK app hash — the Ics23Verify of spec.md §4.8.
//
// Grounded on original_source/domains/ics23-cosmos/src/merkle_lib/types.rs's
// MerkleVerifiable impl for Ics23MerkleProof and helpers.rs's
// convert_tm_to_ics_merkle_proof.
package ics23proof

import (
	"encoding/hex"
	"errors"
	"fmt"

	tmcrypto "github.com/cometbft/cometbft/proto/tendermint/crypto"
	ics23 "github.com/cosmos/ics23/go"
	"google.golang.org/protobuf/proto"

	"xchainproof/ics23key"
	"xchainproof/merkle"
)

var (
	// ErrWrongOpCount is returned when the supplied ProofOps doesn't carry
	// exactly 2 ops: the inner IAVL proof and the outer SimpleMap proof.
	ErrWrongOpCount = errors.New("ics23proof: expected exactly 2 proof ops (inner IAVL, outer SimpleMap)")
	// ErrNotExistenceProof is returned when a decoded CommitmentProof is not
	// the Exist variant — this module only verifies membership, never
	// non-membership.
	ErrNotExistenceProof = errors.New("ics23proof: commitment proof is not an existence proof")
	// ErrInvalidInnerProof is returned when stage A (IAVL) verification fails.
	ErrInvalidInnerProof = errors.New("ics23proof: inner IAVL membership proof is invalid")
	// ErrInvalidOuterProof is returned when stage B (SimpleMap) verification fails.
	ErrInvalidOuterProof = errors.New("ics23proof: outer SimpleMap membership proof is invalid")
)

// Proof is an ICS23 Merkle proof for a single Cosmos-SDK store key: the two
// Tendermint proof ops (inner IAVL, outer SimpleMap), the key that was
// queried, and its claimed value.
type Proof struct {
	Ops   [2]*tmcrypto.ProofOp
	Key   ics23key.Key
	Value []byte
}

// Verify runs the two-stage IAVL-then-SimpleMap verification of spec.md
// §4.8 against the trusted appHash, returning the aggregated ProofOutput on
// success.
func (p *Proof) Verify(appHash []byte) (*merkle.ProofOutput, error) {
	innerCommitment, err := decodeCommitmentProof(p.Ops[0])
	if err != nil {
		return nil, fmt.Errorf("ics23proof: decode inner proof: %w", err)
	}
	outerCommitment, err := decodeCommitmentProof(p.Ops[1])
	if err != nil {
		return nil, fmt.Errorf("ics23proof: decode outer proof: %w", err)
	}

	innerExistence := innerCommitment.GetExist()
	if innerExistence == nil {
		return nil, ErrNotExistenceProof
	}

	innerRoot, err := ics23.CalculateExistenceRoot(innerExistence)
	if err != nil {
		return nil, fmt.Errorf("ics23proof: calculate inner root: %w", err)
	}

	rawKey, err := hex.DecodeString(p.Key.Key)
	if err != nil {
		return nil, fmt.Errorf("ics23proof: decode hex key: %w", err)
	}

	if !ics23.VerifyMembership(ics23.IavlSpec, innerRoot, innerCommitment, rawKey, p.Value) {
		return nil, ErrInvalidInnerProof
	}

	if !ics23.VerifyMembership(ics23.TendermintSpec, appHash, outerCommitment, []byte(p.Key.Prefix), innerRoot) {
		return nil, ErrInvalidOuterProof
	}

	return &merkle.ProofOutput{
		Root:   append([]byte{}, appHash...),
		Key:    []byte(p.Key.String()),
		Value:  append([]byte{}, p.Value...),
		Domain: merkle.DomainCosmos,
	}, nil
}

func decodeCommitmentProof(op *tmcrypto.ProofOp) (*ics23.CommitmentProof, error) {
	if op == nil {
		return nil, ErrWrongOpCount
	}
	var commitment ics23.CommitmentProof
	if err := proto.Unmarshal(op.Data, &commitment); err != nil {
		return nil, err
	}
	return &commitment, nil
}

// FromProofOps builds a Proof from the raw ProofOps a tendermintrpc query
// returns, requiring exactly 2 ops (spec.md §4.8).
func FromProofOps(ops *tmcrypto.ProofOps, key ics23key.Key, value []byte) (*Proof, error) {
	if ops == nil || len(ops.Ops) != 2 {
		return nil, ErrWrongOpCount
	}
	return &Proof{
		Ops:   [2]*tmcrypto.ProofOp{&ops.Ops[0], &ops.Ops[1]},
		Key:   key,
		Value: value,
	}, nil
}
