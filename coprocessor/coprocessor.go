// Package coprocessor is the single entry point of spec.md §4.10: it
// verifies a batch of EVM and Cosmos proofs against their trusted roots
// and aggregates the verified (key, value) pairs into one coprocessor
// Merkle-Patricia trie whose root commits to the whole cross-chain bundle.
//
// Grounded on original_source/verifier/src/lib.rs's verify_merkle_proof
// entry point and original_source/coprocessor/src/lib.rs's
// build_coprocessor_trie.
package coprocessor

import (
	"fmt"

	tmcrypto "github.com/cometbft/cometbft/proto/tendermint/crypto"

	"xchainproof/ics23key"
	"xchainproof/ics23proof"
	"xchainproof/keccak"
	"xchainproof/merkle"
	"xchainproof/mpt"
)

// Proof is the sum type spec.md §9's "Sum types over dynamic dispatch"
// design note asks for in place of a verifier interface implemented
// separately by EVM and Cosmos types: exactly two implementations (the
// interface's method is unexported, so no other package can add one),
// matched exhaustively by VerifyProof's type switch.
type Proof interface {
	verifyAgainst(root []byte) (*merkle.ProofOutput, error)
}

// EVMProof is a single EVM account or storage leaf proof: the RLP-encoded
// proof nodes root-to-leaf, the raw (un-hashed) key pre-image, and the
// claimed leaf value. Per spec.md §9's keccak-hashing note, Key is always
// the pre-image; verifyAgainst hashes it internally, so the walked trie
// must be keyed by keccak(Key). The receipts trie built by
// evmproof.BuildReceiptProof is keyed by the unhashed RLP index and does
// not verify through EVMProof.
type EVMProof struct {
	ProofNodes [][]byte
	Key        []byte
	Value      []byte
}

func (p *EVMProof) verifyAgainst(root []byte) (*merkle.ProofOutput, error) {
	if len(root) != 32 {
		return nil, fmt.Errorf("coprocessor: evm root must be 32 bytes, got %d", len(root))
	}
	var r [32]byte
	copy(r[:], root)

	hashedKey := keccak.Hash256(p.Key)
	if err := mpt.VerifyProof(r, hashedKey[:], p.Value, p.ProofNodes); err != nil {
		return nil, err
	}
	return &merkle.ProofOutput{
		Root:   append([]byte{}, root...),
		Key:    append([]byte{}, p.Key...),
		Value:  append([]byte{}, p.Value...),
		Domain: merkle.DomainEVM,
	}, nil
}

// CosmosProof is a two-op ICS23 existence proof (inner IAVL, outer
// SimpleMap) for a single Cosmos-SDK store key.
type CosmosProof struct {
	Ops   [2]*tmcrypto.ProofOp
	Key   ics23key.Key
	Value []byte
}

func (p *CosmosProof) verifyAgainst(appHash []byte) (*merkle.ProofOutput, error) {
	inner := &ics23proof.Proof{Ops: p.Ops, Key: p.Key, Value: p.Value}
	return inner.Verify(appHash)
}

// VerifyProof runs the domain-appropriate verification for proof against
// root (a block state root for an EVMProof, an AppHash for a CosmosProof).
func VerifyProof(proof Proof, root []byte) (*merkle.ProofOutput, error) {
	switch p := proof.(type) {
	case *EVMProof:
		return p.verifyAgainst(root)
	case *CosmosProof:
		return p.verifyAgainst(root)
	default:
		return nil, fmt.Errorf("coprocessor: unknown proof type %T", proof)
	}
}

// EVMProofInput pairs an EVMProof with its trusted block state root, the
// shape batch.EVM entries carry: EVMProof itself has no root field, so the
// root travels beside it in the batch (spec.md §6 "Batch serialization").
type EVMProofInput struct {
	Proof *EVMProof
	Root  [32]byte
}

// CosmosProofInput pairs a CosmosProof with its trusted AppHash: ICS23
// proofs carry no root reference of their own, so the batch attaches one
// per entry (spec.md §6).
type CosmosProofInput struct {
	Proof   *CosmosProof
	AppHash []byte
}

// Batch is the input to Verify: every EVM and Cosmos proof to check in a
// single call, each already paired with the root it must verify against.
type Batch struct {
	EVM    []EVMProofInput
	Cosmos []CosmosProofInput
}

// Verify is the VerifierEntry of spec.md §4.10: it verifies every proof in
// batch and returns their ProofOutputs, EVM entries first in input order
// followed by Cosmos entries in input order. Failure is total — the first
// verification error aborts the whole call and returns no outputs, since
// downstream consumers require a closed set rather than a partial report.
func Verify(batch Batch) ([]merkle.ProofOutput, error) {
	outputs := make([]merkle.ProofOutput, 0, len(batch.EVM)+len(batch.Cosmos))
	for i, in := range batch.EVM {
		out, err := VerifyProof(in.Proof, in.Root[:])
		if err != nil {
			return nil, fmt.Errorf("coprocessor: evm proof %d: %w", i, err)
		}
		outputs = append(outputs, *out)
	}
	for i, in := range batch.Cosmos {
		out, err := VerifyProof(in.Proof, in.AppHash)
		if err != nil {
			return nil, fmt.Errorf("coprocessor: cosmos proof %d: %w", i, err)
		}
		outputs = append(outputs, *out)
	}
	return outputs, nil
}

// BuildTrie is the CoprocessorTrie aggregation of spec.md §4.9: every EVM
// output's (key, value) pair goes into one Merkle-Patricia trie, every
// Cosmos output's (serialized Ics23Key, value) pair into another, and the
// two resulting roots are composed into a top-level trie under the
// literal keys "ethereum" and "neutron" (spec.md §6). The returned root is
// the batch's single durable output, consumed by downstream circuits.
func BuildTrie(outputs []merkle.ProofOutput) ([32]byte, error) {
	evmTrie := mpt.NewTrie()
	cosmosTrie := mpt.NewTrie()

	for _, out := range outputs {
		switch out.Domain {
		case merkle.DomainEVM:
			if err := evmTrie.Insert(out.Key, out.Value); err != nil {
				return [32]byte{}, fmt.Errorf("coprocessor: insert evm output: %w", err)
			}
		case merkle.DomainCosmos:
			if err := cosmosTrie.Insert(out.Key, out.Value); err != nil {
				return [32]byte{}, fmt.Errorf("coprocessor: insert cosmos output: %w", err)
			}
		default:
			return [32]byte{}, fmt.Errorf("coprocessor: unknown domain %v", out.Domain)
		}
	}

	evmRoot := evmTrie.RootHash()
	cosmosRoot := cosmosTrie.RootHash()

	top := mpt.NewTrie()
	if err := top.Insert([]byte("ethereum"), evmRoot[:]); err != nil {
		return [32]byte{}, fmt.Errorf("coprocessor: insert ethereum root: %w", err)
	}
	if err := top.Insert([]byte("neutron"), cosmosRoot[:]); err != nil {
		return [32]byte{}, fmt.Errorf("coprocessor: insert neutron root: %w", err)
	}
	return top.RootHash(), nil
}
