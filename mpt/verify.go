package mpt

import "bytes"

// EmptyRootHash is the Keccak-256 hash of the RLP-encoded empty string: the
// canonical root of an empty trie (spec.md §4.2).
var EmptyRootHash = [32]byte{
	0x56, 0xe8, 0x1f, 0x17, 0x1b, 0xcc, 0x55, 0xa6,
	0xff, 0x83, 0x45, 0xe6, 0x92, 0xc0, 0xf8, 0x6e,
	0x5b, 0x48, 0xe0, 0x1b, 0x99, 0x6c, 0xad, 0xc0,
	0x01, 0x62, 0x2f, 0xb5, 0xe3, 0x63, 0xb4, 0x21,
}

// walkStep is what VerifyProof expects to see decoded out of the next proof
// entry: either another node (by reference) or, once a leaf is reached, a
// terminal value. A nil *walkStep means the walk concluded mid-branch with
// no matching child — the exclusion-proof case.
type walkStep struct {
	ref     NodeRef
	value   []byte
	isValue bool
}

func nodeStep(ref NodeRef) *walkStep { return &walkStep{ref: ref} }
func valueStep(v []byte) *walkStep   { return &walkStep{value: v, isValue: true} }

func (s *walkStep) bytes() []byte {
	if s == nil {
		return nil
	}
	if s.isValue {
		return s.value
	}
	return s.ref.Bytes()
}

// valuesEqual compares two optional byte strings the way spec.md's Option
// comparison does: nil only equals nil, never an empty-but-present slice.
func valuesEqual(a, b []byte) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return bytes.Equal(a, b)
}

// VerifyProof walks proof (root-to-leaf, RLP-encoded nodes) against root,
// confirming that key (the trie key bytes as stored, not hashed here and not
// yet nibble-unpacked) maps to expectedValue. Pass expectedValue = nil for an exclusion proof.
//
// This is the exact algorithm of spec.md §4.3, including the inline-child
// recursion spec.md §9 calls out as "a silent correctness trap": a NodeRef
// shorter than 32 bytes is a node encoded in place, decoded without
// consuming another entry from proof.
func VerifyProof(root [32]byte, keyBytes []byte, expectedValue []byte, proof [][]byte) error {
	key := Unpack(keyBytes)
	got, err := walkProof(root, key, proof)
	if err != nil {
		return err
	}
	if !valuesEqual(got, expectedValue) {
		return &ValueMismatchError{Path: key, Got: got, Expected: expectedValue}
	}
	return nil
}

// WalkProof walks proof (root-to-leaf, RLP-encoded nodes) against root for
// key (the trie key bytes as stored, not hashed here), the same way
// VerifyProof does, but returns
// whatever value it finds instead of comparing it to an expectation — used
// by callers that need to decode the recovered leaf (e.g. evmproof's
// account RLP), not merely confirm a known value. A nil return with a nil
// error is a verified exclusion proof: key provably has no value in the
// trie at root.
func WalkProof(root [32]byte, keyBytes []byte, proof [][]byte) ([]byte, error) {
	return walkProof(root, Unpack(keyBytes), proof)
}

func walkProof(root [32]byte, key Nibbles, proof [][]byte) ([]byte, error) {
	if len(proof) == 0 || bytes.Equal(proof[0], []byte{emptyStringCode}) {
		if root != EmptyRootHash {
			return nil, &RootMismatchError{Got: EmptyRootHash, Expected: root}
		}
		return nil, nil
	}

	walked := Nibbles{}
	expected := nodeStep(WordNodeRef(root))

	for _, nodeBytes := range proof {
		got := NodeRefFromRLP(nodeBytes)
		if !valuesEqual(got.Bytes(), expected.bytes()) {
			return nil, &ValueMismatchError{
				Path:     append(Nibbles{}, walked...),
				Got:      nodeBytes,
				Expected: expected.bytes(),
			}
		}

		node, err := DecodeNode(nodeBytes)
		if err != nil {
			return nil, err
		}

		switch n := node.(type) {
		case *BranchNode:
			step, err := processBranch(n, &walked, key)
			if err != nil {
				return nil, err
			}
			expected = step
		case *ExtensionNode:
			walked = append(walked, n.Key...)
			expected = nodeStep(n.Child)
		case *LeafNode:
			walked = append(walked, n.Key...)
			expected = valueStep(n.Value)
		case EmptyRootNode:
			return nil, ErrUnexpectedEmptyRoot
		}
	}

	if !nibblesEqual(walked, key) {
		expected = nil
	}
	return expected.bytes(), nil
}

// processBranch consumes the next key nibble at a branch node, descending
// into inline children (without consuming a proof entry) until it reaches a
// hashed child reference or a terminal value. Returns nil if the branch has
// no child at the relevant nibble — the exclusion case.
func processBranch(branch *BranchNode, walked *Nibbles, key Nibbles) (*walkStep, error) {
	if len(*walked) >= len(key) {
		return nil, nil
	}
	next := key[len(*walked)]
	child := branch.Children[next]
	if child == nil {
		return nil, nil
	}
	*walked = append(*walked, next)

	if _, isHash := child.Hash(); isHash {
		return nodeStep(*child), nil
	}

	// Inline child: decode it in place, without consuming a proof entry.
	inline, err := DecodeNode(child.Bytes())
	if err != nil {
		return nil, err
	}
	switch n := inline.(type) {
	case *BranchNode:
		// An in-place branch node can only have direct, also in-place
		// encoded, leaf (or branch) children — anything else would
		// overflow the 33-byte budget that let it be inlined here.
		return processBranch(n, walked, key)
	case *ExtensionNode:
		*walked = append(*walked, n.Key...)
		// The extension's own child cannot be a leaf (that would make
		// this node a leaf, not an extension) nor a hash reference
		// (the extension wouldn't have fit inline in that case), so it
		// must itself be an in-place branch.
		innerNode, err := DecodeNode(n.Child.Bytes())
		if err != nil {
			return nil, err
		}
		innerBranch, ok := innerNode.(*BranchNode)
		if !ok {
			return nil, ErrUnexpectedInlineChild
		}
		return processBranch(innerBranch, walked, key)
	case *LeafNode:
		*walked = append(*walked, n.Key...)
		return valueStep(n.Value), nil
	case EmptyRootNode:
		return nil, ErrUnexpectedEmptyRoot
	}
	return nil, nil
}
