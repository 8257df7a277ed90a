package mpt

import "xchainproof/keccak"

// emptyStringCode is the RLP encoding of the empty byte string, used both
// as an empty branch-slot marker and as the canonical empty-trie node.
const emptyStringCode = 0x80

// NodeRef is an MPT edge: either the inline RLP encoding of a child node
// (when that encoding is shorter than 32 bytes) or the RLP string encoding
// of the child's Keccak-256 hash. Per spec.md §9 ("NodeRef as a constrained
// byte array"), it never exceeds 33 bytes (a 1-byte RLP prefix plus a
// 32-byte hash), so it lives in a fixed-size array rather than a slice.
type NodeRef struct {
	buf [33]byte
	n   int
}

// NodeRefFromRaw wraps an already RLP-encoded node reference (as it appears
// verbatim inside a branch slot or extension child in a decoded proof node).
func NodeRefFromRaw(data []byte) (NodeRef, error) {
	if len(data) > 33 {
		return NodeRef{}, ErrNodeRefTooLong
	}
	var ref NodeRef
	copy(ref.buf[:], data)
	ref.n = len(data)
	return ref, nil
}

// NodeRefFromRLP builds a NodeRef from a node's own RLP encoding: inline if
// under 32 bytes, otherwise the RLP encoding of its Keccak-256 hash.
func NodeRefFromRLP(nodeRLP []byte) NodeRef {
	if len(nodeRLP) < 32 {
		ref, _ := NodeRefFromRaw(nodeRLP) // always fits: < 32 <= 33
		return ref
	}
	return WordNodeRef(keccak.Hash256(nodeRLP))
}

// WordNodeRef builds the NodeRef that is the RLP string encoding of a bare
// 32-byte word (used for hashed children and for the trusted root itself).
func WordNodeRef(word [32]byte) NodeRef {
	var ref NodeRef
	ref.buf[0] = emptyStringCode + 32
	copy(ref.buf[1:], word[:])
	ref.n = 33
	return ref
}

// Bytes returns the RLP encoding this reference carries.
func (r NodeRef) Bytes() []byte { return r.buf[:r.n] }

// Hash returns the 32-byte hash this reference carries, if it is in hashed
// (not inline) form.
func (r NodeRef) Hash() ([32]byte, bool) {
	if r.n != 33 {
		return [32]byte{}, false
	}
	var h [32]byte
	copy(h[:], r.buf[1:])
	return h, true
}
