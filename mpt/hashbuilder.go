package mpt

// HashBuilder incrementally builds an ephemeral trie (the per-block
// receipts trie, spec.md §4.4) and can retain the proof for a single target
// path as it goes. It is a thin wrapper around Trie: Trie.GetProof already
// recomputes a deterministic, root-to-leaf-ordered proof on demand, so a
// literal node-by-node streaming retainer buys nothing for the batch sizes
// (one block's receipts) this module handles — see DESIGN.md.
type HashBuilder struct {
	trie         *Trie
	retainedPath []byte
}

// NewHashBuilder returns an empty builder.
func NewHashBuilder() *HashBuilder { return &HashBuilder{trie: NewTrie()} }

// Retain marks keyBytes as the path whose proof TakeProof should return.
func (b *HashBuilder) Retain(keyBytes []byte) {
	b.retainedPath = append([]byte{}, keyBytes...)
}

// Insert adds a (key, value) pair to the trie under construction.
func (b *HashBuilder) Insert(keyBytes, value []byte) error {
	return b.trie.Insert(keyBytes, value)
}

// RootHash returns the trie's current root hash.
func (b *HashBuilder) RootHash() [32]byte { return b.trie.RootHash() }

// TakeProof returns the retained proof, root-to-leaf. Retain must have been
// called first.
func (b *HashBuilder) TakeProof() ([][]byte, error) {
	if b.retainedPath == nil {
		return nil, ErrNoRetainedPath
	}
	return b.trie.GetProof(b.retainedPath), nil
}

// AdjustIndexForRLP permutes a receipt's position among [0, length):
// indices below 0x7f shift up by one, except that index 0x7f, or the last
// index if that comes first, maps to 0; indices above 0x7f map to
// themselves. The result is a bijection on [0, length). Spec.md §4.6/§8
// property 7.
func AdjustIndexForRLP(i, length int) int {
	switch {
	case i > 0x7f:
		return i
	case i == 0x7f || i+1 == length:
		return 0
	default:
		return i + 1
	}
}
