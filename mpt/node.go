package mpt

import "xchainproof/rlp"

// Node is the decoded form of a single MPT trie node: an EmptyRootNode, a
// BranchNode, an ExtensionNode, or a LeafNode. Go has no tagged unions, so
// this is modeled as spec.md §9 recommends elsewhere for Proof: a small
// closed interface with a type switch at the point of use (see VerifyProof).
type Node interface {
	Encode() []byte
}

// EmptyRootNode is the canonical empty-trie marker: the RLP encoding of the
// empty byte string.
type EmptyRootNode struct{}

// Encode implements Node.
func (EmptyRootNode) Encode() []byte { return []byte{emptyStringCode} }

// BranchNode is a 16-way fan-out node. Children[i] is nil where no child is
// present at nibble i. The 17th (value) slot of the wire encoding is not
// represented here: spec.md §4.2/§9 requires it be empty for Ethereum
// compatibility, and DecodeNode rejects any encoding where it is not.
type BranchNode struct {
	Children [16]*NodeRef
}

// Encode implements Node.
func (n *BranchNode) Encode() []byte {
	items := make([][]byte, 17)
	for i := 0; i < 16; i++ {
		if n.Children[i] != nil {
			items[i] = n.Children[i].Bytes()
		} else {
			items[i] = []byte{emptyStringCode}
		}
	}
	items[16] = []byte{emptyStringCode}
	return rlp.EncodeListFromEncodedItems(nil, items)
}

// ExtensionNode shares Key among every key beneath Child.
type ExtensionNode struct {
	Key   Nibbles
	Child NodeRef
}

// Encode implements Node.
func (n *ExtensionNode) Encode() []byte {
	keyEnc := rlp.EncodeBytes(nil, encodeHexPrefix(n.Key, false))
	return rlp.EncodeListFromEncodedItems(nil, [][]byte{keyEnc, n.Child.Bytes()})
}

// LeafNode terminates a path with a value.
type LeafNode struct {
	Key   Nibbles
	Value []byte
}

// Encode implements Node.
func (n *LeafNode) Encode() []byte {
	keyEnc := rlp.EncodeBytes(nil, encodeHexPrefix(n.Key, true))
	valEnc := rlp.EncodeBytes(nil, n.Value)
	return rlp.EncodeListFromEncodedItems(nil, [][]byte{keyEnc, valEnc})
}

// DecodeNode decodes a single RLP-encoded trie node per spec.md §4.2.
func DecodeNode(buf []byte) (Node, error) {
	if len(buf) == 0 {
		return nil, rlp.ErrInputTooShort
	}
	if buf[0] == emptyStringCode {
		if len(buf) != 1 {
			return nil, rlp.ErrUnexpectedLength
		}
		return EmptyRootNode{}, nil
	}
	items, err := rlp.DecodeExactList(buf)
	if err != nil {
		return nil, err
	}
	switch len(items) {
	case 17:
		return decodeBranch(items)
	case 2:
		return decodeExtensionOrLeaf(items)
	default:
		return nil, ErrUnexpectedArity
	}
}

func decodeBranch(items [][]byte) (Node, error) {
	valueSlot, err := rlp.DecodeExactBytes(items[16])
	if err != nil {
		return nil, err
	}
	if len(valueSlot) != 0 {
		return nil, ErrBranchValueNotEmpty
	}
	var branch BranchNode
	for i := 0; i < 16; i++ {
		if len(items[i]) == 1 && items[i][0] == emptyStringCode {
			continue
		}
		ref, err := NodeRefFromRaw(items[i])
		if err != nil {
			return nil, err
		}
		branch.Children[i] = &ref
	}
	return &branch, nil
}

func decodeExtensionOrLeaf(items [][]byte) (Node, error) {
	encodedKey, err := rlp.DecodeExactBytes(items[0])
	if err != nil {
		return nil, err
	}
	if len(encodedKey) == 0 {
		return nil, ErrTrieNodeKeyEmpty
	}
	path, isLeaf, err := decodeHexPrefix(encodedKey)
	if err != nil {
		return nil, err
	}
	if isLeaf {
		value, err := rlp.DecodeExactBytes(items[1])
		if err != nil {
			return nil, err
		}
		return &LeafNode{Key: path, Value: value}, nil
	}
	child, err := NodeRefFromRaw(items[1])
	if err != nil {
		return nil, err
	}
	return &ExtensionNode{Key: path, Child: child}, nil
}
