package mpt

import "xchainproof/keccak"

// Trie is an in-memory Merkle-Patricia trie builder: Insert accumulates
// (key, value) pairs, RootHash and GetProof recompute the trie's encoding
// on demand. It mirrors rsktrie.Trie's mutation policies (split on
// divergent shared path, split on a disagreeing leaf suffix) adapted to a
// hexary structure with RLP node encoding instead of RSK's binary layout.
//
// The trie holds build-time nodes (buildBranch/buildExtension/buildLeaf)
// rather than the decode-time Node types: until a subtree is about to be
// hashed, its children are plain Go pointers, not NodeRefs, since we don't
// know a child's encoded size (and therefore whether it hashes or inlines)
// until we actually encode it.
type Trie struct {
	root buildNode
}

// NewTrie returns an empty trie.
func NewTrie() *Trie { return &Trie{} }

type buildNode interface{ isBuildNode() }

type buildBranch struct {
	children [16]buildNode
}

func (*buildBranch) isBuildNode() {}

type buildExtension struct {
	key   Nibbles
	child buildNode
}

func (*buildExtension) isBuildNode() {}

type buildLeaf struct {
	key   Nibbles
	value []byte
}

func (*buildLeaf) isBuildNode() {}

// Insert adds or overwrites the value at keyBytes.
//
// Ethereum keys (Keccak-256 digests, or RLP-encoded receipt indices) never
// require one inserted key to be a strict prefix of another, which is the
// only shape that would force a non-empty branch value slot; spec.md §9
// closes that slot shut, so Insert reports ErrBranchValueUnsupported rather
// than silently populating it.
func (t *Trie) Insert(keyBytes, value []byte) error {
	path := Unpack(keyBytes)
	root, err := insertBuild(t.root, path, value)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

func insertBuild(node buildNode, path Nibbles, value []byte) (buildNode, error) {
	switch n := node.(type) {
	case nil:
		return &buildLeaf{key: append(Nibbles{}, path...), value: value}, nil
	case *buildLeaf:
		return insertIntoLeaf(n, path, value)
	case *buildExtension:
		return insertIntoExtension(n, path, value)
	case *buildBranch:
		return insertIntoBranch(n, path, value)
	}
	return nil, ErrUnexpectedArity
}

func insertIntoLeaf(n *buildLeaf, path Nibbles, value []byte) (buildNode, error) {
	if nibblesEqual(path, n.key) {
		return &buildLeaf{key: n.key, value: value}, nil
	}
	cp := commonPrefixLen(path, n.key)
	if cp == len(path) || cp == len(n.key) {
		return nil, ErrBranchValueUnsupported
	}
	branch := &buildBranch{}
	branch.children[n.key[cp]] = &buildLeaf{key: append(Nibbles{}, n.key[cp+1:]...), value: n.value}
	branch.children[path[cp]] = &buildLeaf{key: append(Nibbles{}, path[cp+1:]...), value: value}
	return wrapWithExtension(path[:cp], branch), nil
}

func insertIntoExtension(n *buildExtension, path Nibbles, value []byte) (buildNode, error) {
	cp := commonPrefixLen(path, n.key)
	if cp == len(n.key) {
		newChild, err := insertBuild(n.child, path[cp:], value)
		if err != nil {
			return nil, err
		}
		return &buildExtension{key: n.key, child: newChild}, nil
	}
	if cp == len(path) {
		return nil, ErrBranchValueUnsupported
	}
	branch := &buildBranch{}
	var divergedChild buildNode = n.child
	if rest := n.key[cp+1:]; len(rest) > 0 {
		divergedChild = &buildExtension{key: append(Nibbles{}, rest...), child: n.child}
	}
	branch.children[n.key[cp]] = divergedChild
	branch.children[path[cp]] = &buildLeaf{key: append(Nibbles{}, path[cp+1:]...), value: value}
	return wrapWithExtension(path[:cp], branch), nil
}

func insertIntoBranch(n *buildBranch, path Nibbles, value []byte) (buildNode, error) {
	if len(path) == 0 {
		return nil, ErrBranchValueUnsupported
	}
	idx := path[0]
	newChild, err := insertBuild(n.children[idx], path[1:], value)
	if err != nil {
		return nil, err
	}
	n.children[idx] = newChild
	return n, nil
}

func wrapWithExtension(prefix Nibbles, child buildNode) buildNode {
	if len(prefix) == 0 {
		return child
	}
	return &buildExtension{key: append(Nibbles{}, prefix...), child: child}
}

// RootHash returns the Keccak-256 hash of the trie's root RLP encoding, or
// EmptyRootHash for an empty trie. Unlike a NodeRef used as a child
// reference, the root is always fully hashed, regardless of how short its
// encoding is — it is the trusted value callers compare proofs against.
func (t *Trie) RootHash() [32]byte {
	if t.root == nil {
		return EmptyRootHash
	}
	return keccak.Hash256(encodeBuild(t.root))
}

func encodeBuild(node buildNode) []byte {
	switch n := node.(type) {
	case *buildLeaf:
		return (&LeafNode{Key: n.key, Value: n.value}).Encode()
	case *buildExtension:
		return (&ExtensionNode{Key: n.key, Child: nodeRefOf(n.child)}).Encode()
	case *buildBranch:
		var children [16]*NodeRef
		for i := 0; i < 16; i++ {
			if n.children[i] != nil {
				ref := nodeRefOf(n.children[i])
				children[i] = &ref
			}
		}
		return (&BranchNode{Children: children}).Encode()
	}
	return nil
}

func nodeRefOf(node buildNode) NodeRef {
	return NodeRefFromRLP(encodeBuild(node))
}

// GetProof returns the root-to-leaf sequence of RLP-encoded nodes for
// keyBytes, suitable for VerifyProof. It also supports exclusion proofs:
// for a key not present in the trie, the returned sequence walks as far as
// the trie structurally permits and stops, exactly matching where
// VerifyProof's own walk would stop.
func (t *Trie) GetProof(keyBytes []byte) [][]byte {
	path := Unpack(keyBytes)
	if t.root == nil {
		return [][]byte{{emptyStringCode}}
	}
	var proof [][]byte
	appendProofNode(t.root, &proof, true)
	descendInline(t.root, path, &proof)
	return proof
}

func appendProofNode(node buildNode, proof *[][]byte, force bool) {
	enc := encodeBuild(node)
	if force || len(enc) >= 32 {
		*proof = append(*proof, enc)
	}
}

func descendInline(node buildNode, path Nibbles, proof *[][]byte) {
	switch n := node.(type) {
	case *buildLeaf:
		return
	case *buildExtension:
		if len(path) < len(n.key) || !nibblesEqual(path[:len(n.key)], n.key) {
			return
		}
		appendProofNode(n.child, proof, false)
		descendInline(n.child, path[len(n.key):], proof)
	case *buildBranch:
		if len(path) == 0 {
			return
		}
		child := n.children[path[0]]
		if child == nil {
			return
		}
		appendProofNode(child, proof, false)
		descendInline(child, path[1:], proof)
	}
}
