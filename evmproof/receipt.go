package evmproof

import (
	"github.com/ethereum/go-ethereum/common"

	"xchainproof/mpt"
	"xchainproof/rlp"
)

// Log is a single contract log event, grounded on rskblocks.Log but trimmed
// to the 3 fields that are actually part of receipt RLP (address, topics,
// data) — rskblocks.Log carries no extra fields beyond these either.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

func (l *Log) encode() []byte {
	topics := make([][]byte, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = rlp.EncodeBytes(nil, t.Bytes())
	}
	items := [][]byte{
		rlp.EncodeBytes(nil, l.Address.Bytes()),
		rlp.EncodeListFromEncodedItems(nil, topics),
		rlp.EncodeBytes(nil, l.Data),
	}
	return rlp.EncodeListFromEncodedItems(nil, items)
}

// Receipt is a post-Byzantium Ethereum transaction receipt: the standard
// 4-field body `[status, cumulativeGasUsed, logsBloom, logs]`, plus an
// EIP-2718 type byte. This replaces rskblocks.TransactionReceipt's 6-field
// RSK-specific RLP (which also carries postState and a separate gasUsed)
// with the shape mainnet Ethereum and its L2s actually produce, since
// spec.md targets EVM chains generally, not RSK specifically.
type Receipt struct {
	// Type is the EIP-2718 transaction type byte (0 for a legacy receipt,
	// which has no envelope at all).
	Type              uint8
	Status            uint64
	CumulativeGasUsed uint64
	LogsBloom         [256]byte
	Logs              []*Log
}

// Encode returns the receipt's EIP-2718-enveloped RLP encoding: the bare
// RLP list for a legacy (type 0) receipt, or the type byte followed by that
// list for any typed receipt.
func (r *Receipt) Encode() []byte {
	logs := make([][]byte, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = l.encode()
	}
	items := [][]byte{
		rlp.EncodeUint64(nil, r.Status),
		rlp.EncodeUint64(nil, r.CumulativeGasUsed),
		rlp.EncodeBytes(nil, r.LogsBloom[:]),
		rlp.EncodeListFromEncodedItems(nil, logs),
	}
	body := rlp.EncodeListFromEncodedItems(nil, items)
	if r.Type == 0 {
		return body
	}
	return append([]byte{r.Type}, body...)
}

// ReceiptProof is the result of BuildReceiptProof: the receipts trie root
// for the block, the RLP key the target receipt is stored under, and its
// Merkle proof.
type ReceiptProof struct {
	Root        [32]byte
	Key         []byte
	TargetValue []byte
	Proof       [][]byte
}

// BuildReceiptProof builds the ephemeral per-block receipts trie (spec.md
// §4.4/§4.6) by inserting every receipt's EIP-2718-enveloped RLP encoding
// under its AdjustIndexForRLP-permuted index, then retains and returns the
// proof for targetIndex.
func BuildReceiptProof(receipts []Receipt, targetIndex int) (*ReceiptProof, error) {
	if len(receipts) == 0 {
		return nil, ErrEmptyReceiptSet
	}
	if targetIndex < 0 || targetIndex >= len(receipts) {
		return nil, ErrTargetIndexOutOfRange
	}

	hb := mpt.NewHashBuilder()
	var targetKey, targetValue []byte
	for i := range receipts {
		adjusted := mpt.AdjustIndexForRLP(i, len(receipts))
		key := rlp.EncodeUint64(nil, uint64(adjusted))
		value := receipts[i].Encode()
		if err := hb.Insert(key, value); err != nil {
			return nil, err
		}
		if i == targetIndex {
			targetKey, targetValue = key, value
		}
	}
	hb.Retain(targetKey)

	root := hb.RootHash()
	proof, err := hb.TakeProof()
	if err != nil {
		return nil, err
	}
	return &ReceiptProof{Root: root, Key: targetKey, TargetValue: targetValue, Proof: proof}, nil
}
