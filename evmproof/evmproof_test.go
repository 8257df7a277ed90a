package evmproof_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"xchainproof/evmkey"
	"xchainproof/evmproof"
	"xchainproof/mpt"
	"xchainproof/rlp"
)

func accountLeafRLP(t *testing.T, nonce uint64, balance *big.Int, storageRoot, codeHash common.Hash) []byte {
	t.Helper()
	items := [][]byte{
		rlp.EncodeUint64(nil, nonce),
		rlp.EncodeBytes(nil, balance.Bytes()),
		rlp.EncodeBytes(nil, storageRoot.Bytes()),
		rlp.EncodeBytes(nil, codeHash.Bytes()),
	}
	return rlp.EncodeListFromEncodedItems(nil, items)
}

func TestVerifyAccountProofDecodesLeaf(t *testing.T) {
	addr := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	storageRoot := common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")
	codeHash := common.HexToHash("0x2222222222222222222222222222222222222222222222222222222222222222")
	leaf := accountLeafRLP(t, 7, big.NewInt(1_000_000), storageRoot, codeHash)

	tr := mpt.NewTrie()
	key := evmkey.AccountKey(addr)
	require.NoError(t, tr.Insert(key[:], leaf))
	root := tr.RootHash()
	proof := tr.GetProof(key[:])

	result, err := evmproof.VerifyAccountProof(root, addr, proof)
	require.NoError(t, err)
	require.Equal(t, uint64(7), result.Nonce)
	require.Equal(t, big.NewInt(1_000_000), result.Balance)
	require.Equal(t, storageRoot, result.StorageRoot)
	require.Equal(t, codeHash, result.CodeHash)
}

func TestVerifyAccountProofExclusion(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000000001")
	other := common.HexToAddress("0x0000000000000000000000000000000000000002")

	tr := mpt.NewTrie()
	otherKey := evmkey.AccountKey(other)
	require.NoError(t, tr.Insert(otherKey[:], accountLeafRLP(t, 1, big.NewInt(1), common.Hash{}, common.Hash{})))
	root := tr.RootHash()

	key := evmkey.AccountKey(addr)
	proof := tr.GetProof(key[:])

	_, err := evmproof.VerifyAccountProof(root, addr, proof)
	require.Error(t, err)
	var notFound *evmproof.AccountNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestVerifyAccountAndStorageBinding(t *testing.T) {
	addr := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	slot := common.HexToHash("0x00")

	storageTrie := mpt.NewTrie()
	storageKey := evmkey.StorageKey(slot)
	storageValue := rlp.EncodeBytes(nil, big.NewInt(42).Bytes())
	require.NoError(t, storageTrie.Insert(storageKey[:], storageValue))
	storageRoot := storageTrie.RootHash()
	storageProof := storageTrie.GetProof(storageKey[:])

	leaf := accountLeafRLP(t, 1, big.NewInt(9), common.Hash(storageRoot), common.Hash{})
	stateTrie := mpt.NewTrie()
	accountKey := evmkey.AccountKey(addr)
	require.NoError(t, stateTrie.Insert(accountKey[:], leaf))
	stateRoot := stateTrie.RootHash()
	accountProof := stateTrie.GetProof(accountKey[:])

	account, storage, err := evmproof.VerifyAccountAndStorage(
		stateRoot, addr, accountProof, common.Hash(storageRoot), slot, storageProof)
	require.NoError(t, err)
	require.Equal(t, common.Hash(storageRoot), account.StorageRoot)
	require.True(t, storage.Present)
	require.Equal(t, big.NewInt(42), storage.Value)
}

func TestVerifyAccountAndStorageRejectsMismatchedStorageHash(t *testing.T) {
	addr := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	slot := common.HexToHash("0x00")

	leaf := accountLeafRLP(t, 1, big.NewInt(9), common.Hash{}, common.Hash{})
	stateTrie := mpt.NewTrie()
	accountKey := evmkey.AccountKey(addr)
	require.NoError(t, stateTrie.Insert(accountKey[:], leaf))
	stateRoot := stateTrie.RootHash()
	accountProof := stateTrie.GetProof(accountKey[:])

	wrongStorageRoot := common.HexToHash("0xdead")
	_, _, err := evmproof.VerifyAccountAndStorage(
		stateRoot, addr, accountProof, wrongStorageRoot, slot, nil)
	require.ErrorIs(t, err, evmproof.ErrStorageHashMismatch)
}

func sampleReceipts() []evmproof.Receipt {
	return []evmproof.Receipt{
		{Type: 0, Status: 1, CumulativeGasUsed: 21000, Logs: nil},
		{Type: 2, Status: 1, CumulativeGasUsed: 50000, Logs: []*evmproof.Log{
			{Address: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
				Topics: []common.Hash{common.HexToHash("0x01")}, Data: []byte{0x01, 0x02}},
		}},
		{Type: 1, Status: 0, CumulativeGasUsed: 80000, Logs: nil},
	}
}

func TestBuildReceiptProofVerifies(t *testing.T) {
	receipts := sampleReceipts()
	for i := range receipts {
		rp, err := evmproof.BuildReceiptProof(receipts, i)
		require.NoError(t, err)
		err = mpt.VerifyProof(rp.Root, rp.Key, rp.TargetValue, rp.Proof)
		require.NoErrorf(t, err, "receipt index %d", i)
		require.Equal(t, receipts[i].Encode(), rp.TargetValue)
	}
}

func TestBuildReceiptProofRejectsEmptyAndOutOfRange(t *testing.T) {
	_, err := evmproof.BuildReceiptProof(nil, 0)
	require.ErrorIs(t, err, evmproof.ErrEmptyReceiptSet)

	receipts := sampleReceipts()
	_, err = evmproof.BuildReceiptProof(receipts, len(receipts))
	require.ErrorIs(t, err, evmproof.ErrTargetIndexOutOfRange)
}
