package evmrpc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"xchainproof/evmrpc"
)

func TestProofResponseUnmarshalsStandardShape(t *testing.T) {
	body := `{
		"address": "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		"accountProof": ["0xf90211..."],
		"balance": "0x1",
		"codeHash": "0x1111111111111111111111111111111111111111111111111111111111111111",
		"nonce": "0x0",
		"storageHash": "0x2222222222222222222222222222222222222222222222222222222222222222",
		"storageProof": [
			{"key": "0x0", "value": "0x1", "proof": ["0xf8..."]}
		]
	}`
	var resp evmrpc.ProofResponse
	err := json.Unmarshal([]byte(body), &resp)
	require.NoError(t, err)
	require.Equal(t, "0xdAC17F958D2ee523a2206206994597C13D831ec7", resp.Address.Hex())
	require.Len(t, resp.AccountProof, 1)
	require.Len(t, resp.StorageProof, 1)
	require.Equal(t, "0x0", resp.StorageProof[0].Key)
}

func TestRawReceiptUnmarshalsEIP2718Shape(t *testing.T) {
	body := `{
		"type": "0x2",
		"status": "0x1",
		"cumulativeGasUsed": "0x5208",
		"logsBloom": "0x00",
		"logs": [
			{"address": "0xdAC17F958D2ee523a2206206994597C13D831ec7", "topics": [], "data": "0x"}
		]
	}`
	var rr evmrpc.RawReceipt
	err := json.Unmarshal([]byte(body), &rr)
	require.NoError(t, err)
	require.EqualValues(t, 2, rr.Type)
	require.NotNil(t, rr.Status)
	require.EqualValues(t, 1, *rr.Status)
	require.Len(t, rr.Logs, 1)
}
