// Package evmrpc is the external EVM JSON-RPC collaborator of spec.md §6:
// it fetches raw eth_getProof and eth_getBlockReceipts responses, and does
// nothing else — decoding and verification of what it returns is entirely
// the job of package evmproof.
//
// Grounded on rskblocks.ProofClient's GetProof/ProofResponse shape.
package evmrpc

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// ProofResponse is the raw eth_getProof response, per spec.md §6.
type ProofResponse struct {
	Address      common.Address `json:"address"`
	AccountProof []string       `json:"accountProof"`
	Balance      *hexutil.Big   `json:"balance"`
	CodeHash     common.Hash    `json:"codeHash"`
	Nonce        hexutil.Uint64 `json:"nonce"`
	StorageHash  common.Hash    `json:"storageHash"`
	StorageProof []StorageProof `json:"storageProof"`
}

// StorageProof is a single entry of ProofResponse.StorageProof.
type StorageProof struct {
	Key   string   `json:"key"`
	Value string   `json:"value"`
	Proof []string `json:"proof"`
}

// RawLog is a single eth_getBlockReceipts log entry.
type RawLog struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// RawReceipt is a single eth_getBlockReceipts response entry.
type RawReceipt struct {
	Type              hexutil.Uint64  `json:"type"`
	Status            *hexutil.Uint64 `json:"status"`
	PostState         hexutil.Bytes   `json:"root"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	LogsBloom         hexutil.Bytes   `json:"logsBloom"`
	Logs              []RawLog        `json:"logs"`
}

// Client is a thin wrapper over *rpc.Client for the two read-only EVM
// methods spec.md §6 names. It never sends transactions and performs no
// gas estimation, unlike the teacher's ethclient package — this module
// only ever reads state.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to rpcURL.
func Dial(rpcURL string) (*Client, error) {
	c, err := rpc.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("evmrpc: dial %s: %w", rpcURL, err)
	}
	return &Client{rpc: c}, nil
}

// DialContext is Dial with a context governing the connection attempt.
func DialContext(ctx context.Context, rpcURL string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("evmrpc: dial %s: %w", rpcURL, err)
	}
	return &Client{rpc: c}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	if c.rpc != nil {
		c.rpc.Close()
	}
}

// GetProof calls eth_getProof for address at blockRef ("latest", "pending",
// or a hex block number), optionally requesting storage proofs for
// storageKeys.
func (c *Client) GetProof(ctx context.Context, address common.Address, storageKeys []common.Hash, blockRef string) (*ProofResponse, error) {
	keys := make([]string, len(storageKeys))
	for i, k := range storageKeys {
		keys[i] = k.Hex()
	}

	var result ProofResponse
	if err := c.rpc.CallContext(ctx, &result, "eth_getProof", address, keys, blockRef); err != nil {
		return nil, fmt.Errorf("evmrpc: eth_getProof: %w", err)
	}
	return &result, nil
}

// GetBlockReceipts calls eth_getBlockReceipts for blockRef.
func (c *Client) GetBlockReceipts(ctx context.Context, blockRef string) ([]RawReceipt, error) {
	var result []RawReceipt
	if err := c.rpc.CallContext(ctx, &result, "eth_getBlockReceipts", blockRef); err != nil {
		return nil, fmt.Errorf("evmrpc: eth_getBlockReceipts: %w", err)
	}
	return result, nil
}
