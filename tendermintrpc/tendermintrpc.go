// Package tendermintrpc is the external Cosmos-SDK RPC collaborator of
// spec.md §6: it fetches a raw ABCI query result with its Merkle proof, and
// does nothing else — verifying that proof is ics23proof's job.
//
// Grounded on original_source/domains/neutron/src/rpc.rs's
// NeutronMerkleRpcClient.get_proof.
package tendermintrpc

import (
	"context"
	"fmt"

	cmbytes "github.com/cometbft/cometbft/libs/bytes"
	crypto "github.com/cometbft/cometbft/proto/tendermint/crypto"
	rpcclient "github.com/cometbft/cometbft/rpc/client"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	ctypes "github.com/cometbft/cometbft/rpc/core/types"
)

// ProofResponse is the raw abci_query result this module needs: the queried
// value, its Merkle proof ops, and the height it was proven at.
type ProofResponse struct {
	Value    []byte
	ProofOps *crypto.ProofOps
	Height   int64
}

// abciQuerier is the single method this package actually calls. Accepting
// this narrower interface instead of the full rpcclient.Client lets tests
// supply a tiny stand-in instead of a complete RPC client implementation —
// *rpchttp.HTTP still satisfies it structurally.
type abciQuerier interface {
	ABCIQueryWithOptions(ctx context.Context, path string, data cmbytes.HexBytes, opts rpcclient.ABCIQueryOptions) (*ctypes.ResultABCIQuery, error)
}

// Client wraps a cometbft RPC HTTP client.
type Client struct {
	rpc abciQuerier
}

// Dial connects to a CometBFT/Tendermint RPC endpoint.
func Dial(rpcURL string) (*Client, error) {
	c, err := rpchttp.New(rpcURL, "/websocket")
	if err != nil {
		return nil, fmt.Errorf("tendermintrpc: dial %s: %w", rpcURL, err)
	}
	return &Client{rpc: c}, nil
}

// NewWithRPC wraps an already-constructed querier, mirroring
// rskblocks.NewProofClientWithRPC. Mainly useful for tests that inject a
// stand-in instead of dialing a live node.
func NewWithRPC(rpc abciQuerier) *Client {
	return &Client{rpc: rpc}
}

// ABCIQueryWithProof queries storeName ("bank", "wasm", ...) for key at
// height with proof=true, mirroring the Rust client's
// "store/{prefix}/key" path convention. height=0 means the latest
// committed height.
func (c *Client) ABCIQueryWithProof(ctx context.Context, storeName string, key []byte, height int64) (*ProofResponse, error) {
	path := fmt.Sprintf("store/%s/key", storeName)
	result, err := c.rpc.ABCIQueryWithOptions(ctx, path, key, rpcclient.ABCIQueryOptions{
		Height: height,
		Prove:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("tendermintrpc: abci_query: %w", err)
	}
	if result.Response.Code != 0 {
		return nil, fmt.Errorf("tendermintrpc: abci_query returned code %d: %s", result.Response.Code, result.Response.Log)
	}
	if result.Response.ProofOps == nil {
		return nil, fmt.Errorf("tendermintrpc: abci_query response carried no proof for %s", path)
	}

	return &ProofResponse{
		Value:    result.Response.Value,
		ProofOps: result.Response.ProofOps,
		Height:   result.Response.Height,
	}, nil
}
