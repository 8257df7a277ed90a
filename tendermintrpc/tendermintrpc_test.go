package tendermintrpc_test

import (
	"context"
	"testing"

	cmbytes "github.com/cometbft/cometbft/libs/bytes"
	abci "github.com/cometbft/cometbft/abci/types"
	crypto "github.com/cometbft/cometbft/proto/tendermint/crypto"
	rpcclient "github.com/cometbft/cometbft/rpc/client"
	ctypes "github.com/cometbft/cometbft/rpc/core/types"
	"github.com/stretchr/testify/require"

	"xchainproof/tendermintrpc"
)

type stubQuerier struct {
	gotPath string
	gotData cmbytes.HexBytes
	gotOpts rpcclient.ABCIQueryOptions
	resp    *ctypes.ResultABCIQuery
	err     error
}

func (s *stubQuerier) ABCIQueryWithOptions(ctx context.Context, path string, data cmbytes.HexBytes, opts rpcclient.ABCIQueryOptions) (*ctypes.ResultABCIQuery, error) {
	s.gotPath, s.gotData, s.gotOpts = path, data, opts
	return s.resp, s.err
}

func TestABCIQueryWithProofBuildsStorePath(t *testing.T) {
	stub := &stubQuerier{
		resp: &ctypes.ResultABCIQuery{
			Response: abci.ResponseQuery{
				Code:     0,
				Value:    []byte("the-value"),
				Height:   42,
				ProofOps: &crypto.ProofOps{Ops: []crypto.ProofOp{{Type: "ics23:iavl"}}},
			},
		},
	}
	c := tendermintrpc.NewWithRPC(stub)

	resp, err := c.ABCIQueryWithProof(context.Background(), "bank", []byte{0x02, 0xaa}, 42)
	require.NoError(t, err)
	require.Equal(t, "store/bank/key", stub.gotPath)
	require.True(t, stub.gotOpts.Prove)
	require.EqualValues(t, 42, stub.gotOpts.Height)
	require.Equal(t, []byte("the-value"), resp.Value)
	require.Equal(t, int64(42), resp.Height)
	require.NotNil(t, resp.ProofOps)
}

func TestABCIQueryWithProofRejectsMissingProof(t *testing.T) {
	stub := &stubQuerier{
		resp: &ctypes.ResultABCIQuery{
			Response: abci.ResponseQuery{Code: 0, Value: []byte("v"), ProofOps: nil},
		},
	}
	c := tendermintrpc.NewWithRPC(stub)

	_, err := c.ABCIQueryWithProof(context.Background(), "wasm", []byte{0x03}, 0)
	require.Error(t, err)
}

func TestABCIQueryWithProofRejectsNonZeroCode(t *testing.T) {
	stub := &stubQuerier{
		resp: &ctypes.ResultABCIQuery{
			Response: abci.ResponseQuery{Code: 1, Log: "key not found"},
		},
	}
	c := tendermintrpc.NewWithRPC(stub)

	_, err := c.ABCIQueryWithProof(context.Background(), "bank", []byte{0x00}, 0)
	require.Error(t, err)
}
