package ics23key_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"xchainproof/ics23key"
)

func TestStringParseRoundTrip(t *testing.T) {
	k := ics23key.Key{Prefix: "bank", PrefixLen: 4, Key: "00deadbeef"}
	encoded := k.String()
	require.Equal(t, "004bank00deadbeef", encoded)

	parsed, err := ics23key.Parse(encoded)
	require.NoError(t, err)
	require.Equal(t, k, parsed)
}

func TestParseRejectsNonDigitPrefixLength(t *testing.T) {
	_, err := ics23key.Parse("abcbank00")
	require.ErrorIs(t, err, ics23key.ErrPrefixLengthNotDigits)
}

func TestParseRejectsOvershootingPrefixLength(t *testing.T) {
	_, err := ics23key.Parse("010b")
	require.ErrorIs(t, err, ics23key.ErrPrefixOverflow)
}

func TestParseRejectsTooShortInput(t *testing.T) {
	_, err := ics23key.Parse("01")
	require.ErrorIs(t, err, ics23key.ErrEncodedTooShort)
}

func TestNewBankSupplyKey(t *testing.T) {
	k := ics23key.NewBankSupplyKey("uatom")
	require.Equal(t, "bank", k.Prefix)
	raw, err := hex.DecodeString(k.Key)
	require.NoError(t, err)
	require.Equal(t, append([]byte{0x00}, []byte("uatom")...), raw)
}

func TestNewBankBalanceKey(t *testing.T) {
	addr := "cosmos1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5lzv7xu" // 20-byte address 0x01..0x14
	k, err := ics23key.NewBankBalanceKey("uatom", addr)
	require.NoError(t, err)
	require.Equal(t, "bank", k.Prefix)
	raw, err := hex.DecodeString(k.Key)
	require.NoError(t, err)
	require.Equal(t, byte(0x02), raw[0])
	require.Equal(t, "uatom", string(raw[2+int(raw[1]):]))
}

func TestNewBankBalanceKeyRejectsInvalidAddress(t *testing.T) {
	_, err := ics23key.NewBankBalanceKey("uatom", "not-a-bech32-address")
	require.Error(t, err)
}

func TestNewWasmStoredValueKey(t *testing.T) {
	contract := "cosmos1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5lzv7xu"
	k, err := ics23key.NewWasmStoredValueKey(contract, "shares")
	require.NoError(t, err)
	require.Equal(t, "wasm", k.Prefix)
	raw, err := hex.DecodeString(k.Key)
	require.NoError(t, err)
	require.Equal(t, byte(0x03), raw[0])
	require.Equal(t, "shares", string(raw[len(raw)-len("shares"):]))
}

func TestNewWasmAccountKey(t *testing.T) {
	contract := "cosmos1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5lzv7xu"
	k, err := ics23key.NewWasmAccountKey(contract, "balances", "cosmos1abcdef")
	require.NoError(t, err)
	require.Equal(t, "wasm", k.Prefix)
	raw, err := hex.DecodeString(k.Key)
	require.NoError(t, err)
	require.Equal(t, byte(0x03), raw[0])
	require.Contains(t, string(raw), "cosmos1abcdef")
}
