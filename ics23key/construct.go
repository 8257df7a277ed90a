package ics23key

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/cosmos/cosmos-sdk/types/bech32"
)

const (
	bankPrefix = "bank"
	wasmPrefix = "wasm"

	bankSupplyTag  = 0x00
	bankBalanceTag = 0x02
	wasmTag        = 0x03
)

// NewBankSupplyKey builds the key for a denom's total supply in the bank
// module: 0x00 || denom.
func NewBankSupplyKey(denom string) Key {
	raw := append([]byte{bankSupplyTag}, []byte(denom)...)
	return Key{Prefix: bankPrefix, PrefixLen: len(bankPrefix), Key: hex.EncodeToString(raw)}
}

// NewBankBalanceKey builds the key for an account's balance of denom in the
// bank module: 0x02 || len(address) || address_bytes || denom. address is
// the account's bech32 address; it is decoded to its raw bytes before
// encoding, never stored bech32-encoded.
func NewBankBalanceKey(denom, address string) (Key, error) {
	_, addrBytes, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return Key{}, fmt.Errorf("ics23key: decode bech32 address %q: %w", address, err)
	}
	if len(addrBytes) > 0xff {
		return Key{}, fmt.Errorf("ics23key: address %q decodes to %d bytes, too long for a single length byte", address, len(addrBytes))
	}

	raw := make([]byte, 0, 2+len(addrBytes)+len(denom))
	raw = append(raw, bankBalanceTag, byte(len(addrBytes)))
	raw = append(raw, addrBytes...)
	raw = append(raw, []byte(denom)...)
	return Key{Prefix: bankPrefix, PrefixLen: len(bankPrefix), Key: hex.EncodeToString(raw)}, nil
}

// NewWasmAccountKey builds the key for a Map<Addr,T>-shaped entry inside a
// contract's storage: 0x03 || contract_address_bytes || be_u16(len(store))
// || store || account_address (kept as its literal ASCII bech32 string,
// since that's how CosmWasm's Map serializes an Addr key — unlike the
// contract address, the account address is never bech32-decoded here).
func NewWasmAccountKey(contractAddress, storeName, accountAddress string) (Key, error) {
	_, contractBytes, err := bech32.DecodeAndConvert(contractAddress)
	if err != nil {
		return Key{}, fmt.Errorf("ics23key: decode bech32 contract address %q: %w", contractAddress, err)
	}

	storeLen := make([]byte, 2)
	binary.BigEndian.PutUint16(storeLen, uint16(len(storeName)))

	raw := make([]byte, 0, 1+len(contractBytes)+2+len(storeName)+len(accountAddress))
	raw = append(raw, wasmTag)
	raw = append(raw, contractBytes...)
	raw = append(raw, storeLen...)
	raw = append(raw, []byte(storeName)...)
	raw = append(raw, []byte(accountAddress)...)
	return Key{Prefix: wasmPrefix, PrefixLen: len(wasmPrefix), Key: hex.EncodeToString(raw)}, nil
}

// NewWasmStoredValueKey builds the key for a top-level Item<T> in a
// contract's storage: 0x03 || contract_address_bytes || key (ASCII bytes of
// the item's storage key, e.g. "shares").
func NewWasmStoredValueKey(contractAddress, key string) (Key, error) {
	_, contractBytes, err := bech32.DecodeAndConvert(contractAddress)
	if err != nil {
		return Key{}, fmt.Errorf("ics23key: decode bech32 contract address %q: %w", contractAddress, err)
	}

	raw := make([]byte, 0, 1+len(contractBytes)+len(key))
	raw = append(raw, wasmTag)
	raw = append(raw, contractBytes...)
	raw = append(raw, []byte(key)...)
	return Key{Prefix: wasmPrefix, PrefixLen: len(wasmPrefix), Key: hex.EncodeToString(raw)}, nil
}
