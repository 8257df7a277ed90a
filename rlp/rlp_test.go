package rlp_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"xchainproof/rlp"
)

func TestDecodeBytesShortString(t *testing.T) {
	// "dog" -> 0x83 'd' 'o' 'g'
	value, rest, err := rlp.DecodeBytes([]byte{0x83, 'd', 'o', 'g'})
	require.NoError(t, err)
	require.Equal(t, []byte("dog"), value)
	require.Empty(t, rest)
}

func TestDecodeBytesSingleByteIsSelf(t *testing.T) {
	value, rest, err := rlp.DecodeBytes([]byte{0x00})
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, value)
	require.Empty(t, rest)
}

func TestDecodeBytesNonCanonicalSingleByte(t *testing.T) {
	// A short-string header 0x81 wrapping a single byte below 0x80 (here
	// 0x10) is the non-canonical case.
	_, _, err := rlp.DecodeBytes([]byte{0x81, 0x10})
	require.ErrorIs(t, err, rlp.ErrNonCanonicalSingleByte)
}

func TestDecodeBytesLeadingZeroSize(t *testing.T) {
	// 0xB8 0x00 ... : long-form string whose single length byte is zero.
	_, _, err := rlp.DecodeBytes([]byte{0xb8, 0x00})
	require.ErrorIs(t, err, rlp.ErrNonCanonicalSize)
}

func TestDecodeBytesInputTooShort(t *testing.T) {
	_, _, err := rlp.DecodeBytes([]byte{0x83, 'd', 'o'})
	require.ErrorIs(t, err, rlp.ErrInputTooShort)

	_, _, err = rlp.DecodeBytes(nil)
	require.ErrorIs(t, err, rlp.ErrInputTooShort)
}

func TestDecodeBytesUnexpectedList(t *testing.T) {
	_, _, err := rlp.DecodeBytes([]byte{0xc0})
	require.ErrorIs(t, err, rlp.ErrUnexpectedList)
}

func TestDecodeListUnexpectedString(t *testing.T) {
	_, _, err := rlp.DecodeList([]byte{0x80})
	require.ErrorIs(t, err, rlp.ErrUnexpectedString)
}

func TestDecodeListOfStrings(t *testing.T) {
	// ["cat", "dog"] -> 0xc8 0x83 'c''a''t' 0x83 'd''o''g'
	buf := []byte{0xc8, 0x83, 'c', 'a', 't', 0x83, 'd', 'o', 'g'}
	items, rest, err := rlp.DecodeList(buf)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Len(t, items, 2)

	cat, _, err := rlp.DecodeBytes(items[0])
	require.NoError(t, err)
	require.Equal(t, []byte("cat"), cat)

	dog, _, err := rlp.DecodeBytes(items[1])
	require.NoError(t, err)
	require.Equal(t, []byte("dog"), dog)
}

func TestDecodeUint64Zero(t *testing.T) {
	v, _, err := rlp.DecodeUint64([]byte{0x80})
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)
}

func TestDecodeUint64LeadingZeroRejected(t *testing.T) {
	// 0x8200F4: a 2-byte string whose first byte is a leading zero.
	_, _, err := rlp.DecodeUint64([]byte{0x82, 0x00, 0xf4})
	require.ErrorIs(t, err, rlp.ErrLeadingZero)
}

func TestDecodeUint64Overflow(t *testing.T) {
	buf := append([]byte{0x89}, make([]byte, 9)...)
	buf[1] = 0x01
	_, _, err := rlp.DecodeUint64(buf)
	require.ErrorIs(t, err, rlp.ErrOverflow)
}

func TestDecodeExactBytesRejectsTrailingData(t *testing.T) {
	_, err := rlp.DecodeExactBytes([]byte{0x83, 'd', 'o', 'g', 0xff})
	require.ErrorIs(t, err, rlp.ErrUnexpectedLength)
}

func TestEncodeDecodeBytesRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x7f},
		[]byte("dog"),
		bytes.Repeat([]byte{0xab}, 55),
		bytes.Repeat([]byte{0xcd}, 56),
		bytes.Repeat([]byte{0xef}, 1024),
	}
	for _, c := range cases {
		enc := rlp.EncodeBytes(nil, c)
		got, rest, err := rlp.DecodeBytes(enc)
		require.NoError(t, err)
		require.Empty(t, rest)
		if len(c) == 0 {
			require.Empty(t, got)
		} else {
			require.Equal(t, c, got)
		}
	}
}

func TestEncodeDecodeUint64RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 256, 65535, 1 << 32, ^uint64(0) >> 1}
	for _, v := range values {
		enc := rlp.EncodeUint64(nil, v)
		got, rest, err := rlp.DecodeUint64(enc)
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, v, got)
	}
}

func TestEncodeListFromEncodedItemsRoundTrip(t *testing.T) {
	items := [][]byte{
		rlp.EncodeBytes(nil, []byte("cat")),
		rlp.EncodeBytes(nil, []byte("dog")),
	}
	enc := rlp.EncodeListFromEncodedItems(nil, items)
	got, rest, err := rlp.DecodeList(enc)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, items, got)
}

func TestDecodeHeaderErrorsAreDistinctValues(t *testing.T) {
	all := []error{
		rlp.ErrInputTooShort,
		rlp.ErrNonCanonicalSize,
		rlp.ErrNonCanonicalSingleByte,
		rlp.ErrLeadingZero,
		rlp.ErrUnexpectedList,
		rlp.ErrUnexpectedString,
		rlp.ErrUnexpectedLength,
		rlp.ErrOverflow,
	}
	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			require.False(t, errors.Is(all[i], all[j]), "errors %d and %d must be distinct", i, j)
		}
	}
}
