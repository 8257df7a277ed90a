// Package rlp implements the Recursive Length Prefix encoding used by
// Ethereum to serialize state, storage, and receipt data.
//
// Unlike go-ethereum's reflection-based rlp package, this implementation
// exposes every canonical-encoding rule as its own error value, because the
// Merkle-Patricia trie verifier in package mpt needs to distinguish a
// malformed length prefix from a non-canonical integer from a wrapped
// single byte — distinctions go-ethereum's rlp package collapses into one
// generic decode error.
package rlp

import "errors"

// Decode errors, one distinct value per failure kind; see DecodeHeader for
// the prefix-byte layout they guard.
var (
	ErrInputTooShort         = errors.New("rlp: input too short")
	ErrNonCanonicalSize      = errors.New("rlp: non-canonical size (leading zero in length)")
	ErrNonCanonicalSingleByte = errors.New("rlp: non-canonical single byte wrapped as a string")
	ErrLeadingZero           = errors.New("rlp: leading zero in integer payload")
	ErrUnexpectedList        = errors.New("rlp: unexpected list")
	ErrUnexpectedString      = errors.New("rlp: unexpected string")
	ErrUnexpectedLength      = errors.New("rlp: unexpected length")
	ErrOverflow              = errors.New("rlp: value overflows target size")
)

const (
	strSingleByteMax = 0x7f
	strShortBase     = 0x80
	strShortMax      = 0xb7
	strLongBase      = 0xb8
	strLongMax       = 0xbf
	listShortBase    = 0xc0
	listShortMax     = 0xf7
	listLongBase     = 0xf8
	listLongMax      = 0xff
)

// Header is a decoded RLP item prefix: whether the item is a list, and how
// many payload bytes follow the prefix.
type Header struct {
	List          bool
	PayloadLength int
}

// DecodeHeader decodes the RLP prefix at the start of buf.
//
// It returns the header, the number of bytes the caller must skip to reach
// the payload (0 for the single-byte-value special case, where the "header"
// byte *is* the payload), and an error.
func DecodeHeader(buf []byte) (Header, int, error) {
	if len(buf) == 0 {
		return Header{}, 0, ErrInputTooShort
	}
	b := buf[0]

	switch {
	case b <= strSingleByteMax:
		// The byte itself is a one-byte string; there is no separate header.
		return Header{List: false, PayloadLength: 1}, 0, nil

	case b <= strShortMax:
		return Header{List: false, PayloadLength: int(b - strShortBase)}, 1, nil

	case b <= strLongMax:
		n := int(b - strLongBase + 1) // number of following big-endian length bytes
		return decodeLongHeader(buf, false, n)

	case b <= listShortMax:
		return Header{List: true, PayloadLength: int(b - listShortBase)}, 1, nil

	default: // b <= listLongMax
		n := int(b - listLongBase + 1) // number of following big-endian length bytes
		return decodeLongHeader(buf, true, n)
	}
}

// decodeLongHeader decodes the "long form" prefix (0xB8..0xBF or 0xF8..0xFF),
// where n is the number of big-endian length bytes following the prefix
// byte (n = b - 0xB7, or b - 0xF7, per the caller).
func decodeLongHeader(buf []byte, isList bool, n int) (Header, int, error) {
	headerLen := 1 + n
	if len(buf) < headerLen {
		return Header{}, 0, ErrInputTooShort
	}
	lenBytes := buf[1:headerLen]
	if lenBytes[0] == 0 {
		return Header{}, 0, ErrNonCanonicalSize
	}
	payloadLength, overflowed := beUintOverflow(lenBytes)
	if overflowed {
		return Header{}, 0, ErrOverflow
	}
	// Only a leading zero in the length bytes is rejected. A long-form
	// length smaller than 56, which could have been encoded in short form,
	// is accepted here; the MPT node decoder does not reject it either.
	return Header{List: isList, PayloadLength: payloadLength}, headerLen, nil
}

func beUintOverflow(b []byte) (int, bool) {
	if len(b) > 8 {
		return 0, true
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	if v > uint64(^uint(0)>>1) {
		return 0, true
	}
	return int(v), false
}

// DecodeBytes decodes a single RLP string item from the front of buf,
// returning its value and the remaining bytes.
func DecodeBytes(buf []byte) (value []byte, rest []byte, err error) {
	hdr, headerLen, err := DecodeHeader(buf)
	if err != nil {
		return nil, nil, err
	}
	if hdr.List {
		return nil, nil, ErrUnexpectedList
	}
	if headerLen == 0 {
		// Single byte value case: the prefix byte is the payload.
		return buf[:1], buf[1:], nil
	}
	end := headerLen + hdr.PayloadLength
	if len(buf) < end {
		return nil, nil, ErrInputTooShort
	}
	payload := buf[headerLen:end]
	if hdr.PayloadLength == 1 && payload[0] <= strSingleByteMax {
		return nil, nil, ErrNonCanonicalSingleByte
	}
	return payload, buf[end:], nil
}

// DecodeList splits the payload of an RLP list into the raw (still encoded)
// byte slices of each item, without recursively decoding them.
func DecodeList(buf []byte) (items [][]byte, rest []byte, err error) {
	hdr, headerLen, err := DecodeHeader(buf)
	if err != nil {
		return nil, nil, err
	}
	if !hdr.List {
		return nil, nil, ErrUnexpectedString
	}
	end := headerLen + hdr.PayloadLength
	if len(buf) < end {
		return nil, nil, ErrInputTooShort
	}
	payload := buf[headerLen:end]
	for len(payload) > 0 {
		itemHdr, itemHeaderLen, err := DecodeHeader(payload)
		if err != nil {
			return nil, nil, err
		}
		itemEnd := itemHeaderLen + itemHdr.PayloadLength
		if itemHeaderLen == 0 {
			itemEnd = 1
		}
		if len(payload) < itemEnd {
			return nil, nil, ErrInputTooShort
		}
		items = append(items, payload[:itemEnd])
		payload = payload[itemEnd:]
	}
	return items, buf[end:], nil
}

// DecodeUint64 decodes a big-endian RLP integer into a uint64. Per the RLP
// canonical form, zero is encoded as the empty string and any payload with
// a leading zero byte is rejected.
func DecodeUint64(buf []byte) (uint64, []byte, error) {
	payload, rest, err := DecodeBytes(buf)
	if err != nil {
		return 0, nil, err
	}
	if len(payload) > 8 {
		return 0, nil, ErrOverflow
	}
	if len(payload) > 0 && payload[0] == 0 {
		return 0, nil, ErrLeadingZero
	}
	var v uint64
	for _, b := range payload {
		v = v<<8 | uint64(b)
	}
	return v, rest, nil
}

// DecodeExactBytes decodes a single RLP string item and fails if any bytes
// remain afterwards.
func DecodeExactBytes(buf []byte) ([]byte, error) {
	value, rest, err := DecodeBytes(buf)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrUnexpectedLength
	}
	return value, nil
}

// DecodeExactList decodes a single RLP list item and fails if any bytes
// remain afterwards.
func DecodeExactList(buf []byte) ([][]byte, error) {
	items, rest, err := DecodeList(buf)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrUnexpectedLength
	}
	return items, nil
}

// EncodeBytes appends the canonical RLP encoding of b to dst and returns the
// extended slice. A single byte below 0x80 is encoded as itself.
func EncodeBytes(dst []byte, b []byte) []byte {
	if len(b) == 1 && b[0] <= strSingleByteMax {
		return append(dst, b[0])
	}
	dst = appendStringHeader(dst, len(b))
	return append(dst, b...)
}

func appendStringHeader(dst []byte, payloadLen int) []byte {
	if payloadLen < 56 {
		return append(dst, strShortBase+byte(payloadLen))
	}
	lenBytes := minimalBigEndian(uint64(payloadLen))
	dst = append(dst, strLongBase+byte(len(lenBytes)-1))
	return append(dst, lenBytes...)
}

// EncodeListFromEncodedItems appends the canonical RLP encoding of a list
// to dst, given the already-RLP-encoded bytes of each item.
func EncodeListFromEncodedItems(dst []byte, items [][]byte) []byte {
	payloadLen := 0
	for _, item := range items {
		payloadLen += len(item)
	}
	dst = appendListHeader(dst, payloadLen)
	for _, item := range items {
		dst = append(dst, item...)
	}
	return dst
}

func appendListHeader(dst []byte, payloadLen int) []byte {
	if payloadLen < 56 {
		return append(dst, listShortBase+byte(payloadLen))
	}
	lenBytes := minimalBigEndian(uint64(payloadLen))
	dst = append(dst, listLongBase+byte(len(lenBytes)-1))
	return append(dst, lenBytes...)
}

// EncodeUint64 appends the canonical RLP encoding of n to dst.
func EncodeUint64(dst []byte, n uint64) []byte {
	if n == 0 {
		return append(dst, strShortBase)
	}
	return EncodeBytes(dst, minimalBigEndian(n))
}

// minimalBigEndian returns the trimmed (no leading zero byte) big-endian
// encoding of n. n must be non-zero.
func minimalBigEndian(n uint64) []byte {
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	out := make([]byte, 8-i)
	copy(out, buf[i:])
	return out
}
