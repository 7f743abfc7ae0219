package buf

import "github.com/sigilcrypto/mpc/pkg/errs"

// Variable-length header encoding for byte-sequence lengths (spec §6):
// one to four header bytes. The first three carry 7 payload bits each with
// the top bit as a continuation flag; the fourth has no continuation flag
// and carries 8 payload bits, giving 7/14/21/29-bit length ranges.

const maxVarintLen = 4

// PutVarint appends the length-prefix header for n to dst and returns the
// extended slice.
func PutVarint(dst []byte, n uint32) ([]byte, error) {
	if n >= 1<<29 {
		return nil, errs.New(errs.BadArgument, "buf.PutVarint", "length too large to encode")
	}
	for i := 0; ; i++ {
		if i == maxVarintLen-1 {
			return append(dst, byte(n)), nil
		}
		b := byte(n & 0x7f)
		n >>= 7
		if n == 0 {
			return append(dst, b), nil
		}
		dst = append(dst, b|0x80)
	}
}

// GetVarint decodes a length-prefix header from the front of src, returning
// the decoded length and the number of header bytes consumed.
func GetVarint(src []byte) (uint32, int, error) {
	var n uint32
	for i := 0; i < maxVarintLen; i++ {
		if i >= len(src) {
			return 0, 0, errs.New(errs.Format, "buf.GetVarint", "truncated length prefix")
		}
		b := src[i]
		if i == maxVarintLen-1 {
			n |= uint32(b) << (7 * i)
			return n, i + 1, nil
		}
		n |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return n, i + 1, nil
		}
	}
	return 0, 0, errs.New(errs.Format, "buf.GetVarint", "length prefix exceeds 4 bytes")
}

// PutBytes appends a length-prefixed byte sequence to dst.
func PutBytes(dst []byte, data []byte) []byte {
	out, err := PutVarint(dst, uint32(len(data)))
	if err != nil {
		// len(data) always fits uint32 in practice; a >512MB single field
		// is a caller bug, not a recoverable runtime condition.
		errs.Invariant("buf.PutBytes", err.Error())
	}
	return append(out, data...)
}

// GetBytes reads a length-prefixed byte sequence from the front of src,
// returning the payload and the remaining, unconsumed tail.
func GetBytes(src []byte) (payload, rest []byte, err error) {
	n, hdr, err := GetVarint(src)
	if err != nil {
		return nil, nil, err
	}
	rest = src[hdr:]
	if uint32(len(rest)) < n {
		return nil, nil, errs.New(errs.Format, "buf.GetBytes", "length exceeds remaining buffer")
	}
	return rest[:n], rest[n:], nil
}
