// Package hash implements the hashing and random-oracle layer: SHA-2/3,
// HMAC, and a domain-separated random oracle used throughout the ZK
// catalogue, Fischlin engine, PVE and TDH2 (spec §2 "Hashing & symmetric
// crypto", §4.6 commitment hashing).
//
// blake3 (zeebo/blake3, the teacher's hash dependency) backs the random
// oracle: it is an XOF, which maps directly onto "derive an arbitrary
// number of challenge/randomness bytes from a transcript" without the
// counter-mode SHA-2 extension the C++ source needs for the same effect.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// SHA256 hashes the concatenation of parts.
func SHA256(parts ...[]byte) [32]byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// SHA512 hashes the concatenation of parts.
func SHA512(parts ...[]byte) [64]byte {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// SHA3_256 hashes the concatenation of parts with SHA3-256.
func SHA3_256(parts ...[]byte) [32]byte {
	h := sha3.New256()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HMAC256 computes HMAC-SHA-256(key, concat(parts)).
func HMAC256(key []byte, parts ...[]byte) [32]byte {
	m := hmac.New(sha256.New, key)
	for _, p := range parts {
		m.Write(p)
	}
	var out [32]byte
	copy(out[:], m.Sum(nil))
	return out
}

// HMAC512 computes HMAC-SHA-512(key, concat(parts)), the MAC BIP32-style
// key derivation runs on (chain code as key, point || index as message).
func HMAC512(key []byte, parts ...[]byte) [64]byte {
	m := hmac.New(sha512.New, key)
	for _, p := range parts {
		m.Write(p)
	}
	var out [64]byte
	copy(out[:], m.Sum(nil))
	return out
}

// RO is a domain-separated random oracle built on a blake3 XOF: it absorbs
// a fixed label plus caller-supplied transcript elements, then can be read
// as an unbounded byte stream. This is the building block for hash-to-curve
// rejection sampling, Fischlin's hash(i, e', z') step, and PVE/TDH2's
// challenge derivation.
type RO struct {
	h *blake3.Hasher
}

// NewRO starts a random oracle domain-separated by label.
func NewRO(label string) *RO {
	h := blake3.New()
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(label)))
	h.Write(lenBuf[:])
	h.Write([]byte(label))
	return &RO{h: h}
}

// Absorb feeds length-prefixed transcript elements into the oracle so that
// "a" || "bc" and "ab" || "c" never collide.
func (r *RO) Absorb(parts ...[]byte) *RO {
	for _, p := range parts {
		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(p)))
		r.h.Write(lenBuf[:])
		r.h.Write(p)
	}
	return r
}

// AbsorbUint64 feeds a single counter value into the oracle, used by
// hash-to-curve's rejection-sampling retry loop and Fischlin's per-candidate
// hash.
func (r *RO) AbsorbUint64(v uint64) *RO {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return r.Absorb(b[:])
}

// Read draws n bytes from the oracle. The underlying hasher is cloned so a
// single RO can be read multiple times at different lengths without
// perturbing earlier reads (blake3's Digest is independently seekable).
func (r *RO) Read(n int) []byte {
	d := r.h.Digest()
	out := make([]byte, n)
	if _, err := d.Read(out); err != nil {
		// blake3's XOF reader never returns an error for bounded reads.
		panic(err)
	}
	return out
}

// Uint32 draws a 32-bit challenge, used by the Fischlin driver's per-epoch
// hash(i, e') check.
func (r *RO) Uint32() uint32 {
	return binary.LittleEndian.Uint32(r.Read(4))
}
