// Package buf implements the owned/viewed byte-buffer primitives and the
// length-prefixed variable-integer codec used for every binary round-trip
// in this module (spec §3 "Byte buffer", §6 "Serialisation").
//
// Go's garbage-collected byte slices already give us the small-buffer /
// heap split the source's Buf class hand-rolls, so Buf here is a thin,
// zeroing-on-release wrapper rather than a reimplementation of SBO.
package buf

import (
	"github.com/sigilcrypto/mpc/pkg/errs"
)

// Buf is an owned, resizeable byte sequence.
type Buf struct {
	b []byte
}

// New wraps a copy of data.
func New(data []byte) *Buf {
	b := &Buf{b: append([]byte(nil), data...)}
	return b
}

// NewSize allocates a zeroed buffer of n bytes.
func NewSize(n int) *Buf {
	return &Buf{b: make([]byte, n)}
}

// Bytes returns the underlying slice. Callers must not retain it past a
// Release.
func (b *Buf) Bytes() []byte { return b.b }

// Len returns the number of bytes held.
func (b *Buf) Len() int { return len(b.b) }

// Release zeroes the buffer's memory and drops the reference, mirroring
// the source's explicit zeroize-on-free discipline for secret material.
func (b *Buf) Release() {
	for i := range b.b {
		b.b[i] = 0
	}
	b.b = nil
}

// View is a non-owning reference to a byte range, analogous to the source's
// buf_t view over externally owned memory.
type View struct {
	data []byte
}

// NewView wraps data without copying.
func NewView(data []byte) View { return View{data: data} }

// Bytes returns the viewed slice.
func (v View) Bytes() []byte { return v.data }

// Len returns the number of viewed bytes.
func (v View) Len() int { return len(v.data) }

// MultiView is a batched view of several sub-buffers laid out contiguously,
// with an external size table — the source's mem_t array passed across the
// FFI boundary without per-element copies.
type MultiView struct {
	data  []byte
	sizes []int
}

// NewMultiView builds a MultiView from concatenated data and a size table
// whose entries must sum to len(data).
func NewMultiView(data []byte, sizes []int) (MultiView, error) {
	total := 0
	for _, s := range sizes {
		if s < 0 {
			return MultiView{}, errs.New(errs.BadArgument, "buf.NewMultiView", "negative size")
		}
		total += s
	}
	if total != len(data) {
		return MultiView{}, errs.New(errs.BadArgument, "buf.NewMultiView", "sizes do not sum to data length")
	}
	return MultiView{data: data, sizes: sizes}, nil
}

// Len returns the number of sub-buffers.
func (m MultiView) Len() int { return len(m.sizes) }

// At returns the i-th sub-buffer view.
func (m MultiView) At(i int) (View, error) {
	if i < 0 || i >= len(m.sizes) {
		return View{}, errs.New(errs.BadArgument, "buf.MultiView.At", "index out of range")
	}
	off := 0
	for j := 0; j < i; j++ {
		off += m.sizes[j]
	}
	return NewView(m.data[off : off+m.sizes[i]]), nil
}

// Buf128 is a fixed 16-byte value (cb-mpc's buf128_t), used for 128-bit
// masks, IVs and session identifiers without a heap allocation.
type Buf128 [16]byte

// Buf256 is a fixed 32-byte value (cb-mpc's buf256_t), used for hash
// digests, AES-256 keys and RIDs.
type Buf256 [32]byte

// Xor returns a ^ b.
func (a Buf128) Xor(b Buf128) Buf128 {
	var out Buf128
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// Xor returns a ^ b.
func (a Buf256) Xor(b Buf256) Buf256 {
	var out Buf256
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}
