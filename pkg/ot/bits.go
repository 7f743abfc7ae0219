package ot

import (
	"golang.org/x/sync/errgroup"

	"github.com/sigilcrypto/mpc/pkg/core/sym"
)

func bitsToBytes(n int) int { return (n + 7) / 8 }

func getBit(buf []byte, pos int) bool {
	return buf[pos/8]&(1<<uint(pos%8)) != 0
}

func setBit(buf []byte, pos int, v bool) {
	if v {
		buf[pos/8] |= 1 << uint(pos%8)
	} else {
		buf[pos/8] &^= 1 << uint(pos%8)
	}
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// packBits serializes a bool vector into a byte buffer, LSB first within
// each byte (coinbase::bits_t's wire representation).
func packBits(bits []bool) []byte {
	out := make([]byte, bitsToBytes(len(bits)))
	for i, v := range bits {
		if v {
			setBit(out, i, true)
		}
	}
	return out
}

// randomBits samples a fresh bool vector of length n.
func randomBits(n int) ([]bool, error) {
	raw, err := sym.RandomBytes(bitsToBytes(n))
	if err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = getBit(raw, i)
	}
	return out, nil
}

// row256 is a 256-bit row/column of the extension protocol's bit matrices
// (buf256_t in the source).
type row256 [32]byte

func (r row256) xor(other row256) row256 {
	var out row256
	for i := range r {
		out[i] = r[i] ^ other[i]
	}
	return out
}

// transposeWorkers bounds how many goroutines transpose256 fans its column
// computation across; the extension protocol's L can run into the
// thousands of bits, so this keeps idle-goroutine overhead down for small L
// while still parallelizing the common case.
const transposeWorkers = 8

// transpose256 is ot_matrix_transpose: src has 256 rows of lBits bits each;
// the result has lBits rows, each a 256-bit column of src. Each destination
// column depends on every source row but no other destination column, so
// columns are split into transposeWorkers chunks and built concurrently — a
// direct bit-by-bit transpose standing in for the source's SIMD 16x8-block
// routine, which computes the identical matrix, just faster.
func transpose256(src [][]byte, lBits int) []row256 {
	dst := make([]row256, lBits)

	var g errgroup.Group
	chunk := (lBits + transposeWorkers - 1) / transposeWorkers
	if chunk < 1 {
		chunk = 1
	}
	for start := 0; start < lBits; start += chunk {
		start := start
		end := start + chunk
		if end > lBits {
			end = lBits
		}
		g.Go(func() error {
			for j := start; j < end; j++ {
				for i := 0; i < 256; i++ {
					if getBit(src[i], j) {
						setBit(dst[j][:], i, true)
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return dst
}
