package sym

import (
	"crypto/aes"
	"crypto/cipher"
	"io"

	"github.com/sigilcrypto/mpc/pkg/errs"
)

// DRBG is an AES-CTR deterministic bit generator keyed by a 256-bit seed
// (spec §5 "Randomness"). It stands in for the OS entropy source wherever a
// caller supplies a seed for deterministic re-derivation (test vectors,
// reproducible proofs).
type DRBG struct {
	stream cipher.Stream
}

// NewDRBG seeds a DRBG from a 32-byte key and an optional 16-byte nonce
// (zero-filled if nil). Output is unbounded: callers Read as many bytes as
// needed.
func NewDRBG(key, nonce []byte) *DRBG {
	if len(key) != 32 {
		errs.Invariant("sym.NewDRBG", "seed must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		errs.Invariant("sym.NewDRBG", err.Error())
	}
	iv := make([]byte, aes.BlockSize)
	copy(iv, nonce)
	return &DRBG{stream: cipher.NewCTR(block, iv)}
}

// Read implements io.Reader, filling p with DRBG output.
func (d *DRBG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	d.stream.XORKeyStream(p, p)
	return len(p), nil
}

var _ io.Reader = (*DRBG)(nil)

// Block128 draws a 128-bit output, the DRBG's "128-bit buffer output" mode.
func (d *DRBG) Block128() [16]byte {
	var out [16]byte
	_, _ = d.Read(out[:])
	return out
}

// ScalarBytes draws byteLen+8 bytes (the spec's "extra 64-bit statistical
// margin" for unbiased scalar-mod-q sampling via reduction).
func (d *DRBG) ScalarBytes(byteLen int) []byte {
	out := make([]byte, byteLen+8)
	_, _ = d.Read(out)
	return out
}
