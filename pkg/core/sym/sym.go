// Package sym implements the symmetric-crypto leaves of the engine: AES-GCM
// AEAD, an AES-CTR DRBG, PBKDF2 and HKDF (spec §2, §5 "Randomness").
package sym

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// SealGCM encrypts plaintext under key (16/24/32 bytes) with AES-GCM, binding
// aad as additional authenticated data. Used by TDH2 encryption and PVE-AC's
// row wrapper.
func SealGCM(key, iv, aad, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.Wrap(errs.BadArgument, "sym.SealGCM", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, errs.Wrap(errs.BadArgument, "sym.SealGCM", err)
	}
	return gcm.Seal(nil, iv, plaintext, aad), nil
}

// OpenGCM decrypts an AES-GCM ciphertext produced by SealGCM.
func OpenGCM(key, iv, aad, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.Wrap(errs.BadArgument, "sym.OpenGCM", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, errs.Wrap(errs.BadArgument, "sym.OpenGCM", err)
	}
	pt, err := gcm.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, errs.Wrap(errs.Crypto, "sym.OpenGCM", err)
	}
	return pt, nil
}

// HKDFExpand derives n bytes of key material from secret under info, used by
// the PVE recipient's ECIES key and row DRBG seeds, PVE-AC's access-tree
// reconstructed secret -> K derivation, and the OT extension's seed
// expansion. TDH2 derives its key from the random oracle in core/hash instead.
func HKDFExpand(secret, salt, info []byte, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, salt, info)
	out := make([]byte, n)
	if _, err := r.Read(out); err != nil {
		return nil, errs.Wrap(errs.Crypto, "sym.HKDFExpand", err)
	}
	return out, nil
}

// PBKDF2SHA256 derives n bytes from password/salt. No other package in this
// module calls it; the OT extension expands its seeds with HKDFExpand.
func PBKDF2SHA256(password, salt []byte, iter, n int) []byte {
	return pbkdf2.Key(password, salt, iter, n, sha256.New)
}

// RandomBytes draws n bytes from the OS entropy source.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, errs.Wrap(errs.Crypto, "sym.RandomBytes", err)
	}
	return b, nil
}
