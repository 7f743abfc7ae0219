// Package pve implements Publicly Verifiable Encryption (spec §4.10): a
// scalar (or vector of scalars) is encrypted under a recipient's public key
// in a way that anyone — not just the recipient — can verify decrypts to the
// value committed by a public curve point, without learning the scalar
// itself. Grounded on original_source/src/cbmpc/protocol/pve.{h,cpp}'s
// ec_pve_t/ec_pve_batch_t, generalized over a PKI_T recipient-key type the
// way the C++ templates the class on it.
package pve

import (
	"github.com/cloudflare/circl/dh/x25519"

	"github.com/sigilcrypto/mpc/pkg/core/sym"
	"github.com/sigilcrypto/mpc/pkg/errs"
)

// RecipientPrivateKey and RecipientPublicKey instantiate the PKI_T recipient
// key the C++ leaves generic (RSA/ECIES/hybrid, per spec §4.10) as an ECIES
// scheme over circl's X25519 + AES-GCM: the public key is small enough to
// put in row ciphertexts 128 times over without the proof ballooning.
// RSA-OAEP is the spec's other named recipient kind; circl has no classic
// RSA-OAEP-with-blinding implementation to wire it to (its RSA surface is
// blind-signature-only), so that path is left unbuilt rather than faked.
type RecipientPrivateKey [32]byte
type RecipientPublicKey [32]byte

const recipientKeyLabel = "cbmpc-pve-recipient"

// GenerateRecipientKey samples a fresh X25519 keypair.
func GenerateRecipientKey() (RecipientPrivateKey, RecipientPublicKey, error) {
	var priv RecipientPrivateKey
	seed, err := sym.RandomBytes(32)
	if err != nil {
		return priv, RecipientPublicKey{}, err
	}
	copy(priv[:], seed)
	pub, err := recipientPublic(priv)
	return priv, pub, err
}

func recipientPublic(priv RecipientPrivateKey) (RecipientPublicKey, error) {
	var pub RecipientPublicKey
	var sk, pk x25519.Key
	copy(sk[:], priv[:])
	x25519.KeyGen(&pk, &sk)
	copy(pub[:], pk[:])
	return pub, nil
}

// recipientEncrypt is pve_base_encrypt<PKI_T>: a deterministic function of
// (pub, label, plaintext, rho) so verify can recompute a row's ciphertext
// byte-for-byte from revealed randomness without the private key. rho seeds
// an ephemeral X25519 keypair (the ciphertext's "enc" component in HPKE
// terms); the shared secret plus label key an AES-GCM seal with label bound
// as AAD.
func recipientEncrypt(pub RecipientPublicKey, label string, plaintext, rho []byte) ([]byte, error) {
	drbg := rowDRBG(rho, "eph")
	var ephPriv x25519.Key
	if _, err := drbg.Read(ephPriv[:]); err != nil {
		return nil, errs.Wrap(errs.Crypto, "pve.recipientEncrypt", err)
	}
	var ephPub, recipPub, shared x25519.Key
	x25519.KeyGen(&ephPub, &ephPriv)
	copy(recipPub[:], pub[:])
	if !x25519.Shared(&shared, &ephPriv, &recipPub) {
		return nil, errs.New(errs.Crypto, "pve.recipientEncrypt", "low-order point rejected")
	}
	key, err := sym.HKDFExpand(shared[:], transcriptSalt(ephPub[:], pub[:]), []byte(label), 32)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, 12)
	if _, err := drbg.Read(iv); err != nil {
		return nil, errs.Wrap(errs.Crypto, "pve.recipientEncrypt", err)
	}
	ct, err := sym.SealGCM(key, iv, []byte(label), plaintext)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 32+12+len(ct))
	out = append(out, ephPub[:]...)
	out = append(out, iv...)
	out = append(out, ct...)
	return out, nil
}

// recipientDecrypt is pve_base_decrypt<PKI_T>: recovers the plaintext from a
// ciphertext produced by recipientEncrypt using only the private key — rho
// is never needed by the real recipient, only by verify's reproduction path.
func recipientDecrypt(priv RecipientPrivateKey, pub RecipientPublicKey, label string, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < 32+12 {
		return nil, errs.New(errs.Format, "pve.recipientDecrypt", "ciphertext too short")
	}
	var recipPriv, ephPub, shared x25519.Key
	copy(recipPriv[:], priv[:])
	copy(ephPub[:], ciphertext[:32])
	iv := ciphertext[32:44]
	ct := ciphertext[44:]
	if !x25519.Shared(&shared, &recipPriv, &ephPub) {
		return nil, errs.New(errs.Crypto, "pve.recipientDecrypt", "low-order point rejected")
	}
	key, err := sym.HKDFExpand(shared[:], transcriptSalt(ephPub[:], pub[:]), []byte(label), 32)
	if err != nil {
		return nil, err
	}
	return sym.OpenGCM(key, iv, []byte(label), ct)
}

func transcriptSalt(ephPub, pub []byte) []byte {
	salt := make([]byte, 0, len(ephPub)+len(pub))
	salt = append(salt, ephPub...)
	salt = append(salt, pub...)
	return salt
}

// rowDRBG seeds an AES-CTR DRBG from a short seed, expanded to a 256-bit key
// via HKDF, domain-separated by purpose so the same seed used for two
// different draws (e.g. a row's "x" half and its "rho" half) never collides.
func rowDRBG(seed []byte, purpose string) *sym.DRBG {
	key, err := sym.HKDFExpand(seed, nil, []byte(recipientKeyLabel+"-"+purpose), 32)
	if err != nil {
		errs.Invariant("pve.rowDRBG", err.Error())
	}
	return sym.NewDRBG(key, nil)
}
