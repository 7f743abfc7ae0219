package paillier

import (
	"crypto/rand"
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
)

// slackBits is the extra statistical-hiding margin added to a witness's
// known range bound before sampling its blinding factor, and
// challengeBits is the Fiat-Shamir challenge's bit length: together they
// bound the soundness/zero-knowledge tradeoff of every "prove equality of
// a bounded value across two representations" proof in this package
// (Two-Paillier-Equal, Paillier-Pedersen-Equal, Paillier-Range-Exp-Slack,
// PDL) — spec §4.5 calls this family's slack technique out by name in
// Paillier-Range-Exp-Slack, and the others reuse the identical shape.
const slackBits = 128
const challengeBits = 128

// sampleSlack samples uniform randomness in
// [0, bound*2^(slackBits+challengeBits)), the blinding factor for a witness
// known to lie in [0, bound): it exceeds any challenge-times-witness product
// by a factor of 2^slackBits.
func sampleSlack(bound *big.Int) (*big.Int, error) {
	limit := new(big.Int).Lsh(bound, slackBits+challengeBits)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, errs.Wrap(errs.Crypto, "paillier.sampleSlack", err)
	}
	return v, nil
}

// randomCoprimeToN samples uniform randomness in [1, N) coprime to N, the
// Paillier ciphertext-randomness distribution (mirrors pkg/paillier's own
// unexported helper of the same name; duplicated here rather than
// exported across package boundaries for a four-line primitive).
func randomCoprimeToN(n *big.Int) (*big.Int, error) {
	for {
		r, err := rand.Int(rand.Reader, n)
		if err != nil {
			return nil, errs.Wrap(errs.Crypto, "paillier.randomCoprimeToN", err)
		}
		if r.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, r, n).Cmp(big.NewInt(1)) == 0 {
			return r, nil
		}
	}
}

// fiatShamirChallenge derives a challengeBits-wide non-negative integer
// challenge from a transcript digest.
func fiatShamirChallenge(label string, transcript []byte) *big.Int {
	ro := hash.NewRO(label)
	ro.Absorb(transcript)
	bits := ro.Read(challengeBits / 8)
	return new(big.Int).SetBytes(bits)
}

// digest hashes an arbitrary list of byte strings into a fixed transcript
// digest, shared by every proof's challenge derivation in this package.
func digest(label string, parts ...[]byte) []byte {
	ro := hash.NewRO(label)
	ro.Absorb(parts...)
	return ro.Read(32)
}

// slackRangeBound is the maximum a response z = k + e*x can reach given a
// witness bound and the slack/challenge parameters above, used by
// verifiers to reject out-of-range responses.
func slackRangeBound(witnessBound *big.Int) *big.Int {
	bound := new(big.Int).Lsh(witnessBound, slackBits+challengeBits+1)
	return bound
}
