package paillier

import (
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/bn"
	"github.com/sigilcrypto/mpc/pkg/paillier"
)

const twoEqualLabel = "zk-two-paillier-equal"

// TwoEqualProof proves that ciphertexts under two different Paillier keys
// encrypt the same value x, bounded by q (typically a curve order), up to
// statistical slack (spec §4.5 "Two-Paillier-Equal"). One Fiat-Shamir
// round with a wide challenge and a wide blinding factor gives negligible
// soundness/zero-knowledge error directly, without the Params.T
// repetition schedule the small-challenge proofs in this package need.
type TwoEqualProof struct {
	A1 *big.Int
	A2 *big.Int
	Z  *big.Int
	Z1 *big.Int
	Z2 *big.Int
}

// ProveTwoEqual proves that cipher1 (under pub1) and cipher2 (under pub2)
// both encrypt x, bounded by q, given the randomness used for each.
func ProveTwoEqual(pub1, pub2 *paillier.PublicKey, cipher1, cipher2, x, r1, r2, q *big.Int, sid, aux []byte) (*TwoEqualProof, error) {
	k, err := sampleSlack(q)
	if err != nil {
		return nil, err
	}
	k1, err := randomCoprimeToN(pub1.N.Big())
	if err != nil {
		return nil, err
	}
	k2, err := randomCoprimeToN(pub2.N.Big())
	if err != nil {
		return nil, err
	}
	a1, err := pub1.EncryptWithRandom(k, k1)
	if err != nil {
		return nil, err
	}
	a2, err := pub2.EncryptWithRandom(k, k2)
	if err != nil {
		return nil, err
	}

	transcript := twoEqualTranscript(pub1.N.Big(), pub2.N.Big(), cipher1, cipher2, a1, a2, sid, aux)
	e := fiatShamirChallenge(twoEqualLabel, transcript)

	z := new(big.Int).Add(k, new(big.Int).Mul(e, x))

	scope1 := bn.NewScope(pub1.N)
	r1E := scope1.Exp(bn.NatFromBig(r1, pub1.N.BitLen()), bn.NatFromBig(e, pub1.N.BitLen()))
	z1 := bn.Big(scope1.Mul(bn.NatFromBig(k1, pub1.N.BitLen()), r1E))

	scope2 := bn.NewScope(pub2.N)
	r2E := scope2.Exp(bn.NatFromBig(r2, pub2.N.BitLen()), bn.NatFromBig(e, pub2.N.BitLen()))
	z2 := bn.Big(scope2.Mul(bn.NatFromBig(k2, pub2.N.BitLen()), r2E))

	return &TwoEqualProof{A1: a1, A2: a2, Z: z, Z1: z1, Z2: z2}, nil
}

// VerifyTwoEqual checks a TwoEqualProof against cipher1, cipher2 and q.
func VerifyTwoEqual(pub1, pub2 *paillier.PublicKey, cipher1, cipher2 *big.Int, proof *TwoEqualProof, q *big.Int, sid, aux []byte) error {
	transcript := twoEqualTranscript(pub1.N.Big(), pub2.N.Big(), cipher1, cipher2, proof.A1, proof.A2, sid, aux)
	e := fiatShamirChallenge(twoEqualLabel, transcript)

	if err := checkSlackEquation(pub1, cipher1, proof.A1, proof.Z, proof.Z1, e); err != nil {
		return err
	}
	if err := checkSlackEquation(pub2, cipher2, proof.A2, proof.Z, proof.Z2, e); err != nil {
		return err
	}
	if proof.Z.Sign() < 0 || proof.Z.Cmp(slackRangeBound(q)) >= 0 {
		return errs.New(errs.Range, "paillier.VerifyTwoEqual", "response out of range")
	}
	return nil
}

func checkSlackEquation(pub *paillier.PublicKey, cipher, a, z, zr, e *big.Int) error {
	lhs, err := pub.EncryptWithRandom(z, zr)
	if err != nil {
		return errs.Wrap(errs.Crypto, "paillier.checkSlackEquation", err)
	}
	cE, err := pub.MulScalar(cipher, e, paillier.NoRerandomize)
	if err != nil {
		return errs.Wrap(errs.Crypto, "paillier.checkSlackEquation", err)
	}
	rhs, err := pub.AddCiphers(a, cE, paillier.NoRerandomize)
	if err != nil {
		return errs.Wrap(errs.Crypto, "paillier.checkSlackEquation", err)
	}
	if lhs.Cmp(rhs) != 0 {
		return errs.New(errs.Crypto, "paillier.checkSlackEquation", "linear relation failed")
	}
	return nil
}

func twoEqualTranscript(n1, n2, c1, c2, a1, a2 *big.Int, sid, aux []byte) []byte {
	return digest(twoEqualLabel+"-transcript", n1.Bytes(), n2.Bytes(), c1.Bytes(), c2.Bytes(), a1.Bytes(), a2.Bytes(), sid, aux)
}

// BatchTwoEqualProof proves n independent Two-Paillier-Equal statements
// under a single shared challenge, each with its own blinding and
// response (spec §4.5 "Two-Paillier-Equal ... with a batch variant").
type BatchTwoEqualProof struct {
	A1 []*big.Int
	A2 []*big.Int
	Z  []*big.Int
	Z1 []*big.Int
	Z2 []*big.Int
}

// ProveTwoEqualBatch proves that ciphers1[j] (under pub1) and ciphers2[j]
// (under pub2) encrypt the same xs[j], for every j, bounded by q.
func ProveTwoEqualBatch(pub1, pub2 *paillier.PublicKey, ciphers1, ciphers2, xs, r1s, r2s []*big.Int, q *big.Int, sid, aux []byte) (*BatchTwoEqualProof, error) {
	n := len(xs)
	if len(ciphers1) != n || len(ciphers2) != n || len(r1s) != n || len(r2s) != n {
		return nil, errs.New(errs.BadArgument, "paillier.ProveTwoEqualBatch", "mismatched slice lengths")
	}

	k := make([]*big.Int, n)
	k1 := make([]*big.Int, n)
	k2 := make([]*big.Int, n)
	a1 := make([]*big.Int, n)
	a2 := make([]*big.Int, n)
	for j := 0; j < n; j++ {
		kj, err := sampleSlack(q)
		if err != nil {
			return nil, err
		}
		k1j, err := randomCoprimeToN(pub1.N.Big())
		if err != nil {
			return nil, err
		}
		k2j, err := randomCoprimeToN(pub2.N.Big())
		if err != nil {
			return nil, err
		}
		a1j, err := pub1.EncryptWithRandom(kj, k1j)
		if err != nil {
			return nil, err
		}
		a2j, err := pub2.EncryptWithRandom(kj, k2j)
		if err != nil {
			return nil, err
		}
		k[j], k1[j], k2[j], a1[j], a2[j] = kj, k1j, k2j, a1j, a2j
	}

	transcript := batchTwoEqualTranscript(pub1.N.Big(), pub2.N.Big(), ciphers1, ciphers2, a1, a2, sid, aux)
	e := fiatShamirChallenge(twoEqualLabel+"-batch", transcript)

	z := make([]*big.Int, n)
	z1 := make([]*big.Int, n)
	z2 := make([]*big.Int, n)
	scope1 := bn.NewScope(pub1.N)
	scope2 := bn.NewScope(pub2.N)
	for j := 0; j < n; j++ {
		z[j] = new(big.Int).Add(k[j], new(big.Int).Mul(e, xs[j]))
		r1E := scope1.Exp(bn.NatFromBig(r1s[j], pub1.N.BitLen()), bn.NatFromBig(e, pub1.N.BitLen()))
		z1[j] = bn.Big(scope1.Mul(bn.NatFromBig(k1[j], pub1.N.BitLen()), r1E))
		r2E := scope2.Exp(bn.NatFromBig(r2s[j], pub2.N.BitLen()), bn.NatFromBig(e, pub2.N.BitLen()))
		z2[j] = bn.Big(scope2.Mul(bn.NatFromBig(k2[j], pub2.N.BitLen()), r2E))
	}
	return &BatchTwoEqualProof{A1: a1, A2: a2, Z: z, Z1: z1, Z2: z2}, nil
}

// VerifyTwoEqualBatch checks a BatchTwoEqualProof against ciphers1/ciphers2.
func VerifyTwoEqualBatch(pub1, pub2 *paillier.PublicKey, ciphers1, ciphers2 []*big.Int, proof *BatchTwoEqualProof, q *big.Int, sid, aux []byte) error {
	n := len(ciphers1)
	if len(ciphers2) != n || len(proof.A1) != n || len(proof.A2) != n || len(proof.Z) != n || len(proof.Z1) != n || len(proof.Z2) != n {
		return errs.New(errs.Format, "paillier.VerifyTwoEqualBatch", "mismatched slice lengths")
	}

	transcript := batchTwoEqualTranscript(pub1.N.Big(), pub2.N.Big(), ciphers1, ciphers2, proof.A1, proof.A2, sid, aux)
	e := fiatShamirChallenge(twoEqualLabel+"-batch", transcript)
	bound := slackRangeBound(q)

	for j := 0; j < n; j++ {
		if err := checkSlackEquation(pub1, ciphers1[j], proof.A1[j], proof.Z[j], proof.Z1[j], e); err != nil {
			return err
		}
		if err := checkSlackEquation(pub2, ciphers2[j], proof.A2[j], proof.Z[j], proof.Z2[j], e); err != nil {
			return err
		}
		if proof.Z[j].Sign() < 0 || proof.Z[j].Cmp(bound) >= 0 {
			return errs.New(errs.Range, "paillier.VerifyTwoEqualBatch", "response out of range")
		}
	}
	return nil
}

func batchTwoEqualTranscript(n1, n2 *big.Int, c1, c2, a1, a2 []*big.Int, sid, aux []byte) []byte {
	parts := [][]byte{n1.Bytes(), n2.Bytes(), sid, aux}
	for j := range c1 {
		parts = append(parts, c1[j].Bytes(), c2[j].Bytes(), a1[j].Bytes(), a2[j].Bytes())
	}
	return digest(twoEqualLabel+"-batch-transcript", parts...)
}
