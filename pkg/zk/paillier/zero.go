package paillier

import (
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/bn"
	"github.com/sigilcrypto/mpc/pkg/paillier"
)

const zeroLabel = "zk-paillier-zero"

// ZeroProof proves a ciphertext encrypts 0, i.e. knowledge of r with
// c = r^N mod N^2 (spec §4.5 "Paillier-Zero"). Params.T rounds of a
// Guillou-Quisquater-style root-extraction Sigma protocol, each
// contributing log_alpha bits of soundness via a packed 13-bit challenge.
type ZeroProof struct {
	A []*big.Int
	Z []*big.Int
}

// ProveZero proves that cipher encrypts 0 under pub, given the randomness
// r used to construct it (cipher = r^N mod N^2).
func ProveZero(pub *paillier.PublicKey, cipher, r *big.Int, sid, aux []byte) (*ZeroProof, error) {
	params := NonInteractiveParams()
	scope := bn.NewScope(pub.N)

	s := make([]*big.Int, params.T)
	a := make([]*big.Int, params.T)
	for i := 0; i < params.T; i++ {
		si, err := randomCoprimeToN(pub.N.Big())
		if err != nil {
			return nil, err
		}
		s[i] = si
		ai, err := pub.EncryptWithRandom(big.NewInt(0), si)
		if err != nil {
			return nil, err
		}
		a[i] = ai
	}

	transcript := zeroTranscript(pub.N.Big(), cipher, a, sid, aux)
	z := make([]*big.Int, params.T)
	for i := 0; i < params.T; i++ {
		e := challengeRoundBig(zeroLabel, transcript, i)
		rE := scope.Exp(bn.NatFromBig(r, pub.N.BitLen()), bn.NatFromBig(e, pub.N.BitLen()))
		z[i] = bn.Big(scope.Mul(bn.NatFromBig(s[i], pub.N.BitLen()), rE))
	}
	return &ZeroProof{A: a, Z: z}, nil
}

// VerifyZero checks a ZeroProof against cipher.
func VerifyZero(pub *paillier.PublicKey, cipher *big.Int, proof *ZeroProof, sid, aux []byte) error {
	params := NonInteractiveParams()
	if len(proof.A) != params.T || len(proof.Z) != params.T {
		return errs.New(errs.Format, "paillier.VerifyZero", "proof has the wrong number of rounds")
	}

	transcript := zeroTranscript(pub.N.Big(), cipher, proof.A, sid, aux)
	for i := 0; i < params.T; i++ {
		e := challengeRoundBig(zeroLabel, transcript, i)
		lhs, err := pub.EncryptWithRandom(big.NewInt(0), proof.Z[i])
		if err != nil {
			return errs.Wrap(errs.Crypto, "paillier.VerifyZero", err)
		}
		cE, err := pub.MulScalar(cipher, e, paillier.NoRerandomize)
		if err != nil {
			return errs.Wrap(errs.Crypto, "paillier.VerifyZero", err)
		}
		rhs, err := pub.AddCiphers(proof.A[i], cE, paillier.NoRerandomize)
		if err != nil {
			return errs.Wrap(errs.Crypto, "paillier.VerifyZero", err)
		}
		if lhs.Cmp(rhs) != 0 {
			return errs.New(errs.Crypto, "paillier.VerifyZero", "round failed")
		}
	}
	return nil
}

func zeroTranscript(n, cipher *big.Int, a []*big.Int, sid, aux []byte) []byte {
	parts := [][]byte{n.Bytes(), cipher.Bytes(), sid, aux}
	for _, ai := range a {
		parts = append(parts, ai.Bytes())
	}
	return digest(zeroLabel+"-transcript", parts...)
}
