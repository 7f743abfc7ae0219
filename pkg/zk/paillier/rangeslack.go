package paillier

import (
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/bn"
	"github.com/sigilcrypto/mpc/pkg/paillier"
)

const rangeSlackLabel = "zk-paillier-range-exp-slack"

// RangeProof proves that the plaintext of a Paillier ciphertext lies in
// [0, q), up to the statistical slack sampleSlack/challengeBits provide
// (spec §4.5 "Paillier-Range-Exp-Slack"). The single-statement case of the
// same wide-challenge, wide-slack Sigma shape Two-Paillier-Equal and
// Paillier-Pedersen-Equal use, with no second representation to check —
// only the ciphertext relation and the response's range.
type RangeProof struct {
	A *big.Int
	Z *big.Int
	R *big.Int
}

// ProveRangeExpSlack proves that cipher (under pub) encrypts x, and that
// 0 <= x < q, given the randomness r used to construct cipher.
func ProveRangeExpSlack(pub *paillier.PublicKey, cipher, x, r, q *big.Int, sid, aux []byte) (*RangeProof, error) {
	k, err := sampleSlack(q)
	if err != nil {
		return nil, err
	}
	kr, err := randomCoprimeToN(pub.N.Big())
	if err != nil {
		return nil, err
	}
	a, err := pub.EncryptWithRandom(k, kr)
	if err != nil {
		return nil, err
	}

	transcript := rangeSlackTranscript(pub.N.Big(), cipher, a, sid, aux)
	e := fiatShamirChallenge(rangeSlackLabel, transcript)

	z := new(big.Int).Add(k, new(big.Int).Mul(e, x))

	scope := bn.NewScope(pub.N)
	rE := scope.Exp(bn.NatFromBig(r, pub.N.BitLen()), bn.NatFromBig(e, pub.N.BitLen()))
	zr := bn.Big(scope.Mul(bn.NatFromBig(kr, pub.N.BitLen()), rE))

	return &RangeProof{A: a, Z: z, R: zr}, nil
}

// VerifyRangeExpSlack checks a RangeProof against cipher and q.
func VerifyRangeExpSlack(pub *paillier.PublicKey, cipher *big.Int, proof *RangeProof, q *big.Int, sid, aux []byte) error {
	transcript := rangeSlackTranscript(pub.N.Big(), cipher, proof.A, sid, aux)
	e := fiatShamirChallenge(rangeSlackLabel, transcript)

	if err := checkSlackEquation(pub, cipher, proof.A, proof.Z, proof.R, e); err != nil {
		return err
	}
	if proof.Z.Sign() < 0 || proof.Z.Cmp(slackRangeBound(q)) >= 0 {
		return errs.New(errs.Range, "paillier.VerifyRangeExpSlack", "response out of range")
	}
	return nil
}

func rangeSlackTranscript(n, cipher, a *big.Int, sid, aux []byte) []byte {
	return digest(rangeSlackLabel+"-transcript", n.Bytes(), cipher.Bytes(), a.Bytes(), sid, aux)
}
