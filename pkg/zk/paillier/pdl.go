package paillier

import (
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/bn"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/paillier"
)

const pdlLabel = "zk-pdl"

// PDLProof proves that a Paillier ciphertext encrypts the discrete log of
// a curve point (spec §4.5 "PDL"): given Q = x*G and cipher encrypting x
// under pub, prove knowledge of x and the ciphertext randomness linking
// them. The same wide-slack, single-round shape as Two-Paillier-Equal and
// Paillier-Pedersen-Equal, with the curve's scalar-multiplication taking
// the place of the second commitment scheme — the response z bridges both
// sides because G has order q, so reducing z mod q before scalar
// multiplication is automatic and lossless for the group-side check.
type PDLProof struct {
	A1 curve.Point // k*G
	A2 *big.Int    // Paillier commitment to k
	Z  *big.Int
	Zr *big.Int // Paillier response
}

// ProvePDL proves that cipher (under pub) encrypts x, the discrete log of
// Q with respect to group, given the ciphertext randomness r.
func ProvePDL(group curve.Curve, pub *paillier.PublicKey, Q curve.Point, cipher, x, r *big.Int, sid, aux []byte) (*PDLProof, error) {
	q := group.Order().Modulus.Big()
	k, err := sampleSlack(q)
	if err != nil {
		return nil, err
	}
	kr, err := randomCoprimeToN(pub.N.Big())
	if err != nil {
		return nil, err
	}

	kScalar := curve.ScalarFromBigInt(group, k)
	A1 := group.ScalarBaseMul(kScalar)
	A2, err := pub.EncryptWithRandom(k, kr)
	if err != nil {
		return nil, err
	}

	transcript := pdlTranscript(pub.N.Big(), Q, cipher, A1, A2, sid, aux)
	e := fiatShamirChallenge(pdlLabel, transcript)

	z := new(big.Int).Add(k, new(big.Int).Mul(e, x))

	scope := bn.NewScope(pub.N)
	rE := scope.Exp(bn.NatFromBig(r, pub.N.BitLen()), bn.NatFromBig(e, pub.N.BitLen()))
	zr := bn.Big(scope.Mul(bn.NatFromBig(kr, pub.N.BitLen()), rE))

	return &PDLProof{A1: A1, A2: A2, Z: z, Zr: zr}, nil
}

// VerifyPDL checks a PDLProof against Q and cipher.
func VerifyPDL(group curve.Curve, pub *paillier.PublicKey, Q curve.Point, cipher *big.Int, proof *PDLProof, sid, aux []byte) error {
	q := group.Order().Modulus.Big()
	transcript := pdlTranscript(pub.N.Big(), Q, cipher, proof.A1, proof.A2, sid, aux)
	e := fiatShamirChallenge(pdlLabel, transcript)

	if err := checkSlackEquation(pub, cipher, proof.A2, proof.Z, proof.Zr, e); err != nil {
		return err
	}

	zScalar := curve.ScalarFromBigInt(group, proof.Z)
	eScalar := curve.ScalarFromBigInt(group, e)
	lhs := group.ScalarBaseMul(zScalar)
	rhs := proof.A1.Add(eScalar.Act(Q))
	if !lhs.Equal(rhs) {
		return errs.New(errs.Crypto, "paillier.VerifyPDL", "curve relation failed")
	}

	if proof.Z.Sign() < 0 || proof.Z.Cmp(slackRangeBound(q)) >= 0 {
		return errs.New(errs.Range, "paillier.VerifyPDL", "response out of range")
	}
	return nil
}

func pdlTranscript(n *big.Int, Q curve.Point, cipher *big.Int, A1 curve.Point, A2 *big.Int, sid, aux []byte) []byte {
	return digest(pdlLabel+"-transcript", n.Bytes(), Q.Bytes(), cipher.Bytes(), A1.Bytes(), A2.Bytes(), sid, aux)
}
