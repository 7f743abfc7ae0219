package elgamalcom

import (
	"github.com/sigilcrypto/mpc/pkg/elgamalcom"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

const multLabel = "zk-elgamal-com-mult"

// MultProof proves that commitment C equals commitment A scalar-multiplied
// by the plaintext b committed in B, re-randomized by r_C (spec §4.5
// "ElGamal-Com-Mult"). Grounded on zk_elgamal_com.h's elgamal_com_mult_t —
// a classical (non-Fischlin) three-move Sigma protocol over three
// witnesses (r_B, r_C, b), stored as (z1, z2, z3, e).
type MultProof struct {
	Z1 curve.Scalar // response for r_B
	Z2 curve.Scalar // response for r_C
	Z3 curve.Scalar // response for b
	E  curve.Scalar
}

// ProveMult proves C = ScalarMul(A, b).Rerandomize(r_C), where
// B = Commit(b, r_B).
func ProveMult(group curve.Curve, Q curve.Point, A, B, C *elgamalcom.Commitment, rB, rC, b curve.Scalar, sid, aux []byte) (*MultProof, error) {
	kRB, err := curve.RandomScalar(group)
	if err != nil {
		return nil, err
	}
	kRC, err := curve.RandomScalar(group)
	if err != nil {
		return nil, err
	}
	kB, err := curve.RandomScalar(group)
	if err != nil {
		return nil, err
	}

	K1 := group.ScalarBaseMul(kRB)
	K2 := group.MulAdd(kB, kRB, Q)
	K3 := kB.Act(A.L).Add(group.ScalarBaseMul(kRC))
	K4 := kB.Act(A.R).Add(kRC.Act(Q))

	e := multChallenge(group, Q, A, B, C, K1, K2, K3, K4, sid, aux)
	z1 := kRB.Add(e.Mul(rB))
	z2 := kRC.Add(e.Mul(rC))
	z3 := kB.Add(e.Mul(b))
	return &MultProof{Z1: z1, Z2: z2, Z3: z3, E: e}, nil
}

// VerifyMult checks a MultProof against A, B, C.
func VerifyMult(group curve.Curve, Q curve.Point, A, B, C *elgamalcom.Commitment, proof *MultProof, sid, aux []byte) error {
	K1 := group.ScalarBaseMul(proof.Z1).Add(proof.E.Act(B.L).Negate())
	K2 := group.MulAdd(proof.Z3, proof.Z1, Q).Add(proof.E.Act(B.R).Negate())
	K3 := proof.Z3.Act(A.L).Add(group.ScalarBaseMul(proof.Z2)).Add(proof.E.Act(C.L).Negate())
	K4 := proof.Z3.Act(A.R).Add(proof.Z2.Act(Q)).Add(proof.E.Act(C.R).Negate())

	e := multChallenge(group, Q, A, B, C, K1, K2, K3, K4, sid, aux)
	if !e.Equal(proof.E) {
		return errs.New(errs.Crypto, "elgamalcom.VerifyMult", "challenge mismatch")
	}
	return nil
}

func multChallenge(group curve.Curve, Q curve.Point, A, B, C *elgamalcom.Commitment, K1, K2, K3, K4 curve.Point, sid, aux []byte) curve.Scalar {
	return group.HashToScalar(multLabel,
		Q.Bytes(), A.L.Bytes(), A.R.Bytes(), B.L.Bytes(), B.R.Bytes(), C.L.Bytes(), C.R.Bytes(),
		K1.Bytes(), K2.Bytes(), K3.Bytes(), K4.Bytes(), sid, aux)
}
