// Package dh implements ZK-DH (spec §4.5): given Q, A, B prove knowledge
// of w with A = w*G and B = w*Q, grounded on original_source's
// src/cbmpc/zk/zk_ec.h dh_t. Unlike the DL-family proofs this is the
// classical three-move Sigma protocol collapsed by Fiat-Shamir, not driven
// through the Fischlin engine — spec §4.5 calls it out as "(classical
// three-move)" where the others are Fischlin-driven.
package dh

import (
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// Proof stores only the challenge and response; the verifier recomputes
// the commitments from them rather than the prover sending both.
type Proof struct {
	E curve.Scalar
	Z curve.Scalar
}

// Prove proves knowledge of w with A = w*G, B = w*Q.
func Prove(group curve.Curve, Q, A, B curve.Point, w curve.Scalar, sid, aux []byte) (*Proof, error) {
	k, err := curve.RandomScalar(group)
	if err != nil {
		return nil, err
	}
	R1 := group.ScalarBaseMul(k)
	R2 := k.Act(Q)
	e := challenge(group, Q, A, B, R1, R2, sid, aux)
	z := k.Add(e.Mul(w))
	return &Proof{E: e, Z: z}, nil
}

// Verify checks a ZK-DH proof against Q, A, B, sid and aux.
func Verify(group curve.Curve, Q, A, B curve.Point, proof *Proof, sid, aux []byte) error {
	R1 := group.ScalarBaseMul(proof.Z).Add(proof.E.Act(A).Negate())
	R2 := proof.Z.Act(Q).Add(proof.E.Act(B).Negate())
	e := challenge(group, Q, A, B, R1, R2, sid, aux)
	if !e.Equal(proof.E) {
		return errs.New(errs.Crypto, "dh.Verify", "challenge mismatch")
	}
	return nil
}

func challenge(group curve.Curve, Q, A, B, R1, R2 curve.Point, sid, aux []byte) curve.Scalar {
	return group.HashToScalar("zk-dh-challenge", Q.Bytes(), A.Bytes(), B.Bytes(), R1.Bytes(), R2.Bytes(), sid, aux)
}
