// Package elgamalcom implements the UC-ElGamal-Com proof family (spec
// §4.5), grounded on original_source's src/cbmpc/zk/zk_elgamal_com.h:
// uc_elgamal_com_t, elgamal_com_pub_share_equ_t, elgamal_com_mult_t, and
// uc_elgamal_com_mult_private_scalar_t.
package elgamalcom

import (
	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/elgamalcom"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/zk/dh"
	"github.com/sigilcrypto/mpc/pkg/zk/fischlin"
)

func transcriptDigest(label string, parts ...[]byte) []byte {
	ro := hash.NewRO(label + "-transcript")
	ro.Absorb(parts...)
	return ro.Read(32)
}

const ucLabel = "zk-uc-elgamal-com"

// ucParams is uc_elgamal_com_t's fixed Fischlin triple (22, 6, 11).
func ucParams() fischlin.Params { return fischlin.Params{Repetitions: 22, ZeroBits: 6, MaxExponent: 11} }

// Proof is a UC-ElGamal-Com proof of knowledge of (x, r) with
// (L, R) = (r*G, x*G + r*Q).
type Proof struct {
	A  []curve.Point // commitment to r, mirrors L
	B  []curve.Point // commitment to (x, r), mirrors R
	E  []uint32
	Z1 []curve.Scalar // response for r
	Z2 []curve.Scalar // response for x
}

type driver struct {
	group curve.Curve
	Q     curve.Point
	com   *elgamalcom.Commitment
	x, r  curve.Scalar
	sid   []byte
	aux   []byte

	kr, kx     []curve.Scalar
	commitsA   []curve.Point
	commitsB   []curve.Point
	transcript []byte
	workingZ1  curve.Scalar
	workingZ2  curve.Scalar

	acceptedE  []uint32
	acceptedZ1 []curve.Scalar
	acceptedZ2 []curve.Scalar
}

func newDriver(group curve.Curve, Q curve.Point, com *elgamalcom.Commitment, x, r curve.Scalar, sid, aux []byte, repetitions int) *driver {
	return &driver{
		group:      group,
		Q:          Q,
		com:        com,
		x:          x,
		r:          r,
		sid:        sid,
		aux:        aux,
		acceptedE:  make([]uint32, repetitions),
		acceptedZ1: make([]curve.Scalar, repetitions),
		acceptedZ2: make([]curve.Scalar, repetitions),
	}
}

func (d *driver) Initialise() error {
	n := len(d.acceptedE)
	d.kr = make([]curve.Scalar, n)
	d.kx = make([]curve.Scalar, n)
	d.commitsA = make([]curve.Point, n)
	d.commitsB = make([]curve.Point, n)
	for i := 0; i < n; i++ {
		kr, err := curve.RandomScalar(d.group)
		if err != nil {
			return err
		}
		kx, err := curve.RandomScalar(d.group)
		if err != nil {
			return err
		}
		d.kr[i], d.kx[i] = kr, kx
		d.commitsA[i] = d.group.ScalarBaseMul(kr)
		d.commitsB[i] = d.group.MulAdd(kx, kr, d.Q)
	}
	d.transcript = ucTranscript(d.Q, d.com, d.commitsA, d.commitsB, d.sid, d.aux)
	return nil
}

func (d *driver) ResponseBegin(i int) {
	d.workingZ1 = d.kr[i]
	d.workingZ2 = d.kx[i]
}

func (d *driver) Hash(i int, eTag uint32) uint32 {
	return fischlin.RepetitionHash(ucLabel, d.transcript, i, eTag, d.workingZ1.Bytes(), d.workingZ2.Bytes())
}

func (d *driver) Save(i int, eTag uint32) {
	d.acceptedE[i] = eTag
	d.acceptedZ1[i] = d.workingZ1
	d.acceptedZ2[i] = d.workingZ2
}

func (d *driver) ResponseNext(eTag uint32) {
	d.workingZ1 = d.workingZ1.Add(d.r)
	d.workingZ2 = d.workingZ2.Add(d.x)
}

func ucTranscript(Q curve.Point, com *elgamalcom.Commitment, A, B []curve.Point, sid, aux []byte) []byte {
	parts := [][]byte{Q.Bytes(), com.L.Bytes(), com.R.Bytes(), sid, aux}
	for i := range A {
		parts = append(parts, A[i].Bytes(), B[i].Bytes())
	}
	return transcriptDigest(ucLabel, parts...)
}

// Prove proves knowledge of (x, r) with com = (r*G, x*G + r*Q).
func Prove(group curve.Curve, Q curve.Point, com *elgamalcom.Commitment, x, r curve.Scalar, sid, aux []byte) (*Proof, error) {
	params := ucParams()
	d := newDriver(group, Q, com, x, r, sid, aux, params.Repetitions)
	if err := fischlin.Prove(params, d); err != nil {
		return nil, err
	}
	return &Proof{A: d.commitsA, B: d.commitsB, E: d.acceptedE, Z1: d.acceptedZ1, Z2: d.acceptedZ2}, nil
}

// Verify checks a UC-ElGamal-Com proof against Q and com.
func Verify(group curve.Curve, Q curve.Point, com *elgamalcom.Commitment, proof *Proof, sid, aux []byte) error {
	params := ucParams()
	n := params.Repetitions
	if len(proof.A) != n || len(proof.B) != n || len(proof.E) != n || len(proof.Z1) != n || len(proof.Z2) != n {
		return errs.New(errs.Format, "elgamalcom.Verify", "proof has the wrong number of repetitions")
	}
	transcript := ucTranscript(Q, com, proof.A, proof.B, sid, aux)
	recompute := func(i int) uint32 {
		return fischlin.RepetitionHash(ucLabel, transcript, i, proof.E[i], proof.Z1[i].Bytes(), proof.Z2[i].Bytes())
	}
	if err := fischlin.VerifyHashes(params, recompute); err != nil {
		return err
	}

	sigmas, err := fischlin.BatchCoefficients(group, n)
	if err != nil {
		return err
	}

	lLHS := group.NewPoint()
	lRHS := group.NewPoint()
	rLHS := group.NewPoint()
	rRHS := group.NewPoint()
	for i := 0; i < n; i++ {
		sigma := sigmas[i]
		eScalar := challengeScalar(group, proof.E[i])
		lLHS = lLHS.Add(group.ScalarBaseMul(sigma.Mul(proof.Z1[i])))
		lRHS = lRHS.Add(sigma.Mul(eScalar).Act(com.L))
		rLHS = rLHS.Add(group.MulAdd(sigma.Mul(proof.Z2[i]), sigma.Mul(proof.Z1[i]), Q))
		rRHS = rRHS.Add(sigma.Mul(eScalar).Act(com.R))
	}
	lhsL := lLHS.Add(lRHS.Negate())
	lhsR := rLHS.Add(rRHS.Negate())

	aSum := group.NewPoint()
	bSum := group.NewPoint()
	for i := 0; i < n; i++ {
		aSum = aSum.Add(sigmas[i].Act(proof.A[i]))
		bSum = bSum.Add(sigmas[i].Act(proof.B[i]))
	}
	if !lhsL.Equal(aSum) || !lhsR.Equal(bSum) {
		return errs.New(errs.Crypto, "elgamalcom.Verify", "batched linear relation failed")
	}
	return nil
}

// challengeScalar embeds a Fischlin candidate challenge via binary
// doubling, the same curve-agnostic technique pkg/zk/dl uses.
func challengeScalar(group curve.Curve, e uint32) curve.Scalar {
	result := group.NewScalar()
	bit := group.ScalarOne()
	two := group.ScalarOne().Add(group.ScalarOne())
	for i := 0; i < 32; i++ {
		if (e>>uint(i))&1 == 1 {
			result = result.Add(bit)
		}
		bit = bit.Mul(two)
	}
	return result
}

// PubShareEqual proves that an ElGamal commitment's plaintext equals the
// public point A, given the commitment randomness r (spec §4.5
// "ElGamal-Com-PubShare-Equal"). Grounded on zk_elgamal_com.h's
// elgamal_com_pub_share_equ_t, which embeds a plain dh_t: if com =
// (r*G, x*G + r*Q) and x*G = A, then com.R - A = r*Q, so (com.L, com.R-A)
// is exactly a ZK-DH instance (w=r, "A"=com.L, "B"=com.R-A, base=Q).
func PubShareEqual(group curve.Curve, Q, A curve.Point, com *elgamalcom.Commitment, r curve.Scalar, sid, aux []byte) (*dh.Proof, error) {
	diff := com.R.Add(A.Negate())
	return dh.Prove(group, Q, com.L, diff, r, sid, aux)
}

// VerifyPubShareEqual checks a PubShareEqual proof.
func VerifyPubShareEqual(group curve.Curve, Q, A curve.Point, com *elgamalcom.Commitment, proof *dh.Proof, sid, aux []byte) error {
	diff := com.R.Add(A.Negate())
	return dh.Verify(group, Q, com.L, diff, proof, sid, aux)
}
