package elgamalcom

import (
	"github.com/sigilcrypto/mpc/pkg/elgamalcom"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/zk/fischlin"
)

const mulPrivLabel = "zk-uc-elgamal-com-mult-private-scalar"

// mulPrivParams is uc_elgamal_com_mult_private_scalar_t's fixed Fischlin
// triple (19, 7, 12).
func mulPrivParams() fischlin.Params { return fischlin.Params{Repetitions: 19, ZeroBits: 7, MaxExponent: 12} }

// MultPrivateScalarProof proves E = c*G and eB = ScalarMul(eA, c)
// re-randomized by r0, without requiring knowledge of eA's own randomness
// (spec §4.5 "UC-ElGamalCom-Mult-Private-Scalar"). Grounded on
// zk_elgamal_com.h's uc_elgamal_com_mult_private_scalar_t, whose struct
// stores exactly two per-repetition commitment arrays (A1_tag, A2_tag).
// That shape only makes sense if the two underlying linear relations — one
// for eB.L = c*eA.L + r0*G, one for eB.R = c*eA.R + r0*Q — are folded into a
// single combined relation per repetition; we do that with a verifier-style
// combiner gamma derived once from the public statement via Fiat-Shamir,
// the same way pkg/zk/dl's batch proof folds many witnesses with sigma_i.
type MultPrivateScalarProof struct {
	A1 []curve.Point // commitment to (E = c*G)
	A2 []curve.Point // commitment to the gamma-combined (eB.L, eB.R) relation
	E  []uint32
	Zc []curve.Scalar // response for c
	Zr []curve.Scalar // response for r0
}

func mulPrivCombiner(group curve.Curve, E curve.Point, eA, eB *elgamalcom.Commitment, sid, aux []byte) curve.Scalar {
	return group.HashToScalar(mulPrivLabel+"-gamma", E.Bytes(), eA.L.Bytes(), eA.R.Bytes(), eB.L.Bytes(), eB.R.Bytes(), sid, aux)
}

type mulPrivDriver struct {
	group curve.Curve
	Q     curve.Point
	E     curve.Point
	eA    *elgamalcom.Commitment
	eB    *elgamalcom.Commitment
	c, r0 curve.Scalar
	gamma curve.Scalar
	sid   []byte
	aux   []byte

	kc, kr     []curve.Scalar
	commitsA1  []curve.Point
	commitsA2  []curve.Point
	transcript []byte
	workingZc  curve.Scalar
	workingZr  curve.Scalar

	acceptedE  []uint32
	acceptedZc []curve.Scalar
	acceptedZr []curve.Scalar
}

func newMulPrivDriver(group curve.Curve, Q, E curve.Point, eA, eB *elgamalcom.Commitment, c, r0 curve.Scalar, sid, aux []byte, repetitions int) *mulPrivDriver {
	return &mulPrivDriver{
		group: group, Q: Q, E: E, eA: eA, eB: eB, c: c, r0: r0,
		gamma: mulPrivCombiner(group, E, eA, eB, sid, aux),
		sid:   sid, aux: aux,
		acceptedE:  make([]uint32, repetitions),
		acceptedZc: make([]curve.Scalar, repetitions),
		acceptedZr: make([]curve.Scalar, repetitions),
	}
}

func (d *mulPrivDriver) Initialise() error {
	n := len(d.acceptedE)
	d.kc = make([]curve.Scalar, n)
	d.kr = make([]curve.Scalar, n)
	d.commitsA1 = make([]curve.Point, n)
	d.commitsA2 = make([]curve.Point, n)

	// eB.L = c*eA.L + r0*G  =>  base for c is eA.L, base for r0 is G.
	// eB.R = c*eA.R + r0*Q  =>  base for c is eA.R, base for r0 is Q.
	// Combined: eB.L + gamma*eB.R = r0*(G + gamma*Q) + c*(eA.L + gamma*eA.R).
	gammaQ := d.gamma.Act(d.Q)
	base1 := d.group.Generator().Add(gammaQ) // G + gamma*Q
	base2 := d.eA.L.Add(d.gamma.Act(d.eA.R)) // eA.L + gamma*eA.R

	for i := 0; i < n; i++ {
		kc, err := curve.RandomScalar(d.group)
		if err != nil {
			return err
		}
		kr, err := curve.RandomScalar(d.group)
		if err != nil {
			return err
		}
		d.kc[i], d.kr[i] = kc, kr
		d.commitsA1[i] = d.group.ScalarBaseMul(kc)
		d.commitsA2[i] = kr.Act(base1).Add(kc.Act(base2))
	}
	d.transcript = mulPrivTranscript(d.Q, d.E, d.eA, d.eB, d.commitsA1, d.commitsA2, d.sid, d.aux)
	return nil
}

func (d *mulPrivDriver) ResponseBegin(i int) {
	d.workingZc = d.kc[i]
	d.workingZr = d.kr[i]
}

func (d *mulPrivDriver) Hash(i int, eTag uint32) uint32 {
	return fischlin.RepetitionHash(mulPrivLabel, d.transcript, i, eTag, d.workingZc.Bytes(), d.workingZr.Bytes())
}

func (d *mulPrivDriver) Save(i int, eTag uint32) {
	d.acceptedE[i] = eTag
	d.acceptedZc[i] = d.workingZc
	d.acceptedZr[i] = d.workingZr
}

func (d *mulPrivDriver) ResponseNext(eTag uint32) {
	d.workingZc = d.workingZc.Add(d.c)
	d.workingZr = d.workingZr.Add(d.r0)
}

func mulPrivTranscript(Q, E curve.Point, eA, eB *elgamalcom.Commitment, A1, A2 []curve.Point, sid, aux []byte) []byte {
	parts := [][]byte{Q.Bytes(), E.Bytes(), eA.L.Bytes(), eA.R.Bytes(), eB.L.Bytes(), eB.R.Bytes(), sid, aux}
	for i := range A1 {
		parts = append(parts, A1[i].Bytes(), A2[i].Bytes())
	}
	return transcriptDigest(mulPrivLabel, parts...)
}

// ProveMultPrivateScalar proves E = c*G and eB = ScalarMul(eA, c),
// re-randomized by r0.
func ProveMultPrivateScalar(group curve.Curve, Q, E curve.Point, eA, eB *elgamalcom.Commitment, c, r0 curve.Scalar, sid, aux []byte) (*MultPrivateScalarProof, error) {
	params := mulPrivParams()
	d := newMulPrivDriver(group, Q, E, eA, eB, c, r0, sid, aux, params.Repetitions)
	if err := fischlin.Prove(params, d); err != nil {
		return nil, err
	}
	return &MultPrivateScalarProof{A1: d.commitsA1, A2: d.commitsA2, E: d.acceptedE, Zc: d.acceptedZc, Zr: d.acceptedZr}, nil
}

// VerifyMultPrivateScalar checks a MultPrivateScalarProof.
func VerifyMultPrivateScalar(group curve.Curve, Q, E curve.Point, eA, eB *elgamalcom.Commitment, proof *MultPrivateScalarProof, sid, aux []byte) error {
	params := mulPrivParams()
	n := params.Repetitions
	if len(proof.A1) != n || len(proof.A2) != n || len(proof.E) != n || len(proof.Zc) != n || len(proof.Zr) != n {
		return errs.New(errs.Format, "elgamalcom.VerifyMultPrivateScalar", "proof has the wrong number of repetitions")
	}
	transcript := mulPrivTranscript(Q, E, eA, eB, proof.A1, proof.A2, sid, aux)
	recompute := func(i int) uint32 {
		return fischlin.RepetitionHash(mulPrivLabel, transcript, i, proof.E[i], proof.Zc[i].Bytes(), proof.Zr[i].Bytes())
	}
	if err := fischlin.VerifyHashes(params, recompute); err != nil {
		return err
	}

	sigmas, err := fischlin.BatchCoefficients(group, n)
	if err != nil {
		return err
	}

	gamma := mulPrivCombiner(group, E, eA, eB, sid, aux)
	gammaQ := gamma.Act(Q)
	base1 := group.Generator().Add(gammaQ)
	base2 := eA.L.Add(gamma.Act(eA.R))
	target2 := eB.L.Add(gamma.Act(eB.R))

	lhs1 := group.NewPoint()
	rhs1 := group.NewPoint()
	lhs2 := group.NewPoint()
	rhs2 := group.NewPoint()
	for i := 0; i < n; i++ {
		sigma := sigmas[i]
		eScalar := challengeScalar(group, proof.E[i])
		lhs1 = lhs1.Add(group.ScalarBaseMul(sigma.Mul(proof.Zc[i])))
		rhs1 = rhs1.Add(sigma.Mul(eScalar).Act(E))

		combinedZ := sigma.Mul(proof.Zr[i]).Act(base1).Add(sigma.Mul(proof.Zc[i]).Act(base2))
		lhs2 = lhs2.Add(combinedZ)
		rhs2 = rhs2.Add(sigma.Mul(eScalar).Act(target2))
	}
	diff1 := lhs1.Add(rhs1.Negate())
	diff2 := lhs2.Add(rhs2.Negate())

	a1Sum := group.NewPoint()
	a2Sum := group.NewPoint()
	for i := 0; i < n; i++ {
		a1Sum = a1Sum.Add(sigmas[i].Act(proof.A1[i]))
		a2Sum = a2Sum.Add(sigmas[i].Act(proof.A2[i]))
	}
	if !diff1.Equal(a1Sum) || !diff2.Equal(a2Sum) {
		return errs.New(errs.Crypto, "elgamalcom.VerifyMultPrivateScalar", "batched linear relation failed")
	}
	return nil
}
