// Package dl implements the UC-DL and UC-Batch-DL zero-knowledge proofs
// (spec §4.5), both driven through pkg/zk/fischlin's generic Fischlin
// engine, grounded on original_source's src/cbmpc/zk/zk_dl.{h,cpp} (the
// header lists the same fischlin_prove callback shape this package's
// drivers implement).
package dl

import (
	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/zk/fischlin"
)

const label = "zk-dl"

// Proof is a UC-DL proof of knowledge of w with Q = w*G.
type Proof struct {
	Commitments []curve.Point
	E           []uint32
	Z           []curve.Scalar
}

// driver adapts the single-statement Sigma protocol (A_i = k_i*G, z_i(e') =
// k_i + e'*w) to pkg/zk/fischlin.Driver.
type driver struct {
	group curve.Curve
	w     curve.Scalar
	Q     curve.Point
	sid   []byte
	aux   []byte

	commitments []curve.Point
	randoms     []curve.Scalar
	transcript  []byte

	working curve.Scalar

	acceptedE []uint32
	acceptedZ []curve.Scalar
}

func newDriver(group curve.Curve, w curve.Scalar, Q curve.Point, sid, aux []byte, repetitions int) *driver {
	return &driver{
		group:     group,
		w:         w,
		Q:         Q,
		sid:       sid,
		aux:       aux,
		acceptedE: make([]uint32, repetitions),
		acceptedZ: make([]curve.Scalar, repetitions),
	}
}

func (d *driver) Initialise() error {
	n := len(d.acceptedE)
	d.commitments = make([]curve.Point, n)
	d.randoms = make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		k, err := curve.RandomScalar(d.group)
		if err != nil {
			return err
		}
		d.randoms[i] = k
		d.commitments[i] = d.group.ScalarBaseMul(k)
	}
	d.transcript = buildTranscript(d.Q, d.sid, d.aux, d.commitments)
	return nil
}

func (d *driver) ResponseBegin(i int) { d.working = d.randoms[i] }

func (d *driver) Hash(i int, eTag uint32) uint32 {
	return fischlin.RepetitionHash(label, d.transcript, i, eTag, d.working.Bytes())
}

func (d *driver) Save(i int, eTag uint32) {
	d.acceptedE[i] = eTag
	d.acceptedZ[i] = d.working
}

func (d *driver) ResponseNext(eTag uint32) { d.working = d.working.Add(d.w) }

func buildTranscript(Q curve.Point, sid, aux []byte, commitments []curve.Point) []byte {
	ro := hash.NewRO(label + "-transcript")
	ro.Absorb(Q.Bytes(), sid, aux)
	for _, c := range commitments {
		ro.Absorb(c.Bytes())
	}
	return ro.Read(32)
}

// Prove proves knowledge of w with Q = w*G, bound to sid and aux (spec
// §4.5: "All proofs bind a session identifier and an auxiliary counter").
func Prove(group curve.Curve, Q curve.Point, w curve.Scalar, sid, aux []byte) (*Proof, error) {
	params := fischlin.DLParams()
	d := newDriver(group, w, Q, sid, aux, params.Repetitions)
	if err := fischlin.Prove(params, d); err != nil {
		return nil, err
	}
	return &Proof{Commitments: d.commitments, E: d.acceptedE, Z: d.acceptedZ}, nil
}

// Verify checks a UC-DL proof against Q, sid and aux.
func Verify(group curve.Curve, Q curve.Point, proof *Proof, sid, aux []byte) error {
	params := fischlin.DLParams()
	if len(proof.Commitments) != params.Repetitions || len(proof.E) != params.Repetitions || len(proof.Z) != params.Repetitions {
		return errs.New(errs.Format, "dl.Verify", "proof has the wrong number of repetitions")
	}

	transcript := buildTranscript(Q, sid, aux, proof.Commitments)
	recompute := func(i int) uint32 {
		return fischlin.RepetitionHash(label, transcript, i, proof.E[i], proof.Z[i].Bytes())
	}
	if err := fischlin.VerifyHashes(params, recompute); err != nil {
		return err
	}

	sigmas, err := fischlin.BatchCoefficients(group, params.Repetitions)
	if err != nil {
		return err
	}

	zTerm := group.NewPoint()
	eTerm := group.NewPoint()
	aTerm := group.NewPoint()
	for i := 0; i < params.Repetitions; i++ {
		sigma := sigmas[i]
		zTerm = zTerm.Add(group.ScalarBaseMul(sigma.Mul(proof.Z[i])))
		eTerm = eTerm.Add(sigma.Mul(challengeScalar(group, proof.E[i])).Act(Q))
		aTerm = aTerm.Add(sigma.Act(proof.Commitments[i]))
	}
	lhs := zTerm.Add(eTerm.Negate())
	if !lhs.Equal(aTerm) {
		return errs.New(errs.Crypto, "dl.Verify", "batched linear relation failed")
	}
	return nil
}

// challengeScalar embeds a Fischlin candidate challenge (at most 2^t,
// t < 32) as a curve scalar for the batched relation check, built by
// binary doubling rather than a fixed-endianness byte encoding so it
// works identically across every curve backend's scalar representation.
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
