package fischlin_test

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/zk/fischlin"
)

// dlDriver is a minimal Fischlin driver for "prove knowledge of w with
// Q = w*G" (spec §4.5 UC-DL), used here to exercise the generic engine's
// search loop against a real Sigma protocol rather than a synthetic
// stand-in.
type dlDriver struct {
	group      curve.Curve
	w          curve.Scalar
	label      string
	transcript []byte

	commitments []curve.Point
	randoms     []curve.Scalar

	current int
	working curve.Scalar

	acceptedE []uint32
	acceptedZ []curve.Scalar
}

func newDLDriver(group curve.Curve, w curve.Scalar, label string, transcript []byte, repetitions int) *dlDriver {
	return &dlDriver{
		group:      group,
		w:          w,
		label:      label,
		transcript: transcript,
		acceptedE:  make([]uint32, repetitions),
		acceptedZ:  make([]curve.Scalar, repetitions),
	}
}

func (d *dlDriver) Initialise() error {
	n := len(d.acceptedE)
	d.commitments = make([]curve.Point, n)
	d.randoms = make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		var nonce [32]byte
		if _, err := rand.Read(nonce[:]); err != nil {
			return err
		}
		k := d.group.HashToScalar("dl-test-random", []byte{byte(i)}, nonce[:])
		d.randoms[i] = k
		d.commitments[i] = d.group.ScalarBaseMul(k)
	}
	return nil
}

func (d *dlDriver) ResponseBegin(i int) {
	d.current = i
	d.working = d.randoms[i]
}

func (d *dlDriver) Hash(i int, eTag uint32) uint32 {
	return fischlin.RepetitionHash(d.label, d.transcript, i, eTag, d.working.Bytes())
}

func (d *dlDriver) Save(i int, eTag uint32) {
	d.acceptedE[i] = eTag
	d.acceptedZ[i] = d.working
}

// ResponseNext advances the working response by the witness: z(e'+1) =
// z(e') + w, since the candidate challenges are consecutive integers.
func (d *dlDriver) ResponseNext(eTag uint32) {
	d.working = d.working.Add(d.w)
}

func uint32ToScalar(group curve.Curve, e uint32) curve.Scalar {
	var buf [32]byte
	binary.BigEndian.PutUint32(buf[28:], e)
	s, err := group.NewScalar().SetBytes(buf[:])
	if err != nil {
		panic(err)
	}
	return s
}

func TestProveFindsAnAcceptingChallengeInEveryRepetition(t *testing.T) {
	group := curve.Secp256k1{}
	w := group.HashToScalar("test-witness", []byte("secret"))
	Q := group.ScalarBaseMul(w)

	params := fischlin.Params{Repetitions: 6, ZeroBits: 2, MaxExponent: 10}
	driver := newDLDriver(group, w, "test-dl", Q.Bytes(), params.Repetitions)

	require.NoError(t, fischlin.Prove(params, driver))
	for i := 0; i < params.Repetitions; i++ {
		assert.NotNil(t, driver.acceptedZ[i])
	}
}

func TestVerifyHashesAcceptsGenuineProofAndRejectsTamperedOne(t *testing.T) {
	group := curve.Secp256k1{}
	w := group.HashToScalar("test-witness-2", []byte("secret 2"))
	Q := group.ScalarBaseMul(w)

	params := fischlin.Params{Repetitions: 6, ZeroBits: 2, MaxExponent: 10}
	driver := newDLDriver(group, w, "test-dl-2", Q.Bytes(), params.Repetitions)
	require.NoError(t, fischlin.Prove(params, driver))

	recompute := func(i int) uint32 {
		return fischlin.RepetitionHash("test-dl-2", Q.Bytes(), i, driver.acceptedE[i], driver.acceptedZ[i].Bytes())
	}
	assert.NoError(t, fischlin.VerifyHashes(params, recompute))

	tamperedZ := driver.acceptedZ[0].Add(group.ScalarOne())
	tamperedRecompute := func(i int) uint32 {
		if i == 0 {
			return fischlin.RepetitionHash("test-dl-2", Q.Bytes(), i, driver.acceptedE[i], tamperedZ.Bytes())
		}
		return recompute(i)
	}
	assert.Error(t, fischlin.VerifyHashes(params, tamperedRecompute))
}

func TestBatchedLinearRelationHoldsForGenuineProof(t *testing.T) {
	group := curve.Secp256k1{}
	w := group.HashToScalar("test-witness-3", []byte("secret 3"))
	Q := group.ScalarBaseMul(w)

	params := fischlin.Params{Repetitions: 8, ZeroBits: 2, MaxExponent: 10}
	driver := newDLDriver(group, w, "test-dl-3", Q.Bytes(), params.Repetitions)
	require.NoError(t, fischlin.Prove(params, driver))

	sigmas, err := fischlin.BatchCoefficients(group, params.Repetitions)
	require.NoError(t, err)

	zTerm := group.NewPoint()
	eTerm := group.NewPoint()
	aTerm := group.NewPoint()
	for i := 0; i < params.Repetitions; i++ {
		sigma := sigmas[i]
		zTerm = zTerm.Add(group.ScalarBaseMul(sigma.Mul(driver.acceptedZ[i])))
		eScalar := uint32ToScalar(group, driver.acceptedE[i])
		eTerm = eTerm.Add(sigma.Mul(eScalar).Act(Q))
		aTerm = aTerm.Add(sigma.Act(driver.commitments[i]))
	}

	lhs := zTerm.Add(eTerm.Negate())
	assert.True(t, lhs.Equal(aTerm))
}
