package dh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/zk/dh"
)

func setup(group curve.Curve, label string) (curve.Scalar, curve.Point, curve.Point, curve.Point) {
	w := group.HashToScalar(label+"-w", nil)
	q := group.HashToScalar(label+"-q", nil)
	Q := group.ScalarBaseMul(q)
	A := group.ScalarBaseMul(w)
	B := w.Act(Q)
	return w, Q, A, B
}

func TestProveAndVerifyRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	w, Q, A, B := setup(group, "dh-test-1")
	sid, aux := []byte("sid-1"), []byte("aux-1")

	proof, err := dh.Prove(group, Q, A, B, w, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, dh.Verify(group, Q, A, B, proof, sid, aux))
}

func TestVerifyRejectsWrongB(t *testing.T) {
	group := curve.Secp256k1{}
	w, Q, A, B := setup(group, "dh-test-2")
	sid, aux := []byte("sid-2"), []byte("aux-2")

	proof, err := dh.Prove(group, Q, A, B, w, sid, aux)
	require.NoError(t, err)

	wrongB := group.ScalarBaseMul(group.HashToScalar("dh-test-2-wrong", nil))
	assert.Error(t, dh.Verify(group, Q, A, wrongB, proof, sid, aux))
}

func TestVerifyRejectsMismatchedAux(t *testing.T) {
	group := curve.Secp256k1{}
	w, Q, A, B := setup(group, "dh-test-3")
	sid, aux := []byte("sid-3"), []byte("aux-3")

	proof, err := dh.Prove(group, Q, A, B, w, sid, aux)
	require.NoError(t, err)
	assert.Error(t, dh.Verify(group, Q, A, B, proof, sid, []byte("different-aux")))
}
