package elgamalcom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/elgamalcom"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	zkelgamalcom "github.com/sigilcrypto/mpc/pkg/zk/elgamalcom"
)

func setupCommitment(group curve.Curve, label string) (curve.Point, *elgamalcom.Commitment, curve.Scalar, curve.Scalar) {
	q := group.HashToScalar(label+"-q", nil)
	Q := group.ScalarBaseMul(q)
	x := group.HashToScalar(label+"-x", nil)
	com, r, err := elgamalcom.Commit(group, Q, x)
	if err != nil {
		panic(err)
	}
	return Q, com, x, r
}

func TestProveAndVerifyRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	Q, com, x, r := setupCommitment(group, "uc-com-1")
	sid, aux := []byte("sid-1"), []byte("aux-1")

	proof, err := zkelgamalcom.Prove(group, Q, com, x, r, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkelgamalcom.Verify(group, Q, com, proof, sid, aux))
}

func TestVerifyRejectsWrongCommitment(t *testing.T) {
	group := curve.Secp256k1{}
	Q, com, x, r := setupCommitment(group, "uc-com-2")
	sid, aux := []byte("sid-2"), []byte("aux-2")

	proof, err := zkelgamalcom.Prove(group, Q, com, x, r, sid, aux)
	require.NoError(t, err)

	_, wrongCom, _, _ := setupCommitment(group, "uc-com-2-wrong")
	assert.Error(t, zkelgamalcom.Verify(group, Q, wrongCom, proof, sid, aux))
}

func TestVerifyRejectsMismatchedSID(t *testing.T) {
	group := curve.Secp256k1{}
	Q, com, x, r := setupCommitment(group, "uc-com-3")
	sid, aux := []byte("sid-3"), []byte("aux-3")

	proof, err := zkelgamalcom.Prove(group, Q, com, x, r, sid, aux)
	require.NoError(t, err)
	assert.Error(t, zkelgamalcom.Verify(group, Q, com, proof, []byte("different-sid"), aux))
}

func TestPubShareEqualRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	Q, com, x, r := setupCommitment(group, "uc-com-4")
	A := group.ScalarBaseMul(x)
	sid, aux := []byte("sid-4"), []byte("aux-4")

	proof, err := zkelgamalcom.PubShareEqual(group, Q, A, com, r, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkelgamalcom.VerifyPubShareEqual(group, Q, A, com, proof, sid, aux))
}

func TestPubShareEqualRejectsWrongPublicShare(t *testing.T) {
	group := curve.Secp256k1{}
	Q, com, _, r := setupCommitment(group, "uc-com-5")
	wrongA := group.ScalarBaseMul(group.HashToScalar("uc-com-5-wrong", nil))
	sid, aux := []byte("sid-5"), []byte("aux-5")

	proof, err := zkelgamalcom.PubShareEqual(group, Q, wrongA, com, r, sid, aux)
	require.NoError(t, err)
	assert.Error(t, zkelgamalcom.VerifyPubShareEqual(group, Q, wrongA, com, proof, sid, aux))
}

func TestMultProveAndVerifyRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	Q, A, _, rA := setupCommitment(group, "uc-mult-1")
	b := group.HashToScalar("uc-mult-1-b", nil)
	B, rB, err := elgamalcom.Commit(group, Q, b)
	require.NoError(t, err)
	rC, err := curve.RandomScalar(group)
	require.NoError(t, err)
	C := A.ScalarMul(b).Rerandomize(group, Q, rC)
	sid, aux := []byte("sid-mult-1"), []byte("aux-mult-1")

	proof, err := zkelgamalcom.ProveMult(group, Q, A, B, C, rB, rC, b, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkelgamalcom.VerifyMult(group, Q, A, B, C, proof, sid, aux))
	_ = rA
}

func TestMultVerifyRejectsTamperedProduct(t *testing.T) {
	group := curve.Secp256k1{}
	Q, A, _, _ := setupCommitment(group, "uc-mult-2")
	b := group.HashToScalar("uc-mult-2-b", nil)
	B, rB, err := elgamalcom.Commit(group, Q, b)
	require.NoError(t, err)
	rC, err := curve.RandomScalar(group)
	require.NoError(t, err)
	C := A.ScalarMul(b).Rerandomize(group, Q, rC)
	sid, aux := []byte("sid-mult-2"), []byte("aux-mult-2")

	proof, err := zkelgamalcom.ProveMult(group, Q, A, B, C, rB, rC, b, sid, aux)
	require.NoError(t, err)

	otherB := group.HashToScalar("uc-mult-2-other-b", nil)
	wrongC := A.ScalarMul(otherB).Rerandomize(group, Q, rC)
	assert.Error(t, zkelgamalcom.VerifyMult(group, Q, A, B, wrongC, proof, sid, aux))
}

func TestMultPrivateScalarProveAndVerifyRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	Q, eA, _, _ := setupCommitment(group, "uc-mps-1")
	c := group.HashToScalar("uc-mps-1-c", nil)
	E := group.ScalarBaseMul(c)
	r0, err := curve.RandomScalar(group)
	require.NoError(t, err)
	eB := eA.ScalarMul(c).Rerandomize(group, Q, r0)
	sid, aux := []byte("sid-mps-1"), []byte("aux-mps-1")

	proof, err := zkelgamalcom.ProveMultPrivateScalar(group, Q, E, eA, eB, c, r0, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkelgamalcom.VerifyMultPrivateScalar(group, Q, E, eA, eB, proof, sid, aux))
}

func TestMultPrivateScalarVerifyRejectsTamperedResult(t *testing.T) {
	group := curve.Secp256k1{}
	Q, eA, _, _ := setupCommitment(group, "uc-mps-2")
	c := group.HashToScalar("uc-mps-2-c", nil)
	E := group.ScalarBaseMul(c)
	r0, err := curve.RandomScalar(group)
	require.NoError(t, err)
	eB := eA.ScalarMul(c).Rerandomize(group, Q, r0)
	sid, aux := []byte("sid-mps-2"), []byte("aux-mps-2")

	proof, err := zkelgamalcom.ProveMultPrivateScalar(group, Q, E, eA, eB, c, r0, sid, aux)
	require.NoError(t, err)

	otherC := group.HashToScalar("uc-mps-2-other-c", nil)
	wrongEB := eA.ScalarMul(otherC).Rerandomize(group, Q, r0)
	assert.Error(t, zkelgamalcom.VerifyMultPrivateScalar(group, Q, E, eA, wrongEB, proof, sid, aux))
}
