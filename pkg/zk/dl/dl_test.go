package dl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/zk/dl"
)

func TestProveAndVerifyRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	w := group.HashToScalar("dl-test-witness", []byte("secret"))
	Q := group.ScalarBaseMul(w)
	sid := []byte("session-1")
	aux := []byte("aux-1")

	proof, err := dl.Prove(group, Q, w, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, dl.Verify(group, Q, proof, sid, aux))
}

func TestVerifyRejectsWrongStatement(t *testing.T) {
	group := curve.Secp256k1{}
	w := group.HashToScalar("dl-test-witness-2", []byte("secret 2"))
	Q := group.ScalarBaseMul(w)
	sid := []byte("session-2")
	aux := []byte("aux-2")

	proof, err := dl.Prove(group, Q, w, sid, aux)
	require.NoError(t, err)

	otherW := group.HashToScalar("dl-test-witness-other", nil)
	otherQ := group.ScalarBaseMul(otherW)
	assert.Error(t, dl.Verify(group, otherQ, proof, sid, aux))
}

func TestVerifyRejectsMismatchedSIDOrAux(t *testing.T) {
	group := curve.Secp256k1{}
	w := group.HashToScalar("dl-test-witness-3", []byte("secret 3"))
	Q := group.ScalarBaseMul(w)
	sid := []byte("session-3")
	aux := []byte("aux-3")

	proof, err := dl.Prove(group, Q, w, sid, aux)
	require.NoError(t, err)

	assert.Error(t, dl.Verify(group, Q, proof, []byte("wrong-session"), aux))
	assert.Error(t, dl.Verify(group, Q, proof, sid, []byte("wrong-aux")))
}

func TestBatchProveAndVerifyRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	n := 5
	ws := make([]curve.Scalar, n)
	Qs := make([]curve.Point, n)
	for i := 0; i < n; i++ {
		ws[i] = group.HashToScalar("dl-batch-witness", []byte{byte(i)})
		Qs[i] = group.ScalarBaseMul(ws[i])
	}
	sid := []byte("batch-session")
	aux := []byte("batch-aux")

	proof, err := dl.ProveBatch(group, Qs, ws, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, dl.VerifyBatch(group, Qs, proof, sid, aux))
}

func TestBatchVerifyRejectsTamperedWitness(t *testing.T) {
	group := curve.Secp256k1{}
	n := 4
	ws := make([]curve.Scalar, n)
	Qs := make([]curve.Point, n)
	for i := 0; i < n; i++ {
		ws[i] = group.HashToScalar("dl-batch-witness-2", []byte{byte(i)})
		Qs[i] = group.ScalarBaseMul(ws[i])
	}
	sid := []byte("batch-session-2")
	aux := []byte("batch-aux-2")

	proof, err := dl.ProveBatch(group, Qs, ws, sid, aux)
	require.NoError(t, err)

	wrongQs := make([]curve.Point, n)
	copy(wrongQs, Qs)
	wrongWitness := group.HashToScalar("dl-batch-witness-wrong", nil)
	wrongQs[2] = group.ScalarBaseMul(wrongWitness)
	assert.Error(t, dl.VerifyBatch(group, wrongQs, proof, sid, aux))
}

func TestProveBatchRejectsMismatchedLengths(t *testing.T) {
	group := curve.Secp256k1{}
	w := group.HashToScalar("dl-batch-witness-3", nil)
	Q := group.ScalarBaseMul(w)
	_, err := dl.ProveBatch(group, []curve.Point{Q}, []curve.Scalar{w, w}, nil, nil)
	assert.Error(t, err)
}
