package pve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/pve"
)

func TestBatchEncryptVerifyDecryptRoundTrip(t *testing.T) {
	priv, pub, err := pve.GenerateRecipientKey()
	require.NoError(t, err)

	xs := make([]curve.Scalar, 4)
	for i := range xs {
		xs[i], err = curve.RandomScalar(group)
		require.NoError(t, err)
	}

	proof, err := pve.EncryptBatch(group, pub, "batch-label", xs)
	require.NoError(t, err)
	require.NoError(t, pve.VerifyBatch(group, pub, proof))

	recovered, err := pve.DecryptBatch(group, priv, pub, proof)
	require.NoError(t, err)
	require.Len(t, recovered, len(xs))
	for i := range xs {
		assert.True(t, xs[i].Equal(recovered[i]))
	}
}

func TestBatchVerifyRejectsTamperedRevealedVector(t *testing.T) {
	_, pub, err := pve.GenerateRecipientKey()
	require.NoError(t, err)

	xs := []curve.Scalar{mustRandomScalar(t), mustRandomScalar(t)}
	proof, err := pve.EncryptBatch(group, pub, "batch-label", xs)
	require.NoError(t, err)

	for i := range proof.Rows {
		if proof.Rows[i].RevealedX1s != nil {
			proof.Rows[i].RevealedX1s[0] = mustRandomScalar(t)
			break
		}
	}
	assert.Error(t, pve.VerifyBatch(group, pub, proof))
}

func mustRandomScalar(t *testing.T) curve.Scalar {
	t.Helper()
	s, err := curve.RandomScalar(group)
	require.NoError(t, err)
	return s
}
