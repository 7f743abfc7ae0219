package pve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/pve"
)

var group = curve.Secp256k1{}

func TestEncryptVerifyDecryptRoundTrip(t *testing.T) {
	priv, pub, err := pve.GenerateRecipientKey()
	require.NoError(t, err)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	proof, err := pve.Encrypt(group, pub, "test-label", x)
	require.NoError(t, err)

	require.NoError(t, pve.Verify(group, pub, proof))

	recovered, err := pve.Decrypt(group, priv, pub, proof)
	require.NoError(t, err)
	assert.True(t, x.Equal(recovered))
}

func TestVerifyRejectsTamperedChallenge(t *testing.T) {
	_, pub, err := pve.GenerateRecipientKey()
	require.NoError(t, err)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	proof, err := pve.Encrypt(group, pub, "test-label", x)
	require.NoError(t, err)

	proof.Challenge[0] ^= 0xff
	assert.Error(t, pve.Verify(group, pub, proof))
}

func TestDecryptFailsUnderWrongPrivateKey(t *testing.T) {
	_, pub, err := pve.GenerateRecipientKey()
	require.NoError(t, err)
	otherPriv, _, err := pve.GenerateRecipientKey()
	require.NoError(t, err)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	proof, err := pve.Encrypt(group, pub, "test-label", x)
	require.NoError(t, err)

	_, err = pve.Decrypt(group, otherPriv, pub, proof)
	assert.Error(t, err)
}

func TestEncryptProducesDistinctCiphertextsEachRun(t *testing.T) {
	_, pub, err := pve.GenerateRecipientKey()
	require.NoError(t, err)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	a, err := pve.Encrypt(group, pub, "test-label", x)
	require.NoError(t, err)
	b, err := pve.Encrypt(group, pub, "test-label", x)
	require.NoError(t, err)

	assert.NotEqual(t, a.Challenge, b.Challenge)
}
