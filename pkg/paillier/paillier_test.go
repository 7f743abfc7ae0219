package paillier_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/paillier"
)

// testBits keeps key generation fast for unit tests; every test in this
// file runs at 256 bits per prime, not at the 1024-bit conformance size.
const testBits = 256

func genTestKey(t *testing.T) *paillier.PrivateKey {
	t.Helper()
	key, err := paillier.Generate(testBits)
	require.NoError(t, err)
	return key
}

func cmp0(t *testing.T, expected, actual *big.Int) {
	t.Helper()
	assert.Equal(t, 0, expected.Cmp(actual))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	priv := genTestKey(t)
	for _, x := range []int64{0, 1, 42, 1337} {
		plain := big.NewInt(x)
		cipher, _, err := priv.Encrypt(plain)
		require.NoError(t, err)
		got := priv.Decrypt(cipher)
		cmp0(t, plain, got)
	}
}

func TestPublicOnlyEncryptMatchesPrivateDecrypt(t *testing.T) {
	priv := genTestKey(t)
	pub, err := paillier.NewPublicKey(priv.N.Big())
	require.NoError(t, err)

	plain := big.NewInt(12345)
	cipher, _, err := pub.Encrypt(plain)
	require.NoError(t, err)

	cmp0(t, plain, priv.Decrypt(cipher))
}

func TestAddCiphersIsAdditivelyHomomorphic(t *testing.T) {
	priv := genTestKey(t)
	a, b := big.NewInt(7), big.NewInt(35)
	ca, _, err := priv.Encrypt(a)
	require.NoError(t, err)
	cb, _, err := priv.Encrypt(b)
	require.NoError(t, err)

	sum, err := priv.AddCiphers(ca, cb, paillier.DoRerandomize)
	require.NoError(t, err)

	got := priv.Decrypt(sum)
	cmp0(t, new(big.Int).Add(a, b), got)
}

func TestSubCiphersIsHomomorphic(t *testing.T) {
	priv := genTestKey(t)
	a, b := big.NewInt(100), big.NewInt(42)
	ca, _, err := priv.Encrypt(a)
	require.NoError(t, err)
	cb, _, err := priv.Encrypt(b)
	require.NoError(t, err)

	diff, err := priv.SubCiphers(ca, cb, paillier.NoRerandomize)
	require.NoError(t, err)

	got := priv.Decrypt(diff)
	cmp0(t, new(big.Int).Sub(a, b), got)
}

func TestMulScalar(t *testing.T) {
	priv := genTestKey(t)
	plain := big.NewInt(11)
	scalar := big.NewInt(5)
	cipher, _, err := priv.Encrypt(plain)
	require.NoError(t, err)

	product, err := priv.MulScalar(cipher, scalar, paillier.NoRerandomize)
	require.NoError(t, err)

	got := priv.Decrypt(product)
	cmp0(t, new(big.Int).Mul(plain, scalar), got)
}

func TestAddAndSubScalar(t *testing.T) {
	priv := genTestKey(t)
	plain := big.NewInt(9)
	scalar := big.NewInt(4)
	cipher, _, err := priv.Encrypt(plain)
	require.NoError(t, err)

	added, err := priv.AddScalar(cipher, scalar, paillier.NoRerandomize)
	require.NoError(t, err)
	cmp0(t, new(big.Int).Add(plain, scalar), priv.Decrypt(added))

	subbed, err := priv.SubScalar(cipher, scalar, paillier.NoRerandomize)
	require.NoError(t, err)
	cmp0(t, new(big.Int).Sub(plain, scalar), priv.Decrypt(subbed))
}

func TestSubCipherScalar(t *testing.T) {
	priv := genTestKey(t)
	plain := big.NewInt(3)
	scalar := big.NewInt(10)
	cipher, _, err := priv.Encrypt(plain)
	require.NoError(t, err)

	res, err := priv.SubCipherScalar(scalar, cipher, paillier.NoRerandomize)
	require.NoError(t, err)
	cmp0(t, new(big.Int).Sub(scalar, plain), priv.Decrypt(res))
}

func TestRerandomizePreservesPlaintext(t *testing.T) {
	priv := genTestKey(t)
	plain := big.NewInt(99)
	cipher, _, err := priv.Encrypt(plain)
	require.NoError(t, err)

	rerand, err := priv.Rerandomize(cipher)
	require.NoError(t, err)

	assert.NotEqual(t, cipher, rerand)
	cmp0(t, plain, priv.Decrypt(rerand))
}

func TestVerifyCipherAndBatch(t *testing.T) {
	priv := genTestKey(t)
	zero := big.NewInt(0)
	c1, _, err := priv.Encrypt(zero)
	require.NoError(t, err)
	c2, _, err := priv.Encrypt(zero)
	require.NoError(t, err)

	assert.NoError(t, priv.VerifyCipher(c1))
	assert.NoError(t, priv.BatchVerifyCiphers([]*big.Int{c1, c2}))

	assert.Error(t, priv.VerifyCipher(big.NewInt(-1)))
	assert.Error(t, priv.VerifyCipher(priv.NN.Big()))
}

func TestEncryptZeroVectorConformance(t *testing.T) {
	// spec.md conformance vector: encrypt 0; verify_cipher succeeds; decrypt
	// yields 0; add_ciphers(Enc(0), Enc(0)) decrypts to 0; mul_scalar(Enc(0), 5)
	// decrypts to 0.
	priv := genTestKey(t)
	zero := big.NewInt(0)
	c0, _, err := priv.Encrypt(zero)
	require.NoError(t, err)

	require.NoError(t, priv.VerifyCipher(c0))
	cmp0(t, zero, priv.Decrypt(c0))

	added, err := priv.AddCiphers(c0, c0, paillier.NoRerandomize)
	require.NoError(t, err)
	cmp0(t, zero, priv.Decrypt(added))

	scaled, err := priv.MulScalar(c0, big.NewInt(5), paillier.NoRerandomize)
	require.NoError(t, err)
	cmp0(t, zero, priv.Decrypt(scaled))
}
