package paillier_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	basepaillier "github.com/sigilcrypto/mpc/pkg/paillier"
	"github.com/sigilcrypto/mpc/pkg/pedersen"
	zkpaillier "github.com/sigilcrypto/mpc/pkg/zk/paillier"
)

const testBits = 256

func genKey(t *testing.T) *basepaillier.PrivateKey {
	t.Helper()
	key, err := basepaillier.Generate(testBits)
	require.NoError(t, err)
	return key
}

func TestValidProveAndVerifyRoundTrip(t *testing.T) {
	priv := genKey(t)
	sid, aux := []byte("sid-valid"), []byte("aux-valid")

	proof, err := zkpaillier.ProveValid(priv, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkpaillier.VerifyValid(&priv.PublicKey, proof, sid, aux))
}

func TestValidVerifyRejectsWrongModulus(t *testing.T) {
	priv := genKey(t)
	other := genKey(t)
	sid, aux := []byte("sid-valid-2"), []byte("aux-valid-2")

	proof, err := zkpaillier.ProveValid(priv, sid, aux)
	require.NoError(t, err)
	assert.Error(t, zkpaillier.VerifyValid(&other.PublicKey, proof, sid, aux))
}

func TestZeroProveAndVerifyRoundTrip(t *testing.T) {
	priv := genKey(t)
	r := mustCoprime(t, priv.N.Big())
	cipher, err := priv.EncryptWithRandom(big.NewInt(0), r)
	require.NoError(t, err)
	sid, aux := []byte("sid-zero"), []byte("aux-zero")

	proof, err := zkpaillier.ProveZero(&priv.PublicKey, cipher, r, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkpaillier.VerifyZero(&priv.PublicKey, cipher, proof, sid, aux))
}

func TestZeroVerifyRejectsNonZeroCiphertext(t *testing.T) {
	priv := genKey(t)
	r := mustCoprime(t, priv.N.Big())
	cipher, err := priv.EncryptWithRandom(big.NewInt(0), r)
	require.NoError(t, err)
	sid, aux := []byte("sid-zero-2"), []byte("aux-zero-2")

	proof, err := zkpaillier.ProveZero(&priv.PublicKey, cipher, r, sid, aux)
	require.NoError(t, err)

	nonZeroCipher, _, err := priv.Encrypt(big.NewInt(7))
	require.NoError(t, err)
	assert.Error(t, zkpaillier.VerifyZero(&priv.PublicKey, nonZeroCipher, proof, sid, aux))
}

func mustCoprime(t *testing.T, n *big.Int) *big.Int {
	t.Helper()
	one := big.NewInt(1)
	for {
		r, err := randBelow(n)
		require.NoError(t, err)
		if r.Sign() != 0 && new(big.Int).GCD(nil, nil, r, n).Cmp(one) == 0 {
			return r
		}
	}
}

func randBelow(n *big.Int) (*big.Int, error) {
	return rand.Int(rand.Reader, n)
}

func TestTwoEqualProveAndVerifyRoundTrip(t *testing.T) {
	priv1 := genKey(t)
	priv2 := genKey(t)
	q := big.NewInt(1 << 40)
	x := big.NewInt(12345)
	c1, r1, err := priv1.Encrypt(x)
	require.NoError(t, err)
	c2, r2, err := priv2.Encrypt(x)
	require.NoError(t, err)
	sid, aux := []byte("sid-two-equal"), []byte("aux-two-equal")

	proof, err := zkpaillier.ProveTwoEqual(&priv1.PublicKey, &priv2.PublicKey, c1, c2, x, r1, r2, q, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkpaillier.VerifyTwoEqual(&priv1.PublicKey, &priv2.PublicKey, c1, c2, proof, q, sid, aux))
}

func TestTwoEqualVerifyRejectsDifferentPlaintexts(t *testing.T) {
	priv1 := genKey(t)
	priv2 := genKey(t)
	q := big.NewInt(1 << 40)
	x := big.NewInt(12345)
	c1, r1, err := priv1.Encrypt(x)
	require.NoError(t, err)
	c2, r2, err := priv2.Encrypt(x)
	require.NoError(t, err)
	sid, aux := []byte("sid-two-equal-2"), []byte("aux-two-equal-2")

	proof, err := zkpaillier.ProveTwoEqual(&priv1.PublicKey, &priv2.PublicKey, c1, c2, x, r1, r2, q, sid, aux)
	require.NoError(t, err)

	otherC2, _, err := priv2.Encrypt(big.NewInt(999))
	require.NoError(t, err)
	assert.Error(t, zkpaillier.VerifyTwoEqual(&priv1.PublicKey, &priv2.PublicKey, c1, otherC2, proof, q, sid, aux))
}

func TestTwoEqualBatchProveAndVerifyRoundTrip(t *testing.T) {
	priv1 := genKey(t)
	priv2 := genKey(t)
	q := big.NewInt(1 << 40)
	xs := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}

	ciphers1 := make([]*big.Int, len(xs))
	ciphers2 := make([]*big.Int, len(xs))
	r1s := make([]*big.Int, len(xs))
	r2s := make([]*big.Int, len(xs))
	for i, x := range xs {
		c1, r1, err := priv1.Encrypt(x)
		require.NoError(t, err)
		c2, r2, err := priv2.Encrypt(x)
		require.NoError(t, err)
		ciphers1[i], r1s[i] = c1, r1
		ciphers2[i], r2s[i] = c2, r2
	}
	sid, aux := []byte("sid-batch"), []byte("aux-batch")

	proof, err := zkpaillier.ProveTwoEqualBatch(&priv1.PublicKey, &priv2.PublicKey, ciphers1, ciphers2, xs, r1s, r2s, q, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkpaillier.VerifyTwoEqualBatch(&priv1.PublicKey, &priv2.PublicKey, ciphers1, ciphers2, proof, q, sid, aux))
}

func TestRangeExpSlackProveAndVerifyRoundTrip(t *testing.T) {
	priv := genKey(t)
	q := big.NewInt(1 << 40)
	x := big.NewInt(555)
	cipher, r, err := priv.Encrypt(x)
	require.NoError(t, err)
	sid, aux := []byte("sid-range"), []byte("aux-range")

	proof, err := zkpaillier.ProveRangeExpSlack(&priv.PublicKey, cipher, x, r, q, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkpaillier.VerifyRangeExpSlack(&priv.PublicKey, cipher, proof, q, sid, aux))
}

func TestRangeExpSlackVerifyRejectsWrongCiphertext(t *testing.T) {
	priv := genKey(t)
	q := big.NewInt(1 << 40)
	x := big.NewInt(555)
	cipher, r, err := priv.Encrypt(x)
	require.NoError(t, err)
	sid, aux := []byte("sid-range-2"), []byte("aux-range-2")

	proof, err := zkpaillier.ProveRangeExpSlack(&priv.PublicKey, cipher, x, r, q, sid, aux)
	require.NoError(t, err)

	otherCipher, _, err := priv.Encrypt(big.NewInt(556))
	require.NoError(t, err)
	assert.Error(t, zkpaillier.VerifyRangeExpSlack(&priv.PublicKey, otherCipher, proof, q, sid, aux))
}

func TestPedersenEqualProveAndVerifyRoundTrip(t *testing.T) {
	priv := genKey(t)
	ped, err := pedersen.Generate(256)
	require.NoError(t, err)
	q := big.NewInt(1 << 40)
	x := big.NewInt(777)
	cipher, r, err := priv.Encrypt(x)
	require.NoError(t, err)
	rPed, err := randBelow(ped.N.Big())
	require.NoError(t, err)
	com := ped.Commit(x, rPed)
	sid, aux := []byte("sid-pedersen-equal"), []byte("aux-pedersen-equal")

	proof, err := zkpaillier.ProvePedersenEqual(&priv.PublicKey, ped, cipher, com, x, r, rPed, q, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkpaillier.VerifyPedersenEqual(&priv.PublicKey, ped, cipher, com, proof, q, sid, aux))
}

func TestPedersenEqualVerifyRejectsMismatchedCommitment(t *testing.T) {
	priv := genKey(t)
	ped, err := pedersen.Generate(256)
	require.NoError(t, err)
	q := big.NewInt(1 << 40)
	x := big.NewInt(777)
	cipher, r, err := priv.Encrypt(x)
	require.NoError(t, err)
	rPed, err := randBelow(ped.N.Big())
	require.NoError(t, err)
	com := ped.Commit(x, rPed)
	sid, aux := []byte("sid-pedersen-equal-2"), []byte("aux-pedersen-equal-2")

	proof, err := zkpaillier.ProvePedersenEqual(&priv.PublicKey, ped, cipher, com, x, r, rPed, q, sid, aux)
	require.NoError(t, err)

	wrongCom := ped.Commit(big.NewInt(888), rPed)
	assert.Error(t, zkpaillier.VerifyPedersenEqual(&priv.PublicKey, ped, cipher, wrongCom, proof, q, sid, aux))
}
