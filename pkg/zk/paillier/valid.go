package paillier

import (
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/bn"
	"github.com/sigilcrypto/mpc/pkg/paillier"
)

const validLabel = "zk-valid-paillier"

// ValidProof proves N is a well-formed Paillier modulus — the product of
// two distinct primes of similar size, equivalently gcd(N, phi(N)) = 1
// (spec §4.5 "Valid-Paillier"). For each of Params.T rounds the prover,
// who alone knows phi(N), extracts an N-th root of a publicly-derived
// y_i; only a modulus coprime to its own totient admits such roots for
// every y_i with overwhelming probability.
type ValidProof struct {
	X []*big.Int
}

// ProveValid builds a ValidProof for priv's public modulus.
func ProveValid(priv *paillier.PrivateKey, sid, aux []byte) (*ValidProof, error) {
	nInvModPhi := new(big.Int).ModInverse(priv.N.Big(), priv.Phi)
	if nInvModPhi == nil {
		return nil, errs.New(errs.Crypto, "paillier.ProveValid", "N is not coprime to phi(N); not a valid Paillier modulus")
	}

	params := NonInteractiveParams()
	scope := bn.NewScope(priv.N)
	xs := make([]*big.Int, params.T)
	for i := 0; i < params.T; i++ {
		y := validChallengeY(priv.N.Big(), sid, aux, i)
		xs[i] = bn.Big(scope.Exp(bn.NatFromBig(y, priv.N.BitLen()), bn.NatFromBig(nInvModPhi, priv.N.BitLen())))
	}
	return &ValidProof{X: xs}, nil
}

// VerifyValid checks a ValidProof against pub.
func VerifyValid(pub *paillier.PublicKey, proof *ValidProof, sid, aux []byte) error {
	params := NonInteractiveParams()
	if len(proof.X) != params.T {
		return errs.New(errs.Format, "paillier.VerifyValid", "proof has the wrong number of rounds")
	}
	scope := bn.NewScope(pub.N)
	for i := 0; i < params.T; i++ {
		y := validChallengeY(pub.N.Big(), sid, aux, i)
		recomputed := bn.Big(scope.Exp(bn.NatFromBig(proof.X[i], pub.N.BitLen()), bn.NatFromBig(pub.N.Big(), pub.N.BitLen())))
		if recomputed.Cmp(y) != 0 {
			return errs.New(errs.Crypto, "paillier.VerifyValid", "round failed to reproduce y")
		}
	}
	return nil
}

// validChallengeY derives the i-th round's public challenge y_i in Z*_N
// deterministically from N, sid, aux and the round index, rejection-
// sampling until landing on a value coprime to N.
func validChallengeY(n *big.Int, sid, aux []byte, round int) *big.Int {
	for attempt := uint64(0); ; attempt++ {
		ro := hash.NewRO(validLabel + "-y")
		ro.Absorb(n.Bytes(), sid, aux)
		ro.AbsorbUint64(uint64(round))
		ro.AbsorbUint64(attempt)
		digestBytes := ro.Read(n.BitLen()/8 + 16)
		y := new(big.Int).SetBytes(digestBytes)
		y.Mod(y, n)
		if y.Sign() != 0 && new(big.Int).GCD(nil, nil, y, n).Cmp(big.NewInt(1)) == 0 {
			return y
		}
	}
}
