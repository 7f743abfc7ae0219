package pedersen

import (
	"crypto/rand"
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/errs"
)

// generateSafePrimePair samples a safe prime p = 2p'+1 of the given bit
// length, returning both p and its Sophie Germain half p' (needed to
// compute the quadratic-residue subgroup's order p'·q').
func generateSafePrimePair(bits int) (p, pPrime *big.Int, err error) {
	if bits < 16 {
		return nil, nil, errs.New(errs.BadArgument, "pedersen.generateSafePrimePair", "bit length too small")
	}
	one := big.NewInt(1)
	for {
		candidatePrime, genErr := rand.Prime(rand.Reader, bits-1)
		if genErr != nil {
			return nil, nil, errs.Wrap(errs.Crypto, "pedersen.generateSafePrimePair", genErr)
		}
		safe := new(big.Int).Lsh(candidatePrime, 1)
		safe.Add(safe, one)
		if safe.BitLen() != bits {
			continue
		}
		if safe.ProbablyPrime(20) {
			return safe, candidatePrime, nil
		}
	}
}
