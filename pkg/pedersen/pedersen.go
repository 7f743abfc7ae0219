// Package pedersen implements Pedersen commitments over a group of
// unknown order (an RSA-type modulus), grounded on original_source's
// src/cbmpc/protocol/int_commitment.h unknown_order_pedersen_params_t,
// which the Range-Pedersen/Batch-Pedersen and Paillier-Pedersen-Equal
// proofs (spec §4.5) commit their statement under.
package pedersen

import (
	"crypto/rand"
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/bn"
)

// Params are the public parameters (N, g, h) of a Pedersen commitment over
// Z*_N, where N = p·q for safe primes p = 2p'+1, q = 2q'+1 and
// h = g^x mod N for a trapdoor x discarded immediately after generation —
// nobody, including the generator once x is gone, may know log_g(h), which
// is what makes the commitment binding.
type Params struct {
	N *bn.Modulus
	G *big.Int
	H *big.Int
}

// Generate samples fresh parameters with safe primes of the given bit
// length each.
func Generate(bits int) (*Params, error) {
	p, pPrime, err := generateSafePrimePair(bits)
	if err != nil {
		return nil, err
	}
	q, qPrime, err := generateSafePrimePair(bits)
	if err != nil {
		return nil, err
	}
	for p.Cmp(q) == 0 {
		q, qPrime, err = generateSafePrimePair(bits)
		if err != nil {
			return nil, err
		}
	}

	n := new(big.Int).Mul(p, q)
	nMod, err := bn.NewModulus(n, true)
	if err != nil {
		return nil, err
	}

	// order of the group of quadratic residues mod N: p'·q'.
	qrOrder := new(big.Int).Mul(pPrime, qPrime)

	g, err := randomQR(n)
	if err != nil {
		return nil, err
	}
	x, err := rand.Int(rand.Reader, qrOrder)
	if err != nil {
		return nil, errs.Wrap(errs.Crypto, "pedersen.Generate", err)
	}

	scope := bn.NewScope(nMod)
	h := bn.Big(scope.Exp(bn.NatFromBig(g, nMod.BitLen()), bn.NatFromBig(x, nMod.BitLen())))

	return &Params{N: nMod, G: g, H: h}, nil
}

// randomQR samples a uniform element of Z*_N and squares it, landing in
// the quadratic-residue subgroup.
func randomQR(n *big.Int) (*big.Int, error) {
	for {
		r, err := rand.Int(rand.Reader, n)
		if err != nil {
			return nil, errs.Wrap(errs.Crypto, "pedersen.randomQR", err)
		}
		if r.Sign() == 0 || new(big.Int).GCD(nil, nil, r, n).Cmp(big.NewInt(1)) != 0 {
			continue
		}
		return new(big.Int).Mod(new(big.Int).Mul(r, r), n), nil
	}
}

// Commit computes g^m · h^r mod N with m and r taken as integers: the
// exponents are not reduced (the group order is unknown), and a negative
// exponent raises the inverse of the base.
func (p *Params) Commit(m, r *big.Int) *big.Int {
	scope := bn.NewScope(p.N)
	pow := func(base, e *big.Int) *bn.Nat {
		if e.Sign() < 0 {
			base, e = new(big.Int).ModInverse(base, p.N.Big()), new(big.Int).Neg(e)
		}
		return scope.Exp(bn.NatFromBig(base, p.N.BitLen()), bn.NatFromBig(e, p.N.BitLen()+e.BitLen()))
	}
	return bn.Big(scope.Mul(pow(p.G, m), pow(p.H, r)))
}

// Open reports whether (m, r) opens commitment c under p.
func (p *Params) Open(c, m, r *big.Int) bool {
	recomputed := p.Commit(m, r)
	return recomputed.Cmp(c) == 0
}

// Add returns the componentwise product of two commitments, which commits
// to the sum of their plaintexts under the sum of their randomness (the
// Pedersen scheme's additive homomorphism, exercised by the batched
// variants of the range proofs).
func (p *Params) Add(c1, c2 *big.Int) *big.Int {
	scope := bn.NewScope(p.N)
	return bn.Big(scope.Mul(bn.NatFromBig(c1, p.N.BitLen()), bn.NatFromBig(c2, p.N.BitLen())))
}

func reduceNonNegative(v, modulus *big.Int) *big.Int {
	return new(big.Int).Mod(v, modulus)
}
