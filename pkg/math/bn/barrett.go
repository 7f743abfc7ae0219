package bn

import "math/big"

// Barrett reduces x modulo m.big using the precomputed µ parameter,
// following the source's exact step sequence (spec §4.1):
//
//	q1 = x >> (k-1) words
//	q2 = q1 * µ
//	q3 = q2 >> (k+1) words
//	r1 = x mod b^(k+1)
//	r2 = partial_mul_{k+1}(q3, M)
//	r  = r1 - r2, then up to two conditional subtractions of M
//
// For inputs spanning more than 2k words, the source first reduces modulo
// M² using a second modulus object; this function does the same with a
// plain big.Int reduction mod M² before the steps above (this is the
// public-input reduction path, not the constant-time default used by Scope,
// which instead delegates to saferith's Montgomery reduction).
func (m *Modulus) Barrett(x *big.Int) *big.Int {
	k := m.k
	wordShift := uint(wordBits)
	if x.BitLen() > 2*k*int(wordShift) {
		m2 := new(big.Int).Mul(m.big, m.big)
		x = new(big.Int).Mod(x, m2)
	}

	q1 := new(big.Int).Rsh(x, wordShift*uint(k-1))
	q2 := new(big.Int).Mul(q1, m.mu)
	q3 := new(big.Int).Rsh(q2, wordShift*uint(k+1))

	bk1 := new(big.Int).Lsh(big.NewInt(1), wordShift*uint(k+1))
	r1 := new(big.Int).Mod(x, bk1)

	r2 := new(big.Int).Mul(q3, m.big)
	r2.Mod(r2, bk1)

	r := new(big.Int).Sub(r1, r2)
	if r.Sign() < 0 {
		r.Add(r, bk1)
	}

	for i := 0; i < 2; i++ {
		if r.Cmp(m.big) >= 0 {
			r.Sub(r, m.big)
		}
	}
	return r
}
