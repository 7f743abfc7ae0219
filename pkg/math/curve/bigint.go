package curve

import "math/big"

// ScalarFromBigInt reduces v modulo the curve's order and embeds it as a
// Scalar, built bit-by-bit via repeated doubling rather than a
// fixed-endianness byte encoding (the same technique RandomScalar's
// callers use for Fischlin challenges) — necessary because secp256k1/P-256
// encode scalars big-endian while Ed25519 is little-endian, so a single
// SetBytes call cannot serve both without knowing which convention applies.
func ScalarFromBigInt(group Curve, v *big.Int) Scalar {
	q := group.Order().Modulus.Big()
	reduced := new(big.Int).Mod(v, q)

	result := group.NewScalar()
	bit := group.ScalarOne()
	two := group.ScalarOne().Add(group.ScalarOne())
	for i := 0; i < reduced.BitLen(); i++ {
		if reduced.Bit(i) == 1 {
			result = result.Add(bit)
		}
		bit = bit.Mul(two)
	}
	return result
}
