package curve

import (
	"crypto/rand"

	"github.com/sigilcrypto/mpc/pkg/errs"
)

// RandomScalar samples a uniform scalar by hashing 64 bytes of fresh
// entropy into the curve's scalar field, the same sample-then-hash
// pattern pkg/math/polynomial uses for its own coefficient sampling. Every
// Sigma-protocol driver in pkg/zk that needs first-move randomness goes
// through this instead of repeating the pattern inline.
func RandomScalar(group Curve) (Scalar, error) {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, errs.Wrap(errs.Crypto, "curve.RandomScalar", err)
	}
	return group.HashToScalar("curve-random-scalar", buf[:]), nil
}
