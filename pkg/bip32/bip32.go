// Package bip32 implements non-hardened BIP32-style child key derivation
// over a threshold ECDSA public key (SPEC_FULL.md's supplemented feature,
// grounded on original_source/src/cbmpc/protocol/hd_tree_bip32.{h,cpp}):
// given the group's combined public point Q and a chain code, a path of
// uint32 indices walks the standard CKDpub construction entirely in public
// data, producing a delta scalar that shifts Q (and, party-side, the
// party's own additive key share) the same way for every party without
// any interaction.
package bip32

import (
	"encoding/binary"
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// ChainCode is BIP32's 32-byte chain code, a symmetric secret that feeds
// HMAC-SHA512 at each derivation step.
type ChainCode [32]byte

// Path is a sequence of non-hardened child-derivation indices (bit 31
// clear — hardened indices can't be derived from a public key alone, so
// this type never carries one).
type Path []uint32

// HasDuplicate reports whether two paths in the set are identical
// (bip32_path_t::has_duplicate), the caller's cue that deriving both would
// waste a round of work.
func HasDuplicate(paths []Path) bool {
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		key := pathKey(p)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func pathKey(p Path) string {
	buf := make([]byte, 4*len(p))
	for i, idx := range p {
		binary.BigEndian.PutUint32(buf[4*i:], idx)
	}
	return string(buf)
}

// Root holds one party's share of a BIP32-derivable threshold key: its
// additive share x_share of the signing key Q, and (for a BIP32 "extended
// key" not just a bare pubkey) its additive share k_share of a second
// shared point K used as the derivation's auxiliary commitment. Either
// share can be absent (zero) when the root doesn't need that half.
type Root struct {
	Group curve.Curve
	XShare, KShare curve.Scalar
	Q, K curve.Point
}

// QShare is this party's public contribution to Q.
func (r Root) QShare() curve.Point { return r.Group.ScalarBaseMul(r.XShare) }

// OtherQShare is the counterparties' combined contribution to Q.
func (r Root) OtherQShare() curve.Point { return r.Q.Add(r.QShare().Negate()) }

// Derive walks each path from Q non-hardened (non_hard_derive), returning
// one delta scalar per path: the child public key for path i is
// Q + delta[i]*G, and a party updates its own share the same way —
// x_share_child = x_share + delta[i] (mod q) — so every party's shares
// stay additive without any communication.
func Derive(group curve.Curve, Q curve.Point, chainCode ChainCode, paths []Path) ([]curve.Scalar, error) {
	q := group.Order().Modulus.Big()
	deltas := make([]curve.Scalar, len(paths))

	for i, path := range paths {
		cc := chainCode[:]
		qTemp := Q
		delta := big.NewInt(0)

		for _, index := range path {
			var idxBuf [4]byte
			binary.BigEndian.PutUint32(idxBuf[:], index)
			I := hash.HMAC512(cc, qTemp.Bytes(), idxBuf[:])

			xTemp := new(big.Int).SetBytes(I[:32])
			xTemp.Mod(xTemp, q)
			cc = append([]byte{}, I[32:]...)

			xTempScalar, err := group.DecodeScalar(leftPad(xTemp, 32))
			if err != nil {
				return nil, errs.Wrap(errs.Crypto, "bip32.Derive", err)
			}
			qTemp = qTemp.Add(group.ScalarBaseMul(xTempScalar))

			delta.Add(delta, xTemp)
			delta.Mod(delta, q)
		}

		deltaScalar, err := group.DecodeScalar(leftPad(delta, 32))
		if err != nil {
			return nil, errs.Wrap(errs.Crypto, "bip32.Derive", err)
		}
		deltas[i] = deltaScalar
	}
	return deltas, nil
}

// ChildPublicKey applies a derivation delta to the root public key.
func ChildPublicKey(group curve.Curve, Q curve.Point, delta curve.Scalar) curve.Point {
	return Q.Add(group.ScalarBaseMul(delta))
}

// ChildShare applies a derivation delta to this party's additive key
// share: every party does this locally and the resulting shares are still
// an additive sharing of the child private key.
func ChildShare(xShare, delta curve.Scalar) curve.Scalar {
	return xShare.Add(delta)
}

func leftPad(x *big.Int, n int) []byte {
	b := x.Bytes()
	if len(b) >= n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}
