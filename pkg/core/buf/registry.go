package buf

import "github.com/sigilcrypto/mpc/pkg/errs"

// TypeTag identifies a serialisable type on the wire (spec §9: "registry of
// serialisable types by code" re-architected as a tagged enum instead of a
// global mutable map).
type TypeTag uint16

// Curve tags (spec §6): short-Weierstrass curves reuse their ambient-library
// NID, Ed25519 gets a synthetic tag since it has no OpenSSL NID equivalent
// in the Go ecosystem libraries this module uses.
const (
	CurveSecp256k1 TypeTag = 714 // matches OpenSSL's NID_secp256k1
	CurveP256      TypeTag = 415 // NID_X9_62_prime256v1
	CurveP384      TypeTag = 715 // NID_secp384r1
	CurveP521      TypeTag = 716 // NID_secp521r1
	CurveEd25519   TypeTag = 1 << 15
)

// LookupCurve maps a wire tag to a human-readable name, failing closed for
// anything this build does not recognise — deserialising a point always
// validates the curve tag before attempting to decode the point encoding.
func LookupCurve(tag TypeTag) (string, error) {
	switch tag {
	case CurveSecp256k1:
		return "secp256k1", nil
	case CurveP256:
		return "P-256", nil
	case CurveP384:
		return "P-384", nil
	case CurveP521:
		return "P-521", nil
	case CurveEd25519:
		return "Ed25519", nil
	default:
		return "", errs.New(errs.Format, "buf.LookupCurve", "unknown curve tag")
	}
}
