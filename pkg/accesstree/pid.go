package accesstree

import "github.com/sigilcrypto/mpc/pkg/math/curve"

const pidLabel = "cbmpc-pid"

// PartyID derives a THRESHOLD child's polynomial evaluation point from its
// node name (spec §9 open question: "party identifier from name ... must
// be a fixed hash-to-scalar"; SPEC_FULL.md decision: PID(name) =
// HashToScalar(curve, "cbmpc-pid" || name)).
func PartyID(group curve.Curve, name string) curve.Scalar {
	return group.HashToScalar(pidLabel, []byte(name))
}
