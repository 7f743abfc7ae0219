package bn

import "github.com/cronokirby/saferith"

// Scope is the explicit replacement for the source's thread-local modular
// scope (spec §5, §9): a Scope binds arithmetic operators to one modulus
// and an explicit vartime flag, instead of a goroutine-global pointer that
// every operator implicitly consults. Callers construct one per modulus and
// pass it to the handful of routines that need it — Go has no ambient
// thread-local storage to abuse in the first place, so this is the natural
// idiom rather than a compromise.
type Scope struct {
	M       *Modulus
	VarTime bool
}

// NewScope binds constant-time arithmetic to m.
func NewScope(m *Modulus) *Scope {
	return &Scope{M: m}
}

// VarTimeScope binds m with the VarTime flag set, marking a scope used for
// public-input operations (spec §4.1: "a separate vartime scope flag").
// Scope's own operators do not read the flag: they run the same saferith
// constant-time code either way.
func VarTimeScope(m *Modulus) *Scope {
	return &Scope{M: m, VarTime: true}
}

// Add returns a+b mod M.
func (s *Scope) Add(a, b *Nat) *Nat {
	return new(Nat).ModAdd(a, b, s.M.sf)
}

// Sub returns a-b mod M.
func (s *Scope) Sub(a, b *Nat) *Nat {
	return new(Nat).ModSub(a, b, s.M.sf)
}

// Neg returns -a mod M.
func (s *Scope) Neg(a *Nat) *Nat {
	return new(Nat).ModNeg(a, s.M.sf)
}

// Mul returns a*b mod M.
func (s *Scope) Mul(a, b *Nat) *Nat {
	return new(Nat).ModMul(a, b, s.M.sf)
}

// Exp returns a^e mod M via saferith's Montgomery-form windowed
// exponentiation (spec §4.1 "exp uses Montgomery-form constant-time
// windowed exponentiation").
func (s *Scope) Exp(a, e *Nat) *Nat {
	return new(Nat).Exp(a, e, s.M.sf)
}

// Reduce returns a mod M.
func (s *Scope) Reduce(a *Nat) *Nat {
	return new(Nat).Mod(a, s.M.sf)
}

// Div returns a * inv(b) mod M (spec §4.1: "div = mul·inv").
func (s *Scope) Div(a, b *Nat, method InverseMethod) (*Nat, error) {
	inv, err := s.Inv(b, method)
	if err != nil {
		return nil, err
	}
	return s.Mul(a, inv), nil
}

// saferithNat is a package-internal helper that builds a Nat with the right
// announced length for this modulus.
func (s *Scope) saferithNat(v uint64) *Nat {
	return new(saferith.Nat).SetUint64(v).Resize(s.M.BitLen())
}
