// Package test provides deterministic helpers shared by the test suites in
// this module: stable party-ID generation and a seeded reader standing in
// for the OS entropy source so proofs/ciphertexts are reproducible in CI.
package test

import (
	"fmt"

	"github.com/sigilcrypto/mpc/pkg/core/sym"
	"github.com/sigilcrypto/mpc/pkg/party"
)

// PartyIDs returns n deterministic, distinct party IDs "1".."n".
func PartyIDs(n int) party.IDSlice {
	ids := make(party.IDSlice, n)
	for i := range ids {
		ids[i] = party.ID(fmt.Sprintf("%d", i+1))
	}
	return ids
}

// DeterministicRand returns a DRBG seeded with seed, for use wherever a test
// needs reproducible "randomness" instead of crypto/rand.
func DeterministicRand(seed byte) *sym.DRBG {
	var key [32]byte
	for i := range key {
		key[i] = seed
	}
	return sym.NewDRBG(key[:], nil)
}
