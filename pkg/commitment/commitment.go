// Package commitment implements the HMAC-bound hiding commitment scheme
// (spec §4.6), grounded on original_source's
// src/cbmpc/crypto/commitment.h commitment_t.
package commitment

import (
	"crypto/hmac"
	"crypto/rand"

	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/party"
)

// hashSize is the HMAC-SHA-256 digest length embedded at the front of
// every commitment message.
const hashSize = 32

// localSIDSize is the local session identifier's length in bytes (128
// bits, spec §4.6 "freshly sampled 128-bit local SID").
const localSIDSize = 16

// hmacKey is the fixed 16-byte HMAC key spec §4.6 calls for ("a fixed
// 16-byte key"): a domain constant, not a secret, since the commitment's
// hiding property comes from `rand`, not from the key being unknown.
var hmacKey = func() []byte {
	k := hash.SHA256([]byte("sigilcrypto/mpc commitment v1"))
	return k[:16]
}()

// Commitment binds a sequence of encoded values to a random 256-bit string
// and a session context (spec §4.6). The zero value is not usable; build
// one with New, NewWithReceiver, NewWithSID, or NewWithSIDReceiver.
type Commitment struct {
	Rand [32]byte
	Msg  []byte

	externalSID []byte
	localSID    []byte
	pid         party.ID
	receiverPID party.ID
}

// New starts a commitment bound to the committer's party ID, with a local
// SID sampled at Generate time.
func New(pid party.ID) *Commitment {
	return &Commitment{pid: pid}
}

// NewWithReceiver additionally binds the commitment to a specific
// recipient (spec: "receiver_pid is used ... to bind the commitment to a
// specific recipient").
func NewWithReceiver(pid, receiverPID party.ID) *Commitment {
	return &Commitment{pid: pid, receiverPID: receiverPID}
}

// NewWithSID binds the commitment to a caller-supplied session identifier
// instead of sampling a local one; callers are responsible for ensuring
// sid is never reused across two different commitments.
func NewWithSID(sid []byte, pid party.ID) *Commitment {
	return &Commitment{externalSID: sid, pid: pid}
}

// NewWithSIDReceiver combines NewWithSID and NewWithReceiver.
func NewWithSIDReceiver(sid []byte, pid, receiverPID party.ID) *Commitment {
	return &Commitment{externalSID: sid, pid: pid, receiverPID: receiverPID}
}

// Generate samples fresh randomness and computes Msg over values (spec
// §4.6's Comp-1P: commit to a sequence of encoded values).
func (c *Commitment) Generate(values ...[]byte) error {
	if _, err := rand.Read(c.Rand[:]); err != nil {
		return errs.Wrap(errs.Crypto, "commitment.Generate", err)
	}
	return c.generateWithSetRand(values...)
}

func (c *Commitment) generateWithSetRand(values ...[]byte) error {
	if len(c.externalSID) == 0 {
		sid := make([]byte, localSIDSize)
		if _, err := rand.Read(sid); err != nil {
			return errs.Wrap(errs.Crypto, "commitment.Generate", err)
		}
		c.localSID = sid
	}
	c.Msg = c.finalize(values...)
	return nil
}

// Open recomputes the commitment hash over values and reports whether it
// matches Msg (spec: "Opening replays the hash and compares constant-time").
func (c *Commitment) Open(values ...[]byte) error {
	if len(c.externalSID) == 0 {
		if len(c.Msg) != hashSize+localSIDSize {
			return errs.New(errs.Format, "commitment.Open", "message has wrong length for a local-SID commitment")
		}
		c.localSID = c.Msg[hashSize:]
	} else if len(c.Msg) != hashSize {
		return errs.New(errs.Format, "commitment.Open", "message has wrong length for an external-SID commitment")
	}

	expected := c.finalize(values...)
	if !hmac.Equal(expected, c.Msg) {
		return errs.New(errs.Crypto, "commitment.Open", "commitment mismatch")
	}
	return nil
}

// finalize computes combined_hash = HMAC(rand || values || sid || pid ||
// receiver_pid), appending the local SID in the clear when one was
// sampled (the external-SID case needs nothing appended, the verifier
// already has it out of band).
func (c *Commitment) finalize(values ...[]byte) []byte {
	parts := make([][]byte, 0, len(values)+3)
	parts = append(parts, c.Rand[:])
	parts = append(parts, values...)
	if len(c.externalSID) == 0 {
		parts = append(parts, c.localSID)
	} else {
		parts = append(parts, c.externalSID)
	}
	if c.pid != "" {
		parts = append(parts, []byte(c.pid))
	}
	if c.receiverPID != "" {
		parts = append(parts, []byte(c.receiverPID))
	}
	digest := hash.HMAC256(hmacKey, parts...)

	if len(c.externalSID) == 0 {
		out := make([]byte, 0, hashSize+localSIDSize)
		out = append(out, digest[:]...)
		out = append(out, c.localSID...)
		return out
	}
	return digest[:]
}

// Set installs an externally-received rand/msg pair, for the receiver side
// of a protocol round that first collects commitments, then openings.
func (c *Commitment) Set(rnd [32]byte, msg []byte) {
	c.Rand = rnd
	c.Msg = msg
}
