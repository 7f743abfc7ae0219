// Package ot implements 1-out-of-2 oblivious transfer (spec §4.7): a base
// protocol for a handful of instances (PVW-style, grounded on an EC variant
// of the Peikert-Vaikuntanathan-Waters scheme) and an extension protocol
// that stretches u=256 base instances into arbitrarily many, the standard
// two-stage construction this module's other protocols (multiplicative-
// to-additive conversion, among others) build correlated randomness from.
// Grounded directly on original_source/src/cbmpc/protocol/ot.{h,cpp}, read
// in full.
package ot

import (
	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

const baseOTLabel = "cbmpc-ot-base"

func baseGenerators(group curve.Curve, sid []byte) (g0, h0, g1, h1 curve.Point) {
	g0 = group.Generator()
	h0 = group.HashToPoint(baseOTLabel, sid, []byte{1})
	g1 = group.HashToPoint(baseOTLabel, sid, []byte{2})
	h1 = group.HashToPoint(baseOTLabel, sid, []byte{3})
	return
}

func combinePoints(u1 curve.Scalar, p1 curve.Point, u2 curve.Scalar, p2 curve.Point) curve.Point {
	return u1.ActVarTime(p1).Add(u2.ActVarTime(p2))
}

func hashPoint(label string, p curve.Point, bits int) []byte {
	return hash.NewRO(label).Absorb(p.Bytes()).Read(bitsToBytes(bits))
}

// BaseOTMessage1 is the receiver's first message (A, B in the source).
type BaseOTMessage1 struct {
	A, B []curve.Point
}

// BaseOTMessage2 is the sender's response.
type BaseOTMessage2 struct {
	U0, U1 []curve.Point
	V0, V1 [][]byte
}

// BaseOTReceiver is base_ot_protocol_pvw_ctx_t's receiver role.
type BaseOTReceiver struct {
	Group   curve.Curve
	SID     []byte
	Choices []bool
	r       []curve.Scalar
}

// Step1 is step1_R2S: one message per choice bit, each a dual-base
// Diffie-Hellman-style commitment to that bit.
func (recv *BaseOTReceiver) Step1(group curve.Curve, sid []byte, choices []bool) (*BaseOTMessage1, error) {
	recv.Group = group
	recv.SID = sid
	recv.Choices = choices
	m := len(choices)

	g0, h0, g1, h1 := baseGenerators(group, sid)
	recv.r = make([]curve.Scalar, m)
	msg := &BaseOTMessage1{A: make([]curve.Point, m), B: make([]curve.Point, m)}

	for i, bi := range choices {
		r, err := curve.RandomScalar(group)
		if err != nil {
			return nil, err
		}
		recv.r[i] = r
		g, h := g0, h0
		if bi {
			g, h = g1, h1
		}
		msg.A[i] = r.Act(g)
		msg.B[i] = r.Act(h)
	}
	return msg, nil
}

// BaseOTSender is base_ot_protocol_pvw_ctx_t's sender role.
type BaseOTSender struct {
	Group curve.Curve
	SID   []byte
}

// Step2 is step2_S2R: encrypts x0[i]/x1[i] under the receiver's committed
// bit, l bits at a time.
func (s *BaseOTSender) Step2(group curve.Curve, sid []byte, msg1 *BaseOTMessage1, x0, x1 [][]byte, l int) (*BaseOTMessage2, error) {
	if len(x0) != len(x1) {
		return nil, errs.New(errs.BadArgument, "ot.BaseOTSender.Step2", "x0/x1 length mismatch")
	}
	m := len(x0)
	if len(msg1.A) != m || len(msg1.B) != m {
		return nil, errs.New(errs.BadArgument, "ot.BaseOTSender.Step2", "message/input length mismatch")
	}

	g0, h0, g1, h1 := baseGenerators(group, sid)
	msg := &BaseOTMessage2{
		U0: make([]curve.Point, m), U1: make([]curve.Point, m),
		V0: make([][]byte, m), V1: make([][]byte, m),
	}

	for i := 0; i < m; i++ {
		if !msg1.A[i].InSubgroup() || !msg1.B[i].InSubgroup() {
			return nil, errs.New(errs.Crypto, "ot.BaseOTSender.Step2", "receiver message failed subgroup check")
		}

		s0, err := curve.RandomScalar(group)
		if err != nil {
			return nil, err
		}
		t0, err := curve.RandomScalar(group)
		if err != nil {
			return nil, err
		}
		msg.U0[i] = combinePoints(s0, g0, t0, h0)
		x := combinePoints(s0, msg1.A[i], t0, msg1.B[i])
		msg.V0[i] = xorBytes(hashPoint(baseOTLabel+"-v", x, l), x0[i])

		s1, err := curve.RandomScalar(group)
		if err != nil {
			return nil, err
		}
		t1, err := curve.RandomScalar(group)
		if err != nil {
			return nil, err
		}
		msg.U1[i] = combinePoints(s1, g1, t1, h1)
		x = combinePoints(s1, msg1.A[i], t1, msg1.B[i])
		msg.V1[i] = xorBytes(hashPoint(baseOTLabel+"-v", x, l), x1[i])
	}
	return msg, nil
}

// Output is output_R: recovers x[choices[i]] for every instance.
func (recv *BaseOTReceiver) Output(msg2 *BaseOTMessage2, l int) ([][]byte, error) {
	m := len(recv.Choices)
	if len(msg2.U0) != m || len(msg2.U1) != m || len(msg2.V0) != m || len(msg2.V1) != m {
		return nil, errs.New(errs.BadArgument, "ot.BaseOTReceiver.Output", "message length mismatch")
	}

	out := make([][]byte, m)
	for i := 0; i < m; i++ {
		if !msg2.U0[i].InSubgroup() || !msg2.U1[i].InSubgroup() {
			return nil, errs.New(errs.Crypto, "ot.BaseOTReceiver.Output", "sender message failed subgroup check")
		}
		u, v := msg2.U0[i], msg2.V0[i]
		if recv.Choices[i] {
			u, v = msg2.U1[i], msg2.V1[i]
		}
		mask := hashPoint(baseOTLabel+"-v", recv.r[i].ActVarTime(u), l)
		out[i] = xorBytes(mask, v)
	}
	return out, nil
}
