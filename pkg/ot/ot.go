package ot

import (
	"github.com/sigilcrypto/mpc/pkg/core/sym"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// Protocol is ot_protocol_pvw_ctx_t: the full three-message extended OT,
// composing the PVW base protocol with the IKNP-style extension via the
// standard "OT reversal" — the party that ends up the EXTENSION sender
// plays the BASE protocol's receiver (choosing seedOTCount random bits s),
// and the party that ends up the EXTENSION receiver plays the BASE
// protocol's sender (offering seedOTCount random seed pairs).
type Protocol struct {
	Group curve.Curve
	SID   []byte
}

// SenderState carries the sender's role across the three messages.
type SenderState struct {
	s        []bool
	baseRecv BaseOTReceiver
	sigma    [][]byte
}

// ReceiverState carries the receiver's role across the three messages.
type ReceiverState struct {
	sigma0, sigma1 [][]byte
	ext            ExtensionReceiver
}

// Step1SenderToReceiver is step1_S2R: the real OT sender seeds the base OT
// with a random selector s and sends base-OT receiver message 1.
func (p *Protocol) Step1SenderToReceiver() (*SenderState, *BaseOTMessage1, error) {
	s, err := randomBits(seedOTCount)
	if err != nil {
		return nil, nil, err
	}
	state := &SenderState{s: s}
	msg1, err := state.baseRecv.Step1(p.Group, p.SID, s)
	if err != nil {
		return nil, nil, err
	}
	return state, msg1, nil
}

// Step2ReceiverToSender is step2_R2S: the real OT receiver samples
// seedOTCount random seed pairs, plays base-OT sender to deliver them, and
// immediately folds its own extension message on top so the whole protocol
// is three network messages rather than four.
func (p *Protocol) Step2ReceiverToSender(msg1 *BaseOTMessage1, choices []bool, l int) (*ReceiverState, *BaseOTMessage2, *ExtensionMessage1, error) {
	sigma0 := make([][]byte, seedOTCount)
	sigma1 := make([][]byte, seedOTCount)
	for i := 0; i < seedOTCount; i++ {
		s0, err := sym.RandomBytes(16)
		if err != nil {
			return nil, nil, nil, err
		}
		s1, err := sym.RandomBytes(16)
		if err != nil {
			return nil, nil, nil, err
		}
		sigma0[i], sigma1[i] = s0, s1
	}

	baseSender := BaseOTSender{Group: p.Group, SID: p.SID}
	baseMsg2, err := baseSender.Step2(p.Group, p.SID, msg1, sigma0, sigma1, 128)
	if err != nil {
		return nil, nil, nil, err
	}

	state := &ReceiverState{sigma0: sigma0, sigma1: sigma1}
	extMsg1, err := state.ext.Step1(string(p.SID), sigma0, sigma1, choices, l)
	if err != nil {
		return nil, nil, nil, err
	}
	return state, baseMsg2, extMsg1, nil
}

// Step3SenderToReceiver is step3_S2R: the sender recovers its one seed per
// base-OT instance, verifies the extension's consistency checks, and masks
// x0/x1 into the final extension message.
func (p *Protocol) Step3SenderToReceiver(state *SenderState, baseMsg2 *BaseOTMessage2, extMsg1 *ExtensionMessage1, x0, x1 [][]byte) (*ExtensionMessage2, error) {
	sigma, err := state.baseRecv.Output(baseMsg2, 128)
	if err != nil {
		return nil, err
	}
	state.sigma = sigma

	sender := ExtensionSender{}
	return sender.Step2(string(p.SID), state.s, sigma, extMsg1, x0, x1)
}

// Output is output_R: the receiver recovers x[choices[i]] for each instance.
func (rs *ReceiverState) Output(m int, extMsg2 *ExtensionMessage2) ([][]byte, error) {
	return rs.ext.Output(m, extMsg2)
}
