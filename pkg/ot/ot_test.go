package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

var group = curve.Secp256k1{}

func TestBaseOTRoundTrip(t *testing.T) {
	choices := []bool{true, false, true, true, false}
	sid := []byte("base-ot-test-sid")

	var recv BaseOTReceiver
	msg1, err := recv.Step1(group, sid, choices)
	require.NoError(t, err)

	x0 := make([][]byte, len(choices))
	x1 := make([][]byte, len(choices))
	for i := range choices {
		x0[i] = []byte("zero-value-0123!")
		x1[i] = []byte("one-value-0123!!")
	}

	sender := BaseOTSender{Group: group, SID: sid}
	msg2, err := sender.Step2(group, sid, msg1, x0, x1, 128)
	require.NoError(t, err)

	out, err := recv.Output(msg2, 128)
	require.NoError(t, err)

	for i, b := range choices {
		if b {
			assert.Equal(t, x1[i], out[i])
		} else {
			assert.Equal(t, x0[i], out[i])
		}
	}
}

func TestExtendedOTRoundTrip(t *testing.T) {
	proto := &Protocol{Group: group, SID: []byte("ext-ot-test-sid")}

	m := 10
	choices := make([]bool, m)
	for i := range choices {
		choices[i] = i%3 == 0
	}

	senderState, baseMsg1, err := proto.Step1SenderToReceiver()
	require.NoError(t, err)

	l := 16 // bytes, matches the 128-bit payloads below
	recvState, baseMsg2, extMsg1, err := proto.Step2ReceiverToSender(baseMsg1, choices, l*8)
	require.NoError(t, err)

	x0 := make([][]byte, m)
	x1 := make([][]byte, m)
	for i := 0; i < m; i++ {
		x0[i] = []byte("zero-payload-16b")
		x1[i] = []byte("one-payload-16bb")
	}

	extMsg2, err := proto.Step3SenderToReceiver(senderState, baseMsg2, extMsg1, x0, x1)
	require.NoError(t, err)

	out, err := recvState.Output(m, extMsg2)
	require.NoError(t, err)

	for i, b := range choices {
		if b {
			assert.Equal(t, x1[i], out[i])
		} else {
			assert.Equal(t, x0[i], out[i])
		}
	}
}
