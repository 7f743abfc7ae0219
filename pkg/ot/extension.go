package ot

import (
	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/core/sym"
	"github.com/sigilcrypto/mpc/pkg/errs"
)

// seedOTCount (u), extensionChecks (d), and kappa are hard-wired together
// the way the source documents ("changing any single one will require
// changing the others").
const seedOTCount = 256
const extensionChecks = 3
const kappa = 128

const extensionLabel = "cbmpc-ot-ext"

func seedDRBG(seed []byte) *sym.DRBG {
	key, err := sym.HKDFExpand(seed, nil, []byte(extensionLabel+"-seed"), 32)
	if err != nil {
		errs.Invariant("ot.seedDRBG", err.Error())
	}
	return sym.NewDRBG(key, nil)
}

func drbgSampleBits(seed []byte, bits int) []byte {
	buf := make([]byte, bitsToBytes(bits))
	if _, err := seedDRBG(seed).Read(buf); err != nil {
		errs.Invariant("ot.drbgSampleBits", err.Error())
	}
	return buf
}

func hashMatrixLine(index int, line row256, l int) []byte {
	ro := hash.NewRO(extensionLabel + "-line")
	ro.AbsorbUint64(uint64(index))
	ro.Absorb(line[:])
	return ro.Read(bitsToBytes(l))
}

func extensionChallenge(sid string, u [][]byte) []byte {
	ro := hash.NewRO(extensionLabel + "-challenge")
	ro.Absorb([]byte(sid))
	for _, row := range u {
		ro.Absorb(row)
	}
	return ro.Read(seedOTCount * extensionChecks)
}

// ExtensionMessage1 is the extension receiver's message (U, v0, v1).
type ExtensionMessage1 struct {
	U      [][]byte
	V0, V1 []row256
}

// ExtensionReceiver is ot_ext_protocol_ctx_t's receiver role: the party
// that ends up learning x[r[i]] for every i. Confusingly it plays the base
// OT's SENDER role first (step1_R2S below) — the standard OT-extension
// "role reversal" — since it is the one that must know both halves
// (sigma0[i], sigma1[i]) of every seed pair.
type ExtensionReceiver struct {
	l int
	r []bool
	T []row256
}

// Step1 is step1_R2S: extends m real choice bits into L = m+kappa+pad
// choice bits (the extra bits are a one-time statistical pad), builds the
// one-time-pad matrix U hiding r inside every seed-OT pair, and derives the
// cut-and-choose consistency values (v0, v1) the sender checks in Step2.
func (recv *ExtensionReceiver) Step1(sid string, sigma0, sigma1 [][]byte, choiceBits []bool, l int) (*ExtensionMessage1, error) {
	if len(sigma0) != seedOTCount || len(sigma1) != seedOTCount {
		return nil, errs.New(errs.BadArgument, "ot.ExtensionReceiver.Step1", "need exactly seedOTCount seed pairs")
	}
	recv.l = (l + 7) &^ 7
	m := len(choiceBits)
	pad := 0
	if m%128 != 0 {
		pad = 128 - m%128
	}
	L := m + kappa + pad

	padBits, err := randomBits(kappa + pad)
	if err != nil {
		return nil, err
	}
	r := append(append([]bool{}, choiceBits...), padBits...)
	recv.r = r
	rBytes := packBits(r)

	sigmaTag0 := make([][]byte, seedOTCount)
	uRows := make([][]byte, seedOTCount)
	for i := 0; i < seedOTCount; i++ {
		tag0 := drbgSampleBits(sigma0[i], L)
		tag1 := drbgSampleBits(sigma1[i], L)
		sigmaTag0[i] = tag0
		uRows[i] = xorBytes(xorBytes(tag0, tag1), rBytes)
	}
	recv.T = transpose256(sigmaTag0, L)

	e := extensionChallenge(sid, uRows)
	v0 := make([]row256, seedOTCount*extensionChecks)
	v1 := make([]row256, seedOTCount*extensionChecks)
	for i := 0; i < seedOTCount; i++ {
		for j := 0; j < extensionChecks; j++ {
			index := extensionChecks*i + j
			beta := int(e[index])
			combo := xorBytes(sigmaTag0[i], sigmaTag0[beta])
			v0[index] = rowFromHash(hash.NewRO(extensionLabel+"-v0").Absorb(combo).Read(16))
			comboR := xorBytes(combo, rBytes)
			v1[index] = rowFromHash(hash.NewRO(extensionLabel+"-v1").Absorb(comboR).Read(16))
		}
	}

	return &ExtensionMessage1{U: uRows, V0: v0, V1: v1}, nil
}

func rowFromHash(b []byte) row256 {
	var out row256
	copy(out[:16], b)
	return out
}

// ExtensionMessage2 is the sender's response (w0, w1); w1 alone is the
// "sender_one_input_random" delta variant's message.
type ExtensionMessage2 struct {
	W0, W1 [][]byte
}

// ExtensionSender is ot_ext_protocol_ctx_t's sender role: the party supplying
// the real (x0, x1) pairs, playing the base OT's RECEIVER role (it only
// ever learns one seed per pair, selected by its own secret bits s).
type ExtensionSender struct{}

// Step2 is step2_S2R_helper (the plain, non-delta variant): reconstructs
// its half of the correlated matrix from the single seed it holds per
// index, checks the consistency values the receiver committed to in Step1,
// then masks x0/x1 with correlation-robust hashes of each output row.
func (ExtensionSender) Step2(sid string, s []bool, sigma [][]byte, msg1 *ExtensionMessage1, x0, x1 [][]byte) (*ExtensionMessage2, error) {
	if len(s) != seedOTCount || len(sigma) != seedOTCount {
		return nil, errs.New(errs.BadArgument, "ot.ExtensionSender.Step2", "need exactly seedOTCount selector bits/seeds")
	}
	if len(x0) != len(x1) || len(x0) == 0 {
		return nil, errs.New(errs.BadArgument, "ot.ExtensionSender.Step2", "x0/x1 must be equal-length and non-empty")
	}
	m := len(x0)
	l := bitsToBytes(len(x0[0])*8) * 8 // preserve caller's byte-aligned l implicitly
	l = len(x0[0]) * 8

	pad := 0
	if m%128 != 0 {
		pad = 128 - m%128
	}
	L := m + kappa + pad
	if len(msg1.U[0])*8 != L {
		return nil, errs.New(errs.BadArgument, "ot.ExtensionSender.Step2", "receiver message has the wrong row length")
	}

	qTmp := make([][]byte, seedOTCount)
	for i := 0; i < seedOTCount; i++ {
		tag := drbgSampleBits(sigma[i], L)
		if s[i] {
			tag = xorBytes(tag, msg1.U[i])
		}
		qTmp[i] = tag
	}
	q := transpose256(qTmp, L)

	e := extensionChallenge(sid, msg1.U)
	sRow := packBitsAs256(s)
	for i := 0; i < seedOTCount; i++ {
		for j := 0; j < extensionChecks; j++ {
			index := extensionChecks*i + j
			beta := int(e[index])
			bit := s[i] != s[beta]
			want := msg1.V0[index]
			if bit {
				want = msg1.V1[index]
			}
			combo := xorBytes(qTmp[i], qTmp[beta])
			label := extensionLabel + "-v0"
			if bit {
				label = extensionLabel + "-v1"
			}
			got := rowFromHash(hash.NewRO(label).Absorb(combo).Read(16))
			if got != want {
				return nil, errs.New(errs.Crypto, "ot.ExtensionSender.Step2", "consistency check failed at index "+itoa(index))
			}
		}
	}

	w0 := make([][]byte, m)
	w1 := make([][]byte, m)
	for i := 0; i < m; i++ {
		w0Bin := hashMatrixLine(i, q[i], l)
		w1Bin := hashMatrixLine(i, q[i].xor(sRow), l)
		w0[i] = xorBytes(w0Bin, x0[i])
		w1[i] = xorBytes(w1Bin, x1[i])
	}
	return &ExtensionMessage2{W0: w0, W1: w1}, nil
}

func packBitsAs256(bits []bool) row256 {
	var out row256
	for i, v := range bits {
		if v {
			setBit(out[:], i, true)
		}
	}
	return out
}

// Output is output_R: recover x[r[i]] for each of the first m rows.
func (recv *ExtensionReceiver) Output(m int, msg2 *ExtensionMessage2) ([][]byte, error) {
	if len(msg2.W0) != m || len(msg2.W1) != m {
		return nil, errs.New(errs.Format, "ot.ExtensionReceiver.Output", "message length mismatch")
	}
	out := make([][]byte, m)
	for i := 0; i < m; i++ {
		base := hashMatrixLine(i, recv.T[i], recv.l)
		w := msg2.W0[i]
		if recv.r[i] {
			w = msg2.W1[i]
		}
		out[i] = xorBytes(base, w)
	}
	return out, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
