package wire_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/pve"
	"github.com/sigilcrypto/mpc/pkg/tdh2"
	"github.com/sigilcrypto/mpc/pkg/wire"
)

var _ = Describe("CBOR round trips", func() {
	var group curve.Curve

	BeforeEach(func() {
		group = curve.Secp256k1{}
	})

	It("round-trips a TDH2 ciphertext through CBOR", func() {
		x, err := curve.RandomScalar(group)
		Expect(err).NotTo(HaveOccurred())
		pub := tdh2.NewPublicKey(group, group.ScalarBaseMul(x))

		ct, err := tdh2.Encrypt(pub, []byte("wire round trip"), []byte("wire-test"))
		Expect(err).NotTo(HaveOccurred())

		data, err := wire.MarshalCiphertext(group, ct)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())

		decoded, err := wire.UnmarshalCiphertext(group, data)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.C).To(Equal(ct.C))
		Expect(decoded.IV).To(Equal(ct.IV))
		Expect(decoded.R1.Equal(ct.R1)).To(BeTrue())
		Expect(decoded.R2.Equal(ct.R2)).To(BeTrue())
		Expect(decoded.E.Equal(ct.E)).To(BeTrue())
		Expect(decoded.F.Equal(ct.F)).To(BeTrue())
	})

	It("rejects a ciphertext encoded for a different curve", func() {
		x, err := curve.RandomScalar(group)
		Expect(err).NotTo(HaveOccurred())
		pub := tdh2.NewPublicKey(group, group.ScalarBaseMul(x))
		ct, err := tdh2.Encrypt(pub, []byte("mismatch"), []byte("wire-test"))
		Expect(err).NotTo(HaveOccurred())

		data, err := wire.MarshalCiphertext(group, ct)
		Expect(err).NotTo(HaveOccurred())

		_, err = wire.UnmarshalCiphertext(curve.Ed25519{}, data)
		Expect(err).To(HaveOccurred())
	})

	It("round-trips a PVE proof through CBOR", func() {
		x, err := curve.RandomScalar(group)
		Expect(err).NotTo(HaveOccurred())
		_, recipPub, err := pve.GenerateRecipientKey()
		Expect(err).NotTo(HaveOccurred())

		proof, err := pve.Encrypt(group, recipPub, "wire-pve-test", x)
		Expect(err).NotTo(HaveOccurred())

		data, err := wire.MarshalPVEProof(group, proof)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())

		decoded, err := wire.UnmarshalPVEProof(group, data)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Q.Equal(proof.Q)).To(BeTrue())
		Expect(decoded.Label).To(Equal(proof.Label))
		Expect(decoded.Challenge).To(Equal(proof.Challenge))
		Expect(decoded.Rows).To(HaveLen(len(proof.Rows)))
		Expect(pve.Verify(group, recipPub, decoded)).To(Succeed())
	})
})
