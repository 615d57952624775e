/*
Copyright © 2022 - 2025 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ptsadapter_test

import (
	"crypto"
	"crypto/sha256"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/twpayne/go-vfs/vfst"

	"github.com/rancher/elemental-pts/pkg/pts"
	"github.com/rancher/elemental-pts/pkg/ptsadapter"
)

func TestPtsAdapter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ptsadapter test suite")
}

var _ = Describe("ptsadapter", Label("ptsadapter"), func() {
	var fs *vfst.TestFS
	var cleanup func()
	var adapter *ptsadapter.Adapter

	BeforeEach(func() {
		var err error
		fs, cleanup, err = vfst.NewTestFS(map[string]interface{}{
			"/etc/tnc_config": "reference measurement contents",
		})
		Expect(err).ToNot(HaveOccurred())

		adapter, err = ptsadapter.New(fs, pts.ProtoCapsTPM|pts.ProtoCapsDH)
		Expect(err).ToNot(HaveOccurred())
		adapter.SetMeasAlgorithm(pts.MeasAlgoSHA256)
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("HashFile", func() {
		It("hashes a file end to end through the vfs abstraction", func() {
			digest, err := adapter.HashFile(crypto.SHA256, "/etc/tnc_config")
			Expect(err).ToNot(HaveOccurred())
			Expect(digest).To(HaveLen(32))
		})
	})

	Describe("PCR bank", func() {
		It("extends a PCR as H(old‖measurement) and reports the new value on read", func() {
			before, err := adapter.ReadPCR(16)
			Expect(err).ToNot(HaveOccurred())
			Expect(before).To(Equal(make([]byte, 32)))

			after, err := adapter.ExtendPCR(16, []byte("measurement"))
			Expect(err).ToNot(HaveOccurred())
			Expect(after).ToNot(Equal(before))
			expected := sha256.Sum256(append(append([]byte{}, before...), []byte("measurement")...))
			Expect(after).To(Equal(expected[:]))

			reread, err := adapter.ReadPCR(16)
			Expect(err).ToNot(HaveOccurred())
			Expect(reread).To(Equal(after))
		})
	})

	Describe("QuoteTPM", func() {
		It("signs a composite built from the requested PCR indices", func() {
			_, err := adapter.ExtendPCR(16, []byte("measurement"))
			Expect(err).ToNot(HaveOccurred())

			composite, signature, err := adapter.QuoteTPM([]uint32{16})
			Expect(err).ToNot(HaveOccurred())
			Expect(composite).To(HaveLen(32))
			Expect(signature).ToNot(BeEmpty())
		})
	})

	Describe("DH key agreement", func() {
		It("derives the same secret on both sides of a fresh MODP exchange", func() {
			err := adapter.CreateDHNonce(pts.DHGroupIKE14, 20)
			Expect(err).ToNot(HaveOccurred())

			value, nonce, err := adapter.GetMyPublicValue()
			Expect(err).ToNot(HaveOccurred())
			Expect(value).ToNot(BeEmpty())
			Expect(nonce).To(HaveLen(20))

			peer, err := ptsadapter.New(fs, pts.ProtoCapsTPM|pts.ProtoCapsDH)
			Expect(err).ToNot(HaveOccurred())
			Expect(peer.CreateDHNonce(pts.DHGroupIKE14, 20)).To(Succeed())
			peerValue, peerNonce, err := peer.GetMyPublicValue()
			Expect(err).ToNot(HaveOccurred())

			adapter.SetDHHashAlgorithm(pts.MeasAlgoSHA256)
			adapter.SetPeerPublicValue(peerValue, peerNonce)
			Expect(adapter.CalculateSecret()).To(Succeed())

			peer.SetDHHashAlgorithm(pts.MeasAlgoSHA256)
			peer.SetPeerPublicValue(value, nonce)
			Expect(peer.CalculateSecret()).To(Succeed())

			Expect(adapter.Secret()).ToNot(BeEmpty())
			Expect(adapter.Secret()).To(Equal(peer.Secret()))
		})
	})

	Describe("IsPathValid", func() {
		It("rejects traversal attempts", func() {
			valid, errCode := adapter.IsPathValid("/etc/../etc/passwd")
			Expect(valid).To(BeTrue())
			Expect(errCode).ToNot(Equal(uint16(0)))
		})

		It("accepts an existing path with no error code", func() {
			valid, errCode := adapter.IsPathValid("/etc/tnc_config")
			Expect(valid).To(BeTrue())
			Expect(errCode).To(Equal(uint16(0)))
		})
	})
})
