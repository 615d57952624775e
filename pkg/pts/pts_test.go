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

package pts_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rancher/elemental-pts/pkg/mocks"
	"github.com/rancher/elemental-pts/pkg/pts"
)

func TestPTS(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "pts test suite")
}

func newSession() *pts.Session {
	return pts.NewSession(&pts.NopLogger{}, 20, "/etc/tnc_config", 16)
}

var _ = Describe("pts", Label("pts"), func() {
	var out []pts.Attribute
	var cap *mocks.FakePTS
	var session *pts.Session

	BeforeEach(func() {
		out = nil
		cap = mocks.NewFakePTS()
		cap.Caps = pts.ProtoCapsTPM | pts.ProtoCapsDH | pts.ProtoCapsVer | pts.ProtoCapsCurr
		session = newSession()
	})

	Describe("capability negotiation", func() {
		It("stores and echoes the intersection of supported and offered caps", func() {
			err := pts.Process(&pts.ReqProtoCapsAttr{Flags: pts.ProtoCapsTPM | pts.ProtoCapsDH}, &out, session, cap, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(session.ProtoCaps).To(Equal(pts.ProtoCapsTPM | pts.ProtoCapsDH))
			Expect(session.HasCapsNegotiated()).To(BeTrue())
			Expect(out).To(HaveLen(1))
			got, ok := out[0].(*pts.ProtoCapsAttr)
			Expect(ok).To(BeTrue())
			Expect(got.Flags).To(Equal(pts.ProtoCapsTPM | pts.ProtoCapsDH))
			Expect(got.IsRequest).To(BeFalse())
		})

		It("only ever narrows, never widens, the responder's own capabilities", func() {
			cap.Caps = pts.ProtoCapsTPM
			err := pts.Process(&pts.ReqProtoCapsAttr{Flags: pts.ProtoCapsTPM | pts.ProtoCapsDH | pts.ProtoCapsVer}, &out, session, cap, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(session.ProtoCaps).To(Equal(pts.ProtoCapsTPM))
		})
	})

	Describe("measurement algorithm negotiation", func() {
		It("selects the strongest algorithm in the intersection", func() {
			supported := pts.MeasAlgoSHA1 | pts.MeasAlgoSHA256
			offer := pts.MeasAlgoSHA1 | pts.MeasAlgoSHA256 | pts.MeasAlgoSHA384
			err := pts.Process(&pts.MeasAlgoAttr{Algorithms: offer}, &out, session, cap, supported, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(session.MeasAlgorithm).To(Equal(pts.MeasAlgoSHA256))
			Expect(out).To(HaveLen(1))
			got, ok := out[0].(*pts.MeasAlgoAttr)
			Expect(ok).To(BeTrue())
			Expect(got.Selection).To(BeTrue())
			Expect(got.Algorithms).To(Equal(pts.MeasAlgoSHA256))
		})

		It("reports an error and leaves the session unchanged on empty intersection", func() {
			err := pts.Process(&pts.MeasAlgoAttr{Algorithms: pts.MeasAlgoSHA1}, &out, session, cap, pts.MeasAlgoSHA256, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(session.MeasAlgorithm).To(Equal(pts.MeasAlgoNone))
			Expect(out).To(HaveLen(1))
			errAttr, ok := out[0].(*pts.PATNCErrorAttr)
			Expect(ok).To(BeTrue())
			Expect(errAttr.Code).To(Equal(pts.ErrHashAlgoUnsupported))
		})

		It("ignores a responder-only measurement-algo-selection attribute received in error", func() {
			err := pts.Process(&pts.MeasAlgoAttr{Algorithms: pts.MeasAlgoSHA256, Selection: true}, &out, session, cap, pts.MeasAlgoSHA256, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(BeEmpty())
			Expect(session.MeasAlgorithm).To(Equal(pts.MeasAlgoNone))
		})
	})

	Describe("DH nonce exchange", func() {
		It("rejects a nonce length below PTS_MIN_NONCE_LEN with a DH-nonce-error", func() {
			session.NonceLen = 8
			err := pts.Process(&pts.DHNonceParamsReqAttr{MinNonceLen: 16, DHGroups: pts.DHGroupIKE14}, &out, session, cap, 0, pts.DHGroupIKE14)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HaveLen(1))
			errAttr, ok := out[0].(*pts.PATNCErrorAttr)
			Expect(ok).To(BeTrue())
			Expect(errAttr.Code).To(Equal(pts.ErrDHNonceLengthInvalid))
			Expect(errAttr.Value).To(Equal([]byte{0, 0, 0, 8, 0, 0, 0, byte(pts.MaxNonceLen)}))
			Expect(session.DHMaterial).To(BeNil())
			Expect(cap.MyValue).To(BeNil())
		})

		It("generates responder DH material on a valid request", func() {
			session.NonceLen = 20
			err := pts.Process(&pts.DHNonceParamsReqAttr{MinNonceLen: 16, DHGroups: pts.DHGroupIKE14}, &out, session, cap, pts.MeasAlgoSHA256, pts.DHGroupIKE14)
			Expect(err).ToNot(HaveOccurred())
			Expect(session.DHMaterial).ToNot(BeNil())
			Expect(session.DHMaterial.Group).To(Equal(pts.DHGroupIKE14))
			Expect(out).To(HaveLen(1))
			resp, ok := out[0].(*pts.DHNonceParamsRespAttr)
			Expect(ok).To(BeTrue())
			Expect(resp.ResponderNonce).To(HaveLen(20))
		})

		It("requires the initiator's nonce length to match the configured responder length", func() {
			session.NonceLen = 20
			session.DHMaterial = &pts.DHMaterial{Group: pts.DHGroupIKE14}
			err := pts.Process(&pts.DHNonceFinishAttr{
				HashAlgo:       pts.MeasAlgoSHA256,
				InitiatorValue: []byte("value"),
				InitiatorNonce: make([]byte, 10),
			}, &out, session, cap, pts.MeasAlgoSHA256, 0)
			Expect(err).To(HaveOccurred())
			var fatal *pts.FatalError
			Expect(errors.As(err, &fatal)).To(BeTrue())
			Expect(fatal.Reason).To(Equal(pts.FatalDHNonceLengthMismatch))
		})
	})

	Describe("BIOS evidence and quote generation", func() {
		It("buffers BIOS evidence shaped per the LONG transformation, then flushes it on quote", func() {
			session.MeasAlgorithm = pts.MeasAlgoSHA256
			session.ProtoCaps = pts.ProtoCapsTPM | pts.ProtoCapsVer | pts.ProtoCapsCurr
			cap.HashFileResult = make([]byte, 32)

			err := pts.Process(&pts.ReqFunctCompEvidAttr{
				Flags:     0,
				VendorID:  pts.FuncCompNameVendorID,
				Family:    0,
				Qualifier: pts.Qualifier{},
				Name:      pts.FuncCompNameBIOS,
			}, &out, session, cap, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(BeEmpty())
			Expect(session.EvidenceCount()).To(Equal(1))

			err = pts.Process(&pts.GenAttestEvidAttr{}, &out, session, cap, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HaveLen(2))

			evid, ok := out[0].(*pts.SimpleCompEvidAttr)
			Expect(ok).To(BeTrue())
			Expect(evid.ExtendedPCR).To(Equal(uint32(16)))
			Expect(evid.HashAlgorithm).To(Equal(pts.MeasAlgoSHA256))
			Expect(evid.Transformation).To(Equal(pts.PCRTransformLong))
			Expect(evid.Measurement).To(HaveLen(32))
			Expect(evid.MeasurementTime).To(HaveLen(pts.MeasurementTimeLen))

			final, ok := out[1].(*pts.SimpleEvidFinalAttr)
			Expect(ok).To(BeTrue())
			Expect(final.Flags).To(Equal(pts.SimpleEvidFinalFlagTPMQuoteInfo))

			Expect(session.EvidenceCount()).To(Equal(0))
		})

		It("rejects a PCR-evidence request when TPM capability was not negotiated", func() {
			session.ProtoCaps = 0
			err := pts.Process(&pts.ReqFunctCompEvidAttr{
				Flags:    pts.ReqFuncCompEvidFlagPCR,
				VendorID: pts.FuncCompNameVendorID,
				Name:     pts.FuncCompNameBIOS,
			}, &out, session, cap, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HaveLen(1))
			errAttr, ok := out[0].(*pts.PATNCErrorAttr)
			Expect(ok).To(BeTrue())
			Expect(errAttr.Code).To(Equal(pts.ErrUnableToDeterminePCR))
			Expect(session.EvidenceCount()).To(Equal(0))
		})
	})

	Describe("file metadata request", func() {
		It("rejects an invalid path delimiter without calling GetMetadata", func() {
			cap.PathValid = true
			cap.PathError = 0
			err := pts.Process(&pts.ReqFileMetaAttr{
				Directory: false,
				Delimiter: ',',
				Pathname:  "/etc/hostname",
			}, &out, session, cap, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HaveLen(1))
			errAttr, ok := out[0].(*pts.PATNCErrorAttr)
			Expect(ok).To(BeTrue())
			Expect(errAttr.Code).To(Equal(pts.ErrInvalidPathDelimiter))
		})

		It("silently skips when the capability reports the path invalid", func() {
			cap.PathValid = false
			err := pts.Process(&pts.ReqFileMetaAttr{
				Directory: false,
				Delimiter: '/',
				Pathname:  "/does/not/exist",
			}, &out, session, cap, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(BeEmpty())
		})

		It("reports the in-band error the capability attaches to a valid-but-flagged path", func() {
			cap.PathValid = true
			cap.PathError = uint16(pts.ErrInvalidNameFamily)
			err := pts.Process(&pts.ReqFileMetaAttr{
				Directory: false,
				Delimiter: '/',
				Pathname:  "/etc/hostname",
			}, &out, session, cap, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HaveLen(1))
			errAttr, ok := out[0].(*pts.PATNCErrorAttr)
			Expect(ok).To(BeTrue())
			Expect(errAttr.Code).To(Equal(pts.ErrInvalidNameFamily))
		})
	})

	Describe("unhandled attributes", func() {
		It("logs and produces no output for a recognized-but-unhandled type", func() {
			err := pts.Process(&pts.UnhandledAttr{WireType: pts.AttrReqIntegMeasLog}, &out, session, cap, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(BeEmpty())
		})
	})
})
