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

package pts

import (
	"crypto"
	"time"
)

// handleReqFunctCompEvid implements the functional-component evidence
// request. It runs the precondition checks in order, each producing a
// specific error attribute when violated, then applies the
// nonfatal-but-unsupported-field policy before dispatching on the
// requested component name.
func handleReqFunctCompEvid(attr *ReqFunctCompEvidAttr, out OutList, session *Session, cap Capability) error {
	if attr.Flags&ReqFuncCompEvidFlagTTC != 0 {
		appendOut(out, NewErrorAttr(ErrUnableToDetermineTTC, attr.RawValue))
		return nil
	}
	if attr.Flags&ReqFuncCompEvidFlagVer != 0 && session.ProtoCaps&ProtoCapsVer == 0 {
		appendOut(out, NewErrorAttr(ErrUnableToPerformLocalVal, attr.RawValue))
		return nil
	}
	if attr.Flags&ReqFuncCompEvidFlagCurr != 0 && session.ProtoCaps&ProtoCapsCurr == 0 {
		appendOut(out, NewErrorAttr(ErrUnableToRetrieveCurrEvid, attr.RawValue))
		return nil
	}
	if attr.Flags&ReqFuncCompEvidFlagPCR != 0 && session.ProtoCaps&ProtoCapsTPM == 0 {
		appendOut(out, NewErrorAttr(ErrUnableToDeterminePCR, attr.RawValue))
		return nil
	}

	if attr.SubComponentDepth != 0 {
		session.Logger.Warnf("pts: sub-component measurement deeper than zero is not supported; measuring top-level component only")
	}

	if attr.VendorID != FuncCompNameVendorID {
		session.Logger.Debugf("pts: functional component naming by vendor %d is not supported", attr.VendorID)
		return nil
	}

	if attr.Family != 0 {
		appendOut(out, NewErrorAttr(ErrInvalidNameFamily, attr.RawValue))
		return nil
	}

	if attr.Qualifier.IsWildcard() {
		session.Logger.Debugf("pts: wildcard qualifier requested; identifying component by name enumeration")
	} else if attr.Qualifier.IsUnknown() {
		session.Logger.Debugf("pts: unknown qualifier requested; identifying component by name enumeration")
	}

	switch attr.Name {
	case FuncCompNameBIOS:
		return measureBIOS(session, cap)
	default:
		session.Logger.Debugf("pts: unsupported functional component name %d", attr.Name)
		return nil
	}
}

// measureBIOS implements the BIOS reference measurement sequence. It is
// explicitly a stand-in for true BIOS measurement: it extends the
// configured PCR with the digest of a configured reference file.
func measureBIOS(session *Session, cap Capability) error {
	alg := session.MeasAlgorithm

	pcrInfoIncluded := true
	evid := &SimpleCompEvidAttr{
		PCRInfoIncluded: pcrInfoIncluded,
		Flags:           SimpleCompEvidFlagNoValid,
		Depth:           0,
		VendorID:        PEN,
		Qualifier: Qualifier{
			Kernel:       false,
			SubComponent: false,
			Type:         FuncCompTypeTNC,
		},
		Name:           FuncCompNameBIOS,
		ExtendedPCR:    session.ExtendPCRIndex,
		HashAlgorithm:  alg,
		Transformation: TransformForAlgorithm(pcrInfoIncluded, alg),
	}

	hashAlg, ok := measAlgoToHash(alg)
	if !ok {
		return NewFatalError(FatalHasherUnavailable, nil)
	}

	digest, err := cap.HashFile(hashAlg, session.MeasuredFile)
	if err != nil {
		return NewFatalError(FatalFileHashing, err)
	}
	if want := alg.DigestSize(); len(digest) != want {
		return NewFatalError(FatalDigestLengthMismatch, nil)
	}

	evid.MeasurementTime = formatMeasurementTime(time.Now())
	evid.Measurement = digest
	evid.PolicyURI = ""

	pcrBefore, err := cap.ReadPCR(session.ExtendPCRIndex)
	if err != nil {
		return NewFatalError(FatalPCRRead, err)
	}
	evid.PCRBefore = pcrBefore

	pcrAfter, err := cap.ExtendPCR(session.ExtendPCRIndex, evid.Measurement)
	if err != nil {
		return NewFatalError(FatalPCRExtend, err)
	}
	evid.PCRAfter = pcrAfter

	session.BufferEvidence(evid)
	return nil
}

// formatMeasurementTime renders t as the fixed 20-octet UTC timestamp the
// wire format requires, falling back to the literal zero value if t is
// the zero time (standing in for "wall-clock unavailable").
func formatMeasurementTime(t time.Time) string {
	if t.IsZero() {
		return ZeroMeasurementTime
	}
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func measAlgoToHash(alg MeasAlgorithm) (crypto.Hash, bool) {
	switch alg {
	case MeasAlgoSHA1:
		return crypto.SHA1, true
	case MeasAlgoSHA256:
		return crypto.SHA256, true
	case MeasAlgoSHA384:
		return crypto.SHA384, true
	default:
		return 0, false
	}
}

// handleGenAttestEvid implements quote generation. It flushes the
// buffered evidence into out in insertion order, collects their
// extended-PCR indices (duplicates are forwarded as-is; TPM semantics
// deduplicate), obtains a quote over that set, and appends the final
// quote attribute. The evidence buffer is released on both success and
// fatal failure.
func handleGenAttestEvid(out OutList, session *Session, cap Capability) error {
	buffered := session.DrainEvidence()

	indices := make([]uint32, 0, len(buffered))
	for _, evid := range buffered {
		indices = append(indices, evid.ExtendedPCR)
		appendOut(out, evid)
	}

	composite, signature, err := cap.QuoteTPM(indices)
	if err != nil {
		return NewFatalError(FatalTPMQuote, err)
	}

	appendOut(out, &SimpleEvidFinalAttr{
		Flags:          SimpleEvidFinalFlagTPMQuoteInfo,
		CompositeHash:  composite,
		QuoteSignature: signature,
		TPMVersionInfo: nil,
	})
	return nil
}
