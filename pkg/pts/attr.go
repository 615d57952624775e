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

// AttrType is the wire type tag of an attribute: the TCG PTS attribute
// type, or AttrPATNCError for the IETF PA-TNC error attribute.
type AttrType uint32

const (
	AttrReqProtoCaps AttrType = iota + 1
	AttrProtoCaps
	AttrMeasAlgo
	AttrMeasAlgoSelection
	AttrDHNonceParamsReq
	AttrDHNonceParamsResp
	AttrDHNonceFinish
	AttrGetTPMVersionInfo
	AttrTPMVersionInfo
	AttrGetAIK
	AttrAIK
	AttrReqFunctCompEvid
	AttrGenAttestEvid
	AttrSimpleCompEvid
	AttrSimpleEvidFinal
	AttrReqFileMeta
	AttrUnixFileMeta
	AttrReqFileMeas
	AttrFileMeas
	AttrReqIntegMeasLog
	AttrReqTemplRefManiSetMeta
	AttrUpdateTemplRefMani
	AttrReqRegistryValue
	AttrTemplRefManiSetMeta
	AttrVerificationResult
	AttrIntegReport
	AttrIntegMeasLog
	AttrPATNCError
)

// Attribute is the tagged-union wire entity every inbound/outbound message
// implements. Each concrete type below carries its own typed payload; the
// dispatcher switches on Type(), never on a virtual method hierarchy.
type Attribute interface {
	Type() AttrType
}

// ReqProtoCapsAttr: TCG_PTS_REQ_PROTO_CAPS, inbound capability offer.
type ReqProtoCapsAttr struct {
	Flags ProtoCapsFlag
}

func (a *ReqProtoCapsAttr) Type() AttrType { return AttrReqProtoCaps }

// ProtoCapsAttr: TCG_PTS_PROTO_CAPS, outbound negotiated capability set.
type ProtoCapsAttr struct {
	Flags     ProtoCapsFlag
	IsRequest bool
}

func (a *ProtoCapsAttr) Type() AttrType { return AttrProtoCaps }

// MeasAlgoAttr: TCG_PTS_MEAS_ALGO (inbound offer) / TCG_PTS_MEAS_ALGO_SELECTION
// (outbound selection) share a payload shape, distinguished by Selection.
type MeasAlgoAttr struct {
	Algorithms MeasAlgorithm
	Selection  bool
}

func (a *MeasAlgoAttr) Type() AttrType {
	if a.Selection {
		return AttrMeasAlgoSelection
	}
	return AttrMeasAlgo
}

// DHNonceParamsReqAttr: TCG_PTS_DH_NONCE_PARAMS_REQ, inbound.
type DHNonceParamsReqAttr struct {
	MinNonceLen int
	DHGroups    DHGroup
}

func (a *DHNonceParamsReqAttr) Type() AttrType { return AttrDHNonceParamsReq }

// DHNonceParamsRespAttr: TCG_PTS_DH_NONCE_PARAMS_RESP, outbound.
type DHNonceParamsRespAttr struct {
	SelectedGroup      DHGroup
	SupportedAlgorithms MeasAlgorithm
	ResponderNonce     []byte
	ResponderValue     []byte
}

func (a *DHNonceParamsRespAttr) Type() AttrType { return AttrDHNonceParamsResp }

// DHNonceFinishAttr: TCG_PTS_DH_NONCE_FINISH, inbound.
type DHNonceFinishAttr struct {
	HashAlgo        MeasAlgorithm
	InitiatorValue  []byte
	InitiatorNonce  []byte
}

func (a *DHNonceFinishAttr) Type() AttrType { return AttrDHNonceFinish }

// GetTPMVersionInfoAttr: TCG_PTS_GET_TPM_VERSION_INFO, inbound.
type GetTPMVersionInfoAttr struct {
	RawValue []byte
}

func (a *GetTPMVersionInfoAttr) Type() AttrType { return AttrGetTPMVersionInfo }

// TPMVersionInfoAttr: TCG_PTS_TPM_VERSION_INFO, outbound.
type TPMVersionInfoAttr struct {
	VersionInfo []byte
}

func (a *TPMVersionInfoAttr) Type() AttrType { return AttrTPMVersionInfo }

// GetAIKAttr: TCG_PTS_GET_AIK, inbound.
type GetAIKAttr struct{}

func (a *GetAIKAttr) Type() AttrType { return AttrGetAIK }

// AIKAttr: TCG_PTS_AIK, outbound.
type AIKAttr struct {
	AIK []byte
}

func (a *AIKAttr) Type() AttrType { return AttrAIK }

// ReqFunctCompEvidAttr: TCG_PTS_REQ_FUNCT_COMP_EVID, inbound.
type ReqFunctCompEvidAttr struct {
	Flags             ReqFuncCompEvidFlag
	SubComponentDepth uint32
	VendorID          uint32
	Family            uint8
	Qualifier         Qualifier
	Name              FuncCompName
	RawValue          []byte
}

func (a *ReqFunctCompEvidAttr) Type() AttrType { return AttrReqFunctCompEvid }

// GenAttestEvidAttr: TCG_PTS_GEN_ATTEST_EVID, inbound.
type GenAttestEvidAttr struct{}

func (a *GenAttestEvidAttr) Type() AttrType { return AttrGenAttestEvid }

// SimpleCompEvidAttr: TCG_PTS_SIMPLE_COMP_EVID, buffered evidence /
// flushed outbound on quote generation.
type SimpleCompEvidAttr struct {
	PCRInfoIncluded bool
	Flags           SimpleCompEvidFlag
	Depth           uint32
	VendorID        uint32
	Qualifier       Qualifier
	Name            FuncCompName
	ExtendedPCR     uint32
	HashAlgorithm   MeasAlgorithm
	Transformation  PCRTransform
	MeasurementTime string
	Measurement     []byte
	PolicyURI       string
	PCRBefore       []byte
	PCRAfter        []byte
}

func (a *SimpleCompEvidAttr) Type() AttrType { return AttrSimpleCompEvid }

// SimpleEvidFinalAttr: TCG_PTS_SIMPLE_EVID_FINAL, outbound quote result.
type SimpleEvidFinalAttr struct {
	Flags            SimpleEvidFinalFlag
	CompositeHash    []byte
	QuoteSignature   []byte
	TPMVersionInfo   []byte
}

func (a *SimpleEvidFinalAttr) Type() AttrType { return AttrSimpleEvidFinal }

// ReqFileMetaAttr: TCG_PTS_REQ_FILE_META, inbound.
type ReqFileMetaAttr struct {
	Directory bool
	Delimiter byte
	Pathname  string
	RawValue  []byte
}

func (a *ReqFileMetaAttr) Type() AttrType { return AttrReqFileMeta }

// UnixFileMetaAttr: TCG_PTS_UNIX_FILE_META, outbound.
type UnixFileMetaAttr struct {
	Entries  []FileMetadata
	NoSkip   bool
}

func (a *UnixFileMetaAttr) Type() AttrType { return AttrUnixFileMeta }

// ReqFileMeasAttr: TCG_PTS_REQ_FILE_MEAS, inbound.
type ReqFileMeasAttr struct {
	RequestID uint16
	Directory bool
	Delimiter byte
	Pathname  string
	RawValue  []byte
}

func (a *ReqFileMeasAttr) Type() AttrType { return AttrReqFileMeas }

// FileMeasAttr: TCG_PTS_FILE_MEAS, outbound.
type FileMeasAttr struct {
	Measurements []FileMeasurement
	NoSkip       bool
}

func (a *FileMeasAttr) Type() AttrType { return AttrFileMeas }

// PATNCErrorAttr is the IETF PA-TNC error attribute.
type PATNCErrorAttr struct {
	VendorID uint32
	Code     ErrorCode
	Value    []byte
}

func (a *PATNCErrorAttr) Type() AttrType { return AttrPATNCError }

// UnhandledAttr wraps any inbound type the dispatcher recognizes as
// verifier-only, not-yet-implemented, or simply unknown. It carries its
// wire type through so it can be logged.
type UnhandledAttr struct {
	WireType AttrType
}

func (a *UnhandledAttr) Type() AttrType { return a.WireType }
