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
	"bytes"
)

// unhandledTypes are verifier-only, not-yet-implemented, or Windows/XML
// attribute types the dispatcher recognizes by name but never acts on.
// Received here, they decode to an UnhandledAttr rather than failing.
var unhandledTypes = map[AttrType]bool{
	AttrReqIntegMeasLog:        true,
	AttrReqTemplRefManiSetMeta: true,
	AttrUpdateTemplRefMani:     true,
	AttrReqRegistryValue:       true,
	AttrProtoCaps:              true,
	AttrDHNonceParamsResp:      true,
	AttrMeasAlgoSelection:      true,
	AttrTPMVersionInfo:         true,
	AttrTemplRefManiSetMeta:    true,
	AttrAIK:                    true,
	AttrSimpleCompEvid:         true,
	AttrSimpleEvidFinal:        true,
	AttrVerificationResult:     true,
	AttrIntegReport:            true,
	AttrUnixFileMeta:           true,
	AttrFileMeas:               true,
	AttrIntegMeasLog:           true,
}

// Decode decodes a single inbound attribute, given its wire type and raw
// value payload. Unknown, verifier-only, and not-yet-implemented types
// decode successfully to an UnhandledAttr; only a malformed payload for a
// recognized type is an error.
func Decode(wireType AttrType, value []byte) (Attribute, error) {
	if unhandledTypes[wireType] {
		return &UnhandledAttr{WireType: wireType}, nil
	}

	r := bytes.NewReader(value)
	switch wireType {
	case AttrReqProtoCaps:
		return DecodeReqProtoCaps(r)
	case AttrMeasAlgo:
		return DecodeMeasAlgo(r)
	case AttrDHNonceParamsReq:
		return DecodeDHNonceParamsReq(r)
	case AttrDHNonceFinish:
		return DecodeDHNonceFinish(r)
	case AttrGetTPMVersionInfo:
		return DecodeGetTPMVersionInfo(value), nil
	case AttrGetAIK:
		return &GetAIKAttr{}, nil
	case AttrReqFunctCompEvid:
		return DecodeReqFunctCompEvid(r, value)
	case AttrGenAttestEvid:
		return &GenAttestEvidAttr{}, nil
	case AttrReqFileMeta:
		return DecodeReqFileMeta(r, value)
	case AttrReqFileMeas:
		return DecodeReqFileMeas(r, value)
	default:
		return &UnhandledAttr{WireType: wireType}, nil
	}
}
