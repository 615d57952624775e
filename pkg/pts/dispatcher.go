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

// OutList is the mutable output list a handler appends outbound attributes
// to. Ownership of every attribute appended here transfers to the caller.
type OutList = *[]Attribute

// Process dispatches a single decoded inbound attribute. It reads/updates
// session state, may call the injected Capability, and
// appends zero or more outbound attributes to out. It returns a non-nil
// error only when the attribute's handler reports a fatal session error;
// in-band protocol errors are represented as attributes appended to out,
// never as a returned error.
func Process(
	attr Attribute,
	out OutList,
	session *Session,
	cap Capability,
	supportedAlgorithms MeasAlgorithm,
	supportedDHGroups DHGroup,
) error {
	switch a := attr.(type) {
	case *ReqProtoCapsAttr:
		return handleReqProtoCaps(a, out, session, cap)
	case *MeasAlgoAttr:
		if a.Selection {
			session.Logger.Warnf("pts: received measurement-algo-selection, a responder-only attribute; ignoring")
			return nil
		}
		return handleMeasAlgo(a, out, session, cap, supportedAlgorithms)
	case *DHNonceParamsReqAttr:
		return handleDHNonceParamsReq(a, out, session, cap, supportedAlgorithms, supportedDHGroups)
	case *DHNonceFinishAttr:
		return handleDHNonceFinish(a, session, cap, supportedAlgorithms)
	case *GetTPMVersionInfoAttr:
		return handleGetTPMVersionInfo(a, out, cap)
	case *GetAIKAttr:
		return handleGetAIK(out, session, cap)
	case *ReqFunctCompEvidAttr:
		return handleReqFunctCompEvid(a, out, session, cap)
	case *GenAttestEvidAttr:
		return handleGenAttestEvid(out, session, cap)
	case *ReqFileMetaAttr:
		return handleReqFileMeta(a, out, session, cap)
	case *ReqFileMeasAttr:
		return handleReqFileMeas(a, out, session, cap)
	case *UnhandledAttr:
		session.Logger.Debugf("pts: received unsupported attribute type %d", a.WireType)
		return nil
	default:
		session.Logger.Debugf("pts: received unrecognized attribute %T", attr)
		return nil
	}
}

func appendOut(out OutList, attr Attribute) {
	*out = append(*out, attr)
}
