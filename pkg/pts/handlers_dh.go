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

import "encoding/binary"

// handleDHNonceParamsReq implements the first half of the DH nonce
// exchange. It validates the configured nonce length against the
// verifier's minimum, selects a DH group, and generates fresh responder
// DH material and a nonce.
func handleDHNonceParamsReq(
	attr *DHNonceParamsReqAttr,
	out OutList,
	session *Session,
	cap Capability,
	supportedAlgorithms MeasAlgorithm,
	supportedDHGroups DHGroup,
) error {
	nonceLen := session.NonceLen
	if nonceLen < MinNonceLen || (attr.MinNonceLen > 0 && nonceLen < attr.MinNonceLen) {
		appendOut(out, errAttrDHNonceLength(nonceLen))
		return nil
	}

	selectedGroup := SelectDHGroup(supportedDHGroups, attr.DHGroups)
	if selectedGroup == DHGroupNone {
		appendOut(out, errAttrWithDHGroupSet(ErrDHGroupUnsupported, supportedDHGroups))
		return nil
	}

	if err := cap.CreateDHNonce(selectedGroup, nonceLen); err != nil {
		return NewFatalError(FatalDHKeyGeneration, err)
	}

	responderValue, responderNonce, err := cap.GetMyPublicValue()
	if err != nil {
		return NewFatalError(FatalDHKeyGeneration, err)
	}

	session.DHMaterial = &DHMaterial{
		Group:          selectedGroup,
		ResponderValue: responderValue,
		ResponderNonce: responderNonce,
	}

	appendOut(out, &DHNonceParamsRespAttr{
		SelectedGroup:       selectedGroup,
		SupportedAlgorithms: supportedAlgorithms,
		ResponderNonce:      responderNonce,
		ResponderValue:      responderValue,
	})
	return nil
}

func errAttrDHNonceLength(configured int) *PATNCErrorAttr {
	value := make([]byte, 8)
	binary.BigEndian.PutUint32(value[0:4], uint32(configured))
	binary.BigEndian.PutUint32(value[4:8], uint32(MaxNonceLen))
	return NewErrorAttr(ErrDHNonceLengthInvalid, value)
}

func errAttrWithDHGroupSet(code ErrorCode, groups DHGroup) *PATNCErrorAttr {
	value := make([]byte, 2)
	binary.BigEndian.PutUint16(value, uint16(groups))
	return NewErrorAttr(code, value)
}

// handleDHNonceFinish implements the second half of the DH nonce exchange.
// The verifier's selected hash algorithm must be one the responder
// supports, and the initiator's nonce must match the configured responder
// nonce length; both violations are fatal, since they indicate a verifier
// that has desynchronized from this session, not a recoverable in-band
// condition.
func handleDHNonceFinish(attr *DHNonceFinishAttr, session *Session, cap Capability, supportedAlgorithms MeasAlgorithm) error {
	if attr.HashAlgo&supportedAlgorithms == 0 {
		return NewFatalError(FatalUnsupportedDHHash, nil)
	}
	session.DHHashAlgorithm = attr.HashAlgo
	cap.SetDHHashAlgorithm(attr.HashAlgo)

	if len(attr.InitiatorNonce) != session.NonceLen {
		return NewFatalError(FatalDHNonceLengthMismatch, nil)
	}

	cap.SetPeerPublicValue(attr.InitiatorValue, attr.InitiatorNonce)
	if err := cap.CalculateSecret(); err != nil {
		return NewFatalError(FatalDHSecretComputation, err)
	}

	session.DHMaterial = nil
	return nil
}
