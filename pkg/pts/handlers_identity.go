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

// handleGetTPMVersionInfo: on success, emit the opaque version-info blob;
// on failure, emit a recoverable error carrying the triggering request's
// raw value.
func handleGetTPMVersionInfo(attr *GetTPMVersionInfoAttr, out OutList, cap Capability) error {
	info, err := cap.GetTPMVersionInfo()
	if err != nil {
		appendOut(out, NewErrorAttr(ErrTPMVersionNotSupported, attr.RawValue))
		return nil
	}
	appendOut(out, &TPMVersionInfoAttr{VersionInfo: info})
	return nil
}

// handleGetAIK: absence of an AIK is a silent skip, not an error
// attribute.
func handleGetAIK(out OutList, session *Session, cap Capability) error {
	aik, err := cap.GetAIK()
	if err != nil || len(aik) == 0 {
		session.Logger.Debugf("pts: no AIK certificate or public key available")
		return nil
	}
	appendOut(out, &AIKAttr{AIK: aik})
	return nil
}
