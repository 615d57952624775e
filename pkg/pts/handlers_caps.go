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

// handleReqProtoCaps implements capability negotiation: the responder
// intersects its own capabilities with the verifier's offer, stores the
// intersection, and echoes it back.
func handleReqProtoCaps(attr *ReqProtoCapsAttr, out OutList, session *Session, cap Capability) error {
	ourCaps := cap.GetProtoCaps()
	negotiated := ourCaps & attr.Flags

	cap.SetProtoCaps(negotiated)
	session.SetProtoCaps(negotiated)

	appendOut(out, &ProtoCapsAttr{Flags: negotiated, IsRequest: false})
	return nil
}
