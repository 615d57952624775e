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

// handleMeasAlgo implements hash-algorithm negotiation. It selects the
// strongest algorithm present in both the offer and the responder's
// supported set; an empty intersection yields a recoverable
// hash-algo-unsupported error, carrying the responder's supported set,
// and leaves session state untouched.
func handleMeasAlgo(attr *MeasAlgoAttr, out OutList, session *Session, cap Capability, supported MeasAlgorithm) error {
	selected := SelectMeasAlgorithm(supported, attr.Algorithms)
	if selected == MeasAlgoNone {
		appendOut(out, errAttrWithAlgoSet(ErrHashAlgoUnsupported, supported))
		return nil
	}

	cap.SetMeasAlgorithm(selected)
	session.MeasAlgorithm = selected

	appendOut(out, &MeasAlgoAttr{Algorithms: selected, Selection: true})
	return nil
}

func errAttrWithAlgoSet(code ErrorCode, algos MeasAlgorithm) *PATNCErrorAttr {
	return NewErrorAttr(code, encodeMeasAlgorithm(algos))
}
