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

// validDelimiter reports whether delimiter is one of the two accepted
// path separators.
func validDelimiter(delimiter byte) bool {
	return delimiter == DelimiterSolidus || delimiter == DelimiterReverseSolidus
}

// handleReqFileMeta implements the file metadata request.
func handleReqFileMeta(attr *ReqFileMetaAttr, out OutList, session *Session, cap Capability) error {
	valid, ptsErr := cap.IsPathValid(attr.Pathname)
	if valid && ptsErr != 0 {
		appendOut(out, NewErrorAttr(ErrorCode(ptsErr), attr.RawValue))
		return nil
	}
	if !valid {
		return nil
	}

	if !validDelimiter(attr.Delimiter) {
		appendOut(out, NewErrorAttr(ErrInvalidPathDelimiter, attr.RawValue))
		return nil
	}

	session.Logger.Debugf("pts: metadata request for %s %q", pathKind(attr.Directory), attr.Pathname)
	entries, err := cap.GetMetadata(attr.Pathname, attr.Directory)
	if err != nil {
		return NewFatalError(FatalMetadataRetrieval, err)
	}

	appendOut(out, &UnixFileMetaAttr{Entries: entries, NoSkip: true})
	return nil
}

// handleReqFileMeas implements the file measurement request, sharing the
// same path/delimiter preconditions as the metadata request.
func handleReqFileMeas(attr *ReqFileMeasAttr, out OutList, session *Session, cap Capability) error {
	valid, ptsErr := cap.IsPathValid(attr.Pathname)
	if valid && ptsErr != 0 {
		appendOut(out, NewErrorAttr(ErrorCode(ptsErr), attr.RawValue))
		return nil
	}
	if !valid {
		return nil
	}

	if !validDelimiter(attr.Delimiter) {
		appendOut(out, NewErrorAttr(ErrInvalidPathDelimiter, attr.RawValue))
		return nil
	}

	session.Logger.Debugf("pts: measurement request %d for %s %q", attr.RequestID, pathKind(attr.Directory), attr.Pathname)
	measurements, err := cap.DoMeasurements(attr.RequestID, attr.Pathname, attr.Directory)
	if err != nil {
		return NewFatalError(FatalFileMeasurement, err)
	}

	appendOut(out, &FileMeasAttr{Measurements: measurements, NoSkip: true})
	return nil
}

func pathKind(isDirectory bool) string {
	if isDirectory {
		return "directory"
	}
	return "file"
}
