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

import "fmt"

// ErrorCode enumerates the PA-TNC error codes this responder can emit, all
// scoped to the TCG vendor ID.
type ErrorCode uint16

const (
	ErrHashAlgoUnsupported      ErrorCode = 1
	ErrDHGroupUnsupported       ErrorCode = 2
	ErrDHNonceLengthInvalid     ErrorCode = 3
	ErrTPMVersionNotSupported   ErrorCode = 4
	ErrUnableToDetermineTTC     ErrorCode = 5
	ErrUnableToPerformLocalVal  ErrorCode = 6
	ErrUnableToRetrieveCurrEvid ErrorCode = 7
	ErrUnableToDeterminePCR     ErrorCode = 8
	ErrInvalidNameFamily        ErrorCode = 9
	ErrInvalidPathDelimiter     ErrorCode = 10
)

// FatalReason symbolically identifies why a session was aborted, so callers
// can log and react without string-matching.
type FatalReason string

const (
	FatalDHKeyGeneration       FatalReason = "dh_key_generation"
	FatalDHSecretComputation   FatalReason = "dh_secret_computation"
	FatalHasherUnavailable     FatalReason = "hasher_unavailable"
	FatalFileHashing           FatalReason = "file_hashing"
	FatalPCRRead               FatalReason = "pcr_read"
	FatalPCRExtend             FatalReason = "pcr_extend"
	FatalTPMQuote              FatalReason = "tpm_quote"
	FatalMetadataRetrieval     FatalReason = "metadata_retrieval"
	FatalFileMeasurement       FatalReason = "file_measurement"
	FatalUnsupportedDHHash     FatalReason = "unsupported_dh_hash"
	FatalDHNonceLengthMismatch FatalReason = "dh_nonce_length_mismatch"
	FatalDigestLengthMismatch  FatalReason = "digest_length_mismatch"
)

// FatalError aborts the session the dispatcher is processing. It wraps the
// underlying cause (if any) alongside a symbolic reason, carrying
// structured detail instead of a bare string.
type FatalError struct {
	Reason FatalReason
	Cause  error
}

func (e *FatalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pts: fatal session error (%s): %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("pts: fatal session error (%s)", e.Reason)
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

// NewFatalError builds a FatalError for the given reason, optionally
// wrapping a lower-level cause.
func NewFatalError(reason FatalReason, cause error) error {
	return &FatalError{Reason: reason, Cause: cause}
}

// NewErrorAttr builds a PA-TNC error attribute, parameterized by the PEN
// vendor ID and an error code, carrying the given value payload. The
// payload shape depends on the code: most carry the triggering
// request's raw attribute value; hash/DH-unsupported errors carry the
// responder's supported set; the nonce error carries (configured, max).
func NewErrorAttr(code ErrorCode, value []byte) *PATNCErrorAttr {
	return &PATNCErrorAttr{
		VendorID: PEN,
		Code:     code,
		Value:    value,
	}
}
