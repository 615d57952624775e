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

// DHMaterial holds the responder's in-flight DH state between
// nonce-params-response and DH finish.
type DHMaterial struct {
	Group          DHGroup
	ResponderValue []byte
	ResponderNonce []byte
}

// Session holds per-attestation-session state: negotiated capabilities, the
// chosen measurement algorithm, DH material, and the evidence buffer
// awaiting quote generation. The AIK is not stored here; handlers obtain
// it from the Capability on each request. A Session is owned
// exclusively by its caller for the duration of a dispatch call; no
// internal locking is needed.
type Session struct {
	Logger Logger

	ProtoCaps      ProtoCapsFlag
	protoCapsSet   bool
	MeasAlgorithm  MeasAlgorithm
	DHHashAlgorithm MeasAlgorithm
	DHMaterial     *DHMaterial
	NonceLen       int

	// MeasuredFile and ExtendPCRIndex parameterize the BIOS reference
	// measurement path; they come from configuration, not hard-coded
	// constants.
	MeasuredFile   string
	ExtendPCRIndex uint32

	evidenceBuffer []*SimpleCompEvidAttr
}

// NewSession constructs a Session with the given nonce length and BIOS
// reference-measurement parameters. Use config.Load to populate these from
// configuration rather than hard-coding them.
func NewSession(logger Logger, nonceLen int, measuredFile string, extendPCRIndex uint32) *Session {
	return &Session{
		Logger:         logger,
		NonceLen:       nonceLen,
		MeasuredFile:   measuredFile,
		ExtendPCRIndex: extendPCRIndex,
	}
}

// HasCapsNegotiated reports whether capability negotiation has run yet,
// gating requests whose flags depend on a capability bit.
func (s *Session) HasCapsNegotiated() bool {
	return s.protoCapsSet
}

// SetProtoCaps stores the negotiated capability intersection, marking
// negotiation as complete.
func (s *Session) SetProtoCaps(caps ProtoCapsFlag) {
	s.ProtoCaps = caps
	s.protoCapsSet = true
}

// BufferEvidence appends component evidence to the session's evidence
// buffer, to be flushed on the next quote-generation turn.
func (s *Session) BufferEvidence(attr *SimpleCompEvidAttr) {
	s.evidenceBuffer = append(s.evidenceBuffer, attr)
}

// EvidenceCount returns the number of buffered evidence attributes.
func (s *Session) EvidenceCount() int {
	return len(s.evidenceBuffer)
}

// DrainEvidence moves ownership of the buffered evidence to the caller and
// empties the buffer, as required at quote generation and on fatal abort.
func (s *Session) DrainEvidence() []*SimpleCompEvidAttr {
	drained := s.evidenceBuffer
	s.evidenceBuffer = nil
	return drained
}

// Logger is the minimal structured-logging surface the session and
// handlers use, kept independent of any logging library so it can be
// backed by logrus without this package importing it directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards everything; useful for tests that don't assert on logs.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}
