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

import "crypto"

// FileMetadata describes a single file or directory entry returned by
// Capability.GetMetadata.
type FileMetadata struct {
	Filename string
	PathType uint8
	FileSize uint64
}

// FileMeasurement is a single measured file, returned by
// Capability.DoMeasurements.
type FileMeasurement struct {
	RequestID uint16
	Filename  string
	Measurement []byte
}

// Capability is the injected PTS capability interface: TPM, DH/crypto and
// filesystem access that the responder depends on but does not implement.
// A hardware-backed implementation talks to a real TPM; pkg/ptsadapter
// supplies a software reference implementation for tests and demos.
type Capability interface {
	// GetProtoCaps returns the capabilities this endpoint locally supports.
	GetProtoCaps() ProtoCapsFlag
	// SetProtoCaps stores the negotiated capability intersection.
	SetProtoCaps(caps ProtoCapsFlag)

	// GetMeasAlgorithm returns the negotiated measurement hash algorithm.
	GetMeasAlgorithm() MeasAlgorithm
	// SetMeasAlgorithm stores the negotiated measurement hash algorithm.
	SetMeasAlgorithm(alg MeasAlgorithm)

	// CreateDHNonce generates a fresh responder DH key pair and nonce for
	// the given group and nonce length.
	CreateDHNonce(group DHGroup, nonceLen int) error
	// GetMyPublicValue returns the responder's DH public value and nonce.
	GetMyPublicValue() (value, nonce []byte, err error)
	// SetDHHashAlgorithm stores the algorithm used to derive the session
	// secret from the DH shared value.
	SetDHHashAlgorithm(alg MeasAlgorithm)
	// SetPeerPublicValue records the initiator's DH public value and nonce.
	SetPeerPublicValue(value, nonce []byte)
	// CalculateSecret derives the shared secret from the stored DH material.
	CalculateSecret() error

	// GetTPMVersionInfo returns an opaque TPM capability/version blob.
	GetTPMVersionInfo() ([]byte, error)
	// GetAIK returns the Attestation Identity Key certificate or public
	// key, or nil if none is provisioned.
	GetAIK() ([]byte, error)

	// HashFile hashes the named file end-to-end using the given algorithm.
	HashFile(hashAlg crypto.Hash, path string) ([]byte, error)
	// ReadPCR returns the current value of the given PCR index.
	ReadPCR(index uint32) ([]byte, error)
	// ExtendPCR extends the given PCR index with measurement and returns
	// the resulting value.
	ExtendPCR(index uint32, measurement []byte) ([]byte, error)
	// QuoteTPM produces a signed TPM quote over the given PCR indices.
	QuoteTPM(indices []uint32) (composite, signature []byte, err error)

	// IsPathValid reports whether path is a legal measurement/metadata
	// target. A true result with a non-zero pts error indicates an
	// in-band, recoverable validation failure; a false result is a silent
	// skip.
	IsPathValid(path string) (valid bool, ptsError uint16)
	// GetMetadata retrieves file or directory metadata for path.
	GetMetadata(path string, isDirectory bool) ([]FileMetadata, error)
	// DoMeasurements measures path (recursively if isDirectory), tagging
	// each result with requestID.
	DoMeasurements(requestID uint16, path string, isDirectory bool) ([]FileMeasurement, error)
}
