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

package mocks

import (
	"crypto"
	"errors"
	"fmt"

	"github.com/rancher/elemental-pts/pkg/pts"
)

var _ pts.Capability = (*FakePTS)(nil)

// FakePTS is a deterministic, in-memory stand-in for pts.Capability, used
// by unit tests that exercise the dispatcher and handlers without a real
// TPM. Its ErrorOn* toggles let a test force any capability call to fail.
type FakePTS struct {
	Caps          pts.ProtoCapsFlag
	MeasAlgorithm pts.MeasAlgorithm

	DHHashAlgorithm pts.MeasAlgorithm
	MyValue         []byte
	MyNonce         []byte
	PeerValue       []byte
	PeerNonce       []byte
	Secret          []byte

	TPMVersionInfo []byte
	AIK            []byte

	PCRs map[uint32][]byte

	PathValid    bool
	PathError    uint16
	Metadata     []pts.FileMetadata
	Measurements []pts.FileMeasurement

	ErrorOnCreateDHNonce    bool
	ErrorOnGetMyPublicValue bool
	ErrorOnCalculateSecret  bool
	ErrorOnGetTPMVersion    bool
	ErrorOnGetAIK           bool
	ErrorOnHashFile         bool
	ErrorOnReadPCR          bool
	ErrorOnExtendPCR        bool
	ErrorOnQuoteTPM         bool
	ErrorOnGetMetadata      bool
	ErrorOnDoMeasurements   bool

	// HashFileResult is returned verbatim by HashFile when set, so tests
	// can assert exact digest propagation without needing a real file.
	HashFileResult []byte

	QuoteComposite  []byte
	QuoteSignature  []byte
}

// NewFakePTS returns a FakePTS with empty PCR banks and no errors armed.
func NewFakePTS() *FakePTS {
	return &FakePTS{
		PCRs:      map[uint32][]byte{},
		PathValid: true,
	}
}

func (f *FakePTS) GetProtoCaps() pts.ProtoCapsFlag { return f.Caps }
func (f *FakePTS) SetProtoCaps(caps pts.ProtoCapsFlag) { f.Caps = caps }

func (f *FakePTS) GetMeasAlgorithm() pts.MeasAlgorithm { return f.MeasAlgorithm }
func (f *FakePTS) SetMeasAlgorithm(alg pts.MeasAlgorithm) { f.MeasAlgorithm = alg }

func (f *FakePTS) CreateDHNonce(group pts.DHGroup, nonceLen int) error {
	if f.ErrorOnCreateDHNonce {
		return errors.New("fake: dh key generation failed")
	}
	f.MyValue = []byte(fmt.Sprintf("pubvalue-%d", group))
	f.MyNonce = make([]byte, nonceLen)
	for i := range f.MyNonce {
		f.MyNonce[i] = byte(i + 1)
	}
	return nil
}

func (f *FakePTS) GetMyPublicValue() (value, nonce []byte, err error) {
	if f.ErrorOnGetMyPublicValue {
		return nil, nil, errors.New("fake: no public value available")
	}
	return f.MyValue, f.MyNonce, nil
}

func (f *FakePTS) SetDHHashAlgorithm(alg pts.MeasAlgorithm) { f.DHHashAlgorithm = alg }

func (f *FakePTS) SetPeerPublicValue(value, nonce []byte) {
	f.PeerValue = value
	f.PeerNonce = nonce
}

func (f *FakePTS) CalculateSecret() error {
	if f.ErrorOnCalculateSecret {
		return errors.New("fake: secret computation failed")
	}
	f.Secret = append(append([]byte{}, f.MyValue...), f.PeerValue...)
	return nil
}

func (f *FakePTS) GetTPMVersionInfo() ([]byte, error) {
	if f.ErrorOnGetTPMVersion {
		return nil, errors.New("fake: tpm version info unavailable")
	}
	return f.TPMVersionInfo, nil
}

func (f *FakePTS) GetAIK() ([]byte, error) {
	if f.ErrorOnGetAIK {
		return nil, errors.New("fake: aik unavailable")
	}
	return f.AIK, nil
}

func (f *FakePTS) HashFile(hashAlg crypto.Hash, path string) ([]byte, error) {
	if f.ErrorOnHashFile {
		return nil, fmt.Errorf("fake: could not hash %s", path)
	}
	if f.HashFileResult != nil {
		return f.HashFileResult, nil
	}
	digest := make([]byte, hashAlg.Size())
	for i := range digest {
		digest[i] = byte(i)
	}
	return digest, nil
}

func (f *FakePTS) ReadPCR(index uint32) ([]byte, error) {
	if f.ErrorOnReadPCR {
		return nil, fmt.Errorf("fake: could not read pcr %d", index)
	}
	if v, ok := f.PCRs[index]; ok {
		return v, nil
	}
	return make([]byte, 32), nil
}

func (f *FakePTS) ExtendPCR(index uint32, measurement []byte) ([]byte, error) {
	if f.ErrorOnExtendPCR {
		return nil, fmt.Errorf("fake: could not extend pcr %d", index)
	}
	after := append([]byte{}, measurement...)
	f.PCRs[index] = after
	return after, nil
}

func (f *FakePTS) QuoteTPM(indices []uint32) (composite, signature []byte, err error) {
	if f.ErrorOnQuoteTPM {
		return nil, nil, errors.New("fake: tpm quote failed")
	}
	if f.QuoteComposite != nil {
		return f.QuoteComposite, f.QuoteSignature, nil
	}
	var blob []byte
	for _, idx := range indices {
		blob = append(blob, byte(idx))
		blob = append(blob, f.PCRs[idx]...)
	}
	return blob, []byte("fake-signature"), nil
}

func (f *FakePTS) IsPathValid(path string) (bool, uint16) {
	return f.PathValid, f.PathError
}

func (f *FakePTS) GetMetadata(path string, isDirectory bool) ([]pts.FileMetadata, error) {
	if f.ErrorOnGetMetadata {
		return nil, fmt.Errorf("fake: could not stat %s", path)
	}
	return f.Metadata, nil
}

func (f *FakePTS) DoMeasurements(requestID uint16, path string, isDirectory bool) ([]pts.FileMeasurement, error) {
	if f.ErrorOnDoMeasurements {
		return nil, fmt.Errorf("fake: could not measure %s", path)
	}
	return f.Measurements, nil
}
