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

// Package ptsadapter is a software reference implementation of
// pts.Capability. It stands in for a hardware TPM so the responder can be
// exercised end to end without physical access to /dev/tpm0.
package ptsadapter

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"

	tpm2 "github.com/canonical/go-tpm2"
	vfs "github.com/twpayne/go-vfs"

	"github.com/rancher/elemental-pts/pkg/pts"
)

var _ pts.Capability = (*Adapter)(nil)

// Adapter is a non-hardware pts.Capability implementation: DH key
// agreement over the RFC 3526 MODP groups, an in-memory PCR bank, and an
// in-memory RSA AIK used to sign quotes.
type Adapter struct {
	fs           vfs.FS
	localCaps    pts.ProtoCapsFlag
	measAlgorithm pts.MeasAlgorithm

	dh *dhState

	aikKey  *rsa.PrivateKey
	aikCert []byte

	pcrs map[uint32][]byte
}

// New returns an Adapter backed by fs (use vfs.OSFS for the real
// filesystem, or an in-memory vfst.TestFS in tests), supporting the given
// local protocol capabilities.
func New(fs vfs.FS, localCaps pts.ProtoCapsFlag) (*Adapter, error) {
	aikKey, aikCert, err := generateAIK()
	if err != nil {
		return nil, err
	}
	return &Adapter{
		fs:        fs,
		localCaps: localCaps,
		aikKey:    aikKey,
		aikCert:   aikCert,
		pcrs:      map[uint32][]byte{},
	}, nil
}

func (a *Adapter) GetProtoCaps() pts.ProtoCapsFlag     { return a.localCaps }
func (a *Adapter) SetProtoCaps(caps pts.ProtoCapsFlag) { a.localCaps = caps }

func (a *Adapter) GetMeasAlgorithm() pts.MeasAlgorithm     { return a.measAlgorithm }
func (a *Adapter) SetMeasAlgorithm(alg pts.MeasAlgorithm) { a.measAlgorithm = alg }

func (a *Adapter) GetTPMVersionInfo() ([]byte, error) {
	// A canned 8-octet blob: the big-endian canonical/go-tpm2 SHA-256
	// algorithm identifier followed by the ASCII marker "PTS-SW". This
	// adapter never owns a real TPM, so the blob is not a TPM
	// GetCapability response.
	return []byte{
		byte(tpm2.HashAlgorithmSHA256 >> 8), byte(tpm2.HashAlgorithmSHA256),
		'P', 'T', 'S', '-', 'S', 'W',
	}, nil
}

func (a *Adapter) GetAIK() ([]byte, error) {
	return a.aikCert, nil
}

func generateAIK() (*rsa.PrivateKey, []byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "pts-reference-aik"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().AddDate(10, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, err
	}
	return key, der, nil
}
