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

package ptsadapter

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"github.com/rancher/elemental-pts/pkg/pts"
)

// dhState holds one in-progress Diffie-Hellman exchange. Only the MODP
// groups (RFC 3526) are implemented; the elliptic-curve groups
// (DHGroupECP256/384) are accepted at negotiation time by pts.SelectDHGroup
// but CreateDHNonce rejects them here, since this adapter has no EC
// implementation to back them.
type dhState struct {
	group    pts.DHGroup
	prime    *big.Int
	generator *big.Int
	private  *big.Int
	public   *big.Int
	nonce    []byte

	hashAlgorithm pts.MeasAlgorithm
	peerValue     []byte
	peerNonce     []byte
	secret        []byte
}

// modpGroups gives the hex-encoded prime for each supported MODP group.
// The generator is 2 for every group and is set in CreateDHNonce.
var modpGroups = map[pts.DHGroup]string{
	pts.DHGroupIKE2:  modp1024,
	pts.DHGroupIKE5:  modp1536,
	pts.DHGroupIKE14: modp2048,
	pts.DHGroupIKE15: modp3072,
}

func (a *Adapter) CreateDHNonce(group pts.DHGroup, nonceLen int) error {
	hexPrime, ok := modpGroups[group]
	if !ok {
		return fmt.Errorf("ptsadapter: unsupported dh group %d", group)
	}
	prime, ok := new(big.Int).SetString(hexPrime, 16)
	if !ok {
		return fmt.Errorf("ptsadapter: malformed modp prime for group %d", group)
	}

	private, err := rand.Int(rand.Reader, prime)
	if err != nil {
		return err
	}
	generator := big.NewInt(2)
	public := new(big.Int).Exp(generator, private, prime)

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	a.dh = &dhState{
		group:     group,
		prime:     prime,
		generator: generator,
		private:   private,
		public:    public,
		nonce:     nonce,
	}
	return nil
}

func (a *Adapter) GetMyPublicValue() (value, nonce []byte, err error) {
	if a.dh == nil {
		return nil, nil, fmt.Errorf("ptsadapter: no dh exchange in progress")
	}
	return a.dh.public.Bytes(), a.dh.nonce, nil
}

func (a *Adapter) SetDHHashAlgorithm(alg pts.MeasAlgorithm) {
	if a.dh != nil {
		a.dh.hashAlgorithm = alg
	}
}

func (a *Adapter) SetPeerPublicValue(value, nonce []byte) {
	if a.dh == nil {
		return
	}
	a.dh.peerValue = value
	a.dh.peerNonce = nonce
}

// CalculateSecret derives the session secret from the DH shared value by
// running it through HKDF (RFC 5869) keyed on the concatenation of both
// nonces, using the negotiated measurement-hash-sized digest as the HKDF
// hash. The two nonces are ordered lexicographically rather than
// mine-then-peer's, so both sides of an exchange feed HKDF the same salt
// regardless of which one computes it.
func (a *Adapter) CalculateSecret() error {
	if a.dh == nil {
		return fmt.Errorf("ptsadapter: no dh exchange in progress")
	}
	peer := new(big.Int).SetBytes(a.dh.peerValue)
	shared := new(big.Int).Exp(peer, a.dh.private, a.dh.prime)

	hashFn := measAlgoToHashFunc(a.dh.hashAlgorithm)
	first, second := a.dh.nonce, a.dh.peerNonce
	if bytes.Compare(first, second) > 0 {
		first, second = second, first
	}
	salt := append(append([]byte{}, first...), second...)
	kdf := hkdf.New(hashFn, shared.Bytes(), salt, []byte("pts-dh-secret"))

	secret := make([]byte, hashFn().Size())
	if _, err := io.ReadFull(kdf, secret); err != nil {
		return err
	}
	a.dh.secret = secret
	return nil
}

// Secret returns the derived DH session secret, or nil if CalculateSecret
// has not yet succeeded. Exposed for tests to verify both sides of an
// exchange agree; production handlers never need the raw value.
func (a *Adapter) Secret() []byte {
	if a.dh == nil {
		return nil
	}
	return a.dh.secret
}
