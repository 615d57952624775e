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
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	vfs "github.com/twpayne/go-vfs"

	"github.com/rancher/elemental-pts/pkg/pts"
)

// pts error codes an adapter path check can produce; mirrors the values
// the responder's errors.go defines for ErrInvalidPath*.
const (
	pathErrNone      = uint16(0)
	pathErrTraversal = uint16(pts.ErrInvalidPathDelimiter)
	// pathErrNonexistent has no dedicated PA-TNC error code; a missing
	// file is reported with the same delimiter code since both mean
	// "this path cannot be used as given".
	pathErrNonexistent = uint16(pts.ErrInvalidPathDelimiter)
)

// IsPathValid rejects absolute escapes ("..") and requires the path exist
// under fs. This adapter has no configured allow-list of roots, so every
// absolute or relative path under fs is otherwise acceptable — a
// hardware-backed Capability would additionally restrict to a measured
// root set by policy.
func (a *Adapter) IsPathValid(path string) (bool, uint16) {
	if strings.Contains(path, "..") {
		return true, pathErrTraversal
	}
	if _, err := a.fs.Stat(path); err != nil {
		return true, pathErrNonexistent
	}
	return true, pathErrNone
}

// GetMetadata stats path, walking it recursively when isDirectory is set.
func (a *Adapter) GetMetadata(path string, isDirectory bool) ([]pts.FileMetadata, error) {
	if !isDirectory {
		info, err := a.fs.Stat(path)
		if err != nil {
			return nil, err
		}
		return []pts.FileMetadata{metadataFromInfo(filepath.Base(path), info)}, nil
	}

	var out []pts.FileMetadata
	err := vfs.Walk(a.fs, path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(path, p)
		if relErr != nil {
			rel = p
		}
		out = append(out, metadataFromInfo(rel, info))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func metadataFromInfo(name string, info os.FileInfo) pts.FileMetadata {
	pathType := uint8(0)
	if info.IsDir() {
		pathType = 1
	}
	return pts.FileMetadata{
		Filename: name,
		PathType: pathType,
		FileSize: uint64(info.Size()),
	}
}

// DoMeasurements hashes path with the adapter's negotiated measurement
// algorithm, recursing into directories when isDirectory is set.
func (a *Adapter) DoMeasurements(requestID uint16, path string, isDirectory bool) ([]pts.FileMeasurement, error) {
	hashAlg, ok := measAlgoToCryptoHash(a.measAlgorithm)
	if !ok {
		return nil, fmt.Errorf("ptsadapter: no measurement algorithm negotiated")
	}

	if !isDirectory {
		digest, err := a.HashFile(hashAlg, path)
		if err != nil {
			return nil, err
		}
		return []pts.FileMeasurement{{
			RequestID:   requestID,
			Filename:    filepath.Base(path),
			Measurement: digest,
		}}, nil
	}

	var out []pts.FileMeasurement
	err := vfs.Walk(a.fs, path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		digest, hashErr := a.HashFile(hashAlg, p)
		if hashErr != nil {
			return hashErr
		}
		rel, relErr := filepath.Rel(path, p)
		if relErr != nil {
			rel = p
		}
		out = append(out, pts.FileMeasurement{
			RequestID:   requestID,
			Filename:    rel,
			Measurement: digest,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HashFile streams path's contents through hashAlg via the adapter's
// filesystem, so tests can substitute an in-memory vfst.TestFS.
func (a *Adapter) HashFile(hashAlg crypto.Hash, path string) ([]byte, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := hashAlg.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

func measAlgoToCryptoHash(alg pts.MeasAlgorithm) (crypto.Hash, bool) {
	switch alg {
	case pts.MeasAlgoSHA1:
		return crypto.SHA1, true
	case pts.MeasAlgoSHA256:
		return crypto.SHA256, true
	case pts.MeasAlgoSHA384:
		return crypto.SHA384, true
	default:
		return 0, false
	}
}

func (a *Adapter) ReadPCR(index uint32) ([]byte, error) {
	if v, ok := a.pcrs[index]; ok {
		return v, nil
	}
	return make([]byte, sha256.Size), nil
}

// ExtendPCR implements the standard PCR-extend operation new = H(old‖measurement)
// using SHA-256, matching the responder's §4.7.1 PCR_TRANSFORM_LONG shape.
func (a *Adapter) ExtendPCR(index uint32, measurement []byte) ([]byte, error) {
	old, err := a.ReadPCR(index)
	if err != nil {
		return nil, err
	}
	h := sha256.New()
	h.Write(old)
	h.Write(measurement)
	next := h.Sum(nil)
	a.pcrs[index] = next
	return next, nil
}

// QuoteTPM concatenates the requested PCR values and signs the digest
// with the adapter's in-memory AIK, standing in for a hardware TPM2_Quote.
func (a *Adapter) QuoteTPM(indices []uint32) (composite, signature []byte, err error) {
	for _, idx := range indices {
		v, rerr := a.ReadPCR(idx)
		if rerr != nil {
			return nil, nil, rerr
		}
		composite = append(composite, v...)
	}
	digest := sha256.Sum256(composite)
	sig, err := rsa.SignPKCS1v15(nil, a.aikKey, crypto.SHA256, digest[:])
	if err != nil {
		return nil, nil, err
	}
	return composite, sig, nil
}
