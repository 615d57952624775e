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

// Wire encoding for TCG PTS attributes and the IETF PA-TNC error
// attribute: all multi-byte integers are big-endian; variable-length
// fields are a uint32 octet count followed by the raw bytes; bitsets
// occupy a single integer of their declared width. The responder's
// internal logic never touches these bytes directly — only the codec
// below does.

import (
	"encoding/binary"
	"fmt"
	"io"
)

func writeUint8(w io.Writer, v uint8) error {
	return binary.Write(w, binary.BigEndian, v)
}

func writeUint16(w io.Writer, v uint16) error {
	return binary.Write(w, binary.BigEndian, v)
}

func writeUint32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.BigEndian, v)
}

func writeBytes(w io.Writer, b []byte) error {
	if err := writeUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func writeString(w io.Writer, s string) error {
	return writeBytes(w, []byte(s))
}

func readUint8(r io.Reader) (uint8, error) {
	var v uint8
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readUint16(r io.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readUint32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("pts: short read of %d-octet field: %w", n, err)
	}
	return buf, nil
}

func readString(r io.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeMeasAlgorithm(alg MeasAlgorithm) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(alg))
	return b
}

// Encode writes attr's wire representation to w.
func Encode(w io.Writer, attr Attribute) error {
	switch a := attr.(type) {
	case *ProtoCapsAttr:
		if err := writeUint8(w, uint8(a.Flags)); err != nil {
			return err
		}
		return writeUint8(w, boolToUint8(a.IsRequest))
	case *MeasAlgoAttr:
		return writeUint16(w, uint16(a.Algorithms))
	case *DHNonceParamsRespAttr:
		if err := writeUint16(w, uint16(a.SelectedGroup)); err != nil {
			return err
		}
		if err := writeUint16(w, uint16(a.SupportedAlgorithms)); err != nil {
			return err
		}
		if err := writeBytes(w, a.ResponderNonce); err != nil {
			return err
		}
		return writeBytes(w, a.ResponderValue)
	case *TPMVersionInfoAttr:
		return writeBytes(w, a.VersionInfo)
	case *AIKAttr:
		return writeBytes(w, a.AIK)
	case *SimpleCompEvidAttr:
		return encodeSimpleCompEvid(w, a)
	case *SimpleEvidFinalAttr:
		if err := writeUint8(w, uint8(a.Flags)); err != nil {
			return err
		}
		if err := writeBytes(w, a.CompositeHash); err != nil {
			return err
		}
		if err := writeBytes(w, a.QuoteSignature); err != nil {
			return err
		}
		return writeBytes(w, a.TPMVersionInfo)
	case *UnixFileMetaAttr:
		return encodeUnixFileMeta(w, a)
	case *FileMeasAttr:
		return encodeFileMeas(w, a)
	case *PATNCErrorAttr:
		if err := writeUint32(w, a.VendorID); err != nil {
			return err
		}
		if err := writeUint16(w, uint16(a.Code)); err != nil {
			return err
		}
		return writeBytes(w, a.Value)
	default:
		return fmt.Errorf("pts: no wire encoding for %T", attr)
	}
}

func encodeSimpleCompEvid(w io.Writer, a *SimpleCompEvidAttr) error {
	if err := writeUint8(w, boolToUint8(a.PCRInfoIncluded)); err != nil {
		return err
	}
	if err := writeUint8(w, uint8(a.Flags)); err != nil {
		return err
	}
	if err := writeUint32(w, a.Depth); err != nil {
		return err
	}
	if err := writeUint32(w, a.VendorID); err != nil {
		return err
	}
	if err := writeUint8(w, boolToUint8(a.Qualifier.Kernel)); err != nil {
		return err
	}
	if err := writeUint8(w, boolToUint8(a.Qualifier.SubComponent)); err != nil {
		return err
	}
	if err := writeUint8(w, uint8(a.Qualifier.Type)); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(a.Name)); err != nil {
		return err
	}
	if err := writeUint32(w, a.ExtendedPCR); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(a.HashAlgorithm)); err != nil {
		return err
	}
	if err := writeUint8(w, uint8(a.Transformation)); err != nil {
		return err
	}
	if err := writeString(w, a.MeasurementTime); err != nil {
		return err
	}
	if err := writeBytes(w, a.Measurement); err != nil {
		return err
	}
	if err := writeString(w, a.PolicyURI); err != nil {
		return err
	}
	if err := writeBytes(w, a.PCRBefore); err != nil {
		return err
	}
	return writeBytes(w, a.PCRAfter)
}

func encodeUnixFileMeta(w io.Writer, a *UnixFileMetaAttr) error {
	if err := writeUint8(w, boolToUint8(a.NoSkip)); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(a.Entries))); err != nil {
		return err
	}
	for _, e := range a.Entries {
		if err := writeUint8(w, e.PathType); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(e.FileSize)); err != nil {
			return err
		}
		if err := writeString(w, e.Filename); err != nil {
			return err
		}
	}
	return nil
}

func encodeFileMeas(w io.Writer, a *FileMeasAttr) error {
	if err := writeUint8(w, boolToUint8(a.NoSkip)); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(a.Measurements))); err != nil {
		return err
	}
	for _, m := range a.Measurements {
		if err := writeUint16(w, m.RequestID); err != nil {
			return err
		}
		if err := writeString(w, m.Filename); err != nil {
			return err
		}
		if err := writeBytes(w, m.Measurement); err != nil {
			return err
		}
	}
	return nil
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// DecodeReqProtoCaps decodes a TCG_PTS_REQ_PROTO_CAPS payload.
func DecodeReqProtoCaps(r io.Reader) (*ReqProtoCapsAttr, error) {
	flags, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	return &ReqProtoCapsAttr{Flags: ProtoCapsFlag(flags)}, nil
}

// DecodeMeasAlgo decodes a TCG_PTS_MEAS_ALGO offer payload.
func DecodeMeasAlgo(r io.Reader) (*MeasAlgoAttr, error) {
	algs, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	return &MeasAlgoAttr{Algorithms: MeasAlgorithm(algs)}, nil
}

// DecodeDHNonceParamsReq decodes a TCG_PTS_DH_NONCE_PARAMS_REQ payload.
func DecodeDHNonceParamsReq(r io.Reader) (*DHNonceParamsReqAttr, error) {
	minLen, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	groups, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	return &DHNonceParamsReqAttr{MinNonceLen: int(minLen), DHGroups: DHGroup(groups)}, nil
}

// DecodeDHNonceFinish decodes a TCG_PTS_DH_NONCE_FINISH payload.
func DecodeDHNonceFinish(r io.Reader) (*DHNonceFinishAttr, error) {
	hashAlgo, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	value, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	nonce, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	return &DHNonceFinishAttr{
		HashAlgo:       MeasAlgorithm(hashAlgo),
		InitiatorValue: value,
		InitiatorNonce: nonce,
	}, nil
}

// DecodeGetTPMVersionInfo decodes a TCG_PTS_GET_TPM_VERSION_INFO payload.
// The attribute carries no fields of its own; raw is the full original
// attribute value, forwarded unchanged in an error attribute on failure.
func DecodeGetTPMVersionInfo(raw []byte) *GetTPMVersionInfoAttr {
	return &GetTPMVersionInfoAttr{RawValue: raw}
}

// DecodeReqFunctCompEvid decodes a TCG_PTS_REQ_FUNCT_COMP_EVID payload.
func DecodeReqFunctCompEvid(r io.Reader, raw []byte) (*ReqFunctCompEvidAttr, error) {
	flags, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	depth, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	vendorID, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	family, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	kernel, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	subComponent, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	qualType, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	name, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	return &ReqFunctCompEvidAttr{
		Flags:             ReqFuncCompEvidFlag(flags),
		SubComponentDepth: depth,
		VendorID:          vendorID,
		Family:            family,
		Qualifier: Qualifier{
			Kernel:       kernel != 0,
			SubComponent: subComponent != 0,
			Type:         FuncCompType(qualType),
		},
		Name:     FuncCompName(name),
		RawValue: raw,
	}, nil
}

// DecodeReqFileMeta decodes a TCG_PTS_REQ_FILE_META payload.
func DecodeReqFileMeta(r io.Reader, raw []byte) (*ReqFileMetaAttr, error) {
	directory, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	delimiter, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	pathname, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &ReqFileMetaAttr{
		Directory: directory != 0,
		Delimiter: delimiter,
		Pathname:  pathname,
		RawValue:  raw,
	}, nil
}

// DecodeReqFileMeas decodes a TCG_PTS_REQ_FILE_MEAS payload.
func DecodeReqFileMeas(r io.Reader, raw []byte) (*ReqFileMeasAttr, error) {
	requestID, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	directory, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	delimiter, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	pathname, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &ReqFileMeasAttr{
		RequestID: requestID,
		Directory: directory != 0,
		Delimiter: delimiter,
		Pathname:  pathname,
		RawValue:  raw,
	}, nil
}
