// Package authdata encodes and decodes the authenticator data structure
// shared by attestation and assertion responses.
// https://www.w3.org/TR/webauthn-3/#sctn-authenticator-data
package authdata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/ldclabs/cose/key"
)

type Flag byte

const (
	FlagUserPresent Flag = 1 << iota
	_
	FlagUserVerified
	_
	_
	_
	FlagAttestedCredentialDataIncluded
	FlagExtensionDataIncluded
)

func (f Flag) UserPresent() bool {
	return f&FlagUserPresent != 0
}
func (f Flag) UserVerified() bool {
	return f&FlagUserVerified != 0
}
func (f Flag) AttestedCredentialDataIncluded() bool {
	return f&FlagAttestedCredentialDataIncluded != 0
}
func (f Flag) ExtensionDataIncluded() bool {
	return f&FlagExtensionDataIncluded != 0
}

// Byte offsets of the fixed-layout prefix. The attested credential data
// block starts right after the sign counter.
const (
	rpIDHashLength           = 32
	flagsOffset              = 32
	signCountOffset          = 33
	aaguidOffset             = 37
	credentialIDLengthOffset = aaguidOffset + 16
	credentialIDOffset       = credentialIDLengthOffset + 2
)

var ErrTruncated = errors.New("authdata: truncated authenticator data")

type AttestedCredentialData struct {
	AAGUID              uuid.UUID
	CredentialID        []byte
	CredentialPublicKey key.Key
}

type AuthData struct {
	RPIDHash               []byte
	Flags                  Flag
	SignCount              uint32
	AttestedCredentialData *AttestedCredentialData
	Extensions             []byte
}

func Parse(data []byte) (*AuthData, error) {
	if len(data) < aaguidOffset {
		return nil, ErrTruncated
	}

	d := &AuthData{
		RPIDHash:  data[:rpIDHashLength],
		Flags:     Flag(data[flagsOffset]),
		SignCount: binary.BigEndian.Uint32(data[signCountOffset:aaguidOffset]),
	}
	offset := aaguidOffset
	if d.Flags.AttestedCredentialDataIncluded() {
		if len(data) < credentialIDOffset {
			return nil, ErrTruncated
		}
		credData := &AttestedCredentialData{
			AAGUID: uuid.UUID(data[offset : offset+16]),
		}
		offset += 16

		// Credential ID
		length := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		offset += 2
		if len(data) < offset+length {
			return nil, ErrTruncated
		}
		credData.CredentialID = data[offset : offset+length]
		offset += length

		// Credential Public Key
		dec := cbor.NewDecoder(bytes.NewReader(data[offset:]))
		if err := dec.Decode(&credData.CredentialPublicKey); err != nil {
			return nil, err
		}
		offset += dec.NumBytesRead()

		d.AttestedCredentialData = credData
	}

	if d.Flags.ExtensionDataIncluded() {
		d.Extensions = data[offset:]
	}

	return d, nil
}

func Marshal(d *AuthData, encMode cbor.EncMode) ([]byte, error) {
	if len(d.RPIDHash) != rpIDHashLength {
		return nil, fmt.Errorf("authdata: RP ID hash must be %d bytes, got %d", rpIDHashLength, len(d.RPIDHash))
	}

	buf := new(bytes.Buffer)
	buf.Write(d.RPIDHash)
	buf.WriteByte(byte(d.Flags))
	_ = binary.Write(buf, binary.BigEndian, d.SignCount)

	if credData := d.AttestedCredentialData; credData != nil {
		if len(credData.CredentialID) > math.MaxUint16 {
			return nil, errors.New("authdata: credential ID exceeds the 2-byte length field")
		}

		buf.Write(credData.AAGUID[:])
		_ = binary.Write(buf, binary.BigEndian, uint16(len(credData.CredentialID)))
		buf.Write(credData.CredentialID)

		b, err := encMode.Marshal(credData.CredentialPublicKey)
		if err != nil {
			return nil, fmt.Errorf("authdata: cannot marshal credential public key: %w", err)
		}
		buf.Write(b)
	}

	buf.Write(d.Extensions)

	return buf.Bytes(), nil
}
