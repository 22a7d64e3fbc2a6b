package authdata

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Fixed-offset accessors used by the credentials container during
// post-processing. They operate on the raw blob without a full parse;
// the attested credential data block is assumed present, and a buffer
// too short to hold it is malformed input.

// AAGUID reads the 16-byte authenticator model identifier.
func AAGUID(data []byte) (uuid.UUID, error) {
	if len(data) < credentialIDLengthOffset {
		return uuid.Nil, ErrTruncated
	}

	return uuid.UUID(data[aaguidOffset:credentialIDLengthOffset]), nil
}

// ZeroAAGUID overwrites the AAGUID with 16 zero bytes in place. The
// credential ID and public key occupy disjoint byte ranges and are left
// untouched.
func ZeroAAGUID(data []byte) error {
	if len(data) < credentialIDLengthOffset {
		return ErrTruncated
	}

	clear(data[aaguidOffset:credentialIDLengthOffset])

	return nil
}

// CredentialID reads the big-endian length-prefixed credential ID.
func CredentialID(data []byte) ([]byte, error) {
	if len(data) < credentialIDOffset {
		return nil, ErrTruncated
	}

	length := int(binary.BigEndian.Uint16(data[credentialIDLengthOffset:credentialIDOffset]))
	if len(data) < credentialIDOffset+length {
		return nil, ErrTruncated
	}

	return data[credentialIDOffset : credentialIDOffset+length], nil
}
