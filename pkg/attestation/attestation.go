// Package attestation holds the attestation object, the structured binary
// document an authenticator returns from credential creation.
package attestation

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/go-ctap/softauthn/pkg/webauthntypes"
)

// Object is a WebAuthn attestation object. AuthData carries the raw
// authenticator data blob whose layout is defined in package authdata.
// https://www.w3.org/TR/webauthn-3/#sctn-attestation
type Object struct {
	Format               webauthntypes.AttestationStatementFormatIdentifier `cbor:"fmt"`
	AttestationStatement map[string]any                                     `cbor:"attStmt"`
	AuthData             []byte                                             `cbor:"authData"`
}

func (o *Object) Encode(encMode cbor.EncMode) ([]byte, error) {
	return encMode.Marshal(o)
}

func Decode(data []byte) (*Object, error) {
	var o *Object
	if err := cbor.Unmarshal(data, &o); err != nil {
		return nil, err
	}

	return o, nil
}
