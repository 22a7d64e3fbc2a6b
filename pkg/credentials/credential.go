package credentials

import "github.com/go-ctap/softauthn/pkg/webauthntypes"

// AuthenticatorAttestationResponse carries the result of a create()
// ceremony back to the Relying Party.
// https://www.w3.org/TR/webauthn-3/#authenticatorattestationresponse
type AuthenticatorAttestationResponse struct {
	AttestationObject []byte
	ClientDataJSON    []byte
	Transports        []webauthntypes.AuthenticatorTransport
}

// AuthenticatorAssertionResponse carries the result of a get() ceremony
// back to the Relying Party.
// https://www.w3.org/TR/webauthn-3/#authenticatorassertionresponse
type AuthenticatorAssertionResponse struct {
	AuthenticatorData []byte
	ClientDataJSON    []byte
	Signature         []byte
	UserHandle        []byte
}

// AttestationCredential is the PublicKeyCredential returned by Create.
type AttestationCredential struct {
	ID                     []byte
	Response               AuthenticatorAttestationResponse
	ClientExtensionResults map[webauthntypes.ExtensionIdentifier]any
}

// AssertionCredential is the PublicKeyCredential returned by Get.
type AssertionCredential struct {
	ID                     []byte
	Response               AuthenticatorAssertionResponse
	ClientExtensionResults map[webauthntypes.ExtensionIdentifier]any
}
