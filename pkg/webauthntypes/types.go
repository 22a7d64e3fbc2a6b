package webauthntypes

import (
	"github.com/ldclabs/cose/iana"
	"github.com/ldclabs/cose/key"
)

type (
	// PublicKeyCredentialType defines the valid credential types.
	// https://www.w3.org/TR/webauthn-3/#enumdef-publickeycredentialtype
	PublicKeyCredentialType string
	// AuthenticatorTransport defines hints as to how clients might communicate
	// with a particular authenticator in order to obtain an assertion for a specific credential.
	// https://www.w3.org/TR/webauthn-3/#enumdef-authenticatortransport
	AuthenticatorTransport string
	// AuthenticatorAttachment describes an authenticator's attachment modality.
	// https://www.w3.org/TR/webauthn-3/#enumdef-authenticatorattachment
	AuthenticatorAttachment string
	// ResidentKeyRequirement expresses how strongly a Relying Party wishes to create
	// a client-side discoverable credential.
	// https://www.w3.org/TR/webauthn-3/#enumdef-residentkeyrequirement
	ResidentKeyRequirement string
	// UserVerificationRequirement expresses a Relying Party's user verification needs
	// for a ceremony.
	// https://www.w3.org/TR/webauthn-3/#enumdef-userverificationrequirement
	UserVerificationRequirement string
	// AttestationConveyancePreference expresses how much attestation detail a Relying
	// Party wants conveyed back to it.
	// https://www.w3.org/TR/webauthn-3/#enumdef-attestationconveyancepreference
	AttestationConveyancePreference string
	// AttestationStatementFormatIdentifier is an enum consisting of IANA registered Attestation Statement Format Identifiers.
	// https://www.iana.org/assignments/webauthn/webauthn.xhtml
	AttestationStatementFormatIdentifier string
	// ExtensionIdentifier is an enum consisting of IANA registered Extension Identifiers.
	// https://www.iana.org/assignments/webauthn/webauthn.xhtml
	ExtensionIdentifier string
)

const (
	PublicKeyCredentialTypePublicKey PublicKeyCredentialType = "public-key"
)

const (
	AuthenticatorTransportUSB       AuthenticatorTransport = "usb"
	AuthenticatorTransportNFC       AuthenticatorTransport = "nfc"
	AuthenticatorTransportBLE       AuthenticatorTransport = "ble"
	AuthenticatorTransportSmartCard AuthenticatorTransport = "smart-card"
	AuthenticatorTransportHybrid    AuthenticatorTransport = "hybrid"
	AuthenticatorTransportInternal  AuthenticatorTransport = "internal"
)

const (
	AuthenticatorAttachmentPlatform      AuthenticatorAttachment = "platform"
	AuthenticatorAttachmentCrossPlatform AuthenticatorAttachment = "cross-platform"
)

const (
	ResidentKeyRequirementDiscouraged ResidentKeyRequirement = "discouraged"
	ResidentKeyRequirementPreferred   ResidentKeyRequirement = "preferred"
	ResidentKeyRequirementRequired    ResidentKeyRequirement = "required"
)

const (
	UserVerificationRequirementRequired    UserVerificationRequirement = "required"
	UserVerificationRequirementPreferred   UserVerificationRequirement = "preferred"
	UserVerificationRequirementDiscouraged UserVerificationRequirement = "discouraged"
)

const (
	AttestationConveyancePreferenceNone       AttestationConveyancePreference = "none"
	AttestationConveyancePreferenceIndirect   AttestationConveyancePreference = "indirect"
	AttestationConveyancePreferenceDirect     AttestationConveyancePreference = "direct"
	AttestationConveyancePreferenceEnterprise AttestationConveyancePreference = "enterprise"
)

const (
	AttestationStatementFormatIdentifierPacked           AttestationStatementFormatIdentifier = "packed"
	AttestationStatementFormatIdentifierTPM              AttestationStatementFormatIdentifier = "tpm"
	AttestationStatementFormatIdentifierAndroidKey       AttestationStatementFormatIdentifier = "android-key"
	AttestationStatementFormatIdentifierAndroidSafetyNet AttestationStatementFormatIdentifier = "android-safetynet"
	AttestationStatementFormatIdentifierFIDOU2F          AttestationStatementFormatIdentifier = "fido-u2f"
	AttestationStatementFormatIdentifierApple            AttestationStatementFormatIdentifier = "apple"
	AttestationStatementFormatIdentifierNone             AttestationStatementFormatIdentifier = "none"
)

const (
	ExtensionIdentifierAppID                ExtensionIdentifier = "appid"
	ExtensionIdentifierAppIDExclude         ExtensionIdentifier = "appidExclude"
	ExtensionIdentifierCredentialProperties ExtensionIdentifier = "credProps"
	ExtensionIdentifierCredentialProtection ExtensionIdentifier = "credProtect"
	ExtensionIdentifierCredentialBlob       ExtensionIdentifier = "credBlob"
	ExtensionIdentifierLargeBlob            ExtensionIdentifier = "largeBlob"
	ExtensionIdentifierHMACSecret           ExtensionIdentifier = "hmac-secret"
)

// COSE algorithm identifiers referenced by the default credential parameters.
const (
	AlgES256 = key.Alg(iana.AlgorithmES256)
	AlgRS256 = key.Alg(iana.AlgorithmRS256)
)

// PublicKeyCredentialRpEntity is used to supply additional Relying Party attributes when creating a new credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialrpentity
type PublicKeyCredentialRpEntity struct {
	ID   string `cbor:"id"`
	Name string `cbor:"name,omitempty"`
}

// PublicKeyCredentialUserEntity is used to supply additional user account attributes when creating a new credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialuserentity
type PublicKeyCredentialUserEntity struct {
	ID          []byte `cbor:"id"`
	DisplayName string `cbor:"displayName,omitempty"`
	Name        string `cbor:"name,omitempty"`
}

// PublicKeyCredentialDescriptor identifies a specific public key credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialdescriptor
type PublicKeyCredentialDescriptor struct {
	Type       PublicKeyCredentialType  `cbor:"type"`
	ID         []byte                   `cbor:"id"`
	Transports []AuthenticatorTransport `cbor:"transports,omitempty"`
}

// PublicKeyCredentialParameters is used to supply additional parameters when creating a new credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialparameters
type PublicKeyCredentialParameters struct {
	Type      PublicKeyCredentialType `cbor:"type"`
	Algorithm key.Alg                 `cbor:"alg"`
}
