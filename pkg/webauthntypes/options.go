package webauthntypes

import "github.com/samber/mo"

// AuthenticatorSelectionCriteria narrows the set of authenticators eligible
// for credential creation. Members are optionals because an absent member is
// treated differently from an explicitly set one: in particular, creation
// only ever considers an authenticator when AuthenticatorAttachment was
// supplied by the Relying Party.
// https://www.w3.org/TR/webauthn-3/#dictdef-authenticatorselectioncriteria
type AuthenticatorSelectionCriteria struct {
	AuthenticatorAttachment mo.Option[AuthenticatorAttachment]
	ResidentKey             mo.Option[ResidentKeyRequirement]
	UserVerification        mo.Option[UserVerificationRequirement]
}

// PublicKeyCredentialCreationOptions are the Relying Party supplied inputs
// to a create() ceremony.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialcreationoptions
type PublicKeyCredentialCreationOptions struct {
	RP                     PublicKeyCredentialRpEntity
	User                   PublicKeyCredentialUserEntity
	Challenge              []byte
	PubKeyCredParams       []PublicKeyCredentialParameters
	ExcludeCredentials     []PublicKeyCredentialDescriptor
	AuthenticatorSelection mo.Option[AuthenticatorSelectionCriteria]
	Attestation            AttestationConveyancePreference
}

// PublicKeyCredentialRequestOptions are the Relying Party supplied inputs
// to a get() ceremony. An empty RPID defaults to the calling origin's
// effective domain.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialrequestoptions
type PublicKeyCredentialRequestOptions struct {
	Challenge        []byte
	RPID             string
	AllowCredentials []PublicKeyCredentialDescriptor
	UserVerification mo.Option[UserVerificationRequirement]
}
