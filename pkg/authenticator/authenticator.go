// Package authenticator defines the capability contract between the
// credentials container and the authenticators it brokers ceremonies
// against.
package authenticator

import (
	"errors"

	"github.com/go-ctap/softauthn/pkg/attestation"
	"github.com/go-ctap/softauthn/pkg/webauthntypes"
)

var (
	// ErrInvalidState reports a credential state the authenticator cannot
	// proceed from, e.g. an exclude-list hit during credential creation.
	// The container treats it as fatal and aborts the ceremony instead of
	// moving on to the next authenticator.
	ErrInvalidState = errors.New("authenticator: invalid state")
	// ErrNotAllowed is a normal declination: the authenticator cannot
	// satisfy the request as parameterized.
	ErrNotAllowed = errors.New("authenticator: operation not allowed")
	// ErrNoCredentials reports that no credential bound to the Relying
	// Party matched the request.
	ErrNoCredentials = errors.New("authenticator: no matching credentials")
)

// AssertionData is an authenticator's answer to an assertion request.
// CredentialID may be overridden by the container when the allow list
// named exactly one credential.
type AssertionData struct {
	CredentialID      []byte
	AuthenticatorData []byte
	Signature         []byte
	UserHandle        []byte
}

// Authenticator is the capability a credentials container consumes. The
// three probes drive capability matching; the two operations run the
// authenticator's part of a ceremony. Implementations signal a normal
// declination with any error, and an unrecoverable credential state with
// an error wrapping ErrInvalidState.
type Authenticator interface {
	Attachment() webauthntypes.AuthenticatorAttachment
	SupportsClientSideDiscoverablePublicKeyCredentialSources() bool
	SupportsUserVerification() bool

	// MakeCredential creates a new credential source bound to rp and
	// returns its attestation object.
	MakeCredential(
		clientDataHash []byte,
		rp webauthntypes.PublicKeyCredentialRpEntity,
		user webauthntypes.PublicKeyCredentialUserEntity,
		requireResidentKey bool,
		userVerification bool,
		credTypesAndPubKeyAlgs []webauthntypes.PublicKeyCredentialParameters,
		excludeCredentials []webauthntypes.PublicKeyCredentialDescriptor,
		enterpriseAttestationPossible bool,
		extensions map[webauthntypes.ExtensionIdentifier]any,
	) (*attestation.Object, error)

	// GetAssertion produces an assertion over clientDataHash with a
	// credential bound to rpID. A nil allowList requests discovery of a
	// client-side discoverable credential.
	GetAssertion(
		rpID string,
		clientDataHash []byte,
		allowList []webauthntypes.PublicKeyCredentialDescriptor,
		userVerification bool,
		extensions map[webauthntypes.ExtensionIdentifier]any,
	) (*AssertionData, error)
}
