// Package credentials emulates the navigator.credentials browser surface
// for WebAuthn: a container that brokers create() and get() ceremonies
// between a Relying Party and a set of software authenticators.
package credentials

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/go-ctap/softauthn/pkg/attestation"
	"github.com/go-ctap/softauthn/pkg/authdata"
	"github.com/go-ctap/softauthn/pkg/authenticator"
	"github.com/go-ctap/softauthn/pkg/clientdata"
	"github.com/go-ctap/softauthn/pkg/options"
	"github.com/go-ctap/softauthn/pkg/origin"
	"github.com/go-ctap/softauthn/pkg/webauthntypes"
)

// Container brokers WebAuthn ceremonies against an ordered list of
// authenticators on behalf of a fixed calling origin.
//
// The origin and the authenticator list are set at construction and never
// mutated, so a Container is safe for concurrent ceremonies as long as the
// authenticators themselves tolerate concurrent use. Within one ceremony
// the authenticators are consulted strictly in list order and iteration
// stops at the first success; callers may rely on earlier entries being
// preferred.
type Container struct {
	origin         origin.Origin
	authenticators []authenticator.Authenticator
	logger         *slog.Logger
	encMode        cbor.EncMode
}

func New(org origin.Origin, authenticators []authenticator.Authenticator, opts ...options.Option) *Container {
	oo := options.NewOptions(opts...)

	return &Container{
		origin:         org,
		authenticators: slices.Clone(authenticators),
		logger:         oo.Logger,
		encMode:        oo.EncMode,
	}
}

// Create runs the create() ceremony and returns the new credential.
// It returns ErrNoCredential when no authenticator qualifies or every
// qualifying one declines, and propagates authenticator.ErrInvalidState
// unchanged.
// https://www.w3.org/TR/webauthn-3/#sctn-createCredential
func (c *Container) Create(opts *webauthntypes.PublicKeyCredentialCreationOptions) (*AttestationCredential, error) {
	return c.create(c.origin, opts, true)
}

func (c *Container) create(
	org origin.Origin,
	opts *webauthntypes.PublicKeyCredentialCreationOptions,
	sameOriginWithAncestors bool,
) (*AttestationCredential, error) {
	rp := opts.RP
	if rp.ID == "" {
		rp.ID = org.EffectiveDomain()
	}
	if err := checkParameters(rp.ID, org, sameOriginWithAncestors); err != nil {
		return nil, err
	}

	credTypesAndPubKeyAlgs := opts.PubKeyCredParams
	if len(credTypesAndPubKeyAlgs) == 0 {
		credTypesAndPubKeyAlgs = []webauthntypes.PublicKeyCredentialParameters{
			{Type: webauthntypes.PublicKeyCredentialTypePublicKey, Algorithm: webauthntypes.AlgES256},
			{Type: webauthntypes.PublicKeyCredentialTypePublicKey, Algorithm: webauthntypes.AlgRS256},
		}
	}

	cd, err := clientdata.Collect(clientdata.TypeCreate, opts.Challenge, org, sameOriginWithAncestors)
	if err != nil {
		return nil, err
	}

	for _, authr := range c.authenticators {
		if !eligibleForCreation(authr, opts.AuthenticatorSelection) {
			c.logger.Debug("authenticator does not match selection criteria, skipping",
				"attachment", authr.Attachment())
			continue
		}

		requireResidentKey := deriveRequireResidentKey(authr, opts.AuthenticatorSelection)
		userVerification := deriveUserVerificationForCreation(authr, opts.AuthenticatorSelection)

		// Enterprise attestation is unconditionally disabled.
		attObj, err := authr.MakeCredential(
			cd.Hash,
			rp,
			opts.User,
			requireResidentKey,
			userVerification,
			credTypesAndPubKeyAlgs,
			opts.ExcludeCredentials,
			false,
			nil,
		)
		switch {
		case errors.Is(err, authenticator.ErrInvalidState):
			return nil, err
		case err != nil:
			c.logger.Debug("authenticator declined credential creation", "err", err)
			continue
		}

		return c.constructAttestationCredential(attObj, cd.JSON, opts.Attestation)
	}

	return nil, ErrNoCredential
}

func (c *Container) constructAttestationCredential(
	attObj *attestation.Object,
	clientDataJSON []byte,
	preference webauthntypes.AttestationConveyancePreference,
) (*AttestationCredential, error) {
	if preference == webauthntypes.AttestationConveyancePreferenceNone {
		if err := attestation.Censor(attObj); err != nil {
			return nil, err
		}
	}

	credentialID, err := authdata.CredentialID(attObj.AuthData)
	if err != nil {
		return nil, err
	}

	b, err := attObj.Encode(c.encMode)
	if err != nil {
		return nil, fmt.Errorf("credentials: cannot encode attestation object: %w", err)
	}

	return &AttestationCredential{
		ID: credentialID,
		Response: AuthenticatorAttestationResponse{
			AttestationObject: b,
			ClientDataJSON:    clientDataJSON,
			Transports:        []webauthntypes.AuthenticatorTransport{},
		},
		ClientExtensionResults: map[webauthntypes.ExtensionIdentifier]any{},
	}, nil
}

// Get runs the get() ceremony and returns an assertion credential.
// Every authenticator failure on this path is a declination; exhaustion
// returns ErrNoCredential.
// https://www.w3.org/TR/webauthn-3/#sctn-getAssertion
func (c *Container) Get(opts *webauthntypes.PublicKeyCredentialRequestOptions) (*AssertionCredential, error) {
	return c.discoverFromExternalSource(c.origin, opts, true)
}

func (c *Container) discoverFromExternalSource(
	org origin.Origin,
	opts *webauthntypes.PublicKeyCredentialRequestOptions,
	sameOriginWithAncestors bool,
) (*AssertionCredential, error) {
	rpID := opts.RPID
	if rpID == "" {
		rpID = org.EffectiveDomain()
	}
	if err := checkParameters(rpID, org, sameOriginWithAncestors); err != nil {
		return nil, err
	}

	cd, err := clientdata.Collect(clientdata.TypeGet, opts.Challenge, org, sameOriginWithAncestors)
	if err != nil {
		return nil, err
	}

	// The allow list goes to every candidate unfiltered; narrowing it per
	// authenticator or by transport is pointless for software
	// authenticators.
	allowList := opts.AllowCredentials
	if len(allowList) == 0 {
		allowList = nil
	}

	// Some authenticator implementations omit the credential ID in their
	// response when the allow list named exactly one credential; remember
	// it so the response can be patched up.
	var forcedCredentialID []byte
	if len(allowList) == 1 {
		forcedCredentialID = allowList[0].ID
	}

	for _, authr := range c.authenticators {
		if opts.UserVerification.OrElse("") == webauthntypes.UserVerificationRequirementRequired &&
			!authr.SupportsUserVerification() {
			c.logger.Debug("authenticator cannot satisfy required user verification, skipping",
				"attachment", authr.Attachment())
			continue
		}

		userVerification := opts.UserVerification.OrElse("") != webauthntypes.UserVerificationRequirementDiscouraged &&
			authr.SupportsUserVerification()

		assertion, err := authr.GetAssertion(rpID, cd.Hash, allowList, userVerification, nil)
		if err != nil {
			c.logger.Debug("authenticator declined assertion", "err", err)
			continue
		}

		if forcedCredentialID != nil {
			assertion.CredentialID = forcedCredentialID
		}

		return &AssertionCredential{
			ID: assertion.CredentialID,
			Response: AuthenticatorAssertionResponse{
				AuthenticatorData: assertion.AuthenticatorData,
				ClientDataJSON:    cd.JSON,
				Signature:         assertion.Signature,
				UserHandle:        assertion.UserHandle,
			},
			ClientExtensionResults: map[webauthntypes.ExtensionIdentifier]any{},
		}, nil
	}

	return nil, ErrNoCredential
}

func checkParameters(rpID string, org origin.Origin, sameOriginWithAncestors bool) error {
	if !sameOriginWithAncestors {
		return fmt.Errorf("%w: ceremony requested from a cross-origin ancestor frame", ErrNotAllowed)
	}
	if org.Opaque() {
		return fmt.Errorf("%w: opaque origin", ErrNotAllowed)
	}

	effectiveDomain := org.EffectiveDomain()
	if !validRelyingPartyID(rpID, effectiveDomain) {
		return fmt.Errorf("%w: %q may not be claimed by %q", ErrSecurity, rpID, effectiveDomain)
	}

	return nil
}

// validRelyingPartyID reports whether an origin with the given effective
// domain may claim rpID: the RP ID must equal the domain or be one of its
// dot-boundary suffixes ("example.com" for "login.example.com").
func validRelyingPartyID(rpID, effectiveDomain string) bool {
	if rpID == "" || effectiveDomain == "" {
		return false
	}

	return rpID == effectiveDomain || strings.HasSuffix(effectiveDomain, "."+rpID)
}
