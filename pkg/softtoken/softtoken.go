// Package softtoken implements an in-memory software authenticator with
// packed self-attestation, usable wherever a hardware security key would
// be too much ceremony: tests, local development, protocol exploration.
package softtoken

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"slices"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/go-ctap/softauthn/pkg/attestation"
	"github.com/go-ctap/softauthn/pkg/authdata"
	"github.com/go-ctap/softauthn/pkg/authenticator"
	"github.com/go-ctap/softauthn/pkg/webauthntypes"
)

// Token is a software authenticator. It supports ES256 and RS256
// credentials and keeps every credential source in memory for its own
// lifetime. All operations are safe for concurrent use.
type Token struct {
	attachment       webauthntypes.AuthenticatorAttachment
	residentKeys     bool
	userVerification bool
	aaguid           uuid.UUID
	encMode          cbor.EncMode

	mu    sync.Mutex
	creds []*credentialSource
}

type Option func(*Token)

func WithAttachment(attachment webauthntypes.AuthenticatorAttachment) Option {
	return func(t *Token) {
		t.attachment = attachment
	}
}

// WithResidentKeys makes created credentials discoverable by RP ID.
func WithResidentKeys() Option {
	return func(t *Token) {
		t.residentKeys = true
	}
}

func WithUserVerification() Option {
	return func(t *Token) {
		t.userVerification = true
	}
}

func WithAAGUID(aaguid uuid.UUID) Option {
	return func(t *Token) {
		t.aaguid = aaguid
	}
}

func New(opts ...Option) *Token {
	encMode, _ := cbor.CTAP2EncOptions().EncMode()
	t := &Token{
		attachment: webauthntypes.AuthenticatorAttachmentCrossPlatform,
		aaguid:     uuid.New(),
		encMode:    encMode,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Token) Attachment() webauthntypes.AuthenticatorAttachment {
	return t.attachment
}

func (t *Token) SupportsClientSideDiscoverablePublicKeyCredentialSources() bool {
	return t.residentKeys
}

func (t *Token) SupportsUserVerification() bool {
	return t.userVerification
}

func (t *Token) MakeCredential(
	clientDataHash []byte,
	rp webauthntypes.PublicKeyCredentialRpEntity,
	user webauthntypes.PublicKeyCredentialUserEntity,
	requireResidentKey bool,
	userVerification bool,
	credTypesAndPubKeyAlgs []webauthntypes.PublicKeyCredentialParameters,
	excludeCredentials []webauthntypes.PublicKeyCredentialDescriptor,
	enterpriseAttestationPossible bool,
	extensions map[webauthntypes.ExtensionIdentifier]any,
) (*attestation.Object, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if userVerification && !t.userVerification {
		return nil, fmt.Errorf("%w: user verification unsupported", authenticator.ErrNotAllowed)
	}
	if requireResidentKey && !t.residentKeys {
		return nil, fmt.Errorf("%w: discoverable credentials unsupported", authenticator.ErrNotAllowed)
	}

	excluded := lo.ContainsBy(excludeCredentials, func(desc webauthntypes.PublicKeyCredentialDescriptor) bool {
		return lo.ContainsBy(t.creds, func(src *credentialSource) bool {
			return src.rpID == rp.ID && bytes.Equal(src.id, desc.ID)
		})
	})
	if excluded {
		return nil, fmt.Errorf("%w: credential already registered with %q", authenticator.ErrInvalidState, rp.ID)
	}

	params, ok := lo.Find(credTypesAndPubKeyAlgs, func(p webauthntypes.PublicKeyCredentialParameters) bool {
		return p.Type == webauthntypes.PublicKeyCredentialTypePublicKey &&
			(p.Algorithm == webauthntypes.AlgES256 || p.Algorithm == webauthntypes.AlgRS256)
	})
	if !ok {
		return nil, fmt.Errorf("%w: no supported algorithm requested", authenticator.ErrNotAllowed)
	}

	src, err := newCredentialSource(params.Algorithm, rp.ID, user.ID, requireResidentKey)
	if err != nil {
		return nil, err
	}

	flags := authdata.FlagUserPresent | authdata.FlagAttestedCredentialDataIncluded
	if userVerification {
		flags |= authdata.FlagUserVerified
	}

	rpIDHash := sha256.Sum256([]byte(rp.ID))
	adb, err := authdata.Marshal(&authdata.AuthData{
		RPIDHash:  rpIDHash[:],
		Flags:     flags,
		SignCount: src.signCount,
		AttestedCredentialData: &authdata.AttestedCredentialData{
			AAGUID:              t.aaguid,
			CredentialID:        src.id,
			CredentialPublicKey: src.publicKey,
		},
	}, t.encMode)
	if err != nil {
		return nil, err
	}

	// Packed self-attestation: the credential key signs its own birth
	// certificate, no x5c chain.
	sig, err := src.sign(slices.Concat(adb, clientDataHash))
	if err != nil {
		return nil, err
	}

	t.creds = append(t.creds, src)

	return &attestation.Object{
		Format: webauthntypes.AttestationStatementFormatIdentifierPacked,
		AttestationStatement: map[string]any{
			"alg": int64(params.Algorithm),
			"sig": sig,
		},
		AuthData: adb,
	}, nil
}

func (t *Token) GetAssertion(
	rpID string,
	clientDataHash []byte,
	allowList []webauthntypes.PublicKeyCredentialDescriptor,
	userVerification bool,
	extensions map[webauthntypes.ExtensionIdentifier]any,
) (*authenticator.AssertionData, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if userVerification && !t.userVerification {
		return nil, fmt.Errorf("%w: user verification unsupported", authenticator.ErrNotAllowed)
	}

	src, ok := lo.Find(t.creds, func(src *credentialSource) bool {
		if src.rpID != rpID {
			return false
		}
		if allowList == nil {
			return src.discoverable
		}

		return lo.ContainsBy(allowList, func(desc webauthntypes.PublicKeyCredentialDescriptor) bool {
			return bytes.Equal(desc.ID, src.id)
		})
	})
	if !ok {
		return nil, authenticator.ErrNoCredentials
	}

	src.signCount++
	flags := authdata.FlagUserPresent
	if userVerification {
		flags |= authdata.FlagUserVerified
	}

	rpIDHash := sha256.Sum256([]byte(rpID))
	adb, err := authdata.Marshal(&authdata.AuthData{
		RPIDHash:  rpIDHash[:],
		Flags:     flags,
		SignCount: src.signCount,
	}, t.encMode)
	if err != nil {
		return nil, err
	}

	sig, err := src.sign(slices.Concat(adb, clientDataHash))
	if err != nil {
		return nil, err
	}

	var userHandle []byte
	if src.discoverable {
		userHandle = src.userHandle
	}

	return &authenticator.AssertionData{
		CredentialID:      src.id,
		AuthenticatorData: adb,
		Signature:         sig,
		UserHandle:        userHandle,
	}, nil
}
