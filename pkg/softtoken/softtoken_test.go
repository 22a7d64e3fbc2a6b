package softtoken

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha256"
	"math/big"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/ldclabs/cose/iana"
	"github.com/ldclabs/cose/key"
	cosekeyecdsa "github.com/ldclabs/cose/key/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ctap/softauthn/pkg/authdata"
	"github.com/go-ctap/softauthn/pkg/authenticator"
	"github.com/go-ctap/softauthn/pkg/webauthntypes"
)

var (
	testRP   = webauthntypes.PublicKeyCredentialRpEntity{ID: "example.com", Name: "Example"}
	testUser = webauthntypes.PublicKeyCredentialUserEntity{ID: []byte("user-1"), Name: "alice"}
)

func paramsFor(algs ...key.Alg) []webauthntypes.PublicKeyCredentialParameters {
	params := make([]webauthntypes.PublicKeyCredentialParameters, 0, len(algs))
	for _, alg := range algs {
		params = append(params, webauthntypes.PublicKeyCredentialParameters{
			Type:      webauthntypes.PublicKeyCredentialTypePublicKey,
			Algorithm: alg,
		})
	}

	return params
}

func clientDataHash() []byte {
	hash := sha256.Sum256([]byte(`{"type":"webauthn.create"}`))
	return hash[:]
}

func TestMakeCredentialES256(t *testing.T) {
	aaguid := uuid.MustParse("6028b017-b1d4-4c02-b4b3-afcdafc96bb2")
	token := New(WithAAGUID(aaguid))
	hash := clientDataHash()

	obj, err := token.MakeCredential(hash, testRP, testUser, false, false, paramsFor(webauthntypes.AlgES256), nil, false, nil)
	require.NoError(t, err)

	assert.Equal(t, webauthntypes.AttestationStatementFormatIdentifierPacked, obj.Format)
	assert.Equal(t, int64(webauthntypes.AlgES256), obj.AttestationStatement["alg"])

	d, err := authdata.Parse(obj.AuthData)
	require.NoError(t, err)
	require.NotNil(t, d.AttestedCredentialData)

	rpIDHash := sha256.Sum256([]byte(testRP.ID))
	assert.Equal(t, rpIDHash[:], d.RPIDHash)
	assert.True(t, d.Flags.UserPresent())
	assert.False(t, d.Flags.UserVerified())
	assert.Equal(t, aaguid, d.AttestedCredentialData.AAGUID)
	assert.Len(t, d.AttestedCredentialData.CredentialID, 32)

	// Self-attestation: the signature verifies against the credential's
	// own public key.
	publicKey, err := cosekeyecdsa.KeyToPublic(d.AttestedCredentialData.CredentialPublicKey)
	require.NoError(t, err)

	sig, ok := obj.AttestationStatement["sig"].([]byte)
	require.True(t, ok)
	digest := sha256.Sum256(slices.Concat(obj.AuthData, hash))
	assert.True(t, ecdsa.VerifyASN1(publicKey, digest[:], sig))
}

func TestMakeCredentialRS256(t *testing.T) {
	token := New()
	hash := clientDataHash()

	obj, err := token.MakeCredential(hash, testRP, testUser, false, false, paramsFor(webauthntypes.AlgRS256), nil, false, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(webauthntypes.AlgRS256), obj.AttestationStatement["alg"])

	d, err := authdata.Parse(obj.AuthData)
	require.NoError(t, err)
	require.NotNil(t, d.AttestedCredentialData)

	n, err := d.AttestedCredentialData.CredentialPublicKey.GetBytes(iana.RSAKeyParameterN)
	require.NoError(t, err)
	e, err := d.AttestedCredentialData.CredentialPublicKey.GetBytes(iana.RSAKeyParameterE)
	require.NoError(t, err)
	publicKey := &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}

	sig, ok := obj.AttestationStatement["sig"].([]byte)
	require.True(t, ok)
	digest := sha256.Sum256(slices.Concat(obj.AuthData, hash))
	assert.NoError(t, rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, digest[:], sig))
}

func TestMakeCredentialPicksFirstSupportedAlgorithm(t *testing.T) {
	token := New()

	obj, err := token.MakeCredential(
		clientDataHash(), testRP, testUser, false, false,
		paramsFor(key.Alg(iana.AlgorithmEdDSA), webauthntypes.AlgRS256, webauthntypes.AlgES256),
		nil, false, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, int64(webauthntypes.AlgRS256), obj.AttestationStatement["alg"])
}

func TestMakeCredentialNoSupportedAlgorithm(t *testing.T) {
	token := New()

	_, err := token.MakeCredential(
		clientDataHash(), testRP, testUser, false, false,
		paramsFor(key.Alg(iana.AlgorithmEdDSA)),
		nil, false, nil,
	)
	assert.ErrorIs(t, err, authenticator.ErrNotAllowed)
}

func TestMakeCredentialCapabilityChecks(t *testing.T) {
	token := New()

	_, err := token.MakeCredential(clientDataHash(), testRP, testUser, false, true, paramsFor(webauthntypes.AlgES256), nil, false, nil)
	assert.ErrorIs(t, err, authenticator.ErrNotAllowed)

	_, err = token.MakeCredential(clientDataHash(), testRP, testUser, true, false, paramsFor(webauthntypes.AlgES256), nil, false, nil)
	assert.ErrorIs(t, err, authenticator.ErrNotAllowed)
}

func TestMakeCredentialExcludeList(t *testing.T) {
	token := New()
	hash := clientDataHash()

	obj, err := token.MakeCredential(hash, testRP, testUser, false, false, paramsFor(webauthntypes.AlgES256), nil, false, nil)
	require.NoError(t, err)

	credentialID, err := authdata.CredentialID(obj.AuthData)
	require.NoError(t, err)

	exclude := []webauthntypes.PublicKeyCredentialDescriptor{
		{Type: webauthntypes.PublicKeyCredentialTypePublicKey, ID: credentialID},
	}

	_, err = token.MakeCredential(hash, testRP, testUser, false, false, paramsFor(webauthntypes.AlgES256), exclude, false, nil)
	assert.ErrorIs(t, err, authenticator.ErrInvalidState)

	// The same ID excluded under a different RP does not collide.
	otherRP := webauthntypes.PublicKeyCredentialRpEntity{ID: "other.com"}
	_, err = token.MakeCredential(hash, otherRP, testUser, false, false, paramsFor(webauthntypes.AlgES256), exclude, false, nil)
	assert.NoError(t, err)
}

func TestGetAssertionDiscoverable(t *testing.T) {
	token := New(WithResidentKeys())
	hash := clientDataHash()

	_, err := token.MakeCredential(hash, testRP, testUser, true, false, paramsFor(webauthntypes.AlgES256), nil, false, nil)
	require.NoError(t, err)

	first, err := token.GetAssertion(testRP.ID, hash, nil, false, nil)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, first.UserHandle)

	second, err := token.GetAssertion(testRP.ID, hash, nil, false, nil)
	require.NoError(t, err)

	firstData, err := authdata.Parse(first.AuthenticatorData)
	require.NoError(t, err)
	secondData, err := authdata.Parse(second.AuthenticatorData)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), firstData.SignCount)
	assert.Equal(t, uint32(2), secondData.SignCount)
	assert.True(t, firstData.Flags.UserPresent())
	assert.False(t, firstData.Flags.AttestedCredentialDataIncluded())
}

func TestGetAssertionNonResidentRequiresAllowList(t *testing.T) {
	token := New()
	hash := clientDataHash()

	obj, err := token.MakeCredential(hash, testRP, testUser, false, false, paramsFor(webauthntypes.AlgES256), nil, false, nil)
	require.NoError(t, err)

	credentialID, err := authdata.CredentialID(obj.AuthData)
	require.NoError(t, err)

	_, err = token.GetAssertion(testRP.ID, hash, nil, false, nil)
	assert.ErrorIs(t, err, authenticator.ErrNoCredentials)

	allowList := []webauthntypes.PublicKeyCredentialDescriptor{
		{Type: webauthntypes.PublicKeyCredentialTypePublicKey, ID: credentialID},
	}

	assertion, err := token.GetAssertion(testRP.ID, hash, allowList, false, nil)
	require.NoError(t, err)
	assert.Equal(t, credentialID, assertion.CredentialID)
	assert.Nil(t, assertion.UserHandle)
}

func TestGetAssertionUnknownRelyingParty(t *testing.T) {
	token := New(WithResidentKeys())
	hash := clientDataHash()

	_, err := token.MakeCredential(hash, testRP, testUser, true, false, paramsFor(webauthntypes.AlgES256), nil, false, nil)
	require.NoError(t, err)

	_, err = token.GetAssertion("other.com", hash, nil, false, nil)
	assert.ErrorIs(t, err, authenticator.ErrNoCredentials)
}

func TestGetAssertionUserVerification(t *testing.T) {
	token := New(WithResidentKeys(), WithUserVerification())
	hash := clientDataHash()

	_, err := token.MakeCredential(hash, testRP, testUser, true, true, paramsFor(webauthntypes.AlgES256), nil, false, nil)
	require.NoError(t, err)

	assertion, err := token.GetAssertion(testRP.ID, hash, nil, true, nil)
	require.NoError(t, err)

	d, err := authdata.Parse(assertion.AuthenticatorData)
	require.NoError(t, err)
	assert.True(t, d.Flags.UserVerified())

	// A verification request the token cannot honor is refused outright.
	plain := New()
	_, err = plain.GetAssertion(testRP.ID, hash, nil, true, nil)
	assert.ErrorIs(t, err, authenticator.ErrNotAllowed)
}
