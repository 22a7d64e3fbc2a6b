package credentials

import (
	"github.com/samber/mo"

	"github.com/go-ctap/softauthn/pkg/authenticator"
	"github.com/go-ctap/softauthn/pkg/webauthntypes"
)

// eligibleForCreation reports whether authr qualifies for a create()
// ceremony under the given selection criteria. Creation only considers an
// authenticator when the request names an attachment explicitly; an absent
// attachment preference matches nothing.
func eligibleForCreation(
	authr authenticator.Authenticator,
	selection mo.Option[webauthntypes.AuthenticatorSelectionCriteria],
) bool {
	criteria, ok := selection.Get()
	if !ok {
		return false
	}

	attachment, ok := criteria.AuthenticatorAttachment.Get()
	if !ok || attachment != authr.Attachment() {
		return false
	}

	if criteria.ResidentKey.OrElse("") == webauthntypes.ResidentKeyRequirementRequired &&
		!authr.SupportsClientSideDiscoverablePublicKeyCredentialSources() {
		return false
	}

	return true
}

func deriveRequireResidentKey(
	authr authenticator.Authenticator,
	selection mo.Option[webauthntypes.AuthenticatorSelectionCriteria],
) bool {
	criteria, ok := selection.Get()
	if !ok {
		return false
	}

	switch criteria.ResidentKey.OrElse("") {
	case webauthntypes.ResidentKeyRequirementRequired:
		return true
	case webauthntypes.ResidentKeyRequirementPreferred:
		return authr.SupportsClientSideDiscoverablePublicKeyCredentialSources()
	}

	return false
}

func deriveUserVerificationForCreation(
	authr authenticator.Authenticator,
	selection mo.Option[webauthntypes.AuthenticatorSelectionCriteria],
) bool {
	criteria, ok := selection.Get()
	if !ok {
		return false
	}

	switch criteria.UserVerification.OrElse("") {
	case webauthntypes.UserVerificationRequirementRequired:
		return true
	case webauthntypes.UserVerificationRequirementPreferred:
		return authr.SupportsUserVerification()
	}

	return false
}
