package attestation

import (
	"slices"

	"github.com/google/uuid"

	"github.com/go-ctap/softauthn/pkg/authdata"
	"github.com/go-ctap/softauthn/pkg/webauthntypes"
)

// Censor strips identifying attestation material from o, reducing it to the
// anonymous "none" form: zeroed AAGUID, format "none", empty attestation
// statement. An object that is already maximally anonymous, a zero-AAGUID
// "packed" statement without a certificate chain, is left as is.
//
// AuthData is cloned before the AAGUID is zeroed, so a censored object never
// writes through to authenticator-owned storage.
func Censor(o *Object) error {
	aaguid, err := authdata.AAGUID(o.AuthData)
	if err != nil {
		return err
	}

	_, hasChain := o.AttestationStatement["x5c"]
	if aaguid == uuid.Nil &&
		o.Format == webauthntypes.AttestationStatementFormatIdentifierPacked &&
		!hasChain {
		return nil
	}

	o.AuthData = slices.Clone(o.AuthData)
	if err := authdata.ZeroAAGUID(o.AuthData); err != nil {
		return err
	}
	o.Format = webauthntypes.AttestationStatementFormatIdentifierNone
	o.AttestationStatement = map[string]any{}

	return nil
}
