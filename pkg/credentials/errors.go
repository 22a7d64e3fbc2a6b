package credentials

import "errors"

var (
	// ErrNotAllowed reports ceremony parameters the container refuses to act
	// on, mirroring the WebAuthn "NotAllowedError": a ceremony requested
	// from a cross-origin ancestor frame, or an opaque calling origin.
	ErrNotAllowed = errors.New("credentials: operation not allowed")
	// ErrSecurity reports a Relying Party ID the calling origin may not
	// claim.
	ErrSecurity = errors.New("credentials: relying party ID does not match origin")
	// ErrNoCredential reports an exhausted ceremony: no authenticator
	// qualified for the request, or every qualifying one declined.
	ErrNoCredential = errors.New("credentials: no authenticator produced a credential")
)
