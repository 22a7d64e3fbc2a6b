package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/mo"

	"github.com/go-ctap/softauthn/pkg/authenticator"
	"github.com/go-ctap/softauthn/pkg/credentials"
	"github.com/go-ctap/softauthn/pkg/options"
	"github.com/go-ctap/softauthn/pkg/origin"
	"github.com/go-ctap/softauthn/pkg/softtoken"
	"github.com/go-ctap/softauthn/pkg/webauthntypes"
)

func main() {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))

	token := softtoken.New(
		softtoken.WithAttachment(webauthntypes.AuthenticatorAttachmentPlatform),
		softtoken.WithResidentKeys(),
		softtoken.WithUserVerification(),
	)

	container := credentials.New(
		origin.MustParse("https://login.example.com"),
		[]authenticator.Authenticator{token},
		options.WithLogger(logger),
	)

	challenge := make([]byte, 32)
	if _, err := rand.Read(challenge); err != nil {
		panic(err)
	}

	created, err := container.Create(&webauthntypes.PublicKeyCredentialCreationOptions{
		RP:        webauthntypes.PublicKeyCredentialRpEntity{ID: "example.com", Name: "Example"},
		User:      webauthntypes.PublicKeyCredentialUserEntity{ID: []byte("user-1"), Name: "alice", DisplayName: "Alice"},
		Challenge: challenge,
		AuthenticatorSelection: mo.Some(webauthntypes.AuthenticatorSelectionCriteria{
			AuthenticatorAttachment: mo.Some(webauthntypes.AuthenticatorAttachmentPlatform),
			ResidentKey:             mo.Some(webauthntypes.ResidentKeyRequirementRequired),
			UserVerification:        mo.Some(webauthntypes.UserVerificationRequirementPreferred),
		}),
		Attestation: webauthntypes.AttestationConveyancePreferenceNone,
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("created credential: %s\n", base64.RawURLEncoding.EncodeToString(created.ID))
	fmt.Printf("attestation object: %d bytes\n", len(created.Response.AttestationObject))

	if _, err := rand.Read(challenge); err != nil {
		panic(err)
	}

	// Discoverable credential, so no allow list is needed.
	got, err := container.Get(&webauthntypes.PublicKeyCredentialRequestOptions{
		Challenge: challenge,
		RPID:      "example.com",
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("asserted credential: %s\n", base64.RawURLEncoding.EncodeToString(got.ID))
	fmt.Printf("user handle: %q\n", got.Response.UserHandle)
	fmt.Printf("signature: %d bytes\n", len(got.Response.Signature))
}
