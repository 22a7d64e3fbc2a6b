// Package clientdata builds the collected client data record and its hash
// for a single ceremony.
package clientdata

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/go-ctap/softauthn/pkg/origin"
)

const (
	TypeCreate = "webauthn.create"
	TypeGet    = "webauthn.get"
)

// CollectedClientData is the record authenticator signatures cover once
// serialized and hashed. Field order is fixed; Relying Parties verify the
// hash over these exact bytes.
// https://www.w3.org/TR/webauthn-3/#dictionary-client-data
type CollectedClientData struct {
	Type        string `json:"type"`
	Challenge   string `json:"challenge"`
	Origin      string `json:"origin"`
	CrossOrigin bool   `json:"crossOrigin"`
}

// ClientData pairs the serialized record with its SHA-256 hash. The hash is
// what the authenticator signs over; the JSON is what the Relying Party
// receives inside the credential. Both live for a single ceremony call.
type ClientData struct {
	JSON []byte
	Hash []byte
}

func Collect(ceremonyType string, challenge []byte, org origin.Origin, sameOriginWithAncestors bool) (*ClientData, error) {
	b, err := json.Marshal(&CollectedClientData{
		Type:        ceremonyType,
		Challenge:   base64.RawURLEncoding.EncodeToString(challenge),
		Origin:      org.Serialized(),
		CrossOrigin: !sameOriginWithAncestors,
	})
	if err != nil {
		return nil, fmt.Errorf("clientdata: cannot marshal collected client data: %w", err)
	}

	hash := sha256.Sum256(b)

	return &ClientData{
		JSON: b,
		Hash: hash[:],
	}, nil
}
