package clientdata

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ctap/softauthn/pkg/origin"
)

func TestCollect(t *testing.T) {
	challenge := []byte{0x01, 0x02, 0x03, 0xfb, 0xff}
	org := origin.MustParse("https://login.example.com")

	cd, err := Collect(TypeCreate, challenge, org, true)
	require.NoError(t, err)

	hash := sha256.Sum256(cd.JSON)
	assert.Equal(t, hash[:], cd.Hash)

	// The serialization is byte-for-byte reproducible, field order included.
	assert.Equal(t,
		`{"type":"webauthn.create","challenge":"`+
			base64.RawURLEncoding.EncodeToString(challenge)+
			`","origin":"https://login.example.com","crossOrigin":false}`,
		string(cd.JSON),
	)

	var collected CollectedClientData
	require.NoError(t, json.Unmarshal(cd.JSON, &collected))
	assert.Equal(t, TypeCreate, collected.Type)
	assert.Equal(t, "AQID-_8", collected.Challenge)
	assert.Equal(t, "https://login.example.com", collected.Origin)
	assert.False(t, collected.CrossOrigin)
}

func TestCollectCrossOrigin(t *testing.T) {
	cd, err := Collect(TypeGet, []byte("challenge"), origin.MustParse("https://example.com"), false)
	require.NoError(t, err)

	var collected CollectedClientData
	require.NoError(t, json.Unmarshal(cd.JSON, &collected))
	assert.Equal(t, TypeGet, collected.Type)
	assert.True(t, collected.CrossOrigin)
}

func TestCollectFreshPerCeremony(t *testing.T) {
	org := origin.MustParse("https://example.com")

	first, err := Collect(TypeGet, []byte("a"), org, true)
	require.NoError(t, err)
	second, err := Collect(TypeGet, []byte("b"), org, true)
	require.NoError(t, err)

	assert.NotEqual(t, first.Hash, second.Hash)
}
