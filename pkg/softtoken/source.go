package softtoken

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/ldclabs/cose/iana"
	"github.com/ldclabs/cose/key"
	cosekeyecdsa "github.com/ldclabs/cose/key/ecdsa"

	"github.com/go-ctap/softauthn/pkg/webauthntypes"
)

// credentialSource is one public key credential source held by a token.
// https://www.w3.org/TR/webauthn-3/#public-key-credential-source
type credentialSource struct {
	id           []byte
	rpID         string
	userHandle   []byte
	alg          key.Alg
	private      crypto.Signer
	publicKey    key.Key
	discoverable bool
	signCount    uint32
}

func newCredentialSource(alg key.Alg, rpID string, userHandle []byte, discoverable bool) (*credentialSource, error) {
	id := make([]byte, 32)
	if _, err := rand.Read(id); err != nil {
		return nil, err
	}

	src := &credentialSource{
		id:           id,
		rpID:         rpID,
		userHandle:   userHandle,
		alg:          alg,
		discoverable: discoverable,
	}

	switch alg {
	case webauthntypes.AlgES256:
		private, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, err
		}
		publicKey, err := cosekeyecdsa.KeyFromPublic(&private.PublicKey)
		if err != nil {
			return nil, err
		}
		if err := publicKey.Set(iana.KeyParameterAlg, iana.AlgorithmES256); err != nil {
			return nil, err
		}
		src.private = private
		src.publicKey = publicKey
	case webauthntypes.AlgRS256:
		private, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, err
		}
		src.private = private
		src.publicKey = key.Key{
			iana.KeyParameterKty:  iana.KeyTypeRSA,
			iana.KeyParameterAlg:  iana.AlgorithmRS256,
			iana.RSAKeyParameterN: private.N.Bytes(),
			iana.RSAKeyParameterE: big.NewInt(int64(private.E)).Bytes(),
		}
	default:
		return nil, fmt.Errorf("softtoken: unsupported algorithm %d", alg)
	}

	return src, nil
}

// sign produces a WebAuthn signature over message: ASN.1 DER for ES256,
// PKCS#1 v1.5 for RS256, both over a SHA-256 digest.
func (s *credentialSource) sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)

	switch private := s.private.(type) {
	case *ecdsa.PrivateKey:
		return ecdsa.SignASN1(rand.Reader, private, digest[:])
	case *rsa.PrivateKey:
		return rsa.SignPKCS1v15(rand.Reader, private, crypto.SHA256, digest[:])
	}

	return nil, errors.New("softtoken: unsupported private key type")
}
