package signing

import (
	"crypto"
	"crypto/hmac"

	"github.com/josecore/jwt/internal/encoding"
	"github.com/josecore/jwt/internal/security"
)

// hmacMethod is the symmetric backend. The key is the shared secret used
// verbatim; no PEM parsing is involved.
type hmacMethod struct {
	name string
	hash crypto.Hash
}

var (
	hmacHS256 = &hmacMethod{"HS256", crypto.SHA256}
	hmacHS384 = &hmacMethod{"HS384", crypto.SHA384}
	hmacHS512 = &hmacMethod{"HS512", crypto.SHA512}
)

func (m *hmacMethod) Alg() string { return m.name }

func (m *hmacMethod) Hash() crypto.Hash { return m.hash }

func (m *hmacMethod) Sign(signingString, key string) (string, error) {
	if !m.hash.Available() {
		return "", ErrHashUnavailable
	}

	mac := hmac.New(m.hash.New, []byte(key))
	mac.Write([]byte(signingString))
	sum := mac.Sum(nil)

	sig := encoding.Encode(sum)
	security.ZeroBytes(sum)
	return sig, nil
}

// Verify recomputes the signature with the same key and compares the two
// base64url texts constant-time. The comparison is against the full
// recomputed signature: an empty recomputation (failed or unknown digest)
// never matches anything, including an empty presented signature.
func (m *hmacMethod) Verify(signingString, signature, key string) error {
	computed, err := m.Sign(signingString, key)
	if err != nil {
		return err
	}
	if computed == "" {
		return ErrSignatureInvalid
	}
	if !security.Equal([]byte(computed), []byte(signature)) {
		return ErrSignatureInvalid
	}
	return nil
}
