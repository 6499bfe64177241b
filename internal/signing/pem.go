package signing

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/josecore/jwt/internal/encoding"
)

type keyFamily int

const (
	familyRSA keyFamily = iota
	familyECDSA
)

// pemMethod is the asymmetric backend. The key argument is PEM text: a
// private key when signing, a public key when verifying. The name suffix
// selects only the digest width; the prefix pins the key family. Parsed
// keys are scoped to the call.
type pemMethod struct {
	name   string
	hash   crypto.Hash
	family keyFamily
}

var (
	pemRS256 = &pemMethod{"RS256", crypto.SHA256, familyRSA}
	pemRS384 = &pemMethod{"RS384", crypto.SHA384, familyRSA}
	pemRS512 = &pemMethod{"RS512", crypto.SHA512, familyRSA}
	pemES256 = &pemMethod{"ES256", crypto.SHA256, familyECDSA}
	pemES384 = &pemMethod{"ES384", crypto.SHA384, familyECDSA}
	pemES512 = &pemMethod{"ES512", crypto.SHA512, familyECDSA}
)

func (m *pemMethod) Alg() string { return m.name }

func (m *pemMethod) Hash() crypto.Hash { return m.hash }

func (m *pemMethod) Sign(signingString, key string) (string, error) {
	if !m.hash.Available() {
		return "", ErrHashUnavailable
	}

	priv, err := ParsePrivateKey([]byte(key))
	if err != nil {
		return "", err
	}

	digest := m.digest(signingString)

	var sig []byte
	switch k := priv.(type) {
	case *rsa.PrivateKey:
		if m.family != familyRSA {
			return "", fmt.Errorf("%w: %s requires an ECDSA key, got RSA", ErrInvalidKey, m.name)
		}
		sig, err = rsa.SignPKCS1v15(rand.Reader, k, m.hash, digest)
	case *ecdsa.PrivateKey:
		if m.family != familyECDSA {
			return "", fmt.Errorf("%w: %s requires an RSA key, got ECDSA", ErrInvalidKey, m.name)
		}
		sig, err = ecdsa.SignASN1(rand.Reader, k, digest)
	default:
		return "", fmt.Errorf("%w: unsupported private key type %T", ErrInvalidKey, priv)
	}
	if err != nil {
		return "", fmt.Errorf("signing: %s sign failed: %w", m.name, err)
	}

	return encoding.Encode(sig), nil
}

func (m *pemMethod) Verify(signingString, signature, key string) error {
	if !m.hash.Available() {
		return ErrHashUnavailable
	}

	sig, err := encoding.Decode(signature)
	if err != nil {
		return ErrSignatureInvalid
	}
	if len(sig) == 0 {
		return ErrSignatureInvalid
	}

	pub, err := ParsePublicKey([]byte(key))
	if err != nil {
		return err
	}

	digest := m.digest(signingString)

	switch k := pub.(type) {
	case *rsa.PublicKey:
		if m.family != familyRSA {
			return fmt.Errorf("%w: %s requires an ECDSA key, got RSA", ErrInvalidKey, m.name)
		}
		if err := rsa.VerifyPKCS1v15(k, m.hash, digest, sig); err != nil {
			return ErrSignatureInvalid
		}
	case *ecdsa.PublicKey:
		if m.family != familyECDSA {
			return fmt.Errorf("%w: %s requires an RSA key, got ECDSA", ErrInvalidKey, m.name)
		}
		if !ecdsa.VerifyASN1(k, digest, sig) {
			return ErrSignatureInvalid
		}
	default:
		return fmt.Errorf("%w: unsupported public key type %T", ErrInvalidKey, pub)
	}

	return nil
}

func (m *pemMethod) digest(signingString string) []byte {
	h := m.hash.New()
	h.Write([]byte(signingString))
	return h.Sum(nil)
}

// ParsePrivateKey decodes PEM text and parses the first block as a PKCS#1,
// PKCS#8, or SEC1 private key. Encrypted blocks fail: no passphrase is ever
// supplied.
func ParsePrivateKey(pemBytes []byte) (crypto.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	return nil, fmt.Errorf("%w: not a parsable private key", ErrInvalidKey)
}

// ParsePublicKey decodes PEM text and parses the first block as a PKIX or
// PKCS#1 public key.
func ParsePublicKey(pemBytes []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	if key, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}

	return nil, fmt.Errorf("%w: not a parsable public key", ErrInvalidKey)
}
