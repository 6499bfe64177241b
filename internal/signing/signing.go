// Package signing implements the two signature backends of the JWT pipeline
// (symmetric HMAC and PEM-keyed RSA/ECDSA) behind a single Method interface,
// together with the closed algorithm registry that maps "alg" header names
// onto them.
package signing

import (
	"crypto"
	"errors"
	"sort"

	_ "crypto/sha256"
	_ "crypto/sha512"
)

var (
	// ErrSignatureInvalid is returned when a presented signature does not
	// match the message under the given key.
	ErrSignatureInvalid = errors.New("signing: signature verification failed")

	// ErrInvalidKey is returned when key material cannot be parsed or does
	// not belong to the algorithm's key family.
	ErrInvalidKey = errors.New("signing: invalid key material")

	// ErrHashUnavailable is returned when the digest an algorithm needs is
	// not linked into the binary.
	ErrHashUnavailable = errors.New("signing: hash function unavailable")
)

// Method is one signing strategy bound to a digest width. Sign returns the
// base64url signature text for the signing string; Verify checks a presented
// base64url signature against it. Key material is passed per call and is
// never retained by a Method.
type Method interface {
	Alg() string
	Hash() crypto.Hash
	Sign(signingString, key string) (string, error)
	Verify(signingString, signature, key string) error
}

// methods is the closed name set. Nothing outside this map is ever
// dispatched; unknown names resolve to nil and callers must fail hard,
// never fall back to "none".
var methods = map[string]Method{
	"HS256": hmacHS256,
	"HS384": hmacHS384,
	"HS512": hmacHS512,
	"RS256": pemRS256,
	"RS384": pemRS384,
	"RS512": pemRS512,
	"ES256": pemES256,
	"ES384": pemES384,
	"ES512": pemES512,
	"none":  noneMethod{},
}

// GetMethod resolves an algorithm name to its Method. The lookup is
// case-sensitive; unrecognized names return nil.
func GetMethod(alg string) Method {
	return methods[alg]
}

// GetHMACMethod resolves alg only if it names a symmetric method.
func GetHMACMethod(alg string) Method {
	if m, ok := methods[alg].(*hmacMethod); ok {
		return m
	}
	return nil
}

// GetPEMMethod resolves alg only if it names an asymmetric method.
func GetPEMMethod(alg string) Method {
	if m, ok := methods[alg].(*pemMethod); ok {
		return m
	}
	return nil
}

// Algorithms returns the registered algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
