// Package jwt signs arbitrary JSON claim sets into compact JWTs and verifies
// them back, enforcing signature correctness and algorithm allowlisting.
//
// The low-level pipeline is Encode and Decode: stateless, pure functions of
// their inputs, safe for unbounded concurrent use. Key material is
// call-scoped and never cached. On top of them, Processor manages validated
// key material, registered-claim stamping, and revocation for applications
// that want an opinionated issuer/verifier.
package jwt

import (
	"encoding/json"
	"fmt"

	"github.com/josecore/jwt/internal/encoding"
	"github.com/josecore/jwt/internal/signing"
)

// maxTokenLength caps what Decode will look at. Well-formed tokens are far
// smaller; anything larger is rejected before any decoding work.
const maxTokenLength = 8192

// header is the fixed two-field JWT header. No extensions are emitted or
// honored beyond typ and alg.
type header struct {
	Typ string `json:"typ"`
	Alg string `json:"alg"`
}

// Encode serializes payload into a compact JWT signed with the named
// algorithm. An empty algorithm defaults to HS256; any other value is used
// verbatim (names are case-sensitive). For HS* the key is the shared secret,
// for RS*/ES* it is a PEM-encoded private key, and for "none" it is ignored
// and the signature segment is left empty.
func Encode(payload any, key, algorithm string) (string, error) {
	if algorithm == "" {
		algorithm = string(HS256)
	}

	method := signing.GetMethod(algorithm)
	if method == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	headerJSON, err := json.Marshal(header{Typ: "JWT", Alg: algorithm})
	if err != nil {
		return "", fmt.Errorf("jwt: failed to marshal header: %w", err)
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("jwt: failed to marshal payload: %w", err)
	}

	signingInput := encoding.Encode(headerJSON) + "." + encoding.Encode(payloadJSON)

	signature, err := method.Sign(signingInput, key)
	if err != nil {
		return "", fmt.Errorf("jwt: failed to sign token: %w", err)
	}

	return signingInput + "." + signature, nil
}

// Decode verifies token against key and returns its claim set, or
// ErrInvalidToken. The accepted set, when non-empty, is an allowlist the
// token's declared algorithm must appear in; when empty, the declared
// algorithm is trusted as-is. A token declaring "none" is rejected outright
// whenever a non-empty key is supplied.
//
// Verification fully completes before the payload is parsed: claims are
// never returned from a token whose signature did not check out.
func Decode(token, key string, accepted ...string) (any, error) {
	var claims any
	if err := decodeToken(token, key, accepted, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SignHMAC computes the base64url HMAC signature of message under key using
// an HS* algorithm. It fails for any non-HMAC algorithm name.
func SignHMAC(message, key, algorithm string) (string, error) {
	method := signing.GetHMACMethod(algorithm)
	if method == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return method.Sign(message, key)
}

// SignPEM signs message with a PEM-encoded private key using an RS* or ES*
// algorithm, returning the base64url signature.
func SignPEM(message, key, algorithm string) (string, error) {
	method := signing.GetPEMMethod(algorithm)
	if method == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return method.Sign(message, key)
}

// VerifyPEM reports whether signature (base64url) is a valid RS*/ES*
// signature of message under the PEM-encoded public key.
func VerifyPEM(message, signature, key, algorithm string) bool {
	method := signing.GetPEMMethod(algorithm)
	if method == nil {
		return false
	}
	return method.Verify(message, signature, key) == nil
}

// Algorithms returns the names Decode will dispatch, in sorted order.
func Algorithms() []string {
	return signing.Algorithms()
}

// decodeToken runs the verification state machine and, only on success,
// unmarshals the payload segment into claims. Errors carry the internal
// taxonomy; callers decide how much of it to surface.
func decodeToken(token, key string, accepted []string, claims any) error {
	if token == "" {
		return ErrEmptyToken
	}
	if len(token) > maxTokenLength {
		return ErrMalformedToken
	}

	headerSeg, payloadSeg, signatureSeg, ok := splitToken(token)
	if !ok {
		return ErrMalformedToken
	}

	var hdr header
	if err := encoding.DecodeJSON(headerSeg, &hdr); err != nil {
		return fmt.Errorf("jwt: failed to decode header: %w", err)
	}
	alg := hdr.Alg
	if alg == "" {
		return fmt.Errorf("%w: missing alg header", ErrUnsupportedAlgorithm)
	}

	// Policy gates, in order: an unsigned token is useless to a caller
	// holding a key, and a declared algorithm outside the caller's
	// allowlist must never reach verification.
	if alg == string(None) && key != "" {
		return ErrNoneWithKey
	}
	if len(accepted) > 0 && !containsAlgorithm(accepted, alg) {
		return fmt.Errorf("%w: %q", ErrAlgorithmNotAllowed, alg)
	}

	if alg != string(None) {
		method := signing.GetMethod(alg)
		if method == nil {
			return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
		}
		signingInput := token[:len(headerSeg)+1+len(payloadSeg)]
		if err := method.Verify(signingInput, signatureSeg, key); err != nil {
			return fmt.Errorf("jwt: verification failed: %w", err)
		}
	}

	if err := encoding.DecodeJSON(payloadSeg, claims); err != nil {
		return fmt.Errorf("jwt: failed to decode payload: %w", err)
	}
	return nil
}

// splitToken cuts the compact serialization at its first two dots. The
// signature segment is everything after the second dot; if it cannot be a
// valid signature the backends reject it.
func splitToken(token string) (header, payload, signature string, ok bool) {
	first := -1
	second := -1
	for i := 0; i < len(token); i++ {
		if token[i] != '.' {
			continue
		}
		if first == -1 {
			first = i
		} else {
			second = i
			break
		}
	}
	if first == -1 || second == -1 {
		return "", "", "", false
	}
	return token[:first], token[first+1 : second], token[second+1:], true
}

func containsAlgorithm(set []string, alg string) bool {
	for _, a := range set {
		if a == alg {
			return true
		}
	}
	return false
}
