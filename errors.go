package jwt

import (
	"errors"
	"fmt"
)

// ErrInvalidToken is the only error Decode and Processor.Verify return for a
// token that fails verification, whatever the internal cause: malformed
// shape, undecodable segments, a disallowed or unknown algorithm, bad key
// material, or a signature mismatch. Collapsing the taxonomy at the boundary
// keeps failures from acting as an oracle for why verification failed.
var ErrInvalidToken = errors.New("jwt: invalid token")

// Internal taxonomy. These distinguish failure causes for encoding-side
// callers and diagnostics inside the package; Decode never surfaces them.
var (
	ErrEmptyToken           = errors.New("jwt: empty token")
	ErrMalformedToken       = errors.New("jwt: malformed token structure")
	ErrUnsupportedAlgorithm = errors.New("jwt: unsupported algorithm")
	ErrAlgorithmNotAllowed  = errors.New("jwt: algorithm not in accepted set")
	ErrNoneWithKey          = errors.New(`jwt: key supplied for an unsigned ("none") token`)
)

// Configuration and processor errors.
var (
	ErrInvalidConfig        = errors.New("jwt: invalid configuration")
	ErrInvalidSecretKey     = errors.New("jwt: invalid secret key: must be at least 32 bytes with sufficient entropy")
	ErrInvalidKeyPEM        = errors.New("jwt: invalid PEM key material")
	ErrInvalidSigningMethod = errors.New("jwt: invalid signing method")
	ErrTokenRevoked         = errors.New("jwt: token has been revoked")
	ErrTokenMissingID       = errors.New("jwt: token does not contain an ID (jti claim)")
	ErrRateLimitExceeded    = errors.New("jwt: rate limit exceeded")
	ErrProcessorClosed      = errors.New("jwt: processor is closed")
)

// A ValidationError reports which claim field failed issuance validation
// and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("jwt: invalid claim %s: %s", e.Field, e.Message)
}
