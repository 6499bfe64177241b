// Package encoding implements the unpadded base64url codec used by the JWT
// compact serialization, plus JSON segment decoding with the input
// validation the parser relies on.
package encoding

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// maxSegmentLength bounds a single token segment. Anything larger is
// rejected before decoding to keep hostile inputs cheap.
const maxSegmentLength = 8192

var (
	ErrEmptySegment   = errors.New("encoding: empty segment")
	ErrSegmentTooLong = errors.New("encoding: segment too large")
	ErrInvalidBase64  = errors.New("encoding: invalid base64url input")
)

// Encode returns the unpadded base64url text for data. The output never
// contains '=', '+', or '/' and is never line-wrapped.
func Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode is the exact inverse of Encode. A length of 1 mod 4 has no valid
// padding and fails, as does any character outside the base64url alphabet.
func Decode(segment string) ([]byte, error) {
	if len(segment) > maxSegmentLength {
		return nil, ErrSegmentTooLong
	}
	if len(segment)%4 == 1 {
		return nil, ErrInvalidBase64
	}
	if !validBase64URL(segment) {
		return nil, ErrInvalidBase64
	}

	buf := make([]byte, base64.RawURLEncoding.DecodedLen(len(segment)))
	n, err := base64.RawURLEncoding.Decode(buf, []byte(segment))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return buf[:n], nil
}

// DecodeJSON decodes a base64url segment and unmarshals the result into
// dest. Header and payload segments are never empty in a well-formed token.
func DecodeJSON(segment string, dest any) error {
	if len(segment) == 0 {
		return ErrEmptySegment
	}

	buf, err := Decode(segment)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(buf, dest); err != nil {
		return fmt.Errorf("encoding: invalid JSON segment: %w", err)
	}
	return nil
}

func validBase64URL(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}
