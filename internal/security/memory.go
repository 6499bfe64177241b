// Package security holds the small set of memory and comparison helpers the
// signing and processor layers share: constant-time equality, zeroization of
// transient secrets, and entropy heuristics for managed keys.
package security

import (
	"crypto/subtle"
	"runtime"
	"strings"
	"sync"
)

// SecureBytes wraps secret material that must be zeroed when released.
// Callers own the lifecycle: Destroy is expected on every exit path.
type SecureBytes struct {
	mu   sync.Mutex
	data []byte
}

// NewSecureBytes copies data into a SecureBytes. The caller keeps ownership
// of the original slice.
func NewSecureBytes(data []byte) *SecureBytes {
	s := &SecureBytes{data: make([]byte, len(data))}
	copy(s.data, data)
	return s
}

// Bytes returns the underlying slice. The slice is only valid until Destroy.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// String returns the secret as a string. Same lifetime caveat as Bytes.
func (s *SecureBytes) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.data)
}

// Len reports the secret length without exposing the content.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy zeroes the secret. Safe to call more than once.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil {
		ZeroBytes(s.data)
		s.data = nil
	}
}

// ZeroBytes overwrites data in place.
func ZeroBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
	runtime.KeepAlive(data)
}

// Equal reports whether a and b are identical, in time independent of where
// they differ. Unequal lengths still burn a full comparison.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		subtle.ConstantTimeCompare(a, a)
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// common substrings that show up in leaked or default secrets.
var weakPatterns = []string{
	"password", "secret", "default", "example", "changeme",
	"12345678", "qwerty", "letmein", "admin",
}

// IsWeakKey flags key material with insufficient entropy for managed HMAC
// use: all-one-byte keys, keys dominated by a few byte values, single
// character-class keys, and well-known filler strings.
func IsWeakKey(key []byte) bool {
	if len(key) == 0 {
		return true
	}

	uniform := true
	for _, b := range key {
		if b != key[0] {
			uniform = false
			break
		}
	}
	if uniform {
		return true
	}

	unique := make(map[byte]struct{}, len(key))
	for _, b := range key {
		unique[b] = struct{}{}
	}
	if float64(len(unique))/float64(len(key)) < 0.3 {
		return true
	}

	var lower, upper, digit, other bool
	for _, b := range key {
		switch {
		case b >= 'a' && b <= 'z':
			lower = true
		case b >= 'A' && b <= 'Z':
			upper = true
		case b >= '0' && b <= '9':
			digit = true
		default:
			other = true
		}
	}
	classes := 0
	for _, has := range []bool{lower, upper, digit, other} {
		if has {
			classes++
		}
	}
	if classes < 2 {
		return true
	}

	lowered := strings.ToLower(string(key))
	for _, pattern := range weakPatterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}

	return false
}
