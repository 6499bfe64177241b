package jwt

import (
	"fmt"
	"time"

	"github.com/josecore/jwt/internal/security"
	"github.com/josecore/jwt/internal/signing"
)

// Config configures a Processor. The key fields used depend on the signing
// method: HS* methods read SecretKey, RS*/ES* methods read the PEM fields.
type Config struct {
	// SigningMethod selects the algorithm for issued tokens and pins the
	// algorithm accepted during verification. Defaults to HS256. "none" is
	// not a valid managed method.
	SigningMethod SigningMethod `yaml:"signing_method" json:"signing_method"`

	// SecretKey is the HMAC shared secret. Minimum 32 bytes with enough
	// entropy; this strictness applies to managed keys only, the low-level
	// Encode/Decode functions take caller keys verbatim.
	SecretKey string `yaml:"secret_key" json:"secret_key"`

	// PrivateKeyPEM is the PEM private key used to sign RS*/ES* tokens.
	PrivateKeyPEM string `yaml:"private_key_pem" json:"private_key_pem"`

	// PublicKeyPEM is the PEM public key used to verify RS*/ES* tokens.
	PublicKeyPEM string `yaml:"public_key_pem" json:"public_key_pem"`

	// Issuer is stamped into the iss claim and required back on verify.
	Issuer string `yaml:"issuer" json:"issuer"`

	// AccessTokenTTL is the lifetime of tokens from Issue.
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" json:"access_token_ttl"`

	// RefreshTokenTTL is the lifetime of tokens from IssueRefresh. Must
	// exceed AccessTokenTTL.
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" json:"refresh_token_ttl"`

	// Leeway absorbs clock skew when checking exp and nbf.
	Leeway time.Duration `yaml:"leeway" json:"leeway"`

	// EnableRateLimit throttles Issue per subject.
	EnableRateLimit bool `yaml:"enable_rate_limit" json:"enable_rate_limit"`

	// RateLimitRate is the number of issuances allowed per window.
	RateLimitRate int `yaml:"rate_limit_rate" json:"rate_limit_rate"`

	// RateLimitWindow is the issuance rate-limit window.
	RateLimitWindow time.Duration `yaml:"rate_limit_window" json:"rate_limit_window"`
}

// DefaultConfig returns production defaults. SecretKey (or the PEM fields)
// must still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		SigningMethod:   HS256,
		Issuer:          "jwt-service",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		EnableRateLimit: false,
		RateLimitRate:   100,
		RateLimitWindow: time.Minute,
	}
}

// Validate checks the configuration for a Processor.
func (c *Config) Validate() error {
	if c == nil {
		return ErrInvalidConfig
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("%w: TTLs must be positive", ErrInvalidConfig)
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return fmt.Errorf("%w: access token TTL must be less than refresh token TTL", ErrInvalidConfig)
	}
	if c.Leeway < 0 {
		return fmt.Errorf("%w: leeway must not be negative", ErrInvalidConfig)
	}

	method := c.SigningMethod
	if method == "" {
		method = HS256
	}

	switch method {
	case HS256, HS384, HS512:
		if len(c.SecretKey) < 32 {
			return fmt.Errorf("%w: got %d bytes", ErrInvalidSecretKey, len(c.SecretKey))
		}
		if security.IsWeakKey([]byte(c.SecretKey)) {
			return fmt.Errorf("%w: key lacks entropy", ErrInvalidSecretKey)
		}
	case RS256, RS384, RS512, ES256, ES384, ES512:
		if c.PrivateKeyPEM == "" && c.PublicKeyPEM == "" {
			return fmt.Errorf("%w: %s requires a private or public PEM key", ErrInvalidConfig, method)
		}
		if c.PrivateKeyPEM != "" {
			if _, err := signing.ParsePrivateKey([]byte(c.PrivateKeyPEM)); err != nil {
				return fmt.Errorf("%w: private key: %v", ErrInvalidKeyPEM, err)
			}
		}
		if c.PublicKeyPEM != "" {
			if _, err := signing.ParsePublicKey([]byte(c.PublicKeyPEM)); err != nil {
				return fmt.Errorf("%w: public key: %v", ErrInvalidKeyPEM, err)
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSigningMethod, method)
	}

	return nil
}

// isSymmetric reports whether method is keyed by a shared secret.
func isSymmetric(method SigningMethod) bool {
	switch method {
	case HS256, HS384, HS512:
		return true
	}
	return false
}
