package jwt

// SigningMethod names a registered JWT algorithm. The name space is closed:
// Encode and Decode reject anything outside this set rather than defaulting.
type SigningMethod string

const (
	// HS256, HS384, and HS512 are HMAC over SHA-2, keyed by a shared secret.
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"

	// RS256, RS384, and RS512 are RSA PKCS#1 v1.5 over SHA-2, keyed by PEM
	// key pairs.
	RS256 SigningMethod = "RS256"
	RS384 SigningMethod = "RS384"
	RS512 SigningMethod = "RS512"

	// ES256, ES384, and ES512 are ECDSA over SHA-2 with ASN.1 signatures,
	// keyed by PEM key pairs.
	ES256 SigningMethod = "ES256"
	ES384 SigningMethod = "ES384"
	ES512 SigningMethod = "ES512"

	// None is the unsigned algorithm. It never participates implicitly:
	// tokens must declare it and callers must accept it.
	None SigningMethod = "none"
)

// RegisteredClaims are the RFC 7519 registered claim names.
type RegisteredClaims struct {
	Issuer    string      `json:"iss,omitempty"`
	Subject   string      `json:"sub,omitempty"`
	Audience  []string    `json:"aud,omitempty"`
	ExpiresAt NumericDate `json:"exp"`
	NotBefore NumericDate `json:"nbf"`
	IssuedAt  NumericDate `json:"iat"`
	ID        string      `json:"jti,omitempty"`
}

// Claims is the claim set the Processor issues and verifies: the registered
// claims plus free-form application data.
type Claims struct {
	Extra map[string]any `json:"extra,omitempty"`
	RegisteredClaims
}
