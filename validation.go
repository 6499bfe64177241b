package jwt

import (
	"fmt"
)

const (
	maxStringLength = 256
	maxArraySize    = 100
	maxExtraSize    = 50
)

// validateClaims sanity-checks a claim set before it is signed. Limits are
// deliberately generous; they exist to keep obviously hostile or corrupted
// input out of issued tokens, not to model application policy.
func validateClaims(claims *Claims) error {
	if err := validateString("iss", claims.Issuer, maxStringLength); err != nil {
		return err
	}
	if err := validateString("sub", claims.Subject, maxStringLength); err != nil {
		return err
	}
	if err := validateString("jti", claims.ID, maxStringLength); err != nil {
		return err
	}
	if err := validateStringArray("aud", claims.Audience); err != nil {
		return err
	}

	if len(claims.Extra) > maxExtraSize {
		return &ValidationError{
			Field:   "extra",
			Message: fmt.Sprintf("too many fields: maximum %d allowed", maxExtraSize),
		}
	}

	for key, value := range claims.Extra {
		if err := validateString("extra key", key, maxStringLength); err != nil {
			return err
		}
		switch v := value.(type) {
		case string:
			if err := validateString("extra."+key, v, maxStringLength); err != nil {
				return err
			}
		case []string:
			if err := validateStringArray("extra."+key, v); err != nil {
				return err
			}
		case map[string]any:
			return &ValidationError{
				Field:   "extra." + key,
				Message: "nested maps not allowed",
			}
		}
	}

	return nil
}

func validateStringArray(name string, items []string) error {
	if len(items) > maxArraySize {
		return &ValidationError{
			Field:   name,
			Message: fmt.Sprintf("too many items: maximum %d allowed", maxArraySize),
		}
	}
	for _, item := range items {
		if err := validateString(name, item, maxStringLength); err != nil {
			return err
		}
	}
	return nil
}

func validateString(fieldName, value string, maxLength int) error {
	if len(value) == 0 {
		return nil
	}

	if len(value) > maxLength {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("too long: maximum %d characters", maxLength),
		}
	}

	for i := 0; i < len(value); i++ {
		char := value[i]
		if char < 32 && char != '\t' && char != '\n' && char != '\r' {
			return &ValidationError{
				Field:   fieldName,
				Message: "contains invalid control character",
			}
		}
	}

	return nil
}
