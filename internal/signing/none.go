package signing

import "crypto"

// noneMethod is the unsigned algorithm. It performs no cryptographic
// operation: Sign emits an empty signature and Verify accepts only an empty
// one. The pipeline dispatches it solely when the token or caller names
// "none" explicitly; unknown algorithms never degrade to it.
type noneMethod struct{}

func (noneMethod) Alg() string { return "none" }

func (noneMethod) Hash() crypto.Hash { return crypto.Hash(0) }

func (noneMethod) Sign(signingString, key string) (string, error) {
	return "", nil
}

func (noneMethod) Verify(signingString, signature, key string) error {
	if signature != "" {
		return ErrSignatureInvalid
	}
	return nil
}
