package ledger

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier hashes credentials at registration and checks them at
// login. The engine never compares plaintext directly, so the scheme can be
// swapped without touching ledger logic.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	Compare(hashed, plain string) error
}

// BcryptVerifier is the production CredentialVerifier.
type BcryptVerifier struct{}

// Hash returns the bcrypt hash of the plaintext credential.
func (BcryptVerifier) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Compare checks the plaintext credential against a stored hash.
func (BcryptVerifier) Compare(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
