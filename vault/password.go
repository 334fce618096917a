package vault

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted, one-way hash from a raw password.
// Hashing the same password twice yields different tokens because the
// salt is drawn fresh on every call.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether raw matches the given hash token.
// Malformed tokens and empty passwords simply fail the check, the caller
// never has to deal with an error.
func VerifyPassword(raw, hash string) bool {
	if raw == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
