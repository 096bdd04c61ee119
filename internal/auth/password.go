package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt hash (cost=10). The salt is
// embedded in the output, so verification needs no separate salt storage.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether pw matches the stored hash. A malformed
// hash is a verification failure, never a panic or an error.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
