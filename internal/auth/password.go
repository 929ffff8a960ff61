package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted one-way digest from a plaintext password.
// bcrypt embeds a fresh random salt in every digest, so hashing the same
// plaintext twice yields different digests.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches the stored digest.
// It fails closed: a malformed digest or any internal bcrypt error is
// treated as a mismatch, never propagated.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
