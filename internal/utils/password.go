package utils

import "golang.org/x/crypto/bcrypt"

// VerifyPassword compares a bcrypt hash from the user directory against
// a submitted plain password. Hashing itself lives in the directory
// service; this side only ever compares.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
