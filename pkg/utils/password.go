package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost matches the cost the existing user records were hashed with.
const PasswordCost = 10

// HashPassword returns the bcrypt hash stored in place of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
