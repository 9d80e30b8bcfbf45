package handlers

import (
	"errors"

	"costengine/internal/security"
)

// verifyPasswordErr adapts security.VerifyPassword to the
// bcrypt.CompareHashAndPassword(err-on-mismatch) calling convention the
// handlers were originally written against.
func verifyPasswordErr(encodedHash, password string) error {
	ok, err := security.VerifyPassword(password, encodedHash)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("password mismatch")
	}
	return nil
}

// hashPasswordBytes adapts security.HashPassword to the
// bcrypt.GenerateFromPassword([]byte, error) calling convention.
func hashPasswordBytes(password string) ([]byte, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return []byte(hash), nil
}
