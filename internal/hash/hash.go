// Package hash implements salted password hashing with argon2id. The salt is
// generated separately and stored next to the digest, so the same
// (plaintext, salt) pair always yields the same digest.
package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltLen    = 16
	keyLen     = 32
	iterations = 1
	memory     = 64 * 1024
	threads    = 2
)

func GenerateSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}

func Hash(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), iterations, memory, threads, keyLen)
	return base64.RawStdEncoding.EncodeToString(key)
}

func Verify(password, salt, digest string) bool {
	if salt == "" || digest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(Hash(password, salt)), []byte(digest)) == 1
}

// HashNew salts and hashes a fresh password.
func HashNew(password string) (digest, salt string, err error) {
	salt, err = GenerateSalt()
	if err != nil {
		return "", "", err
	}
	return Hash(password, salt), salt, nil
}
