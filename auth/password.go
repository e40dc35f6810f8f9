package auth

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	saltLength = 16
)

// hashIterations is a var so tests can make hashing cheap.
var hashIterations = 600000

// hashPassword returns "pbkdf2:sha256:<iterations>$<salt>$<hex digest>".
func hashPassword(password string) (string, error) {
	salt, err := generateSalt(saltLength)
	if err != nil {
		return "", err
	}
	digest := pbkdf2.Key([]byte(password), []byte(salt), hashIterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", hashIterations, salt, hex.EncodeToString(digest)), nil
}

func checkPasswordHash(password, stored string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}

	method, salt, want, ok := splitHash(stored)
	if !ok {
		return false
	}
	got, ok := derive(method, salt, password)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func splitHash(stored string) (method, salt, digest string, ok bool) {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// derive understands "pbkdf2:<hash>[:<iterations>]".
func derive(method, salt, password string) (string, bool) {
	fields := strings.Split(method, ":")
	if len(fields) < 2 || fields[0] != "pbkdf2" {
		return "", false
	}

	var newHash func() hash.Hash
	var size int
	switch fields[1] {
	case "sha256":
		newHash, size = sha256.New, sha256.Size
	case "sha512":
		newHash, size = sha512.New, sha512.Size
	case "sha1":
		newHash, size = sha1.New, sha1.Size
	default:
		return "", false
	}

	iterations := 260000
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return "", false
		}
		iterations = n
	}

	return hex.EncodeToString(pbkdf2.Key([]byte(password), []byte(salt), iterations, size, newHash)), true
}

func generateSalt(n int) (string, error) {
	limit := big.NewInt(int64(len(saltChars)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = saltChars[idx.Int64()]
	}
	return string(b), nil
}
