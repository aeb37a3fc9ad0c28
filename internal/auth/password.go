package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2-SHA256 parameters. Hashes encode their own iteration count, so these
// can be raised without invalidating stored credentials.
const (
	pbkdf2Iterations = 600_000
	pbkdf2SaltLen    = 16
	pbkdf2KeyLen     = 32
	pbkdf2Scheme     = "pbkdf2-sha256"
)

// HashPassword derives a PBKDF2-SHA256 hash with a random per-user salt,
// encoded as "pbkdf2-sha256$<iterations>$<salt>$<hash>" (base64, no padding).
func HashPassword(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	enc := base64.RawStdEncoding
	return fmt.Sprintf("%s$%d$%s$%s",
		pbkdf2Scheme,
		pbkdf2Iterations,
		enc.EncodeToString(salt),
		enc.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether the password matches the encoded hash. The
// comparison is constant-time; a malformed hash verifies as false with an
// error describing the problem.
func VerifyPassword(encoded, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != pbkdf2Scheme {
		return false, fmt.Errorf("unsupported password hash format")
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false, fmt.Errorf("invalid iteration count %q", parts[1])
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	expected, err := enc.DecodeString(parts[3])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
