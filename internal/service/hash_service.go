package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Cost parameters for new hashes. Verification reads the parameters
// back out of the stored string, so these can be raised later without
// invalidating existing credentials.
const (
	hashIterations = 1
	hashMemoryKiB  = 64 * 1024
	hashParallel   = 4
	hashLen        = 32
	saltLen        = 16
)

// Argon2HashService implements ports.HashService. Hashes are stored in
// the standard modular crypt encoding, e.g.
// $argon2id$v=19$m=65536,t=1,p=4$<b64 salt>$<b64 digest>.
type Argon2HashService struct{}

func NewArgon2HashService() *Argon2HashService {
	return &Argon2HashService{}
}

// Hash derives an Argon2id digest of password under a fresh random salt
// and returns the self-describing encoded form.
func (s *Argon2HashService) Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, hashIterations, hashMemoryKiB, hashParallel, hashLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		hashMemoryKiB, hashIterations, hashParallel,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// Verify recomputes the digest of password with the salt and cost
// parameters carried in encoded and compares in constant time.
func (s *Argon2HashService) Verify(password string, encoded string) (bool, error) {
	stored, err := parseArgon2(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), stored.salt, stored.iterations, stored.memoryKiB, stored.parallel, uint32(len(stored.digest)))

	return subtle.ConstantTimeCompare(stored.digest, candidate) == 1, nil
}

// storedHash is the decoded form of an encoded credential.
type storedHash struct {
	salt       []byte
	digest     []byte
	memoryKiB  uint32
	iterations uint32
	parallel   uint8
}

func parseArgon2(encoded string) (*storedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, fmt.Errorf("malformed password hash: %d segments", len(parts))
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("unexpected hash algorithm %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("parse hash version: %w", err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var h storedHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.memoryKiB, &h.iterations, &h.parallel); err != nil {
		return nil, fmt.Errorf("parse hash parameters: %w", err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	if h.digest, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("decode digest: %w", err)
	}

	return &h, nil
}
