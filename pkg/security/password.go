package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/catalog-backend/pkg/config"
	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash signals a malformed or unsupported argon2id hash string.
var ErrInvalidHash = errors.New("invalid argon2id hash")

var b64 = base64.RawStdEncoding

// Params are the argon2id costs encoded into every stored hash.
type Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// ParamsFromConfig clamps configured costs into a range argon2 accepts.
func ParamsFromConfig(cfg config.PasswordConfig) Params {
	return Params{
		Memory:      uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		Time:        uint32(clamp(cfg.ArgonTime, 1, 10)),
		Parallelism: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     uint32(clamp(cfg.ArgonSaltLen, 8, 64)),
		KeyLen:      uint32(clamp(cfg.ArgonKeyLen, 16, 64)),
	}
}

// HashPassword encodes password in the PHC string format
// $argon2id$v=19$m=<kb>,t=<iter>,p=<threads>$<salt>$<key>.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	p := ParamsFromConfig(cfg)

	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)

	var sb strings.Builder
	fmt.Fprintf(&sb, "$argon2id$v=%d$m=%d,t=%d,p=%d$", argon2.Version, p.Memory, p.Time, p.Parallelism)
	sb.WriteString(b64.EncodeToString(salt))
	sb.WriteByte('$')
	sb.WriteString(b64.EncodeToString(key))
	return sb.String(), nil
}

// VerifyPassword reports whether password matches encoded. Only a malformed
// hash yields an error; a wrong password is (false, nil).
func VerifyPassword(password, encoded string) (bool, error) {
	h, err := parse(encoded)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey([]byte(password), h.salt, h.params.Time, h.params.Memory, h.params.Parallelism, h.params.KeyLen)
	return subtle.ConstantTimeCompare(h.key, key) == 1, nil
}

// NeedsRehash reports whether encoded was produced with costs below the
// configured ones.
func NeedsRehash(encoded string, cfg config.PasswordConfig) (bool, error) {
	h, err := parse(encoded)
	if err != nil {
		return false, err
	}
	want := ParamsFromConfig(cfg)
	got := h.params
	return got.Memory < want.Memory || got.Time < want.Time || got.KeyLen < want.KeyLen, nil
}

type parsedHash struct {
	params Params
	salt   []byte
	key    []byte
}

func parse(encoded string) (parsedHash, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return parsedHash{}, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return parsedHash{}, ErrInvalidHash
	}

	var h parsedHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.params.Memory, &h.params.Time, &h.params.Parallelism); err != nil {
		return parsedHash{}, ErrInvalidHash
	}
	if h.params.Memory == 0 || h.params.Time == 0 || h.params.Parallelism == 0 {
		return parsedHash{}, ErrInvalidHash
	}

	var err error
	if h.salt, err = b64.DecodeString(parts[4]); err != nil || len(h.salt) == 0 {
		return parsedHash{}, ErrInvalidHash
	}
	if h.key, err = b64.DecodeString(parts[5]); err != nil || len(h.key) == 0 {
		return parsedHash{}, ErrInvalidHash
	}
	h.params.SaltLen = uint32(len(h.salt))
	h.params.KeyLen = uint32(len(h.key))
	return h, nil
}

func clamp(value, lo, hi int) int {
	return min(max(value, lo), hi)
}
