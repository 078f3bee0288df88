package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"sync"

	"github.com/alexedwards/argon2id"
)

var ErrNoSecret = errors.New("security: no heartbeat secret configured")

// SecretVerifier checks the heartbeat shared secret, either against a clear
// value or an argon2id hash.
//
// In hash mode the digest of the last accepted token is remembered, so the
// device's repeated pings skip argon2id. Comparisons that do reach argon2id
// run one at a time, which caps memory at one hash worth of work no matter
// how many bad tokens arrive at once.
type SecretVerifier struct {
	plain string
	hash  string

	mu       sync.Mutex
	accepted []byte // sha256 of the last token that matched hash
	compare  func(password, hash string) (bool, error)
}

func NewSecretVerifier(plain, hash string) (*SecretVerifier, error) {
	if plain == "" && hash == "" {
		return nil, ErrNoSecret
	}
	if hash != "" {
		if _, _, _, err := argon2id.DecodeHash(hash); err != nil {
			return nil, err
		}
	}
	return &SecretVerifier{
		plain:   plain,
		hash:    hash,
		compare: argon2id.ComparePasswordAndHash,
	}, nil
}

func (v *SecretVerifier) Verify(candidate string) bool {
	if candidate == "" {
		return false
	}
	if v.hash == "" {
		return subtle.ConstantTimeCompare([]byte(candidate), []byte(v.plain)) == 1
	}

	digest := sha256.Sum256([]byte(candidate))

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.accepted != nil && subtle.ConstantTimeCompare(digest[:], v.accepted) == 1 {
		return true
	}

	ok, err := v.compare(candidate, v.hash)
	if err != nil || !ok {
		return false
	}
	v.accepted = digest[:]
	return true
}

func HashSecret(secret string) (string, error) {
	return argon2id.CreateHash(secret, argon2id.DefaultParams)
}
