package synth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/awnumar/memguard"
)

// ErrNoSecret is returned when an API key is neither in the environment nor
// in the secrets file.
var ErrNoSecret = errors.New("api key not found")

// Secret holds an API key sealed in a memguard enclave. The plaintext only
// exists in locked memory for the duration of a Reveal call.
type Secret struct {
	enclave *memguard.Enclave
	source  string
}

// NewSecret seals value. It returns nil for an empty value.
func NewSecret(value, source string) *Secret {
	if value == "" {
		return nil
	}
	return &Secret{enclave: memguard.NewEnclave([]byte(value)), source: source}
}

// LoadSecret reads an API key from the environment variable envVar, falling
// back to the file at path. Surrounding whitespace in the file is trimmed.
func LoadSecret(envVar, path string) (*Secret, error) {
	if envVar != "" {
		if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
			slog.Debug("synth: api key loaded", "source", "env", "var", envVar)
			return NewSecret(v, "env:"+envVar), nil
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			v := strings.TrimSpace(string(b))
			memguard.WipeBytes(b)
			if v != "" {
				slog.Debug("synth: api key loaded", "source", "file", "path", path)
				return NewSecret(v, "file:"+path), nil
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read secret file %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("%w: set %s or create %s", ErrNoSecret, envVar, path)
}

// Source describes where the key came from, e.g. "env:GEMINI_API_KEY".
// It never contains key material.
func (s *Secret) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// Reveal opens the enclave and passes the plaintext to fn. The string is
// backed by the locked buffer, which is destroyed when fn returns: fn must
// copy it (strings.Clone) if the value has to outlive the call.
func (s *Secret) Reveal(fn func(key string) error) error {
	if s == nil {
		return ErrNoSecret
	}
	buf, err := s.enclave.Open()
	if err != nil {
		return fmt.Errorf("open secret enclave: %w", err)
	}
	defer buf.Destroy()
	return fn(buf.String())
}
