package config

import (
	"errors"
	"os"

	"github.com/julianstephens/captainslog/internal/keyring"
)

// keyringGet is replaced in tests.
var keyringGet = keyring.GetSecret

// ResolveSecret returns the backend secret from the environment or the OS
// keyring. It returns "" with a nil error when neither has one.
func ResolveSecret() (string, error) {
	if s := os.Getenv(SecretEnvVar); s != "" {
		return s, nil
	}
	s, err := keyringGet()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return s, nil
}
