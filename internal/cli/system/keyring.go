package system

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/config"
	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/keyring"
	"github.com/julianstephens/captainslog/internal/kv/postgres"
)

// KeyringSetCmd stores the backend secret in the OS keyring
type KeyringSetCmd struct {
	Secret string `arg:"" optional:"" help:"PostgreSQL connection string or redis password. Prompted for when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	secret := cmd.Secret
	if secret == "" {
		fmt.Fprint(ctx.Out, "Secret: ")
		var err error
		if secret, err = readSecret(ctx); err != nil {
			return fmt.Errorf("failed to read secret: %w", err)
		}
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return errors.New("secret cannot be empty")
	}

	switch ctx.Config.Backend {
	case constants.BackendPostgres:
		if !strings.HasPrefix(secret, "postgres://") &&
			!strings.HasPrefix(secret, "postgresql://") &&
			!strings.Contains(secret, "host=") {
			return errors.New("secret must be a valid PostgreSQL connection string for the postgres backend")
		}
		if _, err := postgres.ValidateConnString(secret); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				// Expected here: the keyring is where the password belongs.
				fmt.Fprintln(ctx.Out, "ℹ Connection string contains credentials; it will be stored in the encrypted OS keyring.")
			} else {
				return fmt.Errorf("invalid connection string: %w", err)
			}
		}
	case constants.BackendRedis:
	default:
		return fmt.Errorf("the %s backend does not use a secret", ctx.Config.Backend)
	}

	if err := keyring.SetSecret(secret); err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, "✓ Secret stored successfully in OS keyring")
	return nil
}

// readSecret reads without echo from a terminal, or a plain line otherwise.
func readSecret(ctx *cli.Context) (string, error) {
	if f, ok := ctx.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(ctx.Out)
		return string(b), err
	}
	return ctx.ReadLine()
}

// KeyringDeleteCmd removes the backend secret from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteSecret(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no secret found in keyring")
		}
		return err
	}

	fmt.Fprintln(ctx.Out, "✓ Secret deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Fprintln(ctx.Out, "❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Fprintln(ctx.Out, "✓ OS keyring is available")

	_, err := keyring.GetSecret()
	switch {
	case err == nil:
		fmt.Fprintln(ctx.Out, "✓ Secret is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Fprintln(ctx.Out, "ℹ No secret stored in keyring")
	default:
		return err
	}

	if os.Getenv(config.SecretEnvVar) != "" {
		fmt.Fprintf(ctx.Out, "ℹ %s is set and takes precedence over the keyring\n", config.SecretEnvVar)
	}
	return nil
}
