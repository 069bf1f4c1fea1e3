// Package cmd: configuration helpers.
// Flags fall back to COURSEPIPE_* environment variables, and credentials
// are prompted for on a terminal when they are not configured.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"golang.org/x/term"

	"github.com/gaurav-prasanna/coursepipe/core/fetch"
)

const (
	envPrefix        = "COURSEPIPE_"
	envPassword      = envPrefix + "PASSWORD"
	maxLoginAttempts = 3
)

// envName maps a flag such as "log-level" to COURSEPIPE_LOG_LEVEL.
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnv sets every flag not given on the command line from its
// environment variable, when present.
func applyEnv(fs *pflag.FlagSet) error {
	var errs error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		name := envName(f.Name)
		v, ok := os.LookupEnv(name)
		if !ok {
			return
		}
		prev := f.Value.String()
		if err := fs.Set(f.Name, v); err != nil {
			// Some values overwrite themselves before reporting a parse error.
			_ = f.Value.Set(prev)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
	})
	return errs
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func promptUser() (string, error) {
	fmt.Fprint(os.Stderr, "Login: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading login: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// connect builds an authenticated fetcher and checks the credentials against
// the catalog's front page. On a terminal, rejected credentials are asked for
// again.
func connect(ctx context.Context) (*fetch.HTTPFetcher, error) {
	opts := fetchOptions()
	opts.Password = os.Getenv(envPassword)

	for attempt := 1; ; attempt++ {
		if opts.Username == "" || attempt > 1 {
			if !interactive() {
				return nil, errors.New("no login given: use --user or " + envName("user"))
			}
			user, err := promptUser()
			if err != nil {
				return nil, err
			}
			opts.Username = user
		}
		if opts.Password == "" || attempt > 1 {
			if !interactive() {
				return nil, errors.New("no password given: set " + envPassword)
			}
			pw, err := promptPassword()
			if err != nil {
				return nil, err
			}
			opts.Password = pw
		}

		f, err := fetch.New(opts, logger.Named("fetch"))
		if err != nil {
			return nil, err
		}
		_, err = f.Fetch(ctx, opts.BaseURL)
		if err == nil {
			return f, nil
		}
		if errors.Is(err, fetch.ErrUnauthorized) && interactive() && attempt < maxLoginAttempts {
			logger.Error("authentication has failed, the provided credentials were not correct, try again")
			continue
		}
		return nil, fmt.Errorf("connecting to %s: %w", opts.BaseURL, err)
	}
}
