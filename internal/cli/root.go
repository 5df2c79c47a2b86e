// Package cli implements the donate command: sign in, browse donations and
// post a new one with photos uploaded straight to storage.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"alcyxob/donation-share/internal/client"
	"alcyxob/donation-share/internal/config"
	"alcyxob/donation-share/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is returned by commands that need a token when none is stored.
var ErrNotLoggedIn = errors.New("not logged in: run `donate login` first")

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configDir string
	apiURL    string

	cfg    config.ClientConfig
	api    *client.Client
	tokens tokenStore
	log    *logrus.Logger

	// readPassword reads a secret without echo when in is a terminal.
	readPassword func(prompt string) (string, error)
}

// New builds the root command.
func New(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, log: logrus.New()}
	a.readPassword = a.promptPassword

	root := &cobra.Command{
		Use:           "donate",
		Short:         "Share items with your community",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.configDir, "config", ".", "directory containing donate.yaml")
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL (overrides config)")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.listCmd(),
		a.showCmd(),
		a.giveCmd(),
	)
	return root
}

// Execute runs the CLI against the process's standard streams.
func Execute() int {
	root := New(os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) setup() error {
	cfg, err := config.LoadClientConfig(a.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	a.cfg = cfg
	logger.Configure(a.log, cfg.Log, a.errOut)

	a.api = client.New(cfg.APIBaseURL, cfg.Timeout)
	a.tokens = tokenStore{path: cfg.TokenFile}
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	if token != "" {
		a.api.SetToken(token)
	}
	a.log.WithField("api", cfg.APIBaseURL).Debug("client ready")
	return nil
}

func (a *app) requireToken() error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return ErrNotLoggedIn
	}
	return nil
}
