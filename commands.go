package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/k64z/battlenet/bnetapi"
	"github.com/k64z/battlenet/bnetsession"
	"github.com/k64z/battlenet/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	region     string
	locale     string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "battlenet",
		Short:         "Query the Battle.net game-data API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.region, "region", "", "region (eu, us, apac, cn)")
	cmd.PersistentFlags().StringVar(&opts.locale, "locale", "", "locale, e.g. en_US")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level")

	cmd.AddCommand(
		newTokenCommand(opts),
		newAuctionsCommand(opts),
		newStoreSecretCommand(opts),
	)

	return cmd
}

// loadConfig merges file, environment and flags, in increasing precedence.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.region != "" {
		cfg.Region = opts.region
	}
	if opts.locale != "" {
		cfg.Locale = opts.locale
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(level)
	return logger, nil
}

func authenticate(cmd *cobra.Command, opts *globalOptions) (*bnetsession.Session, *config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.ResolveSecret(); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}

	sessionOpts, err := cfg.SessionOptions(logger)
	if err != nil {
		return nil, nil, err
	}

	authenticator, err := bnetsession.New(sessionOpts...)
	if err != nil {
		return nil, nil, err
	}

	session, err := authenticator.Authenticate(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	return session, cfg, nil
}

func newTokenCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Exchange client credentials for an access token and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := authenticate(cmd, opts)
			if err != nil {
				return err
			}

			tok := session.Token()
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			if !tok.Expiry.IsZero() {
				fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", tok.Expiry.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newAuctionsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "auctions <connected-realm-id>",
		Short:   "Fetch the auctions of a connected realm and print the line count",
		Example: "  battlenet auctions 1305 --region eu --locale en_GB",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			realmID, err := bnetapi.ParseConnectedRealmID(args[0])
			if err != nil {
				return err
			}

			session, cfg, err := authenticate(cmd, opts)
			if err != nil {
				return err
			}

			locale, err := cfg.ParsedLocale()
			if err != nil {
				return err
			}

			n, err := session.GetAuctionsByRealmID(cmd.Context(), realmID, locale)
			if err != nil {
				return errors.Wrapf(err, "get auctions of realm %s", realmID)
			}

			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newStoreSecretCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "store-secret",
		Short: "Read the client secret from stdin and store it in the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.Wrap(err, "read secret")
			}
			cfg.ClientSecret = strings.TrimSpace(line)

			if err := cfg.StoreSecret(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stored secret for %s\n", cfg.ClientID)
			return nil
		},
	}
}
