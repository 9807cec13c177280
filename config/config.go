// Package config loads client settings from a YAML file, environment
// variables and, for the client secret, the OS keyring.
package config

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/k64z/battlenet/bnetapi"
	"github.com/k64z/battlenet/bnetsession"
	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	// KeyringService is the keyring service the client secret is stored under,
	// with the client id as the account.
	KeyringService = "battlenet"

	EnvClientID     = "BATTLENET_CLIENT_ID"
	EnvClientSecret = "BATTLENET_CLIENT_SECRET"
	EnvRegion       = "BATTLENET_REGION"
	EnvLocale       = "BATTLENET_LOCALE"
	EnvAuthURL      = "BATTLENET_AUTH_URL"
	EnvAPIHost      = "BATTLENET_API_HOST"
	EnvPort         = "BATTLENET_PORT"
	EnvCACert       = "BATTLENET_CA_CERT"
	EnvLogLevel     = "BATTLENET_LOG_LEVEL"
	EnvHTTPS        = "BATTLENET_HTTPS"
)

type Config struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Region       string `yaml:"region"`
	Locale       string `yaml:"locale"`

	// AuthURL and APIHost override the region's public hosts.
	AuthURL string `yaml:"auth_url,omitempty"`
	APIHost string `yaml:"api_host,omitempty"`
	Port    uint16 `yaml:"port,omitempty"`
	HTTPS   *bool  `yaml:"https,omitempty"`

	// CACertFile holds the PEM root that replaces the system roots for
	// game-data requests.
	CACertFile string `yaml:"ca_cert_file,omitempty"`

	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Region:   "us",
		Locale:   "en_US",
		LogLevel: "info",
	}
}

// Load reads path (if non-empty) over the defaults, then applies the
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(EnvClientID, &c.ClientID)
	set(EnvClientSecret, &c.ClientSecret)
	set(EnvRegion, &c.Region)
	set(EnvLocale, &c.Locale)
	set(EnvAuthURL, &c.AuthURL)
	set(EnvAPIHost, &c.APIHost)
	set(EnvCACert, &c.CACertFile)
	set(EnvLogLevel, &c.LogLevel)

	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvPort)
		}
		c.Port = uint16(port)
	}

	if v, ok := lookup(EnvHTTPS); ok && v != "" {
		https, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvHTTPS)
		}
		c.HTTPS = &https
	}

	return nil
}

// ResolveSecret fills an empty ClientSecret from the OS keyring. A missing
// keyring entry is not an error.
func (c *Config) ResolveSecret() error {
	if c.ClientSecret != "" || c.ClientID == "" {
		return nil
	}

	secret, err := keyring.Get(KeyringService, c.ClientID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return errors.Wrap(err, "read client secret from keyring")
	}

	c.ClientSecret = secret
	return nil
}

// StoreSecret saves ClientSecret in the OS keyring under ClientID.
func (c *Config) StoreSecret() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return bnetsession.ErrMissingCredentials
	}
	return errors.Wrap(keyring.Set(KeyringService, c.ClientID, c.ClientSecret), "store client secret in keyring")
}

func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return bnetsession.ErrMissingCredentials
	}
	if _, err := bnetapi.ParseRegion(c.Region); err != nil {
		return err
	}
	if _, err := bnetapi.ParseLocale(c.Locale); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

func (c *Config) ParsedRegion() (bnetapi.Region, error) {
	return bnetapi.ParseRegion(c.Region)
}

func (c *Config) ParsedLocale() (bnetapi.Locale, error) {
	return bnetapi.ParseLocale(c.Locale)
}

// SessionOptions translates the config into bnetsession options.
func (c *Config) SessionOptions(logger logrus.FieldLogger) ([]bnetsession.Option, error) {
	region, err := c.ParsedRegion()
	if err != nil {
		return nil, err
	}

	opts := []bnetsession.Option{
		bnetsession.WithClientID(c.ClientID),
		bnetsession.WithClientSecret(c.ClientSecret),
		bnetsession.WithRegion(region),
		bnetsession.WithLogger(logger),
	}

	if c.AuthURL != "" {
		opts = append(opts, bnetsession.WithAuthURL(c.AuthURL))
	}
	if c.APIHost != "" {
		opts = append(opts, bnetsession.WithAPIHost(c.APIHost))
	}
	if c.Port != 0 {
		opts = append(opts, bnetsession.WithPort(c.Port))
	}
	if c.HTTPS != nil {
		opts = append(opts, bnetsession.WithHTTPS(*c.HTTPS))
	}
	if c.CACertFile != "" {
		pem, err := os.ReadFile(c.CACertFile)
		if err != nil {
			return nil, errors.Wrapf(err, "read CA cert %s", c.CACertFile)
		}
		opts = append(opts, bnetsession.WithCACert(pem))
	}

	return opts, nil
}
