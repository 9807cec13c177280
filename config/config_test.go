package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/k64z/battlenet/bnetapi"
	"github.com/k64z/battlenet/bnetsession"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "us", cfg.Region)
	assert.Equal(t, "en_US", cfg.Locale)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "battlenet.yaml", `
client_id: abc
client_secret: def
region: eu
locale: de_DE
api_host: 127.0.0.1
port: 8443
https: false
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.ClientID)
	assert.Equal(t, "def", cfg.ClientSecret)
	assert.Equal(t, "eu", cfg.Region)
	assert.Equal(t, "de_DE", cfg.Locale)
	assert.Equal(t, "127.0.0.1", cfg.APIHost)
	assert.Equal(t, uint16(8443), cfg.Port)
	require.NotNil(t, cfg.HTTPS)
	assert.False(t, *cfg.HTTPS)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, "bad.yaml", "region: [eu")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvClientID: "from-env",
		EnvRegion:   "cn",
		EnvPort:     "9443",
		EnvLocale:   "",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))

	assert.Equal(t, "from-env", cfg.ClientID)
	assert.Equal(t, "cn", cfg.Region)
	assert.Equal(t, "en_US", cfg.Locale)
	assert.Equal(t, uint16(9443), cfg.Port)
}

func TestApplyEnvHTTPS(t *testing.T) {
	tests := map[string]struct {
		value   string
		want    *bool
		wantErr bool
	}{
		"false": {value: "false", want: boolPtr(false)},
		"one":   {value: "1", want: boolPtr(true)},
		"unset": {value: ""},
		"bogus": {value: "sometimes", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(func(key string) (string, bool) {
				if key == EnvHTTPS {
					return tt.value, true
				}
				return "", false
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.HTTPS)
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestApplyEnvBadPort(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(key string) (string, bool) {
		if key == EnvPort {
			return "70000", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "battlenet.yaml", "client_id: file\nregion: eu\n")
	t.Setenv(EnvClientID, "env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.ClientID)
	assert.Equal(t, "eu", cfg.Region)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.ClientID = "id"
		cfg.ClientSecret = "secret"
		return cfg
	}

	tests := map[string]struct {
		mutate  func(*Config)
		wantErr bool
	}{
		"valid":         {mutate: func(*Config) {}},
		"no id":         {mutate: func(c *Config) { c.ClientID = "" }, wantErr: true},
		"no secret":     {mutate: func(c *Config) { c.ClientSecret = "" }, wantErr: true},
		"bad region":    {mutate: func(c *Config) { c.Region = "mars" }, wantErr: true},
		"bad locale":    {mutate: func(c *Config) { c.Locale = "xx" }, wantErr: true},
		"bad log level": {mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		"upper region":  {mutate: func(c *Config) { c.Region = "APAC" }},
		"hyphen locale": {mutate: func(c *Config) { c.Locale = "pt-br" }},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveSecretFromKeyring(t *testing.T) {
	keyring.MockInit()

	cfg := Default()
	cfg.ClientID = "id"
	cfg.ClientSecret = "stored"
	require.NoError(t, cfg.StoreSecret())

	loaded := Default()
	loaded.ClientID = "id"
	require.NoError(t, loaded.ResolveSecret())
	assert.Equal(t, "stored", loaded.ClientSecret)

	missing := Default()
	missing.ClientID = "other"
	require.NoError(t, missing.ResolveSecret())
	assert.Empty(t, missing.ClientSecret)
}

func TestStoreSecretRequiresCredentials(t *testing.T) {
	keyring.MockInit()

	err := Default().StoreSecret()
	assert.True(t, errors.Is(err, bnetsession.ErrMissingCredentials))

	cfg := Default()
	cfg.ClientID = "id"
	assert.True(t, errors.Is(cfg.Validate(), bnetsession.ErrMissingCredentials))
}

func TestSessionOptions(t *testing.T) {
	cfg := Default()
	cfg.ClientID = "id"
	cfg.ClientSecret = "secret"
	cfg.Region = "eu"
	cfg.APIHost = "127.0.0.1"
	cfg.Port = 8443

	logger := logrus.New()
	opts, err := cfg.SessionOptions(logger)
	require.NoError(t, err)
	assert.Len(t, opts, 6)

	cfg.CACertFile = filepath.Join(t.TempDir(), "missing.pem")
	_, err = cfg.SessionOptions(logger)
	assert.Error(t, err)

	cfg.Region = "nowhere"
	_, err = cfg.SessionOptions(logger)
	assert.Error(t, err)
}

func TestParsed(t *testing.T) {
	cfg := Default()

	region, err := cfg.ParsedRegion()
	require.NoError(t, err)
	assert.Equal(t, bnetapi.RegionUS, region)

	locale, err := cfg.ParsedLocale()
	require.NoError(t, err)
	assert.Equal(t, bnetapi.LocaleEnUS, locale)
}
