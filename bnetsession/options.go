package bnetsession

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/k64z/battlenet/bnetapi"
	"github.com/sirupsen/logrus"
)

type config struct {
	clientID     string
	clientSecret string
	region       bnetapi.Region
	authURL      string
	apiHost      string
	caCert       []byte
	https        bool
	port         uint16
	httpClient   *http.Client
	logger       logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		region: bnetapi.RegionUS,
		https:  true,
		port:   443,
		logger: logrus.StandardLogger(),
	}
}

type Option func(options *config) error

func WithClientID(clientID string) Option {
	return func(options *config) error {
		options.clientID = clientID
		return nil
	}
}

func WithClientSecret(clientSecret string) Option {
	return func(options *config) error {
		options.clientSecret = clientSecret
		return nil
	}
}

// WithRegion selects the API subdomain, namespace and, unless overridden,
// the token endpoint.
func WithRegion(region bnetapi.Region) Option {
	return func(options *config) error {
		if !region.Valid() {
			return errors.Newf("unknown region %s", region)
		}
		options.region = region
		return nil
	}
}

// WithAuthURL overrides the token endpoint of the region.
func WithAuthURL(authURL string) Option {
	return func(options *config) error {
		if authURL == "" {
			return errors.New("authURL should be non-empty")
		}
		options.authURL = authURL
		return nil
	}
}

// WithAPIHost overrides the "{region}.api.blizzard.com" host.
func WithAPIHost(host string) Option {
	return func(options *config) error {
		if host == "" {
			return errors.New("host should be non-empty")
		}
		options.apiHost = host
		return nil
	}
}

// WithCACert adds a PEM encoded certificate to the roots trusted for
// game-data requests.
func WithCACert(pem []byte) Option {
	return func(options *config) error {
		if len(pem) == 0 {
			return errors.New("CA cert should be non-empty")
		}
		options.caCert = append([]byte(nil), pem...)
		return nil
	}
}

func WithHTTPS(https bool) Option {
	return func(options *config) error {
		options.https = https
		return nil
	}
}

func WithPort(port uint16) Option {
	return func(options *config) error {
		if port == 0 {
			return errors.New("port should be non-zero")
		}
		options.port = port
		return nil
	}
}

// WithHTTPClient sets the client whose transport and timeout the
// game-data requests build on.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(options *config) error {
		if httpClient == nil {
			return errors.New("httpClient should be non-nil")
		}
		options.httpClient = httpClient
		return nil
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(options *config) error {
		if logger == nil {
			return errors.New("logger should be non-nil")
		}
		options.logger = logger
		return nil
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.authURL == "" {
		cfg.authURL = cfg.region.AuthRegion().TokenURL()
	}
	if cfg.apiHost == "" {
		cfg.apiHost = cfg.region.APIHost()
	}

	return cfg, nil
}

func (c config) endpoint() bnetapi.Endpoint {
	scheme := "https"
	if !c.https {
		scheme = "http"
	}
	return bnetapi.Endpoint{
		Scheme: scheme,
		Host:   c.apiHost,
		Port:   c.port,
	}
}
