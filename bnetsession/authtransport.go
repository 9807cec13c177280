package bnetsession

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"

	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2"
)

// ErrInvalidCACert is returned when WithCACert holds no usable PEM certificate.
var ErrInvalidCACert = errors.New("invalid CA certificate")

// baseTransport returns the RoundTripper game-data requests travel over.
// A configured CA cert is added to the system roots on a cloned *http.Transport.
func baseTransport(cfg config) (http.RoundTripper, error) {
	var base http.RoundTripper = http.DefaultTransport
	if cfg.httpClient != nil && cfg.httpClient.Transport != nil {
		base = cfg.httpClient.Transport
	}

	if len(cfg.caCert) == 0 {
		return base, nil
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(cfg.caCert) {
		return nil, ErrInvalidCACert
	}

	t, ok := base.(*http.Transport)
	if !ok {
		return nil, errors.Newf("CA cert requires an *http.Transport, got %T", base)
	}

	t = t.Clone()
	if t.TLSClientConfig == nil {
		t.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	t.TLSClientConfig.RootCAs = pool

	return t, nil
}

// newDataClient wraps base with an oauth2.Transport that sets
// "Authorization: Bearer <token>" on every request. The token is static.
func newDataClient(cfg config, base http.RoundTripper, tok *oauth2.Token) *http.Client {
	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(tok),
			Base:   base,
		},
	}

	if cfg.httpClient != nil {
		client.Timeout = cfg.httpClient.Timeout
		client.CheckRedirect = cfg.httpClient.CheckRedirect
		client.Jar = cfg.httpClient.Jar
	}

	return client
}

// newAuthClient is the client for the token exchange: the configured base
// transport without bearer injection.
func newAuthClient(cfg config, base http.RoundTripper) *http.Client {
	client := &http.Client{Transport: base}
	if cfg.httpClient != nil {
		client.Timeout = cfg.httpClient.Timeout
		client.CheckRedirect = cfg.httpClient.CheckRedirect
	}
	return client
}
