package bnetsession

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/k64z/battlenet/bnetapi"
	"github.com/k64z/rq"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var ErrMissingCredentials = errors.New("client id and client secret are required")

// Authenticator holds everything needed to open a Session: the client
// credentials and where and how to reach the token and game-data hosts.
type Authenticator struct {
	cfg  config
	base http.RoundTripper
}

func New(opts ...Option) (*Authenticator, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	base, err := baseTransport(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "configure transport")
	}

	return &Authenticator{cfg: cfg, base: base}, nil
}

// Authenticate exchanges the client credentials for a token and returns a
// session bound to it. The token is fetched once and never refreshed.
func (a *Authenticator) Authenticate(ctx context.Context) (*Session, error) {
	if a.cfg.clientID == "" || a.cfg.clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	log := a.cfg.logger.WithFields(logrus.Fields{
		"region":   a.cfg.region.String(),
		"auth_url": a.cfg.authURL,
	})
	log.Debug("requesting access token")

	tok, err := bnetapi.AuthenticateWithClient(ctx, newAuthClient(a.cfg, a.base), a.cfg.clientID, a.cfg.clientSecret, a.cfg.authURL)
	if err != nil {
		return nil, errors.Wrap(err, "authenticate")
	}

	log.WithField("expires_in", tok.ExpiresIn).Info("access token obtained")

	return newSession(a.cfg, a.base, tok), nil
}

// Session is an authenticated handle to the game-data API.
type Session struct {
	httpClient *http.Client
	logger     logrus.FieldLogger

	token    *oauth2.Token
	region   bnetapi.Region
	endpoint bnetapi.Endpoint
}

// NewSession builds a session around an already issued access token.
func NewSession(region bnetapi.Region, accessToken string, opts ...Option) (*Session, error) {
	if accessToken == "" {
		return nil, errors.New("access token cannot be empty")
	}

	cfg, err := applyOptions(append([]Option{WithRegion(region)}, opts...))
	if err != nil {
		return nil, err
	}

	base, err := baseTransport(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "configure transport")
	}

	return newSession(cfg, base, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}), nil
}

func newSession(cfg config, base http.RoundTripper, tok *oauth2.Token) *Session {
	return &Session{
		httpClient: newDataClient(cfg, base, tok),
		logger:     cfg.logger,
		token:      tok,
		region:     cfg.region,
		endpoint:   cfg.endpoint(),
	}
}

func (s *Session) Token() *oauth2.Token {
	return s.token
}

func (s *Session) Region() bnetapi.Region {
	return s.region
}

func (s *Session) Endpoint() bnetapi.Endpoint {
	return s.endpoint
}

// HTTPClient returns the client that signs requests with the session token.
func (s *Session) HTTPClient() *http.Client {
	return s.httpClient
}

// AuctionsURL returns the auctions document URL of a connected realm.
func (s *Session) AuctionsURL(realmID bnetapi.ConnectedRealmID, locale bnetapi.Locale) (*url.URL, error) {
	return bnetapi.DataURL(s.endpoint, s.region, bnetapi.AuctionsRoute(realmID), locale)
}

// GetAuctionsByRealmID fetches the auctions document of a connected realm
// and returns the number of CRLF separated segments in the raw body.
func (s *Session) GetAuctionsByRealmID(ctx context.Context, realmID bnetapi.ConnectedRealmID, locale bnetapi.Locale) (int, error) {
	u, err := s.AuctionsURL(realmID, locale)
	if err != nil {
		return 0, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"region": s.region.String(),
		"realm":  realmID,
		"locale": locale.String(),
	})
	log.Debug("fetching auctions")

	body, err := s.get(ctx, "auctions", u)
	if err != nil {
		return 0, err
	}

	n := countSegments(body)
	log.WithFields(logrus.Fields{"bytes": len(body), "segments": n}).Debug("fetched auctions")

	return n, nil
}

func (s *Session) get(ctx context.Context, op string, u *url.URL) ([]byte, error) {
	resp := rq.New().
		Client(s.httpClient).
		URL(u.String()).
		DoContext(ctx)

	return bnetapi.ReadBody(op, resp)
}

var segmentSep = []byte("\r\n")

func countSegments(body []byte) int {
	return bytes.Count(body, segmentSep) + 1
}
