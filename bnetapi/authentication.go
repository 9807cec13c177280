package bnetapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/k64z/rq"
	"golang.org/x/oauth2"
)

const grantTypeClientCredentials = "client_credentials"

// tokenResponse is the token endpoint's JSON body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Authenticate exchanges client credentials for a bearer token at the
// token endpoint of authRegion.
func Authenticate(ctx context.Context, clientID, clientSecret string, authRegion AuthRegion) (*oauth2.Token, error) {
	return AuthenticateWithURL(ctx, clientID, clientSecret, authRegion.TokenURL())
}

// AuthenticateWithURL performs the client-credentials grant against tokenURL
// using http.DefaultClient.
func AuthenticateWithURL(ctx context.Context, clientID, clientSecret, tokenURL string) (*oauth2.Token, error) {
	return AuthenticateWithClient(ctx, http.DefaultClient, clientID, clientSecret, tokenURL)
}

// AuthenticateWithClient performs the client-credentials grant against
// tokenURL over httpClient. The token is issued once and never refreshed.
func AuthenticateWithClient(ctx context.Context, httpClient *http.Client, clientID, clientSecret, tokenURL string) (*oauth2.Token, error) {
	if httpClient == nil {
		return nil, errors.New("httpClient should be non-nil")
	}

	u, err := url.Parse(tokenURL)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parse token URL"), ErrInvalidURL)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return nil, errors.Mark(errors.Newf("incomplete token URL %q", tokenURL), ErrInvalidURL)
	}

	resp := rq.New().
		Client(httpClient).
		URL(u.String()).
		Method(http.MethodPost).
		BasicAuth(clientID, clientSecret).
		BodyForm(url.Values{
			"grant_type": {grantTypeClientCredentials},
		}).
		DoContext(ctx)

	if err := CheckResponse("token", resp); err != nil {
		return nil, err
	}

	var result tokenResponse
	if err := resp.JSON(&result); err != nil {
		return nil, errors.Wrap(err, "decode token response")
	}

	return newToken(result, time.Now())
}

func newToken(result tokenResponse, now time.Time) (*oauth2.Token, error) {
	if result.AccessToken == "" {
		return nil, errors.New("token response has no access_token")
	}

	tok := &oauth2.Token{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
	}
	if result.ExpiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(result.ExpiresIn) * time.Second)
	}

	return tok, nil
}

// CheckResponse maps a transport failure or a non-2xx status of a finished
// rq request to an HTTPError.
func CheckResponse(op string, resp *rq.Response) error {
	if resp.Error() != nil {
		return NewHTTPError(op, 0, resp.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewHTTPError(op, resp.StatusCode, nil)
	}

	return nil
}

// ReadBody checks resp and returns its body.
func ReadBody(op string, resp *rq.Response) ([]byte, error) {
	if err := CheckResponse(op, resp); err != nil {
		return nil, err
	}

	body, err := resp.Bytes()
	if err != nil {
		return nil, NewHTTPError(op, resp.StatusCode, errors.Wrap(err, "read body"))
	}

	return body, nil
}
