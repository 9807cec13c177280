package bnetapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ConnectedRealmID identifies a group of connected WoW realms.
type ConnectedRealmID uint32

// ParseConnectedRealmID parses a decimal realm id such as "1305".
func ParseConnectedRealmID(s string) (ConnectedRealmID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "parse connected realm id %q", s)
	}
	return ConnectedRealmID(id), nil
}

func (id ConnectedRealmID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Game is the top-level segment of a game-data route.
type Game string

const GameWoW Game = "wow"

// Route is a game-data document path below "/data/".
type Route struct {
	Game Game
	Path string
}

// AuctionsRoute is the auction house snapshot of a connected realm.
func AuctionsRoute(id ConnectedRealmID) Route {
	return Route{
		Game: GameWoW,
		Path: fmt.Sprintf("connected-realm/%d/auctions", id),
	}
}

func (r Route) String() string {
	return string(r.Game) + "/" + r.Path
}

// Endpoint is where game-data requests are sent.
type Endpoint struct {
	Scheme string
	Host   string
	Port   uint16
}

// DefaultEndpoint is the public HTTPS endpoint of a region.
func DefaultEndpoint(region Region) Endpoint {
	return Endpoint{
		Scheme: "https",
		Host:   region.APIHost(),
		Port:   443,
	}
}

// DataURL builds
//
//	{scheme}://{host}:{port}/data/{route}?namespace=dynamic-{region}&locale={locale}
//
// Any failure is reported as ErrInvalidURL.
func DataURL(ep Endpoint, region Region, route Route, locale Locale) (*url.URL, error) {
	if !region.Valid() {
		return nil, errors.Mark(errors.Newf("unknown region %s", region), ErrInvalidURL)
	}
	if !locale.Valid() {
		return nil, errors.Mark(errors.Newf("unknown locale %s", locale), ErrInvalidURL)
	}

	raw := fmt.Sprintf("%s://%s:%d/data/%s?namespace=%s&locale=%s",
		ep.Scheme, ep.Host, ep.Port, route, region.Namespace(NamespaceDynamic), locale.Tag())

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parse data URL"), ErrInvalidURL)
	}
	if u.Hostname() == "" {
		return nil, errors.Mark(errors.Newf("missing host in %q", raw), ErrInvalidURL)
	}

	return u, nil
}
