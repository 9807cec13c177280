package bnetapi

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Region selects the API and auth hosts serving a game-data request.
type Region int32

const (
	RegionUnknown Region = iota
	RegionEU
	RegionUS
	RegionAPAC
	RegionCN
)

var regionSubdomains = map[Region]string{
	RegionEU:   "eu",
	RegionUS:   "us",
	RegionAPAC: "apac",
	RegionCN:   "cn",
}

// Regions returns every known region.
func Regions() []Region {
	return []Region{RegionEU, RegionUS, RegionAPAC, RegionCN}
}

// ParseRegion maps a region subdomain ("eu", "US", ...) to its Region.
func ParseRegion(s string) (Region, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, sub := range regionSubdomains {
		if sub == s {
			return r, nil
		}
	}
	return RegionUnknown, errors.Newf("unknown region %q", s)
}

func (r Region) Valid() bool {
	_, ok := regionSubdomains[r]
	return ok
}

// Subdomain returns the API subdomain, or "" for an unknown region.
func (r Region) Subdomain() string {
	return regionSubdomains[r]
}

func (r Region) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Region(%d)", int32(r))
	}
	return r.Subdomain()
}

// APIHost returns the game-data host, e.g. "eu.api.blizzard.com".
func (r Region) APIHost() string {
	return r.Subdomain() + ".api.blizzard.com"
}

// Namespace returns the namespace query value for kind, e.g. "dynamic-eu".
func (r Region) Namespace(kind NamespaceKind) string {
	return string(kind) + "-" + r.Subdomain()
}

// AuthRegion returns the OAuth realm that issues tokens for r.
func (r Region) AuthRegion() AuthRegion {
	if r == RegionCN {
		return AuthRegionCN
	}
	return AuthRegionGlobal
}

// NamespaceKind is the data namespace family of a game-data document.
type NamespaceKind string

const (
	NamespaceStatic  NamespaceKind = "static"
	NamespaceDynamic NamespaceKind = "dynamic"
	NamespaceProfile NamespaceKind = "profile"
)

// AuthRegion is the OAuth token issuer. EU, US and APAC share one.
type AuthRegion int32

const (
	AuthRegionGlobal AuthRegion = iota
	AuthRegionCN
)

func (a AuthRegion) TokenURL() string {
	if a == AuthRegionCN {
		return "https://oauth.battlenet.com.cn/token"
	}
	return "https://oauth.battle.net/token"
}
