package bnetapi

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Locale is the language tag the API uses for localized text fields.
type Locale int32

const (
	LocaleUnknown Locale = iota
	LocaleEnUS
	LocaleEsMX
	LocalePtBR
	LocaleDeDE
	LocaleEnGB
	LocaleEsES
	LocaleFrFR
	LocaleItIT
	LocaleRuRU
	LocaleKoKR
	LocaleZhTW
	LocaleZhCN
)

var localeTags = map[Locale]string{
	LocaleEnUS: "en_US",
	LocaleEsMX: "es_MX",
	LocalePtBR: "pt_BR",
	LocaleDeDE: "de_DE",
	LocaleEnGB: "en_GB",
	LocaleEsES: "es_ES",
	LocaleFrFR: "fr_FR",
	LocaleItIT: "it_IT",
	LocaleRuRU: "ru_RU",
	LocaleKoKR: "ko_KR",
	LocaleZhTW: "zh_TW",
	LocaleZhCN: "zh_CN",
}

// Locales returns the twelve supported locales in declaration order.
func Locales() []Locale {
	out := make([]Locale, 0, len(localeTags))
	for l := LocaleEnUS; l <= LocaleZhCN; l++ {
		out = append(out, l)
	}
	return out
}

// ParseLocale accepts "en_US" as well as "en-us".
func ParseLocale(s string) (Locale, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), "-", "_")
	for l, tag := range localeTags {
		if strings.EqualFold(tag, norm) {
			return l, nil
		}
	}
	return LocaleUnknown, errors.Newf("unknown locale %q", s)
}

func (l Locale) Valid() bool {
	_, ok := localeTags[l]
	return ok
}

// Tag returns the query parameter value, or "" for an unknown locale.
func (l Locale) Tag() string {
	return localeTags[l]
}

func (l Locale) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Locale(%d)", int32(l))
	}
	return l.Tag()
}
