// Package locale resolves the effective (language, region) for a request
// and renders it back out as a BCP-47-ish tag, matching the precedence and
// tag composition the catalog has always used: an explicit query parameter
// wins over Accept-Language, which wins over the "en" default.
package locale

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a resolved language plus an optional region. Region is "" when
// the request didn't specify one, in which case Tag and lookups fall back
// to language-only matching.
type Locale struct {
	Lang   string
	Region string
}

// Tag renders the locale as "lang-REGION", or just "lang" when Region is
// empty.
func (l Locale) Tag() string {
	if l.Region == "" {
		return l.Lang
	}
	return l.Lang + "-" + l.Region
}

// SplitLang parses a raw "lang" or "lang-REGION" (or "lang_REGION") value,
// lowercasing the language and uppercasing the region. An empty or
// whitespace-only input defaults to English.
func SplitLang(s string) Locale {
	s = strings.TrimSpace(s)
	if s == "" {
		return Locale{Lang: "en"}
	}
	s = strings.ReplaceAll(s, "_", "-")
	if i := strings.Index(s, "-"); i >= 0 {
		lang := strings.ToLower(strings.TrimSpace(s[:i]))
		region := strings.ToUpper(strings.TrimSpace(s[i+1:]))
		if lang == "" {
			lang = "en"
		}
		return Locale{Lang: lang, Region: region}
	}
	return Locale{Lang: strings.ToLower(s)}
}

// AcceptLanguage parses the first, highest-priority tag off an
// Accept-Language header, ignoring any "q=" weighting — the catalog only
// ever resolves to a single locale, so there's nothing to rank.
func AcceptLanguage(header string) Locale {
	if header == "" {
		return Locale{Lang: "en"}
	}
	first := strings.TrimSpace(strings.SplitN(header, ",", 2)[0])
	tag := strings.TrimSpace(strings.SplitN(first, ";", 2)[0])
	return SplitLang(tag)
}

// Pick resolves the effective request locale: an explicit ?lang= query
// parameter takes precedence over Accept-Language, which takes precedence
// over the English default.
func Pick(query url.Values, acceptLanguage string) Locale {
	if v := strings.TrimSpace(query.Get("lang")); v != "" {
		return SplitLang(v)
	}
	return AcceptLanguage(acceptLanguage)
}

// Canonical returns the BCP-47 canonicalization of l's tag. Store lookups
// and cache keys do not use it: they use the raw Lang and Region fields
// (via Tag) so that non-standard codes seen in translation rows still
// match. Falls back to the raw tag when it doesn't parse as a language tag.
func Canonical(l Locale) string {
	tag, err := language.Parse(l.Tag())
	if err != nil {
		return l.Tag()
	}
	return tag.String()
}
