// Package sanitize canonicalizes URLs and filenames.
//
// CleanURL output is the cache key for the article cache, so it must be
// deterministic: the same input (modulo tracking params, fragment, and
// trailing slash) always yields the same string.
package sanitize

import (
	"net/url"
	"strings"
)

var defaultRemoveParams = []string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_content",
	"utm_term",
	"fbclid",
	"gclid",
	"ref",
	"source",
}

// DefaultRemoveParams returns the query parameters stripped from URLs
// when no configuration is supplied. The slice is a fresh copy; callers
// may append to it freely.
func DefaultRemoveParams() []string {
	return append([]string(nil), defaultRemoveParams...)
}

// CleanURL removes tracking query parameters and the fragment from rawURL,
// and strips the trailing slash unless the path is exactly "/". Parameter
// matching is case-insensitive; remaining parameters keep their original
// order and multiplicity. A nil removeParams uses DefaultRemoveParams.
// Unparseable input is returned unchanged.
func CleanURL(rawURL string, removeParams []string) string {
	if removeParams == nil {
		removeParams = defaultRemoveParams
	}
	remove := make(map[string]bool, len(removeParams))
	for _, p := range removeParams {
		remove[strings.ToLower(p)] = true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.RawQuery = filterQuery(u.RawQuery, remove)
	u.Fragment = ""
	u.RawFragment = ""

	cleaned := u.String()
	if strings.HasSuffix(cleaned, "/") && u.Path != "/" {
		cleaned = strings.TrimRight(cleaned, "/")
	}
	return cleaned
}

// Domain returns the host portion of rawURL, or "" if it cannot be parsed.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// filterQuery re-encodes a raw query string, dropping parameters whose
// lowercase name is in remove. Pair order is preserved; blank values are
// kept. url.Values is avoided because its map ordering is not stable.
func filterQuery(rawQuery string, remove map[string]bool) string {
	if rawQuery == "" {
		return ""
	}
	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		value := ""
		if i := strings.Index(pair, "="); i >= 0 {
			key = pair[:i]
			value = pair[i+1:]
		}
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			decodedKey = key
		}
		if remove[strings.ToLower(decodedKey)] {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			decodedValue = value
		}
		kept = append(kept, url.QueryEscape(decodedKey)+"="+url.QueryEscape(decodedValue))
	}
	return strings.Join(kept, "&")
}
