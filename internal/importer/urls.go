package importer

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var absoluteURL = regexp.MustCompile(`(?i)^https?:`)

// legacyHosts served card assets on the old site; only their paths are kept.
var legacyHosts = map[string]bool{
	"127.0.0.1":                            true,
	"localhost":                            true,
	"card-conjurer.storage.googleapis.com": true,
}

// LocalizeURLs walks decoded JSON and rewrites URLs from the old site to
// local ones. Gatherer set symbol URLs with a set and rarity become the
// bundled set symbol image. Other values are returned unchanged. The input
// is not modified.
func LocalizeURLs(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = LocalizeURLs(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = LocalizeURLs(val)
		}
		return out
	case string:
		return localizeURL(t)
	}
	return v
}

func localizeURL(s string) string {
	if !absoluteURL.MatchString(s) {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "gatherer.wizards.com":
		q := u.Query()
		set, rarity := q.Get("set"), q.Get("rarity")
		if set == "" || rarity == "" {
			return s
		}
		return fmt.Sprintf("/img/setSymbols/official/%s-%s.svg", strings.ToLower(set), strings.ToLower(rarity))
	case legacyHosts[host]:
		return u.EscapedPath()
	}
	return s
}
