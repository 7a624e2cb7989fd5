// Package threat decomposes URLs and detects named phishing attack
// patterns in their structure. Detection is deterministic and
// order-sensitive: the brand scan stops at the first matching brand in
// the fixed KnownBrands order, so output is reproducible. The brand list
// ordering is part of the frozen contract, not an implementation detail.
package threat

import (
	"net/url"
	"regexp"
	"strings"
)

// Breakdown is the structural decomposition of a URL host. Derived once
// per URL input; purely structural, no persisted identity.
type Breakdown struct {
	FullHost         string
	Subdomain        string
	Domain           string
	TLD              string
	IsIP             bool
	RegisteredDomain string
	Path             string
	Port             string
}

var reIPv4Literal = regexp.MustCompile(`^(?:\d{1,3}\.){3}\d{1,3}$`)

// multiPartTLDs are common two-label public suffixes. Not exhaustive;
// enough for the markets this service targets.
var multiPartTLDs = map[string]bool{
	"co.uk":  true,
	"co.in":  true,
	"com.au": true,
	"org.uk": true,
	"co.nz":  true,
	"com.br": true,
}

// ParseBreakdown splits a URL into subdomain, domain and TLD. It never
// fails: unparseable input degrades to a best-effort breakdown with the
// raw string as the domain.
func ParseBreakdown(rawURL string) Breakdown {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Breakdown{
			FullHost:         rawURL,
			Domain:           rawURL,
			RegisteredDomain: rawURL,
			Path:             "/",
		}
	}

	hostname := strings.ToLower(parsed.Hostname())
	path := parsed.Path
	if path == "" {
		path = "/"
	}
	port := parsed.Port()

	if reIPv4Literal.MatchString(hostname) {
		return Breakdown{
			FullHost:         hostname,
			Domain:           hostname,
			IsIP:             true,
			RegisteredDomain: hostname,
			Path:             path,
			Port:             port,
		}
	}

	parts := strings.Split(hostname, ".")
	if hostname == "" || len(parts) < 2 {
		return Breakdown{
			FullHost:         hostname,
			Domain:           hostname,
			RegisteredDomain: hostname,
			Path:             path,
			Port:             port,
		}
	}

	var tld, domain, subdomain string
	if len(parts) >= 3 && multiPartTLDs[strings.Join(parts[len(parts)-2:], ".")] {
		tld = strings.Join(parts[len(parts)-2:], ".")
		domain = parts[len(parts)-3]
		subdomain = strings.Join(parts[:len(parts)-3], ".")
	} else {
		tld = parts[len(parts)-1]
		domain = parts[len(parts)-2]
		subdomain = strings.Join(parts[:len(parts)-2], ".")
	}

	return Breakdown{
		FullHost:         hostname,
		Subdomain:        subdomain,
		Domain:           domain,
		TLD:              tld,
		RegisteredDomain: domain + "." + tld,
		Path:             path,
		Port:             port,
	}
}
