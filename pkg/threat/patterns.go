package threat

import (
	"regexp"
	"strings"
)

// Key identifies a named attack pattern. Keys double as translation
// lookup keys in the i18n tables.
type Key string

const (
	KeyDoubleTLD          Key = "double_tld"
	KeyBrandImpersonation Key = "brand_impersonation"
	KeySubdomainBrand     Key = "subdomain_brand"
	KeyExcessiveHyphens   Key = "excessive_hyphens"
	KeyExcessiveDots      Key = "excessive_dots"
	KeyIPAddress          Key = "ip_address"
	KeySuspiciousTLD      Key = "suspicious_tld"
	KeyURLTooLong         Key = "url_too_long"
	KeyEncodedChars       Key = "encoded_chars"
	KeyPunycode           Key = "punycode"
	KeyPortNumber         Key = "port_number"
	KeyNoHTTPS            Key = "no_https"
)

// Pattern is a detected attack pattern, optionally carrying the brand
// that triggered it.
type Pattern struct {
	Key   Key
	Brand string
}

// KnownBrands is the fixed brand priority list. The scan stops at the
// first matching brand, so this ordering is frozen under test.
var KnownBrands = []string{
	"google", "facebook", "amazon", "apple", "microsoft", "paypal", "netflix",
	"instagram", "twitter", "linkedin", "whatsapp", "youtube", "gmail", "yahoo",
	"outlook", "dropbox", "adobe", "spotify", "uber", "airbnb", "ebay",
	"walmart", "target", "costco", "chase", "wellsfargo", "bankofamerica",
	"citibank", "amex", "visa", "mastercard", "paytm", "phonepe", "gpay",
	"sbi", "hdfc", "icici", "axis", "flipkart", "myntra", "swiggy", "zomato",
}

// SuspiciousTLDs are TLDs commonly associated with spam or abuse.
var SuspiciousTLDs = []string{
	".xyz", ".top", ".work", ".click", ".link", ".tk", ".ml", ".ga", ".cf",
	".gq", ".pw", ".cc", ".ws", ".info", ".biz", ".online", ".site", ".club",
}

// tldMarkers are extension labels counted for double-TLD detection.
var tldMarkers = []string{"com", "net", "org", "edu", "gov", "co"}

var reHexEscape = regexp.MustCompile(`%[0-9a-fA-F]{2}`)

// Detect runs the ordered attack pattern rules against a URL and its
// breakdown. Tags accumulate across rules; only the brand scan
// short-circuits after its first match.
func Detect(rawURL string, b Breakdown) []Pattern {
	var patterns []Pattern

	hostname := strings.ToLower(b.FullHost)
	labels := strings.Split(hostname, ".")

	// 1. Double TLD deception: two or more distinct extension markers
	// appearing as host labels (e.g. paypal.com.co.xyz).
	markerCount := 0
	for _, marker := range tldMarkers {
		for _, label := range labels {
			if label == marker {
				markerCount++
				break
			}
		}
	}
	if markerCount >= 2 {
		patterns = append(patterns, Pattern{Key: KeyDoubleTLD})
	}

	// 2. Brand scan, first match wins. A brand heading a multi-label
	// subdomain (google.com.evil.xyz) is the fake-domain-prefix trick;
	// a brand anywhere else in the host while absent from the registered
	// domain is generic impersonation.
	for _, brand := range KnownBrands {
		if strings.Contains(b.Subdomain, brand) && strings.Contains(b.Subdomain, ".") &&
			!strings.Contains(b.Domain, brand) {
			patterns = append(patterns, Pattern{Key: KeySubdomainBrand, Brand: brand})
			break
		}
		if strings.Contains(hostname, brand) && !strings.Contains(b.RegisteredDomain, brand) {
			patterns = append(patterns, Pattern{Key: KeyBrandImpersonation, Brand: brand})
			break
		}
	}

	// 3. Excessive hyphens
	if strings.Count(hostname, "-") >= 3 {
		patterns = append(patterns, Pattern{Key: KeyExcessiveHyphens})
	}

	// 4. Excessive dots
	if strings.Count(hostname, ".") >= 4 {
		patterns = append(patterns, Pattern{Key: KeyExcessiveDots})
	}

	// 5. IP address host
	if b.IsIP {
		patterns = append(patterns, Pattern{Key: KeyIPAddress})
	}

	// 6. Suspicious TLD
	for _, tld := range SuspiciousTLDs {
		if "."+b.TLD == tld {
			patterns = append(patterns, Pattern{Key: KeySuspiciousTLD})
			break
		}
	}

	// 7. URL too long
	if len(rawURL) > 100 {
		patterns = append(patterns, Pattern{Key: KeyURLTooLong})
	}

	// 8. Encoded characters
	if reHexEscape.MatchString(rawURL) {
		patterns = append(patterns, Pattern{Key: KeyEncodedChars})
	}

	// 9. Punycode / homograph
	if strings.Contains(hostname, "xn--") {
		patterns = append(patterns, Pattern{Key: KeyPunycode})
	}

	// 10. Non-standard port
	if b.Port != "" && b.Port != "80" && b.Port != "443" {
		patterns = append(patterns, Pattern{Key: KeyPortNumber})
	}

	// 11. No HTTPS
	if !strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		patterns = append(patterns, Pattern{Key: KeyNoHTTPS})
	}

	return patterns
}

// DetectedBrand returns the first brand captured by any pattern, or "".
func DetectedBrand(patterns []Pattern) string {
	for _, p := range patterns {
		if p.Brand != "" {
			return p.Brand
		}
	}
	return ""
}
