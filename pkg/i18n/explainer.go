package i18n

import (
	"strings"
	"unicode"

	"github.com/safelinkshield/shield/pkg/risk"
	"github.com/safelinkshield/shield/pkg/threat"
)

// Explanation is the human-facing payload for a set of detected attack
// patterns at a given risk score.
type Explanation struct {
	Reasons      []string
	Explanation  string
	SafetyTip    string
	PatternNames []string
}

// reasonKeys maps pattern keys to their reason translation keys.
var reasonKeys = map[threat.Key]string{
	threat.KeyDoubleTLD:          "reason_double_tld",
	threat.KeySubdomainBrand:     "reason_subdomain_brand",
	threat.KeyBrandImpersonation: "reason_brand_subdomain",
	threat.KeyExcessiveHyphens:   "reason_excessive_hyphens",
	threat.KeyExcessiveDots:      "reason_excessive_dots",
	threat.KeyIPAddress:          "reason_ip_address",
	threat.KeySuspiciousTLD:      "reason_suspicious_tld",
	threat.KeyURLTooLong:         "reason_url_long",
	threat.KeyEncodedChars:       "reason_encoded_chars",
	threat.KeyPunycode:           "reason_punycode",
	threat.KeyPortNumber:         "reason_port_number",
	threat.KeyNoHTTPS:            "reason_no_https",
}

// tipKeys maps pattern keys to safety tip translation keys. Only the
// highest-signal patterns carry a dedicated tip; the first pattern in
// detection order that has one wins.
var tipKeys = map[threat.Key]string{
	threat.KeyDoubleTLD:          "tip_double_tld",
	threat.KeySubdomainBrand:     "tip_brand_subdomain",
	threat.KeyBrandImpersonation: "tip_brand_subdomain",
	threat.KeyIPAddress:          "tip_ip_address",
	threat.KeyNoHTTPS:            "tip_no_https",
}

// Explain builds the localized human-facing payload: per-pattern reasons
// in detection order (duplicates suppressed), a tier-selected summary
// explanation with the detected brand substituted, a safety tip, and
// localized pattern names.
func Explain(patterns []threat.Pattern, riskScore int, locale Locale) Explanation {
	return Explanation{
		Reasons:      Reasons(patterns, locale),
		Explanation:  Summary(patterns, riskScore, locale),
		SafetyTip:    SafetyTip(patterns, locale),
		PatternNames: PatternNames(patterns, locale),
	}
}

// Reasons returns translated reason strings in pattern detection order.
// Duplicate reason texts (e.g. subdomain_brand and brand_impersonation
// in the same scan) are suppressed.
func Reasons(patterns []threat.Pattern, locale Locale) []string {
	var reasons []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		key, ok := reasonKeys[p.Key]
		if !ok {
			continue
		}
		text := T(locale, key)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		reasons = append(reasons, text)
	}
	return reasons
}

// Summary picks the explanation template purely from the risk tier and
// substitutes the detected brand into the malicious template.
func Summary(patterns []threat.Pattern, riskScore int, locale Locale) string {
	switch risk.TierFor(riskScore) {
	case risk.TierMalicious:
		brand := threat.DetectedBrand(patterns)
		if brand == "" {
			brand = "a legitimate website"
		} else {
			brand = capitalize(brand)
		}
		return strings.ReplaceAll(T(locale, "explanation_malicious"), "{brand}", brand)
	case risk.TierSuspicious:
		return T(locale, "explanation_suspicious")
	default:
		return T(locale, "explanation_safe")
	}
}

// SafetyTip returns the tip for the first detected pattern that has one.
// No patterns at all yields the generic verification tip; patterns with
// no dedicated tip yield the general tip.
func SafetyTip(patterns []threat.Pattern, locale Locale) string {
	if len(patterns) == 0 {
		return T(locale, "tip_verify")
	}
	for _, p := range patterns {
		if key, ok := tipKeys[p.Key]; ok {
			return T(locale, key)
		}
	}
	return T(locale, "tip_general")
}

// PatternNames returns localized display names in detection order,
// duplicates suppressed.
func PatternNames(patterns []threat.Pattern, locale Locale) []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		name := T(locale, string(p.Key))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
