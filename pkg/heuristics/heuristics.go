// Package heuristics provides rule-based scoring for URLs and free text.
// Scores are in [0,1] and complement the external ML classifier signal.
// All pattern tables are compiled once at package init and shared across
// requests; every function here is pure and safe for concurrent use.
package heuristics

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Finding is an atomic heuristic signal with its score contribution
// before the per-analyzer cap is applied.
type Finding struct {
	Flag   string
	Weight float64
}

// Pre-compiled patterns (compiled once, used many times)
var (
	reIPv4Host = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	rePhone    = regexp.MustCompile(`[+]?[\d\s\-]{10,}`)
	reCurrency = regexp.MustCompile(`(?i)[₹$€£]\s*[\d,]+|[\d,]+\s*(rs|inr|usd|dollars?)`)
	reLink     = regexp.MustCompile(`(?i)https?://|www\.`)
)

// suspiciousTLDs are free or cheap TLDs disproportionately abused for
// phishing. Checked as host suffixes.
var suspiciousTLDs = []string{
	".tk", ".ml", ".ga", ".cf", ".gq", // free TLDs often abused
	".xyz", ".top", ".work", ".click", ".link",
}

// authPathKeywords flag credential-harvesting paths.
var authPathKeywords = []string{"login", "verify", "secure", "account", "update"}

// capScore clamps a summed score to the [0,1] analyzer contract.
func capScore(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}

// AnalyzeURL scores the structure of a URL for phishing signals.
// Each check contributes independently; the total is capped at 1.0.
// Parse failures are downgraded to a finding, never returned as errors.
func AnalyzeURL(rawURL string) (float64, []Finding) {
	var findings []Finding
	score := 0.0

	lower := strings.ToLower(rawURL)

	if !strings.HasPrefix(lower, "https://") {
		findings = append(findings, Finding{"Missing HTTPS - connection not secure", 0.15})
		score += 0.15
	}

	if len(rawURL) > 100 {
		findings = append(findings, Finding{"Unusually long URL", 0.10})
		score += 0.10
	}

	// Excessive percent-encoding suggests obfuscation. Raw '%' count,
	// matching the tuned thresholds, not decoded sequences.
	if strings.Count(rawURL, "%") > 3 {
		findings = append(findings, Finding{"Excessive URL encoding - possible obfuscation", 0.10})
		score += 0.10
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		findings = append(findings, Finding{fmt.Sprintf("URL parsing error: %v", err), 0.30})
		score += 0.30
		return capScore(score), findings
	}

	host := strings.ToLower(parsed.Hostname())

	if reIPv4Host.MatchString(host) {
		findings = append(findings, Finding{"Uses IP address instead of domain name", 0.25})
		score += 0.25
	}

	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			findings = append(findings, Finding{"Uses suspicious top-level domain", 0.20})
			score += 0.20
			break
		}
	}

	if host != "" && len(strings.Split(host, ".")) > 4 {
		findings = append(findings, Finding{"Excessive subdomains - possible domain spoofing", 0.15})
		score += 0.15
	}

	path := strings.ToLower(parsed.Path)
	for _, kw := range authPathKeywords {
		if strings.Contains(path, kw) {
			findings = append(findings, Finding{"Contains authentication-related keywords in path", 0.10})
			score += 0.10
			break
		}
	}

	return capScore(score), findings
}

// AnalyzeText scores free text for lexical and formatting scam signals.
// Keyword matching is case-insensitive substring matching, so overlapping
// keywords may count more than once ("verify now" also matches "verify").
// That over-counting is intentional: downstream thresholds were tuned
// against it.
func AnalyzeText(text string) (float64, []Finding) {
	var findings []Finding
	score := 0.0

	count, found := CountSuspiciousKeywords(text)
	if count > 0 {
		preview := found
		if len(preview) > 5 {
			preview = preview[:5]
		}
		findings = append(findings, Finding{
			Flag:   "Contains suspicious keywords: " + strings.Join(preview, ", "),
			Weight: keywordWeight(count),
		})
		score += keywordWeight(count)
	}

	if countCapsWords(text) > 3 {
		findings = append(findings, Finding{"Excessive use of ALL CAPS - creates false urgency", 0.15})
		score += 0.15
	}

	if strings.Count(text, "!") > 3 || strings.Count(text, "?") > 5 {
		findings = append(findings, Finding{"Excessive punctuation - creates false urgency", 0.10})
		score += 0.10
	}

	if rePhone.MatchString(text) {
		findings = append(findings, Finding{"Contains phone number - verify before calling", 0.05})
		score += 0.05
	}

	if reCurrency.MatchString(text) {
		findings = append(findings, Finding{"Mentions monetary amounts", 0.10})
		score += 0.10
	}

	if reLink.MatchString(text) {
		findings = append(findings, Finding{"Contains links - verify before clicking", 0.10})
		score += 0.10
	}

	return capScore(score), findings
}

// keywordWeight maps a keyword match count to its score contribution,
// capped so keyword volume alone cannot saturate the analyzer.
func keywordWeight(count int) float64 {
	w := 0.1 * float64(count)
	if w > 0.5 {
		return 0.5
	}
	return w
}

// countCapsWords counts whole words longer than 2 characters written
// entirely in upper case (attached punctuation is ignored, so "URGENT:"
// counts).
func countCapsWords(text string) int {
	count := 0
	for _, word := range strings.Fields(text) {
		if len([]rune(word)) <= 2 {
			continue
		}
		hasUpper := false
		hasLower := false
		for _, r := range word {
			if unicode.IsUpper(r) {
				hasUpper = true
			}
			if unicode.IsLower(r) {
				hasLower = true
			}
		}
		if hasUpper && !hasLower {
			count++
		}
	}
	return count
}
