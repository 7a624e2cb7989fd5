// Package redact scrubs personally identifiable information from text
// before it is persisted or logged. Patterns are applied in a fixed
// order; overlapping matches are possible (a phone number inside a
// longer digit run may also match the account pattern) and are counted
// per pattern rather than deduplicated - downstream counts were tuned
// against that behavior.
package redact

import (
	"net/url"
	"regexp"
)

// Pre-compiled PII patterns (compiled once, used many times)
var (
	rePhone   = regexp.MustCompile(`\+?[\d\s\-()]{10,15}`)
	reEmail   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	reCard    = regexp.MustCompile(`\b(?:\d{4}[\s\-]?){3}\d{4}\b`)
	reCVV     = regexp.MustCompile(`(?i)(?:cvv|cvc)[:\s]*\d{3,4}\b`)
	reAadhaar = regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\b`)
	rePAN     = regexp.MustCompile(`\b[A-Z]{5}\d{4}[A-Z]\b`)
	reOTP     = regexp.MustCompile(`(?i)(?:otp|code|pin|verify)[:\s]*\d{4,8}\b`)
	reUPI     = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z]+`)
	reAccount = regexp.MustCompile(`(?i)\b(?:a/?c|account)[:\s#]*\d{9,18}\b`)
	reIFSC    = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)
)

// redactor pairs a PII pattern with its placeholder token.
type redactor struct {
	pattern     *regexp.Regexp
	replacement string
}

// redactors is the ordered redaction table. Order matters: card and
// Aadhaar patterns overlap on 12+ digit runs, and email must run before
// the broader UPI handle pattern.
var redactors = []redactor{
	{rePhone, "[PHONE_REDACTED]"},
	{reEmail, "[EMAIL_REDACTED]"},
	{reCard, "[CARD_REDACTED]"},
	{reCVV, "CVV: [REDACTED]"},
	{reAadhaar, "[AADHAAR_REDACTED]"},
	{rePAN, "[PAN_REDACTED]"},
	{reOTP, "OTP: [REDACTED]"},
	{reUPI, "[UPI_REDACTED]"},
	{reAccount, "Account: [REDACTED]"},
	{reIFSC, "[IFSC_REDACTED]"},
}

// Redact replaces PII substrings with placeholder tokens and returns the
// scrubbed text plus the total match count across all patterns.
func Redact(text string) (string, int) {
	count := 0
	result := text
	for _, r := range redactors {
		matches := r.pattern.FindAllString(result, -1)
		if len(matches) == 0 {
			continue
		}
		count += len(matches)
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result, count
}

// SanitizeForLogging redacts PII and truncates the result so raw user
// content never reaches the logs.
func SanitizeForLogging(text string, maxLength int) string {
	sanitized, _ := Redact(text)
	if maxLength > 0 && len(sanitized) > maxLength {
		sanitized = sanitized[:maxLength] + "... [TRUNCATED]"
	}
	return sanitized
}

// sensitiveParams are query parameters stripped before a URL is stored
// or displayed.
var sensitiveParams = []string{"password", "pwd", "token", "key", "api_key", "secret", "auth"}

// SanitizeURL removes sensitive query parameters from a URL. Returns the
// input unchanged when it cannot be parsed.
func SanitizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	changed := false
	for _, param := range sensitiveParams {
		if query.Has(param) {
			query.Del(param)
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// ContainsPII reports whether any redaction pattern matches. Used to
// decide whether content needs scrubbing before a cheap fast path.
func ContainsPII(text string) bool {
	for _, r := range redactors {
		if r.pattern.MatchString(text) {
			return true
		}
	}
	return false
}
