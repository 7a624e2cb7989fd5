package redact

import (
	"strings"
	"testing"
)

func TestRedactPhoneNumber(t *testing.T) {
	redacted, count := Redact("URGENT: Your account is suspended! Verify now! Call 9876543210")

	if count < 1 {
		t.Errorf("expected count >= 1, got %d", count)
	}
	if strings.Contains(redacted, "9876543210") {
		t.Errorf("phone number survived redaction: %q", redacted)
	}
	if !strings.Contains(redacted, "[PHONE_REDACTED]") {
		t.Errorf("expected phone placeholder in %q", redacted)
	}
}

func TestRedactRoundTrip(t *testing.T) {
	// Core correctness property: for any recognizable PII class, the
	// redacted output must not contain the original substring.
	testCases := []struct {
		name string
		text string
		pii  string
	}{
		{"phone", "call me at 9876543210 today", "9876543210"},
		{"email", "reply to victim@example.com now", "victim@example.com"},
		{"card", "pay with 4111 1111 1111 1111 please", "4111 1111 1111 1111"},
		{"aadhaar", "my aadhaar is 1234 5678 9012", "1234 5678 9012"},
		{"pan", "PAN ABCDE1234F attached", "ABCDE1234F"},
		{"cvv", "the cvv: 123 on the back", "cvv: 123"},
		{"otp", "your otp: 445566 expires soon", "445566"},
		{"upi", "send to merchant@paytm", "merchant@paytm"},
		{"account", "a/c:123456789 at the branch", "123456789"},
		{"ifsc", "IFSC SBIN0001234 for transfer", "SBIN0001234"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			redacted, count := Redact(tc.text)
			if count < 1 {
				t.Errorf("expected at least one redaction in %q", tc.text)
			}
			if strings.Contains(redacted, tc.pii) {
				t.Errorf("PII %q survived redaction: %q", tc.pii, redacted)
			}
		})
	}
}

func TestRedactCountsAllMatches(t *testing.T) {
	_, count := Redact("phone 9876543210, email a@b.com, pan ABCDE1234F")
	if count < 3 {
		t.Errorf("expected count >= 3 across pattern classes, got %d", count)
	}
}

func TestRedactOverlapNotDeduplicated(t *testing.T) {
	// A spaced digit run is taken by the earlier phone pattern before the
	// Aadhaar pattern sees it. That precedence is fixed; either way the
	// digits must be gone.
	redacted, count := Redact("number 1234 5678 9012 here")
	if count < 1 {
		t.Errorf("expected at least one redaction, got %d", count)
	}
	if strings.Contains(redacted, "5678") {
		t.Errorf("digits survived redaction: %q", redacted)
	}
}

func TestRedactCleanText(t *testing.T) {
	text := "hello, this message has no sensitive data"
	redacted, count := Redact(text)
	if count != 0 {
		t.Errorf("expected zero redactions, got %d", count)
	}
	if redacted != text {
		t.Errorf("clean text must pass through unchanged, got %q", redacted)
	}
}

func TestContainsPII(t *testing.T) {
	if !ContainsPII("call 9876543210") {
		t.Error("expected PII detection for phone number")
	}
	if ContainsPII("nothing sensitive here") {
		t.Error("expected no PII in clean text")
	}
}

func TestSanitizeForLogging(t *testing.T) {
	long := "contact victim@example.com " + strings.Repeat("x", 600)
	got := SanitizeForLogging(long, 500)

	if strings.Contains(got, "victim@example.com") {
		t.Errorf("email survived log sanitization")
	}
	if !strings.HasSuffix(got, "... [TRUNCATED]") {
		t.Errorf("expected truncation marker, got tail %q", got[len(got)-30:])
	}
}

func TestSanitizeURL(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		wantGone string
	}{
		{"token param", "https://example.com/cb?token=abc123&next=/home", "abc123"},
		{"password param", "https://example.com/login?password=hunter2", "hunter2"},
		{"api key", "https://api.example.com/v1?api_key=sk-xyz&q=1", "sk-xyz"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeURL(tc.url)
			if strings.Contains(got, tc.wantGone) {
				t.Errorf("sensitive value %q survived in %q", tc.wantGone, got)
			}
		})
	}

	clean := "https://example.com/page?q=search"
	if got := SanitizeURL(clean); got != clean {
		t.Errorf("clean URL must pass through unchanged, got %q", got)
	}
}
