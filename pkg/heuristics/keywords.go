package heuristics

import "strings"

// SuspiciousKeywords is the fixed lexicon of scam phrases, grouped by
// category. Matching is substring-based against lowercased input; each
// entry counts at most once per text.
var SuspiciousKeywords = []string{
	// Urgency
	"urgent", "immediately", "act now", "limited time", "expire",
	// Money/Prize
	"lottery", "winner", "prize", "jackpot", "million", "lakh", "crore",
	"free money", "cash prize", "reward",
	// Account/Security
	"verify your account", "suspended", "blocked", "unauthorized",
	"security alert", "confirm your identity", "update your details",
	// Payment
	"bank details", "credit card", "cvv", "pin", "otp", "upi",
	"transfer", "payment failed", "refund",
	// Job scams
	"work from home", "easy money", "part time job", "data entry",
	"typing job", "investment opportunity",
	// Digital arrest / Impersonation
	"police", "cbi", "cyber cell", "arrest warrant", "legal action",
	"court case", "aadhaar", "pan card",
	// Romance scams
	"dear friend", "lonely", "send me money", "western union",
	// Generic phishing
	"click here", "login now", "verify now", "confirm now",
}

// CountSuspiciousKeywords returns how many lexicon entries occur in the
// text, along with the matched entries in lexicon order.
func CountSuspiciousKeywords(text string) (int, []string) {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range SuspiciousKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return len(found), found
}
