package scan

import "strings"

var baseSuggestions = []string{
	"Do not share OTP, PIN, or passwords with anyone",
	"Verify the sender through official channels",
	"Report suspicious messages to cyber crime helpline",
}

// categorySuggestion pairs a scam-category keyword with its dedicated
// advice. Matching is ordered; the first category found in the label
// wins.
type categorySuggestion struct {
	key     string
	entries []string
}

var categorySuggestions = []categorySuggestion{
	{"digital arrest", []string{
		"Police/CBI never demand money over phone",
		"Do not make any video calls with strangers claiming authority",
	}},
	{"upi", []string{
		"Never scan QR codes to receive money",
		"Do not enter UPI PIN for receiving payments",
	}},
	{"refund", []string{
		"Genuine refunds don't require you to pay first",
		"Contact the company directly through their official website",
	}},
	{"job", []string{
		"Legitimate jobs don't require upfront fees",
		"Research the company before sharing personal details",
	}},
	{"romance", []string{
		"Never send money to someone you've only met online",
		"Be wary of profiles that seem too good to be true",
	}},
	{"lottery", []string{
		"You cannot win a lottery you didn't enter",
		"Legitimate prizes don't require advance payments",
	}},
}

// SafetySuggestions returns advice tailored to the detected scam
// category, falling back to generic hygiene tips.
func SafetySuggestions(label string) []string {
	lower := strings.ToLower(label)
	for _, cs := range categorySuggestions {
		if strings.Contains(lower, cs.key) {
			out := make([]string, 0, len(cs.entries)+2)
			out = append(out, cs.entries...)
			out = append(out, baseSuggestions[:2]...)
			return out
		}
	}
	out := make([]string, len(baseSuggestions))
	copy(out, baseSuggestions)
	return out
}
