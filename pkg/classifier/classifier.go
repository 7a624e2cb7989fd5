// Package classifier provides the ML scoring side of a scan: a binary
// malicious-URL probability and zero-shot scam-category classification
// for text. The heuristic analyzers never depend on this package; when
// classification is unavailable a scan degrades to heuristic-only.
package classifier

import (
	"context"
	"errors"
)

// ScamLabels are the candidate categories for zero-shot text
// classification. The final "safe" label lets the model vote for
// legitimacy; its score is inverted into a scam probability.
var ScamLabels = []string{
	"digital arrest scam",
	"UPI payment scam",
	"refund scam",
	"job offer scam",
	"romance scam",
	"lottery or prize scam",
	"tech support scam",
	"safe legitimate message",
}

// ErrModelLoading indicates the remote model is cold-starting and the
// call should be treated as a miss, not a failure.
var ErrModelLoading = errors.New("classifier: model is loading")

// TextResult is the outcome of zero-shot text classification.
type TextResult struct {
	// Label is the best-matching scam category, or "Unknown" when the
	// model had nothing useful to say.
	Label string
	// Probability is the scam likelihood in [0,1]. When the top label
	// was the safe category this is the inverted safe score.
	Probability float64
}

// Classifier scores content for scam likelihood.
type Classifier interface {
	// ClassifyURL returns the probability that a URL is malicious.
	ClassifyURL(ctx context.Context, url string) (float64, error)
	// ClassifyText returns the best scam category and its probability.
	ClassifyText(ctx context.Context, text string) (TextResult, error)
}

// Transcriber converts recorded audio to text for the audio scan path.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Disabled is the no-op classifier used when no inference backend is
// configured. Scans fall back to pure heuristic scoring.
type Disabled struct{}

func (Disabled) ClassifyURL(ctx context.Context, url string) (float64, error) {
	return 0, nil
}

func (Disabled) ClassifyText(ctx context.Context, text string) (TextResult, error) {
	return TextResult{Label: "Unknown"}, nil
}
