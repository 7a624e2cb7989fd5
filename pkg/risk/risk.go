// Package risk fuses the external classifier probability with the
// heuristic score into a single 0-100 risk score and tier.
package risk

import (
	"fmt"
	"math"
)

// Tier thresholds. Consumers rely on these boundaries for is_safe and
// label selection: score < 30 is safe, score >= 70 is malicious.
const (
	SuspiciousThreshold = 30
	MaliciousThreshold  = 70
)

// Tier is the coarse risk classification of a fused score.
type Tier int

const (
	TierSafe Tier = iota
	TierSuspicious
	TierMalicious
)

// Label returns the human-readable tier label.
func (t Tier) Label() string {
	switch t {
	case TierMalicious:
		return "High Risk - Likely Malicious"
	case TierSuspicious:
		return "Medium Risk - Suspicious"
	default:
		return "Low Risk - Appears Safe"
	}
}

// TierFor maps a fused score to its tier.
func TierFor(score int) Tier {
	switch {
	case score >= MaliciousThreshold:
		return TierMalicious
	case score >= SuspiciousThreshold:
		return TierSuspicious
	default:
		return TierSafe
	}
}

// IsSafe reports whether a fused score is below the suspicious boundary.
func IsSafe(score int) bool {
	return score < SuspiciousThreshold
}

// Weights controls the relative contribution of the classifier and the
// heuristics. Must sum to 1.0.
type Weights struct {
	Model     float64
	Heuristic float64
}

// DefaultWeights favors the classifier over the heuristics.
var DefaultWeights = Weights{Model: 0.6, Heuristic: 0.4}

const weightEpsilon = 1e-9

// Fuser combines signals using a validated weight set. Construction is
// the only failure mode; Fuse itself has none.
type Fuser struct {
	weights Weights
}

// NewFuser validates that the weights sum to 1.0. A misconfigured weight
// set must abort startup before serving traffic.
func NewFuser(w Weights) (*Fuser, error) {
	if w.Model < 0 || w.Heuristic < 0 {
		return nil, fmt.Errorf("risk: fusion weights must be non-negative, got model=%.3f heuristic=%.3f", w.Model, w.Heuristic)
	}
	if math.Abs(w.Model+w.Heuristic-1.0) > weightEpsilon {
		return nil, fmt.Errorf("risk: fusion weights must sum to 1.0, got %.3f", w.Model+w.Heuristic)
	}
	return &Fuser{weights: w}, nil
}

// Fuse combines a classifier probability and a heuristic score, both in
// [0,1], into an integer risk score in [0,100]. Monotonically
// non-decreasing in both inputs; a missing classifier signal is passed
// in as 0.
func (f *Fuser) Fuse(classifierProb, heuristicScore float64) int {
	composite := classifierProb*f.weights.Model + heuristicScore*f.weights.Heuristic
	return int(math.Round(composite * 100))
}
