package risk

import "testing"

func mustFuser(t *testing.T) *Fuser {
	t.Helper()
	f, err := NewFuser(DefaultWeights)
	if err != nil {
		t.Fatalf("NewFuser(DefaultWeights) failed: %v", err)
	}
	return f
}

func TestNewFuserValidation(t *testing.T) {
	testCases := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{"default", Weights{0.6, 0.4}, false},
		{"even split", Weights{0.5, 0.5}, false},
		{"heuristic only", Weights{0.0, 1.0}, false},
		{"sum too low", Weights{0.5, 0.4}, true},
		{"sum too high", Weights{0.7, 0.4}, true},
		{"negative", Weights{-0.2, 1.2}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFuser(tc.weights)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewFuser(%+v) err = %v, wantErr %v", tc.weights, err, tc.wantErr)
			}
		})
	}
}

func TestFuseBounds(t *testing.T) {
	f := mustFuser(t)
	if got := f.Fuse(0, 0); got != 0 {
		t.Errorf("Fuse(0,0) = %d, want 0", got)
	}
	if got := f.Fuse(1, 1); got != 100 {
		t.Errorf("Fuse(1,1) = %d, want 100", got)
	}
}

func TestFuseMonotonic(t *testing.T) {
	f := mustFuser(t)
	steps := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1.0}

	for _, h := range steps {
		prev := -1
		for _, p := range steps {
			got := f.Fuse(p, h)
			if got < prev {
				t.Fatalf("Fuse not monotonic in p: Fuse(%f,%f)=%d < %d", p, h, got, prev)
			}
			prev = got
		}
	}
	for _, p := range steps {
		prev := -1
		for _, h := range steps {
			got := f.Fuse(p, h)
			if got < prev {
				t.Fatalf("Fuse not monotonic in h: Fuse(%f,%f)=%d < %d", p, h, got, prev)
			}
			prev = got
		}
	}
}

func TestFuseKnownValues(t *testing.T) {
	f := mustFuser(t)
	// 0.9*0.6 + 0.5*0.4 = 0.74 -> 74
	if got := f.Fuse(0.9, 0.5); got != 74 {
		t.Errorf("Fuse(0.9,0.5) = %d, want 74", got)
	}
	// heuristic-only operation: classifier unavailable contributes 0
	if got := f.Fuse(0, 0.5); got != 20 {
		t.Errorf("Fuse(0,0.5) = %d, want 20", got)
	}
}

func TestTierBoundaries(t *testing.T) {
	testCases := []struct {
		score    int
		wantTier Tier
		wantSafe bool
	}{
		{0, TierSafe, true},
		{29, TierSafe, true},
		{30, TierSuspicious, false},
		{69, TierSuspicious, false},
		{70, TierMalicious, false},
		{100, TierMalicious, false},
	}

	for _, tc := range testCases {
		if got := TierFor(tc.score); got != tc.wantTier {
			t.Errorf("TierFor(%d) = %v, want %v", tc.score, got, tc.wantTier)
		}
		if got := IsSafe(tc.score); got != tc.wantSafe {
			t.Errorf("IsSafe(%d) = %v, want %v", tc.score, got, tc.wantSafe)
		}
	}
}

func TestTierLabels(t *testing.T) {
	if TierFor(85).Label() != "High Risk - Likely Malicious" {
		t.Error("malicious label mismatch")
	}
	if TierFor(50).Label() != "Medium Risk - Suspicious" {
		t.Error("suspicious label mismatch")
	}
	if TierFor(10).Label() != "Low Risk - Appears Safe" {
		t.Error("safe label mismatch")
	}
}
