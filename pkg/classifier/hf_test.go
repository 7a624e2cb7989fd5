package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHFClient(handler http.HandlerFunc) (*HFClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	c := NewHFClient("test-key",
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	)
	return c, server
}

func TestClassifyURLFlatResponse(t *testing.T) {
	c, server := newTestHFClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", got)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"label": "benign", "score": 0.12},
			{"label": "malicious", "score": 0.88},
		})
	})
	defer server.Close()

	prob, err := c.ClassifyURL(context.Background(), "http://phish.example")
	if err != nil {
		t.Fatalf("ClassifyURL failed: %v", err)
	}
	if prob != 0.88 {
		t.Errorf("expected malicious score 0.88, got %v", prob)
	}
}

func TestClassifyURLNestedResponse(t *testing.T) {
	// The router API wraps the label list in an outer list.
	c, server := newTestHFClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([][]map[string]any{{
			{"label": "malicious", "score": 0.71},
			{"label": "benign", "score": 0.29},
		}})
	})
	defer server.Close()

	prob, err := c.ClassifyURL(context.Background(), "http://phish.example")
	if err != nil {
		t.Fatalf("ClassifyURL failed: %v", err)
	}
	if prob != 0.71 {
		t.Errorf("expected malicious score 0.71, got %v", prob)
	}
}

func TestClassifyURLNoMaliciousLabel(t *testing.T) {
	c, server := newTestHFClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"label": "benign", "score": 0.99},
		})
	})
	defer server.Close()

	prob, err := c.ClassifyURL(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("ClassifyURL failed: %v", err)
	}
	if prob != 0 {
		t.Errorf("expected zero probability without malicious label, got %v", prob)
	}
}

func TestClassifyTextScamLabel(t *testing.T) {
	c, server := newTestHFClient(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs     string `json:"inputs"`
			Parameters struct {
				CandidateLabels []string `json:"candidate_labels"`
			} `json:"parameters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if len(req.Parameters.CandidateLabels) != len(ScamLabels) {
			t.Errorf("expected %d candidate labels, got %d", len(ScamLabels), len(req.Parameters.CandidateLabels))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"labels": []string{"UPI payment scam", "refund scam", "safe legitimate message"},
			"scores": []float64{0.81, 0.11, 0.08},
		})
	})
	defer server.Close()

	res, err := c.ClassifyText(context.Background(), "send money to win prize")
	if err != nil {
		t.Fatalf("ClassifyText failed: %v", err)
	}
	if res.Label != "UPI payment scam" {
		t.Errorf("expected top scam label, got %q", res.Label)
	}
	if res.Probability != 0.81 {
		t.Errorf("expected probability 0.81, got %v", res.Probability)
	}
}

func TestClassifyTextSafeLabelInverted(t *testing.T) {
	c, server := newTestHFClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"labels": []string{"safe legitimate message", "refund scam", "job offer scam"},
			"scores": []float64{0.9, 0.06, 0.04},
		})
	})
	defer server.Close()

	res, err := c.ClassifyText(context.Background(), "lunch at noon?")
	if err != nil {
		t.Fatalf("ClassifyText failed: %v", err)
	}
	// Safe top label: probability inverts, the runner-up category is
	// surfaced instead.
	if got := res.Probability; got < 0.099 || got > 0.101 {
		t.Errorf("expected inverted probability ~0.1, got %v", got)
	}
	if res.Label != "refund scam" {
		t.Errorf("expected runner-up label, got %q", res.Label)
	}
}

func TestClassifyTextEmptyResponse(t *testing.T) {
	c, server := newTestHFClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})
	defer server.Close()

	res, err := c.ClassifyText(context.Background(), "some text here")
	if err != nil {
		t.Fatalf("ClassifyText failed: %v", err)
	}
	if res.Label != "Unknown" || res.Probability != 0 {
		t.Errorf("expected Unknown/0 for empty response, got %+v", res)
	}
}

func TestPredictModelLoading(t *testing.T) {
	c, server := newTestHFClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer server.Close()

	_, err := c.ClassifyURL(context.Background(), "https://example.com")
	if !errors.Is(err, ErrModelLoading) {
		t.Errorf("expected ErrModelLoading, got %v", err)
	}
}

func TestPredictServerError(t *testing.T) {
	c, server := newTestHFClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	})
	defer server.Close()

	_, err := c.ClassifyURL(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestDisabledClassifier(t *testing.T) {
	var c Classifier = Disabled{}

	prob, err := c.ClassifyURL(context.Background(), "http://anything")
	if err != nil || prob != 0 {
		t.Errorf("Disabled.ClassifyURL = (%v, %v), want (0, nil)", prob, err)
	}

	res, err := c.ClassifyText(context.Background(), "anything")
	if err != nil || res.Probability != 0 || res.Label != "Unknown" {
		t.Errorf("Disabled.ClassifyText = (%+v, %v), want Unknown/0", res, err)
	}
}
