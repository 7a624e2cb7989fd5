package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/safelinkshield/shield/pkg/httputil"
)

// maxConcurrentCalls bounds in-flight inference requests so a burst of
// scans cannot pile up outbound connections.
const maxConcurrentCalls = 32

// HFOption customizes an HFClient.
type HFOption func(*HFClient)

// WithBaseURL overrides the inference API base URL (tests, self-hosted
// routers).
func WithBaseURL(u string) HFOption {
	return func(c *HFClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) HFOption {
	return func(c *HFClient) { c.httpClient = hc }
}

// WithModels overrides the default model ids.
func WithModels(urlModel, textModel string) HFOption {
	return func(c *HFClient) {
		if urlModel != "" {
			c.urlModel = urlModel
		}
		if textModel != "" {
			c.textModel = textModel
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) HFOption {
	return func(c *HFClient) { c.timeout = d }
}

// HFClient scores content via the Hugging Face inference API.
type HFClient struct {
	baseURL    string
	apiKey     string
	urlModel   string
	textModel  string
	audioModel string
	timeout    time.Duration
	httpClient *http.Client
	gate       *httputil.Semaphore
}

// NewHFClient builds a classifier backed by the Hugging Face inference
// API. The zero-value options give the production models and endpoint.
func NewHFClient(apiKey string, opts ...HFOption) *HFClient {
	c := &HFClient{
		baseURL:    "https://api-inference.huggingface.co",
		apiKey:     apiKey,
		urlModel:   "CrabInHoney/urlbert-tiny-v4-malicious-url-classifier",
		textModel:  "facebook/bart-large-mnli",
		audioModel: "openai/whisper-small",
		timeout:    30 * time.Second,
		httpClient: httputil.InferenceClient(),
		gate:       httputil.NewSemaphore(maxConcurrentCalls),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClassifyURL implements Classifier. The URL model returns per-label
// scores; the "malicious" label's score is the probability. The router
// API sometimes nests the label list one level deeper, so both shapes
// are accepted.
func (c *HFClient) ClassifyURL(ctx context.Context, url string) (float64, error) {
	payload := map[string]any{"inputs": url}

	var raw json.RawMessage
	if err := c.predict(ctx, c.urlModel, payload, &raw); err != nil {
		return 0, err
	}

	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		var nested [][]labelScore
		if err := json.Unmarshal(raw, &nested); err != nil {
			return 0, fmt.Errorf("classifier: unexpected url response shape: %s", truncate(raw, 200))
		}
		if len(nested) > 0 {
			flat = nested[0]
		}
	}

	for _, item := range flat {
		if item.Label == "malicious" {
			return item.Score, nil
		}
	}
	return 0, nil
}

// ClassifyText implements Classifier using zero-shot classification
// over the scam category labels.
func (c *HFClient) ClassifyText(ctx context.Context, text string) (TextResult, error) {
	payload := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": ScamLabels,
		},
	}

	var resp zeroShotResponse
	if err := c.predict(ctx, c.textModel, payload, &resp); err != nil {
		return TextResult{}, err
	}
	if len(resp.Labels) == 0 || len(resp.Labels) != len(resp.Scores) {
		return TextResult{Label: "Unknown"}, nil
	}

	maxIdx := 0
	for i, s := range resp.Scores {
		if s > resp.Scores[maxIdx] {
			maxIdx = i
		}
	}

	label := resp.Labels[maxIdx]
	prob := resp.Scores[maxIdx]

	// A confident "safe" verdict maps to a low scam probability; the
	// runner-up label is reported so callers still see the closest
	// scam category.
	if strings.Contains(strings.ToLower(label), "safe") {
		prob = 1 - prob
		if len(resp.Labels) > 1 {
			label = resp.Labels[1]
		} else {
			label = "Unknown"
		}
	}
	return TextResult{Label: label, Probability: prob}, nil
}

// Transcribe implements Transcriber using the Whisper speech-to-text
// model. The audio bytes go up as the raw request body.
func (c *HFClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if err := c.gate.Acquire(ctx); err != nil {
		return "", fmt.Errorf("classifier: waiting for inference slot: %w", err)
	}
	defer c.gate.Release()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.audioModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("classifier: building request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier: calling %s: %w", c.audioModel, err)
	}
	defer httputil.DrainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", ErrModelLoading
	default:
		errBody, _ := httputil.ReadErrorBody(resp.Body)
		return "", fmt.Errorf("classifier: %s returned status %d: %s", c.audioModel, resp.StatusCode, truncate(errBody, 200))
	}

	data, err := httputil.ReadResponseBody(resp.Body, httputil.MaxResponseSize)
	if err != nil {
		return "", fmt.Errorf("classifier: reading response: %w", err)
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("classifier: decoding transcript: %w", err)
	}
	return out.Text, nil
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

func (c *HFClient) predict(ctx context.Context, modelID string, payload any, out any) error {
	if err := c.gate.Acquire(ctx); err != nil {
		return fmt.Errorf("classifier: waiting for inference slot: %w", err)
	}
	defer c.gate.Release()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("classifier: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("classifier: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("classifier: calling %s: %w", modelID, err)
	}
	defer httputil.DrainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusServiceUnavailable:
		// Cold model. The caller degrades to heuristics; a retry will
		// land once the model is warm.
		return ErrModelLoading
	default:
		errBody, _ := httputil.ReadErrorBody(resp.Body)
		return fmt.Errorf("classifier: %s returned status %d: %s", modelID, resp.StatusCode, truncate(errBody, 200))
	}

	data, err := httputil.ReadResponseBody(resp.Body, httputil.MaxResponseSize)
	if err != nil {
		return fmt.Errorf("classifier: reading response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("classifier: decoding response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
