// Package scan orchestrates a full scan: input validation, concurrent
// heuristic and ML analysis, risk fusion, localized explanation,
// redaction and best-effort persistence.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/safelinkshield/shield/pkg/classifier"
	"github.com/safelinkshield/shield/pkg/heuristics"
	"github.com/safelinkshield/shield/pkg/i18n"
	"github.com/safelinkshield/shield/pkg/redact"
	"github.com/safelinkshield/shield/pkg/risk"
	"github.com/safelinkshield/shield/pkg/threat"
)

const noFindingsReason = "No suspicious patterns detected"

// maxAudioSize bounds uploaded call recordings.
const maxAudioSize = 25 * 1024 * 1024

var supportedAudioExtensions = map[string]bool{
	".wav": true, ".mp3": true, ".m4a": true,
	".aac": true, ".ogg": true, ".flac": true,
}

var titleCaser = cases.Title(language.English)

// Result is the outcome of one scan, shaped for API responses.
type Result struct {
	ScanID        string   `json:"scan_id,omitempty"`
	InputType     string   `json:"input_type"`
	InputText     string   `json:"input_text"`
	ExtractedText string   `json:"extracted_text,omitempty"`
	RiskScore     int      `json:"risk_score"`
	Label         string   `json:"label"`
	IsSafe        bool     `json:"is_safe"`
	Reasons       []string `json:"reasons"`
	Explanation   string   `json:"explanation,omitempty"`
	SafetyTip     string   `json:"safety_tip,omitempty"`
	Patterns      []string `json:"patterns,omitempty"`
	Suggestions   []string `json:"suggestions"`
	Language      string   `json:"language"`
	ModelVersion  string   `json:"model_version"`
}

// Store persists scan records. Satisfied by storage.DB; nil disables
// persistence.
type Store interface {
	SaveScan(ctx context.Context, inputType, redactedText string, result json.RawMessage, modelVersion string) (uuid.UUID, error)
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Classifier  classifier.Classifier
	Transcriber classifier.Transcriber
	Store       Store
	Weights     risk.Weights

	MaxURLLength  int
	MaxTextLength int
	MinTextLength int
	ModelVersion  string
}

// Service runs scans. Safe for concurrent use.
type Service struct {
	cls         classifier.Classifier
	transcriber classifier.Transcriber
	store       Store
	fuser       *risk.Fuser

	maxURLLength  int
	maxTextLength int
	minTextLength int
	modelVersion  string
}

// NewService validates the fusion weights and builds a scan service.
func NewService(opts Options) (*Service, error) {
	if opts.Classifier == nil {
		opts.Classifier = classifier.Disabled{}
	}
	if opts.Weights == (risk.Weights{}) {
		opts.Weights = risk.DefaultWeights
	}
	if opts.MaxURLLength <= 0 {
		opts.MaxURLLength = 2048
	}
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = 10000
	}
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = 10
	}
	if opts.ModelVersion == "" {
		opts.ModelVersion = "v1.0-hf"
	}

	fuser, err := risk.NewFuser(opts.Weights)
	if err != nil {
		return nil, err
	}
	return &Service{
		cls:           opts.Classifier,
		transcriber:   opts.Transcriber,
		store:         opts.Store,
		fuser:         fuser,
		maxURLLength:  opts.MaxURLLength,
		maxTextLength: opts.MaxTextLength,
		minTextLength: opts.MinTextLength,
		modelVersion:  opts.ModelVersion,
	}, nil
}

// ScanURL analyzes a URL: structural heuristics and the URL classifier
// run concurrently, attack patterns feed the localized explanation, and
// the fused score picks the tier label.
func (s *Service) ScanURL(ctx context.Context, rawURL, locale string) (Result, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return Result{}, validationErrorf("URL is required")
	}
	if len(url) > s.maxURLLength {
		return Result{}, validationErrorf(fmt.Sprintf("URL too long (max %d characters)", s.maxURLLength))
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	loc := i18n.Normalize(locale)

	var (
		wg        sync.WaitGroup
		heurScore float64
		findings  []heuristics.Finding
		modelProb float64
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		heurScore, findings = heuristics.AnalyzeURL(url)
	}()
	go func() {
		defer wg.Done()
		prob, err := s.cls.ClassifyURL(ctx, url)
		if err != nil {
			log.Printf("[WARN] url classifier unavailable, using heuristics only: %v", err)
			return
		}
		modelProb = prob
	}()
	wg.Wait()

	patterns := threat.Detect(url, threat.ParseBreakdown(url))
	score := s.fuser.Fuse(modelProb, heurScore)
	tier := risk.TierFor(score)
	expl := i18n.Explain(patterns, score, loc)

	reasons := make([]string, 0, len(expl.Reasons)+len(findings))
	reasons = append(reasons, expl.Reasons...)
	for _, f := range findings {
		reasons = append(reasons, f.Flag)
	}
	if len(reasons) == 0 {
		reasons = []string{noFindingsReason}
	}

	res := Result{
		InputType:    "url",
		InputText:    redact.SanitizeURL(url),
		RiskScore:    score,
		Label:        tier.Label(),
		IsSafe:       risk.IsSafe(score),
		Reasons:      reasons,
		Explanation:  expl.Explanation,
		SafetyTip:    expl.SafetyTip,
		Patterns:     expl.PatternNames,
		Suggestions:  SafetySuggestions(tier.Label()),
		Language:     string(loc),
		ModelVersion: s.modelVersion,
	}
	s.persist(ctx, &res, res.InputText)
	return res, nil
}

// ScanText analyzes a message: content heuristics and zero-shot scam
// classification run concurrently. The stored copy is always redacted.
func (s *Service) ScanText(ctx context.Context, text, locale string) (Result, error) {
	return s.analyzeText(ctx, "text", text, locale)
}

// ScanScreenshotText analyzes text extracted from a screenshot on the
// client. It follows the text pipeline with screenshot provenance; the
// response carries the full redacted extraction alongside a preview.
func (s *Service) ScanScreenshotText(ctx context.Context, extracted, locale string) (Result, error) {
	res, err := s.analyzeText(ctx, "screenshot", extracted, locale)
	if err != nil {
		return Result{}, err
	}
	res.ExtractedText = res.InputText
	if len(res.InputText) > 500 {
		res.InputText = res.InputText[:500]
	}
	return res, nil
}

// ScanAudio transcribes a call recording and analyzes the transcript.
func (s *Service) ScanAudio(ctx context.Context, audio []byte, filename, locale string) (Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedAudioExtensions[ext] {
		return Result{}, validationErrorf("Unsupported audio format. Supported: WAV, MP3, M4A, AAC, OGG, FLAC")
	}
	if len(audio) == 0 {
		return Result{}, validationErrorf("Audio file is empty")
	}
	if len(audio) > maxAudioSize {
		return Result{}, validationErrorf("File too large (max 25MB)")
	}
	if s.transcriber == nil {
		return Result{}, &ExtractionError{Message: "Audio transcription is not configured"}
	}

	transcript, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		log.Printf("[WARN] audio transcription failed: %v", err)
		return Result{}, &ExtractionError{Message: "Could not transcribe audio. Please try a clearer recording."}
	}
	if strings.TrimSpace(transcript) == "" {
		return Result{}, &ExtractionError{Message: "Could not transcribe audio. Please try a clearer recording."}
	}

	res, err := s.analyzeText(ctx, "audio", transcript, locale)
	if err != nil {
		return Result{}, err
	}
	res.ExtractedText = res.InputText
	return res, nil
}

func (s *Service) analyzeText(ctx context.Context, inputType, text, locale string) (Result, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return Result{}, validationErrorf("Text content is required")
	}
	if len(t) < s.minTextLength {
		return Result{}, validationErrorf("Text too short for analysis")
	}
	if len(t) > s.maxTextLength {
		return Result{}, validationErrorf(fmt.Sprintf("Text too long (max %d characters)", s.maxTextLength))
	}
	loc := i18n.Normalize(locale)

	redacted, _ := redact.Redact(t)

	var (
		wg        sync.WaitGroup
		heurScore float64
		findings  []heuristics.Finding
		cls       classifier.TextResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		heurScore, findings = heuristics.AnalyzeText(t)
	}()
	go func() {
		defer wg.Done()
		tr, err := s.cls.ClassifyText(ctx, t)
		if err != nil {
			log.Printf("[WARN] text classifier unavailable, using heuristics only: %v", err)
			cls = classifier.TextResult{Label: "Unknown"}
			return
		}
		cls = tr
	}()
	wg.Wait()

	score := s.fuser.Fuse(cls.Probability, heurScore)

	reasons := make([]string, 0, len(findings)+1)
	if cls.Probability > 0.3 {
		reasons = append(reasons, fmt.Sprintf("ML model detected: %s (%d%% confidence)", cls.Label, int(cls.Probability*100)))
	}
	for _, f := range findings {
		reasons = append(reasons, f.Flag)
	}
	if len(reasons) == 0 {
		reasons = []string{noFindingsReason}
	}

	label := cls.Label
	if label == "" {
		label = "Unknown"
	}

	res := Result{
		InputType:    inputType,
		InputText:    redacted,
		RiskScore:    score,
		Label:        titleCaser.String(label),
		IsSafe:       risk.IsSafe(score),
		Reasons:      reasons,
		Suggestions:  SafetySuggestions(label),
		Language:     string(loc),
		ModelVersion: s.modelVersion,
	}
	s.persist(ctx, &res, redacted)
	return res, nil
}

// persist is best-effort: a failed write logs a warning and the scan
// result still goes back to the caller, just without a scan id.
func (s *Service) persist(ctx context.Context, res *Result, storedText string) {
	if s.store == nil {
		return
	}
	payload, err := json.Marshal(res)
	if err != nil {
		log.Printf("[WARN] could not encode scan record: %v", err)
		return
	}
	if len(storedText) > 1000 {
		storedText = storedText[:1000]
	}
	id, err := s.store.SaveScan(ctx, res.InputType, storedText, payload, s.modelVersion)
	if err != nil {
		log.Printf("[WARN] could not save scan to database: %v", err)
		return
	}
	res.ScanID = id.String()
}
