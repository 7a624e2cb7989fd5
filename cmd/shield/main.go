package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/safelinkshield/shield/pkg/classifier"
	"github.com/safelinkshield/shield/pkg/config"
	"github.com/safelinkshield/shield/pkg/ratelimit"
	"github.com/safelinkshield/shield/pkg/risk"
	"github.com/safelinkshield/shield/pkg/scan"
	"github.com/safelinkshield/shield/pkg/storage"
)

const Version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cfg := config.NewDefaultConfig()
		if len(os.Args) > 2 {
			cfg.Port = os.Args[2]
		}
		runHTTPServer(cfg)
	case "scan":
		if len(os.Args) < 3 {
			fmt.Println("Usage: shield scan <url-or-text>")
			os.Exit(1)
		}
		runCLIScan(strings.Join(os.Args[2:], " "))
	case "version":
		fmt.Printf("SafeLink Shield v%s\n", Version)
		fmt.Println("Scam & Phishing Scanner")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("SafeLink Shield v%s - Scam & Phishing Scanner\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  shield serve [port]        Start HTTP server (default: 8000)")
	fmt.Println("  shield scan <url-or-text>  Scan a URL or message from the command line")
	fmt.Println("  shield version             Show version")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  shield serve 8080")
	fmt.Println("  shield scan http://paypal-verify.xyz/login")
	fmt.Println("  shield scan \"Congratulations! You won Rs 50 lakh, share your OTP to claim\"")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  SHIELD_HF_API_KEY       Hugging Face API token (enables ML scoring)")
	fmt.Println("  SHIELD_DATABASE_URL     Postgres URL for scan history")
	fmt.Println("  SHIELD_REDIS_ADDR       Redis address for shared rate limiting")
	fmt.Println("  SHIELD_RATELIMITS_FILE  YAML file overriding per-class rate budgets")
	fmt.Println("  SHIELD_DEFAULT_LOCALE   Explanation locale: en, hi, mr (default: en)")
}

// buildService wires the classifier, transcriber and storage into a scan
// service according to the configuration. Missing backends degrade with
// a log line instead of failing startup.
func buildService(cfg *config.Config) (*scan.Service, *storage.DB) {
	var cls classifier.Classifier = classifier.Disabled{}
	var transcriber classifier.Transcriber

	if cfg.Classifier == config.ProviderHuggingFace && cfg.HFAPIKey != "" {
		hf := classifier.NewHFClient(cfg.HFAPIKey,
			classifier.WithBaseURL(cfg.HFEndpointURL),
			classifier.WithModels(cfg.HFURLModel, cfg.HFTextModel),
			classifier.WithTimeout(time.Duration(cfg.HFTimeoutMs)*time.Millisecond),
		)
		cls = hf
		transcriber = hf
		log.Println("✓ ML classification enabled (Hugging Face)")
	} else {
		log.Println("○ ML classification disabled - heuristic-only scoring")
	}

	var db *storage.DB
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var err error
		db, err = storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("[WARN] database unavailable, scan history disabled: %v", err)
			db = nil
		} else if err := db.EnsureSchema(ctx); err != nil {
			log.Printf("[WARN] could not ensure schema, scan history disabled: %v", err)
			db.Close()
			db = nil
		} else {
			log.Println("✓ Scan history enabled (Postgres)")
		}
	} else {
		log.Println("○ Scan history disabled (no database configured)")
	}

	opts := scan.Options{
		Classifier:  cls,
		Transcriber: transcriber,
		Weights:     risk.Weights{Model: cfg.ModelWeight, Heuristic: cfg.HeuristicWeight},

		MaxURLLength:  cfg.MaxURLLength,
		MaxTextLength: cfg.MaxTextLength,
		MinTextLength: cfg.MinTextLength,
		ModelVersion:  cfg.ModelVersion,
	}
	if db != nil {
		opts.Store = db
	}

	svc, err := scan.NewService(opts)
	if err != nil {
		log.Fatalf("[STARTUP] FATAL: %v", err)
	}
	return svc, db
}

func buildLimiter(cfg *config.Config) ratelimit.Limiter {
	limits, err := config.LoadRateLimits(cfg.RateLimitsPath)
	if err != nil {
		log.Fatalf("[STARTUP] FATAL: %v", err)
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		log.Printf("✓ Rate limiting via Redis (%s)", cfg.RedisAddr)
		return ratelimit.NewRedisLimiter(rdb, limits)
	}
	log.Println("✓ Rate limiting in-process")
	return ratelimit.NewMemoryLimiter(limits)
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

type scanRequest struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// content returns the submitted payload, whichever field carried it.
func (r scanRequest) content() string {
	if r.Content != "" {
		return r.Content
	}
	if r.URL != "" {
		return r.URL
	}
	return r.Text
}

func runHTTPServer(cfg *config.Config) {
	cfg.MustValidate()

	limiter := buildLimiter(cfg)
	svc, db := buildService(cfg)
	if db != nil {
		defer db.Close()
	}

	app := fiber.New(fiber.Config{
		AppName: "SafeLink Shield",
	})

	// Admission control. Client identity is a hashed IP; raw addresses
	// never reach the limiter or the logs.
	app.Use(func(c fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}
		client := ratelimit.HashClientIP(c.IP())
		if d := limiter.Allow(client, c.Path()); !d.Allowed {
			c.Set("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": d.Reason})
		}
		return c.Next()
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":        "ok",
			"version":       Version,
			"model_version": cfg.ModelVersion,
		})
	})

	app.Post("/scan/url", func(c fiber.Ctx) error {
		var req scanRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid request"})
		}
		res, err := svc.ScanURL(c.Context(), req.content(), locale(cfg, req.Language))
		if err != nil {
			return scanError(c, err)
		}
		return c.JSON(res)
	})

	app.Post("/scan/text", func(c fiber.Ctx) error {
		var req scanRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid request"})
		}
		res, err := svc.ScanText(c.Context(), req.content(), locale(cfg, req.Language))
		if err != nil {
			return scanError(c, err)
		}
		return c.JSON(res)
	})

	// Screenshot OCR runs on the client; the endpoint takes the
	// extracted text and scores it with screenshot provenance.
	app.Post("/scan/screenshot", func(c fiber.Ctx) error {
		var req struct {
			ExtractedText string `json:"extracted_text"`
			Content       string `json:"content"`
			Language      string `json:"language"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid request"})
		}
		text := req.ExtractedText
		if text == "" {
			text = req.Content
		}
		res, err := svc.ScanScreenshotText(c.Context(), text, locale(cfg, req.Language))
		if err != nil {
			return scanError(c, err)
		}
		return c.JSON(res)
	})

	app.Post("/scan/audio", func(c fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "audio file is required"})
		}
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "could not read audio file"})
		}
		defer f.Close()
		audio, err := io.ReadAll(f)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "could not read audio file"})
		}

		res, err := svc.ScanAudio(c.Context(), audio, fh.Filename, locale(cfg, c.FormValue("language")))
		if err != nil {
			return scanError(c, err)
		}
		return c.JSON(res)
	})

	app.Get("/scans/recent", func(c fiber.Ctx) error {
		if db == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"detail": "scan history is not available"})
		}
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		records, err := db.RecentScans(c.Context(), limit)
		if err != nil {
			log.Printf("[WARN] listing scans failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "could not list scans"})
		}
		return c.JSON(records)
	})

	log.Printf("SafeLink Shield HTTP server starting on :%s", cfg.Port)
	log.Printf("Endpoints:")
	log.Printf("  GET  /health           - Health check")
	log.Printf("  POST /scan/url         - Scan a URL")
	log.Printf("  POST /scan/text        - Scan a message")
	log.Printf("  POST /scan/screenshot  - Scan client-extracted screenshot text")
	log.Printf("  POST /scan/audio       - Transcribe and scan a call recording")
	log.Printf("  GET  /scans/recent     - Recent scan history")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func locale(cfg *config.Config, requested string) string {
	if requested != "" {
		return requested
	}
	return cfg.DefaultLocale
}

func scanError(c fiber.Ctx, err error) error {
	var ve *scan.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": ve.Message})
	}
	var ee *scan.ExtractionError
	if errors.As(err, &ee) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": ee.Message})
	}
	log.Printf("[WARN] scan failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "scan failed"})
}

// ============================================================================
// CLI Mode
// ============================================================================

func runCLIScan(input string) {
	cfg := config.NewDefaultConfig()
	cfg.MustValidate()
	svc, db := buildService(cfg)
	if db != nil {
		defer db.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	var (
		res scan.Result
		err error
	)
	if looksLikeURL(input) {
		res, err = svc.ScanURL(ctx, input, cfg.DefaultLocale)
	} else {
		res, err = svc.ScanText(ctx, input, cfg.DefaultLocale)
	}
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	printVerdict(res)
}

// looksLikeURL decides the scan pipeline for CLI input: a single token
// with a dot (or an explicit scheme) is a URL, everything else a message.
func looksLikeURL(input string) bool {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return true
	}
	return !strings.ContainsAny(input, " \t\n") && strings.Contains(input, ".")
}

func printVerdict(res scan.Result) {
	verdict := color.New(color.FgGreen, color.Bold)
	switch risk.TierFor(res.RiskScore) {
	case risk.TierMalicious:
		verdict = color.New(color.FgRed, color.Bold)
	case risk.TierSuspicious:
		verdict = color.New(color.FgYellow, color.Bold)
	}

	verdict.Printf("%s (risk %d/100)\n", res.Label, res.RiskScore)
	fmt.Println()
	if len(res.Reasons) > 0 {
		fmt.Println("Reasons:")
		for _, r := range res.Reasons {
			fmt.Printf("  - %s\n", r)
		}
	}
	if res.Explanation != "" {
		fmt.Printf("\n%s\n", res.Explanation)
	}
	if res.SafetyTip != "" {
		color.Cyan("\nTip: %s", res.SafetyTip)
	}
	if len(res.Suggestions) > 0 {
		fmt.Println("\nStay safe:")
		for _, s := range res.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}

	fmt.Println()
	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
}
