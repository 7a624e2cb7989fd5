// Package ratelimit provides per-client, per-endpoint-class admission
// control using sliding request windows. Two implementations share one
// contract: an in-process limiter for single-instance deployments and a
// Redis-backed limiter for multi-instance ones.
package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Class groups endpoints that share a rate limit budget.
type Class string

const (
	ClassScan      Class = "scan"
	ClassChat      Class = "chat"
	ClassCommunity Class = "community"
	ClassAuth      Class = "auth"
	ClassDefault   Class = "default"
)

// ClassForPath maps a request path to its endpoint class.
func ClassForPath(path string) Class {
	switch {
	case strings.Contains(path, "/scan"):
		return ClassScan
	case strings.Contains(path, "/chat"):
		return ClassChat
	case strings.Contains(path, "/community"):
		return ClassCommunity
	case strings.Contains(path, "/auth"):
		return ClassAuth
	default:
		return ClassDefault
	}
}

// ClassConfig holds the window budgets for one endpoint class.
type ClassConfig struct {
	PerMinute   int `yaml:"per_minute"`
	PerHour     int `yaml:"per_hour"`
	BurstLimit  int `yaml:"burst_limit"`
	BurstWindow int `yaml:"burst_window_seconds"`
}

// DefaultClassConfigs returns the built-in per-class budgets. A YAML
// override file may replace individual classes (see config.LoadRateLimits).
func DefaultClassConfigs() map[Class]ClassConfig {
	return map[Class]ClassConfig{
		ClassScan:      {PerMinute: 20, PerHour: 200, BurstLimit: 5, BurstWindow: 10},
		ClassChat:      {PerMinute: 30, PerHour: 500, BurstLimit: 10, BurstWindow: 10},
		ClassCommunity: {PerMinute: 5, PerHour: 20, BurstLimit: 3, BurstWindow: 60},
		ClassAuth:      {PerMinute: 10, PerHour: 50, BurstLimit: 5, BurstWindow: 60},
		ClassDefault:   {PerMinute: 60, PerHour: 1000, BurstLimit: 20, BurstWindow: 10},
	}
}

// RetryAfter is the retry hint attached to every rejection.
const RetryAfter = 60 * time.Second

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed    bool
	Reason     string
	RetryAfter time.Duration
}

func allow() Decision {
	return Decision{Allowed: true}
}

func reject(reason string) Decision {
	return Decision{Allowed: false, Reason: reason, RetryAfter: RetryAfter}
}

// Limiter is the admission gate in front of every scan/chat/report entry
// point. Implementations must make the check-and-record sequence atomic:
// two concurrent requests may never both observe "under limit" and both
// be admitted past a hard cap.
type Limiter interface {
	Allow(clientID, path string) Decision
}

// HashClientIP derives the non-reversible client identifier from a
// connecting address. Raw IPs are never stored or logged.
func HashClientIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}

func burstReason(window int) string {
	return fmt.Sprintf("Too many requests. Please wait %d seconds.", window)
}

const (
	minuteReason = "Rate limit exceeded. Please wait a minute before trying again."
	hourReason   = "Hourly rate limit exceeded. Please try again later."
)
