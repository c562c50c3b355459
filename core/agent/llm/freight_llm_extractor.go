package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"freight_server/core/domain"
	"freight_server/pkg/logger"
	"freight_server/pkg/metrics"
	"freight_server/pkg/ratelimit"
)

// Extractor asks the model for a structured draft of one email. It
// owns pacing and retries so callers see a single fallible call.
type Extractor struct {
	client     *Client
	limiter    *ratelimit.Limiter
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	log        *logger.Logger
	latency    *metrics.LatencyTracker
}

type ExtractorConfig struct {
	Timeout    time.Duration // per attempt (default: 30s)
	MaxRetries int           // retries after the first attempt (default: 2)
	BaseDelay  time.Duration // first backoff delay, doubles per retry (default: 1s)
}

func NewExtractor(client *Client, limiter *ratelimit.Limiter, cfg ExtractorConfig, log *logger.Logger) *Extractor {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}
	if log == nil {
		log = logger.Default()
	}
	return &Extractor{
		client:     client,
		limiter:    limiter,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		log:        log,
		latency:    metrics.NewLatencyTracker(512),
	}
}

// LatencyStats reports timing over the recent model call window.
func (e *Extractor) LatencyStats() metrics.LatencyStats {
	return e.latency.Stats()
}

const extractionPrompt = `Extract shipment details from this freight forwarding email.

Subject: %s
Body: %s

EXTRACTION RULES:
1. BODY takes precedence over subject if they conflict
2. Extract FIRST shipment only if multiple mentioned
3. Indian ports: Chennai/MAA, Mumbai/BOM, Bangalore/BLR, Nhava Sheva, Hyderabad/HYD, Whitefield/WFD
4. Port abbreviations: SHA=Shanghai, HK=Hong Kong, SIN=Singapore, BKK=Bangkok, SUB=Surabaya, JED/DAM/RUH=Saudi

DANGEROUS GOODS (check in order):
1. Negations ("non-DG", "non-hazardous", "not dangerous") → "NO"
2. Positive ("DG", "dangerous", "Class X", "IMO", "UN XXXX", "flammable") → "YES"
3. No mention → "NOT_MENTIONED"

INCOTERM: Extract exactly as written (FOB, CIF, FCA, etc.) or null if not mentioned

WEIGHT & VOLUME:
- Extract as written including units (e.g., "1,980 KGS", "500 lbs", "3.8 CBM", "3 RT")
- If dimensions only (L×W×H), extract as null for CBM
- "TBD" or "N/A" → null

Return ONLY this JSON:
{
  "origin_port": "port name/code",
  "destination_port": "port name/code",
  "incoterm": "terms or null",
  "cargo_weight_text": "weight or null",
  "cargo_cbm_text": "cbm or null",
  "dangerous_goods_mentioned": "YES/NO/NOT_MENTIONED",
  "is_import_to_india": true/false,
  "is_export_from_india": true/false
}`

// ExtractDraft runs the extraction prompt for one email, retrying
// transient failures with exponential backoff. Attempts are paced by
// the shared limiter so batch runs stay inside the provider quota.
func (e *Extractor) ExtractDraft(ctx context.Context, email *domain.Email) (*domain.DraftExtraction, error) {
	prompt := fmt.Sprintf(extractionPrompt, email.Subject, email.Body)

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			delay := e.baseDelay * time.Duration(1<<(attempt-1))
			e.log.WithField("email_id", email.ID).
				Warn("extraction attempt %d failed, retrying in %s: %v", attempt, delay, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		draft, err := e.attempt(ctx, prompt)
		if err == nil {
			return draft, nil
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
	}
	return nil, fmt.Errorf("extraction failed after %d attempts: %w", e.maxRetries+1, lastErr)
}

func (e *Extractor) attempt(ctx context.Context, prompt string) (*domain.DraftExtraction, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.CompleteJSON(callCtx, prompt)
	e.latency.Record(time.Since(start))
	if err != nil {
		return nil, err
	}

	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	var draft domain.DraftExtraction
	if err := json.Unmarshal([]byte(resp), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse extraction draft: %w", err)
	}
	return &draft, nil
}

func isRetryable(err error) bool {
	s := err.Error()
	// Malformed model output counts as transient: the next attempt
	// usually yields clean JSON.
	return strings.Contains(s, "parse extraction draft") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "deadline exceeded") ||
		strings.Contains(s, "429") ||
		strings.Contains(s, "503") ||
		strings.Contains(s, "502")
}
