package out

import (
	"context"

	"freight_server/core/domain"
)

// ExtractionOracle produces a noisy structured draft from a raw email.
// Implementations own their retry, timeout and rate-limit behaviour; a
// returned error means the draft is unavailable for this email and the
// caller should emit a null record rather than abort the batch.
type ExtractionOracle interface {
	ExtractDraft(ctx context.Context, email *domain.Email) (*domain.DraftExtraction, error)
}
