package in

import (
	"context"

	"freight_server/core/domain"
)

// ExtractionUseCase turns raw emails into normalized shipment records.
// ExtractOne never fails: an oracle outage degrades to a null record
// flagged as failed, so batch callers can always continue.
type ExtractionUseCase interface {
	ExtractOne(ctx context.Context, email *domain.Email) *domain.ShipmentRecord
}
