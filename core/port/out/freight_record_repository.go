package out

import (
	"context"

	"freight_server/core/domain"
)

// RecordRepository persists completed shipment records so interrupted
// batch runs can resume without re-extracting finished emails.
type RecordRepository interface {
	Upsert(ctx context.Context, record *domain.ShipmentRecord) error
	Exists(ctx context.Context, emailID string) (bool, error)
	List(ctx context.Context) ([]*domain.ShipmentRecord, error)
}
