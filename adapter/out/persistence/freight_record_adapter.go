// Package persistence stores extraction results in Postgres so batch
// runs can resume after interruption.
package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"freight_server/core/domain"
)

// =============================================================================
// RecordAdapter - shipment record store
// =============================================================================

type RecordAdapter struct {
	db *sqlx.DB
}

func NewRecordAdapter(db *sqlx.DB) *RecordAdapter {
	return &RecordAdapter{db: db}
}

// =============================================================================
// Entity
// =============================================================================

type recordEntity struct {
	EmailID             string          `db:"email_id"`
	ProductLine         string          `db:"product_line"`
	OriginPortCode      sql.NullString  `db:"origin_port_code"`
	OriginPortName      sql.NullString  `db:"origin_port_name"`
	DestinationPortCode sql.NullString  `db:"destination_port_code"`
	DestinationPortName sql.NullString  `db:"destination_port_name"`
	Incoterm            string          `db:"incoterm"`
	CargoWeightKG       sql.NullFloat64 `db:"cargo_weight_kg"`
	CargoCBM            sql.NullFloat64 `db:"cargo_cbm"`
	IsDangerous         bool            `db:"is_dangerous"`
	ExtractionFailed    bool            `db:"extraction_failed"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (e *recordEntity) toDomain() *domain.ShipmentRecord {
	r := &domain.ShipmentRecord{
		ID:               e.EmailID,
		ProductLine:      e.ProductLine,
		Incoterm:         e.Incoterm,
		IsDangerous:      e.IsDangerous,
		ExtractionFailed: e.ExtractionFailed,
	}
	if e.OriginPortCode.Valid {
		r.OriginPortCode = domain.StringPtr(e.OriginPortCode.String)
	}
	if e.OriginPortName.Valid {
		r.OriginPortName = domain.StringPtr(e.OriginPortName.String)
	}
	if e.DestinationPortCode.Valid {
		r.DestinationPortCode = domain.StringPtr(e.DestinationPortCode.String)
	}
	if e.DestinationPortName.Valid {
		r.DestinationPortName = domain.StringPtr(e.DestinationPortName.String)
	}
	if e.CargoWeightKG.Valid {
		r.CargoWeightKG = domain.FloatPtr(e.CargoWeightKG.Float64)
	}
	if e.CargoCBM.Valid {
		r.CargoCBM = domain.FloatPtr(e.CargoCBM.Float64)
	}
	return r
}

// =============================================================================
// CRUD
// =============================================================================

// Upsert writes a record, replacing any earlier extraction of the same
// email. Re-running a batch is therefore idempotent.
func (a *RecordAdapter) Upsert(ctx context.Context, record *domain.ShipmentRecord) error {
	query := `
		INSERT INTO shipment_records (
			email_id, product_line,
			origin_port_code, origin_port_name,
			destination_port_code, destination_port_name,
			incoterm, cargo_weight_kg, cargo_cbm,
			is_dangerous, extraction_failed, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (email_id) DO UPDATE SET
			product_line = EXCLUDED.product_line,
			origin_port_code = EXCLUDED.origin_port_code,
			origin_port_name = EXCLUDED.origin_port_name,
			destination_port_code = EXCLUDED.destination_port_code,
			destination_port_name = EXCLUDED.destination_port_name,
			incoterm = EXCLUDED.incoterm,
			cargo_weight_kg = EXCLUDED.cargo_weight_kg,
			cargo_cbm = EXCLUDED.cargo_cbm,
			is_dangerous = EXCLUDED.is_dangerous,
			extraction_failed = EXCLUDED.extraction_failed,
			updated_at = NOW()
	`

	_, err := a.db.ExecContext(ctx, query,
		record.ID,
		record.ProductLine,
		nullString(record.OriginPortCode),
		nullString(record.OriginPortName),
		nullString(record.DestinationPortCode),
		nullString(record.DestinationPortName),
		record.Incoterm,
		nullFloat64(record.CargoWeightKG),
		nullFloat64(record.CargoCBM),
		record.IsDangerous,
		record.ExtractionFailed,
	)
	return err
}

// Exists reports whether a non-failed record for this email is stored.
// Failed extractions do not count: resume must retry them.
func (a *RecordAdapter) Exists(ctx context.Context, emailID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM shipment_records WHERE email_id = $1 AND extraction_failed = false`
	if err := a.db.GetContext(ctx, &count, query, emailID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every stored record ordered by email id.
func (a *RecordAdapter) List(ctx context.Context) ([]*domain.ShipmentRecord, error) {
	var entities []recordEntity
	query := `SELECT * FROM shipment_records ORDER BY email_id`
	if err := a.db.SelectContext(ctx, &entities, query); err != nil {
		return nil, err
	}

	records := make([]*domain.ShipmentRecord, 0, len(entities))
	for i := range entities {
		records = append(records, entities[i].toDomain())
	}
	return records, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
