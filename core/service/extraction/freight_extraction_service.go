// Package extraction assembles the full pipeline: oracle draft, port
// resolution, multi-leg normalization, quantity parsing and dangerous
// goods classification, producing one ShipmentRecord per email.
package extraction

import (
	"context"

	"freight_server/core/domain"
	"freight_server/core/port/out"
	"freight_server/core/service/dangerous"
	"freight_server/core/service/itinerary"
	"freight_server/core/service/normalize"
	"freight_server/core/service/ports"
	"freight_server/pkg/logger"
)

type Service struct {
	oracle  out.ExtractionOracle
	catalog *ports.Catalog
	log     *logger.Logger
}

func NewService(oracle out.ExtractionOracle, catalog *ports.Catalog, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		oracle:  oracle,
		catalog: catalog,
		log:     log,
	}
}

// ExtractOne produces the normalized record for one email. An oracle
// failure yields a null record flagged as failed instead of an error:
// one bad email must never take down a batch.
func (s *Service) ExtractOne(ctx context.Context, email *domain.Email) *domain.ShipmentRecord {
	record := &domain.ShipmentRecord{
		ID:          email.ID,
		ProductLine: domain.ProductLineSeaImportLCL,
		Incoterm:    domain.DefaultIncoterm,
	}

	draft, err := s.oracle.ExtractDraft(ctx, email)
	if err != nil {
		s.log.WithError(err).WithField("email_id", email.ID).
			Warn("oracle unavailable, emitting null record")
		record.ExtractionFailed = true
		return record
	}

	origin, destination, weightText, cbmText := s.normalizeRouting(email, draft)

	record.SetOrigin(origin)
	record.SetDestination(destination)
	record.ProductLine = productLine(origin, destination, draft)
	record.Incoterm = domain.NormalizeIncoterm(draft.Incoterm)
	record.CargoWeightKG = normalize.ParseQuantity(weightText, normalize.UnitKG)
	record.CargoCBM = normalize.ParseQuantity(cbmText, normalize.UnitCBM)
	record.IsDangerous = dangerous.Decide(draft.DangerousGoodsMentioned, email.Subject, email.Body)

	return record
}

// normalizeRouting decides where the endpoints and cargo texts come
// from. Multi-leg bodies override the draft: the itinerary summary is
// built from the body's own leg notation. Plain bodies resolve the
// draft's mentions directly.
func (s *Service) normalizeRouting(email *domain.Email, draft *domain.DraftExtraction) (origin, destination domain.ResolvedPort, weightText, cbmText string) {
	if summary, ok := itinerary.Normalize(email.Body, s.catalog); ok {
		weightText = summary.WeightText
		cbmText = summary.CBMText
		if summary.Aggregated {
			s.log.WithField("email_id", email.ID).Debug("aggregated multi-leg itinerary")
		}
		return summary.Origin, summary.Destination, weightText, cbmText
	}

	origin = ports.Resolve(draft.OriginPort, s.catalog)
	destination = ports.Resolve(draft.DestinationPort, s.catalog)
	return origin, destination, draft.CargoWeightText, draft.CargoCBMText
}

// productLine derives the commercial lane. Resolved endpoint countries
// are authoritative; the draft's direction flags only break ties when
// neither endpoint resolved to India. Import is the default lane.
func productLine(origin, destination domain.ResolvedPort, draft *domain.DraftExtraction) string {
	if destination.Resolved() && domain.CountryPrefix(destination.Code) == "IN" {
		return domain.ProductLineSeaImportLCL
	}
	if origin.Resolved() && domain.CountryPrefix(origin.Code) == "IN" {
		return domain.ProductLineSeaExportLCL
	}
	if draft.IsExportFromIndia {
		return domain.ProductLineSeaExportLCL
	}
	return domain.ProductLineSeaImportLCL
}
