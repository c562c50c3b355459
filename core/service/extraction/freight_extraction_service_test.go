package extraction

import (
	"context"
	"errors"
	"testing"

	"freight_server/core/domain"
	"freight_server/core/service/ports"
)

type fakeOracle struct {
	draft *domain.DraftExtraction
	err   error
	calls int
}

func (f *fakeOracle) ExtractDraft(ctx context.Context, email *domain.Email) (*domain.DraftExtraction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.draft, nil
}

func newTestCatalog(t *testing.T) *ports.Catalog {
	t.Helper()
	c, err := ports.Load([]domain.PortEntry{
		{Code: "SAJED", Name: "Jeddah"},
		{Code: "SADAM", Name: "Dammam"},
		{Code: "SARUH", Name: "Riyadh"},
		{Code: "INMAA", Name: "Chennai ICD"},
		{Code: "INBLR", Name: "Bangalore ICD"},
		{Code: "INHYD", Name: "Hyderabad ICD"},
		{Code: "SGSIN", Name: "Singapore"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestExtractOneOracleFailureYieldsNullRecord(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("boom")}
	svc := NewService(oracle, newTestCatalog(t), nil)

	record := svc.ExtractOne(context.Background(), &domain.Email{ID: "em-1", Subject: "RFQ", Body: "anything"})

	if !record.ExtractionFailed {
		t.Error("ExtractionFailed = false, want true")
	}
	if record.ID != "em-1" {
		t.Errorf("ID = %q, want em-1", record.ID)
	}
	if record.OriginPortCode != nil || record.DestinationPortCode != nil {
		t.Error("port codes must stay null on oracle failure")
	}
	if record.CargoWeightKG != nil || record.CargoCBM != nil {
		t.Error("quantities must stay null on oracle failure")
	}
	if record.Incoterm != "FOB" {
		t.Errorf("Incoterm = %q, want FOB", record.Incoterm)
	}
	if record.ProductLine != domain.ProductLineSeaImportLCL {
		t.Errorf("ProductLine = %q, want import default", record.ProductLine)
	}
}

func TestExtractOneSingleLeg(t *testing.T) {
	oracle := &fakeOracle{draft: &domain.DraftExtraction{
		OriginPort:              "SIN",
		DestinationPort:         "Chennai ICD",
		Incoterm:                "cif",
		CargoWeightText:         "1,980 KGS",
		CargoCBMText:            "3.8 CBM",
		DangerousGoodsMentioned: domain.DGMentionNotMentioned,
	}}
	svc := NewService(oracle, newTestCatalog(t), nil)

	record := svc.ExtractOne(context.Background(), &domain.Email{
		ID:      "em-2",
		Subject: "LCL quote request",
		Body:    "Please quote SIN to Chennai ICD, 1,980 KGS / 3.8 CBM, CIF.",
	})

	if record.ExtractionFailed {
		t.Fatal("ExtractionFailed = true")
	}
	assertStr(t, "OriginPortCode", record.OriginPortCode, "SGSIN")
	assertStr(t, "OriginPortName", record.OriginPortName, "Singapore")
	assertStr(t, "DestinationPortCode", record.DestinationPortCode, "INMAA")
	assertStr(t, "DestinationPortName", record.DestinationPortName, "Chennai ICD")
	if record.Incoterm != "CIF" {
		t.Errorf("Incoterm = %q, want CIF", record.Incoterm)
	}
	assertFloat(t, "CargoWeightKG", record.CargoWeightKG, 1980)
	assertFloat(t, "CargoCBM", record.CargoCBM, 3.8)
	if record.IsDangerous {
		t.Error("IsDangerous = true, want false")
	}
	if record.ProductLine != domain.ProductLineSeaImportLCL {
		t.Errorf("ProductLine = %q, want import", record.ProductLine)
	}
}

func TestExtractOneMultiLegAggregation(t *testing.T) {
	oracle := &fakeOracle{draft: &domain.DraftExtraction{
		OriginPort:              "JED",
		DestinationPort:         "MAA",
		DangerousGoodsMentioned: domain.DGMentionNo,
	}}
	svc := NewService(oracle, newTestCatalog(t), nil)

	record := svc.ExtractOne(context.Background(), &domain.Email{
		ID:      "em-3",
		Subject: "Consolidation booking",
		Body:    "Legs: JED→MAA 1.9 cbm; DAM→BLR 3 RT; RUH→HYD 850kg",
	})

	assertStr(t, "OriginPortCode", record.OriginPortCode, "SAJED")
	assertStr(t, "DestinationPortCode", record.DestinationPortCode, "INMAA")
	assertStr(t, "DestinationPortName", record.DestinationPortName, "Chennai ICD / Bangalore ICD / Hyderabad ICD")
	assertFloat(t, "CargoCBM", record.CargoCBM, 1.9)
	assertFloat(t, "CargoWeightKG", record.CargoWeightKG, 3000)
	if record.ProductLine != domain.ProductLineSeaImportLCL {
		t.Errorf("ProductLine = %q, want import", record.ProductLine)
	}
}

func TestExtractOneMixedDestinationsKeepFirstLeg(t *testing.T) {
	oracle := &fakeOracle{draft: &domain.DraftExtraction{
		DangerousGoodsMentioned: domain.DGMentionNotMentioned,
	}}
	svc := NewService(oracle, newTestCatalog(t), nil)

	record := svc.ExtractOne(context.Background(), &domain.Email{
		ID:   "em-4",
		Body: "JED→MAA 1.9 cbm; DAM→SGSIN 3 RT",
	})

	assertStr(t, "OriginPortCode", record.OriginPortCode, "SAJED")
	assertStr(t, "DestinationPortCode", record.DestinationPortCode, "INMAA")
	assertFloat(t, "CargoCBM", record.CargoCBM, 1.9)
	if record.CargoWeightKG != nil {
		t.Errorf("CargoWeightKG = %v, want nil", *record.CargoWeightKG)
	}
}

func TestExtractOneExplicitDGVerdictWins(t *testing.T) {
	oracle := &fakeOracle{draft: &domain.DraftExtraction{
		DangerousGoodsMentioned: domain.DGMentionNo,
	}}
	svc := NewService(oracle, newTestCatalog(t), nil)

	record := svc.ExtractOne(context.Background(), &domain.Email{
		ID:      "em-5",
		Subject: "DG shipment",
		Body:    "hazardous drums, UN 1263",
	})

	if record.IsDangerous {
		t.Error("IsDangerous = true, explicit NO from draft must win")
	}
}

func TestExtractOneProductLineExport(t *testing.T) {
	oracle := &fakeOracle{draft: &domain.DraftExtraction{
		OriginPort:              "Chennai ICD",
		DestinationPort:         "Singapore",
		DangerousGoodsMentioned: domain.DGMentionNotMentioned,
	}}
	svc := NewService(oracle, newTestCatalog(t), nil)

	record := svc.ExtractOne(context.Background(), &domain.Email{ID: "em-6", Body: "export booking"})

	if record.ProductLine != domain.ProductLineSeaExportLCL {
		t.Errorf("ProductLine = %q, want export", record.ProductLine)
	}
}

func TestExtractOneUnresolvablePortsStayNull(t *testing.T) {
	oracle := &fakeOracle{draft: &domain.DraftExtraction{
		OriginPort:              "Atlantis",
		DestinationPort:         "Chennai ICD",
		CargoWeightText:         "TBD",
		DangerousGoodsMentioned: domain.DGMentionNotMentioned,
	}}
	svc := NewService(oracle, newTestCatalog(t), nil)

	record := svc.ExtractOne(context.Background(), &domain.Email{ID: "em-7", Body: "plain body"})

	if record.OriginPortCode != nil {
		t.Errorf("OriginPortCode = %q, want nil", *record.OriginPortCode)
	}
	assertStr(t, "DestinationPortCode", record.DestinationPortCode, "INMAA")
	if record.CargoWeightKG != nil {
		t.Errorf("CargoWeightKG = %v, want nil for TBD", *record.CargoWeightKG)
	}
}

func assertStr(t *testing.T, field string, got *string, want string) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %q", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %q, want %q", field, *got, want)
	}
}

func assertFloat(t *testing.T, field string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
