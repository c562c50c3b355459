package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"freight_server/core/domain"
)

type stubExtractor struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (s *stubExtractor) ExtractOne(ctx context.Context, email *domain.Email) *domain.ShipmentRecord {
	s.mu.Lock()
	s.calls = append(s.calls, email.ID)
	s.mu.Unlock()

	record := &domain.ShipmentRecord{
		ID:          email.ID,
		ProductLine: domain.ProductLineSeaImportLCL,
		Incoterm:    domain.DefaultIncoterm,
	}
	if s.fail[email.ID] {
		record.ExtractionFailed = true
	}
	return record
}

type memRepo struct {
	mu      sync.Mutex
	records map[string]*domain.ShipmentRecord
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[string]*domain.ShipmentRecord)}
}

func (m *memRepo) Upsert(ctx context.Context, record *domain.ShipmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return nil
}

func (m *memRepo) Exists(ctx context.Context, emailID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[emailID]
	return ok, nil
}

func (m *memRepo) List(ctx context.Context) ([]*domain.ShipmentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.ShipmentRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func testEmails(ids ...string) []*domain.Email {
	emails := make([]*domain.Email, 0, len(ids))
	for _, id := range ids {
		emails = append(emails, &domain.Email{ID: id, Subject: "s", Body: "b"})
	}
	return emails
}

func TestBatchRunProducesOneRecordPerEmail(t *testing.T) {
	extractor := &stubExtractor{}
	runner := NewBatchRunner(extractor, nil, &BatchConfig{Workers: 3}, zerolog.Nop())

	emails := testEmails("a", "b", "c", "d")
	records, err := runner.Run(context.Background(), emails)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != len(emails) {
		t.Fatalf("got %d records, want %d", len(records), len(emails))
	}
	// Input order survives concurrent processing.
	for i, email := range emails {
		if records[i].ID != email.ID {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, email.ID)
		}
	}
}

func TestBatchRunContinuesPastFailures(t *testing.T) {
	extractor := &stubExtractor{fail: map[string]bool{"b": true}}
	runner := NewBatchRunner(extractor, nil, &BatchConfig{Workers: 2}, zerolog.Nop())

	records, err := runner.Run(context.Background(), testEmails("a", "b", "c"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	m := runner.Metrics()
	if m.Processed != 2 || m.Failed != 1 {
		t.Errorf("metrics = %+v, want 2 processed / 1 failed", m)
	}
	for _, r := range records {
		if r.ID == "b" && !r.ExtractionFailed {
			t.Error("record b should be flagged as failed")
		}
	}
}

func TestBatchRunResumeSkipsPersisted(t *testing.T) {
	repo := newMemRepo()
	repo.Upsert(context.Background(), &domain.ShipmentRecord{ID: "a"})

	extractor := &stubExtractor{}
	runner := NewBatchRunner(extractor, repo, &BatchConfig{Workers: 1, Resume: true}, zerolog.Nop())

	records, err := runner.Run(context.Background(), testEmails("a", "b"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 1 || records[0].ID != "b" {
		t.Fatalf("records = %v, want only b", records)
	}
	if m := runner.Metrics(); m.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", m.Skipped)
	}
	for _, id := range extractor.calls {
		if id == "a" {
			t.Error("email a was re-extracted despite resume")
		}
	}
}

func TestBatchRunPersistsRecords(t *testing.T) {
	repo := newMemRepo()
	extractor := &stubExtractor{}
	runner := NewBatchRunner(extractor, repo, &BatchConfig{Workers: 2, Resume: false}, zerolog.Nop())

	if _, err := runner.Run(context.Background(), testEmails("a", "b", "c")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	stored, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stored) != 3 {
		t.Errorf("persisted %d records, want 3", len(stored))
	}
}
