package worker

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"freight_server/core/domain"
)

// LoadEmails reads the input corpus: a JSON array of email objects.
func LoadEmails(path string) ([]*domain.Email, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read email corpus: %w", err)
	}
	var emails []*domain.Email
	if err := json.Unmarshal(data, &emails); err != nil {
		return nil, fmt.Errorf("parse email corpus: %w", err)
	}
	return emails, nil
}

// WriteRecords writes extraction results as an indented JSON array.
func WriteRecords(path string, records []*domain.ShipmentRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}
