// Package storage defines the translation history record, the store
// interface its adapters implement, and sentinel errors shared across
// adapter implementations (memory, postgres).
package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"
)

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a record with the given ID already exists.
	ErrConflict = errors.New("record already exists")
)

// Record is one completed translation in the history.
type Record struct {
	ID             string    `json:"id"`
	SourceText     string    `json:"source_text"`
	FromLanguage   string    `json:"from_language"`
	ToLanguage     string    `json:"to_language"`
	Model          string    `json:"model"`
	Mode           string    `json:"mode"` // "stream" or "once"
	TranslatedText string    `json:"translated_text"`
	DurationMS     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecordStore persists translation history.
type RecordStore interface {
	// SaveRecord persists a record. Returns ErrConflict if the ID exists.
	SaveRecord(ctx context.Context, rec *Record) error

	// GetRecord retrieves a record by ID. Returns ErrNotFound if absent.
	GetRecord(ctx context.Context, id string) (*Record, error)

	// RecentRecords returns up to limit records, newest first.
	RecentRecords(ctx context.Context, limit int) ([]*Record, error)

	// HealthCheck verifies the store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

const (
	idLength = 24
	charset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	recordIDPrefix = "tr_"
)

// NewRecordID generates a new record ID with the "tr_" prefix followed by
// 24 cryptographically random alphanumeric characters.
func NewRecordID() string {
	return recordIDPrefix + randomAlphanumeric(idLength)
}

func randomAlphanumeric(n int) string {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b)
}
