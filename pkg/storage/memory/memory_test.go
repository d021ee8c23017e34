package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/xutq/Raycast-Easydict/pkg/storage"
)

func makeRecord(id string, createdAt time.Time) *storage.Record {
	return &storage.Record{
		ID:             id,
		SourceText:     "hello",
		FromLanguage:   "English",
		ToLanguage:     "Chinese-Simplified",
		Model:          "hunyuan-translation",
		Mode:           "stream",
		TranslatedText: "你好",
		DurationMS:     120,
		CreatedAt:      createdAt,
	}
}

func TestSaveAndGet(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	rec := makeRecord("tr_abc", time.Now())
	if err := s.SaveRecord(ctx, rec); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	got, err := s.GetRecord(ctx, "tr_abc")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got.TranslatedText != "你好" {
		t.Errorf("TranslatedText = %q, want %q", got.TranslatedText, "你好")
	}
}

func TestGetMissing(t *testing.T) {
	s := New(0)

	_, err := s.GetRecord(context.Background(), "tr_missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveDuplicate(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	rec := makeRecord("tr_dup", time.Now())
	if err := s.SaveRecord(ctx, rec); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	if err := s.SaveRecord(ctx, rec); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestRecentRecordsOrder(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		rec := makeRecord(fmt.Sprintf("tr_%d", i), base.Add(time.Duration(i)*time.Second))
		if err := s.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("SaveRecord: %v", err)
		}
	}

	records, err := s.RecentRecords(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRecords: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 0; i < len(records)-1; i++ {
		if records[i].CreatedAt.Before(records[i+1].CreatedAt) {
			t.Errorf("records not sorted newest first: %v before %v",
				records[i].CreatedAt, records[i+1].CreatedAt)
		}
	}
	if records[0].ID != "tr_4" {
		t.Errorf("newest record ID = %q, want %q", records[0].ID, "tr_4")
	}
}

func TestEviction(t *testing.T) {
	s := New(2)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		rec := makeRecord(fmt.Sprintf("tr_%d", i), base.Add(time.Duration(i)*time.Second))
		if err := s.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("SaveRecord: %v", err)
		}
	}

	// Oldest record is evicted at capacity.
	if _, err := s.GetRecord(ctx, "tr_0"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected tr_0 evicted, got err = %v", err)
	}
	if _, err := s.GetRecord(ctx, "tr_2"); err != nil {
		t.Errorf("expected tr_2 present, got err = %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			s.SaveRecord(ctx, makeRecord(fmt.Sprintf("tr_a%d", i), time.Now()))
		}
	}()
	for i := 0; i < 100; i++ {
		s.RecentRecords(ctx, 10)
	}
	<-done
}
