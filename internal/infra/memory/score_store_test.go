package memory

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestScoreStoreInsertAssignsIDAndTimestamp(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := newClockedStore(now)

	record, err := store.Insert(context.Background(), "Ada", 20)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if record.ID == "" || !record.CreatedAt.Equal(now) {
		t.Fatalf("expected assigned id and timestamp, got %+v", record)
	}
	if record.Name != "Ada" || record.Score != 20 {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestScoreStoreListOrdersAndFilters(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := newClockedStore(base)

	times := []time.Time{base.Add(-48 * time.Hour), base.Add(-time.Hour), base}
	scores := []int{30, 10, 20}
	for i := range times {
		store.clock = func() time.Time { return times[i] }
		if _, err := store.Insert(ctx, fmt.Sprintf("p%d", i), scores[i]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := store.List(ctx, time.Time{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Score != 30 || all[1].Score != 20 || all[2].Score != 10 {
		t.Fatalf("expected score-descending order, got %+v", all)
	}

	// Cutoff is inclusive.
	recent, err := store.List(ctx, base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("list cutoff: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records at or after cutoff, got %+v", recent)
	}
	for _, record := range recent {
		if record.CreatedAt.Before(base.Add(-time.Hour)) {
			t.Fatalf("record before cutoff leaked through: %+v", record)
		}
	}
}

func TestScoreStoreTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newClockedStore(time.Now())

	for _, name := range []string{"first", "second", "third"} {
		if _, err := store.Insert(ctx, name, 10); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	records, err := store.List(ctx, time.Time{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if records[0].Name != "first" || records[1].Name != "second" || records[2].Name != "third" {
		t.Fatalf("expected stable tie order, got %+v", records)
	}
}

func newClockedStore(now time.Time) *ScoreStore {
	ids := 0
	return NewScoreStoreWithClock(
		func() time.Time { return now },
		func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
	)
}
