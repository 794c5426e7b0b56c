package store

import (
	"context"
	"errors"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/department-summary/internal/domain"
)

func testSnapshot(cycle string) *domain.Snapshot {
	summary := domain.NewSummary()
	d := domain.NewDepartmentSummary()
	d.Male = 1
	d.AgeRange = "30-39"
	d.Hair.Set("Black", 1)
	d.AddressUser.Set("JohnSmith", "111")
	summary.Set("Sales", d)
	summary.Set("Legal", domain.NewDepartmentSummary())
	return &domain.Snapshot{
		CycleID:   cycle,
		Source:    "test",
		FetchedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Records:   1,
		Summary:   summary,
	}
}

func TestMemoryStore_EmptyUntilReplaced(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Current(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Current() err = %v, want ErrNoSnapshot", err)
	}

	snap := testSnapshot("c1")
	if err := s.Replace(context.Background(), snap); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := s.Current(context.Background())
	if err != nil || got != snap {
		t.Fatalf("Current() = %v, %v", got, err)
	}
}

func TestMemoryStore_RejectsNil(t *testing.T) {
	if err := NewMemoryStore().Replace(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestMemoryStore_ReadersSeeWholeSnapshots(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	a, b := testSnapshot("a"), testSnapshot("b")
	_ = s.Replace(ctx, a)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				_ = s.Replace(ctx, b)
			} else {
				_ = s.Replace(ctx, a)
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		got, err := s.Current(ctx)
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if got != a && got != b {
			t.Fatal("reader observed an unknown snapshot")
		}
	}
	wg.Wait()
}

// Runs against a real Redis when TEST_REDIS_ADDR is set.
func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	key := "department-summary:test:" + time.Now().Format(time.RFC3339Nano)
	defer client.Del(ctx, key)

	s := NewRedisStore(client, key)
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if _, err := s.Current(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Current() err = %v, want ErrNoSnapshot", err)
	}

	if err := s.Replace(ctx, testSnapshot("c1")); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := s.Replace(ctx, testSnapshot("c2")); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := s.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.CycleID != "c2" {
		t.Fatalf("cycle = %q, want c2", got.CycleID)
	}
	if want := []string{"Sales", "Legal"}; !reflect.DeepEqual(got.Summary.Keys(), want) {
		t.Fatalf("departments = %v, want %v", got.Summary.Keys(), want)
	}
	sales, _ := got.Summary.Get("Sales")
	if pc, _ := sales.AddressUser.Get("JohnSmith"); pc != "111" || sales.AgeRange != "30-39" {
		t.Fatalf("sales = %+v", sales)
	}
}
