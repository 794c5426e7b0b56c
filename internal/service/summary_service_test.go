package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"go.uber.org/zap"

	"github.com/spec-kit/department-summary/internal/aggregate"
	"github.com/spec-kit/department-summary/internal/domain"
	"github.com/spec-kit/department-summary/internal/events"
	"github.com/spec-kit/department-summary/internal/observability"
	"github.com/spec-kit/department-summary/internal/source/mocks"
	"github.com/spec-kit/department-summary/internal/store"
	apperrors "github.com/spec-kit/department-summary/pkg/util"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func testUser(id int, dept, gender string, age int, hair, first, last, postal string) domain.UserRecord {
	return domain.UserRecord{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Gender:    gender,
		Age:       age,
		Hair:      &domain.Hair{Color: domain.StringPtr(hair)},
		Company: &domain.Company{
			Department: domain.StringPtr(dept),
			Address:    &domain.Address{PostalCode: domain.StringPtr(postal)},
		},
	}
}

type harness struct {
	fetcher *mocks.MockFetcher
	store   *store.MemoryStore
	events  []events.Event
	svc     *SummaryService
}

func newHarness(t *testing.T, policy aggregate.Policy) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		fetcher: mocks.NewMockFetcher(ctrl),
		store:   store.NewMemoryStore(),
	}
	h.fetcher.EXPECT().Name().Return("mock").AnyTimes()

	dispatcher := events.NewInMemoryDispatcher()
	record := func(_ context.Context, e events.Event) error {
		h.events = append(h.events, e)
		return nil
	}
	dispatcher.Subscribe(events.EventSummaryRefreshed, record)
	dispatcher.Subscribe(events.EventFetchFailed, record)
	dispatcher.Subscribe(events.EventBatchRejected, record)

	h.svc = NewSummaryService(SummaryDependencies{
		Fetcher:    h.fetcher,
		Store:      h.store,
		Policy:     policy,
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
		Now:        func() time.Time { return fixedNow },
	})
	return h
}

func TestSummaryService_RefreshPublishesSnapshot(t *testing.T) {
	h := newHarness(t, aggregate.PolicySkip)
	broken := testUser(3, "Sales", "male", 50, "Gray", "No", "Hair", "0")
	broken.Hair = nil
	h.fetcher.EXPECT().FetchUsers(gomock.Any()).Return([]domain.UserRecord{
		testUser(1, "Engineering", "female", 23, "Black", "Ana", "Lee", "90210"),
		testUser(2, "Engineering", "male", 57, "Brown", "John", "Smith", "111"),
		broken,
	}, nil)

	snap, err := h.svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if snap.CycleID == "" || snap.Source != "mock" || !snap.FetchedAt.Equal(fixedNow) {
		t.Fatalf("snapshot metadata = %+v", snap)
	}
	if snap.Records != 3 || len(snap.Skipped) != 1 || snap.Skipped[0].ID != 3 {
		t.Fatalf("records=%d skipped=%+v", snap.Records, snap.Skipped)
	}
	eng, ok := snap.Summary.Get("Engineering")
	if !ok || eng.Male != 1 || eng.Female != 1 || eng.AgeRange != "20-29" {
		t.Fatalf("engineering = %+v", eng)
	}

	current, err := h.svc.Current(context.Background())
	if err != nil || current != snap {
		t.Fatalf("Current() = %v, %v", current, err)
	}

	if len(h.events) != 1 || h.events[0].Type != events.EventSummaryRefreshed || h.events[0].CycleID != snap.CycleID {
		t.Fatalf("events = %+v", h.events)
	}
}

func TestSummaryService_FetchFailureKeepsPreviousSnapshot(t *testing.T) {
	h := newHarness(t, aggregate.PolicySkip)
	gomock.InOrder(
		h.fetcher.EXPECT().FetchUsers(gomock.Any()).Return([]domain.UserRecord{
			testUser(1, "Sales", "male", 34, "Red", "A", "B", "1"),
		}, nil),
		h.fetcher.EXPECT().FetchUsers(gomock.Any()).Return(nil, errors.New("connection refused")),
	)

	first, err := h.svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("first Refresh: %v", err)
	}

	_, err = h.svc.Refresh(context.Background())
	de := apperrors.ToDomainError(err)
	if de == nil || de.Code != "UPSTREAM_FAILED" || de.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("err = %v", err)
	}

	current, _ := h.svc.Current(context.Background())
	if current != first {
		t.Fatal("failed cycle must not replace the snapshot")
	}
	if last := h.events[len(h.events)-1]; last.Type != events.EventFetchFailed {
		t.Fatalf("last event = %s", last.Type)
	}
}

func TestSummaryService_RejectPolicy(t *testing.T) {
	h := newHarness(t, aggregate.PolicyReject)
	broken := testUser(8, "Legal", "male", 50, "Gray", "No", "Hair", "0")
	broken.Hair = nil
	h.fetcher.EXPECT().FetchUsers(gomock.Any()).Return([]domain.UserRecord{
		testUser(1, "Legal", "female", 30, "Black", "A", "B", "1"),
		broken,
	}, nil)

	_, err := h.svc.Refresh(context.Background())
	de := apperrors.ToDomainError(err)
	if de.Code != "MALFORMED_RECORD" || de.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("err = %v", err)
	}
	if de.Details["index"] != 1 || de.Details["id"] != 8 {
		t.Fatalf("details = %v", de.Details)
	}
	if !errors.Is(err, aggregate.ErrMalformedRecord) {
		t.Fatal("expected ErrMalformedRecord in chain")
	}
	if _, err := h.store.Current(context.Background()); !errors.Is(err, store.ErrNoSnapshot) {
		t.Fatal("rejected batch must not be stored")
	}
	if len(h.events) != 1 || h.events[0].Type != events.EventBatchRejected {
		t.Fatalf("events = %+v", h.events)
	}
}

func TestSummaryService_CanceledCycleSkipsAggregation(t *testing.T) {
	h := newHarness(t, aggregate.PolicySkip)
	ctx, cancel := context.WithCancel(context.Background())
	h.fetcher.EXPECT().FetchUsers(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.UserRecord, error) {
		cancel()
		return []domain.UserRecord{testUser(1, "Sales", "male", 34, "Red", "A", "B", "1")}, nil
	})

	_, err := h.svc.Refresh(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := h.store.Current(context.Background()); !errors.Is(err, store.ErrNoSnapshot) {
		t.Fatal("canceled cycle must not publish")
	}
	if len(h.events) != 0 {
		t.Fatalf("events = %+v", h.events)
	}
}

func TestSummaryService_CurrentBeforeFirstCycle(t *testing.T) {
	h := newHarness(t, aggregate.PolicySkip)
	_, err := h.svc.Current(context.Background())
	if de := apperrors.ToDomainError(err); de.Code != "SUMMARY_UNAVAILABLE" || de.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("err = %v", err)
	}
}

func TestSummaryService_Department(t *testing.T) {
	h := newHarness(t, aggregate.PolicySkip)
	h.fetcher.EXPECT().FetchUsers(gomock.Any()).Return([]domain.UserRecord{
		testUser(1, "Support", "male", 41, "Blond", "Tom", "Ek", "55"),
	}, nil)
	if _, err := h.svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	dept, err := h.svc.Department(context.Background(), "Support")
	if err != nil || dept.AgeRange != "40-49" {
		t.Fatalf("Department() = %+v, %v", dept, err)
	}

	_, err = h.svc.Department(context.Background(), "Nope")
	if de := apperrors.ToDomainError(err); de.Code != "NOT_FOUND" {
		t.Fatalf("err = %v", err)
	}
}

func TestSummaryService_EmptySkippedEncodesAsList(t *testing.T) {
	h := newHarness(t, aggregate.PolicySkip)
	h.fetcher.EXPECT().FetchUsers(gomock.Any()).Return(nil, nil)

	snap, err := h.svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if snap.Skipped == nil || snap.Summary.Len() != 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
}
