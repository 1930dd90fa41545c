package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	quoteserrors "houseboat/internal/quotes/errors"
	"houseboat/pkg/config"
	mongotx "houseboat/pkg/db/mongo"
	"houseboat/pkg/engine"
	apperrors "houseboat/pkg/errors"
	"houseboat/pkg/logger"
	"houseboat/pkg/model"
	"houseboat/pkg/money"
	"houseboat/pkg/slot"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockFleetRepository struct {
	loadSnapshotFunc         func(ctx context.Context, horizon slot.Interval) (*model.Snapshot, error)
	findUnitFunc             func(ctx context.Context, id string) (*model.ResourceUnit, error)
	findUnitReservationsFunc func(ctx context.Context, unitID string, horizon slot.Interval) ([]model.Reservation, error)
	findSeasonsFunc          func(ctx context.Context) ([]model.TariffSeason, error)
}

func (m *mockFleetRepository) LoadSnapshot(ctx context.Context, horizon slot.Interval) (*model.Snapshot, error) {
	if m.loadSnapshotFunc != nil {
		return m.loadSnapshotFunc(ctx, horizon)
	}
	return &model.Snapshot{}, nil
}

func (m *mockFleetRepository) FindUnit(ctx context.Context, id string) (*model.ResourceUnit, error) {
	if m.findUnitFunc != nil {
		return m.findUnitFunc(ctx, id)
	}
	return &model.ResourceUnit{ID: id}, nil
}

func (m *mockFleetRepository) FindUnitReservations(ctx context.Context, unitID string, horizon slot.Interval) ([]model.Reservation, error) {
	if m.findUnitReservationsFunc != nil {
		return m.findUnitReservationsFunc(ctx, unitID, horizon)
	}
	return nil, nil
}

func (m *mockFleetRepository) FindSeasons(ctx context.Context) ([]model.TariffSeason, error) {
	if m.findSeasonsFunc != nil {
		return m.findSeasonsFunc(ctx)
	}
	return nil, nil
}

func (m *mockFleetRepository) ExecuteSnapshotRead(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

type mockPublisher struct {
	published []*model.QuoteResult
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, result *model.QuoteResult) error {
	m.published = append(m.published, result)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func instant(s string) slot.Instant {
	i, err := slot.Parse(s)
	if err != nil {
		panic(err)
	}
	return i
}

func fleet() *model.Snapshot {
	return &model.Snapshot{
		Classes: []model.ResourceClass{
			{ID: "family", Rates: &model.NightlyRates{Weekday: 22000, Weekend: 28000}},
			{ID: "cabin", Rates: &model.NightlyRates{Weekday: 15000, Weekend: 20000}},
		},
		Units: []model.ResourceUnit{
			{ID: "cabin-1", ClassID: "cabin", OptimalCapacity: 4, MaxCapacity: 6},
			{ID: "cabin-2", ClassID: "cabin", OptimalCapacity: 4, MaxCapacity: 6},
			{ID: "family-1", ClassID: "family", OptimalCapacity: 6, MaxCapacity: 8},
		},
		Reservations: []model.Reservation{
			{ID: "r1", UnitID: "cabin-1", Start: instant("2025-06-10:PM"), End: instant("2025-06-12:AM"), Status: model.StatusConfirmed},
			{ID: "r9", UnitID: "ghost", Start: instant("2025-06-10:PM"), End: instant("2025-06-12:AM"), Status: model.StatusConfirmed},
		},
		Extras: []model.Extra{
			{ID: "fuel", Price: 1000, Mode: model.PerDay},
		},
	}
}

func quoteRequest() *model.QuoteRequest {
	return &model.QuoteRequest{
		Start:          instant("2025-06-11:PM"),
		End:            instant("2025-06-14:AM"),
		GuestCount:     4,
		SelectedExtras: []model.SelectedExtra{{ID: " fuel ", Quantity: 1}},
		Discount:       &model.Discount{Mode: model.DiscountPercent, Value: money.FromUnits(10)},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Log:               logger.Discard(),
		MongoQueryTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockFleetRepository, pub *mockPublisher) *quoteService {
	svc := NewQuoteService(repo, engine.New(engine.DefaultConfig()), pub, testConfig()).(*quoteService)
	svc.newID = func() string { return "quote-1" }
	return svc
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected an AppError, got %v", err)
	}
	return appErr.StatusCode()
}

// ────────────────────────────────────────────────
// Quote
// ────────────────────────────────────────────────

func TestQuote_ComputesAndPublishes(t *testing.T) {
	var horizon slot.Interval
	repo := &mockFleetRepository{
		loadSnapshotFunc: func(ctx context.Context, h slot.Interval) (*model.Snapshot, error) {
			horizon = h
			return fleet(), nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	result, err := svc.Quote(context.Background(), quoteRequest())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	if horizon.Start.String() != "2025-06-11:PM" || horizon.End.String() != "2025-06-14:AM" {
		t.Errorf("snapshot horizon = %s", horizon)
	}
	if result.ID != "quote-1" {
		t.Errorf("ID = %q", result.ID)
	}
	if result.Outcome != model.OutcomeFound || len(result.Candidates) != 2 {
		t.Fatalf("result = %+v", result)
	}
	if got := result.Candidates[0].Breakdown.Total; got != 54540 {
		t.Errorf("cabin total = %d, want 54540", got)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].ReservationID != "r9" {
		t.Errorf("warnings = %+v", result.Warnings)
	}
	if len(pub.published) != 1 || pub.published[0].ID != "quote-1" {
		t.Errorf("published = %+v", pub.published)
	}
}

func TestQuote_PublishFailureDoesNotFailQuote(t *testing.T) {
	repo := &mockFleetRepository{
		loadSnapshotFunc: func(context.Context, slot.Interval) (*model.Snapshot, error) { return fleet(), nil },
	}
	svc := newTestService(repo, &mockPublisher{err: errors.New("broker down")})

	if _, err := svc.Quote(context.Background(), quoteRequest()); err != nil {
		t.Fatalf("Quote: %v", err)
	}
}

func TestQuote_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        func() *model.QuoteRequest
		loadErr    error
		wantStatus int
		wantLoad   bool
	}{
		{
			name:       "nil request",
			req:        func() *model.QuoteRequest { return nil },
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "end before start is rejected without reading",
			req: func() *model.QuoteRequest {
				r := quoteRequest()
				r.Start, r.End = r.End, r.Start
				return r
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown extra",
			req: func() *model.QuoteRequest {
				r := quoteRequest()
				r.SelectedExtras = []model.SelectedExtra{{ID: "jacuzzi", Quantity: 1}}
				return r
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantLoad:   true,
		},
		{
			name: "no guests",
			req: func() *model.QuoteRequest {
				r := quoteRequest()
				r.GuestCount = 0
				return r
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantLoad:   true,
		},
		{
			name:       "snapshot unavailable",
			req:        quoteRequest,
			loadErr:    fmt.Errorf("%w: no primary", quoteserrors.ErrSnapshotUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantLoad:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded := false
			repo := &mockFleetRepository{
				loadSnapshotFunc: func(context.Context, slot.Interval) (*model.Snapshot, error) {
					loaded = true
					if tt.loadErr != nil {
						return nil, tt.loadErr
					}
					return fleet(), nil
				},
			}
			pub := &mockPublisher{}
			svc := newTestService(repo, pub)

			_, err := svc.Quote(context.Background(), tt.req())
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := statusOf(t, err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d (%v)", got, tt.wantStatus, err)
			}
			if loaded != tt.wantLoad {
				t.Errorf("snapshot loaded = %v, want %v", loaded, tt.wantLoad)
			}
			if len(pub.published) != 0 {
				t.Error("failed quotes must not be published")
			}
		})
	}
}

func TestSanitize_MergesExtras(t *testing.T) {
	svc := newTestService(&mockFleetRepository{}, &mockPublisher{})
	req := &model.QuoteRequest{SelectedExtras: []model.SelectedExtra{
		{ID: " fuel", Quantity: 1},
		{ID: "linen", Quantity: 2},
		{ID: "fuel ", Quantity: 3},
	}}

	svc.sanitize(req)

	if len(req.SelectedExtras) != 2 {
		t.Fatalf("extras = %+v", req.SelectedExtras)
	}
	if req.SelectedExtras[0] != (model.SelectedExtra{ID: "fuel", Quantity: 4}) {
		t.Errorf("first = %+v", req.SelectedExtras[0])
	}
	if req.SelectedExtras[1] != (model.SelectedExtra{ID: "linen", Quantity: 2}) {
		t.Errorf("second = %+v", req.SelectedExtras[1])
	}
}

func TestNormalizeSnapshot(t *testing.T) {
	snap := &model.Snapshot{
		Extras: []model.Extra{
			{ID: "fuel"},
			{ID: "grill", ClassIDs: []string{" family", "family ", "cabin"}},
			{ID: "odd", ClassIDs: []string{" ", "\t"}},
		},
		Seasons: []model.TariffSeason{{ID: "summer", Name: " High\n  Summer "}},
	}

	normalizeSnapshot(snap)

	if snap.Extras[0].ClassIDs != nil {
		t.Errorf("unrestricted extra gained classes: %v", snap.Extras[0].ClassIDs)
	}
	if got := snap.Extras[1].ClassIDs; len(got) != 2 || got[0] != "family" || got[1] != "cabin" {
		t.Errorf("grill classes = %q", got)
	}
	if got := snap.Extras[2].ClassIDs; len(got) != 2 {
		t.Errorf("a list that sanitizes to nothing must be kept, got %q", got)
	}
	if snap.Seasons[0].Name != "High Summer" {
		t.Errorf("season name = %q", snap.Seasons[0].Name)
	}
}

// ────────────────────────────────────────────────
// UnitAvailability
// ────────────────────────────────────────────────

func TestUnitAvailability(t *testing.T) {
	iv := slot.Interval{Start: instant("2025-06-11:AM"), End: instant("2025-06-13:AM")}
	repo := &mockFleetRepository{
		findUnitReservationsFunc: func(ctx context.Context, unitID string, h slot.Interval) ([]model.Reservation, error) {
			if unitID != "cabin-1" {
				t.Errorf("unit = %q", unitID)
			}
			return fleet().Reservations[:1], nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	status, err := svc.UnitAvailability(context.Background(), " cabin-1 ", iv)
	if err != nil {
		t.Fatalf("UnitAvailability: %v", err)
	}
	if status.Available || len(status.Conflicts) != 1 || status.Conflicts[0] != "r1" {
		t.Errorf("status = %+v", status)
	}
}

func TestUnitAvailability_Errors(t *testing.T) {
	iv := slot.Interval{Start: instant("2025-06-11:AM"), End: instant("2025-06-13:AM")}

	tests := []struct {
		name       string
		unitID     string
		iv         slot.Interval
		findErr    error
		resErr     error
		wantStatus int
	}{
		{name: "empty id", unitID: "  ", iv: iv, wantStatus: http.StatusBadRequest},
		{name: "empty interval", unitID: "cabin-1", iv: slot.Interval{Start: iv.Start, End: iv.Start}, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown unit", unitID: "cabin-9", iv: iv, findErr: fmt.Errorf("%w: cabin-9", quoteserrors.ErrUnitNotFound), wantStatus: http.StatusNotFound},
		{name: "unit lookup fails", unitID: "cabin-1", iv: iv, findErr: errors.New("socket closed"), wantStatus: http.StatusInternalServerError},
		{name: "reservation lookup fails", unitID: "cabin-1", iv: iv, resErr: errors.New("socket closed"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockFleetRepository{
				findUnitFunc: func(ctx context.Context, id string) (*model.ResourceUnit, error) {
					if tt.findErr != nil {
						return nil, tt.findErr
					}
					return &model.ResourceUnit{ID: id}, nil
				},
				findUnitReservationsFunc: func(context.Context, string, slot.Interval) ([]model.Reservation, error) {
					return nil, tt.resErr
				},
			}
			svc := newTestService(repo, &mockPublisher{})

			_, err := svc.UnitAvailability(context.Background(), tt.unitID, tt.iv)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := statusOf(t, err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

// ────────────────────────────────────────────────
// SeasonLabel
// ────────────────────────────────────────────────

func TestSeasonLabel(t *testing.T) {
	repo := &mockFleetRepository{
		findSeasonsFunc: func(context.Context) ([]model.TariffSeason, error) {
			return []model.TariffSeason{
				{ID: "winter", Name: "  Winter\tBreak ", Periods: []model.SeasonPeriod{{StartMonth: 12, StartDay: 20, EndMonth: 1, EndDay: 5}}},
			}, nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	label, err := svc.SeasonLabel(context.Background(), time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SeasonLabel: %v", err)
	}
	if label != "Winter Break" {
		t.Errorf("label = %q", label)
	}

	if _, err := svc.SeasonLabel(context.Background(), time.Time{}); statusOf(t, err) != http.StatusBadRequest {
		t.Errorf("zero date: %v", err)
	}

	repo.findSeasonsFunc = func(context.Context) ([]model.TariffSeason, error) { return nil, errors.New("down") }
	if _, err := svc.SeasonLabel(context.Background(), time.Now()); statusOf(t, err) != http.StatusInternalServerError {
		t.Errorf("repository failure: %v", err)
	}
}
