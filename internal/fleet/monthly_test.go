package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEndToEndScenario(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	ctx := context.Background()
	vid := seedVehicle(store, 1000, models.VehicleAvailable)
	did := seedDriver(store)

	route, err := svc.StartRoute(ctx, ana, StartRouteInput{VehicleID: vid, DriverID: did})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, route.StartKm)
	assert.Equal(t, models.VehicleOnRoute, store.vehicles[vid].Status)
	assert.Equal(t, 1000.0, store.vehicles[vid].Km())

	route, err = svc.FinishRoute(ctx, ana, route.ID.Hex(), FinishRouteInput{EndKm: km(1150)})
	require.NoError(t, err)
	assert.Equal(t, 150.0, *route.DistanceKm)
	assert.Equal(t, models.VehicleAvailable, store.vehicles[vid].Status)
	assert.Equal(t, 1150.0, store.vehicles[vid].Km())

	refuel, err := svc.RecordRefueling(ctx, ana, RefuelingInput{VehicleID: vid, OdometerKm: 1160, Liters: 40, PricePerLiter: 5.00})
	require.NoError(t, err)
	assert.Equal(t, 200.0, refuel.Total)
	assert.Equal(t, 1160.0, store.vehicles[vid].Km())

	summary, err := svc.CloseMonth(ctx, admin, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", summary.MonthKey)
	assert.Equal(t, 150.0, summary.TotalKm)
	assert.Equal(t, 200.0, summary.TotalFuel)
	assert.Equal(t, 0.0, summary.TotalMaintenance)
	assert.Equal(t, 150.0, summary.AvgKmPerVehicle)
	assert.Equal(t, 1, summary.VehiclesWithMoves)
	assert.Equal(t, 1, summary.RoutesCount)
	assert.Equal(t, 1, summary.RefuelsCount)
	assert.Equal(t, 0, summary.MaintenancesCount)

	stored := store.summaries["2024-03"]
	assert.Equal(t, "2024-03", stored.Key)
	assert.Equal(t, fixedNow, stored.CreatedAt)
}

func TestCloseMonth_MonthBoundariesInLocalTime(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	ctx := context.Background()

	// 23:00 on 31 March in Sao Paulo is already April in UTC
	lateMarch := time.Date(2024, 4, 1, 2, 0, 0, 0, time.UTC)
	febStart := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	lateFeb := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)

	// started in February, finished in March: counted in March
	store.routes["r1"] = models.Route{VehicleID: "v1", StartKm: 100, EndKm: km(160), StartAt: febStart, EndAt: &lateMarch, Status: models.RouteFinished}
	// still running, placed by its start date
	store.routes["r2"] = models.Route{VehicleID: "v2", StartKm: 500, StartAt: febStart, Status: models.RouteInProgress}
	store.refuelings["f1"] = models.Refueling{VehicleID: "v1", Date: lateFeb, Total: 99.99}
	store.refuelings["f2"] = models.Refueling{VehicleID: "v1", Date: lateMarch, Total: 10.10}

	summary, err := svc.CloseMonth(ctx, admin, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 60.0, summary.TotalKm)
	assert.Equal(t, 10.10, summary.TotalFuel)
	assert.Equal(t, 1, summary.RoutesCount)
	assert.Equal(t, 1, summary.RefuelsCount)

	feb, err := svc.CloseMonth(ctx, admin, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, feb.TotalKm)
	assert.Equal(t, 0.0, feb.AvgKmPerVehicle)
	assert.Equal(t, 0, feb.VehiclesWithMoves)
	assert.Equal(t, 1, feb.RoutesCount)
	assert.Equal(t, 99.99, feb.TotalFuel)
}

func TestSummarize(t *testing.T) {
	end := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	routes := []models.Route{
		{VehicleID: "v1", StartKm: 0, EndKm: km(100.5), EndAt: &end, Status: models.RouteFinished},
		{VehicleID: "v1", StartKm: 100.5, DistanceKm: km(50), Status: models.RouteFinished},
		{VehicleID: "v2", StartKm: 0, EndKm: km(75.25), Status: models.RouteFinished},
		// cancelled routes count but never add distance
		{VehicleID: "v3", StartKm: 10, EndKm: km(90), Status: models.RouteCancelled},
	}
	refuelings := []models.Refueling{{Total: 0.1}, {Total: 0.2}}
	maintenances := []models.Maintenance{{Cost: 100.10}, {Cost: 49.95}}

	s := Summarize(2024, 5, routes, refuelings, maintenances)
	assert.Equal(t, "2024-05", s.MonthKey)
	assert.Equal(t, 2024, s.Year)
	assert.Equal(t, 5, s.Month)
	assert.Equal(t, 225.75, s.TotalKm)
	assert.Equal(t, 0.3, s.TotalFuel)
	assert.Equal(t, 150.05, s.TotalMaintenance)
	assert.Equal(t, 2, s.VehiclesWithMoves)
	assert.Equal(t, 112.88, s.AvgKmPerVehicle)
	assert.Equal(t, 4, s.RoutesCount)
	assert.Equal(t, 2, s.RefuelsCount)
	assert.Equal(t, 2, s.MaintenancesCount)
	assert.True(t, s.CreatedAt.IsZero())
}

func TestCloseMonth_RecomputeOverwrites(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	ctx := context.Background()
	date := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	store.refuelings["f1"] = models.Refueling{Date: date, Total: 100}

	first, err := svc.CloseMonth(ctx, admin, 2024, 3)
	require.NoError(t, err)

	later := fixedNow.Add(time.Hour)
	svc.now = func() time.Time { return later }
	second, err := svc.CloseMonth(ctx, admin, 2024, 3)
	require.NoError(t, err)

	assert.Equal(t, later, second.CreatedAt)
	second.CreatedAt = first.CreatedAt
	assert.Equal(t, *first, *second)

	store.maintenances["m1"] = models.Maintenance{Date: date, Cost: 40}
	third, err := svc.CloseMonth(ctx, admin, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 40.0, third.TotalMaintenance)
	assert.Len(t, store.summaries, 1)
	assert.Equal(t, 40.0, store.summaries["2024-03"].TotalMaintenance)
}

func TestCloseMonth_Guards(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.CloseMonth(ctx, admin, 2024, 3)
	assert.ErrorIs(t, err, ErrNoDataForMonth)
	assert.Empty(t, store.summaries)

	_, err = svc.CloseMonth(ctx, ana, 2024, 3)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CloseMonth(ctx, admin, 2024, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = svc.CloseMonth(ctx, admin, 2024, 0)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestCloseCurrentMonth(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	pub := new(MockPublisher)
	svc.events = pub
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e models.Event) bool {
		return e.Type == models.EventMonthClosed && e.EntityID == "2024-03"
	})).Return(nil)

	store.maintenances["m1"] = models.Maintenance{Date: fixedNow, Cost: 12.5}
	summary, err := svc.CloseCurrentMonth(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", summary.MonthKey)
	pub.AssertExpectations(t)
}

func TestGetSummary(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	store.summaries["2024-02"] = models.MonthlySummary{MonthKey: "2024-02", TotalKm: 10}
	store.summaries["2024-03"] = models.MonthlySummary{MonthKey: "2024-03", TotalKm: 20}
	ctx := context.Background()

	s, err := svc.GetSummary(ctx, "2024-03")
	require.NoError(t, err)
	assert.Equal(t, 20.0, s.TotalKm)

	_, err = svc.GetSummary(ctx, "2024-04")
	assert.ErrorIs(t, err, ErrMissingSummary)
	_, err = svc.GetSummary(ctx, "march")
	assert.ErrorIs(t, err, ErrInvalidMonth)

	all, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2024-03", all[0].MonthKey)
}
