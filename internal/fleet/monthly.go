package fleet

import (
	"context"

	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CloseMonth recomputes the summary of a calendar month from live data and
// overwrites any previous snapshot for that month.
func (s *Service) CloseMonth(ctx context.Context, actor models.Actor, year, month int) (*models.MonthlySummary, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if month < 1 || month > 12 || year < 1 {
		return nil, ErrInvalidMonth
	}
	start, end := models.MonthRange(year, month, s.loc)
	period := db.Period{From: start, To: end}

	routes, err := s.routes.FindRoutes(ctx, db.RouteFilter{Period: period})
	if err != nil {
		return nil, s.storeErr("find routes", err, nil)
	}
	refuelings, err := s.refuelings.FindRefuelings(ctx, db.RefuelingFilter{Period: period})
	if err != nil {
		return nil, s.storeErr("find refuelings", err, nil)
	}
	maintenances, err := s.maintenances.FindMaintenances(ctx, db.MaintenanceFilter{Period: period})
	if err != nil {
		return nil, s.storeErr("find maintenances", err, nil)
	}
	if len(routes) == 0 && len(refuelings) == 0 && len(maintenances) == 0 {
		return nil, ErrNoDataForMonth
	}

	summary := Summarize(year, month, routes, refuelings, maintenances)
	summary.CreatedAt = s.now()
	if err := s.summaries.UpsertSummary(ctx, summary); err != nil {
		return nil, s.storeErr("upsert summary", err, nil)
	}

	s.log.WithFields(logrus.Fields{
		"month_key":    summary.MonthKey,
		"total_km":     summary.TotalKm,
		"total_fuel":   summary.TotalFuel,
		"total_maint":  summary.TotalMaintenance,
		"routes":       summary.RoutesCount,
		"refuelings":   summary.RefuelsCount,
		"maintenances": summary.MaintenancesCount,
		"actor_id":     actor.ID,
	}).Info("month closed")
	s.publish(ctx, models.Event{
		Type:     models.EventMonthClosed,
		EntityID: summary.MonthKey,
		ActorID:  actor.ID,
	})
	return &summary, nil
}

// CloseCurrentMonth closes the month containing now in the configured zone.
func (s *Service) CloseCurrentMonth(ctx context.Context, actor models.Actor) (*models.MonthlySummary, error) {
	now := s.now().In(s.loc)
	return s.CloseMonth(ctx, actor, now.Year(), int(now.Month()))
}

// Summarize folds the records of one month into a snapshot. The records are
// expected to be already selected for the month. CreatedAt is left zero.
func Summarize(year, month int, routes []models.Route, refuelings []models.Refueling, maintenances []models.Maintenance) models.MonthlySummary {
	totalKm := decimal.Zero
	moved := map[string]bool{}
	for i := range routes {
		d := routes[i].Distance()
		if d == 0 {
			continue
		}
		totalKm = totalKm.Add(decimal.NewFromFloat(d))
		moved[routes[i].VehicleID] = true
	}

	fuel := decimal.Zero
	for _, r := range refuelings {
		fuel = fuel.Add(decimal.NewFromFloat(r.Total))
	}
	maint := decimal.Zero
	for _, m := range maintenances {
		maint = maint.Add(decimal.NewFromFloat(m.Cost))
	}

	avg := decimal.Zero
	if len(moved) > 0 {
		avg = totalKm.Div(decimal.NewFromInt(int64(len(moved))))
	}

	key := models.MonthKey(year, month)
	return models.MonthlySummary{
		MonthKey:          key,
		Key:               key,
		Year:              year,
		Month:             month,
		TotalKm:           totalKm.Round(2).InexactFloat64(),
		TotalFuel:         fuel.Round(2).InexactFloat64(),
		TotalMaintenance:  maint.Round(2).InexactFloat64(),
		AvgKmPerVehicle:   avg.Round(2).InexactFloat64(),
		VehiclesWithMoves: len(moved),
		RoutesCount:       len(routes),
		RefuelsCount:      len(refuelings),
		MaintenancesCount: len(maintenances),
	}
}

// GetSummary reads a closed month snapshot by YYYY-MM key.
func (s *Service) GetSummary(ctx context.Context, monthKey string) (*models.MonthlySummary, error) {
	if _, _, err := models.ParseMonthKey(monthKey); err != nil {
		return nil, ErrInvalidMonth
	}
	summary, err := s.summaries.FindSummary(ctx, monthKey)
	if err != nil {
		return nil, s.storeErr("find summary", err, ErrMissingSummary)
	}
	return summary, nil
}

// ListSummaries returns every closed month, newest first.
func (s *Service) ListSummaries(ctx context.Context) ([]models.MonthlySummary, error) {
	summaries, err := s.summaries.FindSummaries(ctx)
	if err != nil {
		return nil, s.storeErr("find summaries", err, nil)
	}
	return summaries, nil
}
