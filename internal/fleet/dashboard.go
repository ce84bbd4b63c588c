package fleet

import (
	"context"
	"sort"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/shopspring/decimal"
)

const (
	dashboardListSize = 5
	dashboardMonths   = 12
)

// VehicleCounts breaks the visible fleet down by status.
type VehicleCounts struct {
	Total       int `json:"total"`
	Available   int `json:"disponivel"`
	OnRoute     int `json:"emRota"`
	Maintenance int `json:"manutencao"`
}

// MonthTotals is the spend of one calendar month.
type MonthTotals struct {
	MonthKey    string  `json:"monthKey"`
	Fuel        float64 `json:"fuelTotal"`
	Maintenance float64 `json:"maintTotal"`
}

// Dashboard is the landing overview. Admins see the whole fleet and users
// see the vehicles and records they are responsible for.
type Dashboard struct {
	Vehicles              VehicleCounts        `json:"vehicles"`
	ActiveRoutesCount     int                  `json:"activeRoutesCount"`
	ActiveRoutes          []models.Route       `json:"activeRoutes"`
	OpenMaintenancesCount int                  `json:"openMaintenancesCount"`
	OpenMaintenances      []models.Maintenance `json:"openMaintenances"`
	RecentRefuelings      []models.Refueling   `json:"recentRefuelings"`
	MonthKey              string               `json:"monthKey"`
	MonthFuel             float64              `json:"monthFuel"`
	MonthMaintenance      float64              `json:"monthMaintenance"`
	Monthly               []MonthTotals        `json:"monthly"`
}

// Dashboard builds the overview for the month containing now. Monthly covers
// the last twelve months that have any spend, oldest first.
func (s *Service) Dashboard(ctx context.Context, actor models.Actor) (*Dashboard, error) {
	vehicles, err := s.ListVehicles(ctx, actor)
	if err != nil {
		return nil, err
	}
	owner := ""
	if !actor.IsAdmin() {
		owner = actor.ID
	}

	routes, err := s.routes.FindRoutes(ctx, db.RouteFilter{ResponsibleUserID: owner, Status: models.RouteInProgress})
	if err != nil {
		return nil, s.storeErr("find routes", err, nil)
	}
	open, err := s.maintenances.FindMaintenances(ctx, db.MaintenanceFilter{ResponsibleUserID: owner, Status: models.MaintenanceInProgress})
	if err != nil {
		return nil, s.storeErr("find maintenances", err, nil)
	}

	now := s.now().In(s.loc)
	monthStart, monthEnd := models.MonthRange(now.Year(), int(now.Month()), s.loc)
	window := db.Period{From: monthStart.AddDate(0, 1-dashboardMonths, 0), To: monthEnd}
	refuelings, err := s.refuelings.FindRefuelings(ctx, db.RefuelingFilter{ResponsibleUserID: owner, Period: window})
	if err != nil {
		return nil, s.storeErr("find refuelings", err, nil)
	}
	maintenances, err := s.maintenances.FindMaintenances(ctx, db.MaintenanceFilter{ResponsibleUserID: owner, Period: window})
	if err != nil {
		return nil, s.storeErr("find maintenances", err, nil)
	}

	d := &Dashboard{
		Vehicles:              countVehicles(vehicles),
		ActiveRoutesCount:     len(routes),
		ActiveRoutes:          newestRoutes(routes, dashboardListSize),
		OpenMaintenancesCount: len(open),
		OpenMaintenances:      head(open, dashboardListSize),
		MonthKey:              models.MonthKey(now.Year(), int(now.Month())),
		RecentRefuelings:      []models.Refueling{},
	}

	current := db.Period{From: monthStart, To: monthEnd}
	for _, r := range refuelings {
		if current.Contains(r.Date) && len(d.RecentRefuelings) < dashboardListSize {
			d.RecentRefuelings = append(d.RecentRefuelings, r)
		}
	}

	d.Monthly = s.monthlyTotals(refuelings, maintenances)
	for _, m := range d.Monthly {
		if m.MonthKey == d.MonthKey {
			d.MonthFuel = m.Fuel
			d.MonthMaintenance = m.Maintenance
		}
	}
	return d, nil
}

func countVehicles(vehicles []models.Vehicle) VehicleCounts {
	c := VehicleCounts{Total: len(vehicles)}
	for _, v := range vehicles {
		switch v.Status {
		case models.VehicleOnRoute:
			c.OnRoute++
		case models.VehicleMaintenance:
			c.Maintenance++
		default:
			c.Available++
		}
	}
	return c
}

func newestRoutes(routes []models.Route, n int) []models.Route {
	sorted := append([]models.Route(nil), routes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartAt.After(sorted[j].StartAt) })
	return head(sorted, n)
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return append([]T{}, items...)
}

// monthlyTotals groups spend by YYYY-MM in the configured zone.
func (s *Service) monthlyTotals(refuelings []models.Refueling, maintenances []models.Maintenance) []MonthTotals {
	type sums struct{ fuel, maint decimal.Decimal }
	byMonth := map[string]*sums{}
	bucket := func(t time.Time) *sums {
		t = t.In(s.loc)
		key := models.MonthKey(t.Year(), int(t.Month()))
		b, ok := byMonth[key]
		if !ok {
			b = &sums{fuel: decimal.Zero, maint: decimal.Zero}
			byMonth[key] = b
		}
		return b
	}
	for _, r := range refuelings {
		b := bucket(r.Date)
		b.fuel = b.fuel.Add(decimal.NewFromFloat(r.Total))
	}
	for _, m := range maintenances {
		b := bucket(m.Date)
		b.maint = b.maint.Add(decimal.NewFromFloat(m.Cost))
	}

	out := make([]MonthTotals, 0, len(byMonth))
	for key, b := range byMonth {
		out = append(out, MonthTotals{
			MonthKey:    key,
			Fuel:        b.fuel.Round(2).InexactFloat64(),
			Maintenance: b.maint.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthKey < out[j].MonthKey })
	return out
}
