package fleet

import (
	"context"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/shopspring/decimal"
)

// VehicleReport totals one vehicle's activity over a period.
type VehicleReport struct {
	VehicleID         string    `json:"vehicleId"`
	Plate             string    `json:"plate"`
	Model             string    `json:"model"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	TotalKm           float64   `json:"totalKm"`
	TotalFuel         float64   `json:"totalFuel"`
	TotalLiters       float64   `json:"totalLiters"`
	TotalMaintenance  float64   `json:"totalMaintenance"`
	RoutesCount       int       `json:"routesCount"`
	RefuelsCount      int       `json:"refuelsCount"`
	MaintenancesCount int       `json:"maintenancesCount"`
}

// ReportVehicle builds the period report of a vehicle the actor may see.
// Routes are placed by reference date like the monthly closing.
func (s *Service) ReportVehicle(ctx context.Context, actor models.Actor, vehicleID string, from, to time.Time) (*VehicleReport, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, ErrInvalidInput
	}
	v, err := s.GetVehicle(ctx, actor, vehicleID)
	if err != nil {
		return nil, err
	}
	period := db.Period{From: from, To: to}

	routes, err := s.routes.FindRoutes(ctx, db.RouteFilter{VehicleID: vehicleID, Period: period})
	if err != nil {
		return nil, s.storeErr("find routes", err, nil)
	}
	refuelings, err := s.refuelings.FindRefuelings(ctx, db.RefuelingFilter{VehicleID: vehicleID, Period: period})
	if err != nil {
		return nil, s.storeErr("find refuelings", err, nil)
	}
	maintenances, err := s.maintenances.FindMaintenances(ctx, db.MaintenanceFilter{VehicleID: vehicleID, Period: period})
	if err != nil {
		return nil, s.storeErr("find maintenances", err, nil)
	}

	km, fuel, liters, maint := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i := range routes {
		km = km.Add(decimal.NewFromFloat(routes[i].Distance()))
	}
	for _, r := range refuelings {
		fuel = fuel.Add(decimal.NewFromFloat(r.Total))
		liters = liters.Add(decimal.NewFromFloat(r.Liters))
	}
	for _, m := range maintenances {
		maint = maint.Add(decimal.NewFromFloat(m.Cost))
	}

	return &VehicleReport{
		VehicleID:         vehicleID,
		Plate:             v.Plate,
		Model:             v.Model,
		From:              from,
		To:                to,
		TotalKm:           km.Round(2).InexactFloat64(),
		TotalFuel:         fuel.Round(2).InexactFloat64(),
		TotalLiters:       liters.Round(2).InexactFloat64(),
		TotalMaintenance:  maint.Round(2).InexactFloat64(),
		RoutesCount:       len(routes),
		RefuelsCount:      len(refuelings),
		MaintenancesCount: len(maintenances),
	}, nil
}
