package models

import (
	"fmt"
	"time"
)

// MonthlySummary is the persisted snapshot of a monthly closing. The month
// key doubles as the document id.
type MonthlySummary struct {
	MonthKey          string    `json:"monthKey" bson:"_id"`
	Key               string    `json:"-" bson:"monthKey"`
	Year              int       `json:"year" bson:"year"`
	Month             int       `json:"month" bson:"month"`
	TotalKm           float64   `json:"totalKmRodado" bson:"totalKmRodado"`
	TotalFuel         float64   `json:"totalCombustivel" bson:"totalCombustivel"`
	TotalMaintenance  float64   `json:"totalManutencao" bson:"totalManutencao"`
	AvgKmPerVehicle   float64   `json:"kmMedioPorVeiculo" bson:"kmMedioPorVeiculo"`
	VehiclesWithMoves int       `json:"vehiclesWithMovement" bson:"vehiclesWithMovement"`
	RoutesCount       int       `json:"routesCount" bson:"routesCount"`
	RefuelsCount      int       `json:"refuelsCount" bson:"refuelsCount"`
	MaintenancesCount int       `json:"maintenancesCount" bson:"maintenancesCount"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
}

// MonthKey formats a year and 1-based month as YYYY-MM.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey splits a YYYY-MM key.
func ParseMonthKey(key string) (year, month int, err error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q", key)
	}
	return t.Year(), int(t.Month()), nil
}

// MonthRange returns the [start, end) bounds of a calendar month in loc.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
