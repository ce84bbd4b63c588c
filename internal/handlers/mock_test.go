package handlers

import (
	"context"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/fleet"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockFleet is a mock implementation of FleetService
type MockFleet struct {
	mock.Mock
}

func (m *MockFleet) CreateVehicle(ctx context.Context, actor models.Actor, in fleet.VehicleInput) (*models.Vehicle, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockFleet) GetVehicle(ctx context.Context, actor models.Actor, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockFleet) ListVehicles(ctx context.Context, actor models.Actor) ([]models.Vehicle, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockFleet) ReportVehicle(ctx context.Context, actor models.Actor, vehicleID string, from, to time.Time) (*fleet.VehicleReport, error) {
	args := m.Called(ctx, actor, vehicleID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.VehicleReport), args.Error(1)
}

func (m *MockFleet) CreateDriver(ctx context.Context, actor models.Actor, in fleet.DriverInput) (*models.Driver, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockFleet) ListDrivers(ctx context.Context, actor models.Actor) ([]models.Driver, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Driver), args.Error(1)
}

func (m *MockFleet) StartRoute(ctx context.Context, actor models.Actor, in fleet.StartRouteInput) (*models.Route, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Route), args.Error(1)
}

func (m *MockFleet) FinishRoute(ctx context.Context, actor models.Actor, id string, in fleet.FinishRouteInput) (*models.Route, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Route), args.Error(1)
}

func (m *MockFleet) CancelRoute(ctx context.Context, actor models.Actor, id string, in fleet.CancelRouteInput) (*models.Route, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Route), args.Error(1)
}

func (m *MockFleet) DeleteRoute(ctx context.Context, actor models.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockFleet) ListRoutes(ctx context.Context, actor models.Actor, f fleet.ListFilter) ([]models.Route, error) {
	args := m.Called(ctx, actor, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Route), args.Error(1)
}

func (m *MockFleet) StartMaintenance(ctx context.Context, actor models.Actor, in fleet.StartMaintenanceInput) (*models.Maintenance, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Maintenance), args.Error(1)
}

func (m *MockFleet) FinishMaintenance(ctx context.Context, actor models.Actor, id string, in fleet.FinishMaintenanceInput) (*models.Maintenance, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Maintenance), args.Error(1)
}

func (m *MockFleet) DeleteMaintenance(ctx context.Context, actor models.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockFleet) ListMaintenances(ctx context.Context, actor models.Actor, f fleet.ListFilter) ([]models.Maintenance, error) {
	args := m.Called(ctx, actor, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Maintenance), args.Error(1)
}

func (m *MockFleet) RecordRefueling(ctx context.Context, actor models.Actor, in fleet.RefuelingInput) (*models.Refueling, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Refueling), args.Error(1)
}

func (m *MockFleet) DeleteRefueling(ctx context.Context, actor models.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockFleet) ListRefuelings(ctx context.Context, actor models.Actor, f fleet.ListFilter) ([]models.Refueling, error) {
	args := m.Called(ctx, actor, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Refueling), args.Error(1)
}

func (m *MockFleet) CloseMonth(ctx context.Context, actor models.Actor, year, month int) (*models.MonthlySummary, error) {
	args := m.Called(ctx, actor, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlySummary), args.Error(1)
}

func (m *MockFleet) CloseCurrentMonth(ctx context.Context, actor models.Actor) (*models.MonthlySummary, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlySummary), args.Error(1)
}

func (m *MockFleet) GetSummary(ctx context.Context, monthKey string) (*models.MonthlySummary, error) {
	args := m.Called(ctx, monthKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlySummary), args.Error(1)
}

func (m *MockFleet) ListSummaries(ctx context.Context) ([]models.MonthlySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonthlySummary), args.Error(1)
}

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

// tokenResolver maps bearer headers to fixed actors.
type tokenResolver map[string]*models.Actor

func (t tokenResolver) Resolve(_ context.Context, authHeader string) (*models.Actor, error) {
	if a, ok := t[authHeader]; ok {
		return a, nil
	}
	return nil, errInvalidTestToken
}

func (m *MockFleet) Dashboard(ctx context.Context, actor models.Actor) (*fleet.Dashboard, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Dashboard), args.Error(1)
}
