package fleet

import (
	"context"
	"sort"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory record store implementing every collection.
type memStore struct {
	mu           sync.Mutex
	vehicles     map[string]models.Vehicle
	drivers      map[string]models.Driver
	routes       map[string]models.Route
	refuelings   map[string]models.Refueling
	maintenances map[string]models.Maintenance
	summaries    map[string]models.MonthlySummary
	txCalls      int
}

func newMemStore() *memStore {
	return &memStore{
		vehicles:     map[string]models.Vehicle{},
		drivers:      map[string]models.Driver{},
		routes:       map[string]models.Route{},
		refuelings:   map[string]models.Refueling{},
		maintenances: map[string]models.Maintenance{},
		summaries:    map[string]models.MonthlySummary{},
	}
}

func (m *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txCalls++
	m.mu.Unlock()
	return fn(ctx)
}

func newID() (primitive.ObjectID, string) {
	oid := primitive.NewObjectID()
	return oid, oid.Hex()
}

func (m *memStore) InsertVehicle(_ context.Context, v models.Vehicle) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, id := newID()
	v.ID = oid
	m.vehicles[id] = v
	return id, nil
}

func (m *memStore) FindVehicleByID(_ context.Context, id string) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &v, nil
}

func (m *memStore) FindVehicles(_ context.Context, f db.VehicleFilter) ([]models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Vehicle{}
	for _, v := range m.vehicles {
		if f.ResponsibleUserID != "" && !v.IsResponsible(f.ResponsibleUserID) {
			continue
		}
		if f.StoreID != "" && v.StoreID != f.StoreID {
			continue
		}
		if f.ActiveOnly && !v.Active {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out, nil
}

func (m *memStore) UpdateVehicle(_ context.Context, id string, p db.VehiclePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return db.ErrNotFound
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
	if p.CurrentKm != nil {
		km := *p.CurrentKm
		v.CurrentKm = &km
	}
	m.vehicles[id] = v
	return nil
}

func (m *memStore) ClaimForRoute(_ context.Context, id string, km float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return db.ErrNotFound
	}
	if v.Busy() {
		return db.ErrConflict
	}
	v.Status = models.VehicleOnRoute
	v.CurrentKm = &km
	m.vehicles[id] = v
	return nil
}

func (m *memStore) InsertDriver(_ context.Context, d models.Driver) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, id := newID()
	d.ID = oid
	m.drivers[id] = d
	return id, nil
}

func (m *memStore) FindDriverByID(_ context.Context, id string) (*models.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &d, nil
}

func (m *memStore) FindDrivers(_ context.Context, f db.DriverFilter) ([]models.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Driver{}
	for _, d := range m.drivers {
		if f.StoreID != "" && d.StoreID != f.StoreID {
			continue
		}
		if f.ActiveOnly && !d.Active {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) InsertRoute(_ context.Context, r models.Route) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, id := newID()
	r.ID = oid
	m.routes[id] = r
	return id, nil
}

func (m *memStore) FindRouteByID(_ context.Context, id string) (*models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.routes[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) FindRoutes(_ context.Context, f db.RouteFilter) ([]models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Route{}
	for _, r := range m.routes {
		if f.VehicleID != "" && r.VehicleID != f.VehicleID {
			continue
		}
		if f.ResponsibleUserID != "" && r.ResponsibleUserID != f.ResponsibleUserID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if !f.Period.Contains(r.ReferenceDate()) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })
	return out, nil
}

func (m *memStore) UpdateRoute(_ context.Context, r models.Route, from models.RouteStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := r.ID.Hex()
	cur, ok := m.routes[id]
	if !ok || cur.Status != from {
		return db.ErrConflict
	}
	m.routes[id] = r
	return nil
}

func (m *memStore) DeleteRoute(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.routes, id)
	return nil
}

func (m *memStore) InsertRefueling(_ context.Context, r models.Refueling) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, id := newID()
	r.ID = oid
	m.refuelings[id] = r
	return id, nil
}

func (m *memStore) FindRefuelingByID(_ context.Context, id string) (*models.Refueling, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.refuelings[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) FindRefuelings(_ context.Context, f db.RefuelingFilter) ([]models.Refueling, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Refueling{}
	for _, r := range m.refuelings {
		if f.VehicleID != "" && r.VehicleID != f.VehicleID {
			continue
		}
		if f.ResponsibleUserID != "" && r.ResponsibleUserID != f.ResponsibleUserID {
			continue
		}
		if !f.Period.Contains(r.Date) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memStore) DeleteRefueling(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.refuelings[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.refuelings, id)
	return nil
}

func (m *memStore) InsertMaintenance(_ context.Context, mt models.Maintenance) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, id := newID()
	mt.ID = oid
	m.maintenances[id] = mt
	return id, nil
}

func (m *memStore) FindMaintenanceByID(_ context.Context, id string) (*models.Maintenance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt, ok := m.maintenances[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &mt, nil
}

func (m *memStore) FindMaintenances(_ context.Context, f db.MaintenanceFilter) ([]models.Maintenance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Maintenance{}
	for _, mt := range m.maintenances {
		if f.VehicleID != "" && mt.VehicleID != f.VehicleID {
			continue
		}
		if f.ResponsibleUserID != "" && mt.ResponsibleUserID != f.ResponsibleUserID {
			continue
		}
		if f.Status != "" && mt.Status != f.Status {
			continue
		}
		if !f.Period.Contains(mt.Date) {
			continue
		}
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memStore) UpdateMaintenance(_ context.Context, mt models.Maintenance, from models.MaintenanceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := mt.ID.Hex()
	cur, ok := m.maintenances[id]
	if !ok || cur.Status != from {
		return db.ErrConflict
	}
	m.maintenances[id] = mt
	return nil
}

func (m *memStore) DeleteMaintenance(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.maintenances[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.maintenances, id)
	return nil
}

func (m *memStore) UpsertSummary(_ context.Context, s models.MonthlySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[s.MonthKey] = s
	return nil
}

func (m *memStore) FindSummary(_ context.Context, key string) (*models.MonthlySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.summaries[key]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) FindSummaries(_ context.Context) ([]models.MonthlySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.MonthlySummary{}
	for _, s := range m.summaries {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthKey > out[j].MonthKey })
	return out, nil
}

// MockVehicles injects vehicle collection failures.
type MockVehicles struct {
	mock.Mock
}

func (m *MockVehicles) InsertVehicle(ctx context.Context, v models.Vehicle) (string, error) {
	args := m.Called(ctx, v)
	return args.String(0), args.Error(1)
}

func (m *MockVehicles) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicles) FindVehicles(ctx context.Context, f db.VehicleFilter) ([]models.Vehicle, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicles) UpdateVehicle(ctx context.Context, id string, p db.VehiclePatch) error {
	return m.Called(ctx, id, p).Error(0)
}

func (m *MockVehicles) ClaimForRoute(ctx context.Context, id string, km float64) error {
	return m.Called(ctx, id, km).Error(0)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e models.Event) error {
	return m.Called(ctx, e).Error(0)
}

var (
	admin = models.Actor{ID: "admin-1", Name: "Admin", Role: models.RoleAdmin, StoreID: "loja-1"}
	ana   = models.Actor{ID: "user-ana", Name: "Ana", Role: models.RoleUser, StoreID: "loja-1"}
	bruno = models.Actor{ID: "user-bruno", Name: "Bruno", Role: models.RoleUser, StoreID: "loja-1"}
)

// fixedNow is inside March 2024 in America/Sao_Paulo.
var fixedNow = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

func newTestService(store *memStore) (*Service, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	svc := NewService(Dependencies{
		Vehicles:     store,
		Drivers:      store,
		Routes:       store,
		Refuelings:   store,
		Maintenances: store,
		Summaries:    store,
		Tx:           store,
		Logger:       logger,
		Location:     loc,
		Now:          func() time.Time { return fixedNow },
	})
	return svc, hook
}

// seedVehicle stores a vehicle at km owned by ana.
func seedVehicle(store *memStore, km float64, status models.VehicleStatus) string {
	id, _ := store.InsertVehicle(context.Background(), models.Vehicle{
		Plate:             "ABC1D23",
		Model:             "Fiorino",
		StoreID:           "loja-1",
		Status:            status,
		CurrentKm:         &km,
		ResponsibleUserID: ana.ID,
		Active:            true,
	})
	return id
}

func seedDriver(store *memStore) string {
	id, _ := store.InsertDriver(context.Background(), models.Driver{Name: "Carlos", StoreID: "loja-1", Active: true})
	return id
}
