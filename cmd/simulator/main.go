package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

var vehicleModels = []string{
	"Fiat Fiorino", "Fiat Strada", "Renault Kangoo", "VW Saveiro", "Chevrolet Montana", "Peugeot Partner",
}

var places = []string{
	"Loja Centro", "Loja Norte", "CD Guarulhos", "Cliente Moema", "Cliente Pinheiros", "Oficina Parceira", "Porto Seco",
}

var maintenanceTypes = []string{"revisao", "troca de oleo", "pneus", "freios", "alinhamento"}

// apiClient talks to the fleet API with a bearer token.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

// apiError carries the status and message of a rejected call.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func (c *apiClient) authorizedRequest(method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &apiError{Status: resp.StatusCode, Message: payload.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *apiClient) login(username, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.authorizedRequest(http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	c.token = resp.Token
	return nil
}

// VehicleState is what the simulator remembers about one vehicle.
type VehicleState struct {
	VehicleID string
	DriverID  string
	Plate     string
	Km        float64
}

func randomPlate(rng *rand.Rand) string {
	letters := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte('A' + rng.Intn(26))
		}
		return string(b)
	}
	return fmt.Sprintf("%s%d%s%02d", letters(3), rng.Intn(10), letters(1), rng.Intn(100))
}

func roundKm(v float64) float64 {
	return math.Round(v*10) / 10
}

func createVehicle(c *apiClient, rng *rand.Rand) (*VehicleState, error) {
	km := roundKm(10000 + rng.Float64()*70000)
	in := map[string]interface{}{
		"plate":     randomPlate(rng),
		"model":     vehicleModels[rng.Intn(len(vehicleModels))],
		"currentKm": km,
	}
	var out struct {
		ID    string `json:"id"`
		Plate string `json:"plate"`
	}
	if err := c.authorizedRequest(http.MethodPost, "/vehicles", in, &out); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("invalid vehicle ID in response")
	}

	log.WithFields(log.Fields{
		"vehicle_id": out.ID,
		"plate":      out.Plate,
		"km":         km,
	}).Info("Created vehicle")
	return &VehicleState{VehicleID: out.ID, Plate: out.Plate, Km: km}, nil
}

func createDriver(c *apiClient, name string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.authorizedRequest(http.MethodPost, "/drivers", map[string]string{"name": name}, &out); err != nil {
		return "", fmt.Errorf("failed to create driver: %w", err)
	}
	return out.ID, nil
}

// runCycle drives one vehicle through a route and, now and then, a
// refueling or a maintenance stop.
func runCycle(c *apiClient, s *VehicleState, rng *rand.Rand) error {
	origin := places[rng.Intn(len(places))]
	destination := places[rng.Intn(len(places))]

	var route struct {
		ID      string  `json:"id"`
		StartKm float64 `json:"startKm"`
	}
	err := c.authorizedRequest(http.MethodPost, "/routes", map[string]interface{}{
		"vehicleId": s.VehicleID,
		"driverId":  s.DriverID,
		"origem":    origin,
		"destino":   destination,
	}, &route)
	if err != nil {
		return fmt.Errorf("start route: %w", err)
	}
	if route.StartKm > 0 {
		s.Km = route.StartKm
	}

	// one in ten trips is aborted
	if rng.Float64() < 0.1 {
		err := c.authorizedRequest(http.MethodPost, "/routes/"+route.ID+"/cancel", map[string]string{
			"reason": "viagem abortada",
		}, nil)
		if err != nil {
			return fmt.Errorf("cancel route: %w", err)
		}
		log.WithFields(log.Fields{"vehicle_id": s.VehicleID, "route_id": route.ID}).Info("Cancelled route")
		return nil
	}

	endKm := roundKm(s.Km + 5 + rng.Float64()*120)
	err = c.authorizedRequest(http.MethodPost, "/routes/"+route.ID+"/finish", map[string]interface{}{
		"endKm": endKm,
	}, nil)
	if err != nil {
		return fmt.Errorf("finish route: %w", err)
	}
	log.WithFields(log.Fields{
		"vehicle_id":  s.VehicleID,
		"route_id":    route.ID,
		"distance_km": roundKm(endKm - s.Km),
	}).Info("Finished route")
	s.Km = endKm

	if rng.Float64() < 0.3 {
		liters := math.Round((20+rng.Float64()*40)*100) / 100
		price := math.Round((5.5+rng.Float64())*100) / 100
		err := c.authorizedRequest(http.MethodPost, "/refuelings", map[string]interface{}{
			"vehicleId":  s.VehicleID,
			"odometerKm": s.Km,
			"liters":     liters,
			"pricePerL":  price,
		}, nil)
		if err != nil {
			return fmt.Errorf("refuel: %w", err)
		}
		log.WithFields(log.Fields{"vehicle_id": s.VehicleID, "liters": liters}).Info("Refueled")
	}

	if rng.Float64() < 0.05 {
		var m struct {
			ID string `json:"id"`
		}
		err := c.authorizedRequest(http.MethodPost, "/maintenances", map[string]interface{}{
			"vehicleId":  s.VehicleID,
			"odometerKm": s.Km,
			"cost":       math.Round((150+rng.Float64()*1350)*100) / 100,
			"type":       maintenanceTypes[rng.Intn(len(maintenanceTypes))],
		}, &m)
		if err != nil {
			return fmt.Errorf("start maintenance: %w", err)
		}
		err = c.authorizedRequest(http.MethodPost, "/maintenances/"+m.ID+"/finish", map[string]interface{}{
			"endKm": s.Km,
		}, nil)
		if err != nil {
			return fmt.Errorf("finish maintenance: %w", err)
		}
		log.WithFields(log.Fields{"vehicle_id": s.VehicleID, "maintenance_id": m.ID}).Info("Serviced vehicle")
	}
	return nil
}

func simulateVehicle(ctx context.Context, c *apiClient, s *VehicleState, interval time.Duration, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if err := runCycle(c, s, rng); err != nil {
				log.WithError(err).WithField("vehicle_id", s.VehicleID).Error("Cycle failed")
			}
		}
	}
}

func getEnvInt(key string, def, min int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= min {
			return n
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	fleetSize := getEnvInt("FLEET_SIZE", 5, 1)
	apiURL := getEnv("API_BASE_URL", "http://localhost:8081/api")
	interval := time.Duration(getEnvInt("SIM_TICK_SECONDS", 5, 1)) * time.Second

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"interval":   interval,
	}).Info("Starting fleet simulation")

	client := newAPIClient(apiURL)
	if err := client.login(getEnv("SIM_USERNAME", "admin"), os.Getenv("SIM_PASSWORD")); err != nil {
		log.WithError(err).Fatal("Simulator needs an admin account")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	driverID, err := createDriver(client, "Motorista Simulado")
	if err != nil {
		log.WithError(err).Fatal("Failed to create driver")
	}

	states := make([]*VehicleState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		state, err := createVehicle(client, rng)
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		state.DriverID = driverID
		states = append(states, state)
	}

	log.WithField("created_vehicles", len(states)).Info("Vehicle creation completed")
	if len(states) == 0 {
		log.Error("No vehicles created. Ensure the API is reachable. Exiting.")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for _, s := range states {
		wg.Add(1)
		go func(s *VehicleState, seed int64) {
			defer wg.Done()
			simulateVehicle(ctx, client, s, interval, seed)
		}(s, rng.Int63())
	}

	log.Info("Fleet simulation started")
	wg.Wait()
	log.Info("Fleet simulation stopped")
}
