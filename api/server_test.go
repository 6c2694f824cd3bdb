package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phamvd/haulbid-BE/internal/db"
	"github.com/phamvd/haulbid-BE/internal/event"
	"github.com/phamvd/haulbid-BE/internal/locator"
	"github.com/phamvd/haulbid-BE/internal/util"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubStore là hiện thực db.Store trong bộ nhớ cho handler test.
type stubStore struct {
	vehicles map[uuid.UUID]db.Vehicle
	bids     map[uuid.UUID][]db.Bid

	placeBidTxFunc func(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error)
	getVehicleErr  error
}

func newStubStore() *stubStore {
	return &stubStore{
		vehicles: make(map[uuid.UUID]db.Vehicle),
		bids:     make(map[uuid.UUID][]db.Bid),
	}
}

func (s *stubStore) CreateVehicle(ctx context.Context, arg db.CreateVehicleParams) (db.Vehicle, error) {
	vehicle := db.Vehicle{
		ID:        arg.ID,
		Make:      arg.Make,
		Model:     arg.Model,
		Year:      arg.Year,
		BodyStyle: arg.BodyStyle,
		CountryA:  arg.CountryA,
		CityA:     arg.CityA,
		CountryB:  arg.CountryB,
		CityB:     arg.CityB,
	}
	s.vehicles[arg.ID] = vehicle
	return vehicle, nil
}

func (s *stubStore) GetVehicleByID(ctx context.Context, id uuid.UUID) (db.Vehicle, error) {
	if s.getVehicleErr != nil {
		return db.Vehicle{}, s.getVehicleErr
	}
	vehicle, ok := s.vehicles[id]
	if !ok {
		return db.Vehicle{}, db.ErrRecordNotFound
	}
	return vehicle, nil
}

func (s *stubStore) ListVehicles(ctx context.Context) ([]db.Vehicle, error) {
	vehicles := []db.Vehicle{}
	for _, v := range s.vehicles {
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func (s *stubStore) UpdateVehicle(ctx context.Context, arg db.UpdateVehicleParams) (db.Vehicle, error) {
	vehicle, ok := s.vehicles[arg.ID]
	if !ok {
		return db.Vehicle{}, db.ErrRecordNotFound
	}
	if arg.Make != nil {
		vehicle.Make = *arg.Make
	}
	if arg.Model != nil {
		vehicle.Model = *arg.Model
	}
	s.vehicles[arg.ID] = vehicle
	return vehicle, nil
}

func (s *stubStore) ListBidsByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]db.Bid, error) {
	return append([]db.Bid{}, s.bids[vehicleID]...), nil
}

func (s *stubStore) PlaceBidTx(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error) {
	if s.placeBidTxFunc != nil {
		return s.placeBidTxFunc(ctx, arg)
	}
	return db.PlaceBidTxResult{}, db.ErrRecordNotFound
}

func (s *stubStore) Ping(ctx context.Context) error {
	return nil
}

func testDataset(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "worldcities.csv")
	content := `city,city_ascii,lat,lng,country
Rotterdam,Rotterdam,51.9200,4.4800,Netherlands
Gdańsk,Gdansk,54.3520,18.6466,Poland
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestServer(t *testing.T, store db.Store) *Server {
	t.Helper()

	config := &util.Config{
		AllowedOrigins:   []string{"http://localhost:3000"},
		StreamBufferSize: 8,
	}

	eventSender := event.NewSSEServer()
	go eventSender.Run()

	loc := locator.NewLocator(testDataset(t), nil)

	server, err := NewServer(store, config, eventSender, loc)
	require.NoError(t, err)
	return server
}
