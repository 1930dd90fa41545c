//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	migrations "houseboat/internal/migrations/mongo"
	quoteserrors "houseboat/internal/quotes/errors"
	"houseboat/internal/quotes/repository"
	"houseboat/pkg/client"
	"houseboat/pkg/config"
	"houseboat/pkg/logger"
	"houseboat/pkg/model"
	"houseboat/pkg/slot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Snapshot reads run in a transaction, so TEST_MONGO_URI must point at a
// replica set, e.g. mongodb://localhost:27017/?replicaSet=rs0.
func setupMongo(t *testing.T) *config.Config {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, mc.Ping(ctx, nil))

	dbName := fmt.Sprintf("houseboat_it_%d", time.Now().UnixNano())
	log := logger.Discard()
	require.NoError(t, migrations.RunMigration(ctx, mc, dbName, log))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mc.Database(dbName).Drop(ctx); err != nil {
			t.Logf("warning: failed to drop %s: %v", dbName, err)
		}
		_ = mc.Disconnect(ctx)
	})

	return &config.Config{
		MongoDatabaseName: dbName,
		MongoQueryTimeout: 5 * time.Second,
		Client:            &client.Client{Mongo: mc},
		Log:               log,
	}
}

func at(t *testing.T, s string) slot.Instant {
	t.Helper()
	i, err := slot.Parse(s)
	require.NoError(t, err)
	return i
}

func seed(t *testing.T, cfg *config.Config) {
	t.Helper()
	ctx := context.Background()
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	insert := func(coll string, docs ...any) {
		_, err := db.Collection(coll).InsertMany(ctx, docs)
		require.NoError(t, err, "seeding %s", coll)
	}

	insert(repository.ClassesCollection,
		model.ResourceClass{ID: "cabin", Name: "Cabin", Rates: &model.NightlyRates{Weekday: 15000, Weekend: 20000}},
		model.ResourceClass{ID: "mini", Name: "Mini"},
	)
	insert(repository.UnitsCollection,
		model.ResourceUnit{ID: "cabin-1", ClassID: "cabin", OptimalCapacity: 4, MaxCapacity: 6},
		model.ResourceUnit{ID: "cabin-2", ClassID: "cabin", OptimalCapacity: 4, MaxCapacity: 6},
		model.ResourceUnit{ID: "mini-1", ClassID: "mini", OptimalCapacity: 2, MaxCapacity: 2},
	)
	insert(repository.ReservationsCollection,
		model.Reservation{ID: "r-overlap", UnitID: "cabin-1", Start: at(t, "2025-06-10:PM"), End: at(t, "2025-06-12:AM"), Status: model.StatusConfirmed},
		model.Reservation{ID: "r-touch", UnitID: "cabin-1", Start: at(t, "2025-06-14:AM"), End: at(t, "2025-06-16:AM"), Status: model.StatusPending},
		model.Reservation{ID: "r-cancelled", UnitID: "cabin-2", Start: at(t, "2025-06-11:AM"), End: at(t, "2025-06-13:AM"), Status: model.StatusCancelled},
		model.Reservation{ID: "r-service", UnitID: "mini-1", Start: at(t, "2025-06-12:AM"), End: at(t, "2025-06-13:PM"), Status: model.StatusMaintenance},
	)
	insert(repository.ExtrasCollection,
		model.Extra{ID: "fuel", Price: 1000, Mode: model.PerDay},
	)
	insert(repository.SeasonsCollection,
		model.TariffSeason{ID: "summer", Name: "Summer", Periods: []model.SeasonPeriod{{StartMonth: 6, StartDay: 1, EndMonth: 9, EndDay: 30}}},
	)
}

func TestLoadSnapshot(t *testing.T) {
	cfg := setupMongo(t)
	seed(t, cfg)
	repo := repository.NewMongoFleetRepository(cfg)

	horizon := slot.Interval{Start: at(t, "2025-06-11:PM"), End: at(t, "2025-06-14:AM")}
	snap, err := repo.LoadSnapshot(context.Background(), horizon)
	require.NoError(t, err)

	assert.Len(t, snap.Classes, 2)
	assert.Len(t, snap.Units, 3)
	assert.Len(t, snap.Extras, 1)
	require.Len(t, snap.Seasons, 1)
	assert.Equal(t, "Summer", snap.Seasons[0].Name)
	require.NotNil(t, snap.Classes[0].Rates)
	assert.Equal(t, "cabin", snap.Classes[0].ID)

	ids := make([]string, 0, len(snap.Reservations))
	for _, r := range snap.Reservations {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"r-overlap", "r-service"}, ids,
		"touching and cancelled reservations stay out of the snapshot")
}

func TestFindUnit(t *testing.T) {
	cfg := setupMongo(t)
	seed(t, cfg)
	repo := repository.NewMongoFleetRepository(cfg)

	unit, err := repo.FindUnit(context.Background(), "cabin-2")
	require.NoError(t, err)
	assert.Equal(t, "cabin", unit.ClassID)

	_, err = repo.FindUnit(context.Background(), "ghost")
	assert.True(t, errors.Is(err, quoteserrors.ErrUnitNotFound))
}

func TestFindUnitReservations(t *testing.T) {
	cfg := setupMongo(t)
	seed(t, cfg)
	repo := repository.NewMongoFleetRepository(cfg)

	horizon := slot.Interval{Start: at(t, "2025-06-09:AM"), End: at(t, "2025-06-20:AM")}
	got, err := repo.FindUnitReservations(context.Background(), "cabin-1", horizon)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r-overlap", got[0].ID)
	assert.Equal(t, "r-touch", got[1].ID)
	assert.Equal(t, at(t, "2025-06-10:PM"), got[0].Start)
}

func TestMigration_RejectsInvalidDocuments(t *testing.T) {
	cfg := setupMongo(t)
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	_, err := db.Collection(repository.ReservationsCollection).InsertOne(context.Background(), map[string]any{
		"_id":     "bad",
		"unit_id": "cabin-1",
		"start":   "2025-06-10",
		"end":     "2025-06-12:AM",
		"status":  "confirmed",
	})
	assert.Error(t, err, "start without a slot suffix must fail schema validation")
}
