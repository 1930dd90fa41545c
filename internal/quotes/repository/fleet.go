package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	quoteserrors "houseboat/internal/quotes/errors"
	"houseboat/pkg/config"
	mongotx "houseboat/pkg/db/mongo"
	"houseboat/pkg/model"
	"houseboat/pkg/slot"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ClassesCollection      = "classes"
	UnitsCollection        = "units"
	ReservationsCollection = "reservations"
	ExtrasCollection       = "extras"
	SeasonsCollection      = "tariff_seasons"
)

type FleetRepository interface {
	// LoadSnapshot reads the whole catalog plus the blocking reservations
	// overlapping horizon, all at one point in time.
	LoadSnapshot(ctx context.Context, horizon slot.Interval) (*model.Snapshot, error)
	FindUnit(ctx context.Context, id string) (*model.ResourceUnit, error)
	FindUnitReservations(ctx context.Context, unitID string, horizon slot.Interval) ([]model.Reservation, error)
	FindSeasons(ctx context.Context) ([]model.TariffSeason, error)

	ExecuteSnapshotRead(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoFleetRepository struct {
	cfg          *config.Config
	db           *mongo.Database
	classes      *mongo.Collection
	units        *mongo.Collection
	reservations *mongo.Collection
	extras       *mongo.Collection
	seasons      *mongo.Collection
	txManager    mongotx.TransactionManager
}

func NewMongoFleetRepository(cfg *config.Config) FleetRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFleetRepository{
		cfg:          cfg,
		db:           db,
		classes:      db.Collection(ClassesCollection),
		units:        db.Collection(UnitsCollection),
		reservations: db.Collection(ReservationsCollection),
		extras:       db.Collection(ExtrasCollection),
		seasons:      db.Collection(SeasonsCollection),
		txManager:    mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless it is a SessionContext,
// which cannot be wrapped without leaving the transaction.
func (r *mongoFleetRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

// overlapFilter selects the blocking reservations that intersect horizon.
// Instants are stored in their sortable text form, so a string range is an
// interval test.
func overlapFilter(horizon slot.Interval) bson.M {
	return bson.M{
		"status": bson.M{"$ne": model.StatusCancelled},
		"start":  bson.M{"$lt": horizon.End.String()},
		"end":    bson.M{"$gt": horizon.Start.String()},
	}
}

func (r *mongoFleetRepository) LoadSnapshot(ctx context.Context, horizon slot.Interval) (*model.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	snap := &model.Snapshot{}
	err := r.txManager.ExecuteSnapshotRead(ctx, func(sessCtx mongo.SessionContext) error {
		// the transaction may retry; start from an empty snapshot each time
		*snap = model.Snapshot{}
		if err := findAll(sessCtx, r.classes, bson.M{}, &snap.Classes, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})); err != nil {
			return fmt.Errorf("failed to read classes: %w", err)
		}
		if err := findAll(sessCtx, r.units, bson.M{}, &snap.Units, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})); err != nil {
			return fmt.Errorf("failed to read units: %w", err)
		}
		if err := findAll(sessCtx, r.reservations, overlapFilter(horizon), &snap.Reservations, nil); err != nil {
			return fmt.Errorf("failed to read reservations: %w", err)
		}
		if err := findAll(sessCtx, r.extras, bson.M{}, &snap.Extras, nil); err != nil {
			return fmt.Errorf("failed to read extras: %w", err)
		}
		if err := findAll(sessCtx, r.seasons, bson.M{}, &snap.Seasons, nil); err != nil {
			return fmt.Errorf("failed to read tariff seasons: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", quoteserrors.ErrSnapshotUnavailable, err)
	}
	return snap, nil
}

func (r *mongoFleetRepository) FindUnit(ctx context.Context, id string) (*model.ResourceUnit, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	var unit model.ResourceUnit
	err := r.units.FindOne(ctx, bson.M{"_id": id}).Decode(&unit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", quoteserrors.ErrUnitNotFound, id)
		}
		return nil, fmt.Errorf("failed to find unit: %w", err)
	}
	return &unit, nil
}

func (r *mongoFleetRepository) FindUnitReservations(ctx context.Context, unitID string, horizon slot.Interval) ([]model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	filter := overlapFilter(horizon)
	filter["unit_id"] = unitID

	var out []model.Reservation
	if err := findAll(ctx, r.reservations, filter, &out, options.Find().SetSort(bson.D{{Key: "start", Value: 1}})); err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	return out, nil
}

func (r *mongoFleetRepository) FindSeasons(ctx context.Context) ([]model.TariffSeason, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	var out []model.TariffSeason
	if err := findAll(ctx, r.seasons, bson.M{}, &out, nil); err != nil {
		return nil, fmt.Errorf("failed to find tariff seasons: %w", err)
	}
	return out, nil
}

func (r *mongoFleetRepository) ExecuteSnapshotRead(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteSnapshotRead(ctx, fn)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, out *[]T, opts *options.FindOptions) error {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cursor, err := coll.Find(ctx, filter, findOpts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}
