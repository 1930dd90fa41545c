package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"houseboat/internal/migrations/mongo/validators"
	"houseboat/internal/quotes/repository"
	"houseboat/pkg/logger"
)

var (
	UnitsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "class_id", Value: 1}}},
	}

	// The snapshot reader filters reservations by status and by a range on
	// start/end; the availability lookup adds unit_id.
	ReservationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "unit_id", Value: 1},
			{Key: "start", Value: 1},
			{Key: "end", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "start", Value: 1},
			{Key: "end", Value: 1},
		}},
	}

	ExtrasIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "class_ids", Value: 1}}},
	}
)

type CollectionDefinition struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDefinition {
	return map[string]CollectionDefinition{
		repository.ClassesCollection: {
			Validator: validators.ClassValidator,
		},
		repository.UnitsCollection: {
			Indexes:   UnitsIndexes,
			Validator: validators.UnitValidator,
		},
		repository.ReservationsCollection: {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		repository.ExtrasCollection: {
			Indexes:   ExtrasIndexes,
			Validator: validators.ExtraValidator,
		},
		repository.SeasonsCollection: {
			Validator: validators.SeasonValidator,
		},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
