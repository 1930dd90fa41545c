package quotectl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"houseboat/internal/quotes/repository"
	"houseboat/pkg/config"
	"houseboat/pkg/engine"
	"houseboat/pkg/model"
	"houseboat/pkg/slot"
)

// readSnapshotFile decodes a JSON fleet snapshot with the same field names
// the API uses.
func readSnapshotFile(path string) (*model.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap model.Snapshot
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// loadSnapshot reads the fleet from path, or from MongoDB when path is empty.
// Either way the snapshot is validated before use.
func loadSnapshot(ctx context.Context, cfg *config.Config, eng *engine.Engine, path string, horizon slot.Interval) (*model.Snapshot, error) {
	var (
		snap *model.Snapshot
		err  error
	)
	if path != "" {
		snap, err = readSnapshotFile(path)
	} else {
		cfg.SetMongo()
		defer cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
		snap, err = repository.NewMongoFleetRepository(cfg).LoadSnapshot(ctx, horizon)
	}
	if err != nil {
		return nil, err
	}
	if err := eng.ValidateSnapshot(snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return snap, nil
}
