package env

import (
	"context"
	"fmt"

	"monks.co/zreplicate/logger"
	"monks.co/zreplicate/model"
)

// System is everything zreplicate needs from the storage subsystem.
type System interface {
	// ListSnapshots returns every snapshot name, in no particular order.
	ListSnapshots(ctx context.Context, logger logger.Logger) ([]string, error)
	IsPoolImported(ctx context.Context, logger logger.Logger, pool string) (bool, error)

	// CreateDatasetTree creates dataset and its parents if needed.
	CreateDatasetTree(ctx context.Context, logger logger.Logger, dataset model.DatasetName) error
	SendFull(ctx context.Context, logger logger.Logger, snapshot model.Snapshot, destination model.DatasetName) error
	SendIncremental(ctx context.Context, logger logger.Logger, from, to model.Snapshot, destination model.DatasetName) error
}

// Apply carries out a planned action against the system. Actions that
// don't transfer anything are no-ops.
func Apply(ctx context.Context, sys System, logger logger.Logger, action model.Action) error {
	switch op := action.(type) {

	case *model.IncrementalTransfer:
		logger.Printf("Sending incremental backup for %s -> %s ...", op.From, op.To)
		if err := sys.SendIncremental(ctx, logger, op.From, op.To, op.Destination); err != nil {
			return err
		}
		logger.Printf("Incremental backup finished successfully!")
		return nil

	case *model.FullTransfer:
		logger.Printf("Creating backup dataset hierarchy for %s (if needed) ...", op.Destination)
		if err := sys.CreateDatasetTree(ctx, logger, op.Destination); err != nil {
			return err
		}
		logger.Printf("Sending full backup for %s ...", op.Snapshot)
		if err := sys.SendFull(ctx, logger, op.Snapshot, op.Destination); err != nil {
			return err
		}
		logger.Printf("Full backup finished successfully!")
		return nil

	case *model.UpToDate, *model.ConflictSkip, *model.NoSourceSnapshots:
		return nil

	default:
		return fmt.Errorf("unsupported action '%s'", action)
	}
}
