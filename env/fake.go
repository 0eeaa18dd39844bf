package env

import (
	"context"
	"fmt"

	"monks.co/zreplicate/logger"
	"monks.co/zreplicate/model"
)

var _ System = &Fake{}

// Fake is a System with fixed answers that records the calls made to it.
type Fake struct {
	Snapshots []string

	// Pools lists the imported pools.
	Pools []string

	// Fail makes the named call ("create", "full", "incremental") fail
	// for the given destination dataset.
	Fail map[string]model.DatasetName

	Calls []string
}

func (f *Fake) ListSnapshots(ctx context.Context, logger logger.Logger) ([]string, error) {
	f.Calls = append(f.Calls, "list")
	return f.Snapshots, nil
}

func (f *Fake) IsPoolImported(ctx context.Context, logger logger.Logger, pool string) (bool, error) {
	f.Calls = append(f.Calls, "status "+pool)
	for _, p := range f.Pools {
		if p == pool {
			return true, nil
		}
	}
	return false, nil
}

func (f *Fake) CreateDatasetTree(ctx context.Context, logger logger.Logger, dataset model.DatasetName) error {
	f.Calls = append(f.Calls, "create "+dataset.Path())
	return f.fail("create", dataset)
}

func (f *Fake) SendFull(ctx context.Context, logger logger.Logger, snapshot model.Snapshot, destination model.DatasetName) error {
	f.Calls = append(f.Calls, fmt.Sprintf("full %s %s", snapshot, destination))
	return f.fail("full", destination)
}

func (f *Fake) SendIncremental(ctx context.Context, logger logger.Logger, from, to model.Snapshot, destination model.DatasetName) error {
	f.Calls = append(f.Calls, fmt.Sprintf("incremental %s %s %s", from, to, destination))
	return f.fail("incremental", destination)
}

func (f *Fake) fail(call string, dataset model.DatasetName) error {
	if ds, ok := f.Fail[call]; ok && ds == dataset {
		return fmt.Errorf("fake %s failure on '%s'", call, dataset)
	}
	return nil
}
