package main

import (
	"context"
	"fmt"
	"time"

	"monks.co/zreplicate/config"
	"monks.co/zreplicate/db"
	"monks.co/zreplicate/env"
	"monks.co/zreplicate/logger"
	"monks.co/zreplicate/model"
	"monks.co/zreplicate/progress"
	"monks.co/zreplicate/snitch"
)

type Replicator struct {
	config     *config.Config
	sys        env.System
	history    *db.DB
	dryrun     bool
	globalLogs logger.Logger

	snitch func(ctx context.Context, id string) error
	now    func() time.Time
}

// NewReplicator returns a Replicator. history may be nil.
func NewReplicator(config *config.Config, sys env.System, history *db.DB, dryrun bool) *Replicator {
	return &Replicator{
		config:     config,
		sys:        sys,
		history:    history,
		dryrun:     dryrun,
		globalLogs: logger.New("global"),
		snitch:     snitch.OK,
		now:        time.Now,
	}
}

// Outcome is how one dataset's replication ended.
type Outcome struct {
	Action model.Action
	Err    error
	Logs   *progress.ProcessLogs
}

func (o *Outcome) Status() db.Status {
	switch o.Action.(type) {
	case *model.NoSourceSnapshots, *model.ConflictSkip:
		return db.StatusSkipped
	}
	if o.Err != nil {
		return db.StatusFailed
	}
	return db.StatusOK
}

// Preflight checks that every pool involved is imported and that no
// source dataset lives in the backup pool.
func (r *Replicator) Preflight(ctx context.Context) error {
	backupPool := r.config.BackupPool
	if err := r.checkImported(ctx, backupPool); err != nil {
		return err
	}

	for _, pool := range model.SourcePools(r.config.SourceDatasets()) {
		if pool == backupPool {
			return fmt.Errorf("'%s': %w", pool, model.ErrSourcePoolIsBackupPool)
		}
		if err := r.checkImported(ctx, pool); err != nil {
			return err
		}
	}
	return nil
}

func (r *Replicator) checkImported(ctx context.Context, pool string) error {
	imported, err := r.sys.IsPoolImported(ctx, r.globalLogs, pool)
	if err != nil {
		return fmt.Errorf("checking pool '%s': %w", pool, err)
	}
	if !imported {
		return fmt.Errorf("'%s': %w", pool, model.ErrPoolNotImported)
	}
	return nil
}

// Run replicates each configured dataset in order. It returns an error
// only for failures that stop the whole invocation; per-dataset failures
// are reported in the outcomes.
func (r *Replicator) Run(ctx context.Context) (*OrderedMap[model.DatasetName, *Outcome], error) {
	if err := r.Preflight(ctx); err != nil {
		return nil, err
	}

	raw, err := r.sys.ListSnapshots(ctx, r.globalLogs)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	population := model.ParseAll(raw)

	r.globalLogs.Printf("Backup Pool: %s", r.config.BackupPool)
	r.globalLogs.Printf("Label: %s", r.config.Label)
	r.globalLogs.Printf("Total Snapshots Count: %d", population.Len())
	if r.dryrun {
		r.globalLogs.Printf("[DRYRUN] nothing will be created or sent")
	}

	runAt := r.now()
	outcomes := NewOrderedMap[model.DatasetName, *Outcome]()
	for _, ds := range r.config.SourceDatasets() {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		if outcomes.Has(ds) {
			r.globalLogs.Printf("%s: already replicated in this run. Skipping.", ds)
			continue
		}

		outcome := r.replicateDataset(ctx, population, ds)
		outcomes.Set(ds, outcome)
		r.record(ctx, runAt, ds, outcome)
	}

	counts := map[db.Status]int{}
	for _, outcome := range outcomes.All() {
		counts[outcome.Status()]++
	}
	r.globalLogs.Printf("done: %d ok, %d skipped, %d failed",
		counts[db.StatusOK], counts[db.StatusSkipped], counts[db.StatusFailed])

	if counts[db.StatusFailed] == 0 && !r.dryrun && r.config.SnitchID != "" {
		r.globalLogs.Printf("alerting deadmanssnitch")
		if err := r.snitch(ctx, r.config.SnitchID); err != nil {
			r.globalLogs.Printf("snitch error: %v", err)
		} else {
			r.globalLogs.Printf("snitched success")
		}
	}

	return outcomes, nil
}

func (r *Replicator) replicateDataset(ctx context.Context, population *model.Snapshots, dataset model.DatasetName) *Outcome {
	logs := progress.NewProcessLogs()
	log := logs.Logger(dataset.Path())
	outcome := &Outcome{Logs: logs}

	rec := model.Reconcile(population, model.Coordinates{
		BackupPool: r.config.BackupPool,
		Source:     dataset,
		Label:      r.config.Label,
	})
	log.Printf("Source Snapshots Count: %d", rec.SourceLabeled.Len())
	log.Printf("Backup Snapshots Count: %d", rec.BackupLabeled.Len())

	outcome.Action = model.Plan(rec)

	latest, err := rec.Latest()
	if err != nil {
		log.Printf("%s. Skipping.", err)
		return outcome
	}
	log.Printf("Latest Snapshot: %s", latest)

	if rec.CommonAncestor != nil {
		log.Printf("Common Snapshot: %s", rec.CommonAncestor)
	} else {
		log.Printf("No common snapshot found.")
	}

	switch op := outcome.Action.(type) {
	case *model.UpToDate:
		log.Printf("You are already up to date!")
		return outcome
	case *model.ConflictSkip:
		log.Printf("Backup pool already contains (%d) snapshots for this dataset under a different label. Will not do a full send. Skipping.", op.ExistingCount)
		return outcome
	}

	if r.dryrun {
		log.Printf("[DRYRUN] Would %s", outcome.Action)
		return outcome
	}

	if err := env.Apply(ctx, r.sys, log, outcome.Action); err != nil {
		log.Printf("-- Error: %s", err)
		outcome.Err = fmt.Errorf("replicating '%s': %w", dataset, err)
	}
	return outcome
}

func (r *Replicator) record(ctx context.Context, runAt time.Time, dataset model.DatasetName, outcome *Outcome) {
	if r.history == nil {
		return
	}

	var detail string
	if outcome.Err != nil {
		detail = outcome.Err.Error()
	}
	if err := r.history.Record(ctx, db.Outcome{
		RunAt:      runAt,
		Dataset:    dataset.Path(),
		BackupPool: r.config.BackupPool,
		Label:      r.config.Label,
		Action:     outcome.Action.String(),
		Status:     outcome.Status(),
		Detail:     detail,
		Logs:       outcome.Logs.String(),
		DryRun:     r.dryrun,
	}); err != nil {
		r.globalLogs.Printf("history error: %v", err)
	}
}
